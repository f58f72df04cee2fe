/*
 * relax.go, part of gomd.
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation, either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package cli

import (
	"github.com/spf13/cobra"

	"github.com/rmera/gomd/relax"
)

func newRelaxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relax INPUT",
		Short: "Relax a structure to a local energy minimum",
		Long: `relax reads a structure (xyz, extxyz, pdb or cif), validates it against
the task domain and minimizes its energy with L-BFGS until the largest
force norm falls under --fmax or the step budget runs out. With
--relax-cell, on a periodic structure, the unit cell relaxes too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			req, err := buildRequest(cmd, conf, args[0])
			if err != nil {
				return err
			}
			def := relax.DefaultParams()
			p := &relax.Params{}
			p.Fmax, _ = cmd.Flags().GetFloat64("fmax")
			p.Steps, _ = cmd.Flags().GetInt("steps")
			p.MaxStep, _ = cmd.Flags().GetFloat64("maxstep")
			p.Memory, _ = cmd.Flags().GetInt("memory")
			p.Alpha, _ = cmd.Flags().GetFloat64("alpha")
			p.RelaxCell, _ = cmd.Flags().GetBool("relax-cell")
			if p.Alpha == 0 {
				p.Alpha = def.Alpha
			}
			req.Relax = p
			return submit(cmd, conf, req)
		},
	}
	addCommonFlags(cmd)
	def := relax.DefaultParams()
	cmd.Flags().Float64("fmax", def.Fmax, "Convergence threshold on the largest force norm, eV/A")
	cmd.Flags().Int("steps", def.Steps, "Maximum number of minimization steps")
	cmd.Flags().Float64("maxstep", def.MaxStep, "Largest per-atom displacement per step, A")
	cmd.Flags().Int("memory", def.Memory, "L-BFGS history length")
	cmd.Flags().Float64("alpha", def.Alpha, "Initial Hessian scale")
	cmd.Flags().Bool("relax-cell", false, "Relax the unit cell along with the positions")
	return cmd
}

/*
 * md.go, part of gomd.
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
	"time"

	"github.com/spf13/cobra"

	"github.com/rmera/gomd/dyn"
)

func newMDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "md INPUT",
		Short: "Integrate molecular dynamics on a structure",
		Long: `md reads a structure, validates it, optionally pre-relaxes it, draws
initial velocities from a Maxwell-Boltzmann distribution and integrates
velocity-Verlet dynamics, constant-energy (NVE) or thermostatted (NVT).
Frames are recorded every --frame-interval steps; the initial state is
always frame zero.`,
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
			ens, _ := cmd.Flags().GetString("ensemble")
			p := &dyn.Params{}
			if p.Ensemble, err = dyn.ParseEnsemble(ens); err != nil {
				return err
			}
			p.Timestep, _ = cmd.Flags().GetFloat64("timestep")
			p.Steps, _ = cmd.Flags().GetInt("steps")
			p.Temperature, _ = cmd.Flags().GetFloat64("temperature")
			p.Tdamp, _ = cmd.Flags().GetFloat64("tdamp")
			p.PreRelax, _ = cmd.Flags().GetInt("pre-relax")
			p.FrameInterval, _ = cmd.Flags().GetInt("frame-interval")
			p.LogInterval, _ = cmd.Flags().GetInt("log-interval")
			p.Seed, _ = cmd.Flags().GetUint64("seed")
			p.DoubleInitTemp, _ = cmd.Flags().GetBool("double-init-temp")
			//the seed is fixed here, not in the integrator, so the
			//reproduction script echoes the value actually used
			if p.Seed == 0 {
				p.Seed = uint64(time.Now().UnixNano())
			}
			req.MD = p
			return submit(cmd, conf, req)
		},
	}
	addCommonFlags(cmd)
	def := dyn.DefaultParams()
	cmd.Flags().String("ensemble", "NVE", "Statistical ensemble, NVE or NVT")
	cmd.Flags().Float64("timestep", def.Timestep, "Integration timestep, fs")
	cmd.Flags().Int("steps", def.Steps, "Number of integration steps")
	cmd.Flags().Float64("temperature", def.Temperature, "Initial (and, for NVT, target) temperature, K")
	cmd.Flags().Float64("tdamp", 0, "Thermostat relaxation time, fs; 0 for ten timesteps")
	cmd.Flags().Int("pre-relax", 0, "Relaxation step budget before dynamics, 0 to skip")
	cmd.Flags().Int("frame-interval", def.FrameInterval, "Record a frame every this many steps")
	cmd.Flags().Int("log-interval", def.LogInterval, "Log a thermodynamic row every this many steps")
	cmd.Flags().Uint64("seed", 0, "Velocity-draw random seed, 0 for one from the clock")
	cmd.Flags().Bool("double-init-temp", false, "Draw initial velocities at twice the target temperature")
	return cmd
}

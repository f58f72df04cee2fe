/*
 * report.go, part of gomd.
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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmera/gomd/internal/report"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report TRAJECTORY",
		Short: "Summarize a recorded trajectory and plot its time series",
		Long: `report reads an stf-family trajectory back from disk, prints mean and
spread of energy and temperature plus the total-energy drift, and,
unless --no-plots is given, writes energy and temperature PNG plots
next to the trajectory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := report.Read(args[0])
			if err != nil {
				return err
			}
			fmt.Println(report.Summarize(s))
			if noPlots, _ := cmd.Flags().GetBool("no-plots"); noPlots {
				return nil
			}
			stem := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			epng, _ := cmd.Flags().GetString("energy-plot")
			if epng == "" {
				epng = stem + "_energy.png"
			}
			if err := report.EnergyPlot(s, epng); err != nil {
				return err
			}
			fmt.Println("energy plot:", epng)
			tpng, _ := cmd.Flags().GetString("temperature-plot")
			if tpng == "" {
				tpng = stem + "_temperature.png"
			}
			if err := report.TemperaturePlot(s, tpng); err != nil {
				return err
			}
			fmt.Println("temperature plot:", tpng)
			return nil
		},
	}
	cmd.Flags().Bool("no-plots", false, "Print the summary only")
	cmd.Flags().String("energy-plot", "", "Energy plot output path")
	cmd.Flags().String("temperature-plot", "", "Temperature plot output path")
	return cmd
}

/*
 * root.go, part of gomd.
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

//Package cli is the gomd command line: relax and md submit runs, report
//digests a recorded trajectory, and runs browses the archive. Every
//flag a run accepts is echoed back in its reproduction script, so the
//two surfaces must stay in lockstep; the flag names here are the
//contract.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmera/gomd/internal/config"
)

var version = "0.1.0-dev"

//Execute runs the gomd command line and returns its exit code.
func Execute() int {
	root := &cobra.Command{
		Use:   "gomd",
		Short: "Molecular relaxation and dynamics against local or remote calculators",
		Long: `gomd validates a molecular or periodic structure, then relaxes it or
integrates its dynamics, recording every frame and a script that
reproduces the run. One simulation at a time holds the calculator;
concurrent submissions are rejected, not queued.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Path to the YAML configuration file")
	root.PersistentFlags().Bool("verbose", false, "Log operational detail to stderr while running")
	root.AddCommand(
		newRelaxCmd(),
		newMDCmd(),
		newReportCmd(),
		newRunsCmd(),
		newVersionCmd(),
	)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gomd version %s\n", version)
		},
	}
}

//loadConfig reads the configuration named by --config, or the
//defaults when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

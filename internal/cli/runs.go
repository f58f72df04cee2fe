/*
 * runs.go, part of gomd.
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
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmera/gomd/internal/store"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [ID]",
		Short: "Browse the archive of finished runs",
		Long: `runs lists the most recent archived runs, newest first. With an ID it
prints that run in full: parameters, captured log and the reproduction
script.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := store.Open(conf.StorePath)
			if err != nil {
				return err
			}
			defer db.Close()
			ctx := context.Background()
			if len(args) == 1 {
				r, err := db.Get(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("run %s (%s, %s)\n", r.ID, r.Kind, r.Task)
				fmt.Printf("  %s, %d atoms, %d steps, E = %.6f eV\n", r.Status, r.NAtoms, r.Steps, r.Energy)
				fmt.Printf("  created %s\n", r.Created.Local().Format(time.RFC1123))
				if r.TrajPath != "" {
					fmt.Println("  trajectory:", r.TrajPath)
				}
				if r.Params != "" {
					fmt.Println("  params:", r.Params)
				}
				if r.Log != "" {
					fmt.Println("log:")
					fmt.Println(r.Log)
				}
				if r.Script != "" {
					fmt.Println("reproduction script:")
					fmt.Print(r.Script)
				}
				return nil
			}
			n, _ := cmd.Flags().GetInt("limit")
			recs, err := db.Recent(ctx, n)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println("no archived runs")
				return nil
			}
			for _, r := range recs {
				fmt.Printf("%s  %-6s %-5s %-15s %5d atoms %7d steps  %s\n",
					r.Created.Local().Format("2006-01-02 15:04:05"), r.Kind, r.Task, r.Status, r.NAtoms, r.Steps, r.ID)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")
	return cmd
}

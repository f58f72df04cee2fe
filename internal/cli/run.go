/*
 * run.go, part of gomd.
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
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/calc"
	"github.com/rmera/gomd/internal/config"
	"github.com/rmera/gomd/internal/logging"
	"github.com/rmera/gomd/internal/store"
	"github.com/rmera/gomd/sim"
)

//the flags shared by relax and md; their names must match what the
//reproduction scripts emit
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("task", "omol", "Task domain: omol, omc, omat, oc20 or odac")
	cmd.Flags().String("backend", "", "Calculator backend, local or remote (default from the configuration)")
	cmd.Flags().Int("max-atoms", 0, "Atom-count cap, 0 for the configured default")
	cmd.Flags().String("traj", "", "Trajectory output path; the suffix picks the format (.extxyz, .stf, .stfz, .stfg, .stff)")
	cmd.Flags().String("endpoint", "", "Remote calculator endpoint URL")
	cmd.Flags().Duration("retry-initial", 0, "First retry delay against a failing remote")
	cmd.Flags().Float64("retry-growth", 0, "Retry delay growth factor")
	cmd.Flags().Int("retry-attempts", 0, "Total remote attempts, including the first")
	cmd.Flags().Duration("retry-elapsed", 0, "Total remote retry budget")
}

//buildCalculator picks and configures the backend: flags win over the
//configuration file.
func buildCalculator(cmd *cobra.Command, conf *config.Config) (calc.Calculator, error) {
	backend, _ := cmd.Flags().GetString("backend")
	if backend == "" {
		backend = conf.Backend
	}
	switch backend {
	case "local":
		return calc.NewLocal(calc.NewLennardJones()), nil
	case "remote":
		opts := conf.RemoteOptions()
		if v, _ := cmd.Flags().GetString("endpoint"); v != "" {
			opts.Endpoint = v
		}
		if v, _ := cmd.Flags().GetDuration("retry-initial"); v > 0 {
			opts.InitialInterval = v
		}
		if v, _ := cmd.Flags().GetFloat64("retry-growth"); v > 0 {
			opts.Multiplier = v
		}
		if v, _ := cmd.Flags().GetInt("retry-attempts"); v > 0 {
			opts.MaxAttempts = v
		}
		if v, _ := cmd.Flags().GetDuration("retry-elapsed"); v > 0 {
			opts.MaxElapsed = v
		}
		if opts.Endpoint == "" {
			return nil, md.NewError(md.ErrBackendUnavailable, "cli: the remote backend needs --endpoint or a configured endpoint", "buildCalculator")
		}
		return calc.NewRemote(opts), nil
	}
	return nil, md.NewError(nil, fmt.Sprintf("cli: unknown backend %q, use local or remote", backend), "buildCalculator")
}

//buildRequest reads the input structure and assembles the submission
//shared by both engines. The literal file content rides along for the
//reproduction script.
func buildRequest(cmd *cobra.Command, conf *config.Config, input string) (*sim.Request, error) {
	taskName, _ := cmd.Flags().GetString("task")
	task, err := md.ParseTask(taskName)
	if err != nil {
		return nil, err
	}
	s, err := md.ReadFile(input)
	if err != nil {
		return nil, err
	}
	if task == md.OMol && s.Spin == 0 {
		s.Spin = 1
	}
	source, err := os.ReadFile(input)
	if err != nil {
		return nil, md.Decorate(err, "buildRequest")
	}
	maxAtoms, _ := cmd.Flags().GetInt("max-atoms")
	if maxAtoms == 0 {
		maxAtoms = conf.MaxAtoms
	}
	trajPath, _ := cmd.Flags().GetString("traj")
	if trajPath == "" {
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		trajPath = filepath.Join(conf.OutputDir, stem+"_traj.stfz")
	}
	return &sim.Request{
		Structure:  s,
		Task:       task,
		TrajPath:   trajPath,
		MaxAtoms:   maxAtoms,
		SourceName: filepath.Base(input),
		Source:     source,
	}, nil
}

//submit runs the request to its terminal state, prints the outcome,
//writes the reproduction script and archives the run. Interrupts
//(Ctrl-C) cancel between steps; the partial trajectory survives.
func submit(cmd *cobra.Command, conf *config.Config, req *sim.Request) error {
	c, err := buildCalculator(cmd, conf)
	if err != nil {
		return err
	}
	var opts []sim.Option
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		opts = append(opts, sim.WithLogger(logging.NewLogger(conf.LogLevel, os.Stderr)))
	}
	runner := sim.NewRunner(c, opts...)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := runner.Run(ctx, req)
	if res == nil {
		return err
	}
	for _, line := range res.Log {
		fmt.Println(line)
	}
	fmt.Printf("run %s: %s after %d steps, %d frames, E = %.6f eV (%s)\n",
		res.ID, res.Status, res.Steps, len(res.Frames), res.Energy, res.Elapsed.Round(time.Millisecond))
	if res.TrajPath != "" {
		fmt.Println("trajectory:", res.TrajPath)
	}
	if res.Script != "" {
		script := filepath.Join(conf.OutputDir, res.ID+"_repro.sh")
		if werr := os.WriteFile(script, []byte(res.Script), 0755); werr == nil {
			fmt.Println("reproduction script:", script)
		} else {
			fmt.Fprintln(os.Stderr, "could not write the reproduction script:", werr)
		}
	}
	if aerr := archive(conf.StorePath, req, res); aerr != nil {
		fmt.Fprintln(os.Stderr, "could not archive the run:", aerr)
	}
	return err
}

//archive saves the terminal record in the run store.
func archive(path string, req *sim.Request, res *sim.Result) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	var params []byte
	if req.Relax != nil {
		params, _ = json.Marshal(req.Relax)
	} else {
		params, _ = json.Marshal(req.MD)
	}
	rec := &store.Record{
		ID:       res.ID,
		Kind:     res.Kind,
		Task:     req.Task,
		Status:   res.Status,
		NAtoms:   req.Structure.Len(),
		Steps:    res.Steps,
		Energy:   res.Energy,
		TrajPath: res.TrajPath,
		Params:   string(params),
		Log:      strings.Join(res.Log, "\n"),
		Script:   res.Script,
	}
	return db.Save(context.Background(), rec)
}

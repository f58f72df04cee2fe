/*
 * sim.go, part of gomd.
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

//Package sim orchestrates complete simulation requests: validation,
//the relaxation or dynamics engine, trajectory persistence and the
//reproduction script, under the single-occupancy rule the calculator
//demands. The calculator is a shared, non-reentrant resource: one
//run at a time holds it, and a request arriving while another run is
//in flight is rejected with ErrBackendBusy rather than queued or
//interleaved.
package sim

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/calc"
	"github.com/rmera/gomd/dyn"
	"github.com/rmera/gomd/internal/logging"
	"github.com/rmera/gomd/relax"
	"github.com/rmera/gomd/repro"
	"github.com/rmera/gomd/traj"
)

//Request is one simulation submission. Exactly one of Relax and MD
//must be set. SourceName and Source carry the submitted input file
//verbatim for the reproduction script; TrajPath, when set, is where
//the trajectory is persisted (the suffix picks the format). MaxAtoms
//at zero means the configured default chain.
type Request struct {
	Structure  *md.Structure
	Task       md.Task
	Relax      *relax.Params
	MD         *dyn.Params
	TrajPath   string
	MaxAtoms   int
	SourceName string
	Source     []byte
}

//Result is the terminal report of a run. Every outcome the engines
//can reach is distinguishable on Status; a Failed or Cancelled run
//still carries the frames recorded before the end. Log holds the
//ordered state-transition lines, then the engine's own log block.
type Result struct {
	ID       string
	Kind     string //"relax" or "md"
	Status   md.Status
	Frames   []*traj.Frame
	TrajPath string
	Log      []string
	Script   string
	Energy   float64
	Steps    int
	Elapsed  time.Duration
}

//Runner owns a calculator and runs one simulation at a time against
//it. The zero value is not usable; build it with NewRunner.
type Runner struct {
	c       calc.Calculator
	mu      sync.Mutex
	logger  *slog.Logger
	verbose *slog.Logger //optional operational logger, nil for quiet
}

//Option configures a Runner.
type Option func(*Runner)

//WithLogger directs operational log output (in addition to the
//per-run captured log) to l.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.verbose = l }
}

//NewRunner builds a runner around a calculator.
func NewRunner(c calc.Calculator, opts ...Option) *Runner {
	r := &Runner{c: c}
	for _, o := range opts {
		o(r)
	}
	return r
}

//Run executes one request to its terminal state. It returns
//ErrBackendBusy without touching the request if another run holds
//the calculator. Validation failures surface before any calculator
//call. Engine failures return both the partial Result and the error;
//cancellation (ctx done between steps) is a valid outcome, not an
//error. The caller's structure is never mutated; the run works on a
//copy.
func (R *Runner) Run(ctx context.Context, req *Request) (*Result, error) {
	if !R.mu.TryLock() {
		return nil, md.NewError(md.ErrBackendBusy, "sim: a simulation is already holding the calculator", "Runner.Run")
	}
	defer R.mu.Unlock()
	if (req.Relax == nil) == (req.MD == nil) {
		return nil, md.NewError(nil, "sim: a request needs exactly one of relaxation and dynamics parameters", "Runner.Run")
	}
	capture := logging.NewCapture()
	log := slog.New(capture)
	start := time.Now()
	res := &Result{ID: uuid.NewString()}
	if req.Relax != nil {
		res.Kind = "relax"
	} else {
		res.Kind = "md"
	}
	R.operational("run accepted", "id", res.ID, "kind", res.Kind, "task", req.Task.String())

	s := req.Structure.Copy()
	if err := md.Validate(s, req.Task, req.MaxAtoms); err != nil {
		log.Info("validation failed", "task", req.Task.String(), "error", err.Error())
		res.Status = md.Failed
		res.Log = capture.Lines()
		return res, md.Decorate(err, "Runner.Run")
	}
	log.Info("validation passed", "natoms", s.Len(), "task", req.Task.String(), "periodic", s.PBC())

	rec := traj.NewRecorder(s, req.TrajPath)
	var status md.Status
	var engErr error
	var engLog []string
	if req.Relax != nil {
		log.Info("relaxation started", "fmax", req.Relax.Fmax, "steps", req.Relax.Steps, "relax_cell", req.Relax.RelaxCell)
		out, err := relax.Run(ctx, s, req.Task, R.c, req.Relax, rec)
		if out == nil {
			res.Status = md.Failed
			res.Log = capture.Lines()
			return res, md.Decorate(err, "Runner.Run")
		}
		status, engErr, engLog = out.Status, err, out.Log
		res.Energy, res.Steps = out.Energy, out.Steps
	} else {
		log.Info("dynamics started", "ensemble", req.MD.Ensemble.String(), "steps", req.MD.Steps, "timestep_fs", req.MD.Timestep)
		out, err := dyn.Run(ctx, s, req.Task, R.c, req.MD, rec)
		if out == nil {
			res.Status = md.Failed
			res.Log = capture.Lines()
			return res, md.Decorate(err, "Runner.Run")
		}
		status, engErr, engLog = out.Status, err, out.Log
		res.Energy, res.Steps = out.Energy, out.Steps
	}
	res.Status = status
	res.Frames = rec.Frames()

	//the trajectory is persisted on every terminal state, partial
	//results included
	path, err := rec.Finalize()
	if err != nil {
		log.Info("trajectory persistence failed", "error", err.Error())
		res.Log = append(capture.Lines(), engLog...)
		return res, md.Decorate(err, "Runner.Run")
	}
	res.TrajPath = path
	log.Info("run finished", "status", status.String(), "steps", res.Steps, "frames", len(res.Frames), "elapsed", time.Since(start).Round(time.Millisecond).String())

	res.Script = R.script(req)
	res.Log = append(capture.Lines(), engLog...)
	res.Elapsed = time.Since(start)
	R.operational("run finished", "id", res.ID, "status", status.String())
	if engErr != nil {
		return res, md.Decorate(engErr, "Runner.Run")
	}
	return res, nil
}

func (R *Runner) script(req *Request) string {
	in := repro.Input{
		SourceName: req.SourceName,
		Source:     req.Source,
		Task:       req.Task,
		Backend:    R.c.Name(),
		Relax:      req.Relax,
		MD:         req.MD,
		TrajPath:   req.TrajPath,
		MaxAtoms:   req.MaxAtoms,
	}
	if remote, ok := R.c.(*calc.Remote); ok {
		opts := remote.Options()
		in.Remote = &opts
	}
	if len(in.Source) == 0 {
		//no literal input kept: render the structure as submitted; the
		//run works on a copy, so this is the pre-run state
		in.Source = []byte(structureXYZ(req.Structure))
		if in.SourceName == "" {
			in.SourceName = "input.xyz"
		}
	}
	return repro.Script(in)
}

func structureXYZ(s *md.Structure) string {
	var sb strings.Builder
	if err := md.WriteXYZTo(&sb, s, ""); err != nil {
		return ""
	}
	return sb.String()
}

func (R *Runner) operational(msg string, args ...any) {
	if R.verbose != nil {
		R.verbose.Info(msg, args...)
	}
}

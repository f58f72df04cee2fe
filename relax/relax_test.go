/*
 * relax_test.go, part of gomd.
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

package relax

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/calc"
	"github.com/rmera/gomd/traj"
	v3 "github.com/rmera/gomd/v3"
)

//a calculator that plays back a script of force maxima, for testing
//the engine's control flow without any real physics
type scripted struct {
	norms []float64
	calls int
	fail  error //returned once the script runs out
}

func (c *scripted) Name() string { return "scripted" }

func (c *scripted) Compute(_ context.Context, s *md.Structure, _ md.Task, _ bool) (*calc.Result, error) {
	if c.calls >= len(c.norms) {
		if c.fail != nil {
			return nil, c.fail
		}
		return nil, md.NewError(md.ErrNumericalFailure, "script exhausted", "scripted.Compute")
	}
	f := v3.Zeros(s.Len())
	f.Set(0, 0, c.norms[c.calls])
	c.calls++
	return &calc.Result{Energy: -float64(c.calls), Forces: f}, nil
}

func triatomic(Te *testing.T) *md.Structure {
	coord, err := v3.NewMatrix([]float64{0, 0, 0, 1.1, 0, 0, 0, 1.1, 0})
	if err != nil {
		Te.Fatal(err)
	}
	s, err := md.NewStructure([]int{8, 1, 1}, coord)
	if err != nil {
		Te.Fatal(err)
	}
	s.Spin = 1
	return s
}

func TestConvergesAtStepSeven(Te *testing.T) {
	s := triatomic(Te)
	c := &scripted{norms: []float64{0.5, 0.4, 0.3, 0.2, 0.15, 0.1, 0.06, 0.04}}
	rec := traj.NewRecorder(s, "")
	p := &Params{Fmax: 0.05, Steps: 50, MaxStep: 0.2, Memory: 100, Alpha: 70}
	out, err := Run(context.Background(), s, md.OMol, c, p, rec)
	if err != nil {
		Te.Fatal(err)
	}
	if out.Status != md.Converged {
		Te.Errorf("status %s, want Converged", out.Status)
	}
	if rec.Len() != 8 {
		Te.Errorf("trajectory has %d frames, want 8 (steps 0..7)", rec.Len())
	}
	if c.calls != 8 {
		Te.Errorf("calculator saw %d calls, want 8", c.calls)
	}
	fmt.Println("converged:", out.Log[len(out.Log)-1])
}

func TestAlreadyConverged(Te *testing.T) {
	s := triatomic(Te)
	c := &scripted{norms: []float64{0.01}}
	rec := traj.NewRecorder(s, "")
	out, err := Run(context.Background(), s, md.OMol, c, DefaultParams(), rec)
	if err != nil {
		Te.Fatal(err)
	}
	if out.Status != md.Converged || rec.Len() != 1 {
		Te.Errorf("status %s with %d frames, want Converged with 1", out.Status, rec.Len())
	}
}

func TestMaxStepsReached(Te *testing.T) {
	s := triatomic(Te)
	norms := make([]float64, 20)
	for i := range norms {
		norms[i] = 1.0 //never converges
	}
	c := &scripted{norms: norms}
	rec := traj.NewRecorder(s, "")
	p := &Params{Fmax: 0.05, Steps: 10, MaxStep: 0.2, Memory: 100, Alpha: 70}
	out, err := Run(context.Background(), s, md.OMol, c, p, rec)
	if err != nil {
		Te.Fatal(err)
	}
	if out.Status != md.MaxSteps {
		Te.Errorf("status %s, want MaxStepsReached", out.Status)
	}
	if rec.Len() != 10 {
		Te.Errorf("trajectory has %d frames, want exactly the step budget of 10", rec.Len())
	}
}

func TestBackendFailureKeepsFrames(Te *testing.T) {
	s := triatomic(Te)
	c := &scripted{norms: []float64{1, 1, 1}, fail: md.NewError(md.ErrNumericalFailure, "model blew up", "test")}
	rec := traj.NewRecorder(s, "")
	out, err := Run(context.Background(), s, md.OMol, c, DefaultParams(), rec)
	if err == nil {
		Te.Fatal("expected an error from the failing backend")
	}
	if !errors.Is(err, md.ErrNumericalFailure) {
		Te.Errorf("error does not wrap ErrNumericalFailure: %v", err)
	}
	if out.Status != md.Failed {
		Te.Errorf("status %s, want Failed", out.Status)
	}
	if rec.Len() != 3 {
		Te.Errorf("partial trajectory has %d frames, want the 3 recorded before the failure", rec.Len())
	}
}

func TestCancellation(Te *testing.T) {
	s := triatomic(Te)
	norms := make([]float64, 50)
	for i := range norms {
		norms[i] = 1.0
	}
	c := &scripted{norms: norms}
	ctx, cancel := context.WithCancel(context.Background())
	cancel() //cancelled before the run: the first step still completes
	rec := traj.NewRecorder(s, "")
	out, err := Run(ctx, s, md.OMol, c, DefaultParams(), rec)
	if err != nil {
		Te.Fatal(err)
	}
	if out.Status != md.Cancelled {
		Te.Errorf("status %s, want Cancelled", out.Status)
	}
	if rec.Len() != 1 {
		Te.Errorf("cancelled run kept %d frames, want 1", rec.Len())
	}
}

func TestCellRelaxNeedsPBC(Te *testing.T) {
	s := triatomic(Te)
	p := DefaultParams()
	p.RelaxCell = true
	_, err := Run(context.Background(), s, md.OMol, &scripted{}, p, traj.NewRecorder(s, ""))
	if err == nil {
		Te.Error("cell relaxation of a non-periodic structure must be rejected")
	}
}

func TestLJDimerRelaxes(Te *testing.T) {
	coord, err := v3.NewMatrix([]float64{0, 0, 0, 4.1, 0, 0})
	if err != nil {
		Te.Fatal(err)
	}
	s, err := md.NewStructure([]int{18, 18}, coord)
	if err != nil {
		Te.Fatal(err)
	}
	c := calc.NewLocal(calc.NewLennardJones())
	rec := traj.NewRecorder(s, "")
	p := &Params{Fmax: 0.002, Steps: 500, MaxStep: 0.2, Memory: 100, Alpha: 70}
	out, err := Run(context.Background(), s, md.OMat, c, p, rec)
	if err != nil {
		Te.Fatal(err)
	}
	if out.Status != md.Converged {
		Te.Fatalf("status %s after %d steps, fmax %g", out.Status, out.Steps, out.Fmax)
	}
	d := 0.0
	for j := 0; j < 3; j++ {
		v := s.Coord.At(1, j) - s.Coord.At(0, j)
		d += v * v
	}
	d = math.Sqrt(d)
	rmin := 3.4 * math.Pow(2, 1.0/6)
	if math.Abs(d-rmin) > 0.05 {
		Te.Errorf("relaxed separation %g, want about %g", d, rmin)
	}
	fmt.Printf("dimer relaxed to %.4f A in %d steps\n", d, out.Steps)
}

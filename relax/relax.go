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

//Package relax implements geometry relaxation: a limited-memory
//quasi-Newton (L-BFGS) optimizer driving the structure towards a
//force minimum, querying a calculator once per step. With cell
//relaxation enabled the unit-cell degrees of freedom join the
//optimization vector through a strain filter, and the calculator is
//asked for stress as well.
package relax

import (
	"context"
	"fmt"
	"math"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/calc"
	"github.com/rmera/gomd/traj"
	v3 "github.com/rmera/gomd/v3"
)

//Params controls a relaxation run.
type Params struct {
	Fmax      float64 //convergence threshold on the largest force norm, eV/A
	Steps     int     //step budget
	MaxStep   float64 //largest displacement of any atom (or strain row) per step, A
	Memory    int     //L-BFGS history length
	Alpha     float64 //initial Hessian scale: H0 = 1/Alpha
	RelaxCell bool    //optimize the unit cell too; needs a periodic structure
}

//DefaultParams mirrors the usual optimizer settings: 0.05 eV/A
//threshold, 0.2 A maximum displacement.
func DefaultParams() *Params {
	return &Params{Fmax: 0.05, Steps: 300, MaxStep: 0.2, Memory: 100, Alpha: 70}
}

func (p *Params) check(s *md.Structure) error {
	if p.Fmax <= 0 {
		return md.NewError(nil, fmt.Sprintf("relax: force threshold must be positive, got %g", p.Fmax), "Params.check")
	}
	if p.Steps < 1 {
		return md.NewError(nil, fmt.Sprintf("relax: step budget must be at least 1, got %d", p.Steps), "Params.check")
	}
	if p.MaxStep <= 0 {
		return md.NewError(nil, fmt.Sprintf("relax: maximum displacement must be positive, got %g", p.MaxStep), "Params.check")
	}
	if p.RelaxCell && !s.PBC() {
		return md.NewError(nil, "relax: cell relaxation needs a periodic structure", "Params.check")
	}
	return nil
}

//Outcome is the terminal report of a relaxation: how it ended, how
//many steps were recorded, the last energy and force maximum, and
//the optimizer log lines.
type Outcome struct {
	Status md.Status
	Steps  int
	Energy float64
	Fmax   float64
	Log    []string
}

//Run relaxes the structure in place, recording one frame per
//evaluation into rec. It ends Converged when the largest force norm
//drops below p.Fmax (a structure already at a minimum converges with
//a single frame), MaxSteps when the budget runs out, Cancelled when
//ctx is done between steps, and Failed when the calculator fails;
//frames recorded before a failure stay recorded. An error is
//returned only alongside the Failed status or on invalid parameters.
func Run(ctx context.Context, s *md.Structure, task md.Task, c calc.Calculator, p *Params, rec *traj.Recorder) (*Outcome, error) {
	if p == nil {
		p = DefaultParams()
	}
	if err := p.check(s); err != nil {
		return nil, md.Decorate(err, "relax.Run")
	}
	ndof := s.Len()
	var filter *cellFilter
	if p.RelaxCell {
		filter = newCellFilter(s)
		ndof += 3
	}
	opt := newLBFGS(p.Memory, p.Alpha)
	out := &Outcome{}
	x := make([]float64, ndof*3)
	for step := 0; step < p.Steps; step++ {
		res, err := c.Compute(ctx, s, task, p.RelaxCell)
		if err != nil {
			out.Status = md.Failed
			out.Log = append(out.Log, fmt.Sprintf("LBFGS: calculator failed at step %d: %v", step, err))
			return out, md.Decorate(err, fmt.Sprintf("relax.Run (step %d)", step))
		}
		forces := dofForces(s, res, filter)
		out.Energy = res.Energy
		out.Fmax = forces.MaxRowNorm()
		out.Steps = step + 1
		if err := rec.Append(traj.NewFrame(step, 0, s, res.Energy, res.Forces)); err != nil {
			out.Status = md.Failed
			return out, md.Decorate(err, "relax.Run")
		}
		out.Log = append(out.Log, fmt.Sprintf("LBFGS: %4d  %15.6f eV  %12.6f eV/A", step, out.Energy, out.Fmax))
		if out.Fmax < p.Fmax {
			out.Status = md.Converged
			out.Log = append(out.Log, fmt.Sprintf("LBFGS: converged after %d steps", out.Steps))
			return out, nil
		}
		if ctx.Err() != nil {
			out.Status = md.Cancelled
			out.Log = append(out.Log, fmt.Sprintf("LBFGS: cancelled after %d steps", out.Steps))
			return out, nil
		}
		if step == p.Steps-1 {
			break
		}
		gather(x, s, filter)
		d := opt.direction(x, forces.Raw())
		clamp(d, p.MaxStep)
		scatter(s, filter, d)
	}
	out.Status = md.MaxSteps
	out.Log = append(out.Log, fmt.Sprintf("LBFGS: step budget of %d exhausted, fmax still %.6f eV/A", p.Steps, out.Fmax))
	return out, nil
}

//dofForces assembles the optimization force matrix: the atomic
//forces, plus the strain rows when the cell relaxes too.
func dofForces(s *md.Structure, res *calc.Result, filter *cellFilter) *v3.Matrix {
	if filter == nil {
		return res.Forces
	}
	f := v3.Zeros(s.Len() + 3)
	f.SetMatrix(0, res.Forces)
	f.SetMatrix(s.Len(), filter.forces(s, res))
	return f
}

//gather flattens the current DOF coordinates into x: atomic
//positions, then the filter's cumulative strain displacement.
func gather(x []float64, s *md.Structure, filter *cellFilter) {
	copy(x, s.Coord.Raw())
	if filter != nil {
		copy(x[s.Len()*3:], filter.u.Raw())
	}
}

//scatter applies the optimizer displacement d back onto the
//structure: strain rows first, which rescale both the cell and the
//positions, then the direct atomic displacements.
func scatter(s *md.Structure, filter *cellFilter, d []float64) {
	n := s.Len()
	if filter != nil {
		filter.apply(s, d[n*3:])
	}
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			s.Coord.Set(i, j, s.Coord.At(i, j)+d[i*3+j])
		}
	}
}

//clamp bounds every 3-vector row of d to maxStep, scaling the whole
//step so the direction is kept.
func clamp(d []float64, maxStep float64) {
	longest := 0.0
	for i := 0; i < len(d); i += 3 {
		n := d[i]*d[i] + d[i+1]*d[i+1] + d[i+2]*d[i+2]
		if n > longest {
			longest = n
		}
	}
	if longest <= maxStep*maxStep {
		return
	}
	scale := maxStep / math.Sqrt(longest)
	for i := range d {
		d[i] *= scale
	}
}

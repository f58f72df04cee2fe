/*
 * local.go, part of gomd.
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

package calc

import (
	"context"

	md "github.com/rmera/gomd"
	v3 "github.com/rmera/gomd/v3"
	"gonum.org/v1/gonum/mat"
)

//A Potential is an in-process energy/force model, loaded once at
//startup and read-only afterwards. Evaluate must be a pure function
//of the structure: same positions, species and cell give the same
//energy and forces. Stress may be nil when not requested.
type Potential interface {
	Evaluate(s *md.Structure, wantStress bool) (energy float64, forces *v3.Matrix, stress *mat.Dense, err error)
}

//Local is the in-process calculator variant. It delegates every
//query to an already-loaded Potential and blocks the caller for the
//duration of one evaluation. Results are bit-reproducible for
//identical inputs as long as the wrapped potential is, which holds
//for the potentials in this package.
type Local struct {
	pot Potential
}

//NewLocal wraps pot into a calculator. A nil pot is accepted and
//makes every Compute fail with ErrBackendUnavailable, standing in
//for a model that was never loaded for the process.
func NewLocal(pot Potential) *Local {
	return &Local{pot: pot}
}

func (L *Local) Name() string { return "local" }

//Compute evaluates the structure with the wrapped potential. The
//context is ignored: a local evaluation cannot be interrupted
//mid-pass. Non-finite energies or forces from the model surface as
//ErrNumericalFailure, never as numbers.
func (L *Local) Compute(_ context.Context, s *md.Structure, _ md.Task, wantStress bool) (*Result, error) {
	if L.pot == nil {
		return nil, md.NewError(md.ErrBackendUnavailable, "calc: no potential loaded in this process", "Local.Compute")
	}
	e, f, st, err := L.pot.Evaluate(s, wantStress)
	if err != nil {
		return nil, md.Decorate(err, "Local.Compute")
	}
	r := &Result{Energy: e, Forces: f, Stress: st}
	if err := checkFinite(r); err != nil {
		return nil, md.Decorate(err, "Local.Compute")
	}
	return r, nil
}

/*
 * calc.go, part of gomd.
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

//Package calc defines the calculator capability the simulation
//engines query for energies and forces, and its two implementations:
//a local, in-process potential and a remote inference endpoint with
//retry. A calculator is stateless per call: the same structure and
//task always describe the same query, and nothing is cached between
//calls.
package calc

import (
	"context"
	"math"

	md "github.com/rmera/gomd"
	v3 "github.com/rmera/gomd/v3"
	"gonum.org/v1/gonum/mat"
)

//Result is one energy/force evaluation. Energy is in eV, forces in
//eV/A, one row per atom. Stress is the 3x3 Cauchy stress in eV/A^3
//and is nil unless the caller asked for it (only cell relaxation
//needs it).
type Result struct {
	Energy float64
	Forces *v3.Matrix
	Stress *mat.Dense
}

//A Calculator maps an atomic structure to energy and forces under a
//given task. Compute blocks the caller for the duration of one
//evaluation; ctx can cut a remote call short but is ignored by local
//potentials, which have no intrinsic timeout. Implementations must
//not cache across structures.
type Calculator interface {
	Compute(ctx context.Context, s *md.Structure, task md.Task, wantStress bool) (*Result, error)
	Name() string
}

//checkFinite rejects results carrying NaN or infinite values, so a
//blown-up model evaluation never reaches an optimizer or integrator
//as plausible numbers.
func checkFinite(r *Result) error {
	if math.IsNaN(r.Energy) || math.IsInf(r.Energy, 0) {
		return md.NewError(md.ErrNumericalFailure, "calc: non-finite energy", "checkFinite")
	}
	if r.Forces == nil || !r.Forces.IsFinite() {
		return md.NewError(md.ErrNumericalFailure, "calc: missing or non-finite forces", "checkFinite")
	}
	if r.Stress != nil {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if v := r.Stress.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
					return md.NewError(md.ErrNumericalFailure, "calc: non-finite stress", "checkFinite")
				}
			}
		}
	}
	return nil
}

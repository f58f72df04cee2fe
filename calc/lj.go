/*
 * lj.go, part of gomd.
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
	"fmt"
	"math"

	md "github.com/rmera/gomd"
	v3 "github.com/rmera/gomd/v3"
	"gonum.org/v1/gonum/mat"
)

//LennardJones is a pairwise 12-6 potential, the in-process backend
//that lets the whole pipeline run without a network and the
//deterministic substrate of the energy-conservation tests. It is not
//a substitute for a trained force field; it exists so a Local
//calculator is always available. Per-element well depths and radii
//are combined with the Lorentz-Berthelot rules; periodic structures
//use the minimum-image convention, so the cell must be large enough
//that an atom does not see its own image.
type LennardJones struct {
	params map[int]ljParam
}

type ljParam struct {
	eps   float64 //well depth, eV
	sigma float64 //zero-crossing distance, A
}

//Rough per-element parameters, enough to make small molecules and
//rare-gas or ionic test systems behave qualitatively. Anything not
//listed falls back to the carbon values.
var ljDefaults = map[int]ljParam{
	1:  {0.0029, 2.886}, //H
	2:  {0.0009, 2.362}, //He
	6:  {0.0045, 3.431}, //C
	7:  {0.0030, 3.261}, //N
	8:  {0.0026, 3.118}, //O
	10: {0.0018, 2.889}, //Ne
	11: {0.0130, 2.658}, //Na
	17: {0.0098, 3.516}, //Cl
	18: {0.0104, 3.400}, //Ar
	36: {0.0140, 3.689}, //Kr
}

//NewLennardJones builds the potential with the built-in element
//table.
func NewLennardJones() *LennardJones {
	return &LennardJones{params: ljDefaults}
}

//SetElement overrides the parameters of one element: well depth in
//eV, sigma in A.
func (L *LennardJones) SetElement(z int, eps, sigma float64) {
	p := make(map[int]ljParam, len(L.params)+1)
	for k, v := range L.params {
		p[k] = v
	}
	p[z] = ljParam{eps, sigma}
	L.params = p
}

func (L *LennardJones) param(z int) ljParam {
	if p, ok := L.params[z]; ok {
		return p
	}
	return L.params[6]
}

//Evaluate computes the total pair energy, per-atom forces and, if
//requested, the virial stress. Periodic structures are handled with
//the minimum-image convention through the fractional-coordinate wrap.
func (L *LennardJones) Evaluate(s *md.Structure, wantStress bool) (float64, *v3.Matrix, *mat.Dense, error) {
	n := s.Len()
	forces := v3.Zeros(n)
	var inv *mat.Dense
	if s.PBC() {
		if s.Cell == nil {
			return 0, nil, nil, md.NewError(nil, "calc: periodic structure without a cell", "LennardJones.Evaluate")
		}
		inv = mat.NewDense(3, 3, nil)
		if err := inv.Inverse(s.Cell.Dense); err != nil {
			return 0, nil, nil, md.NewError(nil, fmt.Sprintf("calc: singular cell matrix: %v", err), "LennardJones.Evaluate")
		}
	}
	var energy float64
	var virial [3][3]float64
	var d [3]float64
	for i := 0; i < n; i++ {
		pi := L.param(s.Atoms[i].Z)
		for j := i + 1; j < n; j++ {
			pj := L.param(s.Atoms[j].Z)
			for k := 0; k < 3; k++ {
				d[k] = s.Coord.At(i, k) - s.Coord.At(j, k)
			}
			if inv != nil {
				minimumImage(&d, s.Cell, inv)
			}
			r2 := d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
			if r2 == 0 {
				return 0, nil, nil, md.NewError(md.ErrNumericalFailure, fmt.Sprintf("calc: atoms %d and %d overlap", i, j), "LennardJones.Evaluate")
			}
			//Lorentz-Berthelot combination
			eps := math.Sqrt(pi.eps * pj.eps)
			sigma := 0.5 * (pi.sigma + pj.sigma)
			s2 := sigma * sigma / r2
			s6 := s2 * s2 * s2
			s12 := s6 * s6
			energy += 4 * eps * (s12 - s6)
			//force on i from j, along d
			fScale := 24 * eps * (2*s12 - s6) / r2
			for k := 0; k < 3; k++ {
				fk := fScale * d[k]
				forces.Set(i, k, forces.At(i, k)+fk)
				forces.Set(j, k, forces.At(j, k)-fk)
				if wantStress {
					for l := 0; l < 3; l++ {
						virial[k][l] += fk * d[l]
					}
				}
			}
		}
	}
	var stress *mat.Dense
	if wantStress {
		stress = mat.NewDense(3, 3, nil)
		vol := s.Volume()
		if vol > 0 {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					stress.Set(k, l, -virial[k][l]/vol)
				}
			}
		}
	}
	return energy, forces, stress, nil
}

//minimumImage wraps the cartesian displacement d to its nearest
//periodic image: to fractional coordinates, round away whole cell
//vectors, back to cartesian.
func minimumImage(d *[3]float64, cell *v3.Matrix, inv *mat.Dense) {
	var f [3]float64
	for k := 0; k < 3; k++ {
		f[k] = d[0]*inv.At(0, k) + d[1]*inv.At(1, k) + d[2]*inv.At(2, k)
		for f[k] > 0.5 {
			f[k]--
		}
		for f[k] < -0.5 {
			f[k]++
		}
	}
	for k := 0; k < 3; k++ {
		d[k] = f[0]*cell.At(0, k) + f[1]*cell.At(1, k) + f[2]*cell.At(2, k)
	}
}

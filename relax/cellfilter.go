/*
 * cellfilter.go, part of gomd.
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
	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/calc"
	v3 "github.com/rmera/gomd/v3"
)

//cellFilter maps the unit-cell degrees of freedom into the
//optimization vector as three extra rows. The rows hold a scaled
//cumulative strain: dividing by factor keeps cell displacements on
//the same length scale as atomic ones, so one MaxStep bound works
//for both. The generalized force on a strain row is -V*sigma/factor,
//which vanishes exactly when the stress does.
type cellFilter struct {
	factor float64
	u      *v3.Matrix //cumulative optimizer displacement on the strain rows
}

func newCellFilter(s *md.Structure) *cellFilter {
	return &cellFilter{factor: float64(s.Len()), u: v3.Zeros(3)}
}

//forces returns the three strain-row forces for the current stress.
func (cf *cellFilter) forces(s *md.Structure, res *calc.Result) *v3.Matrix {
	f := v3.Zeros(3)
	if res.Stress == nil {
		return f
	}
	vol := s.Volume()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			f.Set(i, j, -vol*res.Stress.At(i, j)/cf.factor)
		}
	}
	return f
}

//apply deforms the structure by the strain encoded in the optimizer
//displacement d (9 values, row-major): every cell row and every
//atomic position picks up x -> x*(I+eps), which keeps fractional
//coordinates fixed. The displacement is accumulated in u so the
//optimizer sees a consistent coordinate.
func (cf *cellFilter) apply(s *md.Structure, d []float64) {
	var eps [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			eps[i][j] = d[i*3+j] / cf.factor
			cf.u.Set(i, j, cf.u.At(i, j)+d[i*3+j])
		}
	}
	strainRows(s.Cell, eps)
	strainRows(s.Coord, eps)
}

//strainRows maps every row x of m to x*(I+eps).
func strainRows(m *v3.Matrix, eps [3][3]float64) {
	for i := 0; i < m.NVecs(); i++ {
		x := m.At(i, 0)
		y := m.At(i, 1)
		z := m.At(i, 2)
		for j := 0; j < 3; j++ {
			m.Set(i, j, m.At(i, j)+x*eps[0][j]+y*eps[1][j]+z*eps[2][j])
		}
	}
}

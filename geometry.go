/*
 * geometry.go, part of gomd.
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

package md

import (
	"fmt"
	"math"

	v3 "github.com/rmera/gomd/v3"
)

//MassCenter returns the center of mass of coord weighted by masses,
//as a 1-vector matrix. It fails if the lengths disagree or the total
//mass is not positive.
func MassCenter(coord *v3.Matrix, masses []float64) (*v3.Matrix, error) {
	if coord.NVecs() != len(masses) {
		return nil, NewError(nil, fmt.Sprintf("gomd: %d coordinates vs %d masses", coord.NVecs(), len(masses)), "MassCenter")
	}
	total := 0.0
	com := v3.Zeros(1)
	for i, m := range masses {
		total += m
		for j := 0; j < 3; j++ {
			com.Set(0, j, com.At(0, j)+m*coord.At(i, j))
		}
	}
	if total <= 0 {
		return nil, NewError(nil, "gomd: total mass is not positive", "MassCenter")
	}
	com.Scale(1/total, com)
	return com, nil
}

//MassCenter returns the center of mass of the structure.
func (S *Structure) MassCenter() (*v3.Matrix, error) {
	com, err := MassCenter(S.Coord, S.Masses())
	if err != nil {
		return nil, Decorate(err, "Structure.MassCenter")
	}
	return com, nil
}

//CellCenter returns the geometric center of the cell, half the sum of
//the three cell vectors. For a nil cell it returns the origin.
func CellCenter(cell *v3.Matrix) *v3.Matrix {
	c := v3.Zeros(1)
	if cell == nil {
		return c
	}
	c = cell.SumVecs()
	c.Scale(0.5, c)
	return c
}

//CellFromParams builds a cell matrix from the crystallographic
//lattice parameters: lengths in A, angles in degrees. The first cell
//vector lies along x and the second in the xy plane, the usual
//convention.
func CellFromParams(a, b, c, alpha, beta, gamma float64) (*v3.Matrix, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, NewError(nil, fmt.Sprintf("gomd: non-positive cell length (%g, %g, %g)", a, b, c), "CellFromParams")
	}
	ca := math.Cos(alpha * math.Pi / 180)
	cb := math.Cos(beta * math.Pi / 180)
	cg := math.Cos(gamma * math.Pi / 180)
	sg := math.Sin(gamma * math.Pi / 180)
	if sg == 0 {
		return nil, NewError(nil, fmt.Sprintf("gomd: degenerate cell angle gamma=%g", gamma), "CellFromParams")
	}
	cy := (ca - cb*cg) / sg
	czsq := 1 - cb*cb - cy*cy
	if czsq < 0 {
		return nil, NewError(nil, fmt.Sprintf("gomd: impossible cell angles (%g, %g, %g)", alpha, beta, gamma), "CellFromParams")
	}
	cell := v3.Zeros(3)
	cell.Set(0, 0, a)
	cell.Set(1, 0, b*cg)
	cell.Set(1, 1, b*sg)
	cell.Set(2, 0, c*cb)
	cell.Set(2, 1, c*cy)
	cell.Set(2, 2, c*math.Sqrt(czsq))
	return cell, nil
}

//CenterInCell translates the structure so its center of mass sits at
//the cell center (the origin for non-periodic structures). Only a
//rigid translation, the internal geometry is untouched. It returns
//the translation that was applied.
func (S *Structure) CenterInCell() (*v3.Matrix, error) {
	com, err := S.MassCenter()
	if err != nil {
		return nil, Decorate(err, "Structure.CenterInCell")
	}
	t := CellCenter(S.Cell)
	t.Sub(t, com)
	S.Coord.AddVec(S.Coord, t)
	return t, nil
}

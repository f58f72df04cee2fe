/*
 * structure.go, part of gomd.
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

	v3 "github.com/rmera/gomd/v3"
)

//Atom holds the per-atom data that does not change during a
//simulation. Positions and velocities live in the Structure so they
//can be handled as matrices.
type Atom struct {
	Z      int     //atomic number
	Symbol string  //element symbol
	Tag    int     //optional grouping label, 0 if unused
	Mass   float64 //amu
}

//Structure is a complete simulated system: atoms, coordinates, the
//unit cell (if periodic), net charge and spin multiplicity. It is the
//unit of work every calculator backend and engine operates on.
type Structure struct {
	Atoms    []*Atom
	Coord    *v3.Matrix //A
	Cell     *v3.Matrix //3x3, row vectors, nil when non-periodic
	Periodic [3]bool    //per-axis periodicity as read from the input
	Charge   int
	Spin     int        //spin multiplicity
	Vel      *v3.Matrix //A per internal time unit, nil until set
}

//NewStructure builds a Structure from atomic numbers and coordinates.
//Symbols and masses are filled from the atomic number. It fails if an
//atomic number is unknown or the coordinate count does not match.
func NewStructure(zs []int, coord *v3.Matrix) (*Structure, error) {
	if coord == nil || len(zs) != coord.NVecs() {
		return nil, NewError(nil, fmt.Sprintf("gomd: %d atomic numbers for %d coordinates", len(zs), coordLen(coord)), "NewStructure")
	}
	atoms := make([]*Atom, len(zs))
	for i, z := range zs {
		s := SymbolFromZ(z)
		if s == "" {
			return nil, NewError(nil, fmt.Sprintf("gomd: unknown atomic number %d at atom %d", z, i), "NewStructure")
		}
		atoms[i] = &Atom{Z: z, Symbol: s, Mass: MassFromZ(z)}
	}
	return &Structure{Atoms: atoms, Coord: coord}, nil
}

func coordLen(c *v3.Matrix) int {
	if c == nil {
		return 0
	}
	return c.NVecs()
}

//Len returns the number of atoms.
func (S *Structure) Len() int {
	return len(S.Atoms)
}

//PBC returns whether the structure is periodic in all directions.
func (S *Structure) PBC() bool {
	return S.Periodic[0] && S.Periodic[1] && S.Periodic[2]
}

//MixedPBC returns whether the periodicity flags disagree among the
//axes. Such structures are rejected by Validate.
func (S *Structure) MixedPBC() bool {
	return (S.Periodic[0] != S.Periodic[1]) || (S.Periodic[1] != S.Periodic[2])
}

//SetPeriodic sets all three periodicity flags at once.
func (S *Structure) SetPeriodic(p bool) {
	S.Periodic = [3]bool{p, p, p}
}

//Masses returns the atomic masses in amu, in atom order.
func (S *Structure) Masses() []float64 {
	m := make([]float64, len(S.Atoms))
	for i, a := range S.Atoms {
		m[i] = a.Mass
	}
	return m
}

//TotalMass returns the sum of the atomic masses in amu.
func (S *Structure) TotalMass() float64 {
	t := 0.0
	for _, a := range S.Atoms {
		t += a.Mass
	}
	return t
}

//Numbers returns the atomic numbers in atom order.
func (S *Structure) Numbers() []int {
	zs := make([]int, len(S.Atoms))
	for i, a := range S.Atoms {
		zs[i] = a.Z
	}
	return zs
}

//Volume returns the unit-cell volume in A^3, or 0 for a non-periodic
//structure. The volume is the absolute value of the cell determinant.
func (S *Structure) Volume() float64 {
	if S.Cell == nil {
		return 0
	}
	a := S.Cell
	det := a.At(0, 0)*(a.At(1, 1)*a.At(2, 2)-a.At(1, 2)*a.At(2, 1)) -
		a.At(0, 1)*(a.At(1, 0)*a.At(2, 2)-a.At(1, 2)*a.At(2, 0)) +
		a.At(0, 2)*(a.At(1, 0)*a.At(2, 1)-a.At(1, 1)*a.At(2, 0))
	if det < 0 {
		det = -det
	}
	return det
}

//Copy returns a deep copy of the structure. The engines work on a
//copy so the caller's structure is never mutated mid-run.
func (S *Structure) Copy() *Structure {
	n := &Structure{
		Atoms:    make([]*Atom, len(S.Atoms)),
		Periodic: S.Periodic,
		Charge:   S.Charge,
		Spin:     S.Spin,
	}
	for i, a := range S.Atoms {
		c := *a
		n.Atoms[i] = &c
	}
	if S.Coord != nil {
		n.Coord = v3.Zeros(S.Coord.NVecs())
		n.Coord.Copy(S.Coord)
	}
	if S.Cell != nil {
		n.Cell = v3.Zeros(3)
		n.Cell.Copy(S.Cell)
	}
	if S.Vel != nil {
		n.Vel = v3.Zeros(S.Vel.NVecs())
		n.Vel.Copy(S.Vel)
	}
	return n
}

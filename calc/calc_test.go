/*
 * calc_test.go, part of gomd.
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
	"errors"
	"fmt"
	"math"
	"testing"

	md "github.com/rmera/gomd"
	v3 "github.com/rmera/gomd/v3"
	"gonum.org/v1/gonum/mat"
)

func argonDimer(Te *testing.T, r float64) *md.Structure {
	coord, err := v3.NewMatrix([]float64{0, 0, 0, r, 0, 0})
	if err != nil {
		Te.Fatal(err)
	}
	s, err := md.NewStructure([]int{18, 18}, coord)
	if err != nil {
		Te.Fatal(err)
	}
	return s
}

func TestLJDimer(Te *testing.T) {
	lj := NewLennardJones()
	sigma := 3.4
	rmin := sigma * math.Pow(2, 1.0/6)
	//at the minimum the force vanishes and the energy is -eps
	e, f, _, err := lj.Evaluate(argonDimer(Te, rmin), false)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(e+0.0104) > 1e-6 {
		Te.Errorf("energy at the minimum: got %g, want %g", e, -0.0104)
	}
	if f.MaxRowNorm() > 1e-8 {
		Te.Errorf("force at the minimum: %g, want 0", f.MaxRowNorm())
	}
	//compressed, the pair repels: atom 0 pushed towards -x
	_, f, _, err = lj.Evaluate(argonDimer(Te, 0.9*rmin), false)
	if err != nil {
		Te.Fatal(err)
	}
	if f.At(0, 0) >= 0 || f.At(1, 0) <= 0 {
		Te.Errorf("compressed dimer does not repel: f0x=%g f1x=%g", f.At(0, 0), f.At(1, 0))
	}
	//stretched, it attracts
	_, f, _, err = lj.Evaluate(argonDimer(Te, 1.3*rmin), false)
	if err != nil {
		Te.Fatal(err)
	}
	if f.At(0, 0) <= 0 || f.At(1, 0) >= 0 {
		Te.Errorf("stretched dimer does not attract: f0x=%g f1x=%g", f.At(0, 0), f.At(1, 0))
	}
	fmt.Println("LJ dimer behaves")
}

func TestLJMinimumImage(Te *testing.T) {
	lj := NewLennardJones()
	s := argonDimer(Te, 9.0)
	cell := v3.Zeros(3)
	cell.Set(0, 0, 10)
	cell.Set(1, 1, 10)
	cell.Set(2, 2, 10)
	s.Cell = cell
	s.SetPeriodic(true)
	//under a 10 A cell the 9 A separation is really 1 A through the
	//boundary, deep in the repulsive wall
	e, _, _, err := lj.Evaluate(s, false)
	if err != nil {
		Te.Fatal(err)
	}
	s2 := argonDimer(Te, 1.0)
	e2, _, _, err := lj.Evaluate(s2, false)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(e-e2) > 1e-9 {
		Te.Errorf("minimum image energy %g, direct 1 A energy %g", e, e2)
	}
}

func TestLocalNoPotential(Te *testing.T) {
	c := NewLocal(nil)
	_, err := c.Compute(context.Background(), argonDimer(Te, 3.8), md.OMat, false)
	if !errors.Is(err, md.ErrBackendUnavailable) {
		Te.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
}

type nanPotential struct{}

func (nanPotential) Evaluate(s *md.Structure, wantStress bool) (float64, *v3.Matrix, *mat.Dense, error) {
	return math.NaN(), v3.Zeros(s.Len()), nil, nil
}

func TestLocalNumericalFailure(Te *testing.T) {
	c := NewLocal(nanPotential{})
	_, err := c.Compute(context.Background(), argonDimer(Te, 3.8), md.OMat, false)
	if !errors.Is(err, md.ErrNumericalFailure) {
		Te.Errorf("expected ErrNumericalFailure, got %v", err)
	}
}

func TestLJStress(Te *testing.T) {
	lj := NewLennardJones()
	s := argonDimer(Te, 3.0)
	cell := v3.Zeros(3)
	cell.Set(0, 0, 20)
	cell.Set(1, 1, 20)
	cell.Set(2, 2, 20)
	s.Cell = cell
	s.SetPeriodic(true)
	_, _, stress, err := lj.Evaluate(s, true)
	if err != nil {
		Te.Fatal(err)
	}
	if stress == nil {
		Te.Fatal("no stress returned")
	}
	//compressed along x only: sxx dominates, syy and szz vanish
	if stress.At(0, 0) == 0 || math.Abs(stress.At(1, 1)) > 1e-12 {
		Te.Errorf("unexpected stress: sxx=%g syy=%g", stress.At(0, 0), stress.At(1, 1))
	}
}

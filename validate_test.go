/*
 * validate_test.go, part of gomd.
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
	"errors"
	"fmt"
	"math"
	"testing"

	v3 "github.com/rmera/gomd/v3"
)

func waterStructure(Te *testing.T) *Structure {
	coord, _ := v3.NewMatrix([]float64{
		0, 0, 0.119262,
		0, 0.763239, -0.477047,
		0, -0.763239, -0.477047,
	})
	s, err := NewStructure([]int{8, 1, 1}, coord)
	if err != nil {
		Te.Fatal(err)
	}
	s.Spin = 1
	return s
}

//TestValidateCenters checks that a valid molecule passes validation
//with its species untouched, its internal geometry preserved, and its
//center of mass moved to the origin.
func TestValidateCenters(Te *testing.T) {
	s := waterStructure(Te)
	d01 := distance(s.Coord, 0, 1)
	err := Validate(s, OMol, 0)
	if err != nil {
		Te.Fatal(err)
	}
	if s.Atoms[0].Z != 8 || s.Atoms[1].Z != 1 {
		Te.Error("validation changed the species")
	}
	if math.Abs(distance(s.Coord, 0, 1)-d01) > 1e-12 {
		Te.Error("validation changed the internal geometry")
	}
	com, err := s.MassCenter()
	if err != nil {
		Te.Fatal(err)
	}
	if com.RowNorm(0) > 1e-10 {
		Te.Errorf("center of mass not at the origin after validation: %v", com.Raw())
	}
	fmt.Println("water centered at", com.Raw())
}

func TestValidateCentersPeriodic(Te *testing.T) {
	coord, _ := v3.NewMatrix([]float64{0, 0, 0, 2.06, 2.06, 2.06})
	s, err := NewStructure([]int{3, 17}, coord)
	if err != nil {
		Te.Fatal(err)
	}
	cell, _ := v3.NewMatrix([]float64{4.12, 0, 0, 0, 4.12, 0, 0, 0, 4.12})
	s.Cell = cell
	s.SetPeriodic(true)
	if err := Validate(s, OMat, 0); err != nil {
		Te.Fatal(err)
	}
	com, _ := s.MassCenter()
	for j := 0; j < 3; j++ {
		if math.Abs(com.At(0, j)-2.06) > 1e-10 {
			Te.Errorf("mass center %v not at the cell center", com.Raw())
		}
	}
}

func TestValidateMixedPBC(Te *testing.T) {
	s := waterStructure(Te)
	s.Periodic = [3]bool{true, true, false}
	s.Charge = 99 //the PBC check must win, it comes first
	err := Validate(s, OMol, 0)
	if !errors.Is(err, ErrInconsistentPBC) {
		Te.Errorf("expected ErrInconsistentPBC, got %v", err)
	}
}

func TestValidateAtomCount(Te *testing.T) {
	s := waterStructure(Te)
	err := Validate(s, OMol, 2)
	if !errors.Is(err, ErrAtomCountExceeded) {
		Te.Errorf("expected ErrAtomCountExceeded, got %v", err)
	}
	if err := Validate(s, OMol, 3); err != nil {
		Te.Errorf("3 atoms within a cap of 3 should pass: %v", err)
	}
}

func TestValidateChargeSpin(Te *testing.T) {
	//a charged periodic material must be rejected
	coord, _ := v3.NewMatrix([]float64{0, 0, 0, 2.06, 2.06, 2.06})
	s, _ := NewStructure([]int{3, 17}, coord)
	cell, _ := v3.NewMatrix([]float64{4.12, 0, 0, 0, 4.12, 0, 0, 0, 4.12})
	s.Cell = cell
	s.SetPeriodic(true)
	s.Charge = 1
	err := Validate(s, OMat, 0)
	if !errors.Is(err, ErrInvalidChargeSpin) {
		Te.Errorf("expected ErrInvalidChargeSpin for OMat with charge 1, got %v", err)
	}
	//while OMol takes ions with any charge
	w := waterStructure(Te)
	w.Charge = -2
	w.Spin = 3
	if err := Validate(w, OMol, 0); err != nil {
		Te.Errorf("OMol should accept charge -2 spin 3: %v", err)
	}
	w2 := waterStructure(Te)
	w2.Spin = 0
	if err := Validate(w2, OMol, 0); !errors.Is(err, ErrInvalidChargeSpin) {
		Te.Errorf("OMol needs spin >= 1, got %v", err)
	}
}

func TestValidateEmpty(Te *testing.T) {
	s := &Structure{Coord: v3.Zeros(0)}
	if err := Validate(s, OMol, 0); err == nil {
		Te.Error("an empty structure must not validate")
	}
}

func TestMaxAtomsEnv(Te *testing.T) {
	Te.Setenv(MaxAtomsEnv, "2")
	s := waterStructure(Te)
	err := Validate(s, OMol, 0)
	if !errors.Is(err, ErrAtomCountExceeded) {
		Te.Errorf("MAX_ATOMS=2 should reject 3 atoms, got %v", err)
	}
	Te.Setenv(MaxAtomsEnv, "notanumber")
	if MaxAtoms() != DefaultMaxAtoms {
		Te.Error("a malformed MAX_ATOMS should fall back to the default")
	}
}

func TestParseTask(Te *testing.T) {
	for _, name := range []string{"OMol", "omc", "OMAT", "oc20", "ODac"} {
		if _, err := ParseTask(name); err != nil {
			Te.Errorf("ParseTask(%q): %v", name, err)
		}
	}
	if _, err := ParseTask("OMol2"); err == nil {
		Te.Error("expected an error for an unknown task")
	}
	t, _ := ParseTask("omat")
	if t.String() != "OMat" || t.WireName() != "omat" {
		Te.Errorf("wrong task names: %s / %s", t, t.WireName())
	}
}

func distance(c *v3.Matrix, i, j int) float64 {
	dx := c.At(i, 0) - c.At(j, 0)
	dy := c.At(i, 1) - c.At(j, 1)
	dz := c.At(i, 2) - c.At(j, 2)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

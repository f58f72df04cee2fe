/*
 * v3_test.go, part of gomd.
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

package v3

import (
	"fmt"
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	a, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	if a.NVecs() != 2 {
		Te.Errorf("expected 2 vectors, got %d", a.NVecs())
	}
	_, err = NewMatrix([]float64{1, 2, 3, 4})
	if err == nil {
		Te.Error("expected an error for a slice of length 4")
	}
	fmt.Println("matrix built", a.NVecs())
}

func TestEmptyMatrices(Te *testing.T) {
	a := Zeros(0)
	if a.NVecs() != 0 {
		Te.Errorf("Zeros(0) holds %d vectors, want 0", a.NVecs())
	}
	b, err := NewMatrix(nil)
	if err != nil {
		Te.Fatal(err)
	}
	if b.NVecs() != 0 {
		Te.Errorf("NewMatrix(nil) holds %d vectors, want 0", b.NVecs())
	}
	//an empty matrix must still be usable as a value
	if !b.IsFinite() {
		Te.Error("an empty matrix has no non-finite entries")
	}
}

func TestVecViewMutation(Te *testing.T) {
	a := Zeros(3)
	v := a.VecView(1)
	v.Set(0, 2, 9.5)
	if a.At(1, 2) != 9.5 {
		Te.Error("view mutation did not reach the parent matrix")
	}
}

func TestAddScaled(Te *testing.T) {
	x, _ := NewMatrix([]float64{1, 1, 1, 2, 2, 2})
	d, _ := NewMatrix([]float64{1, 0, 0, 0, 1, 0})
	x.AddScaled(x, d, 0.5)
	if x.At(0, 0) != 1.5 || x.At(1, 1) != 2.5 || x.At(1, 0) != 2 {
		Te.Errorf("wrong AddScaled result: %v", x.Raw())
	}
}

func TestAddSubVec(Te *testing.T) {
	a, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	t, _ := NewMatrix([]float64{1, 1, 1})
	a.AddVec(a, t)
	if a.At(1, 2) != 7 {
		Te.Error("AddVec failed")
	}
	a.SubVec(a, t)
	if a.At(1, 2) != 6 || a.At(0, 0) != 1 {
		Te.Error("SubVec failed")
	}
}

func TestNorms(Te *testing.T) {
	f, _ := NewMatrix([]float64{3, 4, 0, 0, 0, 1})
	if f.RowNorm(0) != 5 {
		Te.Errorf("RowNorm: expected 5, got %f", f.RowNorm(0))
	}
	if f.MaxRowNorm() != 5 {
		Te.Errorf("MaxRowNorm: expected 5, got %f", f.MaxRowNorm())
	}
}

func TestSumVecs(Te *testing.T) {
	a, _ := NewMatrix([]float64{1, 0, 2, 3, 0, 4})
	s := a.SumVecs()
	if s.At(0, 0) != 4 || s.At(0, 1) != 0 || s.At(0, 2) != 6 {
		Te.Errorf("wrong vector sum: %v", s.Raw())
	}
}

func TestCross(Te *testing.T) {
	x, _ := NewMatrix([]float64{1, 0, 0})
	y, _ := NewMatrix([]float64{0, 1, 0})
	z := Cross(x, y)
	if z.At(0, 0) != 0 || z.At(0, 1) != 0 || z.At(0, 2) != 1 {
		Te.Errorf("wrong cross product: %v", z.Raw())
	}
}

func TestIsFinite(Te *testing.T) {
	a, _ := NewMatrix([]float64{1, 2, 3})
	if !a.IsFinite() {
		Te.Error("finite matrix reported as not finite")
	}
	a.Set(0, 1, math.NaN())
	if a.IsFinite() {
		Te.Error("NaN not detected")
	}
	a.Set(0, 1, math.Inf(1))
	if a.IsFinite() {
		Te.Error("Inf not detected")
	}
}

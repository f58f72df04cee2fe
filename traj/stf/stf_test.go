/*
 * stf_test.go, part of gomd.
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

package stf

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"testing"

	v3 "github.com/rmera/gomd/v3"
)

func testFrames(nframes, natoms int) []*Block {
	blocks := make([]*Block, nframes)
	for f := 0; f < nframes; f++ {
		c := v3.Zeros(natoms)
		for i := 0; i < natoms; i++ {
			c.Set(i, 0, float64(i)+0.1*float64(f))
			c.Set(i, 1, -float64(i)*0.5)
			c.Set(i, 2, 1.25*float64(f))
		}
		blocks[f] = &Block{
			Meta:  Meta{Step: f * 10, Time: float64(f), Energy: -1.5 + 0.01*float64(f), Ekin: 0.2, Temp: 300},
			Coord: c,
		}
	}
	return blocks
}

func roundTrip(Te *testing.T, name string, withCell bool) {
	const natoms = 5
	frames := testFrames(3, natoms)
	var cell *v3.Matrix
	if withCell {
		cell = v3.Zeros(3)
		cell.Set(0, 0, 10)
		cell.Set(1, 1, 11)
		cell.Set(2, 2, 12)
	}
	w, err := NewWriter(name, natoms, map[string]string{"species": "Ar Ar Ar Ar Ar", "pbc": fmt.Sprintf("%t", withCell)})
	if err != nil {
		Te.Fatal(err)
	}
	for _, b := range frames {
		if err := w.WNext(b.Meta, b.Coord, cell); err != nil {
			Te.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
	r, header, err := NewReader(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	if header["species"] != "Ar Ar Ar Ar Ar" {
		Te.Errorf("header species: %q", header["species"])
	}
	if r.Len() != natoms {
		Te.Errorf("reader says %d atoms, want %d", r.Len(), natoms)
	}
	tol := 0.5 / math.Pow10(DefaultPrec)
	for f := 0; ; f++ {
		b, err := r.Next()
		if err == io.EOF {
			if f != len(frames) {
				Te.Errorf("read %d frames, wrote %d", f, len(frames))
			}
			break
		}
		if err != nil {
			Te.Fatal(err)
		}
		want := frames[f]
		if b.Step != want.Step || b.Energy != want.Energy || b.Temp != want.Temp {
			Te.Errorf("frame %d metadata: got %+v, want %+v", f, b.Meta, want.Meta)
		}
		for i := 0; i < natoms; i++ {
			for j := 0; j < 3; j++ {
				if math.Abs(b.Coord.At(i, j)-want.Coord.At(i, j)) > tol {
					Te.Errorf("frame %d atom %d coord %d: got %g, want %g", f, i, j, b.Coord.At(i, j), want.Coord.At(i, j))
				}
			}
		}
		if withCell {
			if b.Cell == nil || b.Cell.At(2, 2) != 12 {
				Te.Errorf("frame %d lost its cell", f)
			}
		} else if b.Cell != nil {
			Te.Errorf("frame %d grew a cell", f)
		}
	}
}

func TestSTFRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	for _, name := range []string{"t.stf", "t.stfz", "t.stfg", "t.stff"} {
		fmt.Println("round trip through", name)
		roundTrip(Te, filepath.Join(dir, name), false)
	}
}

func TestSTFPeriodic(Te *testing.T) {
	roundTrip(Te, filepath.Join(Te.TempDir(), "crystal.stfz"), true)
}

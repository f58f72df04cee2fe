/*
 * traj_test.go, part of gomd.
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

package traj

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/traj/stf"
	v3 "github.com/rmera/gomd/v3"
)

func water(Te *testing.T) *md.Structure {
	coord, err := v3.NewMatrix([]float64{
		0.000, 0.000, 0.119,
		0.000, 0.763, -0.477,
		0.000, -0.763, -0.477,
	})
	if err != nil {
		Te.Fatal(err)
	}
	s, err := md.NewStructure([]int{8, 1, 1}, coord)
	if err != nil {
		Te.Fatal(err)
	}
	s.Spin = 1
	return s
}

func recordThree(Te *testing.T, rec *Recorder, s *md.Structure) {
	for i := 0; i < 3; i++ {
		f := NewFrame(i, float64(i), s, -76.0+0.1*float64(i), v3.Zeros(s.Len()))
		if err := rec.Append(f); err != nil {
			Te.Fatal(err)
		}
	}
}

func TestRecorderXYZ(Te *testing.T) {
	s := water(Te)
	path := filepath.Join(Te.TempDir(), "run.extxyz")
	rec := NewRecorder(s, path)
	recordThree(Te, rec, s)
	got, err := rec.Finalize()
	if err != nil {
		Te.Fatal(err)
	}
	if got != path {
		Te.Errorf("finalize returned %q, want %q", got, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		Te.Fatal(err)
	}
	text := string(data)
	if strings.Count(text, "Properties=") != 3 {
		Te.Errorf("expected 3 frame blocks, got:\n%s", text)
	}
	if !strings.Contains(text, "energy=-76.0") {
		Te.Error("frame energy missing from the output")
	}
	fmt.Println("wrote", rec.Len(), "frames to", got)
}

func TestRecorderFinalizeIdempotent(Te *testing.T) {
	s := water(Te)
	path := filepath.Join(Te.TempDir(), "run.xyz")
	rec := NewRecorder(s, path)
	recordThree(Te, rec, s)
	first, err := rec.Finalize()
	if err != nil {
		Te.Fatal(err)
	}
	info1, err := os.Stat(first)
	if err != nil {
		Te.Fatal(err)
	}
	second, err := rec.Finalize()
	if err != nil {
		Te.Fatal(err)
	}
	if second != first {
		Te.Errorf("second finalize returned %q, first %q", second, first)
	}
	info2, err := os.Stat(second)
	if err != nil {
		Te.Fatal(err)
	}
	if info1.ModTime() != info2.ModTime() || info1.Size() != info2.Size() {
		Te.Error("second finalize rewrote the file")
	}
	//and the trajectory is immutable now
	if err := rec.Append(NewFrame(3, 3, s, 0, nil)); err == nil {
		Te.Error("append after finalize must fail")
	}
}

func TestRecorderSTF(Te *testing.T) {
	s := water(Te)
	path := filepath.Join(Te.TempDir(), "run.stfz")
	rec := NewRecorder(s, path)
	recordThree(Te, rec, s)
	if _, err := rec.Finalize(); err != nil {
		Te.Fatal(err)
	}
	r, header, err := stf.NewReader(path)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	if header["species"] != "O H H" {
		Te.Errorf("species in the stf header: %q", header["species"])
	}
	n := 0
	for {
		b, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			Te.Fatal(err)
		}
		if b.Coord.NVecs() != 3 {
			Te.Errorf("frame with %d atoms", b.Coord.NVecs())
		}
		n++
	}
	if n != 3 {
		Te.Errorf("read %d frames back, wrote 3", n)
	}
}

func TestRecorderOrder(Te *testing.T) {
	s := water(Te)
	rec := NewRecorder(s, "")
	recordThree(Te, rec, s)
	for i, f := range rec.Frames() {
		if f.Step != i {
			Te.Errorf("frame %d carries step %d, order not kept", i, f.Step)
		}
	}
	//in-memory only: finalize returns an empty path
	p, err := rec.Finalize()
	if err != nil || p != "" {
		Te.Errorf("memory-only finalize: path %q, err %v", p, err)
	}
}

/*
 * recorder.go, part of gomd.
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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/traj/stf"
)

//A Recorder accumulates the frames of one run and persists them when
//the run terminates, successfully or not. The output format follows
//the file suffix: .xyz or .extxyz for a multi-frame extended-XYZ
//animation, .stf and its compressed variants for the compact frame
//stream. An empty path keeps the trajectory in memory only. The
//template structure provides what frames do not carry: species,
//charge, spin and periodicity.
type Recorder struct {
	template *md.Structure
	path     string
	frames   []*Frame
	final    string
	done     bool
}

//NewRecorder builds a recorder for a run on the given structure,
//persisting to path on Finalize.
func NewRecorder(s *md.Structure, path string) *Recorder {
	return &Recorder{template: s, path: path}
}

//Append adds a frame at the end of the trajectory, in strict
//chronological order. It fails after Finalize: a persisted
//trajectory is immutable.
func (R *Recorder) Append(f *Frame) error {
	if R.done {
		return md.NewError(nil, "traj: trajectory already finalized", "Recorder.Append")
	}
	if f.Coord.NVecs() != R.template.Len() {
		return md.NewError(nil, fmt.Sprintf("traj: frame has %d atoms, the run has %d", f.Coord.NVecs(), R.template.Len()), "Recorder.Append")
	}
	R.frames = append(R.frames, f)
	return nil
}

//Len returns the number of frames recorded so far.
func (R *Recorder) Len() int {
	return len(R.frames)
}

//Frames exposes the recorded frames, in order. The slice is the
//recorder's own; callers must not modify it.
func (R *Recorder) Frames() []*Frame {
	return R.frames
}

//Finalize writes the trajectory to the configured path and returns
//it. It is idempotent: a second call returns the same path without
//rewriting anything. A run that failed or was cancelled finalizes
//whatever frames it managed to record.
func (R *Recorder) Finalize() (string, error) {
	if R.done {
		return R.final, nil
	}
	if R.path == "" {
		R.done = true
		return "", nil
	}
	var err error
	if isSTF(R.path) {
		err = R.writeSTF()
	} else {
		err = R.writeXYZ()
	}
	if err != nil {
		return "", md.Decorate(err, "Recorder.Finalize")
	}
	R.done = true
	R.final = R.path
	return R.final, nil
}

func isSTF(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return strings.HasPrefix(ext, ".stf")
}

func (R *Recorder) writeXYZ() error {
	f, err := os.Create(R.path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, fr := range R.frames {
		if err := writeXYZFrame(w, R.template, fr); err != nil {
			return err
		}
	}
	return w.Flush()
}

//writeXYZFrame emits one extended-XYZ block: species, positions and
//forces per atom, with the frame metadata on the comment line. The
//shape matches what visualization tools expect for an animation.
func writeXYZFrame(w *bufio.Writer, s *md.Structure, fr *Frame) error {
	var comment strings.Builder
	cell := fr.Cell
	if cell != nil {
		comment.WriteString("Lattice=\"")
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if i+j > 0 {
					comment.WriteByte(' ')
				}
				fmt.Fprintf(&comment, "%.8f", cell.At(i, j))
			}
		}
		comment.WriteString("\" ")
	}
	props := "species:S:1:pos:R:3"
	if fr.Forces != nil {
		props += ":forces:R:3"
	}
	fmt.Fprintf(&comment, "Properties=%s energy=%.8f", props, fr.Energy)
	if fr.Temp != 0 || fr.Ekin != 0 {
		fmt.Fprintf(&comment, " ekin=%.8f temperature=%.4f", fr.Ekin, fr.Temp)
	}
	fmt.Fprintf(&comment, " step=%d time=%.4f charge=%d spin=%d", fr.Step, fr.Time, s.Charge, s.Spin)
	if s.PBC() {
		comment.WriteString(" pbc=\"T T T\"")
	} else {
		comment.WriteString(" pbc=\"F F F\"")
	}
	if _, err := fmt.Fprintf(w, "%d\n%s\n", s.Len(), comment.String()); err != nil {
		return err
	}
	for i, a := range s.Atoms {
		if _, err := fmt.Fprintf(w, "%-3s %14.8f %14.8f %14.8f", a.Symbol, fr.Coord.At(i, 0), fr.Coord.At(i, 1), fr.Coord.At(i, 2)); err != nil {
			return err
		}
		if fr.Forces != nil {
			if _, err := fmt.Fprintf(w, " %14.8f %14.8f %14.8f", fr.Forces.At(i, 0), fr.Forces.At(i, 1), fr.Forces.At(i, 2)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func (R *Recorder) writeSTF() error {
	symbols := make([]string, R.template.Len())
	for i, a := range R.template.Atoms {
		symbols[i] = a.Symbol
	}
	header := map[string]string{
		"species": strings.Join(symbols, " "),
		"charge":  fmt.Sprintf("%d", R.template.Charge),
		"spin":    fmt.Sprintf("%d", R.template.Spin),
		"pbc":     fmt.Sprintf("%t", R.template.PBC()),
	}
	w, err := stf.NewWriter(R.path, R.template.Len(), header)
	if err != nil {
		return err
	}
	defer w.Close()
	for _, fr := range R.frames {
		meta := stf.Meta{Step: fr.Step, Time: fr.Time, Energy: fr.Energy, Ekin: fr.Ekin, Temp: fr.Temp}
		if err := w.WNext(meta, fr.Coord, fr.Cell); err != nil {
			return err
		}
	}
	return w.Close()
}

/*
 * frame.go, part of gomd.
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

//Package traj holds simulation frames and the recorder that collects
//them into a trajectory file. A trajectory belongs to exactly one
//run; frames arrive in chronological order and are never reordered
//or dropped, and once the run finalizes the file is not touched
//again.
package traj

import (
	md "github.com/rmera/gomd"
	v3 "github.com/rmera/gomd/v3"
)

//A Frame is one snapshot of a running simulation: positions, the
//cell they live in (nil for molecules), the potential energy and
//forces the calculator reported, and, for dynamics, the kinetic
//energy and instantaneous temperature. Relaxation frames leave Ekin
//and Temp at zero. Time is in femtoseconds.
type Frame struct {
	Step   int
	Time   float64
	Coord  *v3.Matrix
	Cell   *v3.Matrix
	Energy float64
	Forces *v3.Matrix
	Ekin   float64
	Temp   float64
}

//NewFrame snapshots the current state of a structure. Coordinates,
//cell and forces are deep-copied: the engines keep mutating their
//working structure after recording, the frame must not follow.
func NewFrame(step int, time float64, s *md.Structure, energy float64, forces *v3.Matrix) *Frame {
	f := &Frame{Step: step, Time: time, Energy: energy}
	f.Coord = v3.Zeros(s.Coord.NVecs())
	f.Coord.Copy(s.Coord)
	if s.Cell != nil {
		f.Cell = v3.Zeros(3)
		f.Cell.Copy(s.Cell)
	}
	if forces != nil {
		f.Forces = v3.Zeros(forces.NVecs())
		f.Forces.Copy(forces)
	}
	return f
}

/*
 * validate.go, part of gomd.
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
	"os"
	"strconv"
)

//DefaultMaxAtoms caps the structure size when nothing else is
//configured. Large systems belong on dedicated hardware, not on a
//shared inference endpoint.
const DefaultMaxAtoms = 2000

//MaxAtomsEnv is the environment variable that overrides
//DefaultMaxAtoms.
const MaxAtomsEnv = "MAX_ATOMS"

//MaxAtoms returns the configured atom-count cap: the MAX_ATOMS
//environment variable if set to a positive integer, DefaultMaxAtoms
//otherwise.
func MaxAtoms() int {
	if v := os.Getenv(MaxAtomsEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultMaxAtoms
}

//Validate checks a structure against a task before any computation,
//in order, stopping at the first failure: atom count within
//(0, maxAtoms], uniform periodicity flags, cell present when
//periodic, and (charge, spin) inside the task domain. A structure
//that passes is centered in place (center of mass to the cell center,
//or to the origin when non-periodic); nothing else is mutated. Pass
//maxAtoms <= 0 to use the MaxAtoms() chain.
func Validate(s *Structure, task Task, maxAtoms int) error {
	if maxAtoms <= 0 {
		maxAtoms = MaxAtoms()
	}
	if s.Len() == 0 {
		return NewError(nil, "gomd: structure contains no atoms", "Validate")
	}
	if s.Len() > maxAtoms {
		return NewError(ErrAtomCountExceeded, fmt.Sprintf("structure has %d atoms, the maximum is %d", s.Len(), maxAtoms), "Validate")
	}
	if s.MixedPBC() {
		return NewError(ErrInconsistentPBC, fmt.Sprintf("periodicity flags %v mix periodic and non-periodic axes", s.Periodic), "Validate")
	}
	if s.PBC() && s.Cell == nil {
		return NewError(ErrInconsistentPBC, "structure is periodic but carries no cell", "Validate")
	}
	if err := task.CheckChargeSpin(s.Charge, s.Spin); err != nil {
		return Decorate(err, "Validate")
	}
	if _, err := s.CenterInCell(); err != nil {
		return Decorate(err, "Validate")
	}
	return nil
}

//ValidateDefault is Validate with the MaxAtoms() cap.
func ValidateDefault(s *Structure, task Task) error {
	err := Validate(s, task, 0)
	if err != nil {
		return Decorate(err, "ValidateDefault")
	}
	return nil
}

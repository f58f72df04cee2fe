/*
 * task.go, part of gomd.
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
	"strings"
)

//Task selects which domain a force-field model was trained for. The
//task decides the allowed charge and spin of the structures sent to
//the calculator: OMol accepts any integer charge and a multiplicity
//of at least 1, every other task takes only neutral singlets
//(charge 0, spin 0).
type Task int

const (
	OMol Task = iota //molecules
	OMC              //molecular crystals
	OMat             //inorganic materials
	OC20             //catalysis
	ODAC             //direct air capture
)

var taskNames = [...]string{"OMol", "OMC", "OMat", "OC20", "ODAC"}

func (t Task) String() string {
	if t < 0 || int(t) >= len(taskNames) {
		return fmt.Sprintf("Task(%d)", int(t))
	}
	return taskNames[t]
}

//WireName returns the lowercase task name used on the calculator
//wire protocol.
func (t Task) WireName() string {
	return strings.ToLower(t.String())
}

//ParseTask matches a task name, ignoring case.
func ParseTask(s string) (Task, error) {
	for i, n := range taskNames {
		if strings.EqualFold(s, n) {
			return Task(i), nil
		}
	}
	return 0, NewError(nil, fmt.Sprintf("gomd: unknown task %q, valid tasks are %s", s, strings.Join(taskNames[:], ", ")), "ParseTask")
}

//CheckChargeSpin returns nil if the (charge, spin) pair is inside the
//task's allowed domain, and an error wrapping ErrInvalidChargeSpin
//otherwise.
func (t Task) CheckChargeSpin(charge, spin int) error {
	if t == OMol {
		if spin < 1 {
			return NewError(ErrInvalidChargeSpin, fmt.Sprintf("task OMol needs a spin multiplicity of at least 1, got %d", spin), "Task.CheckChargeSpin")
		}
		return nil
	}
	if charge != 0 || spin != 0 {
		return NewError(ErrInvalidChargeSpin, fmt.Sprintf("task %s only supports neutral singlets (charge 0, spin 0), got charge %d, spin %d", t, charge, spin), "Task.CheckChargeSpin")
	}
	return nil
}

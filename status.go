/*
 * status.go, part of gomd.
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

//Status is the terminal state of a simulation run. Every run ends in
//exactly one of these, so callers can branch on the outcome instead
//of parsing log text. Cancelled is a valid outcome requested by the
//caller, not a failure. MaxSteps means the relaxation step budget ran
//out before convergence, also a valid, reported outcome.
type Status int

const (
	Converged Status = iota //relaxation reached the force threshold
	MaxSteps                //relaxation ran out of steps
	Completed               //dynamics ran all its steps
	Failed                  //the calculator backend failed mid-run
	Cancelled               //the caller stopped the run between steps
)

var statusNames = [...]string{"Converged", "MaxStepsReached", "Completed", "Failed", "Cancelled"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

//ParseStatus matches a status name, ignoring case. It inverts
//Status.String, which is what the run store persists.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if strings.EqualFold(name, n) {
			return Status(i), nil
		}
	}
	return 0, NewError(nil, fmt.Sprintf("gomd: unknown run status %q", name), "ParseStatus")
}

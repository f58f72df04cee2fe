/*
 * errors.go, part of gomd.
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

import "errors"

//The conditions a run can fail (or finish) with. Validation errors
//are raised before any calculator is touched; compute errors carry
//whatever frames were already recorded; ErrCancelled marks a
//caller-requested stop, not a failure.
var (
	ErrInconsistentPBC    = errors.New("gomd: mixed periodic boundary flags, set all axes true or all false")
	ErrAtomCountExceeded  = errors.New("gomd: structure exceeds the maximum atom count")
	ErrInvalidChargeSpin  = errors.New("gomd: charge/spin multiplicity not allowed for this task")
	ErrBackendUnavailable = errors.New("gomd: calculator backend not available")
	ErrNumericalFailure   = errors.New("gomd: calculator returned non-finite energy or forces")
	ErrRemoteExhausted    = errors.New("gomd: remote calculator retry budget exhausted")
	ErrBackendBusy        = errors.New("gomd: another simulation holds the calculator")
	ErrCancelled          = errors.New("gomd: run cancelled")
)

//Error attaches a message and a trail of calling functions to one of
//the package sentinels (or to any other error). errors.Is sees
//through it, so callers can test for the sentinel while still getting
//a specific message.
type Error struct {
	wrapped error
	message string
	deco    []string
}

//NewError builds an Error around sentinel (which may be nil for a
//condition outside the taxonomy) with a human-readable message and
//the name of the reporting function.
func NewError(sentinel error, message string, caller string) *Error {
	e := &Error{wrapped: sentinel, message: message}
	if caller != "" {
		e.deco = []string{caller}
	}
	return e
}

func (err *Error) Error() string {
	return err.message
}

func (err *Error) Unwrap() error {
	return err.wrapped
}

//Decorate adds the name of a calling function to the trail and
//returns the trail.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Trail returns the functions the error passed through, innermost
//first.
func (err *Error) Trail() []string {
	return err.deco
}

//Decorate adds caller to the trail of err if it is an *Error, and
//otherwise wraps it into one. Every package of the module pushes its
//function names through here on the way up.
func Decorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
		return err
	}
	return &Error{wrapped: err, message: err.Error(), deco: []string{caller}}
}

/*
 * errors.go, part of gocoaster.
 *
 * Copyright 2024 The gocoaster authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
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

package coaster

import (
	"fmt"
	"strings"
)

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
// The decoration slice contains the functions the error went through on its way up, plus, optionally, extra information
// in the format "FunctionName: Extra info". Decorate("") just returns the current decoration.
type Error interface {
	Error() string
	Decorate(string) []string
}

// InvalidInputError is returned when a curve, or the data used to build one, is malformed
// or degenerate: too few points, coincident consecutive points, orientation data that
// doesn't match the points.
type InvalidInputError struct {
	msg  string
	deco []string
}

func (err *InvalidInputError) Error() string {
	return fmt.Sprintf("goCoaster: invalid input: %s (%s)", err.msg, strings.Join(err.deco, " < "))
}

// Decorate adds the caller to the error's trail and returns the trail.
func (err *InvalidInputError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// NewInvalidInputError returns an InvalidInputError with the given message, decorated with caller.
// It is exported so the file readers in the subpackages report bad tracks with the same type.
func NewInvalidInputError(caller, format string, a ...any) *InvalidInputError {
	return &InvalidInputError{msg: fmt.Sprintf(format, a...), deco: []string{caller}}
}

// ConfigError is returned when the equations of motion are set up with an invalid
// coach count, wind vector or physical constants.
type ConfigError struct {
	msg  string
	deco []string
}

func (err *ConfigError) Error() string {
	return fmt.Sprintf("goCoaster: invalid configuration: %s (%s)", err.msg, strings.Join(err.deco, " < "))
}

// Decorate adds the caller to the error's trail and returns the trail.
func (err *ConfigError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

func newConfigError(caller, format string, a ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, a...), deco: []string{caller}}
}

// errDecorate decorates err with caller if it implements Error, and returns it.
func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
	}
	return err
}

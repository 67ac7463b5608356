/*
 * ride.go, part of gocoaster.
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
	"github.com/rmera/gocoaster/ode"
)

// StopTolerance is added to the velocity in the stop event, so a train
// that starts at rest doesn't trigger it at t=0.
const StopTolerance = 1e-8

// StopEvent returns a terminal event that triggers when the velocity of the train,
// the second component of the state, goes from positive to non-positive.
func StopEvent() ode.Event {
	return ode.Event{
		Func:      func(t float64, y []float64) float64 { return y[1] + StopTolerance },
		Terminal:  true,
		Direction: -1,
	}
}

// SwingEvent returns a terminal event that triggers when the velocity of the train goes
// from negative to non-negative, that is, when a train rolling backwards stops. A train
// released at rest stops first at the end of its forward run, which doesn't trigger it.
func SwingEvent() ode.Event {
	return ode.Event{
		Func:      func(t float64, y []float64) float64 { return y[1] + StopTolerance },
		Terminal:  true,
		Direction: 1,
	}
}

// Simulate integrates the motion of the train described by E from t=0 to t1, starting at
// arc length s0 with velocity v0, until t1 or until the train stops (see StopEvent).
// If opts is nil, the ode package defaults are used. The state of the solution is (s, s1).
func Simulate(E *EqsMotion, t1, s0, v0 float64, opts *ode.Options) (*ode.Solution, error) {
	sol, err := ode.Solve(E.Fun, 0, t1, []float64{s0, v0}, opts, StopEvent())
	if err != nil {
		return sol, errDecorate(err, "Simulate")
	}
	return sol, nil
}

// StopPoint returns the time and arc length at which the train stopped, and true,
// or the final time and arc length and false if it was still moving at the end of sol.
func StopPoint(sol *ode.Solution) (t, s float64, stopped bool) {
	last := len(sol.T) - 1
	return sol.T[last], sol.Y[last][0], sol.Status == ode.Terminated
}

// SimulateSwing is like Simulate, but the train rolls back after its first stop, and the
// integration goes on until t1 or until the train stops again while rolling backwards
// (see SwingEvent).
func SimulateSwing(E *EqsMotion, t1, s0, v0 float64, opts *ode.Options) (*ode.Solution, error) {
	sol, err := ode.Solve(E.Fun, 0, t1, []float64{s0, v0}, opts, SwingEvent())
	if err != nil {
		return sol, errDecorate(err, "SimulateSwing")
	}
	return sol, nil
}

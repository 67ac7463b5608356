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

package traj

import (
	"fmt"

	coaster "github.com/rmera/gocoaster"
	"github.com/rmera/gocoaster/ode"
)

// WriteRide writes the ride in sol, of the train of E, to the trajectory file name, with fps frames
// per second of simulated time (at least two frames, the first and the last time of sol are always
// included). It returns the number of frames written.
func WriteRide(name string, E *coaster.EqsMotion, sol *ode.Solution, fps float64) (int, error) {
	if !(fps > 0) {
		return 0, &Error{fmt.Sprintf("invalid frame rate %g", fps), name, []string{"WriteRide"}, true}
	}
	t0, t1 := sol.Span()
	n := int((t1-t0)*fps) + 1
	if n < 2 {
		n = 2
	}
	header := map[string]string{
		"fps":    formatFloat(fps),
		"frame":  E.Curve().Frame().String(),
		"length": formatFloat(E.Curve().Length()),
		"status": sol.Status.String(),
	}
	W, err := NewWriter(name, E.N(), header)
	if err != nil {
		return 0, errDecorate(err, "WriteRide")
	}
	ts, ys := sol.Sample(n)
	for i, t := range ts {
		s := ys[0][i]
		pos := E.Curve().Position(E.Si(s)[0]...)
		if err := W.WNext(State{T: t, S: s, S1: ys[1][i]}, pos); err != nil {
			W.Close()
			return i, errDecorate(err, "WriteRide")
		}
	}
	return n, errDecorate(W.Close(), "WriteRide")
}

/*
 * doc.go, part of gocoaster.
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

/*Package coaster is the main package of the goCoaster library. It models a train of coaches
moving along a fixed 3D track, in order to compare the simulated energy dissipation with
measured data.



	**goCoaster Capabilities**


    Fits a smooth curve, parameterized by arc length, through a list of control points,
	and returns positions, derivatives, tangents, normals, binormals, curvature and torsion
	at any number of arc lengths at once.

    Builds a local frame (longitudinal x, lateral y, vertical z) along the curve, with
	several strategies: Frenet, "up" (z as close as possible to the world vertical), "right"
	(continuous through loops), and frames imported from a track editor.

    Computes the accelerations on a train of coaches (gravity, centripetal, drag, rolling
	resistance) and the right-hand side of its equation of motion, which can be integrated
	with the ode subpackage (see Simulate).

    Energy bookkeeping, and comparison with reference data.

The subpackages read and write NoLimits 2 track files (nolimits), write and read the
trajectories of the rides (traj), provide built-in tracks (tracks) and plots (coasterplot).

Curves and equations of motion are immutable once built, and can be used
from several goroutines at once.

*/
package coaster

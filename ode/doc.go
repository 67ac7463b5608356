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

/*Package ode integrates initial value problems y' = f(t, y) with an explicit
Runge-Kutta method of order 5(4) (Dormand-Prince) with adaptive step size.

The solution is densely queryable between the accepted steps (with the 4th order
continuous extension of the method), and the integration
can be watched by event functions, which are located to machine precision when they
change sign and can stop the integration.

*/
package ode

/*
 * spline.go, part of gocoaster.
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
	"sort"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r3"
)

// spline3 is a not-a-knot cubic spline from a strictly increasing parameter
// to 3D space. The fit is done by gonum's interp package, one component at a
// time; the slopes at the knots are then enough to rebuild every
// segment in Hermite form, which gives us the second and third derivatives
// the interp predictors don't expose.
// Outside the knots the end segments are extrapolated.
type spline3 struct {
	x []float64
	y [3][]float64
	d [3][]float64 //dy/dx at each knot
}

// newSpline3 fits a spline through the points p (one per element of x).
// x must be strictly increasing and have at least 2 elements, the caller checks that.
func newSpline3(x []float64, p []r3.Vec) *spline3 {
	n := len(x)
	sp := &spline3{x: append([]float64(nil), x...)}
	for k := 0; k < 3; k++ {
		sp.y[k] = make([]float64, n)
		for i, v := range p {
			sp.y[k][i] = component(v, k)
		}
		sp.d[k] = knotSlopes(sp.x, sp.y[k])
	}
	return sp
}

// knotSlopes returns the first derivative of the not-a-knot spline through (x,y)
// at each knot. With 2 points the spline is the line through them, with 3 it is
// the parabola through them.
func knotSlopes(x, y []float64) []float64 {
	n := len(x)
	d := make([]float64, n)
	switch n {
	case 2:
		m := (y[1] - y[0]) / (x[1] - x[0])
		d[0], d[1] = m, m
	case 3:
		a := (y[1] - y[0]) / (x[1] - x[0])
		b := (y[2] - y[1]) / (x[2] - x[1])
		c := (b - a) / (x[2] - x[0])
		for i, v := range x {
			d[i] = a + c*(2*v-x[0]-x[1])
		}
	default:
		var nak interp.NotAKnotCubic
		if err := nak.Fit(x, y); err != nil {
			panic("goCoaster: spline fit failed: " + err.Error())
		}
		for i, v := range x {
			d[i] = nak.PredictDerivative(v)
		}
	}
	return d
}

func component(v r3.Vec, k int) float64 {
	switch k {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

// segment returns the index of the polynomial piece used to evaluate s.
// A knot s==x[i] belongs to the piece that starts at it, except the last knot.
func (sp *spline3) segment(s float64) int {
	i := sort.SearchFloat64s(sp.x, s)
	last := len(sp.x) - 2
	if i < len(sp.x) && sp.x[i] == s && i <= last {
		return i
	}
	i--
	if i < 0 {
		return 0
	}
	if i > last {
		return last
	}
	return i
}

// at evaluates the order-th derivative of the spline at s.
// Orders above 3 are zero; the caller ensures order >= 0.
func (sp *spline3) at(s float64, order int) r3.Vec {
	if order > 3 {
		return r3.Vec{}
	}
	n := len(sp.x)
	if order == 0 && s == sp.x[n-1] {
		return r3.Vec{X: sp.y[0][n-1], Y: sp.y[1][n-1], Z: sp.y[2][n-1]}
	}
	i := sp.segment(s)
	h := sp.x[i+1] - sp.x[i]
	t := s - sp.x[i]
	var r [3]float64
	for k := 0; k < 3; k++ {
		y0, y1 := sp.y[k][i], sp.y[k][i+1]
		d0, d1 := sp.d[k][i], sp.d[k][i+1]
		//written so both vanish exactly on straight segments.
		delta := (y1 - y0) / h
		c2 := (2*(delta-d0) + (delta - d1)) / h
		c3 := ((d0 - delta) + (d1 - delta)) / (h * h)
		switch order {
		case 0:
			r[k] = y0 + t*(d0+t*(c2+t*c3))
		case 1:
			r[k] = d0 + t*(2*c2+3*c3*t)
		case 2:
			r[k] = 2*c2 + 6*c3*t
		case 3:
			r[k] = 6 * c3
		}
	}
	return r3.Vec{X: r[0], Y: r[1], Z: r[2]}
}

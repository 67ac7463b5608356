/*
 * curve.go, part of gocoaster.
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
	"math"

	v3 "github.com/rmera/gocoaster/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Curve is a smooth curve in 3D space through a set of control points, parameterized by
// arc length. The arc length of each control point is the cumulative distance between the
// control points up to it, starting at 0. A Curve is immutable, and safe to query from
// several goroutines at once.
//
// All the query methods take any number of arc lengths, and return one element (a vector
// for the vector-valued quantities) per arc length given.
//
// The local coordinate frame of the curve (x longitudinal, y lateral, z vertical) is
// given by its Frame. x is always the unit tangent.
type Curve struct {
	ga    *spline3
	frame Frame
}

// PathLength returns the arc length at each of the given points, computed as the
// cumulative euclidean distance between consecutive points.
func PathLength(points *v3.Matrix) []float64 {
	s := make([]float64, points.Len())
	for i := 1; i < len(s); i++ {
		s[i] = s[i-1] + r3.Norm(r3.Sub(points.Vec(i), points.Vec(i-1)))
	}
	return s
}

// NewCurve fits a curve through points, using the Frenet frame (y binormal, z normal)
// or, if given, frame. frame can't be an *ExternalFrame, which needs its own data, use
// NewExternalCurve for that. It returns an *InvalidInputError if there are fewer than 2 points,
// if any point is not finite, or if two consecutive points coincide.
func NewCurve(points *v3.Matrix, frame ...Frame) (*Curve, error) {
	var f Frame = FrenetFrame{}
	if len(frame) > 0 && frame[0] != nil {
		f = frame[0]
	}
	if _, ok := f.(*ExternalFrame); ok {
		return nil, NewInvalidInputError("NewCurve", "an external frame needs orientation data, use NewExternalCurve")
	}
	ga, err := fitPoints(points)
	if err != nil {
		return nil, errDecorate(err, "NewCurve")
	}
	return &Curve{ga: ga, frame: f}, nil
}

// NewUpCurve fits a curve through points that uses the up-vector frame.
func NewUpCurve(points *v3.Matrix) (*Curve, error) {
	c, err := NewCurve(points, UpFrame{})
	return c, errDecorate(err, "NewUpCurve")
}

// NewRightCurve fits a curve through points that uses the right-vector frame.
func NewRightCurve(points *v3.Matrix) (*Curve, error) {
	c, err := NewCurve(points, RightFrame{})
	return c, errDecorate(err, "NewRightCurve")
}

// NewExternalCurve fits a curve through points whose frame follows the given up vectors,
// one per point (as exported, for instance, by a track editor). See ExternalFrame.
func NewExternalCurve(points, up *v3.Matrix) (*Curve, error) {
	ga, err := fitPoints(points)
	if err != nil {
		return nil, errDecorate(err, "NewExternalCurve")
	}
	f, err := NewExternalFrame(ga.x, up)
	if err != nil {
		return nil, errDecorate(err, "NewExternalCurve")
	}
	return &Curve{ga: ga, frame: f}, nil
}

func fitPoints(points *v3.Matrix) (*spline3, error) {
	if points == nil || points.Len() < 2 {
		return nil, NewInvalidInputError("fitPoints", "at least 2 control points are needed")
	}
	if !points.IsFinite() {
		return nil, NewInvalidInputError("fitPoints", "control points must be finite")
	}
	s := PathLength(points)
	for i := 1; i < len(s); i++ {
		if !(s[i] > s[i-1]) {
			return nil, NewInvalidInputError("fitPoints", "control points %d and %d coincide", i-1, i)
		}
	}
	return newSpline3(s, points.Vecs()), nil
}

// WithFrame returns a curve with the same shape as c, using the frame f.
// An *ExternalFrame must have been fitted over the same arc lengths as c.
func (c *Curve) WithFrame(f Frame) *Curve {
	return &Curve{ga: c.ga, frame: f}
}

// Frame returns the frame strategy used by the curve.
func (c *Curve) Frame() Frame {
	return c.frame
}

// S returns the arc length at each control point.
func (c *Curve) S() []float64 {
	return append([]float64(nil), c.ga.x...)
}

// Length returns the arc length of the last control point.
func (c *Curve) Length() float64 {
	return c.ga.x[len(c.ga.x)-1]
}

// Points returns the control points of the curve.
func (c *Curve) Points() *v3.Matrix {
	return c.Position(c.ga.x...)
}

// Sample returns n >= 2 arc lengths evenly spaced between 0 and the length of the curve.
func (c *Curve) Sample(n int) []float64 {
	return floats.Span(make([]float64, n), 0, c.Length())
}

// Offset returns a new curve whose control points are those of c, displaced
// by d along c's vertical axis. The new curve uses the same kind of frame as c.
// The validation runs use Offset(-1) to go from the track spine to the heartline of the riders.
func (c *Curve) Offset(d float64) (*Curve, error) {
	s := c.ga.x
	p := c.Points()
	z := c.Z(s...)
	for i := range s {
		p.SetVec(i, r3.Add(p.Vec(i), r3.Scale(d, z.Vec(i))))
	}
	if e, ok := c.frame.(*ExternalFrame); ok {
		oc, err := NewExternalCurve(p, e.Up(s...))
		return oc, errDecorate(err, "Offset")
	}
	oc, err := NewCurve(p, c.frame)
	return oc, errDecorate(err, "Offset")
}

func (c *Curve) mapVec(s []float64, f func(float64) r3.Vec) *v3.Matrix {
	ret := v3.Zeros(len(s))
	for i, v := range s {
		ret.SetVec(i, f(v))
	}
	return ret
}

func mapScalar(s []float64, f func(float64) float64) []float64 {
	ret := make([]float64, len(s))
	for i, v := range s {
		ret[i] = f(v)
	}
	return ret
}

// Position returns the points of the curve at the given arc lengths. At the arc length
// of a control point, the control point is returned.
func (c *Curve) Position(s ...float64) *v3.Matrix {
	return c.mapVec(s, func(v float64) r3.Vec { return c.ga.at(v, 0) })
}

// Derivative returns the order-th derivative of the position with respect to arc length.
// Orders above 3 give zero vectors, negative orders panic.
func (c *Curve) Derivative(order int, s ...float64) *v3.Matrix {
	if order < 0 {
		panic("goCoaster: negative derivative order")
	}
	return c.mapVec(s, func(v float64) r3.Vec { return c.ga.at(v, order) })
}

// Tangent returns the unit tangent vectors of the curve.
func (c *Curve) Tangent(s ...float64) *v3.Matrix {
	t := c.Derivative(1, s...)
	t.Unit(t)
	return t
}

// Normal returns the unit normal vectors, in the plane of the first and second derivatives and
// orthogonal to the tangent. Where the curvature is zero the normal is not defined, and
// the vector is NaN.
func (c *Curve) Normal(s ...float64) *v3.Matrix {
	d1, d2 := c.Derivative(1, s...), c.Derivative(2, s...)
	n := v3.Zeros(len(s))
	n.Cross(d2, d1)
	n.Cross(d1, n)
	n.Unit(n)
	return n
}

// Binormal returns the unit binormal vectors (tangent x normal). NaN where the curvature is zero.
func (c *Curve) Binormal(s ...float64) *v3.Matrix {
	b := v3.Zeros(len(s))
	b.Cross(c.Derivative(1, s...), c.Derivative(2, s...))
	b.Unit(b)
	return b
}

// Curvature returns the curvature |d1 x d2|/|d1|^3 of the curve.
func (c *Curve) Curvature(s ...float64) []float64 {
	d1 := c.Derivative(1, s...)
	b := v3.Zeros(len(s))
	b.Cross(d1, c.Derivative(2, s...))
	k := v3.Norms(b)
	for i, n := range v3.Norms(d1) {
		k[i] /= math.Pow(n, 3)
	}
	return k
}

// Torsion returns the torsion d1.(d2 x d3)/|d1 x d2|^2 of the curve. Where the
// curvature is zero the torsion is not defined, and NaN (or infinite) is returned.
func (c *Curve) Torsion(s ...float64) []float64 {
	return mapScalar(s, c.torsion)
}

// X returns the longitudinal axis of the curve's frame, which is the tangent.
func (c *Curve) X(s ...float64) *v3.Matrix {
	return c.Tangent(s...)
}

// Y returns the lateral axis of the curve's frame.
func (c *Curve) Y(s ...float64) *v3.Matrix {
	return c.mapVec(s, func(v float64) r3.Vec {
		_, y, _ := c.axes(v)
		return y
	})
}

// Z returns the vertical axis of the curve's frame.
func (c *Curve) Z(s ...float64) *v3.Matrix {
	return c.mapVec(s, func(v float64) r3.Vec {
		_, _, z := c.axes(v)
		return z
	})
}

// Axes returns the three axes of the curve's frame at once.
func (c *Curve) Axes(s ...float64) (x, y, z *v3.Matrix) {
	x, y, z = v3.Zeros(len(s)), v3.Zeros(len(s)), v3.Zeros(len(s))
	for i, v := range s {
		a, b, d := c.axes(v)
		x.SetVec(i, a)
		y.SetVec(i, b)
		z.SetVec(i, d)
	}
	return x, y, z
}

//Single-point versions, used throughout the package.

func unit(v r3.Vec) r3.Vec {
	return r3.Scale(1/r3.Norm(v), v)
}

func (c *Curve) tangent(s float64) r3.Vec {
	return unit(c.ga.at(s, 1))
}

func (c *Curve) normal(s float64) r3.Vec {
	d1, d2 := c.ga.at(s, 1), c.ga.at(s, 2)
	return unit(r3.Cross(d1, r3.Cross(d2, d1)))
}

func (c *Curve) binormal(s float64) r3.Vec {
	return unit(r3.Cross(c.ga.at(s, 1), c.ga.at(s, 2)))
}

func (c *Curve) torsion(s float64) float64 {
	d1, d2, d3 := c.ga.at(s, 1), c.ga.at(s, 2), c.ga.at(s, 3)
	b := r3.Cross(d1, d2)
	return r3.Dot(d1, r3.Cross(d2, d3)) / r3.Norm2(b)
}

// curvatureVector returns curvature times normal, d1 x (d2 x d1)/|d1|^4, which
// is zero, not NaN, on straight track.
func (c *Curve) curvatureVector(s float64) r3.Vec {
	d1, d2 := c.ga.at(s, 1), c.ga.at(s, 2)
	n2 := r3.Norm2(d1)
	return r3.Scale(1/(n2*n2), r3.Cross(d1, r3.Cross(d2, d1)))
}

func (c *Curve) axes(s float64) (x, y, z r3.Vec) {
	x = c.tangent(s)
	y, z = c.frame.axes(c, s, x)
	return x, y, z
}

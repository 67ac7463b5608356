/*
 * frames.go, part of gocoaster.
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
	"log"
	"math"

	v3 "github.com/rmera/gocoaster/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is a strategy to build the lateral (y) and vertical (z) axes of a curve,
// given its tangent x. All the frames in this package are right-handed in the sense
// y = x × z (equivalently z = y × x), and orthonormal wherever they are defined.
type Frame interface {
	//axes returns y and z at s, given the unit tangent x there.
	axes(c *Curve, s float64, x r3.Vec) (y, z r3.Vec)
	String() string
}

var worldY = r3.Vec{Y: 1}

// degenerate is the size below which a projection is considered to vanish.
const degenerate = 1e-9

// FrenetFrame uses the binormal as y and the normal as z. It is not defined
// where the curvature vanishes (straight track), where the axes are NaN.
type FrenetFrame struct{}

func (FrenetFrame) String() string { return "frenet" }

func (FrenetFrame) axes(c *Curve, s float64, x r3.Vec) (y, z r3.Vec) {
	return c.binormal(s), c.normal(s)
}

// UpFrame keeps z as close as possible to the world vertical: z is the component of
// the world z axis orthogonal to the tangent, and y is horizontal. Where the horizontal part
// of the tangent is shorter than 1e-9 the world z axis can't be used, and z is built from
// the world y axis instead (z = unit(x × ŷ)). The frame is therefore discontinuous where a
// track goes through the vertical.
type UpFrame struct{}

func (UpFrame) String() string { return "up" }

func (UpFrame) axes(c *Curve, s float64, x r3.Vec) (y, z r3.Vec) {
	return upAxes(x)
}

// upAxes builds the horizontal y first, which doesn't lose precision
// when x is close to vertical, and then z = y × x.
func upAxes(x r3.Vec) (y, z r3.Vec) {
	h := math.Hypot(x.X, x.Y)
	if h < degenerate {
		z = unit(r3.Cross(x, worldY))
		return r3.Cross(x, z), z
	}
	y = r3.Vec{X: x.Y / h, Y: -x.X / h}
	return y, r3.Cross(y, x)
}

// RightFrame keeps y as close as possible to the world "right" direction, -ŷ: y is minus the
// component of the world y axis orthogonal to the tangent, and z = y × x. For tracks
// that lie in the world x-z plane, like loops and hills, this frame is continuous
// through vertical and inverted sections. Where the tangent is within 1e-9 of the world y axis
// the UpFrame construction is used instead, and the frame is discontinuous there.
type RightFrame struct{}

func (RightFrame) String() string { return "right" }

func (RightFrame) axes(c *Curve, s float64, x r3.Vec) (y, z r3.Vec) {
	h := math.Hypot(x.X, x.Z)
	if h < degenerate {
		return upAxes(x)
	}
	//w is orthogonal to both x and ŷ, so w × x is minus the projection of ŷ, normalized.
	w := r3.Vec{X: x.Z / h, Z: -x.X / h}
	y = r3.Cross(w, x)
	return y, r3.Cross(y, x)
}

// ExternalFrame takes z from externally supplied up vectors, one per control point,
// interpolated with the same kind of spline as the curve. z is the component of the
// interpolated up vector orthogonal to the tangent, and y = x × z.
type ExternalFrame struct {
	up *spline3
}

// NewExternalFrame fits up vectors given at the arc lengths s. Components of up that are not
// finite, or larger than 1 in absolute value, are considered corrupt and set to 0, and a
// message with the number of replaced components is logged. It returns an *InvalidInputError
// if the number of vectors doesn't match the number of arc lengths.
func NewExternalFrame(s []float64, up *v3.Matrix) (*ExternalFrame, error) {
	if up == nil || up.Len() != len(s) {
		n := 0
		if up != nil {
			n = up.Len()
		}
		return nil, NewInvalidInputError("NewExternalFrame", "%d up vectors for %d points", n, len(s))
	}
	if len(s) < 2 {
		return nil, NewInvalidInputError("NewExternalFrame", "at least 2 up vectors are needed")
	}
	vecs := up.Vecs()
	replaced := 0
	for i, v := range vecs {
		c := [3]float64{v.X, v.Y, v.Z}
		for k, w := range c {
			if math.IsNaN(w) || math.Abs(w) > 1 {
				c[k] = 0
				replaced++
			}
		}
		vecs[i] = r3.Vec{X: c[0], Y: c[1], Z: c[2]}
	}
	if replaced > 0 {
		log.Printf("goCoaster/NewExternalFrame: %d corrupt up-vector components set to 0", replaced)
	}
	return &ExternalFrame{up: newSpline3(s, vecs)}, nil
}

func (*ExternalFrame) String() string { return "external" }

func (e *ExternalFrame) axes(c *Curve, s float64, x r3.Vec) (y, z r3.Vec) {
	u := e.up.at(s, 0)
	z = unit(r3.Sub(u, r3.Scale(r3.Dot(u, x), x)))
	return r3.Cross(x, z), z
}

// Up returns the interpolated (not orthogonalized) up vectors at the given arc lengths.
func (e *ExternalFrame) Up(s ...float64) *v3.Matrix {
	ret := v3.Zeros(len(s))
	for i, v := range s {
		ret.SetVec(i, e.up.at(v, 0))
	}
	return ret
}

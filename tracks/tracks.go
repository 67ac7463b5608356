/*
 * tracks.go, part of gocoaster.
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

//Package tracks contains built-in tracks: the Vekoma Big Air (https://rcdb.com/8656.htm),
//with the measured energies used to validate the model (data from
//http://resolver.tudelft.nl/uuid:701f9c34-fc6b-46d2-8beb-c966041bc410), and simple
//tracks with closed-form dynamics.
package tracks

import (
	"math"

	coaster "github.com/rmera/gocoaster"
	v3 "github.com/rmera/gocoaster/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// The Big Air profile, x(t) and height h(t), as polynomial coefficients from the lowest order up.
var (
	bigAirX = []float64{29.11, -174.80, 149.20, -31.67}
	bigAirH = []float64{48.48, 47.83, -154.60, 88.75, -14.12}
)

// BigAirTop is the height at which the Big Air train is released, in m.
const BigAirTop = 53.25

// samples in each section of the Big Air
const bigAirN = 50

func poly(c []float64, t float64) float64 {
	var r float64
	for i := len(c) - 1; i >= 0; i-- {
		r = r*t + c[i]
	}
	return r
}

// bigAirSpan returns the parameters at which dx/dt vanishes, which bound the curved section.
func bigAirSpan() (float64, float64) {
	a, b, c := 3*bigAirX[3], 2*bigAirX[2], bigAirX[1]
	d := math.Sqrt(b*b - 4*a*c)
	t1, t2 := (-b+d)/(2*a), (-b-d)/(2*a)
	return math.Min(t1, t2), math.Max(t1, t2)
}

// BigAirPoints returns the control points of the Big Air: a vertical drop from BigAirTop,
// a curved section given by polynomials, and a vertical climb back to BigAirTop.
// The track lies in the x-z plane.
func BigAirPoints() *v3.Matrix {
	t0, t1 := bigAirSpan()
	t := floats.Span(make([]float64, bigAirN), t0, t1)
	xb := make([]float64, bigAirN)
	hb := make([]float64, bigAirN)
	for i, v := range t {
		xb[i] = poly(bigAirX, v)
		hb[i] = poly(bigAirH, v)
	}
	//the drop, without its last point, which is the first of the curved section
	ha := floats.Span(make([]float64, bigAirN), BigAirTop, hb[0])[:bigAirN-1]
	pts := make([]r3.Vec, 0, 3*bigAirN-2)
	for _, h := range ha {
		pts = append(pts, r3.Vec{X: xb[0], Z: h})
	}
	for i := range xb {
		pts = append(pts, r3.Vec{X: xb[i], Z: hb[i]})
	}
	for i := len(ha) - 1; i >= 0; i-- {
		pts = append(pts, r3.Vec{X: xb[bigAirN-1], Z: ha[i]})
	}
	return v3.FromVecs(pts)
}

// BigAir returns the Big Air track. It uses the right-vector frame, which is
// continuous through the vertical sections.
func BigAir() (*coaster.Curve, error) {
	return coaster.NewRightCurve(BigAirPoints())
}

// BigAirHeartline returns the line followed by the riders' hearts on the Big Air,
// which is the track moved 1 m along minus its vertical axis.
func BigAirHeartline() (*coaster.Curve, error) {
	c, err := BigAir()
	if err != nil {
		return nil, err
	}
	return c.Offset(-1)
}

// BigAirReference returns the times, in s, and the total mechanical energies, in J, measured
// on the Big Air for a train of total mass m, with a gravitational acceleration g.
// The energies alternate between potential at the top of each swing and kinetic at the bottom.
func BigAirReference(g, m float64) (t, e []float64) {
	t = []float64{0.0, 3.74, 7.48, 10.87, 14.25}
	floats.AddConst(1.87, t)
	e = []float64{g * 53.25, 0.5 * 30.05 * 30.05, g * 45.35, 0.5 * 27.68 * 27.68, g * 38.65}
	floats.Scale(m, e)
	return t, e
}

// Incline returns a straight track of the given length, rising at angle alpha (in radians) in the x-z
// plane, with the up-vector frame. The motion of a train on it has a closed form.
func Incline(length, alpha float64) (*coaster.Curve, error) {
	end := r3.Vec{X: length * math.Cos(alpha), Z: length * math.Sin(alpha)}
	return coaster.NewUpCurve(v3.FromVecs([]r3.Vec{{}, end}))
}

// Loop returns a circular vertical loop of radius r in the x-z plane, starting and ending
// at the bottom, with n control points, using the right-vector frame.
// It is not closed: the last point is one step short of the first one.
func Loop(r float64, n int) (*coaster.Curve, error) {
	p := v3.Zeros(n)
	for i := 0; i < n; i++ {
		th := 2 * math.Pi * float64(i) / float64(n)
		p.SetVec(i, r3.Vec{X: r * math.Sin(th), Z: r - r*math.Cos(th)})
	}
	return coaster.NewRightCurve(p)
}

/*
 * motion.go, part of gocoaster.
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
	"gonum.org/v1/gonum/spatial/r3"
)

// Constants contains the physical constants used by the equations of motion.
// All quantities are in SI units.
type Constants struct {
	Area              float64 //frontal area of a coach, m^2
	Drag              float64 //drag coefficient
	RollingResistance float64 //rolling resistance coefficient
	CoachDistance     float64 //distance between consecutive coaches along the track, m
	SpringLoad        float64 //N, not used by the forces
	Gravity           float64 //m/s^2
	Mass              float64 //mass of one coach, kg
	AirDensity        float64 //kg/m^3
}

// DefaultConstants returns the constants for a typical steel coaster coach.
func DefaultConstants() *Constants {
	return &Constants{
		Area:              3.0,
		Drag:              0.8,
		RollingResistance: 0.01,
		CoachDistance:     4.9,
		SpringLoad:        4.7e3,
		Gravity:           9.81,
		Mass:              5.1e3,
		AirDensity:        1.2,
	}
}

func (C *Constants) check() error {
	vals := []struct {
		name string
		v    float64
	}{
		{"Area", C.Area},
		{"Drag", C.Drag},
		{"RollingResistance", C.RollingResistance},
		{"CoachDistance", C.CoachDistance},
		{"SpringLoad", C.SpringLoad},
		{"Gravity", C.Gravity},
		{"Mass", C.Mass},
		{"AirDensity", C.AirDensity},
	}
	for _, c := range vals {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || c.v < 0 {
			return newConfigError("check", "constant %s must be finite and non-negative, got %g", c.name, c.v)
		}
	}
	if C.Mass == 0 {
		return newConfigError("check", "the coach mass can't be zero")
	}
	return nil
}

// EqsMotion contains the equations of motion of a train of coaches moving along a Curve.
// The train is rigid: its state is the arc length s of its middle point and the
// velocity s1 = ds/dt, and each coach sits at a fixed arc length offset from s.
//
// The accelerations are those a rider feels, so gravity points up, (0,0,g), and a train
// at rest on flat track has a total acceleration of g along z.
// The batched methods take a slice of arc lengths s and a slice of velocities s1, of the same
// length as s or of length 1 (the same velocity for every s). Other lengths cause a panic.
// EqsMotion has no mutable state, and can be used from several goroutines at once.
type EqsMotion struct {
	curve *Curve
	n     int
	wind  r3.Vec
	c     Constants
	off   []float64
}

// NewEqsMotion returns the equations of motion for a train of n coaches on the curve ga.
// wind is the wind velocity, nil meaning no wind. It is stored but it does not enter the forces.
// If c is nil, DefaultConstants are used. c is copied, so later changes to it don't affect the
// returned EqsMotion. It returns a *ConfigError for n < 1, a wind that is not a 3-vector, or invalid
// constants, and an *InvalidInputError if ga is nil.
func NewEqsMotion(ga *Curve, n int, wind []float64, c *Constants) (*EqsMotion, error) {
	if ga == nil {
		return nil, NewInvalidInputError("NewEqsMotion", "nil curve")
	}
	if n < 1 {
		return nil, newConfigError("NewEqsMotion", "at least one coach is needed, got %d", n)
	}
	E := &EqsMotion{curve: ga, n: n}
	if wind != nil {
		if len(wind) != 3 {
			return nil, newConfigError("NewEqsMotion", "the wind velocity must have 3 components, got %d", len(wind))
		}
		E.wind = r3.Vec{X: wind[0], Y: wind[1], Z: wind[2]}
	}
	if c == nil {
		c = DefaultConstants()
	}
	if err := c.check(); err != nil {
		return nil, errDecorate(err, "NewEqsMotion")
	}
	E.c = *c
	//coaches are evenly spaced and centered on the train's position.
	E.off = make([]float64, n)
	half := 0.5 * float64(n-1) * c.CoachDistance
	for i := range E.off {
		E.off[i] = float64(i)*c.CoachDistance - half
	}
	return E, nil
}

// Curve returns the curve the train moves on.
func (E *EqsMotion) Curve() *Curve { return E.curve }

// N returns the number of coaches.
func (E *EqsMotion) N() int { return E.n }

// Wind returns the wind velocity.
func (E *EqsMotion) Wind() r3.Vec { return E.wind }

// Constants returns a copy of the physical constants in use.
func (E *EqsMotion) Constants() Constants { return E.c }

// Si returns, for each s given, the arc lengths of the n coaches when the train is at s.
func (E *EqsMotion) Si(s ...float64) [][]float64 {
	ret := make([][]float64, len(s))
	for j, v := range s {
		ret[j] = make([]float64, E.n)
		for i, o := range E.off {
			ret[j][i] = v + o
		}
	}
	return ret
}

// velocities returns the velocity that goes with s[i]. It panics if s1 can't be broadcast to s.
func velocities(s, s1 []float64) func(int) float64 {
	switch len(s1) {
	case len(s):
		return func(i int) float64 { return s1[i] }
	case 1:
		return func(int) float64 { return s1[0] }
	}
	panic(v3.ErrShape)
}

func (E *EqsMotion) mapAccel(s, s1 []float64, f func(float64, float64) r3.Vec) *v3.Matrix {
	v := velocities(s, s1)
	ret := v3.Zeros(len(s))
	for i, w := range s {
		ret.SetVec(i, f(w, v(i)))
	}
	return ret
}

// Gravity returns the gravitational acceleration, (0,0,g), once per s.
func (E *EqsMotion) Gravity(s ...float64) *v3.Matrix {
	ret := v3.Zeros(len(s))
	for i := range s {
		ret.SetVec(i, E.gravity())
	}
	return ret
}

// Centripetal returns the centripetal acceleration s1^2 k n, which is zero on straight track.
func (E *EqsMotion) Centripetal(s, s1 []float64) *v3.Matrix {
	return E.mapAccel(s, s1, E.centripetal)
}

// Normal returns the part of gravity plus centripetal acceleration orthogonal to the tangent,
// which is what presses the train against the track.
func (E *EqsMotion) Normal(s, s1 []float64) *v3.Matrix {
	return E.mapAccel(s, s1, E.normal)
}

// Drag returns the aerodynamic drag, sign(s1) rho s1^2 Cd A/(2m), along the tangent.
func (E *EqsMotion) Drag(s, s1 []float64) *v3.Matrix {
	return E.mapAccel(s, s1, E.drag)
}

// RollingResistance returns sign(s1) Crr |Normal|, along the tangent.
func (E *EqsMotion) RollingResistance(s, s1 []float64) *v3.Matrix {
	return E.mapAccel(s, s1, E.rolling)
}

// Friction returns the drag plus the rolling resistance. Both are zero when s1 is zero.
func (E *EqsMotion) Friction(s, s1 []float64) *v3.Matrix {
	return E.mapAccel(s, s1, E.friction)
}

// Total returns gravity plus centripetal acceleration plus friction.
func (E *EqsMotion) Total(s, s1 []float64) *v3.Matrix {
	return E.mapAccel(s, s1, E.total)
}

// Longitudinal returns d(s1)/dt for the train at each s: the total acceleration of each coach,
// projected on the coach's own tangent and negated, averaged over all the coaches.
func (E *EqsMotion) Longitudinal(s, s1 []float64) []float64 {
	v := velocities(s, s1)
	ret := make([]float64, len(s))
	for i, w := range s {
		ret[i] = E.longitudinal(w, v(i))
	}
	return ret
}

// Lateral returns the total acceleration along the lateral axis of the curve
// at the train's position (not averaged over the coaches).
func (E *EqsMotion) Lateral(s, s1 []float64) []float64 {
	return v3.Dots(E.Total(s, s1), E.curve.Y(s...))
}

// Vertical returns the total acceleration along the vertical axis of the curve
// at the train's position (not averaged over the coaches).
func (E *EqsMotion) Vertical(s, s1 []float64) []float64 {
	return v3.Dots(E.Total(s, s1), E.curve.Z(s...))
}

// Fun is the right-hand side of the equations of motion, in the form
// the ode package expects. y is (s, s1) and dydt is set to (s1, d(s1)/dt).
// t is not used.
func (E *EqsMotion) Fun(t float64, y, dydt []float64) {
	dydt[0] = y[1]
	dydt[1] = E.longitudinal(y[0], y[1])
}

// RHS returns (s1, d(s1)/dt) for the state y = (s, s1).
func (E *EqsMotion) RHS(t float64, y []float64) []float64 {
	dydt := make([]float64, 2)
	E.Fun(t, y, dydt)
	return dydt
}

// Energy returns the mechanical energy of the train at each s, in J: the kinetic energy
// of the n coaches plus their potential energy, which is that of the mean coach height.
func (E *EqsMotion) Energy(s, s1 []float64) []float64 {
	v := velocities(s, s1)
	ret := make([]float64, len(s))
	for i, w := range s {
		kin := 0.5 * float64(E.n) * E.c.Mass * v(i) * v(i)
		pot := 0.0
		for _, o := range E.off {
			pot += E.curve.ga.at(w+o, 0).Z
		}
		ret[i] = kin + E.c.Mass*E.c.Gravity*pot
	}
	return ret
}

//Single-point versions

func (E *EqsMotion) gravity() r3.Vec {
	return r3.Vec{Z: E.c.Gravity}
}

func (E *EqsMotion) centripetal(s, s1 float64) r3.Vec {
	return r3.Scale(s1*s1, E.curve.curvatureVector(s))
}

func (E *EqsMotion) normal(s, s1 float64) r3.Vec {
	a := r3.Add(E.gravity(), E.centripetal(s, s1))
	x := E.curve.tangent(s)
	return r3.Sub(a, r3.Scale(r3.Dot(a, x), x))
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func (E *EqsMotion) drag(s, s1 float64) r3.Vec {
	if s1 == 0 {
		return r3.Vec{}
	}
	mag := sign(s1) * 0.5 * E.c.AirDensity * s1 * s1 * E.c.Drag * E.c.Area / E.c.Mass
	return r3.Scale(mag, E.curve.tangent(s))
}

func (E *EqsMotion) rolling(s, s1 float64) r3.Vec {
	if s1 == 0 {
		return r3.Vec{}
	}
	mag := sign(s1) * E.c.RollingResistance * r3.Norm(E.normal(s, s1))
	return r3.Scale(mag, E.curve.tangent(s))
}

func (E *EqsMotion) friction(s, s1 float64) r3.Vec {
	return r3.Add(E.drag(s, s1), E.rolling(s, s1))
}

func (E *EqsMotion) total(s, s1 float64) r3.Vec {
	return r3.Add(r3.Add(E.gravity(), E.centripetal(s, s1)), E.friction(s, s1))
}

func (E *EqsMotion) longitudinal(s, s1 float64) float64 {
	var sum float64
	for _, o := range E.off {
		si := s + o
		sum -= r3.Dot(E.total(si, s1), E.curve.tangent(si))
	}
	return sum / float64(E.n)
}

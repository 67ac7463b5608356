/*
 * motion_test.go, part of gocoaster.
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
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/rmera/gocoaster/ode"
	v3 "github.com/rmera/gocoaster/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func frictionless() *Constants {
	c := DefaultConstants()
	c.Drag = 0
	c.RollingResistance = 0
	return c
}

func incline(alpha float64) *Curve {
	c, err := NewUpCurve(line(r3.Vec{}, r3.Vec{X: 100 * math.Cos(alpha), Z: 100 * math.Sin(alpha)}))
	if err != nil {
		panic(err)
	}
	return c
}

func TestConfigErrors(Te *testing.T) {
	c := incline(0.1)
	neg := DefaultConstants()
	neg.Drag = -1
	nomass := DefaultConstants()
	nomass.Mass = 0
	nan := DefaultConstants()
	nan.Gravity = math.NaN()
	cases := []struct {
		name string
		n    int
		wind []float64
		c    *Constants
	}{
		{"no coaches", 0, nil, nil},
		{"bad wind", 2, []float64{1, 2}, nil},
		{"negative drag", 1, nil, neg},
		{"no mass", 1, nil, nomass},
		{"nan gravity", 1, nil, nan},
	}
	for _, v := range cases {
		_, err := NewEqsMotion(c, v.n, v.wind, v.c)
		if _, ok := err.(*ConfigError); !ok {
			Te.Errorf("%s: got %v, expected a *ConfigError", v.name, err)
			continue
		}
		fmt.Println(v.name, err)
	}
	//with several bad constants, the first one in field order is reported
	several := DefaultConstants()
	several.AirDensity = -1
	several.Drag = math.Inf(1)
	several.Area = -2
	for i := 0; i < 20; i++ {
		_, err := NewEqsMotion(c, 1, nil, several)
		if err == nil || !strings.Contains(err.Error(), "constant Area ") {
			Te.Fatalf("expected an error about Area, got %v", err)
		}
	}
	if _, err := NewEqsMotion(nil, 1, nil, nil); err == nil {
		Te.Errorf("a nil curve should fail")
	}
	E, err := NewEqsMotion(c, 3, []float64{1, 0, 0}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if E.Wind() != (r3.Vec{X: 1}) || E.N() != 3 || E.Constants() != *DefaultConstants() || E.Curve() != c {
		Te.Errorf("the equations of motion don't keep their configuration")
	}
}

func TestCoachOffsets(Te *testing.T) {
	E, err := NewEqsMotion(incline(0.1), 3, nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	si := E.Si(10, 20)
	if len(si) != 2 || len(si[0]) != 3 {
		Te.Fatalf("wrong shape for the coach positions")
	}
	if !floats.EqualApprox(si[0], []float64{5.1, 10, 14.9}, 1e-12) || !floats.EqualApprox(si[1], []float64{15.1, 20, 24.9}, 1e-12) {
		Te.Errorf("wrong coach positions %v", si)
	}
	E1, _ := NewEqsMotion(incline(0.1), 1, nil, nil)
	if E1.Si(7)[0][0] != 7 {
		Te.Errorf("a single coach should be at the train's position")
	}
}

// On a straight incline all the forces have a closed form.
func TestInclineForces(Te *testing.T) {
	alpha := 0.3
	c := incline(alpha)
	k := DefaultConstants()
	E, err := NewEqsMotion(c, 3, nil, k)
	if err != nil {
		Te.Fatal(err)
	}
	g := k.Gravity
	drag := func(v float64) float64 { return 0.5 * k.AirDensity * v * v * k.Drag * k.Area / k.Mass }
	roll := k.RollingResistance * g * math.Cos(alpha)
	s := []float64{10, 50, 90}
	for _, v := range []float64{12, -7, 0} {
		want := -g * math.Sin(alpha)
		if v != 0 {
			want -= math.Copysign(drag(v)+roll, v)
		}
		got := E.Longitudinal(s, []float64{v})
		for i := range got {
			if !scalar.EqualWithinAbsOrRel(got[i], want, 1e-9, 1e-9) {
				Te.Errorf("v=%g: longitudinal acceleration %g, expected %g", v, got[i], want)
			}
		}
		cent := E.Centripetal(s, []float64{v})
		for i := 0; i < cent.Len(); i++ {
			if cent.Vec(i) != (r3.Vec{}) {
				Te.Errorf("centripetal acceleration on straight track: %v", cent.Vec(i))
			}
		}
		norm := v3.Norms(E.Normal(s, []float64{v}))
		if !scalar.EqualWithinAbsOrRel(norm[0], g*math.Cos(alpha), 1e-9, 1e-9) {
			Te.Errorf("normal acceleration %g, expected %g", norm[0], g*math.Cos(alpha))
		}
	}
	if f := E.Friction(s, []float64{0}); f.Vec(1) != (r3.Vec{}) {
		Te.Errorf("friction at rest: %v", f.Vec(1))
	}
	dr := v3.Norms(E.Drag(s, []float64{12}))[2]
	rr := v3.Norms(E.RollingResistance(s, []float64{12}))[2]
	if !scalar.EqualWithinAbsOrRel(dr, drag(12), 1e-9, 1e-9) || !scalar.EqualWithinAbsOrRel(rr, roll, 1e-9, 1e-9) {
		Te.Errorf("drag %g (expected %g), rolling resistance %g (expected %g)", dr, drag(12), rr, roll)
	}
	gr := E.Gravity(1, 2)
	if gr.Len() != 2 || gr.Vec(1) != (r3.Vec{Z: g}) {
		Te.Errorf("bad gravity %v", gr)
	}
}

func TestFlatAxes(Te *testing.T) {
	E, err := NewEqsMotion(incline(0), 1, nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	s := []float64{20, 40}
	vert := E.Vertical(s, []float64{15})
	lat := E.Lateral(s, []float64{15})
	for i := range s {
		if !scalar.EqualWithinAbsOrRel(vert[i], 9.81, 1e-12, 1e-12) || math.Abs(lat[i]) > 1e-12 {
			Te.Errorf("on flat track the vertical acceleration should be g and the lateral 0, got %g and %g", vert[i], lat[i])
		}
	}
}

func TestSingleCoach(Te *testing.T) {
	c, err := NewCurve(helix(30, 6, 2, 1))
	if err != nil {
		Te.Fatal(err)
	}
	E1, err := NewEqsMotion(c, 1, nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	E2, err := NewEqsMotion(c, 2, nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	s := c.Sample(20)[2:18]
	v := make([]float64, len(s))
	for i := range v {
		v[i] = 3 + float64(i)
	}
	long1 := E1.Longitudinal(s, v)
	tot := E1.Total(s, v)
	tan := c.Tangent(s...)
	half := 0.5 * E2.Constants().CoachDistance
	for i := range s {
		want := -r3.Dot(tot.Vec(i), tan.Vec(i))
		if !scalar.EqualWithinAbsOrRel(long1[i], want, 1e-12, 1e-12) {
			Te.Errorf("one coach at s=%g: %g, expected the projected total acceleration %g", s[i], long1[i], want)
		}
		//two coaches share the mean of their accelerations
		pair := E1.Longitudinal([]float64{s[i] - half, s[i] + half}, []float64{v[i]})
		got := E2.Longitudinal([]float64{s[i]}, []float64{v[i]})[0]
		if !scalar.EqualWithinAbsOrRel(got, 0.5*(pair[0]+pair[1]), 1e-12, 1e-12) {
			Te.Errorf("two coaches at s=%g: %g, expected %g", s[i], got, 0.5*(pair[0]+pair[1]))
		}
	}
	rhs := E2.RHS(0, []float64{s[3], v[3]})
	if rhs[0] != v[3] || rhs[1] != E2.Longitudinal(s[3:4], v[3:4])[0] {
		Te.Errorf("bad right-hand side %v", rhs)
	}
}

func TestBroadcast(Te *testing.T) {
	E, err := NewEqsMotion(incline(0.2), 2, nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	s := []float64{1, 2, 3}
	one := E.Total(s, []float64{4})
	many := E.Total(s, []float64{4, 4, 4})
	for i := range s {
		if one.Vec(i) != many.Vec(i) {
			Te.Errorf("broadcast velocity gives %v instead of %v", one.Vec(i), many.Vec(i))
		}
	}
	defer func() {
		if r := recover(); r != v3.ErrShape {
			Te.Errorf("mismatched shapes should panic with ErrShape, got %v", r)
		}
	}()
	E.Drag(s, []float64{1, 2})
}

// Without friction, a train sent up an incline stops at v0^2/(2 g sin(alpha)),
// after v0/(g sin(alpha)), and keeps its energy.
func TestInclineRide(Te *testing.T) {
	alpha, v0 := 0.3, 10.0
	E, err := NewEqsMotion(incline(alpha), 3, nil, frictionless())
	if err != nil {
		Te.Fatal(err)
	}
	opts := ode.DefaultOptions()
	opts.RTol, opts.ATol = 1e-10, 1e-10
	sol, err := Simulate(E, 20, 0, v0, opts)
	if err != nil {
		Te.Fatal(err)
	}
	t, s, stopped := StopPoint(sol)
	if !stopped {
		Te.Fatalf("the train didn't stop")
	}
	gs := 9.81 * math.Sin(alpha)
	if !scalar.EqualWithinAbsOrRel(t, v0/gs, 1e-6, 1e-6) || !scalar.EqualWithinAbsOrRel(s, v0*v0/(2*gs), 1e-6, 1e-6) {
		Te.Errorf("stopped at t=%g s=%g, expected t=%g s=%g", t, s, v0/gs, v0*v0/(2*gs))
	}
	e := make([]float64, len(sol.T))
	for i, y := range sol.Y {
		e[i] = E.Energy(y[:1], y[1:])[0]
	}
	if d := EnergyDrift(e); d > 1e-9 {
		Te.Errorf("energy drift %g", d)
	}
}

// Released at rest in a frictionless parabolic valley, the train climbs to
// the same height on the other side.
func TestValleyEnergy(Te *testing.T) {
	p := v3.Zeros(41)
	for i := 0; i < p.Len(); i++ {
		x := float64(i - 20)
		p.SetVec(i, r3.Vec{X: x, Z: 0.05 * x * x})
	}
	c, err := NewUpCurve(p)
	if err != nil {
		Te.Fatal(err)
	}
	E, err := NewEqsMotion(c, 2, nil, frictionless())
	if err != nil {
		Te.Fatal(err)
	}
	opts := ode.DefaultOptions()
	opts.RTol, opts.ATol = 1e-9, 1e-9
	arc := c.S()
	sol, err := Simulate(E, 60, arc[5], 0, opts)
	if err != nil {
		Te.Fatal(err)
	}
	_, s, stopped := StopPoint(sol)
	if !stopped {
		Te.Fatalf("the train didn't stop")
	}
	if want := 2*arc[20] - arc[5]; math.Abs(s-want) > 0.1 {
		Te.Errorf("stopped at s=%g, expected about %g", s, want)
	}
	e := make([]float64, len(sol.T))
	for i, y := range sol.Y {
		e[i] = E.Energy(y[:1], y[1:])[0]
	}
	d := EnergyDrift(e)
	if d > 2e-3 {
		Te.Errorf("energy drift %g", d)
	}
	fmt.Println("valley: energy drift", d, "steps", len(sol.T)-1)
}

func TestCompareEnergy(Te *testing.T) {
	c, err := CompareEnergy([]float64{0, 1, 2}, []float64{10, 8, 6}, []float64{0.5, 1.5}, []float64{9, 6.5})
	if err != nil {
		Te.Fatal(err)
	}
	if !floats.EqualApprox(c.Simulated, []float64{9, 7}, 1e-12) || !floats.EqualApprox(c.Residual, []float64{0, 0.5}, 1e-12) {
		Te.Errorf("bad comparison %+v", c)
	}
	if math.Abs(c.Mean-0.25) > 1e-12 || math.Abs(c.StdDev-math.Sqrt(0.125)) > 1e-12 {
		Te.Errorf("mean %g and standard deviation %g of the residuals", c.Mean, c.StdDev)
	}
	if math.Abs(c.Relative-0.25/6.5) > 1e-12 {
		Te.Errorf("relative residual %g", c.Relative)
	}
	if c.Covered != 2 || c.Outside[0] || c.Outside[1] {
		Te.Errorf("both reference times are within the simulation: %+v", c)
	}
	//the last two are past the end of the simulation, and are left out of the statistics
	c, err = CompareEnergy([]float64{0, 1, 2}, []float64{10, 8, 6}, []float64{0.5, 1.5, 3, 7}, []float64{9, 6.5, 1, 0.5})
	if err != nil {
		Te.Fatal(err)
	}
	if c.Covered != 2 || !reflect.DeepEqual(c.Outside, []bool{false, false, true, true}) {
		Te.Errorf("bad coverage %d %v", c.Covered, c.Outside)
	}
	if c.Simulated[2] != 6 || c.Simulated[3] != 6 {
		Te.Errorf("the simulated energy should be held past the end: %v", c.Simulated)
	}
	if math.Abs(c.Mean-0.25) > 1e-12 || math.Abs(c.StdDev-math.Sqrt(0.125)) > 1e-12 || math.Abs(c.Relative-0.25/6.5) > 1e-12 {
		Te.Errorf("points past the end changed the statistics: %+v", c)
	}
	if _, err := CompareEnergy([]float64{0, 1}, []float64{1, 1}, []float64{2, 3}, []float64{1, 1}); err == nil {
		Te.Errorf("a reference entirely past the simulation should fail")
	}
	if _, err := CompareEnergy([]float64{0, 1}, []float64{1}, []float64{0}, []float64{1}); err == nil {
		Te.Errorf("mismatched lengths should fail")
	}
	if d := EnergyDrift([]float64{10, 9, 11}); math.Abs(d-0.1) > 1e-12 {
		Te.Errorf("drift %g, expected 0.1", d)
	}
}

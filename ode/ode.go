/*
 * ode.go, part of gocoaster.
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

package ode

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Func is the right-hand side of the problem. It puts in dydt the derivative of
// the state y at time t. It must not keep references to y or dydt.
type Func func(t float64, y, dydt []float64)

// Event is a function whose zeros are located during the integration.
type Event struct {
	Func func(t float64, y []float64) float64
	//Terminal events stop the integration when they trigger.
	Terminal bool
	//If Direction > 0, the event only triggers when Func goes from negative to positive,
	//if Direction < 0, only from positive to negative. 0 means both.
	Direction float64
}

// Options contains the tolerances and limits for the integration.
type Options struct {
	RTol      float64
	ATol      float64
	MaxStep   float64 //+Inf means no limit
	FirstStep float64 //0 means it is chosen automatically
	MaxSteps  int     //attempted steps, accepted or not
}

// DefaultOptions returns the usual tolerances for a 5(4) method: relative 1e-3,
// absolute 1e-6, no maximum step and a million steps at most.
func DefaultOptions() *Options {
	return &Options{
		RTol:     1e-3,
		ATol:     1e-6,
		MaxStep:  math.Inf(1),
		MaxSteps: 1000000,
	}
}

func (O *Options) check() error {
	if !(O.RTol > 0) || !(O.ATol > 0) {
		return newError(0, "tolerances must be positive, got rtol %g atol %g", O.RTol, O.ATol)
	}
	if O.MaxStep <= 0 || O.FirstStep < 0 || O.MaxSteps <= 0 {
		return newError(0, "MaxStep and MaxSteps must be positive, FirstStep non-negative")
	}
	return nil
}

// Status tells how an integration finished.
type Status int

const (
	Finished   Status = iota // reached the end of the time span
	Terminated               // stopped by a terminal event
)

func (S Status) String() string {
	if S == Terminated {
		return "terminated by event"
	}
	return "finished"
}

//Dormand-Prince coefficients.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	//the last row holds the weights of the 5th order solution, which is evaluated
	//as a 7th stage (first same as last).
	dpA = [6][6]float64{
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	//difference between the 5th and the embedded 4th order solution.
	dpE = [7]float64{71.0 / 57600, 0, -71.0 / 16695, 71.0 / 1920, -17253.0 / 339200, 22.0 / 525, -1.0 / 40}
	//coefficients of θ, θ², θ³ and θ⁴ in the weight of each stage for the dense output.
	dpP = [7][4]float64{
		{1, -8048581381.0 / 2820520608, 8663915743.0 / 2820520608, -12715105075.0 / 11282082432},
		{0, 0, 0, 0},
		{0, 131558114200.0 / 32700410799, -68118460800.0 / 10900136933, 87487479700.0 / 32700410799},
		{0, -1754552775.0 / 470086768, 14199869525.0 / 1410260304, -10690763975.0 / 1880347072},
		{0, 127303824393.0 / 49829197408, -318862633887.0 / 49829197408, 701980252875.0 / 199316789632},
		{0, -282668133.0 / 205662961, 2019193451.0 / 616988883, -1453857185.0 / 822651844},
		{0, 40617522.0 / 29380423, -110615467.0 / 29380423, 69997945.0 / 29380423},
	}
)

const (
	safety    = 0.9
	minFactor = 0.2
	maxFactor = 10
	errExp    = -1.0 / 5
)

// Solve integrates f from t0 to t1 > t0, starting from y0. If opts is nil, DefaultOptions are used.
// The integration stops at t1, or at the first trigger of a terminal event.
func Solve(f Func, t0, t1 float64, y0 []float64, opts *Options, events ...Event) (*Solution, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.check(); err != nil {
		return nil, errDecorate(err, "Solve")
	}
	if !(t1 > t0) || math.IsInf(t1-t0, 0) {
		return nil, newError(t0, "the time span [%g, %g] must be finite and increasing", t0, t1).deco("Solve")
	}
	if len(y0) == 0 {
		return nil, newError(t0, "empty initial state").deco("Solve")
	}
	n := len(y0)
	in := &integrator{f: f, n: n, opts: opts, t1: t1}
	in.t = t0
	in.y = append([]float64(nil), y0...)
	in.fy = make([]float64, n)
	in.call(t0, in.y, in.fy)
	if !finite(in.fy) {
		return nil, newError(t0, "non-finite derivative at the initial state").deco("Solve")
	}
	for i := range in.k {
		in.k[i] = make([]float64, n)
	}
	in.ynew = make([]float64, n)
	in.tmp = make([]float64, n)
	sol := &Solution{
		T:       []float64{t0},
		Y:       [][]float64{append([]float64(nil), y0...)},
		TEvents: make([][]float64, len(events)),
		YEvents: make([][][]float64, len(events)),
	}
	gold := make([]float64, len(events))
	for i, e := range events {
		gold[i] = e.Func(t0, in.y)
	}
	habs := opts.FirstStep
	if habs == 0 {
		habs = in.initialStep()
	}
	habs = math.Min(habs, t1-t0)
	for in.t < t1 {
		var err error
		habs, err = in.step(habs)
		if err != nil {
			sol.NFev = in.nfev
			return sol, errDecorate(err, "Solve")
		}
		seg := segment{t0: in.told, t1: in.t, y0: in.yold, y1: append([]float64(nil), in.y...), q: in.dense()}
		sol.segs = append(sol.segs, seg)
		//events
		var hits []hit
		for i, e := range events {
			gnew := e.Func(in.t, in.y)
			if triggered(gold[i], gnew, e.Direction) {
				te := seg.root(e.Func, gold[i], gnew)
				hits = append(hits, hit{i, te})
			}
			gold[i] = gnew
		}
		stop := false
		if len(hits) > 0 {
			sort.SliceStable(hits, func(a, b int) bool { return hits[a].t < hits[b].t })
			for _, h := range hits {
				ye := seg.at(h.t, nil)
				sol.TEvents[h.event] = append(sol.TEvents[h.event], h.t)
				sol.YEvents[h.event] = append(sol.YEvents[h.event], ye)
				if events[h.event].Terminal {
					sol.T = append(sol.T, h.t)
					sol.Y = append(sol.Y, ye)
					sol.Status = Terminated
					stop = true
					break
				}
			}
		}
		if stop {
			break
		}
		sol.T = append(sol.T, in.t)
		sol.Y = append(sol.Y, seg.y1)
	}
	sol.NFev = in.nfev
	return sol, nil
}

type hit struct {
	event int
	t     float64
}

// triggered tells if an event function going from gold to gnew is a zero crossing
// in the requested direction.
func triggered(gold, gnew, direction float64) bool {
	up := gold <= 0 && gnew >= 0
	down := gold >= 0 && gnew <= 0
	switch {
	case direction > 0:
		return up
	case direction < 0:
		return down
	}
	return up || down
}

type integrator struct {
	f           Func
	n           int
	opts        *Options
	t1          float64
	t, told     float64
	y, yold     []float64
	fy          []float64
	ynew, tmp   []float64
	k           [7][]float64
	nfev, tries int
}

func (in *integrator) call(t float64, y, dydt []float64) {
	in.f(t, y, dydt)
	in.nfev++
}

// rms returns the root mean square of v/scale.
func rms(v, scale []float64) float64 {
	var sum float64
	for i, x := range v {
		r := x / scale[i]
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(v)))
}

func (in *integrator) initialStep() float64 {
	scale := make([]float64, in.n)
	for i, v := range in.y {
		scale[i] = in.opts.ATol + math.Abs(v)*in.opts.RTol
	}
	d0 := rms(in.y, scale)
	d1 := rms(in.fy, scale)
	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	y1 := make([]float64, in.n)
	f1 := make([]float64, in.n)
	for i := range y1 {
		y1[i] = in.y[i] + h0*in.fy[i]
	}
	in.call(in.t+h0, y1, f1)
	for i := range f1 {
		f1[i] -= in.fy[i]
	}
	d2 := rms(f1, scale) / h0
	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/5)
	}
	return math.Min(100*h0, h1)
}

// rkStep computes the 5th order solution at t+h in in.ynew, and the stages
// in in.k, k[6] being the derivative at the new point.
func (in *integrator) rkStep(h float64) {
	copy(in.k[0], in.fy)
	for s := 1; s < 7; s++ {
		for i := 0; i < in.n; i++ {
			acc := 0.0
			for j := 0; j < s; j++ {
				acc += dpA[s-1][j] * in.k[j][i]
			}
			in.tmp[i] = in.y[i] + h*acc
		}
		if s == 6 {
			copy(in.ynew, in.tmp)
		}
		in.call(in.t+dpC[s]*h, in.tmp, in.k[s])
	}
}

// step advances the integration one accepted step, starting with a step of size habs.
// It returns the size suggested for the next step.
func (in *integrator) step(habs float64) (float64, error) {
	minStep := 10 * math.Abs(math.Nextafter(in.t, math.Inf(1))-in.t)
	if habs > in.opts.MaxStep {
		habs = in.opts.MaxStep
	} else if habs < minStep {
		habs = minStep
	}
	rejected := false
	scale := in.tmp
	errv := make([]float64, in.n)
	for {
		in.tries++
		if in.tries > in.opts.MaxSteps {
			return 0, newError(in.t, "too many steps (%d)", in.opts.MaxSteps).deco("step")
		}
		if habs < minStep {
			return 0, newError(in.t, "required step size is less than spacing between numbers").deco("step")
		}
		tnew := in.t + habs
		if tnew > in.t1 {
			tnew = in.t1
		}
		h := tnew - in.t
		habs = h
		in.rkStep(h)
		if !finite(in.ynew) || !finite(in.k[6]) {
			return 0, newError(in.t, "non-finite state or derivative for a step of %g", h).deco("step")
		}
		for i := range errv {
			acc := 0.0
			for j, e := range dpE {
				acc += e * in.k[j][i]
			}
			errv[i] = h * acc
			scale[i] = in.opts.ATol + math.Max(math.Abs(in.y[i]), math.Abs(in.ynew[i]))*in.opts.RTol
		}
		errNorm := rms(errv, scale)
		if errNorm < 1 {
			factor := float64(maxFactor)
			if errNorm > 0 {
				factor = math.Min(maxFactor, safety*math.Pow(errNorm, errExp))
			}
			if rejected {
				factor = math.Min(1, factor)
			}
			in.told, in.t = in.t, tnew
			in.yold, in.y = in.y, append([]float64(nil), in.ynew...)
			in.fy = append([]float64(nil), in.k[6]...)
			return habs * factor, nil
		}
		habs *= math.Max(minFactor, safety*math.Pow(errNorm, errExp))
		rejected = true
	}
}

// dense returns the dense output coefficients of the last accepted step,
// whose stages are still in in.k.
func (in *integrator) dense() [][4]float64 {
	q := make([][4]float64, in.n)
	for i := range q {
		for s, p := range dpP {
			for j, w := range p {
				q[i][j] += in.k[s][i] * w
			}
		}
	}
	return q
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

//Errors

// Error is returned when an integration can't proceed.
type Error struct {
	msg   string
	t     float64
	trail []string
}

func newError(t float64, format string, a ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, a...), t: t}
}

// deco decorates the error and returns it, for one-line returns.
func (err *Error) deco(caller string) *Error {
	err.Decorate(caller)
	return err
}

func (err *Error) Error() string {
	return fmt.Sprintf("goCoaster/ode: %s at t=%g (%s)", err.msg, err.t, strings.Join(err.trail, " < "))
}

// Decorate adds the caller to the error's trail and returns the trail.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.trail = append(err.trail, deco)
	}
	return err.trail
}

// T returns the time at which the integration failed.
func (err *Error) T() float64 { return err.t }

func errDecorate(err error, caller string) error {
	if e, ok := err.(*Error); ok {
		e.Decorate(caller)
	}
	return err
}

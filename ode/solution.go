/*
 * solution.go, part of gocoaster.
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
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Solution is the result of an integration.
type Solution struct {
	T       []float64     //accepted times, ending at the final time (or the terminal event)
	Y       [][]float64   //states at the times in T
	TEvents [][]float64   //for each event, the times at which it triggered
	YEvents [][][]float64 //for each event, the states at which it triggered
	Status  Status
	NFev    int //number of evaluations of the right-hand side
	segs    []segment
}

// Span returns the first and last time of the solution.
func (S *Solution) Span() (float64, float64) {
	return S.T[0], S.T[len(S.T)-1]
}

// At returns the state at time t, interpolated between the accepted steps. If dst is not nil
// and has the right length, the state is put there. Times outside the solution's span are
// extrapolated from the closest step.
func (S *Solution) At(t float64, dst []float64) []float64 {
	if len(S.segs) == 0 {
		return copyTo(dst, S.Y[0])
	}
	i := sort.Search(len(S.segs), func(i int) bool { return S.segs[i].t1 >= t })
	if i == len(S.segs) {
		i--
	}
	return S.segs[i].at(t, dst)
}

// Sample returns n states evenly spaced in time over the solution's span, and their times.
// The first index of the returned states is the component, the second the sample,
// so Sample(100)[1] is (for a second order problem) the velocity through time.
func (S *Solution) Sample(n int) ([]float64, [][]float64) {
	t0, t1 := S.Span()
	ts := floats.Span(make([]float64, n), t0, t1)
	dim := len(S.Y[0])
	ret := make([][]float64, dim)
	for k := range ret {
		ret[k] = make([]float64, n)
	}
	y := make([]float64, dim)
	for i, t := range ts {
		S.At(t, y)
		for k, v := range y {
			ret[k][i] = v
		}
	}
	return ts, ret
}

func copyTo(dst, src []float64) []float64 {
	if len(dst) != len(src) {
		dst = make([]float64, len(src))
	}
	copy(dst, src)
	return dst
}

// segment is the interpolant of an accepted step: the 4th order continuous
// extension of the Dormand-Prince pair, y(t0+θh) = y0 + h·Σ_j q[j]·θ^(j+1).
type segment struct {
	t0, t1 float64
	y0, y1 []float64
	q      [][4]float64 //per component
}

func (s segment) at(t float64, dst []float64) []float64 {
	if len(dst) != len(s.y0) {
		dst = make([]float64, len(s.y0))
	}
	h := s.t1 - s.t0
	th := (t - s.t0) / h
	for i := range dst {
		q := s.q[i]
		dst[i] = s.y0[i] + h*th*(q[0]+th*(q[1]+th*(q[2]+th*q[3])))
	}
	return dst
}

// root locates the zero of g inside the segment, given its values at both ends,
// using the Illinois variant of regula falsi on the interpolant.
func (s segment) root(g func(float64, []float64) float64, ga, gb float64) float64 {
	a, b := s.t0, s.t1
	if ga == 0 {
		return a
	}
	if gb == 0 {
		return b
	}
	y := make([]float64, len(s.y0))
	tol := 4 * 2.220446049250313e-16 * math.Max(1, math.Abs(b))
	side := 0
	for iter := 0; iter < 200 && b-a > tol; iter++ {
		c := (a*gb - b*ga) / (gb - ga)
		if !(c > a && c < b) {
			c = 0.5 * (a + b)
		}
		gc := g(c, s.at(c, y))
		switch {
		case gc == 0:
			return c
		case math.Signbit(gc) == math.Signbit(gb):
			b, gb = c, gc
			if side == -1 {
				ga /= 2
			}
			side = -1
		default:
			a, ga = c, gc
			if side == 1 {
				gb /= 2
			}
			side = 1
		}
	}
	//the bracket is [a,b] with a sign change; report the point past the crossing,
	//so the event function has already changed sign at the returned time.
	return b
}

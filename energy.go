/*
 * energy.go, part of gocoaster.
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

	"github.com/rmera/gocoaster/ode"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"
)

// EnergyComparison holds simulated energies interpolated at the times
// of a set of reference measurements, and their differences.
type EnergyComparison struct {
	T         []float64 //times of the reference data
	Simulated []float64
	Reference []float64
	Residual  []float64 //Simulated-Reference
	Outside   []bool    //true for the reference times past the ends of the simulation
	Covered   int       //number of reference times within the simulation
	Mean      float64   //mean of the residuals within the simulation
	StdDev    float64   //standard deviation of the residuals within the simulation
	Relative  float64   //mean of |residual|/|reference| within the simulation
}

// RideEnergy samples sol at n evenly spaced times, and returns the times and the energy of the
// train of E at each of them.
func RideEnergy(E *EqsMotion, sol *ode.Solution, n int) (t, e []float64) {
	t, y := sol.Sample(n)
	return t, E.Energy(y[0], y[1])
}

// CompareEnergy compares the simulated energies e, at the times t, with the reference energies eref
// at the times tref. The simulated energy is interpolated linearly at the reference times, and held
// constant past the ends of t. Reference times past the ends of t are marked in Outside, and left
// out of Mean, StdDev and Relative. It returns an *InvalidInputError if t has fewer than 2 elements,
// is not increasing, if the slices lengths don't match, or if no reference time is within t.
func CompareEnergy(t, e, tref, eref []float64) (*EnergyComparison, error) {
	if len(t) != len(e) || len(tref) != len(eref) {
		return nil, NewInvalidInputError("CompareEnergy", "mismatched lengths: %d times, %d energies, %d reference times, %d reference energies", len(t), len(e), len(tref), len(eref))
	}
	if len(tref) == 0 {
		return nil, NewInvalidInputError("CompareEnergy", "no reference data")
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(t, e); err != nil {
		return nil, NewInvalidInputError("CompareEnergy", "can't interpolate the simulated energy: %s", err.Error())
	}
	c := &EnergyComparison{
		T:         append([]float64(nil), tref...),
		Simulated: make([]float64, len(tref)),
		Reference: append([]float64(nil), eref...),
		Residual:  make([]float64, len(tref)),
		Outside:   make([]bool, len(tref)),
	}
	res := make([]float64, 0, len(tref))
	rel := make([]float64, 0, len(tref))
	for i, v := range tref {
		c.Simulated[i] = pl.Predict(v)
		c.Residual[i] = c.Simulated[i] - eref[i]
		if v < t[0] || v > t[len(t)-1] {
			c.Outside[i] = true
			continue
		}
		res = append(res, c.Residual[i])
		rel = append(rel, math.Abs(c.Residual[i])/math.Abs(eref[i]))
	}
	c.Covered = len(res)
	if c.Covered == 0 {
		return nil, NewInvalidInputError("CompareEnergy", "no reference time within [%g, %g]", t[0], t[len(t)-1])
	}
	c.Mean, c.StdDev = stat.MeanStdDev(res, nil)
	if c.Covered == 1 {
		c.StdDev = 0
	}
	c.Relative = stat.Mean(rel, nil)
	return c, nil
}

// EnergyDrift returns the largest deviation of the energies e from e[0], relative to |e[0]|
// (or absolute if e[0] is 0).
func EnergyDrift(e []float64) float64 {
	if len(e) == 0 {
		return 0
	}
	ref := math.Abs(e[0])
	if ref == 0 {
		ref = 1
	}
	var drift float64
	for _, v := range e {
		drift = math.Max(drift, math.Abs(v-e[0])/ref)
	}
	return drift
}

/*
 * plot_test.go, part of gocoaster.
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

/*These tests produce the plots of a short ride on the Big Air heartline*/

package coasterplot

import (
	"os"
	"path/filepath"
	"testing"

	coaster "github.com/rmera/gocoaster"
	"github.com/rmera/gocoaster/tracks"
)

func exists(Te *testing.T, name string) {
	st, err := os.Stat(name)
	if err != nil {
		Te.Fatal(err)
	}
	if st.Size() == 0 {
		Te.Errorf("%s is empty", name)
	}
}

func TestPlots(Te *testing.T) {
	dir := Te.TempDir()
	h, err := tracks.BigAirHeartline()
	if err != nil {
		Te.Fatal(err)
	}
	if err := TrackProfile(h, 300, "Big Air heartline", filepath.Join(dir, "profile.png")); err != nil {
		Te.Fatal(err)
	}
	exists(Te, filepath.Join(dir, "profile.png"))
	E, err := coaster.NewEqsMotion(h, 2, nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	sol, err := coaster.Simulate(E, 8, 0, 0, nil)
	if err != nil {
		Te.Fatal(err)
	}
	t, e := coaster.RideEnergy(E, sol, 200)
	tref, eref := tracks.BigAirReference(E.Constants().Gravity, float64(E.N())*E.Constants().Mass)
	if err := EnergyPlot(t, e, tref, eref, "Energy", filepath.Join(dir, "energy.svg")); err != nil {
		Te.Fatal(err)
	}
	exists(Te, filepath.Join(dir, "energy.svg"))
	ts, y := sol.Sample(200)
	if err := ForcePlot(E, ts, y[0], y[1], "Accelerations", filepath.Join(dir, "forces.png")); err != nil {
		Te.Fatal(err)
	}
	exists(Te, filepath.Join(dir, "forces.png"))
}

func TestPlotErrors(Te *testing.T) {
	dir := Te.TempDir()
	if err := EnergyPlot([]float64{0, 1}, []float64{1}, nil, nil, "", filepath.Join(dir, "e.png")); err == nil {
		Te.Errorf("mismatched data should fail")
	}
	c, err := tracks.Incline(10, 0.1)
	if err != nil {
		Te.Fatal(err)
	}
	if err := TrackProfile(c, 1, "", filepath.Join(dir, "p.png")); err == nil {
		Te.Errorf("a single sample should fail")
	}
	if err := TrackProfile(c, 10, "", filepath.Join(dir, "p.unknownformat")); err == nil {
		Te.Errorf("an unknown format should fail")
	}
}

func TestColors(Te *testing.T) {
	seen := map[[3]uint8]bool{}
	for i := 0; i < 5; i++ {
		r, g, b := colors(i, 5)
		if seen[[3]uint8{r, g, b}] {
			Te.Errorf("color %d repeated: %d %d %d", i, r, g, b)
		}
		seen[[3]uint8{r, g, b}] = true
	}
	if r, g, b := hsv2RGB(0, 1, 0); r != 255 || g != 255 || b != 255 {
		Te.Errorf("white is %d %d %d", r, g, b)
	}
}

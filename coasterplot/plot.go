/*
 * plot.go, part of gocoaster.
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

//Package coasterplot produces plots of rides and tracks with gonum/plot.
//The format of each plot is given by the extension of its file name (png, svg, pdf, eps...).
package coasterplot

import (
	"fmt"
	"image/color"

	coaster "github.com/rmera/gocoaster"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Size of the saved plots.
var (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func xys(x, y []float64) (plotter.XYs, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("goCoaster/plot: %d x values and %d y values", len(x), len(y))
	}
	ret := make(plotter.XYs, len(x))
	for i := range x {
		ret[i].X = x[i]
		ret[i].Y = y[i]
	}
	return ret, nil
}

// EnergyPlot plots the simulated energies e, at times t, as a line, and the reference
// energies eref at the times tref as points, to the file filename. The reference can be nil.
// Energies are plotted in kJ.
func EnergyPlot(t, e, tref, eref []float64, title, filename string) error {
	p := basicPlot(title, "t (s)", "E (kJ)")
	sim, err := xys(t, kilo(e))
	if err != nil {
		return err
	}
	l, err := plotter.NewLine(sim)
	if err != nil {
		return err
	}
	l.LineStyle.Width = vg.Points(1.5)
	r, g, b := colors(0, 2)
	l.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
	p.Add(l)
	p.Legend.Add("simulated", l)
	if len(tref) > 0 {
		ref, err := xys(tref, kilo(eref))
		if err != nil {
			return err
		}
		s, err := plotter.NewScatter(ref)
		if err != nil {
			return err
		}
		s.GlyphStyle.Shape = draw.PyramidGlyph{}
		s.GlyphStyle.Radius = vg.Points(4)
		r, g, b := colors(1, 2)
		s.GlyphStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		p.Add(s)
		p.Legend.Add("measured", s)
	}
	return p.Save(Width, Height, filename)
}

// TrackProfile plots the side view (horizontal x against height z) of the curve c, sampled at
// n points, together with its control points, to the file filename.
func TrackProfile(c *coaster.Curve, n int, title, filename string) error {
	if n < 2 {
		return fmt.Errorf("goCoaster/plot: at least 2 samples needed, got %d", n)
	}
	p := basicPlot(title, "x (m)", "z (m)")
	pos := c.Position(c.Sample(n)...)
	line := make(plotter.XYs, pos.Len())
	for i := range line {
		v := pos.Vec(i)
		line[i].X, line[i].Y = v.X, v.Z
	}
	l, err := plotter.NewLine(line)
	if err != nil {
		return err
	}
	l.LineStyle.Width = vg.Points(1)
	p.Add(l)
	ctrl := c.Points()
	pts := make(plotter.XYs, ctrl.Len())
	for i := range pts {
		v := ctrl.Vec(i)
		pts[i].X, pts[i].Y = v.X, v.Z
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(1.5)
	r, g, b := colors(1, 2)
	s.GlyphStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
	p.Add(s)
	p.Legend.Add("track", l)
	p.Legend.Add("control points", s)
	return p.Save(Width, Height, filename)
}

// ForcePlot plots the longitudinal, lateral and vertical accelerations felt by the train of E, in units of g,
// at the arc lengths s and velocities s1 reached at the times t, to the file filename.
func ForcePlot(E *coaster.EqsMotion, t, s, s1 []float64, title, filename string) error {
	if len(t) != len(s) || len(s) != len(s1) {
		return fmt.Errorf("goCoaster/plot: %d times, %d positions and %d velocities", len(t), len(s), len(s1))
	}
	p := basicPlot(title, "t (s)", "a (g)")
	g := E.Constants().Gravity
	names := []string{"longitudinal", "lateral", "vertical"}
	for i, a := range [][]float64{E.Longitudinal(s, s1), E.Lateral(s, s1), E.Vertical(s, s1)} {
		for j := range a {
			a[j] /= g
		}
		data, err := xys(t, a)
		if err != nil {
			return err
		}
		l, err := plotter.NewLine(data)
		if err != nil {
			return err
		}
		r, gr, b := colors(i, len(names))
		l.LineStyle.Color = color.RGBA{R: r, G: gr, B: b, A: 255}
		p.Add(l)
		p.Legend.Add(names[i], l)
	}
	return p.Save(Width, Height, filename)
}

func kilo(e []float64) []float64 {
	ret := make([]float64, len(e))
	for i, v := range e {
		ret[i] = v / 1000
	}
	return ret
}

/*
 * main.go, part of gocoaster.
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

// Command validate simulates a ride on the heartline of the Vekoma Big Air, and compares the
// energy of the train with the values measured on the real ride. The train is released at the
// top of the drop, and the simulation goes on until it stops while rolling back from the climb.
// Measurements taken after that are marked with an asterisk, and left out of the statistics.
//
// Usage:
//
//	validate [flags]
//
// The flags are:
//
//	-coaches   number of coaches in the train (2)
//	-drag      drag coefficient (1.6)
//	-tmax      length of the simulation, in s (20)
//	-samples   number of energy samples (500)
//	-rtol      relative tolerance of the integrator (1e-3)
//	-plot      file for the energy plot, no plot if empty
//	-traj      file for the coach trajectory, no trajectory if empty
//	-fps       frames per second in the trajectory (30)
//	-export    file to export the heartline to, in NoLimits 2 format
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	coaster "github.com/rmera/gocoaster"
	"github.com/rmera/gocoaster/coasterplot"
	"github.com/rmera/gocoaster/nolimits"
	"github.com/rmera/gocoaster/ode"
	"github.com/rmera/gocoaster/tracks"
	"github.com/rmera/gocoaster/traj"
)

func main() {
	coaches := flag.Int("coaches", 2, "number of coaches in the train")
	drag := flag.Float64("drag", 1.6, "drag coefficient")
	tmax := flag.Float64("tmax", 20, "length of the simulation, in s")
	samples := flag.Int("samples", 500, "number of energy samples")
	rtol := flag.Float64("rtol", 1e-3, "relative tolerance of the integrator")
	plotname := flag.String("plot", "", "file for the energy plot (format given by the extension)")
	trajname := flag.String("traj", "", "file for the coach trajectory (.traj, .zst, .gz, or .sz)")
	fps := flag.Float64("fps", 30, "frames per second in the trajectory")
	export := flag.String("export", "", "file to export the heartline to, in NoLimits 2 format")
	flag.Parse()
	log.SetPrefix("goCoaster/validate: ")
	log.SetFlags(0)
	if err := run(*coaches, *drag, *tmax, *samples, *rtol, *plotname, *trajname, *fps, *export); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(coaches int, drag, tmax float64, samples int, rtol float64, plotname, trajname string, fps float64, export string) error {
	h, err := tracks.BigAirHeartline()
	if err != nil {
		return err
	}
	c := coaster.DefaultConstants()
	c.Drag = drag
	E, err := coaster.NewEqsMotion(h, coaches, nil, c)
	if err != nil {
		return err
	}
	opts := ode.DefaultOptions()
	opts.RTol = rtol
	sol, err := coaster.SimulateSwing(E, tmax, 0, 0, opts)
	if err != nil {
		return err
	}
	ts, s, stopped := coaster.StopPoint(sol)
	log.Printf("integration %s after %d steps, %d function evaluations", sol.Status, len(sol.T)-1, sol.NFev)
	if stopped {
		log.Printf("the train stopped rolling back at t=%.2f s, s=%.2f m", ts, s)
	}
	t, e := coaster.RideEnergy(E, sol, samples)
	tref, eref := tracks.BigAirReference(c.Gravity, float64(coaches)*c.Mass)
	cmp, err := coaster.CompareEnergy(t, e, tref, eref)
	if err != nil {
		return err
	}
	fmt.Printf("%8s %14s %14s %10s\n", "t (s)", "simulated (J)", "measured (J)", "error (%)")
	for i := range cmp.T {
		mark := ""
		if cmp.Outside[i] {
			mark = " *"
		}
		fmt.Printf("%8.2f %14.1f %14.1f %10.2f%s\n", cmp.T[i], cmp.Simulated[i], cmp.Reference[i], 100*cmp.Residual[i]/cmp.Reference[i], mark)
	}
	if cmp.Covered < len(cmp.T) {
		fmt.Printf("* measured after the end of the simulation, at t=%.2f s\n", t[len(t)-1])
	}
	fmt.Printf("over %d measurements: mean residual %.1f J, standard deviation %.1f J, mean relative error %.2f%%\n", cmp.Covered, cmp.Mean, cmp.StdDev, 100*cmp.Relative)
	if plotname != "" {
		if err := coasterplot.EnergyPlot(t, e, tref, eref, "Big Air", plotname); err != nil {
			return err
		}
		log.Printf("energy plot written to %s", plotname)
	}
	if trajname != "" {
		n, err := traj.WriteRide(trajname, E, sol, fps)
		if err != nil {
			return err
		}
		log.Printf("%d frames written to %s", n, trajname)
	}
	if export != "" {
		if err := nolimits.WriteFile(export, h); err != nil {
			return err
		}
		log.Printf("heartline exported to %s", export)
	}
	return nil
}

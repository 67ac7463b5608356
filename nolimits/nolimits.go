/*
 * nolimits.go, part of gocoaster.
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

//Package nolimits reads and writes tracks in the delimited text format exported by the NoLimits 2
//roller coaster simulator (directly, or through nolimits2-csv-exporter). Units are meters.
//
//Each row of the file contains an index, followed by the position, the front, left and up vectors of one
//point of the track, in the axes of the game (x and z horizontal, y vertical). The rows are tab-delimited,
//and the first line is a header. goCoaster's axes are related to the game's by
//
//	(x, y, z) = (PosZ, PosX, PosY)
//
//and goCoaster's vertical axis is minus the game's up vector.
//
//Files with a .zst, .gz or .sz extension are compressed and decompressed transparently.
package nolimits

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	coaster "github.com/rmera/gocoaster"
	"github.com/rmera/gocoaster/traj"
	v3 "github.com/rmera/gocoaster/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Header is the first line of the files written by this package.
var Header = strings.Join([]string{"No.",
	"PosX", "PosY", "PosZ",
	"FrontX", "FrontY", "FrontZ",
	"LeftX", "LeftY", "LeftZ",
	"UpX", "UpY", "UpZ"}, "\t")

const columns = 13

var (
	fromGame = [3]int{2, 0, 1} //game (x,y,z) to ours
	toGame   = [3]int{1, 2, 0} //ours to game
)

// Parse reads a track from r, skipping its first line, and returns the positions and the
// (raw, not cleaned) vertical vectors of each point, in goCoaster's axes.
// Empty lines are ignored. Rows that don't have 13 fields, or whose position can't be parsed,
// give an *coaster.InvalidInputError. Vertical components that can't be parsed are set to NaN,
// so they are cleaned when the frame is built.
func Parse(r io.Reader) (points, up *v3.Matrix, err error) {
	var pos, vert []float64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue //header
		}
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		if len(f) != columns {
			return nil, nil, coaster.NewInvalidInputError("Parse", "line %d has %d fields, expected %d", line, len(f), columns)
		}
		var p, u [3]float64
		for i := 0; i < 3; i++ {
			p[i], err = strconv.ParseFloat(f[1+i], 64)
			if err != nil {
				return nil, nil, coaster.NewInvalidInputError("Parse", "line %d: can't parse position: %s", line, err.Error())
			}
			u[i], err = strconv.ParseFloat(f[10+i], 64)
			if err != nil {
				u[i] = math.NaN()
			}
		}
		pos = appendVec(pos, permute(p, fromGame, 1))
		vert = appendVec(vert, permute(u, fromGame, -1))
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("goCoaster/nolimits: reading line %d: %w", line+1, err)
	}
	if len(pos) == 0 {
		return nil, nil, coaster.NewInvalidInputError("Parse", "no track points found")
	}
	points, err = v3.NewMatrix(pos)
	if err != nil {
		return nil, nil, err
	}
	up, err = v3.NewMatrix(vert)
	return points, up, err
}

func appendVec(data []float64, v r3.Vec) []float64 {
	return append(data, v.X, v.Y, v.Z)
}

func permute(v [3]float64, cols [3]int, sign float64) r3.Vec {
	return r3.Vec{X: sign * v[cols[0]], Y: sign * v[cols[1]], Z: sign * v[cols[2]]}
}

// Read reads a track from r, and returns a curve through its points whose frame
// follows the track's up vectors.
func Read(r io.Reader) (*coaster.Curve, error) {
	points, up, err := Parse(r)
	if err != nil {
		return nil, decorate(err, "Read")
	}
	c, err := coaster.NewExternalCurve(points, up)
	if err != nil {
		return nil, decorate(err, "Read")
	}
	return c, nil
}

// ReadFile reads the track in the file name. See Read.
func ReadFile(name string) (*coaster.Curve, error) {
	f, err := traj.Open(name)
	if err != nil {
		return nil, fmt.Errorf("goCoaster/nolimits: %w", err)
	}
	defer f.Close()
	c, err := Read(f)
	return c, decorate(err, "ReadFile")
}

// Write writes the curve c to w, sampled at the arc lengths s, or at the arc
// lengths of its control points if no s is given.
func Write(w io.Writer, c *coaster.Curve, s ...float64) error {
	if len(s) == 0 {
		s = c.S()
	}
	p := c.Position(s...)
	x, y, z := c.Axes(s...)
	for _, m := range []*v3.Matrix{p, x, y, z} {
		m.Permute(m, toGame)
	}
	z.Scale(-1, z.Dense)
	bw := bufio.NewWriter(w)
	bw.WriteString(Header + "\n")
	var b strings.Builder
	for i := range s {
		b.Reset()
		b.WriteString(strconv.Itoa(i + 1))
		for _, m := range []*v3.Matrix{p, x, y, z} {
			for _, v := range m.RawRowView(i) {
				if v == 0 {
					v = 0 //no negative zeros
				}
				fmt.Fprintf(&b, "\t%.4f", v)
			}
		}
		b.WriteString("\n")
		bw.WriteString(b.String())
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("goCoaster/nolimits: writing track: %w", err)
	}
	return nil
}

// WriteFile writes the curve c to the file name. See Write.
func WriteFile(name string, c *coaster.Curve, s ...float64) error {
	f, err := traj.Create(name)
	if err != nil {
		return fmt.Errorf("goCoaster/nolimits: %w", err)
	}
	if err := Write(f, c, s...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("goCoaster/nolimits: closing %s: %w", name, err)
	}
	return nil
}

func decorate(err error, caller string) error {
	if e, ok := err.(coaster.Error); ok {
		e.Decorate(caller)
	}
	return err
}

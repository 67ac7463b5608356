/*
 * traj_test.go, part of gocoaster.
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

package traj

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"testing"

	coaster "github.com/rmera/gocoaster"
	v3 "github.com/rmera/gocoaster/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

func frame(i int) (State, *v3.Matrix) {
	st := State{T: 0.1 * float64(i), S: 1.5 * float64(i), S1: 15 - float64(i)}
	c := v3.Zeros(2)
	c.SetVec(0, r3.Vec{X: float64(i), Y: -0.25, Z: 10.125})
	c.SetVec(1, r3.Vec{X: float64(i) + 4.9, Y: 0.5, Z: -3.0625})
	return st, c
}

func TestWriteRead(Te *testing.T) {
	dir := Te.TempDir()
	for _, ext := range []string{".traj", ".zst", ".gz", ".sz"} {
		name := filepath.Join(dir, "ride"+ext)
		W, err := NewWriter(name, 2, map[string]string{"track": "test", "prec": "4"})
		if err != nil {
			Te.Fatal(err)
		}
		for i := 0; i < 10; i++ {
			if err := W.WNext(frame(i)); err != nil {
				Te.Fatal(err)
			}
		}
		if err := W.Close(); err != nil {
			Te.Fatal(err)
		}
		R, header, err := New(name)
		if err != nil {
			Te.Fatal(err)
		}
		if header["track"] != "test" || header["prec"] != "4" || R.Len() != 2 {
			Te.Errorf("%s: bad header %v, %d coaches", ext, header, R.Len())
		}
		coords := v3.Zeros(2)
		i := 0
		for ; ; i++ {
			st, err := R.Next(coords)
			if err != nil {
				if _, ok := err.(*LastFrameError); ok {
					break
				}
				Te.Fatal(err)
			}
			wst, wc := frame(i)
			if st != wst {
				Te.Errorf("%s frame %d: state %v, expected %v", ext, i, st, wst)
			}
			for j := 0; j < 2; j++ {
				if r3.Norm(r3.Sub(coords.Vec(j), wc.Vec(j))) > 1e-4 {
					Te.Errorf("%s frame %d: coach %d at %v, expected %v", ext, i, j, coords.Vec(j), wc.Vec(j))
				}
			}
		}
		if i != 10 {
			Te.Errorf("%s: read %d frames, expected 10", ext, i)
		}
		if R.Readable() {
			Te.Errorf("%s: the reader should be closed at the end of the trajectory", ext)
		}
		fmt.Println(ext, "compression:", Compression(name))
	}
}

func TestSkipFrames(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "skip.traj")
	W, err := NewWriter(name, 2, nil)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		W.WNext(frame(i))
	}
	W.Close()
	R, _, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer R.Close()
	if _, err := R.Next(nil); err != nil {
		Te.Fatal(err)
	}
	st, err := R.Next(nil)
	if err != nil {
		Te.Fatal(err)
	}
	if st.S != 1.5 {
		Te.Errorf("skipped to the wrong frame: %v", st)
	}
	if _, err := R.Next(v3.Zeros(3)); err == nil {
		Te.Errorf("a matrix of the wrong size should be rejected")
	}
}

func TestErrors(Te *testing.T) {
	dir := Te.TempDir()
	if _, err := NewWriter(filepath.Join(dir, "none.traj"), 0, nil); err == nil {
		Te.Errorf("0 coaches should fail")
	}
	W, err := NewWriter(filepath.Join(dir, "bad.traj"), 2, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if err := W.WNext(State{}, v3.Zeros(3)); err == nil {
		Te.Errorf("a frame with the wrong number of coaches should fail")
	}
	W.Close()
	if err := W.WNext(frame(0)); err == nil {
		Te.Errorf("writing to a closed trajectory should fail")
	}
	_, _, err = New(filepath.Join(dir, "missing.traj"))
	if e, ok := err.(*Error); !ok || !e.Critical() {
		Te.Errorf("opening a missing file should give a critical *Error, got %v", err)
	}
	//a plain file without the "**" line
	f, err := Create(filepath.Join(dir, "noheader.traj"))
	if err != nil {
		Te.Fatal(err)
	}
	io.WriteString(f, "prec=3\n")
	f.Close()
	if _, _, err := New(filepath.Join(dir, "noheader.traj")); err == nil {
		Te.Errorf("a file without header termination should fail")
	}
}

func TestWriteRide(Te *testing.T) {
	c, err := coaster.NewUpCurve(v3.FromVecs([]r3.Vec{{}, {X: 100 * math.Cos(0.2), Z: 100 * math.Sin(0.2)}}))
	if err != nil {
		Te.Fatal(err)
	}
	E, err := coaster.NewEqsMotion(c, 3, nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	sol, err := coaster.Simulate(E, 20, 10, 12, nil)
	if err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(Te.TempDir(), "incline.zst")
	n, err := WriteRide(name, E, sol, 30)
	if err != nil {
		Te.Fatal(err)
	}
	R, header, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	if header["frame"] != "up" || header["status"] != sol.Status.String() || R.Len() != 3 {
		Te.Errorf("bad header %v", header)
	}
	coords := v3.Zeros(3)
	read := 0
	var last State
	for {
		st, err := R.Next(coords)
		if err != nil {
			if _, ok := err.(*LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		//the middle coach is at the train's position
		want := c.Position(st.S).Vec(0)
		if r3.Norm(r3.Sub(coords.Vec(1), want)) > 2e-3 {
			Te.Errorf("frame %d: middle coach at %v, the train is at %v", read, coords.Vec(1), want)
		}
		last = st
		read++
	}
	if read != n {
		Te.Errorf("%d frames written, %d read", n, read)
	}
	_, tf := sol.Span()
	if last.T != tf {
		Te.Errorf("the last frame is at t=%g, the ride ends at %g", last.T, tf)
	}
	fmt.Println("ride frames:", n)
}

/*
 * traj.go, part of gocoaster.
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
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	v3 "github.com/rmera/gocoaster/v3"
)

const defaultPrec = 3

// State is the state of the train in a frame.
type State struct {
	T  float64 //time, s
	S  float64 //arc length, m
	S1 float64 //velocity, m/s
}

//Write!

// Writer writes ride trajectories.
type Writer struct {
	h         io.WriteCloser
	ncoaches  int
	filename  string
	writeable bool
	prec      int
	mult      float64
}

// NewWriter creates the trajectory file name, for a train of ncoaches, and writes the header,
// which will contain the pairs in header plus the precision. The precision can be set with
// the "prec" key in header (3 if not given).
func NewWriter(name string, ncoaches int, header map[string]string) (*Writer, error) {
	if ncoaches < 1 {
		return nil, &Error{fmt.Sprintf("can't write a trajectory for %d coaches", ncoaches), name, []string{"NewWriter"}, true}
	}
	W := &Writer{ncoaches: ncoaches, filename: name, prec: defaultPrec}
	if p, ok := header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			W.prec = prec
		} else {
			log.Printf("goCoaster/traj: invalid precision %q for trajectory %s. Will use the default", p, name)
		}
	}
	W.mult = math.Pow(10, float64(W.prec))
	var err error
	W.h, err = Create(name)
	if err != nil {
		return nil, &Error{"can't create file: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	keys := make([]string, 0, len(header))
	for k := range header {
		if k != "prec" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	headerstr := fmt.Sprintf("prec=%d\n", W.prec)
	for _, k := range keys {
		headerstr += fmt.Sprintf("%s=%s\n", k, header[k])
	}
	headerstr += fmt.Sprintf("** %d\n", ncoaches)
	if _, err := io.WriteString(W.h, headerstr); err != nil {
		W.h.Close()
		return nil, &Error{"can't write header: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	W.writeable = true
	return W, nil
}

// Len returns the number of coaches in each frame.
func (W *Writer) Len() int {
	return W.ncoaches
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WNext writes a frame with the state st and the coach positions coords.
func (W *Writer) WNext(st State, coords *v3.Matrix) error {
	if !W.writeable {
		return &Error{TrajUnIniWrite, W.filename, []string{"WNext"}, true}
	}
	if coords == nil {
		return &Error{NilCoordinates, W.filename, []string{"WNext"}, true}
	}
	if v := coords.Len(); v != W.ncoaches {
		return &Error{fmt.Sprintf("%d coaches given, but %d expected", v, W.ncoaches), W.filename, []string{"WNext"}, true}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s %s\n", formatFloat(st.T), formatFloat(st.S), formatFloat(st.S1))
	for i := 0; i < W.ncoaches; i++ {
		v := coords.Vec(i)
		fmt.Fprintf(&b, "%d %d %d\n", W.encode(v.X), W.encode(v.Y), W.encode(v.Z))
	}
	b.WriteString("*\n")
	if _, err := io.WriteString(W.h, b.String()); err != nil {
		return &Error{"can't write frame: " + err.Error(), W.filename, []string{"WNext"}, true}
	}
	return nil
}

func (W *Writer) encode(f float64) int64 {
	return int64(math.RoundToEven(f * W.mult))
}

// Close flushes and closes the file. The Writer can't be used after that.
func (W *Writer) Close() error {
	if W == nil || !W.writeable {
		return nil
	}
	W.writeable = false
	if err := W.h.Close(); err != nil {
		return &Error{"can't close file: " + err.Error(), W.filename, []string{"Close"}, true}
	}
	return nil
}

//Read!

// Reader reads ride trajectories.
type Reader struct {
	f        io.ReadCloser
	h        *bufio.Reader
	ncoaches int
	filename string
	mult     float64
	readable bool
}

// New opens the trajectory name for reading, and returns a handle to it, plus the header
// (without the "**" line), or an error.
func New(name string) (*Reader, map[string]string, error) {
	R := &Reader{ncoaches: -1, filename: name}
	var err error
	R.f, err = Open(name)
	if err != nil {
		return nil, nil, &Error{UnableToOpen + ": " + err.Error(), name, []string{"New"}, true}
	}
	R.h = bufio.NewReader(R.f)
	m := make(map[string]string)
	for {
		str, err := R.h.ReadString('\n')
		if err != nil {
			R.f.Close()
			return nil, nil, &Error{"can't read header: " + err.Error(), name, []string{"New"}, true}
		}
		str = strings.TrimSpace(str)
		if strings.HasPrefix(str, "**") {
			f := strings.Fields(str)
			if len(f) < 2 {
				R.f.Close()
				return nil, nil, &Error{fmt.Sprintf("can't read the number of coaches from '%s'", str), name, []string{"New"}, true}
			}
			R.ncoaches, err = strconv.Atoi(f[1])
			if err != nil || R.ncoaches < 1 {
				R.f.Close()
				return nil, nil, &Error{fmt.Sprintf("invalid number of coaches '%s'", f[1]), name, []string{"New"}, true}
			}
			break
		}
		k, v, ok := strings.Cut(str, "=")
		if !ok {
			R.f.Close()
			return nil, nil, &Error{"malformed header line: " + str, name, []string{"New"}, true}
		}
		m[k] = v
	}
	prec := defaultPrec
	if p, ok := m["prec"]; ok {
		pr, err := strconv.Atoi(p)
		if err == nil && pr > 0 {
			prec = pr
		} else {
			log.Printf("goCoaster/traj: invalid precision %q in trajectory %s. Will assume the default", p, name)
		}
	}
	R.mult = math.Pow(10, float64(prec))
	R.readable = true
	return R, m, nil
}

// Readable returns true if the handle is readable (if it is possible to call Next on it).
func (R *Reader) Readable() bool {
	return R.readable
}

// Len returns the number of coaches in each frame of the trajectory.
func (R *Reader) Len() int {
	return R.ncoaches
}

func (R *Reader) line() (string, error) {
	str, err := R.h.ReadString('\n')
	if err == io.EOF && str != "" {
		err = nil
	}
	return strings.TrimSpace(str), err
}

// Next reads the next frame and returns the state of the train in it. The coach positions are
// put in coords, if it is not nil. At the end of the trajectory, a *LastFrameError is returned,
// and the Reader is closed.
func (R *Reader) Next(coords *v3.Matrix) (State, error) {
	var st State
	if !R.readable {
		return st, &Error{TrajUnIniRead, R.filename, []string{"Next"}, true}
	}
	if coords != nil && coords.Len() != R.ncoaches {
		return st, &Error{fmt.Sprintf("room for %d coaches given, but the trajectory has %d", coords.Len(), R.ncoaches), R.filename, []string{"Next"}, true}
	}
	str, err := R.line()
	if err == io.EOF {
		R.Close()
		return st, newLastFrameError(R.filename, "Next")
	}
	if err != nil {
		return st, &Error{ReadError + ": " + err.Error(), R.filename, []string{"Next"}, true}
	}
	f := strings.Fields(str)
	if len(f) != 4 || f[0] != "#" {
		return st, &Error{WrongFormat + ": bad state line " + str, R.filename, []string{"Next"}, true}
	}
	var vals [3]float64
	for i, v := range f[1:] {
		vals[i], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return st, &Error{WrongFormat + ": " + err.Error(), R.filename, []string{"Next"}, true}
		}
	}
	st = State{T: vals[0], S: vals[1], S1: vals[2]}
	for i := 0; i < R.ncoaches; i++ {
		str, err := R.line()
		if err != nil {
			return st, &Error{ReadError + ": " + err.Error(), R.filename, []string{"Next"}, true}
		}
		c := strings.Fields(str)
		if len(c) != 3 {
			return st, &Error{WrongFormat + ": bad coordinates line " + str, R.filename, []string{"Next"}, true}
		}
		var temp [3]float64
		for j, v := range c {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return st, &Error{fmt.Sprintf("can't parse coordinate %d (%s): %s", j, v, err.Error()), R.filename, []string{"Next"}, true}
			}
			temp[j] = float64(n) / R.mult
		}
		if coords == nil {
			continue //the frame is still checked
		}
		coords.Set(i, 0, temp[0])
		coords.Set(i, 1, temp[1])
		coords.Set(i, 2, temp[2])
	}
	str, err = R.line()
	if err != nil || str != "*" {
		return st, &Error{"wrong number of coaches in frame, or missing frame termination", R.filename, []string{"Next"}, true}
	}
	return st, nil
}

// Close closes the file, and marks the Reader as unreadable.
func (R *Reader) Close() {
	if !R.readable {
		return
	}
	R.f.Close()
	R.readable = false
}

//Errors

// Error is the error type for trajectory files.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	return fmt.Sprintf("goCoaster/traj: file %s: %s", err.filename, err.message)
}

// Decorate adds the caller to the error's trail and returns the trail.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file to which the failing trajectory was associated.
func (err *Error) FileName() string { return err.filename }

// Format returns the format of the file associated to the error.
func (err *Error) Format() string { return "traj" }

// Critical returns true if the error is critical, false otherwise.
func (err *Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the trajectory file or frame"
)

// LastFrameError is returned by Reader.Next when the trajectory has no more frames.
// It is not an actual error.
type LastFrameError struct {
	deco     []string
	fileName string
}

// NormalLastFrameTermination does nothing. It marks the type.
func (E *LastFrameError) NormalLastFrameTermination() {}

func (E *LastFrameError) FileName() string { return E.fileName }

func (E *LastFrameError) Error() string { return "EOF" }

func (E *LastFrameError) Critical() bool { return false }

func (E *LastFrameError) Format() string { return "traj" }

func (E *LastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newLastFrameError(filename string, caller string) *LastFrameError {
	return &LastFrameError{fileName: filename, deco: []string{caller}}
}

// errDecorate decorates err with caller, if err is one of the errors of this package.
func errDecorate(err error, caller string) error {
	switch e := err.(type) {
	case *Error:
		e.Decorate(caller)
	case *LastFrameError:
		e.Decorate(caller)
	}
	return err
}

/*
 * v3.go, part of gocoaster.
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

package v3

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Matrix is a set of vectors in 3D space. Within the package it is understood that a
// "vector" is a row vector, i.e. the cartesian coordinates of a point, or the components
// of a direction, in 3D space.
type Matrix struct {
	*mat.Dense
}

// Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
// Zeros(0) returns an empty matrix, which is what a batched query with no arc lengths gives.
func Zeros(vecs int) *Matrix {
	if vecs < 0 {
		panic(ErrShape)
	}
	if vecs == 0 {
		return &Matrix{new(mat.Dense)}
	}
	return &Matrix{mat.NewDense(vecs, 3, nil)}
}

// NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 || l == 0 {
		return nil, &Error{fmt.Sprintf("Input slice length %d not divisible by %d, or empty", l, cols), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(rows, cols, data)}, nil
}

// FromVecs returns a Matrix with one row per given vector.
func FromVecs(vecs []r3.Vec) *Matrix {
	F := Zeros(len(vecs))
	for i, v := range vecs {
		F.SetVec(i, v)
	}
	return F
}

// Len returns the number of vectors in F.
func (F *Matrix) Len() int {
	if F.Dense == nil || F.IsEmpty() {
		return 0
	}
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNot3xN)
	}
	return r
}

// Vec returns the ith vector of F as a gonum r3.Vec.
func (F *Matrix) Vec(i int) r3.Vec {
	row := F.RawRowView(i)
	return r3.Vec{X: row[0], Y: row[1], Z: row[2]}
}

// SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v r3.Vec) {
	row := F.RawRowView(i)
	row[0] = v.X
	row[1] = v.Y
	row[2] = v.Z
}

// Vecs returns all the vectors in F as a slice of r3.Vec.
func (F *Matrix) Vecs() []r3.Vec {
	ret := make([]r3.Vec, F.Len())
	for i := range ret {
		ret[i] = F.Vec(i)
	}
	return ret
}

// Permute puts in the received the columns of A reordered so that the column j
// of the received is the column cols[j] of A. A can be the received.
func (F *Matrix) Permute(A *Matrix, cols [3]int) {
	if F.Len() != A.Len() {
		panic(ErrShape)
	}
	var tmp [3]float64
	for i := 0; i < A.Len(); i++ {
		row := A.RawRowView(i)
		for j, c := range cols {
			tmp[j] = row[c]
		}
		copy(F.RawRowView(i), tmp[:])
	}
}

// Cross puts in the received the row-wise cross products of the vectors in A and B.
// If one of A or B has a single vector, it is crossed with every vector of the other.
func (F *Matrix) Cross(A, B *Matrix) {
	n := broadcastLen(A, B)
	if F.Len() != n {
		panic(ErrShape)
	}
	for i := 0; i < n; i++ {
		F.SetVec(i, r3.Cross(A.Vec(bi(A, i)), B.Vec(bi(B, i))))
	}
}

// Dots returns the row-wise dot products of the vectors in A and B, with the same
// broadcasting rule as Cross.
func Dots(A, B *Matrix) []float64 {
	n := broadcastLen(A, B)
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = r3.Dot(A.Vec(bi(A, i)), B.Vec(bi(B, i)))
	}
	return ret
}

// Norms returns the euclidean norm of each vector in A.
func Norms(A *Matrix) []float64 {
	ret := make([]float64, A.Len())
	for i := range ret {
		ret[i] = r3.Norm(A.Vec(i))
	}
	return ret
}

// Unit puts in the received the vectors of A divided by their norms.
// Zero vectors become NaN vectors.
func (F *Matrix) Unit(A *Matrix) {
	if F.Len() != A.Len() {
		panic(ErrShape)
	}
	for i := 0; i < A.Len(); i++ {
		v := A.Vec(i)
		F.SetVec(i, r3.Scale(1/r3.Norm(v), v))
	}
}

// IsFinite returns true if no element of F is NaN or infinite.
func (F *Matrix) IsFinite() bool {
	for i := 0; i < F.Len(); i++ {
		for _, v := range F.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// String returns a neat string representation of a Matrix.
func (F *Matrix) String() string {
	r := F.Len()
	v := make([]string, 0, r+2)
	v = append(v, "[")
	for i := 0; i < r; i++ {
		row := F.RawRowView(i)
		v = append(v, fmt.Sprintf(" %8.3f %8.3f %8.3f", row[0], row[1], row[2]))
	}
	v = append(v, " ]")
	return strings.Join(v, "\n")
}

func broadcastLen(A, B *Matrix) int {
	a, b := A.Len(), B.Len()
	switch {
	case a == b:
		return a
	case a == 1:
		return b
	case b == 1:
		return a
	}
	panic(ErrShape)
}

// bi returns the row of A to be used for the ith element of a broadcasted operation.
func bi(A *Matrix, i int) int {
	if A.Len() == 1 {
		return 0
	}
	return i
}

//Errors

// Error is the error type for the v3 package. It carries the list of functions
// the error went through, like the rest of goCoaster's errors.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err *Error) Error() string { return "goCoaster/v3: " + err.message }

// Decorate adds new information to the error, and returns the current decoration.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Critical returns true if the error is critical, false otherwise.
func (err *Error) Critical() bool { return err.critical }

// PanicMsg is the type of the messages used in panics in this package.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNot3xN = PanicMsg("goCoaster/v3: A v3.Matrix should have 3 columns")
	ErrShape  = PanicMsg("goCoaster/v3: Dimension mismatch")
)

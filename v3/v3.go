/*
 * v3.go, part of gomd.
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation, either version 2.1 of the
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

	"gonum.org/v1/gonum/mat"
)

//A Matrix is a set of row vectors in 3D space, backed by a gonum
//mat.Dense with 3 columns. Positions, forces, velocities and 3x3 cell
//matrices are all represented this way. Within the package a "vector"
//is always a row: the cartesian coordinates of one point.
type Matrix struct {
	*mat.Dense
}

//Zeros returns a zero-filled Matrix with vecs vectors. A non-positive
//count yields an empty Matrix: gonum's NewDense panics on a zero
//dimension, the zero Dense is its empty matrix.
func Zeros(vecs int) *Matrix {
	if vecs < 1 {
		return &Matrix{&mat.Dense{}}
	}
	return &Matrix{mat.NewDense(vecs, 3, nil)}
}

//NewMatrix builds a Matrix from data, which must have a length
//divisible by 3. The slice is used directly, not copied. An empty
//slice yields an empty Matrix with zero vectors.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols = 3
	if len(data)%cols != 0 {
		return nil, Error{fmt.Sprintf("slice length %d not divisible by %d", len(data), cols), []string{"v3.NewMatrix"}, true}
	}
	if len(data) == 0 {
		return &Matrix{&mat.Dense{}}, nil
	}
	return &Matrix{mat.NewDense(len(data)/cols, cols, data)}, nil
}

//Dense2Matrix wraps a 3-column gonum Dense into a Matrix. The data is
//shared, not copied. It panics if A does not have 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic(ErrShape)
	}
	return &Matrix{A}
}

//NVecs returns the number of vectors in the matrix.
func (F *Matrix) NVecs() int {
	r, _ := F.Dims()
	return r
}

//VecView returns a view of the ith vector. Changes in the view are
//reflected in F and vice versa.
func (F *Matrix) VecView(i int) *Matrix {
	return &Matrix{F.Slice(i, i+1, 0, 3).(*mat.Dense)}
}

//View returns a view of rows i to i+r. Changes in the view are
//reflected in F and vice versa.
func (F *Matrix) View(i, r int) *Matrix {
	return &Matrix{F.Slice(i, i+r, 0, 3).(*mat.Dense)}
}

//SetMatrix copies the vectors of A into F starting at the ith vector
//of the receiver.
func (F *Matrix) SetMatrix(i int, A *Matrix) {
	if i+A.NVecs() > F.NVecs() {
		panic(ErrShape)
	}
	for k := 0; k < A.NVecs(); k++ {
		for j := 0; j < 3; j++ {
			F.Set(i+k, j, A.At(k, j))
		}
	}
}

//Add puts A+B in the receiver.
func (F *Matrix) Add(A, B *Matrix) {
	F.Dense.Add(A.Dense, B.Dense)
}

//Sub puts A-B in the receiver.
func (F *Matrix) Sub(A, B *Matrix) {
	F.Dense.Sub(A.Dense, B.Dense)
}

//Scale puts A scaled by v in the receiver.
func (F *Matrix) Scale(v float64, A *Matrix) {
	F.Dense.Scale(v, A.Dense)
}

//AddScaled puts A+v*B in the receiver. A, B and the receiver must
//have the same number of vectors.
func (F *Matrix) AddScaled(A, B *Matrix, v float64) {
	if A.NVecs() != B.NVecs() || F.NVecs() != A.NVecs() {
		panic(ErrShape)
	}
	for i := 0; i < F.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)+v*B.At(i, j))
		}
	}
}

//AddVec adds the single vector vec to every vector of A, putting the
//result in the receiver.
func (F *Matrix) AddVec(A, vec *Matrix) {
	if vec.NVecs() != 1 {
		panic(ErrShape)
	}
	for i := 0; i < A.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)+vec.At(0, j))
		}
	}
}

//SubVec subtracts the single vector vec from every vector of A,
//putting the result in the receiver.
func (F *Matrix) SubVec(A, vec *Matrix) {
	if vec.NVecs() != 1 {
		panic(ErrShape)
	}
	for i := 0; i < A.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)-vec.At(0, j))
		}
	}
}

//SumVecs returns the sum of all vectors of F as a new 1-vector Matrix.
func (F *Matrix) SumVecs() *Matrix {
	s := Zeros(1)
	for i := 0; i < F.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			s.Set(0, j, s.At(0, j)+F.At(i, j))
		}
	}
	return s
}

//RowNorm returns the Euclidean norm of the ith vector.
func (F *Matrix) RowNorm(i int) float64 {
	x := F.At(i, 0)
	y := F.At(i, 1)
	z := F.At(i, 2)
	return math.Sqrt(x*x + y*y + z*z)
}

//MaxRowNorm returns the largest Euclidean norm among the vectors of F.
//For a force matrix this is the usual convergence measure.
func (F *Matrix) MaxRowNorm() float64 {
	max := 0.0
	for i := 0; i < F.NVecs(); i++ {
		if n := F.RowNorm(i); n > max {
			max = n
		}
	}
	return max
}

//IsFinite returns false if any element of F is NaN or infinite.
func (F *Matrix) IsFinite() bool {
	for i := 0; i < F.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			v := F.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

//Raw returns the backing slice of F in row-major order. If F is a view
//with a stride other than 3 the data is copied.
func (F *Matrix) Raw() []float64 {
	rm := F.RawMatrix()
	if rm.Stride == 3 {
		return rm.Data[: F.NVecs()*3 : F.NVecs()*3]
	}
	out := make([]float64, F.NVecs()*3)
	for i := 0; i < F.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			out[i*3+j] = F.At(i, j)
		}
	}
	return out
}

//Cross returns the cross product of a and b, which must both contain
//exactly one vector.
func Cross(a, b *Matrix) *Matrix {
	if a.NVecs() != 1 || b.NVecs() != 1 {
		panic(ErrShape)
	}
	c := Zeros(1)
	c.Set(0, 0, a.At(0, 1)*b.At(0, 2)-a.At(0, 2)*b.At(0, 1))
	c.Set(0, 1, a.At(0, 2)*b.At(0, 0)-a.At(0, 0)*b.At(0, 2))
	c.Set(0, 2, a.At(0, 0)*b.At(0, 1)-a.At(0, 1)*b.At(0, 0))
	return c
}

//Error implements the error interface for the package, keeping a
//trail of the functions the error has passed through.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return err.message
}

//Decorate adds the name of a calling function to the error trail and
//returns the trail.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical returns whether the error should be considered fatal.
func (err Error) Critical() bool {
	return err.critical
}

//PanicMsg is the type of the panics thrown by the shape checks of the
//package, so callers can tell them apart while recovering.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrShape     = PanicMsg("v3: inconsistent matrix shapes")
	ErrNilMatrix = PanicMsg("v3: nil matrix")
)

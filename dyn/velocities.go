/*
 * velocities.go, part of gomd.
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

package dyn

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	md "github.com/rmera/gomd"
	v3 "github.com/rmera/gomd/v3"
)

//MaxwellBoltzmann draws per-atom velocities for temperature T (K)
//and stores them in the structure: each cartesian component is
//normal with a variance of kB*T/m, so heavy atoms move slowly and
//the kinetic energy distributes as equipartition demands. Velocities
//are in internal units (A per internal time unit). The draw leaves a
//small random net momentum; callers remove it separately.
func MaxwellBoltzmann(s *md.Structure, T float64, src rand.Source) {
	vel := v3.Zeros(s.Len())
	for i, a := range s.Atoms {
		n := distuv.Normal{Mu: 0, Sigma: sigmaFor(T, a.Mass), Src: src}
		for j := 0; j < 3; j++ {
			vel.Set(i, j, n.Rand())
		}
	}
	s.Vel = vel
}

func sigmaFor(T, mass float64) float64 {
	if T <= 0 || mass <= 0 {
		return 0
	}
	return math.Sqrt(md.KB * T / mass)
}

//RemoveLinearMomentum shifts all velocities so the total linear
//momentum vanishes: a thermostat or a slightly biased draw must not
//make the whole structure drift.
func RemoveLinearMomentum(s *md.Structure) {
	if s.Vel == nil {
		return
	}
	var p [3]float64
	for i, a := range s.Atoms {
		for j := 0; j < 3; j++ {
			p[j] += a.Mass * s.Vel.At(i, j)
		}
	}
	total := s.TotalMass()
	if total <= 0 {
		return
	}
	for i := 0; i < s.Len(); i++ {
		for j := 0; j < 3; j++ {
			s.Vel.Set(i, j, s.Vel.At(i, j)-p[j]/total)
		}
	}
}

//RemoveAngularMomentum cancels the net rotation of a non-periodic
//structure about its center of mass: the angular velocity is solved
//from L = I*omega and subtracted as omega x r per atom. The inertia
//tensor is inverted through SVD so linear molecules, whose tensor is
//singular along the axis, are handled too. Periodic structures have
//no meaningful total angular momentum; callers skip them.
func RemoveAngularMomentum(s *md.Structure) error {
	if s.Vel == nil {
		return nil
	}
	com, err := s.MassCenter()
	if err != nil {
		return md.Decorate(err, "RemoveAngularMomentum")
	}
	var L [3]float64      //angular momentum
	var I [3][3]float64   //inertia tensor
	var r, v [3]float64
	for i, a := range s.Atoms {
		for j := 0; j < 3; j++ {
			r[j] = s.Coord.At(i, j) - com.At(0, j)
			v[j] = s.Vel.At(i, j)
		}
		L[0] += a.Mass * (r[1]*v[2] - r[2]*v[1])
		L[1] += a.Mass * (r[2]*v[0] - r[0]*v[2])
		L[2] += a.Mass * (r[0]*v[1] - r[1]*v[0])
		r2 := r[0]*r[0] + r[1]*r[1] + r[2]*r[2]
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				I[j][k] -= a.Mass * r[j] * r[k]
				if j == k {
					I[j][k] += a.Mass * r2
				}
			}
		}
	}
	inertia := mat.NewDense(3, 3, []float64{
		I[0][0], I[0][1], I[0][2],
		I[1][0], I[1][1], I[1][2],
		I[2][0], I[2][1], I[2][2],
	})
	var svd mat.SVD
	if !svd.Factorize(inertia, mat.SVDFull) {
		return md.NewError(nil, "dyn: inertia tensor SVD failed", "RemoveAngularMomentum")
	}
	//pseudo-inverse: drop near-zero singular values
	values := svd.Values(nil)
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)
	var omega [3]float64
	for k := 0; k < 3; k++ {
		if values[k] < 1e-10*values[0] {
			continue
		}
		var uL float64
		for j := 0; j < 3; j++ {
			uL += U.At(j, k) * L[j]
		}
		for j := 0; j < 3; j++ {
			omega[j] += V.At(j, k) * uL / values[k]
		}
	}
	for i := 0; i < s.Len(); i++ {
		for j := 0; j < 3; j++ {
			r[j] = s.Coord.At(i, j) - com.At(0, j)
		}
		s.Vel.Set(i, 0, s.Vel.At(i, 0)-(omega[1]*r[2]-omega[2]*r[1]))
		s.Vel.Set(i, 1, s.Vel.At(i, 1)-(omega[2]*r[0]-omega[0]*r[2]))
		s.Vel.Set(i, 2, s.Vel.At(i, 2)-(omega[0]*r[1]-omega[1]*r[0]))
	}
	return nil
}

//KineticEnergy returns the total kinetic energy in eV. Velocities in
//internal units make this a plain half m v squared sum.
func KineticEnergy(s *md.Structure) float64 {
	if s.Vel == nil {
		return 0
	}
	e := 0.0
	for i, a := range s.Atoms {
		for j := 0; j < 3; j++ {
			v := s.Vel.At(i, j)
			e += 0.5 * a.Mass * v * v
		}
	}
	return e
}

//Temperature converts a kinetic energy to an instantaneous
//temperature through equipartition over 3N degrees of freedom.
func Temperature(ekin float64, natoms int) float64 {
	if natoms == 0 {
		return 0
	}
	return 2 * ekin / (3 * float64(natoms) * md.KB)
}

/*
 * lbfgs.go, part of gomd.
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

package relax

import "gonum.org/v1/gonum/floats"

//lbfgs keeps the limited-memory quasi-Newton state: the last few
//position and gradient differences, from which the two-loop
//recursion builds an approximate Newton direction without ever
//forming a Hessian.
type lbfgs struct {
	mem    int
	h0     float64 //initial inverse-Hessian scale
	s, y   [][]float64
	rho    []float64
	prevX  []float64
	prevG  []float64
	primed bool
}

func newLBFGS(memory int, alpha float64) *lbfgs {
	if memory < 1 {
		memory = 1
	}
	if alpha <= 0 {
		alpha = 70
	}
	return &lbfgs{mem: memory, h0: 1 / alpha}
}

//direction returns the descent step for the current position x and
//forces f (f = -gradient). The returned slice is owned by the
//caller. History pairs with vanishing curvature are skipped, which
//keeps the recursion well-conditioned.
func (o *lbfgs) direction(x, f []float64) []float64 {
	g := make([]float64, len(f))
	for i, v := range f {
		g[i] = -v
	}
	if o.primed {
		sk := make([]float64, len(x))
		yk := make([]float64, len(g))
		floats.SubTo(sk, x, o.prevX)
		floats.SubTo(yk, g, o.prevG)
		if sy := floats.Dot(sk, yk); sy > 1e-10 {
			o.s = append(o.s, sk)
			o.y = append(o.y, yk)
			o.rho = append(o.rho, 1/sy)
			if len(o.s) > o.mem {
				o.s = o.s[1:]
				o.y = o.y[1:]
				o.rho = o.rho[1:]
			}
		}
	}
	o.prevX = append(o.prevX[:0], x...)
	o.prevG = append(o.prevG[:0], g...)
	o.primed = true

	//two-loop recursion
	q := make([]float64, len(g))
	copy(q, g)
	k := len(o.s)
	alphas := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		alphas[i] = o.rho[i] * floats.Dot(o.s[i], q)
		floats.AddScaled(q, -alphas[i], o.y[i])
	}
	floats.Scale(o.h0, q)
	for i := 0; i < k; i++ {
		beta := o.rho[i] * floats.Dot(o.y[i], q)
		floats.AddScaled(q, alphas[i]-beta, o.s[i])
	}
	floats.Scale(-1, q)
	return q
}

/*
 * dyn.go, part of gomd.
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

//Package dyn integrates molecular dynamics: velocity-Verlet for the
//NVE ensemble and the same integrator under a Nose-Hoover thermostat
//for NVT, with Maxwell-Boltzmann velocity initialization and an
//optional pre-relaxation stage. One calculator query per step; the
//structure's periodic cell, if any, is carried through unchanged
//(no barostat).
package dyn

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/calc"
	"github.com/rmera/gomd/relax"
	"github.com/rmera/gomd/traj"
	v3 "github.com/rmera/gomd/v3"
)

//Ensemble selects the statistical ensemble of the integration.
type Ensemble int

const (
	NVE Ensemble = iota //constant energy
	NVT                 //constant temperature
)

func (e Ensemble) String() string {
	if e == NVT {
		return "NVT"
	}
	return "NVE"
}

//ParseEnsemble matches an ensemble name, ignoring case.
func ParseEnsemble(s string) (Ensemble, error) {
	switch {
	case len(s) == 3 && (s == "NVE" || s == "nve" || s == "Nve"):
		return NVE, nil
	case len(s) == 3 && (s == "NVT" || s == "nvt" || s == "Nvt"):
		return NVT, nil
	}
	return 0, md.NewError(nil, fmt.Sprintf("dyn: unknown ensemble %q, use NVE or NVT", s), "ParseEnsemble")
}

//Params controls a dynamics run. The zero Tdamp defaults to ten
//timesteps, the usual thermostat coupling. PreRelax is a step budget
//for a geometry relaxation before dynamics; zero skips it. A zero
//Seed derives one from the clock; the reproduction script echoes
//whichever was used.
type Params struct {
	Ensemble       Ensemble
	Timestep       float64 //fs
	Steps          int
	Temperature    float64 //K; sets the initial velocity draw, and the target for NVT
	Tdamp          float64 //fs, thermostat relaxation time (NVT)
	PreRelax       int     //pre-relaxation step budget, 0 to skip
	FrameInterval  int     //record a frame every this many steps
	LogInterval    int     //log a thermodynamic row every this many steps
	Seed           uint64
	DoubleInitTemp bool //draw initial velocities at twice the target temperature
}

//DefaultParams returns a 1 fs, 100-step, 300 K run recording every
//frame.
func DefaultParams() *Params {
	return &Params{Ensemble: NVE, Timestep: 1.0, Steps: 100, Temperature: 300, FrameInterval: 1, LogInterval: 10}
}

func (p *Params) check() error {
	if p.Timestep <= 0 {
		return md.NewError(nil, fmt.Sprintf("dyn: timestep must be positive, got %g fs", p.Timestep), "Params.check")
	}
	if p.Steps < 1 {
		return md.NewError(nil, fmt.Sprintf("dyn: step count must be at least 1, got %d", p.Steps), "Params.check")
	}
	if p.Ensemble == NVT && p.Temperature <= 0 {
		return md.NewError(nil, fmt.Sprintf("dyn: NVT needs a positive target temperature, got %g K", p.Temperature), "Params.check")
	}
	if p.Temperature < 0 {
		return md.NewError(nil, fmt.Sprintf("dyn: negative temperature %g K", p.Temperature), "Params.check")
	}
	if p.FrameInterval < 1 {
		p.FrameInterval = 1
	}
	if p.LogInterval < 1 {
		p.LogInterval = 10
	}
	if p.Tdamp <= 0 {
		p.Tdamp = 10 * p.Timestep
	}
	return nil
}

//Outcome is the terminal report of a dynamics run: how it ended, the
//number of integration steps taken, the final energies and
//temperature, and the thermodynamic log.
type Outcome struct {
	Status md.Status
	Steps  int
	Energy float64 //potential, eV
	Ekin   float64 //kinetic, eV
	Temp   float64 //K
	Log    []string
}

//Run integrates the structure in place. Stages: optional
//pre-relaxation (whose frames go to the same recorder, and whose
//failure or cancellation ends the whole run with that status),
//Maxwell-Boltzmann velocity initialization when a positive
//temperature is set (velocities already present on the structure are
//kept when the temperature is zero, as for an NVE run continued from
//a file), then the integration loop. A frame is recorded every
//FrameInterval steps, frame 0 always. A calculator failure halts
//integration immediately and keeps every recorded frame; ctx
//cancellation between steps ends the run as Cancelled.
func Run(ctx context.Context, s *md.Structure, task md.Task, c calc.Calculator, p *Params, rec *traj.Recorder) (*Outcome, error) {
	if p == nil {
		p = DefaultParams()
	}
	if err := p.check(); err != nil {
		return nil, md.Decorate(err, "dyn.Run")
	}
	out := &Outcome{}
	if p.PreRelax > 0 {
		rp := relax.DefaultParams()
		rp.Steps = p.PreRelax
		rout, err := relax.Run(ctx, s, task, c, rp, rec)
		if err != nil {
			out.Status = md.Failed
			out.Log = append(out.Log, rout.Log...)
			return out, md.Decorate(err, "dyn.Run (pre-relaxation)")
		}
		out.Log = append(out.Log, rout.Log...)
		if rout.Status == md.Cancelled {
			out.Status = md.Cancelled
			return out, nil
		}
		out.Log = append(out.Log, fmt.Sprintf("MD: pre-relaxation ended %s after %d steps", rout.Status, rout.Steps))
	}
	if p.Temperature > 0 {
		//a zero seed is fixed from the clock and written back, so the
		//caller can echo the value actually used in a reproduction
		if p.Seed == 0 {
			p.Seed = uint64(time.Now().UnixNano())
		}
		T := p.Temperature
		if p.DoubleInitTemp {
			//half the initial kinetic energy ends up potential as
			//the structure equilibrates away from its minimum
			T *= 2
		}
		MaxwellBoltzmann(s, T, rand.NewSource(p.Seed))
		RemoveLinearMomentum(s)
		if p.Ensemble == NVT && !s.PBC() {
			if err := RemoveAngularMomentum(s); err != nil {
				return nil, md.Decorate(err, "dyn.Run")
			}
		}
	} else if s.Vel == nil {
		s.Vel = v3.Zeros(s.Len())
	}
	err := integrate(ctx, s, task, c, p, rec, out)
	return out, err
}

//integrate runs the velocity-Verlet loop, thermostatted for NVT.
func integrate(ctx context.Context, s *md.Structure, task md.Task, c calc.Calculator, p *Params, rec *traj.Recorder, out *Outcome) error {
	dt := p.Timestep * md.Fs
	nh := newNoseHoover(s.Len(), p.Temperature, p.Tdamp*md.Fs, dt)
	res, err := c.Compute(ctx, s, task, false)
	if err != nil {
		out.Status = md.Failed
		return md.Decorate(err, "dyn.integrate (step 0)")
	}
	out.Log = append(out.Log, "MD:  Time[fs]      Etot/N[eV]     Epot/N[eV]     Ekin/N[eV]       T[K]")
	record := func(step int) error {
		ekin := KineticEnergy(s)
		temp := Temperature(ekin, s.Len())
		out.Steps = step
		out.Energy = res.Energy
		out.Ekin = ekin
		out.Temp = temp
		if step%p.FrameInterval == 0 {
			f := traj.NewFrame(step, float64(step)*p.Timestep, s, res.Energy, res.Forces)
			f.Ekin = ekin
			f.Temp = temp
			if err := rec.Append(f); err != nil {
				return err
			}
		}
		if step%p.LogInterval == 0 {
			n := float64(s.Len())
			out.Log = append(out.Log, fmt.Sprintf("MD: %9.2f  %14.6f %14.6f %14.6f %10.1f",
				float64(step)*p.Timestep, (res.Energy+KineticEnergy(s))/n, res.Energy/n, KineticEnergy(s)/n, temp))
		}
		return nil
	}
	if err := record(0); err != nil {
		out.Status = md.Failed
		return md.Decorate(err, "dyn.integrate")
	}
	for step := 1; step <= p.Steps; step++ {
		if ctx.Err() != nil {
			out.Status = md.Cancelled
			out.Log = append(out.Log, fmt.Sprintf("MD: cancelled after %d steps", out.Steps))
			return nil
		}
		if p.Ensemble == NVT {
			nh.pre(s)
		}
		//velocity Verlet: half kick, drift, recompute forces, half kick
		kick(s, res.Forces, dt/2)
		drift(s, dt)
		res, err = c.Compute(ctx, s, task, false)
		if err != nil {
			out.Status = md.Failed
			out.Log = append(out.Log, fmt.Sprintf("MD: calculator failed at step %d: %v", step, err))
			return md.Decorate(err, fmt.Sprintf("dyn.integrate (step %d)", step))
		}
		kick(s, res.Forces, dt/2)
		if p.Ensemble == NVT {
			nh.post(s)
		}
		if err := record(step); err != nil {
			out.Status = md.Failed
			return md.Decorate(err, "dyn.integrate")
		}
	}
	out.Status = md.Completed
	out.Log = append(out.Log, fmt.Sprintf("MD: completed %d steps (%g fs)", p.Steps, float64(p.Steps)*p.Timestep))
	return nil
}

//kick advances velocities from forces over dt: v += f/m * dt.
func kick(s *md.Structure, forces *v3.Matrix, dt float64) {
	for i, a := range s.Atoms {
		for j := 0; j < 3; j++ {
			s.Vel.Set(i, j, s.Vel.At(i, j)+forces.At(i, j)*dt/a.Mass)
		}
	}
}

//drift advances positions from velocities over dt.
func drift(s *md.Structure, dt float64) {
	s.Coord.AddScaled(s.Coord, s.Vel, dt)
}

//noseHoover is a single-thermostat Nose-Hoover coupling: a friction
//coordinate xi exchanges kinetic energy with a virtual bath of mass
//Q = 3N*kB*T*tau^2, pulling the time-averaged temperature to the
//target while keeping the dynamics deterministic.
type noseHoover struct {
	q   float64 //bath mass
	xi  float64 //friction coordinate
	dof float64
	kt  float64 //kB * target temperature
	dt2 float64 //half timestep
}

func newNoseHoover(natoms int, T, tau, dt float64) *noseHoover {
	dof := 3 * float64(natoms)
	return &noseHoover{dof: dof, kt: md.KB * T, q: dof * md.KB * T * tau * tau, dt2: dt / 2}
}

//pre runs the thermostat half step before the Verlet update: advance
//the friction coordinate from the current kinetic energy, then scale
//the velocities. post mirrors it after the update, which makes the
//splitting time-symmetric.
func (nh *noseHoover) pre(s *md.Structure) {
	if nh.q <= 0 {
		return
	}
	nh.xi += nh.dt2 * (2*KineticEnergy(s) - nh.dof*nh.kt) / nh.q
	s.Vel.Scale(math.Exp(-nh.xi*nh.dt2), s.Vel)
}

func (nh *noseHoover) post(s *md.Structure) {
	if nh.q <= 0 {
		return
	}
	s.Vel.Scale(math.Exp(-nh.xi*nh.dt2), s.Vel)
	nh.xi += nh.dt2 * (2*KineticEnergy(s) - nh.dof*nh.kt) / nh.q
}

/*
 * report.go, part of gomd.
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

//Package report turns a recorded trajectory into summary statistics
//and time-series plots. It reads the stf family back from disk, so a
//report can be produced long after the run, from the file alone.
package report

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/traj"
	"github.com/rmera/gomd/traj/stf"
)

//Series is the thermodynamic record of a trajectory, one entry per
//frame, in order.
type Series struct {
	Time   []float64 //fs
	Energy []float64 //eV
	Ekin   []float64 //eV
	Temp   []float64 //K
}

//Len returns the number of frames in the series.
func (S *Series) Len() int {
	return len(S.Time)
}

//FromFrames builds a series from in-memory frames.
func FromFrames(frames []*traj.Frame) *Series {
	s := &Series{}
	for _, f := range frames {
		s.Time = append(s.Time, f.Time)
		s.Energy = append(s.Energy, f.Energy)
		s.Ekin = append(s.Ekin, f.Ekin)
		s.Temp = append(s.Temp, f.Temp)
	}
	return s
}

//Read reads the thermodynamic series back from an stf trajectory
//file, compressed or not.
func Read(path string) (*Series, error) {
	r, _, err := stf.NewReader(path)
	if err != nil {
		return nil, md.Decorate(err, "report.Read")
	}
	defer r.Close()
	s := &Series{}
	for {
		b, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, md.Decorate(err, "report.Read")
		}
		s.Time = append(s.Time, b.Time)
		s.Energy = append(s.Energy, b.Energy)
		s.Ekin = append(s.Ekin, b.Ekin)
		s.Temp = append(s.Temp, b.Temp)
	}
	if s.Len() == 0 {
		return nil, md.NewError(nil, fmt.Sprintf("report: trajectory %s holds no frames", path), "report.Read")
	}
	return s, nil
}

//Summary is the one-paragraph statistical digest of a run.
type Summary struct {
	Frames     int
	MeanEnergy float64
	SdevEnergy float64
	MeanTemp   float64
	SdevTemp   float64
	Drift      float64 //last minus first total energy, eV
}

//Summarize computes the digest of a series. Total energy (potential
//plus kinetic) is what drifts in an NVE run, so Drift is reported on
//the sum.
func Summarize(s *Series) *Summary {
	sum := &Summary{Frames: s.Len()}
	sum.MeanEnergy = stat.Mean(s.Energy, nil)
	sum.SdevEnergy = stat.StdDev(s.Energy, nil)
	sum.MeanTemp = stat.Mean(s.Temp, nil)
	sum.SdevTemp = stat.StdDev(s.Temp, nil)
	if n := s.Len(); n > 1 {
		sum.Drift = (s.Energy[n-1] + s.Ekin[n-1]) - (s.Energy[0] + s.Ekin[0])
	}
	return sum
}

func (S *Summary) String() string {
	return fmt.Sprintf("%d frames, E = %.4f +/- %.4f eV, T = %.1f +/- %.1f K, drift %.3g eV",
		S.Frames, S.MeanEnergy, S.SdevEnergy, S.MeanTemp, S.SdevTemp, S.Drift)
}

//EnergyPlot writes a potential-energy-versus-time line plot as PNG.
func EnergyPlot(s *Series, path string) error {
	return linePlot(s.Time, s.Energy, "Potential energy", "E (eV)", path)
}

//TemperaturePlot writes a temperature-versus-time line plot as PNG.
func TemperaturePlot(s *Series, path string) error {
	return linePlot(s.Time, s.Temp, "Temperature", "T (K)", path)
}

func linePlot(x, y []float64, title, ylabel, path string) error {
	if len(x) != len(y) || len(x) == 0 {
		return md.NewError(nil, fmt.Sprintf("report: cannot plot %d points against %d times", len(y), len(x)), "linePlot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (fs)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return md.Decorate(err, "linePlot")
	}
	p.Add(line)
	if err := p.Save(14*vg.Centimeter, 10*vg.Centimeter, path); err != nil {
		return md.Decorate(err, "linePlot")
	}
	return nil
}

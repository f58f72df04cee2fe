/*
 * repro.go, part of gomd.
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

//Package repro emits, for every run, a self-contained shell script
//that reproduces it: the literal input file in a here-document and a
//gomd invocation spelling out every parameter that shaped the run,
//defaults included. Re-running the script issues the same sequence
//of calculator queries; whether those return bit-identical numbers
//depends on the backend (the local potentials are deterministic, a
//remote endpoint need not be).
package repro

import (
	"fmt"
	"strings"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/calc"
	"github.com/rmera/gomd/dyn"
	"github.com/rmera/gomd/relax"
)

//Input is everything the script must echo: the structure exactly as
//it was submitted, the task, the backend and its retry policy when
//remote, and the full parameter set of whichever engine ran.
type Input struct {
	SourceName string //filename of the submitted structure
	Source     []byte //its literal content
	Task       md.Task
	Backend    string              //"local" or "remote"
	Remote     *calc.RemoteOptions //set when Backend is "remote"
	Relax      *relax.Params       //exactly one of Relax and MD is set
	MD         *dyn.Params
	TrajPath   string
	MaxAtoms   int
}

//Script renders the reproduction script. The same Input always
//yields the same bytes.
func Script(in Input) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("# Reproduces a gomd run. Requires the gomd binary on PATH.\n")
	name := in.SourceName
	if name == "" {
		name = "input.xyz"
	}
	fmt.Fprintf(&b, "cat > %q <<'GOMD_INPUT_EOF'\n", name)
	b.Write(in.Source)
	if len(in.Source) > 0 && in.Source[len(in.Source)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString("GOMD_INPUT_EOF\n\n")
	switch {
	case in.Relax != nil:
		b.WriteString("gomd relax")
		writeCommon(&b, &in, name)
		fmt.Fprintf(&b, " \\\n  --fmax %g --steps %d --maxstep %g", in.Relax.Fmax, in.Relax.Steps, in.Relax.MaxStep)
		fmt.Fprintf(&b, " \\\n  --memory %d --alpha %g --relax-cell=%t", in.Relax.Memory, in.Relax.Alpha, in.Relax.RelaxCell)
	case in.MD != nil:
		b.WriteString("gomd md")
		writeCommon(&b, &in, name)
		p := in.MD
		fmt.Fprintf(&b, " \\\n  --ensemble %s --timestep %g --steps %d --temperature %g", p.Ensemble, p.Timestep, p.Steps, p.Temperature)
		fmt.Fprintf(&b, " \\\n  --tdamp %g --pre-relax %d --frame-interval %d --log-interval %d", p.Tdamp, p.PreRelax, p.FrameInterval, p.LogInterval)
		fmt.Fprintf(&b, " \\\n  --seed %d --double-init-temp=%t", p.Seed, p.DoubleInitTemp)
	}
	b.WriteByte('\n')
	return b.String()
}

func writeCommon(b *strings.Builder, in *Input, name string) {
	fmt.Fprintf(b, " %q --task %s --backend %s", name, in.Task.WireName(), in.Backend)
	if in.MaxAtoms > 0 {
		fmt.Fprintf(b, " --max-atoms %d", in.MaxAtoms)
	}
	if in.TrajPath != "" {
		fmt.Fprintf(b, " --traj %q", in.TrajPath)
	}
	if in.Remote != nil {
		fmt.Fprintf(b, " \\\n  --endpoint %q --retry-initial %s --retry-growth %g --retry-attempts %d --retry-elapsed %s",
			in.Remote.Endpoint, in.Remote.InitialInterval, in.Remote.Multiplier, in.Remote.MaxAttempts, in.Remote.MaxElapsed)
	}
}

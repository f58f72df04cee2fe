/*
 * xyz.go, part of gomd.
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

package md

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/gomd/v3"
)

//XYZRead reads the first frame of an XYZ or extended-XYZ file. The
//extended-XYZ comment keys Lattice, pbc, charge and spin are honored
//when present; a Properties key is used to locate the species,
//position and velocity columns, otherwise the plain
//"symbol x y z" layout is assumed.
func XYZRead(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Decorate(err, "XYZRead")
	}
	defer f.Close()
	s, err := xyzReadFrame(bufio.NewReader(f))
	if err != nil {
		return nil, Decorate(err, "XYZRead")
	}
	return s, nil
}

func xyzReadFrame(r *bufio.Reader) (*Structure, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return nil, err
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return nil, NewError(nil, fmt.Sprintf("gomd: malformed XYZ atom count line %q", strings.TrimSpace(line)), "xyzReadFrame")
	}
	comment, err := r.ReadString('\n')
	if err != nil && comment == "" {
		return nil, io.ErrUnexpectedEOF
	}
	keys := parseXYZComment(comment)

	layout, err := xyzLayout(keys["Properties"])
	if err != nil {
		return nil, err
	}
	zs := make([]int, 0, natoms)
	coords := make([]float64, 0, natoms*3)
	var vels []float64
	if layout.vel >= 0 {
		vels = make([]float64, 0, natoms*3)
	}
	for i := 0; i < natoms; i++ {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return nil, io.ErrUnexpectedEOF
		}
		fields := strings.Fields(line)
		if len(fields) < layout.min {
			return nil, NewError(nil, fmt.Sprintf("gomd: truncated XYZ atom line %d: %q", i+1, strings.TrimSpace(line)), "xyzReadFrame")
		}
		z := ZFromSymbol(fields[layout.species])
		if z == 0 {
			//some tools write atomic numbers in the species column
			if n, err2 := strconv.Atoi(fields[layout.species]); err2 == nil {
				z = n
			}
		}
		if z == 0 {
			return nil, NewError(nil, fmt.Sprintf("gomd: unknown element %q in XYZ line %d", fields[layout.species], i+1), "xyzReadFrame")
		}
		zs = append(zs, z)
		for j := 0; j < 3; j++ {
			v, err2 := strconv.ParseFloat(fields[layout.pos+j], 64)
			if err2 != nil {
				return nil, NewError(nil, fmt.Sprintf("gomd: bad coordinate in XYZ line %d: %q", i+1, fields[layout.pos+j]), "xyzReadFrame")
			}
			coords = append(coords, v)
		}
		if layout.vel >= 0 {
			for j := 0; j < 3; j++ {
				v, err2 := strconv.ParseFloat(fields[layout.vel+j], 64)
				if err2 != nil {
					return nil, NewError(nil, fmt.Sprintf("gomd: bad velocity in XYZ line %d", i+1), "xyzReadFrame")
				}
				vels = append(vels, v)
			}
		}
	}
	coord, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, Decorate(err, "xyzReadFrame")
	}
	s, err := NewStructure(zs, coord)
	if err != nil {
		return nil, Decorate(err, "xyzReadFrame")
	}
	if vels != nil {
		s.Vel, err = v3.NewMatrix(vels)
		if err != nil {
			return nil, Decorate(err, "xyzReadFrame")
		}
	}
	if err := applyXYZKeys(s, keys); err != nil {
		return nil, err
	}
	return s, nil
}

//applyXYZKeys transfers the recognized extended-XYZ comment keys onto
//the structure.
func applyXYZKeys(s *Structure, keys map[string]string) error {
	if lat, ok := keys["Lattice"]; ok {
		fields := strings.Fields(lat)
		if len(fields) != 9 {
			return NewError(nil, fmt.Sprintf("gomd: Lattice needs 9 numbers, got %d", len(fields)), "applyXYZKeys")
		}
		data := make([]float64, 9)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return NewError(nil, fmt.Sprintf("gomd: bad Lattice value %q", f), "applyXYZKeys")
			}
			data[i] = v
		}
		cell, _ := v3.NewMatrix(data)
		s.Cell = cell
		s.SetPeriodic(true)
	}
	if p, ok := keys["pbc"]; ok {
		fields := strings.Fields(p)
		if len(fields) == 3 {
			for i, f := range fields {
				s.Periodic[i] = strings.EqualFold(f, "T") || strings.EqualFold(f, "true")
			}
		}
	}
	if c, ok := keys["charge"]; ok {
		if n, err := strconv.Atoi(c); err == nil {
			s.Charge = n
		}
	}
	if sp, ok := keys["spin"]; ok {
		if n, err := strconv.Atoi(sp); err == nil {
			s.Spin = n
		}
	}
	return nil
}

type xyzColumns struct {
	species, pos, vel, min int
}

//xyzLayout decodes an extended-XYZ Properties string
//(e.g. species:S:1:pos:R:3:vel:R:3) into column offsets. An empty
//string yields the plain "symbol x y z" layout.
func xyzLayout(props string) (xyzColumns, error) {
	l := xyzColumns{species: 0, pos: 1, vel: -1, min: 4}
	if props == "" {
		return l, nil
	}
	l.species = -1
	l.pos = -1
	fields := strings.Split(props, ":")
	if len(fields)%3 != 0 {
		return l, NewError(nil, fmt.Sprintf("gomd: malformed Properties string %q", props), "xyzLayout")
	}
	col := 0
	for i := 0; i < len(fields); i += 3 {
		name := fields[i]
		width, err := strconv.Atoi(fields[i+2])
		if err != nil || width <= 0 {
			return l, NewError(nil, fmt.Sprintf("gomd: malformed Properties string %q", props), "xyzLayout")
		}
		switch name {
		case "species":
			l.species = col
		case "pos":
			l.pos = col
		case "vel", "velo", "velocities":
			l.vel = col
		}
		col += width
	}
	if l.species < 0 || l.pos < 0 {
		return l, NewError(nil, fmt.Sprintf("gomd: Properties %q misses species or pos", props), "xyzLayout")
	}
	l.min = l.pos + 3
	if l.vel >= 0 && l.vel+3 > l.min {
		l.min = l.vel + 3
	}
	if l.species+1 > l.min {
		l.min = l.species + 1
	}
	return l, nil
}

//parseXYZComment splits an extended-XYZ comment line into key=value
//pairs, honoring double-quoted values. Unrecognized text is ignored,
//so plain comment lines parse to an empty map.
func parseXYZComment(line string) map[string]string {
	out := make(map[string]string)
	line = strings.TrimSpace(line)
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		start := i
		for i < len(line) && line[i] != '=' && line[i] != ' ' {
			i++
		}
		if i >= len(line) || line[i] != '=' {
			continue //a bare word, not a key=value pair
		}
		key := line[start:i]
		i++ //skip '='
		var val string
		if i < len(line) && line[i] == '"' {
			i++
			vstart := i
			for i < len(line) && line[i] != '"' {
				i++
			}
			val = line[vstart:i]
			if i < len(line) {
				i++ //closing quote
			}
		} else {
			vstart := i
			for i < len(line) && line[i] != ' ' {
				i++
			}
			val = line[vstart:i]
		}
		out[key] = val
	}
	return out
}

//XYZWrite writes the structure as one extended-XYZ frame. Lattice and
//pbc keys are emitted for periodic structures, charge and spin always,
//velocities when present.
func XYZWrite(path string, s *Structure) error {
	f, err := os.Create(path)
	if err != nil {
		return Decorate(err, "XYZWrite")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()
	if err := WriteXYZTo(w, s, ""); err != nil {
		return Decorate(err, "XYZWrite")
	}
	return nil
}

//WriteXYZTo writes one extended-XYZ frame to w. extra is appended to
//the comment line verbatim, so callers can add their own keys (the
//trajectory writer adds energies this way).
func WriteXYZTo(w io.Writer, s *Structure, extra string) error {
	var comment strings.Builder
	if s.PBC() && s.Cell != nil {
		comment.WriteString("Lattice=\"")
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if i+j > 0 {
					comment.WriteByte(' ')
				}
				fmt.Fprintf(&comment, "%.8f", s.Cell.At(i, j))
			}
		}
		comment.WriteString("\" ")
	}
	props := "species:S:1:pos:R:3"
	if s.Vel != nil {
		props += ":vel:R:3"
	}
	fmt.Fprintf(&comment, "Properties=%s charge=%d spin=%d", props, s.Charge, s.Spin)
	if s.PBC() {
		comment.WriteString(" pbc=\"T T T\"")
	} else {
		comment.WriteString(" pbc=\"F F F\"")
	}
	if extra != "" {
		comment.WriteByte(' ')
		comment.WriteString(extra)
	}
	if _, err := fmt.Fprintf(w, "%d\n%s\n", s.Len(), comment.String()); err != nil {
		return Decorate(err, "WriteXYZTo")
	}
	for i, a := range s.Atoms {
		if _, err := fmt.Fprintf(w, "%-3s %14.8f %14.8f %14.8f", a.Symbol, s.Coord.At(i, 0), s.Coord.At(i, 1), s.Coord.At(i, 2)); err != nil {
			return Decorate(err, "WriteXYZTo")
		}
		if s.Vel != nil {
			if _, err := fmt.Fprintf(w, " %14.8f %14.8f %14.8f", s.Vel.At(i, 0), s.Vel.At(i, 1), s.Vel.At(i, 2)); err != nil {
				return Decorate(err, "WriteXYZTo")
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return Decorate(err, "WriteXYZTo")
		}
	}
	return nil
}

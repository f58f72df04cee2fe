/*
 * cif.go, part of gomd.
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
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/gomd/v3"
)

//CIFRead reads a crystallographic CIF file with the symmetry already
//expanded (P1), which is what structure databases export for
//simulation. It collects the cell parameters and the _atom_site loop
//with fractional (or cartesian) coordinates. Symmetry operations are
//not applied.
func CIFRead(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Decorate(err, "CIFRead")
	}
	defer f.Close()

	var a, b, c, alpha, beta, gamma float64
	alpha, beta, gamma = 90, 90, 90
	var zs []int
	var fracs []float64
	cartesian := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "_cell_length_a":
			a = cifNumber(fields)
		case "_cell_length_b":
			b = cifNumber(fields)
		case "_cell_length_c":
			c = cifNumber(fields)
		case "_cell_angle_alpha":
			alpha = cifNumber(fields)
		case "_cell_angle_beta":
			beta = cifNumber(fields)
		case "_cell_angle_gamma":
			gamma = cifNumber(fields)
		case "loop_":
			tags, rows, err := cifLoop(scanner)
			if err != nil {
				return nil, Decorate(err, "CIFRead")
			}
			if !isAtomSiteLoop(tags) {
				continue
			}
			zs, fracs, cartesian, err = cifAtoms(tags, rows)
			if err != nil {
				return nil, Decorate(err, "CIFRead")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Decorate(err, "CIFRead")
	}
	if len(zs) == 0 {
		return nil, NewError(nil, fmt.Sprintf("gomd: no _atom_site loop in %s", path), "CIFRead")
	}
	cell, err := CellFromParams(a, b, c, alpha, beta, gamma)
	if err != nil {
		return nil, Decorate(err, "CIFRead")
	}
	coord := v3.Zeros(len(zs))
	for i := 0; i < len(zs); i++ {
		fa, fb, fc := fracs[i*3], fracs[i*3+1], fracs[i*3+2]
		if cartesian {
			coord.Set(i, 0, fa)
			coord.Set(i, 1, fb)
			coord.Set(i, 2, fc)
			continue
		}
		for j := 0; j < 3; j++ {
			coord.Set(i, j, fa*cell.At(0, j)+fb*cell.At(1, j)+fc*cell.At(2, j))
		}
	}
	s, err := NewStructure(zs, coord)
	if err != nil {
		return nil, Decorate(err, "CIFRead")
	}
	s.Cell = cell
	s.SetPeriodic(true)
	return s, nil
}

//cifNumber parses the value of a tag-value line, dropping the
//parenthesized uncertainty CIF files carry ("5.431(2)" -> 5.431).
func cifNumber(fields []string) float64 {
	if len(fields) < 2 {
		return 0
	}
	v := fields[1]
	if i := strings.IndexByte(v, '('); i >= 0 {
		v = v[:i]
	}
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

//cifLoop collects the tag header and data rows of one loop_ block.
//The scanner is left past the last data row.
func cifLoop(scanner *bufio.Scanner) (tags []string, rows [][]string, err error) {
	inHeader := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if inHeader {
				continue
			}
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "_") {
			if !inHeader {
				break //a new tag block ends the loop data
			}
			tags = append(tags, strings.Fields(line)[0])
			continue
		}
		if line == "loop_" {
			break
		}
		inHeader = false
		rows = append(rows, strings.Fields(line))
	}
	return tags, rows, scanner.Err()
}

func isAtomSiteLoop(tags []string) bool {
	for _, t := range tags {
		if strings.HasPrefix(t, "_atom_site_fract") || strings.HasPrefix(t, "_atom_site_Cartn") {
			return true
		}
	}
	return false
}

func cifAtoms(tags []string, rows [][]string) (zs []int, coords []float64, cartesian bool, err error) {
	col := func(names ...string) int {
		for _, n := range names {
			for i, t := range tags {
				if strings.EqualFold(t, n) {
					return i
				}
			}
		}
		return -1
	}
	sym := col("_atom_site_type_symbol", "_atom_site_label")
	x := col("_atom_site_fract_x")
	y := col("_atom_site_fract_y")
	z := col("_atom_site_fract_z")
	if x < 0 {
		x = col("_atom_site_Cartn_x")
		y = col("_atom_site_Cartn_y")
		z = col("_atom_site_Cartn_z")
		cartesian = true
	}
	if sym < 0 || x < 0 || y < 0 || z < 0 {
		return nil, nil, false, NewError(nil, "gomd: _atom_site loop misses symbol or coordinate columns", "cifAtoms")
	}
	for i, row := range rows {
		need := sym
		if x > need {
			need = x
		}
		if y > need {
			need = y
		}
		if z > need {
			need = z
		}
		if len(row) <= need {
			return nil, nil, false, NewError(nil, fmt.Sprintf("gomd: short _atom_site row %d", i+1), "cifAtoms")
		}
		zn := ZFromSymbol(cifElement(row[sym]))
		if zn == 0 {
			return nil, nil, false, NewError(nil, fmt.Sprintf("gomd: unknown element %q in _atom_site row %d", row[sym], i+1), "cifAtoms")
		}
		zs = append(zs, zn)
		for _, ci := range []int{x, y, z} {
			v := row[ci]
			if k := strings.IndexByte(v, '('); k >= 0 {
				v = v[:k]
			}
			f, err2 := strconv.ParseFloat(v, 64)
			if err2 != nil {
				return nil, nil, false, NewError(nil, fmt.Sprintf("gomd: bad coordinate %q in _atom_site row %d", row[ci], i+1), "cifAtoms")
			}
			coords = append(coords, f)
		}
	}
	return zs, coords, cartesian, nil
}

//cifElement strips the label decorations sites carry ("Na1", "O2-")
//down to the element symbol.
func cifElement(label string) string {
	end := len(label)
	for i, r := range label {
		if (r >= '0' && r <= '9') || r == '+' || r == '-' || r == '_' {
			end = i
			break
		}
	}
	return label[:end]
}

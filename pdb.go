/*
 * pdb.go, part of gomd.
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

//PDBRead reads atoms from a PDB file: ATOM and HETATM records of the
//first model, plus the CRYST1 cell. The placeholder cell many tools
//write for molecules (1 1 1, 90 90 90) is treated as no cell. The
//element is taken from columns 77-78 when present and deduced from
//the atom name otherwise.
func PDBRead(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Decorate(err, "PDBRead")
	}
	defer f.Close()

	var zs []int
	var coords []float64
	var cell *v3.Matrix
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineno++
		switch {
		case strings.HasPrefix(line, "CRYST1"):
			cell, err = pdbCell(line)
			if err != nil {
				return nil, Decorate(err, "PDBRead")
			}
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			z, x, y, zc, err := pdbAtom(line)
			if err != nil {
				return nil, Decorate(err, fmt.Sprintf("PDBRead, line %d", lineno))
			}
			zs = append(zs, z)
			coords = append(coords, x, y, zc)
		case strings.HasPrefix(line, "ENDMDL"):
			//only the first model
			goto done
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Decorate(err, "PDBRead")
	}
done:
	coord, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, Decorate(err, "PDBRead")
	}
	s, err := NewStructure(zs, coord)
	if err != nil {
		return nil, Decorate(err, "PDBRead")
	}
	if cell != nil {
		s.Cell = cell
		s.SetPeriodic(true)
	}
	return s, nil
}

func pdbAtom(line string) (z int, x, y, zc float64, err error) {
	if len(line) < 54 {
		return 0, 0, 0, 0, NewError(nil, fmt.Sprintf("gomd: truncated PDB atom record %q", line), "pdbAtom")
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	if err == nil {
		y, err = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	}
	if err == nil {
		zc, err = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	}
	if err != nil {
		return 0, 0, 0, 0, NewError(nil, fmt.Sprintf("gomd: bad coordinates in PDB record %q", line), "pdbAtom")
	}
	var sym string
	if len(line) >= 78 {
		sym = strings.TrimSpace(line[76:78])
	}
	if sym == "" {
		//deduce from the atom name, stripping leading digits
		name := strings.TrimSpace(line[12:16])
		name = strings.TrimLeft(name, "0123456789")
		if len(name) >= 2 && ZFromSymbol(name[:2]) != 0 {
			sym = name[:2]
		} else if len(name) >= 1 {
			sym = name[:1]
		}
	}
	z = ZFromSymbol(sym)
	if z == 0 {
		return 0, 0, 0, 0, NewError(nil, fmt.Sprintf("gomd: cannot assign an element to PDB record %q", line), "pdbAtom")
	}
	return z, x, y, zc, nil
}

func pdbCell(line string) (*v3.Matrix, error) {
	fields := strings.Fields(line)
	if len(fields) < 7 {
		return nil, NewError(nil, fmt.Sprintf("gomd: malformed CRYST1 record %q", line), "pdbCell")
	}
	p := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, NewError(nil, fmt.Sprintf("gomd: bad CRYST1 value %q", fields[i+1]), "pdbCell")
		}
		p[i] = v
	}
	//the dummy cell of non-crystallographic files
	if p[0] == 1 && p[1] == 1 && p[2] == 1 && p[3] == 90 && p[4] == 90 && p[5] == 90 {
		return nil, nil
	}
	cell, err := CellFromParams(p[0], p[1], p[2], p[3], p[4], p[5])
	if err != nil {
		return nil, Decorate(err, "pdbCell")
	}
	return cell, nil
}

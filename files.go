/*
 * files.go, part of gomd.
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
	"fmt"
	"path/filepath"
	"strings"
)

//ReadFile reads a structure file, picking the format from the file
//extension: .xyz and .extxyz, .pdb and .ent, or .cif.
func ReadFile(path string) (*Structure, error) {
	var s *Structure
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xyz", ".extxyz":
		s, err = XYZRead(path)
	case ".pdb", ".ent":
		s, err = PDBRead(path)
	case ".cif":
		s, err = CIFRead(path)
	default:
		return nil, NewError(nil, fmt.Sprintf("gomd: cannot tell the format of %s, supported extensions are .xyz, .extxyz, .pdb, .ent, .cif", path), "ReadFile")
	}
	if err != nil {
		return nil, Decorate(err, "ReadFile")
	}
	return s, nil
}

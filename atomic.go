/*
 * atomic.go, part of gomd.
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

import "strings"

//The unit system is that of most atomistic force fields: lengths in
//Angstrom, energies in eV, masses in amu. The derived time unit is
//A*sqrt(amu/eV), so velocities in these units give kinetic energies
//directly in eV.
const (
	//KB is the Boltzmann constant in eV/K (CODATA 2018).
	KB = 8.617333262e-5
	//Fs is one femtosecond in internal time units.
	Fs = 0.09822694788464063
)

//Standard atomic weights in amu, indexed by atomic number, from the
//IUPAC 2021 tables. Values in brackets in the source (no stable
//isotope) are the mass numbers of the longest-lived isotopes.
var atomicMass = [...]float64{0,
	1.008, 4.002602, 6.94, 9.0121831, 10.81, 12.011, 14.007, 15.999,
	18.998403163, 20.1797, 22.98976928, 24.305, 26.9815385, 28.085,
	30.973761998, 32.06, 35.45, 39.948, 39.0983, 40.078, 44.955908,
	47.867, 50.9415, 51.9961, 54.938044, 55.845, 58.933194, 58.6934,
	63.546, 65.38, 69.723, 72.630, 74.921595, 78.971, 79.904, 83.798,
	85.4678, 87.62, 88.90584, 91.224, 92.90637, 95.95, 97.907,
	101.07, 102.90550, 106.42, 107.8682, 112.414, 114.818, 118.710,
	121.760, 127.60, 126.90447, 131.293, 132.90545196, 137.327,
	138.90547, 140.116, 140.90766, 144.242, 144.913, 150.36, 151.964,
	157.25, 158.92535, 162.500, 164.93033, 167.259, 168.93422,
	173.045, 174.9668, 178.49, 180.94788, 183.84, 186.207, 190.23,
	192.217, 195.084, 196.966569, 200.592, 204.38, 207.2, 208.98040,
	208.982, 209.987, 222.018, 223.020, 226.025, 227.028, 232.0377,
	231.03588, 238.02891, 237.048, 244.064,
}

//Element symbols indexed by atomic number.
var atomicSymbol = [...]string{"",
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne", "Na", "Mg",
	"Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca", "Sc", "Ti", "V",
	"Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn", "Ga", "Ge", "As", "Se",
	"Br", "Kr", "Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh",
	"Pd", "Ag", "Cd", "In", "Sn", "Sb", "Te", "I", "Xe", "Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho",
	"Er", "Tm", "Yb", "Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt",
	"Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac",
	"Th", "Pa", "U", "Np", "Pu",
}

var symbol2Z map[string]int

func init() {
	symbol2Z = make(map[string]int, len(atomicSymbol))
	for z, s := range atomicSymbol {
		if z == 0 {
			continue
		}
		symbol2Z[s] = z
	}
}

//SymbolFromZ returns the element symbol for the given atomic number,
//or an empty string if the number is out of the known range.
func SymbolFromZ(z int) string {
	if z <= 0 || z >= len(atomicSymbol) {
		return ""
	}
	return atomicSymbol[z]
}

//ZFromSymbol returns the atomic number for an element symbol, or 0 if
//the symbol is unknown. The match is tolerant to case, so "MG", "mg"
//and "Mg" all work, as some file formats uppercase element names.
func ZFromSymbol(s string) int {
	s = strings.TrimSpace(s)
	if z, ok := symbol2Z[s]; ok {
		return z
	}
	if len(s) == 0 {
		return 0
	}
	n := strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	return symbol2Z[n]
}

//MassFromZ returns the standard atomic weight in amu for the given
//atomic number, or 0 if the number is out of the known range.
func MassFromZ(z int) float64 {
	if z <= 0 || z >= len(atomicMass) {
		return 0
	}
	return atomicMass[z]
}

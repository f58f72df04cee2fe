/*
 * doc.go, part of gomd.
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

/*Package md is the core of the goMD library: structure relaxation and
molecular dynamics driven by machine-learned force fields, served
locally or from a remote inference endpoint.

This package holds what everything else builds on:

    The Structure type: atoms, coordinates, unit cell, periodicity,
    net charge and spin multiplicity.

    Structure file reading and writing: XYZ and extended XYZ, PDB,
    and crystallographic CIF.

    The Task catalog a force-field model can be trained for, with the
    charge/spin domain each task accepts.

    Validation of incoming structures (size cap, uniform periodicity,
    charge/spin domain, centering) before any calculator is touched.

    The error taxonomy shared by the calculator backends and the
    engines.

The subpackages do the actual work: calc talks to the force-field
backends, relax optimizes geometries, dyn integrates the equations of
motion, traj records and persists trajectories, sim orchestrates whole
runs, and repro writes the script that reproduces one.

Units are Angstrom, eV, amu and Kelvin throughout. The derived time
unit makes one femtosecond equal to the Fs constant.
*/
package md

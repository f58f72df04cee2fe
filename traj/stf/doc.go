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

//Package stf implements the simple trajectory format, the module's
//compact frame stream. stf aims to produce reasonably small files
//while staying trivial to read and write from any language: plain
//text, fixed-precision integer coordinates and per-frame metadata,
//with the compression picked by the filename suffix (.stfz for zstd,
//.stfg for gzip, .stff for flate, .stf for none). Unlike the
//extended-XYZ output, which exists for visualization tools, stf is
//what the reporting commands read back.
package stf

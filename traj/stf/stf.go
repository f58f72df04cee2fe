/*
 * stf.go, part of gomd.
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

package stf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	v3 "github.com/rmera/gomd/v3"
)

//The stf format is a text stream of simulation frames. It opens with
//key=value header lines closed by a "** natoms" line, then one block
//per frame: a "@" metadata line, natoms integer coordinate triples
//at fixed precision, and a "*" terminator carrying the cell row
//values when the frame is periodic. The last letter of the filename
//picks the compression: z for zstd, g for gzip, f for flate, plain
//.stf for none.

//DefaultPrec is the number of decimals kept per coordinate when the
//header does not say otherwise. Three decimals keep an MD trajectory
//well under the thermal noise.
const DefaultPrec = 3

//Meta is the per-frame metadata: step index, time in fs, potential
//and kinetic energies in eV and the instantaneous temperature in K.
type Meta struct {
	Step   int
	Time   float64
	Energy float64
	Ekin   float64
	Temp   float64
}

//Writer writes an stf trajectory.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	buf       *bufio.Writer
	natoms    int
	filename  string
	prec      int
	writeable bool
}

//NewWriter creates the trajectory file and writes the header. The
//header map travels verbatim; keys or values containing '=' or a
//newline are rejected. A "prec" key overrides the coordinate
//precision.
func NewWriter(name string, natoms int, header map[string]string) (*Writer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, errDecorate(err, "NewWriter")
	}
	W := &Writer{f: f, natoms: natoms, filename: name, prec: DefaultPrec, writeable: true}
	W.h, err = compressor(name, f)
	if err != nil {
		f.Close()
		return nil, errDecorate(err, "NewWriter")
	}
	W.buf = bufio.NewWriter(W.h)
	for k, v := range header {
		if strings.ContainsAny(k, "=\n") || strings.Contains(v, "\n") {
			W.Close()
			return nil, Error{fmt.Sprintf("malformed header entry %q", k), name, []string{"NewWriter"}, true}
		}
		if k == "prec" {
			p, err := strconv.Atoi(v)
			if err != nil || p < 0 {
				W.Close()
				return nil, Error{fmt.Sprintf("invalid precision %q", v), name, []string{"NewWriter"}, true}
			}
			W.prec = p
		}
		fmt.Fprintf(W.buf, "%s=%s\n", k, v)
	}
	fmt.Fprintf(W.buf, "** %d\n", natoms)
	return W, nil
}

//Len returns the number of atoms per frame.
func (W *Writer) Len() int {
	return W.natoms
}

//WNext appends one frame. cell may be nil for non-periodic frames.
func (W *Writer) WNext(m Meta, coord, cell *v3.Matrix) error {
	if !W.writeable {
		return Error{"trajectory closed for writing", W.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{"nil coordinates", W.filename, []string{"WNext"}, true}
	}
	if coord.NVecs() != W.natoms {
		return Error{fmt.Sprintf("%d coordinates given, %d expected", coord.NVecs(), W.natoms), W.filename, []string{"WNext"}, true}
	}
	fmt.Fprintf(W.buf, "@ step=%d time=%g energy=%g ekin=%g temp=%g\n", m.Step, m.Time, m.Energy, m.Ekin, m.Temp)
	scale := math.Pow10(W.prec)
	for i := 0; i < W.natoms; i++ {
		fmt.Fprintf(W.buf, "%d %d %d\n",
			int64(math.Round(coord.At(i, 0)*scale)),
			int64(math.Round(coord.At(i, 1)*scale)),
			int64(math.Round(coord.At(i, 2)*scale)))
	}
	if cell != nil {
		fmt.Fprintf(W.buf, "* %g %g %g %g %g %g %g %g %g\n",
			cell.At(0, 0), cell.At(0, 1), cell.At(0, 2),
			cell.At(1, 0), cell.At(1, 1), cell.At(1, 2),
			cell.At(2, 0), cell.At(2, 1), cell.At(2, 2))
	} else {
		fmt.Fprintln(W.buf, "*")
	}
	return nil
}

//Close flushes and closes the trajectory. It is safe to call more
//than once.
func (W *Writer) Close() error {
	if W == nil || !W.writeable {
		return nil
	}
	W.writeable = false
	if err := W.buf.Flush(); err != nil {
		return errDecorate(err, "Close")
	}
	if err := W.h.Close(); err != nil {
		return errDecorate(err, "Close")
	}
	return W.f.Close()
}

//Block is one frame read back from a trajectory.
type Block struct {
	Meta
	Coord *v3.Matrix
	Cell  *v3.Matrix //nil when the frame carries no cell
}

//Reader reads an stf trajectory.
type Reader struct {
	f        *os.File
	z        io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	readable bool
}

//zstd's Decoder does not implement io.ReadCloser, its Close returns
//nothing. Wrap it.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//NewReader opens a trajectory and parses its header, returned as the
//second value.
func NewReader(name string) (*Reader, map[string]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, errDecorate(err, "NewReader")
	}
	R := &Reader{f: f, filename: name, natoms: -1, prec: DefaultPrec}
	R.z, err = decompressor(name, bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, nil, Error{"can't open the compressed stream: " + err.Error(), name, []string{"NewReader"}, true}
	}
	R.h = bufio.NewReader(R.z)
	header := map[string]string{}
	for {
		str, err := R.h.ReadString('\n')
		if err != nil {
			R.Close()
			return nil, nil, Error{"can't read the header: " + err.Error(), name, []string{"NewReader"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			fields := strings.Fields(str)
			if len(fields) < 2 {
				R.Close()
				return nil, nil, Error{fmt.Sprintf("can't read the atom count from %q", str), name, []string{"NewReader"}, true}
			}
			R.natoms, err = strconv.Atoi(fields[1])
			if err != nil {
				R.Close()
				return nil, nil, Error{fmt.Sprintf("can't read the atom count from %q", str), name, []string{"NewReader"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			R.Close()
			return nil, nil, Error{fmt.Sprintf("malformed header line %q", str), name, []string{"NewReader"}, true}
		}
		header[kv[0]] = kv[1]
	}
	if p, ok := header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec >= 0 {
			R.prec = prec
		}
	}
	R.readable = true
	return R, header, nil
}

//Len returns the number of atoms per frame.
func (R *Reader) Len() int {
	return R.natoms
}

//Readable returns whether Next can still be called.
func (R *Reader) Readable() bool {
	return R.readable
}

//Next reads the next frame. At the end of the trajectory it returns
//nil and io.EOF.
func (R *Reader) Next() (*Block, error) {
	if !R.readable {
		return nil, Error{"trajectory closed for reading", R.filename, []string{"Next"}, true}
	}
	line, err := R.h.ReadString('\n')
	if err != nil {
		if err == io.EOF && line == "" {
			return nil, io.EOF
		}
		return nil, errDecorate(err, "Next")
	}
	b := &Block{}
	if err := parseMeta(strings.TrimSuffix(line, "\n"), &b.Meta); err != nil {
		return nil, errDecorate(err, "Next")
	}
	b.Coord = v3.Zeros(R.natoms)
	scale := math.Pow10(R.prec)
	for i := 0; i < R.natoms; i++ {
		line, err := R.h.ReadString('\n')
		if err != nil {
			return nil, Error{fmt.Sprintf("truncated frame at atom %d: %v", i, err), R.filename, []string{"Next"}, true}
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, Error{fmt.Sprintf("malformed coordinate line %q", strings.TrimSpace(line)), R.filename, []string{"Next"}, true}
		}
		for j, fstr := range fields {
			n, err := strconv.ParseInt(fstr, 10, 64)
			if err != nil {
				return nil, Error{fmt.Sprintf("bad coordinate %q", fstr), R.filename, []string{"Next"}, true}
			}
			b.Coord.Set(i, j, float64(n)/scale)
		}
	}
	line, err = R.h.ReadString('\n')
	if err != nil {
		return nil, Error{"frame missing its terminator: " + err.Error(), R.filename, []string{"Next"}, true}
	}
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "*" {
		return nil, Error{fmt.Sprintf("malformed frame terminator %q", strings.TrimSpace(line)), R.filename, []string{"Next"}, true}
	}
	if len(fields) == 10 {
		b.Cell = v3.Zeros(3)
		for i := 0; i < 9; i++ {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, Error{fmt.Sprintf("bad cell value %q", fields[i+1]), R.filename, []string{"Next"}, true}
			}
			b.Cell.Set(i/3, i%3, v)
		}
	}
	return b, nil
}

//Close closes the trajectory. It is safe to call more than once.
func (R *Reader) Close() {
	if R == nil || R.f == nil {
		return
	}
	R.readable = false
	if R.z != nil {
		R.z.Close()
	}
	R.f.Close()
	R.f = nil
}

func parseMeta(line string, m *Meta) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "@" {
		return Error{fmt.Sprintf("malformed frame metadata %q", line), "", []string{"parseMeta"}, true}
	}
	for _, f := range fields[1:] {
		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 {
			return Error{fmt.Sprintf("malformed metadata entry %q", f), "", []string{"parseMeta"}, true}
		}
		switch kv[0] {
		case "step":
			n, err := strconv.Atoi(kv[1])
			if err != nil {
				return Error{fmt.Sprintf("bad step %q", kv[1]), "", []string{"parseMeta"}, true}
			}
			m.Step = n
		case "time", "energy", "ekin", "temp":
			v, err := strconv.ParseFloat(kv[1], 64)
			if err != nil {
				return Error{fmt.Sprintf("bad %s value %q", kv[0], kv[1]), "", []string{"parseMeta"}, true}
			}
			switch kv[0] {
			case "time":
				m.Time = v
			case "energy":
				m.Energy = v
			case "ekin":
				m.Ekin = v
			case "temp":
				m.Temp = v
			}
		}
	}
	return nil
}

//compressor picks the compression from the last letter of the
//filename, following the suffix scheme of the format.
func compressor(name string, w io.Writer) (io.WriteCloser, error) {
	switch suffixLetter(name) {
	case 'z':
		return zstd.NewWriter(w)
	case 'g':
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case 'f':
		return flate.NewWriter(w, flate.BestCompression)
	default:
		return nopWriteCloser{w}, nil
	}
}

func decompressor(name string, r io.Reader) (io.ReadCloser, error) {
	switch suffixLetter(name) {
	case 'z':
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zstdCloser{d}, nil
	case 'g':
		return gzip.NewReader(r)
	case 'f':
		return flate.NewReader(r), nil
	default:
		return io.NopCloser(r), nil
	}
}

func suffixLetter(name string) byte {
	if name == "" {
		return 0
	}
	return strings.ToLower(name)[len(name)-1]
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

//Error is the error type of the package, in the manner of the rest
//of the module: a message, the file it happened on and a trail of
//the functions it passed through.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename == "" {
		return "stf: " + err.message
	}
	return fmt.Sprintf("stf: %s (file %s)", err.message, err.filename)
}

//Decorate adds the name of a calling function to the error trail and
//returns the trail.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the name of the trajectory the error refers to.
func (err Error) FileName() string { return err.filename }

//Critical returns whether the error should be considered fatal.
func (err Error) Critical() bool { return err.critical }

func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, caller)
		return e
	}
	return Error{err.Error(), "", []string{caller}, true}
}

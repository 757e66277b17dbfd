/*
Copyright © 2026 the geostrip authors.
This file is part of geostrip.

geostrip is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

geostrip is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with geostrip.  If not, see <http://www.gnu.org/licenses/>.
*/

// This file contains the reader.

package ncz

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// A File is an open ncz container.
type File struct {
	r      io.ReadSeeker
	Header *Header
	offset []int64 // block offset per variable
}

// Open parses the header of an ncz container.
func Open(r io.ReadSeeker) (*File, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("ncz: reading magic: %v", err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("ncz: bad magic %q", magic[:])
	}
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	f := &File{r: r, Header: h, offset: make([]int64, len(h.vars))}
	for i := range h.vars {
		f.offset[i] = pos
		pos += h.vars[i].csize
	}
	return f, nil
}

// Get reads, inflates and decodes the full data array of the named
// variable.
func (f *File) Get(name string) (interface{}, error) {
	for i := range f.Header.vars {
		vv := &f.Header.vars[i]
		if vv.name != name {
			continue
		}
		if _, err := f.r.Seek(f.offset[i], io.SeekStart); err != nil {
			return nil, err
		}
		zr, err := zlib.NewReader(io.LimitReader(f.r, vv.csize))
		if err != nil {
			return nil, fmt.Errorf("ncz: Get %s: %v", name, err)
		}
		raw := make([]byte, vv.usize)
		if _, err := io.ReadFull(zr, raw); err != nil {
			return nil, fmt.Errorf("ncz: Get %s: %v", name, err)
		}
		zr.Close()
		if vv.shuffle {
			raw = unshuffle(raw, vv.dtype.size())
		}
		return decode(raw, vv.dtype, f.Header.varLen(vv))
	}
	return nil, fmt.Errorf("ncz: Get %s: no such variable", name)
}

func readHeader(r io.Reader) (*Header, error) {
	h := &Header{defined: true}
	ndim, err := readCount(r)
	if err != nil {
		return nil, err
	}
	for i := 0; i < ndim; i++ {
		var d dimension
		if d.name, err = readString(r); err != nil {
			return nil, err
		}
		var v [2]int32
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, err
		}
		d.length, d.unlimited = v[0], v[1] != 0
		h.dim = append(h.dim, d)
	}
	if h.att, err = readAttrs(r); err != nil {
		return nil, err
	}
	nvars, err := readCount(r)
	if err != nil {
		return nil, err
	}
	for i := 0; i < nvars; i++ {
		var vv variable
		if vv.name, err = readString(r); err != nil {
			return nil, err
		}
		nd, err := readCount(r)
		if err != nil {
			return nil, err
		}
		vv.dim = make([]int32, nd)
		if err := binary.Read(r, binary.BigEndian, vv.dim); err != nil {
			return nil, err
		}
		for _, d := range vv.dim {
			if int(d) >= len(h.dim) {
				return nil, fmt.Errorf("ncz: variable %s references undefined dimension %d", vv.name, d)
			}
		}
		if vv.att, err = readAttrs(r); err != nil {
			return nil, err
		}
		var v [4]int32
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, err
		}
		vv.dtype = DataType(v[0])
		if !vv.dtype.valid() {
			return nil, fmt.Errorf("ncz: variable %s has invalid data type %d", vv.name, v[0])
		}
		vv.level, vv.shuffle, vv.digits = v[1], v[2] != 0, v[3]
		var sz [2]int64
		if err := binary.Read(r, binary.BigEndian, &sz); err != nil {
			return nil, err
		}
		vv.usize, vv.csize = sz[0], sz[1]
		h.vars = append(h.vars, vv)
	}
	return h, nil
}

func readAttrs(r io.Reader) ([]attribute, error) {
	n, err := readCount(r)
	if err != nil {
		return nil, err
	}
	var atts []attribute
	for i := 0; i < n; i++ {
		var a attribute
		if a.name, err = readString(r); err != nil {
			return nil, err
		}
		var dt int32
		if err := binary.Read(r, binary.BigEndian, &dt); err != nil {
			return nil, err
		}
		a.dtype = DataType(dt)
		if !a.dtype.valid() {
			return nil, fmt.Errorf("ncz: attribute %s has invalid data type %d", a.name, dt)
		}
		if a.dtype == CHAR {
			s, err := readString(r)
			if err != nil {
				return nil, err
			}
			a.values = s
		} else {
			nelems, err := readCount(r)
			if err != nil {
				return nil, err
			}
			vals := a.dtype.Zero(nelems)
			if err := binary.Read(r, binary.BigEndian, vals); err != nil {
				return nil, err
			}
			a.values = vals
		}
		atts = append(atts, a)
	}
	return atts, nil
}

func readCount(r io.Reader) (int, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("ncz: negative count %d in header", n)
	}
	return int(n), nil
}

func readString(r io.Reader) (string, error) {
	n, err := readCount(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

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

// This file contains the writer. Blocks are compressed as they are Put
// and held in memory; Close serializes the header (which records the
// compressed block sizes) followed by the blocks.

package ncz

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// A Writer builds an ncz container on an io.Writer.
type Writer struct {
	w      io.Writer
	h      *Header
	blocks [][]byte
	closed bool
}

// Create prepares a writer for the defined header h. Nothing is written
// until Close.
func Create(w io.Writer, h *Header) (*Writer, error) {
	if !h.defined {
		return nil, fmt.Errorf("ncz: Create called with an undefined header")
	}
	return &Writer{w: w, h: h, blocks: make([][]byte, len(h.vars))}, nil
}

// Header returns the writer's header.
func (f *Writer) Header() *Header { return f.h }

// Put stores the full data array for the named variable, applying the
// variable's quantization, shuffle and deflate settings. values must be
// the variable's carrier type and cover the variable exactly.
func (f *Writer) Put(name string, values interface{}) error {
	vv := f.h.varByName(name)
	if vv == nil {
		return fmt.Errorf("ncz: Put to undefined variable %s", name)
	}
	if dt := typeOf(values); dt != vv.dtype {
		return fmt.Errorf("ncz: Put %s: value type %s does not match variable type %s", name, dt, vv.dtype)
	}
	if n := valueLen(values); n != f.h.varLen(vv) {
		return fmt.Errorf("ncz: Put %s: got %d elements, want %d", name, n, f.h.varLen(vv))
	}
	if vv.digits >= 0 {
		// Quantize a copy so the caller's array is left intact.
		switch v := values.(type) {
		case []float32:
			values = quantize(append([]float32(nil), v...), int(vv.digits))
		case []float64:
			values = quantize(append([]float64(nil), v...), int(vv.digits))
		}
	}
	raw, err := encode(values)
	if err != nil {
		return fmt.Errorf("ncz: Put %s: %v", name, err)
	}
	if vv.shuffle {
		raw = shuffle(raw, vv.dtype.size())
	}
	block, err := deflate(raw, int(vv.level))
	if err != nil {
		return fmt.Errorf("ncz: Put %s: %v", name, err)
	}
	for j := range f.h.vars {
		if f.h.vars[j].name == name {
			f.blocks[j] = block
			f.h.vars[j].csize = int64(len(block))
			break
		}
	}
	return nil
}

// Close writes the container. Variables that were never Put are stored
// filled with their fill value.
func (f *Writer) Close() error {
	if f.closed {
		return fmt.Errorf("ncz: writer already closed")
	}
	f.closed = true
	for i := range f.h.vars {
		if f.blocks[i] != nil {
			continue
		}
		vv := &f.h.vars[i]
		if err := f.Put(vv.name, fillCarrier(vv.dtype, f.h.varLen(vv))); err != nil {
			return err
		}
	}
	if _, err := f.w.Write(Magic[:]); err != nil {
		return err
	}
	if err := f.h.write(f.w); err != nil {
		return err
	}
	for _, b := range f.blocks {
		if _, err := f.w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// fillCarrier returns a carrier of type dt with n elements, every one set
// to the type's canonical fill value.
func fillCarrier(dt DataType, n int) interface{} {
	switch dt {
	case BYTE:
		v := make([]uint8, n)
		for i := range v {
			v[i] = dt.FillValue().(uint8)
		}
		return v
	case CHAR:
		return string(make([]byte, n))
	case SHORT:
		v := make([]int16, n)
		for i := range v {
			v[i] = dt.FillValue().(int16)
		}
		return v
	case INT:
		v := make([]int32, n)
		for i := range v {
			v[i] = dt.FillValue().(int32)
		}
		return v
	case FLOAT:
		v := make([]float32, n)
		for i := range v {
			v[i] = dt.FillValue().(float32)
		}
		return v
	case DOUBLE:
		v := make([]float64, n)
		for i := range v {
			v[i] = dt.FillValue().(float64)
		}
		return v
	}
	return nil
}

func deflate(raw []byte, level int) ([]byte, error) {
	var buf writeBuffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.b, nil
}

type writeBuffer struct{ b []byte }

func (w *writeBuffer) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

// write serializes the header in big-endian form.
func (h *Header) write(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(h.dim))); err != nil {
		return err
	}
	for i := range h.dim {
		d := &h.dim[i]
		if err := writeString(w, d.name); err != nil {
			return err
		}
		unlim := int32(0)
		if d.unlimited {
			unlim = 1
		}
		if err := binary.Write(w, binary.BigEndian, []int32{d.length, unlim}); err != nil {
			return err
		}
	}
	if err := writeAttrs(w, h.att); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int32(len(h.vars))); err != nil {
		return err
	}
	for i := range h.vars {
		v := &h.vars[i]
		if err := writeString(w, v.name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, int32(len(v.dim))); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, v.dim); err != nil {
			return err
		}
		if err := writeAttrs(w, v.att); err != nil {
			return err
		}
		shuf := int32(0)
		if v.shuffle {
			shuf = 1
		}
		if err := binary.Write(w, binary.BigEndian, []int32{int32(v.dtype), v.level, shuf, v.digits}); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, []int64{v.usize, v.csize}); err != nil {
			return err
		}
	}
	return nil
}

func writeAttrs(w io.Writer, atts []attribute) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(atts))); err != nil {
		return err
	}
	for i := range atts {
		a := &atts[i]
		if err := writeString(w, a.name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, int32(a.dtype)); err != nil {
			return err
		}
		if a.dtype == CHAR {
			if err := writeString(w, a.values.(string)); err != nil {
				return err
			}
			continue
		}
		if err := binary.Write(w, binary.BigEndian, int32(valueLen(a.values))); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, a.values); err != nil {
			return err
		}
	}
	return nil
}

// writeString encodes a length-prefixed string.
func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

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

// This file contains the in-memory header model shared by the reader
// and the writer.

package ncz

import (
	"fmt"
)

// Magic identifies an ncz container; the fourth byte is the format version.
var Magic = [4]byte{'C', 'D', 'Z', 1}

// A DataType identifies the element type of an attribute or variable.
type DataType int32

const (
	BYTE DataType = iota + 1
	CHAR
	SHORT
	INT
	FLOAT
	DOUBLE
)

var (
	dtNames = [...]string{"", "BYTE", "CHAR", "SHORT", "INT", "FLOAT", "DOUBLE"}
	dtSizes = [...]int{0, 1, 1, 2, 4, 4, 8}
)

func (d DataType) valid() bool { return d >= BYTE && d <= DOUBLE }

func (d DataType) String() string {
	if d.valid() {
		return dtNames[d]
	}
	return fmt.Sprintf("<%d>", int32(d))
}

// size returns the number of bytes occupied by one element.
func (d DataType) size() int {
	if d.valid() {
		return dtSizes[d]
	}
	return 0
}

// Zero returns a zeroed value of the type used to carry data of type d:
// a slice of length n, except for CHAR which is carried as a string.
func (d DataType) Zero(n int) interface{} {
	switch d {
	case BYTE:
		return make([]uint8, n)
	case CHAR:
		return ""
	case SHORT:
		return make([]int16, n)
	case INT:
		return make([]int32, n)
	case FLOAT:
		return make([]float32, n)
	case DOUBLE:
		return make([]float64, n)
	}
	return nil
}

// FillValue returns the canonical fill value for the data type, matching
// the NetCDF default fill values.
func (d DataType) FillValue() interface{} {
	switch d {
	case BYTE:
		return uint8(0x81) // -127 as a signed byte
	case CHAR:
		return uint8(0)
	case SHORT:
		return int16(-32767)
	case INT:
		return int32(-2147483647)
	case FLOAT:
		return float32(9.9692099683868690e+36)
	case DOUBLE:
		return float64(9.9692099683868690e+36)
	}
	return nil
}

// TypeOf maps the dynamic type of a value to its DataType, or 0 if the
// type is not one of the six supported carriers.
func TypeOf(val interface{}) DataType { return typeOf(val) }

func typeOf(val interface{}) DataType {
	switch val.(type) {
	case []uint8:
		return BYTE
	case string:
		return CHAR
	case []int16:
		return SHORT
	case []int32:
		return INT
	case []float32:
		return FLOAT
	case []float64:
		return DOUBLE
	}
	return 0
}

// valueLen returns the element count of an attribute or data value.
func valueLen(val interface{}) int {
	switch v := val.(type) {
	case []uint8:
		return len(v)
	case string:
		return len(v)
	case []int16:
		return len(v)
	case []int32:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	}
	return 0
}

type dimension struct {
	name      string
	length    int32
	unlimited bool
}

type attribute struct {
	name   string
	dtype  DataType
	values interface{}
}

type variable struct {
	name    string
	dim     []int32 // indices into Header.dim
	att     []attribute
	dtype   DataType
	level   int32 // deflate level, 0-9
	shuffle bool
	digits  int32 // significant decimal digits; -1 means lossless

	usize int64 // uncompressed data size in bytes
	csize int64 // compressed block size in bytes
}

// A Header describes the dimensions, attributes and variables of an ncz
// container. A header built with NewHeader is mutable until Define is
// called; headers obtained from Open are always defined.
type Header struct {
	defined bool
	dim     []dimension
	att     []attribute
	vars    []variable
}

// NewHeader constructs a mutable header with the given dimensions.
// A negative length marks the dimension as unlimited, with the actual
// length being its absolute value; at most one dimension may be
// unlimited. Invalid or repeated dimensions cause a panic.
func NewHeader(dims []string, lengths []int) *Header {
	if len(dims) != len(lengths) {
		panic("ncz: dims and lengths must have equal length")
	}
	h := new(Header)
	unlim := false
	for i, name := range dims {
		if name == "" || h.dimByName(name) >= 0 {
			panic("ncz: invalid or repeated dimension " + name)
		}
		n := lengths[i]
		u := false
		if n < 0 {
			if unlim {
				panic("ncz: more than one unlimited dimension")
			}
			unlim = true
			u = true
			n = -n
		}
		h.dim = append(h.dim, dimension{name: name, length: int32(n), unlimited: u})
	}
	return h
}

func (h *Header) dimByName(name string) int {
	for i := range h.dim {
		if h.dim[i].name == name {
			return i
		}
	}
	return -1
}

func (h *Header) varByName(name string) *variable {
	for i := range h.vars {
		if h.vars[i].name == name {
			return &h.vars[i]
		}
	}
	return nil
}

func (h *Header) attrByName(v, a string) *attribute {
	att := &h.att
	if v != "" {
		vv := h.varByName(v)
		if vv == nil {
			return nil
		}
		att = &vv.att
	}
	for i := range *att {
		if (*att)[i].name == a {
			return &(*att)[i]
		}
	}
	return nil
}

// AddVariable declares a variable with the given dimensions. val is a
// typed exemplar (e.g. []float32{0}) determining the data type. The
// variable defaults to lossless storage with no compression.
func (h *Header) AddVariable(name string, dims []string, val interface{}) {
	if h.defined {
		panic("ncz: AddVariable on a defined header")
	}
	if name == "" || h.varByName(name) != nil {
		panic("ncz: invalid or repeated variable " + name)
	}
	dt := typeOf(val)
	if !dt.valid() {
		panic(fmt.Sprintf("ncz: unsupported value type %T for variable %s", val, name))
	}
	idx := make([]int32, len(dims))
	for i, d := range dims {
		j := h.dimByName(d)
		if j < 0 {
			panic("ncz: undefined dimension " + d + " for variable " + name)
		}
		idx[i] = int32(j)
	}
	h.vars = append(h.vars, variable{name: name, dim: idx, dtype: dt, digits: -1})
}

// AddAttribute attaches an attribute to the variable named v, or to the
// container itself if v is empty.
func (h *Header) AddAttribute(v, a string, val interface{}) {
	if h.defined {
		panic("ncz: AddAttribute on a defined header")
	}
	dt := typeOf(val)
	if !dt.valid() {
		panic(fmt.Sprintf("ncz: unsupported attribute type %T for %s:%s", val, v, a))
	}
	att := attribute{name: a, dtype: dt, values: val}
	if v == "" {
		h.att = append(h.att, att)
		return
	}
	vv := h.varByName(v)
	if vv == nil {
		panic("ncz: AddAttribute for undefined variable " + v)
	}
	vv.att = append(vv.att, att)
}

// SetDeflate sets the deflate level (0-9) and the shuffle filter for a
// declared variable.
func (h *Header) SetDeflate(v string, level int, shuffle bool) {
	if h.defined {
		panic("ncz: SetDeflate on a defined header")
	}
	if level < 0 || level > 9 {
		panic(fmt.Sprintf("ncz: deflate level %d out of range", level))
	}
	vv := h.varByName(v)
	if vv == nil {
		panic("ncz: SetDeflate for undefined variable " + v)
	}
	vv.level = int32(level)
	vv.shuffle = shuffle
}

// SetDigits requests decimal quantization for a declared floating-point
// variable: values will be rounded to the given number of significant
// decimal digits when written.
func (h *Header) SetDigits(v string, digits int) {
	if h.defined {
		panic("ncz: SetDigits on a defined header")
	}
	if digits < 0 {
		panic("ncz: negative digits")
	}
	vv := h.varByName(v)
	if vv == nil {
		panic("ncz: SetDigits for undefined variable " + v)
	}
	if vv.dtype != FLOAT && vv.dtype != DOUBLE {
		panic("ncz: SetDigits on non-floating-point variable " + v)
	}
	vv.digits = int32(digits)
}

// Define freezes the header. Quantized variables that do not already
// carry a least_significant_digit attribute get one recording the digit
// count.
func (h *Header) Define() {
	if h.defined {
		panic("ncz: header already defined")
	}
	for i := range h.vars {
		vv := &h.vars[i]
		if vv.digits >= 0 && h.attrByName(vv.name, "least_significant_digit") == nil {
			vv.att = append(vv.att, attribute{
				name:   "least_significant_digit",
				dtype:  INT,
				values: []int32{vv.digits},
			})
		}
		vv.usize = int64(vv.dtype.size()) * int64(h.varLen(vv))
	}
	h.defined = true
}

// varLen returns the element count of a variable.
func (h *Header) varLen(vv *variable) int {
	n := 1
	for _, d := range vv.dim {
		n *= int(h.dim[d].length)
	}
	return n
}

// Dimensions returns the dimension names of variable v, or all dimension
// names if v is empty, or nil if v is not a variable.
func (h *Header) Dimensions(v string) []string {
	if v == "" {
		r := make([]string, len(h.dim))
		for i := range h.dim {
			r[i] = h.dim[i].name
		}
		return r
	}
	vv := h.varByName(v)
	if vv == nil {
		return nil
	}
	r := make([]string, len(vv.dim))
	for i, d := range vv.dim {
		r[i] = h.dim[d].name
	}
	return r
}

// Lengths returns the dimension lengths of variable v, or of all
// dimensions if v is empty, or nil if v is not a variable.
func (h *Header) Lengths(v string) []int {
	if v == "" {
		r := make([]int, len(h.dim))
		for i := range h.dim {
			r[i] = int(h.dim[i].length)
		}
		return r
	}
	vv := h.varByName(v)
	if vv == nil {
		return nil
	}
	r := make([]int, len(vv.dim))
	for i, d := range vv.dim {
		r[i] = int(h.dim[d].length)
	}
	return r
}

// Unlimited reports whether the named dimension exists and is unlimited.
func (h *Header) Unlimited(dim string) bool {
	i := h.dimByName(dim)
	return i >= 0 && h.dim[i].unlimited
}

// Variables returns the names of all variables in declaration order.
func (h *Header) Variables() []string {
	r := make([]string, len(h.vars))
	for i := range h.vars {
		r[i] = h.vars[i].name
	}
	return r
}

// Type returns the data type of variable v, or 0 if v is not a variable.
func (h *Header) Type(v string) DataType {
	vv := h.varByName(v)
	if vv == nil {
		return 0
	}
	return vv.dtype
}

// Digits returns the significant-digit setting of variable v, or -1 if
// the variable is stored losslessly or does not exist.
func (h *Header) Digits(v string) int {
	vv := h.varByName(v)
	if vv == nil {
		return -1
	}
	return int(vv.digits)
}

// Attributes returns the attribute names of variable v, or the global
// attribute names if v is empty.
func (h *Header) Attributes(v string) []string {
	att := &h.att
	if v != "" {
		vv := h.varByName(v)
		if vv == nil {
			return nil
		}
		att = &vv.att
	}
	r := make([]string, len(*att))
	for i := range *att {
		r[i] = (*att)[i].name
	}
	return r
}

// GetAttribute returns the value of attribute a of variable v, or of the
// global attribute a if v is empty. The returned value is shared and
// must not be modified.
func (h *Header) GetAttribute(v, a string) interface{} {
	att := h.attrByName(v, a)
	if att == nil {
		return nil
	}
	return att.values
}

// ZeroValue returns a zeroed carrier of the type of variable v with n
// elements, or nil if v is not a variable.
func (h *Header) ZeroValue(v string, n int) interface{} {
	vv := h.varByName(v)
	if vv == nil {
		return nil
	}
	return vv.dtype.Zero(n)
}

// FillValue returns the fill value for variable v: its scalar _FillValue
// attribute if one of the matching type exists, otherwise the type's
// canonical fill value.
func (h *Header) FillValue(v string) interface{} {
	vv := h.varByName(v)
	if vv == nil {
		return nil
	}
	if att := h.attrByName(v, "_FillValue"); att != nil && att.dtype == vv.dtype && valueLen(att.values) == 1 {
		switch av := att.values.(type) {
		case []uint8:
			return av[0]
		case string:
			return av[0]
		case []int16:
			return av[0]
		case []int32:
			return av[0]
		case []float32:
			return av[0]
		case []float64:
			return av[0]
		}
	}
	return vv.dtype.FillValue()
}

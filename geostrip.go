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

// Package geostrip transcodes legacy satellite granule files into a
// reduced variant: a cadence-dependent subset of variables is kept, each
// is recompressed with the shuffle filter, and variables with a
// precision entry are quantized to their scientifically meaningful
// number of significant decimal digits. The output is built in a scratch
// directory and published to its final path only once complete.
package geostrip

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/ojonasson/geo-legacy-strip/internal/ncgrid"
	"github.com/ojonasson/geo-legacy-strip/internal/ncz"
)

// Version gives the version number of this version of geostrip.
const Version = "1.2.0"

// DefaultCompressionLevel is the deflate level used when the caller does
// not choose one.
const DefaultCompressionLevel = 5

// Options control a single Strip invocation. DefaultOptions selects the
// default compression level, overwrite-in-place output and the package
// default schema and precision tables.
type Options struct {
	// CompressionLevel is the deflate level; it must be within [0, 9].
	CompressionLevel int
	// OutputDir receives the output under the input's base name;
	// empty means overwrite the input in place.
	OutputDir string
	// Precision overrides DefaultPrecision when non-nil.
	Precision map[string]int
	// HourlySchema overrides DefaultHourlySchema when non-nil.
	HourlySchema []string
	// NonHourlySchema overrides DefaultNonHourlySchema when non-nil.
	NonHourlySchema []string
}

// DefaultOptions returns Options with the default compression level and
// all tables at their package defaults.
func DefaultOptions() Options {
	return Options{CompressionLevel: DefaultCompressionLevel}
}

// A NotFoundError reports an input path that is not an existing file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("geostrip: file %q does not exist", e.Path)
}

// A CompressionLevelError reports a deflate level outside [0, 9].
type CompressionLevelError struct {
	Level int
}

func (e *CompressionLevelError) Error() string {
	return fmt.Sprintf("geostrip: invalid compression level %d; must be within [0, 9]", e.Level)
}

// A MissingVariableError reports a schema-selected variable that the
// source container does not have.
type MissingVariableError struct {
	File     string
	Variable string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("geostrip: file %q is missing variable %q", e.File, e.Variable)
}

// Strip transcodes one granule. The granule's cadence, derived from its
// file name, selects the retained variable set; each retained variable
// is written shuffled and deflated at o.CompressionLevel, quantized per
// the precision table. The output replaces the input in place unless
// o.OutputDir is set. Any failure leaves the final path untouched.
func Strip(path string, o Options) error {
	name := filepath.Base(path)

	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return &NotFoundError{Path: path}
	}
	tokens, err := ParseName(name)
	if err != nil {
		return err
	}
	level := o.CompressionLevel
	if level < 0 || level > 9 {
		return &CompressionLevelError{Level: level}
	}
	precision := o.Precision
	if precision == nil {
		precision = DefaultPrecision
	}
	layers := SelectSchema(tokens.IsHourly(), o.HourlySchema, o.NonHourlySchema)

	final := path
	if o.OutputDir != "" {
		final = filepath.Join(o.OutputDir, name)
	}
	return publish(name, final, func(scratch string) error {
		return assemble(path, scratch, layers, precision, level)
	})
}

// assemble builds the complete output container at dstPath: all source
// dimensions and global attributes replicated, and exactly the layers
// variables transcoded, in order. Failure is all-or-nothing; a missing
// variable aborts before anything is written.
func assemble(srcPath, dstPath string, layers []string, precision map[string]int, level int) error {
	src, err := ncgrid.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	name := filepath.Base(srcPath)

	// Materialize every retained variable before creating any output,
	// so a missing one costs nothing.
	vars := make([]*ncgrid.Variable, len(layers))
	for i, layer := range layers {
		v, err := src.Read(layer)
		if errors.Is(err, ncgrid.ErrNoVariable) {
			return &MissingVariableError{File: name, Variable: layer}
		}
		if err != nil {
			return err
		}
		vars[i] = v
	}

	dims := src.Dimensions()
	dimNames := make([]string, len(dims))
	dimLengths := make([]int, len(dims))
	for i, d := range dims {
		dimNames[i] = d.Name
		dimLengths[i] = d.Length
		if d.Unlimited {
			dimLengths[i] = -d.Length
		}
	}
	h := ncz.NewHeader(dimNames, dimLengths)
	for _, a := range src.Attributes() {
		h.AddAttribute("", a.Name, a.Value)
	}
	for _, v := range vars {
		transcodeDeclare(h, v, precision, level)
	}
	h.Define()

	ff, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("geostrip: creating %s: %v", dstPath, err)
	}
	defer ff.Close()
	w, err := ncz.Create(ff, h)
	if err != nil {
		return err
	}
	for _, v := range vars {
		if err := w.Put(v.Name, normalizeFill(v)); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("geostrip: writing %s: %v", dstPath, err)
	}
	return ff.Close()
}

// transcodeDeclare declares one output variable: same data type and
// dimension order as the source, shuffled deflate at the requested
// level, quantization when the precision table lists the variable, and a
// verbatim copy of its attributes.
func transcodeDeclare(h *ncz.Header, v *ncgrid.Variable, precision map[string]int, level int) {
	h.AddVariable(v.Name, v.Dims, v.Values)
	h.SetDeflate(v.Name, level, true)
	if digits, ok := precision[v.Name]; ok {
		dt := ncz.TypeOf(v.Values)
		if dt == ncz.FLOAT || dt == ncz.DOUBLE {
			h.SetDigits(v.Name, digits)
		}
	}
	for _, a := range v.Attrs {
		h.AddAttribute(v.Name, a.Name, a.Value)
	}
}

// normalizeFill replaces sentinel-marked cells with a canonical
// representation: NaN for 32-bit floats, the data type's fill value
// otherwise. The output variable does not inherit the source's mask
// configuration, so masked cells must not survive as ordinary values.
func normalizeFill(v *ncgrid.Variable) interface{} {
	if v.Mask == nil {
		return v.Values
	}
	switch values := v.Values.(type) {
	case []float32:
		out := append([]float32(nil), values...)
		for i, m := range v.Mask {
			if m {
				out[i] = float32(math.NaN())
			}
		}
		return out
	case []float64:
		out := append([]float64(nil), values...)
		fill := ncz.DOUBLE.FillValue().(float64)
		for i, m := range v.Mask {
			if m {
				out[i] = fill
			}
		}
		return out
	case []uint8:
		out := append([]uint8(nil), values...)
		fill := ncz.BYTE.FillValue().(uint8)
		for i, m := range v.Mask {
			if m {
				out[i] = fill
			}
		}
		return out
	case []int16:
		out := append([]int16(nil), values...)
		fill := ncz.SHORT.FillValue().(int16)
		for i, m := range v.Mask {
			if m {
				out[i] = fill
			}
		}
		return out
	case []int32:
		out := append([]int32(nil), values...)
		fill := ncz.INT.FillValue().(int32)
		for i, m := range v.Mask {
			if m {
				out[i] = fill
			}
		}
		return out
	}
	return v.Values
}

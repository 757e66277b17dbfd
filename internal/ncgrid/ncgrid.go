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

// Package ncgrid presents gridded-array containers of the three supported
// flavors (NetCDF classic, NetCDF4/HDF5 and ncz) through one read-side
// interface: dimensions, global attributes and dense variable arrays with
// an optional sentinel mask.
package ncgrid

import (
	"errors"
	"fmt"
	"os"
)

// ErrNoVariable is wrapped by Source.Read when the requested variable is
// not present in the container.
var ErrNoVariable = errors.New("no such variable")

// A Dimension is a named axis shared by the variables of a container.
type Dimension struct {
	Name      string
	Length    int
	Unlimited bool
}

// An Attribute is a name/value pair. Value is one of []uint8, string,
// []int16, []int32, []float32 or []float64.
type Attribute struct {
	Name  string
	Value interface{}
}

// A Variable is a fully materialized view of one container variable.
// Values is a flat carrier in row-major order; its dynamic type encodes
// the data type. Mask, when non-nil, marks cells whose stored value is
// the variable's missing-data sentinel.
type Variable struct {
	Name   string
	Dims   []string
	Attrs  []Attribute
	Values interface{}
	Mask   []bool
}

// A Source is an open container being read.
type Source interface {
	// Dimensions lists every dimension in the container.
	Dimensions() []Dimension
	// Attributes lists the global attributes.
	Attributes() []Attribute
	// Read materializes the named variable, or fails with an error
	// wrapping ErrNoVariable if the container does not have it.
	Read(name string) (*Variable, error)
	Close() error
}

// Open sniffs the container format from the leading magic bytes and
// returns the matching Source.
func Open(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var magic [4]byte
	if _, err := f.ReadAt(magic[:], 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("ncgrid: reading %s: %v", path, err)
	}
	switch {
	case magic[0] == 'C' && magic[1] == 'D' && magic[2] == 'F':
		return openCDF(f)
	case magic[0] == 'C' && magic[1] == 'D' && magic[2] == 'Z':
		return openNCZ(f)
	case magic == [4]byte{0x89, 'H', 'D', 'F'}:
		f.Close()
		return openH5(path)
	}
	f.Close()
	return nil, fmt.Errorf("ncgrid: %s: unrecognized container format", path)
}

// maskOf derives the sentinel mask for values from the variable's
// _FillValue or missing_value attribute. It returns nil when no sentinel
// attribute of the variable's own type is present or no cell matches.
func maskOf(values interface{}, attrs []Attribute) []bool {
	var sentinel interface{}
	for _, name := range []string{"_FillValue", "missing_value"} {
		for _, a := range attrs {
			if a.Name == name {
				sentinel = a.Value
			}
		}
		if sentinel != nil {
			break
		}
	}
	if sentinel == nil {
		return nil
	}
	var mask []bool
	any := false
	switch v := values.(type) {
	case []uint8:
		s, ok := sentinel.([]uint8)
		if !ok || len(s) != 1 {
			return nil
		}
		mask = make([]bool, len(v))
		for i := range v {
			if v[i] == s[0] {
				mask[i], any = true, true
			}
		}
	case []int16:
		s, ok := sentinel.([]int16)
		if !ok || len(s) != 1 {
			return nil
		}
		mask = make([]bool, len(v))
		for i := range v {
			if v[i] == s[0] {
				mask[i], any = true, true
			}
		}
	case []int32:
		s, ok := sentinel.([]int32)
		if !ok || len(s) != 1 {
			return nil
		}
		mask = make([]bool, len(v))
		for i := range v {
			if v[i] == s[0] {
				mask[i], any = true, true
			}
		}
	case []float32:
		s, ok := sentinel.([]float32)
		if !ok || len(s) != 1 {
			return nil
		}
		mask = make([]bool, len(v))
		for i := range v {
			if v[i] == s[0] {
				mask[i], any = true, true
			}
		}
	case []float64:
		s, ok := sentinel.([]float64)
		if !ok || len(s) != 1 {
			return nil
		}
		mask = make([]bool, len(v))
		for i := range v {
			if v[i] == s[0] {
				mask[i], any = true, true
			}
		}
	default:
		return nil
	}
	if !any {
		return nil
	}
	return mask
}

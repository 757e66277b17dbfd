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

// This file contains the NetCDF4/HDF5 adapter, backed by
// github.com/batchatco/go-native-netcdf. That library's api.Group does
// not report dimension sizes or unlimited markers, so dimension lengths
// are recovered from the variable shapes (one record per GetSlice plus
// the total length) and no dimension is marked unlimited.

package ncgrid

import (
	"fmt"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

type h5Source struct {
	path string
	nc   api.Group
	dims []Dimension
}

func openH5(path string) (Source, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ncgrid: opening %s: %v", path, err)
	}
	s := &h5Source{path: path, nc: nc}
	if err := s.scanDimensions(); err != nil {
		nc.Close()
		return nil, err
	}
	return s, nil
}

// scanDimensions recovers each dimension's length from the shape of the
// first variable using it.
func (s *h5Source) scanDimensions() error {
	seen := map[string]int{}
	for _, name := range s.nc.ListVariables() {
		vg, err := s.nc.GetVarGetter(name)
		if err != nil {
			return fmt.Errorf("ncgrid: %s: variable %s: %v", s.path, name, err)
		}
		dims := vg.Dimensions()
		if len(dims) == 0 {
			continue
		}
		lengths, err := shapeOf(vg)
		if err != nil {
			return fmt.Errorf("ncgrid: %s: variable %s: %v", s.path, name, err)
		}
		if len(lengths) != len(dims) {
			return fmt.Errorf("ncgrid: %s: variable %s: %d dimensions but rank %d", s.path, name, len(dims), len(lengths))
		}
		for i, d := range dims {
			if l, ok := seen[d]; ok {
				if l != lengths[i] {
					return fmt.Errorf("ncgrid: %s: dimension %s has conflicting lengths %d and %d", s.path, d, l, lengths[i])
				}
				continue
			}
			seen[d] = lengths[i]
			s.dims = append(s.dims, Dimension{Name: d, Length: lengths[i]})
		}
	}
	return nil
}

// shapeOf determines a variable's shape from one record plus the total
// element count, without materializing the whole array.
func shapeOf(vg api.VarGetter) ([]int, error) {
	one, err := vg.GetSlice(0, 1)
	if err != nil {
		return nil, err
	}
	inner := []int{}
	v := reflect.ValueOf(one)
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("unexpected value of type %T", one)
	}
	v = v.Index(0) // drop the record axis
	for v.Kind() == reflect.Slice {
		inner = append(inner, v.Len())
		if v.Len() == 0 {
			break
		}
		v = v.Index(0)
	}
	n := 1
	for _, l := range inner {
		n *= l
	}
	if n == 0 {
		return append([]int{0}, inner...), nil
	}
	return append([]int{int(vg.Len()) / n}, inner...), nil
}

func (s *h5Source) Dimensions() []Dimension { return s.dims }

func (s *h5Source) Attributes() []Attribute {
	return attributesOf(s.nc.Attributes())
}

func attributesOf(am api.AttributeMap) []Attribute {
	var atts []Attribute
	for _, name := range am.Keys() {
		v, has := am.Get(name)
		if !has {
			continue
		}
		nv := normalizeAttr(v)
		if nv == nil {
			// Attribute types outside the classic model (compound,
			// 64-bit ints out of range) cannot be carried.
			continue
		}
		atts = append(atts, Attribute{Name: name, Value: nv})
	}
	return atts
}

// normalizeAttr coerces an attribute value into one of the six carrier
// types, or returns nil if it cannot be represented.
func normalizeAttr(v interface{}) interface{} {
	switch a := v.(type) {
	case string:
		return a
	case []uint8:
		return a
	case uint8:
		return []uint8{a}
	case int8:
		return []uint8{uint8(a)}
	case []int8:
		out := make([]uint8, len(a))
		for i, x := range a {
			out[i] = uint8(x)
		}
		return out
	case int16:
		return []int16{a}
	case []int16:
		return a
	case int32:
		return []int32{a}
	case []int32:
		return a
	case int64:
		if int64(int32(a)) != a {
			return nil
		}
		return []int32{int32(a)}
	case []int64:
		out := make([]int32, len(a))
		for i, x := range a {
			if int64(int32(x)) != x {
				return nil
			}
			out[i] = int32(x)
		}
		return out
	case float32:
		return []float32{a}
	case []float32:
		return a
	case float64:
		return []float64{a}
	case []float64:
		return a
	}
	return nil
}

func (s *h5Source) Read(name string) (*Variable, error) {
	found := false
	for _, v := range s.nc.ListVariables() {
		if v == name {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("ncgrid: %s: %w", name, ErrNoVariable)
	}
	nv, err := s.nc.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("ncgrid: reading variable %s: %v", name, err)
	}
	values, err := flatten(nv.Values)
	if err != nil {
		return nil, fmt.Errorf("ncgrid: variable %s: %v", name, err)
	}
	attrs := attributesOf(nv.Attributes)
	return &Variable{
		Name:   name,
		Dims:   nv.Dimensions,
		Attrs:  attrs,
		Values: values,
		Mask:   maskOf(values, attrs),
	}, nil
}

// flatten converts a possibly nested slice into a flat row-major carrier.
func flatten(v interface{}) (interface{}, error) {
	switch a := v.(type) {
	case string:
		return a, nil
	case []uint8:
		return a, nil
	case []int16:
		return a, nil
	case []int32:
		return a, nil
	case []float32:
		return a, nil
	case []float64:
		return a, nil
	case []int8:
		out := make([]uint8, len(a))
		for i, x := range a {
			out[i] = uint8(x)
		}
		return out, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		// Scalar variable.
		if f := normalizeAttr(v); f != nil {
			return f, nil
		}
		return nil, fmt.Errorf("unsupported data type %T", v)
	}
	if rv.Type().Elem().Kind() != reflect.Slice && rv.Type().Elem().Kind() != reflect.String {
		// A flat slice that the switch above did not accept.
		return nil, fmt.Errorf("unsupported data type %T", v)
	}
	var out interface{}
	for i := 0; i < rv.Len(); i++ {
		leaf, err := flatten(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out = appendCarrier(out, leaf)
	}
	if out == nil {
		return nil, fmt.Errorf("empty variable of type %T", v)
	}
	return out, nil
}

func appendCarrier(dst, src interface{}) interface{} {
	if dst == nil {
		return src
	}
	switch d := dst.(type) {
	case []uint8:
		return append(d, src.([]uint8)...)
	case string:
		return d + src.(string)
	case []int16:
		return append(d, src.([]int16)...)
	case []int32:
		return append(d, src.([]int32)...)
	case []float32:
		return append(d, src.([]float32)...)
	case []float64:
		return append(d, src.([]float64)...)
	}
	return dst
}

func (s *h5Source) Close() error {
	s.nc.Close()
	return nil
}

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

package ncgrid

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/cdf"

	"github.com/ojonasson/geo-legacy-strip/internal/ncz"
)

// writeClassicFixture builds a small classic NetCDF file with one record
// variable, one fixed variable with a fill sentinel, and a global
// attribute.
func writeClassicFixture(t *testing.T, path string) {
	t.Helper()
	h := cdf.NewHeader([]string{"time", "scan", "pixel"}, []int{0, 2, 3})
	h.AddAttribute("", "platform", "G16")
	h.AddVariable("pixel_line_time", []string{"time"}, []float64{0})
	h.AddVariable("sst_regression", []string{"scan", "pixel"}, []float32{0})
	h.AddAttribute("sst_regression", "units", "kelvin")
	h.AddAttribute("sst_regression", "_FillValue", []float32{-999})
	h.Define()

	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	f, err := cdf.Create(ff, h)
	if err != nil {
		t.Fatal(err)
	}
	w := f.Writer("sst_regression", nil, nil)
	if _, err := w.Write([]float32{271.5, -999, 272.5, 273.5, 274.5, -999}); err != nil && err != io.EOF {
		t.Fatal(err)
	}
	w = f.Writer("pixel_line_time", nil, nil)
	if _, err := w.Write([]float64{100.5, 101.5}); err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if err := cdf.UpdateNumRecs(ff); err != nil {
		t.Fatal(err)
	}
	if err := ff.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestClassicSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.nc")
	writeClassicFixture(t, path)

	src, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	want := []Dimension{
		{Name: "time", Length: 2, Unlimited: true},
		{Name: "scan", Length: 2},
		{Name: "pixel", Length: 3},
	}
	if got := src.Dimensions(); !reflect.DeepEqual(got, want) {
		t.Errorf("dimensions: %v", got)
	}

	atts := src.Attributes()
	if len(atts) != 1 || atts[0].Name != "platform" || atts[0].Value != "G16" {
		t.Errorf("global attributes: %v", atts)
	}

	t.Run("fixed variable with mask", func(t *testing.T) {
		v, err := src.Read("sst_regression")
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(v.Dims, []string{"scan", "pixel"}) {
			t.Errorf("dims: %v", v.Dims)
		}
		if !reflect.DeepEqual(v.Values, []float32{271.5, -999, 272.5, 273.5, 274.5, -999}) {
			t.Errorf("values: %v", v.Values)
		}
		if !reflect.DeepEqual(v.Mask, []bool{false, true, false, false, false, true}) {
			t.Errorf("mask: %v", v.Mask)
		}
	})

	t.Run("record variable", func(t *testing.T) {
		v, err := src.Read("pixel_line_time")
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(v.Values, []float64{100.5, 101.5}) {
			t.Errorf("values: %v", v.Values)
		}
		if v.Mask != nil {
			t.Errorf("unexpected mask: %v", v.Mask)
		}
	})

	t.Run("missing variable", func(t *testing.T) {
		_, err := src.Read("acspo_mask")
		if !errors.Is(err, ErrNoVariable) {
			t.Errorf("got %v, want ErrNoVariable", err)
		}
	})
}

func TestNCZSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.ncz")
	h := ncz.NewHeader([]string{"scan", "pixel"}, []int{2, 2})
	h.AddAttribute("", "platform", "G17")
	h.AddVariable("acspo_mask", []string{"scan", "pixel"}, []int16{0})
	h.AddAttribute("acspo_mask", "_FillValue", []int16{-32767})
	h.SetDeflate("acspo_mask", 5, true)
	h.Define()
	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := ncz.Create(ff, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Put("acspo_mask", []int16{1, -32767, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ff.Close(); err != nil {
		t.Fatal(err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if got := src.Dimensions(); !reflect.DeepEqual(got, []Dimension{{Name: "scan", Length: 2}, {Name: "pixel", Length: 2}}) {
		t.Errorf("dimensions: %v", got)
	}
	v, err := src.Read("acspo_mask")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v.Values, []int16{1, -32767, 2, 3}) {
		t.Errorf("values: %v", v.Values)
	}
	if !reflect.DeepEqual(v.Mask, []bool{false, true, false, false}) {
		t.Errorf("mask: %v", v.Mask)
	}
}

func TestOpenUnrecognized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-container")
	if err := os.WriteFile(path, []byte("plain text, not a grid"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected an error for an unrecognized format")
	}
}

func TestFlatten(t *testing.T) {
	got, err := flatten([][]float32{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []float32{1, 2, 3, 4}) {
		t.Errorf("nested float32: %v", got)
	}
	got, err = flatten([][][]int16{{{1}, {2}}, {{3}, {4}}})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int16{1, 2, 3, 4}) {
		t.Errorf("nested int16: %v", got)
	}
	got, err = flatten([]int8{-1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []uint8{0xff, 2}) {
		t.Errorf("int8: %v", got)
	}
	if _, err := flatten([]bool{true}); err == nil {
		t.Error("expected an error for an unsupported leaf type")
	}
}

func TestNormalizeAttr(t *testing.T) {
	cases := []struct {
		in   interface{}
		want interface{}
	}{
		{"G16", "G16"},
		{int32(5), []int32{5}},
		{int64(7), []int32{7}},
		{int64(1) << 40, nil},
		{float64(2.5), []float64{2.5}},
		{[]int8{-1}, []uint8{0xff}},
		{struct{}{}, nil},
	}
	for _, c := range cases {
		if got := normalizeAttr(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("normalizeAttr(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestMaskOfMissingValue(t *testing.T) {
	attrs := []Attribute{{Name: "missing_value", Value: []float64{-1}}}
	mask := maskOf([]float64{0, -1, 2}, attrs)
	if !reflect.DeepEqual(mask, []bool{false, true, false}) {
		t.Errorf("mask: %v", mask)
	}
	if maskOf([]float64{0, 1, 2}, attrs) != nil {
		t.Error("expected nil mask when no cell matches")
	}
	if maskOf([]float64{0, -1}, nil) != nil {
		t.Error("expected nil mask without a sentinel attribute")
	}
}

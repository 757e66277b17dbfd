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

package ncz

import (
	"bytes"
	"math"
	"reflect"
	"testing"
)

func buildTestFile(t *testing.T, level int, shuffle bool) *File {
	t.Helper()
	h := NewHeader([]string{"time", "scan", "pixel"}, []int{-2, 3, 4})
	h.AddAttribute("", "title", "test granule")
	h.AddAttribute("", "row_offset", []int32{17})
	h.AddVariable("sst", []string{"scan", "pixel"}, []float32{0})
	h.SetDeflate("sst", level, shuffle)
	h.AddAttribute("sst", "units", "kelvin")
	h.AddVariable("mask", []string{"scan", "pixel"}, []uint8{0})
	h.SetDeflate("mask", level, false)
	h.AddVariable("t", []string{"time"}, []float64{0})
	h.Define()

	var buf bytes.Buffer
	w, err := Create(&buf, h)
	if err != nil {
		t.Fatal(err)
	}
	sst := make([]float32, 12)
	for i := range sst {
		sst[i] = 270 + float32(i)
	}
	if err := w.Put("sst", sst); err != nil {
		t.Fatal(err)
	}
	mask := make([]uint8, 12)
	mask[3] = 1
	if err := w.Put("mask", mask); err != nil {
		t.Fatal(err)
	}
	// "t" is deliberately never Put.
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f, err := Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []struct {
		name    string
		level   int
		shuffle bool
	}{
		{"level0", 0, false},
		{"level5shuffle", 5, true},
		{"level9", 9, false},
	} {
		t.Run(c.name, func(t *testing.T) {
			f := buildTestFile(t, c.level, c.shuffle)
			h := f.Header

			if got := h.Dimensions(""); !reflect.DeepEqual(got, []string{"time", "scan", "pixel"}) {
				t.Errorf("dimensions: %v", got)
			}
			if got := h.Lengths(""); !reflect.DeepEqual(got, []int{2, 3, 4}) {
				t.Errorf("lengths: %v", got)
			}
			if !h.Unlimited("time") || h.Unlimited("scan") {
				t.Error("unlimited marker lost")
			}
			if got := h.GetAttribute("", "title"); got != "test granule" {
				t.Errorf("title attribute: %v", got)
			}
			if got := h.GetAttribute("", "row_offset"); !reflect.DeepEqual(got, []int32{17}) {
				t.Errorf("row_offset attribute: %v", got)
			}
			if got := h.Variables(); !reflect.DeepEqual(got, []string{"sst", "mask", "t"}) {
				t.Errorf("variables: %v", got)
			}
			if got := h.Dimensions("sst"); !reflect.DeepEqual(got, []string{"scan", "pixel"}) {
				t.Errorf("sst dimensions: %v", got)
			}
			if got := h.GetAttribute("sst", "units"); got != "kelvin" {
				t.Errorf("sst units: %v", got)
			}

			v, err := f.Get("sst")
			if err != nil {
				t.Fatal(err)
			}
			want := make([]float32, 12)
			for i := range want {
				want[i] = 270 + float32(i)
			}
			if !reflect.DeepEqual(v, want) {
				t.Errorf("sst values: %v", v)
			}

			m, err := f.Get("mask")
			if err != nil {
				t.Fatal(err)
			}
			wantMask := make([]uint8, 12)
			wantMask[3] = 1
			if !reflect.DeepEqual(m, wantMask) {
				t.Errorf("mask values: %v", m)
			}

			// A variable that was never Put comes back filled.
			tv, err := f.Get("t")
			if err != nil {
				t.Fatal(err)
			}
			fill := DOUBLE.FillValue().(float64)
			if !reflect.DeepEqual(tv, []float64{fill, fill}) {
				t.Errorf("unwritten variable: %v", tv)
			}
		})
	}
}

func TestQuantizedWrite(t *testing.T) {
	h := NewHeader([]string{"x"}, []int{4})
	h.AddVariable("lat", []string{"x"}, []float32{0})
	h.SetDeflate("lat", 5, true)
	h.SetDigits("lat", 4)
	h.Define()

	if got := h.GetAttribute("lat", "least_significant_digit"); !reflect.DeepEqual(got, []int32{4}) {
		t.Errorf("least_significant_digit attribute: %v", got)
	}

	var buf bytes.Buffer
	w, err := Create(&buf, h)
	if err != nil {
		t.Fatal(err)
	}
	in := []float32{41.234567, -121.98765, 0, float32(math.NaN())}
	if err := w.Put("lat", in); err != nil {
		t.Fatal(err)
	}
	if in[0] != 41.234567 {
		t.Error("Put modified the caller's array")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Header.Digits("lat"); got != 4 {
		t.Errorf("digits: %d", got)
	}
	v, err := f.Get("lat")
	if err != nil {
		t.Fatal(err)
	}
	got := v.([]float32)
	if got[0] != 41.23 || got[1] != -122 || got[2] != 0 {
		t.Errorf("quantized values: %v", got)
	}
	if !math.IsNaN(float64(got[3])) {
		t.Errorf("NaN not preserved: %v", got[3])
	}
}

func TestGetUnknownVariable(t *testing.T) {
	f := buildTestFile(t, 1, false)
	if _, err := f.Get("nope"); err == nil {
		t.Error("expected an error for an unknown variable")
	}
}

func TestOpenBadMagic(t *testing.T) {
	if _, err := Open(bytes.NewReader([]byte("CDF\x01garbage"))); err == nil {
		t.Error("expected an error for a non-ncz stream")
	}
}

func TestFillValueAttribute(t *testing.T) {
	h := NewHeader([]string{"x"}, []int{1})
	h.AddVariable("a", []string{"x"}, []int16{0})
	h.AddAttribute("a", "_FillValue", []int16{-999})
	h.AddVariable("b", []string{"x"}, []int16{0})
	h.Define()
	if got := h.FillValue("a"); got != int16(-999) {
		t.Errorf("explicit fill value: %v", got)
	}
	if got := h.FillValue("b"); got != int16(-32767) {
		t.Errorf("default fill value: %v", got)
	}
}

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

package geostrip

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseName(t *testing.T) {
	got, err := ParseName("ACSPO_V2.41_G16_ABI_2024-03-02_0700-0800_20240302.123456.nc")
	if err != nil {
		t.Fatal(err)
	}
	want := &Tokens{
		Version:     "V2.41",
		Platform:    "G16",
		Sensor:      "ABI",
		Year:        2024,
		Month:       3,
		Day:         2,
		StartHour:   7,
		StartMinute: 0,
		EndHour:     8,
		EndMinute:   0,
		Orbit:       20240302,
		Subsecond:   123456,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseNameRejects(t *testing.T) {
	names := []string{
		"",
		"granule.nc",
		"ACSPO_V2.41_G16_ABI_2024-03-02_0700-0800_20240302.123456",     // no suffix
		"ACSPO_V2.41_G16_ABI_2024-3-2_0700-0800_20240302.123456.nc",    // short date
		"ACSPO_V2.41_G16_ABI_2024-03-02_070-0800_20240302.123456.nc",   // short time
		"ACSPO_V2.41_G16_ABI_2024-03-02_0700-0800_2024030.123456.nc",   // short orbit
		"ACSPO_V2.41_G16_ABI_2024-03-02_0700-0800_20240302.12345.nc",   // short subsecond
		"XACSPO_V2.41_G16_ABI_2024-03-02_0700-0800_20240302.123456.nc", // wrong prefix
		"ACSPO_V2.41_G16_ABI_2024-03-02_0700-0800_20240302.123456.ncx", // trailing junk
	}
	for _, name := range names {
		tok, err := ParseName(name)
		if err == nil {
			t.Errorf("%q: expected an error", name)
			continue
		}
		var ne *NamingError
		if !errors.As(err, &ne) || ne.Name != name {
			t.Errorf("%q: got %v, want a NamingError", name, err)
		}
		if tok != nil {
			t.Errorf("%q: got partial tokens %+v", name, tok)
		}
	}
}

func TestIsHourly(t *testing.T) {
	hourly, err := ParseName("ACSPO_V2.41_G16_ABI_2024-03-02_0700-0800_20240302.123456.nc")
	if err != nil {
		t.Fatal(err)
	}
	if !hourly.IsHourly() {
		t.Error("granule starting on the hour should be hourly")
	}
	rapid, err := ParseName("ACSPO_V2.41_G16_ABI_2024-03-02_0715-0720_20240302.123456.nc")
	if err != nil {
		t.Fatal(err)
	}
	if rapid.IsHourly() {
		t.Error("granule starting off the hour should not be hourly")
	}
}

func TestSelectSchema(t *testing.T) {
	if got := SelectSchema(true, nil, nil); !reflect.DeepEqual(got, DefaultHourlySchema) {
		t.Errorf("hourly default: %v", got)
	}
	if got := SelectSchema(false, nil, nil); !reflect.DeepEqual(got, DefaultNonHourlySchema) {
		t.Errorf("non-hourly default: %v", got)
	}
	custom := []string{"latitude"}
	if got := SelectSchema(true, custom, nil); !reflect.DeepEqual(got, custom) {
		t.Errorf("hourly override: %v", got)
	}
	if got := SelectSchema(false, nil, custom); !reflect.DeepEqual(got, custom) {
		t.Errorf("non-hourly override: %v", got)
	}
}

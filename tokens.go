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

// This file contains the legacy granule file name grammar.

package geostrip

import (
	"fmt"
	"regexp"
	"strconv"
)

// Legacy granule names look like
// ACSPO_V2.41_G16_ABI_2024-03-02_0700-0800_20240302.123456.nc:
// literal prefix, dotted processing version, platform, sensor, date,
// start and end times, orbit counter and a sub-second suffix. The match
// must span the whole name.
var nameRegexp = regexp.MustCompile(
	`^ACSPO_([\w.]+)_(\w+)_(\w+)_(\d{4})-(\d{2})-(\d{2})_(\d{2})(\d{2})-(\d{2})(\d{2})_(\d{8})\.(\d{6})\.nc$`)

// Tokens is the decomposition of a legacy granule file name.
type Tokens struct {
	Version  string // processing system version, e.g. "V2.41"
	Platform string // e.g. "G16"
	Sensor   string // e.g. "ABI"

	Year, Month, Day       int
	StartHour, StartMinute int
	EndHour, EndMinute     int

	Orbit     int // granule/orbit counter
	Subsecond int
}

// A NamingError reports a file name that does not match the granule
// grammar.
type NamingError struct {
	Name string
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("geostrip: file %q is not a legacy granule", e.Name)
}

// ParseName decomposes a bare granule file name. It either returns the
// full token set or fails with a *NamingError.
func ParseName(name string) (*Tokens, error) {
	m := nameRegexp.FindStringSubmatch(name)
	if m == nil {
		return nil, &NamingError{Name: name}
	}
	atoi := func(s string) int {
		n, _ := strconv.Atoi(s) // the grammar guarantees digits
		return n
	}
	return &Tokens{
		Version:     m[1],
		Platform:    m[2],
		Sensor:      m[3],
		Year:        atoi(m[4]),
		Month:       atoi(m[5]),
		Day:         atoi(m[6]),
		StartHour:   atoi(m[7]),
		StartMinute: atoi(m[8]),
		EndHour:     atoi(m[9]),
		EndMinute:   atoi(m[10]),
		Orbit:       atoi(m[11]),
		Subsecond:   atoi(m[12]),
	}, nil
}

// cadenceMinute is the token that decides the granule cadence. The
// upstream convention keys on the granule start minute: hourly
// composites start on the hour, rapid-refresh granules do not.
func (t *Tokens) cadenceMinute() int { return t.StartMinute }

// IsHourly reports whether the granule is an hourly composite.
func (t *Tokens) IsHourly() bool { return t.cadenceMinute() == 0 }

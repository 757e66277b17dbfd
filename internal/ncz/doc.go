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

// Package ncz reads and writes compressed gridded-array containers.
//
// The data model is the NetCDF classic one: named dimensions (at most one
// of them unlimited), global and per-variable attributes, and variables
// holding dense typed arrays. The on-disk layout differs from the classic
// format in that each variable's data is stored as an independently
// deflated block, optionally byte-shuffled and decimally quantized before
// compression. A file starts with the magic bytes "CDZ" followed by a
// version byte, then a big-endian header describing dimensions, attributes
// and variables (including each block's compressed size), then the data
// blocks in declaration order.
//
// Writing follows the define-then-put discipline:
//
//	h := ncz.NewHeader([]string{"scan", "pixel"}, []int{540, 3200})
//	h.AddVariable("sst", []string{"scan", "pixel"}, []float32{0})
//	h.SetDeflate("sst", 5, true)
//	h.SetDigits("sst", 3)
//	h.AddAttribute("sst", "units", "kelvin")
//	h.Define()
//	f, _ := ncz.Create(w, h)
//	f.Put("sst", values)
//	err := f.Close() // serializes header and blocks
//
// Attribute and array values are of type []uint8, string, []int16,
// []int32, []float32 or []float64.
package ncz

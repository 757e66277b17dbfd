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

// This file contains the NetCDF classic adapter, backed by
// github.com/ctessum/cdf. The classic header exposes dimension lengths
// directly, with the record dimension stored as length zero; the actual
// record count comes from the file size.

package ncgrid

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
)

type cdfSource struct {
	f    *os.File
	cf   *cdf.File
	nrec int
}

func openCDF(f *os.File) (Source, error) {
	cf, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ncgrid: opening %s: %v", f.Name(), err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &cdfSource{f: f, cf: cf, nrec: int(cf.Header.NumRecs(fi.Size()))}, nil
}

func (s *cdfSource) Dimensions() []Dimension {
	names := s.cf.Header.Dimensions("")
	lengths := s.cf.Header.Lengths("")
	dims := make([]Dimension, len(names))
	for i := range names {
		dims[i] = Dimension{Name: names[i], Length: lengths[i]}
		if lengths[i] == 0 { // record dimension
			dims[i].Length = s.nrec
			dims[i].Unlimited = true
		}
	}
	return dims
}

func (s *cdfSource) Attributes() []Attribute {
	return s.attributes("")
}

func (s *cdfSource) attributes(v string) []Attribute {
	names := s.cf.Header.Attributes(v)
	atts := make([]Attribute, len(names))
	for i, name := range names {
		atts[i] = Attribute{Name: name, Value: s.cf.Header.GetAttribute(v, name)}
	}
	return atts
}

func (s *cdfSource) Read(name string) (*Variable, error) {
	dims := s.cf.Header.Dimensions(name)
	if dims == nil {
		return nil, fmt.Errorf("ncgrid: %s: %w", name, ErrNoVariable)
	}
	lengths := s.cf.Header.Lengths(name)
	n := 1
	record := false
	for _, l := range lengths {
		if l == 0 {
			record = true
			l = s.nrec
		}
		n *= l
	}
	// For record variables the reader needs an explicit extent; a nil
	// end leaves it unbounded and the read stops after one record.
	var begin, end []int
	if record {
		begin = make([]int, len(lengths))
		end = make([]int, len(lengths))
		end[0] = s.nrec
	}
	r := s.cf.Reader(name, begin, end)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("ncgrid: reading variable %s: %v", name, err)
	}
	attrs := s.attributes(name)
	return &Variable{
		Name:   name,
		Dims:   dims,
		Attrs:  attrs,
		Values: buf,
		Mask:   maskOf(buf, attrs),
	}, nil
}

func (s *cdfSource) Close() error { return s.f.Close() }

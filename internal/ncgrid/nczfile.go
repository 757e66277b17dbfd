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

// This file contains the adapter for ncz containers, so already stripped
// files can be stripped again (e.g. to a different compression level).

package ncgrid

import (
	"fmt"
	"os"

	"github.com/ojonasson/geo-legacy-strip/internal/ncz"
)

type nczSource struct {
	f  *os.File
	zf *ncz.File
}

func openNCZ(f *os.File) (Source, error) {
	zf, err := ncz.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ncgrid: opening %s: %v", f.Name(), err)
	}
	return &nczSource{f: f, zf: zf}, nil
}

func (s *nczSource) Dimensions() []Dimension {
	names := s.zf.Header.Dimensions("")
	lengths := s.zf.Header.Lengths("")
	dims := make([]Dimension, len(names))
	for i := range names {
		dims[i] = Dimension{
			Name:      names[i],
			Length:    lengths[i],
			Unlimited: s.zf.Header.Unlimited(names[i]),
		}
	}
	return dims
}

func (s *nczSource) Attributes() []Attribute {
	return s.attributes("")
}

func (s *nczSource) attributes(v string) []Attribute {
	names := s.zf.Header.Attributes(v)
	atts := make([]Attribute, len(names))
	for i, name := range names {
		atts[i] = Attribute{Name: name, Value: s.zf.Header.GetAttribute(v, name)}
	}
	return atts
}

func (s *nczSource) Read(name string) (*Variable, error) {
	dims := s.zf.Header.Dimensions(name)
	if dims == nil {
		return nil, fmt.Errorf("ncgrid: %s: %w", name, ErrNoVariable)
	}
	values, err := s.zf.Get(name)
	if err != nil {
		return nil, fmt.Errorf("ncgrid: reading variable %s: %v", name, err)
	}
	attrs := s.attributes(name)
	return &Variable{
		Name:   name,
		Dims:   dims,
		Attrs:  attrs,
		Values: values,
		Mask:   maskOf(values, attrs),
	}, nil
}

func (s *nczSource) Close() error { return s.f.Close() }

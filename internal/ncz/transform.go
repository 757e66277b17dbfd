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

// This file contains the storage transforms applied to variable data
// before compression: decimal quantization, big-endian encoding and the
// byte shuffle filter.

package ncz

import (
	"bytes"
	"encoding/binary"
	"math"
)

// roundSignificant rounds x to n significant decimal digits. Zero, NaN
// and infinities are returned unchanged.
func roundSignificant(x float64, n int) float64 {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	mag := math.Ceil(math.Log10(math.Abs(x)))
	scale := math.Pow(10, float64(n)-mag)
	return math.Round(x*scale) / scale
}

// quantize rounds floating-point values in place to n significant decimal
// digits. Non-floating-point carriers are returned unchanged.
func quantize(values interface{}, n int) interface{} {
	switch v := values.(type) {
	case []float32:
		for i, x := range v {
			v[i] = float32(roundSignificant(float64(x), n))
		}
	case []float64:
		for i, x := range v {
			v[i] = roundSignificant(x, n)
		}
	}
	return values
}

// encode serializes a typed carrier to big-endian bytes.
func encode(values interface{}) ([]byte, error) {
	if s, ok := values.(string); ok {
		return []byte(s), nil
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, values); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decode deserializes big-endian bytes into a zeroed carrier of type dt
// with n elements.
func decode(b []byte, dt DataType, n int) (interface{}, error) {
	if dt == CHAR {
		return string(b), nil
	}
	values := dt.Zero(n)
	if err := binary.Read(bytes.NewReader(b), binary.BigEndian, values); err != nil {
		return nil, err
	}
	return values, nil
}

// shuffle reorders b so that the i'th bytes of all elements of size elem
// are grouped together, which typically improves compression of typed
// numeric arrays. elem must evenly divide len(b).
func shuffle(b []byte, elem int) []byte {
	if elem <= 1 {
		return b
	}
	n := len(b) / elem
	out := make([]byte, len(b))
	for i := 0; i < n; i++ {
		for j := 0; j < elem; j++ {
			out[j*n+i] = b[i*elem+j]
		}
	}
	return out
}

// unshuffle reverses shuffle.
func unshuffle(b []byte, elem int) []byte {
	if elem <= 1 {
		return b
	}
	n := len(b) / elem
	out := make([]byte, len(b))
	for i := 0; i < n; i++ {
		for j := 0; j < elem; j++ {
			out[i*elem+j] = b[j*n+i]
		}
	}
	return out
}

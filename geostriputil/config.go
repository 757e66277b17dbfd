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

package geostriputil

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	geostrip "github.com/ojonasson/geo-legacy-strip"
)

// StripOptions creates a geostrip.Options variable from the given
// configuration. Empty precision and schema settings select the package
// defaults.
func StripOptions(cfg *viper.Viper) (geostrip.Options, error) {
	o := geostrip.Options{
		CompressionLevel: cfg.GetInt("compress_level"),
		OutputDir:        cfg.GetString("output_dir"),
	}
	precision, err := getStringMapInt("precision", cfg)
	if err != nil {
		return o, err
	}
	if len(precision) > 0 {
		o.Precision = precision
	}
	if s := cfg.GetStringSlice("hourly_schema"); len(s) > 0 {
		o.HourlySchema = s
	}
	if s := cfg.GetStringSlice("non_hourly_schema"); len(s) > 0 {
		o.NonHourlySchema = s
	}
	return o, nil
}

// getStringMapInt returns a map[string]int from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func getStringMapInt(varName string, cfg *viper.Viper) (map[string]int, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case nil:
		return nil, nil
	case map[string]int:
		return v, nil
	case map[string]interface{}:
		o := make(map[string]int, len(v))
		for name, digits := range v {
			d, err := cast.ToIntE(digits)
			if err != nil {
				return nil, fmt.Errorf("geostrip: configuration variable %s[%s]: %v", varName, name, err)
			}
			o[name] = d
		}
		return o, nil
	case string:
		o := make(map[string]int)
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("geostrip: parsing configuration variable %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("geostrip: invalid type for configuration variable %s: %#v", varName, i)
	}
}

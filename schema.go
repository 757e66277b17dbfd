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

// This file contains the static schema registry: which variables each
// cadence retains, and how many significant decimal digits each variable
// keeps. These are defaults; callers may override any of the three
// tables per invocation through Options.

package geostrip

// DefaultPrecision maps variable names to the number of correct
// significant decimal digits worth keeping. Variables without an entry
// are stored losslessly.
var DefaultPrecision = map[string]int{
	"latitude":                      4,
	"longitude":                     4,
	"satellite_zenith_angle":        3,
	"solar_zenith_angle":            2,
	"relative_azimuth_angle":        2,
	"solar_azimuth_angle":           2,
	"brightness_temp_ch7":           3,
	"brightness_temp_ch11":          3,
	"brightness_temp_ch13":          3,
	"brightness_temp_ch14":          3,
	"brightness_temp_ch15":          3,
	"brightness_temp_crtm_ch7":      3,
	"brightness_temp_crtm_ch11":     3,
	"brightness_temp_crtm_ch13":     3,
	"brightness_temp_crtm_ch14":     3,
	"brightness_temp_crtm_ch15":     3,
	"brightness_temp_crtm_ch7_sst":  3,
	"brightness_temp_crtm_ch11_sst": 3,
	"brightness_temp_crtm_ch13_sst": 3,
	"brightness_temp_crtm_ch14_sst": 3,
	"brightness_temp_crtm_ch15_sst": 3,
	"sst_regression":                3,
	"sens_regression":               3,
	"sses_bias_acspo":               3,
	"sst_reynolds":                  3,
	"air_temp_gfs":                  2,
	"u_wind_gfs":                    2,
	"v_wind_gfs":                    2,
	"tpw_acspo":                     3,
}

// DefaultHourlySchema is the analysis-ready variable set retained for
// hourly composites.
var DefaultHourlySchema = []string{
	"pixel_line_number",
	"pixel_line_time",
	"ascending_descending_flag",
	"latitude",
	"longitude",
	"satellite_zenith_angle",
	"solar_zenith_angle",
	"relative_azimuth_angle",
	"solar_azimuth_angle",
	"brightness_temp_ch7",
	"brightness_temp_ch11",
	"brightness_temp_ch13",
	"brightness_temp_ch14",
	"brightness_temp_ch15",
	"brightness_temp_crtm_ch7",
	"brightness_temp_crtm_ch11",
	"brightness_temp_crtm_ch13",
	"brightness_temp_crtm_ch14",
	"brightness_temp_crtm_ch15",
	"brightness_temp_crtm_ch7_sst",
	"brightness_temp_crtm_ch11_sst",
	"brightness_temp_crtm_ch13_sst",
	"brightness_temp_crtm_ch14_sst",
	"brightness_temp_crtm_ch15_sst",
	"acspo_mask",
	"individual_clear_sky_tests_results",
	"extra_byte_clear_sky_tests_results",
	"sst_regression",
	"sens_regression",
	"sses_bias_acspo",
	"sst_reynolds",
	"air_temp_gfs",
	"u_wind_gfs",
	"v_wind_gfs",
	"tpw_acspo",
}

// DefaultNonHourlySchema is the reduced variable set retained for
// rapid-refresh (sub-hourly) granules; downstream collation only needs
// the core subset at that cadence.
var DefaultNonHourlySchema = []string{
	"pixel_line_number",
	"pixel_line_time",
	"ascending_descending_flag",
	"brightness_temp_ch11",
	"brightness_temp_ch13",
	"brightness_temp_ch14",
	"brightness_temp_ch15",
	"acspo_mask",
	"individual_clear_sky_tests_results",
	"extra_byte_clear_sky_tests_results",
	"sst_regression",
}

// SelectSchema returns the ordered variable set retained for the given
// cadence. Nil schema arguments select the package defaults.
func SelectSchema(hourly bool, hourlySchema, nonHourlySchema []string) []string {
	if hourly {
		if hourlySchema != nil {
			return hourlySchema
		}
		return DefaultHourlySchema
	}
	if nonHourlySchema != nil {
		return nonHourlySchema
	}
	return DefaultNonHourlySchema
}

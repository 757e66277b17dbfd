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

// Package geostriputil provides commands for running the geostrip
// granule transcoder.
package geostriputil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	geostrip "github.com/ojonasson/geo-legacy-strip"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})

	// Options are the configuration options available to geostrip.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "output_dir",
			usage: `
              output_dir specifies the directory that receives the
              transcoded files, each under its input's base name. If
              empty, each input file is overwritten in place.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{stripCmd.Flags()},
		},
		{
			name: "compress_level",
			usage: `
              compress_level specifies the deflate compression level
              applied to every retained variable. It must be within
              [0, 9]; 0 stores variables uncompressed.`,
			shorthand:  "c",
			defaultVal: geostrip.DefaultCompressionLevel,
			flagsets:   []*pflag.FlagSet{stripCmd.Flags()},
		},
		{
			name: "keep_going",
			usage: `
              keep_going specifies whether to continue with the
              remaining files after one of them fails. The exit status
              still reports the failure.`,
			shorthand:  "k",
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{stripCmd.Flags()},
		},
		{
			name: "jobs",
			usage: `
              jobs specifies how many files to transcode concurrently.`,
			shorthand:  "j",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{stripCmd.Flags()},
		},
		{
			name: "precision",
			usage: `
              precision maps variable names to the number of correct
              significant decimal digits each keeps. When empty, the
              built-in table is used. Variables without an entry are
              stored losslessly.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{stripCmd.Flags()},
		},
		{
			name: "hourly_schema",
			usage: `
              hourly_schema specifies the variables retained for
              granules starting on the hour. When empty, the built-in
              schema is used.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{stripCmd.Flags()},
		},
		{
			name: "non_hourly_schema",
			usage: `
              non_hourly_schema specifies the variables retained for
              granules starting off the hour. When empty, the built-in
              schema is used.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{stripCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GEOSTRIP")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(stripCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("geostrip: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "geostrip",
	Short: "A transcoder for legacy satellite swath granules.",
	Long: `geostrip rewrites legacy swath granule files into a reduced variant:
a cadence-dependent subset of variables is kept, each is recompressed
with the shuffle filter, and variables with a precision entry are
quantized to their scientifically meaningful number of decimal digits.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the format
'GEOSTRIP_var' where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of geostrip.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("geostrip v%s\n", geostrip.Version)
	},
	DisableAutoGenTag: true,
}

var stripCmd = &cobra.Command{
	Use:   "strip file [file...]",
	Short: "Transcode granule files.",
	Long: `strip transcodes each of the given granule files. The file name of
each granule determines its cadence and therefore which variables are
retained. Unless --output_dir is set, each input is overwritten in
place; either way, a file's final path is only written once its
replacement is complete.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := StripOptions(Cfg)
		if err != nil {
			return err
		}
		return RunFiles(args, o, Cfg.GetInt("jobs"), Cfg.GetBool("keep_going"))
	},
	DisableAutoGenTag: true,
}

/*
Copyright © 2024 the wepppyo3 authors.
This file is part of wepppyo3.

wepppyo3 is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

wepppyo3 is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with wepppyo3.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package wepputil holds the command-line interface to wepppyo3.
package wepputil

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wepp-in-the-woods/wepppyo3"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log is the logger used by all commands.
var Log = logrus.New()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}

	// Options are the configuration options available to wepppyo3.
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
			name: "log_level",
			usage: `
              log_level is the minimum level of log messages to print:
              debug, info, warn or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "output",
			usage: `
              output is the path to write results to. Zonal results are
              written as JSON to standard output if it is empty, or as
              a spreadsheet if it ends in .xlsx.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets: []*pflag.FlagSet{zonalCmd.PersistentFlags(), soilLossCmd.PersistentFlags(),
				interpolateCmd.Flags(), cliRevCmd.Flags(), renderCmd.Flags()},
		},
		{
			name: "keys",
			usage: `
              keys is the path to the integer zone raster, usually the
              TOPAZ SUBWTA map.`,
			shorthand:  "k",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{zonalCmd.PersistentFlags(), soilLossDischargeCmd.Flags()},
		},
		{
			name: "keys2",
			usage: `
              keys2 is the path to a second integer zone raster. If it is
              set, statistics are computed for each pair of zones.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{zonalModeCmd.Flags(), zonalMedianCmd.Flags()},
		},
		{
			name: "parameter",
			usage: `
              parameter is the path to the raster summarized within each
              zone.`,
			shorthand:  "p",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{zonalModeCmd.Flags(), zonalMedianCmd.Flags()},
		},
		{
			name: "band",
			usage: `
              band is the 1-based band of the parameter raster to read.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{zonalModeCmd.Flags(), zonalMedianCmd.Flags()},
		},
		{
			name: "ignore_channels",
			usage: `
              ignore_channels specifies whether to leave out channel
              zones, whose ids end in 4.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{zonalCmd.PersistentFlags()},
		},
		{
			name: "ignore_keys",
			usage: `
              ignore_keys is a list of zone ids to leave out.`,
			defaultVal: []int{},
			flagsets:   []*pflag.FlagSet{zonalModeCmd.Flags(), zonalMedianCmd.Flags()},
		},
		{
			name: "ignore_keys2",
			usage: `
              ignore_keys2 is a list of ids of the second zone raster to
              leave out.`,
			defaultVal: []int{},
			flagsets:   []*pflag.FlagSet{zonalModeCmd.Flags(), zonalMedianCmd.Flags()},
		},
		{
			name: "aspect",
			usage: `
              aspect is the path to an optional TOPAZ TASPEC raster used to
              find the mean aspect of each zone.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{zonalSummaryCmd.Flags()},
		},
		{
			name: "discharge",
			usage: `
              discharge is the path to the flow accumulation raster.`,
			shorthand:  "d",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{soilLossCmd.PersistentFlags()},
		},
		{
			name: "profile_dir",
			usage: `
              profile_dir is the directory holding the WEPP plot files
              and, for the footprint method, their slope files.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{soilLossCmd.PersistentFlags()},
		},
		{
			name: "netcdf",
			usage: `
              netcdf is the path to a netCDF file holding a gridded
              series.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{interpolateCmd.Flags()},
		},
		{
			name: "variable",
			usage: `
              variable is the name of the 3-D variable, shaped
              [x, y, slice], to interpolate.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{interpolateCmd.Flags()},
		},
		{
			name: "x_var",
			usage: `
              x_var is the name of the x coordinate variable.`,
			defaultVal: "x",
			flagsets:   []*pflag.FlagSet{interpolateCmd.Flags()},
		},
		{
			name: "y_var",
			usage: `
              y_var is the name of the y coordinate variable.`,
			defaultVal: "y",
			flagsets:   []*pflag.FlagSet{interpolateCmd.Flags()},
		},
		{
			name: "target_x",
			usage: `
              target_x is the x coordinate to interpolate at.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{interpolateCmd.Flags()},
		},
		{
			name: "target_y",
			usage: `
              target_y is the y coordinate to interpolate at.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{interpolateCmd.Flags()},
		},
		{
			name: "method",
			usage: `
              method is the interpolation method: nearest, linear or
              cubic.`,
			defaultVal: "linear",
			flagsets:   []*pflag.FlagSet{interpolateCmd.Flags()},
		},
		{
			name: "clip_min",
			usage: `
              clip_min is an optional lower bound on interpolated values.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{interpolateCmd.Flags()},
		},
		{
			name: "clip_max",
			usage: `
              clip_max is an optional upper bound on interpolated values.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{interpolateCmd.Flags()},
		},
		{
			name: "cli",
			usage: `
              cli is the path to the watershed WEPP climate file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cliRevCmd.Flags()},
		},
		{
			name: "ws_ppt",
			usage: `
              ws_ppt lists the 12 monthly precipitation means at the
              watershed centroid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cliRevCmd.Flags()},
		},
		{
			name: "ws_tmax",
			usage: `
              ws_tmax lists the 12 monthly maximum temperature means at
              the watershed centroid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cliRevCmd.Flags()},
		},
		{
			name: "ws_tmin",
			usage: `
              ws_tmin lists the 12 monthly minimum temperature means at
              the watershed centroid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cliRevCmd.Flags()},
		},
		{
			name: "hill_ppt",
			usage: `
              hill_ppt lists the 12 monthly precipitation means at the
              hillslope centroid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cliRevCmd.Flags()},
		},
		{
			name: "hill_tmax",
			usage: `
              hill_tmax lists the 12 monthly maximum temperature means at
              the hillslope centroid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cliRevCmd.Flags()},
		},
		{
			name: "hill_tmin",
			usage: `
              hill_tmin lists the 12 monthly minimum temperature means at
              the hillslope centroid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cliRevCmd.Flags()},
		},
		{
			name: "raster",
			usage: `
              raster is the path to the raster to inspect.`,
			shorthand:  "r",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{statsCmd.Flags(), renderCmd.Flags(), displayCmd.Flags()},
		},
		{
			name: "legend",
			usage: `
              legend is an optional path to write a PNG colour legend to.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{renderCmd.Flags()},
		},
		{
			name: "color",
			usage: `
              color specifies whether to colour the text display with
              terminal escape codes.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{displayCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("WEPPPYO3")
	Cfg.AutomaticEnv()

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
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
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
	Root.AddCommand(configCmd)
	Root.AddCommand(zonalCmd)
	zonalCmd.AddCommand(zonalModeCmd)
	zonalCmd.AddCommand(zonalMedianCmd)
	zonalCmd.AddCommand(zonalSummaryCmd)
	Root.AddCommand(soilLossCmd)
	soilLossCmd.AddCommand(soilLossDischargeCmd)
	soilLossCmd.AddCommand(soilLossFootprintCmd)
	Root.AddCommand(interpolateCmd)
	Root.AddCommand(cliRevCmd)
	Root.AddCommand(statsCmd)
	Root.AddCommand(renderCmd)
	Root.AddCommand(displayCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("wepppyo3: problem reading configuration file: %v: %w", err, wepppyo3.ErrConfig)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("wepppyo3: %v: %w", err, wepppyo3.ErrConfig)
	}
	Log.Level = level
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "wepppyo3",
	Short: "Raster tools for WEPP watershed erosion modeling.",
	Long: `wepppyo3 turns TOPAZ zone maps, flow accumulation grids, gridded climate
and per-hillslope WEPP output into new rasters and zonal summaries.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'WEPPPYO3_var' where 'var' is the
name of the variable to be set. Paths may contain environment variables.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of wepppyo3.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("wepppyo3 v%s\n", wepppyo3.Version)
	},
	DisableAutoGenTag: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration",
	Long: `config prints the effective configuration, after reading the configuration
file, environment variables and command-line arguments, in TOML format.
The output can be used as a starting point for a configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return WriteConfig(cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

// WriteConfig writes every option and its current value as TOML.
func WriteConfig(w io.Writer) error {
	settings := make(map[string]interface{}, len(options))
	for _, option := range options {
		settings[option.name] = Cfg.Get(option.name)
	}
	if err := toml.NewEncoder(w).Encode(settings); err != nil {
		return fmt.Errorf("wepppyo3: writing configuration: %v: %w", err, wepppyo3.ErrIO)
	}
	return nil
}

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

package wepputil

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wepp-in-the-woods/wepppyo3/soilloss"
)

var soilLossCmd = &cobra.Command{
	Use:   "soilloss",
	Short: "Map hillslope soil loss onto raster cells",
	Long: `soilloss spreads WEPP hillslope soil-loss profiles over the raster cells of
each hillslope. Use the subcommands specified below to choose the method.`,
	DisableAutoGenTag: true,
}

var soilLossDischargeCmd = &cobra.Command{
	Use:   "discharge",
	Short: "Map soil loss by relative flow accumulation",
	Long: `discharge looks up each cell's soil loss from its hillslope's profile by the
cell's flow accumulation relative to the hillslope maximum. The profile of the
hillslope with the n-th smallest id is read from H{n}.plot.dat in profile_dir.
A missing profile is an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := getPath("keys", Cfg, true)
		if err != nil {
			return err
		}
		discharge, err := getPath("discharge", Cfg, true)
		if err != nil {
			return err
		}
		dir, err := getPath("profile_dir", Cfg, true)
		if err != nil {
			return err
		}
		output, err := getPath("output", Cfg, true)
		if err != nil {
			return err
		}
		n, err := soilloss.BuildSoilLossGridFiles(keys, discharge, dir, output)
		if err != nil {
			return err
		}
		Log.WithFields(logrus.Fields{"hillslopes": n, "output": output}).Info("wrote soil loss grid")
		cmd.Printf("%d hillslopes\n", n)
		return nil
	},
	DisableAutoGenTag: true,
}

var soilLossFootprintCmd = &cobra.Command{
	Use:   "footprint",
	Short: "Map soil loss along flowpath footprints",
	Long: `footprint spreads every flowpath profile in profile_dir (*.plot.dat, each with
a matching .slp file) over the cells the flowpath crosses, then averages cells
crossed by more than one flowpath. Unreadable profiles are logged and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		discharge, err := getPath("discharge", Cfg, true)
		if err != nil {
			return err
		}
		dir, err := getPath("profile_dir", Cfg, true)
		if err != nil {
			return err
		}
		output, err := getPath("output", Cfg, true)
		if err != nil {
			return err
		}
		return soilloss.BuildSoilLossGridFootprintFiles(discharge, dir, output, Log)
	},
	DisableAutoGenTag: true,
}

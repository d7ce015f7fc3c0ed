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
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wepp-in-the-woods/wepppyo3/climate"
	"github.com/wepp-in-the-woods/wepppyo3/interp"
)

var interpolateCmd = &cobra.Command{
	Use:   "interpolate",
	Short: "Interpolate a gridded series at a point",
	Long: `interpolate reads a 3-D variable shaped [x, y, slice] from a netCDF file and
interpolates every slice at (target_x, target_y). The series is printed one
value per line, or written to a netCDF file if output is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := getPath("netcdf", Cfg, true)
		if err != nil {
			return err
		}
		output, err := getPath("output", Cfg, false)
		if err != nil {
			return err
		}
		m, err := interp.ParseMethod(Cfg.GetString("method"))
		if err != nil {
			return err
		}
		clip, err := getClip(Cfg)
		if err != nil {
			return err
		}
		return Interpolate(cmd.OutOrStdout(), path, Cfg.GetString("variable"),
			Cfg.GetString("x_var"), Cfg.GetString("y_var"),
			Cfg.GetFloat64("target_x"), Cfg.GetFloat64("target_y"), m, clip, output)
	},
	DisableAutoGenTag: true,
}

// Interpolate interpolates variable in the netCDF file at path at
// (tx, ty) and writes the series to output, or to w if output is empty.
func Interpolate(w io.Writer, path, variable, xVar, yVar string, tx, ty float64, m interp.Method, clip interp.Clip, output string) error {
	v, err := climate.ReadVolume(path, variable, xVar, yVar)
	if err != nil {
		return err
	}
	series, err := v.Interpolate(tx, ty, m, clip)
	if err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{
		"variable": variable, "x": tx, "y": ty, "method": m, "slices": len(series),
	}).Info("interpolated series")
	if output != "" {
		return climate.WriteSeries(output, variable, series)
	}
	for _, s := range series {
		fmt.Fprintln(w, s)
	}
	return nil
}

var cliRevCmd = &cobra.Command{
	Use:   "clirev",
	Short: "Revise a climate file for a hillslope",
	Long: `clirev rewrites a watershed WEPP climate file for a hillslope, scaling daily
precipitation by the ratio of hillslope to watershed monthly means and shifting
daily temperatures by the difference. Each monthly option takes 12 values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := getPath("cli", Cfg, true)
		if err != nil {
			return err
		}
		dst, err := getPath("output", Cfg, true)
		if err != nil {
			return err
		}
		rev, err := revision()
		if err != nil {
			return err
		}
		if err := climate.ReviseCLIFile(src, dst, rev); err != nil {
			return err
		}
		Log.WithFields(logrus.Fields{"cli": src, "output": dst}).Info("revised climate file")
		return nil
	},
	DisableAutoGenTag: true,
}

// revision reads the monthly means from the configuration.
func revision() (climate.Revision, error) {
	var rev climate.Revision
	for _, o := range []struct {
		name string
		dst  *[]float64
	}{
		{"ws_ppt", &rev.WatershedPPT},
		{"ws_tmax", &rev.WatershedTmax},
		{"ws_tmin", &rev.WatershedTmin},
		{"hill_ppt", &rev.HillPPT},
		{"hill_tmax", &rev.HillTmax},
		{"hill_tmin", &rev.HillTmin},
	} {
		v, err := getFloat64Slice(o.name, Cfg)
		if err != nil {
			return rev, err
		}
		*o.dst = v
	}
	return rev, nil
}

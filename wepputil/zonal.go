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
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wepp-in-the-woods/wepppyo3"
	"github.com/wepp-in-the-woods/wepppyo3/raster"
	"github.com/wepp-in-the-woods/wepppyo3/zonal"
)

var zonalCmd = &cobra.Command{
	Use:   "zonal",
	Short: "Summarize a raster within zones",
	Long: `zonal computes statistics of a parameter raster within each zone of an
integer zone raster. Use the subcommands specified below to choose the statistic.`,
	DisableAutoGenTag: true,
}

// ZonalRequest holds the inputs to ZonalMode and ZonalMedian. Keys2 is
// empty for a single-key summary.
type ZonalRequest struct {
	Keys, Keys2, Parameter, Output string
	Band                           int
	IgnoreChannels                 bool
	Ignore, Ignore2                []int32
}

func newZonalRequest() (*ZonalRequest, error) {
	var r ZonalRequest
	var err error
	if r.Keys, err = getPath("keys", Cfg, true); err != nil {
		return nil, err
	}
	if r.Parameter, err = getPath("parameter", Cfg, true); err != nil {
		return nil, err
	}
	if r.Keys2, err = getPath("keys2", Cfg, false); err != nil {
		return nil, err
	}
	if r.Output, err = getPath("output", Cfg, false); err != nil {
		return nil, err
	}
	if r.Ignore, err = getInt32Slice("ignore_keys", Cfg); err != nil {
		return nil, err
	}
	if r.Ignore2, err = getInt32Slice("ignore_keys2", Cfg); err != nil {
		return nil, err
	}
	r.Band = Cfg.GetInt("band")
	r.IgnoreChannels = Cfg.GetBool("ignore_channels")
	return &r, nil
}

var zonalModeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Find the most common value in each zone",
	Long: `mode finds the most common value of an integer parameter raster, such as a
land cover or soil map, within each zone. Ties go to the smallest value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newZonalRequest()
		if err != nil {
			return err
		}
		return ZonalMode(cmd.OutOrStdout(), r)
	},
	DisableAutoGenTag: true,
}

var zonalMedianCmd = &cobra.Command{
	Use:   "median",
	Short: "Find the median value in each zone",
	Long: `median finds the median of a parameter raster, such as slope or elevation,
within each zone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newZonalRequest()
		if err != nil {
			return err
		}
		return ZonalMedian(cmd.OutOrStdout(), r)
	},
	DisableAutoGenTag: true,
}

// ZonalMode computes and writes zone modes.
func ZonalMode(w io.Writer, r *ZonalRequest) error {
	log := Log.WithFields(logrus.Fields{"keys": r.Keys, "keys2": r.Keys2, "parameter": r.Parameter})
	if r.Keys2 != "" {
		m, err := zonal.ModeDualFiles(r.Keys, r.Keys2, r.Parameter, r.Band, r.IgnoreChannels, r.Ignore, r.Ignore2)
		if err != nil {
			return err
		}
		log.WithField("zones", len(m)).Info("computed zonal mode")
		if isXLSX(r.Output) {
			return zonal.WriteXLSXDual(r.Output, "mode", "mode", m)
		}
		return writeJSON(w, r.Output, m)
	}
	m, err := zonal.ModeFiles(r.Keys, r.Parameter, r.Band, r.IgnoreChannels, r.Ignore)
	if err != nil {
		return err
	}
	log.WithField("zones", len(m)).Info("computed zonal mode")
	if isXLSX(r.Output) {
		return zonal.WriteXLSX(r.Output, "mode", "mode", m)
	}
	return writeJSON(w, r.Output, m)
}

// ZonalMedian computes and writes zone medians.
func ZonalMedian(w io.Writer, r *ZonalRequest) error {
	log := Log.WithFields(logrus.Fields{"keys": r.Keys, "keys2": r.Keys2, "parameter": r.Parameter})
	if r.Keys2 != "" {
		m, err := zonal.MedianDualFiles(r.Keys, r.Keys2, r.Parameter, r.Band, r.IgnoreChannels, r.Ignore, r.Ignore2)
		if err != nil {
			return err
		}
		log.WithField("zones", len(m)).Info("computed zonal median")
		if isXLSX(r.Output) {
			return zonal.WriteXLSXDual(r.Output, "median", "median", m)
		}
		return writeJSON(w, r.Output, m)
	}
	m, err := zonal.MedianFiles(r.Keys, r.Parameter, r.Band, r.IgnoreChannels, r.Ignore)
	if err != nil {
		return err
	}
	log.WithField("zones", len(m)).Info("computed zonal median")
	if isXLSX(r.Output) {
		return zonal.WriteXLSX(r.Output, "median", "median", m)
	}
	return writeJSON(w, r.Output, m)
}

var zonalSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the shape and location of each zone",
	Long: `summary finds the cell count, area, centroid and, optionally, mean aspect
of each zone. The output is JSON, or GeoJSON or a shapefile of zone
centroids if the output path ends in .geojson or .shp.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := getPath("keys", Cfg, true)
		if err != nil {
			return err
		}
		aspect, err := getPath("aspect", Cfg, false)
		if err != nil {
			return err
		}
		output, err := getPath("output", Cfg, false)
		if err != nil {
			return err
		}
		return ZonalSummary(cmd.OutOrStdout(), keys, aspect, output, Cfg.GetBool("ignore_channels"))
	},
	DisableAutoGenTag: true,
}

// ZonalSummary summarizes each zone of the raster at keysPath and writes
// the result to output, or to w as JSON if output is empty.
func ZonalSummary(w io.Writer, keysPath, aspectPath, output string, ignoreChannels bool) error {
	keys, err := raster.ReadARC[int32](keysPath)
	if err != nil {
		return err
	}
	var aspect *raster.Grid[float64]
	if aspectPath != "" {
		if aspect, err = raster.ReadARC[float64](aspectPath); err != nil {
			return err
		}
	}
	s, err := zonal.Summaries(keys, aspect, ignoreChannels)
	if err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{"keys": keysPath, "zones": len(s)}).Info("summarized zones")
	switch strings.ToLower(filepath.Ext(output)) {
	case ".geojson":
		return zonal.WriteGeoJSON(output, s, keys.Projected())
	case ".shp":
		return zonal.WriteShapefile(output, s, keys.Projection)
	}
	return writeJSON(w, output, s)
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// writeJSON writes result to path, or to w if path is empty.
func writeJSON(w io.Writer, path string, result interface{}) error {
	if path == "" {
		return zonal.WriteJSON(w, result)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wepppyo3: creating %s: %w: %w", path, wepppyo3.ErrIO, err)
	}
	if err := zonal.WriteJSON(f, result); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("wepppyo3: closing %s: %w: %w", path, wepppyo3.ErrIO, err)
	}
	return nil
}

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

	"github.com/spf13/cobra"

	"github.com/wepp-in-the-woods/wepppyo3"
	"github.com/wepp-in-the-woods/wepppyo3/raster"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print raster statistics",
	Long: `stats prints the size, map type, minimum, maximum, mean, standard deviation
and percentage of valid cells of a raster.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := getPath("raster", Cfg, true)
		if err != nil {
			return err
		}
		g, err := raster.ReadARC[float64](path)
		if err != nil {
			return err
		}
		cmd.Println(g)
		cmd.Println(g.BandStatistics())
		return nil
	},
	DisableAutoGenTag: true,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a raster as a PNG image",
	Long: `render draws a raster to a PNG image with one pixel per cell and no-data
cells transparent, and optionally draws the colour legend to a second image.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := getPath("raster", Cfg, true)
		if err != nil {
			return err
		}
		output, err := getPath("output", Cfg, true)
		if err != nil {
			return err
		}
		legend, err := getPath("legend", Cfg, false)
		if err != nil {
			return err
		}
		return Render(path, output, legend)
	},
	DisableAutoGenTag: true,
}

// Render draws the raster at path to the PNG file output, and its legend
// to the PNG file legend if legend is not empty.
func Render(path, output, legend string) error {
	g, err := raster.ReadARC[float64](path)
	if err != nil {
		return err
	}
	if err := writePNG(output, g.RenderPNG); err != nil {
		return err
	}
	if legend == "" {
		return nil
	}
	return writePNG(legend, func(w io.Writer) error {
		return g.RenderLegend(w, g.MapType.String())
	})
}

func writePNG(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wepppyo3: creating %s: %w: %w", path, wepppyo3.ErrIO, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("wepppyo3: closing %s: %w: %w", path, wepppyo3.ErrIO, err)
	}
	return nil
}

var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Print a raster as text",
	Long:  `display prints a raster to the terminal, one column per cell.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := getPath("raster", Cfg, true)
		if err != nil {
			return err
		}
		g, err := raster.ReadARC[float64](path)
		if err != nil {
			return err
		}
		return g.Display(cmd.OutOrStdout(), Cfg.GetBool("color"))
	},
	DisableAutoGenTag: true,
}

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

package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/ctessum/geom/carto"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/wepp-in-the-woods/wepppyo3"
)

// ColorMap returns a color map scaled to the valid values of g.
func (g *Grid[T]) ColorMap() (*carto.ColorMap, error) {
	vals := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if !g.IsNoData(v) {
			vals = append(vals, float64(v))
		}
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("raster: grid %q has no valid cells to render: %w", g.Name, wepppyo3.ErrConfig)
	}
	cmap := carto.NewColorMap(carto.Linear)
	cmap.AddArray(vals)
	cmap.Set()
	return cmap, nil
}

// RenderPNG writes a PNG preview of g to w with one pixel per cell.
// No-data cells are transparent.
func (g *Grid[T]) RenderPNG(w io.Writer) error {
	cmap, err := g.ColorMap()
	if err != nil {
		return err
	}
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, v := range g.Data {
		x, y := g.IndexToXY(i)
		if g.IsNoData(v) {
			img.SetNRGBA(x, y, color.NRGBA{})
			continue
		}
		img.SetNRGBA(x, y, cmap.GetColor(float64(v)))
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("raster: encoding png: %w: %w", wepppyo3.ErrIO, err)
	}
	return nil
}

// RenderLegend writes a PNG legend for the color map of g to w.
func (g *Grid[T]) RenderLegend(w io.Writer, label string) error {
	cmap, err := g.ColorMap()
	if err != nil {
		return err
	}
	const (
		LegendWidth  = 3.70 * vg.Inch
		LegendHeight = LegendWidth * 0.1067
	)
	cmap.LegendWidth = LegendWidth
	cmap.LegendHeight = LegendHeight
	cmap.LineWidth = 0.5
	cmap.FontSize = 8
	img := vgimg.PngCanvas{Canvas: vgimg.New(LegendWidth, LegendHeight)}
	canvas := draw.New(img)
	if err := cmap.Legend(&canvas, label); err != nil {
		return fmt.Errorf("raster: drawing legend: %v", err)
	}
	if _, err := img.WriteTo(w); err != nil {
		return fmt.Errorf("raster: writing legend: %w: %w", wepppyo3.ErrIO, err)
	}
	return nil
}

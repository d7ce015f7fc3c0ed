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

	"github.com/ctessum/geom/proj"

	"github.com/wepp-in-the-woods/wepppyo3"
)

// WGS84 is the geographic coordinate system used for longitude and
// latitude output.
const WGS84 = "+proj=longlat +datum=WGS84 +no_defs"

// setProjection parses the projection and derives the corner-based
// geographic approximation. Failures leave the grid unprojected.
func (g *Grid[T]) setProjection() {
	g.sr = nil
	g.wgsTransform = [4]float64{}
	if g.Projection == "" {
		return
	}
	sr, err := proj.Parse(g.Projection)
	if err != nil {
		return
	}
	ct, err := newWGSTransform(sr)
	if err != nil {
		return
	}
	gt := g.GeoTransform
	w, h := float64(g.Width), float64(g.Height)
	llLon, llLat, err := ct(gt[0], gt[3]+h*gt[5])
	if err != nil {
		return
	}
	urLon, urLat, err := ct(gt[0]+w*gt[1], gt[3])
	if err != nil {
		return
	}
	g.sr = sr
	g.wgsTransform = [4]float64{llLon, urLat, (urLon - llLon) / w, (urLat - llLat) / h}
}

func newWGSTransform(sr *proj.SR) (proj.Transformer, error) {
	wgs, err := proj.Parse(WGS84)
	if err != nil {
		return nil, err
	}
	return sr.NewTransform(wgs)
}

// Projected reports whether the grid has a usable projection.
func (g *Grid[T]) Projected() bool { return g.sr != nil }

// WGSTransform returns the corner-based approximation
// [ll_lon, ur_lat, dlon, dlat], which is all zeros when the grid has no
// usable projection. It is only valid for north-up grids.
func (g *Grid[T]) WGSTransform() [4]float64 { return g.wgsTransform }

// PxToWGS approximates the longitude and latitude of a pixel coordinate
// by linear interpolation between the grid corners.
func (g *Grid[T]) PxToWGS(px, py int) (lon, lat float64) {
	wt := g.wgsTransform
	return wt[0] + float64(px)*wt[2], wt[1] - float64(py)*wt[3]
}

// PxToLngLat reprojects the world coordinate of a pixel to longitude and
// latitude.
func (g *Grid[T]) PxToLngLat(px, py int) (lng, lat float64, err error) {
	if g.sr == nil {
		return 0, 0, fmt.Errorf("raster: grid %q has no usable projection", g.Name)
	}
	ct, err := newWGSTransform(g.sr)
	if err != nil {
		return 0, 0, fmt.Errorf("raster: creating transform: %v", err)
	}
	e, n := g.PixelToWorld(float64(px), float64(py))
	return ct(e, n)
}

// CentroidLngLat returns the longitude and latitude of the centroid cell
// of the given indices.
func (g *Grid[T]) CentroidLngLat(indices []int) (lng, lat float64, err error) {
	x, y, ok := g.CentroidOf(indices)
	if !ok {
		return 0, 0, fmt.Errorf("raster: centroid of no cells: %w", wepppyo3.ErrDomain)
	}
	return g.PxToLngLat(x, y)
}

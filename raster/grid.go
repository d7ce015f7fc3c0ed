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

// Package raster provides a single-band raster grid with an affine
// geo-transform, no-data semantics, and the zonal query primitives used
// by the aggregation and soil-loss packages.
package raster

import (
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"

	"github.com/wepp-in-the-woods/wepppyo3"
)

// Value is the set of element types a Grid can hold: integer types for
// classification rasters and floating point types for measurements.
type Value interface {
	~int32 | ~int64 | ~int | ~float32 | ~float64
}

// Grid is a row-major raster where the cell at column x and row y is
// stored at Data[y*Width+x]. A Grid returned by NewGrid or a reader is
// treated as immutable; EmptyClone creates a mutable output buffer.
type Grid[T Value] struct {
	Name     string
	Width    int
	Height   int
	CellSize float64
	Data     []T

	// NoData, if not nil, is the sentinel value for cells without a
	// valid measurement. Comparison is by exact equality.
	NoData *T

	// GeoTransform maps pixel (x, y) to world (E, N):
	// E = gt[0] + x*gt[1] + y*gt[2], N = gt[3] + x*gt[4] + y*gt[5].
	GeoTransform [6]float64

	// Projection is the WKT or proj4 definition of the world
	// coordinates, or empty if unknown.
	Projection string

	MapType MapType

	sr *proj.SR

	// wgsTransform approximates geographic coordinates from pixel
	// coordinates: [ll_lon, ur_lat, dlon/px, dlat/px].
	wgsTransform [4]float64
}

// NewGrid creates a grid from row-major data. The cell size is taken
// from the geo-transform. A projection that cannot be parsed is tolerated:
// the grid is still created, but geographic lookups are unavailable.
func NewGrid[T Value](name string, width, height int, data []T, noData *T, gt [6]float64, projection string) (*Grid[T], error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: grid %q has invalid dimensions %dx%d: %w", name, width, height, wepppyo3.ErrShape)
	}
	if len(data) != width*height {
		return nil, fmt.Errorf("raster: grid %q has %d values for %dx%d cells: %w",
			name, len(data), width, height, wepppyo3.ErrShape)
	}
	g := &Grid[T]{
		Name:         name,
		Width:        width,
		Height:       height,
		CellSize:     gt[1],
		Data:         data,
		NoData:       noData,
		GeoTransform: gt,
		Projection:   projection,
		MapType:      ParseMapType(name),
	}
	g.setProjection()
	return g, nil
}

// EmptyClone returns a grid with the same shape, no-data value,
// transform and projection as g, with every cell set to zero.
func (g *Grid[T]) EmptyClone() *Grid[T] {
	o := *g
	o.Data = make([]T, len(g.Data))
	if g.NoData != nil {
		nd := *g.NoData
		o.NoData = &nd
	}
	return &o
}

// EmptyCloneAs returns a zero-filled grid of element type U with the same
// geometry as g and the given no-data value.
func EmptyCloneAs[U, T Value](g *Grid[T], noData *U) *Grid[U] {
	return &Grid[U]{
		Name:         g.Name,
		Width:        g.Width,
		Height:       g.Height,
		CellSize:     g.CellSize,
		Data:         make([]U, len(g.Data)),
		NoData:       noData,
		GeoTransform: g.GeoTransform,
		Projection:   g.Projection,
		MapType:      g.MapType,
		sr:           g.sr,
		wgsTransform: g.wgsTransform,
	}
}

// Len returns the number of cells in the grid.
func (g *Grid[T]) Len() int { return g.Width * g.Height }

// IsNoData reports whether v equals the no-data sentinel.
func (g *Grid[T]) IsNoData(v T) bool {
	return g.NoData != nil && v == *g.NoData
}

// SameShape reports whether g and o have the same dimensions.
func SameShape[T, U Value](g *Grid[T], o *Grid[U]) bool {
	return g.Width == o.Width && g.Height == o.Height
}

// IndexToXY converts a row-major index to column and row.
func (g *Grid[T]) IndexToXY(i int) (x, y int) {
	return i % g.Width, i / g.Width
}

// XYToIndex converts column and row to a row-major index.
func (g *Grid[T]) XYToIndex(x, y int) int {
	return y*g.Width + x
}

// DistanceBetween returns the Euclidean distance between the centers of
// two cells in world units.
func (g *Grid[T]) DistanceBetween(i1, i2 int) float64 {
	x1, y1 := g.IndexToXY(i1)
	x2, y2 := g.IndexToXY(i2)
	return math.Hypot(float64(x2-x1), float64(y2-y1)) * g.CellSize
}

// PixelToWorld applies the geo-transform to a pixel coordinate.
func (g *Grid[T]) PixelToWorld(x, y float64) (e, n float64) {
	gt := g.GeoTransform
	e = gt[0] + x*gt[1] + y*gt[2]
	n = gt[3] + x*gt[4] + y*gt[5]
	return
}

// CoordinatesOf returns the world coordinates of each index, in order.
func (g *Grid[T]) CoordinatesOf(indices []int) []geom.Point {
	o := make([]geom.Point, len(indices))
	for k, i := range indices {
		x, y := g.IndexToXY(i)
		o[k].X, o[k].Y = g.PixelToWorld(float64(x), float64(y))
	}
	return o
}

// Bounds returns the world extent of the grid.
func (g *Grid[T]) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	for _, c := range [][2]float64{{0, 0}, {float64(g.Width), 0},
		{0, float64(g.Height)}, {float64(g.Width), float64(g.Height)}} {
		e, n := g.PixelToWorld(c[0], c[1])
		b.Extend(geom.NewBoundsPoint(geom.Point{X: e, Y: n}))
	}
	return b
}

// UniqueValues returns the distinct values of all valid cells in
// ascending order.
func (g *Grid[T]) UniqueValues() []T {
	seen := make(map[T]struct{})
	for _, v := range g.Data {
		if g.IsNoData(v) {
			continue
		}
		seen[v] = struct{}{}
	}
	o := make([]T, 0, len(seen))
	for v := range seen {
		o = append(o, v)
	}
	sort.Slice(o, func(i, j int) bool { return o[i] < o[j] })
	return o
}

// IndicesOf returns, in ascending order, the indices of cells exactly
// equal to target. The no-data value is not treated specially.
func (g *Grid[T]) IndicesOf(target T) []int {
	var o []int
	for i, v := range g.Data {
		if v == target {
			o = append(o, i)
		}
	}
	return o
}

// Mask returns a row-major slice that is true where the cell is valid.
func (g *Grid[T]) Mask() []bool {
	o := make([]bool, len(g.Data))
	for i, v := range g.Data {
		o[i] = !g.IsNoData(v)
	}
	return o
}

// CentroidOf returns the mean pixel coordinate of the given cells,
// rounded to the nearest cell. It returns false for an empty set.
func (g *Grid[T]) CentroidOf(indices []int) (x, y int, ok bool) {
	if len(indices) == 0 {
		return 0, 0, false
	}
	var sx, sy float64
	for _, i := range indices {
		px, py := g.IndexToXY(i)
		sx += float64(px)
		sy += float64(py)
	}
	n := float64(len(indices))
	return int(math.Round(sx / n)), int(math.Round(sy / n)), true
}

func (g *Grid[T]) String() string {
	nd := "-"
	if g.NoData != nil {
		nd = fmt.Sprint(*g.NoData)
	}
	p := g.Projection
	if p == "" {
		p = "-"
	}
	return fmt.Sprintf("Raster: %s\nShape: %d x %d\nCellSize: %g\nTransform: %v\nNo Data: %s\nProjection: %s",
		g.Name, g.Width, g.Height, g.CellSize, g.GeoTransform, nd, p)
}

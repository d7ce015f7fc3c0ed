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

package interp

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ctessum/sparse"

	"github.com/wepp-in-the-woods/wepppyo3"
)

// Method is a 2-D interpolation method.
type Method int

// Interpolation methods.
const (
	MethodNearest Method = iota
	MethodLinear
	MethodCubic
)

func (m Method) String() string {
	switch m {
	case MethodNearest:
		return "nearest"
	case MethodLinear:
		return "linear"
	case MethodCubic:
		return "cubic"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod parses "nearest", "linear" or "cubic".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest":
		return MethodNearest, nil
	case "linear", "bilinear":
		return MethodLinear, nil
	case "cubic", "bicubic":
		return MethodCubic, nil
	}
	return 0, fmt.Errorf("interp: unknown interpolation method %q: %w", s, wepppyo3.ErrConfig)
}

// Clip bounds interpolated values. A nil bound is not applied.
type Clip struct {
	Min, Max *float64
}

// Apply clamps each element of vals in place, applying Min before Max.
func (c Clip) Apply(vals []float64) {
	if c.Min != nil {
		for i, v := range vals {
			if v < *c.Min {
				vals[i] = *c.Min
			}
		}
	}
	if c.Max != nil {
		for i, v := range vals {
			if v > *c.Max {
				vals[i] = *c.Max
			}
		}
	}
}

// Slice interpolates a 2-D field at (tx, ty). xs and ys must be
// ascending, and the field value at (xs[i], ys[j]) is slice[i*len(ys)+j].
func Slice(tx, ty float64, xs, ys, slice []float64, m Method) (float64, error) {
	nx, ny := len(xs), len(ys)
	if nx == 0 || ny == 0 || len(slice) != nx*ny {
		return 0, fmt.Errorf("interp: slice of %d values for %dx%d coordinates: %w",
			len(slice), nx, ny, wepppyo3.ErrShape)
	}
	if err := inDomain(tx, ty, xs, ys); err != nil {
		return 0, err
	}
	switch m {
	case MethodNearest:
		return slice[Nearest(xs, tx)*ny+Nearest(ys, ty)], nil
	case MethodLinear:
		i0, i1, fx, err := Bracket(xs, tx)
		if err != nil {
			return 0, err
		}
		j0, j1, fy, err := Bracket(ys, ty)
		if err != nil {
			return 0, err
		}
		f00 := slice[i0*ny+j0]
		f01 := slice[i0*ny+j1]
		f10 := slice[i1*ny+j0]
		f11 := slice[i1*ny+j1]
		f0 := f00*(1-fy) + f01*fy
		f1 := f10*(1-fy) + f11*fy
		return f0*(1-fx) + f1*fx, nil
	case MethodCubic:
		col := make([]float64, nx)
		rows := make([]float64, ny)
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				col[i] = slice[i*ny+j]
			}
			v, err := Cubic(xs, col, tx)
			if err != nil {
				return 0, err
			}
			rows[j] = v
		}
		return Cubic(ys, rows, ty)
	}
	return 0, fmt.Errorf("interp: unknown interpolation method %v: %w", m, wepppyo3.ErrConfig)
}

func inDomain(tx, ty float64, xs, ys []float64) error {
	if tx < xs[0] || tx > xs[len(xs)-1] || ty < ys[0] || ty > ys[len(ys)-1] ||
		math.IsNaN(tx) || math.IsNaN(ty) {
		return fmt.Errorf("interp: target (%g, %g) is outside the grid domain [%g, %g]x[%g, %g]: %w",
			tx, ty, xs[0], xs[len(xs)-1], ys[0], ys[len(ys)-1], wepppyo3.ErrDomain)
	}
	return nil
}

// ascending returns a copy of coords in ascending order and whether it
// had to be reversed. Coordinates that are not monotonic are an error.
func ascending(name string, coords []float64) ([]float64, bool, error) {
	c := append([]float64(nil), coords...)
	rev := len(c) > 1 && c[0] > c[len(c)-1]
	if rev {
		for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
			c[i], c[j] = c[j], c[i]
		}
	}
	if !sort.Float64sAreSorted(c) {
		return nil, false, fmt.Errorf("interp: %s coordinates are not monotonic: %w", name, wepppyo3.ErrConfig)
	}
	return c, rev, nil
}

// Volume interpolates every [nx, ny] slice of the [nx, ny, nslices]
// volume at (tx, ty) and returns one value per slice, clipped by clip.
// xs and ys may each be ascending or descending; descending axes are
// reversed along with the volume, so both orientations give the same
// result. vol is not modified.
func Volume(tx, ty float64, xs, ys []float64, vol *sparse.DenseArray, m Method, clip Clip) ([]float64, error) {
	if len(vol.Shape) != 3 {
		return nil, fmt.Errorf("interp: data must be 3-D [nx, ny, nslices], has shape %v: %w", vol.Shape, wepppyo3.ErrShape)
	}
	nx, ny, ns := vol.Shape[0], vol.Shape[1], vol.Shape[2]
	if nx != len(xs) || ny != len(ys) || nx == 0 || ny == 0 {
		return nil, fmt.Errorf("interp: data shape %v does not match %d x and %d y coordinates: %w",
			vol.Shape, len(xs), len(ys), wepppyo3.ErrShape)
	}
	ax, revX, err := ascending("x", xs)
	if err != nil {
		return nil, err
	}
	ay, revY, err := ascending("y", ys)
	if err != nil {
		return nil, err
	}
	if err := inDomain(tx, ty, ax, ay); err != nil {
		return nil, err
	}

	out := make([]float64, ns)
	slice := make([]float64, nx*ny)
	for k := 0; k < ns; k++ {
		for i := 0; i < nx; i++ {
			si := i
			if revX {
				si = nx - 1 - i
			}
			for j := 0; j < ny; j++ {
				sj := j
				if revY {
					sj = ny - 1 - j
				}
				slice[i*ny+j] = vol.Elements[(si*ny+sj)*ns+k]
			}
		}
		v, err := Slice(tx, ty, ax, ay, slice, m)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	clip.Apply(out)
	return out, nil
}

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

// Package interp implements nearest, linear and Catmull-Rom cubic
// interpolation over sorted coordinate arrays, and their separable
// extensions to 2-D slices and 3-D volumes. No function extrapolates:
// a query outside the coordinate range is an error.
package interp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/wepp-in-the-woods/wepppyo3"
)

// degenerate is the span below which two coordinates are treated as
// coincident.
const degenerate = 1e-12

// Bracket finds the consecutive pair of coords, which must be in
// ascending order, that contains v, along with the fraction t of the way
// from coords[left] to coords[right]. An exact match returns (i, i, 0).
func Bracket(coords []float64, v float64) (left, right int, t float64, err error) {
	n := len(coords)
	if n == 0 {
		return 0, 0, 0, fmt.Errorf("interp: empty coordinate array: %w", wepppyo3.ErrShape)
	}
	if v < coords[0] || v > coords[n-1] || math.IsNaN(v) {
		return 0, 0, 0, fmt.Errorf("interp: %g outside [%g, %g]: %w",
			v, floats.Min(coords), floats.Max(coords), wepppyo3.ErrDomain)
	}
	if v == coords[0] {
		return 0, 0, 0, nil
	}
	if v == coords[n-1] {
		return n - 1, n - 1, 0, nil
	}
	left, right = 0, n-1
	for right-left > 1 {
		mid := (left + right) / 2
		switch {
		case coords[mid] == v:
			return mid, mid, 0, nil
		case coords[mid] < v:
			left = mid
		default:
			right = mid
		}
	}
	if span := coords[right] - coords[left]; math.Abs(span) >= degenerate {
		t = (v - coords[left]) / span
	}
	return left, right, t, nil
}

// Nearest returns the index of the coordinate closest to v. Ties go to
// the lowest index. It returns -1 for an empty array.
func Nearest(coords []float64, v float64) int {
	idx := -1
	best := math.MaxFloat64
	for i, c := range coords {
		if d := math.Abs(c - v); d < best {
			best = d
			idx = i
		}
	}
	return idx
}

// CatmullRom evaluates the zero-tension Catmull-Rom spline through
// f0..f3 at t in [0, 1] between f1 and f2.
func CatmullRom(f0, f1, f2, f3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*f1 +
		(-f0+f2)*t +
		(2*f0-5*f1+4*f2-f3)*t2 +
		(-f0+3*f1-3*f2+f3)*t3)
}

// neighbors returns idx-1, idx, idx+1 and idx+2 clamped to [0, max].
func neighbors(idx, max int) (i0, i1, i2, i3 int) {
	i0, i1, i2, i3 = idx-1, idx, idx+1, idx+2
	if i0 < 0 {
		i0 = 0
	}
	if i2 > max {
		i2 = max
	}
	if i3 > max {
		i3 = max
	}
	return
}

// Cubic interpolates values, sampled at the ascending coords, at v with
// a Catmull-Rom spline. At least 4 samples are required. Near either
// end the missing neighbor is replaced by the edge sample.
func Cubic(coords, values []float64, v float64) (float64, error) {
	n := len(coords)
	if len(values) != n {
		return 0, fmt.Errorf("interp: %d values for %d coordinates: %w", len(values), n, wepppyo3.ErrShape)
	}
	if n < 4 {
		return 0, fmt.Errorf("interp: cubic interpolation needs at least 4 samples, got %d: %w", n, wepppyo3.ErrConfig)
	}
	left, right, _, err := Bracket(coords, v)
	if err != nil {
		return 0, err
	}
	if left == right {
		return values[left], nil
	}
	i0, i1, i2, i3 := neighbors(left, n-1)
	var t float64
	if span := coords[i2] - coords[i1]; math.Abs(span) >= degenerate {
		t = (v - coords[i1]) / span
	}
	return CatmullRom(values[i0], values[i1], values[i2], values[i3], t), nil
}

// Linear interpolates values, sampled at the ascending coords, at v.
func Linear(coords, values []float64, v float64) (float64, error) {
	if len(values) != len(coords) {
		return 0, fmt.Errorf("interp: %d values for %d coordinates: %w", len(values), len(coords), wepppyo3.ErrShape)
	}
	left, right, t, err := Bracket(coords, v)
	if err != nil {
		return 0, err
	}
	return values[left]*(1-t) + values[right]*t, nil
}

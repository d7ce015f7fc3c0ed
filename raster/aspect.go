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
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wepp-in-the-woods/wepppyo3"
)

// DetermineAspect returns the circular mean, in degrees within [0, 360),
// of the aspect values of the given cells. The grid must be a TASPEC
// grid.
func (g *Grid[T]) DetermineAspect(indices []int) (float64, error) {
	if g.MapType != TASPEC {
		return 0, fmt.Errorf("raster: aspect requires a TASPEC grid, %q is %v: %w",
			g.Name, g.MapType, wepppyo3.ErrConfig)
	}
	if len(indices) == 0 {
		return 0, fmt.Errorf("raster: aspect of an empty zone: %w", wepppyo3.ErrConfig)
	}
	rad := make([]float64, len(indices))
	for k, i := range indices {
		rad[k] = float64(g.Data[i]) * math.Pi / 180
	}
	deg := stat.CircularMean(rad, nil) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg, nil
}

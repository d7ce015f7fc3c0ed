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
)

// BandStats holds summary statistics of the valid cells of a grid.
type BandStats struct {
	Min, Max, Mean float64

	// Std is the population standard deviation.
	Std float64

	// ValidPercent is the share of cells that are not no-data, in
	// percent.
	ValidPercent float64
}

// BandStatistics computes statistics over the valid cells in a single
// pass. The variance uses the sum-of-squares form, which is adequate for
// the magnitude of terrain and climate values. A grid with no valid
// cells yields NaN statistics and a zero valid percentage.
func (g *Grid[T]) BandStatistics() BandStats {
	min, max := math.Inf(1), math.Inf(-1)
	var sum, sumSq float64
	var n int
	for _, v := range g.Data {
		if g.IsNoData(v) {
			continue
		}
		f := float64(v)
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}
		sum += f
		sumSq += f * f
		n++
	}
	if n == 0 {
		return BandStats{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN(), Std: math.NaN()}
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return BandStats{
		Min:          min,
		Max:          max,
		Mean:         mean,
		Std:          math.Sqrt(variance),
		ValidPercent: 100 * float64(n) / float64(len(g.Data)),
	}
}

func (s BandStats) String() string {
	return fmt.Sprintf("Min: %g\nMax: %g\nMean: %g\nStd Dev: %g\nValid Percent: %g",
		s.Min, s.Max, s.Mean, s.Std, s.ValidPercent)
}

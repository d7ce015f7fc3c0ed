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

package soilloss

import (
	"fmt"
	"path/filepath"

	"github.com/wepp-in-the-woods/wepppyo3"
	"github.com/wepp-in-the-woods/wepppyo3/raster"
	"github.com/wepp-in-the-woods/wepppyo3/zonal"
)

// HillslopeIDs returns the hillslope zone ids of zones in ascending
// order: every distinct value except zero and channel ids.
func HillslopeIDs(zones *raster.Grid[int32]) []int32 {
	var ids []int32
	for _, id := range zones.UniqueValues() {
		if id == 0 || zonal.IsChannel(id) || zones.IsNoData(id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// ProfilePath returns the plot file for the hillslope of the given
// 1-based rank.
func ProfilePath(dir string, rank int) string {
	return filepath.Join(dir, fmt.Sprintf("H%d.plot.dat", rank))
}

// BuildSoilLossGrid fills each hillslope's cells with soil loss looked up
// from the hillslope's profile by the cell's discharge relative to the
// hillslope's maximum. Hillslopes are ranked by ascending id and the
// profile for rank r is read from H{r}.plot.dat in dir. A missing
// profile fails the whole build. It returns the output grid and the
// number of hillslopes processed. Cells outside any hillslope are zero.
func BuildSoilLossGrid(zones *raster.Grid[int32], discharge *raster.Grid[float64], dir string) (*raster.Grid[float64], int, error) {
	if !raster.SameShape(zones, discharge) {
		return nil, 0, fmt.Errorf("soilloss: zone grid is %dx%d but discharge grid is %dx%d: %w",
			zones.Width, zones.Height, discharge.Width, discharge.Height, wepppyo3.ErrShape)
	}
	out := discharge.EmptyClone()
	ids := HillslopeIDs(zones)
	for i, id := range ids {
		rank := i + 1
		indices := zones.IndicesOf(id)

		var max float64
		for _, idx := range indices {
			if v := discharge.Data[idx]; v > max && !discharge.IsNoData(v) {
				max = v
			}
		}

		path := ProfilePath(dir, rank)
		p, err := ReadProfile(path)
		if err != nil {
			return nil, i, fmt.Errorf("soilloss: hillslope %d: %w", id, err)
		}
		curve := p.UniformCurve()
		for _, idx := range indices {
			var normed float64
			if max > 0 {
				normed = discharge.Data[idx] / max
			}
			out.Data[idx] = curve.At(normed)
		}
	}
	return out, len(ids), nil
}

// BuildSoilLossGridFiles runs BuildSoilLossGrid on the rasters at
// zonePath and dischargePath and writes the result to out.
func BuildSoilLossGridFiles(zonePath, dischargePath, dir, out string) (int, error) {
	zones, err := raster.ReadARC[int32](zonePath)
	if err != nil {
		return 0, err
	}
	discharge, err := raster.ReadARC[float64](dischargePath)
	if err != nil {
		return 0, err
	}
	g, n, err := BuildSoilLossGrid(zones, discharge, dir)
	if err != nil {
		return n, err
	}
	g.Name = "soil_loss"
	if err := g.WriteARC(out); err != nil {
		return n, err
	}
	return n, nil
}

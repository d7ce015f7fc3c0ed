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

package zonal

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"

	"github.com/wepp-in-the-woods/wepppyo3"
	"github.com/wepp-in-the-woods/wepppyo3/raster"
)

// Summary describes one zone of a subcatchment grid.
type Summary struct {
	ID    int32
	Cells int

	// Area is in squared world units.
	Area float64

	// Column and row of the rounded zone centroid.
	X, Y int

	// World coordinates of the centroid.
	Easting, Northing float64

	// Geographic coordinates of the centroid; zero if the grid is not
	// projected.
	Lng, Lat float64

	// Aspect is the circular mean aspect in degrees, or NaN if no aspect
	// grid was given.
	Aspect float64
}

// Summaries describes each zone of subwta in ascending id order. Channels
// are omitted if ignoreChannels is set. aspect may be nil; otherwise it
// must be a TASPEC grid of the same shape.
func Summaries(subwta *raster.Grid[int32], aspect *raster.Grid[float64], ignoreChannels bool) ([]Summary, error) {
	if aspect != nil {
		if err := checkShape(subwta, aspect); err != nil {
			return nil, err
		}
	}
	var o []Summary
	for _, id := range subwta.UniqueValues() {
		if ignoreChannels && IsChannel(id) {
			continue
		}
		idx := subwta.IndicesOf(id)
		x, y, _ := subwta.CentroidOf(idx)
		s := Summary{
			ID:     id,
			Cells:  len(idx),
			Area:   float64(len(idx)) * subwta.CellSize * subwta.CellSize,
			X:      x,
			Y:      y,
			Aspect: math.NaN(),
		}
		s.Easting, s.Northing = subwta.PixelToWorld(float64(x), float64(y))
		if subwta.Projected() {
			var err error
			s.Lng, s.Lat, err = subwta.CentroidLngLat(idx)
			if err != nil {
				return nil, fmt.Errorf("zonal: zone %d centroid: %v", id, err)
			}
		}
		if aspect != nil {
			a, err := aspect.DetermineAspect(idx)
			if err != nil {
				return nil, fmt.Errorf("zonal: zone %d: %w", id, err)
			}
			s.Aspect = a
		}
		o = append(o, s)
	}
	return o, nil
}

// MarshalJSON leaves the aspect out when it is unknown.
func (s Summary) MarshalJSON() ([]byte, error) {
	type summary Summary
	var aspect *float64
	if !math.IsNaN(s.Aspect) {
		aspect = &s.Aspect
	}
	return json.Marshal(struct {
		summary
		Aspect *float64 `json:",omitempty"`
	}{summary(s), aspect})
}

func (s Summary) properties() map[string]float64 {
	p := map[string]float64{
		"TopazID":  float64(s.ID),
		"Cells":    float64(s.Cells),
		"Area":     s.Area,
		"Easting":  s.Easting,
		"Northing": s.Northing,
	}
	if !math.IsNaN(s.Aspect) {
		p["Aspect"] = s.Aspect
	}
	return p
}

// WriteGeoJSON writes the zone centroids as a GeoJSON feature collection
// in longitude and latitude. The grid the summaries came from must have
// been projected.
func WriteGeoJSON(path string, summaries []Summary, projected bool) error {
	if !projected {
		return fmt.Errorf("zonal: GeoJSON output requires a projected grid: %w", wepppyo3.ErrConfig)
	}
	o := new(carto.GeoJSON)
	o.Type = "FeatureCollection"
	o.Features = make([]*carto.GeoJSONfeature, len(summaries))
	for i, s := range summaries {
		g, err := geojson.ToGeoJSON(geom.Point{X: s.Lng, Y: s.Lat})
		if err != nil {
			return fmt.Errorf("zonal: encoding zone %d: %v", s.ID, err)
		}
		o.Features[i] = &carto.GeoJSONfeature{
			Type:       "Feature",
			Geometry:   g,
			Properties: s.properties(),
		}
	}
	b, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("zonal: %v", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("zonal: writing %s: %w: %w", path, wepppyo3.ErrIO, err)
	}
	return nil
}

type zoneRecord struct {
	geom.Point
	TopazID             int
	Cells               int
	Area, Aspect        float64
	Longitude, Latitude float64
}

// WriteShapefile writes the zone centroids as a point shapefile in the
// world coordinates of the grid. If projection is not empty it is
// written to a .prj file alongside.
func WriteShapefile(path string, summaries []Summary, projection string) error {
	e, err := shp.NewEncoder(path, zoneRecord{})
	if err != nil {
		return fmt.Errorf("zonal: creating shapefile: %w: %v", wepppyo3.ErrIO, err)
	}
	for _, s := range summaries {
		aspect := s.Aspect
		if math.IsNaN(aspect) {
			aspect = -1
		}
		err := e.Encode(zoneRecord{
			Point:     geom.Point{X: s.Easting, Y: s.Northing},
			TopazID:   int(s.ID),
			Cells:     s.Cells,
			Area:      s.Area,
			Aspect:    aspect,
			Longitude: s.Lng,
			Latitude:  s.Lat,
		})
		if err != nil {
			e.Close()
			return fmt.Errorf("zonal: encoding zone %d: %v", s.ID, err)
		}
	}
	e.Close()
	if projection == "" {
		return nil
	}
	prj := strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
	if err := os.WriteFile(prj, []byte(projection), 0644); err != nil {
		return fmt.Errorf("zonal: writing projection: %w: %w", wepppyo3.ErrIO, err)
	}
	return nil
}

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

// Package zonal computes categorical statistics of a parameter raster
// grouped by the zones of one or two key rasters.
package zonal

import (
	"fmt"
	"sort"

	"github.com/wepp-in-the-woods/wepppyo3"
	"github.com/wepp-in-the-woods/wepppyo3/raster"
)

// IsChannel reports whether a subcatchment id denotes a channel, which by
// TOPAZ convention ends in 4.
func IsChannel[K raster.Value](id K) bool {
	return int64(id)%10 == 4
}

// keyFilter returns a function that reports whether cells with key k are
// excluded. The no-data value of the key grid is always excluded.
func keyFilter[K raster.Value](g *raster.Grid[K], ignoreChannels bool, ignore []K) func(k K) bool {
	skip := make(map[K]bool, len(ignore)+1)
	for _, k := range ignore {
		skip[k] = true
	}
	if g.NoData != nil {
		skip[*g.NoData] = true
	}
	return func(k K) bool {
		return skip[k] || (ignoreChannels && IsChannel(k))
	}
}

func checkShape[K, P raster.Value](keys *raster.Grid[K], params *raster.Grid[P]) error {
	if !raster.SameShape(keys, params) {
		return fmt.Errorf("zonal: key grid %q is %dx%d but parameter grid %q is %dx%d: %w",
			keys.Name, keys.Width, keys.Height, params.Name, params.Width, params.Height, wepppyo3.ErrShape)
	}
	return nil
}

// histogram counts occurrences of parameter values.
type histogram[P raster.Value] map[P]int

// mode returns the most frequent value, choosing the smallest value
// among ties.
func (h histogram[P]) mode() P {
	vals := make([]P, 0, len(h))
	for v := range h {
		vals = append(vals, v)
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
	var best P
	bestN := 0
	for _, v := range vals {
		if h[v] > bestN {
			best, bestN = v, h[v]
		}
	}
	return best
}

// median sorts vals in place and returns the middle element for an odd
// count or the mean of the two middle elements for an even count. vals
// must not be empty.
func median(vals []float64) float64 {
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[(n-1)/2] + vals[n/2]) / 2
}

// Mode returns, for each zone of keys, the most frequent value of the
// co-located cells of params. Cells are skipped where the parameter is
// no-data, the key is in ignore or is the key grid's no-data value, or
// ignoreChannels is set and the key is a channel. Ties resolve to the
// smallest value.
func Mode[K, P raster.Value](keys *raster.Grid[K], params *raster.Grid[P], ignoreChannels bool, ignore []K) (map[K]P, error) {
	if err := checkShape(keys, params); err != nil {
		return nil, err
	}
	skip := keyFilter(keys, ignoreChannels, ignore)
	counts := make(map[K]histogram[P])
	for i, k := range keys.Data {
		v := params.Data[i]
		if params.IsNoData(v) || skip(k) {
			continue
		}
		h, ok := counts[k]
		if !ok {
			h = make(histogram[P])
			counts[k] = h
		}
		h[v]++
	}
	o := make(map[K]P, len(counts))
	for k, h := range counts {
		o[k] = h.mode()
	}
	return o, nil
}

// ModeDual is like Mode, but groups cells by the pair of zones from keys
// and keys2. The channel rule applies to keys only.
func ModeDual[K, K2, P raster.Value](keys *raster.Grid[K], keys2 *raster.Grid[K2], params *raster.Grid[P],
	ignoreChannels bool, ignore []K, ignore2 []K2) (map[K]map[K2]P, error) {
	if err := checkShape(keys, params); err != nil {
		return nil, err
	}
	if err := checkShape(keys2, params); err != nil {
		return nil, err
	}
	skip := keyFilter(keys, ignoreChannels, ignore)
	skip2 := keyFilter(keys2, false, ignore2)
	counts := make(map[K]map[K2]histogram[P])
	for i, k := range keys.Data {
		k2, v := keys2.Data[i], params.Data[i]
		if params.IsNoData(v) || skip(k) || skip2(k2) {
			continue
		}
		sub, ok := counts[k]
		if !ok {
			sub = make(map[K2]histogram[P])
			counts[k] = sub
		}
		h, ok := sub[k2]
		if !ok {
			h = make(histogram[P])
			sub[k2] = h
		}
		h[v]++
	}
	o := make(map[K]map[K2]P, len(counts))
	for k, sub := range counts {
		m := make(map[K2]P, len(sub))
		for k2, h := range sub {
			m[k2] = h.mode()
		}
		o[k] = m
	}
	return o, nil
}

// Median returns, for each zone of keys, the median value of the
// co-located cells of params, with the same exclusions as Mode.
func Median[K, P raster.Value](keys *raster.Grid[K], params *raster.Grid[P], ignoreChannels bool, ignore []K) (map[K]float64, error) {
	if err := checkShape(keys, params); err != nil {
		return nil, err
	}
	skip := keyFilter(keys, ignoreChannels, ignore)
	vals := make(map[K][]float64)
	for i, k := range keys.Data {
		v := params.Data[i]
		if params.IsNoData(v) || skip(k) {
			continue
		}
		vals[k] = append(vals[k], float64(v))
	}
	o := make(map[K]float64, len(vals))
	for k, v := range vals {
		o[k] = median(v)
	}
	return o, nil
}

// MedianDual is like Median, but groups cells by the pair of zones from
// keys and keys2.
func MedianDual[K, K2, P raster.Value](keys *raster.Grid[K], keys2 *raster.Grid[K2], params *raster.Grid[P],
	ignoreChannels bool, ignore []K, ignore2 []K2) (map[K]map[K2]float64, error) {
	if err := checkShape(keys, params); err != nil {
		return nil, err
	}
	if err := checkShape(keys2, params); err != nil {
		return nil, err
	}
	skip := keyFilter(keys, ignoreChannels, ignore)
	skip2 := keyFilter(keys2, false, ignore2)
	vals := make(map[K]map[K2][]float64)
	for i, k := range keys.Data {
		k2, v := keys2.Data[i], params.Data[i]
		if params.IsNoData(v) || skip(k) || skip2(k2) {
			continue
		}
		sub, ok := vals[k]
		if !ok {
			sub = make(map[K2][]float64)
			vals[k] = sub
		}
		sub[k2] = append(sub[k2], float64(v))
	}
	o := make(map[K]map[K2]float64, len(vals))
	for k, sub := range vals {
		m := make(map[K2]float64, len(sub))
		for k2, v := range sub {
			m[k2] = median(v)
		}
		o[k] = m
	}
	return o, nil
}

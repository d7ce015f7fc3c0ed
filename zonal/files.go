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
	"fmt"
	"strconv"

	"github.com/wepp-in-the-woods/wepppyo3/raster"
)

// Keyed converts the keys of m to their decimal string form.
func Keyed[K raster.Value, V any](m map[K]V) map[string]V {
	o := make(map[string]V, len(m))
	for k, v := range m {
		o[formatKey(k)] = v
	}
	return o
}

// KeyedDual converts both levels of keys of m to their decimal string
// form.
func KeyedDual[K, K2 raster.Value, V any](m map[K]map[K2]V) map[string]map[string]V {
	o := make(map[string]map[string]V, len(m))
	for k, sub := range m {
		o[formatKey(k)] = Keyed(sub)
	}
	return o
}

func formatKey[K raster.Value](k K) string {
	f := float64(k)
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func readKeys(path string) (*raster.Grid[int32], error) {
	g, err := raster.ReadARC[int32](path)
	if err != nil {
		return nil, fmt.Errorf("zonal: reading key grid: %w", err)
	}
	return g, nil
}

// ModeFiles reads an integer key grid and band band of an integer
// parameter grid and returns the mode of each zone keyed by its decimal
// id.
func ModeFiles(keyPath, paramPath string, band int, ignoreChannels bool, ignore []int32) (map[string]int32, error) {
	keys, err := readKeys(keyPath)
	if err != nil {
		return nil, err
	}
	params, err := raster.ReadBand[int32](paramPath, band)
	if err != nil {
		return nil, fmt.Errorf("zonal: reading parameter grid: %w", err)
	}
	m, err := Mode(keys, params, ignoreChannels, ignore)
	if err != nil {
		return nil, err
	}
	return Keyed(m), nil
}

// ModeDualFiles is the two-key form of ModeFiles.
func ModeDualFiles(keyPath, key2Path, paramPath string, band int, ignoreChannels bool,
	ignore, ignore2 []int32) (map[string]map[string]int32, error) {
	keys, err := readKeys(keyPath)
	if err != nil {
		return nil, err
	}
	keys2, err := readKeys(key2Path)
	if err != nil {
		return nil, err
	}
	params, err := raster.ReadBand[int32](paramPath, band)
	if err != nil {
		return nil, fmt.Errorf("zonal: reading parameter grid: %w", err)
	}
	m, err := ModeDual(keys, keys2, params, ignoreChannels, ignore, ignore2)
	if err != nil {
		return nil, err
	}
	return KeyedDual(m), nil
}

// MedianFiles reads an integer key grid and band band of a
// floating-point parameter grid and returns the median of each zone keyed
// by its decimal id.
func MedianFiles(keyPath, paramPath string, band int, ignoreChannels bool, ignore []int32) (map[string]float64, error) {
	keys, err := readKeys(keyPath)
	if err != nil {
		return nil, err
	}
	params, err := raster.ReadBand[float64](paramPath, band)
	if err != nil {
		return nil, fmt.Errorf("zonal: reading parameter grid: %w", err)
	}
	m, err := Median(keys, params, ignoreChannels, ignore)
	if err != nil {
		return nil, err
	}
	return Keyed(m), nil
}

// MedianDualFiles is the two-key form of MedianFiles.
func MedianDualFiles(keyPath, key2Path, paramPath string, band int, ignoreChannels bool,
	ignore, ignore2 []int32) (map[string]map[string]float64, error) {
	keys, err := readKeys(keyPath)
	if err != nil {
		return nil, err
	}
	keys2, err := readKeys(key2Path)
	if err != nil {
		return nil, err
	}
	params, err := raster.ReadBand[float64](paramPath, band)
	if err != nil {
		return nil, fmt.Errorf("zonal: reading parameter grid: %w", err)
	}
	m, err := MedianDual(keys, keys2, params, ignoreChannels, ignore, ignore2)
	if err != nil {
		return nil, err
	}
	return KeyedDual(m), nil
}

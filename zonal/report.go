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
	"io"
	"sort"
	"strconv"

	"github.com/tealeg/xlsx"

	"github.com/wepp-in-the-woods/wepppyo3"
)

// Number is the value type of zonal results.
type Number interface {
	~int32 | ~float64
}

// SortedKeys returns the keys of m in numeric order, with keys that
// are not numbers sorted lexically after the numeric ones.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseFloat(keys[i], 64)
		b, errB := strconv.ParseFloat(keys[j], 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// WriteJSON writes a zonal result as indented JSON.
func WriteJSON(w io.Writer, result interface{}) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(result); err != nil {
		return fmt.Errorf("zonal: writing json: %w: %v", wepppyo3.ErrIO, err)
	}
	return nil
}

func setCell[V Number](c *xlsx.Cell, v V) {
	switch x := any(v).(type) {
	case int32:
		c.SetInt(int(x))
	default:
		c.SetFloat(float64(v))
	}
}

// WriteXLSX writes a single-key zonal result to a spreadsheet with one
// row per zone.
func WriteXLSX[V Number](path, sheet, valueName string, result map[string]V) error {
	f := xlsx.NewFile()
	s, err := f.AddSheet(sheet)
	if err != nil {
		return fmt.Errorf("zonal: adding sheet: %v", err)
	}
	hdr := s.AddRow()
	hdr.AddCell().SetString("key")
	hdr.AddCell().SetString(valueName)
	for _, k := range SortedKeys(result) {
		r := s.AddRow()
		r.AddCell().SetString(k)
		setCell(r.AddCell(), result[k])
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("zonal: saving %s: %w: %v", path, wepppyo3.ErrIO, err)
	}
	return nil
}

// WriteXLSXDual writes a two-key zonal result to a spreadsheet with one
// row per key pair.
func WriteXLSXDual[V Number](path, sheet, valueName string, result map[string]map[string]V) error {
	f := xlsx.NewFile()
	s, err := f.AddSheet(sheet)
	if err != nil {
		return fmt.Errorf("zonal: adding sheet: %v", err)
	}
	hdr := s.AddRow()
	hdr.AddCell().SetString("key")
	hdr.AddCell().SetString("key2")
	hdr.AddCell().SetString(valueName)
	for _, k := range SortedKeys(result) {
		sub := result[k]
		for _, k2 := range SortedKeys(sub) {
			r := s.AddRow()
			r.AddCell().SetString(k)
			r.AddCell().SetString(k2)
			setCell(r.AddCell(), sub[k2])
		}
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("zonal: saving %s: %w: %v", path, wepppyo3.ErrIO, err)
	}
	return nil
}

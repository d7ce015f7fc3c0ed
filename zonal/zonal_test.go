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
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tealeg/xlsx"

	"github.com/wepp-in-the-woods/wepppyo3"
	"github.com/wepp-in-the-woods/wepppyo3/raster"
)

var unitTransform = [6]float64{0, 1, 0, 0, 0, -1}

func grid[T raster.Value](t *testing.T, name string, w, h int, noData *T, data ...T) *raster.Grid[T] {
	t.Helper()
	g, err := raster.NewGrid(name, w, h, data, noData, unitTransform, "")
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func ptr[T any](v T) *T { return &v }

func TestModeExample(t *testing.T) {
	keys := grid[int32](t, "keys", 2, 2, nil, 1, 1, 2, 2)
	params := grid[int32](t, "params", 2, 2, nil, 5, 5, 7, 8)
	got, err := Mode(keys, params, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := map[int32]int32{1: 5, 2: 7}; !reflect.DeepEqual(got, want) {
		t.Errorf("Mode = %v, want %v", got, want)
	}
}

func TestModeTieBreakDeterministic(t *testing.T) {
	// Every value occurs twice, so the smallest must win on every call.
	keys := grid[int32](t, "keys", 8, 1, nil, 3, 3, 3, 3, 3, 3, 3, 3)
	params := grid[int32](t, "params", 8, 1, nil, 9, 4, 7, 4, 9, 7, 6, 6)
	for i := 0; i < 50; i++ {
		got, err := Mode(keys, params, false, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got[3] != 4 {
			t.Fatalf("call %d: mode = %d, want 4", i, got[3])
		}
	}
}

func TestModeExclusions(t *testing.T) {
	keys := grid(t, "keys", 6, 1, ptr[int32](-1), 21, 24, 22, -1, 23, 21)
	params := grid(t, "params", 6, 1, ptr[int32](0), 5, 6, 7, 8, 9, 0)
	got, err := Mode(keys, params, true, []int32{23})
	if err != nil {
		t.Fatal(err)
	}
	// 24 is a channel, -1 is the key no-data value, 23 is ignored and the
	// last cell has a no-data parameter.
	if want := map[int32]int32{21: 5, 22: 7}; !reflect.DeepEqual(got, want) {
		t.Errorf("Mode = %v, want %v", got, want)
	}
	got, err = Mode(keys, params, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := map[int32]int32{21: 5, 22: 7, 23: 9, 24: 6}; !reflect.DeepEqual(got, want) {
		t.Errorf("Mode without channel filter = %v, want %v", got, want)
	}
}

func TestModeShape(t *testing.T) {
	keys := grid[int32](t, "keys", 2, 1, nil, 1, 1)
	params := grid[int32](t, "params", 1, 2, nil, 1, 1)
	if _, err := Mode(keys, params, false, nil); !errors.Is(err, wepppyo3.ErrShape) {
		t.Errorf("want ErrShape, got %v", err)
	}
	if _, err := MedianDual(keys, keys, params, false, nil, nil); !errors.Is(err, wepppyo3.ErrShape) {
		t.Errorf("want ErrShape, got %v", err)
	}
}

func TestModeDual(t *testing.T) {
	keys := grid[int32](t, "subwta", 6, 1, nil, 21, 21, 21, 22, 22, 24)
	keys2 := grid(t, "landuse", 6, 1, ptr[int32](0), 1, 1, 2, 1, 0, 1)
	params := grid[int32](t, "soils", 6, 1, nil, 100, 100, 200, 300, 400, 500)
	got, err := ModeDual(keys, keys2, params, true, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[int32]map[int32]int32{
		21: {1: 100, 2: 200},
		22: {1: 300},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ModeDual = %v, want %v", got, want)
	}
	if s := KeyedDual(got); s["21"]["2"] != 200 {
		t.Errorf("KeyedDual = %v", s)
	}
}

func TestMedian(t *testing.T) {
	keys := grid[int32](t, "keys", 7, 1, nil, 1, 1, 1, 1, 2, 2, 2)
	params := grid[float64](t, "params", 7, 1, nil, 4, 1, 3, 2, 3, 1, 2)
	got, err := Median(keys, params, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := map[int32]float64{1: 2.5, 2: 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("Median = %v, want %v", got, want)
	}
}

func TestMedianNoData(t *testing.T) {
	keys := grid[int32](t, "keys", 4, 1, nil, 1, 1, 1, 4)
	params := grid(t, "params", 4, 1, ptr(-9999.0), 10, -9999, 30, 99)
	got, err := Median(keys, params, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := map[int32]float64{1: 20}; !reflect.DeepEqual(got, want) {
		t.Errorf("Median = %v, want %v", got, want)
	}
}

func TestMedianDual(t *testing.T) {
	keys := grid[int32](t, "keys", 5, 1, nil, 1, 1, 1, 2, 2)
	keys2 := grid[int32](t, "keys2", 5, 1, nil, 7, 7, 8, 7, 7)
	params := grid[float64](t, "params", 5, 1, nil, 1, 2, 3, 4, 6)
	got, err := MedianDual(keys, keys2, params, false, nil, []int32{8})
	if err != nil {
		t.Fatal(err)
	}
	want := map[int32]map[int32]float64{1: {7: 1.5}, 2: {7: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MedianDual = %v, want %v", got, want)
	}
}

func TestIsChannel(t *testing.T) {
	for id, want := range map[int32]bool{4: true, 24: true, 1234: true, 21: false, 40: false, -4: false} {
		if IsChannel(id) != want {
			t.Errorf("IsChannel(%d) != %v", id, want)
		}
	}
}

func TestKeyed(t *testing.T) {
	got := Keyed(map[int32]float64{21: 1.5, -1: 2})
	if want := map[string]float64{"21": 1.5, "-1": 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keyed = %v, want %v", got, want)
	}
	if got := SortedKeys(map[string]int{"10": 0, "9": 0, "x": 0, "-1": 0}); !reflect.DeepEqual(got, []string{"-1", "9", "10", "x"}) {
		t.Errorf("SortedKeys = %v", got)
	}
}

func writeARC(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	const hdr = "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n"
	keyPath := filepath.Join(dir, "SUBWTA.ARC")
	key2Path := filepath.Join(dir, "landuse.asc")
	paramPath := filepath.Join(dir, "soils.asc")
	writeARC(t, keyPath, hdr+"NODATA_value -1\n1 1\n2 2\n")
	writeARC(t, key2Path, hdr+"3 3\n3 4\n")
	writeARC(t, paramPath, hdr+"NODATA_value -9999\n5 5\n7 8\n")

	mode, err := ModeFiles(keyPath, paramPath, 1, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := map[string]int32{"1": 5, "2": 7}; !reflect.DeepEqual(mode, want) {
		t.Errorf("ModeFiles = %v, want %v", mode, want)
	}
	med, err := MedianFiles(keyPath, paramPath, 1, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := map[string]float64{"1": 5, "2": 7.5}; !reflect.DeepEqual(med, want) {
		t.Errorf("MedianFiles = %v, want %v", med, want)
	}
	dual, err := ModeDualFiles(keyPath, key2Path, paramPath, 1, true, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := map[string]map[string]int32{"1": {"3": 5}, "2": {"3": 7, "4": 8}}; !reflect.DeepEqual(dual, want) {
		t.Errorf("ModeDualFiles = %v, want %v", dual, want)
	}
	dualMed, err := MedianDualFiles(keyPath, key2Path, paramPath, 1, true, nil, []int32{4})
	if err != nil {
		t.Fatal(err)
	}
	if want := map[string]map[string]float64{"1": {"3": 5}, "2": {"3": 7}}; !reflect.DeepEqual(dualMed, want) {
		t.Errorf("MedianDualFiles = %v, want %v", dualMed, want)
	}

	if _, err := ModeFiles(keyPath, paramPath, 0, true, nil); !errors.Is(err, wepppyo3.ErrConfig) {
		t.Errorf("band 0: want ErrConfig, got %v", err)
	}
	if _, err := MedianFiles(filepath.Join(dir, "missing.asc"), paramPath, 1, true, nil); !errors.Is(err, wepppyo3.ErrIO) {
		t.Errorf("missing key grid: want ErrIO, got %v", err)
	}

	xl := filepath.Join(dir, "modes.xlsx")
	if err := WriteXLSXDual(xl, "modes", "mode", dual); err != nil {
		t.Fatal(err)
	}
	f, err := xlsx.OpenFile(xl)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := f.Sheet["modes"]
	if !ok {
		t.Fatal("missing sheet")
	}
	for j, want := range []string{"2", "4", "8"} {
		if got := s.Cell(3, j).Value; got != want {
			t.Errorf("row 3 col %d = %q, want %q", j, got, want)
		}
	}
	if err := WriteXLSX(filepath.Join(dir, "medians.xlsx"), "medians", "median", med); err != nil {
		t.Fatal(err)
	}
}

func TestSummaries(t *testing.T) {
	subwta := grid(t, "SUBWTA", 3, 2, ptr[int32](0), 21, 21, 24, 22, 22, 0)
	subwta.CellSize = 30
	aspect := grid[float64](t, "TASPEC", 3, 2, nil, 350, 10, 0, 90, 90, 0)
	s, err := Summaries(subwta, aspect, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 2 || s[0].ID != 21 || s[1].ID != 22 {
		t.Fatalf("summaries = %+v", s)
	}
	if s[0].Cells != 2 || s[0].Area != 1800 {
		t.Errorf("zone 21 = %+v", s[0])
	}
	if a := s[0].Aspect; math.Abs(a) > 1e-9 && math.Abs(a-360) > 1e-9 {
		t.Errorf("zone 21 aspect = %g", a)
	}
	if s[1].X != 1 || s[1].Y != 1 || math.Abs(s[1].Aspect-90) > 1e-9 {
		t.Errorf("zone 22 = %+v", s[1])
	}

	s, err = Summaries(subwta, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 3 || !math.IsNaN(s[0].Aspect) {
		t.Errorf("summaries without aspect = %+v", s)
	}

	dir := t.TempDir()
	if err := WriteGeoJSON(filepath.Join(dir, "zones.geojson"), s, subwta.Projected()); !errors.Is(err, wepppyo3.ErrConfig) {
		t.Errorf("unprojected GeoJSON: want ErrConfig, got %v", err)
	}
	shpPath := filepath.Join(dir, "zones.shp")
	if err := WriteShapefile(shpPath, s, "+proj=utm +zone=11 +datum=WGS84"); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".shp", ".dbf", ".prj"} {
		if _, err := os.Stat(filepath.Join(dir, "zones"+ext)); err != nil {
			t.Errorf("missing %s: %v", ext, err)
		}
	}
}

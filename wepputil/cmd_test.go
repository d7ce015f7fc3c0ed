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

package wepputil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/sparse"
	"github.com/tealeg/xlsx"

	"github.com/wepp-in-the-woods/wepppyo3"
	"github.com/wepp-in-the-woods/wepppyo3/climate"
	"github.com/wepp-in-the-woods/wepppyo3/raster"
)

func init() {
	Log.Out = io.Discard
}

var unitTransform = [6]float64{0, 1, 0, 0, 0, -1}

func writeGrid[T raster.Value](t *testing.T, path string, w, h int, data ...T) {
	t.Helper()
	g, err := raster.NewGrid("test", w, h, data, nil, unitTransform, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := g.WriteARC(path); err != nil {
		t.Fatal(err)
	}
}

// execute runs the command line args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var b bytes.Buffer
	Root.SetOutput(&b)
	Root.SetArgs(args)
	err := Root.Execute()
	return b.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if want := "wepppyo3 v" + wepppyo3.Version; !strings.Contains(out, want) {
		t.Errorf("output %q does not contain %q", out, want)
	}
}

func TestZonalModeCmd(t *testing.T) {
	dir := t.TempDir()
	keys := filepath.Join(dir, "subwta.asc")
	params := filepath.Join(dir, "landuse.asc")
	writeGrid[int32](t, keys, 2, 2, 1, 1, 2, 2)
	writeGrid[int32](t, params, 2, 2, 5, 5, 7, 8)
	Cfg.Set("keys", keys)
	Cfg.Set("keys2", "")
	Cfg.Set("parameter", params)
	Cfg.Set("output", "")
	Cfg.Set("ignore_keys", "")

	out, err := execute(t, "zonal", "mode")
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]int32
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("%v: %s", err, out)
	}
	if want := map[string]int32{"1": 5, "2": 7}; !reflect.DeepEqual(got, want) {
		t.Errorf("mode = %v, want %v", got, want)
	}
}

func TestZonalMedianDualXLSX(t *testing.T) {
	dir := t.TempDir()
	keys := filepath.Join(dir, "subwta.asc")
	keys2 := filepath.Join(dir, "soils.asc")
	params := filepath.Join(dir, "slope.asc")
	output := filepath.Join(dir, "median.xlsx")
	writeGrid[int32](t, keys, 4, 1, 1, 1, 1, 2)
	writeGrid[int32](t, keys2, 4, 1, 7, 7, 9, 9)
	writeGrid[float64](t, params, 4, 1, 1, 3, 10, 4)
	Cfg.Set("keys", keys)
	Cfg.Set("keys2", keys2)
	Cfg.Set("parameter", params)
	Cfg.Set("output", output)
	Cfg.Set("ignore_keys", []int{})
	Cfg.Set("ignore_keys2", "")

	if _, err := execute(t, "zonal", "median"); err != nil {
		t.Fatal(err)
	}
	f, err := xlsx.OpenFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.Sheet["median"]; !ok {
		t.Errorf("no median sheet in %v", f.Sheet)
	}
}

func TestZonalSummaryCmd(t *testing.T) {
	dir := t.TempDir()
	keys := filepath.Join(dir, "subwta.asc")
	writeGrid[int32](t, keys, 3, 1, 11, 11, 14)
	Cfg.Set("keys", keys)
	Cfg.Set("aspect", "")
	Cfg.Set("output", "")
	Cfg.Set("ignore_channels", true)
	out, err := execute(t, "zonal", "summary")
	if err != nil {
		t.Fatal(err)
	}
	var got []struct {
		ID    int32
		Cells int
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("%v: %s", err, out)
	}
	if len(got) != 1 || got[0].ID != 11 || got[0].Cells != 2 {
		t.Errorf("summary = %+v", got)
	}
}

func TestSoilLossDischargeCmd(t *testing.T) {
	dir := t.TempDir()
	keys := filepath.Join(dir, "subwta.asc")
	discharge := filepath.Join(dir, "discha.asc")
	output := filepath.Join(dir, "loss.asc")
	writeGrid[int32](t, keys, 2, 1, 11, 11)
	writeGrid[float64](t, discharge, 2, 1, 1, 2)
	plot := "a\nb\nc\nd\n0 0 2\n1 0 6\n"
	if err := os.WriteFile(filepath.Join(dir, "H1.plot.dat"), []byte(plot), 0o644); err != nil {
		t.Fatal(err)
	}
	Cfg.Set("keys", keys)
	Cfg.Set("discharge", discharge)
	Cfg.Set("profile_dir", dir)
	Cfg.Set("output", output)
	out, err := execute(t, "soilloss", "discharge")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 hillslopes") {
		t.Errorf("output = %q", out)
	}
	g, err := raster.ReadARC[float64](output)
	if err != nil {
		t.Fatal(err)
	}
	if g.Data[0] != 4 || g.Data[1] != 6 {
		t.Errorf("loss = %v, want [4 6]", g.Data)
	}
}

func TestSoilLossFootprintCmd(t *testing.T) {
	dir := t.TempDir()
	discharge := filepath.Join(dir, "discha.asc")
	output := filepath.Join(dir, "footprint.asc")
	writeGrid[float64](t, discharge, 2, 1, 0, 0)
	files := map[string]string{
		"p.plot.dat": "a\nb\nc\nd\n0 0 5\n",
		"p.slp":      "# [0]\n# [0.0]\n1 1\n0 0\ncellsize 2\nlength 3\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	Cfg.Set("discharge", discharge)
	Cfg.Set("profile_dir", dir)
	Cfg.Set("output", output)
	if _, err := execute(t, "soilloss", "footprint"); err != nil {
		t.Fatal(err)
	}
	g, err := raster.ReadARC[float64](output)
	if err != nil {
		t.Fatal(err)
	}
	if g.Data[0] != 30 || g.Data[1] != 0 {
		t.Errorf("loss = %v, want [30 0]", g.Data)
	}
}

func TestInterpolateCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ppt.nc")
	xs, ys := []float64{0, 10}, []float64{0, 10}
	data := sparse.ZerosDense(2, 2, 2)
	for i, x := range xs {
		for j, y := range ys {
			data.Set(x+y, i, j, 0)
			data.Set(10*(x+y), i, j, 1)
		}
	}
	if err := climate.WriteVolume(path, "ppt", &climate.Volume{X: xs, Y: ys, Data: data}); err != nil {
		t.Fatal(err)
	}
	Cfg.Set("netcdf", path)
	Cfg.Set("variable", "ppt")
	Cfg.Set("x_var", "x")
	Cfg.Set("y_var", "y")
	Cfg.Set("target_x", 5.0)
	Cfg.Set("target_y", 2.5)
	Cfg.Set("method", "linear")
	Cfg.Set("clip_min", "")
	Cfg.Set("clip_max", "50")
	Cfg.Set("output", "")
	out, err := execute(t, "interpolate")
	if err != nil {
		t.Fatal(err)
	}
	var got []float64
	s := bufio.NewScanner(strings.NewReader(out))
	for s.Scan() {
		v, err := strconv.ParseFloat(s.Text(), 64)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, v)
	}
	if want := []float64{7.5, 50}; !reflect.DeepEqual(got, want) {
		t.Errorf("series = %v, want %v", got, want)
	}

	series := filepath.Join(dir, "series.nc")
	Cfg.Set("output", series)
	defer Cfg.Set("output", "")
	if _, err := execute(t, "interpolate"); err != nil {
		t.Fatal(err)
	}
	written, err := climate.ReadSeries(series, "ppt")
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{7.5, 50}; !reflect.DeepEqual(written, want) {
		t.Errorf("written series = %v, want %v", written, want)
	}

	Cfg.Set("netcdf", "")
	if _, err := execute(t, "interpolate"); !errors.Is(err, wepppyo3.ErrConfig) {
		t.Errorf("missing netcdf: err = %v, want ErrConfig", err)
	}
}

func TestCLIRevCmdConfigFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wepp.cli")
	dst := filepath.Join(dir, "hill.cli")
	var b strings.Builder
	for i := 0; i < 15; i++ {
		b.WriteString("header\n")
	}
	b.WriteString("1 6 2000 10.0 2.5 0.50 3.00 5.0 -3.0 200 3.1 180 -4.0\n")
	if err := os.WriteFile(src, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.toml")
	monthly := func(v float64) []float64 {
		o := make([]float64, 12)
		for i := range o {
			o[i] = v
		}
		return o
	}
	f, err := os.Create(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	err = toml.NewEncoder(f).Encode(map[string]interface{}{
		"ws_ppt":    monthly(2),
		"ws_tmax":   monthly(10),
		"ws_tmin":   monthly(0),
		"hill_ppt":  monthly(3),
		"hill_tmax": monthly(8),
		"hill_tmin": monthly(-1),
	})
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	Cfg.Set("config", cfgPath)
	defer Cfg.Set("config", "")
	Cfg.Set("cli", src)
	Cfg.Set("output", dst)
	if _, err := execute(t, "clirev"); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	want := "  1  6 2000  15.0   2.5 0.50   3.00   3.0  -4.0  200  3.1   180  -4.0\n"
	if !strings.HasSuffix(string(got), want) {
		t.Errorf("revised file\n%s\ndoes not end in\n%s", got, want)
	}
}

func TestCLIRevCmdShortMonths(t *testing.T) {
	for _, name := range []string{"ws_ppt", "ws_tmax", "ws_tmin", "hill_ppt", "hill_tmax", "hill_tmin"} {
		Cfg.Set(name, "1,2,3")
	}
	Cfg.Set("cli", filepath.Join(t.TempDir(), "wepp.cli"))
	Cfg.Set("output", filepath.Join(t.TempDir(), "hill.cli"))
	if _, err := execute(t, "clirev"); !errors.Is(err, wepppyo3.ErrConfig) {
		t.Errorf("err = %v, want ErrConfig", err)
	}
}

func TestStatsAndDisplayCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relief.asc")
	writeGrid[float64](t, path, 2, 2, 1, 2, 3, 4)
	Cfg.Set("raster", path)
	Cfg.Set("color", false)
	out, err := execute(t, "stats")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "2.5") {
		t.Errorf("stats output %q has no mean", out)
	}
	out, err = execute(t, "display")
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(out, "\n"); lines != 2 {
		t.Errorf("display printed %d lines, want 2:\n%s", lines, out)
	}
}

func TestRenderCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relief.asc")
	writeGrid[float64](t, path, 2, 2, 1, 2, 3, 4)
	Cfg.Set("raster", path)
	Cfg.Set("output", filepath.Join(dir, "relief.png"))
	Cfg.Set("legend", "")
	if _, err := execute(t, "render"); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(filepath.Join(dir, "relief.png")); err != nil || fi.Size() == 0 {
		t.Errorf("relief.png not written: %v", err)
	}
}

func TestConfigCmd(t *testing.T) {
	Cfg.Set("method", "cubic")
	out, err := execute(t, "config")
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]interface{}
	if _, err := toml.Decode(out, &got); err != nil {
		t.Fatalf("%v:\n%s", err, out)
	}
	if got["method"] != "cubic" {
		t.Errorf("method = %v, want cubic", got["method"])
	}
	if _, ok := got["log_level"]; !ok {
		t.Error("log_level missing")
	}
}

func TestBadLogLevel(t *testing.T) {
	Cfg.Set("log_level", "loud")
	defer Cfg.Set("log_level", "info")
	if _, err := execute(t, "version"); !errors.Is(err, wepppyo3.ErrConfig) {
		t.Errorf("err = %v, want ErrConfig", err)
	}
}

func TestToInt32SliceE(t *testing.T) {
	for _, test := range []struct {
		in   interface{}
		want []int32
	}{
		{"[1,2]", []int32{1, 2}},
		{"1, 2", []int32{1, 2}},
		{"[]", nil},
		{"", nil},
		{nil, nil},
		{[]interface{}{int64(3), int64(4)}, []int32{3, 4}},
		{[]int{5}, []int32{5}},
	} {
		got, err := toInt32SliceE(test.in)
		if err != nil {
			t.Errorf("%#v: %v", test.in, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%#v = %v, want %v", test.in, got, test.want)
		}
	}
	if _, err := toInt32SliceE("one"); err == nil {
		t.Error("want error for non-numeric list")
	}
}

func TestToFloat64SliceE(t *testing.T) {
	for _, test := range []struct {
		in   interface{}
		want []float64
	}{
		{"[1.5,2]", []float64{1.5, 2}},
		{"1.5, 2", []float64{1.5, 2}},
		{"", nil},
		{[]interface{}{1.5, int64(2)}, []float64{1.5, 2}},
		{[]float64{3}, []float64{3}},
	} {
		got, err := toFloat64SliceE(test.in)
		if err != nil {
			t.Errorf("%#v: %v", test.in, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%#v = %v, want %v", test.in, got, test.want)
		}
	}
}

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
	"bytes"
	"errors"
	"image/png"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/wepp-in-the-woods/wepppyo3"
)

const utm11 = "+proj=utm +zone=11 +ellps=WGS84 +datum=WGS84 +units=m +no_defs"

const testARC = `ncols 3
nrows 2
xllcorner 500000
yllcorner 4700000
cellsize 30
NODATA_value -9999
1 2 3
4 -9999 6
`

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeARC(t *testing.T) {
	g, err := DecodeARC[float64](strings.NewReader(testARC))
	if err != nil {
		t.Fatal(err)
	}
	if g.Width != 3 || g.Height != 2 || g.CellSize != 30 {
		t.Errorf("shape = %dx%d cellsize %g", g.Width, g.Height, g.CellSize)
	}
	wantGT := [6]float64{500000, 30, 0, 4700060, 0, -30}
	if g.GeoTransform != wantGT {
		t.Errorf("transform = %v, want %v", g.GeoTransform, wantGT)
	}
	if g.NoData == nil || *g.NoData != -9999 {
		t.Errorf("no-data = %v", g.NoData)
	}
	if !reflect.DeepEqual(g.Data, []float64{1, 2, 3, 4, -9999, 6}) {
		t.Errorf("data = %v", g.Data)
	}
}

func TestDecodeARCCenter(t *testing.T) {
	src := "ncols 1\nnrows 1\nxllcenter 15\nyllcenter 15\ncellsize 30\n7\n"
	g, err := DecodeARC[int32](strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if g.GeoTransform[0] != 0 || g.GeoTransform[3] != 30 || g.NoData != nil {
		t.Errorf("grid = %v", g)
	}
}

func TestDecodeARCFormatErrors(t *testing.T) {
	for name, src := range map[string]string{
		"missing ncols":  "nrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n1\n",
		"missing corner": "ncols 1\nnrows 1\ncellsize 1\n1\n",
		"short data":     "ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n1\n",
		"long data":      "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2\n",
		"bad value":      "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\nx\n",
		"bad header":     "ncols one\nnrows 1\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeARC[float64](strings.NewReader(src)); !errors.Is(err, wepppyo3.ErrFormat) {
				t.Errorf("want ErrFormat, got %v", err)
			}
		})
	}
}

func TestReadARCMissing(t *testing.T) {
	_, err := ReadARC[int32](filepath.Join(t.TempDir(), "SUBWTA.ARC"))
	if !errors.Is(err, wepppyo3.ErrIO) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("want ErrIO wrapping ErrNotExist, got %v", err)
	}
}

func TestReadBandIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "DISCHA.ARC")
	writeFile(t, path, testARC)
	for _, band := range []int{0, -1, 2} {
		if _, err := ReadBand[float64](path, band); !errors.Is(err, wepppyo3.ErrConfig) {
			t.Errorf("band %d: want ErrConfig, got %v", band, err)
		}
	}
	g, err := ReadBand[float64](path, 1)
	if err != nil {
		t.Fatal(err)
	}
	if g.MapType != DISCHA || g.Name != "DISCHA" {
		t.Errorf("map type = %v, name = %q", g.MapType, g.Name)
	}
	if g.Projected() || g.WGSTransform() != [4]float64{} {
		t.Error("grid without .prj should not be projected")
	}
}

func TestARCRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "RELIEF.ARC")
	writeFile(t, src, testARC)
	writeFile(t, filepath.Join(dir, "RELIEF.prj"), utm11+"\n")
	g, err := ReadARC[float64](src)
	if err != nil {
		t.Fatal(err)
	}
	if g.Projection != utm11 {
		t.Errorf("projection = %q", g.Projection)
	}
	dst := filepath.Join(dir, "out.arc")
	if err := g.WriteARC(dst); err != nil {
		t.Fatal(err)
	}
	g2, err := ReadARC[float64](dst)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(g.Data, g2.Data) || g.GeoTransform != g2.GeoTransform ||
		*g.NoData != *g2.NoData || g2.Projection != utm11 {
		t.Errorf("round trip mismatch:\n%v\n%v", g, g2)
	}
}

func TestWriteRotated(t *testing.T) {
	g, _ := NewGrid("x", 1, 1, []float64{1}, nil, [6]float64{0, 1, 0.5, 0, 0, -1}, "")
	var b bytes.Buffer
	if err := g.EncodeARC(&b); !errors.Is(err, wepppyo3.ErrFormat) {
		t.Errorf("want ErrFormat, got %v", err)
	}
}

func TestWGSTransform(t *testing.T) {
	g, err := DecodeARC[float64](strings.NewReader(testARC))
	if err != nil {
		t.Fatal(err)
	}
	g.Projection = utm11
	g.setProjection()
	if !g.Projected() {
		t.Fatal("grid should be projected")
	}
	wt := g.WGSTransform()
	if wt[0] < -120 || wt[0] > -114 || wt[1] < 40 || wt[1] > 45 {
		t.Errorf("wgs transform origin = %v", wt)
	}
	if wt[2] <= 0 || wt[3] <= 0 {
		t.Errorf("wgs transform steps = %v", wt)
	}
	// The lower-left corner is one of the two reprojected points, so the
	// approximation is exact there.
	lon, lat := g.PxToWGS(0, g.Height)
	lng2, lat2, err := g.PxToLngLat(0, g.Height)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(lon-lng2) > 1e-9 || math.Abs(lat-lat2) > 1e-9 {
		t.Errorf("PxToWGS = (%g, %g), PxToLngLat = (%g, %g)", lon, lat, lng2, lat2)
	}

	// Cells 0 and 2 average to cell 1, whose corner is the grid origin
	// shifted one cell east.
	clng, clat, err := g.CentroidLngLat([]int{0, 2})
	if err != nil {
		t.Fatal(err)
	}
	lng1, lat1, err := g.PxToLngLat(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if clng != lng1 || clat != lat1 {
		t.Errorf("CentroidLngLat = (%g, %g), want (%g, %g)", clng, clat, lng1, lat1)
	}
	if _, _, err := g.CentroidLngLat(nil); !errors.Is(err, wepppyo3.ErrDomain) {
		t.Errorf("empty centroid: err = %v, want ErrDomain", err)
	}

	g.Projection = "+proj=nonsense"
	g.setProjection()
	if g.Projected() || g.WGSTransform() != [4]float64{} {
		t.Error("unparsable projection should leave the grid unprojected")
	}
	if _, _, err := g.PxToLngLat(0, 0); err == nil {
		t.Error("PxToLngLat should fail without a projection")
	}
	if _, _, err := g.CentroidLngLat([]int{0}); err == nil {
		t.Error("CentroidLngLat should fail without a projection")
	}
}

func TestRenderPNG(t *testing.T) {
	g, err := DecodeARC[float64](strings.NewReader(testARC))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := g.RenderPNG(&b); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&b)
	if err != nil {
		t.Fatal(err)
	}
	if r := img.Bounds(); r.Dx() != 3 || r.Dy() != 2 {
		t.Errorf("image bounds = %v", r)
	}
	if _, _, _, a := img.At(1, 1).RGBA(); a != 0 {
		t.Errorf("no-data pixel alpha = %d, want 0", a)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a == 0 {
		t.Error("valid pixel should be opaque")
	}

	nd := 1.0
	empty, _ := NewGrid("x", 1, 1, []float64{1}, &nd, [6]float64{0, 1, 0, 0, 0, -1}, "")
	if err := empty.RenderPNG(&b); !errors.Is(err, wepppyo3.ErrConfig) {
		t.Errorf("want ErrConfig for empty grid, got %v", err)
	}
}

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
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wepp-in-the-woods/wepppyo3"
)

// ReadARC reads an ESRI ASCII grid (.arc or .asc) from path. The
// projection is read from a sibling .prj file if there is one. The map
// type is inferred from the file name.
func ReadARC[T Value](path string) (*Grid[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("raster: opening %s: %w: %w", path, wepppyo3.ErrIO, err)
	}
	defer f.Close()
	g, err := DecodeARC[T](f)
	if err != nil {
		return nil, fmt.Errorf("raster: reading %s: %w", path, err)
	}
	g.Name = stem(path)
	g.MapType = ParseMapType(path)
	g.Projection, err = readPRJ(path)
	if err != nil {
		return nil, err
	}
	g.setProjection()
	return g, nil
}

// ReadBand reads band number band (starting at 1) of the raster at path.
// ESRI ASCII grids hold a single band.
func ReadBand[T Value](path string, band int) (*Grid[T], error) {
	if band < 1 {
		return nil, fmt.Errorf("raster: band index must be >= 1, got %d: %w", band, wepppyo3.ErrConfig)
	}
	if band > 1 {
		return nil, fmt.Errorf("raster: %s has 1 band, requested band %d: %w", path, band, wepppyo3.ErrConfig)
	}
	return ReadARC[T](path)
}

// DecodeARC decodes an ESRI ASCII grid. The returned grid has no name
// or projection.
func DecodeARC[T Value](r io.Reader) (*Grid[T], error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 64*1024*1024)
	s.Split(bufio.ScanWords)

	hdr := make(map[string]float64)
	var first string
	for s.Scan() {
		key := strings.ToLower(s.Text())
		if _, err := strconv.ParseFloat(key, 64); err == nil {
			first = key
			break
		}
		if !s.Scan() {
			return nil, fmt.Errorf("raster: header key %q has no value: %w", key, wepppyo3.ErrFormat)
		}
		v, err := strconv.ParseFloat(s.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("raster: header %s: %v: %w", key, err, wepppyo3.ErrFormat)
		}
		hdr[key] = v
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("raster: %w: %w", wepppyo3.ErrIO, err)
	}

	for _, k := range []string{"ncols", "nrows", "cellsize"} {
		if _, ok := hdr[k]; !ok {
			return nil, fmt.Errorf("raster: missing %s in header: %w", k, wepppyo3.ErrFormat)
		}
	}
	w, h, cs := int(hdr["ncols"]), int(hdr["nrows"]), hdr["cellsize"]
	var xll, yll float64
	switch {
	case has(hdr, "xllcorner") && has(hdr, "yllcorner"):
		xll, yll = hdr["xllcorner"], hdr["yllcorner"]
	case has(hdr, "xllcenter") && has(hdr, "yllcenter"):
		xll, yll = hdr["xllcenter"]-cs/2, hdr["yllcenter"]-cs/2
	default:
		return nil, fmt.Errorf("raster: missing lower-left coordinates in header: %w", wepppyo3.ErrFormat)
	}

	n := w * h
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: invalid dimensions %dx%d: %w", w, h, wepppyo3.ErrFormat)
	}
	data := make([]T, 0, n)
	push := func(tok string) error {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fmt.Errorf("raster: cell %d: %v: %w", len(data), err, wepppyo3.ErrFormat)
		}
		data = append(data, T(v))
		return nil
	}
	if first != "" {
		if err := push(first); err != nil {
			return nil, err
		}
	}
	for s.Scan() {
		if len(data) == n {
			return nil, fmt.Errorf("raster: more than %d values: %w", n, wepppyo3.ErrFormat)
		}
		if err := push(s.Text()); err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("raster: %w: %w", wepppyo3.ErrIO, err)
	}
	if len(data) != n {
		return nil, fmt.Errorf("raster: expected %d values, found %d: %w", n, len(data), wepppyo3.ErrFormat)
	}

	var noData *T
	if v, ok := hdr["nodata_value"]; ok {
		nd := T(v)
		noData = &nd
	}
	gt := [6]float64{xll, cs, 0, yll + float64(h)*cs, 0, -cs}
	return NewGrid("", w, h, data, noData, gt, "")
}

func has(m map[string]float64, k string) bool {
	_, ok := m[k]
	return ok
}

// WriteARC writes g to path as an ESRI ASCII grid, with a .prj sidecar
// if g has a projection. Only north-up grids with square cells can be
// written.
func (g *Grid[T]) WriteARC(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: creating %s: %w: %w", path, wepppyo3.ErrIO, err)
	}
	if err := g.EncodeARC(f); err != nil {
		f.Close()
		return fmt.Errorf("raster: writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("raster: closing %s: %w: %w", path, wepppyo3.ErrIO, err)
	}
	if g.Projection == "" {
		return nil
	}
	if err := os.WriteFile(prjPath(path), []byte(g.Projection), 0644); err != nil {
		return fmt.Errorf("raster: writing projection: %w: %w", wepppyo3.ErrIO, err)
	}
	return nil
}

// EncodeARC writes g in ESRI ASCII grid format.
func (g *Grid[T]) EncodeARC(w io.Writer) error {
	gt := g.GeoTransform
	if gt[2] != 0 || gt[4] != 0 || gt[5] != -gt[1] {
		return fmt.Errorf("raster: transform %v is not north-up with square cells: %w", gt, wepppyo3.ErrFormat)
	}
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "ncols %d\nnrows %d\n", g.Width, g.Height)
	fmt.Fprintf(b, "xllcorner %s\nyllcorner %s\ncellsize %s\n", ftoa(gt[0]),
		ftoa(gt[3]+float64(g.Height)*gt[5]), ftoa(gt[1]))
	if g.NoData != nil {
		fmt.Fprintf(b, "NODATA_value %s\n", ftoa(float64(*g.NoData)))
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(ftoa(float64(g.Data[y*g.Width+x])))
		}
		b.WriteByte('\n')
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("raster: %w: %w", wepppyo3.ErrIO, err)
	}
	return nil
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func stem(path string) string {
	s := filepath.Base(path)
	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i]
	}
	return s
}

func prjPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
}

// readPRJ returns the trimmed contents of the .prj sidecar of path, or
// an empty string if there is none.
func readPRJ(path string) (string, error) {
	b, err := os.ReadFile(prjPath(path))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("raster: reading projection: %w: %w", wepppyo3.ErrIO, err)
	}
	return strings.TrimSpace(string(b)), nil
}

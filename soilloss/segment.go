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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wepp-in-the-woods/wepppyo3"
)

// Segment is the metadata of a flowpath slope file: the raster cells the
// flowpath crosses, each cell's normalized distance along the flowpath,
// the cell size, and the total slope length.
type Segment struct {
	Indices   []int
	Distances []float64
	CellSize  float64
	Length    float64
}

// ReadSegment reads the metadata of the .slp file at path.
func ReadSegment(path string) (*Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("soilloss: opening slope file: %w: %w", wepppyo3.ErrIO, err)
	}
	defer f.Close()
	seg, err := ParseSegment(f)
	if err != nil {
		return nil, fmt.Errorf("soilloss: reading %s: %w", path, err)
	}
	return seg, nil
}

// ParseSegment parses slope file metadata. Line 1 holds the cell
// indices and line 2 the normalized distances, each as a bracketed,
// comma-separated list after "# ". The second field of line 5 is the
// cell size and the second field of line 6 is the slope length. Lines
// after the sixth are not read.
func ParseSegment(r io.Reader) (*Segment, error) {
	seg := new(Segment)
	s := bufio.NewScanner(r)
	line := 0
	for ; line < 6 && s.Scan(); line++ {
		text := s.Text()
		var err error
		switch line {
		case 0:
			seg.Indices, err = parseList(text, strconv.Atoi)
		case 1:
			seg.Distances, err = parseList(text, func(s string) (float64, error) {
				return strconv.ParseFloat(s, 64)
			})
		case 4:
			seg.CellSize, err = secondField(text)
		case 5:
			seg.Length, err = secondField(text)
		}
		if err != nil {
			return nil, fmt.Errorf("soilloss: slope metadata line %d: %w", line+1, err)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("soilloss: %w: %w", wepppyo3.ErrIO, err)
	}
	if line < 6 {
		return nil, fmt.Errorf("soilloss: slope metadata has %d lines, need 6: %w", line, wepppyo3.ErrFormat)
	}
	if len(seg.Indices) != len(seg.Distances) {
		return nil, fmt.Errorf("soilloss: %d cell indices but %d distances: %w",
			len(seg.Indices), len(seg.Distances), wepppyo3.ErrFormat)
	}
	return seg, nil
}

func parseList[T any](line string, parse func(string) (T, error)) ([]T, error) {
	body := strings.TrimSpace(line)
	if !strings.HasPrefix(body, "# [") || !strings.HasSuffix(body, "]") {
		return nil, fmt.Errorf("%q is not a bracketed list: %w", line, wepppyo3.ErrFormat)
	}
	body = strings.TrimSpace(body[len("# [") : len(body)-1])
	if body == "" {
		return nil, nil
	}
	parts := strings.Split(body, ",")
	o := make([]T, len(parts))
	for i, p := range parts {
		v, err := parse(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("list item %d: %v: %w", i, err, wepppyo3.ErrFormat)
		}
		o[i] = v
	}
	return o, nil
}

func secondField(line string) (float64, error) {
	f := strings.Fields(line)
	if len(f) < 2 {
		return 0, fmt.Errorf("%q has fewer than 2 fields: %w", line, wepppyo3.ErrFormat)
	}
	v, err := strconv.ParseFloat(f[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", err, wepppyo3.ErrFormat)
	}
	return v, nil
}

// band returns the range of normalized distance attributed to cell i:
// from the midpoint with the previous cell to the midpoint with the next
// one, using the cell's own distance at either end of the flowpath. A
// flowpath through a single cell covers the whole range.
func (seg *Segment) band(i int) (lo, hi float64) {
	d := seg.Distances
	n := len(d)
	if n == 1 {
		return 0, 1
	}
	switch i {
	case 0:
		return d[0], (d[0] + d[1]) / 2
	case n - 1:
		return (d[n-2] + d[n-1]) / 2, d[n-1]
	}
	return (d[i-1] + d[i]) / 2, (d[i] + d[i+1]) / 2
}

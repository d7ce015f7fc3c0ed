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

package climate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wepp-in-the-woods/wepppyo3"
)

const (
	// cliHeaderLines is the number of lines copied unchanged from the
	// top of a climate file.
	cliHeaderLines = 15
	// cliFields is the number of fields on a daily record.
	cliFields = 13
)

// cliWidths are the right-aligned column widths of a daily record.
var cliWidths = [cliFields]int{3, 3, 5, 6, 6, 5, 7, 6, 6, 5, 5, 6, 6}

// Revision holds monthly means at the watershed centroid and at a
// hillslope centroid, used to bias a watershed climate file toward the
// hillslope.
type Revision struct {
	WatershedPPT, WatershedTmax, WatershedTmin []float64
	HillPPT, HillTmax, HillTmin                []float64
}

func (rev Revision) check() error {
	for _, m := range []struct {
		name string
		v    []float64
	}{
		{"watershed precipitation", rev.WatershedPPT},
		{"watershed tmax", rev.WatershedTmax},
		{"watershed tmin", rev.WatershedTmin},
		{"hillslope precipitation", rev.HillPPT},
		{"hillslope tmax", rev.HillTmax},
		{"hillslope tmin", rev.HillTmin},
	} {
		if len(m.v) != 12 {
			return fmt.Errorf("climate: %s has %d monthly values, need 12: %w", m.name, len(m.v), wepppyo3.ErrConfig)
		}
	}
	return nil
}

// ReviseCLI copies the climate file in r to w, scaling each day's
// precipitation by the ratio of hillslope to watershed monthly
// precipitation and shifting its temperatures by the difference of the
// monthly means. The header is copied unchanged. Lines after the header
// that are not daily records are dropped.
func ReviseCLI(r io.Reader, w io.Writer, rev Revision) error {
	if err := rev.check(); err != nil {
		return err
	}
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	lineNum := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lineNum++
			if lineNum <= cliHeaderLines {
				if _, werr := bw.WriteString(line); werr != nil {
					return fmt.Errorf("climate: %w: %w", wepppyo3.ErrIO, werr)
				}
			} else if fields := strings.Fields(line); len(fields) == cliFields {
				if rerr := rev.writeRecord(bw, fields); rerr != nil {
					return fmt.Errorf("climate: line %d: %w", lineNum, rerr)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("climate: %w: %w", wepppyo3.ErrIO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("climate: %w: %w", wepppyo3.ErrIO, err)
	}
	return nil
}

// writeRecord writes one revised daily record: day, month, year, prcp,
// dur, tp, ip, tmax, tmin, rad, w-vl, w-dir, tdew.
func (rev Revision) writeRecord(w *bufio.Writer, fields []string) error {
	mo, err := strconv.Atoi(fields[1])
	if err != nil || mo < 1 || mo > 12 {
		return fmt.Errorf("month %q: %w", fields[1], wepppyo3.ErrFormat)
	}
	var vals [3]float64
	for i, f := range []int{3, 7, 8} {
		if vals[i], err = strconv.ParseFloat(fields[f], 64); err != nil {
			return fmt.Errorf("field %d: %v: %w", f+1, err, wepppyo3.ErrFormat)
		}
	}
	m := mo - 1
	prcp := vals[0] * rev.HillPPT[m] / rev.WatershedPPT[m]
	tmax := vals[1] - rev.WatershedTmax[m] + rev.HillTmax[m]
	tmin := vals[2] - rev.WatershedTmin[m] + rev.HillTmin[m]

	out := make([]string, cliFields)
	copy(out, fields)
	out[1] = strconv.Itoa(mo)
	out[3] = strconv.FormatFloat(prcp, 'f', 1, 64)
	out[7] = strconv.FormatFloat(tmax, 'f', 1, 64)
	out[8] = strconv.FormatFloat(tmin, 'f', 1, 64)
	for i, s := range out {
		fmt.Fprintf(w, "%*s", cliWidths[i], s)
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("%w: %w", wepppyo3.ErrIO, err)
	}
	return nil
}

// ReviseCLIFile revises the climate file at src into dst.
func ReviseCLIFile(src, dst string, rev Revision) error {
	if err := rev.check(); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("climate: opening %s: %w: %w", src, wepppyo3.ErrIO, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("climate: creating %s: %w: %w", dst, wepppyo3.ErrIO, err)
	}
	if err := ReviseCLI(in, out, rev); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("climate: closing %s: %w: %w", dst, wepppyo3.ErrIO, err)
	}
	return nil
}

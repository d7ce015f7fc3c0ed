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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wepp-in-the-woods/wepppyo3"
	"github.com/wepp-in-the-woods/wepppyo3/raster"
)

const (
	plotSuffix  = ".plot.dat"
	slopeSuffix = ".slp"
)

// SlopePath returns the slope file paired with a plot file.
func SlopePath(plot string) string {
	return strings.TrimSuffix(plot, plotSuffix) + slopeSuffix
}

// footprint accumulates soil-loss mass per cell with the number of
// flowpaths that touched each cell.
type footprint struct {
	sum    []float64
	counts []int
}

// add distributes one flowpath's profile over the cells it crosses. Each
// cell receives the losses whose uniform position falls in the cell's
// distance band, weighted by the length of one profile segment and the
// cell size.
func (fp *footprint) add(p *Profile, seg *Segment) error {
	for _, idx := range seg.Indices {
		if idx < 0 || idx >= len(fp.sum) {
			return fmt.Errorf("soilloss: cell index %d outside grid of %d cells: %w", idx, len(fp.sum), wepppyo3.ErrFormat)
		}
	}
	n := p.Len()
	if n == 0 {
		for _, idx := range seg.Indices {
			fp.counts[idx]++
		}
		return nil
	}
	segment := seg.Length / float64(n)
	dx := p.Dx()
	for i, idx := range seg.Indices {
		lo, hi := seg.band(i)
		for j, loss := range p.Loss {
			x := dx * float64(j)
			if n == 1 {
				x = 0
			}
			if x >= lo && x <= hi {
				fp.sum[idx] += loss * segment * seg.CellSize
			}
		}
		fp.counts[idx]++
	}
	return nil
}

// average divides every touched cell by its count.
func (fp *footprint) average() {
	for i, c := range fp.counts {
		if c > 0 {
			fp.sum[i] /= float64(c)
		}
	}
}

// BuildSoilLossGridFootprint spreads every flowpath profile under root
// (files matching *.plot.dat, each with a paired .slp file) over the
// cells of the flowpath, then averages cells crossed by more than one
// flowpath. A profile that cannot be read is logged and skipped. The
// output has the shape and georeferencing of discharge.
func BuildSoilLossGridFootprint(discharge *raster.Grid[float64], root string, log logrus.FieldLogger) (*raster.Grid[float64], error) {
	plots, err := filepath.Glob(filepath.Join(root, "*"+plotSuffix))
	if err != nil {
		return nil, fmt.Errorf("soilloss: %v: %w", err, wepppyo3.ErrConfig)
	}
	out := discharge.EmptyClone()
	fp := &footprint{sum: out.Data, counts: make([]int, out.Len())}
	var used int
	for _, plot := range plots {
		fields := logrus.Fields{"plot": plot, "slp": SlopePath(plot)}
		p, err := ReadProfile(plot)
		if err != nil {
			log.WithFields(fields).WithError(err).Warn("skipping profile")
			continue
		}
		seg, err := ReadSegment(SlopePath(plot))
		if err != nil {
			log.WithFields(fields).WithError(err).Warn("skipping profile")
			continue
		}
		if err := fp.add(p, seg); err != nil {
			log.WithFields(fields).WithError(err).Warn("skipping profile")
			continue
		}
		used++
	}
	fp.average()
	log.WithFields(logrus.Fields{"root": root, "profiles": used, "found": len(plots)}).Info("built footprint soil loss grid")
	return out, nil
}

// BuildSoilLossGridFootprintFiles runs BuildSoilLossGridFootprint on the
// discharge raster at dischargePath and writes the result to out.
func BuildSoilLossGridFootprintFiles(dischargePath, root, out string, log logrus.FieldLogger) error {
	discharge, err := raster.ReadARC[float64](dischargePath)
	if err != nil {
		return err
	}
	g, err := BuildSoilLossGridFootprint(discharge, root, log)
	if err != nil {
		return err
	}
	g.Name = "soil_loss"
	return g.WriteARC(out)
}

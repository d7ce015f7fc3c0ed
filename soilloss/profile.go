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

// Package soilloss maps per-hillslope soil-loss profiles from WEPP plot
// output back onto the raster cells of each hillslope.
package soilloss

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/wepp-in-the-woods/wepppyo3"
	"github.com/wepp-in-the-woods/wepppyo3/interp"
)

// profileHeaderLines is the number of lines at the top of a plot file
// that do not hold samples.
const profileHeaderLines = 4

// Profile is a soil-loss curve along a hillslope, read from a WEPP
// .plot.dat file. Samples run from the top of the hillslope to the
// outlet.
type Profile struct {
	Distance []float64
	Loss     []float64
}

// ReadProfile reads the profile at path.
func ReadProfile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("soilloss: opening profile: %w: %w", wepppyo3.ErrIO, err)
	}
	defer f.Close()
	p, err := ParseProfile(f)
	if err != nil {
		return nil, fmt.Errorf("soilloss: reading %s: %w", path, err)
	}
	return p, nil
}

// ParseProfile parses a plot file. The first four lines are skipped, as
// are lines that do not have exactly three fields: distance, an unused
// column, and soil loss.
func ParseProfile(r io.Reader) (*Profile, error) {
	p := new(Profile)
	s := bufio.NewScanner(r)
	for line := 0; s.Scan(); line++ {
		if line < profileHeaderLines {
			continue
		}
		fields := strings.Fields(s.Text())
		if len(fields) != 3 {
			continue
		}
		d, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("soilloss: line %d distance: %v: %w", line+1, err, wepppyo3.ErrFormat)
		}
		l, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("soilloss: line %d soil loss: %v: %w", line+1, err, wepppyo3.ErrFormat)
		}
		p.Distance = append(p.Distance, d)
		p.Loss = append(p.Loss, l)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("soilloss: %w: %w", wepppyo3.ErrIO, err)
	}
	return p, nil
}

// Len returns the number of samples.
func (p *Profile) Len() int { return len(p.Loss) }

// Dx returns the spacing of the samples when they are spread uniformly
// over [0, 1], or zero for an empty profile.
func (p *Profile) Dx() float64 {
	if p.Len() == 0 {
		return 0
	}
	return 1 / float64(p.Len()-1)
}

// UniformCurve spreads the losses evenly over [0, 1], first sample at
// zero. The distance column is ignored.
func (p *Profile) UniformCurve() *Curve {
	n := p.Len()
	c := &Curve{X: make([]float64, n), Y: make([]float64, n)}
	copy(c.Y, p.Loss)
	if n <= 1 {
		return c
	}
	dx := p.Dx()
	for i := range c.X {
		c.X[i] = dx * float64(i)
	}
	c.X[n-1] = 1
	return c
}

// DistanceCurve places each loss at its normalized distance from the
// outlet, x = 1 - d/max(d), in ascending x.
func (p *Profile) DistanceCurve() *Curve {
	n := p.Len()
	c := &Curve{X: make([]float64, n), Y: make([]float64, n)}
	if n == 0 {
		return c
	}
	max := floats.Max(p.Distance)
	for i := 0; i < n; i++ {
		j := n - 1 - i
		if max > 0 {
			c.X[i] = 1 - p.Distance[j]/max
		}
		c.Y[i] = p.Loss[j]
	}
	return c
}

// ReadProfileDistance reads the plot file at path as a curve over
// normalized distance from the outlet.
func ReadProfileDistance(path string) (*Curve, error) {
	p, err := ReadProfile(path)
	if err != nil {
		return nil, err
	}
	return p.DistanceCurve(), nil
}

// Curve is a piecewise-linear profile over a normalized position in
// [0, 1]. X is non-decreasing.
type Curve struct {
	X, Y []float64
}

// At evaluates the curve at x. Positions before the first sample or
// after the last are held at the end values, and an empty curve is zero
// everywhere.
func (c *Curve) At(x float64) float64 {
	n := len(c.Y)
	switch {
	case n == 0:
		return 0
	case x <= c.X[0] || math.IsNaN(x):
		return c.Y[0]
	case x >= c.X[n-1]:
		return c.Y[n-1]
	}
	v, err := interp.Linear(c.X, c.Y, x)
	if err != nil {
		return c.Y[n-1]
	}
	return v
}

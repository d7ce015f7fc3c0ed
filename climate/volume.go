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

// Package climate interpolates gridded climate volumes at a point and
// revises WEPP climate files for a hillslope.
package climate

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"

	"github.com/wepp-in-the-woods/wepppyo3"
	"github.com/wepp-in-the-woods/wepppyo3/interp"
)

// Volume is a stack of co-registered 2-D slices, such as a monthly or
// daily series of climate grids, with Data shaped [len(X), len(Y), n].
type Volume struct {
	X, Y []float64
	Data *sparse.DenseArray
}

// InterpolateGrid returns the series of values at (tx, ty), one per slice
// of data, with data shaped [len(xs), len(ys), n]. Coordinates may be
// given in ascending or descending order. The target must be inside
// both coordinate ranges.
func InterpolateGrid(tx, ty float64, xs, ys []float64, data *sparse.DenseArray, m interp.Method, clip interp.Clip) ([]float64, error) {
	return interp.Volume(tx, ty, xs, ys, data, m, clip)
}

// Interpolate returns the series at (tx, ty).
func (v *Volume) Interpolate(tx, ty float64, m interp.Method, clip interp.Clip) ([]float64, error) {
	return InterpolateGrid(tx, ty, v.X, v.Y, v.Data, m, clip)
}

// ReadVolume reads the 3-D variable from the netCDF file at path, along
// with the 1-D coordinate variables xVar and yVar.
func ReadVolume(path, variable, xVar, yVar string) (*Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("climate: opening netcdf: %w: %w", wepppyo3.ErrIO, err)
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("climate: reading netcdf %s: %v: %w", path, err, wepppyo3.ErrFormat)
	}
	data, err := readNCF(ff, variable)
	if err != nil {
		return nil, err
	}
	if len(data.Shape) != 3 {
		return nil, fmt.Errorf("climate: variable %s has %d dimensions, need 3: %w", variable, len(data.Shape), wepppyo3.ErrShape)
	}
	xs, err := readNCF(ff, xVar)
	if err != nil {
		return nil, err
	}
	ys, err := readNCF(ff, yVar)
	if err != nil {
		return nil, err
	}
	return &Volume{X: xs.Elements, Y: ys.Elements, Data: data}, nil
}

// ReadSeries reads the 1-D variable name from the netCDF file at path,
// such as a series written by WriteSeries.
func ReadSeries(path, name string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("climate: opening netcdf: %w: %w", wepppyo3.ErrIO, err)
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("climate: reading netcdf %s: %v: %w", path, err, wepppyo3.ErrFormat)
	}
	data, err := readNCF(ff, name)
	if err != nil {
		return nil, err
	}
	if len(data.Shape) != 1 {
		return nil, fmt.Errorf("climate: variable %s has %d dimensions, need 1: %w", name, len(data.Shape), wepppyo3.ErrShape)
	}
	return data.Elements, nil
}

// readNCF reads all of variable v out of ff.
func readNCF(ff *cdf.File, v string) (*sparse.DenseArray, error) {
	dims := ff.Header.Lengths(v)
	if len(dims) == 0 {
		return nil, fmt.Errorf("climate: variable %s not in file: %w", v, wepppyo3.ErrFormat)
	}
	r := ff.Reader(v, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("climate: reading variable %s: %w: %w", v, wepppyo3.ErrIO, err)
	}
	data := sparse.ZerosDense(dims...)
	switch vals := buf.(type) {
	case []float32:
		for i, val := range vals {
			data.Elements[i] = float64(val)
		}
	case []float64:
		copy(data.Elements, vals)
	case []int32:
		for i, val := range vals {
			data.Elements[i] = float64(val)
		}
	case []int16:
		for i, val := range vals {
			data.Elements[i] = float64(val)
		}
	default:
		return nil, fmt.Errorf("climate: variable %s has unsupported type %T: %w", v, buf, wepppyo3.ErrFormat)
	}
	return data, nil
}

// WriteSeries writes values to a new netCDF file at path as the 1-D
// variable name along dimension "slice".
func WriteSeries(path, name string, values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("climate: empty series: %w", wepppyo3.ErrShape)
	}
	h := cdf.NewHeader([]string{"slice"}, []int{len(values)})
	h.AddVariable(name, []string{"slice"}, []float64{0})
	h.AddAttribute(name, "description", "interpolated series")
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("climate: netcdf header: %v: %w", err, wepppyo3.ErrFormat)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("climate: creating netcdf: %w: %w", wepppyo3.ErrIO, err)
	}
	ff, err := cdf.Create(f, h)
	if err != nil {
		f.Close()
		return fmt.Errorf("climate: creating netcdf %s: %w: %w", path, wepppyo3.ErrIO, err)
	}
	if err := writeNCF(ff, name, values); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("climate: closing %s: %w: %w", path, wepppyo3.ErrIO, err)
	}
	return nil
}

// WriteVolume writes v to a new netCDF file at path as the variable
// name with coordinate variables x and y.
func WriteVolume(path, name string, v *Volume) error {
	if len(v.Data.Shape) != 3 {
		return fmt.Errorf("climate: volume has %d dimensions, need 3: %w", len(v.Data.Shape), wepppyo3.ErrShape)
	}
	nx, ny, ns := v.Data.Shape[0], v.Data.Shape[1], v.Data.Shape[2]
	if len(v.X) != nx || len(v.Y) != ny {
		return fmt.Errorf("climate: %d x and %d y coordinates for a %dx%d volume: %w", len(v.X), len(v.Y), nx, ny, wepppyo3.ErrShape)
	}
	h := cdf.NewHeader([]string{"x", "y", "slice"}, []int{nx, ny, ns})
	h.AddVariable("x", []string{"x"}, []float64{0})
	h.AddVariable("y", []string{"y"}, []float64{0})
	h.AddVariable(name, []string{"x", "y", "slice"}, []float64{0})
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("climate: netcdf header: %v: %w", err, wepppyo3.ErrFormat)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("climate: creating netcdf: %w: %w", wepppyo3.ErrIO, err)
	}
	ff, err := cdf.Create(f, h)
	if err != nil {
		f.Close()
		return fmt.Errorf("climate: creating netcdf %s: %w: %w", path, wepppyo3.ErrIO, err)
	}
	for _, vv := range []struct {
		name string
		data []float64
	}{{"x", v.X}, {"y", v.Y}, {name, v.Data.Elements}} {
		if err := writeNCF(ff, vv.name, vv.data); err != nil {
			f.Close()
			return err
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("climate: closing %s: %w: %w", path, wepppyo3.ErrIO, err)
	}
	return nil
}

// writeNCF writes all of data to variable v of ff. The end index is one
// past the last row so the writer does not report io.EOF on a complete
// write.
func writeNCF(ff *cdf.File, v string, data []float64) error {
	dims := ff.Header.Lengths(v)
	begin, end := make([]int, len(dims)), make([]int, len(dims))
	end[0] = dims[0]
	w := ff.Writer(v, begin, end)
	n, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("climate: writing %s: %w: %w", v, wepppyo3.ErrIO, err)
	}
	if n != len(data) {
		return fmt.Errorf("climate: wrote %d of %d values to %s: %w", n, len(data), v, wepppyo3.ErrIO)
	}
	return nil
}

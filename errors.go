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

// Package wepppyo3 holds the error taxonomy shared by the raster,
// interpolation, zonal and soil-loss packages of the watershed erosion
// toolkit. Errors returned by those packages wrap one of the sentinel
// values below, so callers can decide with errors.Is whether to abort a
// batch or to skip a single unit of work.
package wepppyo3

import "errors"

// Version gives the version number.
const Version = "0.4.0"

var (
	// ErrDomain indicates a query coordinate outside the extent of a grid
	// or coordinate array. No operation extrapolates.
	ErrDomain = errors.New("value outside domain")

	// ErrShape indicates an array whose rank or dimensions do not match
	// what an operation requires.
	ErrShape = errors.New("shape mismatch")

	// ErrConfig indicates an invalid parameter, such as a monthly array
	// without 12 entries or too few samples for cubic interpolation.
	ErrConfig = errors.New("invalid configuration")

	// ErrFormat indicates an input file that does not follow the
	// expected line or token layout.
	ErrFormat = errors.New("invalid format")

	// ErrIO indicates a backing file that is missing or unreadable.
	ErrIO = errors.New("i/o failure")
)

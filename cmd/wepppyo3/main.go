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

// Command wepppyo3 is a command-line interface to the wepppyo3 raster
// tools for WEPP watershed erosion modeling.
package main

import (
	"fmt"
	"os"

	"github.com/wepp-in-the-woods/wepppyo3/wepputil"
)

func main() {
	if err := wepputil.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

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
	"fmt"
	"io"
	"math"
)

const ansiReset = "\x1b[0m"

var flowArrows = map[int]string{
	1: "↖", 2: "↑", 3: "↗",
	4: "←", 5: "-", 6: "→",
	7: "↙", 8: "↓", 9: "↘",
}

// Display writes a text rendering of the grid to w, one row per line.
// No-data cells are shown as ".". Subcatchment grids are colored by
// zone suffix, flow-vector grids are drawn as arrows, and network and
// boundary grids are highlighted. Set color to false to omit ANSI
// escape codes.
func (g *Grid[T]) Display(w io.Writer, color bool) error {
	b := bufio.NewWriter(w)
	paint := func(code int, s string) string {
		if !color {
			return s
		}
		return fmt.Sprintf("\x1b[%dm%s%s", code, s, ansiReset)
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			v := g.Data[y*g.Width+x]
			if g.IsNoData(v) {
				switch g.MapType {
				case BOUND, NETFUL, FLOVEC:
					fmt.Fprintf(b, "%-1s ", ".")
				default:
					fmt.Fprintf(b, "%-4s ", ".")
				}
				continue
			}
			switch g.MapType {
			case SUBWTA:
				fmt.Fprintf(b, "%s ", paint(zoneColor(int(v)), fmt.Sprintf("%-4v", v)))
			case BOUND:
				fmt.Fprintf(b, "%s ", paint(35, fmt.Sprintf("%-1v", v)))
			case NETFUL:
				fmt.Fprintf(b, "%s ", paint(34, fmt.Sprintf("%-1v", v)))
			case FLOVEC:
				a, ok := flowArrows[int(v)]
				if !ok || float64(int(v)) != float64(v) {
					a = " "
				}
				fmt.Fprintf(b, "%-1s ", a)
			default:
				fmt.Fprintf(b, "%-4v ", v)
			}
		}
		b.WriteByte('\n')
	}
	return b.Flush()
}

// zoneColor returns the ANSI color for a subcatchment id from its last
// digit, so channels (suffix 4) stand out from hillslopes.
func zoneColor(id int) int {
	switch int(math.Abs(float64(id % 10))) {
	case 0:
		return 31
	case 1:
		return 33
	case 2:
		return 32
	case 3:
		return 35
	case 4:
		return 34
	default:
		return 37
	}
}

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
	"path/filepath"
	"strings"
)

// MapType identifies the TOPAZ product a grid holds, which decides how
// it is displayed and which operations apply to it.
type MapType int

// TOPAZ map types.
const (
	OTHER MapType = iota
	BOUND
	CHNJNT
	DISCHA
	DISOUT
	ELDCHA
	ELDOUT
	FLOPAT
	FLOVEC
	FVSLOP
	NETFUL
	NETW
	NETWE
	RELIEF
	SUBWTA
	TASPEC
	UPAREA
)

var mapTypeNames = map[MapType]string{
	OTHER:  "OTHER",
	BOUND:  "BOUND",
	CHNJNT: "CHNJNT",
	DISCHA: "DISCHA",
	DISOUT: "DISOUT",
	ELDCHA: "ELDCHA",
	ELDOUT: "ELDOUT",
	FLOPAT: "FLOPAT",
	FLOVEC: "FLOVEC",
	FVSLOP: "FVSLOP",
	NETFUL: "NETFUL",
	NETW:   "NETW",
	NETWE:  "NETWE",
	RELIEF: "RELIEF",
	SUBWTA: "SUBWTA",
	TASPEC: "TASPEC",
	UPAREA: "UPAREA",
}

func (m MapType) String() string {
	if s, ok := mapTypeNames[m]; ok {
		return s
	}
	return "OTHER"
}

// ParseMapType returns the map type named by the file stem of path,
// i.e. the base name up to its first dot, ignoring case. Unknown names
// are OTHER.
func ParseMapType(path string) MapType {
	stem := filepath.Base(path)
	if i := strings.Index(stem, "."); i >= 0 {
		stem = stem[:i]
	}
	stem = strings.ToUpper(stem)
	for m, s := range mapTypeNames {
		if s == stem {
			return m
		}
	}
	return OTHER
}

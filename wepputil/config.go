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

package wepputil

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	"github.com/wepp-in-the-woods/wepppyo3"
	"github.com/wepp-in-the-woods/wepppyo3/interp"
)

// listJSON returns s as a JSON array, adding brackets if it is a bare
// comma-separated list.
func listJSON(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		s = "[" + s + "]"
	}
	return s
}

// toInt32SliceE converts a list of zone ids from a configuration file
// (a list), a command-line flag (a string such as "[1,2]") or an
// environment variable (a string such as "1,2").
func toInt32SliceE(s interface{}) ([]int32, error) {
	var ints []int
	switch v := s.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(strings.Trim(v, "[]")) == "" {
			return nil, nil
		}
		if err := json.Unmarshal([]byte(listJSON(v)), &ints); err != nil {
			return nil, err
		}
	default:
		var err error
		if ints, err = cast.ToIntSliceE(v); err != nil {
			return nil, err
		}
	}
	o := make([]int32, len(ints))
	for i, v := range ints {
		o[i] = int32(v)
	}
	return o, nil
}

// toFloat64SliceE is the floating-point form of toInt32SliceE.
func toFloat64SliceE(s interface{}) ([]float64, error) {
	switch v := s.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(strings.Trim(v, "[]")) == "" {
			return nil, nil
		}
		var o []float64
		if err := json.Unmarshal([]byte(listJSON(v)), &o); err != nil {
			return nil, err
		}
		return o, nil
	case []float64:
		return v, nil
	}
	vals, err := cast.ToSliceE(s)
	if err != nil {
		return nil, err
	}
	o := make([]float64, len(vals))
	for i, val := range vals {
		if o[i], err = cast.ToFloat64E(val); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// getInt32Slice returns the list of ids in option varName.
func getInt32Slice(varName string, cfg *viper.Viper) ([]int32, error) {
	o, err := toInt32SliceE(cfg.Get(varName))
	if err != nil {
		return nil, fmt.Errorf("wepppyo3: option %s: %v: %w", varName, err, wepppyo3.ErrConfig)
	}
	return o, nil
}

// getFloat64Slice returns the list of numbers in option varName.
func getFloat64Slice(varName string, cfg *viper.Viper) ([]float64, error) {
	o, err := toFloat64SliceE(cfg.Get(varName))
	if err != nil {
		return nil, fmt.Errorf("wepppyo3: option %s: %v: %w", varName, err, wepppyo3.ErrConfig)
	}
	return o, nil
}

// getOptionalFloat returns nil if option varName is empty.
func getOptionalFloat(varName string, cfg *viper.Viper) (*float64, error) {
	v := cfg.Get(varName)
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	if v == nil {
		return nil, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, fmt.Errorf("wepppyo3: option %s: %v: %w", varName, err, wepppyo3.ErrConfig)
	}
	return &f, nil
}

// getClip returns the clipping bounds in the clip_min and clip_max
// options.
func getClip(cfg *viper.Viper) (interp.Clip, error) {
	min, err := getOptionalFloat("clip_min", cfg)
	if err != nil {
		return interp.Clip{}, err
	}
	max, err := getOptionalFloat("clip_max", cfg)
	if err != nil {
		return interp.Clip{}, err
	}
	return interp.Clip{Min: min, Max: max}, nil
}

// getPath returns the path in option varName with environment variables
// expanded, failing if it is required and empty.
func getPath(varName string, cfg *viper.Viper, required bool) (string, error) {
	p := os.ExpandEnv(cfg.GetString(varName))
	if required && p == "" {
		return "", fmt.Errorf("wepppyo3: option %s must be set: %w", varName, wepppyo3.ErrConfig)
	}
	return p, nil
}

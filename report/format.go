// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"math"
)

// fmtSeconds formats a duration in seconds with an SI prefix and
// three significant digits, so tables stay readable across the
// nanosecond-to-minute range the harness produces.
func fmtSeconds(v float64) string {
	switch {
	case v == 0:
		return "0s"
	case math.IsNaN(v) || math.IsInf(v, 0):
		return fmt.Sprint(v)
	}
	type factor struct {
		scale  float64
		suffix string
	}
	for _, f := range []factor{
		{1, "s"}, {1e-3, "ms"}, {1e-6, "µs"},
	} {
		if v >= f.scale {
			return trimmed(v/f.scale) + f.suffix
		}
	}
	return trimmed(v/1e-9) + "ns"
}

// trimmed prints with three significant digits, dropping the
// fraction entirely once the integer part has three.
func trimmed(v float64) string {
	switch {
	case v >= 100:
		return fmt.Sprintf("%.0f", v)
	case v >= 10:
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// fmtPercent renders a relative change fraction as a signed
// percentage.
func fmtPercent(frac float64) string {
	return fmt.Sprintf("%+.1f%%", frac*100)
}

// fmtChange is fmtPercent with a placeholder for single-point series,
// which have nothing to compare.
func fmtChange(frac float64, comparable bool) string {
	if !comparable {
		return "~"
	}
	return fmtPercent(frac)
}

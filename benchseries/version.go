// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"strconv"
	"strings"
)

// A parsedVersion is the numeric interpretation of a version label.
//
// Labels like "5.2.4" parse to their dotted numeric components.
// Labels with a numeric prefix and a hyphenated suffix ("6.0.4-b1")
// parse to the prefix plus the pre-release suffix; a pre-release
// orders before the bare version with the same prefix. Labels with no
// leading numeric component ("current") do not parse at all and order
// after every parseable label.
type parsedVersion struct {
	nums []int
	pre  string
	ok   bool
}

func parseVersion(label string) parsedVersion {
	num := label
	pre := ""
	if i := strings.IndexByte(label, '-'); i >= 0 {
		num, pre = label[:i], label[i+1:]
		if num == "" || pre == "" {
			return parsedVersion{}
		}
	}
	parts := strings.Split(num, ".")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return parsedVersion{}
		}
		nums[i] = n
	}
	return parsedVersion{nums: nums, pre: pre, ok: true}
}

// compare orders parsed versions: numeric components ascending with
// missing trailing components treated as zero, then pre-release
// before release, then pre-release suffixes lexically.
func (v parsedVersion) compare(w parsedVersion) int {
	n := len(v.nums)
	if len(w.nums) > n {
		n = len(w.nums)
	}
	for i := 0; i < n; i++ {
		var a, b int
		if i < len(v.nums) {
			a = v.nums[i]
		}
		if i < len(w.nums) {
			b = w.nums[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	switch {
	case v.pre == w.pre:
		return 0
	case w.pre == "":
		return -1 // v is the pre-release
	case v.pre == "":
		return 1
	case v.pre < w.pre:
		return -1
	}
	return 1
}

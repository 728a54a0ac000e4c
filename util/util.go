// Package util contains misc internal utilities.
package util

import (
	"strconv"
	"strings"
)

// IntSliceToCSV convets a slice of ints to CSV formatted data.
// e.g., []int{1,2,3,4,5} => "1,2,3,4,5"
func IntSliceToCSV(is []int) string {
	s := make([]string, len(is))
	for i, v := range is {
		s[i] = strconv.Itoa(v)
	}

	return strings.Join(s, ",")
}

// ArangeInt32 returns the half-open interval [start, end) in steps of step.
// It is called with one, two, or three arguments:
//	ArangeInt32(end)
//	ArangeInt32(start, end)
//	ArangeInt32(start, end, step)
// A non-positive step or empty interval yields an empty slice.
func ArangeInt32(args ...int32) []int32 {
	var start, end, step int32 = 0, 0, 1
	switch len(args) {
	case 1:
		end = args[0]
	case 2:
		start, end = args[0], args[1]
	case 3:
		start, end, step = args[0], args[1], args[2]
	default:
		return []int32{}
	}
	if step <= 0 || end <= start {
		return []int32{}
	}
	n := (end - start + step - 1) / step
	out := make([]int32, n)
	for i := range out {
		out[i] = start + int32(i)*step
	}
	return out
}

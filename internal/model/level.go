package model

import "math"

// DeriveLevel computes the level reached with the given experience and the
// experience still missing to reach the next level.
//
//	level = floor((sqrt(2500 + 200*experience) - 50) / 100)
//	untilNext = 50*(level+1)*(level+2) - experience
func DeriveLevel(experience int) (level int, untilNext int) {
	root := isqrt(2500 + 200*int64(experience))
	level = int((root - 50) / 100)
	untilNext = 50*(level+1)*(level+2) - experience
	return level, untilNext
}

// isqrt returns floor(sqrt(n)) for n >= 0
func isqrt(n int64) int64 {
	r := int64(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

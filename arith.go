// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

import "math"

// maxPosition is the largest representable stream position. Position
// arithmetic saturates at this bound; an operation that would need to
// move past it fails with ErrOverflow instead of wrapping.
const maxPosition = math.MaxInt64

const maxInt = math.MaxInt

// saturatingAdd64 returns a+b, clamped to maxPosition. a and b must be
// non-negative.
func saturatingAdd64(a, b int64) int64 {
	if a > maxPosition-b {
		return maxPosition
	}
	return a + b
}

// saturatingAddInt returns a+b, clamped to the int range. a and b must
// be non-negative.
func saturatingAddInt(a, b int) int {
	if a > maxInt-b {
		return maxInt
	}
	return a + b
}

// clampToInt narrows a non-negative int64 count to int.
func clampToInt(n int64) int {
	if n > int64(maxInt) {
		return maxInt
	}
	return int(n)
}

// SPDX-License-Identifier: GPL-2.0-or-later

package math

import "math"

// AngleMod changes an angle to be within 0-360 degrees
func AngleMod(a float64) float64 {
	return a - math.Floor(a/360)*360
}

const (
	diamondScale = math.MaxUint32 / 4
	// DiamondPi is the diamond angle of the vector (-1, 0).
	DiamondPi uint32 = math.MaxUint32 / 2
)

// DiamondAngle maps the direction (x, y) onto [0, 2^32) preserving the
// counter clockwise order of real angles. (1,0) maps to 0, (0,1) to a quarter
// of the range. It avoids trigonometry and is only usable for ordering.
func DiamondAngle(x, y float64) uint32 {
	if x == 0 && y == 0 {
		return 0
	}
	if y >= 0 {
		if x >= 0 {
			return uint32(diamondScale * (y / (x + y)))
		}
		return uint32(diamondScale * (1 - (x / (-x + y))))
	}
	if x < 0 {
		return uint32(diamondScale * (2 - (y / (-x - y))))
	}
	return uint32(diamondScale * (3 + (x / (x - y))))
}

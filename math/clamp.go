// SPDX-License-Identifier: GPL-2.0-or-later

package math

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

func Clamp[K Number](min, val, max K) K {
	if min > val {
		return min
	} else if max < val {
		return max
	}
	return val
}

// Lerp interpolates between a and b, t in [0,1].
func Lerp[K constraints.Float](a, b, t K) K {
	return a + (b-a)*t
}

func Min[K Number](a, b K) K {
	if a < b {
		return a
	}
	return b
}

func Max[K Number](a, b K) K {
	if a > b {
		return a
	}
	return b
}

// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// DBGainToLinear converts a gain in decibels to an amplitude factor.
func DBGainToLinear(db float64) float32 {
	if db == 0 {
		return 1
	}
	return float32(math.Pow(10, db/20))
}

// Q78ToDB converts a signed Q7.8 fixed point value, as stored in Opus
// headers, to decibels.
func Q78ToDB(q int16) float64 {
	return float64(q) / 256
}

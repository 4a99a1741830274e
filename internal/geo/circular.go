// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geo

import "math"

// CircularMean returns the mean of the given angles in degrees, in the range [0, 360).
//
// The angles are averaged as unit vectors, so 359° and 1° average to 0° rather than the
// 180° an arithmetic mean would give. An empty slice returns 0; callers that need to tell
// "no samples" apart from a mean of 0° have to check the length first. Non-finite samples
// make the result NaN.
func CircularMean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sinSum, cosSum float64
	for _, sample := range samples {
		rad := toRadians(sample)
		sinSum += math.Sin(rad)
		cosSum += math.Cos(rad)
	}
	n := float64(len(samples))
	mean := toDegrees(math.Atan2(sinSum/n, cosSum/n))
	if mean < 0 {
		mean += 360
	}
	// -0.0000…1 + 360 rounds to exactly 360
	if mean >= 360 {
		mean -= 360
	}
	return mean
}

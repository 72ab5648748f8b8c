package sim

import "sort"

// DistanceAtTime returns metres covered at race time t by a competitor whose
// cumulative splits cover total metres in equal segments. Piecewise linear,
// non-decreasing in t, clamped to [0, total].
func DistanceAtTime(splits []float64, total, t float64) float64 {
	n := len(splits)
	if t <= 0 || n < 2 {
		return 0
	}
	if t >= splits[n-1] {
		return total
	}
	segLen := total / float64(n-1)
	// first split strictly after t; the segment starts one before it
	j := sort.Search(n, func(k int) bool { return splits[k] > t })
	i := j - 1
	if i < 0 {
		i = 0
	}
	span := splits[i+1] - splits[i]
	return float64(i)*segLen + (t-splits[i])/span*segLen
}

// TimeAtDistance is the inverse of DistanceAtTime: the race time at which the
// competitor reaches d metres.
func TimeAtDistance(splits []float64, total, d float64) float64 {
	n := len(splits)
	if d <= 0 || n < 2 {
		return 0
	}
	if d >= total {
		return splits[n-1]
	}
	segLen := total / float64(n-1)
	seg := int(d / segLen)
	if seg > n-2 {
		seg = n - 2
	}
	ratio := (d - float64(seg)*segLen) / segLen
	return splits[seg] + ratio*(splits[seg+1]-splits[seg])
}

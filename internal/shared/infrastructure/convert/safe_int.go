// Package convert narrows integers read from configuration into the
// fixed widths the resilience and pool settings use.
package convert

import "math"

// IntToUintClamped converts v to uint. Negative values become 0.
func IntToUintClamped(v int) uint {
	if v < 0 {
		return 0
	}
	return uint(v)
}

// IntToUint32Clamped converts v to uint32, clamping to [0, MaxUint32].
func IntToUint32Clamped(v int) uint32 {
	if v < 0 {
		return 0
	}
	if uint64(v) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// IntToInt32Clamped converts v to int32, clamping to [MinInt32, MaxInt32].
func IntToInt32Clamped(v int) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}

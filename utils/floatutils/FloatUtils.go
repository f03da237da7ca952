// Package floatutils provides utilities for bounding float64 values to
// intervals
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip returns value clipped to [min, max]
func Clip(value, min, max float64) float64 {
	return math.Max(math.Min(value, max), min)
}

// ClipInterval returns value clipped to interval
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Wrap returns value wrapped periodically into [interval.Min,
// interval.Max), e.g. an angle wrapped into [-π, π). Wrap panics if the
// interval is empty.
func Wrap(value float64, interval r1.Interval) float64 {
	width := interval.Max - interval.Min
	if width <= 0 {
		panic("wrap: interval must have positive width")
	}

	value = math.Mod(value-interval.Min, width)
	if value < 0 {
		value += width
	}
	return value + interval.Min
}

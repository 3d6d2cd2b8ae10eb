/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"fmt"
	"strings"
)

// ScoreScale names the numeric range a criterion is scored on.
type ScoreScale string

const (
	// ScaleBinary scores a criterion as 0 or 1.
	ScaleBinary ScoreScale = "0-1"
	// ScaleFive scores a criterion from 0 to 5.
	ScaleFive ScoreScale = "0-5"
	// ScaleTen scores a criterion from 0 to 10.
	ScaleTen ScoreScale = "0-10"
	// ScalePercentage scores a criterion from 0 to 100.
	ScalePercentage ScoreScale = "percentage"
)

// Range is an inclusive numeric score range.
type Range struct {
	Low  float64
	High float64
}

// Contains reports whether score lies within the range, bounds included.
func (r Range) Contains(score float64) bool {
	return score >= r.Low && score <= r.High
}

// scales lists the recognized scales in declaration order.
var scales = []ScoreScale{ScaleBinary, ScaleFive, ScaleTen, ScalePercentage}

// scaleRanges is the single authority on what each scale permits.
// Read-only after package initialization.
var scaleRanges = map[ScoreScale]Range{
	ScaleBinary:     {Low: 0, High: 1},
	ScaleFive:       {Low: 0, High: 5},
	ScaleTen:        {Low: 0, High: 10},
	ScalePercentage: {Low: 0, High: 100},
}

// scaleDescriptions is derived from scaleRanges so the two never disagree.
var scaleDescriptions = buildDescriptions(scaleRanges)

func buildDescriptions(ranges map[ScoreScale]Range) map[ScoreScale]string {
	out := make(map[ScoreScale]string, len(ranges))
	for scale, r := range ranges {
		if r.Low == 0 && r.High == 1 {
			out[scale] = "use an integer score of 0 or 1"
			continue
		}
		out[scale] = fmt.Sprintf("use an integer score from %g to %g", r.Low, r.High)
	}
	return out
}

// Scales returns the recognized score scales in declaration order.
func Scales() []ScoreScale {
	return append([]ScoreScale(nil), scales...)
}

// Valid reports whether s is one of the recognized scales.
func (s ScoreScale) Valid() bool {
	_, ok := scaleRanges[s]
	return ok
}

// Range returns the inclusive numeric range of the scale.
// Unrecognized scales return the zero Range.
func (s ScoreScale) Range() Range {
	return scaleRanges[s]
}

// Description returns the scoring instruction used when prompting for this scale.
func (s ScoreScale) Description() string {
	return scaleDescriptions[s]
}

// Normalize maps score onto [0, 1] relative to the scale's range.
func (s ScoreScale) Normalize(score float64) float64 {
	r := s.Range()
	if r.High == r.Low {
		return 0
	}
	return (score - r.Low) / (r.High - r.Low)
}

// String implements fmt.Stringer
func (s ScoreScale) String() string {
	return string(s)
}

// scaleList renders the recognized scales for error messages.
func scaleList() string {
	names := make([]string, 0, len(scales))
	for _, s := range scales {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

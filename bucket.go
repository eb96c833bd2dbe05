// Copyright 2025 Matthew Gall <me@matthewgall.dev>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"math"
)

// ColorToken is a hex display color such as "#8B0000"
type ColorToken string

// Bucket is a discrete severity category for a density value
type Bucket int

const (
	BucketLow Bucket = iota
	BucketMedium
	BucketMediumHigh
	BucketHigh
	BucketVeryHigh
	BucketExtreme
)

var bucketNames = [...]string{
	BucketLow:        "LOW",
	BucketMedium:     "MEDIUM",
	BucketMediumHigh: "MEDIUM_HIGH",
	BucketHigh:       "HIGH",
	BucketVeryHigh:   "VERY_HIGH",
	BucketExtreme:    "EXTREME",
}

func (b Bucket) String() string {
	if b < BucketLow || b > BucketExtreme {
		return "UNKNOWN"
	}
	return bucketNames[b]
}

// BucketInfo is the bucketing result together with its legend text
type BucketInfo struct {
	Bucket Bucket
	Color  ColorToken
	Label  string
	Range  string
}

// bucketTable is ordered high to low; the first threshold exceeded wins
var bucketTable = []struct {
	threshold float64
	info      BucketInfo
}{
	{ThresholdExtreme, BucketInfo{BucketExtreme, ColorExtreme, "Extrema", ">40"}},
	{ThresholdVeryHigh, BucketInfo{BucketVeryHigh, ColorVeryHigh, "Muy Alta", "15-40"}},
	{ThresholdHigh, BucketInfo{BucketHigh, ColorHigh, "Alta", "10-15"}},
	{ThresholdMediumHigh, BucketInfo{BucketMediumHigh, ColorMediumHigh, "Media-Alta", "5-10"}},
	{ThresholdMedium, BucketInfo{BucketMedium, ColorMedium, "Media", "3-5"}},
}

var lowBucket = BucketInfo{BucketLow, ColorLow, "Baja", "≤3"}

// Bucketize maps a density to its severity bucket and color.
// Boundaries belong to the lower bucket.
func Bucketize(density float64) (BucketInfo, error) {
	switch {
	case math.IsNaN(density):
		return BucketInfo{}, &InvalidMetricError{Field: "density", Value: density, Reason: "density is NaN"}
	case math.IsInf(density, 0):
		return BucketInfo{}, &InvalidMetricError{Field: "density", Value: density, Reason: "density is infinite"}
	case density < 0:
		return BucketInfo{}, &InvalidMetricError{Field: "density", Value: density, Reason: "density must not be negative"}
	}

	for _, row := range bucketTable {
		if density > row.threshold {
			return row.info, nil
		}
	}
	return lowBucket, nil
}

// Legend returns every bucket from low to extreme, regardless of the data shown
func Legend() []BucketInfo {
	legend := make([]BucketInfo, 0, len(bucketTable)+1)
	legend = append(legend, lowBucket)
	for i := len(bucketTable) - 1; i >= 0; i-- {
		legend = append(legend, bucketTable[i].info)
	}
	return legend
}

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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ChartDataModel is an immutable snapshot of the two datasets behind the charts.
// Records are trusted as validated at ingestion and are never recomputed here.
type ChartDataModel struct {
	name      string
	districts []DistrictAnomalyRecord
	samples   []ConsumptionSample
}

// NewChartDataModel snapshots the given records; later changes to the
// caller's slices do not leak into the model
func NewChartDataModel(name string, districts []DistrictAnomalyRecord, samples []ConsumptionSample) *ChartDataModel {
	return &ChartDataModel{
		name:      name,
		districts: append([]DistrictAnomalyRecord(nil), districts...),
		samples:   append([]ConsumptionSample(nil), samples...),
	}
}

// Name identifies the dataset the model was built from
func (m *ChartDataModel) Name() string {
	return m.name
}

// Districts returns every district record in model order
func (m *ChartDataModel) Districts() []DistrictAnomalyRecord {
	return append([]DistrictAnomalyRecord(nil), m.districts...)
}

// Samples returns every consumption sample in model order
func (m *ChartDataModel) Samples() []ConsumptionSample {
	return append([]ConsumptionSample(nil), m.samples...)
}

// SamplesByCategory returns the samples of one category, preserving their relative order
func (m *ChartDataModel) SamplesByCategory(category SampleCategory) []ConsumptionSample {
	var out []ConsumptionSample
	for _, s := range m.samples {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// District finds the first record with the given key
func (m *ChartDataModel) District(key string) (DistrictAnomalyRecord, bool) {
	for _, d := range m.districts {
		if d.District == key {
			return d, true
		}
	}
	return DistrictAnomalyRecord{}, false
}

// Digest fingerprints the model contents for cache keys
func (m *ChartDataModel) Digest() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	// Encoding plain structs of numbers and strings cannot fail.
	_ = enc.Encode(m.districts)
	_ = enc.Encode(m.samples)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundledDataset(t *testing.T) {
	ds, err := LoadDataset("datasets/electropuno.yaml")
	require.NoError(t, err)

	assert.Equal(t, "electropuno", ds.Name)
	require.Len(t, ds.Districts, 10)
	assert.Equal(t, "ANANEA", ds.Districts[0].District)
	assert.Equal(t, 47.1, ds.Districts[0].Density)
	assert.Len(t, ds.AnomalyCases, 8)
	assert.Equal(t, 0.87, ds.Summary.Methodology.F1Score)
	assert.Equal(t, 343446, ds.Summary.Methodology.DatasetSize)
	require.Len(t, ds.Summary.KeyFigures, 3)
	assert.Equal(t, "0.52%", ds.Summary.KeyFigures[0].Value)

	model := ds.Model()
	assert.Len(t, model.SamplesByCategory(CategoryNormal), 200)
	assert.Len(t, model.SamplesByCategory(CategoryAnomaly), 8)
}

func TestParseDatasetExplicitSamples(t *testing.T) {
	data := `
name: small
districts:
  - { district: ANANEA, total_records: 5373, anomaly_count: 253, percentage: 4.71, density: 47.1 }
normal_samples:
  - { consumption_kwh: 100, billing_amount: 150, category: normal }
  - { consumption_kwh: 60, billing_amount: 90, category: normal }
anomaly_cases:
  - { consumption_kwh: 437991, billing_amount: 613000, district: ANANEA }
`
	ds, err := ParseDataset([]byte(data))
	require.NoError(t, err)

	samples := ds.Samples()
	require.Len(t, samples, 3)
	assert.Equal(t, 100.0, samples[0].ConsumptionKWh)
	assert.Equal(t, "ANANEA", samples[2].District)
	assert.True(t, samples[2].IsAnomaly())
	assert.Equal(t, DefaultDatasetTitle, ds.Title)
	assert.Equal(t, DefaultScatterTitle, ds.Caption(ViewScatter).Title)
}

func TestDatasetValidation(t *testing.T) {
	valid := DistrictAnomalyRecord{District: "ANANEA", TotalRecords: 5373, AnomalyCount: 253, Percentage: 4.71, Density: 47.1}

	tests := []struct {
		name         string
		mutate       func(ds *Dataset)
		inconsistent bool
		invalid      bool
		contains     string
	}{
		{
			name:         "anomaly count exceeds total",
			mutate:       func(ds *Dataset) { ds.Districts[0].AnomalyCount = 6000 },
			inconsistent: true,
			contains:     "exceeds total_records",
		},
		{
			name:         "percentage disagrees with counts",
			mutate:       func(ds *Dataset) { ds.Districts[0].Percentage = 9.5 },
			inconsistent: true,
			contains:     "does not match",
		},
		{
			name:    "negative density",
			mutate:  func(ds *Dataset) { ds.Districts[0].Density = -1 },
			invalid: true,
		},
		{
			name:    "NaN density",
			mutate:  func(ds *Dataset) { ds.Districts[0].Density = math.NaN() },
			invalid: true,
		},
		{
			name:         "duplicate district",
			mutate:       func(ds *Dataset) { ds.Districts = append(ds.Districts, ds.Districts[0]) },
			inconsistent: true,
			contains:     "duplicate",
		},
		{
			name: "anomaly without district",
			mutate: func(ds *Dataset) {
				ds.AnomalyCases = append(ds.AnomalyCases, AnomalyCase{ConsumptionKWh: 10, BillingAmount: 10})
			},
			inconsistent: true,
			contains:     "requires a district",
		},
		{
			name: "zero consumption",
			mutate: func(ds *Dataset) {
				ds.NormalSamples = []ConsumptionSample{{ConsumptionKWh: 0, BillingAmount: 10}}
			},
			invalid: true,
		},
		{
			name: "negative billing",
			mutate: func(ds *Dataset) {
				ds.NormalSamples = []ConsumptionSample{{ConsumptionKWh: 10, BillingAmount: -3}}
			},
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := &Dataset{Districts: []DistrictAnomalyRecord{valid}}
			tt.mutate(ds)

			err := ds.Validate()
			require.Error(t, err)

			if tt.inconsistent {
				var inconsistent *InconsistentRecordError
				assert.ErrorAs(t, err, &inconsistent)
			}
			if tt.invalid {
				var invalid *InvalidMetricError
				assert.ErrorAs(t, err, &invalid)
			}
			if tt.contains != "" {
				assert.ErrorContains(t, err, tt.contains)
			}
		})
	}
}

func TestDatasetValidationRejectsUnsafeNames(t *testing.T) {
	district := DistrictAnomalyRecord{District: "EMPTY"}

	for _, name := range []string{"../x", "a/b", `a\b`, "..", "."} {
		ds := &Dataset{Name: name, Districts: []DistrictAnomalyRecord{district}}
		var verr *ValidationError
		assert.ErrorAs(t, ds.Validate(), &verr, "name %q", name)
	}

	for _, name := range []string{"", "electropuno", "puno-2024.v2"} {
		ds := &Dataset{Name: name, Districts: []DistrictAnomalyRecord{district}}
		assert.NoError(t, ds.Validate(), "name %q", name)
	}

	_, err := ParseDataset([]byte("name: ../escape\ndistricts:\n  - { district: X }\n"))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDatasetValidationAcceptsZeroTotals(t *testing.T) {
	ds := &Dataset{Districts: []DistrictAnomalyRecord{{District: "EMPTY"}}}
	assert.NoError(t, ds.Validate())
}

func TestDatasetValidationRejectsEmpty(t *testing.T) {
	var dataErr *DataError
	assert.ErrorAs(t, (&Dataset{}).Validate(), &dataErr)
}

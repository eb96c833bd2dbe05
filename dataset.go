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
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDataset reads and validates a dataset file
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	ds, err := ParseDataset(data)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

// ParseDataset decodes a YAML dataset and validates it
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	if ds.Name == "" {
		ds.Name = "dataset"
	}
	if ds.Title == "" {
		ds.Title = DefaultDatasetTitle
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks every record at the ingestion boundary. All violations are
// returned joined, each as an *InvalidMetricError or *InconsistentRecordError.
func (d *Dataset) Validate() error {
	if len(d.Districts) == 0 && len(d.AnomalyCases) == 0 && len(d.NormalSamples) == 0 {
		return &DataError{DataType: "dataset", Message: "no districts or samples"}
	}

	var errs []error
	if err := ValidateDatasetName(d.Name); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]bool, len(d.Districts))
	for i, r := range d.Districts {
		key := r.District
		if key == "" {
			key = fmt.Sprintf("districts[%d]", i)
		}
		if r.District == "" {
			errs = append(errs, &InconsistentRecordError{Record: key, Reason: "district name is required"})
		} else if seen[r.District] {
			errs = append(errs, &InconsistentRecordError{Record: key, Reason: "duplicate district"})
		}
		seen[r.District] = true
		errs = append(errs, validateDistrict(key, r)...)
	}

	for i, s := range d.NormalSamples {
		if err := ValidateSample(fmt.Sprintf("normal_samples[%d]", i), s); err != nil {
			errs = append(errs, err)
		}
	}
	for i, c := range d.AnomalyCases {
		if err := ValidateSample(fmt.Sprintf("anomaly_cases[%d]", i), c.Sample()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ValidateDatasetName rejects names that cannot be used as a file name
// component inside the storage directory
func ValidateDatasetName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return &ValidationError{Field: "name", Value: name, Message: "must not contain path separators or dot segments"}
	}
	return nil
}

func validateDistrict(key string, r DistrictAnomalyRecord) []error {
	var errs []error

	if r.TotalRecords < 0 {
		errs = append(errs, &InconsistentRecordError{Record: key, Reason: "total_records must not be negative"})
	}
	if r.AnomalyCount < 0 {
		errs = append(errs, &InconsistentRecordError{Record: key, Reason: "anomaly_count must not be negative"})
	}
	if r.AnomalyCount > r.TotalRecords {
		errs = append(errs, &InconsistentRecordError{
			Record: key,
			Reason: fmt.Sprintf("anomaly_count %d exceeds total_records %d", r.AnomalyCount, r.TotalRecords),
		})
	}

	if math.IsNaN(r.Percentage) || r.Percentage < 0 || r.Percentage > 100 {
		errs = append(errs, &InvalidMetricError{Field: key + ".percentage", Value: r.Percentage, Reason: "must be between 0 and 100"})
	} else if r.TotalRecords > 0 && r.AnomalyCount >= 0 && r.AnomalyCount <= r.TotalRecords {
		expected := float64(r.AnomalyCount) / float64(r.TotalRecords) * 100
		if math.Abs(expected-r.Percentage) > PercentageTolerance {
			errs = append(errs, &InconsistentRecordError{
				Record: key,
				Reason: fmt.Sprintf("percentage %.2f does not match %d/%d (%.2f)", r.Percentage, r.AnomalyCount, r.TotalRecords, expected),
			})
		}
	}

	if math.IsNaN(r.Density) || math.IsInf(r.Density, 0) || r.Density < 0 {
		errs = append(errs, &InvalidMetricError{Field: key + ".density", Value: r.Density, Reason: "must be a finite non-negative number"})
	}

	return errs
}

// ValidateSample checks that a sample can be drawn on log axes and that
// anomalies carry their district attribution
func ValidateSample(key string, s ConsumptionSample) error {
	if err := positiveMetric(key+".consumption_kwh", s.ConsumptionKWh); err != nil {
		return err
	}
	if err := positiveMetric(key+".billing_amount", s.BillingAmount); err != nil {
		return err
	}
	if s.IsAnomaly() && s.District == "" {
		return &InconsistentRecordError{Record: key, Reason: "anomaly sample requires a district"}
	}
	return nil
}

func positiveMetric(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &InvalidMetricError{Field: field, Value: v, Reason: "must be a finite positive number"}
	}
	return nil
}

// Samples returns the full scatter population: explicit normal samples when
// supplied, otherwise the seeded synthetic population, followed by the anomaly cases
func (d *Dataset) Samples() []ConsumptionSample {
	if len(d.NormalSamples) == 0 {
		return NewSyntheticSampleGenerator(d.Synthetic).Population(d.AnomalyCases)
	}

	samples := append([]ConsumptionSample(nil), d.NormalSamples...)
	for _, c := range d.AnomalyCases {
		samples = append(samples, c.Sample())
	}
	return samples
}

// Model builds the immutable chart model for this dataset
func (d *Dataset) Model() *ChartDataModel {
	return NewChartDataModel(d.Name, d.Districts, d.Samples())
}

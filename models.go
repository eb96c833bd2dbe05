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
	"fmt"
	"strings"
)

// SampleCategory labels a consumption sample as normal or anomalous
type SampleCategory int

const (
	CategoryNormal SampleCategory = iota
	CategoryAnomaly
)

// String returns the dataset spelling of the category
func (c SampleCategory) String() string {
	switch c {
	case CategoryNormal:
		return "normal"
	case CategoryAnomaly:
		return "anomaly"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// MarshalText implements encoding.TextMarshaler
func (c SampleCategory) MarshalText() ([]byte, error) {
	switch c {
	case CategoryNormal, CategoryAnomaly:
		return []byte(c.String()), nil
	}
	return nil, fmt.Errorf("unknown sample category %d", int(c))
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *SampleCategory) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "normal":
		*c = CategoryNormal
	case "anomaly", "anomalia", "anomalía":
		*c = CategoryAnomaly
	default:
		return fmt.Errorf("unknown sample category %q", string(text))
	}
	return nil
}

// ViewMode selects which chart is shown
type ViewMode int

const (
	ViewGeographic ViewMode = iota
	ViewScatter
)

// String returns the configuration spelling of the view
func (m ViewMode) String() string {
	switch m {
	case ViewGeographic:
		return "geographic"
	case ViewScatter:
		return "scatter"
	default:
		return fmt.Sprintf("view(%d)", int(m))
	}
}

// ViewModes lists every view in selector order
var ViewModes = []ViewMode{ViewGeographic, ViewScatter}

// Valid reports whether m is one of the two known views
func (m ViewMode) Valid() bool {
	return m == ViewGeographic || m == ViewScatter
}

// ParseViewMode maps a user supplied name to a ViewMode
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "geographic", "geo", "mapa", "map":
		return ViewGeographic, nil
	case "scatter", "dispersion":
		return ViewScatter, nil
	}
	return ViewGeographic, &ValidationError{
		Field:   "view",
		Value:   s,
		Message: "must be one of geographic, scatter",
	}
}

// DistrictAnomalyRecord is the precomputed anomaly aggregate for one district
type DistrictAnomalyRecord struct {
	District     string  `yaml:"district" json:"district"`
	TotalRecords int     `yaml:"total_records" json:"total_records"`
	AnomalyCount int     `yaml:"anomaly_count" json:"anomaly_count"`
	Percentage   float64 `yaml:"percentage" json:"percentage"` // anomaly_count / total_records * 100, as supplied
	Density      float64 `yaml:"density" json:"density"`       // anomalies per 1000 inhabitants
}

// ConsumptionSample is one metered reading
type ConsumptionSample struct {
	ConsumptionKWh float64        `yaml:"consumption_kwh" json:"consumption_kwh"`
	BillingAmount  float64        `yaml:"billing_amount" json:"billing_amount"`
	Category       SampleCategory `yaml:"category" json:"category"`
	District       string         `yaml:"district,omitempty" json:"district,omitempty"` // set only for anomalies
}

// IsAnomaly reports whether the sample was flagged
func (s ConsumptionSample) IsAnomaly() bool {
	return s.Category == CategoryAnomaly
}

// AnomalyCase is a flagged reading attributed to a district
type AnomalyCase struct {
	ConsumptionKWh float64 `yaml:"consumption_kwh"`
	BillingAmount  float64 `yaml:"billing_amount"`
	District       string  `yaml:"district"`
}

// Sample converts the case into an anomaly sample
func (a AnomalyCase) Sample() ConsumptionSample {
	return ConsumptionSample{
		ConsumptionKWh: a.ConsumptionKWh,
		BillingAmount:  a.BillingAmount,
		Category:       CategoryAnomaly,
		District:       a.District,
	}
}

// SyntheticSettings controls the demo normal-sample population
type SyntheticSettings struct {
	Count           int     `yaml:"count"`
	Seed            uint64  `yaml:"seed"`
	MinConsumption  float64 `yaml:"min_consumption"`
	ConsumptionSpan float64 `yaml:"consumption_span"`
	BillingRate     float64 `yaml:"billing_rate"`
	BillingJitter   float64 `yaml:"billing_jitter"`
}

// ViewCaption holds the heading shown above a chart
type ViewCaption struct {
	Title   string `yaml:"title"`
	Caption string `yaml:"caption"`
}

// Captions holds headings for both views
type Captions struct {
	Geographic ViewCaption `yaml:"geographic"`
	Scatter    ViewCaption `yaml:"scatter"`
}

// KeyFigure is a display-only summary card sourced from the evaluation report
type KeyFigure struct {
	Value  string `yaml:"value" json:"value"`
	Label  string `yaml:"label" json:"label"`
	Detail string `yaml:"detail" json:"detail"`
}

// Methodology describes how the result set was produced
type Methodology struct {
	DatasetSize  int      `yaml:"dataset_size" json:"dataset_size"`
	Period       string   `yaml:"period" json:"period"`
	Algorithms   []string `yaml:"algorithms" json:"algorithms"`
	F1Score      float64  `yaml:"f1_score" json:"f1_score"`
	Precision    float64  `yaml:"precision" json:"precision"`
	Optimization string   `yaml:"optimization" json:"optimization"`
}

// Summary groups the static report values shown beside the charts
type Summary struct {
	KeyFigures  []KeyFigure `yaml:"key_figures"`
	Methodology Methodology `yaml:"methodology"`
}

// Dataset is the finished result set supplied by the detection pipeline
type Dataset struct {
	Name          string                  `yaml:"name"`
	Title         string                  `yaml:"title"`
	Districts     []DistrictAnomalyRecord `yaml:"districts"`
	AnomalyCases  []AnomalyCase           `yaml:"anomaly_cases"`
	NormalSamples []ConsumptionSample     `yaml:"normal_samples"`
	Synthetic     SyntheticSettings       `yaml:"synthetic"`
	Captions      Captions                `yaml:"captions"`
	Summary       Summary                 `yaml:"summary"`
}

// Caption returns the heading for the given view, falling back to defaults
func (d *Dataset) Caption(mode ViewMode) ViewCaption {
	var c ViewCaption
	var def ViewCaption
	switch mode {
	case ViewScatter:
		c, def = d.Captions.Scatter, ViewCaption{Title: DefaultScatterTitle}
	default:
		c, def = d.Captions.Geographic, ViewCaption{Title: DefaultGeographicTitle}
	}
	if c.Title == "" {
		c.Title = def.Title
	}
	return c
}

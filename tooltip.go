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
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// DisplayLines is a display-ready hover panel, header first.
// The empty value is the "no content" sentinel: nothing is drawn for it.
type DisplayLines []string

// NoContent is returned when nothing is hovered
var NoContent DisplayLines

// IsEmpty reports whether there is nothing to draw
func (d DisplayLines) IsEmpty() bool {
	return len(d) == 0
}

// Header returns the first line, or "" for NoContent
func (d DisplayLines) Header() string {
	if d.IsEmpty() {
		return ""
	}
	return d[0]
}

// String joins the lines for plain-text output
func (d DisplayLines) String() string {
	return strings.Join(d, "\n")
}

// TooltipFormatter renders hover payloads for both chart types
type TooltipFormatter struct {
	currency string
}

// NewTooltipFormatter creates a formatter using the given currency prefix
func NewTooltipFormatter(currencyPrefix string) *TooltipFormatter {
	if currencyPrefix == "" {
		currencyPrefix = DefaultCurrency
	}
	return &TooltipFormatter{currency: currencyPrefix}
}

// FormatGeoTooltip renders the panel for a hovered district bar.
// Percentage and density are shown as supplied, not recomputed.
func (f *TooltipFormatter) FormatGeoTooltip(record *DistrictAnomalyRecord) DisplayLines {
	if record == nil {
		return NoContent
	}
	return DisplayLines{
		"Distrito: " + record.District,
		"Total Registros: " + humanize.Comma(int64(record.TotalRecords)),
		"Anomalías: " + humanize.Comma(int64(record.AnomalyCount)),
		fmt.Sprintf("Porcentaje: %.2f%%", record.Percentage),
		fmt.Sprintf("Densidad: %.1f%s", record.Density, DensitySuffix),
	}
}

// FormatScatterTooltip renders the panel for a hovered scatter point.
// The district is only consulted for anomalies.
func (f *TooltipFormatter) FormatScatterTooltip(sample *ConsumptionSample) DisplayLines {
	if sample == nil {
		return NoContent
	}

	header := NormalLayerLabel
	if sample.IsAnomaly() {
		district := sample.District
		if district == "" {
			district = UnknownDistrict
		}
		header = "Anomalía: " + district
	}

	return DisplayLines{
		header,
		"Consumo: " + FormatGrouped(sample.ConsumptionKWh) + " kWh",
		"Facturación: " + f.FormatCurrency(sample.BillingAmount),
	}
}

// FormatCurrency renders a grouped integer amount with the currency prefix
func (f *TooltipFormatter) FormatCurrency(amount float64) string {
	return f.currency + " " + FormatGrouped(amount)
}

// BillingAxisLabel names the billing axis with its currency ("Facturación (S/.)")
func BillingAxisLabel(currency string) string {
	return fmt.Sprintf("%s (%s)", ScatterYAxisLabel, currency)
}

// Currency returns the prefix used for billing amounts
func (f *TooltipFormatter) Currency() string {
	return f.currency
}

// FormatGrouped rounds v to an integer and groups thousands ("437,991")
func FormatGrouped(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

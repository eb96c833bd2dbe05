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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderedDashboard(t *testing.T, mode ViewMode) *Dashboard {
	t.Helper()
	d := newTestDashboard(t)
	require.NoError(t, d.Load(testDataset(), mode))
	return d
}

func TestMarkdownGeographicReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(testLogger()).Write(&buf, renderedDashboard(t, ViewGeographic)))
	out := buf.String()

	for _, want := range []string{
		"# Test",
		"- [x] " + DefaultGeographicTitle,
		"| 1 | ANANEA | 47.1 | 🟥 Extrema |",
		"Total Registros: 5,373",
		"Porcentaje: 4.71%",
		"### " + LegendHeading,
		"**Muy Alta** (15-40)",
		"**Media-Alta** (5-10)",
		"F1-Score Ensemble:** 0.87",
		"343,446 registros",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Total de Anomalías", "geographic report shows scatter key figures")
}

func TestMarkdownScatterReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(testLogger()).Write(&buf, renderedDashboard(t, ViewScatter)))
	out := buf.String()

	for _, want := range []string{
		"- [x] " + DefaultScatterTitle,
		"| Consumo Normal | 2 | `#3B82F6` | 0.6 |",
		"| Anomalías Detectadas | 1 | `#DC2626` | 0.8 |",
		"**Facturación (S/.):** S/. 170 to S/. 613,000 (log)",
		"**Anomalía: ANANEA** (Consumo: 437,991 kWh, Facturación: S/. 613,000)",
		"| Total de Anomalías | **0.52%** | 1,801 de 343,446 registros |",
	} {
		assert.Contains(t, out, want)
	}
}

func TestHTMLReportContainsBothViews(t *testing.T) {
	d := renderedDashboard(t, ViewGeographic)

	var buf bytes.Buffer
	require.NoError(t, NewHTMLReporter(testLogger()).Write(&buf, d))
	out := buf.String()

	for _, want := range []string{
		`<input type="radio" class="tab-input" name="view" id="tab-geographic" checked>`,
		`<input type="radio" class="tab-input" name="view" id="tab-scatter">`,
		`<label class="tab" for="tab-geographic">`,
		`<label class="tab" for="tab-scatter">`,
		`#tab-scatter:checked ~ .views .view-scatter`,
		`<section class="view view-geographic" id="view-geographic">`,
		`<section class="view view-scatter" id="view-scatter">`,
		// geographic section
		`background-color: #8B0000`,
		`background-color: #98FB98`,
		`title="Distrito: ANANEA&#10;Total Registros: 5,373`,
		`<td>4.71%</td>`,
		// scatter section
		`title="Anomalía: ANANEA&#10;Consumo: 437,991 kWh&#10;Facturación: S/. 613,000"`,
		`<div class="metric-value">0.52%</div>`,
		MethodologyHeading,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "<img", "image tag rendered while painting is disabled")

	assert.Equal(t, ViewGeographic, d.Mode(), "report left the dashboard on another view")
	assert.Equal(t, ViewGeographic, d.View().Mode)
}

func TestHTMLReportChecksActiveView(t *testing.T) {
	d := renderedDashboard(t, ViewScatter)

	var buf bytes.Buffer
	require.NoError(t, NewHTMLReporter(testLogger()).Write(&buf, d))
	out := buf.String()

	assert.Contains(t, out, `id="tab-scatter" checked>`)
	assert.Contains(t, out, `id="tab-geographic">`)
	assert.Equal(t, ViewScatter, d.Mode())
}

func TestHTMLReportMarksUnavailableView(t *testing.T) {
	ds := testDataset()
	ds.Districts = nil
	d := newTestDashboard(t)
	require.NoError(t, d.Load(ds, ViewScatter))

	var buf bytes.Buffer
	require.NoError(t, NewHTMLReporter(testLogger()).Write(&buf, d))
	out := buf.String()

	assert.Contains(t, out, `<section class="view view-geographic" id="view-geographic">`)
	assert.Contains(t, out, "Vista no disponible")
	assert.Contains(t, out, `<div class="metric-value">0.52%</div>`)
	assert.Equal(t, ViewScatter, d.Mode())
	assert.NotNil(t, d.View())
}

func TestReportRequiresRenderedView(t *testing.T) {
	d := newTestDashboard(t)

	var dataErr *DataError
	assert.ErrorAs(t, NewReporter(testLogger()).Write(&bytes.Buffer{}, d), &dataErr)
	assert.ErrorAs(t, NewHTMLReporter(testLogger()).Write(&bytes.Buffer{}, d), &dataErr)
}

func TestHoverTitleOmitsNoContent(t *testing.T) {
	assert.Empty(t, hoverTitle(NoContent))
}

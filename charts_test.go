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
	"encoding/base64"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChartGenerator() *ChartGenerator {
	return NewChartGenerator(&Config{ChartWidth: 600, ChartHeight: 300, Theme: "light"}, testLogger())
}

func TestGeographicSingleExtremeDistrict(t *testing.T) {
	model := NewChartDataModel("t", []DistrictAnomalyRecord{
		{District: "ANANEA", TotalRecords: 5373, AnomalyCount: 253, Percentage: 4.71, Density: 47.1},
	}, nil)

	geo, err := testChartGenerator().BuildGeographicChart(model)
	require.NoError(t, err)
	require.Len(t, geo.Bars, 1)

	bar := geo.Bars[0]
	assert.Equal(t, "ANANEA", bar.Key)
	assert.Equal(t, BucketExtreme, bar.Bucket)
	assert.Equal(t, ColorExtreme, bar.Color)
	assert.Len(t, geo.Legend, 6, "legend lists every bucket")
}

func TestGeographicKeepsModelOrderAndDuplicates(t *testing.T) {
	districts := []DistrictAnomalyRecord{
		{District: "JULIACA", Density: 2.9},
		{District: "ANANEA", Density: 47.1},
		{District: "JULIACA", Density: 12},
		{District: "PUNO", Density: 4.9},
	}
	geo, err := testChartGenerator().BuildGeographicChart(NewChartDataModel("t", districts, nil))
	require.NoError(t, err)
	require.Len(t, geo.Bars, len(districts))

	wantBuckets := []Bucket{BucketLow, BucketExtreme, BucketHigh, BucketMedium}
	for i, bar := range geo.Bars {
		assert.Equal(t, districts[i].District, bar.Key, "bar %d", i)
		assert.Equal(t, wantBuckets[i], bar.Bucket, "bar %d", i)
	}

	first := geo.Bar("JULIACA")
	require.NotNil(t, first)
	assert.Equal(t, 2.9, first.Density, "Bar() returns the first occurrence")
	assert.Equal(t, 12.0, geo.BarAt(2).Density)
	assert.Nil(t, geo.BarAt(9))
}

func TestGeographicRejectsUndefinedDensity(t *testing.T) {
	districts := []DistrictAnomalyRecord{
		{District: "OK", Density: 5},
		{District: "NEG", Density: -2},
		{District: "NAN", Density: math.NaN()},
	}
	geo, err := testChartGenerator().BuildGeographicChart(NewChartDataModel("t", districts, nil))
	require.NoError(t, err)
	require.Len(t, geo.Bars, 1)
	assert.Equal(t, "OK", geo.Bars[0].Key)
	require.Len(t, geo.Rejected, 2)

	var metricErr *InvalidMetricError
	assert.ErrorAs(t, geo.Rejected[0].Err, &metricErr)

	_, err = testChartGenerator().BuildGeographicChart(NewChartDataModel("t", districts[1:], nil))
	var dataErr *DataError
	assert.ErrorAs(t, err, &dataErr)
}

func TestScatterLayersAndDomain(t *testing.T) {
	plot, err := testChartGenerator().BuildScatterPlot(NewChartDataModel("t", nil, testSamples()))
	require.NoError(t, err)
	require.Len(t, plot.Layers, 2)

	normal, anomaly := plot.Layers[0], plot.Layers[1]
	require.Equal(t, CategoryNormal, normal.Category, "normal layer is drawn first")
	require.Equal(t, CategoryAnomaly, anomaly.Category, "anomaly layer is drawn last")
	assert.Greater(t, anomaly.Opacity, normal.Opacity)
	assert.Len(t, normal.Samples, 3)
	assert.Len(t, anomaly.Samples, 2)

	assert.Equal(t, Domain{Min: 40, Max: 437991}, plot.X)
	assert.Equal(t, Domain{Min: 60, Max: 613000}, plot.Y)
}

func TestScatterAnomalyDrawnAboveNormalPoint(t *testing.T) {
	samples := []ConsumptionSample{
		{ConsumptionKWh: 437991, BillingAmount: 613000, Category: CategoryAnomaly, District: "ANANEA"},
		{ConsumptionKWh: 437991, BillingAmount: 613000, Category: CategoryNormal},
	}
	plot, err := testChartGenerator().BuildScatterPlot(NewChartDataModel("t", nil, samples))
	require.NoError(t, err)

	top := plot.TopmostAt(437991, 613000, hoverTolerance)
	require.NotNil(t, top)
	assert.True(t, top.IsAnomaly())
	assert.Equal(t, "ANANEA", top.District)

	assert.Nil(t, plot.TopmostAt(10, 10, hoverTolerance), "empty space")
	assert.Nil(t, plot.TopmostAt(-1, 10, hoverTolerance), "non-positive position")
}

func TestScatterRejectsNonPositiveSamples(t *testing.T) {
	samples := []ConsumptionSample{
		{ConsumptionKWh: 100, BillingAmount: 140, Category: CategoryNormal},
		{ConsumptionKWh: 0, BillingAmount: 140, Category: CategoryNormal},
		{ConsumptionKWh: 50, BillingAmount: -1, Category: CategoryAnomaly, District: "PUNO"},
	}
	plot, err := testChartGenerator().BuildScatterPlot(NewChartDataModel("t", nil, samples))
	require.NoError(t, err)
	assert.Len(t, plot.Rejected, 2)
	assert.Equal(t, Domain{Min: 100, Max: 100}, plot.X, "domain ignores rejected samples")
}

func TestLogDomainAndTicks(t *testing.T) {
	lo, hi := logDomain(Domain{Min: 10, Max: 100000})
	assert.InDelta(t, 1, lo, 1e-9)
	assert.InDelta(t, 5, hi, 1e-9)

	var labels []string
	for _, tick := range logTicks(lo, hi) {
		labels = append(labels, tick.Label)
	}
	assert.Equal(t, []string{"10", "100", "1,000", "10,000", "100,000"}, labels)

	lo, hi = logDomain(Domain{Min: 50, Max: 50})
	assert.InDelta(t, 1, hi-lo, 1e-9, "degenerate domain spans one decade")
}

func TestChartGeneratorRenderKey(t *testing.T) {
	cg := NewChartGenerator(&Config{ChartWidth: 600, ChartHeight: 300, Theme: "dark", CurrencyPrefix: "USD"}, testLogger())
	assert.Equal(t, ChartRenderKey{
		Digest:   "abc",
		View:     ViewScatter,
		Width:    600,
		Height:   300,
		Theme:    "dark",
		Currency: "USD",
		Title:    "Scatter",
	}, cg.RenderKey("abc", ViewScatter, "Scatter"))

	assert.Equal(t, DefaultCurrency, testChartGenerator().RenderKey("abc", ViewScatter, "").Currency)
}

func TestRenderChartsProducePNG(t *testing.T) {
	cg := testChartGenerator()
	model := NewChartDataModel("t", testDistricts(), testSamples())

	geo, err := cg.BuildGeographicChart(model)
	require.NoError(t, err)
	plot, err := cg.BuildScatterPlot(model)
	require.NoError(t, err)

	geoImage, err := cg.RenderGeographic(geo, "geo")
	require.NoError(t, err)
	scatterImage, err := cg.RenderScatter(plot, "scatter")
	require.NoError(t, err)

	pngMagic := []byte("\x89PNG")
	for name, img := range map[string]string{"geo": geoImage, "scatter": scatterImage} {
		raw, err := base64.StdEncoding.DecodeString(img)
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(raw, pngMagic), "%s image is not a PNG", name)
	}
}

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

// Display colors
const (
	ColorExtreme    ColorToken = "#8B0000" // dark red
	ColorVeryHigh   ColorToken = "#DC143C" // crimson
	ColorHigh       ColorToken = "#FF6347" // tomato
	ColorMediumHigh ColorToken = "#FFA500" // orange
	ColorMedium     ColorToken = "#FFD700" // gold
	ColorLow        ColorToken = "#98FB98" // pale green

	ColorNormalLayer  ColorToken = "#3B82F6"
	ColorAnomalyLayer ColorToken = "#DC2626"
)

// Density thresholds, compared with a strict greater-than
const (
	ThresholdExtreme    = 40.0
	ThresholdVeryHigh   = 15.0
	ThresholdHigh       = 10.0
	ThresholdMediumHigh = 5.0
	ThresholdMedium     = 3.0
)

// Scatter layer opacities; anomalies stay more opaque than the normal cloud
const (
	NormalLayerOpacity  = 0.6
	AnomalyLayerOpacity = 0.8
)

// Labels used across tooltips, charts and reports
const (
	DefaultGeographicTitle = "Distribución Geográfica de Anomalías por Distrito"
	DefaultScatterTitle    = "Relación Consumo-Facturación y Detección de Anomalías"

	GeoAxisLabel        = "Densidad (anomalías/1000 hab.)"
	GeoSeriesLabel      = "Densidad de Anomalías"
	ScatterXAxisLabel   = "Consumo (kWh)"
	ScatterYAxisLabel   = "Facturación"
	NormalLayerLabel    = "Consumo Normal"
	AnomalyLayerLabel   = "Anomalías Detectadas"
	LegendHeading       = "Escala de Intensidad"
	MethodologyHeading  = "Información Metodológica"
	UnknownDistrict     = "N/A"
	DensitySuffix       = "/1000 hab."
	DefaultCurrency     = "S/."
	DefaultDatasetTitle = "Detección de Anomalías en Consumo Eléctrico"
)

// Chart defaults
const (
	DefaultChartWidth  = 1200
	DefaultChartHeight = 500
	DefaultChartTheme  = "light"

	DefaultSyntheticCount = 200
	DefaultSyntheticSeed  = 42

	DefaultCacheTTLMinutes = 60

	// PercentageTolerance absorbs the two-decimal rounding of supplied percentages
	PercentageTolerance = 0.01
)

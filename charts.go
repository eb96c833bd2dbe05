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
	"fmt"
	"math"
	"strings"

	charts "github.com/vicanso/go-charts/v2"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RejectedItem is a chart element dropped because it violates an invariant
type RejectedItem struct {
	Item string
	Err  error
}

// GeoBar is one district bar on the density chart
type GeoBar struct {
	Key     string
	Density float64
	Bucket  Bucket
	Color   ColorToken
	Record  DistrictAnomalyRecord
}

// GeoChart is the laid-out geographic density chart
type GeoChart struct {
	Bars     []GeoBar
	Legend   []BucketInfo
	Rejected []RejectedItem
}

// Bar returns the first bar with the given key. Duplicate keys are kept on
// the chart but only the first one is reachable by key.
func (g *GeoChart) Bar(key string) *GeoBar {
	for i := range g.Bars {
		if g.Bars[i].Key == key {
			return &g.Bars[i]
		}
	}
	return nil
}

// BarAt returns the bar at position i, or nil when i is out of range
func (g *GeoChart) BarAt(i int) *GeoBar {
	if i < 0 || i >= len(g.Bars) {
		return nil
	}
	return &g.Bars[i]
}

// Domain is an inclusive axis range
type Domain struct {
	Min float64
	Max float64
}

func (d *Domain) extend(v float64) {
	if v < d.Min {
		d.Min = v
	}
	if v > d.Max {
		d.Max = v
	}
}

// ScatterLayer is one independently styled group of points
type ScatterLayer struct {
	Name     string
	Category SampleCategory
	Color    ColorToken
	Opacity  float64
	Samples  []ConsumptionSample
}

// ScatterPlot is the laid-out consumption vs billing chart.
// Layers are in draw order; later layers paint over earlier ones.
type ScatterPlot struct {
	Layers   []ScatterLayer
	X        Domain // consumption, kWh
	Y        Domain // billing amount
	Rejected []RejectedItem
}

// Layer returns the layer holding the given category
func (p *ScatterPlot) Layer(category SampleCategory) *ScatterLayer {
	for i := range p.Layers {
		if p.Layers[i].Category == category {
			return &p.Layers[i]
		}
	}
	return nil
}

// TopmostAt returns the visible point at the given data position, matching
// within tolerance decades on both log axes. The last drawn point wins.
func (p *ScatterPlot) TopmostAt(consumption, billing, tolerance float64) *ConsumptionSample {
	if consumption <= 0 || billing <= 0 {
		return nil
	}
	lx, ly := math.Log10(consumption), math.Log10(billing)

	for li := len(p.Layers) - 1; li >= 0; li-- {
		samples := p.Layers[li].Samples
		for si := len(samples) - 1; si >= 0; si-- {
			s := samples[si]
			if math.Abs(math.Log10(s.ConsumptionKWh)-lx) <= tolerance &&
				math.Abs(math.Log10(s.BillingAmount)-ly) <= tolerance {
				return &s
			}
		}
	}
	return nil
}

// ChartGenerator lays out and renders both chart views
type ChartGenerator struct {
	width  int
	height int
	theme    string
	currency string
	logger   *Logger
}

// NewChartGenerator creates a new chart generator
func NewChartGenerator(config *Config, logger *Logger) *ChartGenerator {
	cg := &ChartGenerator{
		width:    config.ChartWidth,
		height:   config.ChartHeight,
		theme:    config.Theme,
		currency: config.CurrencyPrefix,
		logger:   logger.WithComponent("charts"),
	}
	if cg.width <= 0 {
		cg.width = DefaultChartWidth
	}
	if cg.height <= 0 {
		cg.height = DefaultChartHeight
	}
	if cg.theme == "" {
		cg.theme = DefaultChartTheme
	}
	if cg.currency == "" {
		cg.currency = DefaultCurrency
	}
	return cg
}

// RenderKey identifies the image this generator paints for a snapshot and view
func (cg *ChartGenerator) RenderKey(digest string, mode ViewMode, title string) ChartRenderKey {
	return ChartRenderKey{
		Digest:   digest,
		View:     mode,
		Width:    cg.width,
		Height:   cg.height,
		Theme:    cg.theme,
		Currency: cg.currency,
		Title:    title,
	}
}

// BuildGeographicChart assigns a bucket and color to every district in model
// order. Districts with an undefined density are dropped from the chart.
func (cg *ChartGenerator) BuildGeographicChart(model *ChartDataModel) (*GeoChart, error) {
	districts := model.Districts()
	geo := &GeoChart{
		Bars:   make([]GeoBar, 0, len(districts)),
		Legend: Legend(),
	}

	for _, d := range districts {
		info, err := Bucketize(d.Density)
		if err != nil {
			cg.logger.LogRejectedItem(ViewGeographic, d.District, err)
			geo.Rejected = append(geo.Rejected, RejectedItem{Item: d.District, Err: err})
			continue
		}
		geo.Bars = append(geo.Bars, GeoBar{
			Key:     d.District,
			Density: d.Density,
			Bucket:  info.Bucket,
			Color:   info.Color,
			Record:  d,
		})
	}

	if len(geo.Bars) == 0 {
		return geo, &DataError{DataType: "districts", Message: "no renderable districts"}
	}

	cg.logger.LogRenderStage(ViewGeographic, "layout", len(geo.Bars))
	return geo, nil
}

// BuildScatterPlot splits the samples into a normal layer and an anomaly
// layer drawn above it. Samples that cannot sit on a log axis are dropped.
func (cg *ChartGenerator) BuildScatterPlot(model *ChartDataModel) (*ScatterPlot, error) {
	plot := &ScatterPlot{
		Layers: []ScatterLayer{
			{Name: NormalLayerLabel, Category: CategoryNormal, Color: ColorNormalLayer, Opacity: NormalLayerOpacity},
			{Name: AnomalyLayerLabel, Category: CategoryAnomaly, Color: ColorAnomalyLayer, Opacity: AnomalyLayerOpacity},
		},
		X: Domain{Min: math.Inf(1), Max: math.Inf(-1)},
		Y: Domain{Min: math.Inf(1), Max: math.Inf(-1)},
	}

	accepted := 0
	for li := range plot.Layers {
		layer := &plot.Layers[li]
		for i, s := range model.SamplesByCategory(layer.Category) {
			item := fmt.Sprintf("%s[%d]", layer.Category, i)
			if err := positiveMetric(item+".consumption_kwh", s.ConsumptionKWh); err != nil {
				cg.logger.LogRejectedItem(ViewScatter, item, err)
				plot.Rejected = append(plot.Rejected, RejectedItem{Item: item, Err: err})
				continue
			}
			if err := positiveMetric(item+".billing_amount", s.BillingAmount); err != nil {
				cg.logger.LogRejectedItem(ViewScatter, item, err)
				plot.Rejected = append(plot.Rejected, RejectedItem{Item: item, Err: err})
				continue
			}
			layer.Samples = append(layer.Samples, s)
			plot.X.extend(s.ConsumptionKWh)
			plot.Y.extend(s.BillingAmount)
			accepted++
		}
	}

	if accepted == 0 {
		return plot, &DataError{DataType: "samples", Message: "no renderable samples"}
	}

	cg.logger.LogRenderStage(ViewScatter, "layout", accepted)
	return plot, nil
}

// RenderGeographic draws the density bar chart and returns a base64 PNG
func (cg *ChartGenerator) RenderGeographic(geo *GeoChart, title string) (string, error) {
	if len(geo.Bars) == 0 {
		return "", fmt.Errorf("no bars to render")
	}

	labels := make([]string, 0, len(geo.Bars))
	densities := make([]float64, 0, len(geo.Bars))
	for _, bar := range geo.Bars {
		labels = append(labels, bar.Key)
		densities = append(densities, bar.Density)
	}

	p, err := charts.BarRender(
		[][]float64{densities},
		charts.TitleTextOptionFunc(title),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{GeoSeriesLabel}, charts.PositionRight),
		charts.ThemeOptionFunc(cg.theme),
		charts.WidthOptionFunc(cg.width),
		charts.HeightOptionFunc(cg.height),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  30,
			Bottom: 60,
			Left:   20,
		}),
		barColorsOption(geo.Bars),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render geographic chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	cg.logger.LogRenderStage(ViewGeographic, "paint", len(geo.Bars))
	return base64.StdEncoding.EncodeToString(buf), nil
}

// barColorsOption fills each bar with its bucket color
func barColorsOption(bars []GeoBar) charts.OptionFunc {
	return func(opt *charts.ChartOption) {
		if len(opt.SeriesList) == 0 {
			return
		}
		data := opt.SeriesList[0].Data
		for i := range data {
			if i < len(bars) {
				data[i].Style.FillColor = hexColor(bars[i].Color)
			}
		}
	}
}

// RenderScatter draws both layers on log10 axes and returns a base64 PNG
func (cg *ChartGenerator) RenderScatter(plot *ScatterPlot, title string) (string, error) {
	xMin, xMax := logDomain(plot.X)
	yMin, yMax := logDomain(plot.Y)

	series := make([]chart.Series, 0, len(plot.Layers))
	for _, layer := range plot.Layers {
		if len(layer.Samples) == 0 {
			continue
		}

		xs := make([]float64, 0, len(layer.Samples))
		ys := make([]float64, 0, len(layer.Samples))
		for _, s := range layer.Samples {
			xs = append(xs, math.Log10(s.ConsumptionKWh))
			ys = append(ys, math.Log10(s.BillingAmount))
		}

		col := hexColor(layer.Color).WithAlpha(uint8(math.Round(layer.Opacity * 255)))
		series = append(series, chart.ContinuousSeries{
			Name:    layer.Name,
			Style:   pointStyle(col),
			XValues: xs,
			YValues: ys,
		})
	}
	if len(series) == 0 {
		return "", fmt.Errorf("no points to render")
	}

	graph := chart.Chart{
		Title:      title,
		Width:      cg.width,
		Height:     cg.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  ScatterXAxisLabel,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: logTicks(xMin, xMax),
		},
		YAxis: chart.YAxis{
			Name:  BillingAxisLabel(cg.currency),
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks: logTicks(yMin, yMax),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("failed to render scatter chart: %w", err)
	}

	cg.logger.LogRenderStage(ViewScatter, "paint", len(series))
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		StrokeColor: col,
		DotWidth:    4,
		DotColor:    col,
	}
}

// logDomain converts a data domain to log10 bounds, widening a single point
// to one decade so the axis keeps a non-zero span
func logDomain(d Domain) (float64, float64) {
	lo, hi := math.Log10(d.Min), math.Log10(d.Max)
	if hi-lo < 1e-9 {
		lo -= 0.5
		hi += 0.5
	}
	return lo, hi
}

// logTicks places ticks at both ends and at every whole decade in between,
// labelled in original units
func logTicks(lo, hi float64) []chart.Tick {
	ticks := []chart.Tick{{Value: lo, Label: FormatGrouped(math.Pow(10, lo))}}
	for k := math.Ceil(lo); k < hi; k++ {
		if k-lo < 0.1 || hi-k < 0.1 {
			continue
		}
		ticks = append(ticks, chart.Tick{Value: k, Label: FormatGrouped(math.Pow(10, k))})
	}
	return append(ticks, chart.Tick{Value: hi, Label: FormatGrouped(math.Pow(10, hi))})
}

// hexColor converts a "#RRGGBB" token into a drawing color
func hexColor(token ColorToken) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(string(token), "#"))
}

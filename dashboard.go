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

	"go.uber.org/atomic"
)

// hoverTolerance is the hit radius for scatter points, in log10 decades
const hoverTolerance = 0.02

// RenderedView is the output of one render pass
type RenderedView struct {
	Mode     ViewMode
	Caption  ViewCaption
	Geo      *GeoChart    // set for the geographic view
	Scatter  *ScatterPlot // set for the scatter view
	Image    string       // base64 PNG, empty when painting is disabled
	CacheHit bool
}

// snapshot pairs a dataset with its model so a render pass never sees a
// model from one dataset and captions from another
type snapshot struct {
	dataset *Dataset
	model   *ChartDataModel
	digest  string
}

// Dashboard connects the view controller to the renderers. Datasets are
// swapped atomically between render passes and never mutated.
type Dashboard struct {
	current    atomic.Pointer[snapshot]
	controller *ViewController
	charts     *ChartGenerator
	tooltips   *TooltipFormatter
	storage    *Storage
	config     *Config
	logger     *Logger

	paint   bool
	view    *RenderedView
	lastErr error
}

// NewDashboard creates a dashboard. storage may be nil to disable the chart cache.
func NewDashboard(config *Config, storage *Storage, logger *Logger) *Dashboard {
	d := &Dashboard{
		controller: NewViewController(logger),
		charts:     NewChartGenerator(config, logger),
		tooltips:   NewTooltipFormatter(config.CurrencyPrefix),
		storage:    storage,
		config:     config,
		logger:     logger.WithComponent("dashboard"),
		paint:      true,
	}
	d.controller.OnRedraw(d.redraw)
	return d
}

// DisableImages skips PNG painting; layouts and tooltips still work
func (d *Dashboard) DisableImages() {
	d.paint = false
}

// Load replaces the displayed dataset wholesale and shows it in mode
func (d *Dashboard) Load(ds *Dataset, mode ViewMode) error {
	model := ds.Model()
	d.current.Store(&snapshot{dataset: ds, model: model, digest: model.Digest()})
	d.logger.LogDatasetLoaded(ds.Name, len(ds.Districts), len(model.Samples()))

	return d.SelectView(mode)
}

// Replace swaps in a new dataset and redraws the active view
func (d *Dashboard) Replace(ds *Dataset) error {
	return d.Load(ds, d.controller.Mode())
}

// SelectView switches the active view and returns the result of the redraw
func (d *Dashboard) SelectView(mode ViewMode) error {
	if err := d.controller.SelectView(mode); err != nil {
		return err
	}
	return d.lastErr
}

// Mode returns the active view
func (d *Dashboard) Mode() ViewMode {
	return d.controller.Mode()
}

// View returns the last render pass, or nil before the first one or after a failed one
func (d *Dashboard) View() *RenderedView {
	return d.view
}

// Dataset returns the dataset currently on display
func (d *Dashboard) Dataset() *Dataset {
	if snap := d.current.Load(); snap != nil {
		return snap.dataset
	}
	return nil
}

// Model returns the chart model currently on display
func (d *Dashboard) Model() *ChartDataModel {
	if snap := d.current.Load(); snap != nil {
		return snap.model
	}
	return nil
}

// Tooltips returns the formatter used for hover panels
func (d *Dashboard) Tooltips() *TooltipFormatter {
	return d.tooltips
}

// Digest returns the fingerprint of the current model
func (d *Dashboard) Digest() string {
	if snap := d.current.Load(); snap != nil {
		return snap.digest
	}
	return ""
}

func (d *Dashboard) redraw(mode ViewMode) {
	snap := d.current.Load()
	if snap == nil {
		d.lastErr = &DataError{DataType: "dataset", Message: "no dataset loaded"}
		return
	}

	// A failed pass leaves nothing on screen rather than a stale chart.
	d.view, d.lastErr = d.render(snap, mode)
}

func (d *Dashboard) render(snap *snapshot, mode ViewMode) (*RenderedView, error) {
	view := &RenderedView{
		Mode:    mode,
		Caption: snap.dataset.Caption(mode),
	}

	var err error
	switch mode {
	case ViewGeographic:
		view.Geo, err = d.charts.BuildGeographicChart(snap.model)
	case ViewScatter:
		view.Scatter, err = d.charts.BuildScatterPlot(snap.model)
	default:
		err = fmt.Errorf("unknown view %s", mode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lay out %s view: %w", mode, err)
	}

	if !d.paint {
		return view, nil
	}

	key := d.charts.RenderKey(snap.digest, mode, view.Caption.Title).String()
	if d.storage != nil {
		if image, ok := d.storage.CachedChart(key); ok {
			view.Image = image
			view.CacheHit = true
			return view, nil
		}
	}

	if view.Geo != nil {
		view.Image, err = d.charts.RenderGeographic(view.Geo, view.Caption.Title)
	} else {
		view.Image, err = d.charts.RenderScatter(view.Scatter, view.Caption.Title)
	}
	if err != nil {
		return nil, err
	}

	if d.storage != nil {
		if err := d.storage.CacheChart(key, mode, view.Image, d.config.CacheTTL()); err != nil {
			d.logger.Warn("Failed to cache chart", "error", err)
		}
	}

	return view, nil
}

// HoverDistrict returns the tooltip for a district bar, or NoContent when the
// geographic view is not active or no bar has that key
func (d *Dashboard) HoverDistrict(key string) DisplayLines {
	if d.view == nil || d.view.Geo == nil {
		return NoContent
	}
	bar := d.view.Geo.Bar(key)
	if bar == nil {
		return NoContent
	}
	return d.tooltips.FormatGeoTooltip(&bar.Record)
}

// HoverPoint returns the tooltip for the topmost scatter point at the given
// position, or NoContent when nothing is there
func (d *Dashboard) HoverPoint(consumption, billing float64) DisplayLines {
	if d.view == nil || d.view.Scatter == nil {
		return NoContent
	}
	return d.tooltips.FormatScatterTooltip(d.view.Scatter.TopmostAt(consumption, billing, hoverTolerance))
}

// Manifest summarises the last render pass for storage
func (d *Dashboard) Manifest() *RenderManifest {
	m := &RenderManifest{
		View:   d.Mode().String(),
		Digest: d.Digest(),
	}
	if ds := d.Dataset(); ds != nil {
		m.Dataset = ds.Name
	}

	view := d.view
	if view == nil {
		return m
	}
	m.View = view.Mode.String()
	m.CacheHit = view.CacheHit

	var rejected []RejectedItem
	if view.Geo != nil {
		m.Bars = len(view.Geo.Bars)
		rejected = view.Geo.Rejected
	}
	if view.Scatter != nil {
		if l := view.Scatter.Layer(CategoryNormal); l != nil {
			m.NormalPoints = len(l.Samples)
		}
		if l := view.Scatter.Layer(CategoryAnomaly); l != nil {
			m.AnomalyPoints = len(l.Samples)
		}
		rejected = view.Scatter.Rejected
	}
	for _, r := range rejected {
		m.Rejected = append(m.Rejected, r.Item)
	}
	return m
}

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
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Reporter generates Markdown reports from a rendered dashboard
type Reporter struct {
	logger *Logger
	now    func() time.Time
}

// NewReporter creates a new report generator
func NewReporter(logger *Logger) *Reporter {
	return &Reporter{
		logger: logger,
		now:    time.Now,
	}
}

// GenerateReport writes the Markdown report to outputPath, or stdout when empty
func (r *Reporter) GenerateReport(d *Dashboard, outputPath string) error {
	r.logger.Info("Generating report")

	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	if err := r.Write(writer, d); err != nil {
		return err
	}

	if outputPath != "" {
		r.logger.Info("Report saved", "path", outputPath)
	}

	return nil
}

// Write renders the active view of d as Markdown
func (r *Reporter) Write(w io.Writer, d *Dashboard) error {
	ds := d.Dataset()
	view := d.View()
	if ds == nil || view == nil {
		return &DataError{DataType: "report", Message: "nothing has been rendered"}
	}

	r.writeHeader(w, ds, view)
	switch view.Mode {
	case ViewGeographic:
		r.writeGeographic(w, d, view)
	case ViewScatter:
		r.writeScatter(w, d, view)
	}
	r.writeMethodology(w, ds.Summary.Methodology)
	r.writeFooter(w)
	return nil
}

// writeHeader writes the report header and view selector
func (r *Reporter) writeHeader(w io.Writer, ds *Dataset, view *RenderedView) {
	fmt.Fprintf(w, "# %s\n\n", ds.Title)
	fmt.Fprintf(w, "**Generated:** %s\n\n", r.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "**anomviz version:** %s\n\n", GetVersion())

	geoMark, scatterMark := "x", " "
	if view.Mode == ViewScatter {
		geoMark, scatterMark = " ", "x"
	}
	fmt.Fprintf(w, "- [%s] %s\n", geoMark, ds.Caption(ViewGeographic).Title)
	fmt.Fprintf(w, "- [%s] %s\n\n", scatterMark, ds.Caption(ViewScatter).Title)
	fmt.Fprintf(w, "---\n\n")

	fmt.Fprintf(w, "## %s\n\n", view.Caption.Title)
	if view.Caption.Caption != "" {
		fmt.Fprintf(w, "%s\n\n", view.Caption.Caption)
	}
}

// writeGeographic writes the district table and the static legend
func (r *Reporter) writeGeographic(w io.Writer, d *Dashboard, view *RenderedView) {
	geo := view.Geo

	fmt.Fprintf(w, "| # | Distrito | %s | Severidad | Detalle |\n", GeoAxisLabel)
	fmt.Fprintf(w, "|---|----------|------|-----------|---------|\n")
	for i, bar := range geo.Bars {
		lines := d.Tooltips().FormatGeoTooltip(&bar.Record)
		fmt.Fprintf(w, "| %d | %s | %.1f | %s %s | %s |\n",
			i+1,
			bar.Key,
			bar.Density,
			bucketBadge(bar.Bucket),
			bucketLabel(bar.Bucket),
			strings.Join(lines[1:], " · "),
		)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "### %s\n\n", LegendHeading)
	for _, entry := range geo.Legend {
		fmt.Fprintf(w, "- %s **%s** (%s) `%s`\n", bucketBadge(entry.Bucket), entry.Label, entry.Range, entry.Color)
	}
	fmt.Fprintf(w, "\n")

	r.writeRejected(w, geo.Rejected)
}

// writeScatter writes the layer summary, the anomaly list and the key figures
func (r *Reporter) writeScatter(w io.Writer, d *Dashboard, view *RenderedView) {
	plot := view.Scatter

	fmt.Fprintf(w, "| Capa | Puntos | Color | Opacidad |\n")
	fmt.Fprintf(w, "|------|--------|-------|----------|\n")
	for _, layer := range plot.Layers {
		fmt.Fprintf(w, "| %s | %s | `%s` | %.1f |\n", layer.Name, humanize.Comma(int64(len(layer.Samples))), layer.Color, layer.Opacity)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "**%s:** %s to %s kWh (log)\n\n", ScatterXAxisLabel, FormatGrouped(plot.X.Min), FormatGrouped(plot.X.Max))
	fmt.Fprintf(w, "**%s:** %s to %s (log)\n\n", BillingAxisLabel(d.Tooltips().Currency()),
		d.Tooltips().FormatCurrency(plot.Y.Min), d.Tooltips().FormatCurrency(plot.Y.Max))

	if anomalies := plot.Layer(CategoryAnomaly); anomalies != nil && len(anomalies.Samples) > 0 {
		fmt.Fprintf(w, "### 🔴 %s\n\n", AnomalyLayerLabel)
		for _, s := range anomalies.Samples {
			lines := d.Tooltips().FormatScatterTooltip(&s)
			fmt.Fprintf(w, "- **%s** (%s)\n", lines.Header(), strings.Join(lines[1:], ", "))
		}
		fmt.Fprintf(w, "\n")
	}

	if figures := d.Dataset().Summary.KeyFigures; len(figures) > 0 {
		fmt.Fprintf(w, "| Indicador | Valor | Detalle |\n")
		fmt.Fprintf(w, "|-----------|-------|---------|\n")
		for _, f := range figures {
			fmt.Fprintf(w, "| %s | **%s** | %s |\n", f.Label, f.Value, f.Detail)
		}
		fmt.Fprintf(w, "\n")
	}

	r.writeRejected(w, plot.Rejected)
}

// writeRejected lists chart items dropped during layout
func (r *Reporter) writeRejected(w io.Writer, rejected []RejectedItem) {
	if len(rejected) == 0 {
		return
	}

	fmt.Fprintf(w, "### ⚠️ Omitted from chart\n\n")
	for _, item := range rejected {
		fmt.Fprintf(w, "- `%s`: %v\n", item.Item, item.Err)
	}
	fmt.Fprintf(w, "\n")
}

// writeMethodology writes the methodology panel
func (r *Reporter) writeMethodology(w io.Writer, m Methodology) {
	fmt.Fprintf(w, "## %s\n\n", MethodologyHeading)
	if m.DatasetSize > 0 {
		fmt.Fprintf(w, "- **Dataset:** %s registros de clientes\n", humanize.Comma(int64(m.DatasetSize)))
	}
	if m.Period != "" {
		fmt.Fprintf(w, "- **Período:** %s\n", m.Period)
	}
	if len(m.Algorithms) > 0 {
		fmt.Fprintf(w, "- **Algoritmos:** %s\n", strings.Join(m.Algorithms, ", "))
	}
	if m.F1Score > 0 {
		fmt.Fprintf(w, "- **F1-Score Ensemble:** %.2f\n", m.F1Score)
	}
	if m.Precision > 0 {
		fmt.Fprintf(w, "- **Precisión:** %.2f\n", m.Precision)
	}
	if m.Optimization != "" {
		fmt.Fprintf(w, "- **Optimización:** %s\n", m.Optimization)
	}
	fmt.Fprintf(w, "\n")
}

// writeFooter writes the report footer
func (r *Reporter) writeFooter(w io.Writer) {
	fmt.Fprintf(w, "---\n\n")
	fmt.Fprintf(w, "*Summary figures are taken from the evaluation report and are not recomputed from the charted data.*\n\n")
	fmt.Fprintf(w, "*Generated by anomviz*\n")
}

// bucketBadge returns a colored marker for Markdown output
func bucketBadge(b Bucket) string {
	switch b {
	case BucketExtreme:
		return "🟥"
	case BucketVeryHigh:
		return "🔴"
	case BucketHigh:
		return "🟠"
	case BucketMediumHigh:
		return "🟧"
	case BucketMedium:
		return "🟨"
	default:
		return "🟩"
	}
}

// bucketLabel returns the legend label of a bucket
func bucketLabel(b Bucket) string {
	for _, entry := range Legend() {
		if entry.Bucket == b {
			return entry.Label
		}
	}
	return b.String()
}

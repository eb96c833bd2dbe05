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
	"html"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// HTMLReporter generates HTML dashboards from a rendered view
type HTMLReporter struct {
	logger *Logger
	now    func() time.Time
}

// NewHTMLReporter creates a new HTML report generator
func NewHTMLReporter(logger *Logger) *HTMLReporter {
	return &HTMLReporter{
		logger: logger,
		now:    time.Now,
	}
}

// GenerateHTMLReport writes the HTML dashboard to outputPath, or stdout when empty
func (r *HTMLReporter) GenerateHTMLReport(d *Dashboard, outputPath string) error {
	r.logger.Info("Generating HTML report")

	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create HTML report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	if err := r.Write(writer, d); err != nil {
		return err
	}

	if outputPath != "" {
		r.logger.Info("HTML report saved", "path", outputPath)
	}

	return nil
}

// Write renders both views of d as a standalone HTML page. The tab strip
// switches between them; the dashboard's active view is selected on load.
func (r *HTMLReporter) Write(w io.Writer, d *Dashboard) error {
	ds := d.Dataset()
	if ds == nil || d.View() == nil {
		return &DataError{DataType: "report", Message: "nothing has been rendered"}
	}

	active := d.Mode()
	views, failures, err := renderViews(d)
	if err != nil {
		return err
	}

	r.writeHTMLHeader(w, ds)
	r.writeHTMLViewSelector(w, ds, active)
	fmt.Fprintf(w, `            <div class="views">
`)
	for _, mode := range ViewModes {
		r.writeHTMLView(w, d, mode, views[mode], failures[mode])
	}
	fmt.Fprintf(w, `            </div>
`)
	r.writeHTMLMethodology(w, ds.Summary.Methodology)
	r.writeHTMLFooter(w)
	return nil
}

// renderViews renders every view once and leaves the dashboard on the view it started on
func renderViews(d *Dashboard) (map[ViewMode]*RenderedView, map[ViewMode]error, error) {
	active := d.Mode()
	views := make(map[ViewMode]*RenderedView, len(ViewModes))
	failures := make(map[ViewMode]error)

	for _, mode := range ViewModes {
		if mode == active {
			views[mode] = d.View()
			continue
		}
		if err := d.SelectView(mode); err != nil {
			failures[mode] = err
			continue
		}
		views[mode] = d.View()
	}

	if err := d.SelectView(active); err != nil {
		return nil, nil, fmt.Errorf("failed to restore %s view: %w", active, err)
	}
	return views, failures, nil
}

// writeHTMLView writes one selectable view section
func (r *HTMLReporter) writeHTMLView(w io.Writer, d *Dashboard, mode ViewMode, view *RenderedView, failure error) {
	fmt.Fprintf(w, `            <section class="view view-%s" id="view-%s">
`, mode, mode)
	defer fmt.Fprintf(w, `            </section>
`)

	if view == nil {
		fmt.Fprintf(w, `            <h2>%s</h2>
            <p class="caption">Vista no disponible: %s</p>
`, html.EscapeString(d.Dataset().Caption(mode).Title), html.EscapeString(failure.Error()))
		return
	}

	r.writeHTMLChart(w, view)
	switch mode {
	case ViewGeographic:
		r.writeHTMLLegend(w, view.Geo.Legend)
		r.writeHTMLDistricts(w, d, view.Geo)
		r.writeHTMLRejected(w, view.Geo.Rejected)
	case ViewScatter:
		r.writeHTMLKeyFigures(w, d.Dataset().Summary.KeyFigures)
		r.writeHTMLAnomalies(w, d, view.Scatter)
		r.writeHTMLRejected(w, view.Scatter.Rejected)
	}
}

func (r *HTMLReporter) writeHTMLHeader(w io.Writer, ds *Dataset) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        :root {
            --primary-color: #1E3A8A;
            --accent-color: #2563EB;
            --danger-color: #DC2626;
            --bg-color: #F9FAFB;
            --card-bg: #FFFFFF;
            --text-color: #1F2937;
            --text-muted: #4B5563;
            --border-color: #E0E7FF;
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            background: var(--bg-color);
            color: var(--text-color);
            line-height: 1.6;
            padding: 24px;
        }

        .container {
            max-width: 1152px;
            margin: 0 auto;
        }

        .card {
            background: var(--card-bg);
            border-radius: 8px;
            padding: 24px;
            margin-bottom: 24px;
            box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
        }

        h1 {
            font-size: 1.5em;
            text-align: center;
            color: var(--primary-color);
            margin-bottom: 24px;
        }

        h2 {
            font-size: 1.25em;
            text-align: center;
            margin-bottom: 12px;
        }

        h3 {
            font-size: 1em;
            margin-bottom: 8px;
        }

        .caption {
            font-size: 0.9em;
            color: var(--text-muted);
            text-align: center;
            margin-bottom: 16px;
        }

        .tabs {
            display: flex;
            justify-content: center;
            gap: 4px;
            margin-bottom: 24px;
        }

        .tab {
            padding: 8px 16px;
            border-radius: 6px;
            color: var(--text-muted);
            background: #F3F4F6;
            cursor: pointer;
        }

        .tab-input,
        .view {
            display: none;
        }

        #tab-geographic:checked ~ .tabs label[for="tab-geographic"],
        #tab-scatter:checked ~ .tabs label[for="tab-scatter"] {
            background: var(--accent-color);
            color: white;
        }

        #tab-geographic:checked ~ .views .view-geographic,
        #tab-scatter:checked ~ .views .view-scatter {
            display: block;
        }

        .chart img {
            width: 100%%;
            height: auto;
        }

        .legend {
            display: flex;
            justify-content: center;
            flex-wrap: wrap;
            gap: 16px;
            font-size: 0.8em;
        }

        .swatch {
            display: inline-block;
            width: 16px;
            height: 16px;
            border-radius: 3px;
            margin-right: 4px;
            vertical-align: middle;
        }

        table {
            width: 100%%;
            border-collapse: collapse;
            margin: 16px 0;
            font-size: 0.9em;
        }

        th, td {
            padding: 8px;
            text-align: left;
            border-bottom: 1px solid var(--border-color);
        }

        tr[title]:hover {
            background: rgba(37, 99, 235, 0.05);
            cursor: help;
        }

        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 16px;
        }

        .metric-card {
            background: #EFF6FF;
            border-radius: 8px;
            padding: 12px;
            text-align: center;
        }

        .metric-value {
            font-size: 1.2em;
            font-weight: bold;
            color: var(--primary-color);
        }

        .metric-detail {
            font-size: 0.75em;
            color: var(--text-muted);
        }

        .methodology {
            background: #F3F4F6;
            font-size: 0.9em;
            color: var(--text-muted);
        }

        footer {
            text-align: center;
            padding: 24px;
            color: var(--text-muted);
            font-size: 0.85em;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <h1>%s</h1>
`,
		html.EscapeString(ds.Title),
		html.EscapeString(ds.Title),
	)
}

// writeHTMLViewSelector writes the radio inputs and their tab labels. The
// inputs must precede .tabs and .views as siblings for the CSS to switch views.
func (r *HTMLReporter) writeHTMLViewSelector(w io.Writer, ds *Dataset, active ViewMode) {
	for _, mode := range ViewModes {
		checked := ""
		if mode == active {
			checked = " checked"
		}
		fmt.Fprintf(w, `            <input type="radio" class="tab-input" name="view" id="tab-%s"%s>
`, mode, checked)
	}

	fmt.Fprintf(w, `            <div class="tabs">
`)
	for _, mode := range ViewModes {
		fmt.Fprintf(w, `                <label class="tab" for="tab-%s">%s</label>
`, mode, html.EscapeString(ds.Caption(mode).Title))
	}
	fmt.Fprintf(w, `            </div>
`)
}

func (r *HTMLReporter) writeHTMLChart(w io.Writer, view *RenderedView) {
	fmt.Fprintf(w, `            <h2>%s</h2>
`, html.EscapeString(view.Caption.Title))
	if view.Caption.Caption != "" {
		fmt.Fprintf(w, `            <p class="caption">%s</p>
`, html.EscapeString(view.Caption.Caption))
	}
	if view.Image != "" {
		fmt.Fprintf(w, `            <div class="chart"><img alt="%s" src="data:image/png;base64,%s"></div>
`, html.EscapeString(view.Caption.Title), view.Image)
	}
}

// writeHTMLLegend writes every bucket, whether or not the data reaches it
func (r *HTMLReporter) writeHTMLLegend(w io.Writer, legend []BucketInfo) {
	fmt.Fprintf(w, `            <h3>%s:</h3>
            <div class="legend">
`, LegendHeading)
	for _, entry := range legend {
		fmt.Fprintf(w, `                <div><span class="swatch" style="background-color: %s"></span>%s (%s)</div>
`, entry.Color, html.EscapeString(entry.Label), html.EscapeString(entry.Range))
	}
	fmt.Fprintf(w, `            </div>
`)
}

// hoverTitle encodes tooltip lines for a title attribute; NoContent yields no attribute
func hoverTitle(lines DisplayLines) string {
	if lines.IsEmpty() {
		return ""
	}
	return fmt.Sprintf(` title="%s"`, strings.ReplaceAll(html.EscapeString(lines.String()), "\n", "&#10;"))
}

func (r *HTMLReporter) writeHTMLDistricts(w io.Writer, d *Dashboard, geo *GeoChart) {
	fmt.Fprintf(w, `            <table>
                <thead>
                    <tr>
                        <th>Distrito</th>
                        <th>Registros</th>
                        <th>Anomalías</th>
                        <th>Porcentaje</th>
                        <th>%s</th>
                    </tr>
                </thead>
                <tbody>
`, GeoAxisLabel)

	for _, bar := range geo.Bars {
		rec := bar.Record
		fmt.Fprintf(w, `                    <tr%s>
                        <td><span class="swatch" style="background-color: %s"></span>%s</td>
                        <td>%s</td>
                        <td>%s</td>
                        <td>%.2f%%</td>
                        <td>%.1f</td>
                    </tr>
`,
			hoverTitle(d.Tooltips().FormatGeoTooltip(&rec)),
			bar.Color,
			html.EscapeString(bar.Key),
			humanize.Comma(int64(rec.TotalRecords)),
			humanize.Comma(int64(rec.AnomalyCount)),
			rec.Percentage,
			rec.Density,
		)
	}

	fmt.Fprintf(w, `                </tbody>
            </table>
`)
}

func (r *HTMLReporter) writeHTMLKeyFigures(w io.Writer, figures []KeyFigure) {
	if len(figures) == 0 {
		return
	}

	fmt.Fprintf(w, `            <div class="metric-grid">
`)
	for _, f := range figures {
		fmt.Fprintf(w, `                <div class="metric-card">
                    <div class="metric-value">%s</div>
                    <div>%s</div>
                    <div class="metric-detail">%s</div>
                </div>
`, html.EscapeString(f.Value), html.EscapeString(f.Label), html.EscapeString(f.Detail))
	}
	fmt.Fprintf(w, `            </div>
`)
}

func (r *HTMLReporter) writeHTMLAnomalies(w io.Writer, d *Dashboard, plot *ScatterPlot) {
	layer := plot.Layer(CategoryAnomaly)
	if layer == nil || len(layer.Samples) == 0 {
		return
	}

	fmt.Fprintf(w, `            <table>
                <thead>
                    <tr>
                        <th>Distrito</th>
                        <th>Consumo (kWh)</th>
                        <th>Facturación</th>
                    </tr>
                </thead>
                <tbody>
`)
	for _, s := range layer.Samples {
		district := s.District
		if district == "" {
			district = UnknownDistrict
		}
		fmt.Fprintf(w, `                    <tr%s>
                        <td style="color: var(--danger-color)">%s</td>
                        <td>%s</td>
                        <td>%s</td>
                    </tr>
`,
			hoverTitle(d.Tooltips().FormatScatterTooltip(&s)),
			html.EscapeString(district),
			FormatGrouped(s.ConsumptionKWh),
			html.EscapeString(d.Tooltips().FormatCurrency(s.BillingAmount)),
		)
	}
	fmt.Fprintf(w, `                </tbody>
            </table>
`)
}

func (r *HTMLReporter) writeHTMLRejected(w io.Writer, rejected []RejectedItem) {
	if len(rejected) == 0 {
		return
	}

	fmt.Fprintf(w, `            <h3>Omitted from chart</h3>
            <ul>
`)
	for _, item := range rejected {
		fmt.Fprintf(w, `                <li><code>%s</code>: %s</li>
`, html.EscapeString(item.Item), html.EscapeString(item.Err.Error()))
	}
	fmt.Fprintf(w, `            </ul>
`)
}

func (r *HTMLReporter) writeHTMLMethodology(w io.Writer, m Methodology) {
	fmt.Fprintf(w, `        </div>
        <div class="card methodology">
            <h3>%s:</h3>
            <div class="metric-grid">
                <div>
                    <p><strong>Dataset:</strong> %s registros de clientes</p>
                    <p><strong>Período:</strong> %s</p>
                    <p><strong>Algoritmos:</strong> %s</p>
                </div>
                <div>
                    <p><strong>F1-Score Ensemble:</strong> %.2f</p>
                    <p><strong>Precisión:</strong> %.2f</p>
                    <p><strong>Optimización:</strong> %s</p>
                </div>
            </div>
        </div>
`,
		MethodologyHeading,
		humanize.Comma(int64(m.DatasetSize)),
		html.EscapeString(m.Period),
		html.EscapeString(strings.Join(m.Algorithms, ", ")),
		m.F1Score,
		m.Precision,
		html.EscapeString(m.Optimization),
	)
}

func (r *HTMLReporter) writeHTMLFooter(w io.Writer) {
	fmt.Fprintf(w, `
        <footer>
            <p><em>Summary figures are taken from the evaluation report and are not recomputed from the charted data.</em></p>
            <p>Generated %s by anomviz %s</p>
        </footer>
    </div>
</body>
</html>
`,
		r.now().Format("2 Jan 2006 15:04"),
		html.EscapeString(GetVersion()),
	)
}

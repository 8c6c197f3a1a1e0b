/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dashboard.go
Description: HTML report generation for jsonlens. Renders a single self-contained page
with the inferred schema tree, the filterable field table, a diff change table and a
Chart.js chart of projected points.
*/

package reporting

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kleascm/jsonlens/pkg/chart"
	"github.com/kleascm/jsonlens/pkg/diff"
	"github.com/kleascm/jsonlens/pkg/jsonvalue"
	"github.com/kleascm/jsonlens/pkg/logging"
	"github.com/kleascm/jsonlens/pkg/schema"
)

// Generator renders inspection reports
type Generator struct {
	logger    *logging.Logger
	templates *template.Template
}

// ReportData contains everything shown on a report. Nil or empty sections are omitted.
type ReportData struct {
	Title       string
	Source      string
	GeneratedAt time.Time

	Schema *schema.Node
	Fields []schema.Field

	Diff *diff.Node

	Chart  chart.Config
	Points []chart.Datum
}

// ChartConfig is a Chart.js configuration object
type ChartConfig struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data"`
	Options interface{} `json:"options"`
}

// view is what the template sees
type view struct {
	Title       string
	Source      string
	GeneratedAt time.Time
	SchemaTree  string
	Fields      []schema.Field
	HasDiff     bool
	DiffStatus  diff.Status
	DiffStats   diff.Stats
	Changes     []changeRow
	HasChart    bool
	ChartTitle  string
	ChartConfig *ChartConfig
}

type changeRow struct {
	Path   string
	Status diff.Status
	Old    string
	New    string
}

// NewGenerator creates a report generator. logger may be nil.
func NewGenerator(logger *logging.Logger) *Generator {
	return &Generator{
		logger:    logger,
		templates: template.Must(template.New("report").Parse(reportTemplate)),
	}
}

// Generate renders the report to w
func (g *Generator) Generate(w io.Writer, data *ReportData) error {
	if data == nil {
		return fmt.Errorf("report data is nil")
	}
	if err := g.templates.Execute(w, g.prepare(data)); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// WriteFile renders the report to dir/index.html and returns the file path
func (g *Generator) WriteFile(dir string, data *ReportData) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, "index.html")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := g.Generate(file, data); err != nil {
		return "", err
	}

	if g.logger != nil {
		g.logger.GetLogger().WithField("path", path).Info("Report generated")
	}
	return path, nil
}

func (g *Generator) prepare(data *ReportData) *view {
	v := &view{
		Title:       data.Title,
		Source:      data.Source,
		GeneratedAt: data.GeneratedAt,
		Fields:      data.Fields,
	}
	if v.Title == "" {
		v.Title = "jsonlens report"
	}
	if v.GeneratedAt.IsZero() {
		v.GeneratedAt = time.Now()
	}
	if data.Schema != nil {
		v.SchemaTree = schema.Render(data.Schema)
	}

	if data.Diff != nil {
		v.HasDiff = true
		v.DiffStatus = data.Diff.Status
		v.DiffStats = diff.Count(data.Diff)
		for _, c := range diff.Changes(data.Diff) {
			v.Changes = append(v.Changes, changeRow{
				Path:   c.Path,
				Status: c.Status,
				Old:    render(c.OldValue),
				New:    render(c.NewValue),
			})
		}
	}

	if len(data.Points) > 0 {
		v.HasChart = true
		v.ChartTitle = fmt.Sprintf("%s by %s", data.Chart.YField, data.Chart.XField)
		v.ChartConfig = createPointChart(data.Chart, data.Points)
	}
	return v
}

// createPointChart builds a one-dataset chart with x values as labels
func createPointChart(cfg chart.Config, points []chart.Datum) *ChartConfig {
	labels := make([]string, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		labels[i] = fmt.Sprint(p.X)
		if n, ok := p.X.(float64); ok {
			labels[i] = jsonvalue.Stringify(jsonvalue.NumberValue(n))
		}
		values[i] = p.Y
	}

	chartType := string(cfg.Type)
	if chartType == "" {
		chartType = string(chart.Bar)
	}

	return &ChartConfig{
		Type: chartType,
		Data: map[string]interface{}{
			"labels": labels,
			"datasets": []map[string]interface{}{
				{
					"label":           cfg.YField,
					"data":            values,
					"borderColor":     "rgb(102, 126, 234)",
					"backgroundColor": "rgba(102, 126, 234, 0.4)",
				},
			},
		},
		Options: map[string]interface{}{
			"responsive": true,
			"scales": map[string]interface{}{
				"y": map[string]interface{}{
					"beginAtZero": true,
				},
			},
		},
	}
}

func render(v *jsonvalue.Value) string {
	if v == nil {
		return ""
	}
	return jsonvalue.Stringify(*v)
}

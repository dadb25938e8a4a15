package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"blogtools/internal/benchmark"
	"blogtools/internal/chart"
	"blogtools/internal/telemetry"
)

// Generator writes the chart tables for one log and renders them.
type Generator struct {
	OutputRoot string
	Charts     []Chart
	Classifier benchmark.Classifier

	// Renderer may be nil, in which case only CSV files are written.
	Renderer chart.Renderer
}

// NewGenerator returns a generator for the default chart set.
func NewGenerator(outputRoot string, classifier benchmark.Classifier, renderer chart.Renderer) *Generator {
	if outputRoot == "" {
		outputRoot = DefaultOutputRoot
	}
	return &Generator{
		OutputRoot: outputRoot,
		Charts:     DefaultCharts(),
		Classifier: classifier,
		Renderer:   renderer,
	}
}

// Result lists what a Generate call produced.
type Result struct {
	Dir            string
	CSVFiles       []string
	Images         []string
	RenderFailures int
}

// Generate writes every chart table into OutputDir(root, logPath), then
// renders the charts one after another. All tables are built in memory
// before the first file is created. Renderer failures are logged and
// counted but do not fail the run.
func (g *Generator) Generate(ctx context.Context, table *benchmark.ResultTable, logPath string) (*Result, error) {
	tables := make([][]byte, len(g.Charts))
	for i, c := range g.Charts {
		data, err := c.Render(table, g.Classifier)
		if err != nil {
			return nil, err
		}
		tables[i] = data
	}

	dir := OutputDir(g.OutputRoot, logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory %s: %w", dir, err)
	}

	res := &Result{Dir: dir}
	for i, c := range g.Charts {
		path := filepath.Join(dir, c.CSVName())
		if err := os.WriteFile(path, tables[i], 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		telemetry.TrackCSVWritten()
		telemetry.LogDebug("Wrote chart table", "path", path, "bytes", len(tables[i]))
		res.CSVFiles = append(res.CSVFiles, path)
	}

	if g.Renderer == nil {
		return res, nil
	}

	for _, c := range g.Charts {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		req := chart.Request{
			Kind:   c.Kind,
			Title:  c.Title,
			Input:  filepath.Join(dir, c.CSVName()),
			Output: filepath.Join(dir, c.ImageName()),
		}
		if err := g.Renderer.Render(ctx, req); err != nil {
			telemetry.TrackChartRender(false)
			telemetry.LogWarn("Chart renderer failed", "chart", c.Name, "error", err)
			res.RenderFailures++
			continue
		}
		telemetry.TrackChartRender(true)
		res.Images = append(res.Images, req.Output)
	}

	return res, nil
}

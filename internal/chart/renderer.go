// Package chart turns report CSV files into PNG images.
package chart

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Kind is the chart type understood by the renderers.
type Kind string

const (
	Bar     Kind = "bar"
	Scatter Kind = "scatter"
)

// Request describes one chart to render.
type Request struct {
	Kind   Kind
	Title  string
	Input  string // CSV path
	Output string // PNG path
}

// Renderer draws one chart per call.
type Renderer interface {
	Render(ctx context.Context, req Request) error
}

// DefaultWCChartPath is where the blog checkout expects the wcchart build.
const DefaultWCChartPath = "../wcchart/build/wcchart"

// New returns the renderer named by kind. It returns a nil Renderer for
// "none", meaning only CSV files are produced.
func New(kind, wcchartPath string, stdout, stderr io.Writer) (Renderer, error) {
	switch strings.ToLower(kind) {
	case "wcchart", "exec", "":
		if wcchartPath == "" {
			wcchartPath = DefaultWCChartPath
		}
		return &ExecRenderer{Path: wcchartPath, Stdout: stdout, Stderr: stderr}, nil
	case "builtin", "gonum":
		return NewPlotRenderer(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported renderer: %s", kind)
	}
}

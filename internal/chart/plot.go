package chart

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var errEmptyChart = errors.New("chart data is empty")

// PlotRenderer draws charts in-process with gonum/plot, for machines
// without a wcchart build.
type PlotRenderer struct {
	Width  vg.Length
	Height vg.Length
}

func NewPlotRenderer() *PlotRenderer {
	return &PlotRenderer{Width: 9 * vg.Inch, Height: 6 * vg.Inch}
}

func (r *PlotRenderer) Render(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(req.Input)
	if err != nil {
		return fmt.Errorf("failed to open chart data: %w", err)
	}
	defer f.Close()

	var p *plot.Plot
	switch req.Kind {
	case Bar:
		data, err := ReadBarData(f)
		if err != nil {
			return err
		}
		p, err = barPlot(req.Title, data)
		if err != nil {
			return err
		}
	case Scatter:
		data, err := ReadScatterData(f)
		if err != nil {
			return err
		}
		p, err = scatterPlot(req.Title, data)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported chart type: %s", req.Kind)
	}

	if err := p.Save(r.Width, r.Height, req.Output); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

// BarData is a bar-layout CSV: one group per row, one series per column.
type BarData struct {
	Series []string
	Groups []string
	Values [][]float64 // Values[series][group]
}

// ReadBarData parses the bar layout written by the report package.
func ReadBarData(r io.Reader) (*BarData, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read bar data: %w", err)
	}
	// a table without variants has the header ","
	if len(records) == 0 || len(records[0]) < 2 || (len(records[0]) == 2 && records[0][1] == "") {
		return nil, errEmptyChart
	}

	data := &BarData{Series: records[0][1:]}
	data.Values = make([][]float64, len(data.Series))
	for _, rec := range records[1:] {
		if len(rec) != len(records[0]) {
			return nil, fmt.Errorf("bar row %s has %d fields, want %d", rec[0], len(rec), len(records[0]))
		}
		data.Groups = append(data.Groups, rec[0])
		for i, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("bar value %q for %s: %w", field, rec[0], err)
			}
			data.Values[i] = append(data.Values[i], v)
		}
	}
	if len(data.Groups) == 0 {
		return nil, errEmptyChart
	}
	return data, nil
}

// ScatterGroup is one file section of a scatter-layout CSV.
type ScatterGroup struct {
	Name   string
	Labels []string
	Points plotter.XYs
}

// ReadScatterData parses the scatter layout: a one-field line opens a
// group, three-field lines add labelled points to it.
func ReadScatterData(r io.Reader) ([]ScatterGroup, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var groups []ScatterGroup
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read scatter data: %w", err)
		}

		switch len(rec) {
		case 1:
			groups = append(groups, ScatterGroup{Name: rec[0]})
		case 3:
			if len(groups) == 0 {
				return nil, fmt.Errorf("scatter point %q before any group", rec[0])
			}
			x, err := strconv.ParseFloat(rec[1], 64)
			if err != nil {
				return nil, fmt.Errorf("scatter x %q: %w", rec[1], err)
			}
			y, err := strconv.ParseFloat(rec[2], 64)
			if err != nil {
				return nil, fmt.Errorf("scatter y %q: %w", rec[2], err)
			}
			g := &groups[len(groups)-1]
			g.Labels = append(g.Labels, rec[0])
			g.Points = append(g.Points, plotter.XY{X: x, Y: y})
		default:
			return nil, fmt.Errorf("scatter line has %d fields", len(rec))
		}
	}
	if len(groups) == 0 {
		return nil, errEmptyChart
	}
	return groups, nil
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Legend.Top = true
	p.Legend.Padding = 1 * vg.Millimeter
	p.BackgroundColor = color.White
	return p
}

func barPlot(title string, data *BarData) (*plot.Plot, error) {
	p := newPlot(title)

	barWidth := vg.Points(12)
	groupWidth := barWidth * vg.Length(len(data.Series)-1)

	for i, name := range data.Series {
		bc, err := plotter.NewBarChart(plotter.Values(data.Values[i]), barWidth)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", name, err)
		}
		bc.Offset = barWidth*vg.Length(i) - groupWidth/2
		bc.Color = plotutil.Color(i)
		bc.LineStyle.Width = 0

		p.Add(bc)
		p.Legend.Add(name, bc)
	}
	p.NominalX(data.Groups...)
	return p, nil
}

func scatterPlot(title string, groups []ScatterGroup) (*plot.Plot, error) {
	p := newPlot(title)
	if x, y, ok := strings.Cut(title, " vs "); ok {
		p.X.Label.Text = x
		p.Y.Label.Text = y
	}

	for i, g := range groups {
		if len(g.Points) == 0 {
			continue
		}
		s, err := plotter.NewScatter(g.Points)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g.Name, err)
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = plotutil.Shape(i)
		s.GlyphStyle.Radius = vg.Points(3)

		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: g.Points, Labels: g.Labels})
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g.Name, err)
		}

		p.Add(s, labels)
		p.Legend.Add(g.Name, s)
	}
	return p, nil
}

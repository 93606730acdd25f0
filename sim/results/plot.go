package results

import (
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	avgColor = color.RGBA{R: 255, A: 255}
	minColor = color.RGBA{G: 128, A: 255}
	maxColor = color.RGBA{A: 255}
	maxLabel = color.RGBA{B: 255, A: 255}
)

// DefaultPlotName returns the timestamped file name used when no plot path is given.
func DefaultPlotName(now time.Time) string {
	return fmt.Sprintf("Time_series_plot_%s.png", now.Format("2006-01-02_15-04-05"))
}

// PlotScatter renders run index against mean queuing time, with dashed
// horizontal lines at the trial average, minimum and maximum, and saves it
// to path. The image format follows the path extension.
func PlotScatter(records []Record, s Summary, path string) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	p := plot.New()
	p.Title.Text = "Scatter Plot: Run vs. Mean Q Nurse"
	p.X.Label.Text = "Run"
	p.Y.Label.Text = "Mean Q Nurse"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(records))
	xmin, xmax := float64(records[0].Run), float64(records[0].Run)
	for i, r := range records {
		pts[i].X = float64(r.Run)
		pts[i].Y = r.MeanWait
		xmin = min(xmin, pts[i].X)
		xmax = max(xmax, pts[i].X)
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("building scatter: %w", err)
	}
	p.Add(scatter)

	for _, ref := range []struct {
		name  string
		y     float64
		color color.Color
	}{
		{"Average", s.Mean, avgColor},
		{"Min", s.Min, minColor},
		{"Max", s.Max, maxColor},
	} {
		line, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: ref.y}, {X: xmax, Y: ref.y}})
		if err != nil {
			return fmt.Errorf("building %s line: %w", ref.name, err)
		}
		line.LineStyle.Color = ref.color
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(line)
		p.Legend.Add(ref.name, line)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: []plotter.XY{
			{X: xmin + 2.5, Y: s.Mean},
			{X: xmin + 2.5, Y: s.Min},
			{X: xmin + 7.5, Y: s.Max},
		},
		Labels: []string{
			fmt.Sprintf("Avg: %.2f", s.Mean),
			fmt.Sprintf("Min: %.2f", s.Min),
			fmt.Sprintf("Max: %.2f", s.Max),
		},
	})
	if err != nil {
		return fmt.Errorf("building labels: %w", err)
	}
	labels.TextStyle[0].Color = avgColor
	labels.TextStyle[1].Color = minColor
	labels.TextStyle[2].Color = maxLabel
	p.Add(labels)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}

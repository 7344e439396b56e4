package diag

import (
	"path/filepath"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// TerminalPlot renders a series as an ASCII chart for the CLI summary.
func TerminalPlot(values []float64, caption string) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// SavePlots writes the radius-evolution and final-fluence figures as PNG
// into dir.
func SavePlots(dir string, rec *Recorder) error {
	if err := savePlot(
		filepath.Join(dir, "radius.png"),
		"Beam radius", "z [m]", "radius [m]",
		rec.Z, rec.Radius,
	); err != nil {
		return err
	}

	return savePlot(
		filepath.Join(dir, "fluence.png"),
		"Final fluence profile", "r [m]", "fluence [J/m^2]",
		rec.g.R, rec.Fluence,
	)
}

func savePlot(path, title, xLabel, yLabel string, xs, ys []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

package boxchart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/vdobler/vizcore/stat"
)

// Plot lays out the chart with one box per category along the x axis and
// the planned value axis.
func (c *Chart) Plot() (*plot.Plot, error) {
	fill, line, median, outlier, err := c.Theme.colors()
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = c.Title

	names := make([]string, len(c.Boxes))
	for i, box := range c.Boxes {
		names[i] = box.Label

		bp, err := newBox(box.BoxPlotData, float64(i), c.Theme.BoxWidth)
		if err != nil {
			return nil, fmt.Errorf("boxchart: category %q: %w", box.Label, err)
		}
		bp.FillColor = fill
		bp.BoxStyle.Color, bp.BoxStyle.Width = line, c.Theme.LineWidth
		bp.WhiskerStyle.Color, bp.WhiskerStyle.Width = line, c.Theme.LineWidth
		bp.MedianStyle.Color, bp.MedianStyle.Width = median, 2*c.Theme.LineWidth
		bp.GlyphStyle.Color = outlier
		bp.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(bp)

		if c.Labels {
			labels, err := c.dataLabels(box.BoxPlotData, float64(i))
			if err != nil {
				return nil, err
			}
			p.Add(labels)
		}
	}
	p.NominalX(names...)

	p.Y.Min, p.Y.Max = c.Axis.Min, c.Axis.Max
	p.Y.Tick.Marker = c.Axis
	return p, nil
}

// newBox creates a plotter box showing b. The box is built from the
// whisker ends and outliers only and then takes over the statistics of b,
// so the plotter does not recompute them.
func newBox(b stat.BoxPlotData, loc float64, width vg.Length) (*plotter.BoxPlot, error) {
	values := append(plotter.Values{}, b.Outliers...)
	values = append(values, b.Min, b.Max)

	bp, err := plotter.NewBoxPlot(width, loc, values)
	if err != nil {
		return nil, err
	}

	bp.Median = b.Median
	bp.Quartile1, bp.Quartile3 = b.Median, b.Median
	if b.HasQuartiles() {
		bp.Quartile1, bp.Quartile3 = b.Quartile1, b.Quartile3
	}
	bp.AdjLow, bp.AdjHigh = b.Min, b.Max
	bp.Min, bp.Max = b.Min, b.Max
	bp.Outside = bp.Outside[:0]
	for i, o := range b.Outliers {
		bp.Outside = append(bp.Outside, i)
		if o < bp.Min {
			bp.Min = o
		}
		if o > bp.Max {
			bp.Max = o
		}
	}
	return bp, nil
}

// dataLabels places the formatted DataLabels of b right of its box.
func (c *Chart) dataLabels(b stat.BoxPlotData, loc float64) (*plotter.Labels, error) {
	values := b.DataLabels()
	xys := make(plotter.XYs, len(values))
	texts := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: loc + 0.25, Y: v}
		texts[i] = c.Label(v)
	}
	return plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
}

// Save writes the chart to path. The format follows the extension, e.g.
// svg, png or pdf.
func (c *Chart) Save(path string, width, height vg.Length) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("boxchart: saving %s: %w", path, err)
	}
	return nil
}

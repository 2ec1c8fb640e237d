// Package boxchart converts table snapshots into box and whisker charts
// and exports them as image files.
package boxchart

import (
	"fmt"

	"github.com/vdobler/vizcore/scale"
	"github.com/vdobler/vizcore/stat"
	"github.com/vdobler/vizcore/table"
)

// DefaultFormat is used for values when neither the options nor the
// value column specify a format.
const DefaultFormat = "#,0"

type Options struct {
	Category string // column to group by
	Value    string // numeric column

	Whisker  stat.WhiskerPolicy
	Outliers bool
	Labels   bool // annotate the boxes with their DataLabels

	Format string // value format, see table.Format
	Title  string
	Theme  *Theme // nil for DefaultTheme
}

// Chart is a converted box and whisker chart.
type Chart struct {
	Title  string
	Boxes  []stat.CategoryBox
	Axis   scale.AxisRange
	Format string
	Labels bool
	Theme  Theme
}

// Convert groups the value column of t by the category column and
// computes one box per category with at least one value. The value axis
// covers all boxes including their outliers.
func Convert(t *table.Table, opts Options) (*Chart, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	idx, err := t.Indices(opts.Category, opts.Value)
	if err != nil {
		return nil, err
	}
	cats, err := t.Samples(idx[0], idx[1])
	if err != nil {
		return nil, err
	}
	boxes, err := stat.Categories(cats, opts.Whisker, opts.Outliers)
	if err != nil {
		return nil, fmt.Errorf("boxchart: %w", err)
	}

	c := &Chart{
		Title:  opts.Title,
		Boxes:  boxes,
		Axis:   scale.Plan(stat.Extent(boxes)),
		Format: opts.Format,
		Labels: opts.Labels,
		Theme:  DefaultTheme,
	}
	if c.Format == "" {
		c.Format = t.Columns[idx[1]].Format
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Title == "" {
		c.Title = opts.Value + " by " + opts.Category
	}
	if opts.Theme != nil {
		c.Theme = *opts.Theme
	}
	return c, nil
}

// Label formats a value with the chart's value format.
func (c *Chart) Label(v float64) string {
	return table.Format(v, c.Format)
}

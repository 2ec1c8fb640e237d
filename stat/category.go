package stat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MaxCategories is the maximum number of categories converted by Categories.
const MaxCategories = 100

// Category is a labeled sample. NaN values mark missing data.
type Category struct {
	Label  string
	Values []float64
}

// CategoryBox is the box plot of one category.
type CategoryBox struct {
	Label string
	Index int // 1-based position on the category axis
	BoxPlotData
}

// Categories computes a box for each category. Missing values are
// dropped, categories without any value are skipped and at most
// MaxCategories boxes are produced.
func Categories(cats []Category, whisker WhiskerPolicy, outliers bool) ([]CategoryBox, error) {
	var boxes []CategoryBox
	for _, c := range cats {
		if len(boxes) == MaxCategories {
			break
		}
		values := make([]float64, 0, len(c.Values))
		for _, v := range c.Values {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		b, err := BoxPlot(values, whisker, outliers)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", c.Label, err)
		}
		boxes = append(boxes, CategoryBox{
			Label:       c.Label,
			Index:       len(boxes) + 1,
			BoxPlotData: b,
		})
	}
	return boxes, nil
}

// Extent returns the smallest and largest value drawn for boxes: the
// whisker ends and the outliers. An empty slice yields 0, 0.
func Extent(boxes []CategoryBox) (min, max float64) {
	if len(boxes) == 0 {
		return 0, 0
	}
	min, max = math.Inf(+1), math.Inf(-1)
	for _, b := range boxes {
		lo, hi := b.Min, b.Max
		if len(b.Outliers) > 0 {
			lo = math.Min(lo, floats.Min(b.Outliers))
			hi = math.Max(hi, floats.Max(b.Outliers))
		}
		min, max = math.Min(min, lo), math.Max(max, hi)
	}
	return min, max
}

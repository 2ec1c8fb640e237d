// Package stat computes the statistics behind box and whisker charts.
package stat

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInvalidInput is matched by every input error of this package.
	ErrInvalidInput = errors.New("stat: invalid input")

	ErrEmptySample   = fmt.Errorf("%w: empty sample", ErrInvalidInput)
	ErrInvalidSample = fmt.Errorf("%w: sample contains NaN", ErrInvalidInput)
)

// WhiskerPolicy determines where the whiskers of a box end.
type WhiskerPolicy int

const (
	// MinMax draws the whiskers to the smallest and largest sample.
	MinMax WhiskerPolicy = iota

	// Tukey draws the whiskers to the most extreme samples which are
	// still inside the fences Q1 - 1.5*IQR and Q3 + 1.5*IQR.
	Tukey

	// IQRBounds draws the whiskers to the fences themselves.
	IQRBounds
)

func (p WhiskerPolicy) String() string {
	switch p {
	case MinMax:
		return "minmax"
	case Tukey:
		return "tukey"
	case IQRBounds:
		return "iqr"
	}
	return fmt.Sprintf("WhiskerPolicy(%d)", int(p))
}

// ParseWhiskerPolicy is the inverse of String. "standard" is accepted
// as an alias for Tukey.
func ParseWhiskerPolicy(s string) (WhiskerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "minmax":
		return MinMax, nil
	case "tukey", "standard":
		return Tukey, nil
	case "iqr":
		return IQRBounds, nil
	}
	return MinMax, fmt.Errorf("stat: unknown whisker policy %q", s)
}

// BoxPlotData are the components of one box and whisker.
type BoxPlotData struct {
	Min, Max             float64
	Median               float64
	Quartile1, Quartile3 float64 // only meaningful if HasQuartiles
	Average              float64
	Samples              int

	// Whisker is the policy actually applied. Samples of at most two
	// values always use MinMax.
	Whisker WhiskerPolicy

	// Outliers are the unique samples outside [Min,Max] in ascending
	// order. Nil unless outliers were requested.
	Outliers []float64
}

// HasQuartiles reports whether Quartile1 and Quartile3 are defined.
func (b BoxPlotData) HasQuartiles() bool { return b.Samples > 2 }

// MinLabel is the caption of the lower whisker.
func (b BoxPlotData) MinLabel() string {
	if b.Whisker == IQRBounds {
		return "Q1 - 1.5 x IQR"
	}
	return "Minimum"
}

// MaxLabel is the caption of the upper whisker.
func (b BoxPlotData) MaxLabel() string {
	if b.Whisker == IQRBounds {
		return "Q3 + 1.5 x IQR"
	}
	return "Maximum"
}

// DataLabels returns the values worth a label: the unique values of
// max, min, average, median and the quartiles followed by the outliers.
func (b BoxPlotData) DataLabels() []float64 {
	candidates := []float64{b.Max, b.Min, b.Average, b.Median}
	if b.HasQuartiles() {
		candidates = append(candidates, b.Quartile1, b.Quartile3)
	}
	seen := NewFloatSet()
	labels := make([]float64, 0, len(candidates)+len(b.Outliers))
	for _, v := range candidates {
		if seen.Contains(v) {
			continue
		}
		seen.Add(v)
		labels = append(labels, v)
	}
	return append(labels, b.Outliers...)
}

// BoxPlot calculates the components of a box and whisker plot of sample.
// The sample is not modified. If outliers is set the samples outside the
// whiskers are reported.
func BoxPlot(sample []float64, whisker WhiskerPolicy, outliers bool) (BoxPlotData, error) {
	n := len(sample)
	if n == 0 {
		return BoxPlotData{}, ErrEmptySample
	}
	if floats.HasNaN(sample) {
		return BoxPlotData{}, ErrInvalidSample
	}

	d := make([]float64, n)
	copy(d, sample)
	sort.Float64s(d)

	med, err := stats.Median(d)
	if err != nil {
		return BoxPlotData{}, fmt.Errorf("stat: median: %w", err)
	}
	b := BoxPlotData{Samples: n, Whisker: whisker, Median: med}

	if n <= 2 {
		b.Whisker = MinMax
	} else {
		// Quartile positions; three samples are a special case where
		// the quartiles are the outer samples.
		q1 := float64(n-1) / 4
		q3 := 3 * q1
		if n == 3 {
			q1, q3 = 0, 2
		}
		b.Quartile1 = interpolate(d, q1)
		b.Quartile3 = interpolate(d, q3)
	}

	switch b.Whisker {
	case Tukey:
		lo, hi := b.fences()
		b.Min, b.Max = d[n-1], d[0]
		for _, y := range d {
			if y >= lo && y < b.Min {
				b.Min = y
			}
			if y <= hi && y > b.Max {
				b.Max = y
			}
		}
	case IQRBounds:
		b.Min, b.Max = b.fences()
	default:
		b.Whisker = MinMax
		b.Min, b.Max = d[0], d[n-1]
	}

	avg, err := stats.Mean(d)
	if err != nil {
		return BoxPlotData{}, fmt.Errorf("stat: average: %w", err)
	}
	b.Average = avg

	if outliers {
		b.Outliers = []float64{}
		for i, y := range d {
			if (y < b.Min || y > b.Max) && (i == 0 || y != d[i-1]) {
				b.Outliers = append(b.Outliers, y)
			}
		}
	}

	return b, nil
}

// fences returns Q1 - 1.5*IQR and Q3 + 1.5*IQR.
func (b BoxPlotData) fences() (lo, hi float64) {
	iqr := b.Quartile3 - b.Quartile1
	return b.Quartile1 - 1.5*iqr, b.Quartile3 + 1.5*iqr
}

// interpolate returns the value at the fractional position pos of the
// sorted slice d.
func interpolate(d []float64, pos float64) float64 {
	lo, hi := math.Floor(pos), math.Ceil(pos)
	low, high := d[int(lo)], d[int(hi)]
	return low + (pos-lo)*(high-low)
}

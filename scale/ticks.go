// Package scale plans value axes with round tick marks.
package scale

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// AxisRange is a planned value axis: TickCount ticks TickSize apart,
// starting at Min and ending at Max.
type AxisRange struct {
	Min, Max  float64
	TickSize  float64
	TickCount int
}

// Degenerate is the axis used when both ends of the data are zero.
var Degenerate = AxisRange{Min: 0, Max: 1, TickSize: 0.2, TickCount: 6}

// maxTicks bounds the tick count of a planned axis.
const maxTicks = 1000

// Multipliers for the leading digit of the padded span. Each bucket
// applies up to and including its limit.
var buckets = []struct{ limit, multiplier float64 }{
	{1.2, 0.2},
	{2.5, 0.2},
	{5, 0.5},
	{10, 1},
}

// Plan computes an axis for data in [min,max]. The axis fully contains
// the data padded by roughly one percent; its ticks are round numbers in
// the decade of the data span.
func Plan(min, max float64) AxisRange {
	if min > max {
		min, max = max, min
	}
	if (min == 0 && max == 0) || math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return Degenerate
	}

	lo, hi := pad(min, max)
	span := hi - lo
	if !finite(span) || span <= 0 {
		return bounds(min, max)
	}
	p := math.Log10(span)
	f := math.Pow(10, p-math.Floor(p))

	m := 2.0
	for _, b := range buckets {
		if f <= b.limit {
			m = b.multiplier
			break
		}
	}

	tick := m * math.Pow(10, math.Floor(p))
	if !finite(tick) || tick <= 0 {
		return bounds(min, max)
	}
	a := AxisRange{
		Min:      roundDown(lo, tick),
		Max:      tick * (math.Floor(hi/tick) + 1),
		TickSize: tick,
	}
	n := math.Round((a.Max-a.Min)/tick) + 1
	if !finite(a.Min) || !finite(a.Max) || a.Min > min || a.Max < max || !(n >= 2 && n <= maxTicks) {
		return bounds(min, max)
	}
	a.TickCount = int(n)
	return a
}

// bounds is the axis for data whose padded range cannot be planned in
// float64. Its ticks are the data ends, plus the midpoint when the span
// itself overflows.
func bounds(min, max float64) AxisRange {
	switch span := max - min; {
	case min >= 0 && max <= 1:
		return Degenerate
	case span == 0:
		return AxisRange{Min: min, Max: max, TickCount: 1}
	case finite(span):
		return AxisRange{Min: min, Max: max, TickSize: span, TickCount: 2}
	}
	return AxisRange{Min: min, Max: max, TickSize: max/2 - min/2, TickCount: 3}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// pad widens [min,max] outward. Zero ends are kept.
func pad(min, max float64) (lo, hi float64) {
	span := (max - min) / 100
	switch {
	case min == 0:
		lo = 0
	case min > 0:
		lo = min*0.99 - span
	default:
		lo = min*1.01 - span
	}
	switch {
	case max == 0:
		hi = 0
	case max < 0:
		hi = max*0.99 + span
	default:
		hi = max*1.01 + span
	}
	return lo, hi
}

func roundDown(a, b float64) float64 {
	return math.Floor(a/b) * b
}

// Values returns the positions of all ticks. The last one is Max.
func (a AxisRange) Values() []float64 {
	if a.TickCount <= 0 {
		return nil
	}
	values := make([]float64, a.TickCount)
	for i := range values {
		values[i] = a.round(a.Min + float64(i)*a.TickSize)
	}
	values[len(values)-1] = a.round(a.Max)
	return values
}

// Ticks implements plot.Ticker. Only the planned ticks inside [min,max]
// are returned.
func (a AxisRange) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for _, v := range a.Values() {
		if v < min-a.TickSize/1e6 || v > max+a.TickSize/1e6 {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: a.Label(v)})
	}
	return ticks
}

// Label formats v with as many decimals as the tick size needs.
func (a AxisRange) Label(v float64) string {
	return strconv.FormatFloat(v, 'f', a.decimals(), 64)
}

func (a AxisRange) decimals() int {
	if a.TickSize <= 0 {
		return 0
	}
	return int(math.Max(0, math.Ceil(-math.Log10(a.TickSize)-1e-9)))
}

// round removes the floating point noise of repeated tick additions.
func (a AxisRange) round(v float64) float64 {
	s := math.Pow(10, float64(a.decimals()))
	if math.IsInf(s, 0) || math.IsInf(v*s, 0) {
		return v
	}
	return math.Round(v*s) / s
}

var _ plot.Ticker = AxisRange{}

package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/vdobler/vizcore/boxchart"
	"github.com/vdobler/vizcore/scale"
	"github.com/vdobler/vizcore/stat"
	"github.com/vdobler/vizcore/table"
)

type axisView struct {
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	TickSize  float64   `json:"tickSize"`
	TickCount int       `json:"tickCount"`
	Ticks     []float64 `json:"ticks"`
	Labels    []string  `json:"labels"`
}

func newAxisView(a scale.AxisRange) axisView {
	v := axisView{
		Min:       a.Min,
		Max:       a.Max,
		TickSize:  a.TickSize,
		TickCount: a.TickCount,
		Ticks:     a.Values(),
	}
	for _, t := range v.Ticks {
		v.Labels = append(v.Labels, a.Label(t))
	}
	return v
}

type boxView struct {
	Label      string    `json:"label"`
	Index      int       `json:"index"`
	Samples    int       `json:"samples"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	Median     float64   `json:"median"`
	Quartile1  *float64  `json:"quartile1"`
	Quartile3  *float64  `json:"quartile3"`
	Average    float64   `json:"average"`
	Whisker    string    `json:"whisker"`
	MinLabel   string    `json:"minLabel"`
	MaxLabel   string    `json:"maxLabel"`
	Outliers   []float64 `json:"outliers,omitempty"`
	DataLabels []string  `json:"dataLabels"`
}

type boxPlotView struct {
	Title string    `json:"title"`
	Axis  axisView  `json:"axis"`
	Boxes []boxView `json:"boxes"`
}

// handleBoxPlot computes a box per category of a CSV body. Query
// parameters: category, value, whisker, outliers, format.
func (s *Server) handleBoxPlot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := boxchart.Options{
		Category: q.Get("category"),
		Value:    q.Get("value"),
		Whisker:  s.defaults.Whisker,
		Outliers: s.defaults.ShowOutliers,
		Format:   q.Get("format"),
	}
	if q.Has("whisker") {
		whisker, err := stat.ParseWhiskerPolicy(q.Get("whisker"))
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		opts.Whisker = whisker
	}
	if q.Has("outliers") {
		outliers, err := strconv.ParseBool(q.Get("outliers"))
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: outliers: %v", errBadRequest, err))
			return
		}
		opts.Outliers = outliers
	}

	t, err := table.ReadCSV(r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	chart, err := boxchart.Convert(t, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	view := boxPlotView{
		Title: chart.Title,
		Axis:  newAxisView(chart.Axis),
		Boxes: make([]boxView, len(chart.Boxes)),
	}
	for i, b := range chart.Boxes {
		bv := boxView{
			Label:    b.Label,
			Index:    b.Index,
			Samples:  b.Samples,
			Min:      b.Min,
			Max:      b.Max,
			Median:   b.Median,
			Average:  b.Average,
			Whisker:  b.Whisker.String(),
			MinLabel: b.MinLabel(),
			MaxLabel: b.MaxLabel(),
			Outliers: b.Outliers,
		}
		if b.HasQuartiles() {
			q1, q3 := b.Quartile1, b.Quartile3
			bv.Quartile1, bv.Quartile3 = &q1, &q3
		}
		for _, v := range b.DataLabels() {
			bv.DataLabels = append(bv.DataLabels, chart.Label(v))
		}
		view.Boxes[i] = bv
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAxis(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	min, err := strconv.ParseFloat(q.Get("min"), 64)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: min: %v", errBadRequest, err))
		return
	}
	max, err := strconv.ParseFloat(q.Get("max"), 64)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: max: %v", errBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, newAxisView(scale.Plan(min, max)))
}

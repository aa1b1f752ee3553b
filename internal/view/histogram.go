package view

import (
	"math"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

// Histogram layout constants.
const (
	HistogramBins   = 20
	HistogramTitle  = "Distribution of Facility Elevation (in feet)"
	HistogramXLabel = "Elevation (ft)"
	HistogramYLabel = "Frequency"
	HistogramColor  = "#2ca02c"
	DensityColor    = "#1b5e20"
	densityGridSize = 200
)

// Bin is one histogram bucket covering [Lo, Hi); the last bin also
// includes Hi.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Point is one sample of the density curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Histogram is the elevation distribution view. Density is scaled to counts
// so it overlays the bars directly.
type Histogram struct {
	Title   string  `json:"title"`
	XLabel  string  `json:"x_label"`
	YLabel  string  `json:"y_label"`
	Color   string  `json:"color"`
	Bins    []Bin   `json:"bins"`
	Density []Point `json:"density"`
	Total   int     `json:"total"`
}

// BuildHistogram bins the elevation column into HistogramBins equal-width
// buckets spanning the observed range. A single distinct value is widened to
// [v-0.5, v+0.5]. The density overlay needs two or more observations with
// non-zero variance.
func BuildHistogram(ds domain.Dataset) Histogram {
	h := Histogram{
		Title:   HistogramTitle,
		XLabel:  HistogramXLabel,
		YLabel:  HistogramYLabel,
		Color:   HistogramColor,
		Bins:    []Bin{},
		Density: []Point{},
	}
	values := ds.Elevations()
	if len(values) == 0 {
		return h
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / HistogramBins
	h.Bins = make([]Bin, HistogramBins)
	for i := range h.Bins {
		h.Bins[i] = Bin{Lo: lo + float64(i)*width, Hi: lo + float64(i+1)*width}
	}
	h.Bins[HistogramBins-1].Hi = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= HistogramBins {
			idx = HistogramBins - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.Bins[idx].Count++
	}
	h.Total = len(values)

	if curve, ok := gaussianKDE(values, densityGridSize); ok {
		scale := float64(len(values)) * width
		for i := range curve {
			curve[i].Y *= scale
		}
		h.Density = curve
	}
	return h
}

// Range returns the x extent covered by the bins.
func (h Histogram) Range() (float64, float64) {
	if len(h.Bins) == 0 {
		return 0, 1
	}
	return h.Bins[0].Lo, h.Bins[len(h.Bins)-1].Hi
}

// MaxCount returns the tallest bin count.
func (h Histogram) MaxCount() int {
	m := 0
	for _, b := range h.Bins {
		m = max(m, b.Count)
	}
	return m
}

package view

import (
	"fmt"
	"io"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Rendered chart dimensions in pixels.
const (
	ChartWidth  = 960
	ChartHeight = 540
)

const barHalfWidth = 0.4

var emptyStroke = drawing.Color{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

// RenderHistogramSVG draws the histogram bars with the density curve on top.
func RenderHistogramSVG(w io.Writer, h Histogram) error {
	lo, hi := h.Range()
	yMax := niceCeil(float64(h.MaxCount()))
	for _, p := range h.Density {
		yMax = math.Max(yMax, niceCeil(p.Y))
	}

	var series []chart.Series
	if len(h.Bins) == 0 {
		series = append(series, flatSeries(lo, hi))
	} else {
		stroke := drawing.ColorFromHex(h.Color)
		fill := stroke
		fill.A = 0xb0
		xs := make([]float64, 0, 4*len(h.Bins))
		ys := make([]float64, 0, 4*len(h.Bins))
		for _, b := range h.Bins {
			c := float64(b.Count)
			xs = append(xs, b.Lo, b.Lo, b.Hi, b.Hi)
			ys = append(ys, 0, c, c, 0)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "elevation",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: stroke,
				StrokeWidth: 1,
				FillColor:   fill,
			},
		})
	}
	if len(h.Density) > 1 {
		xs := make([]float64, len(h.Density))
		ys := make([]float64, len(h.Density))
		for i, p := range h.Density {
			xs[i], ys[i] = p.X, p.Y
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "density",
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: drawing.ColorFromHex(DensityColor), StrokeWidth: 2},
		})
	}

	ch := chart.Chart{
		Title:      h.Title,
		Width:      ChartWidth,
		Height:     ChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 24, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  h.XLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			Ticks: niceTicks(lo, hi, 8),
		},
		YAxis: chart.YAxis{
			Name:  h.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks: niceTicks(0, yMax, 6),
		},
		Series: series,
	}
	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render histogram: %w", err)
	}
	return nil
}

// RenderBarChartSVG draws one filled bar per flag value. An empty chart
// renders the axes with no bars.
func RenderBarChartSVG(w io.Writer, b BarChart) error {
	lo, hi := -0.5, 1.5
	if len(b.Bars) > 0 {
		lo = float64(b.Bars[0].Flag) - 0.5
		hi = float64(b.Bars[len(b.Bars)-1].Flag) + 0.5
	}
	maxCount := 0
	for _, bar := range b.Bars {
		maxCount = max(maxCount, bar.Count)
	}
	yMax := niceCeil(float64(maxCount))

	series := make([]chart.Series, 0, len(b.Bars))
	ticks := make([]chart.Tick, 0, len(b.Bars))
	for _, bar := range b.Bars {
		x := float64(bar.Flag)
		c := float64(bar.Count)
		fill := drawing.ColorFromHex(bar.Color)
		series = append(series, chart.ContinuousSeries{
			Name:    strconv.Itoa(bar.Flag),
			XValues: []float64{x - barHalfWidth, x - barHalfWidth, x + barHalfWidth, x + barHalfWidth},
			YValues: []float64{0, c, c, 0},
			Style:   chart.Style{StrokeColor: fill, StrokeWidth: 1, FillColor: fill},
		})
		ticks = append(ticks, chart.Tick{Value: x, Label: strconv.Itoa(bar.Flag)})
	}
	if len(series) == 0 {
		series = append(series, flatSeries(lo, hi))
		ticks = []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}}
	}

	ch := chart.Chart{
		Title:      b.Title,
		Width:      ChartWidth,
		Height:     ChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 24, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  b.XLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  b.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks: niceTicks(0, yMax, 6),
		},
		Series: series,
	}
	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// flatSeries is a baseline placeholder so go-chart has something to lay out.
func flatSeries(lo, hi float64) chart.Series {
	return chart.ContinuousSeries{
		Name:    "empty",
		XValues: []float64{lo, hi},
		YValues: []float64{0, 0},
		Style:   chart.Style{StrokeColor: emptyStroke, StrokeWidth: 1},
	}
}

// niceCeil rounds v up to a 1/2/5 multiple of its magnitude, never below 1.
func niceCeil(v float64) float64 {
	if v <= 1 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*mag >= v {
			return m * mag
		}
	}
	return 10 * mag
}

// niceTicks returns up to about n ticks on 1/2/2.5/5 steps that fall inside
// [lo, hi].
func niceTicks(lo, hi float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	if hi <= lo {
		hi = lo + 1
	}
	span := hi - lo
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	step := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		s := c * mag
		score := math.Abs(math.Floor(span/s) + 1 - float64(n))
		if score < bestScore {
			bestScore = score
			step = s
		}
	}

	var ticks []chart.Tick
	eps := step * 1e-9
	for v := math.Ceil(lo/step) * step; v <= hi+eps; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

func formatTick(v float64) string {
	if math.Abs(v) < 1e-9 {
		return "0"
	}
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

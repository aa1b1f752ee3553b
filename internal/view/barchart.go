package view

import (
	"slices"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

// Bar chart layout constants.
const (
	BarChartTitle  = "Active vs Inactive Facilities"
	BarChartXLabel = "Active Flag (0 = Inactive, 1 = Active)"
	BarChartYLabel = "Number of Facilities"
)

// Bar is the record count for one active flag value.
type Bar struct {
	Flag  int    `json:"flag"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// BarChart is the per-flag count view.
type BarChart struct {
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Bars   []Bar  `json:"bars"`
}

// BuildBarChart counts records per distinct flag, ascending by flag value,
// and colours the bars from the viridis palette.
func BuildBarChart(ds domain.Dataset) BarChart {
	counts := domain.FlagCounts(ds)
	flags := make([]int, 0, len(counts))
	for flag := range counts {
		flags = append(flags, flag)
	}
	slices.Sort(flags)

	palette := Viridis(len(flags))
	bars := make([]Bar, len(flags))
	for i, flag := range flags {
		bars[i] = Bar{Flag: flag, Count: counts[flag], Color: palette[i]}
	}
	return BarChart{
		Title:  BarChartTitle,
		XLabel: BarChartXLabel,
		YLabel: BarChartYLabel,
		Bars:   bars,
	}
}

// Total returns the sum of all bar counts.
func (b BarChart) Total() int {
	total := 0
	for _, bar := range b.Bars {
		total += bar.Count
	}
	return total
}

package view

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

func TestRenderHistogramSVG(t *testing.T) {
	tests := []struct {
		name string
		ds   domain.Dataset
	}{
		{"scenario", sampleDataset()},
		{"empty", domain.Dataset{}},
		{"single value", elevations(100)},
		{"zero variance", elevations(7, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderHistogramSVG(&buf, BuildHistogram(tt.ds)))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestRenderBarChartSVG(t *testing.T) {
	for name, ds := range map[string]domain.Dataset{
		"scenario": sampleDataset(),
		"empty":    {},
		"one flag": {Records: []domain.Facility{{ID: "1", ActiveFlag: 1}}},
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderBarChartSVG(&buf, BuildBarChart(ds)))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestNiceCeil(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 1},
		{1, 1},
		{3, 5},
		{7, 10},
		{12, 20},
		{50, 50},
		{51, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, niceCeil(tt.in), "niceCeil(%v)", tt.in)
	}
}

func TestNiceTicks_InsideRange(t *testing.T) {
	ticks := niceTicks(99.5, 100.5, 6)
	require.NotEmpty(t, ticks)
	for _, tk := range ticks {
		assert.GreaterOrEqual(t, tk.Value, 99.5)
		assert.LessOrEqual(t, tk.Value, 100.5+1e-9)
	}

	ticks = niceTicks(0, 1, 6)
	require.Len(t, ticks, 6)
	assert.Equal(t, "0", ticks[0].Label)
	assert.Equal(t, "1", ticks[5].Label)
}

func TestChartColorsAreHex(t *testing.T) {
	c := drawing.ColorFromHex(HistogramColor)
	assert.Equal(t, drawing.Color{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}, c)

	for _, hex := range append(Viridis(5), DensityColor) {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, hex)
	}
}

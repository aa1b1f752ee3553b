package view

import (
	"fmt"
	"math"
)

// viridisStops samples matplotlib's viridis colormap at nine even points.
var viridisStops = [][3]float64{
	{0x44, 0x01, 0x54},
	{0x47, 0x2c, 0x7a},
	{0x3b, 0x51, 0x8b},
	{0x2c, 0x71, 0x8e},
	{0x21, 0x90, 0x8d},
	{0x27, 0xad, 0x81},
	{0x5c, 0xc8, 0x63},
	{0xaa, 0xdc, 0x32},
	{0xfd, 0xe7, 0x25},
}

// Viridis returns n hex colours spread across the viridis colormap, skipping
// both extremes the way seaborn samples a named palette.
func Viridis(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = viridisAt(float64(i+1) / float64(n+1))
	}
	return out
}

func viridisAt(t float64) string {
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(viridisStops)-1)
	i := int(pos)
	if i >= len(viridisStops)-1 {
		i = len(viridisStops) - 2
	}
	frac := pos - float64(i)
	a, b := viridisStops[i], viridisStops[i+1]
	var rgb [3]int
	for c := range rgb {
		rgb[c] = int(math.Round(a[c] + (b[c]-a[c])*frac))
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

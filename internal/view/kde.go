package view

import "math"

// gaussianKDE evaluates a Gaussian kernel density estimate on gridSize evenly
// spaced points between the sample minimum and maximum. Bandwidth follows
// Scott's rule on the sample standard deviation. ok is false when the
// estimate is undefined (fewer than two samples or zero variance).
func gaussianKDE(samples []float64, gridSize int) ([]Point, bool) {
	n := len(samples)
	if n < 2 || gridSize < 2 {
		return nil, false
	}

	mean := 0.0
	lo, hi := samples[0], samples[0]
	for _, s := range samples {
		mean += s
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}
	mean /= float64(n)

	variance := 0.0
	for _, s := range samples {
		d := s - mean
		variance += d * d
	}
	variance /= float64(n - 1)
	if variance == 0 {
		return nil, false
	}

	bw := math.Sqrt(variance) * math.Pow(float64(n), -0.2)
	norm := 1 / (float64(n) * bw * math.Sqrt(2*math.Pi))

	step := (hi - lo) / float64(gridSize-1)
	curve := make([]Point, gridSize)
	for i := range curve {
		x := lo + float64(i)*step
		sum := 0.0
		for _, s := range samples {
			z := (x - s) / bw
			sum += math.Exp(-0.5 * z * z)
		}
		curve[i] = Point{X: x, Y: sum * norm}
	}
	curve[gridSize-1].X = hi
	return curve, true
}

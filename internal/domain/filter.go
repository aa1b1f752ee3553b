package domain

import "slices"

// FilterCriteria is the user's current selection: accepted active flag
// values and an inclusive elevation window.
type FilterCriteria struct {
	AcceptedFlags []int   `json:"accepted_flags"`
	MinElevation  float64 `json:"min_elevation"`
	MaxElevation  float64 `json:"max_elevation"`
}

// DefaultCriteria accepts every flag present and the full observed range.
func DefaultCriteria(ds Dataset) FilterCriteria {
	b := ds.Bounds()
	return FilterCriteria{
		AcceptedFlags: ds.DistinctFlags(),
		MinElevation:  b.Min,
		MaxElevation:  b.Max,
	}
}

// Accepts reports whether f satisfies the criteria.
func (c FilterCriteria) Accepts(f Facility) bool {
	return slices.Contains(c.AcceptedFlags, f.ActiveFlag) &&
		f.ElevationFt >= c.MinElevation &&
		f.ElevationFt <= c.MaxElevation
}

// Filter returns the records of ds accepted by c, in their original order.
// The input is not modified.
func Filter(ds Dataset, c FilterCriteria) Dataset {
	out := Dataset{Records: make([]Facility, 0, len(ds.Records)), LoadedAt: ds.LoadedAt}
	if len(c.AcceptedFlags) == 0 || c.MinElevation > c.MaxElevation {
		return out
	}
	for _, f := range ds.Records {
		if c.Accepts(f) {
			out.Records = append(out.Records, f)
		}
	}
	return out
}

// FlagCounts returns the number of records per active flag value.
func FlagCounts(ds Dataset) map[int]int {
	counts := make(map[int]int)
	for _, f := range ds.Records {
		counts[f.ActiveFlag]++
	}
	return counts
}

package dashboard

import (
	"math"
	"slices"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

// FilterInput is the raw UI state of one request. FlagsSet distinguishes a
// first visit (no selection made, every flag accepted) from a submitted form
// with nothing selected (no flag accepted). Nil Min/Max mean "use the
// observed bound".
type FilterInput struct {
	Flags    []int
	FlagsSet bool
	Min      *float64
	Max      *float64
}

// ResolveCriteria turns UI state into filter criteria for ds. Elevation
// values are clamped to the observed bounds the way a range slider would.
func ResolveCriteria(ds domain.Dataset, in FilterInput) domain.FilterCriteria {
	c := domain.DefaultCriteria(ds)
	if in.FlagsSet {
		flags := slices.Clone(in.Flags)
		slices.Sort(flags)
		c.AcceptedFlags = slices.Compact(flags)
		if c.AcceptedFlags == nil {
			c.AcceptedFlags = []int{}
		}
	}

	b := ds.Bounds()
	if in.Min != nil {
		c.MinElevation = clamp(*in.Min, b.Min, b.Max)
	}
	if in.Max != nil {
		c.MaxElevation = clamp(*in.Max, b.Min, b.Max)
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

package http

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/facility-dashboard/internal/dashboard"
)

// Query parameters carrying the sidebar state.
const (
	paramActive    = "active"
	paramMinElev   = "min_elev"
	paramMaxElev   = "max_elev"
	paramSubmitted = "submitted"
)

// inputError is a malformed query parameter.
type inputError struct {
	param string
	value string
}

func (e *inputError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.param, e.value)
}

// parseFilterInput reads the sidebar state from the query string. The hidden
// submitted marker tells an empty selection apart from a first visit.
func parseFilterInput(q url.Values) (dashboard.FilterInput, error) {
	var in dashboard.FilterInput

	_, hasActive := q[paramActive]
	in.FlagsSet = hasActive || q.Get(paramSubmitted) != ""
	for _, raw := range q[paramActive] {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		flag, err := strconv.Atoi(v)
		if err != nil {
			return dashboard.FilterInput{}, &inputError{param: paramActive, value: raw}
		}
		in.Flags = append(in.Flags, flag)
	}

	var err error
	if in.Min, err = optionalFloat(q, paramMinElev); err != nil {
		return dashboard.FilterInput{}, err
	}
	if in.Max, err = optionalFloat(q, paramMaxElev); err != nil {
		return dashboard.FilterInput{}, err
	}
	return in, nil
}

func optionalFloat(q url.Values, param string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(param))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &inputError{param: param, value: raw}
	}
	return &v, nil
}

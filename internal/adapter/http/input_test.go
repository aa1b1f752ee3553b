package http

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterInput(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		flagsSet bool
		flags    []int
		min, max *float64
	}{
		{name: "first visit", query: ""},
		{name: "submitted nothing", query: "submitted=1", flagsSet: true},
		{name: "flags without marker", query: "active=0&active=1", flagsSet: true, flags: []int{0, 1}},
		{name: "blank flag ignored", query: "active=&submitted=1", flagsSet: true},
		{name: "window", query: "min_elev=10.5&max_elev=%2020", min: ptr(10.5), max: ptr(20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			in, err := parseFilterInput(q)
			require.NoError(t, err)
			assert.Equal(t, tt.flagsSet, in.FlagsSet)
			assert.Equal(t, tt.flags, in.Flags)
			assert.Equal(t, tt.min, in.Min)
			assert.Equal(t, tt.max, in.Max)
		})
	}
}

func TestParseFilterInput_Errors(t *testing.T) {
	for _, query := range []string{"active=x", "min_elev=ten", "max_elev=Inf", "min_elev=NaN"} {
		q, err := url.ParseQuery(query)
		require.NoError(t, err)

		_, err = parseFilterInput(q)
		var inErr *inputError
		require.ErrorAs(t, err, &inErr, query)
		assert.Equal(t, 400, statusFor(err))
	}
}

func ptr(v float64) *float64 { return &v }

package domain

import (
	"slices"
	"time"
)

// Source column names in the warehouse table.
const (
	ColumnFacilityID = "FACILITYID"
	ColumnLatitude   = "LATITUDE_DEC"
	ColumnLongitude  = "LONGITUDE_DEC"
	ColumnElevation  = "ELEVATIONFT"
	ColumnActiveFlag = "ACTIVEFLAG"
)

// RequiredColumns lists the columns DecodeRows expects in every row.
var RequiredColumns = []string{
	ColumnFacilityID,
	ColumnLatitude,
	ColumnLongitude,
	ColumnElevation,
	ColumnActiveFlag,
}

// Row is one untyped warehouse row keyed by column name.
type Row map[string]any

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Facility is one decoded survey record.
type Facility struct {
	ID          string  `json:"id"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	ElevationFt float64 `json:"elevation_ft"`
	ActiveFlag  int     `json:"active_flag"`
}

// Coordinate returns the facility location.
func (f Facility) Coordinate() Coordinate {
	return Coordinate{Lat: f.Lat, Lon: f.Lon}
}

// Dataset is the ordered result of one load.
type Dataset struct {
	Records  []Facility `json:"records"`
	LoadedAt time.Time  `json:"loaded_at"`
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.Records) }

// ElevationRange is an inclusive [Min, Max] interval in feet.
type ElevationRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Bounds returns the observed elevation range. An empty dataset yields [0, 0].
func (d Dataset) Bounds() ElevationRange {
	if len(d.Records) == 0 {
		return ElevationRange{}
	}
	r := ElevationRange{Min: d.Records[0].ElevationFt, Max: d.Records[0].ElevationFt}
	for _, f := range d.Records[1:] {
		r.Min = min(r.Min, f.ElevationFt)
		r.Max = max(r.Max, f.ElevationFt)
	}
	return r
}

// DistinctFlags returns the active flag values present, ascending.
func (d Dataset) DistinctFlags() []int {
	seen := make(map[int]struct{})
	flags := make([]int, 0, 2)
	for _, f := range d.Records {
		if _, ok := seen[f.ActiveFlag]; ok {
			continue
		}
		seen[f.ActiveFlag] = struct{}{}
		flags = append(flags, f.ActiveFlag)
	}
	slices.Sort(flags)
	return flags
}

// Elevations returns the elevation column in record order.
func (d Dataset) Elevations() []float64 {
	out := make([]float64, len(d.Records))
	for i, f := range d.Records {
		out[i] = f.ElevationFt
	}
	return out
}

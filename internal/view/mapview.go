package view

import (
	"fmt"
	"strconv"

	geohash "github.com/TomiHiltunen/geohash-golang"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

// Marker colours by active flag.
const (
	ColorActive   = "blue"
	ColorInactive = "red"
)

// DefaultCenter is the fallback map center (San Jose, CA).
var DefaultCenter = domain.Coordinate{Lat: 37.3382, Lon: -121.8863}

// DefaultZoom is the initial map zoom level.
const DefaultZoom = 12

// MapOptions positions the map. Zero values use DefaultCenter and DefaultZoom.
type MapOptions struct {
	Center       domain.Coordinate
	CenterSource string
	Zoom         int
}

// Marker is one facility pin.
type Marker struct {
	ID          string  `json:"id"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	ElevationFt float64 `json:"elevation_ft"`
	ActiveFlag  int     `json:"active_flag"`
	Color       string  `json:"color"`
	Popup       string  `json:"popup"`
	Geohash     string  `json:"geohash"`
}

// MapView is the map artifact: a center and one marker per record.
type MapView struct {
	Center       domain.Coordinate `json:"center"`
	CenterSource string            `json:"center_source"`
	Zoom         int               `json:"zoom"`
	Markers      []Marker          `json:"markers"`
}

// BuildMap places one marker per record, in dataset order. There is no
// clustering.
func BuildMap(ds domain.Dataset, opts MapOptions) MapView {
	center := opts.Center
	if center == (domain.Coordinate{}) {
		center = DefaultCenter
	}
	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	source := opts.CenterSource
	if source == "" {
		source = domain.CenterSourceFallback
	}

	markers := make([]Marker, 0, ds.Len())
	for _, f := range ds.Records {
		markers = append(markers, Marker{
			ID:          f.ID,
			Lat:         f.Lat,
			Lon:         f.Lon,
			ElevationFt: f.ElevationFt,
			ActiveFlag:  f.ActiveFlag,
			Color:       markerColor(f.ActiveFlag),
			Popup:       popupText(f),
			Geohash:     geohash.Encode(f.Lat, f.Lon),
		})
	}
	return MapView{Center: center, CenterSource: source, Zoom: zoom, Markers: markers}
}

func markerColor(flag int) string {
	if flag == 1 {
		return ColorActive
	}
	return ColorInactive
}

func popupText(f domain.Facility) string {
	return fmt.Sprintf("Facility ID: %s, Elevation: %s ft", f.ID, strconv.FormatFloat(f.ElevationFt, 'f', -1, 64))
}

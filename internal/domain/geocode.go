package domain

import (
	"context"
	"log/slog"
)

// Map center sources reported by ResolveCenter.
const (
	CenterSourceFallback = "fallback"
	CenterSourceGeocoded = "geocoded"
	CenterSourceFailed   = "failed"
)

// ResolveCenter geocodes place and returns its coordinate. A nil geocoder,
// an empty place, an error or an empty result all fall back to the fixed
// coordinate; the second return value says which happened.
func ResolveCenter(ctx context.Context, geocoder Geocoder, place string, fallback Coordinate, logger *slog.Logger) (Coordinate, string) {
	if geocoder == nil || place == "" {
		return fallback, CenterSourceFallback
	}

	result, err := geocoder.ForwardGeocode(ctx, place)
	if err != nil {
		logger.Warn("map center geocoding failed", "place", place, "error", err)
		return fallback, CenterSourceFailed
	}
	if result.Lat == 0 && result.Lon == 0 {
		return fallback, CenterSourceFallback
	}
	return Coordinate{Lat: result.Lat, Lon: result.Lon}, CenterSourceGeocoded
}

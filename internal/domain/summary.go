package domain

import "time"

// RenderSummary describes one completed render pass. It is what the
// dashboard publishes to the event stream.
type RenderSummary struct {
	PassID          string         `json:"pass_id"`
	RenderedAt      time.Time      `json:"rendered_at"`
	Driver          string         `json:"driver"`
	Criteria        FilterCriteria `json:"criteria"`
	TotalRecords    int            `json:"total_records"`
	FilteredRecords int            `json:"filtered_records"`
	FlagCounts      map[int]int    `json:"flag_counts"`
	DurationMs      float64        `json:"duration_ms"`
}

// Package view turns a filtered dataset into the dashboard's three views:
// a marker map, an elevation histogram with a density overlay, and a bar
// chart of records per active flag.
//
// Builders are pure and never fail; an empty dataset yields an empty view.
// The Render*SVG functions draw the chart views with go-chart and cope with
// empty and single-value inputs by pinning explicit axis ranges.
package view

package http

import (
	"html/template"
	"slices"
	"strconv"

	"github.com/couchcryptid/facility-dashboard/internal/dashboard"
	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

type pageData struct {
	Page         dashboard.Page
	HistogramSVG template.HTML
	BarChartSVG  template.HTML
	JSONURL      string
}

type errorData struct {
	Status  int
	Title   string
	Kind    string
	Message string
}

var funcMap = template.FuncMap{
	"fmtElev": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	"hasFlag": func(c domain.FilterCriteria, flag int) bool {
		return slices.Contains(c.AcceptedFlags, flag)
	},
	"flagLabel": func(flag int) string {
		switch flag {
		case 1:
			return "1 (Active)"
		case 0:
			return "0 (Inactive)"
		default:
			return strconv.Itoa(flag)
		}
	},
}

var pageTemplate = template.Must(template.New("dashboard").Funcs(funcMap).Parse(tmplBase + tmplPage + tmplError))

const tmplBase = `
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Facilities Data Dashboard</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,-apple-system,sans-serif;background:#f6f8fa;color:#1f2328;font-size:14px;line-height:1.5;display:flex;min-height:100vh}
aside{width:280px;flex-shrink:0;background:#fff;border-right:1px solid #d0d7de;padding:16px}
aside h2{font-size:15px;margin-bottom:12px}
aside fieldset{border:none;margin-bottom:16px}
aside legend,aside label.lbl{font-size:12px;font-weight:600;color:#57606a;display:block;margin-bottom:4px}
aside input[type=range]{width:100%}
aside output{font-size:12px;color:#57606a}
aside button{background:#1f6feb;border:none;color:#fff;padding:6px 14px;border-radius:4px;cursor:pointer}
main{flex:1;padding:16px 24px;max-width:1100px}
h1{font-size:22px;margin-bottom:12px}
h2.section{font-size:16px;margin:20px 0 8px}
.cards{display:flex;gap:12px;margin-bottom:12px}
.card{background:#fff;border:1px solid #d0d7de;border-radius:6px;padding:8px 14px}
.card .val{font-size:18px;font-weight:700}
.card .lbl{font-size:11px;color:#57606a}
#map{height:480px;border:1px solid #d0d7de;border-radius:6px}
.chart svg{max-width:100%;height:auto;background:#fff;border:1px solid #d0d7de;border-radius:6px}
.err{background:#fff;border:1px solid #cf222e;border-left-width:4px;border-radius:6px;padding:16px;margin-top:12px}
.err pre{white-space:pre-wrap;word-break:break-word;font-size:12px;color:#57606a;margin-top:8px}
.dim{color:#57606a;font-size:12px}
</style>
</head>{{end}}
`

const tmplPage = `
{{define "page"}}{{template "head" .}}
<body>
<aside>
<h2>Filter Options</h2>
<form method="get" action="/">
<input type="hidden" name="submitted" value="1">
<fieldset>
<legend>Select Active Flag</legend>
{{range .Page.Flags}}<label><input type="checkbox" name="active" value="{{.}}"{{if hasFlag $.Page.Criteria .}} checked{{end}}> {{flagLabel .}}</label><br>
{{else}}<span class="dim">No flags in the dataset</span>{{end}}
</fieldset>
<fieldset>
<label class="lbl" for="min_elev">Minimum Elevation (ft)</label>
<input type="range" id="min_elev" name="min_elev" step="any" min="{{fmtElev .Page.Bounds.Min}}" max="{{fmtElev .Page.Bounds.Max}}" value="{{fmtElev .Page.Criteria.MinElevation}}" oninput="this.nextElementSibling.value=this.value">
<output>{{fmtElev .Page.Criteria.MinElevation}}</output>
</fieldset>
<fieldset>
<label class="lbl" for="max_elev">Maximum Elevation (ft)</label>
<input type="range" id="max_elev" name="max_elev" step="any" min="{{fmtElev .Page.Bounds.Min}}" max="{{fmtElev .Page.Bounds.Max}}" value="{{fmtElev .Page.Criteria.MaxElevation}}" oninput="this.nextElementSibling.value=this.value">
<output>{{fmtElev .Page.Criteria.MaxElevation}}</output>
</fieldset>
<button type="submit">Apply</button>
</form>
</aside>
<main>
<h1>Facilities Data Dashboard</h1>
<div class="cards">
<div class="card"><div class="val">{{.Page.Filtered.Len}}</div><div class="lbl">shown</div></div>
<div class="card"><div class="val">{{.Page.Total}}</div><div class="lbl">loaded</div></div>
</div>

<h2 class="section">Map View</h2>
<div id="map"></div>

<h2 class="section">Elevation Distribution</h2>
<div class="chart">{{.HistogramSVG}}</div>

<h2 class="section">Active vs Inactive Facilities</h2>
<div class="chart">{{.BarChartSVG}}</div>

<p class="dim">Render pass {{.Page.PassID}} in {{.Page.Duration}}. <a href="{{.JSONURL}}">JSON</a></p>
</main>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script>
const mapView = {{.Page.Map}};
const map = L.map('map').setView([mapView.center.lat, mapView.center.lon], mapView.zoom);
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 19,
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
// Warehouse strings go in as text nodes, never as HTML.
const textNode = (s) => { const el = document.createElement('span'); el.textContent = s; return el; };
for (const m of mapView.markers) {
  L.circleMarker([m.lat, m.lon], {radius: 7, color: m.color, fillColor: m.color, fillOpacity: 0.8})
    .bindPopup(() => textNode(m.popup))
    .bindTooltip(() => textNode('cell ' + m.geohash))
    .addTo(map);
}
</script>
</body>
</html>{{end}}
`

const tmplError = `
{{define "error"}}{{template "head" .}}
<body>
<main>
<h1>Facilities Data Dashboard</h1>
<div class="err">
<strong>{{.Title}}</strong>
<div class="dim">HTTP {{.Status}} &middot; {{.Kind}}</div>
<pre>{{.Message}}</pre>
</div>
<p class="dim" style="margin-top:12px"><a href="/">Reset filters</a></p>
</main>
</body>
</html>{{end}}
`

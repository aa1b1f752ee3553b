package http

import (
	"bytes"
	"html/template"
	"io"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/facility-dashboard/internal/dashboard"
	"github.com/couchcryptid/facility-dashboard/internal/domain"
	"github.com/couchcryptid/facility-dashboard/internal/view"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeSVG  = "image/svg+xml"
)

// render parses the request and runs one render pass.
func (s *Server) render(r *http.Request) (dashboard.Page, error) {
	in, err := parseFilterInput(r.URL.Query())
	if err != nil {
		return dashboard.Page{}, err
	}
	return s.renderer.Render(r.Context(), in)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page, err := s.render(r)
	if err != nil {
		s.writeErrorPage(w, r, err)
		return
	}

	var hist, bars bytes.Buffer
	if err := view.RenderHistogramSVG(&hist, page.Histogram); err != nil {
		s.writeErrorPage(w, r, err)
		return
	}
	if err := view.RenderBarChartSVG(&bars, page.BarChart); err != nil {
		s.writeErrorPage(w, r, err)
		return
	}

	data := pageData{
		Page:         page,
		HistogramSVG: template.HTML(hist.String()), //nolint:gosec // generated by go-chart from numeric data
		BarChartSVG:  template.HTML(bars.String()), //nolint:gosec // generated by go-chart from numeric data
		JSONURL:      "/api/facilities?" + r.URL.RawQuery,
	}
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "page", data); err != nil {
		s.writeErrorPage(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// facilitiesResponse is the /api/facilities payload.
type facilitiesResponse struct {
	PassID   string                `json:"pass_id"`
	Criteria domain.FilterCriteria `json:"criteria"`
	Bounds   domain.ElevationRange `json:"bounds"`
	Total    int                   `json:"total"`
	Count    int                   `json:"count"`
	Records  []domain.Facility     `json:"records"`
}

func (s *Server) handleFacilities(w http.ResponseWriter, r *http.Request) {
	page, err := s.render(r)
	if err != nil {
		s.writeErrorJSON(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, facilitiesResponse{
		PassID:   page.PassID,
		Criteria: page.Criteria,
		Bounds:   page.Bounds,
		Total:    page.Total,
		Count:    page.Filtered.Len(),
		Records:  page.Filtered.Records,
	})
}

// viewsResponse is the /api/views payload.
type viewsResponse struct {
	PassID    string         `json:"pass_id"`
	Map       view.MapView   `json:"map"`
	Histogram view.Histogram `json:"histogram"`
	BarChart  view.BarChart  `json:"bar_chart"`
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	page, err := s.render(r)
	if err != nil {
		s.writeErrorJSON(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, viewsResponse{
		PassID:    page.PassID,
		Map:       page.Map,
		Histogram: page.Histogram,
		BarChart:  page.BarChart,
	})
}

func (s *Server) handleElevationChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, func(wr io.Writer, p dashboard.Page) error {
		return view.RenderHistogramSVG(wr, p.Histogram)
	})
}

func (s *Server) handleActiveChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, func(wr io.Writer, p dashboard.Page) error {
		return view.RenderBarChartSVG(wr, p.BarChart)
	})
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, draw func(io.Writer, dashboard.Page) error) {
	page, err := s.render(r)
	if err != nil {
		s.writeErrorJSON(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := draw(&buf, page); err != nil {
		s.writeErrorJSON(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeSVG)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) writeErrorPage(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logRequestError(r, status, err)

	data := errorData{Status: status, Title: errorTitle(err), Kind: errorKind(err), Message: err.Error()}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if terr := pageTemplate.ExecuteTemplate(w, "error", data); terr != nil {
		s.logger.Error("render error page", "error", terr)
	}
}

func (s *Server) writeErrorJSON(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logRequestError(r, status, err)
	sharedobs.WriteJSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  errorKind(err),
	})
}

func (s *Server) logRequestError(r *http.Request, status int, err error) {
	if status < http.StatusInternalServerError {
		s.logger.Warn("bad dashboard request", "path", r.URL.Path, "error", err)
		return
	}
	s.logger.Error("dashboard request failed", "path", r.URL.Path, "status", status, "error", err)
}

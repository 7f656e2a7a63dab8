package server

import (
	"net/http"
	"time"

	"github.com/scrapperhq/scrapper/internal/db"
	"github.com/scrapperhq/scrapper/internal/scrape"
)

// handleScrapeJobs runs the compile/render/extract pipeline for an
// ad-hoc query without persisting anything. Useful for previewing what an
// alert would match.
func (s *Server) handleScrapeJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	search := q.Get("search")
	if search == "" {
		http.Error(w, "search is required", http.StatusBadRequest)
		return
	}

	alert := db.JobAlert{
		Search:       search,
		IncludeWords: q["includeWords"],
		OmitWords:    q["omitWords"],
	}

	window := scrape.DailyWindow(time.Now())
	if after := q.Get("after"); after != "" {
		t, err := time.Parse("2006-01-02", after)
		if err != nil {
			http.Error(w, "after must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		window = scrape.Window{After: t, Before: t.AddDate(0, 0, 1)}
	}

	_, requestURL := scrape.Compile(alert, window)

	renderer, err := s.newRenderer(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer renderer.Close()

	html, err := renderer.Render(r.Context(), requestURL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	records, err := scrape.Extract(html)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []scrape.JobRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}

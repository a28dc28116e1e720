package http

import (
	"net/http"

	"studioops/internal/core"
)

const portfolioCacheKey = "portfolio:summary"

// handlePortfolio serves the bucketed dashboard rollup. The summary is
// recomputed from a fresh project listing whenever the cache misses.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if summary, ok := s.portfolioCache.Get(portfolioCacheKey); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	projects, err := s.repo.ListProjects(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	summary := core.Summarize(projects)
	s.portfolioCache.Set(portfolioCacheKey, summary)
	writeJSON(w, http.StatusOK, summary)
}

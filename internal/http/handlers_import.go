package http

import (
	"net/http"
)

// handleImportPayments accepts a CSV body and appends its rows as
// payment records for the project. Per-row failures come back in the
// result; only a missing project or unreadable CSV fails the request.
func (s *Server) handleImportPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	body := http.MaxBytesReader(w, r.Body, 4<<20)
	defer body.Close()

	result, err := s.importer.Import(r.Context(), id, body)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, result)
}

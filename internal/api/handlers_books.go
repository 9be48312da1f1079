package api

import (
	"encoding/json"
	"net/http"
)

// handleBooks returns the book/chapter index of the loaded corpus.
func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.index)
}

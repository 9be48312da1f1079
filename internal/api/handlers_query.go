package api

import (
	"encoding/json"
	"net/http"

	"bookrag/internal/answer"
	"bookrag/internal/llm"
	"bookrag/internal/retrieval"
)

// queryRequest is a chat turn: the question, prior conversation, and
// optional scoping criteria ({"book": ..., "chapter": ...} sets, OR-ed).
type queryRequest struct {
	Question string               `json:"question"`
	History  []llm.Message        `json:"history"`
	Scopes   []retrieval.Criteria `json:"scopes"`
}

// source is a returned chunk without its embedding vector.
type source struct {
	Type       string  `json:"type"`
	Text       string  `json:"text"`
	Title      string  `json:"title"`
	Chapter    string  `json:"chapter"`
	Author     string  `json:"author"`
	Publisher  string  `json:"publisher"`
	Section    string  `json:"section,omitempty"`
	Subsection string  `json:"subsection,omitempty"`
	Similarity float64 `json:"similarity"`
}

type queryResponse struct {
	Answer  string   `json:"answer"`
	Sources []source `json:"sources"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	scoped := retrieval.Filter(s.chunks, req.Scopes, retrieval.DefaultFieldMapping)

	results, err := retrieval.Retrieve(r.Context(), scoped, req.Question, retrieval.Options{
		Threshold: s.cfg.SimilarityThreshold,
		Limit:     s.cfg.FilterLimit,
		MaxDelta:  s.cfg.MaxSimilarityDelta,
		Model:     s.cfg.EmbedModel,
	}, s.embedder)
	if err != nil {
		s.log.Error("retrieval failed", "error", err)
		jsonError(w, "retrieval failed", http.StatusBadGateway)
		return
	}

	gen := &answer.Generator{Provider: s.completer, Model: s.cfg.CompletionModel}
	text, err := gen.Generate(r.Context(), req.Question, req.History, results)
	if err != nil {
		// Degrade to an explicit no-answer message; the UI never sees a
		// raw provider failure.
		s.log.Error("answer generation failed", "error", err)
		text = answer.NoContextMessage
		results = nil
	}

	resp := queryResponse{Answer: text, Sources: make([]source, 0, len(results))}
	for _, res := range results {
		resp.Sources = append(resp.Sources, source{
			Type:       string(res.Type),
			Text:       res.Text,
			Title:      res.Title,
			Chapter:    res.Chapter,
			Author:     res.Author,
			Publisher:  res.Publisher,
			Section:    res.Section,
			Subsection: res.Subsection,
			Similarity: res.Similarity,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

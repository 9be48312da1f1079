package api

import (
	"log/slog"
	"net/http"

	"bookrag/internal/config"
	"bookrag/internal/corpus"
	"bookrag/internal/llm"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API for querying a corpus. The corpus is an immutable
// snapshot loaded at startup; concurrent queries against it are safe by
// construction.
type Server struct {
	router chi.Router
	log    *slog.Logger
	cfg    config.Config

	chunks []corpus.Chunk
	index  corpus.Index

	client    *llm.Client
	embedder  llm.EmbeddingProvider
	completer llm.TextCompletionProvider
}

// NewServer creates and configures the HTTP server around a loaded corpus.
func NewServer(chunks []corpus.Chunk, client *llm.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		log:       log,
		cfg:       cfg,
		chunks:    chunks,
		index:     corpus.BuildIndex(chunks),
		client:    client,
		embedder:  client,
		completer: client,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/query", s.handleQuery)
		r.Get("/api/books", s.handleBooks)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

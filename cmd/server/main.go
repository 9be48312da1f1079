package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookrag/internal/api"
	"bookrag/internal/config"
	"bookrag/internal/corpus"
	"bookrag/internal/llm"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	chunks, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		log.Error("failed to load corpus", "path", cfg.CorpusPath, "error", err)
		os.Exit(1)
	}
	log.Info("corpus loaded", "path", cfg.CorpusPath, "chunks", len(chunks))

	client := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)

	srv := api.NewServer(chunks, client, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		client.Close()
	}()

	log.Info("starting bookrag", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// Command ingest builds a corpus snapshot from one or more books.
// EPUB files are split into chapters; markdown, pdf, docx, html and txt
// files are ingested as standalone documents.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bookrag/internal/config"
	"bookrag/internal/corpus"
	"bookrag/internal/llm"
	"bookrag/internal/parser"
	"bookrag/internal/pipeline"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	out := flag.String("out", "", "corpus output path (default from CORPUS_PATH)")
	index := flag.String("index", "", "book index output path (default from INDEX_PATH)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: ingest [-out corpus.json] [-index index.json] book.epub ...")
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.OpenAIAPIKey == "" {
		log.Error("OPENAI_API_KEY is required")
		os.Exit(1)
	}
	if *out == "" {
		*out = cfg.CorpusPath
	}
	if *index == "" {
		*index = cfg.IndexPath
	}

	client := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)
	defer client.Close()

	builder := pipeline.NewBuilder(pipeline.Config{
		Workers:            cfg.Workers,
		MaxConcurrentEmbed: cfg.MaxConcurrentEmbed,
		MinParagraphTokens: cfg.MinParagraphTokens,
		EmbedModel:         cfg.EmbedModel,
		CompletionModel:    cfg.CompletionModel,
		Summarize:          cfg.SummarizeChapters,
		ResolveTimeout:     cfg.ResolveTimeout,
	}, client, client, log)

	ctx := context.Background()

	// One book's failure never aborts the batch.
	var all []corpus.Chunk
	failed := 0
	for _, path := range flag.Args() {
		chunks, err := buildOne(ctx, builder, path)
		if err != nil {
			log.Error("book failed", "path", path, "error", err)
			failed++
			continue
		}
		log.Info("book ingested", "path", path, "chunks", len(chunks))
		all = append(all, chunks...)
	}
	if len(all) == 0 {
		log.Error("no chunks produced", "failed_books", failed)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Error("create output directory", "error", err)
		os.Exit(1)
	}

	corpusPath := corpus.UniquePath(*out)
	if err := corpus.Save(corpusPath, all); err != nil {
		log.Error("save corpus", "error", err)
		os.Exit(1)
	}
	indexPath := corpus.UniquePath(*index)
	if err := corpus.SaveIndex(indexPath, corpus.BuildIndex(all)); err != nil {
		log.Error("save index", "error", err)
		os.Exit(1)
	}

	log.Info("corpus written", "path", corpusPath, "index", indexPath, "chunks", len(all), "failed_books", failed)
}

func buildOne(ctx context.Context, builder *pipeline.Builder, path string) ([]corpus.Chunk, error) {
	if strings.EqualFold(filepath.Ext(path), ".epub") {
		return builder.BuildEPUB(ctx, path)
	}
	if !parser.IsSupportedExtension(path) {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
	return builder.BuildFile(ctx, path)
}

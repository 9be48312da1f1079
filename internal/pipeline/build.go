// Package pipeline builds corpora from books: chapters are extracted
// concurrently, resolved, flattened, optionally summarized, then embedded.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"bookrag/internal/corpus"
	"bookrag/internal/epub"
	"bookrag/internal/extractor"
	"bookrag/internal/flatten"
	"bookrag/internal/llm"
	"bookrag/internal/parser"
	"bookrag/internal/resolver"
	"bookrag/internal/summary"
)

// Config controls corpus building.
type Config struct {
	Workers            int           // chapter worker pool size
	MaxConcurrentEmbed int           // embedding calls in flight
	MinParagraphTokens int           // flattener filter
	EmbedModel         string        // embedding space identifier
	CompletionModel    string        // resolver fallback + summaries
	Summarize          bool          // emit chapter summary chunks
	ResolveTimeout     time.Duration // bound on the resolver fallback call
}

// Builder runs the extraction pipeline for one book at a time.
type Builder struct {
	cfg       Config
	embedder  llm.EmbeddingProvider
	completer llm.TextCompletionProvider
	log       *slog.Logger
}

func NewBuilder(cfg Config, embedder llm.EmbeddingProvider, completer llm.TextCompletionProvider, log *slog.Logger) *Builder {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.MaxConcurrentEmbed <= 0 {
		cfg.MaxConcurrentEmbed = 10
	}
	if cfg.MinParagraphTokens <= 0 {
		cfg.MinParagraphTokens = flatten.DefaultMinTokens
	}
	return &Builder{cfg: cfg, embedder: embedder, completer: completer, log: log}
}

// chapterJob is one spine document to process.
type chapterJob struct {
	index   int
	path    string
	navName string // chapter title from navigation metadata, may be ""
	data    []byte
}

type chapterResult struct {
	index  int
	chunks []corpus.Chunk
	err    error
}

// BuildEPUB extracts, resolves and flattens every chapter of an EPUB and
// returns the book's embedded chunks. Chapters are processed by a bounded
// worker pool; one chapter's failure is logged and skipped, never fatal to
// the book. Results are re-sorted by spine index after collection since
// completion order is scheduling-dependent.
func (b *Builder) BuildEPUB(ctx context.Context, path string) ([]corpus.Chunk, error) {
	book, err := epub.Open(path)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	log := b.log.With("book", book.Title)
	log.Info("building book", "chapters", len(book.Spine), "author", book.Author)

	jobs := make([]chapterJob, 0, len(book.Spine))
	for i, docPath := range book.Spine {
		data, err := book.ReadDocument(docPath)
		if err != nil {
			log.Warn("unreadable chapter document", "path", docPath, "error", err)
			continue
		}
		jobs = append(jobs, chapterJob{
			index:   i,
			path:    docPath,
			navName: book.Nav[docPath],
			data:    data,
		})
	}

	meta := flatten.Meta{
		Title:     book.Title,
		Author:    book.Author,
		Publisher: book.Publisher,
	}

	results := make(chan chapterResult, len(jobs))
	sem := make(chan struct{}, b.cfg.Workers)
	for _, job := range jobs {
		sem <- struct{}{}
		go func(job chapterJob) {
			defer func() { <-sem }()
			chunks, err := b.processChapter(ctx, job, meta)
			results <- chapterResult{index: job.index, chunks: chunks, err: err}
		}(job)
	}

	collected := make([]chapterResult, 0, len(jobs))
	for range jobs {
		r := <-results
		if r.err != nil {
			log.Error("chapter failed", "index", r.index, "error", r.err)
			continue
		}
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].index < collected[j].index
	})

	var chunks []corpus.Chunk
	for _, r := range collected {
		chunks = append(chunks, r.chunks...)
	}
	log.Info("book extracted", "chunks", len(chunks))

	if err := b.embedAll(ctx, chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

// processChapter runs extraction, chapter/title resolution and flattening
// for one chapter document.
func (b *Builder) processChapter(ctx context.Context, job chapterJob, meta flatten.Meta) ([]corpus.Chunk, error) {
	items, err := extractor.ExtractItems(bytes.NewReader(job.data))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", job.path, err)
	}
	sections := extractor.BuildHierarchy(items)

	res := resolver.Identify(sections)
	if !res.Complete() && b.completer != nil {
		raw, err := extractor.LinearText(bytes.NewReader(job.data))
		if err == nil {
			fb := &resolver.Fallback{
				Provider: b.completer,
				Model:    b.cfg.CompletionModel,
				Timeout:  b.cfg.ResolveTimeout,
				Log:      b.log,
			}
			res = fb.Resolve(ctx, raw, res)
		}
	}

	meta.Chapter = chapterLabel(res, job)

	chunks := flatten.Records(sections, meta, b.cfg.MinParagraphTokens)

	if b.cfg.Summarize && b.completer != nil {
		if sum := b.summarizeChapter(ctx, job, meta); sum != nil {
			chunks = append(chunks, *sum)
		}
	}
	return chunks, nil
}

// chapterLabel prefers the resolved chapter, then the navigation title,
// then a positional label.
func chapterLabel(res resolver.Resolution, job chapterJob) string {
	switch {
	case res.Chapter != "" && res.Title != "":
		return res.Chapter + ": " + res.Title
	case res.Chapter != "":
		return res.Chapter
	case res.Title != "":
		return res.Title
	case job.navName != "":
		return job.navName
	}
	return fmt.Sprintf("Chapter %d", job.index+1)
}

func (b *Builder) summarizeChapter(ctx context.Context, job chapterJob, meta flatten.Meta) *corpus.Chunk {
	raw, err := extractor.LinearText(bytes.NewReader(job.data))
	if err != nil {
		return nil
	}
	s := &summary.Summarizer{Provider: b.completer, Model: b.cfg.CompletionModel}
	text, err := s.Summarize(ctx, raw)
	if err != nil {
		b.log.Warn("chapter summary failed", "chapter", meta.Chapter, "error", err)
		return nil
	}
	if text == "" {
		return nil
	}
	return &corpus.Chunk{
		Type:      corpus.TypeSummary,
		Text:      text,
		Title:     meta.Title,
		Chapter:   meta.Chapter,
		Author:    meta.Author,
		Publisher: meta.Publisher,
	}
}

// BuildFile runs the pipeline for a standalone (non-EPUB) document. The
// whole file is treated as a single chapter.
func (b *Builder) BuildFile(ctx context.Context, path string) ([]corpus.Chunk, error) {
	p, err := parser.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	doc, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	sections := extractor.BuildHierarchy(doc.Items)
	res := resolver.Identify(sections)

	meta := flatten.Meta{Title: doc.Title}
	if res.Chapter != "" {
		meta.Chapter = res.Chapter
	} else {
		meta.Chapter = doc.Title
	}

	chunks := flatten.Records(sections, meta, b.cfg.MinParagraphTokens)
	if err := b.embedAll(ctx, chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

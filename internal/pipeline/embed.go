package pipeline

import (
	"context"
	"fmt"

	"bookrag/internal/corpus"
)

// embedAll assigns an embedding vector to every chunk in place, with
// bounded concurrency. Any single failure fails the build; a corpus with
// silently missing vectors would corrupt retrieval.
func (b *Builder) embedAll(ctx context.Context, chunks []corpus.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	type embedResult struct {
		idx int
		vec []float64
		err error
	}
	results := make(chan embedResult, len(chunks))
	sem := make(chan struct{}, b.cfg.MaxConcurrentEmbed)

	for i := range chunks {
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem }()
			vec, err := b.embedder.Embed(ctx, chunks[i].Text, b.cfg.EmbedModel)
			results <- embedResult{idx: i, vec: vec, err: err}
		}(i)
	}

	var firstErr error
	for range chunks {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("embed chunk %d: %w", r.idx, r.err)
			}
			continue
		}
		chunks[r.idx].Embedding = r.vec
	}
	return firstErr
}

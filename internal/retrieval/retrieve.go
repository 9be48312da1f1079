// Package retrieval ranks corpus chunks against a query by embedding
// similarity and narrows corpora with field criteria before search.
package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"

	"bookrag/internal/corpus"
	"bookrag/internal/llm"
)

// Options are the scoring parameters for a retrieval call.
type Options struct {
	// Threshold excludes chunks whose similarity falls below it.
	Threshold float64
	// Limit caps the number of returned chunks.
	Limit int
	// MaxDelta excludes chunks whose similarity is more than this far
	// below the top-ranked chunk, even if above Threshold. Zero disables
	// the delta window.
	MaxDelta float64
	// Model selects the embedding space for the query vector.
	Model string
}

// Result is a returned chunk with its similarity to the query attached.
type Result struct {
	corpus.Chunk
	Similarity float64 `json:"similarity"`
}

// Retrieve embeds the query and returns the corpus chunks ranked by cosine
// similarity, strictly non-increasing, after the threshold, delta-window
// and size cuts. Ties keep original corpus order. An empty result is not an
// error; it means no relevant context exists. An embedding failure
// propagates: there is no silent degradation to a zero vector.
func Retrieve(ctx context.Context, chunks []corpus.Chunk, query string, opts Options, embedder llm.EmbeddingProvider) ([]Result, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	queryVec, err := embedder.Embed(ctx, query, opts.Model)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results := make([]Result, 0, len(chunks))
	for _, c := range chunks {
		sim := Cosine(queryVec, c.Embedding)
		if sim < opts.Threshold {
			continue
		}
		results = append(results, Result{Chunk: c, Similarity: sim})
	}
	if len(results) == 0 {
		return nil, nil
	}

	// Stable: equal similarities keep corpus order, so results are
	// deterministic.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if opts.MaxDelta > 0 {
		top := results[0].Similarity
		cut := len(results)
		for i, r := range results {
			if top-r.Similarity > opts.MaxDelta {
				cut = i
				break
			}
		}
		results = results[:cut]
	}

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// are scored over the shorter prefix; a zero vector scores 0.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

package retrieval

import (
	"context"
	"errors"
	"math"
	"testing"

	"bookrag/internal/corpus"
)

type stubEmbedder struct {
	vec []float64
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string, _ string) ([]float64, error) {
	return s.vec, s.err
}

// unit returns the 2D unit vector at the given similarity to (1, 0).
func unit(sim float64) []float64 {
	return []float64{sim, math.Sqrt(1 - sim*sim)}
}

func chunkAt(text string, sim float64) corpus.Chunk {
	return corpus.Chunk{Type: corpus.TypeParagraph, Text: text, Embedding: unit(sim)}
}

func query() *stubEmbedder { return &stubEmbedder{vec: []float64{1, 0}} }

func texts(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Text
	}
	return out
}

func TestRetrieve_OrderedAboveThreshold(t *testing.T) {
	chunks := []corpus.Chunk{
		chunkAt("low", 0.2),
		chunkAt("high", 0.9),
		chunkAt("mid", 0.6),
	}

	got, err := Retrieve(context.Background(), chunks, "q", Options{Threshold: 0.4}, query())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"high", "mid"}
	if g := texts(got); len(g) != len(want) || g[0] != want[0] || g[1] != want[1] {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Similarity > got[i-1].Similarity {
			t.Errorf("similarity increases at index %d", i)
		}
	}
	if got[0].Similarity < 0.4 {
		t.Errorf("result below threshold: %f", got[0].Similarity)
	}
}

func TestRetrieve_TiesKeepCorpusOrder(t *testing.T) {
	chunks := []corpus.Chunk{
		chunkAt("first", 0.7),
		chunkAt("second", 0.7),
		chunkAt("third", 0.7),
	}
	got, err := Retrieve(context.Background(), chunks, "q", Options{}, query())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := texts(got)
	want := []string{"first", "second", "third"}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("ties reordered: got %v", g)
		}
	}
}

func TestRetrieve_DeltaWindow(t *testing.T) {
	chunks := []corpus.Chunk{
		chunkAt("top", 0.9),
		chunkAt("close", 0.85),
		chunkAt("far", 0.5),
	}
	got, err := Retrieve(context.Background(), chunks, "q", Options{Threshold: 0.4, MaxDelta: 0.1}, query())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g := texts(got); len(g) != 2 || g[1] != "close" {
		t.Fatalf("delta window wrong: %v", g)
	}
}

func TestRetrieve_ZeroDeltaDisablesWindow(t *testing.T) {
	chunks := []corpus.Chunk{
		chunkAt("top", 0.9),
		chunkAt("far", 0.5),
	}
	got, err := Retrieve(context.Background(), chunks, "q", Options{MaxDelta: 0}, query())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("zero delta should keep everything, got %d", len(got))
	}
}

func TestRetrieve_Limit(t *testing.T) {
	chunks := []corpus.Chunk{
		chunkAt("a", 0.9),
		chunkAt("b", 0.8),
		chunkAt("c", 0.7),
	}
	got, err := Retrieve(context.Background(), chunks, "q", Options{Limit: 2}, query())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Text != "a" {
		t.Errorf("limit ignored: %v", texts(got))
	}
}

func TestRetrieve_EmptyCorpusSkipsEmbedding(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("should not be called")}
	got, err := Retrieve(context.Background(), nil, "q", Options{}, embedder)
	if err != nil {
		t.Fatalf("empty corpus should not error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil results, got %v", got)
	}
}

func TestRetrieve_EmbedderErrorPropagates(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("rate limited")}
	chunks := []corpus.Chunk{chunkAt("a", 0.9)}
	if _, err := Retrieve(context.Background(), chunks, "q", Options{}, embedder); err == nil {
		t.Fatal("expected error from failing embedder")
	}
}

func TestRetrieve_NothingAboveThreshold(t *testing.T) {
	chunks := []corpus.Chunk{chunkAt("a", 0.1)}
	got, err := Retrieve(context.Background(), chunks, "q", Options{Threshold: 0.4}, query())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results, got %v", texts(got))
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"empty", nil, []float64{1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine = %f, want %f", got, tt.want)
			}
		})
	}
}

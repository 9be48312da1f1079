package retrieval

import (
	"testing"

	"bookrag/internal/corpus"
)

func testCorpus() []corpus.Chunk {
	return []corpus.Chunk{
		{Type: corpus.TypeParagraph, Title: "Moby-Dick", Chapter: "Chapter 1", Author: "Herman Melville", Text: "md1"},
		{Type: corpus.TypeParagraph, Title: "Moby-Dick", Chapter: "Chapter 2", Author: "Herman Melville", Text: "md2"},
		{Type: corpus.TypeSummary, Title: "Moby-Dick", Chapter: "Chapter 2", Author: "Herman Melville", Text: "md2s"},
		{Type: corpus.TypeParagraph, Title: "Emma", Chapter: "Chapter 1", Author: "Jane Austen", Text: "em1"},
	}
}

func TestFilter_SingleSet(t *testing.T) {
	got := Filter(testCorpus(), []Criteria{{"book": "Moby-Dick", "chapter": "Chapter 2"}}, DefaultFieldMapping)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	for _, c := range got {
		if c.Title != "Moby-Dick" || c.Chapter != "Chapter 2" {
			t.Errorf("chunk fails conjunction: %#v", c)
		}
	}
}

func TestFilter_DisjunctionOfConjunctions(t *testing.T) {
	criteria := []Criteria{
		{"book": "Emma"},
		{"book": "Moby-Dick", "chapter": "Chapter 1"},
	}
	got := Filter(testCorpus(), criteria, DefaultFieldMapping)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(got), got)
	}
	// Corpus order preserved: Moby-Dick chapter 1 precedes Emma.
	if got[0].Text != "md1" || got[1].Text != "em1" {
		t.Errorf("wrong chunks or order: %q, %q", got[0].Text, got[1].Text)
	}
}

func TestFilter_EmptyCriteriaPassesThrough(t *testing.T) {
	chunks := testCorpus()
	got := Filter(chunks, nil, DefaultFieldMapping)
	if len(got) != len(chunks) {
		t.Errorf("expected passthrough, got %d of %d", len(got), len(chunks))
	}
}

func TestFilter_EmptyValueIgnored(t *testing.T) {
	got := Filter(testCorpus(), []Criteria{{"book": "Emma", "chapter": ""}}, DefaultFieldMapping)
	if len(got) != 1 || got[0].Text != "em1" {
		t.Errorf("empty-valued constraint should be ignored: %v", got)
	}
}

func TestFilter_UnmappedFieldIgnored(t *testing.T) {
	got := Filter(testCorpus(), []Criteria{{"publisher": "Harper", "book": "Emma"}}, DefaultFieldMapping)
	if len(got) != 1 || got[0].Text != "em1" {
		t.Errorf("unmapped field should be ignored: %v", got)
	}
}

func TestFilter_TypeField(t *testing.T) {
	got := Filter(testCorpus(), []Criteria{{"type": "summary"}}, DefaultFieldMapping)
	if len(got) != 1 || got[0].Text != "md2s" {
		t.Errorf("type filter wrong: %v", got)
	}
}

func TestFilter_NoMatches(t *testing.T) {
	got := Filter(testCorpus(), []Criteria{{"book": "Dracula"}}, DefaultFieldMapping)
	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

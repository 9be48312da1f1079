package flatten

import (
	"reflect"
	"strings"
	"testing"

	"bookrag/internal/content"
	"bookrag/internal/corpus"
)

func longText(word string) string {
	return strings.TrimSpace(strings.Repeat(word+" ", 20))
}

func TestRecords_SectionAndSubsectionLabels(t *testing.T) {
	sub := &content.Node{Kind: content.KindSubsection, Heading: "Part A", Children: []content.Element{
		content.Paragraph{Text: longText("inner")},
	}}
	sections := []*content.Node{
		{Kind: content.KindSection, Heading: "Chapter 1", Children: []content.Element{
			content.Paragraph{Text: longText("top")},
			sub,
			content.Paragraph{Text: longText("after")},
		}},
	}
	meta := Meta{Chapter: "Chapter 1", Title: "Moby-Dick", Author: "Herman Melville", Publisher: "Harper"}

	got := Records(sections, meta, 5)
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(got))
	}

	if got[0].Section != "Chapter 1" || got[0].Subsection != "" {
		t.Errorf("top paragraph labels: %q / %q", got[0].Section, got[0].Subsection)
	}
	if got[1].Section != "Chapter 1" || got[1].Subsection != "Part A" {
		t.Errorf("subsection paragraph labels: %q / %q", got[1].Section, got[1].Subsection)
	}
	// The paragraph after the subsection node belongs to the section again.
	if got[2].Subsection != "" {
		t.Errorf("paragraph after subsection kept subsection label %q", got[2].Subsection)
	}

	for i, c := range got {
		if c.Type != corpus.TypeParagraph {
			t.Errorf("chunk %d: type %q", i, c.Type)
		}
		if c.Title != meta.Title || c.Chapter != meta.Chapter || c.Author != meta.Author || c.Publisher != meta.Publisher {
			t.Errorf("chunk %d: metadata not carried: %#v", i, c)
		}
	}
}

func TestRecords_ShortParagraphsDropped(t *testing.T) {
	sections := []*content.Node{
		{Kind: content.KindSection, Children: []content.Element{
			content.Paragraph{Text: "Too short."},
			content.Paragraph{Text: longText("keep")},
			content.Heading{Level: 4, Text: "Not a paragraph"},
			content.Image{Src: "x.png"},
		}},
	}
	got := Records(sections, Meta{}, 15)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if !strings.HasPrefix(got[0].Text, "keep") {
		t.Errorf("wrong chunk survived: %q", got[0].Text)
	}
}

func TestRecords_Deterministic(t *testing.T) {
	sections := []*content.Node{
		{Kind: content.KindSection, Heading: "A", Children: []content.Element{
			content.Paragraph{Text: longText("one")},
			content.Paragraph{Text: longText("two")},
		}},
		{Kind: content.KindSection, Heading: "B", Children: []content.Element{
			content.Paragraph{Text: longText("three")},
		}},
	}
	meta := Meta{Chapter: "Chapter 2"}

	first := Records(sections, meta, 5)
	second := Records(sections, meta, 5)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated runs over the same hierarchy disagree")
	}
	if len(first) != 3 || first[2].Section != "B" {
		t.Errorf("unexpected output: %#v", first)
	}
}

func TestRecords_DefaultMinTokens(t *testing.T) {
	sections := []*content.Node{
		{Kind: content.KindSection, Children: []content.Element{
			content.Paragraph{Text: "Five words is not enough."},
		}},
	}
	if got := Records(sections, Meta{}, 0); len(got) != 0 {
		t.Errorf("expected default threshold to drop short paragraph, got %d chunks", len(got))
	}
}

func TestCountTokens(t *testing.T) {
	if got := CountTokens(""); got != 0 {
		t.Errorf("empty text: %d", got)
	}
	short := CountTokens("one two three")
	long := CountTokens(longText("word"))
	if short >= long {
		t.Errorf("token estimate not monotonic: %d >= %d", short, long)
	}
}

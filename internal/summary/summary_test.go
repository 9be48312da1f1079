package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bookrag/internal/llm"
)

type passRecorder struct {
	prompts []string
	err     error
}

func (p *passRecorder) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	p.prompts = append(p.prompts, req.Messages[0].Content)
	if p.err != nil {
		return "", p.err
	}
	return "### Outline pass " + string(rune('0'+len(p.prompts))), nil
}

func chapterText() string {
	return strings.Repeat("The whale surfaced near the ship and the crew watched in silence. ", 5)
}

func TestSummarize_TwoPassRevision(t *testing.T) {
	rec := &passRecorder{}
	s := &Summarizer{Provider: rec, Model: "m"}

	got, err := s.Summarize(context.Background(), chapterText())
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "### Outline pass 2" {
		t.Errorf("final summary: %q", got)
	}
	if len(rec.prompts) != 2 {
		t.Fatalf("expected 2 passes, got %d", len(rec.prompts))
	}
	if strings.Contains(rec.prompts[0], "Outline:\n") {
		t.Error("first pass should have no prior outline")
	}
	if !strings.Contains(rec.prompts[1], "### Outline pass 1") {
		t.Error("second pass missing first pass's outline")
	}
	for i, p := range rec.prompts {
		if !strings.Contains(p, "Chapter Text:") {
			t.Errorf("pass %d missing chapter text", i+1)
		}
	}
}

func TestSummarize_ShortChapterSkipped(t *testing.T) {
	rec := &passRecorder{}
	s := &Summarizer{Provider: rec}

	got, err := s.Summarize(context.Background(), "Copyright page.")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
	if len(rec.prompts) != 0 {
		t.Errorf("provider called for short chapter")
	}
}

func TestSummarize_ProviderErrorPropagates(t *testing.T) {
	rec := &passRecorder{err: errors.New("down")}
	s := &Summarizer{Provider: rec}
	if _, err := s.Summarize(context.Background(), chapterText()); err == nil {
		t.Fatal("expected error")
	}
}

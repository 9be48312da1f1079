package resolver

import (
	"context"
	"errors"
	"testing"

	"bookrag/internal/llm"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
}

func (s *stubCompleter) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	s.calls++
	return s.response, s.err
}

func TestFallbackResolve_FillsMissingFields(t *testing.T) {
	stub := &stubCompleter{response: `{"chapter": "Chapter 8", "title": "The Storm"}`}
	f := &Fallback{Provider: stub}

	got := f.Resolve(context.Background(), "some chapter text", Resolution{Chapter: "Chapter 8"})
	if got.Chapter != "Chapter 8" || got.Title != "The Storm" {
		t.Errorf("unexpected resolution: %#v", got)
	}
}

func TestFallbackResolve_DoesNotOverwriteStructuralResult(t *testing.T) {
	stub := &stubCompleter{response: `{"chapter": "Chapter 99", "title": "Wrong"}`}
	f := &Fallback{Provider: stub}

	base := Resolution{Chapter: "Chapter 3"}
	got := f.Resolve(context.Background(), "text", base)
	if got.Chapter != "Chapter 3" {
		t.Errorf("structural chapter overwritten: %#v", got)
	}
	if got.Title != "Wrong" {
		t.Errorf("empty title should be filled: %#v", got)
	}
}

func TestFallbackResolve_SkipsWhenComplete(t *testing.T) {
	stub := &stubCompleter{response: `{"chapter": "X", "title": "Y"}`}
	f := &Fallback{Provider: stub}

	base := Resolution{Chapter: "Chapter 1", Title: "Loomings"}
	if got := f.Resolve(context.Background(), "text", base); got != base {
		t.Errorf("complete resolution changed: %#v", got)
	}
	if stub.calls != 0 {
		t.Errorf("provider called %d times for complete resolution", stub.calls)
	}
}

func TestFallbackResolve_ProviderErrorKeepsBase(t *testing.T) {
	stub := &stubCompleter{err: errors.New("boom")}
	f := &Fallback{Provider: stub}

	base := Resolution{Chapter: "Chapter 2"}
	if got := f.Resolve(context.Background(), "text", base); got != base {
		t.Errorf("base changed on provider error: %#v", got)
	}
}

func TestFallbackResolve_BadJSONKeepsBase(t *testing.T) {
	stub := &stubCompleter{response: "I could not determine the chapter."}
	f := &Fallback{Provider: stub}

	base := Resolution{Title: "Loomings"}
	if got := f.Resolve(context.Background(), "text", base); got != base {
		t.Errorf("base changed on unparsable response: %#v", got)
	}
}

func TestParseFallbackResponse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Resolution
		wantErr bool
	}{
		{
			name: "plain json",
			in:   `{"chapter": "Chapter 4", "title": "Ahab"}`,
			want: Resolution{Chapter: "Chapter 4", Title: "Ahab"},
		},
		{
			name: "fenced code block",
			in:   "```json\n{\"chapter\": \"Chapter 4\", \"title\": \"Ahab\"}\n```",
			want: Resolution{Chapter: "Chapter 4", Title: "Ahab"},
		},
		{
			name: "json null",
			in:   `{"chapter": null, "title": "Ahab"}`,
			want: Resolution{Title: "Ahab"},
		},
		{
			name: "python none",
			in:   `{"chapter": None, "title": "Ahab"}`,
			want: Resolution{Title: "Ahab"},
		},
		{
			name: "null as string",
			in:   `{"chapter": "null", "title": "Ahab"}`,
			want: Resolution{Title: "Ahab"},
		},
		{
			name:    "prose",
			in:      "The chapter is probably 4.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFallbackResponse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFirstLines(t *testing.T) {
	in := "one\n\n  two  \nthree\nfour"
	if got := firstLines(in, 3); got != "one\ntwo\nthree" {
		t.Errorf("firstLines = %q", got)
	}
	if got := firstLines("a\nb", 10); got != "a\nb" {
		t.Errorf("firstLines short input = %q", got)
	}
}

package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"bookrag/internal/llm"
)

const fallbackPrompt = `The following lines are the opening of a book chapter.
Identify the chapter label (for example "Chapter 7") and the chapter title.
Respond with ONLY a JSON object of the form {"chapter": ..., "title": ...},
using null for any value you cannot determine.

%s`

// maxFallbackLines bounds how much raw chapter text is sent to the model.
const maxFallbackLines = 10

// Fallback asks a text-completion provider for the chapter and title when
// the structural pass came back incomplete.
type Fallback struct {
	Provider llm.TextCompletionProvider
	Model    string
	Timeout  time.Duration
	Log      *slog.Logger
}

// Resolve merges an AI identification into base: a non-null AI value fills
// the corresponding empty field, everything else is kept as-is. Any provider
// or parse failure is logged and base is returned unchanged.
func (f *Fallback) Resolve(ctx context.Context, rawText string, base Resolution) Resolution {
	if base.Complete() || f.Provider == nil {
		return base
	}

	prompt := fmt.Sprintf(fallbackPrompt, firstLines(rawText, maxFallbackLines))

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := f.Provider.Complete(ctx, llm.CompletionRequest{
		Model:     f.Model,
		Messages:  []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens: 256,
	})
	if err != nil {
		f.logWarn("chapter identification fallback failed", "error", err)
		return base
	}

	ai, err := parseFallbackResponse(text)
	if err != nil {
		f.logWarn("bad fallback response", "error", err)
		return base
	}

	if base.Chapter == "" {
		base.Chapter = ai.Chapter
	}
	if base.Title == "" {
		base.Title = ai.Title
	}
	return base
}

var (
	codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	// Models sometimes emit Python-style None instead of JSON null.
	noneTokenRe = regexp.MustCompile(`\bNone\b`)
)

func parseFallbackResponse(text string) (Resolution, error) {
	text = strings.TrimSpace(text)
	if m := codeBlockRe.FindStringSubmatch(text); len(m) > 1 {
		text = m[1]
	}
	text = noneTokenRe.ReplaceAllString(text, "null")

	var out struct {
		Chapter *string `json:"chapter"`
		Title   *string `json:"title"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return Resolution{}, fmt.Errorf("parse fallback json: %w", err)
	}

	var res Resolution
	if out.Chapter != nil && !strings.EqualFold(*out.Chapter, "null") {
		res.Chapter = strings.TrimSpace(*out.Chapter)
	}
	if out.Title != nil && !strings.EqualFold(*out.Title, "null") {
		res.Title = strings.TrimSpace(*out.Title)
	}
	return res, nil
}

// firstLines returns up to n non-blank lines of text.
func firstLines(text string, n int) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}
	return strings.Join(lines, "\n")
}

func (f *Fallback) logWarn(msg string, args ...any) {
	if f.Log != nil {
		f.Log.Warn(msg, args...)
	}
}

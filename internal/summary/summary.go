// Package summary produces chapter summaries used as corpus chunks
// alongside the extracted paragraphs.
package summary

import (
	"context"
	"fmt"
	"strings"

	"bookrag/internal/llm"
)

// MinChapterLength is the minimum chapter size worth summarizing;
// shorter documents (covers, copyright pages) are skipped.
const MinChapterLength = 100

const systemInstructions = `Adhere to the following formatting rules when creating the outline:
- Start with a top-level header (###) for the text title.
- Use up to five header levels for organization.
- Use hyphens (-) exclusively for bullet points.
- Indent bullet points according to the hierarchy of the Markdown outline.
- Never use an introduction sentence before the outline.
- Only use bullets and headers for formatting.`

// revision prompts are applied in order, each pass refining the previous
// pass's output with the chapter text still in view.
var revisionPrompts = []string{
	`Craft a long outline reflecting the main points of a chapter using Markdown formatting. Adhere to these rules:
- Under each header, thoroughly summarize the chapter's topics, key terms, and themes in detail.
- Under the same headers, list pertinent questions raised by the chapter.`,
	`Using the text provided in the chapter, increase the content of the outline while maintaining original Markdown formatting. In your responses, adhere to these rules:
- Expand each bullet point with detailed explanations and insights based on the document's content.
- Answer the questions posed in the outline.
- When appropriate, define terms or concepts.
- Use the chapter for evidence and context.`,
}

// Summarizer generates chapter summaries through an injected completion
// provider.
type Summarizer struct {
	Provider llm.TextCompletionProvider
	Model    string
}

// Summarize runs the revision-prompt sequence over a chapter's text and
// returns the final summary. Transient provider failures are retried;
// chapters below MinChapterLength return "" with no error.
func (s *Summarizer) Summarize(ctx context.Context, chapterText string) (string, error) {
	if len(chapterText) < MinChapterLength {
		return "", nil
	}

	var current string
	for i, prompt := range revisionPrompts {
		structured := structuredPrompt(prompt, current, chapterText)
		text, err := llm.CompleteWithRetry(ctx, s.Provider, llm.CompletionRequest{
			Model:  s.Model,
			System: systemInstructions,
			Messages: []llm.Message{
				{Role: "user", Content: structured},
			},
		})
		if err != nil {
			return "", fmt.Errorf("summary pass %d: %w", i+1, err)
		}
		current = text
	}
	return strings.TrimSpace(current), nil
}

func structuredPrompt(prompt, context, text string) string {
	var sb strings.Builder
	sb.WriteString(prompt)
	if context != "" {
		sb.WriteString("\n\nOutline:\n")
		sb.WriteString(context)
	}
	sb.WriteString("\n\nChapter Text:\n```\n")
	sb.WriteString(text)
	sb.WriteString("\n```")
	return sb.String()
}

// Package answer generates citation-annotated responses from retrieved
// chunks and conversation history.
package answer

import (
	"context"
	"fmt"
	"strings"

	"bookrag/internal/llm"
	"bookrag/internal/retrieval"
)

const systemPrompt = `Use numbered references (e.g. [1]) to cite the sources that are given to you in your answers.
List the references used at the bottom of your answer.
Use MLA Citation Style that references the chapter.
Do not refer to the source material in your text, only in your number citations.
Give a detailed answer.`

// NoContextMessage is returned when retrieval produced nothing relevant.
// The caller renders it instead of letting the model fabricate an answer.
const NoContextMessage = "I could not find relevant information for that question in the available books."

// Generator turns a question plus retrieved sources into a cited answer.
type Generator struct {
	Provider llm.TextCompletionProvider
	Model    string
}

// Generate asks the completion provider to answer the question from the
// numbered sources, threading the conversation history through. An empty
// source set short-circuits to NoContextMessage.
func (g *Generator) Generate(ctx context.Context, question string, history []llm.Message, sources []retrieval.Result) (string, error) {
	if len(sources) == 0 {
		return NoContextMessage, nil
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{
		Role:    "user",
		Content: questionPrompt(question, sources),
	})

	text, err := llm.CompleteWithRetry(ctx, g.Provider, llm.CompletionRequest{
		Model:    g.Model,
		System:   systemPrompt,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func questionPrompt(question string, sources []retrieval.Result) string {
	var sb strings.Builder
	sb.WriteString("Sources:\n")
	for i, src := range sources {
		fmt.Fprintf(&sb, "\n[%d]\nBook: *%s*\nChapter: %s\nAuthor: %s\nPublisher: %s\n\nText: %s\n",
			i+1, src.Title, src.Chapter, src.Author, src.Publisher, src.Text)
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	return sb.String()
}

// Package llm provides the embedding and text-completion capabilities the
// pipeline depends on, behind interfaces so core logic can be tested with
// deterministic stubs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes a single text-completion call.
type CompletionRequest struct {
	Model     string
	System    string
	Messages  []Message
	MaxTokens int
}

// EmbeddingProvider converts text into a fixed-length vector in the space
// selected by model.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text, model string) ([]float64, error)
}

// TextCompletionProvider produces a completion for a chat-style request.
type TextCompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// RetryableError indicates a transient provider failure that can be retried.
// RetryAfter, when set, is the server-requested wait from a Retry-After
// header.
type RetryableError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3

// CompleteWithRetry runs a completion, retrying transient failures with
// backoff. Non-retryable errors surface immediately.
func CompleteWithRetry(ctx context.Context, p TextCompletionProvider, req CompletionRequest) (string, error) {
	var lastErr error
	for attempt := range MaxRetries {
		text, err := p.Complete(ctx, req)
		if err == nil {
			return text, nil
		}
		if !IsRetryable(err) {
			return "", err
		}
		lastErr = err
		select {
		case <-time.After(retryDelay(err, attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

// retryDelay honors a server-requested Retry-After when present, otherwise
// falls back to exponential backoff.
func retryDelay(err error, attempt int) time.Duration {
	var retryErr *RetryableError
	if errors.As(err, &retryErr) && retryErr.RetryAfter > 0 {
		return retryErr.RetryAfter
	}
	return Backoff(attempt)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// LLM provider
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	EmbedModel      string
	CompletionModel string

	// Corpus files
	CorpusPath string
	IndexPath  string

	// Retrieval
	SimilarityThreshold float64
	FilterLimit         int
	MaxSimilarityDelta  float64

	// Extraction
	MinParagraphTokens int
	Workers            int
	MaxConcurrentEmbed int
	SummarizeChapters  bool
	ResolveTimeout     time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("BOOKRAG_API_KEY"),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		EmbedModel:      envOr("EMBED_MODEL", "text-embedding-3-large"),
		CompletionModel: envOr("COMPLETION_MODEL", "gpt-4o-mini"),

		CorpusPath: envOr("CORPUS_PATH", "extracted_documents/all_books_paragraphs.json"),
		IndexPath:  envOr("INDEX_PATH", "extracted_documents/book_index.json"),

		SimilarityThreshold: envFloat("SIMILARITY_THRESHOLD", 0.4),
		FilterLimit:         envInt("FILTER_LIMIT", 15),
		MaxSimilarityDelta:  envFloat("MAX_SIMILARITY_DELTA", 0.075),

		MinParagraphTokens: envInt("MIN_PARAGRAPH_TOKENS", 15),
		Workers:            envInt("WORKER_COUNT", 4),
		MaxConcurrentEmbed: envInt("MAX_CONCURRENT_EMBED", 10),
		SummarizeChapters:  envBool("SUMMARIZE_CHAPTERS", false),
		ResolveTimeout:     envDuration("RESOLVE_TIMEOUT", 30*time.Second),
	}

	if cfg.FilterLimit <= 0 {
		cfg.FilterLimit = 15
	}
	if cfg.MinParagraphTokens <= 0 {
		cfg.MinParagraphTokens = 15
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.MaxConcurrentEmbed <= 0 {
		cfg.MaxConcurrentEmbed = 10
	}
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = 30 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("BOOKRAG_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

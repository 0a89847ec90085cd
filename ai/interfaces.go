package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails; callers treat
	// that as "semantic signal unavailable", not as fatal.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces free text from a prompt. It is the single capability
// the re-ranker and the answer service consume; provider fallback chains,
// if any, live behind this interface.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// GenerateText sends a prompt with a system prompt and returns the raw
	// model text. Options control temperature and output length.
	GenerateText(ctx context.Context, prompt, systemPrompt string, opts ...GenerateOption) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service, or nil when embeddings
	// are not configured. A nil embedder disables the semantic scorer.
	Embedder() Embedder

	// Generator returns the text generation service, or nil when no
	// generation backend is configured.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	Close() error
}

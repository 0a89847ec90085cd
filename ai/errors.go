package ai

import "errors"

var (
	// ErrNoGenerator indicates that text generation was requested but no
	// generation backend is configured.
	ErrNoGenerator = errors.New("no generation backend configured")

	// ErrNoEmbedder indicates that an embedding was requested but no
	// embedding backend is configured.
	ErrNoEmbedder = errors.New("no embedding backend configured")

	// ErrRateLimited indicates that the caller exhausted the request
	// budget of a rate limiter window.
	ErrRateLimited = errors.New("request rate limit exceeded")

	// ErrEmptyResponse indicates that the model returned no usable text.
	ErrEmptyResponse = errors.New("empty model response")
)

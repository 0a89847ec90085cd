package ai

// GenerateOptions holds per-call parameters for text generation.
type GenerateOptions struct {
	// Temperature controls sampling randomness. Zero means deterministic.
	Temperature float64

	// MaxOutputTokens bounds the response length. Zero means provider default.
	MaxOutputTokens int
}

// GenerateOption configures a single GenerateText call.
type GenerateOption func(*GenerateOptions)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = t
	}
}

// WithMaxOutputTokens bounds the response length.
func WithMaxOutputTokens(n int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxOutputTokens = n
	}
}

// ApplyGenerateOptions folds options over the defaults used by callers
// that pass none: temperature 0.4, 2048 output tokens.
func ApplyGenerateOptions(opts []GenerateOption) GenerateOptions {
	options := GenerateOptions{
		Temperature:     0.4,
		MaxOutputTokens: 2048,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

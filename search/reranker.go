package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sushilduseja/divine-vision/ai"
	"github.com/sushilduseja/divine-vision/core"
)

const (
	// DefaultRerankDepth bounds how many fused candidates are sent to
	// the model; it caps prompt size, not result count.
	DefaultRerankDepth = 8

	// DefaultRerankTimeout bounds the model call. A timeout counts as a
	// re-rank failure and falls back to the fused order.
	DefaultRerankTimeout = 15 * time.Second

	// rerankSnippetLength truncates each candidate's translation in the
	// prompt, in runes.
	rerankSnippetLength = 100
)

const rerankSystemPrompt = `You are a relevance judge for scripture verses. ` +
	`Given a question and a numbered list of verses, reorder the verses from most ` +
	`to least relevant to the question. Reply with ONLY a JSON array of the verse ` +
	`numbers in your preferred order, for example: [3, 1, 2]. No other text.`

// rerankArrayPattern extracts the first integer array from the model's
// raw text. Nothing else in the response is trusted.
var rerankArrayPattern = regexp.MustCompile(`\[[\d,\s]+\]`)

// Reranker reorders fused candidates with an LLM relevance judgment.
// It is a pure reordering step: it never adds or removes verses, and
// any failure (call error, timeout, unparsable output) yields the
// input order unchanged.
type Reranker struct {
	generator ai.Generator
	depth     int
	timeout   time.Duration
	logger    *slog.Logger
}

// RerankerOption configures a Reranker.
type RerankerOption func(*Reranker)

// WithRerankDepth sets how many candidates are sent to the model.
func WithRerankDepth(depth int) RerankerOption {
	return func(r *Reranker) {
		if depth > 0 {
			r.depth = depth
		}
	}
}

// WithRerankTimeout bounds the model call.
func WithRerankTimeout(timeout time.Duration) RerankerOption {
	return func(r *Reranker) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithRerankerLogger sets a custom logger. Default is slog.Default().
func WithRerankerLogger(logger *slog.Logger) RerankerOption {
	return func(r *Reranker) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReranker creates a re-ranker backed by the given generator.
func NewReranker(generator ai.Generator, opts ...RerankerOption) (*Reranker, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	r := &Reranker{
		generator: generator,
		depth:     DefaultRerankDepth,
		timeout:   DefaultRerankTimeout,
		logger:    slog.Default().With("component", "reranker"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Rerank reorders the head of results by model judgment. The returned
// slice always holds exactly the input verses; the error reports why a
// fallback happened and is for observability only, never fatal.
func (r *Reranker) Rerank(ctx context.Context, query string, results []*core.SearchResult) ([]*core.SearchResult, error) {
	if len(results) < 2 {
		return results, nil
	}

	head := results
	if len(head) > r.depth {
		head = head[:r.depth]
	}
	tail := results[len(head):]

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prompt := buildRerankPrompt(query, head)
	response, err := r.generator.GenerateText(ctx, prompt, rerankSystemPrompt,
		ai.WithTemperature(0),
		ai.WithMaxOutputTokens(128),
	)
	if err != nil {
		r.logger.Warn("rerank call failed, keeping fused order", "err", err)
		return results, fmt.Errorf("rerank: %w", err)
	}

	indices, err := parseRerankResponse(response)
	if err != nil {
		r.logger.Warn("rerank response unparsable, keeping fused order", "err", err)
		return results, fmt.Errorf("rerank: %w", err)
	}

	reordered := applyRerankOrder(head, indices)
	return append(reordered, tail...), nil
}

// buildRerankPrompt renders the query and a numbered candidate list,
// one verse per line as "n. text_id: truncated translation".
func buildRerankPrompt(query string, head []*core.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nVerses:\n", query)
	for i, res := range head {
		snippet := []rune(res.Verse.Translations.English.Text)
		if len(snippet) > rerankSnippetLength {
			snippet = snippet[:rerankSnippetLength]
		}
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, res.Verse.TextID, string(snippet))
	}
	return b.String()
}

// parseRerankResponse extracts the first JSON integer array from the
// model's raw text. Indices are 1-based into the prompt's candidate list.
func parseRerankResponse(response string) ([]int, error) {
	raw := rerankArrayPattern.FindString(response)
	if raw == "" {
		return nil, fmt.Errorf("no integer array in response")
	}

	var indices []int
	if err := json.Unmarshal([]byte(raw), &indices); err != nil {
		return nil, fmt.Errorf("parse array %q: %w", raw, err)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("empty array in response")
	}
	return indices, nil
}

// applyRerankOrder permutes head by the model's 1-based indices.
// Out-of-range and duplicate indices are dropped; verses the model did
// not mention are appended in their original order so none is lost.
func applyRerankOrder(head []*core.SearchResult, indices []int) []*core.SearchResult {
	reordered := make([]*core.SearchResult, 0, len(head))
	used := make([]bool, len(head))

	for _, idx := range indices {
		pos := idx - 1
		if pos < 0 || pos >= len(head) || used[pos] {
			continue
		}
		used[pos] = true
		reordered = append(reordered, head[pos])
	}
	for i, res := range head {
		if !used[i] {
			reordered = append(reordered, res)
		}
	}
	return reordered
}

package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sushilduseja/divine-vision/ai"
	"github.com/sushilduseja/divine-vision/core"
	"github.com/sushilduseja/divine-vision/search"
)

const (
	// retrievalLimit is how many candidates the retrieval pass requests.
	retrievalLimit = 8

	// contextVerses is how many of those end up in the prompt context.
	contextVerses = 5
)

// noVersesResponse is returned when retrieval finds nothing to ground on.
const noVersesResponse = "I couldn't find relevant verses for your question. " +
	"Please try rephrasing or asking about concepts from the Bhāgavatam, " +
	"Viṣṇu Sahasranāma, or Lalitā Sahasranāma."

var (
	// ErrSearcherRequired is returned when an answerer is built without a searcher.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrGeneratorRequired is returned when an answerer is built without a generator.
	ErrGeneratorRequired = errors.New("generator required")
)

// Answer is a grounded response plus the verses it rests on.
type Answer struct {
	Response      string               `json:"response"`
	Sources       []*core.SearchResult `json:"sources"`
	VersesUsed    int                  `json:"verses_used"`
	Mode          Mode                 `json:"mode"`
	HasDisclaimer bool                 `json:"has_disclaimer"`
	FallbackUsed  bool                 `json:"fallback_used"`
}

// Answerer answers questions by retrieving verses and asking a language
// model to respond strictly from them.
type Answerer struct {
	searcher  *search.Searcher
	generator ai.Generator
	logger    *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnswerer creates an answerer over the given searcher and generator.
func NewAnswerer(searcher *search.Searcher, generator ai.Generator, opts ...Option) (*Answerer, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	a := &Answerer{
		searcher:  searcher,
		generator: generator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Ask retrieves verses for the question and composes a grounded answer.
// A failing generator degrades to a verses-only answer with FallbackUsed
// set; retrieval errors (malformed input, cancellation) propagate.
func (a *Answerer) Ask(ctx context.Context, question string, mode Mode) (*Answer, error) {
	if _, ok := modePrompts[mode]; !ok {
		mode = ModeConversational
	}

	results, err := a.searcher.Search(ctx, core.SearchConfig{
		Query: question,
		Limit: retrievalLimit,
	})
	if err != nil {
		return nil, err
	}

	sources := results
	if len(sources) > contextVerses {
		sources = sources[:contextVerses]
	}
	if len(sources) == 0 {
		return &Answer{Response: noVersesResponse, Sources: []*core.SearchResult{}, Mode: mode}, nil
	}

	needsDisclaimer := DetectSensitiveQuery(question)

	systemPrompt := SystemPrompt(mode)
	if DetectControversialTopic(question) {
		systemPrompt += "\n\n" + ControversialNote
	}

	prompt := fmt.Sprintf(`Scripture Context:
%s

User Question: %s

Provide a clear, accurate answer that:
1. Directly addresses the question
2. Cites specific verses using [1], [2] format
3. Explains the philosophical meaning
4. Stays grounded in the provided verses

Answer:`, BuildContext(question, sources), question)

	response, genErr := a.generator.GenerateText(ctx, prompt, systemPrompt)
	if genErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Warn("answer generation failed, returning verses only", "err", genErr)
		return &Answer{
			Response:     a.fallbackResponse(sources),
			Sources:      sources,
			VersesUsed:   len(sources),
			Mode:         mode,
			FallbackUsed: true,
		}, nil
	}

	if needsDisclaimer {
		response = response + "\n\n---\n\n" + Disclaimer
	}

	return &Answer{
		Response:      response,
		Sources:       sources,
		VersesUsed:    len(sources),
		Mode:          mode,
		HasDisclaimer: needsDisclaimer,
	}, nil
}

// fallbackResponse lists the retrieved verses when no model answer is
// available, so the caller still gets grounded material.
func (a *Answerer) fallbackResponse(sources []*core.SearchResult) string {
	var b strings.Builder
	b.WriteString("The answer service is temporarily unavailable, but these verses relate to your question:\n")
	for _, res := range sources {
		fmt.Fprintf(&b, "\n- %s: %s\n", FormatVerseReference(res.Verse), res.Verse.Translations.English.Text)
	}
	return b.String()
}

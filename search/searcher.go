package search

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/sushilduseja/divine-vision/ai"
	"github.com/sushilduseja/divine-vision/core"
	"github.com/sushilduseja/divine-vision/storage"
)

// minQueryLength is the shortest query, in runes, that triggers the
// scorers. Shorter queries return an empty result without running them.
const minQueryLength = 3

// VerseSource supplies the read-only verse set for one source filter.
// The returned slice must not be mutated by the engine.
type VerseSource interface {
	Verses(source string) []*core.Verse
}

// Searcher is the search orchestrator: it runs the enabled scorers
// concurrently over the shared immutable verse set, fuses their ranked
// lists, optionally re-ranks the head, and returns a bounded result list.
type Searcher struct {
	verses     VerseSource
	embeddings storage.EmbeddingRepository
	embedder   ai.Embedder
	reranker   *Reranker
	charSim    CharSimilarityFunc
	synthetic  bool
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithSemanticScorer enables the vector scorer. The embedder produces
// the query vector; the repository supplies stored verse embeddings.
// Without this option the semantic signal is absent, which fusion
// treats as "contributes nothing", not as an error.
func WithSemanticScorer(embedder ai.Embedder, embeddings storage.EmbeddingRepository) Option {
	return func(s *Searcher) error {
		s.embedder = embedder
		s.embeddings = embeddings
		return nil
	}
}

// WithReranker enables LLM re-ranking of the fused head. Re-ranking
// changes only the order of returned verses, never the set.
func WithReranker(reranker *Reranker) Option {
	return func(s *Searcher) error {
		s.reranker = reranker
		return nil
	}
}

// WithCharSimilarity replaces the last-resort tier of the fuzzy tag
// matcher. Default is PositionalCharSimilarity.
func WithCharSimilarity(fn CharSimilarityFunc) Option {
	return func(s *Searcher) error {
		s.charSim = fn
		return nil
	}
}

// WithSyntheticFallback makes the vector scorer substitute hash-derived
// pseudo-vectors for verses that have no stored embedding, instead of
// skipping them. Results scored this way carry the SyntheticVector flag.
func WithSyntheticFallback() Option {
	return func(s *Searcher) error {
		s.synthetic = true
		return nil
	}
}

// NewSearcher creates a new searcher over the given verse source.
func NewSearcher(verses VerseSource, opts ...Option) (*Searcher, error) {
	if verses == nil {
		return nil, ErrVerseSourceRequired
	}

	s := &Searcher{
		verses:  verses,
		charSim: PositionalCharSimilarity,
		logger:  slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Reranker returns the configured re-ranker, or nil when re-ranking
// is disabled.
func (s *Searcher) Reranker() *Reranker {
	return s.reranker
}

// Search runs the full retrieval pipeline for one query.
// Returns up to cfg.Limit results, ranked by fused relevance.
func (s *Searcher) Search(ctx context.Context, cfg core.SearchConfig) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, cfg, nil)
}

// SearchWithMonitor runs the full retrieval pipeline with monitoring.
// The monitor receives callbacks at each stage of the search process,
// including degraded-signal conditions.
//
// "No matches" is a valid outcome and returns an empty list; only
// malformed input and context cancellation produce errors.
func (s *Searcher) SearchWithMonitor(ctx context.Context, cfg core.SearchConfig, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if strings.TrimSpace(cfg.Query) == "" {
		return nil, ErrEmptyQuery
	}
	if cfg.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	cfg.Normalize()
	if err := core.ValidateWeights(cfg.Weights); err != nil {
		return nil, err
	}

	monitor.Start(cfg.Query)

	// Too-short queries and an explicit zero limit return nothing
	// without running the scorers.
	if cfg.Limit == 0 || utf8.RuneCountInString(strings.TrimSpace(cfg.Query)) < minQueryLength {
		results := []*core.SearchResult{}
		monitor.Finish(results)
		return results, nil
	}

	verses := s.verses.Verses(cfg.Source)
	if len(verses) == 0 {
		results := []*core.SearchResult{}
		monitor.Finish(results)
		return results, nil
	}

	// Each scorer gets twice the caller's limit as its candidate cap so
	// fusion sees enough breadth before the final truncation.
	scorerCap := cfg.Limit * 2

	var keywordItems, conceptItems, semanticItems []RankedItem

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Weights.Keyword > 0 {
		g.Go(func() error {
			keywordItems = rankKeyword(cfg.Query, verses, scorerCap)
			monitor.AfterKeywordSearch(keywordItems)
			return gctx.Err()
		})
	}
	if cfg.Weights.Concept > 0 {
		g.Go(func() error {
			conceptItems = rankConcept(cfg.Query, verses, scorerCap, s.charSim)
			monitor.AfterConceptSearch(conceptItems)
			return gctx.Err()
		})
	}
	if cfg.Weights.Semantic > 0 && s.embedder != nil {
		g.Go(func() error {
			items, err := s.runSemantic(gctx, cfg.Query, verses, scorerCap, monitor)
			if err != nil {
				return err
			}
			semanticItems = items
			monitor.AfterSemanticSearch(semanticItems)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := fuseRRF([]scoredList{
		{matchType: core.MatchSemantic, weight: cfg.Weights.Semantic, items: semanticItems},
		{matchType: core.MatchKeyword, weight: cfg.Weights.Keyword, items: keywordItems},
		{matchType: core.MatchConcept, weight: cfg.Weights.Concept, items: conceptItems},
	})
	monitor.AfterFusion(fused)

	// Truncate before re-ranking so the model only permutes the
	// returned window and can never change which verses come back.
	if len(fused) > cfg.Limit {
		fused = fused[:cfg.Limit]
	}

	if s.reranker != nil && len(fused) > 0 {
		reranked, err := s.reranker.Rerank(ctx, cfg.Query, fused)
		if err != nil {
			monitor.RerankFailed(err)
		}
		fused = reranked
	}
	monitor.Finish(fused)

	return fused, nil
}

// runSemantic embeds the query and ranks verses against their stored
// embeddings. Provider failures degrade to an absent semantic signal;
// only context cancellation propagates as an error.
func (s *Searcher) runSemantic(ctx context.Context, query string, verses []*core.Verse, limit int, monitor SearchMonitor) ([]RankedItem, error) {
	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("embedding provider unavailable, semantic signal disabled", "err", err)
		monitor.SemanticUnavailable(err)
		return nil, nil
	}

	var records map[core.ID]*core.EmbeddingRecord
	if s.embeddings != nil {
		ids := make([]core.ID, len(verses))
		for i, v := range verses {
			ids[i] = v.Id()
		}
		records, err = s.embeddings.GetEmbeddings(ctx, ids...)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("embedding lookup failed, semantic signal disabled", "err", err)
			monitor.SemanticUnavailable(err)
			return nil, nil
		}
	}

	return rankSemantic(queryVector, verses, records, limit, s.synthetic), nil
}

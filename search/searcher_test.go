package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushilduseja/divine-vision/ai"
	"github.com/sushilduseja/divine-vision/ai/mock"
	"github.com/sushilduseja/divine-vision/core"
	"github.com/sushilduseja/divine-vision/corpus"
	badgerstore "github.com/sushilduseja/divine-vision/storage/badger"
)

// recordingMonitor captures search stages for assertions.
type recordingMonitor struct {
	started             bool
	keywordCount        int
	conceptCount        int
	semanticCount       int
	semanticUnavailable error
	rerankFailed        error
	finished            []*core.SearchResult
}

func (m *recordingMonitor) Start(_ string)                     { m.started = true }
func (m *recordingMonitor) AfterKeywordSearch(i []RankedItem)  { m.keywordCount = len(i) }
func (m *recordingMonitor) AfterConceptSearch(i []RankedItem)  { m.conceptCount = len(i) }
func (m *recordingMonitor) AfterSemanticSearch(i []RankedItem) { m.semanticCount = len(i) }
func (m *recordingMonitor) SemanticUnavailable(err error)      { m.semanticUnavailable = err }
func (m *recordingMonitor) AfterFusion(_ []*core.SearchResult) {}
func (m *recordingMonitor) RerankFailed(err error)             { m.rerankFailed = err }
func (m *recordingMonitor) Finish(r []*core.SearchResult)      { m.finished = r }

func newTestSearcher(t *testing.T, opts ...Option) *Searcher {
	t.Helper()
	store := corpus.NewStore(scriptureCorpus())
	s, err := NewSearcher(store, opts...)
	require.NoError(t, err)
	return s
}

func TestNewSearcher_RequiresVerseSource(t *testing.T) {
	_, err := NewSearcher(nil)
	assert.ErrorIs(t, err, ErrVerseSourceRequired)
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	s := newTestSearcher(t)

	_, err := s.Search(context.Background(), core.SearchConfig{Query: "  ", Limit: 10})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearch_NegativeLimitRejected(t *testing.T) {
	s := newTestSearcher(t)

	_, err := s.Search(context.Background(), core.SearchConfig{Query: "karma", Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestSearch_NegativeWeightsRejected(t *testing.T) {
	s := newTestSearcher(t)

	_, err := s.Search(context.Background(), core.SearchConfig{
		Query:   "karma",
		Limit:   10,
		Weights: core.Weights{Keyword: -1},
	})
	assert.ErrorIs(t, err, core.ErrInvalidWeights)
}

func TestSearch_ZeroLimitReturnsEmpty(t *testing.T) {
	s := newTestSearcher(t)

	results, err := s.Search(context.Background(), core.SearchConfig{Query: "karma", Limit: 0})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ShortQuerySkipsScorers(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	store := corpus.NewStore(scriptureCorpus())
	s, err := NewSearcher(store, WithSemanticScorer(embedder, nil))
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, err := s.SearchWithMonitor(context.Background(), core.SearchConfig{
		Query:   "om",
		Limit:   10,
		Weights: core.Weights{Semantic: 1, Keyword: 1, Concept: 1},
	}, monitor)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, embedder.CallCount(), "scorers must not run for a too-short query")
	assert.True(t, monitor.started)
}

func TestSearch_NoMatchesIsNotAnError(t *testing.T) {
	s := newTestSearcher(t)

	results, err := s.Search(context.Background(), core.SearchConfig{Query: "spacecraft propulsion", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyCorpusReturnsEmpty(t *testing.T) {
	store := corpus.NewStore(nil)
	s, err := NewSearcher(store)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), core.SearchConfig{Query: "karma", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_KarmaScenario(t *testing.T) {
	// Query "karma" with equal keyword/concept weights must put the
	// karma verse first: concept match 1.0 plus a nonzero lexical score.
	s := newTestSearcher(t)

	results, err := s.Search(context.Background(), core.SearchConfig{
		Query:   "karma",
		Limit:   10,
		Weights: core.Weights{Keyword: 0.5, Concept: 0.5},
	})
	require.NotEmpty(t, results)
	require.NoError(t, err)

	assert.Equal(t, "SB.1.2.2", results[0].Verse.TextID)
	assert.Equal(t, []string{"karma"}, results[0].MatchedConcepts)
	for _, r := range results[1:] {
		assert.Less(t, r.RelevanceScore, results[0].RelevanceScore)
		assert.NotEqual(t, "SB.1.2.2", r.Verse.TextID)
	}
}

func TestSearch_KeywordOnlyMatchesLexicalScorerAlone(t *testing.T) {
	// With the vector scorer configured but its weight at zero, the
	// pipeline must degenerate to the lexical ordering.
	embedder := mock.NewMockEmbedder()
	store := corpus.NewStore(scriptureCorpus())
	s, err := NewSearcher(store, WithSemanticScorer(embedder, nil))
	require.NoError(t, err)

	results, err := s.Search(context.Background(), core.SearchConfig{
		Query:   "karma binds the soul",
		Limit:   10,
		Weights: core.Weights{Semantic: 0, Keyword: 1, Concept: 0},
	})
	require.NoError(t, err)
	assert.Zero(t, embedder.CallCount(), "zero-weight semantic scorer must not run")

	lexical := rankKeyword("karma binds the soul", scriptureCorpus(), 20)
	require.Equal(t, len(lexical), len(results))
	for i := range lexical {
		assert.Equal(t, lexical[i].Verse.TextID, results[i].Verse.TextID)
		assert.Equal(t, core.MatchKeyword, results[i].MatchType)
	}
}

func TestSearch_SemanticSignalRanks(t *testing.T) {
	verses := scriptureCorpus()
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	require.NoError(t, repo.PutEmbeddings(ctx,
		&core.EmbeddingRecord{VerseID: verses[0].Id(), Model: "m", Vector: []float32{0, 1}},
		&core.EmbeddingRecord{VerseID: verses[1].Id(), Model: "m", Vector: []float32{1, 0}},
	))

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}

	store := corpus.NewStore(verses)
	s, err := NewSearcher(store, WithSemanticScorer(embedder, repo))
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, err := s.SearchWithMonitor(ctx, core.SearchConfig{
		Query:   "the cycle of rebirth",
		Limit:   10,
		Weights: core.Weights{Semantic: 1},
	}, monitor)
	require.NoError(t, err)

	require.Len(t, results, 1, "only the aligned embedding scores above zero")
	assert.Equal(t, "SB.1.2.2", results[0].Verse.TextID)
	assert.Equal(t, core.MatchSemantic, results[0].MatchType)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.False(t, results[0].SyntheticVector)
	assert.Equal(t, 1, monitor.semanticCount)
}

func TestSearch_DegradedEmbedderFallsBackToLexical(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("connection refused")
	}

	store := corpus.NewStore(scriptureCorpus())
	s, err := NewSearcher(store, WithSemanticScorer(embedder, nil))
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, err := s.SearchWithMonitor(context.Background(), core.SearchConfig{
		Query:   "karma",
		Limit:   10,
		Weights: core.Weights{Semantic: 0.5, Keyword: 0.5},
	}, monitor)
	require.NoError(t, err, "embedder failure must degrade, not fail")
	assert.NotEmpty(t, results)
	assert.Error(t, monitor.semanticUnavailable, "degraded signal must be observable")
	assert.Equal(t, "SB.1.2.2", results[0].Verse.TextID)
}

func TestSearch_CancellationPropagates(t *testing.T) {
	s := newTestSearcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, core.SearchConfig{Query: "karma", Limit: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_Idempotent(t *testing.T) {
	s := newTestSearcher(t)
	cfg := core.SearchConfig{Query: "karma and dharma", Limit: 10}

	first, err := s.Search(context.Background(), cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := s.Search(context.Background(), cfg)
		require.NoError(t, err)
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, first[j].Verse.TextID, again[j].Verse.TextID)
			assert.Equal(t, first[j].RelevanceScore, again[j].RelevanceScore)
		}
	}
}

func TestSearch_SourceFilter(t *testing.T) {
	verses := append(scriptureCorpus(),
		&core.Verse{
			TextID: "BG.2.47",
			Source: "bhagavad-gita",
			Translations: core.Translations{
				English: core.Translation{Text: "You have a right to perform your karma, never to its fruits."},
			},
			Concepts: []string{"karma"},
		})
	store := corpus.NewStore(verses)
	s, err := NewSearcher(store)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), core.SearchConfig{
		Query:  "karma",
		Source: "bhagavad-gita",
		Limit:  10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "bhagavad-gita", r.Verse.Source)
	}
}

func TestSearch_LimitBoundsResults(t *testing.T) {
	verses := make([]*core.Verse, 0, 10)
	for i := 0; i < 10; i++ {
		verses = append(verses, testVerse(
			string(rune('A'+i))+".1", "karma appears in every verse here", []string{"karma"}, nil))
	}
	store := corpus.NewStore(verses)
	s, err := NewSearcher(store)
	require.NoError(t, err)

	results, err := s.Search(context.Background(), core.SearchConfig{Query: "karma", Limit: 3})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearch_RerankerReordersWithoutChangingSet(t *testing.T) {
	gen := mock.NewMockGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, prompt, systemPrompt string, opts ...ai.GenerateOption) (string, error) {
		return "[2, 1]", nil
	}
	reranker, err := NewReranker(gen)
	require.NoError(t, err)

	verses := []*core.Verse{
		testVerse("V.1", "karma karma karma", []string{"karma"}, nil),
		testVerse("V.2", "a single karma mention", []string{"karma"}, nil),
	}
	store := corpus.NewStore(verses)
	s, err := NewSearcher(store, WithReranker(reranker))
	require.NoError(t, err)

	without, err := s.Search(context.Background(), core.SearchConfig{Query: "karma", Limit: 10})
	require.NoError(t, err)
	require.Len(t, without, 2)

	assert.Equal(t, "V.2", without[0].Verse.TextID, "model order applied")
	assert.Equal(t, "V.1", without[1].Verse.TextID)
}

func TestSearch_RerankerOnlyPermutesTheLimitWindow(t *testing.T) {
	// With a limit smaller than the rerank depth, the model reply may
	// reorder the returned window but must never decide which verses
	// are in it.
	verses := []*core.Verse{
		testVerse("V.1", "karma karma karma karma", []string{}, nil),
		testVerse("V.2", "karma karma karma peace", []string{}, nil),
		testVerse("V.3", "karma karma peace peace", []string{}, nil),
		testVerse("V.4", "karma peace peace peace", []string{}, nil),
	}

	searchWithReply := func(reply string) []*core.SearchResult {
		gen := mock.NewMockGenerator()
		gen.GenerateTextFunc = func(ctx context.Context, prompt, systemPrompt string, opts ...ai.GenerateOption) (string, error) {
			return reply, nil
		}
		reranker, err := NewReranker(gen)
		require.NoError(t, err)

		s, err := NewSearcher(corpus.NewStore(verses), WithReranker(reranker))
		require.NoError(t, err)

		results, err := s.Search(context.Background(), core.SearchConfig{Query: "karma", Limit: 2})
		require.NoError(t, err)
		require.Len(t, results, 2)
		return results
	}

	forward := searchWithReply("[1, 2, 3, 4]")
	reversed := searchWithReply("[4, 3, 2, 1]")

	ids := func(results []*core.SearchResult) []string {
		out := make([]string, len(results))
		for i, r := range results {
			out[i] = r.Verse.TextID
		}
		return out
	}

	assert.Equal(t, []string{"V.1", "V.2"}, ids(forward))
	assert.ElementsMatch(t, []string{"V.1", "V.2"}, ids(reversed),
		"the returned set is fixed by fusion, not by the model reply")
	assert.Equal(t, []string{"V.2", "V.1"}, ids(reversed), "in-window indices still reorder")
}

func TestSearch_RerankerFailureIsObservableNotFatal(t *testing.T) {
	gen := mock.NewMockGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, prompt, systemPrompt string, opts ...ai.GenerateOption) (string, error) {
		return "", errors.New("model unavailable")
	}
	reranker, err := NewReranker(gen)
	require.NoError(t, err)

	store := corpus.NewStore(scriptureCorpus())
	s, err := NewSearcher(store, WithReranker(reranker))
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, err := s.SearchWithMonitor(context.Background(), core.SearchConfig{
		Query: "karma",
		Limit: 10,
	}, monitor)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
	assert.Error(t, monitor.rerankFailed)
}

func TestSearch_DefaultsApplied(t *testing.T) {
	s := newTestSearcher(t)

	// No source and no weights: source defaults to "all", weights to
	// the keyword-dominant baseline, so a plain query still ranks.
	results, err := s.Search(context.Background(), core.SearchConfig{Query: "karma", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "SB.1.2.2", results[0].Verse.TextID)
}

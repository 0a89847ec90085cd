package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushilduseja/divine-vision/ai"
	"github.com/sushilduseja/divine-vision/ai/mock"
	"github.com/sushilduseja/divine-vision/core"
	"github.com/sushilduseja/divine-vision/corpus"
	"github.com/sushilduseja/divine-vision/rag"
	"github.com/sushilduseja/divine-vision/search"
)

func serverCorpus() []*core.Verse {
	return []*core.Verse{
		{
			TextID: "SB.1.2.6",
			Source: "bhagavatam",
			Translations: core.Translations{
				English: core.Translation{Text: "The supreme dharma for all humanity is loving devotional service."},
			},
			Concepts: []string{"dharma", "bhakti"},
		},
		{
			TextID: "SB.1.2.2",
			Source: "bhagavatam",
			Translations: core.Translations{
				English: core.Translation{Text: "Every action produces karma binding the soul."},
			},
			Concepts: []string{"karma"},
		},
	}
}

func newTestServer(t *testing.T, opts ...search.Option) *Server {
	t.Helper()
	store := corpus.NewStore(serverCorpus())
	searcher, err := search.NewSearcher(store, opts...)
	require.NoError(t, err)

	answerer, err := rag.NewAnswerer(searcher, mock.NewMockGenerator())
	require.NoError(t, err)

	return NewServer(Config{}, store, searcher, answerer)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint_RanksVerses(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/search", `{"query":"karma"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.Count)
	assert.Equal(t, len(resp.Results), resp.Count)
	assert.Equal(t, "SB.1.2.2", resp.Results[0].Verse.TextID)
	assert.False(t, resp.Degraded)
}

func TestSearchEndpoint_MissingQueryIsClientError(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/search", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoint_MalformedBodyIsClientError(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/search", `{"query": 42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoint_NegativeLimitIsClientError(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/search", `{"query":"karma","limit":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoint_ExplicitZeroLimitHonored(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/search", `{"query":"karma","limit":0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
	assert.NotNil(t, resp.Results)
}

func TestSearchEndpoint_OmittedLimitGetsDefault(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/search", `{"query":"karma"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.Count, "default limit must allow results")
}

func TestSearchEndpoint_DegradedFlagOnEmbedderFailure(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("connection refused")
	}

	s := newTestServer(t, search.WithSemanticScorer(embedder, nil))

	rec := doJSON(t, s, http.MethodPost, "/api/v1/search",
		`{"query":"karma","weights":{"semantic":0.5,"keyword":0.5}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Degraded)
	assert.NotZero(t, resp.Count, "lexical results survive the degraded signal")
}

func TestRerankEndpoint_ReordersResults(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateTextFunc = func(ctx context.Context, prompt, systemPrompt string, opts ...ai.GenerateOption) (string, error) {
		return "[2, 1]", nil
	}
	reranker, err := search.NewReranker(generator)
	require.NoError(t, err)

	s := newTestServer(t, search.WithReranker(reranker))

	body := `{"query":"karma","results":[` +
		`{"verse":{"text_id":"SB.1.2.6","source":"bhagavatam","translations":{"english":{"text":"dharma verse"}}}},` +
		`{"verse":{"text_id":"SB.1.2.2","source":"bhagavatam","translations":{"english":{"text":"karma verse"}}}}]}`
	rec := doJSON(t, s, http.MethodPost, "/api/v1/rerank", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RerankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "SB.1.2.2", resp.Results[0].Verse.TextID)
	assert.Equal(t, "SB.1.2.6", resp.Results[1].Verse.TextID)
	assert.False(t, resp.Degraded)
}

func TestRerankEndpoint_DegradedOnGeneratorFailure(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateTextFunc = func(ctx context.Context, prompt, systemPrompt string, opts ...ai.GenerateOption) (string, error) {
		return "", errors.New("connection refused")
	}
	reranker, err := search.NewReranker(generator)
	require.NoError(t, err)

	s := newTestServer(t, search.WithReranker(reranker))

	body := `{"query":"karma","results":[` +
		`{"verse":{"text_id":"SB.1.2.6","source":"bhagavatam","translations":{"english":{"text":"dharma verse"}}}},` +
		`{"verse":{"text_id":"SB.1.2.2","source":"bhagavatam","translations":{"english":{"text":"karma verse"}}}}]}`
	rec := doJSON(t, s, http.MethodPost, "/api/v1/rerank", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RerankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Degraded)
	assert.Equal(t, "SB.1.2.6", resp.Results[0].Verse.TextID, "input order preserved on failure")
}

func TestRerankEndpoint_NotRegisteredWithoutReranker(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/rerank", `{"query":"karma","results":[]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAskEndpoint_ReturnsGroundedAnswer(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/ask", `{"question":"what is dharma?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var answer rag.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	assert.NotEmpty(t, answer.Response)
	assert.NotEmpty(t, answer.Sources)
}

func TestAskEndpoint_MissingQuestionIsClientError(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/ask", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskEndpoint_NotRegisteredWithoutAnswerer(t *testing.T) {
	store := corpus.NewStore(serverCorpus())
	searcher, err := search.NewSearcher(store)
	require.NoError(t, err)
	s := NewServer(Config{}, store, searcher, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/ask", `{"question":"what is dharma?"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 2, resp.Verses)
}

func TestHealthEndpoint_EmptyCorpusUnavailable(t *testing.T) {
	store := corpus.NewStore(nil)
	searcher, err := search.NewSearcher(store)
	require.NoError(t, err)
	s := NewServer(Config{}, store, searcher, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

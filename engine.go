// Copyright 2025 Divine Vision Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package divinevision answers natural-language questions over a fixed
// corpus of scripture verses. The Engine facade loads the corpus, opens
// the embedding store, and wires the hybrid searcher, indexer and
// answerer together.
package divinevision

import (
	"log/slog"

	"github.com/sushilduseja/divine-vision/ai"
	"github.com/sushilduseja/divine-vision/ai/openai"
	"github.com/sushilduseja/divine-vision/corpus"
	"github.com/sushilduseja/divine-vision/indexer"
	"github.com/sushilduseja/divine-vision/rag"
	"github.com/sushilduseja/divine-vision/search"
	"github.com/sushilduseja/divine-vision/storage"
	"github.com/sushilduseja/divine-vision/storage/badger"
)

// Engine bundles the corpus store, the embedding store and the AI
// provider behind one lifecycle.
type Engine struct {
	store         *corpus.Store
	backend       *badger.Backend
	embeddingRepo storage.EmbeddingRepository
	provider      ai.AIProvider
	aiConfig      *ai.Config
	logger        *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	noAI     bool
	inMemory bool
}

// WithAIConfig sets the AI service configuration used to build the
// default OpenAI-compatible provider.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithAIProvider injects a prebuilt provider instead of constructing
// one, mainly for tests.
func WithAIProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithoutAI disables embedding and generation entirely. Search runs on
// the lexical and concept signals only.
func WithoutAI() EngineOption {
	return func(o *engineOptions) {
		o.noAI = true
	}
}

// WithInMemoryStorage keeps the embedding store in memory, mainly for tests.
func WithInMemoryStorage() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine loads the verse corpus from corpusPath and opens the
// embedding store at dbPath. A corpus that fails to load is a hard
// error; an unreachable AI backend is not, it only degrades search.
func NewEngine(corpusPath, dbPath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	verses, err := corpus.LoadFile(corpusPath)
	if err != nil {
		return nil, err
	}
	store := corpus.NewStore(verses)

	backend, err := badger.OpenBackend(dbPath, options.inMemory)
	if err != nil {
		return nil, err
	}

	embeddingRepo, err := badger.NewEmbeddingRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil && !options.noAI {
		provider, err = openai.NewProvider(options.aiConfig,
			openai.WithResponseCache(ai.NewResponseCache(ai.DefaultCacheTTL, ai.DefaultCacheMaxEntries)),
			openai.WithRateLimiter(ai.NewRateLimiter(ai.DefaultPerMinuteLimit, ai.DefaultPerDayLimit)),
		)
		if err != nil {
			embeddingRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Engine{
		store:         store,
		backend:       backend,
		embeddingRepo: embeddingRepo,
		provider:      provider,
		aiConfig:      options.aiConfig,
		logger:        slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (e *Engine) Close() error {
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}

	if err := e.embeddingRepo.Close(); err != nil {
		e.logger.Error("error closing embedding repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Store returns the in-memory verse store.
func (e *Engine) Store() *corpus.Store {
	return e.store
}

// EmbeddingRepository returns the embedding store.
func (e *Engine) EmbeddingRepository() storage.EmbeddingRepository {
	return e.embeddingRepo
}

// Provider returns the AI provider, or nil when AI is disabled.
func (e *Engine) Provider() ai.AIProvider {
	return e.provider
}

// NewSearcher builds a searcher over the engine's stores. When a
// provider is present its embedder backs the semantic scorer and its
// generator backs the re-ranker; without one the searcher runs on the
// lexical and concept signals alone.
func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	if e.provider != nil {
		wired := make([]search.Option, 0, len(opts)+2)
		if embedder := e.provider.Embedder(); embedder != nil {
			wired = append(wired, search.WithSemanticScorer(embedder, e.embeddingRepo))
		}
		if generator := e.provider.Generator(); generator != nil {
			reranker, err := search.NewReranker(generator)
			if err != nil {
				return nil, err
			}
			wired = append(wired, search.WithReranker(reranker))
		}
		opts = append(wired, opts...)
	}
	return search.NewSearcher(e.store, opts...)
}

// NewIndexer builds an indexer that embeds every verse with the
// configured embedding model.
func (e *Engine) NewIndexer(opts ...indexer.Option) (*indexer.Indexer, error) {
	if e.provider == nil || e.provider.Embedder() == nil {
		return nil, indexer.ErrEmbedderRequired
	}
	return indexer.NewIndexer(e.embeddingRepo, e.provider.Embedder(), e.aiConfig.EmbeddingModel, opts...)
}

// NewAnswerer builds a grounded question answerer over the given searcher.
func (e *Engine) NewAnswerer(searcher *search.Searcher, opts ...rag.Option) (*rag.Answerer, error) {
	if e.provider == nil || e.provider.Generator() == nil {
		return nil, rag.ErrGeneratorRequired
	}
	return rag.NewAnswerer(searcher, e.provider.Generator(), opts...)
}

package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived deterministically from content so that identical
// verses always map to the same key.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SourceAll matches every collection when used as a source filter.
const SourceAll = "all"

// WordBreakdown is a per-word gloss of the original Sanskrit.
type WordBreakdown struct {
	Sanskrit        string `json:"sanskrit"`
	Transliteration string `json:"transliteration"`
	Meaning         string `json:"meaning"`
}

// SanskritText holds the original-language forms of a verse.
type SanskritText struct {
	Devanagari    string          `json:"devanagari"`
	IAST          string          `json:"iast"`
	WordBreakdown []WordBreakdown `json:"word_breakdown,omitempty"`
}

// Translation is a single rendering of a verse into one language.
type Translation struct {
	Text       string `json:"text"`
	Translator string `json:"translator"`
	Purport    string `json:"purport,omitempty"`
}

// Translations keys renderings by language. English is mandatory.
type Translations struct {
	English Translation  `json:"english"`
	Hindi   *Translation `json:"hindi,omitempty"`
}

// Verse is an immutable corpus record. Verses are loaded once per process
// and treated as read-only for the lifetime of the retrieval engine;
// no component may mutate a Verse after corpus load.
type Verse struct {
	TextID       string       `json:"text_id"`
	Source       string       `json:"source"`
	Canto        int          `json:"canto,omitempty"`
	Chapter      int          `json:"chapter,omitempty"`
	VerseNumber  int          `json:"verse_number"`
	Sanskrit     SanskritText `json:"sanskrit"`
	Translations Translations `json:"translations"`
	Concepts     []string     `json:"concepts"`
	Keywords     []string     `json:"keywords"`
	EmbeddingRef string       `json:"embedding_ref,omitempty"`
	SourceURL    string       `json:"source_url,omitempty"`
}

// Id returns the content-derived identifier for the verse.
func (v *Verse) Id() ID {
	return IDFromContent(v.TextID)
}

// Document returns the searchable text of the verse: transliteration,
// english translation, and concept tags concatenated. The lexical scorer
// and the embedding indexer must use this same text so that query-time
// statistics line up with index-time input.
func (v *Verse) Document() string {
	parts := make([]string, 0, 3)
	if v.Sanskrit.IAST != "" {
		parts = append(parts, v.Sanskrit.IAST)
	}
	if v.Translations.English.Text != "" {
		parts = append(parts, v.Translations.English.Text)
	}
	if len(v.Concepts) > 0 {
		parts = append(parts, strings.Join(v.Concepts, " "))
	}
	return strings.Join(parts, " ")
}

// MatchType records which scorer produced (or dominated) a search result.
type MatchType string

const (
	MatchSemantic MatchType = "semantic"
	MatchKeyword  MatchType = "keyword"
	MatchConcept  MatchType = "concept"
)

// SearchResult is a verse plus scoring metadata for one search call.
// RelevanceScore orders results within a single call only; it is not
// comparable across weight configurations and is not a probability.
type SearchResult struct {
	Verse           *Verse    `json:"verse"`
	Similarity      float64   `json:"similarity"`
	RelevanceScore  float64   `json:"relevance_score"`
	MatchedConcepts []string  `json:"matched_concepts,omitempty"`
	MatchType       MatchType `json:"match_type,omitempty"`
	SyntheticVector bool      `json:"synthetic_vector,omitempty"`
}

// Weights are relative contribution multipliers for the fusion engine.
// They need not sum to 1.
type Weights struct {
	Semantic float64 `json:"semantic"`
	Keyword  float64 `json:"keyword"`
	Concept  float64 `json:"concept"`
}

// DefaultWeights returns the baseline weighting used when a request
// does not specify one: lexical-dominant, no semantic signal.
func DefaultWeights() Weights {
	return Weights{Semantic: 0, Keyword: 0.7, Concept: 0.3}
}

// IsZero reports whether no weight is set at all.
func (w Weights) IsZero() bool {
	return w.Semantic == 0 && w.Keyword == 0 && w.Concept == 0
}

// SearchConfig holds the per-query parameters of one search call.
type SearchConfig struct {
	Query   string  `json:"query"`
	Source  string  `json:"source"`
	Limit   int     `json:"limit"`
	Weights Weights `json:"weights"`
}

// DefaultLimit is applied at the request boundary when a limit is omitted.
// An explicit limit of zero is honored by the engine (it returns no results),
// so the default is filled in before the config reaches the searcher.
const DefaultLimit = 20

// Normalize fills unset source and weights with documented defaults.
// Limit is deliberately left alone: zero means "no results" to the engine
// and a negative value is rejected by validation.
func (c *SearchConfig) Normalize() {
	if c.Source == "" {
		c.Source = SourceAll
	}
	if c.Weights.IsZero() {
		c.Weights = DefaultWeights()
	}
}

// EmbeddingRecord is a precomputed verse embedding persisted by the
// storage layer. Model records which embedding model produced the vector
// so stale vectors can be detected after a model change.
type EmbeddingRecord struct {
	VerseID   ID
	Model     string
	Vector    []float32
	UpdatedAt time.Time
}

package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushilduseja/divine-vision/core"
)

const sampleCorpus = `[
  {
    "text_id": "SB.1.2.6",
    "source": "bhagavatam",
    "canto": 1,
    "chapter": 2,
    "verse_number": 6,
    "sanskrit": {"devanagari": "", "iast": "sa vai pumsam paro dharmo"},
    "translations": {"english": {"text": "The supreme occupation for all humanity", "translator": "test"}},
    "concepts": ["dharma", "devotional service"],
    "keywords": ["supreme", "occupation"]
  },
  {
    "text_id": "VS.42",
    "source": "vishnu_sahasranam",
    "verse_number": 42,
    "sanskrit": {"devanagari": "", "iast": "vedyo vaidyah sada-yogi"},
    "translations": {"english": {"text": "He who is to be known, the physician", "translator": "test"}},
    "concepts": ["knowledge"],
    "keywords": ["physician"]
  }
]`

func TestLoad(t *testing.T) {
	verses, err := Load(strings.NewReader(sampleCorpus))
	require.NoError(t, err)
	require.Len(t, verses, 2)
	assert.Equal(t, "SB.1.2.6", verses[0].TextID)
	assert.Equal(t, []string{"dharma", "devotional service"}, verses[0].Concepts)
}

func TestLoad_InvalidJSON(t *testing.T) {
	_, err := Load(strings.NewReader("{not json"))
	assert.ErrorIs(t, err, ErrCorpusUnavailable)
}

func TestLoad_EmptyCorpus(t *testing.T) {
	_, err := Load(strings.NewReader("[]"))
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestLoad_InvalidVerse(t *testing.T) {
	// Missing english translation fails the whole load.
	_, err := Load(strings.NewReader(`[{"text_id": "X.1", "source": "bhagavatam",
		"verse_number": 1, "sanskrit": {"devanagari": "", "iast": ""},
		"translations": {"english": {"text": "", "translator": ""}},
		"concepts": [], "keywords": []}]`))
	assert.ErrorIs(t, err, core.ErrInvalidVerse)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/verses.json")
	assert.ErrorIs(t, err, ErrCorpusUnavailable)
}

func TestStore_SourceFilter(t *testing.T) {
	verses, err := Load(strings.NewReader(sampleCorpus))
	require.NoError(t, err)

	store := NewStore(verses)
	assert.Equal(t, 2, store.Len())

	t.Run("all", func(t *testing.T) {
		assert.Len(t, store.Verses(core.SourceAll), 2)
		assert.Len(t, store.Verses(""), 2)
	})

	t.Run("specific source", func(t *testing.T) {
		got := store.Verses("bhagavatam")
		require.Len(t, got, 1)
		assert.Equal(t, "SB.1.2.6", got[0].TextID)
	})

	t.Run("unknown source", func(t *testing.T) {
		assert.Empty(t, store.Verses("upanishads"))
	})
}

func TestStore_ReloadIsAtomic(t *testing.T) {
	verses, err := Load(strings.NewReader(sampleCorpus))
	require.NoError(t, err)

	store := NewStore(verses)
	before := store.Verses(core.SourceAll)

	store.Reload(verses[:1])
	assert.Equal(t, 1, store.Len())
	// The earlier snapshot is untouched.
	assert.Len(t, before, 2)
}

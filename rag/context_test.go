package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sushilduseja/divine-vision/core"
)

func contextVerse() *core.Verse {
	return &core.Verse{
		TextID:      "SB.1.2.6",
		Source:      "bhagavatam",
		Canto:       1,
		Chapter:     2,
		VerseNumber: 6,
		Sanskrit: core.SanskritText{
			IAST: "sa vai puṁsāṁ paro dharmo",
			WordBreakdown: []core.WordBreakdown{
				{Sanskrit: "धर्मः", Transliteration: "dharmaḥ", Meaning: "occupation"},
			},
		},
		Translations: core.Translations{
			English: core.Translation{
				Text:    "The supreme occupation for all humanity is that by which men can attain loving devotional service.",
				Purport: "This verse establishes the foundation of devotional practice.",
			},
		},
		Concepts: []string{"dharma", "bhakti"},
	}
}

func TestBuildContext_RendersVerseBlocks(t *testing.T) {
	sources := []*core.SearchResult{{Verse: contextVerse()}}

	context := BuildContext("what is the supreme dharma?", sources)

	assert.Contains(t, context, "Question: what is the supreme dharma?")
	assert.Contains(t, context, "[1] SB.1.2.6")
	assert.Contains(t, context, "Sanskrit: sa vai puṁsāṁ paro dharmo")
	assert.Contains(t, context, "Translation: The supreme occupation")
	assert.Contains(t, context, "Commentary: This verse establishes")
	assert.Contains(t, context, "dharmaḥ: occupation")
	assert.Contains(t, context, "Key Concepts: dharma, bhakti")
}

func TestBuildContext_NumbersMultipleVerses(t *testing.T) {
	v2 := contextVerse()
	v2.TextID = "VS.42"
	sources := []*core.SearchResult{{Verse: contextVerse()}, {Verse: v2}}

	context := BuildContext("dharma", sources)
	assert.Contains(t, context, "[1] SB.1.2.6")
	assert.Contains(t, context, "[2] VS.42")
	assert.Contains(t, context, "---")
}

func TestBuildContext_TruncatesLongCommentary(t *testing.T) {
	v := contextVerse()
	v.Translations.English.Purport = strings.Repeat("x", 2000)
	context := BuildContext("dharma", []*core.SearchResult{{Verse: v}})

	assert.Contains(t, context, strings.Repeat("x", 500)+"...")
	assert.NotContains(t, context, strings.Repeat("x", 501))
}

func TestBuildContext_CapsTotalLength(t *testing.T) {
	v := contextVerse()
	v.Translations.English.Text = strings.Repeat("long translation text ", 3000)
	context := BuildContext("dharma", []*core.SearchResult{{Verse: v}})

	assert.LessOrEqual(t, len(context), contextMaxTokens*4+len("...\n\n[Context truncated for length]"))
	assert.Contains(t, context, "[Context truncated for length]")
}

func TestFormatVerseReference(t *testing.T) {
	v := contextVerse()
	assert.Equal(t, "Śrīmad-Bhāgavatam 1.2.6", FormatVerseReference(v))

	v.Source = "vishnu_sahasranam"
	v.VerseNumber = 42
	assert.Equal(t, "Viṣṇu Sahasranāma, verse 42", FormatVerseReference(v))

	v.Source = "lalita_sahasranam"
	assert.Equal(t, "Lalitā Sahasranāma, verse 42", FormatVerseReference(v))

	v.Source = "unknown"
	assert.Equal(t, "SB.1.2.6", FormatVerseReference(v))
}

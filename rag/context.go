package rag

import (
	"fmt"
	"strings"

	"github.com/sushilduseja/divine-vision/core"
)

const (
	// contextMaxTokens bounds the rendered context; the character cap
	// assumes roughly four characters per token.
	contextMaxTokens = 6000

	// commentaryLimit truncates each verse's purport in the context.
	commentaryLimit = 500
)

// BuildContext renders search results into the scripture context block
// the answer prompt embeds: a numbered verse list with Sanskrit,
// translation, truncated commentary, word glosses and concept tags.
// The output is capped at roughly contextMaxTokens tokens.
func BuildContext(query string, sources []*core.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nRelevant Verses:\n", query)

	blocks := make([]string, 0, len(sources))
	for i, res := range sources {
		blocks = append(blocks, verseBlock(i+1, res.Verse))
	}
	b.WriteString(strings.Join(blocks, "\n---\n"))

	context := b.String()
	maxChars := contextMaxTokens * 4
	if len(context) > maxChars {
		context = context[:maxChars] + "...\n\n[Context truncated for length]"
	}
	return context
}

func verseBlock(n int, v *core.Verse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n[%d] %s\n", n, v.TextID)
	if v.Sanskrit.IAST != "" {
		fmt.Fprintf(&b, "Sanskrit: %s\n", v.Sanskrit.IAST)
	}
	fmt.Fprintf(&b, "Translation: %s\n", v.Translations.English.Text)

	if purport := v.Translations.English.Purport; purport != "" {
		if len(purport) > commentaryLimit {
			purport = purport[:commentaryLimit] + "..."
		}
		fmt.Fprintf(&b, "Commentary: %s\n", purport)
	}

	if len(v.Sanskrit.WordBreakdown) > 0 {
		b.WriteString("Word Breakdown:\n")
		for _, w := range v.Sanskrit.WordBreakdown {
			fmt.Fprintf(&b, "  %s: %s\n", w.Transliteration, w.Meaning)
		}
	}

	if len(v.Concepts) > 0 {
		fmt.Fprintf(&b, "Key Concepts: %s\n", strings.Join(v.Concepts, ", "))
	}
	return b.String()
}

// FormatVerseReference renders a human-readable citation for a verse.
func FormatVerseReference(v *core.Verse) string {
	switch v.Source {
	case "bhagavatam":
		return fmt.Sprintf("Śrīmad-Bhāgavatam %d.%d.%d", v.Canto, v.Chapter, v.VerseNumber)
	case "vishnu_sahasranam":
		return fmt.Sprintf("Viṣṇu Sahasranāma, verse %d", v.VerseNumber)
	case "lalita_sahasranam":
		return fmt.Sprintf("Lalitā Sahasranāma, verse %d", v.VerseNumber)
	}
	return v.TextID
}

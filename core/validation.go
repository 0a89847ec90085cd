package core

import "fmt"

// ValidateVerse checks that a verse carries the fields every scorer
// depends on. Structural locators (canto, chapter) are optional because
// not every collection has them.
func ValidateVerse(v *Verse) error {
	if v == nil {
		return ErrInvalidVerse
	}
	if v.TextID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, ErrEmptyTextID)
	}
	if v.Source == "" {
		return fmt.Errorf("%w (%s): %w", ErrInvalidVerse, v.TextID, ErrEmptySource)
	}
	if v.Translations.English.Text == "" {
		return fmt.Errorf("%w (%s): %w", ErrInvalidVerse, v.TextID, ErrEmptyTranslation)
	}
	return nil
}

// ValidateWeights rejects negative multipliers. Weights need not sum to 1;
// they are relative contributions, and an all-zero triple simply means the
// caller wants the documented default.
func ValidateWeights(w Weights) error {
	if w.Semantic < 0 || w.Keyword < 0 || w.Concept < 0 {
		return ErrInvalidWeights
	}
	return nil
}

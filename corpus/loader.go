package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sushilduseja/divine-vision/core"
)

// LoadFile reads and validates a verse corpus from a JSON file.
// The file holds a single JSON array of verse objects. A corpus that
// fails to load is a hard error; the engine cannot function without it.
func LoadFile(path string) ([]*core.Verse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a verse corpus from a reader. Every verse is validated;
// a single malformed verse fails the whole load so a bad data file is
// caught at startup, not at query time.
func Load(r io.Reader) ([]*core.Verse, error) {
	var verses []*core.Verse
	dec := json.NewDecoder(r)
	if err := dec.Decode(&verses); err != nil {
		return nil, fmt.Errorf("%w: decoding corpus: %w", ErrCorpusUnavailable, err)
	}
	if len(verses) == 0 {
		return nil, ErrEmptyCorpus
	}
	for _, v := range verses {
		if err := core.ValidateVerse(v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
		}
	}
	return verses, nil
}

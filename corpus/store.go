package corpus

import (
	"sync/atomic"

	"github.com/sushilduseja/divine-vision/core"
)

// Store holds the in-memory verse collection. The verse slice is swapped
// wholesale on reload via an atomic pointer, so readers never need a lock
// and never see a partial update.
type Store struct {
	verses atomic.Pointer[[]*core.Verse]
}

// NewStore creates a store over an already loaded verse set.
func NewStore(verses []*core.Verse) *Store {
	s := &Store{}
	s.Reload(verses)
	return s
}

// Reload replaces the whole verse set atomically. In-flight searches keep
// the snapshot they started with.
func (s *Store) Reload(verses []*core.Verse) {
	snapshot := make([]*core.Verse, len(verses))
	copy(snapshot, verses)
	s.verses.Store(&snapshot)
}

// Verses returns the verses matching the source filter. The returned slice
// must be treated as read-only; for the "all" filter it is the shared
// snapshot itself.
func (s *Store) Verses(source string) []*core.Verse {
	p := s.verses.Load()
	if p == nil {
		return nil
	}
	all := *p
	if source == "" || source == core.SourceAll {
		return all
	}
	filtered := make([]*core.Verse, 0, len(all))
	for _, v := range all {
		if v.Source == source {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// Len reports the size of the current snapshot.
func (s *Store) Len() int {
	p := s.verses.Load()
	if p == nil {
		return 0
	}
	return len(*p)
}

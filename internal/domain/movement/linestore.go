// Package movement tracks posted DFS lines over time: the latest line per
// series, the append-only history of observations, and the classification
// of each change.
package movement

import (
	"sync"

	"github.com/nvoss/propsight/internal/domain/model"
)

// LineStore holds the latest known line per stat key. SetCurrent is the
// only mutator; it returns the line it replaced so callers can diff
// without a second lookup.
type LineStore struct {
	mu      sync.RWMutex
	current map[model.StatKey]model.DFSLine
}

// NewLineStore creates an empty line store.
func NewLineStore() *LineStore {
	return &LineStore{
		current: make(map[model.StatKey]model.DFSLine),
	}
}

// Current returns the latest known line for key.
func (s *LineStore) Current(key model.StatKey) (model.DFSLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	line, ok := s.current[key]
	return line, ok
}

// SetCurrent replaces the latest line for key and returns the previous
// one, if any.
func (s *LineStore) SetCurrent(key model.StatKey, line model.DFSLine) (model.DFSLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.current[key]
	s.current[key] = line
	return prev, had
}

// Len returns the number of tracked keys.
func (s *LineStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.current)
}

// Package repository holds the refreshed match-bundle snapshot served to
// the query surface.
package repository

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/nvoss/propsight/internal/domain/model"
	"github.com/nvoss/propsight/internal/domain/types"
	"github.com/nvoss/propsight/pkg/metrics"
)

// BundleStore keeps the latest refresh cycle's bundles. Writers replace
// the whole snapshot at once; readers always see a self-consistent prior
// snapshot, never a partially written one.
type BundleStore struct {
	mu          sync.RWMutex
	bundles     []model.MatchBundle
	byID        map[string]int
	lastRefresh time.Time
	refreshed   bool
}

// NewBundleStore creates an empty store.
func NewBundleStore() *BundleStore {
	return &BundleStore{
		byID: make(map[string]int),
	}
}

// ReplaceAll swaps in the bundles produced by one refresh cycle.
func (s *BundleStore) ReplaceAll(_ context.Context, bundles []model.MatchBundle, at time.Time) {
	byID := make(map[string]int, len(bundles))
	for i, b := range bundles {
		byID[b.Match.ID] = i
	}

	s.mu.Lock()
	s.bundles = bundles
	s.byID = byID
	s.lastRefresh = at
	s.refreshed = true
	s.mu.Unlock()

	stats := s.Stats(context.Background())
	metrics.UpdateSnapshotGauges(stats.TotalMatches, stats.AvgConfidence)
}

// Bundles returns the current snapshot.
func (s *BundleStore) Bundles(_ context.Context) []model.MatchBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.MatchBundle, len(s.bundles))
	copy(out, s.bundles)
	return out
}

// Bundle returns one match bundle by match id.
func (s *BundleStore) Bundle(_ context.Context, id string) (model.MatchBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return model.MatchBundle{}, ErrNotFound
	}
	return s.bundles[i], nil
}

// LastRefresh returns when the snapshot was last replaced.
func (s *BundleStore) LastRefresh() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastRefresh, s.refreshed
}

// Stats aggregates the snapshot for the dashboard's top line.
func (s *BundleStore) Stats(_ context.Context) types.AggregateStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := types.AggregateStats{TotalMatches: len(s.bundles)}

	confSum := 0.0
	for _, b := range s.bundles {
		for _, p := range b.Projections {
			out.TotalProjections++
			out.ValueOpportunities += len(p.Opportunities)
			confSum += p.Confidence
		}
	}
	if out.TotalProjections > 0 {
		out.AvgConfidence = math.Round(confSum/float64(out.TotalProjections)*10) / 10
	}
	if s.refreshed {
		t := s.lastRefresh
		out.LastRefresh = &t
	}
	return out
}

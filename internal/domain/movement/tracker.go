package movement

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/nvoss/propsight/internal/domain/model"
	"github.com/nvoss/propsight/pkg/metrics"
)

// Default tracker configuration constants.
const (
	defaultAbsThreshold = 1.0
	defaultRelThreshold = 0.08
	defaultMaxEntries   = 50

	// epsilon guards the relative test against a zero previous line.
	epsilon = 1e-9
)

// Tracker appends each new line observation to a per-key history, computes
// the signed delta from the prior observation, and classifies direction and
// significance. Histories are append-only; records are immutable once
// appended.
type Tracker struct {
	mu    sync.RWMutex
	store *LineStore

	history  map[model.StatKey][]model.LineMovementRecord
	recorded map[model.StatKey]int

	absThreshold float64
	relThreshold float64
	maxEntries   int

	totalRecorded    int
	totalSignificant int
}

// NewTracker creates a tracker diffing against the given line store.
func NewTracker(store *LineStore, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		store:        store,
		history:      make(map[model.StatKey][]model.LineMovementRecord),
		recorded:     make(map[model.StatKey]int),
		absThreshold: defaultAbsThreshold,
		relThreshold: defaultRelThreshold,
		maxEntries:   defaultMaxEntries,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Record appends one observation for key and returns the resulting record.
// The first observation for a key has direction "new" and movement 0.
func (t *Tracker) Record(key model.StatKey, newLine float64, ts time.Time) model.LineMovementRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, had := t.store.SetCurrent(key, model.DFSLine{
		Platform:   key.Platform,
		Stat:       key.Stat,
		Line:       newLine,
		ObservedAt: ts,
	})

	rec := model.LineMovementRecord{
		Key:         key,
		CurrentLine: newLine,
		LastUpdated: ts,
	}

	if had {
		rec.PreviousLine = prev.Line
		rec.HasPrevious = true
		rec.Movement = newLine - prev.Line
		switch {
		case rec.Movement > 0:
			rec.Direction = model.DirectionUp
		case rec.Movement < 0:
			rec.Direction = model.DirectionDown
		default:
			rec.Direction = model.DirectionFlat
		}
		rec.Significant = t.isSignificant(rec.Movement, prev.Line)
	} else {
		rec.Direction = model.DirectionNew
	}

	t.recorded[key]++
	rec.HistoryCount = t.recorded[key]

	entries := append(t.history[key], rec)
	if t.maxEntries > 0 && len(entries) > t.maxEntries {
		entries = entries[len(entries)-t.maxEntries:]
	}
	t.history[key] = entries

	t.totalRecorded++
	if rec.Significant {
		t.totalSignificant++
		metrics.RecordSignificantMovement()
	}
	metrics.RecordMovement(string(rec.Direction))

	return rec
}

// History returns a copy of the ordered history for key.
func (t *Tracker) History(key model.StatKey) []model.LineMovementRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries := t.history[key]
	out := make([]model.LineMovementRecord, len(entries))
	copy(out, entries)
	return out
}

// AllCurrent returns the latest record per key, ordered by key for
// deterministic output.
func (t *Tracker) AllCurrent() []model.LineMovementRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]model.LineMovementRecord, 0, len(t.history))
	for _, entries := range t.history {
		if len(entries) > 0 {
			out = append(out, entries[len(entries)-1])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}

// Significant returns the latest record per key where the movement was
// significant, largest absolute movement first. New series are excluded;
// a first observation has nothing to move from.
func (t *Tracker) Significant() []model.LineMovementRecord {
	current := t.AllCurrent()

	out := make([]model.LineMovementRecord, 0, len(current))
	for _, rec := range current {
		if rec.Significant && rec.Direction != model.DirectionNew {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return math.Abs(out[i].Movement) > math.Abs(out[j].Movement)
	})
	return out
}

// Summary reports aggregate tracker counts.
func (t *Tracker) Summary() model.TrackerSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	players := make(map[string]struct{}, len(t.history))
	for key := range t.history {
		players[key.Player] = struct{}{}
	}

	return model.TrackerSummary{
		TrackedPlayers:       len(players),
		TrackedKeys:          len(t.history),
		MovementsRecorded:    t.totalRecorded,
		SignificantMovements: t.totalSignificant,
	}
}

// PruneOlderThan drops history entries observed before cutoff and returns
// how many were removed. Keys whose history empties are dropped entirely;
// per-key recorded counts are kept so history_count stays monotonic.
func (t *Tracker) PruneOlderThan(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, entries := range t.history {
		kept := entries[:0]
		for _, rec := range entries {
			if rec.LastUpdated.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, rec)
		}
		if len(kept) == 0 {
			delete(t.history, key)
			continue
		}
		t.history[key] = kept
	}
	return removed
}

// isSignificant applies both the absolute and the relative test: a
// 1.0-point move matters more on a line of 10 than a line of 40.
func (t *Tracker) isSignificant(movement, previous float64) bool {
	abs := math.Abs(movement)
	if abs >= t.absThreshold {
		return true
	}
	return abs/math.Max(math.Abs(previous), epsilon) >= t.relThreshold
}

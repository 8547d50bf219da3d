package movement

// TrackerOption applies a configuration option to the Tracker.
type TrackerOption func(*Tracker)

// WithThresholds sets the absolute and relative significance thresholds.
func WithThresholds(abs, rel float64) TrackerOption {
	return func(t *Tracker) {
		if abs > 0 {
			t.absThreshold = abs
		}
		if rel > 0 {
			t.relThreshold = rel
		}
	}
}

// WithMaxEntries caps the per-key history length. 0 or negative means
// uncapped.
func WithMaxEntries(n int) TrackerOption {
	return func(t *Tracker) {
		t.maxEntries = n
	}
}

// Package service provides the core business service that implements
// the dependencies required by the HTTP API: the per-cycle aggregation
// of projections, line movements, and value opportunities.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nvoss/propsight/internal/adapters/providers"
	"github.com/nvoss/propsight/internal/adapters/repository"
	"github.com/nvoss/propsight/internal/domain/model"
	"github.com/nvoss/propsight/internal/domain/movement"
	"github.com/nvoss/propsight/internal/domain/projection"
	"github.com/nvoss/propsight/internal/domain/types"
	"github.com/nvoss/propsight/internal/domain/value"
	"github.com/nvoss/propsight/pkg/logger"
	"github.com/nvoss/propsight/pkg/metrics"
)

// Service orchestrates one refresh cycle at a time: project every player
// stat, record every platform line into the movement tracker, attach value
// opportunities, and publish the bundle snapshot. It is the only component
// with side effects beyond pure computation.
type Service struct {
	mu sync.RWMutex

	// refreshMu serializes every state-mutating cycle. A refresh that
	// arrives while one is in flight is rejected, not queued.
	refreshMu sync.Mutex

	// Collaborators (fixture-backed defaults when not injected)
	statsProvider projection.StatsProvider
	lineSource    providers.LineSource
	matchSource   providers.MatchSource
	rosterSource  providers.RosterSource

	// Core components, built on Start
	store     *repository.BundleStore
	lineStore *movement.LineStore
	tracker   *movement.Tracker
	projector *projection.Model
	detector  *value.Detector

	// Configuration
	statTypes             []model.StatType
	refreshInterval       time.Duration
	historyRetention      time.Duration
	historyMaxEntries     int
	baselines             map[model.StatType]float64
	defaultBaseline       float64
	clampMin, clampMax    float64
	formSampleMin         int
	teamSampleMin         int
	movementAbsThreshold  float64
	movementRelThreshold  float64
	opportunityThresholds map[model.StatType]float64
	opportunityDefault    float64
	confidenceFloor       float64

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		statTypes:            []model.StatType{model.StatKills, model.StatHeadshots},
		refreshInterval:      5 * time.Minute,
		historyRetention:     24 * time.Hour,
		historyMaxEntries:    50,
		baselines:            map[model.StatType]float64{model.StatKills: 32.0, model.StatHeadshots: 16.0},
		defaultBaseline:      20.0,
		clampMin:             0.85,
		clampMax:             1.15,
		formSampleMin:        5,
		teamSampleMin:        10,
		movementAbsThreshold: 1.0,
		movementRelThreshold: 0.08,
		opportunityThresholds: map[model.StatType]float64{
			model.StatKills:     3.0,
			model.StatHeadshots: 2.0,
		},
		opportunityDefault: 1.5,
		confidenceFloor:    60,
		stopCh:             make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes components, runs the initial refresh, and starts the
// periodic refresh loop when an interval is configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting projection service...")

	if s.statsProvider == nil || s.lineSource == nil || s.matchSource == nil || s.rosterSource == nil {
		static := providers.NewStatic()
		if s.statsProvider == nil {
			s.statsProvider = static
		}
		if s.lineSource == nil {
			s.lineSource = static
		}
		if s.matchSource == nil {
			s.matchSource = static
		}
		if s.rosterSource == nil {
			s.rosterSource = static
		}
		s.logger.Info(ctx, "using fixture providers")
	}

	s.store = repository.NewBundleStore()
	s.lineStore = movement.NewLineStore()
	s.tracker = movement.NewTracker(s.lineStore,
		movement.WithThresholds(s.movementAbsThreshold, s.movementRelThreshold),
		movement.WithMaxEntries(s.historyMaxEntries),
	)
	s.projector = projection.New(s.statsProvider,
		projection.WithBaselines(s.baselines, s.defaultBaseline),
		projection.WithClampBounds(s.clampMin, s.clampMax),
		projection.WithSampleThresholds(s.formSampleMin, s.teamSampleMin),
	)
	s.detector = value.New(
		value.WithThresholds(s.opportunityThresholds, s.opportunityDefault),
		value.WithConfidenceFloor(s.confidenceFloor),
	)

	s.started = true
	s.mu.Unlock()

	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "initial refresh failed", logger.Error(err))
	}

	if s.refreshInterval > 0 {
		go s.refreshLoop(ctx)
	}

	s.logger.Info(ctx, "projection service started",
		logger.Int("stat_types", len(s.statTypes)),
		logger.Any("refresh_interval", s.refreshInterval),
	)

	return nil
}

// Stop halts the periodic refresh loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "projection service stopped")
}

// refreshLoop drives periodic refresh cycles until ctx or Stop.
func (s *Service) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				s.logger.Warn(ctx, "periodic refresh skipped", logger.Error(err))
			}
		}
	}
}

// Refresh runs one full aggregation cycle. Cycles are serialized: a call
// while another refresh is in flight returns ErrRefreshInFlight. Provider
// failures degrade the output rather than failing the cycle.
func (s *Service) Refresh(ctx context.Context) (types.RefreshResult, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return types.RefreshResult{}, ErrNotStarted
	}

	if !s.refreshMu.TryLock() {
		return types.RefreshResult{}, ErrRefreshInFlight
	}
	defer s.refreshMu.Unlock()

	start := time.Now()
	now := start.UTC()

	matches, err := s.matchSource.UpcomingMatches(ctx)
	if err != nil {
		// Keep serving the previous snapshot.
		s.logger.Warn(ctx, "match source unavailable; keeping previous snapshot", logger.Error(err))
		metrics.RecordRefresh("degraded", time.Since(start))
		return s.resultFromSnapshot(ctx), nil
	}

	bundles := make([]model.MatchBundle, 0, len(matches))
	for _, m := range matches {
		bundles = append(bundles, s.buildBundle(ctx, m, now))
	}

	s.store.ReplaceAll(ctx, bundles, now)

	if s.historyRetention > 0 {
		if pruned := s.tracker.PruneOlderThan(now.Add(-s.historyRetention)); pruned > 0 {
			s.logger.Debug(ctx, "pruned line history", logger.Int("removed", pruned))
		}
	}

	summary := s.tracker.Summary()
	metrics.UpdateTrackerGauges(summary.TrackedPlayers, summary.TrackedKeys)

	result := s.resultFromSnapshot(ctx)
	metrics.RecordRefresh("ok", time.Since(start))

	s.logger.Info(ctx, "refresh cycle complete",
		logger.Int("matches", result.Matches),
		logger.Int("projections", result.Projections),
		logger.Int("opportunities", result.Opportunities),
	)

	return result, nil
}

// buildBundle aggregates one match. Players are processed independently;
// one player's missing data never aborts the rest.
func (s *Service) buildBundle(ctx context.Context, m model.Match, now time.Time) model.MatchBundle {
	var annotated []model.AnnotatedProjection

	sides := []struct{ team, opponent string }{
		{m.Team1, m.Team2},
		{m.Team2, m.Team1},
	}
	for _, side := range sides {
		names, err := s.rosterSource.Roster(ctx, side.team)
		if err != nil {
			s.logger.Warn(ctx, "no roster for team",
				logger.String("team", side.team), logger.Error(err))
			continue
		}
		for _, player := range names {
			for _, stat := range s.statTypes {
				annotated = append(annotated, s.annotate(ctx, player, side.team, side.opponent, stat, now))
			}
		}
	}

	return model.MatchBundle{Match: m, Projections: annotated, LastUpdated: now}
}

// annotate projects one player stat, records each platform line into the
// tracker, and attaches any value opportunities.
func (s *Service) annotate(ctx context.Context, player, team, opponent string, stat model.StatType, now time.Time) model.AnnotatedProjection {
	proj := s.projector.Project(ctx, player, team, opponent, stat)

	lines, err := s.lineSource.CurrentLines(ctx, player, stat)
	if err != nil {
		s.logger.Warn(ctx, "line source unavailable for player",
			logger.String("player", player), logger.Error(err))
		metrics.RecordProviderFallback("lines")
		lines = nil
	}

	for _, line := range lines {
		key := model.NewStatKey(player, line.Stat, line.Platform)
		ts := line.ObservedAt
		if ts.IsZero() {
			ts = now
		}
		s.tracker.Record(key, line.Line, ts)
	}

	return model.AnnotatedProjection{
		Projection:    proj,
		Lines:         lines,
		Opportunities: s.detector.Evaluate(proj, lines),
	}
}

// ApplyManualLines feeds a manual bulk import for one platform through the
// line store and movement tracker, as if it came from a line source.
// Malformed rows are rejected and reported; they never abort the batch.
func (s *Service) ApplyManualLines(ctx context.Context, platform string, rows []types.ManualLine) types.BatchResult {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	p := model.ParsePlatform(platform)
	now := time.Now().UTC()

	var res types.BatchResult
	for i, row := range rows {
		if err := validateManualLine(row); err != nil {
			res.Rejected++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			metrics.RecordManualRow("rejected")
			continue
		}
		key := model.NewStatKey(row.PlayerName, model.ParseStatType(row.StatType), p)
		s.tracker.Record(key, row.Line, now)
		res.Accepted++
		metrics.RecordManualRow("accepted")
	}

	summary := s.tracker.Summary()
	metrics.UpdateTrackerGauges(summary.TrackedPlayers, summary.TrackedKeys)

	s.logger.Info(ctx, "manual line import",
		logger.String("platform", string(p)),
		logger.Int("accepted", res.Accepted),
		logger.Int("rejected", res.Rejected),
	)

	return res
}

// Bundles returns the current snapshot of match bundles.
func (s *Service) Bundles(ctx context.Context) []model.MatchBundle {
	return s.store.Bundles(ctx)
}

// Bundle returns one match bundle by id.
func (s *Service) Bundle(ctx context.Context, id string) (model.MatchBundle, error) {
	return s.store.Bundle(ctx, id)
}

// Stats aggregates the snapshot for the dashboard's top line.
func (s *Service) Stats(ctx context.Context) types.AggregateStats {
	return s.store.Stats(ctx)
}

// Movements returns the latest movement record per tracked key.
func (s *Service) Movements(_ context.Context) []model.LineMovementRecord {
	return s.tracker.AllCurrent()
}

// SignificantMovements returns only the significant latest records.
func (s *Service) SignificantMovements(_ context.Context) []model.LineMovementRecord {
	return s.tracker.Significant()
}

// TrackerSummary reports aggregate tracker counts.
func (s *Service) TrackerSummary(_ context.Context) model.TrackerSummary {
	return s.tracker.Summary()
}

// ModelInfo reports model and threshold configuration for the dashboard.
func (s *Service) ModelInfo(_ context.Context) map[string]interface{} {
	info := s.projector.Info()
	info["movement_abs_threshold"] = s.movementAbsThreshold
	info["movement_rel_threshold"] = s.movementRelThreshold
	info["confidence_floor"] = s.detector.ConfidenceFloor()

	thresholds := make(map[string]float64, len(s.opportunityThresholds))
	for stat := range s.opportunityThresholds {
		thresholds[string(stat)] = s.detector.Threshold(stat)
	}
	info["opportunity_thresholds"] = thresholds
	info["opportunity_default_threshold"] = s.opportunityDefault
	return info
}

func (s *Service) resultFromSnapshot(ctx context.Context) types.RefreshResult {
	stats := s.store.Stats(ctx)
	res := types.RefreshResult{
		Matches:       stats.TotalMatches,
		Projections:   stats.TotalProjections,
		Opportunities: stats.ValueOpportunities,
	}
	if stats.LastRefresh != nil {
		res.LastRefresh = *stats.LastRefresh
	}
	return res
}

func validateManualLine(row types.ManualLine) error {
	switch {
	case strings.TrimSpace(row.PlayerName) == "":
		return fmt.Errorf("missing player_name")
	case strings.TrimSpace(row.StatType) == "":
		return fmt.Errorf("missing stat_type")
	case row.Line <= 0:
		return fmt.Errorf("line must be positive")
	}
	return nil
}

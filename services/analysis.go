package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"growth-hub/models"
	"growth-hub/scoring"
	"growth-hub/scraper"
	"growth-hub/storage"
	"growth-hub/utils"
)

// maxStoredProducts caps the normalized listings persisted per platform.
const maxStoredProducts = 10

// RunStatus is the lifecycle state of a background analysis.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunState tracks one analysis started with Start.
type RunState struct {
	RunID      uuid.UUID  `json:"run_id"`
	BusinessID int64      `json:"business_id"`
	OwnerID    int64      `json:"-"`
	Status     RunStatus  `json:"status"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Result     *RunResult `json:"result,omitempty"`
}

// RunResult is the outcome of one analysis run.
type RunResult struct {
	RunID     uuid.UUID                 `json:"run_id"`
	Business  models.Business           `json:"business"`
	Queries   []string                  `json:"queries"`
	Analytics []models.PlatformAnalytic `json:"analytics"`
	Insights  []models.Insight          `json:"insights"`
}

// AnalysisOptions configures an AnalysisService.
type AnalysisOptions struct {
	Platforms          []models.Platform
	QueriesPerPlatform int
	MaxConcurrency     int
	Interval           time.Duration
}

// AnalysisService collects, scores and stores platform analyses for a
// business.
type AnalysisService struct {
	collector scraper.Collector
	store     storage.AnalysisStore
	raw       storage.RawListingWriter
	analyzer  *Analyzer
	logger    *utils.Logger
	opts      AnalysisOptions

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.RWMutex
	runs map[uuid.UUID]*RunState
}

// NewAnalysisService creates an AnalysisService. raw may be nil to skip the
// CSV dump of collector output.
func NewAnalysisService(collector scraper.Collector, store storage.AnalysisStore, raw storage.RawListingWriter,
	logger *utils.Logger, opts AnalysisOptions) *AnalysisService {
	if len(opts.Platforms) == 0 {
		opts.Platforms = []models.Platform{models.Amazon, models.Flipkart, models.Instagram, models.YouTube}
	}
	if opts.QueriesPerPlatform < 1 {
		opts.QueriesPerPlatform = 2
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AnalysisService{
		collector: collector,
		store:     store,
		raw:       raw,
		analyzer:  NewAnalyzer(logger),
		logger:    logger,
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		runs:      make(map[uuid.UUID]*RunState),
	}
}

// Run analyzes every configured platform for b and replaces the business's
// stored analytics and insights with the results.
func (s *AnalysisService) Run(ctx context.Context, b models.Business) (*RunResult, error) {
	return s.run(ctx, uuid.New(), b)
}

// Start runs an analysis in the background and returns its run ID.
func (s *AnalysisService) Start(b models.Business) uuid.UUID {
	runID := uuid.New()

	s.mu.Lock()
	s.runs[runID] = &RunState{
		RunID:      runID,
		BusinessID: b.ID,
		OwnerID:    b.OwnerID,
		Status:     RunPending,
		StartedAt:  time.Now(),
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.update(runID, func(st *RunState) { st.Status = RunRunning })
		result, err := s.run(s.ctx, runID, b)
		s.update(runID, func(st *RunState) {
			now := time.Now()
			st.FinishedAt = &now
			st.Result = result
			if err != nil {
				st.Status = RunFailed
				st.Error = err.Error()
				return
			}
			st.Status = RunCompleted
		})
	}()

	return runID
}

// Status returns a snapshot of a run started with Start.
func (s *AnalysisService) Status(runID uuid.UUID) (RunState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.runs[runID]
	if !ok {
		return RunState{}, false
	}
	return *st, true
}

// Close cancels background runs and waits for them to finish.
func (s *AnalysisService) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *AnalysisService) update(runID uuid.UUID, fn func(*RunState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.runs[runID]; ok {
		fn(st)
	}
}

type platformResult struct {
	analytic models.PlatformAnalytic
	listings []models.Listing
}

func (s *AnalysisService) run(ctx context.Context, runID uuid.UUID, b models.Business) (*RunResult, error) {
	start := time.Now()
	s.logger.Info("[analysis] Run %s started for business %d (%s, %s)", runID, b.ID, b.Name, b.Industry)

	queries := GenerateSearchQueries(b.Name, b.Description, b.Industry)
	if len(queries) > s.opts.QueriesPerPlatform {
		queries = queries[:s.opts.QueriesPerPlatform]
	}
	s.logger.Info("[analysis] Queries: %q", queries)

	results := make([]platformResult, len(s.opts.Platforms))
	pool := utils.NewWorkerPool(s.opts.MaxConcurrency, s.opts.Interval)
	for i, platform := range s.opts.Platforms {
		pool.Submit(func() {
			results[i] = s.analyzePlatform(ctx, platform, queries, b.Industry)
		})
	}
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis: run %s: %w", runID, err)
	}

	result := &RunResult{RunID: runID, Business: b, Queries: queries}
	var errs []error
	for _, r := range results {
		a := r.analytic
		a.RunID = runID
		a.BusinessID = b.ID
		result.Analytics = append(result.Analytics, a)

		stored := r.listings[:min(len(r.listings), maxStoredProducts)]
		if len(stored) == 0 {
			continue
		}
		if err := s.store.SaveProducts(ctx, b.ID, runID, stored); err != nil {
			s.logger.Error("[analysis] Saving %s products failed: %v", a.Platform, err)
			errs = append(errs, err)
		}
	}
	sort.SliceStable(result.Analytics, func(i, j int) bool {
		return result.Analytics[i].RecommendationScore > result.Analytics[j].RecommendationScore
	})

	for _, in := range scoring.GenerateInsights(b.Industry) {
		in.RunID = runID
		in.BusinessID = b.ID
		result.Insights = append(result.Insights, in)
	}

	if err := s.store.ReplaceAnalytics(ctx, b.ID, result.Analytics); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.ReplaceInsights(ctx, b.ID, result.Insights); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return result, fmt.Errorf("analysis: run %s: %w", runID, err)
	}

	s.logger.Info("[analysis] Run %s finished in %v: %d platforms, %d insights",
		runID, time.Since(start).Round(time.Millisecond), len(result.Analytics), len(result.Insights))
	return result, nil
}

// analyzePlatform collects the platform's full batch before scoring it. A
// failed collection is scored as an empty batch.
func (s *AnalysisService) analyzePlatform(ctx context.Context, platform models.Platform, queries []string, industry string) platformResult {
	raw, err := s.collector.Collect(ctx, platform, queries)
	if err != nil {
		s.logger.Error("[analysis] Collecting %s failed: %v", platform, err)
	}
	s.logger.Info("[analysis] %s: collected %d raw listings", platform, len(raw))

	if s.raw != nil && len(raw) > 0 {
		if err := s.raw.WriteRaw(raw); err != nil {
			s.logger.Warn("[analysis] CSV write for %s failed: %v", platform, err)
		}
	}

	analytic, listings := s.analyzer.AnalyzePlatform(platform, raw, industry)
	return platformResult{analytic: analytic, listings: listings}
}

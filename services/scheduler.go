package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"growth-hub/models"
	"growth-hub/storage"
	"growth-hub/utils"
)

// Runner runs a single analysis synchronously.
type Runner interface {
	Run(ctx context.Context, b models.Business) (*RunResult, error)
}

// Scheduler re-analyzes every stored business on a cron schedule. A tick that
// fires while the previous sweep is still running is skipped.
type Scheduler struct {
	cron       *cron.Cron
	businesses storage.BusinessStore
	runner     Runner
	logger     *utils.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler parses schedule (standard five-field cron or a descriptor such
// as "@every 6h") and registers the sweep.
func NewScheduler(schedule string, businesses storage.BusinessStore, runner Runner, logger *utils.Logger) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		businesses: businesses,
		runner:     runner,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		cancel()
		return nil, fmt.Errorf("scheduler: invalid schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins firing the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule, cancels a sweep in progress and waits for it.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweep() {
	businesses, err := s.businesses.ListBusinesses(s.ctx)
	if err != nil {
		s.logger.Error("[scheduler] Listing businesses failed: %v", err)
		return
	}
	s.logger.Info("[scheduler] Re-analyzing %d businesses", len(businesses))

	var failed int
	for _, b := range businesses {
		if s.ctx.Err() != nil {
			return
		}
		if _, err := s.runner.Run(s.ctx, b); err != nil {
			failed++
			s.logger.Error("[scheduler] Business %d: %v", b.ID, err)
		}
	}
	s.logger.Info("[scheduler] Sweep done: %d ok, %d failed", len(businesses)-failed, failed)
}

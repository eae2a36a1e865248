package services

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"auction-engine/internal/domain"
	"auction-engine/pkg/logger"
	"auction-engine/pkg/utils"
)

// CronAuctionScheduler fires a scheduled auction start. Jobs live in the
// scheduler repository; a cron tick polls the due ones and hands them to
// the engine.
type CronAuctionScheduler struct {
	cron   *cron.Cron
	repo   domain.SchedulerRepository
	engine *Engine
	log    logger.Logger
}

func NewCronAuctionScheduler(repo domain.SchedulerRepository, engine *Engine,
	log logger.Logger) *CronAuctionScheduler {
	return &CronAuctionScheduler{
		cron:   cron.New(cron.WithSeconds()),
		repo:   repo,
		engine: engine,
		log:    log,
	}
}

func (s *CronAuctionScheduler) Start(ctx context.Context) error {
	s.log.Info("Starting auction scheduler")

	_, err := s.cron.AddFunc("@every 5s", func() {
		s.processPendingJobs(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *CronAuctionScheduler) Stop() error {
	s.log.Info("Stopping auction scheduler")
	s.cron.Stop()
	return nil
}

// ScheduleStart records a job to start the auction at the given time. Any
// previously pending start is cancelled first.
func (s *CronAuctionScheduler) ScheduleStart(ctx context.Context, startTime time.Time) error {
	if err := s.repo.CancelPendingJobs(ctx); err != nil {
		return err
	}

	job := &domain.ScheduledJob{
		ID:        utils.GenerateID("job"),
		JobType:   domain.JobStartAuction,
		RunAt:     startTime,
		Status:    domain.JobPending,
		CreatedAt: time.Now(),
	}
	return s.repo.CreateJob(ctx, job)
}

func (s *CronAuctionScheduler) processPendingJobs(ctx context.Context) {
	jobs, err := s.repo.GetPendingJobs(ctx, time.Now())
	if err != nil {
		s.log.Error("Failed to get pending jobs", "error", err)
		return
	}

	for _, job := range jobs {
		s.log.Info("Processing job", "job_id", job.ID, "type", job.JobType)

		status := domain.JobExecuted
		switch job.JobType {
		case domain.JobStartAuction:
			if err := s.engine.Start(); err != nil {
				if errors.Is(err, domain.ErrInvalidTransition) {
					// Auction already started or completed; retrying won't help.
					status = domain.JobCancelled
					s.log.Warn("Cancelling stale start job", "job_id", job.ID, "error", err)
				} else {
					s.log.Error("Failed to execute job", "job_id", job.ID, "error", err)
					continue
				}
			}
		default:
			s.log.Warn("Unknown job type", "job_id", job.ID, "type", job.JobType)
			status = domain.JobCancelled
		}

		if err := s.repo.UpdateJobStatus(ctx, job.ID, status); err != nil {
			s.log.Error("Failed to update job status", "job_id", job.ID, "error", err)
		}
	}
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-engine/internal/domain"
	"auction-engine/pkg/logger"
)

type memorySchedulerRepo struct {
	jobs []*domain.ScheduledJob
}

func (r *memorySchedulerRepo) CreateJob(ctx context.Context, job *domain.ScheduledJob) error {
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *memorySchedulerRepo) GetPendingJobs(ctx context.Context, before time.Time) ([]*domain.ScheduledJob, error) {
	var due []*domain.ScheduledJob
	for _, job := range r.jobs {
		if job.Status == domain.JobPending && !job.RunAt.After(before) {
			due = append(due, job)
		}
	}
	return due, nil
}

func (r *memorySchedulerRepo) UpdateJobStatus(ctx context.Context, jobID string, status domain.JobStatus) error {
	for _, job := range r.jobs {
		if job.ID == jobID {
			job.Status = status
			return nil
		}
	}
	return nil
}

func (r *memorySchedulerRepo) CancelPendingJobs(ctx context.Context) error {
	for _, job := range r.jobs {
		if job.Status == domain.JobPending {
			job.Status = domain.JobCancelled
		}
	}
	return nil
}

func newSchedulerFixture(t *testing.T) (*CronAuctionScheduler, *memorySchedulerRepo, *Engine) {
	t.Helper()

	engine, _, _ := newTestEngine(t,
		[]*domain.Lot{{ID: "lot-1", BasePrice: 100000}}, twoTeams())
	repo := &memorySchedulerRepo{}
	scheduler := NewCronAuctionScheduler(repo, engine, logger.NewNop())
	return scheduler, repo, engine
}

func TestScheduleStartCancelsPreviousPendingJob(t *testing.T) {
	scheduler, repo, _ := newSchedulerFixture(t)
	ctx := context.Background()

	require.NoError(t, scheduler.ScheduleStart(ctx, time.Now().Add(time.Hour)))
	require.NoError(t, scheduler.ScheduleStart(ctx, time.Now().Add(2*time.Hour)))

	require.Len(t, repo.jobs, 2)
	assert.Equal(t, domain.JobCancelled, repo.jobs[0].Status)
	assert.Equal(t, domain.JobPending, repo.jobs[1].Status)
}

func TestDueJobStartsTheAuction(t *testing.T) {
	scheduler, repo, engine := newSchedulerFixture(t)
	ctx := context.Background()

	require.NoError(t, scheduler.ScheduleStart(ctx, time.Now().Add(-time.Second)))

	scheduler.processPendingJobs(ctx)

	assert.Equal(t, domain.StatusInProgress, engine.Status())
	assert.Equal(t, domain.JobExecuted, repo.jobs[0].Status)
}

func TestFutureJobIsLeftPending(t *testing.T) {
	scheduler, repo, engine := newSchedulerFixture(t)
	ctx := context.Background()

	require.NoError(t, scheduler.ScheduleStart(ctx, time.Now().Add(time.Hour)))

	scheduler.processPendingJobs(ctx)

	assert.Equal(t, domain.StatusWaiting, engine.Status())
	assert.Equal(t, domain.JobPending, repo.jobs[0].Status)
}

func TestStaleStartJobIsCancelledNotRetried(t *testing.T) {
	scheduler, repo, engine := newSchedulerFixture(t)
	ctx := context.Background()

	// The auction is already running when the job comes due.
	require.NoError(t, engine.Start())
	require.NoError(t, scheduler.ScheduleStart(ctx, time.Now().Add(-time.Second)))

	scheduler.processPendingJobs(ctx)

	assert.Equal(t, domain.JobCancelled, repo.jobs[0].Status)

	// A second tick does not pick it up again.
	scheduler.processPendingJobs(ctx)
	assert.Equal(t, domain.JobCancelled, repo.jobs[0].Status)
}

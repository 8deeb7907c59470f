// Package scheduler runs the background work of the platform: the
// monthly billing run, the daily overdue and quotation-expiry sweeps
// and campaign dispatch. Jobs are executed on a bounded worker pool
// fed by cron triggers.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus tracks a job through its lifecycle.
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobType names the kinds of background work the scheduler knows about.
type JobType string

const (
	// JobTypeBillingRun generates monthly invoices from active registrations
	JobTypeBillingRun JobType = "BILLING_RUN"
	// JobTypeOverdueSweep marks sent invoices past their due date as overdue
	JobTypeOverdueSweep JobType = "OVERDUE_SWEEP"
	// JobTypeQuotationExpiry expires sent quotations past their validity date
	JobTypeQuotationExpiry JobType = "QUOTATION_EXPIRY"
)

// AllDailyJobTypes returns the job types run by the daily sweep.
func AllDailyJobTypes() []JobType {
	return []JobType{JobTypeOverdueSweep, JobTypeQuotationExpiry}
}

// Job is one unit of scheduled work covering a billing period.
type Job struct {
	ID          uuid.UUID
	TenantID    *uuid.UUID // nil means all tenants
	Type        JobType
	PeriodStart time.Time
	PeriodEnd   time.Time
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewJob creates a pending job for the given period.
func NewJob(tenantID *uuid.UUID, jobType JobType, periodStart, periodEnd time.Time, maxRetries int) *Job {
	return &Job{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Type:        jobType,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Status:      JobStatusPending,
		MaxRetries:  maxRetries,
	}
}

// Start marks the job as running and clears any previous error.
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful.
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed with the given error text.
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry reports whether a failed job has retries left.
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry returns the job to pending with a not-before time.
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}

// JobExecutor carries out a single job.
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// SchedulerConfig holds worker pool and retry settings.
type SchedulerConfig struct {
	Enabled           bool
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultSchedulerConfig returns the settings used when the config file
// leaves the scheduler section empty.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:           true,
		MaxConcurrentJobs: 3,
		JobTimeout:        30 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        5 * time.Minute,
	}
}

const jobQueueCapacity = 100

// Scheduler executes submitted jobs on a bounded worker pool.
type Scheduler struct {
	config   SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger

	queue   chan *Job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewScheduler creates a stopped scheduler. Call Start before
// submitting jobs.
func NewScheduler(config SchedulerConfig, executor JobExecutor, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		queue:    make(chan *Job, jobQueueCapacity),
	}
}

// Start launches the worker pool. Starting a running scheduler is a
// no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.running = true

	ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.runWorker(ctx, i)
	}

	s.logger.Info("Job scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout))
	return nil
}

// Stop drains the worker pool, waiting until the workers exit or ctx
// expires. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	close(s.queue)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Job scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitJob queues a job for execution without blocking.
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}

	select {
	case s.queue <- job:
		s.logger.Debug("Job queued",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)))
		return nil
	default:
		return ErrJobQueueFull
	}
}

// ScheduleDailySweeps queues the overdue sweep and quotation expiry,
// covering everything up to the start of today.
func (s *Scheduler) ScheduleDailySweeps(tenantID *uuid.UUID) error {
	now := time.Now()
	periodEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	periodStart := periodEnd.AddDate(0, 0, -1)

	for _, jobType := range AllDailyJobTypes() {
		job := NewJob(tenantID, jobType, periodStart, periodEnd, s.config.RetryAttempts)
		if err := s.SubmitJob(job); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleBillingRun queues the monthly billing run for the given
// calendar month.
func (s *Scheduler) ScheduleBillingRun(tenantID *uuid.UUID, year int, month time.Month) error {
	periodStart := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	periodEnd := periodStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	job := NewJob(tenantID, JobTypeBillingRun, periodStart, periodEnd, s.config.RetryAttempts)
	return s.SubmitJob(job)
}

func (s *Scheduler) runWorker(ctx context.Context, workerID int) {
	defer s.wg.Done()
	s.logger.Debug("Job worker running", zap.Int("worker_id", workerID))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Job worker draining", zap.Int("worker_id", workerID))
			return
		case job, ok := <-s.queue:
			if !ok {
				return
			}
			s.run(ctx, job, workerID)
		}
	}
}

// run executes one job, retrying through the queue on failure.
func (s *Scheduler) run(ctx context.Context, job *Job, workerID int) {
	// A retried job waits out its backoff in the queue.
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		s.requeue(job)
		return
	}

	job.Start()
	s.logger.Info("Job picked up",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)))

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := s.executor.Execute(jobCtx, job); err != nil {
		s.handleFailure(job, workerID, err)
		return
	}

	job.Complete()
	s.logger.Info("Job finished",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)))
}

func (s *Scheduler) handleFailure(job *Job, workerID int, err error) {
	job.Fail(err.Error())
	s.logger.Error("Job run failed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.Error(err))

	if !job.ShouldRetry() {
		return
	}
	job.ScheduleRetry(s.config.RetryDelay)
	s.logger.Info("Job will be retried",
		zap.String("job_id", job.ID.String()),
		zap.Int("retry_count", job.RetryCount),
		zap.Int("max_retries", job.MaxRetries))
	s.requeue(job)
}

func (s *Scheduler) requeue(job *Job) {
	select {
	case s.queue <- job:
	default:
		s.logger.Warn("Retry dropped, queue is full",
			zap.String("job_id", job.ID.String()))
	}
}

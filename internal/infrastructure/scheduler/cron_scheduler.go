package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/identity"
	"github.com/square15/backend/internal/domain/shared"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The loop wakes once a minute and compares wall-clock time against the
// configured run times.
const cronTickerInterval = 1 * time.Minute

// CronSchedulerConfig drives the wall-clock triggers layered on top of
// the job scheduler.
type CronSchedulerConfig struct {
	Enabled bool

	// Daily sweeps (overdue invoices, quotation expiry) fire at
	// DailyHour:DailyMinute in server time.
	DailyHour   int
	DailyMinute int

	// The monthly billing run fires on BillingDay at
	// BillingHour:BillingMinute. BillingDay is capped at 28 so short
	// months never skip a run.
	BillingDay    int
	BillingHour   int
	BillingMinute int

	// Raw cron expressions from configuration, parsed into the fields
	// above at startup.
	DailyCronSchedule   string
	BillingCronSchedule string

	JobTimeout        time.Duration
	MaxConcurrentJobs int
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultCronSchedulerConfig runs the daily sweeps at 02:00 and the
// billing run on the 1st at 04:00.
func DefaultCronSchedulerConfig() CronSchedulerConfig {
	return CronSchedulerConfig{
		Enabled:             true,
		DailyHour:           2,
		DailyMinute:         0,
		BillingDay:          1,
		BillingHour:         4,
		BillingMinute:       0,
		DailyCronSchedule:   "0 2 * * *",
		BillingCronSchedule: "0 4 1 * *",
		JobTimeout:          30 * time.Minute,
		MaxConcurrentJobs:   3,
		RetryAttempts:       3,
		RetryDelay:          5 * time.Minute,
	}
}

// cronField reads one numeric field of a cron expression. Wildcards and
// unparseable values fall back to the given default.
func cronField(field string, fallback int) int {
	if field == "" || field == "*" {
		return fallback
	}
	n, err := strconv.Atoi(field)
	if err != nil {
		return fallback
	}
	return n
}

// ParseCronSchedule reads the minute and hour out of a daily cron
// expression of the form "minute hour * * *". An empty or short
// expression yields the 02:00 default.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	hour, minute = 2, 0

	if fields := strings.Fields(cronExpr); len(fields) >= 2 {
		minute = cronField(fields[0], minute)
		hour = cronField(fields[1], hour)
	}

	if minute < 0 || minute > 59 {
		return 2, 0, fmt.Errorf("%w: cron minute %d outside 0-59", ErrInvalidConfig, minute)
	}
	if hour < 0 || hour > 23 {
		return 2, 0, fmt.Errorf("%w: cron hour %d outside 0-23", ErrInvalidConfig, hour)
	}
	return hour, minute, nil
}

// ParseMonthlyCronSchedule reads the minute, hour and day of month out of
// a monthly cron expression of the form "minute hour day * *". An empty
// or short expression yields the default of the 1st at 04:00. Days past
// the 28th are rejected so February never skips a billing run.
func ParseMonthlyCronSchedule(cronExpr string) (day, hour, minute int, err error) {
	day, hour, minute = 1, 4, 0

	if fields := strings.Fields(cronExpr); len(fields) >= 3 {
		minute = cronField(fields[0], minute)
		hour = cronField(fields[1], hour)
		day = cronField(fields[2], day)
	}

	if minute < 0 || minute > 59 {
		return 1, 4, 0, fmt.Errorf("%w: cron minute %d outside 0-59", ErrInvalidConfig, minute)
	}
	if hour < 0 || hour > 23 {
		return 1, 4, 0, fmt.Errorf("%w: cron hour %d outside 0-23", ErrInvalidConfig, hour)
	}
	if day < 1 || day > 28 {
		return 1, 4, 0, fmt.Errorf("%w: cron day %d outside 1-28", ErrInvalidConfig, day)
	}
	return day, hour, minute, nil
}

// SchedulerJobRecord is one row in the scheduler_jobs audit table. A nil
// TenantID marks a platform-wide run.
type SchedulerJobRecord struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	TenantID    *uuid.UUID `gorm:"column:tenant_id;type:uuid"`
	JobType     string     `gorm:"column:job_type;size:50;not null"`
	Status      string     `gorm:"column:last_run_status;size:20"`
	Error       string     `gorm:"column:last_error;type:text"`
	StartedAt   *time.Time `gorm:"column:last_run_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	NextRunAt   *time.Time `gorm:"column:next_run_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (SchedulerJobRecord) TableName() string { return "scheduler_jobs" }

// SchedulerJobRepository writes the audit trail of scheduled runs.
type SchedulerJobRepository struct {
	db *gorm.DB
}

func NewSchedulerJobRepository(db *gorm.DB) *SchedulerJobRepository {
	return &SchedulerJobRepository{db: db}
}

// RecordJobStart opens an audit row in RUNNING state and returns its ID.
func (r *SchedulerJobRepository) RecordJobStart(ctx context.Context, tenantID *uuid.UUID, jobType string) (uuid.UUID, error) {
	now := time.Now()
	row := SchedulerJobRecord{
		ID:        uuid.New(),
		TenantID:  tenantID,
		JobType:   jobType,
		Status:    string(JobStatusRunning),
		StartedAt: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return uuid.Nil, err
	}
	return row.ID, nil
}

// RecordJobComplete closes the audit row with the run outcome.
func (r *SchedulerJobRepository) RecordJobComplete(ctx context.Context, jobID uuid.UUID, success bool, errMsg string) error {
	outcome := JobStatusSuccess
	if !success {
		outcome = JobStatusFailed
	}

	now := time.Now()
	cols := map[string]any{
		"last_run_status": string(outcome),
		"last_error":      errMsg,
		"completed_at":    now,
		"updated_at":      now,
	}
	return r.db.WithContext(ctx).Model(&SchedulerJobRecord{}).Where("id = ?", jobID).Updates(cols).Error
}

// GetLastJobStatus loads the most recent run of the given job type, for
// one tenant or (with a nil tenantID) for the platform-wide jobs.
func (r *SchedulerJobRepository) GetLastJobStatus(ctx context.Context, tenantID *uuid.UUID, jobType string) (*SchedulerJobRecord, error) {
	q := r.db.WithContext(ctx).Where("job_type = ?", jobType)
	if tenantID == nil {
		q = q.Where("tenant_id IS NULL")
	} else {
		q = q.Where("tenant_id = ?", *tenantID)
	}

	var row SchedulerJobRecord
	if err := q.Order("last_run_at DESC").First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CronScheduler drives the daily sweeps and the monthly billing run over
// the underlying job scheduler.
type CronScheduler struct {
	config     CronSchedulerConfig
	tenantRepo identity.TenantRepository
	jobRepo    *SchedulerJobRepository
	logger     *zap.Logger
	scheduler  *Scheduler

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// Guards against double-firing when several ticks land inside the
	// scheduled minute.
	lastDailyRunDate    string
	lastBillingRunMonth string
	nextDailyRunAt      *time.Time
}

func NewCronScheduler(
	config CronSchedulerConfig,
	executor JobExecutor,
	tenantRepo identity.TenantRepository,
	jobRepo *SchedulerJobRepository,
	logger *zap.Logger,
) *CronScheduler {
	inner := NewScheduler(SchedulerConfig{
		Enabled:           config.Enabled,
		MaxConcurrentJobs: config.MaxConcurrentJobs,
		JobTimeout:        config.JobTimeout,
		RetryAttempts:     config.RetryAttempts,
		RetryDelay:        config.RetryDelay,
	}, executor, logger)

	return &CronScheduler{
		config:     config,
		tenantRepo: tenantRepo,
		jobRepo:    jobRepo,
		logger:     logger,
		scheduler:  inner,
	}
}

// Start brings up the job scheduler and the minute ticker. Calling Start
// on a running scheduler is a no-op.
func (s *CronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextDailyRunTime()

	s.wg.Add(1)
	go s.cronLoop(loopCtx)

	s.logger.Info("Cron scheduler started",
		zap.Int("daily_hour", s.config.DailyHour),
		zap.Int("daily_minute", s.config.DailyMinute),
		zap.Int("billing_day", s.config.BillingDay),
		zap.Int("billing_hour", s.config.BillingHour),
		zap.Timep("next_daily_run_at", s.nextDailyRunAt),
	)
	return nil
}

// Stop halts the ticker, waits for the loop to exit, then stops the job
// scheduler. The ctx deadline bounds the wait.
func (s *CronScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	loopDone := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(loopDone)
	}()

	select {
	case <-loopDone:
		if err := s.scheduler.Stop(ctx); err != nil {
			s.logger.Warn("Job scheduler did not stop cleanly", zap.Error(err))
		}
		s.logger.Info("Cron scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Cron scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *CronScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRunDaily(now) {
				s.runDailySweeps(ctx)
				s.calculateNextDailyRunTime()
			}
			if s.shouldRunBilling(now) {
				s.runBillingRun(ctx, now)
			}
		}
	}
}

// shouldRunDaily matches the configured time of day and dedupes on the
// calendar date so the sweeps fire at most once per day.
func (s *CronScheduler) shouldRunDaily(now time.Time) bool {
	if now.Hour() != s.config.DailyHour || now.Minute() != s.config.DailyMinute {
		return false
	}
	today := now.Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastDailyRunDate == today {
		return false
	}
	s.lastDailyRunDate = today
	return true
}

// shouldRunBilling matches the configured day and time and dedupes on
// the calendar month.
func (s *CronScheduler) shouldRunBilling(now time.Time) bool {
	if now.Day() != s.config.BillingDay ||
		now.Hour() != s.config.BillingHour ||
		now.Minute() != s.config.BillingMinute {
		return false
	}
	month := now.Format("2006-01")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastBillingRunMonth == month {
		return false
	}
	s.lastBillingRunMonth = month
	return true
}

func (s *CronScheduler) calculateNextDailyRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(),
		s.config.DailyHour, s.config.DailyMinute, 0, 0, now.Location())
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextDailyRunAt = &next
	s.mu.Unlock()
}

// runDailySweeps queues the daily sweeps for every active tenant.
func (s *CronScheduler) runDailySweeps(ctx context.Context) {
	s.logger.Info("Triggering daily sweeps")

	auditID := s.recordStart(ctx, nil, "DAILY_SWEEPS")

	tenantIDs, err := s.activeTenantIDs(ctx)
	if err != nil {
		s.logger.Error("Could not list tenants for daily sweeps", zap.Error(err))
		s.recordComplete(ctx, auditID, false, err.Error())
		return
	}

	for _, tenantID := range tenantIDs {
		if err := s.scheduler.ScheduleDailySweeps(&tenantID); err != nil {
			s.logger.Error("Daily sweeps not queued for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
	}

	s.recordComplete(ctx, auditID, true, "")
}

// runBillingRun queues the monthly billing run for every active tenant.
func (s *CronScheduler) runBillingRun(ctx context.Context, now time.Time) {
	s.logger.Info("Triggering monthly billing run",
		zap.Int("year", now.Year()),
		zap.String("month", now.Month().String()),
	)

	auditID := s.recordStart(ctx, nil, string(JobTypeBillingRun))

	tenantIDs, err := s.activeTenantIDs(ctx)
	if err != nil {
		s.logger.Error("Could not list tenants for billing run", zap.Error(err))
		s.recordComplete(ctx, auditID, false, err.Error())
		return
	}

	for _, tenantID := range tenantIDs {
		if err := s.scheduler.ScheduleBillingRun(&tenantID, now.Year(), now.Month()); err != nil {
			s.logger.Error("Billing run not queued for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
	}

	s.recordComplete(ctx, auditID, true, "")
}

func (s *CronScheduler) activeTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	tenants, err := s.tenantRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(tenants))
	for _, tenant := range tenants {
		if tenant.IsActive() {
			ids = append(ids, tenant.ID)
		}
	}
	return ids, nil
}

// recordStart opens an audit row, tolerating a missing job repository.
func (s *CronScheduler) recordStart(ctx context.Context, tenantID *uuid.UUID, jobType string) uuid.UUID {
	if s.jobRepo == nil {
		return uuid.Nil
	}
	id, err := s.jobRepo.RecordJobStart(ctx, tenantID, jobType)
	if err != nil {
		s.logger.Warn("Job start not recorded", zap.String("job_type", jobType), zap.Error(err))
		return uuid.Nil
	}
	return id
}

// recordComplete closes the audit row, tolerating a missing repository.
func (s *CronScheduler) recordComplete(ctx context.Context, auditID uuid.UUID, success bool, errMsg string) {
	if s.jobRepo == nil || auditID == uuid.Nil {
		return
	}
	if err := s.jobRepo.RecordJobComplete(ctx, auditID, success, errMsg); err != nil {
		s.logger.Warn("Job completion not recorded", zap.Error(err))
	}
}

// TriggerManualRun fires the daily sweeps for all tenants immediately.
func (s *CronScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	s.runDailySweeps(ctx)
	return nil
}

// TriggerBillingRun queues the billing run for one tenant and period.
func (s *CronScheduler) TriggerBillingRun(ctx context.Context, tenantID uuid.UUID, year int, month time.Month) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	return s.scheduler.ScheduleBillingRun(&tenantID, year, month)
}

// GetStatus reports the scheduler configuration and next run for the
// diagnostics endpoint.
func (s *CronScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]any{
		"enabled":        s.config.Enabled,
		"is_running":     s.isRunning,
		"daily_hour":     s.config.DailyHour,
		"daily_minute":   s.config.DailyMinute,
		"billing_day":    s.config.BillingDay,
		"billing_hour":   s.config.BillingHour,
		"billing_minute": s.config.BillingMinute,
		"job_types":      []JobType{JobTypeBillingRun, JobTypeOverdueSweep, JobTypeQuotationExpiry},
	}
	if s.nextDailyRunAt != nil {
		status["next_daily_run_at"] = s.nextDailyRunAt.Format(time.RFC3339)
	}
	return status
}

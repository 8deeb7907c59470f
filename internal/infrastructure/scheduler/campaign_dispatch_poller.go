package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CampaignDispatcher resolves due campaigns and sends them out.
// Implemented by the CRM application layer.
type CampaignDispatcher interface {
	// DispatchDueCampaigns sends all campaigns scheduled at or before asOf.
	// Returns the number of campaigns dispatched.
	DispatchDueCampaigns(ctx context.Context, asOf time.Time) (int, error)
}

// CampaignDispatchPollerConfig holds configuration for the campaign dispatch poller
type CampaignDispatchPollerConfig struct {
	Enabled      bool
	PollInterval time.Duration
}

// DefaultCampaignDispatchPollerConfig returns default poller configuration
func DefaultCampaignDispatchPollerConfig() CampaignDispatchPollerConfig {
	return CampaignDispatchPollerConfig{
		Enabled:      true,
		PollInterval: time.Minute,
	}
}

// CampaignDispatchPoller periodically checks for scheduled campaigns that are
// due and hands them to the dispatcher
type CampaignDispatchPoller struct {
	config     CampaignDispatchPollerConfig
	dispatcher CampaignDispatcher
	logger     *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewCampaignDispatchPoller creates a new campaign dispatch poller
func NewCampaignDispatchPoller(
	config CampaignDispatchPollerConfig,
	dispatcher CampaignDispatcher,
	logger *zap.Logger,
) (*CampaignDispatchPoller, error) {
	if dispatcher == nil {
		return nil, ErrDispatcherNil
	}
	if config.PollInterval <= 0 {
		config.PollInterval = time.Minute
	}
	return &CampaignDispatchPoller{
		config:     config,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

// Start starts the poll loop
func (p *CampaignDispatchPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = true
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.pollLoop(ctx)

	p.logger.Info("Campaign dispatch poller started",
		zap.Duration("poll_interval", p.config.PollInterval),
	)

	return nil
}

// Stop stops the poll loop
func (p *CampaignDispatchPoller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Campaign dispatch poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pollLoop dispatches due campaigns on every tick
func (p *CampaignDispatchPoller) pollLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			p.dispatchOnce(ctx, now)
		}
	}
}

// dispatchOnce runs a single dispatch pass
func (p *CampaignDispatchPoller) dispatchOnce(ctx context.Context, asOf time.Time) {
	count, err := p.dispatcher.DispatchDueCampaigns(ctx, asOf)
	if err != nil {
		p.logger.Error("Campaign dispatch pass failed", zap.Error(err))
		return
	}
	if count > 0 {
		p.logger.Info("Dispatched due campaigns", zap.Int("count", count))
	}
}

// TriggerNow runs a dispatch pass immediately
func (p *CampaignDispatchPoller) TriggerNow(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	p.mu.Unlock()

	p.dispatchOnce(ctx, time.Now())
	return nil
}

package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/logger"
)

// queueProcessor is a minimal internal interface for the scheduler.
// It matches the ProcessDueQueue method of DispatchService and lets us
// unit test the scheduler with a small fake implementation.
type queueProcessor interface {
	ProcessDueQueue(ctx context.Context) ([]domain.DispatchResult, error)
}

// Scheduler drives the fixed-interval poll loop. The tick body runs
// synchronously inside the loop goroutine, so ticks never overlap: a slow
// tick delays the next one instead of racing it.
type Scheduler struct {
	dispatchService queueProcessor
	interval        time.Duration
	now             func() time.Time

	// Internal state
	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
	mu       sync.RWMutex

	// Statistics
	lastRunAt      time.Time
	messagesSent   int64
	messagesFailed int64
	runsCount      int64
}

func NewScheduler(dispatchService queueProcessor, interval time.Duration) *Scheduler {
	return &Scheduler{
		dispatchService: dispatchService,
		interval:        interval,
		now:             time.Now,
		running:         false,
	}
}

// StartWithInterval overrides the poll interval before starting. Zero or
// negative values keep the configured interval.
func (s *Scheduler) StartWithInterval(ctx context.Context, intervalMinutes int) error {
	if intervalMinutes > 0 {
		s.mu.Lock()
		s.interval = time.Duration(intervalMinutes) * time.Minute
		s.mu.Unlock()
	}

	return s.Start(ctx)
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()

	if s.running {
		s.mu.Unlock()
		logger.Warnf("Scheduler is already running")
		return nil
	}

	s.running = true
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.mu.Unlock()

	logger.Infof("Starting scheduler with interval: %v", s.interval)

	go s.run(ctx)

	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	// Clear running on every exit path so a context-cancelled loop does not
	// leave the scheduler reporting running and refusing to restart.
	defer func() {
		s.mu.Lock()
		s.running = false
		doneChan := s.doneChan
		s.mu.Unlock()
		close(doneChan)
	}()

	s.processTick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Infof("Scheduler running. Next execution in %v", s.interval)

	for {
		select {
		case <-ticker.C:
			s.processTick(ctx)
			logger.Debugf("Next execution in %v", s.interval)

		case <-s.stopChan:
			logger.Warnf("Scheduler received stop signal")
			return

		case <-ctx.Done():
			logger.Warnf("Scheduler context cancelled")
			return
		}
	}
}

func (s *Scheduler) processTick(ctx context.Context) {
	s.mu.Lock()
	s.lastRunAt = s.now()
	s.runsCount++
	runNumber := s.runsCount
	s.mu.Unlock()

	logger.Infof("[Run #%d] Starting queue dispatch at %s", runNumber, s.lastRunAt.Format(time.RFC3339))

	results, err := s.dispatchService.ProcessDueQueue(ctx)
	if err != nil {
		logger.Errorf("[Run #%d] Error processing queue: %v", runNumber, err)
		return
	}

	if len(results) == 0 {
		logger.Debugf("[Run #%d] No due queue items", runNumber)
		return
	}

	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}

	s.mu.Lock()
	s.messagesSent += int64(successCount)
	s.messagesFailed += int64(len(results) - successCount)
	s.mu.Unlock()

	logger.Infof("[Run #%d] Dispatched %d items, %d sent, %d failed",
		runNumber, len(results), successCount, len(results)-successCount)
}

func (s *Scheduler) Stop() error {
	s.mu.Lock()

	if !s.running {
		s.mu.Unlock()
		logger.Warnf("Scheduler is not running")
		return nil
	}

	s.running = false
	stopChan := s.stopChan
	doneChan := s.doneChan
	s.mu.Unlock()

	// Send stop signal
	close(stopChan)

	// Wait for goroutine to finish
	<-doneChan

	logger.Infof("Scheduler stopped")
	return nil
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Scheduler) GetStatus() SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := SchedulerStatus{
		Running:        s.running,
		LastRunAt:      s.lastRunAt,
		MessagesSent:   s.messagesSent,
		MessagesFailed: s.messagesFailed,
		RunsCount:      s.runsCount,
		Interval:       s.interval,
	}

	if s.running && !s.lastRunAt.IsZero() {
		status.NextRunAt = s.lastRunAt.Add(s.interval)
	}

	return status
}

type SchedulerStatus struct {
	Running        bool          `json:"running"`
	LastRunAt      time.Time     `json:"lastRunAt,omitempty"`
	NextRunAt      time.Time     `json:"nextRunAt,omitempty"`
	MessagesSent   int64         `json:"messagesSent"`
	MessagesFailed int64         `json:"messagesFailed"`
	RunsCount      int64         `json:"runsCount"`
	Interval       time.Duration `json:"interval"`
}

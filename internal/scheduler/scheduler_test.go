package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
)

// fakeProcessor is a simple test double for queueProcessor.
type fakeProcessor struct {
	resultsToReturn []domain.DispatchResult
	errToReturn     error

	calls int
}

func (f *fakeProcessor) ProcessDueQueue(ctx context.Context) ([]domain.DispatchResult, error) {
	f.calls++
	return f.resultsToReturn, f.errToReturn
}

func TestScheduler_ProcessTick_MixedResults(t *testing.T) {
	ctx := context.Background()

	processor := &fakeProcessor{
		resultsToReturn: []domain.DispatchResult{
			{Success: true},
			{Success: false},
			{Success: true},
		},
	}
	s := NewScheduler(processor, time.Minute)

	s.processTick(ctx)

	status := s.GetStatus()
	if status.MessagesSent != 2 {
		t.Errorf("expected MessagesSent=2, got %d", status.MessagesSent)
	}
	if status.MessagesFailed != 1 {
		t.Errorf("expected MessagesFailed=1, got %d", status.MessagesFailed)
	}
	if status.RunsCount != 1 {
		t.Errorf("expected RunsCount=1, got %d", status.RunsCount)
	}
	if processor.calls != 1 {
		t.Fatalf("expected 1 call to ProcessDueQueue, got %d", processor.calls)
	}
}

func TestScheduler_ProcessTick_UsesInjectedClock(t *testing.T) {
	ctx := context.Background()

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	processor := &fakeProcessor{}
	s := NewScheduler(processor, time.Minute)
	s.now = func() time.Time { return fixed }
	s.running = true

	s.processTick(ctx)

	status := s.GetStatus()
	if !status.LastRunAt.Equal(fixed) {
		t.Errorf("expected LastRunAt=%v, got %v", fixed, status.LastRunAt)
	}
	if !status.NextRunAt.Equal(fixed.Add(time.Minute)) {
		t.Errorf("expected NextRunAt=%v, got %v", fixed.Add(time.Minute), status.NextRunAt)
	}
}

func TestScheduler_StartAndStopToggleRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processor := &fakeProcessor{}
	s := NewScheduler(processor, 10*time.Millisecond)

	if s.IsRunning() {
		t.Fatalf("expected scheduler to be not running initially")
	}

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if !s.IsRunning() {
		t.Fatalf("expected scheduler to be running after Start")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}

	if s.IsRunning() {
		t.Fatalf("expected scheduler to be not running after Stop")
	}
}

func TestScheduler_ContextCancelClearsRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	processor := &fakeProcessor{}
	s := NewScheduler(processor, time.Minute)

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	cancel()
	<-s.doneChan

	if s.IsRunning() {
		t.Fatalf("expected scheduler to be not running after context cancellation")
	}

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()

	if err := s.Start(ctx2); err != nil {
		t.Fatalf("Start after cancellation returned error: %v", err)
	}
	if !s.IsRunning() {
		t.Fatalf("expected scheduler to restart after context cancellation")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
}

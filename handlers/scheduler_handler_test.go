package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/scheduler"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/validator"
)

type noopProcessor struct{}

func (noopProcessor) ProcessDueQueue(ctx context.Context) ([]domain.DispatchResult, error) {
	return nil, nil
}

func newSchedulerContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validator.New()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/start", nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/start", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestStartScheduler_EmptyBodyStartsWithConfiguredInterval(t *testing.T) {
	sched := scheduler.NewScheduler(noopProcessor{}, time.Minute)
	handler := NewSchedulerHandler(sched, context.Background())

	c, rec := newSchedulerContext("")
	if err := handler.StartScheduler(c); err != nil {
		t.Fatalf("StartScheduler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	if !sched.IsRunning() {
		t.Fatal("expected scheduler to be running")
	}

	if err := sched.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
}

func TestStartScheduler_RejectsNonPositiveInterval(t *testing.T) {
	sched := scheduler.NewScheduler(noopProcessor{}, time.Minute)
	handler := NewSchedulerHandler(sched, context.Background())

	c, rec := newSchedulerContext(`{"intervalMinutes":0}`)
	if err := handler.StartScheduler(c); err != nil {
		t.Fatalf("StartScheduler returned error: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}

	if sched.IsRunning() {
		t.Fatal("expected scheduler to stay stopped after a rejected request")
	}
}

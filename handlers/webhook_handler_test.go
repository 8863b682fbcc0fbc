package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/environments"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/service"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/response"
)

//
// Test fakes – only for this file. The unused store operations return
// neutral values.
//

type fakeQueueStore struct {
	inserted []domain.QueueItem
}

func (s *fakeQueueStore) Insert(ctx context.Context, item *domain.QueueItem) (*domain.QueueItem, error) {
	stored := *item
	stored.ID = int64(len(s.inserted) + 1)
	stored.CreatedAt = time.Now()
	s.inserted = append(s.inserted, stored)
	copied := stored
	return &copied, nil
}

func (s *fakeQueueStore) GetByID(ctx context.Context, id int64) (*domain.QueueItem, error) {
	return nil, nil
}

func (s *fakeQueueStore) GetDue(ctx context.Context, instanceID int64, now time.Time, limit int) ([]domain.QueueItem, error) {
	return nil, nil
}

func (s *fakeQueueStore) MarkSending(ctx context.Context, id int64) (bool, error) { return false, nil }

func (s *fakeQueueStore) MarkAsSent(ctx context.Context, id int64, sentAt time.Time) error {
	return nil
}

func (s *fakeQueueStore) MarkAsFailed(ctx context.Context, id int64, errMsg string) error {
	return nil
}

func (s *fakeQueueStore) Resend(ctx context.Context, id int64, scheduledFor time.Time) error {
	return nil
}

func (s *fakeQueueStore) Delete(ctx context.Context, id int64) error { return nil }

func (s *fakeQueueStore) GetAll(ctx context.Context, status *domain.QueueStatus, page, pageSize int) ([]domain.QueueItem, int64, error) {
	return nil, 0, nil
}

func (s *fakeQueueStore) GetStats(ctx context.Context) (domain.QueueStats, error) {
	return domain.QueueStats{}, nil
}

func (s *fakeQueueStore) FailOrphaned(ctx context.Context, now time.Time, reason string) (int64, error) {
	return 0, nil
}

type fakeTemplateStore struct {
	templates []domain.MessageTemplate
}

func (s *fakeTemplateStore) ListActive(ctx context.Context, userID int64, orderStatus string) ([]domain.MessageTemplate, error) {
	var matched []domain.MessageTemplate
	for _, tpl := range s.templates {
		if tpl.UserID == userID && tpl.OrderStatus == orderStatus && tpl.IsActive {
			matched = append(matched, tpl)
		}
	}
	return matched, nil
}

type fakeInstanceStore struct {
	instance *domain.WhatsAppInstance
}

func (s *fakeInstanceStore) List(ctx context.Context) ([]domain.WhatsAppInstance, error) {
	if s.instance == nil {
		return nil, nil
	}
	return []domain.WhatsAppInstance{*s.instance}, nil
}

func (s *fakeInstanceStore) GetByID(ctx context.Context, id int64) (*domain.WhatsAppInstance, error) {
	if s.instance != nil && s.instance.ID == id {
		return s.instance, nil
	}
	return nil, nil
}

func (s *fakeInstanceStore) GetByWebhookToken(ctx context.Context, token string) (*domain.WhatsAppInstance, error) {
	if s.instance != nil && s.instance.WebhookToken == token {
		return s.instance, nil
	}
	return nil, nil
}

type noopGateway struct{}

func (noopGateway) SendText(ctx context.Context, instance, number, text string) error { return nil }

func newWebhookTestHandler(queue *fakeQueueStore, templates *fakeTemplateStore, instances *fakeInstanceStore) *WebhookHandler {
	svc := service.NewDispatchService(queue, templates, instances, noopGateway{}, environments.DispatchConfig{
		BatchSize:          50,
		PollInterval:       time.Minute,
		DefaultCountryCode: "55",
	})
	return NewWebhookHandler(svc, instances)
}

func postWebhook(t *testing.T, handler *WebhookHandler, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhook/wc/"+token, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("token")
	c.SetParamValues(token)

	if err := handler.HandleOrderEvent(c); err != nil {
		t.Fatalf("HandleOrderEvent returned error: %v", err)
	}

	return rec
}

func TestHandleOrderEvent_EnqueuesRenderedMessage(t *testing.T) {
	queue := &fakeQueueStore{}
	templates := &fakeTemplateStore{
		templates: []domain.MessageTemplate{
			{
				ID: 1, UserID: 7, OrderStatus: "processing", Sequence: 1,
				Content:  "Ola {{nome_cliente}}, pedido {{numero_pedido}} em {{status_pedido}}",
				IsActive: true,
			},
		},
	}
	instances := &fakeInstanceStore{
		instance: &domain.WhatsAppInstance{
			ID: 3, UserID: 7, Name: "loja-demo", CountryCode: "55", WebhookToken: "tok-123",
		},
	}

	handler := newWebhookTestHandler(queue, templates, instances)

	body := `{"orderId": "1001", "status": "processing", "billing": {"first_name": "Ana", "phone": "11987654321"}}`
	rec := postWebhook(t, handler, "tok-123", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	if len(queue.inserted) != 1 {
		t.Fatalf("expected 1 inserted queue item, got %d", len(queue.inserted))
	}

	item := queue.inserted[0]
	if item.Message != "Ola Ana, pedido 1001 em processing" {
		t.Errorf("unexpected rendered message: %q", item.Message)
	}
	if item.Status != domain.StatusPending {
		t.Errorf("expected pending item, got %s", item.Status)
	}
	if item.Phone != "11987654321" {
		t.Errorf("expected raw phone stored, got %q", item.Phone)
	}
	if item.InstanceID == nil || *item.InstanceID != 3 {
		t.Errorf("expected item bound to instance 3")
	}
}

func TestHandleOrderEvent_UnknownToken(t *testing.T) {
	handler := newWebhookTestHandler(&fakeQueueStore{}, &fakeTemplateStore{}, &fakeInstanceStore{})

	rec := postWebhook(t, handler, "bad-token", `{"id": 1, "status": "processing"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleOrderEvent_MissingStatus(t *testing.T) {
	instances := &fakeInstanceStore{
		instance: &domain.WhatsAppInstance{ID: 1, UserID: 1, Name: "loja", WebhookToken: "tok"},
	}
	queue := &fakeQueueStore{}
	handler := newWebhookTestHandler(queue, &fakeTemplateStore{}, instances)

	rec := postWebhook(t, handler, "tok", `{"id": 1}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(queue.inserted) != 0 {
		t.Fatalf("expected no queue items, got %d", len(queue.inserted))
	}

	var resp response.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected Success=false")
	}
}

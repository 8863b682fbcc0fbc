package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/environments"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/logger"
)

// Small internal interfaces so we can test without touching real DB/gateway.
type queueRepository interface {
	Insert(ctx context.Context, item *domain.QueueItem) (*domain.QueueItem, error)
	GetByID(ctx context.Context, id int64) (*domain.QueueItem, error)
	GetDue(ctx context.Context, instanceID int64, now time.Time, limit int) ([]domain.QueueItem, error)
	MarkSending(ctx context.Context, id int64) (bool, error)
	MarkAsSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkAsFailed(ctx context.Context, id int64, errMsg string) error
	Resend(ctx context.Context, id int64, scheduledFor time.Time) error
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context, status *domain.QueueStatus, page, pageSize int) ([]domain.QueueItem, int64, error)
	GetStats(ctx context.Context) (domain.QueueStats, error)
	FailOrphaned(ctx context.Context, now time.Time, reason string) (int64, error)
}

type templateRepository interface {
	ListActive(ctx context.Context, userID int64, orderStatus string) ([]domain.MessageTemplate, error)
}

type instanceRepository interface {
	List(ctx context.Context) ([]domain.WhatsAppInstance, error)
	GetByID(ctx context.Context, id int64) (*domain.WhatsAppInstance, error)
}

type gatewayClient interface {
	SendText(ctx context.Context, instance, number, text string) error
}

const orphanedItemError = "instance no longer exists"

// DispatchService owns the queue state machine: enqueue on order events,
// dispatch of due items on each tick, and the manual control operations.
type DispatchService struct {
	queue     queueRepository
	templates templateRepository
	instances instanceRepository
	gateway   gatewayClient
	config    environments.DispatchConfig

	now func() time.Time
}

func NewDispatchService(
	queue queueRepository,
	templates templateRepository,
	instances instanceRepository,
	gateway gatewayClient,
	config environments.DispatchConfig,
) *DispatchService {
	return &DispatchService{
		queue:     queue,
		templates: templates,
		instances: instances,
		gateway:   gateway,
		config:    config,
		now:       time.Now,
	}
}

// EnqueueOrderEvent resolves the active templates for the event's order status
// and inserts one pending queue item per template, each with its own due time.
// The message is rendered here; the queue never re-renders.
func (s *DispatchService) EnqueueOrderEvent(
	ctx context.Context,
	instance *domain.WhatsAppInstance,
	ev domain.OrderEvent,
) ([]domain.QueueItem, error) {
	templates, err := s.templates.ListActive(ctx, instance.UserID, ev.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve templates: %w", err)
	}

	if len(templates) == 0 {
		logger.Debugf("No active templates for user %d status %q", instance.UserID, ev.Status)
		return nil, nil
	}

	now := s.now()
	created := make([]domain.QueueItem, 0, len(templates))

	for _, tpl := range templates {
		instanceID := instance.ID
		item := &domain.QueueItem{
			InstanceID:   &instanceID,
			TemplateID:   tpl.ID,
			Phone:        ev.CustomerPhone,
			Message:      RenderTemplate(tpl.Content, ev),
			ScheduledFor: now.Add(time.Duration(tpl.DelayMinutes) * time.Minute),
			Status:       domain.StatusPending,
		}

		inserted, err := s.queue.Insert(ctx, item)
		if err != nil {
			return created, fmt.Errorf("failed to enqueue item for template %d: %w", tpl.ID, err)
		}

		created = append(created, *inserted)
	}

	logger.Infof("Enqueued %d items for order %s (user %d, status %q)",
		len(created), ev.OrderID, instance.UserID, ev.Status)

	return created, nil
}

// ProcessDueQueue is the tick body. It fails orphaned items, then walks every
// instance's due pending items and dispatches them sequentially. Per-item
// failures are recorded on the item and never abort the tick.
func (s *DispatchService) ProcessDueQueue(ctx context.Context) ([]domain.DispatchResult, error) {
	now := s.now()

	if orphaned, err := s.queue.FailOrphaned(ctx, now, orphanedItemError); err != nil {
		logger.Errorf("Failed to fail orphaned queue items: %v", err)
	} else if orphaned > 0 {
		logger.Warnf("Marked %d orphaned queue items as failed", orphaned)
	}

	instances, err := s.instances.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	var results []domain.DispatchResult

	for i := range instances {
		instance := &instances[i]

		due, err := s.queue.GetDue(ctx, instance.ID, now, s.config.BatchSize)
		if err != nil {
			logger.Errorf("Failed to get due items for instance %s: %v", instance.Name, err)
			continue
		}

		for j := range due {
			item := &due[j]

			// Conditional claim: a row already taken by an overlapping
			// caller stays with that caller.
			claimed, err := s.queue.MarkSending(ctx, item.ID)
			if err != nil {
				logger.Errorf("Failed to claim queue item %d: %v", item.ID, err)
				continue
			}
			if !claimed {
				logger.Debugf("Queue item %d already claimed, skipping", item.ID)
				continue
			}

			results = append(results, s.dispatch(ctx, instance, item))
		}
	}

	return results, nil
}

func (s *DispatchService) dispatch(
	ctx context.Context,
	instance *domain.WhatsAppInstance,
	item *domain.QueueItem,
) domain.DispatchResult {
	result := domain.DispatchResult{
		ItemID: item.ID,
		SentAt: s.now(),
	}

	number := NormalizePhone(item.Phone, s.countryCode(instance))

	if err := s.gateway.SendText(ctx, instance.Name, number, item.Message); err != nil {
		logger.Errorf("Failed to send queue item %d via instance %s: %v", item.ID, instance.Name, err)
		result.Success = false
		result.Error = err

		if markErr := s.queue.MarkAsFailed(ctx, item.ID, err.Error()); markErr != nil {
			logger.Errorf("Failed to mark queue item %d as failed: %v", item.ID, markErr)
		}

		return result
	}

	if err := s.queue.MarkAsSent(ctx, item.ID, result.SentAt); err != nil {
		logger.Errorf("Failed to mark queue item %d as sent: %v", item.ID, err)
		result.Success = false
		result.Error = err
		return result
	}

	logger.Infof("Sent queue item %d to %s via instance %s", item.ID, number, instance.Name)

	result.Success = true
	return result
}

// Resend puts an existing item back into pending, due immediately. Works from
// any status; sentAt and error are cleared.
func (s *DispatchService) Resend(ctx context.Context, id int64) error {
	item, err := s.queue.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get queue item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("queue item %d not found", id)
	}

	return s.queue.Resend(ctx, id, s.now())
}

// SendNow dispatches an item synchronously, ignoring its schedule. The item
// and its owning instance must both exist.
func (s *DispatchService) SendNow(ctx context.Context, id int64) (domain.DispatchResult, error) {
	item, err := s.queue.GetByID(ctx, id)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("failed to get queue item: %w", err)
	}
	if item == nil {
		return domain.DispatchResult{}, fmt.Errorf("queue item %d not found", id)
	}
	if item.InstanceID == nil {
		return domain.DispatchResult{}, fmt.Errorf("queue item %d has no instance", id)
	}

	instance, err := s.instances.GetByID(ctx, *item.InstanceID)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("failed to get instance: %w", err)
	}
	if instance == nil {
		return domain.DispatchResult{}, fmt.Errorf("instance %d not found", *item.InstanceID)
	}

	return s.dispatch(ctx, instance, item), nil
}

// Delete removes an item unconditionally, regardless of status. A dispatch
// already in flight may still complete at the gateway; its final status update
// then matches zero rows and is dropped.
func (s *DispatchService) Delete(ctx context.Context, id int64) error {
	return s.queue.Delete(ctx, id)
}

func (s *DispatchService) ListQueue(
	ctx context.Context,
	status *domain.QueueStatus,
	page, pageSize int,
) ([]domain.QueueItem, int64, error) {
	return s.queue.GetAll(ctx, status, page, pageSize)
}

func (s *DispatchService) GetStats(ctx context.Context) (domain.QueueStats, error) {
	return s.queue.GetStats(ctx)
}

func (s *DispatchService) countryCode(instance *domain.WhatsAppInstance) string {
	if instance.CountryCode != "" {
		return instance.CountryCode
	}
	return s.config.DefaultCountryCode
}

// NormalizePhone turns a loosely formatted phone into the gateway's dispatch
// form: digits only, with the country code prepended when an 11-digit local
// number lacks it.
func NormalizePhone(phone, countryCode string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	normalized := digits.String()
	if len(normalized) == 11 && countryCode != "" && !strings.HasPrefix(normalized, countryCode) {
		normalized = countryCode + normalized
	}

	return normalized
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
)

// QueueRepository handles database operations for queue items.
type QueueRepository struct {
	db *sqlx.DB
}

func NewQueueRepository(db *sqlx.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

func (r *QueueRepository) Insert(ctx context.Context, item *domain.QueueItem) (*domain.QueueItem, error) {
	query := `
		INSERT INTO message_queue (instance_id, template_id, phone, message, scheduled_for, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	result, err := r.db.ExecContext(ctx, query,
		item.InstanceID, item.TemplateID, item.Phone, item.Message, item.ScheduledFor, item.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to insert queue item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *QueueRepository) GetByID(ctx context.Context, id int64) (*domain.QueueItem, error) {
	query := `
		SELECT id, instance_id, template_id, phone, message, scheduled_for, status, sent_at, error, created_at
		FROM message_queue
		WHERE id = ?
	`

	var item domain.QueueItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get queue item: %w", err)
	}

	return &item, nil
}

func (r *QueueRepository) GetDue(
	ctx context.Context,
	instanceID int64,
	now time.Time,
	limit int,
) ([]domain.QueueItem, error) {
	query := `
		SELECT id, instance_id, template_id, phone, message, scheduled_for, status, sent_at, error, created_at
		FROM message_queue
		WHERE instance_id = ? AND status = 'pending' AND scheduled_for <= ?
		ORDER BY scheduled_for ASC
		LIMIT ?
	`

	var items []domain.QueueItem
	if err := r.db.SelectContext(ctx, &items, query, instanceID, now, limit); err != nil {
		return nil, fmt.Errorf("failed to get due queue items: %w", err)
	}

	return items, nil
}

// MarkSending claims a pending item for dispatch. Returns false when the row
// was no longer pending, so overlapping callers cannot double-dispatch.
func (r *QueueRepository) MarkSending(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE message_queue
		SET status = 'sending'
		WHERE id = ? AND status = 'pending'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark queue item as sending: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

func (r *QueueRepository) MarkAsSent(ctx context.Context, id int64, sentAt time.Time) error {
	query := `
		UPDATE message_queue
		SET status = 'sent', sent_at = ?, error = NULL
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, sentAt, id); err != nil {
		return fmt.Errorf("failed to mark queue item as sent: %w", err)
	}

	return nil
}

func (r *QueueRepository) MarkAsFailed(ctx context.Context, id int64, errMsg string) error {
	query := `
		UPDATE message_queue
		SET status = 'failed', error = ?, sent_at = NULL
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, errMsg, id); err != nil {
		return fmt.Errorf("failed to mark queue item as failed: %w", err)
	}

	return nil
}

// Resend puts an item back into pending from any status, due at scheduledFor.
func (r *QueueRepository) Resend(ctx context.Context, id int64, scheduledFor time.Time) error {
	query := `
		UPDATE message_queue
		SET status = 'pending',
		    scheduled_for = ?,
		    sent_at = NULL,
		    error = NULL
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, scheduledFor, id)
	if err != nil {
		return fmt.Errorf("failed to resend queue item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("no queue item found with id %d", id)
	}

	return nil
}

func (r *QueueRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM message_queue WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete queue item: %w", err)
	}

	return nil
}

func (r *QueueRepository) GetAll(
	ctx context.Context,
	status *domain.QueueStatus,
	page, pageSize int,
) ([]domain.QueueItem, int64, error) {
	offset := (page - 1) * pageSize
	var totalCount int64
	var items []domain.QueueItem

	if status != nil {
		countQuery := "SELECT COUNT(*) FROM message_queue WHERE status = ?"
		if err := r.db.GetContext(ctx, &totalCount, countQuery, *status); err != nil {
			return nil, 0, fmt.Errorf("failed to count queue items: %w", err)
		}

		query := `
			SELECT id, instance_id, template_id, phone, message, scheduled_for, status, sent_at, error, created_at
			FROM message_queue
			WHERE status = ?
			ORDER BY created_at DESC
			LIMIT ? OFFSET ?
		`
		if err := r.db.SelectContext(ctx, &items, query, *status, pageSize, offset); err != nil {
			return nil, 0, fmt.Errorf("failed to get queue items: %w", err)
		}
	} else {
		countQuery := "SELECT COUNT(*) FROM message_queue"
		if err := r.db.GetContext(ctx, &totalCount, countQuery); err != nil {
			return nil, 0, fmt.Errorf("failed to count queue items: %w", err)
		}

		query := `
			SELECT id, instance_id, template_id, phone, message, scheduled_for, status, sent_at, error, created_at
			FROM message_queue
			ORDER BY created_at DESC
			LIMIT ? OFFSET ?
		`
		if err := r.db.SelectContext(ctx, &items, query, pageSize, offset); err != nil {
			return nil, 0, fmt.Errorf("failed to get queue items: %w", err)
		}
	}

	return items, totalCount, nil
}

func (r *QueueRepository) GetStats(ctx context.Context) (domain.QueueStats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'sending' THEN 1 ELSE 0 END), 0) AS sending,
			COALESCE(SUM(CASE WHEN status = 'sent' THEN 1 ELSE 0 END), 0)    AS sent,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)  AS failed
		FROM message_queue
	`

	var stats struct {
		Pending int64 `db:"pending"`
		Sending int64 `db:"sending"`
		Sent    int64 `db:"sent"`
		Failed  int64 `db:"failed"`
	}

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return domain.QueueStats{}, fmt.Errorf("failed to get queue stats: %w", err)
	}

	return domain.QueueStats{
		Pending: stats.Pending,
		Sending: stats.Sending,
		Sent:    stats.Sent,
		Failed:  stats.Failed,
	}, nil
}

// FailOrphaned terminally fails due pending items whose instance was deleted.
func (r *QueueRepository) FailOrphaned(ctx context.Context, now time.Time, reason string) (int64, error) {
	query := `
		UPDATE message_queue
		SET status = 'failed', error = ?
		WHERE instance_id IS NULL AND status = 'pending' AND scheduled_for <= ?
	`

	result, err := r.db.ExecContext(ctx, query, reason, now)
	if err != nil {
		return 0, fmt.Errorf("failed to fail orphaned queue items: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

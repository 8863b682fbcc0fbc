package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
)

// TemplateRepository reads message templates. Templates are authored through
// the admin panel; the dispatch path only ever reads them.
type TemplateRepository struct {
	db *sqlx.DB
}

func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// ListActive returns the active templates for a user and order status,
// ordered by sequence (insertion order breaks ties).
func (r *TemplateRepository) ListActive(
	ctx context.Context,
	userID int64,
	orderStatus string,
) ([]domain.MessageTemplate, error) {
	query := `
		SELECT id, user_id, order_status, sequence, content, delay_minutes, is_active, created_at
		FROM message_templates
		WHERE user_id = ? AND order_status = ? AND is_active = TRUE
		ORDER BY sequence ASC, id ASC
	`

	var templates []domain.MessageTemplate
	if err := r.db.SelectContext(ctx, &templates, query, userID, orderStatus); err != nil {
		return nil, fmt.Errorf("failed to list active templates: %w", err)
	}

	return templates, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
)

// InstanceRepository reads the registry of connected WhatsApp instances.
type InstanceRepository struct {
	db *sqlx.DB
}

func NewInstanceRepository(db *sqlx.DB) *InstanceRepository {
	return &InstanceRepository{db: db}
}

func (r *InstanceRepository) List(ctx context.Context) ([]domain.WhatsAppInstance, error) {
	query := `
		SELECT id, user_id, name, phone_number, country_code, webhook_token, created_at
		FROM whatsapp_instances
		ORDER BY id ASC
	`

	var instances []domain.WhatsAppInstance
	if err := r.db.SelectContext(ctx, &instances, query); err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	return instances, nil
}

func (r *InstanceRepository) GetByID(ctx context.Context, id int64) (*domain.WhatsAppInstance, error) {
	query := `
		SELECT id, user_id, name, phone_number, country_code, webhook_token, created_at
		FROM whatsapp_instances
		WHERE id = ?
	`

	var instance domain.WhatsAppInstance
	if err := r.db.GetContext(ctx, &instance, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}

	return &instance, nil
}

// GetByWebhookToken resolves the instance an inbound order webhook belongs to.
func (r *InstanceRepository) GetByWebhookToken(ctx context.Context, token string) (*domain.WhatsAppInstance, error) {
	query := `
		SELECT id, user_id, name, phone_number, country_code, webhook_token, created_at
		FROM whatsapp_instances
		WHERE webhook_token = ?
	`

	var instance domain.WhatsAppInstance
	if err := r.db.GetContext(ctx, &instance, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get instance by webhook token: %w", err)
	}

	return &instance, nil
}

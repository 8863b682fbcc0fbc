package domain

import "time"

// MessageTemplate is a tenant-authored message body tied to one WooCommerce
// order status. Read-only to the dispatch path.
type MessageTemplate struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"userId"`
	OrderStatus  string    `db:"order_status" json:"orderStatus"`
	Sequence     int       `db:"sequence" json:"sequence"`
	Content      string    `db:"content" json:"content"`
	DelayMinutes int       `db:"delay_minutes" json:"delayMinutes"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

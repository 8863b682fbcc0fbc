package domain

import "time"

type ConnectionState string

const (
	ConnectionOpen       ConnectionState = "open"
	ConnectionConnecting ConnectionState = "connecting"
	ConnectionClosed     ConnectionState = "close"
)

// WhatsAppInstance is a tenant's connected Evolution API session. Name is the
// identifier used by the gateway; WebhookToken routes inbound order events.
type WhatsAppInstance struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"userId"`
	Name         string    `db:"name" json:"name"`
	PhoneNumber  *string   `db:"phone_number" json:"phoneNumber,omitempty"`
	CountryCode  string    `db:"country_code" json:"countryCode"`
	WebhookToken string    `db:"webhook_token" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// InstanceStatus is the cached view of the gateway connection state.
type InstanceStatus struct {
	State       ConnectionState `json:"state"`
	PhoneNumber string          `json:"phoneNumber,omitempty"`
	CheckedAt   time.Time       `json:"checkedAt"`
}

package domain

import "time"

type QueueStatus string

const (
	StatusPending QueueStatus = "pending"
	StatusSending QueueStatus = "sending"
	StatusSent    QueueStatus = "sent"
	StatusFailed  QueueStatus = "failed"
)

// QueueItem is one scheduled message awaiting dispatch. InstanceID is nullable:
// an item may outlive the deletion of its instance, in which case it can never
// be dispatched and is failed on the next poll.
type QueueItem struct {
	ID           int64       `db:"id" json:"id"`
	InstanceID   *int64      `db:"instance_id" json:"instanceId,omitempty"`
	TemplateID   int64       `db:"template_id" json:"templateId"`
	Phone        string      `db:"phone" json:"phone"`
	Message      string      `db:"message" json:"message"`
	ScheduledFor time.Time   `db:"scheduled_for" json:"scheduledFor"`
	Status       QueueStatus `db:"status" json:"status"`
	SentAt       *time.Time  `db:"sent_at" json:"sentAt,omitempty"`
	Error        *string     `db:"error" json:"error,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
}

type QueueStats struct {
	Pending int64 `json:"pending"`
	Sending int64 `json:"sending"`
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
}

type DispatchResult struct {
	ItemID  int64
	Success bool
	Error   error
	SentAt  time.Time
}

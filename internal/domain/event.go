package domain

import (
	"encoding/json"
	"strings"
)

// DefaultCustomerName is substituted when the payload carries no usable name.
const DefaultCustomerName = "Cliente"

// OrderEvent is the canonical record extracted from an inbound order webhook.
// All payload-shape variability is resolved before this point.
type OrderEvent struct {
	OrderID       string
	Status        string
	CustomerName  string
	CustomerPhone string
	Total         string
	Date          string
}

// orderParty holds the customer identity fields that WooCommerce delivers
// either at the top level or nested under billing/customer.
type orderParty struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Cellphone string `json:"cellphone"`
}

// looseString decodes a JSON value that stores deliver either as a bare
// number or as a string. Sequential-order-number plugins emit non-numeric
// strings like "2024-17", so the raw text is kept as-is.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = looseString(num.String())
	return nil
}

func (s looseString) String() string { return string(s) }

// OrderWebhook mirrors the union of order payload shapes WooCommerce and its
// plugins are known to send. Numeric fields arrive as numbers or strings
// depending on the store's serializer, hence looseString.
type OrderWebhook struct {
	ID          looseString `json:"id"`
	OrderID     looseString `json:"orderId"`
	Number      looseString `json:"number"`
	Status      string      `json:"status"`
	Total       looseString `json:"total"`
	DateCreated string      `json:"date_created"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`

	Billing  *orderParty `json:"billing"`
	Customer *orderParty `json:"customer"`
}

// Normalize flattens the webhook into an OrderEvent, applying defaults for
// anything the payload omits. It never fails: missing identity falls back to
// the default customer name and an empty phone.
func (w *OrderWebhook) Normalize() OrderEvent {
	ev := OrderEvent{
		Status: w.Status,
		Total:  w.Total.String(),
		Date:   w.DateCreated,
	}

	switch {
	case w.Number.String() != "":
		ev.OrderID = w.Number.String()
	case w.OrderID.String() != "":
		ev.OrderID = w.OrderID.String()
	default:
		ev.OrderID = w.ID.String()
	}

	ev.CustomerName = firstNonEmpty(
		partyName(w.Billing),
		partyName(w.Customer),
		joinName(w.FirstName, w.LastName),
	)
	if ev.CustomerName == "" {
		ev.CustomerName = DefaultCustomerName
	}

	ev.CustomerPhone = firstNonEmpty(
		partyPhone(w.Billing),
		partyPhone(w.Customer),
		w.Phone,
	)

	return ev
}

func partyName(p *orderParty) string {
	if p == nil {
		return ""
	}
	if name := joinName(p.FirstName, p.LastName); name != "" {
		return name
	}
	return strings.TrimSpace(p.Name)
}

func partyPhone(p *orderParty) string {
	if p == nil {
		return ""
	}
	if p.Phone != "" {
		return p.Phone
	}
	return p.Cellphone
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

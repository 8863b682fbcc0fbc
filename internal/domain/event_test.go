package domain

import (
	"encoding/json"
	"testing"
)

func decodeWebhook(t *testing.T, raw string) *OrderWebhook {
	t.Helper()

	var payload OrderWebhook
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	return &payload
}

func TestNormalize_BillingShape(t *testing.T) {
	payload := decodeWebhook(t, `{
		"orderId": "1001",
		"status": "processing",
		"billing": {"first_name": "Ana", "phone": "11987654321"}
	}`)

	ev := payload.Normalize()

	if ev.OrderID != "1001" {
		t.Errorf("expected OrderID=1001, got %q", ev.OrderID)
	}
	if ev.Status != "processing" {
		t.Errorf("expected Status=processing, got %q", ev.Status)
	}
	if ev.CustomerName != "Ana" {
		t.Errorf("expected CustomerName=Ana, got %q", ev.CustomerName)
	}
	if ev.CustomerPhone != "11987654321" {
		t.Errorf("expected CustomerPhone=11987654321, got %q", ev.CustomerPhone)
	}
}

func TestNormalize_CustomerShape(t *testing.T) {
	payload := decodeWebhook(t, `{
		"id": 42,
		"status": "completed",
		"customer": {"first_name": "Joao", "last_name": "Silva", "cellphone": "+55 11 91111-2222"}
	}`)

	ev := payload.Normalize()

	if ev.OrderID != "42" {
		t.Errorf("expected OrderID=42, got %q", ev.OrderID)
	}
	if ev.CustomerName != "Joao Silva" {
		t.Errorf("expected CustomerName=%q, got %q", "Joao Silva", ev.CustomerName)
	}
	if ev.CustomerPhone != "+55 11 91111-2222" {
		t.Errorf("expected cellphone fallback, got %q", ev.CustomerPhone)
	}
}

func TestNormalize_TopLevelShape(t *testing.T) {
	payload := decodeWebhook(t, `{
		"number": "2024-17",
		"status": "cancelled",
		"first_name": "Maria",
		"phone": "11999998888",
		"total": "159.90",
		"date_created": "2025-06-01T10:00:00"
	}`)

	ev := payload.Normalize()

	if ev.OrderID != "2024-17" {
		t.Errorf("expected OrderID from number field, got %q", ev.OrderID)
	}
	if ev.CustomerName != "Maria" {
		t.Errorf("expected CustomerName=Maria, got %q", ev.CustomerName)
	}
	if ev.Total != "159.90" {
		t.Errorf("expected Total=159.90, got %q", ev.Total)
	}
	if ev.Date != "2025-06-01T10:00:00" {
		t.Errorf("expected date passthrough, got %q", ev.Date)
	}
}

func TestNormalize_OrderIDPrecedence(t *testing.T) {
	payload := decodeWebhook(t, `{"id": 1, "orderId": 2, "number": 3, "status": "processing"}`)

	if ev := payload.Normalize(); ev.OrderID != "3" {
		t.Errorf("expected number to win, got %q", ev.OrderID)
	}

	payload = decodeWebhook(t, `{"id": 1, "orderId": 2, "status": "processing"}`)
	if ev := payload.Normalize(); ev.OrderID != "2" {
		t.Errorf("expected orderId to win over id, got %q", ev.OrderID)
	}
}

func TestNormalize_DefaultsWhenIdentityMissing(t *testing.T) {
	payload := decodeWebhook(t, `{"id": 9, "status": "processing"}`)

	ev := payload.Normalize()

	if ev.CustomerName != DefaultCustomerName {
		t.Errorf("expected default customer name %q, got %q", DefaultCustomerName, ev.CustomerName)
	}
	if ev.CustomerPhone != "" {
		t.Errorf("expected empty phone, got %q", ev.CustomerPhone)
	}
}

func TestNormalize_AcceptsStringTypedIdentity(t *testing.T) {
	payload := decodeWebhook(t, `{
		"id": "9001",
		"number": "2024-17",
		"status": "processing",
		"total": "10.00"
	}`)

	ev := payload.Normalize()

	if ev.OrderID != "2024-17" {
		t.Errorf("expected alphanumeric order number kept verbatim, got %q", ev.OrderID)
	}
	if ev.Total != "10.00" {
		t.Errorf("expected Total=10.00, got %q", ev.Total)
	}
}

func TestNormalize_NumericFieldsAsNumbers(t *testing.T) {
	payload := decodeWebhook(t, `{"id": 1001, "status": "processing", "total": 59.9}`)

	ev := payload.Normalize()

	if ev.OrderID != "1001" {
		t.Errorf("expected OrderID=1001, got %q", ev.OrderID)
	}
	if ev.Total != "59.9" {
		t.Errorf("expected Total=59.9, got %q", ev.Total)
	}
}

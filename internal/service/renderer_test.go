package service

import (
	"testing"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
)

func TestRenderTemplate_SubstitutesKnownTokens(t *testing.T) {
	ev := domain.OrderEvent{
		OrderID:       "1001",
		Status:        "processing",
		CustomerName:  "Ana",
		CustomerPhone: "11987654321",
		Total:         "59.90",
		Date:          "2025-06-01",
	}

	content := "Ola {{nome_cliente}}, pedido {{numero_pedido}} ({{status_pedido}}) de R$ {{valor_pedido}} em {{data_pedido}}"
	want := "Ola Ana, pedido 1001 (processing) de R$ 59.90 em 2025-06-01"

	if got := RenderTemplate(content, ev); got != want {
		t.Errorf("RenderTemplate = %q, want %q", got, want)
	}
}

func TestRenderTemplate_UnknownTokensLeftVerbatim(t *testing.T) {
	ev := domain.OrderEvent{CustomerName: "Ana"}

	content := "Ola {{nome_cliente}}, use o cupom {{cupom_desconto}}"
	want := "Ola Ana, use o cupom {{cupom_desconto}}"

	if got := RenderTemplate(content, ev); got != want {
		t.Errorf("RenderTemplate = %q, want %q", got, want)
	}
}

func TestRenderTemplate_RepeatedTokens(t *testing.T) {
	ev := domain.OrderEvent{OrderID: "7"}

	content := "{{numero_pedido}}/{{numero_pedido}}"
	if got := RenderTemplate(content, ev); got != "7/7" {
		t.Errorf("RenderTemplate = %q, want %q", got, "7/7")
	}
}

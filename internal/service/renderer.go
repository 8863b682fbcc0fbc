package service

import (
	"strings"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
)

// RenderTemplate substitutes the known {{placeholder}} tokens with values from
// the order event. Unknown tokens are left verbatim.
func RenderTemplate(content string, ev domain.OrderEvent) string {
	replacements := map[string]string{
		"{{nome_cliente}}":  ev.CustomerName,
		"{{numero_pedido}}": ev.OrderID,
		"{{status_pedido}}": ev.Status,
		"{{valor_pedido}}":  ev.Total,
		"{{data_pedido}}":   ev.Date,
	}

	result := content
	for token, value := range replacements {
		result = strings.ReplaceAll(result, token, value)
	}
	return result
}

package utils

import (
	"strings"
	"time"

	"github.com/dendyfood/dendyfood-api/lang"
	"github.com/dendyfood/dendyfood-api/models"
)

// OrderSummary is the restaurant-facing description of a new order, in Uzbek.
type OrderSummary struct {
	Title        string
	Lines        []string
	TotalLabel   string
	Total        string
	PaymentLabel string
	Payment      string
	CreatedAt    string
}

func SummarizeOrder(order models.Order) OrderSummary {
	l := lang.Uz
	currency := lang.T(l, "currency")

	lines := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		name := item.Names.Data().Uz
		if name == "" {
			name = item.FoodItem.NameUz
		}
		lines = append(lines, lang.Tf(l, "order_line", name, item.Quantity, item.Price.Times(item.Quantity), currency))
	}

	return OrderSummary{
		Title:        lang.Tf(l, "new_order", order.ID),
		Lines:        lines,
		TotalLabel:   lang.T(l, "total"),
		Total:        order.TotalPrice.String() + " " + currency,
		PaymentLabel: lang.T(l, "payment_method"),
		Payment:      lang.T(l, string(order.PaymentMethod)),
		CreatedAt:    order.CreatedAt.Format(time.DateTime),
	}
}

// Text renders the summary as a plain text message.
func (s OrderSummary) Text() string {
	var b strings.Builder
	b.WriteString(s.Title)
	b.WriteString("\n\n")
	for _, line := range s.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.TotalLabel + " " + s.Total + "\n")
	b.WriteString(s.PaymentLabel + " " + s.Payment)
	return b.String()
}

package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/markberon/sari-store-backend/pkg/db/models"
	"github.com/markberon/sari-store-backend/pkg/enums"
)

// Summary is the order shape exchanged with the storefront's order history.
// Clients keep their own copy of past orders and reconcile it against the
// server through MergeHistories, so this shape has to carry everything the
// history screen renders.
type Summary struct {
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	PaymentMethod enums.PaymentMethod `json:"payment_method,omitempty"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee"`
	Total         decimal.Decimal     `json:"total"`
	Items         []SummaryItem       `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// SummaryItem is one frozen line inside a history entry.
type SummaryItem struct {
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// SummaryFromModel flattens a persisted order into its history shape.
func SummaryFromModel(order models.Order) Summary {
	summary := Summary{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Subtotal:      order.Subtotal,
		DeliveryFee:   order.DeliveryFee,
		Total:         order.Total,
		CreatedAt:     order.CreatedAt,
	}
	if order.Payment != nil {
		summary.PaymentMethod = order.Payment.Method
	}
	for _, item := range order.Items {
		summary.Items = append(summary.Items, SummaryItem{
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal,
		})
	}
	return summary
}

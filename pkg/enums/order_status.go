package enums

import "fmt"

// OrderStatus tracks fulfillment progress. This service only ever creates
// orders in StatusPending; every later transition is performed by the store
// operator's fulfillment tooling, so unknown values must render, not error.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusPending:        "Pending",
	OrderStatusConfirmed:      "Confirmed",
	OrderStatusPreparing:      "Preparing",
	OrderStatusOutForDelivery: "Out for Delivery",
	OrderStatusDelivered:      "Delivered",
	OrderStatusCancelled:      "Cancelled",
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Label returns the display label, falling back to the raw value for
// statuses this build does not recognize.
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	if s == "" {
		return "Unknown"
	}
	return string(s)
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

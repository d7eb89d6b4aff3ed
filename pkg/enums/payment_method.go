package enums

import "fmt"

// PaymentMethod describes how the customer intends to settle an order.
type PaymentMethod string

const (
	PaymentMethodCOD   PaymentMethod = "cod"
	PaymentMethodGCash PaymentMethod = "gcash"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCOD,
	PaymentMethodGCash,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// Label returns the customer-facing name for the method.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentMethodCOD:
		return "Cash on Delivery"
	case PaymentMethodGCash:
		return "GCash"
	default:
		return string(p)
	}
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/markberon/sari-store-backend/api/responses"
	"github.com/markberon/sari-store-backend/api/validators"
	"github.com/markberon/sari-store-backend/internal/notify"
	"github.com/markberon/sari-store-backend/pkg/enums"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
	"github.com/markberon/sari-store-backend/pkg/logger"
	"github.com/markberon/sari-store-backend/pkg/ordernum"
)

type orderNotificationRequest struct {
	OrderNumber     string                  `json:"order_number" validate:"required"`
	CustomerName    string                  `json:"customer_name" validate:"required"`
	CustomerPhone   string                  `json:"customer_phone" validate:"required,ph_mobile"`
	CustomerAddress string                  `json:"customer_address" validate:"required"`
	CustomerNotes   *string                 `json:"customer_notes,omitempty"`
	Items           []orderNotificationItem `json:"items" validate:"required,min=1,dive"`
	Subtotal        decimal.Decimal         `json:"subtotal"`
	DeliveryFee     decimal.Decimal         `json:"delivery_fee"`
	Total           decimal.Decimal         `json:"total"`
	PaymentMethod   string                  `json:"payment_method" validate:"required,oneof=cod gcash"`
	GCashReference  *string                 `json:"gcash_reference,omitempty" validate:"required_if=PaymentMethod gcash"`
}

type orderNotificationItem struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"min=1"`
}

// SendOrderNotification runs the owner notification chain for an order
// payload. Channel failures are not errors here: the order already exists,
// so the response stays 200 and carries a warning instead.
func SendOrderNotification(d *notify.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification dispatcher unavailable"))
			return
		}

		var payload orderNotificationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !ordernum.Valid(payload.OrderNumber) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order number"))
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		lines := make([]notify.OrderLine, 0, len(payload.Items))
		for _, item := range payload.Items {
			lines = append(lines, notify.OrderLine{
				Name:     item.Name,
				Price:    item.Price,
				Quantity: item.Quantity,
			})
		}

		result := d.Dispatch(r.Context(), notify.OrderData{
			OrderNumber:     payload.OrderNumber,
			CustomerName:    payload.CustomerName,
			CustomerPhone:   payload.CustomerPhone,
			CustomerAddress: payload.CustomerAddress,
			CustomerNotes:   payload.CustomerNotes,
			Items:           lines,
			Subtotal:        payload.Subtotal,
			DeliveryFee:     payload.DeliveryFee,
			Total:           payload.Total,
			PaymentMethod:   method,
			GCashReference:  payload.GCashReference,
			PlacedAt:        time.Now(),
		})

		responses.WriteSuccess(w, result)
	}
}

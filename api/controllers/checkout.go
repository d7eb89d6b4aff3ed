package controllers

import (
	"net/http"

	"github.com/markberon/sari-store-backend/api/middleware"
	"github.com/markberon/sari-store-backend/api/responses"
	"github.com/markberon/sari-store-backend/api/validators"
	checkoutsvc "github.com/markberon/sari-store-backend/internal/checkout"
	"github.com/markberon/sari-store-backend/pkg/enums"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
	"github.com/markberon/sari-store-backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerName    string  `json:"customer_name" validate:"required,min=2,max=120"`
	CustomerPhone   string  `json:"customer_phone" validate:"required,ph_mobile"`
	CustomerAddress string  `json:"customer_address" validate:"required,min=5,max=500"`
	CustomerNotes   *string `json:"customer_notes,omitempty" validate:"omitempty,max=500"`
	PaymentMethod   string  `json:"payment_method" validate:"required,oneof=cod gcash"`
	GCashReference  *string `json:"gcash_reference,omitempty" validate:"required_if=PaymentMethod gcash,omitempty,max=64"`
}

// Checkout freezes the session's cart into an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		confirmation, err := svc.CreateOrder(r.Context(), middleware.SessionIDFromContext(r.Context()), checkoutsvc.CreateOrderInput{
			CustomerName:    payload.CustomerName,
			CustomerPhone:   payload.CustomerPhone,
			CustomerAddress: payload.CustomerAddress,
			CustomerNotes:   payload.CustomerNotes,
			PaymentMethod:   method,
			GCashReference:  payload.GCashReference,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}

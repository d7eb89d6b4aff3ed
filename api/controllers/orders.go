package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/markberon/sari-store-backend/api/responses"
	"github.com/markberon/sari-store-backend/api/validators"
	orderssvc "github.com/markberon/sari-store-backend/internal/orders"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
	"github.com/markberon/sari-store-backend/pkg/logger"
)

type historyMergeRequest struct {
	Phone  string              `json:"phone" validate:"required,ph_mobile"`
	Orders []orderssvc.Summary `json:"orders" validate:"max=200,dive"`
}

// GetOrder looks up a single order by its order number.
func GetOrder(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		order, err := svc.GetByNumber(r.Context(), chi.URLParam(r, "orderNumber"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderssvc.SummaryFromModel(*order))
	}
}

// OrderHistory lists the server-side history for a phone number.
func OrderHistory(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		history, err := svc.HistoryByPhone(r.Context(), r.URL.Query().Get("phone"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// MergeOrderHistory reconciles a client-kept history with the server's copy
// and returns the combined, newest-first list.
func MergeOrderHistory(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload historyMergeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		merged, err := svc.MergeHistory(r.Context(), payload.Phone, payload.Orders)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, merged)
	}
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/markberon/sari-store-backend/api/responses"
	"github.com/markberon/sari-store-backend/internal/products"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
	"github.com/markberon/sari-store-backend/pkg/logger"
)

// ListCategories returns the category shelf in its display order.
func ListCategories(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// BrowseProducts lists products filtered by the query string.
func BrowseProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		q := r.URL.Query()
		input := products.BrowseInput{
			CategorySlug:  q.Get("category"),
			Badge:         q.Get("badge"),
			Query:         q.Get("q"),
			Sort:          q.Get("sort"),
			AvailableOnly: q.Get("include_unavailable") != "true",
		}

		items, err := svc.BrowseProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// GetProduct returns a single product by slug.
func GetProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		item, err := svc.GetProduct(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/markberon/sari-store-backend/pkg/db/models"
	"github.com/markberon/sari-store-backend/pkg/enums"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
)

// Service exposes catalog read operations for the storefront.
type Service interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	BrowseProducts(ctx context.Context, input BrowseInput) ([]models.Product, error)
	GetProduct(ctx context.Context, slug string) (*models.Product, error)
}

// BrowseInput captures the browse endpoint's query parameters before they are
// resolved into repository filters.
type BrowseInput struct {
	CategorySlug  string
	Badge         string
	Query         string
	Sort          string
	AvailableOnly bool
}

type service struct {
	categories CategoryRepository
	catalog    ProductRepository
}

// NewService builds a catalog service backed by the provided repositories.
func NewService(categories CategoryRepository, catalog ProductRepository) (Service, error) {
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{categories: categories, catalog: catalog}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.ListCategories(ctx)
}

// BrowseProducts resolves the category slug and badge before delegating to the
// repository. An unknown category is a validation error rather than an empty
// result so the storefront can surface it.
func (s *service) BrowseProducts(ctx context.Context, input BrowseInput) ([]models.Product, error) {
	filters := ListFilters{
		AvailableOnly: input.AvailableOnly,
		Query:         strings.TrimSpace(input.Query),
		Sort:          ParseSort(input.Sort),
	}

	if slug := strings.TrimSpace(input.CategorySlug); slug != "" {
		category, err := s.categories.GetCategoryBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		filters.CategoryID = &category.ID
	}

	if raw := strings.TrimSpace(input.Badge); raw != "" {
		badge, err := enums.ParseProductBadge(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid badge filter")
		}
		filters.Badge = &badge
	}

	return s.catalog.ListProducts(ctx, filters)
}

func (s *service) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}
	return s.catalog.GetProductBySlug(ctx, slug)
}

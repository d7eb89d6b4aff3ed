package products

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/markberon/sari-store-backend/pkg/db/models"
	"github.com/markberon/sari-store-backend/pkg/enums"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
)

type stubCategoryRepo struct {
	categories []models.Category
	bySlug     map[string]*models.Category
}

func (s *stubCategoryRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories, nil
}

func (s *stubCategoryRepo) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	if category, ok := s.bySlug[slug]; ok {
		return category, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
}

type stubProductRepo struct {
	lastFilters ListFilters
	products    []models.Product
	bySlug      map[string]*models.Product
}

func (s *stubProductRepo) ListProducts(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	s.lastFilters = filters
	return s.products, nil
}

func (s *stubProductRepo) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if product, ok := s.bySlug[slug]; ok {
		return product, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubProductRepo) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func TestBrowseProductsResolvesCategorySlug(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	categories := &stubCategoryRepo{bySlug: map[string]*models.Category{
		"pantry": {ID: categoryID, Name: "Pantry", Slug: "pantry"},
	}}
	catalog := &stubProductRepo{}
	svc, err := NewService(categories, catalog)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.BrowseProducts(context.Background(), BrowseInput{CategorySlug: " pantry "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.lastFilters.CategoryID == nil || *catalog.lastFilters.CategoryID != categoryID {
		t.Fatalf("expected category filter %s, got %v", categoryID, catalog.lastFilters.CategoryID)
	}
}

func TestBrowseProductsUnknownCategory(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCategoryRepo{bySlug: map[string]*models.Category{}}, &stubProductRepo{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.BrowseProducts(context.Background(), BrowseInput{CategorySlug: "nope"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBrowseProductsBadgeFilter(t *testing.T) {
	t.Parallel()

	catalog := &stubProductRepo{}
	svc, err := NewService(&stubCategoryRepo{}, catalog)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.BrowseProducts(context.Background(), BrowseInput{Badge: "sale"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.lastFilters.Badge == nil || *catalog.lastFilters.Badge != enums.ProductBadgeSale {
		t.Fatalf("expected sale badge filter, got %v", catalog.lastFilters.Badge)
	}

	_, err = svc.BrowseProducts(context.Background(), BrowseInput{Badge: "mystery"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown badge, got %v", err)
	}
}

func TestBrowseProductsSortDefaults(t *testing.T) {
	t.Parallel()

	catalog := &stubProductRepo{}
	svc, err := NewService(&stubCategoryRepo{}, catalog)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.BrowseProducts(context.Background(), BrowseInput{Sort: "sideways"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.lastFilters.Sort != SortName {
		t.Fatalf("expected default sort, got %q", catalog.lastFilters.Sort)
	}
}

func TestGetProductRequiresSlug(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCategoryRepo{}, &stubProductRepo{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.GetProduct(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/markberon/sari-store-backend/pkg/db/models"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
)

// CategoryRepository exposes read access to the category shelf.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// ProductRepository exposes read access to the product catalog.
type ProductRepository interface {
	ListProducts(ctx context.Context, filters ListFilters) ([]models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *repository {
	return &repository{db: db}
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, err
	}
	return &category, nil
}

func (r *repository) ListProducts(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if filters.CategoryID != nil {
		q = q.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	if filters.Badge != nil {
		q = q.Where("badge = ?", filters.Badge.String())
	}
	if term := strings.TrimSpace(filters.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR ? = ANY(search_tags)", like, strings.ToLower(term))
	}

	switch filters.Sort {
	case SortPriceAsc:
		q = q.Order("price ASC")
	case SortPriceDesc:
		q = q.Order("price DESC")
	case SortNewest:
		q = q.Order("created_at DESC")
	default:
		q = q.Order("name ASC")
	}

	var items []models.Product
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var item models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var item models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ?", slug).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return &item, nil
}

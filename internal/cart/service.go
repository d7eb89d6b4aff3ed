package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/markberon/sari-store-backend/pkg/db/models"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
	"github.com/markberon/sari-store-backend/pkg/pricing"
	"github.com/markberon/sari-store-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations for a storefront session.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*View, error)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*View, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*View, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error)
	ClearCart(ctx context.Context, sessionID string) (*View, error)
}

// View is the cart plus its derived totals, shaped for API responses.
type View struct {
	SessionID   string                   `json:"session_id"`
	Items       []types.CartItemSnapshot `json:"items"`
	ItemCount   int                      `json:"item_count"`
	Subtotal    decimal.Decimal          `json:"subtotal"`
	DeliveryFee decimal.Decimal          `json:"delivery_fee"`
	Total       decimal.Decimal          `json:"total"`
}

type service struct {
	repo     Repository
	tx       txRunner
	products productLoader
	rule     pricing.Rule
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, products productLoader, rule pricing.Rule) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, tx: tx, products: products, rule: rule}, nil
}

// GetCart loads the session's cart, returning an empty view when the session
// has never carted anything.
func (s *service) GetCart(ctx context.Context, sessionID string) (*View, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, cart), nil
}

// AddItem snapshots the product as of now and merges it into the cart. The
// frozen copy is what later drives checkout pricing.
func (s *service) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*View, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is not available")
	}

	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.AddItem(snapshotProduct(product), quantity)
		return nil
	})
}

// UpdateQuantity sets the line quantity; zero or less removes the line.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*View, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.UpdateQuantity(productID, quantity)
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

func (s *service) ClearCart(ctx context.Context, sessionID string) (*View, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.Clear()
		return nil
	})
}

// mutate loads, applies, and persists under one transaction so concurrent
// session requests cannot interleave partial snapshots.
func (s *service) mutate(ctx context.Context, sessionID string, fn func(c *Cart) error) (*View, error) {
	var result *Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.FindBySession(ctx, sessionID)
		if err != nil {
			return err
		}

		cart := &Cart{}
		if record != nil {
			cart = FromSnapshots(record.Items)
		}
		if err := fn(cart); err != nil {
			return err
		}

		if _, err := repo.UpsertBySession(ctx, sessionID, cart.Snapshots()); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, result), nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	record, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &Cart{}, nil
	}
	return FromSnapshots(record.Items), nil
}

func (s *service) view(sessionID string, cart *Cart) *View {
	quote := cart.Quote(s.rule)
	items := cart.Snapshots()
	return &View{
		SessionID:   sessionID,
		Items:       items,
		ItemCount:   cart.ItemCount(),
		Subtotal:    quote.Subtotal,
		DeliveryFee: quote.DeliveryFee,
		Total:       quote.Total,
	}
}

func validSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}

func snapshotProduct(p *models.Product) types.ProductSnapshot {
	return types.ProductSnapshot{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Price:         p.Price,
		OldPrice:      p.OldPrice,
		Unit:          p.Unit,
		ImageEmoji:    p.ImageEmoji,
		ImageURL:      p.ImageURL,
		Badge:         p.Badge,
		IsAvailable:   p.IsAvailable,
		StockQuantity: p.StockQuantity,
	}
}

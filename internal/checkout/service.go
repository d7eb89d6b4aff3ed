package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/markberon/sari-store-backend/internal/cart"
	"github.com/markberon/sari-store-backend/internal/notify"
	"github.com/markberon/sari-store-backend/internal/orders"
	"github.com/markberon/sari-store-backend/pkg/db/models"
	"github.com/markberon/sari-store-backend/pkg/enums"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
	"github.com/markberon/sari-store-backend/pkg/format"
	"github.com/markberon/sari-store-backend/pkg/logger"
	"github.com/markberon/sari-store-backend/pkg/metrics"
	"github.com/markberon/sari-store-backend/pkg/ordernum"
	"github.com/markberon/sari-store-backend/pkg/pricing"
	"github.com/markberon/sari-store-backend/pkg/types"
)

// maxOrderNumberAttempts bounds retries when the random suffix collides with
// an existing order number.
const maxOrderNumberAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type dispatcher interface {
	Dispatch(ctx context.Context, data notify.OrderData) notify.Result
}

// Service assembles orders out of carts.
type Service interface {
	CreateOrder(ctx context.Context, sessionID string, input CreateOrderInput) (*Confirmation, error)
}

// CreateOrderInput is the validated checkout payload.
type CreateOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CustomerNotes   *string
	PaymentMethod   enums.PaymentMethod
	GCashReference  *string
}

// Confirmation is returned to the storefront once the order is durable. The
// totals here are the frozen copies; the live cart has already been cleared.
type Confirmation struct {
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time           `json:"created_at"`
}

type service struct {
	ordersRepo orders.Repository
	cartRepo   cart.Repository
	tx         txRunner
	notifier   dispatcher
	rule       pricing.Rule
	metrics    *metrics.StorefrontMetrics
	logg       *logger.Logger
	now        func() time.Time
}

// NewService builds the checkout service.
func NewService(
	ordersRepo orders.Repository,
	cartRepo cart.Repository,
	tx txRunner,
	notifier dispatcher,
	rule pricing.Rule,
	m *metrics.StorefrontMetrics,
	logg *logger.Logger,
) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notification dispatcher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		ordersRepo: ordersRepo,
		cartRepo:   cartRepo,
		tx:         tx,
		notifier:   notifier,
		rule:       rule,
		metrics:    m,
		logg:       logg,
		now:        time.Now,
	}, nil
}

// CreateOrder freezes the cart into an order. Totals are computed once, here,
// from the cart's snapshot prices; the order row never points back at live
// catalog prices. Persistence failure fails the checkout, a failed owner
// notification does not.
func (s *service) CreateOrder(ctx context.Context, sessionID string, input CreateOrderInput) (*Confirmation, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	record, err := s.cartRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if record == nil || len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	basket := cart.FromSnapshots(record.Items)
	quote := basket.Quote(s.rule)
	createdAt := s.now().UTC()

	var created *models.Order
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		number := ordernum.Generate(createdAt)
		created, err = s.persistOrder(ctx, sessionID, number, createdAt, input, record.Items, quote)
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}
		// suffix collision, roll the dice again
	}
	if created == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "could not allocate order number")
	}

	s.metrics.IncOrderCreated(input.PaymentMethod.String())

	// fire and forget: checkout has already succeeded, so the notification
	// runs detached from the request's cancellation
	notifyCtx := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logg.Error(notifyCtx, "notification dispatch panicked", fmt.Errorf("%v", r))
			}
		}()
		s.notifier.Dispatch(notifyCtx, s.orderData(created, input, record.Items))
	}()

	return &Confirmation{
		OrderNumber:   created.OrderNumber,
		Status:        created.Status,
		Subtotal:      created.Subtotal,
		DeliveryFee:   created.DeliveryFee,
		Total:         created.Total,
		PaymentMethod: input.PaymentMethod,
		CreatedAt:     created.CreatedAt,
	}, nil
}

func (s *service) persistOrder(
	ctx context.Context,
	sessionID string,
	number string,
	createdAt time.Time,
	input CreateOrderInput,
	items types.CartItemSnapshots,
	quote pricing.Quote,
) (*models.Order, error) {
	order := &models.Order{
		OrderNumber:     number,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.CustomerAddress,
		CustomerNotes:   input.CustomerNotes,
		Status:          enums.OrderStatusPending,
		Subtotal:        quote.Subtotal,
		DeliveryFee:     quote.DeliveryFee,
		Total:           quote.Total,
		CreatedAt:       createdAt,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)

		if _, err := ordersRepo.CreateOrder(ctx, order); err != nil {
			return err
		}

		lines := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			productID := item.Product.ID
			lines = append(lines, models.OrderItem{
				OrderID:      order.ID,
				ProductID:    &productID,
				ProductName:  item.Product.Name,
				ProductPrice: item.Product.Price,
				Quantity:     item.Quantity,
				Subtotal:     item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			})
		}
		if err := ordersRepo.CreateOrderItems(ctx, lines); err != nil {
			return err
		}

		payment := &models.Payment{
			OrderID:         order.ID,
			Method:          input.PaymentMethod,
			ReferenceNumber: input.GCashReference,
			Amount:          quote.Total,
		}
		if _, err := ordersRepo.CreatePayment(ctx, payment); err != nil {
			return err
		}

		return s.cartRepo.WithTx(tx).DeleteBySession(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) orderData(order *models.Order, input CreateOrderInput, items types.CartItemSnapshots) notify.OrderData {
	lines := make([]notify.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, notify.OrderLine{
			Name:     item.Product.Name,
			Price:    item.Product.Price,
			Quantity: item.Quantity,
		})
	}
	return notify.OrderData{
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		CustomerNotes:   order.CustomerNotes,
		Items:           lines,
		Subtotal:        order.Subtotal,
		DeliveryFee:     order.DeliveryFee,
		Total:           order.Total,
		PaymentMethod:   input.PaymentMethod,
		GCashReference:  input.GCashReference,
		PlacedAt:        order.CreatedAt,
	}
}

func validateInput(input *CreateOrderInput) error {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerAddress = strings.TrimSpace(input.CustomerAddress)
	input.CustomerPhone = format.NormalizePhone(input.CustomerPhone)

	if input.CustomerName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if input.CustomerAddress == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if !format.ValidMobile(input.CustomerPhone) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid mobile number")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.PaymentMethod == enums.PaymentMethodGCash {
		if input.GCashReference == nil || strings.TrimSpace(*input.GCashReference) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "gcash reference number is required")
		}
		ref := strings.TrimSpace(*input.GCashReference)
		input.GCashReference = &ref
	} else {
		input.GCashReference = nil
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return pkgerrors.Dump(err).PGCode == "23505"
}

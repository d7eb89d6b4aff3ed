package checkout

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/markberon/sari-store-backend/internal/cart"
	"github.com/markberon/sari-store-backend/internal/notify"
	"github.com/markberon/sari-store-backend/internal/orders"
	"github.com/markberon/sari-store-backend/pkg/db/models"
	"github.com/markberon/sari-store-backend/pkg/enums"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
	"github.com/markberon/sari-store-backend/pkg/logger"
	"github.com/markberon/sari-store-backend/pkg/pricing"
	"github.com/markberon/sari-store-backend/pkg/types"
)

type stubOrdersRepo struct {
	orders    []*models.Order
	items     [][]models.OrderItem
	payments  []*models.Payment
	createErr []error
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if len(s.createErr) > 0 {
		err := s.createErr[0]
		s.createErr = s.createErr[1:]
		if err != nil {
			return nil, err
		}
	}
	order.ID = uuid.New()
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	s.items = append(s.items, items)
	return nil
}

func (s *stubOrdersRepo) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	s.payments = append(s.payments, payment)
	return payment, nil
}

func (s *stubOrdersRepo) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrdersRepo) ListByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	return nil, nil
}

type stubCartRepo struct {
	record  *models.CartRecord
	deleted []string
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) FindBySession(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	return s.record, nil
}

func (s *stubCartRepo) UpsertBySession(ctx context.Context, sessionID string, items types.CartItemSnapshots) (*models.CartRecord, error) {
	return s.record, nil
}

func (s *stubCartRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	s.deleted = append(s.deleted, sessionID)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubDispatcher struct {
	calls chan notify.OrderData
	panic bool
}

func (s *stubDispatcher) Dispatch(ctx context.Context, data notify.OrderData) notify.Result {
	if s.panic {
		panic("dispatcher exploded")
	}
	if s.calls != nil {
		s.calls <- data
	}
	return notify.Result{Delivered: true, Channel: "resend"}
}

func cartRecord(items ...types.CartItemSnapshot) *models.CartRecord {
	return &models.CartRecord{
		SessionID: "session-1",
		Items:     items,
	}
}

func line(price int64, qty int) types.CartItemSnapshot {
	return types.CartItemSnapshot{
		ID: uuid.NewString(),
		Product: types.ProductSnapshot{
			ID:    uuid.New(),
			Name:  "Cooking Oil 1L",
			Price: decimal.NewFromInt(price),
		},
		Quantity: qty,
	}
}

func validInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerName:    "Juan Dela Cruz",
		CustomerPhone:   "0917 123 4567",
		CustomerAddress: "123 Mabini St, Quezon City",
		PaymentMethod:   enums.PaymentMethodCOD,
	}
}

func newTestService(t *testing.T, ordersRepo *stubOrdersRepo, cartRepo *stubCartRepo, d dispatcher) Service {
	t.Helper()
	svc, err := NewService(
		ordersRepo,
		cartRepo,
		stubTxRunner{},
		d,
		pricing.DefaultRule(),
		nil,
		logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateOrderFreezesTotals(t *testing.T) {
	t.Parallel()

	ordersRepo := &stubOrdersRepo{}
	cartRepo := &stubCartRepo{record: cartRecord(line(120, 2), line(60, 1))} // subtotal 300
	d := &stubDispatcher{calls: make(chan notify.OrderData, 1)}
	svc := newTestService(t, ordersRepo, cartRepo, d)

	confirmation, err := svc.CreateOrder(context.Background(), "session-1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !confirmation.Subtotal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected subtotal 300, got %s", confirmation.Subtotal)
	}
	if !confirmation.DeliveryFee.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected delivery fee 50, got %s", confirmation.DeliveryFee)
	}
	if !confirmation.Total.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("expected total 350, got %s", confirmation.Total)
	}
	if confirmation.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", confirmation.Status)
	}

	if len(ordersRepo.orders) != 1 {
		t.Fatalf("expected one order persisted, got %d", len(ordersRepo.orders))
	}
	if len(ordersRepo.items) != 1 || len(ordersRepo.items[0]) != 2 {
		t.Fatalf("expected two frozen line items, got %+v", ordersRepo.items)
	}
	frozen := ordersRepo.items[0][0]
	if frozen.ProductName == "" || !frozen.ProductPrice.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected copied name and price, got %+v", frozen)
	}
	if !frozen.Subtotal.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("expected line subtotal 240, got %s", frozen.Subtotal)
	}
}

func TestCreateOrderFreeDeliveryAtThreshold(t *testing.T) {
	t.Parallel()

	ordersRepo := &stubOrdersRepo{}
	cartRepo := &stubCartRepo{record: cartRecord(line(500, 2))} // exactly 1000
	svc := newTestService(t, ordersRepo, cartRepo, &stubDispatcher{})

	confirmation, err := svc.CreateOrder(context.Background(), "session-1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !confirmation.DeliveryFee.IsZero() {
		t.Fatalf("expected free delivery at threshold, got %s", confirmation.DeliveryFee)
	}
	if !confirmation.Total.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected total 1000, got %s", confirmation.Total)
	}
}

func TestCreateOrderClearsCart(t *testing.T) {
	t.Parallel()

	cartRepo := &stubCartRepo{record: cartRecord(line(100, 1))}
	svc := newTestService(t, &stubOrdersRepo{}, cartRepo, &stubDispatcher{})

	if _, err := svc.CreateOrder(context.Background(), "session-1", validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cartRepo.deleted) != 1 || cartRepo.deleted[0] != "session-1" {
		t.Fatalf("expected cart cleared for session, got %v", cartRepo.deleted)
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubOrdersRepo{}, &stubCartRepo{}, &stubDispatcher{})

	_, err := svc.CreateOrder(context.Background(), "session-1", validInput())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
}

func TestCreateOrderInvalidPhone(t *testing.T) {
	t.Parallel()

	cartRepo := &stubCartRepo{record: cartRecord(line(100, 1))}
	svc := newTestService(t, &stubOrdersRepo{}, cartRepo, &stubDispatcher{})

	input := validInput()
	input.CustomerPhone = "12345"
	_, err := svc.CreateOrder(context.Background(), "session-1", input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateOrderCODDropsGCashReference(t *testing.T) {
	t.Parallel()

	ordersRepo := &stubOrdersRepo{}
	cartRepo := &stubCartRepo{record: cartRecord(line(100, 1))}
	svc := newTestService(t, ordersRepo, cartRepo, &stubDispatcher{})

	ref := "GC-12345"
	input := validInput()
	input.GCashReference = &ref

	if _, err := svc.CreateOrder(context.Background(), "session-1", input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ordersRepo.payments[0].ReferenceNumber != nil {
		t.Fatal("expected gcash reference dropped for cod")
	}
}

func TestCreateOrderGCashKeepsReference(t *testing.T) {
	t.Parallel()

	ordersRepo := &stubOrdersRepo{}
	cartRepo := &stubCartRepo{record: cartRecord(line(100, 1))}
	svc := newTestService(t, ordersRepo, cartRepo, &stubDispatcher{})

	ref := "GC-12345"
	input := validInput()
	input.PaymentMethod = enums.PaymentMethodGCash
	input.GCashReference = &ref

	if _, err := svc.CreateOrder(context.Background(), "session-1", input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payment := ordersRepo.payments[0]
	if payment.Method != enums.PaymentMethodGCash {
		t.Fatalf("expected gcash payment, got %s", payment.Method)
	}
	if payment.ReferenceNumber == nil || *payment.ReferenceNumber != ref {
		t.Fatal("expected gcash reference kept")
	}
}

func TestCreateOrderGCashRequiresReference(t *testing.T) {
	t.Parallel()

	ordersRepo := &stubOrdersRepo{}
	cartRepo := &stubCartRepo{record: cartRecord(line(100, 1))}
	svc := newTestService(t, ordersRepo, cartRepo, &stubDispatcher{})

	for name, ref := range map[string]*string{
		"nil":   nil,
		"blank": ptr("   "),
	} {
		input := validInput()
		input.PaymentMethod = enums.PaymentMethodGCash
		input.GCashReference = ref

		_, err := svc.CreateOrder(context.Background(), "session-1", input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s reference: expected validation error, got %v", name, err)
		}
	}
	if len(ordersRepo.orders) != 0 {
		t.Fatalf("expected no order persisted, got %d", len(ordersRepo.orders))
	}
}

func ptr(s string) *string { return &s }

func TestCreateOrderNotifies(t *testing.T) {
	t.Parallel()

	cartRepo := &stubCartRepo{record: cartRecord(line(100, 2))}
	d := &stubDispatcher{calls: make(chan notify.OrderData, 1)}
	svc := newTestService(t, &stubOrdersRepo{}, cartRepo, d)

	confirmation, err := svc.CreateOrder(context.Background(), "session-1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case data := <-d.calls:
		if data.OrderNumber != confirmation.OrderNumber {
			t.Fatalf("notification for wrong order: %s vs %s", data.OrderNumber, confirmation.OrderNumber)
		}
		if len(data.Items) != 1 {
			t.Fatalf("expected one notification line, got %d", len(data.Items))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected notification dispatch")
	}
}

func TestCreateOrderSurvivesDispatcherPanic(t *testing.T) {
	t.Parallel()

	cartRepo := &stubCartRepo{record: cartRecord(line(100, 1))}
	svc := newTestService(t, &stubOrdersRepo{}, cartRepo, &stubDispatcher{panic: true})

	if _, err := svc.CreateOrder(context.Background(), "session-1", validInput()); err != nil {
		t.Fatalf("checkout must not fail on notification panic: %v", err)
	}
	// give the goroutine a beat to run its recover
	time.Sleep(50 * time.Millisecond)
}

func TestCreateOrderPersistFailure(t *testing.T) {
	t.Parallel()

	ordersRepo := &stubOrdersRepo{createErr: []error{errors.New("connection reset")}}
	cartRepo := &stubCartRepo{record: cartRecord(line(100, 1))}
	d := &stubDispatcher{calls: make(chan notify.OrderData, 1)}
	svc := newTestService(t, ordersRepo, cartRepo, d)

	_, err := svc.CreateOrder(context.Background(), "session-1", validInput())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}

	select {
	case <-d.calls:
		t.Fatal("notification must not fire when persistence fails")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCreateOrderRetriesOnNumberCollision(t *testing.T) {
	t.Parallel()

	ordersRepo := &stubOrdersRepo{createErr: []error{
		&pq.Error{Code: "23505", Constraint: "idx_orders_order_number"},
	}}
	cartRepo := &stubCartRepo{record: cartRecord(line(100, 1))}
	svc := newTestService(t, ordersRepo, cartRepo, &stubDispatcher{})

	confirmation, err := svc.CreateOrder(context.Background(), "session-1", validInput())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if confirmation.OrderNumber == "" {
		t.Fatal("expected an order number after retry")
	}
	if len(ordersRepo.orders) != 1 {
		t.Fatalf("expected exactly one persisted order, got %d", len(ordersRepo.orders))
	}
}

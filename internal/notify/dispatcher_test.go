package notify

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/markberon/sari-store-backend/pkg/config"
	"github.com/markberon/sari-store-backend/pkg/enums"
	"github.com/markberon/sari-store-backend/pkg/logger"
)

type stubChannel struct {
	name  string
	id    string
	err   error
	panic bool
	sent  int
}

func (s *stubChannel) Name() string { return s.name }

func (s *stubChannel) Send(ctx context.Context, email Email) (string, error) {
	s.sent++
	if s.panic {
		panic("channel exploded")
	}
	return s.id, s.err
}

func testOrderData() OrderData {
	return OrderData{
		OrderNumber:     "SS-260831-A1B2",
		CustomerName:    "Juan Dela Cruz",
		CustomerPhone:   "09171234567",
		CustomerAddress: "123 Mabini St, Quezon City",
		Items: []OrderLine{
			{Name: "Cooking Oil 1L", Price: decimal.NewFromInt(120), Quantity: 2},
		},
		Subtotal:      decimal.NewFromInt(240),
		DeliveryFee:   decimal.NewFromInt(50),
		Total:         decimal.NewFromInt(290),
		PaymentMethod: enums.PaymentMethodCOD,
		PlacedAt:      time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
	}
}

func testDispatcher(t *testing.T, channels ...Channel) *Dispatcher {
	t.Helper()
	return &Dispatcher{
		storeName:  "Sari-Store",
		ownerEmail: "owner@example.com",
		from:       "orders@example.com",
		channels:   channels,
		logg:       logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}
}

func TestDispatchPrimaryDelivers(t *testing.T) {
	t.Parallel()

	primary := &stubChannel{name: "resend", id: "email-123"}
	secondary := &stubChannel{name: "relay"}
	d := testDispatcher(t, primary, secondary)

	result := d.Dispatch(context.Background(), testOrderData())

	if !result.Delivered {
		t.Fatal("expected delivery via primary channel")
	}
	if result.Channel != "resend" || result.EmailID != "email-123" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Warning != "" {
		t.Fatalf("unexpected warning: %q", result.Warning)
	}
	if secondary.sent != 0 {
		t.Fatal("secondary channel must not be attempted after delivery")
	}
}

func TestDispatchFallsBackToRelay(t *testing.T) {
	t.Parallel()

	primary := &stubChannel{name: "resend", err: errors.New("503 from upstream")}
	secondary := &stubChannel{name: "relay", id: "relay-7"}
	d := testDispatcher(t, primary, secondary)

	result := d.Dispatch(context.Background(), testOrderData())

	if !result.Delivered || result.Channel != "relay" {
		t.Fatalf("expected relay delivery, got %+v", result)
	}
	if primary.sent != 1 || secondary.sent != 1 {
		t.Fatalf("expected both channels attempted once, got %d/%d", primary.sent, secondary.sent)
	}
}

func TestDispatchAllChannelsFail(t *testing.T) {
	t.Parallel()

	d := testDispatcher(t,
		&stubChannel{name: "resend", err: errors.New("bad api key")},
		&stubChannel{name: "relay", err: errors.New("timeout")},
	)

	result := d.Dispatch(context.Background(), testOrderData())

	if result.Delivered {
		t.Fatal("expected logged-only outcome")
	}
	if result.Warning != "email delivery failed; notification logged" {
		t.Fatalf("unexpected warning: %q", result.Warning)
	}
}

func TestDispatchNoChannelsConfigured(t *testing.T) {
	t.Parallel()

	d := testDispatcher(t)

	result := d.Dispatch(context.Background(), testOrderData())

	if result.Delivered {
		t.Fatal("expected logged-only outcome")
	}
	if result.Warning != "email service not configured" {
		t.Fatalf("unexpected warning: %q", result.Warning)
	}
}

func TestDispatchContainsChannelPanic(t *testing.T) {
	t.Parallel()

	primary := &stubChannel{name: "resend", panic: true}
	secondary := &stubChannel{name: "relay", id: "relay-9"}
	d := testDispatcher(t, primary, secondary)

	result := d.Dispatch(context.Background(), testOrderData())

	if !result.Delivered || result.Channel != "relay" {
		t.Fatalf("expected relay to deliver after panic, got %+v", result)
	}
}

func TestNewDispatcherChannelWiring(t *testing.T) {
	t.Parallel()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	store := config.StoreConfig{Name: "Sari-Store", OwnerEmail: "owner@example.com"}

	cases := []struct {
		name string
		cfg  config.NotifyConfig
		want int
	}{
		{name: "nothing configured", cfg: config.NotifyConfig{}, want: 0},
		{name: "resend only", cfg: config.NotifyConfig{ResendAPIKey: "re_key"}, want: 1},
		{
			name: "resend and relay",
			cfg:  config.NotifyConfig{ResendAPIKey: "re_key", RelayEndpoint: "https://relay.example.com/send", RelayToken: "tok"},
			want: 2,
		},
		{
			name: "relay needs both endpoint and token",
			cfg:  config.NotifyConfig{RelayEndpoint: "https://relay.example.com/send"},
			want: 0,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d, err := NewDispatcher(tc.cfg, store, logg, nil)
			if err != nil {
				t.Fatalf("NewDispatcher: %v", err)
			}
			if len(d.channels) != tc.want {
				t.Fatalf("expected %d channels, got %d", tc.want, len(d.channels))
			}
		})
	}
}

func TestNewDispatcherRequiresOwnerEmail(t *testing.T) {
	t.Parallel()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	if _, err := NewDispatcher(config.NotifyConfig{}, config.StoreConfig{Name: "Sari-Store"}, logg, nil); err == nil {
		t.Fatal("expected error without owner email")
	}
}

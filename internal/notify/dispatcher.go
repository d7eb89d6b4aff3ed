package notify

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/multierr"

	"github.com/markberon/sari-store-backend/pkg/config"
	"github.com/markberon/sari-store-backend/pkg/logger"
	"github.com/markberon/sari-store-backend/pkg/metrics"
)

// Result reports how a dispatch went. Delivered means some channel accepted
// the email; when false the notification still exists in the logs, which is
// why dispatch as a whole never fails the order.
type Result struct {
	Delivered bool   `json:"delivered"`
	Channel   string `json:"channel,omitempty"`
	EmailID   string `json:"email_id,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// Dispatcher runs the notification channel chain: Resend first, the relay
// only if Resend did not deliver, and the structured log always.
type Dispatcher struct {
	storeName  string
	ownerEmail string
	from       string
	channels   []Channel
	logg       *logger.Logger
	metrics    *metrics.StorefrontMetrics
}

// NewDispatcher wires the channel chain from config. Channels whose
// credentials are absent are left out entirely; an empty chain is valid and
// degrades to log-only delivery.
func NewDispatcher(cfg config.NotifyConfig, store config.StoreConfig, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Dispatcher, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if store.OwnerEmail == "" {
		return nil, fmt.Errorf("store owner email required")
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	var channels []Channel
	if cfg.ResendAPIKey != "" {
		channels = append(channels, NewResendChannel(httpClient, cfg.ResendBaseURL, cfg.ResendAPIKey))
	}
	if cfg.RelayEndpoint != "" && cfg.RelayToken != "" {
		channels = append(channels, NewRelayChannel(httpClient, cfg.RelayEndpoint, cfg.RelayToken))
	}

	return &Dispatcher{
		storeName:  store.Name,
		ownerEmail: store.OwnerEmail,
		from:       cfg.ResendFrom,
		channels:   channels,
		logg:       logg,
		metrics:    m,
	}, nil
}

// Dispatch renders the owner email and walks the channel chain. Channel
// failures and panics are contained here; the returned Result never carries
// an error because a failed notification must not fail its order.
func (d *Dispatcher) Dispatch(ctx context.Context, data OrderData) Result {
	ctx = d.logg.WithOrderNumber(ctx, data.OrderNumber)
	email := BuildOrderEmail(d.storeName, d.ownerEmail, d.from, data)

	result := Result{}
	var errs error

	for _, channel := range d.channels {
		if result.Delivered {
			break
		}
		id, err := d.send(ctx, channel, email)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", channel.Name(), err))
			d.metrics.IncNotifyAttempt(channel.Name(), "error")
			d.logg.Error(ctx, "notification channel failed", err)
			continue
		}
		result.Delivered = true
		result.Channel = channel.Name()
		result.EmailID = id
		d.metrics.IncNotifyAttempt(channel.Name(), "ok")
	}

	// the log channel always fires, delivered or not
	logCtx := d.logg.WithFields(ctx, map[string]any{
		"to":      email.To,
		"subject": email.Subject,
		"total":   data.Total.String(),
	})
	d.logg.Info(logCtx, "order notification\n"+email.Text)

	if result.Delivered {
		d.metrics.IncNotifyOutcome("delivered")
		return result
	}

	d.metrics.IncNotifyOutcome("logged_only")
	if errs != nil {
		result.Warning = "email delivery failed; notification logged"
	} else {
		result.Warning = "email service not configured"
	}
	return result
}

// send isolates a channel call so a panicking channel cannot take the
// dispatch down with it.
func (d *Dispatcher) send(ctx context.Context, channel Channel, email Email) (id string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel panicked: %v", r)
		}
	}()
	return channel.Send(ctx, email)
}

package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
)

// ErrNoSecretKey is returned by New when the stripe secret key is empty.
var ErrNoSecretKey = errors.New("stripe secret key not configured")

// Customers provisions Stripe customers for new users.
type Customers struct {
	client customer.Client
}

// Options tweaks the Stripe backend, zero value talks to api.stripe.com.
type Options struct {
	URL        string
	HTTPClient *http.Client
	Retries    *int64
}

func New(secretKey string, logger *slog.Logger, opts Options) (*Customers, error) {
	if secretKey == "" {
		return nil, ErrNoSecretKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg := &stripe.BackendConfig{
		HTTPClient:        opts.HTTPClient,
		LeveledLogger:     slogLeveled{logger.With("component", "stripe")},
		MaxNetworkRetries: opts.Retries,
	}
	if opts.URL != "" {
		cfg.URL = stripe.String(opts.URL)
	}
	return &Customers{client: customer.Client{
		B:   stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Key: secretKey,
	}}, nil
}

// IdempotencyKey is sent with every customer create, so concurrent or
// repeated requests for one user resolve to the same Stripe customer.
func IdempotencyKey(userID string) string { return "customer-" + userID }

// CreateCustomer implements user.Billing
func (c *Customers) CreateCustomer(ctx context.Context, userID, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	params.SetIdempotencyKey(IdempotencyKey(userID))
	params.AddMetadata("user_id", userID)
	cus, err := c.client.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) {
			return "", fmt.Errorf("stripe create customer (%d %s): %w", serr.HTTPStatusCode, serr.Code, err)
		}
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return cus.ID, nil
}

// slogLeveled adapts slog to stripe.LeveledLoggerInterface
type slogLeveled struct{ l *slog.Logger }

func (s slogLeveled) Debugf(format string, v ...interface{}) { s.l.Debug(fmt.Sprintf(format, v...)) }
func (s slogLeveled) Errorf(format string, v ...interface{}) { s.l.Error(fmt.Sprintf(format, v...)) }
func (s slogLeveled) Infof(format string, v ...interface{})  { s.l.Info(fmt.Sprintf(format, v...)) }
func (s slogLeveled) Warnf(format string, v ...interface{})  { s.l.Warn(fmt.Sprintf(format, v...)) }

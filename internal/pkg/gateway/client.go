// Package gateway is a client for a Stripe-like card payment API. It drives
// the payment-intent flow: create an intent for an amount, confirm it with
// card details, and read back the final status.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov/lms-backend/internal/pkg/logger"
)

const maxTimeout = 30 * time.Second

// Outcome error codes for failures that never reached the provider.
const (
	ErrCodeUnreachable = "gateway_unreachable"
	ErrCodeTimeout     = "timeout"
)

// Config holds gateway connection settings.
type Config struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// Client talks to the payment provider over HTTP.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient builds a gateway client. The request timeout is capped at 30
// seconds so a stuck provider cannot hold a charge open indefinitely.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 || timeout > maxTimeout {
		timeout = maxTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// IntentError is the provider's error block on a failed intent.
type IntentError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Intent is a payment intent as returned by the provider.
type Intent struct {
	ID        string       `json:"id"`
	Status    string       `json:"status"`
	Amount    int64        `json:"amount"`
	Currency  string       `json:"currency"`
	LastError *IntentError `json:"last_payment_error,omitempty"`
}

// Card carries the confirmed card details for an intent.
type Card struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
}

// CreateIntent registers a new payment intent for the amount in minor units.
func (c *Client) CreateIntent(ctx context.Context, amount int64, currency, description, idempotencyKey string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("description", description)

	return c.do(ctx, http.MethodPost, "/payment_intents", form, idempotencyKey)
}

// ConfirmIntent confirms an intent with card details, triggering the charge.
func (c *Client) ConfirmIntent(ctx context.Context, intentID string, card Card, idempotencyKey string) (*Intent, error) {
	form := url.Values{}
	form.Set("payment_method_data[type]", "card")
	form.Set("payment_method_data[card][number]", card.Number)
	form.Set("payment_method_data[card][exp_month]", strconv.Itoa(card.ExpMonth))
	form.Set("payment_method_data[card][exp_year]", strconv.Itoa(card.ExpYear))
	form.Set("payment_method_data[card][cvc]", card.CVC)

	return c.do(ctx, http.MethodPost, "/payment_intents/"+intentID+"/confirm", form, idempotencyKey)
}

// RetrieveIntent reads the current state of an intent.
func (c *Client) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	return c.do(ctx, http.MethodGet, "/payment_intents/"+intentID, nil, "")
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, idempotencyKey string) (*Intent, error) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Provider errors still carry an intent body with last_payment_error set,
	// so decode regardless of status code.
	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return &intent, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return &intent, nil
}

// Outcome is the final result of one charge attempt.
type Outcome struct {
	Succeeded    bool
	Reference    string
	ErrorCode    string
	ErrorMessage string
}

// ChargeRequest describes a single charge.
type ChargeRequest struct {
	Amount      int64
	Currency    string
	Description string
	Card        Card
}

// Charge runs the full intent flow once: create, confirm, inspect. There is
// exactly one attempt per call; a fresh idempotency key is generated so a
// retried HTTP request cannot double-charge, while a new Charge call is a new
// purchase attempt. Statuses other than "succeeded" (including
// "requires_action") are reported as failures.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) Outcome {
	idempotencyKey := uuid.New().String()

	intent, err := c.CreateIntent(ctx, req.Amount, req.Currency, req.Description, idempotencyKey)
	if err != nil {
		return transportOutcome(err)
	}

	confirmed, err := c.ConfirmIntent(ctx, intent.ID, req.Card, idempotencyKey)
	if err != nil {
		// The confirm may have been applied before the connection dropped.
		// A retrieve settles it; if that fails too, report the transport error.
		if retrieved, rerr := c.RetrieveIntent(ctx, intent.ID); rerr == nil {
			confirmed = retrieved
		} else {
			logger.Warn().Err(err).Str("intentId", intent.ID).Msg("Gateway confirm failed and intent could not be retrieved")
			return transportOutcome(err)
		}
	}

	if confirmed.Status == "succeeded" {
		return Outcome{
			Succeeded: true,
			Reference: confirmed.ID,
		}
	}

	out := Outcome{
		Reference:    confirmed.ID,
		ErrorCode:    "card_declined",
		ErrorMessage: fmt.Sprintf("charge not completed: status %q", confirmed.Status),
	}
	if confirmed.LastError != nil {
		out.ErrorCode = confirmed.LastError.Code
		out.ErrorMessage = confirmed.LastError.Message
	}
	return out
}

func transportOutcome(err error) Outcome {
	code := ErrCodeUnreachable
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		code = ErrCodeTimeout
	}
	return Outcome{
		ErrorCode:    code,
		ErrorMessage: err.Error(),
	}
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCard() Card {
	return Card{
		Number:   "4532015112830366",
		ExpMonth: 12,
		ExpYear:  2030,
		CVC:      "123",
	}
}

func TestCharge_Succeeded(t *testing.T) {
	var idempotencyKeys []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idempotencyKeys = append(idempotencyKeys, r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/payment_intents":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "150000", r.PostForm.Get("amount"))
			assert.Equal(t, "rub", r.PostForm.Get("currency"))
			json.NewEncoder(w).Encode(Intent{ID: "pi_1", Status: "requires_confirmation"})
		case "/payment_intents/pi_1/confirm":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "4532015112830366", r.PostForm.Get("payment_method_data[card][number]"))
			json.NewEncoder(w).Encode(Intent{ID: "pi_1", Status: "succeeded"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test_key", Timeout: 5 * time.Second})
	out := client.Charge(context.Background(), ChargeRequest{
		Amount:      150000,
		Currency:    "RUB",
		Description: "Section purchase",
		Card:        testCard(),
	})

	assert.True(t, out.Succeeded)
	assert.Equal(t, "pi_1", out.Reference)
	assert.Empty(t, out.ErrorCode)

	// Same key for both legs of the attempt.
	require.Len(t, idempotencyKeys, 2)
	assert.Equal(t, idempotencyKeys[0], idempotencyKeys[1])
	assert.NotEmpty(t, idempotencyKeys[0])
}

func TestCharge_Declined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/payment_intents":
			json.NewEncoder(w).Encode(Intent{ID: "pi_2", Status: "requires_confirmation"})
		case "/payment_intents/pi_2/confirm":
			w.WriteHeader(http.StatusPaymentRequired)
			json.NewEncoder(w).Encode(Intent{
				ID:     "pi_2",
				Status: "requires_payment_method",
				LastError: &IntentError{
					Code:    "card_declined",
					Message: "Your card was declined.",
				},
			})
		}
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test_key", Timeout: 5 * time.Second})
	out := client.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "USD", Card: testCard()})

	assert.False(t, out.Succeeded)
	assert.Equal(t, "card_declined", out.ErrorCode)
	assert.Equal(t, "Your card was declined.", out.ErrorMessage)
}

func TestCharge_RequiresActionIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/payment_intents":
			json.NewEncoder(w).Encode(Intent{ID: "pi_3", Status: "requires_confirmation"})
		case "/payment_intents/pi_3/confirm":
			json.NewEncoder(w).Encode(Intent{ID: "pi_3", Status: "requires_action"})
		}
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test_key", Timeout: 5 * time.Second})
	out := client.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "EUR", Card: testCard()})

	assert.False(t, out.Succeeded)
	assert.Equal(t, "card_declined", out.ErrorCode)
	assert.Contains(t, out.ErrorMessage, "requires_action")
}

func TestCharge_Unreachable(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", SecretKey: "sk_test_key", Timeout: 2 * time.Second})
	out := client.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "RUB", Card: testCard()})

	assert.False(t, out.Succeeded)
	assert.Equal(t, "gateway_unreachable", out.ErrorCode)
}

func TestCharge_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(Intent{ID: "pi_4", Status: "succeeded"})
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test_key", Timeout: 5 * time.Second})
	out := client.Charge(ctx, ChargeRequest{Amount: 100, Currency: "RUB", Card: testCard()})

	assert.False(t, out.Succeeded)
	// The wire value callers match on, not the constant.
	assert.Equal(t, "timeout", out.ErrorCode)
}

func TestCharge_ConfirmDropRecoversByRetrieve(t *testing.T) {
	confirmCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/payment_intents" && r.Method == http.MethodPost:
			json.NewEncoder(w).Encode(Intent{ID: "pi_5", Status: "requires_confirmation"})
		case r.URL.Path == "/payment_intents/pi_5/confirm":
			confirmCalls++
			// Simulate a dropped response after the charge went through.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
		case r.URL.Path == "/payment_intents/pi_5" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(Intent{ID: "pi_5", Status: "succeeded"})
		}
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test_key", Timeout: 5 * time.Second})
	out := client.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "RUB", Card: testCard()})

	assert.True(t, out.Succeeded)
	assert.Equal(t, "pi_5", out.Reference)
	assert.Equal(t, 1, confirmCalls)
}

func TestNewClient_TimeoutCap(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost", SecretKey: "sk", Timeout: 5 * time.Minute})
	assert.Equal(t, maxTimeout, client.httpClient.Timeout)

	client = NewClient(Config{BaseURL: "http://localhost", SecretKey: "sk"})
	assert.Equal(t, maxTimeout, client.httpClient.Timeout)
}

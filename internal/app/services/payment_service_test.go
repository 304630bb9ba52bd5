package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/gateway"
	"github.com/avolkov/lms-backend/internal/pkg/validation"
)

type mockPaymentLedger struct {
	payments   map[int64]*models.Payment
	nextID     int64
	hasPayment bool
	createErr  error
}

func newMockPaymentLedger() *mockPaymentLedger {
	return &mockPaymentLedger{payments: map[int64]*models.Payment{}, nextID: 1}
}

func (m *mockPaymentLedger) CreatePaid(_ context.Context, payment *models.Payment) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	id := m.nextID
	m.nextID++
	stored := *payment
	stored.ID = id
	stored.LastPaymentDate = time.Now()
	m.payments[id] = &stored
	return id, nil
}

func (m *mockPaymentLedger) RecordInstallment(_ context.Context, paymentID int64) (*models.Payment, error) {
	payment, ok := m.payments[paymentID]
	if !ok {
		return nil, apperrors.ErrPaymentNotFound
	}
	if payment.PaymentsLeft == 0 {
		return nil, apperrors.ErrAlreadyFullyPaid
	}
	payment.PaymentsLeft--
	payment.LastPaymentDate = time.Now()
	return payment, nil
}

func (m *mockPaymentLedger) GetByID(_ context.Context, id int64) (*models.Payment, error) {
	payment, ok := m.payments[id]
	if !ok {
		return nil, apperrors.ErrPaymentNotFound
	}
	return payment, nil
}

func (m *mockPaymentLedger) GetByUserID(_ context.Context, userID int64) ([]*models.Payment, error) {
	out := []*models.Payment{}
	for _, p := range m.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPaymentLedger) HasPayment(_ context.Context, _, _ int64) (bool, error) {
	return m.hasPayment, nil
}

type mockSectionLoader struct {
	sections map[int64]*models.Section
}

func (m *mockSectionLoader) GetByID(_ context.Context, id int64) (*models.Section, error) {
	section, ok := m.sections[id]
	if !ok {
		return nil, apperrors.ErrSectionNotFound
	}
	return section, nil
}

type mockCharger struct {
	outcome  gateway.Outcome
	requests []gateway.ChargeRequest
}

func (m *mockCharger) Charge(_ context.Context, req gateway.ChargeRequest) gateway.Outcome {
	m.requests = append(m.requests, req)
	return m.outcome
}

func validCard() models.CardData {
	return models.CardData{
		CardNumber:      "4532015112830366",
		OwnerName:       "Ivan Petrov",
		ExpirationMonth: 12,
		ExpirationYear:  time.Now().Year() + 2,
		CVC:             "123",
	}
}

func paymentFixture(t *testing.T) (*paymentServiceImpl, *mockPaymentLedger, *mockCharger) {
	t.Helper()
	ledger := newMockPaymentLedger()
	sections := &mockSectionLoader{sections: map[int64]*models.Section{
		10: {
			ID:            10,
			Name:          "Go Basics",
			Status:        models.StatusOpen,
			BasePrice:     decimal.RequireFromString("1500.00"),
			PriceCurrency: "RUB",
		},
	}}
	gw := &mockCharger{outcome: gateway.Outcome{Succeeded: true, Reference: "pi_test"}}
	svc := NewPaymentService(ledger, sections, gw).(*paymentServiceImpl)
	return svc, ledger, gw
}

func TestPaySection_FullPayment(t *testing.T) {
	svc, _, gw := paymentFixture(t)

	payment, ref, err := svc.PaySection(context.Background(), 1, 10, models.PaymentTypeFull, validCard())

	require.NoError(t, err)
	assert.Equal(t, "pi_test", ref)
	assert.Equal(t, 0, payment.PaymentsLeft)
	assert.True(t, payment.FullyPaid())
	assert.Equal(t, models.PaymentTypeFull, payment.PaymentType)

	require.Len(t, gw.requests, 1)
	assert.Equal(t, int64(150000), gw.requests[0].Amount)
	assert.Equal(t, "RUB", gw.requests[0].Currency)
}

func TestPaySection_SharePlanChargesQuarter(t *testing.T) {
	svc, _, gw := paymentFixture(t)

	payment, _, err := svc.PaySection(context.Background(), 1, 10, models.PaymentTypeShare, validCard())

	require.NoError(t, err)
	// The creating charge is the first of four installments.
	assert.Equal(t, 3, payment.PaymentsLeft)
	assert.False(t, payment.FullyPaid())

	require.Len(t, gw.requests, 1)
	assert.Equal(t, int64(37500), gw.requests[0].Amount)
}

func TestPaySection_InvalidCardSkipsGateway(t *testing.T) {
	svc, ledger, gw := paymentFixture(t)

	card := validCard()
	card.CardNumber = "4532015112830367" // fails the Luhn check

	_, _, err := svc.PaySection(context.Background(), 1, 10, models.PaymentTypeFull, card)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, gw.requests)
	assert.Empty(t, ledger.payments)
}

func TestPaySection_MalformedCardNumber(t *testing.T) {
	svc, _, gw := paymentFixture(t)

	card := validCard()
	card.CardNumber = "12345"

	_, _, err := svc.PaySection(context.Background(), 1, 10, models.PaymentTypeFull, card)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMalformedInput)
	assert.Empty(t, gw.requests)
}

func TestPaySection_ExpiredCard(t *testing.T) {
	svc, _, gw := paymentFixture(t)

	card := validCard()
	card.ExpirationYear = time.Now().Year() - 1

	_, _, err := svc.PaySection(context.Background(), 1, 10, models.PaymentTypeFull, card)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, gw.requests)
}

func TestPaySection_AlreadyPaid(t *testing.T) {
	svc, ledger, gw := paymentFixture(t)
	ledger.hasPayment = true

	_, _, err := svc.PaySection(context.Background(), 1, 10, models.PaymentTypeFull, validCard())

	assert.ErrorIs(t, err, apperrors.ErrSectionAlreadyPaid)
	assert.Empty(t, gw.requests)
}

func TestPaySection_GatewayDeclineLeavesNoLedgerEntry(t *testing.T) {
	svc, ledger, gw := paymentFixture(t)
	gw.outcome = gateway.Outcome{
		Succeeded:    false,
		ErrorCode:    "card_declined",
		ErrorMessage: "Your card was declined.",
	}

	_, _, err := svc.PaySection(context.Background(), 1, 10, models.PaymentTypeFull, validCard())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrGatewayFailure)
	var customErr *apperrors.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, "card_declined", customErr.Code)
	assert.Empty(t, ledger.payments)
}

func TestPaySection_UnknownSection(t *testing.T) {
	svc, _, _ := paymentFixture(t)

	_, _, err := svc.PaySection(context.Background(), 1, 99, models.PaymentTypeFull, validCard())

	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)
}

func TestPayInstallment_DecrementsRemainder(t *testing.T) {
	svc, ledger, gw := paymentFixture(t)

	created, _, err := svc.PaySection(context.Background(), 1, 10, models.PaymentTypeShare, validCard())
	require.NoError(t, err)
	require.Equal(t, 3, created.PaymentsLeft)

	updated, ref, err := svc.PayInstallment(context.Background(), 1, created.ID, validCard())

	require.NoError(t, err)
	assert.Equal(t, 2, updated.PaymentsLeft)
	assert.Equal(t, "pi_test", ref)
	// Initial charge plus one installment.
	assert.Len(t, gw.requests, 2)
	assert.Equal(t, int64(37500), gw.requests[1].Amount)
	assert.Equal(t, 2, ledger.payments[created.ID].PaymentsLeft)
}

func TestPayInstallment_FullyPaid(t *testing.T) {
	svc, _, gw := paymentFixture(t)

	created, _, err := svc.PaySection(context.Background(), 1, 10, models.PaymentTypeFull, validCard())
	require.NoError(t, err)

	_, _, err = svc.PayInstallment(context.Background(), 1, created.ID, validCard())

	assert.ErrorIs(t, err, apperrors.ErrAlreadyFullyPaid)
	// Only the initial charge reached the gateway.
	assert.Len(t, gw.requests, 1)
}

func TestPayInstallment_FullPlanWithRemainderRefused(t *testing.T) {
	svc, ledger, gw := paymentFixture(t)

	// A FULL entry should never carry a remainder; a row tampered into that
	// state must not be chargeable.
	ledger.payments[1] = &models.Payment{
		ID:            1,
		UserID:        1,
		PaidSectionID: 10,
		PaymentType:   models.PaymentTypeFull,
		PaymentsLeft:  2,
	}
	ledger.nextID = 2

	_, _, err := svc.PayInstallment(context.Background(), 1, 1, validCard())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	var violation *validation.Violation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, validation.KindInvalidPaymentState, violation.Kind)
	assert.Empty(t, gw.requests)
	assert.Equal(t, 2, ledger.payments[1].PaymentsLeft)
}

func TestPayInstallment_OtherUsersPayment(t *testing.T) {
	svc, _, _ := paymentFixture(t)

	created, _, err := svc.PaySection(context.Background(), 1, 10, models.PaymentTypeShare, validCard())
	require.NoError(t, err)

	_, _, err = svc.PayInstallment(context.Background(), 2, created.ID, validCard())

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetPayment_OwnerOnly(t *testing.T) {
	svc, _, _ := paymentFixture(t)

	created, _, err := svc.PaySection(context.Background(), 1, 10, models.PaymentTypeFull, validCard())
	require.NoError(t, err)

	got, err := svc.GetPayment(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetPayment(context.Background(), 2, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/gateway"
	"github.com/avolkov/lms-backend/internal/pkg/logger"
	"github.com/avolkov/lms-backend/internal/pkg/validation"
)

// paymentLedger is the repository surface the payment service needs.
type paymentLedger interface {
	CreatePaid(ctx context.Context, payment *models.Payment) (int64, error)
	RecordInstallment(ctx context.Context, paymentID int64) (*models.Payment, error)
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Payment, error)
	HasPayment(ctx context.Context, userID, sectionID int64) (bool, error)
}

type paymentSectionLoader interface {
	GetByID(ctx context.Context, id int64) (*models.Section, error)
}

// charger is the gateway surface: one call, one charge attempt.
type charger interface {
	Charge(ctx context.Context, req gateway.ChargeRequest) gateway.Outcome
}

// PaymentService defines the interface for section purchases and the ledger.
type PaymentService interface {
	// PaySection validates the card, charges the gateway once and records the
	// ledger entry. For SHARE_30D4P the charge is the first of four
	// installments. Returns the entry and the gateway reference.
	PaySection(ctx context.Context, userID, sectionID int64, paymentType models.PaymentType, card models.CardData) (*models.Payment, string, error)
	// PayInstallment charges one remaining installment of an existing entry.
	PayInstallment(ctx context.Context, userID, paymentID int64, card models.CardData) (*models.Payment, string, error)
	GetUserPayments(ctx context.Context, userID int64) ([]*models.Payment, error)
	GetPayment(ctx context.Context, userID, paymentID int64) (*models.Payment, error)
}

type paymentServiceImpl struct {
	paymentRepo paymentLedger
	sectionRepo paymentSectionLoader
	gateway     charger
	now         func() time.Time
}

// NewPaymentService creates a new payment service instance.
func NewPaymentService(paymentRepo paymentLedger, sectionRepo paymentSectionLoader, gw charger) PaymentService {
	return &paymentServiceImpl{
		paymentRepo: paymentRepo,
		sectionRepo: sectionRepo,
		gateway:     gw,
		now:         time.Now,
	}
}

// validateCard runs every card rule and the section's currency rule before
// any gateway traffic. Card data is never persisted.
func (s *paymentServiceImpl) validateCard(card models.CardData, currency string) error {
	if err := validation.CardNumber(card.CardNumber); err != nil {
		return err
	}
	if err := validation.OwnerName(card.OwnerName); err != nil {
		return err
	}
	if err := validation.Expiration(card.ExpirationMonth, card.ExpirationYear, s.now()); err != nil {
		return err
	}
	if err := validation.CVC(card.CVC); err != nil {
		return err
	}
	if err := validation.Currency(currency); err != nil {
		return err
	}
	return nil
}

// chargeAmount returns the minor-unit amount for one charge: the full price,
// or a quarter of it for the installment plan.
func chargeAmount(section *models.Section, paymentType models.PaymentType) int64 {
	price := section.BasePrice
	if paymentType == models.PaymentTypeShare {
		price = price.Div(decimal.NewFromInt(validation.InstallmentsShared))
	}
	return price.Shift(2).Round(0).IntPart()
}

// PaySection charges the section price (or its first installment) and
// records the purchase. The gateway makes exactly one charge attempt; a
// failed attempt leaves no ledger entry.
func (s *paymentServiceImpl) PaySection(ctx context.Context, userID, sectionID int64, paymentType models.PaymentType, card models.CardData) (*models.Payment, string, error) {
	if !paymentType.IsValid() {
		return nil, "", fmt.Errorf("%w: invalid payment type %q", apperrors.ErrValidationFailed, paymentType)
	}

	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, "", err
	}

	exists, err := s.paymentRepo.HasPayment(ctx, userID, sectionID)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", apperrors.ErrSectionAlreadyPaid
	}

	if err := s.validateCard(card, section.PriceCurrency); err != nil {
		return nil, "", err
	}

	outcome := s.gateway.Charge(ctx, gateway.ChargeRequest{
		Amount:      chargeAmount(section, paymentType),
		Currency:    section.PriceCurrency,
		Description: fmt.Sprintf("Section %q purchase", section.Name),
		Card: gateway.Card{
			Number:   card.CardNumber,
			ExpMonth: card.ExpirationMonth,
			ExpYear:  card.ExpirationYear,
			CVC:      card.CVC,
		},
	})
	if !outcome.Succeeded {
		logger.Warn().
			Int64("userID", userID).
			Int64("sectionID", sectionID).
			Str("errorCode", outcome.ErrorCode).
			Msg("Gateway charge failed")
		return nil, "", apperrors.NewGatewayError(outcome.ErrorCode, outcome.ErrorMessage)
	}

	// The creating charge counts: FULL is settled, SHARE has three of four
	// installments left.
	paymentsLeft := 0
	if paymentType == models.PaymentTypeShare {
		paymentsLeft = validation.InstallmentsShared - 1
	}

	payment := &models.Payment{
		UserID:        userID,
		PaidSectionID: sectionID,
		PaymentType:   paymentType,
		PaymentMethod: models.PaymentMethodStripe,
		PaymentsLeft:  paymentsLeft,
	}
	if err := validation.FullPaymentHasNoRemainder(string(payment.PaymentType), payment.PaymentsLeft); err != nil {
		return nil, "", err
	}

	id, err := s.paymentRepo.CreatePaid(ctx, payment)
	if err != nil {
		// The charge went through but the entry could not be recorded; keep
		// the reference in the log for reconciliation.
		logger.Error().Err(err).
			Int64("userID", userID).
			Int64("sectionID", sectionID).
			Str("reference", outcome.Reference).
			Msg("Charge succeeded but ledger write failed")
		return nil, "", err
	}

	created, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	return created, outcome.Reference, nil
}

// PayInstallment charges one installment of an existing plan and decrements
// the remainder.
func (s *paymentServiceImpl) PayInstallment(ctx context.Context, userID, paymentID int64, card models.CardData) (*models.Payment, string, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, "", err
	}
	if payment.UserID != userID {
		return nil, "", apperrors.ErrPermissionDenied
	}
	// A FULL entry carrying a remainder is corrupt state; refuse before any
	// gateway traffic rather than charge against it.
	if err := validation.FullPaymentHasNoRemainder(string(payment.PaymentType), payment.PaymentsLeft); err != nil {
		return nil, "", err
	}
	if payment.FullyPaid() {
		return nil, "", apperrors.ErrAlreadyFullyPaid
	}

	section, err := s.sectionRepo.GetByID(ctx, payment.PaidSectionID)
	if err != nil {
		return nil, "", err
	}

	if err := s.validateCard(card, section.PriceCurrency); err != nil {
		return nil, "", err
	}

	outcome := s.gateway.Charge(ctx, gateway.ChargeRequest{
		Amount:      chargeAmount(section, models.PaymentTypeShare),
		Currency:    section.PriceCurrency,
		Description: fmt.Sprintf("Section %q installment", section.Name),
		Card: gateway.Card{
			Number:   card.CardNumber,
			ExpMonth: card.ExpirationMonth,
			ExpYear:  card.ExpirationYear,
			CVC:      card.CVC,
		},
	})
	if !outcome.Succeeded {
		logger.Warn().
			Int64("userID", userID).
			Int64("paymentID", paymentID).
			Str("errorCode", outcome.ErrorCode).
			Msg("Gateway installment charge failed")
		return nil, "", apperrors.NewGatewayError(outcome.ErrorCode, outcome.ErrorMessage)
	}

	updated, err := s.paymentRepo.RecordInstallment(ctx, paymentID)
	if err != nil {
		logger.Error().Err(err).
			Int64("paymentID", paymentID).
			Str("reference", outcome.Reference).
			Msg("Installment charge succeeded but ledger write failed")
		return nil, "", err
	}

	return updated, outcome.Reference, nil
}

// GetUserPayments retrieves the ledger entries of a user, newest first.
func (s *paymentServiceImpl) GetUserPayments(ctx context.Context, userID int64) ([]*models.Payment, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user ID", apperrors.ErrValidationFailed)
	}
	return s.paymentRepo.GetByUserID(ctx, userID)
}

// GetPayment retrieves one ledger entry, restricted to its owner.
func (s *paymentServiceImpl) GetPayment(ctx context.Context, userID, paymentID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, apperrors.ErrPermissionDenied
	}
	return payment, nil
}

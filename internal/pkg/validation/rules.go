// Package validation holds the pure business-rule checks shared by the
// catalog and payment services. Every rule either succeeds (nil) or fails
// with a *Violation carrying a machine-readable kind; nothing in here touches
// storage or performs I/O.
package validation

import (
	"fmt"
	"time"

	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
)

// Kind identifies a single business-rule violation.
type Kind string

const (
	KindNoMediaSelected       Kind = "NoMediaSelected"
	KindMultipleMediaSelected Kind = "MultipleMediaSelected"
	KindDateOrderViolation    Kind = "DateOrderViolation"
	KindStatusMismatch        Kind = "StatusMismatch"
	KindInvalidPaymentState   Kind = "InvalidPaymentState"
	KindInvalidCardNumber     Kind = "InvalidCardNumber"
	KindMalformedInput        Kind = "MalformedInput"
	KindInvalidMonth          Kind = "InvalidMonth"
	KindCardExpired           Kind = "CardExpired"
	KindNonLatinCharacters    Kind = "NonLatinCharacters"
	KindInvalidCVC            Kind = "InvalidCVC"
	KindUnsupportedCurrency   Kind = "UnsupportedCurrency"
)

// Violation is a failed rule check.
type Violation struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Kind, v.Message)
}

// Unwrap ties violations into the application error taxonomy so callers can
// match with errors.Is against the sentinel errors.
func (v *Violation) Unwrap() error {
	if v.Kind == KindMalformedInput {
		return apperrors.ErrMalformedInput
	}
	return apperrors.ErrValidationFailed
}

func violationf(kind Kind, format string, args ...interface{}) *Violation {
	return &Violation{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Section and material statuses. CLOSED is the storage default.
const (
	StatusArchived = "ARCHIVED"
	StatusClosed   = "CLOSED"
	StatusOpen     = "OPEN"
)

// Payment types.
const (
	PaymentTypeFull    = "FULL"
	PaymentTypeShare   = "SHARE_30D4P"
	InstallmentsShared = 4
)

// MediaRefs carries the six possible media reference slots of a media record.
type MediaRefs struct {
	LocalImage    string
	ExternalImage string
	LocalVideo    string
	ExternalVideo string
	LocalAudio    string
	ExternalAudio string
}

// MediaExclusivity checks that exactly one of the six reference slots is set.
func MediaExclusivity(refs MediaRefs) error {
	count := 0
	for _, ref := range []string{
		refs.LocalImage, refs.ExternalImage,
		refs.LocalVideo, refs.ExternalVideo,
		refs.LocalAudio, refs.ExternalAudio,
	} {
		if ref != "" {
			count++
		}
	}

	switch {
	case count == 0:
		return violationf(KindNoMediaSelected, "a media file reference must be set")
	case count > 1:
		return violationf(KindMultipleMediaSelected, "only one media file reference may be set, got %d", count)
	}
	return nil
}

// DateOrder checks that lastUpdate is not before creation. Applied to
// sections, materials and tests; the schema carries the same constraint.
func DateOrder(creation, lastUpdate time.Time) error {
	if lastUpdate.Before(creation) {
		return violationf(KindDateOrderViolation,
			"last update %s cannot be before creation date %s",
			lastUpdate.Format(time.RFC3339), creation.Format(time.RFC3339))
	}
	return nil
}

// StatusPropagation checks that a child record is not more open than its
// parent: once the parent is ARCHIVED or CLOSED the child must match.
func StatusPropagation(childStatus, parentStatus string) error {
	if parentStatus != StatusArchived && parentStatus != StatusClosed {
		return nil
	}
	if childStatus != parentStatus {
		return violationf(KindStatusMismatch,
			"child status %s must match parent status %s", childStatus, parentStatus)
	}
	return nil
}

// FullPaymentHasNoRemainder checks that a FULL payment carries no remaining
// installments.
func FullPaymentHasNoRemainder(paymentType string, paymentsLeft int) error {
	if paymentType == PaymentTypeFull && paymentsLeft > 0 {
		return violationf(KindInvalidPaymentState,
			"a full payment cannot have %d remaining installments", paymentsLeft)
	}
	return nil
}

// CardNumber applies the mod-10 Luhn check to a 16-digit card number.
// Non-digit input or a wrong length is a precondition violation, not a Luhn
// failure.
func CardNumber(number string) error {
	if len(number) != 16 {
		return violationf(KindMalformedInput, "card number must be exactly 16 digits, got %d characters", len(number))
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return violationf(KindMalformedInput, "card number must contain only digits")
		}
	}

	sum := 0
	// Walk from the rightmost digit, doubling every second one.
	for i := 0; i < len(number); i++ {
		digit := int(number[len(number)-1-i] - '0')
		if i%2 == 1 {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
	}

	if sum%10 != 0 {
		return violationf(KindInvalidCardNumber, "card number failed the Luhn check")
	}
	return nil
}

// Expiration checks the card expiry: month in [1,12] and the last calendar
// day of (month, year) not strictly before now.
func Expiration(month, year int, now time.Time) error {
	if month < 1 || month > 12 {
		return violationf(KindInvalidMonth, "expiration month must be between 1 and 12, got %d", month)
	}

	// Day 0 of the following month is the last day of this one; the zero-day
	// trick handles leap years.
	lastDay := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, 0, now.Location())
	if lastDay.Before(now) {
		return violationf(KindCardExpired, "card expired %02d/%d", month, year)
	}
	return nil
}

// OwnerName checks that the card holder name contains only Latin letters and
// plain spaces. Other whitespace (tabs, newlines) is rejected along with
// everything else outside A-Z/a-z.
func OwnerName(name string) error {
	if name == "" {
		return violationf(KindNonLatinCharacters, "owner name must not be empty")
	}
	for _, r := range name {
		isLatin := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		if !isLatin && r != ' ' {
			return violationf(KindNonLatinCharacters, "owner name must contain only Latin characters")
		}
	}
	return nil
}

// CVC checks that the card verification code is 3 or 4 digits.
func CVC(value string) error {
	if len(value) != 3 && len(value) != 4 {
		return violationf(KindInvalidCVC, "CVC must be 3 or 4 digits")
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return violationf(KindInvalidCVC, "CVC must contain only digits")
		}
	}
	return nil
}

// supportedCurrencies are the ISO codes the payment gateway accepts.
var supportedCurrencies = map[string]struct{}{
	"RUB": {},
	"USD": {},
	"EUR": {},
}

// Currency checks that the code is a supported ISO currency.
func Currency(code string) error {
	if _, ok := supportedCurrencies[code]; !ok {
		return violationf(KindUnsupportedCurrency, "unsupported currency %q", code)
	}
	return nil
}

package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
)

func violationKind(t *testing.T, err error) Kind {
	t.Helper()
	var v *Violation
	require.ErrorAs(t, err, &v)
	return v.Kind
}

func TestMediaExclusivity(t *testing.T) {
	t.Run("exactly one reference passes", func(t *testing.T) {
		assert.NoError(t, MediaExclusivity(MediaRefs{ExternalVideo: "https://example.com/v.mp4"}))
		assert.NoError(t, MediaExclusivity(MediaRefs{LocalImage: "education/media/images/1.png"}))
	})

	t.Run("no reference fails", func(t *testing.T) {
		err := MediaExclusivity(MediaRefs{})
		assert.Equal(t, KindNoMediaSelected, violationKind(t, err))
	})

	t.Run("two references fail", func(t *testing.T) {
		err := MediaExclusivity(MediaRefs{
			LocalImage:    "education/media/images/1.png",
			ExternalAudio: "https://example.com/a.mp3",
		})
		assert.Equal(t, KindMultipleMediaSelected, violationKind(t, err))
	})
}

func TestDateOrder(t *testing.T) {
	creation := time.Date(2024, 1, 21, 10, 0, 0, 0, time.UTC)

	assert.NoError(t, DateOrder(creation, creation))
	assert.NoError(t, DateOrder(creation, creation.Add(time.Hour)))

	err := DateOrder(creation, creation.Add(-time.Second))
	assert.Equal(t, KindDateOrderViolation, violationKind(t, err))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestStatusPropagation(t *testing.T) {
	cases := []struct {
		name   string
		child  string
		parent string
		kind   Kind
	}{
		{"open parent allows any child", StatusClosed, StatusOpen, ""},
		{"archived parent with archived child", StatusArchived, StatusArchived, ""},
		{"archived parent with open child", StatusOpen, StatusArchived, KindStatusMismatch},
		{"closed parent with open child", StatusOpen, StatusClosed, KindStatusMismatch},
		{"closed parent with archived child", StatusArchived, StatusClosed, KindStatusMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := StatusPropagation(tc.child, tc.parent)
			if tc.kind == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.kind, violationKind(t, err))
		})
	}
}

func TestFullPaymentHasNoRemainder(t *testing.T) {
	assert.NoError(t, FullPaymentHasNoRemainder(PaymentTypeFull, 0))
	assert.NoError(t, FullPaymentHasNoRemainder(PaymentTypeShare, 3))

	err := FullPaymentHasNoRemainder(PaymentTypeFull, 3)
	assert.Equal(t, KindInvalidPaymentState, violationKind(t, err))
}

func TestCardNumber(t *testing.T) {
	t.Run("valid Luhn number", func(t *testing.T) {
		assert.NoError(t, CardNumber("4532015112830366"))
	})

	t.Run("checksum off by one", func(t *testing.T) {
		err := CardNumber("4532015112830367")
		assert.Equal(t, KindInvalidCardNumber, violationKind(t, err))
	})

	t.Run("wrong length is malformed, not a Luhn failure", func(t *testing.T) {
		err := CardNumber("453201511283036")
		assert.Equal(t, KindMalformedInput, violationKind(t, err))
		assert.ErrorIs(t, err, apperrors.ErrMalformedInput)
	})

	t.Run("non-digit input is malformed", func(t *testing.T) {
		err := CardNumber("45320151128303ab")
		assert.Equal(t, KindMalformedInput, violationKind(t, err))
	})
}

func TestExpiration(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("month out of range", func(t *testing.T) {
		err := Expiration(13, now.Year(), now)
		assert.Equal(t, KindInvalidMonth, violationKind(t, err))
	})

	t.Run("previous year is expired", func(t *testing.T) {
		err := Expiration(12, now.Year()-1, now)
		assert.Equal(t, KindCardExpired, violationKind(t, err))
	})

	t.Run("december of current year is still valid in august", func(t *testing.T) {
		assert.NoError(t, Expiration(12, now.Year(), now))
	})

	t.Run("card valid through the last day of its month", func(t *testing.T) {
		// August card checked on August 30th.
		assert.NoError(t, Expiration(8, now.Year(), now))
		// July card is already past its last day.
		err := Expiration(7, now.Year(), now)
		assert.Equal(t, KindCardExpired, violationKind(t, err))
	})

	t.Run("leap year February", func(t *testing.T) {
		feb := time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)
		assert.NoError(t, Expiration(2, 2024, feb))
	})
}

func TestOwnerName(t *testing.T) {
	assert.NoError(t, OwnerName("IVAN PETROV"))
	assert.NoError(t, OwnerName("Jane Doe"))

	for _, name := range []string{"", "Иван Петров", "Jane D0e", "Jane-Doe", "Jane\tDoe", "Jane\nDoe"} {
		err := OwnerName(name)
		assert.Equal(t, KindNonLatinCharacters, violationKind(t, err), "name %q", name)
	}
}

func TestCVC(t *testing.T) {
	assert.NoError(t, CVC("123"))
	assert.NoError(t, CVC("1234"))

	for _, value := range []string{"12", "12345", "12a", ""} {
		err := CVC(value)
		assert.Equal(t, KindInvalidCVC, violationKind(t, err), "value %q", value)
	}
}

func TestCurrency(t *testing.T) {
	assert.NoError(t, Currency("RUB"))
	assert.NoError(t, Currency("USD"))

	err := Currency("XYZ")
	assert.Equal(t, KindUnsupportedCurrency, violationKind(t, err))
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

package models

// Status is the lifecycle state shared by sections and materials.
type Status string

const (
	StatusArchived Status = "ARCHIVED"
	StatusClosed   Status = "CLOSED"
	StatusOpen     Status = "OPEN"
)

// IsValid reports whether s is one of the defined statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusArchived, StatusClosed, StatusOpen:
		return true
	}
	return false
}

// PaymentType is how a section purchase is split.
type PaymentType string

const (
	// PaymentTypeFull is a one-shot payment.
	PaymentTypeFull PaymentType = "FULL"
	// PaymentTypeShare is an installment plan: 30 days, 4 payments.
	PaymentTypeShare PaymentType = "SHARE_30D4P"
)

// IsValid reports whether t is one of the defined payment types.
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeFull || t == PaymentTypeShare
}

// PaymentMethod identifies the charge channel.
type PaymentMethod string

const (
	// PaymentMethodStripe is a Stripe-like gateway charge.
	PaymentMethodStripe PaymentMethod = "STRIPE"
)

// Gender of a user profile.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

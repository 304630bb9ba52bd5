package models

import "time"

// Payment tracks installment progress for a user's purchase of a section.
// A payment with zero installments left means the section is fully paid.
type Payment struct {
	ID            int64         `json:"id" db:"id"`
	UserID        int64         `json:"userId" db:"user_id"`
	PaidSectionID int64         `json:"paidSectionId" db:"paid_section_id"`
	PaymentType   PaymentType   `json:"paymentType" db:"payment_type"`
	PaymentMethod PaymentMethod `json:"paymentMethod" db:"payment_method"`
	PaymentsLeft  int           `json:"paymentsLeft" db:"payments_left"`

	LastPaymentDate time.Time `json:"lastPaymentDate" db:"last_payment_date"`

	// Relations (populated when needed)
	User        *User    `json:"user,omitempty"`
	PaidSection *Section `json:"paidSection,omitempty"`
}

// FullyPaid reports whether no installments remain.
func (p *Payment) FullyPaid() bool {
	return p.PaymentsLeft == 0
}

// CardData is the validated card input for a charge attempt. It is ephemeral:
// validated, passed to the gateway flow and never persisted.
type CardData struct {
	CardNumber      string
	OwnerName       string
	ExpirationMonth int
	ExpirationYear  int
	CVC             string
}

package dto

import "time"

// PaymentResponse is a ledger entry as returned to clients.
type PaymentResponse struct {
	ID              int64     `json:"id"`
	User            string    `json:"user"`
	PaidSection     string    `json:"paidSection"`
	PaymentType     string    `json:"paymentType"`
	PaymentMethod   string    `json:"paymentMethod"`
	PaymentsLeft    int       `json:"paymentsLeft"`
	LastPaymentDate time.Time `json:"lastPaymentDate"`
	FullyPaid       bool      `json:"fullyPaid"`
}

// PaySectionRequest carries card data and the chosen plan for purchasing a
// section. Card fields get a structural check here; the rules engine performs
// the full validation before any gateway call.
type PaySectionRequest struct {
	PaymentType     string `json:"paymentType" binding:"required,paymenttype"`
	CardNumber      string `json:"cardNumber" binding:"required,len=16"`
	OwnerName       string `json:"ownerName" binding:"required,max=255"`
	ExpirationMonth int    `json:"expirationMonth" binding:"required,min=1,max=12"`
	ExpirationYear  int    `json:"expirationYear" binding:"required,min=2000,max=2100"`
	CVC             string `json:"cvc" binding:"required,min=3,max=4"`
}

// PaySectionResponse reports the charge outcome and the resulting ledger
// entry.
type PaySectionResponse struct {
	Payment   PaymentResponse `json:"payment"`
	Reference string          `json:"reference,omitempty"`
}

// PayInstallmentRequest carries card data for one follow-up installment on
// an existing SHARE_30D4P ledger entry.
type PayInstallmentRequest struct {
	CardNumber      string `json:"cardNumber" binding:"required,len=16"`
	OwnerName       string `json:"ownerName" binding:"required,max=255"`
	ExpirationMonth int    `json:"expirationMonth" binding:"required,min=1,max=12"`
	ExpirationYear  int    `json:"expirationYear" binding:"required,min=2000,max=2100"`
	CVC             string `json:"cvc" binding:"required,min=3,max=4"`
}

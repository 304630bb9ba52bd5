package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Section is a top-level purchasable content unit containing materials.
type Section struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Status      Status `json:"status" db:"status"`

	CreationDate time.Time `json:"creationDate" db:"creation_date"`
	LastUpdate   time.Time `json:"lastUpdate" db:"last_update"`

	BasePrice     decimal.Decimal `json:"basePrice" db:"base_price"`
	PriceCurrency string          `json:"priceCurrency" db:"price_currency"`

	// Relations (populated when needed)
	Media     []*Media    `json:"media,omitempty"`
	Materials []*Material `json:"materials,omitempty"`
}

// BasePriceMinorUnits returns the price in minor units (kopecks/cents) as the
// gateway expects it.
func (s *Section) BasePriceMinorUnits() int64 {
	return s.BasePrice.Shift(2).IntPart()
}

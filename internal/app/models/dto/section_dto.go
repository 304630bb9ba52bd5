package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SectionResponse is a section as returned in list and detail endpoints.
type SectionResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	CreationDate  time.Time       `json:"creationDate"`
	LastUpdate    time.Time       `json:"lastUpdate"`
	BasePrice     decimal.Decimal `json:"basePrice"`
	PriceCurrency string          `json:"priceCurrency"`

	MediaNames []string `json:"mediaNames,omitempty"`
	MediaLinks []string `json:"mediaLinks,omitempty"`

	Materials []MaterialResponse `json:"materials,omitempty"`
}

// CreateSectionRequest carries a new section.
type CreateSectionRequest struct {
	Name          string          `json:"name" binding:"required,max=255"`
	Description   string          `json:"description" binding:"omitempty"`
	Status        string          `json:"status" binding:"required,lifecyclestatus"`
	BasePrice     decimal.Decimal `json:"basePrice" binding:"required"`
	PriceCurrency string          `json:"priceCurrency" binding:"required,pricecurrency"`
	MediaIDs      []int64         `json:"mediaIds" binding:"omitempty,dive,gt=0"`
}

// UpdateSectionRequest carries changed section fields.
type UpdateSectionRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=255"`
	Description   *string          `json:"description"`
	Status        *string          `json:"status" binding:"omitempty,lifecyclestatus"`
	BasePrice     *decimal.Decimal `json:"basePrice"`
	PriceCurrency *string          `json:"priceCurrency" binding:"omitempty,pricecurrency"`
}

// UpdateSectionResponse reports the updated section plus any materials whose
// status no longer agrees with the new section status.
type UpdateSectionResponse struct {
	Section            SectionResponse `json:"section"`
	OutOfSyncMaterials []int64         `json:"outOfSyncMaterials,omitempty"`
}

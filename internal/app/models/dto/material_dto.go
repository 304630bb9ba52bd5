package dto

import "time"

// MaterialResponse is a material as returned to clients.
type MaterialResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Text         string    `json:"text"`
	Status       string    `json:"status"`
	CreationDate time.Time `json:"creationDate"`
	LastUpdate   time.Time `json:"lastUpdate"`
	SectionID    *int64    `json:"sectionId,omitempty"`

	MediaNames []string `json:"mediaNames,omitempty"`
	MediaLinks []string `json:"mediaLinks,omitempty"`
}

// CreateMaterialRequest carries a new material.
type CreateMaterialRequest struct {
	Name      string  `json:"name" binding:"required,max=255"`
	Text      string  `json:"text" binding:"required"`
	Status    string  `json:"status" binding:"required,lifecyclestatus"`
	SectionID *int64  `json:"sectionId" binding:"omitempty,gt=0"`
	MediaIDs  []int64 `json:"mediaIds" binding:"omitempty,dive,gt=0"`
}

// UpdateMaterialRequest carries changed material fields. SetSection
// distinguishes "detach from section" (true with nil SectionID) from
// "leave unchanged" (false).
type UpdateMaterialRequest struct {
	Name       *string `json:"name" binding:"omitempty,max=255"`
	Text       *string `json:"text"`
	Status     *string `json:"status" binding:"omitempty,lifecyclestatus"`
	SectionID  *int64  `json:"sectionId" binding:"omitempty,gt=0"`
	SetSection bool    `json:"setSection"`
}

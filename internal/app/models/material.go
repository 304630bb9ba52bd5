package models

import "time"

// Material is a content unit belonging to a section. SectionID is nullable:
// deleting a section detaches its materials instead of removing them.
type Material struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Text   string `json:"text" db:"text"`
	Status Status `json:"status" db:"status"`

	CreationDate time.Time `json:"creationDate" db:"creation_date"`
	LastUpdate   time.Time `json:"lastUpdate" db:"last_update"`

	SectionID *int64 `json:"sectionId,omitempty" db:"section_id"`

	// Relations (populated when needed)
	Media []*Media `json:"media,omitempty"`
}

package models

import (
	"time"

	"github.com/avolkov/lms-backend/internal/pkg/validation"
)

// Media is a named media record. Exactly one of the six reference slots must
// be set; the record is shared between sections, materials and test questions
// through join tables.
type Media struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	CreationDate *time.Time `json:"creationDate,omitempty" db:"creation_date"`

	LocalImage    string `json:"localImage,omitempty" db:"local_image"`
	ExternalImage string `json:"externalImage,omitempty" db:"external_image"`
	LocalVideo    string `json:"localVideo,omitempty" db:"local_video"`
	ExternalVideo string `json:"externalVideo,omitempty" db:"external_video"`
	LocalAudio    string `json:"localAudio,omitempty" db:"local_audio"`
	ExternalAudio string `json:"externalAudio,omitempty" db:"external_audio"`
}

// Refs returns the six reference slots for rule checking.
func (m *Media) Refs() validation.MediaRefs {
	return validation.MediaRefs{
		LocalImage:    m.LocalImage,
		ExternalImage: m.ExternalImage,
		LocalVideo:    m.LocalVideo,
		ExternalVideo: m.ExternalVideo,
		LocalAudio:    m.LocalAudio,
		ExternalAudio: m.ExternalAudio,
	}
}

// Link returns the single reference that is set.
func (m *Media) Link() string {
	for _, ref := range []string{
		m.LocalImage, m.ExternalImage,
		m.LocalVideo, m.ExternalVideo,
		m.LocalAudio, m.ExternalAudio,
	} {
		if ref != "" {
			return ref
		}
	}
	return ""
}

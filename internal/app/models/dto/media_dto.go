package dto

// MediaResponse is a media record as returned to clients.
type MediaResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	LocalImage    string `json:"localImage,omitempty"`
	ExternalImage string `json:"externalImage,omitempty"`
	LocalVideo    string `json:"localVideo,omitempty"`
	ExternalVideo string `json:"externalVideo,omitempty"`
	LocalAudio    string `json:"localAudio,omitempty"`
	ExternalAudio string `json:"externalAudio,omitempty"`
}

// CreateMediaRequest carries a new media record. Exactly one reference slot
// must be set.
type CreateMediaRequest struct {
	Name string `json:"name" binding:"required,max=255"`

	LocalImage    string `json:"localImage" binding:"omitempty,max=500"`
	ExternalImage string `json:"externalImage" binding:"omitempty,url,max=500"`
	LocalVideo    string `json:"localVideo" binding:"omitempty,max=500"`
	ExternalVideo string `json:"externalVideo" binding:"omitempty,url,max=500"`
	LocalAudio    string `json:"localAudio" binding:"omitempty,max=500"`
	ExternalAudio string `json:"externalAudio" binding:"omitempty,url,max=500"`
}

// MediaUploadResponse carries the stored path of an uploaded file.
type MediaUploadResponse struct {
	Path string `json:"path"`
}

// UpdateMediaRequest carries changed media fields. The exclusivity rule is
// re-checked against the merged record.
type UpdateMediaRequest struct {
	Name *string `json:"name" binding:"omitempty,max=255"`

	LocalImage    *string `json:"localImage" binding:"omitempty,max=500"`
	ExternalImage *string `json:"externalImage" binding:"omitempty,max=500"`
	LocalVideo    *string `json:"localVideo" binding:"omitempty,max=500"`
	ExternalVideo *string `json:"externalVideo" binding:"omitempty,max=500"`
	LocalAudio    *string `json:"localAudio" binding:"omitempty,max=500"`
	ExternalAudio *string `json:"externalAudio" binding:"omitempty,max=500"`
}

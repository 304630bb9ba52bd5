package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/validation"
)

// mediaStore is the repository surface the media service needs.
type mediaStore interface {
	Create(ctx context.Context, media *models.Media) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Media, error)
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Media, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, media *models.Media) error
	Delete(ctx context.Context, id int64) error
}

// MediaService defines the interface for media operations.
type MediaService interface {
	CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error)
	GetMediaByID(ctx context.Context, id int64) (*models.Media, error)
	GetAllMedia(ctx context.Context, page, size int) ([]*models.Media, int64, error)
	UpdateMedia(ctx context.Context, media *models.Media) (*models.Media, error)
	DeleteMedia(ctx context.Context, id int64) error
}

type mediaServiceImpl struct {
	mediaRepo mediaStore
}

// NewMediaService creates a new media service instance.
func NewMediaService(mediaRepo mediaStore) MediaService {
	return &mediaServiceImpl{
		mediaRepo: mediaRepo,
	}
}

func (s *mediaServiceImpl) validateMedia(media *models.Media) error {
	if media == nil {
		return fmt.Errorf("%w: media is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(media.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if err := validation.MediaExclusivity(media.Refs()); err != nil {
		return err
	}
	return nil
}

// CreateMedia validates and stores a new media record.
func (s *mediaServiceImpl) CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error) {
	if err := s.validateMedia(media); err != nil {
		return nil, err
	}

	id, err := s.mediaRepo.Create(ctx, media)
	if err != nil {
		return nil, fmt.Errorf("error creating media: %w", err)
	}

	return s.mediaRepo.GetByID(ctx, id)
}

// GetMediaByID retrieves a media record.
func (s *mediaServiceImpl) GetMediaByID(ctx context.Context, id int64) (*models.Media, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid media ID", apperrors.ErrValidationFailed)
	}
	return s.mediaRepo.GetByID(ctx, id)
}

// GetAllMedia retrieves a page of media records with the total count.
func (s *mediaServiceImpl) GetAllMedia(ctx context.Context, page, size int) ([]*models.Media, int64, error) {
	offset := uint64((page - 1) * size)
	items, err := s.mediaRepo.GetAll(ctx, offset, size)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving media: %w", err)
	}
	total, err := s.mediaRepo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting media: %w", err)
	}
	return items, total, nil
}

// UpdateMedia merges changes into an existing record and re-checks the
// single-reference rule on the result.
func (s *mediaServiceImpl) UpdateMedia(ctx context.Context, media *models.Media) (*models.Media, error) {
	if media.ID <= 0 {
		return nil, fmt.Errorf("%w: invalid media ID", apperrors.ErrValidationFailed)
	}
	if err := s.validateMedia(media); err != nil {
		return nil, err
	}

	if err := s.mediaRepo.Update(ctx, media); err != nil {
		return nil, err
	}

	return s.mediaRepo.GetByID(ctx, media.ID)
}

// DeleteMedia removes a media record.
func (s *mediaServiceImpl) DeleteMedia(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid media ID", apperrors.ErrValidationFailed)
	}
	return s.mediaRepo.Delete(ctx, id)
}

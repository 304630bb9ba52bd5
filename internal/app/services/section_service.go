package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/app/repositories"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/validation"
)

// sectionStore is the repository surface the section service needs.
type sectionStore interface {
	Create(ctx context.Context, section *models.Section) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Section, error)
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Section, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id int64) error
	AttachMedia(ctx context.Context, sectionID, mediaID int64) error
	DetachMedia(ctx context.Context, sectionID, mediaID int64) error
	GetMaterialStatuses(ctx context.Context, sectionID int64) ([]repositories.MaterialStatus, error)
}

type sectionMediaLoader interface {
	GetByID(ctx context.Context, id int64) (*models.Media, error)
	GetBySectionID(ctx context.Context, sectionID int64) ([]*models.Media, error)
}

type sectionMaterialLoader interface {
	GetBySectionID(ctx context.Context, sectionID int64) ([]*models.Material, error)
}

// SectionService defines the interface for section catalog operations.
type SectionService interface {
	CreateSection(ctx context.Context, section *models.Section, mediaIDs []int64) (*models.Section, error)
	GetSectionByID(ctx context.Context, id int64) (*models.Section, error)
	GetAllSections(ctx context.Context, page, size int) ([]*models.Section, int64, error)
	// UpdateSection applies the change and reports ids of attached materials
	// whose status no longer agrees with the section's new status.
	UpdateSection(ctx context.Context, section *models.Section) (*models.Section, []int64, error)
	DeleteSection(ctx context.Context, id int64) error
	AttachMedia(ctx context.Context, sectionID, mediaID int64) error
	DetachMedia(ctx context.Context, sectionID, mediaID int64) error
}

type sectionServiceImpl struct {
	sectionRepo  sectionStore
	mediaRepo    sectionMediaLoader
	materialRepo sectionMaterialLoader
}

// NewSectionService creates a new section service instance.
func NewSectionService(sectionRepo sectionStore, mediaRepo sectionMediaLoader, materialRepo sectionMaterialLoader) SectionService {
	return &sectionServiceImpl{
		sectionRepo:  sectionRepo,
		mediaRepo:    mediaRepo,
		materialRepo: materialRepo,
	}
}

func (s *sectionServiceImpl) validateSection(section *models.Section) error {
	if section == nil {
		return fmt.Errorf("%w: section is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(section.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if !section.Status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", apperrors.ErrValidationFailed, section.Status)
	}
	if section.BasePrice.IsNegative() {
		return fmt.Errorf("%w: base price cannot be negative", apperrors.ErrValidationFailed)
	}
	if err := validation.Currency(section.PriceCurrency); err != nil {
		return err
	}
	// Timestamps are storage-managed on create; once both are carried they
	// must be ordered.
	if !section.CreationDate.IsZero() && !section.LastUpdate.IsZero() {
		if err := validation.DateOrder(section.CreationDate, section.LastUpdate); err != nil {
			return err
		}
	}
	return nil
}

// CreateSection validates and stores a new section, attaching the given
// media records.
func (s *sectionServiceImpl) CreateSection(ctx context.Context, section *models.Section, mediaIDs []int64) (*models.Section, error) {
	if err := s.validateSection(section); err != nil {
		return nil, err
	}

	for _, mediaID := range mediaIDs {
		if _, err := s.mediaRepo.GetByID(ctx, mediaID); err != nil {
			return nil, err
		}
	}

	id, err := s.sectionRepo.Create(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("error creating section: %w", err)
	}

	for _, mediaID := range mediaIDs {
		if err := s.sectionRepo.AttachMedia(ctx, id, mediaID); err != nil {
			return nil, err
		}
	}

	return s.GetSectionByID(ctx, id)
}

// GetSectionByID retrieves a section with its media and materials.
func (s *sectionServiceImpl) GetSectionByID(ctx context.Context, id int64) (*models.Section, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid section ID", apperrors.ErrValidationFailed)
	}

	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	media, err := s.mediaRepo.GetBySectionID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading section media: %w", err)
	}
	section.Media = media

	materials, err := s.materialRepo.GetBySectionID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading section materials: %w", err)
	}
	section.Materials = materials

	return section, nil
}

// GetAllSections retrieves a page of sections with the total count.
func (s *sectionServiceImpl) GetAllSections(ctx context.Context, page, size int) ([]*models.Section, int64, error) {
	offset := uint64((page - 1) * size)
	sections, err := s.sectionRepo.GetAll(ctx, offset, size)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving sections: %w", err)
	}

	for _, section := range sections {
		media, err := s.mediaRepo.GetBySectionID(ctx, section.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("error loading section media: %w", err)
		}
		section.Media = media
	}

	total, err := s.sectionRepo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting sections: %w", err)
	}

	return sections, total, nil
}

// UpdateSection applies the change. Archiving or closing a section does not
// touch its materials; instead the ids of materials now out of sync are
// reported so the caller can update them explicitly.
func (s *sectionServiceImpl) UpdateSection(ctx context.Context, section *models.Section) (*models.Section, []int64, error) {
	if section.ID <= 0 {
		return nil, nil, fmt.Errorf("%w: invalid section ID", apperrors.ErrValidationFailed)
	}
	if err := s.validateSection(section); err != nil {
		return nil, nil, err
	}

	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, nil, err
	}

	var outOfSync []int64
	statuses, err := s.sectionRepo.GetMaterialStatuses(ctx, section.ID)
	if err != nil {
		return nil, nil, err
	}
	for _, ms := range statuses {
		if validation.StatusPropagation(string(ms.Status), string(section.Status)) != nil {
			outOfSync = append(outOfSync, ms.ID)
		}
	}

	updated, err := s.GetSectionByID(ctx, section.ID)
	if err != nil {
		return nil, nil, err
	}

	return updated, outOfSync, nil
}

// DeleteSection removes a section. Materials are detached, not deleted; a
// section cited by the payment ledger cannot be removed.
func (s *sectionServiceImpl) DeleteSection(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid section ID", apperrors.ErrValidationFailed)
	}
	return s.sectionRepo.Delete(ctx, id)
}

// AttachMedia links an existing media record to a section.
func (s *sectionServiceImpl) AttachMedia(ctx context.Context, sectionID, mediaID int64) error {
	if _, err := s.sectionRepo.GetByID(ctx, sectionID); err != nil {
		return err
	}
	if _, err := s.mediaRepo.GetByID(ctx, mediaID); err != nil {
		return err
	}
	return s.sectionRepo.AttachMedia(ctx, sectionID, mediaID)
}

// DetachMedia unlinks a media record from a section.
func (s *sectionServiceImpl) DetachMedia(ctx context.Context, sectionID, mediaID int64) error {
	if _, err := s.sectionRepo.GetByID(ctx, sectionID); err != nil {
		return err
	}
	return s.sectionRepo.DetachMedia(ctx, sectionID, mediaID)
}

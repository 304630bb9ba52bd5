package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/validation"
)

// materialStore is the repository surface the material service needs.
type materialStore interface {
	Create(ctx context.Context, material *models.Material) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Material, error)
	GetBySectionID(ctx context.Context, sectionID int64) ([]*models.Material, error)
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Material, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id int64) error
	AttachMedia(ctx context.Context, materialID, mediaID int64) error
	DetachMedia(ctx context.Context, materialID, mediaID int64) error
}

type materialSectionLoader interface {
	GetByID(ctx context.Context, id int64) (*models.Section, error)
}

type materialMediaLoader interface {
	GetByID(ctx context.Context, id int64) (*models.Media, error)
	GetByMaterialID(ctx context.Context, materialID int64) ([]*models.Media, error)
}

// MaterialService defines the interface for material operations.
type MaterialService interface {
	CreateMaterial(ctx context.Context, material *models.Material, mediaIDs []int64) (*models.Material, error)
	GetMaterialByID(ctx context.Context, id int64) (*models.Material, error)
	GetMaterialsBySection(ctx context.Context, sectionID int64) ([]*models.Material, error)
	GetAllMaterials(ctx context.Context, page, size int) ([]*models.Material, int64, error)
	UpdateMaterial(ctx context.Context, material *models.Material) (*models.Material, error)
	DeleteMaterial(ctx context.Context, id int64) error
	AttachMedia(ctx context.Context, materialID, mediaID int64) error
	DetachMedia(ctx context.Context, materialID, mediaID int64) error
}

type materialServiceImpl struct {
	materialRepo materialStore
	sectionRepo  materialSectionLoader
	mediaRepo    materialMediaLoader
}

// NewMaterialService creates a new material service instance.
func NewMaterialService(materialRepo materialStore, sectionRepo materialSectionLoader, mediaRepo materialMediaLoader) MaterialService {
	return &materialServiceImpl{
		materialRepo: materialRepo,
		sectionRepo:  sectionRepo,
		mediaRepo:    mediaRepo,
	}
}

// validateMaterial checks the material's own fields and, when it is attached
// to a section, that its status agrees with the section's. A detached
// material carries no parent to agree with.
func (s *materialServiceImpl) validateMaterial(ctx context.Context, material *models.Material) error {
	if material == nil {
		return fmt.Errorf("%w: material is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(material.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if !material.Status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", apperrors.ErrValidationFailed, material.Status)
	}
	if !material.CreationDate.IsZero() && !material.LastUpdate.IsZero() {
		if err := validation.DateOrder(material.CreationDate, material.LastUpdate); err != nil {
			return err
		}
	}

	if material.SectionID != nil {
		section, err := s.sectionRepo.GetByID(ctx, *material.SectionID)
		if err != nil {
			return err
		}
		if err := validation.StatusPropagation(string(material.Status), string(section.Status)); err != nil {
			return err
		}
	}

	return nil
}

// CreateMaterial validates and stores a new material, attaching the given
// media records.
func (s *materialServiceImpl) CreateMaterial(ctx context.Context, material *models.Material, mediaIDs []int64) (*models.Material, error) {
	if err := s.validateMaterial(ctx, material); err != nil {
		return nil, err
	}

	for _, mediaID := range mediaIDs {
		if _, err := s.mediaRepo.GetByID(ctx, mediaID); err != nil {
			return nil, err
		}
	}

	id, err := s.materialRepo.Create(ctx, material)
	if err != nil {
		return nil, fmt.Errorf("error creating material: %w", err)
	}

	for _, mediaID := range mediaIDs {
		if err := s.materialRepo.AttachMedia(ctx, id, mediaID); err != nil {
			return nil, err
		}
	}

	return s.GetMaterialByID(ctx, id)
}

// GetMaterialByID retrieves a material with its media.
func (s *materialServiceImpl) GetMaterialByID(ctx context.Context, id int64) (*models.Material, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid material ID", apperrors.ErrValidationFailed)
	}

	material, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	media, err := s.mediaRepo.GetByMaterialID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading material media: %w", err)
	}
	material.Media = media

	return material, nil
}

// GetMaterialsBySection retrieves the materials of a section.
func (s *materialServiceImpl) GetMaterialsBySection(ctx context.Context, sectionID int64) ([]*models.Material, error) {
	if _, err := s.sectionRepo.GetByID(ctx, sectionID); err != nil {
		return nil, err
	}
	materials, err := s.materialRepo.GetBySectionID(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving section materials: %w", err)
	}
	return materials, nil
}

// GetAllMaterials retrieves a page of materials with the total count.
func (s *materialServiceImpl) GetAllMaterials(ctx context.Context, page, size int) ([]*models.Material, int64, error) {
	offset := uint64((page - 1) * size)
	materials, err := s.materialRepo.GetAll(ctx, offset, size)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving materials: %w", err)
	}
	total, err := s.materialRepo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting materials: %w", err)
	}
	return materials, total, nil
}

// UpdateMaterial applies the change after re-checking the status agreement
// with the target section. A nil SectionID detaches the material.
func (s *materialServiceImpl) UpdateMaterial(ctx context.Context, material *models.Material) (*models.Material, error) {
	if material.ID <= 0 {
		return nil, fmt.Errorf("%w: invalid material ID", apperrors.ErrValidationFailed)
	}
	if err := s.validateMaterial(ctx, material); err != nil {
		return nil, err
	}

	if err := s.materialRepo.Update(ctx, material); err != nil {
		return nil, err
	}

	return s.GetMaterialByID(ctx, material.ID)
}

// DeleteMaterial removes a material and, by cascade, its test.
func (s *materialServiceImpl) DeleteMaterial(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid material ID", apperrors.ErrValidationFailed)
	}
	return s.materialRepo.Delete(ctx, id)
}

// AttachMedia links an existing media record to a material.
func (s *materialServiceImpl) AttachMedia(ctx context.Context, materialID, mediaID int64) error {
	if _, err := s.materialRepo.GetByID(ctx, materialID); err != nil {
		return err
	}
	if _, err := s.mediaRepo.GetByID(ctx, mediaID); err != nil {
		return err
	}
	return s.materialRepo.AttachMedia(ctx, materialID, mediaID)
}

// DetachMedia unlinks a media record from a material.
func (s *materialServiceImpl) DetachMedia(ctx context.Context, materialID, mediaID int64) error {
	if _, err := s.materialRepo.GetByID(ctx, materialID); err != nil {
		return err
	}
	return s.materialRepo.DetachMedia(ctx, materialID, mediaID)
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/dberrors"
	"github.com/avolkov/lms-backend/internal/pkg/logger"
)

var materialColumns = []string{
	"id", "name", "text", "status",
	"creation_date", "last_update", "section_id",
}

// MaterialRepository handles material database operations.
type MaterialRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMaterialRepository creates a new MaterialRepository.
func NewMaterialRepository(db *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanMaterial(row pgx.Row) (*models.Material, error) {
	material := &models.Material{}
	err := row.Scan(
		&material.ID, &material.Name, &material.Text, &material.Status,
		&material.CreationDate, &material.LastUpdate, &material.SectionID,
	)
	if err != nil {
		return nil, err
	}
	return material, nil
}

// Create inserts a new material.
func (r *MaterialRepository) Create(ctx context.Context, material *models.Material) (int64, error) {
	sql, args, err := r.sb.Insert("materials").
		Columns("name", "text", "status", "section_id").
		Values(material.Name, material.Text, material.Status, material.SectionID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create material query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return 0, apperrors.ErrValidationFailed
		}
		logger.Error().Err(err).Msg("Error executing create material query")
		return 0, fmt.Errorf("error creating material: %w", err)
	}

	return id, nil
}

// GetByID retrieves a material by ID.
func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	sql, args, err := r.sb.Select(materialColumns...).
		From("materials").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get material query: %w", err)
	}

	material, err := scanMaterial(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMaterialNotFound
		}
		logger.Error().Err(err).Int64("materialID", id).Msg("Error scanning material row")
		return nil, fmt.Errorf("error getting material by ID: %w", err)
	}

	return material, nil
}

// GetBySectionID retrieves all materials attached to a section, ordered by
// name.
func (r *MaterialRepository) GetBySectionID(ctx context.Context, sectionID int64) ([]*models.Material, error) {
	sql, args, err := r.sb.Select(materialColumns...).
		From("materials").
		Where(squirrel.Eq{"section_id": sectionID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build section materials query: %w", err)
	}

	return r.queryMaterials(ctx, sql, args...)
}

// GetAll retrieves a page of materials ordered by name.
func (r *MaterialRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Material, error) {
	sql, args, err := r.sb.Select(materialColumns...).
		From("materials").
		OrderBy("name ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all materials query: %w", err)
	}

	return r.queryMaterials(ctx, sql, args...)
}

// Count returns the total number of materials.
func (r *MaterialRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("materials").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count materials query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting materials: %w", err)
	}
	return count, nil
}

// Update replaces the mutable fields of a material and bumps last_update.
// A nil SectionID detaches the material from its section.
func (r *MaterialRepository) Update(ctx context.Context, material *models.Material) error {
	sql, args, err := r.sb.Update("materials").
		SetMap(map[string]interface{}{
			"name":        material.Name,
			"text":        material.Text,
			"status":      material.Status,
			"section_id":  material.SectionID,
			"last_update": time.Now(),
		}).
		Where(squirrel.Eq{"id": material.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update material query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrValidationFailed
		}
		logger.Error().Err(err).Int64("materialID", material.ID).Msg("Error executing update material query")
		return fmt.Errorf("error updating material: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}

	return nil
}

// Delete removes a material. Its test is removed by cascade.
func (r *MaterialRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("materials").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete material query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("materialID", id).Msg("Error executing delete material query")
		return fmt.Errorf("error deleting material: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}

	return nil
}

// AttachMedia links a media record to a material. Attaching the same media
// twice is a no-op.
func (r *MaterialRepository) AttachMedia(ctx context.Context, materialID, mediaID int64) error {
	sql, args, err := r.sb.Insert("material_media").
		Columns("material_id", "media_id").
		Values(materialID, mediaID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build attach media query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("materialID", materialID).Int64("mediaID", mediaID).Msg("Error attaching media to material")
		return fmt.Errorf("error attaching media to material: %w", err)
	}

	return nil
}

// DetachMedia unlinks a media record from a material.
func (r *MaterialRepository) DetachMedia(ctx context.Context, materialID, mediaID int64) error {
	sql, args, err := r.sb.Delete("material_media").
		Where(squirrel.Eq{"material_id": materialID, "media_id": mediaID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build detach media query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("materialID", materialID).Int64("mediaID", mediaID).Msg("Error detaching media from material")
		return fmt.Errorf("error detaching media from material: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMediaNotFound
	}

	return nil
}

func (r *MaterialRepository) queryMaterials(ctx context.Context, sql string, args ...interface{}) ([]*models.Material, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing materials query")
		return nil, fmt.Errorf("error querying materials: %w", err)
	}
	defer rows.Close()

	materials := []*models.Material{}
	for rows.Next() {
		material, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning material row: %w", err)
		}
		materials = append(materials, material)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating material rows: %w", err)
	}

	return materials, nil
}

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

var sectionColumns = []string{
	"id", "name", "description", "status",
	"creation_date", "last_update",
	"base_price", "price_currency",
}

// SectionRepository handles section database operations.
type SectionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSectionRepository creates a new SectionRepository.
func NewSectionRepository(db *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanSection(row pgx.Row) (*models.Section, error) {
	section := &models.Section{}
	err := row.Scan(
		&section.ID, &section.Name, &section.Description, &section.Status,
		&section.CreationDate, &section.LastUpdate,
		&section.BasePrice, &section.PriceCurrency,
	)
	if err != nil {
		return nil, err
	}
	return section, nil
}

// Create inserts a new section.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) (int64, error) {
	sql, args, err := r.sb.Insert("sections").
		Columns("name", "description", "status", "base_price", "price_currency").
		Values(section.Name, section.Description, section.Status, section.BasePrice, section.PriceCurrency).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create section query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return 0, apperrors.ErrValidationFailed
		}
		logger.Error().Err(err).Msg("Error executing create section query")
		return 0, fmt.Errorf("error creating section: %w", err)
	}

	return id, nil
}

// GetByID retrieves a section by ID.
func (r *SectionRepository) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	sql, args, err := r.sb.Select(sectionColumns...).
		From("sections").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get section query: %w", err)
	}

	section, err := scanSection(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSectionNotFound
		}
		logger.Error().Err(err).Int64("sectionID", id).Msg("Error scanning section row")
		return nil, fmt.Errorf("error getting section by ID: %w", err)
	}

	return section, nil
}

// GetAll retrieves a page of sections ordered by name.
func (r *SectionRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Section, error) {
	sql, args, err := r.sb.Select(sectionColumns...).
		From("sections").
		OrderBy("name ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all sections query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all sections query")
		return nil, fmt.Errorf("error querying sections: %w", err)
	}
	defer rows.Close()

	sections := []*models.Section{}
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning section row: %w", err)
		}
		sections = append(sections, section)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating section rows: %w", err)
	}

	return sections, nil
}

// Count returns the total number of sections.
func (r *SectionRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("sections").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count sections query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting sections: %w", err)
	}
	return count, nil
}

// Update replaces the mutable fields of a section and bumps last_update.
func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	sql, args, err := r.sb.Update("sections").
		SetMap(map[string]interface{}{
			"name":           section.Name,
			"description":    section.Description,
			"status":         section.Status,
			"base_price":     section.BasePrice,
			"price_currency": section.PriceCurrency,
			"last_update":    time.Now(),
		}).
		Where(squirrel.Eq{"id": section.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update section query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrValidationFailed
		}
		logger.Error().Err(err).Int64("sectionID", section.ID).Msg("Error executing update section query")
		return fmt.Errorf("error updating section: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSectionNotFound
	}

	return nil
}

// Delete removes a section. Materials are detached by the SET NULL foreign
// key; a section cited by the payment ledger cannot be removed.
func (r *SectionRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("sections").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete section query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsRestrictViolation(err) {
			return apperrors.ErrReferentialRestriction
		}
		logger.Error().Err(err).Int64("sectionID", id).Msg("Error executing delete section query")
		return fmt.Errorf("error deleting section: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSectionNotFound
	}

	return nil
}

// AttachMedia links a media record to a section. Attaching the same media
// twice is a no-op.
func (r *SectionRepository) AttachMedia(ctx context.Context, sectionID, mediaID int64) error {
	sql, args, err := r.sb.Insert("section_media").
		Columns("section_id", "media_id").
		Values(sectionID, mediaID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build attach media query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("sectionID", sectionID).Int64("mediaID", mediaID).Msg("Error attaching media to section")
		return fmt.Errorf("error attaching media to section: %w", err)
	}

	return nil
}

// DetachMedia unlinks a media record from a section.
func (r *SectionRepository) DetachMedia(ctx context.Context, sectionID, mediaID int64) error {
	sql, args, err := r.sb.Delete("section_media").
		Where(squirrel.Eq{"section_id": sectionID, "media_id": mediaID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build detach media query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("sectionID", sectionID).Int64("mediaID", mediaID).Msg("Error detaching media from section")
		return fmt.Errorf("error detaching media from section: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMediaNotFound
	}

	return nil
}

// MaterialStatus is a material id with its current status, used for
// propagation checks after a section status change.
type MaterialStatus struct {
	ID     int64
	Status models.Status
}

// GetMaterialStatuses returns the id and status of every material attached
// to the section.
func (r *SectionRepository) GetMaterialStatuses(ctx context.Context, sectionID int64) ([]MaterialStatus, error) {
	sql, args, err := r.sb.Select("id", "status").
		From("materials").
		Where(squirrel.Eq{"section_id": sectionID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build material statuses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying material statuses: %w", err)
	}
	defer rows.Close()

	statuses := []MaterialStatus{}
	for rows.Next() {
		var ms MaterialStatus
		if err := rows.Scan(&ms.ID, &ms.Status); err != nil {
			return nil, fmt.Errorf("error scanning material status row: %w", err)
		}
		statuses = append(statuses, ms)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating material status rows: %w", err)
	}

	return statuses, nil
}

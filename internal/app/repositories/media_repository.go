package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/dberrors"
	"github.com/avolkov/lms-backend/internal/pkg/logger"
)

var mediaColumns = []string{
	"id", "name", "creation_date",
	"local_image", "external_image",
	"local_video", "external_video",
	"local_audio", "external_audio",
}

// MediaRepository handles media database operations.
type MediaRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMediaRepository creates a new MediaRepository.
func NewMediaRepository(db *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanMedia(row pgx.Row) (*models.Media, error) {
	media := &models.Media{}
	err := row.Scan(
		&media.ID, &media.Name, &media.CreationDate,
		&media.LocalImage, &media.ExternalImage,
		&media.LocalVideo, &media.ExternalVideo,
		&media.LocalAudio, &media.ExternalAudio,
	)
	if err != nil {
		return nil, err
	}
	return media, nil
}

// Create inserts a new media record.
func (r *MediaRepository) Create(ctx context.Context, media *models.Media) (int64, error) {
	sql, args, err := r.sb.Insert("media").
		Columns("name", "local_image", "external_image", "local_video", "external_video", "local_audio", "external_audio").
		Values(media.Name, media.LocalImage, media.ExternalImage, media.LocalVideo, media.ExternalVideo, media.LocalAudio, media.ExternalAudio).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create media query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return 0, apperrors.ErrValidationFailed
		}
		logger.Error().Err(err).Msg("Error executing create media query")
		return 0, fmt.Errorf("error creating media: %w", err)
	}

	return id, nil
}

// GetByID retrieves a media record by ID.
func (r *MediaRepository) GetByID(ctx context.Context, id int64) (*models.Media, error) {
	sql, args, err := r.sb.Select(mediaColumns...).
		From("media").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get media query: %w", err)
	}

	media, err := scanMedia(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMediaNotFound
		}
		logger.Error().Err(err).Int64("mediaID", id).Msg("Error scanning media row")
		return nil, fmt.Errorf("error getting media by ID: %w", err)
	}

	return media, nil
}

// GetAll retrieves a page of media records ordered by name.
func (r *MediaRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Media, error) {
	sql, args, err := r.sb.Select(mediaColumns...).
		From("media").
		OrderBy("name ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all media query: %w", err)
	}

	return r.queryMedia(ctx, sql, args...)
}

// Count returns the total number of media records.
func (r *MediaRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("media").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count media query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting media: %w", err)
	}
	return count, nil
}

// Update replaces the mutable fields of a media record.
func (r *MediaRepository) Update(ctx context.Context, media *models.Media) error {
	sql, args, err := r.sb.Update("media").
		SetMap(map[string]interface{}{
			"name":           media.Name,
			"local_image":    media.LocalImage,
			"external_image": media.ExternalImage,
			"local_video":    media.LocalVideo,
			"external_video": media.ExternalVideo,
			"local_audio":    media.LocalAudio,
			"external_audio": media.ExternalAudio,
		}).
		Where(squirrel.Eq{"id": media.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update media query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrValidationFailed
		}
		logger.Error().Err(err).Int64("mediaID", media.ID).Msg("Error executing update media query")
		return fmt.Errorf("error updating media: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMediaNotFound
	}

	return nil
}

// Delete removes a media record. Join rows are removed by cascade.
func (r *MediaRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("media").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete media query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("mediaID", id).Msg("Error executing delete media query")
		return fmt.Errorf("error deleting media: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMediaNotFound
	}

	return nil
}

// GetBySectionID retrieves all media attached to a section.
func (r *MediaRepository) GetBySectionID(ctx context.Context, sectionID int64) ([]*models.Media, error) {
	sql, args, err := r.sb.Select(prefixColumns("m", mediaColumns)...).
		From("media m").
		Join("section_media sm ON sm.media_id = m.id").
		Where(squirrel.Eq{"sm.section_id": sectionID}).
		OrderBy("m.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build section media query: %w", err)
	}

	return r.queryMedia(ctx, sql, args...)
}

// GetByMaterialID retrieves all media attached to a material.
func (r *MediaRepository) GetByMaterialID(ctx context.Context, materialID int64) ([]*models.Media, error) {
	sql, args, err := r.sb.Select(prefixColumns("m", mediaColumns)...).
		From("media m").
		Join("material_media mm ON mm.media_id = m.id").
		Where(squirrel.Eq{"mm.material_id": materialID}).
		OrderBy("m.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build material media query: %w", err)
	}

	return r.queryMedia(ctx, sql, args...)
}

// GetByQuestionID retrieves all media attached to a test question.
func (r *MediaRepository) GetByQuestionID(ctx context.Context, questionID int64) ([]*models.Media, error) {
	sql, args, err := r.sb.Select(prefixColumns("m", mediaColumns)...).
		From("media m").
		Join("test_question_media qm ON qm.media_id = m.id").
		Where(squirrel.Eq{"qm.question_id": questionID}).
		OrderBy("m.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build question media query: %w", err)
	}

	return r.queryMedia(ctx, sql, args...)
}

func (r *MediaRepository) queryMedia(ctx context.Context, sql string, args ...interface{}) ([]*models.Media, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing media query")
		return nil, fmt.Errorf("error querying media: %w", err)
	}
	defer rows.Close()

	items := []*models.Media{}
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning media row: %w", err)
		}
		items = append(items, media)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media rows: %w", err)
	}

	return items, nil
}

func prefixColumns(alias string, columns []string) []string {
	prefixed := make([]string, len(columns))
	for i, col := range columns {
		prefixed[i] = alias + "." + col
	}
	return prefixed
}

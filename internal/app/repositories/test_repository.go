package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/db"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/dberrors"
	"github.com/avolkov/lms-backend/internal/pkg/logger"
)

// TestRepository handles test, question and answer database operations.
// Question creation spans several tables, so it holds the db wrapper for
// transactions rather than the bare pool.
type TestRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(database *db.PostgresDB) *TestRepository {
	return &TestRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new test. Only one test may exist per material.
func (r *TestRepository) Create(ctx context.Context, test *models.Test) (int64, error) {
	sql, args, err := r.sb.Insert("tests").
		Columns("material_id").
		Values(test.MaterialID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create test query: %w", err)
	}

	var id int64
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create test query")
		return 0, fmt.Errorf("error creating test: %w", err)
	}

	return id, nil
}

// GetByID retrieves a test by ID.
func (r *TestRepository) GetByID(ctx context.Context, id int64) (*models.Test, error) {
	sql, args, err := r.sb.Select("id", "material_id", "creation_date", "last_update").
		From("tests").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get test query: %w", err)
	}

	test := &models.Test{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&test.ID, &test.MaterialID, &test.CreationDate, &test.LastUpdate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTestNotFound
		}
		logger.Error().Err(err).Int64("testID", id).Msg("Error scanning test row")
		return nil, fmt.Errorf("error getting test by ID: %w", err)
	}

	return test, nil
}

// GetByMaterialID retrieves the test attached to a material.
func (r *TestRepository) GetByMaterialID(ctx context.Context, materialID int64) (*models.Test, error) {
	sql, args, err := r.sb.Select("id", "material_id", "creation_date", "last_update").
		From("tests").
		Where(squirrel.Eq{"material_id": materialID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get test by material query: %w", err)
	}

	test := &models.Test{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&test.ID, &test.MaterialID, &test.CreationDate, &test.LastUpdate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTestNotFound
		}
		logger.Error().Err(err).Int64("materialID", materialID).Msg("Error scanning test row")
		return nil, fmt.Errorf("error getting test by material ID: %w", err)
	}

	return test, nil
}

// Delete removes a test. Its question-set rows are removed by cascade; the
// questions themselves survive and can be reused by other tests.
func (r *TestRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("tests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete test query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("testID", id).Msg("Error executing delete test query")
		return fmt.Errorf("error deleting test: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTestNotFound
	}

	return nil
}

// AddQuestion links a question into a test's question set. Duplicate links
// are a no-op.
func (r *TestRepository) AddQuestion(ctx context.Context, testID, questionID int64) error {
	sql, args, err := r.sb.Insert("test_question_set").
		Columns("test_id", "question_id").
		Values(testID, questionID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add question query: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsRestrictViolation(err) {
			return apperrors.ErrQuestionNotFound
		}
		logger.Error().Err(err).Int64("testID", testID).Int64("questionID", questionID).Msg("Error adding question to test")
		return fmt.Errorf("error adding question to test: %w", err)
	}

	return nil
}

// RemoveQuestion unlinks a question from a test's question set.
func (r *TestRepository) RemoveQuestion(ctx context.Context, testID, questionID int64) error {
	sql, args, err := r.sb.Delete("test_question_set").
		Where(squirrel.Eq{"test_id": testID, "question_id": questionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build remove question query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("testID", testID).Int64("questionID", questionID).Msg("Error removing question from test")
		return fmt.Errorf("error removing question from test: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrQuestionNotFound
	}

	return nil
}

// CreateAnswer inserts a new answer option.
func (r *TestRepository) CreateAnswer(ctx context.Context, answer *models.TestAnswer) (int64, error) {
	sql, args, err := r.sb.Insert("test_answers").
		Columns("answer").
		Values(answer.Answer).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create answer query: %w", err)
	}

	var id int64
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create answer query")
		return 0, fmt.Errorf("error creating answer: %w", err)
	}

	return id, nil
}

// GetAnswerByID retrieves an answer option by ID.
func (r *TestRepository) GetAnswerByID(ctx context.Context, id int64) (*models.TestAnswer, error) {
	sql, args, err := r.sb.Select("id", "answer").
		From("test_answers").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get answer query: %w", err)
	}

	answer := &models.TestAnswer{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&answer.ID, &answer.Answer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("error getting answer by ID: %w", err)
	}

	return answer, nil
}

// CreateQuestion inserts a question together with its choice links and media
// links in one transaction. The correct answer is always part of the choice
// set.
func (r *TestRepository) CreateQuestion(ctx context.Context, question *models.TestQuestion, choiceIDs, mediaIDs []int64) (int64, error) {
	var questionID int64

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("test_questions").
			Columns("question", "answer_id").
			Values(question.Question, question.AnswerID).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create question query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&questionID); err != nil {
			if dberrors.IsRestrictViolation(err) {
				return apperrors.ErrAnswerNotFound
			}
			return fmt.Errorf("error creating question: %w", err)
		}

		choiceSet := map[int64]bool{question.AnswerID: true}
		for _, id := range choiceIDs {
			choiceSet[id] = true
		}

		choiceInsert := r.sb.Insert("test_question_choices").Columns("question_id", "answer_id")
		for id := range choiceSet {
			choiceInsert = choiceInsert.Values(questionID, id)
		}
		sql, args, err = choiceInsert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert choices query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsRestrictViolation(err) {
				return apperrors.ErrAnswerNotFound
			}
			return fmt.Errorf("error inserting question choices: %w", err)
		}

		for _, mediaID := range mediaIDs {
			sql, args, err := r.sb.Insert("test_question_media").
				Columns("question_id", "media_id").
				Values(questionID, mediaID).
				Suffix("ON CONFLICT DO NOTHING").
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build insert question media query: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				if dberrors.IsRestrictViolation(err) {
					return apperrors.ErrMediaNotFound
				}
				return fmt.Errorf("error inserting question media: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return questionID, nil
}

// GetQuestions retrieves the question set of a test with choices populated.
func (r *TestRepository) GetQuestions(ctx context.Context, testID int64) ([]*models.TestQuestion, error) {
	sql, args, err := r.sb.Select("q.id", "q.question", "q.answer_id").
		From("test_questions q").
		Join("test_question_set ts ON ts.question_id = q.id").
		Where(squirrel.Eq{"ts.test_id": testID}).
		OrderBy("q.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get questions query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("testID", testID).Msg("Error querying test questions")
		return nil, fmt.Errorf("error querying test questions: %w", err)
	}

	questions := []*models.TestQuestion{}
	byID := map[int64]*models.TestQuestion{}
	for rows.Next() {
		q := &models.TestQuestion{}
		if err := rows.Scan(&q.ID, &q.Question, &q.AnswerID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning question row: %w", err)
		}
		questions = append(questions, q)
		byID[q.ID] = q
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question rows: %w", err)
	}

	if len(questions) == 0 {
		return questions, nil
	}

	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}

	sql, args, err = r.sb.Select("c.question_id", "a.id", "a.answer").
		From("test_question_choices c").
		Join("test_answers a ON a.id = c.answer_id").
		Where(squirrel.Eq{"c.question_id": ids}).
		OrderBy("a.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get choices query: %w", err)
	}

	choiceRows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying question choices: %w", err)
	}
	defer choiceRows.Close()

	for choiceRows.Next() {
		var questionID int64
		choice := &models.TestAnswer{}
		if err := choiceRows.Scan(&questionID, &choice.ID, &choice.Answer); err != nil {
			return nil, fmt.Errorf("error scanning choice row: %w", err)
		}
		if q, ok := byID[questionID]; ok {
			q.Choices = append(q.Choices, choice)
		}
	}
	if err := choiceRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating choice rows: %w", err)
	}

	return questions, nil
}

package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
)

// testStore is the repository surface the test service needs.
type testStore interface {
	Create(ctx context.Context, test *models.Test) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Test, error)
	GetByMaterialID(ctx context.Context, materialID int64) (*models.Test, error)
	Delete(ctx context.Context, id int64) error
	AddQuestion(ctx context.Context, testID, questionID int64) error
	RemoveQuestion(ctx context.Context, testID, questionID int64) error
	CreateAnswer(ctx context.Context, answer *models.TestAnswer) (int64, error)
	GetAnswerByID(ctx context.Context, id int64) (*models.TestAnswer, error)
	CreateQuestion(ctx context.Context, question *models.TestQuestion, choiceIDs, mediaIDs []int64) (int64, error)
	GetQuestions(ctx context.Context, testID int64) ([]*models.TestQuestion, error)
}

type testMaterialLoader interface {
	GetByID(ctx context.Context, id int64) (*models.Material, error)
}

type questionMediaLoader interface {
	GetByQuestionID(ctx context.Context, questionID int64) ([]*models.Media, error)
}

// TestService defines the interface for test management and delivery.
type TestService interface {
	CreateTest(ctx context.Context, materialID *int64, questionIDs []int64) (*models.Test, error)
	GetTestByID(ctx context.Context, id int64) (*models.Test, error)
	DeleteTest(ctx context.Context, id int64) error
	AddQuestion(ctx context.Context, testID, questionID int64) error
	RemoveQuestion(ctx context.Context, testID, questionID int64) error
	CreateAnswer(ctx context.Context, answer string) (*models.TestAnswer, error)
	CreateQuestion(ctx context.Context, question string, answerID int64, choiceIDs, mediaIDs []int64) (*models.TestQuestion, error)
	// StartTest serves the test of a material with every question's choices
	// shuffled, ready to present to a student.
	StartTest(ctx context.Context, materialID int64) (*models.Test, error)
}

type testServiceImpl struct {
	testRepo     testStore
	materialRepo testMaterialLoader
	mediaRepo    questionMediaLoader
	shuffle      func(n int, swap func(i, j int))
}

// NewTestService creates a new test service instance.
func NewTestService(testRepo testStore, materialRepo testMaterialLoader, mediaRepo questionMediaLoader) TestService {
	return &testServiceImpl{
		testRepo:     testRepo,
		materialRepo: materialRepo,
		mediaRepo:    mediaRepo,
		shuffle:      rand.Shuffle,
	}
}

// CreateTest creates a test, optionally attached to a material and seeded
// with an initial question set.
func (s *testServiceImpl) CreateTest(ctx context.Context, materialID *int64, questionIDs []int64) (*models.Test, error) {
	if materialID != nil {
		if _, err := s.materialRepo.GetByID(ctx, *materialID); err != nil {
			return nil, err
		}
	}

	id, err := s.testRepo.Create(ctx, &models.Test{MaterialID: materialID})
	if err != nil {
		return nil, err
	}

	for _, questionID := range questionIDs {
		if err := s.testRepo.AddQuestion(ctx, id, questionID); err != nil {
			return nil, err
		}
	}

	return s.testRepo.GetByID(ctx, id)
}

// GetTestByID retrieves a test with its questions.
func (s *testServiceImpl) GetTestByID(ctx context.Context, id int64) (*models.Test, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid test ID", apperrors.ErrValidationFailed)
	}

	test, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	questions, err := s.testRepo.GetQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	test.Questions = questions

	return test, nil
}

// DeleteTest removes a test, leaving its questions reusable.
func (s *testServiceImpl) DeleteTest(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid test ID", apperrors.ErrValidationFailed)
	}
	return s.testRepo.Delete(ctx, id)
}

// AddQuestion links a question into a test's question set.
func (s *testServiceImpl) AddQuestion(ctx context.Context, testID, questionID int64) error {
	if _, err := s.testRepo.GetByID(ctx, testID); err != nil {
		return err
	}
	return s.testRepo.AddQuestion(ctx, testID, questionID)
}

// RemoveQuestion unlinks a question from a test's question set.
func (s *testServiceImpl) RemoveQuestion(ctx context.Context, testID, questionID int64) error {
	if _, err := s.testRepo.GetByID(ctx, testID); err != nil {
		return err
	}
	return s.testRepo.RemoveQuestion(ctx, testID, questionID)
}

// CreateAnswer stores a new answer option.
func (s *testServiceImpl) CreateAnswer(ctx context.Context, answer string) (*models.TestAnswer, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("%w: answer cannot be empty", apperrors.ErrValidationFailed)
	}

	record := &models.TestAnswer{Answer: answer}
	id, err := s.testRepo.CreateAnswer(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = id
	return record, nil
}

// CreateQuestion stores a new question. The correct answer must exist and is
// always included in the choice set.
func (s *testServiceImpl) CreateQuestion(ctx context.Context, question string, answerID int64, choiceIDs, mediaIDs []int64) (*models.TestQuestion, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question cannot be empty", apperrors.ErrValidationFailed)
	}
	if _, err := s.testRepo.GetAnswerByID(ctx, answerID); err != nil {
		return nil, err
	}

	record := &models.TestQuestion{Question: question, AnswerID: answerID}
	id, err := s.testRepo.CreateQuestion(ctx, record, choiceIDs, mediaIDs)
	if err != nil {
		return nil, err
	}
	record.ID = id
	return record, nil
}

// StartTest loads the test attached to a material and shuffles each
// question's choices. Shuffling reorders the choice set without adding or
// dropping options, so the correct answer is always present.
func (s *testServiceImpl) StartTest(ctx context.Context, materialID int64) (*models.Test, error) {
	if _, err := s.materialRepo.GetByID(ctx, materialID); err != nil {
		return nil, err
	}

	test, err := s.testRepo.GetByMaterialID(ctx, materialID)
	if err != nil {
		return nil, err
	}

	questions, err := s.testRepo.GetQuestions(ctx, test.ID)
	if err != nil {
		return nil, err
	}

	for _, q := range questions {
		choices := q.Choices
		s.shuffle(len(choices), func(i, j int) {
			choices[i], choices[j] = choices[j], choices[i]
		})

		media, err := s.mediaRepo.GetByQuestionID(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		q.Media = media
	}
	test.Questions = questions

	return test, nil
}

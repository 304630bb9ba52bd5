package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
)

type mockTestStore struct {
	tests     map[int64]*models.Test
	questions map[int64][]*models.TestQuestion
	answers   map[int64]*models.TestAnswer
	nextID    int64
}

func newMockTestStore() *mockTestStore {
	return &mockTestStore{
		tests:     map[int64]*models.Test{},
		questions: map[int64][]*models.TestQuestion{},
		answers:   map[int64]*models.TestAnswer{},
		nextID:    1,
	}
}

func (m *mockTestStore) Create(_ context.Context, test *models.Test) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *test
	stored.ID = id
	stored.CreationDate = time.Now()
	stored.LastUpdate = stored.CreationDate
	m.tests[id] = &stored
	return id, nil
}

func (m *mockTestStore) GetByID(_ context.Context, id int64) (*models.Test, error) {
	test, ok := m.tests[id]
	if !ok {
		return nil, apperrors.ErrTestNotFound
	}
	copied := *test
	return &copied, nil
}

func (m *mockTestStore) GetByMaterialID(_ context.Context, materialID int64) (*models.Test, error) {
	for _, test := range m.tests {
		if test.MaterialID != nil && *test.MaterialID == materialID {
			copied := *test
			return &copied, nil
		}
	}
	return nil, apperrors.ErrTestNotFound
}

func (m *mockTestStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.tests[id]; !ok {
		return apperrors.ErrTestNotFound
	}
	delete(m.tests, id)
	return nil
}

func (m *mockTestStore) AddQuestion(_ context.Context, testID, questionID int64) error {
	for _, q := range m.questions[testID] {
		if q.ID == questionID {
			return nil
		}
	}
	m.questions[testID] = append(m.questions[testID], &models.TestQuestion{ID: questionID})
	return nil
}

func (m *mockTestStore) RemoveQuestion(_ context.Context, testID, questionID int64) error {
	qs := m.questions[testID]
	for i, q := range qs {
		if q.ID == questionID {
			m.questions[testID] = append(qs[:i], qs[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrQuestionNotFound
}

func (m *mockTestStore) CreateAnswer(_ context.Context, answer *models.TestAnswer) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *answer
	stored.ID = id
	m.answers[id] = &stored
	return id, nil
}

func (m *mockTestStore) GetAnswerByID(_ context.Context, id int64) (*models.TestAnswer, error) {
	answer, ok := m.answers[id]
	if !ok {
		return nil, apperrors.ErrAnswerNotFound
	}
	return answer, nil
}

func (m *mockTestStore) CreateQuestion(_ context.Context, question *models.TestQuestion, _, _ []int64) (int64, error) {
	id := m.nextID
	m.nextID++
	return id, nil
}

func (m *mockTestStore) GetQuestions(_ context.Context, testID int64) ([]*models.TestQuestion, error) {
	out := []*models.TestQuestion{}
	for _, q := range m.questions[testID] {
		copied := *q
		copied.Choices = append([]*models.TestAnswer{}, q.Choices...)
		out = append(out, &copied)
	}
	return out, nil
}

func testFixture(t *testing.T) (*testServiceImpl, *mockTestStore, *mockMaterialStore) {
	t.Helper()
	store := newMockTestStore()
	materials := newMockMaterialStore()
	media := &mockMediaLoader{media: map[int64]*models.Media{}}
	svc := NewTestService(store, materials, media).(*testServiceImpl)
	return svc, store, materials
}

func choiceIDs(choices []*models.TestAnswer) []int64 {
	ids := make([]int64, len(choices))
	for i, c := range choices {
		ids[i] = c.ID
	}
	return ids
}

func TestStartTest_ShufflesWithoutChangingChoiceSet(t *testing.T) {
	svc, store, materials := testFixture(t)

	materialID, err := materials.Create(context.Background(), &models.Material{Name: "Variables", Status: models.StatusOpen})
	require.NoError(t, err)

	testID, err := store.Create(context.Background(), &models.Test{MaterialID: &materialID})
	require.NoError(t, err)

	store.questions[testID] = []*models.TestQuestion{{
		ID:       1,
		Question: "What declares a variable?",
		AnswerID: 11,
		Choices: []*models.TestAnswer{
			{ID: 11, Answer: "var"},
			{ID: 12, Answer: "let"},
			{ID: 13, Answer: "def"},
			{ID: 14, Answer: "dim"},
		},
	}}

	// Reverse deterministically so the reorder is observable.
	svc.shuffle = func(n int, swap func(i, j int)) {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			swap(i, j)
		}
	}

	started, err := svc.StartTest(context.Background(), materialID)

	require.NoError(t, err)
	require.Len(t, started.Questions, 1)

	got := choiceIDs(started.Questions[0].Choices)
	assert.Equal(t, []int64{14, 13, 12, 11}, got)
	// The set is unchanged, so the correct answer is still present.
	assert.ElementsMatch(t, []int64{11, 12, 13, 14}, got)
	assert.Contains(t, got, started.Questions[0].AnswerID)
}

func TestStartTest_NoTestForMaterial(t *testing.T) {
	svc, _, materials := testFixture(t)

	materialID, err := materials.Create(context.Background(), &models.Material{Name: "Variables", Status: models.StatusOpen})
	require.NoError(t, err)

	_, err = svc.StartTest(context.Background(), materialID)

	assert.ErrorIs(t, err, apperrors.ErrTestNotFound)
}

func TestStartTest_UnknownMaterial(t *testing.T) {
	svc, _, _ := testFixture(t)

	_, err := svc.StartTest(context.Background(), 999)

	assert.ErrorIs(t, err, apperrors.ErrMaterialNotFound)
}

func TestCreateQuestion_UnknownAnswer(t *testing.T) {
	svc, _, _ := testFixture(t)

	_, err := svc.CreateQuestion(context.Background(), "What declares a variable?", 404, nil, nil)

	assert.ErrorIs(t, err, apperrors.ErrAnswerNotFound)
}

func TestCreateTest_UnknownMaterial(t *testing.T) {
	svc, _, _ := testFixture(t)

	missing := int64(999)
	_, err := svc.CreateTest(context.Background(), &missing, nil)

	assert.ErrorIs(t, err, apperrors.ErrMaterialNotFound)
}

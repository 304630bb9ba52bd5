package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/validation"
)

type mockMediaStore struct {
	records map[int64]*models.Media
	nextID  int64
}

func newMockMediaStore() *mockMediaStore {
	return &mockMediaStore{records: map[int64]*models.Media{}, nextID: 1}
}

func (m *mockMediaStore) Create(_ context.Context, media *models.Media) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *media
	stored.ID = id
	m.records[id] = &stored
	return id, nil
}

func (m *mockMediaStore) GetByID(_ context.Context, id int64) (*models.Media, error) {
	media, ok := m.records[id]
	if !ok {
		return nil, apperrors.ErrMediaNotFound
	}
	return media, nil
}

func (m *mockMediaStore) GetAll(_ context.Context, _ uint64, _ int) ([]*models.Media, error) {
	out := []*models.Media{}
	for _, media := range m.records {
		out = append(out, media)
	}
	return out, nil
}

func (m *mockMediaStore) Count(_ context.Context) (int64, error) {
	return int64(len(m.records)), nil
}

func (m *mockMediaStore) Update(_ context.Context, media *models.Media) error {
	if _, ok := m.records[media.ID]; !ok {
		return apperrors.ErrMediaNotFound
	}
	stored := *media
	m.records[media.ID] = &stored
	return nil
}

func (m *mockMediaStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.records[id]; !ok {
		return apperrors.ErrMediaNotFound
	}
	delete(m.records, id)
	return nil
}

func TestCreateMedia_SingleReference(t *testing.T) {
	store := newMockMediaStore()
	svc := NewMediaService(store)

	created, err := svc.CreateMedia(context.Background(), &models.Media{
		Name:          "Intro diagram",
		ExternalImage: "https://cdn.example.com/intro.png",
	})

	require.NoError(t, err)
	assert.Equal(t, "Intro diagram", created.Name)
	assert.NotZero(t, created.ID)
}

func TestCreateMedia_NoReferenceRejected(t *testing.T) {
	svc := NewMediaService(newMockMediaStore())

	_, err := svc.CreateMedia(context.Background(), &models.Media{Name: "Empty"})

	var violation *validation.Violation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, validation.KindNoMediaSelected, violation.Kind)
}

func TestCreateMedia_MultipleReferencesRejected(t *testing.T) {
	svc := NewMediaService(newMockMediaStore())

	_, err := svc.CreateMedia(context.Background(), &models.Media{
		Name:          "Both slots",
		LocalImage:    "image/a.png",
		ExternalVideo: "https://cdn.example.com/a.mp4",
	})

	var violation *validation.Violation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, validation.KindMultipleMediaSelected, violation.Kind)
}

func TestUpdateMedia_SwapReference(t *testing.T) {
	store := newMockMediaStore()
	svc := NewMediaService(store)

	created, err := svc.CreateMedia(context.Background(), &models.Media{
		Name:       "Lecture recording",
		LocalVideo: "video/lecture.mp4",
	})
	require.NoError(t, err)

	created.LocalVideo = ""
	created.ExternalVideo = "https://cdn.example.com/lecture.mp4"
	updated, err := svc.UpdateMedia(context.Background(), created)

	require.NoError(t, err)
	assert.Empty(t, updated.LocalVideo)
	assert.Equal(t, "https://cdn.example.com/lecture.mp4", updated.ExternalVideo)
}

func TestDeleteMedia_NotFound(t *testing.T) {
	svc := NewMediaService(newMockMediaStore())

	err := svc.DeleteMedia(context.Background(), 42)

	assert.True(t, errors.Is(err, apperrors.ErrMediaNotFound))
}

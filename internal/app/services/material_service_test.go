package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/validation"
)

type mockMaterialStore struct {
	materials map[int64]*models.Material
	nextID    int64
	attached  [][2]int64
}

func newMockMaterialStore() *mockMaterialStore {
	return &mockMaterialStore{materials: map[int64]*models.Material{}, nextID: 1}
}

func (m *mockMaterialStore) Create(_ context.Context, material *models.Material) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *material
	stored.ID = id
	m.materials[id] = &stored
	return id, nil
}

func (m *mockMaterialStore) GetByID(_ context.Context, id int64) (*models.Material, error) {
	material, ok := m.materials[id]
	if !ok {
		return nil, apperrors.ErrMaterialNotFound
	}
	copied := *material
	return &copied, nil
}

func (m *mockMaterialStore) GetBySectionID(_ context.Context, sectionID int64) ([]*models.Material, error) {
	out := []*models.Material{}
	for _, material := range m.materials {
		if material.SectionID != nil && *material.SectionID == sectionID {
			out = append(out, material)
		}
	}
	return out, nil
}

func (m *mockMaterialStore) GetAll(_ context.Context, _ uint64, _ int) ([]*models.Material, error) {
	out := []*models.Material{}
	for _, material := range m.materials {
		out = append(out, material)
	}
	return out, nil
}

func (m *mockMaterialStore) Count(_ context.Context) (int64, error) {
	return int64(len(m.materials)), nil
}

func (m *mockMaterialStore) Update(_ context.Context, material *models.Material) error {
	if _, ok := m.materials[material.ID]; !ok {
		return apperrors.ErrMaterialNotFound
	}
	stored := *material
	m.materials[material.ID] = &stored
	return nil
}

func (m *mockMaterialStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.materials[id]; !ok {
		return apperrors.ErrMaterialNotFound
	}
	delete(m.materials, id)
	return nil
}

func (m *mockMaterialStore) AttachMedia(_ context.Context, materialID, mediaID int64) error {
	m.attached = append(m.attached, [2]int64{materialID, mediaID})
	return nil
}

func (m *mockMaterialStore) DetachMedia(_ context.Context, _, _ int64) error {
	return nil
}

type mockMediaLoader struct {
	media map[int64]*models.Media
}

func (m *mockMediaLoader) GetByID(_ context.Context, id int64) (*models.Media, error) {
	media, ok := m.media[id]
	if !ok {
		return nil, apperrors.ErrMediaNotFound
	}
	return media, nil
}

func (m *mockMediaLoader) GetByMaterialID(_ context.Context, _ int64) ([]*models.Media, error) {
	return []*models.Media{}, nil
}

func (m *mockMediaLoader) GetBySectionID(_ context.Context, _ int64) ([]*models.Media, error) {
	return []*models.Media{}, nil
}

func (m *mockMediaLoader) GetByQuestionID(_ context.Context, _ int64) ([]*models.Media, error) {
	return []*models.Media{}, nil
}

func materialFixture(sectionStatus models.Status) (MaterialService, *mockMaterialStore) {
	store := newMockMaterialStore()
	sections := &mockSectionLoader{sections: map[int64]*models.Section{
		10: {ID: 10, Name: "Go Basics", Status: sectionStatus},
	}}
	media := &mockMediaLoader{media: map[int64]*models.Media{}}
	return NewMaterialService(store, sections, media), store
}

func sectionID(id int64) *int64 { return &id }

func TestCreateMaterial_OpenParent(t *testing.T) {
	svc, _ := materialFixture(models.StatusOpen)

	material, err := svc.CreateMaterial(context.Background(), &models.Material{
		Name:      "Variables",
		Text:      "About variables",
		Status:    models.StatusOpen,
		SectionID: sectionID(10),
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, material.Status)
}

func TestCreateMaterial_ArchivedParentRejectsOpenChild(t *testing.T) {
	svc, store := materialFixture(models.StatusArchived)

	_, err := svc.CreateMaterial(context.Background(), &models.Material{
		Name:      "Variables",
		Text:      "About variables",
		Status:    models.StatusOpen,
		SectionID: sectionID(10),
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	var violation *validation.Violation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, validation.KindStatusMismatch, violation.Kind)
	assert.Empty(t, store.materials)
}

func TestCreateMaterial_ArchivedParentAcceptsArchivedChild(t *testing.T) {
	svc, _ := materialFixture(models.StatusArchived)

	_, err := svc.CreateMaterial(context.Background(), &models.Material{
		Name:      "Variables",
		Text:      "About variables",
		Status:    models.StatusArchived,
		SectionID: sectionID(10),
	}, nil)

	assert.NoError(t, err)
}

func TestCreateMaterial_DetachedSkipsPropagation(t *testing.T) {
	svc, _ := materialFixture(models.StatusArchived)

	// No section, so no parent status to agree with.
	_, err := svc.CreateMaterial(context.Background(), &models.Material{
		Name:   "Standalone",
		Text:   "Not in any section",
		Status: models.StatusOpen,
	}, nil)

	assert.NoError(t, err)
}

func TestUpdateMaterial_DetachClearsSection(t *testing.T) {
	svc, store := materialFixture(models.StatusOpen)

	created, err := svc.CreateMaterial(context.Background(), &models.Material{
		Name:      "Variables",
		Text:      "About variables",
		Status:    models.StatusOpen,
		SectionID: sectionID(10),
	}, nil)
	require.NoError(t, err)

	created.SectionID = nil
	updated, err := svc.UpdateMaterial(context.Background(), created)

	require.NoError(t, err)
	assert.Nil(t, updated.SectionID)
	assert.Nil(t, store.materials[created.ID].SectionID)
}

func TestUpdateMaterial_ReattachChecksNewParent(t *testing.T) {
	store := newMockMaterialStore()
	sections := &mockSectionLoader{sections: map[int64]*models.Section{
		10: {ID: 10, Status: models.StatusOpen},
		11: {ID: 11, Status: models.StatusClosed},
	}}
	media := &mockMediaLoader{media: map[int64]*models.Media{}}
	svc := NewMaterialService(store, sections, media)

	created, err := svc.CreateMaterial(context.Background(), &models.Material{
		Name:      "Variables",
		Text:      "About variables",
		Status:    models.StatusOpen,
		SectionID: sectionID(10),
	}, nil)
	require.NoError(t, err)

	created.SectionID = sectionID(11)
	_, err = svc.UpdateMaterial(context.Background(), created)

	var violation *validation.Violation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, validation.KindStatusMismatch, violation.Kind)
}

func TestUpdateMaterial_DateOrderRejected(t *testing.T) {
	svc, _ := materialFixture(models.StatusOpen)

	created, err := svc.CreateMaterial(context.Background(), &models.Material{
		Name:      "Variables",
		Text:      "About variables",
		Status:    models.StatusOpen,
		SectionID: sectionID(10),
	}, nil)
	require.NoError(t, err)

	created.CreationDate = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	created.LastUpdate = created.CreationDate.Add(-time.Minute)
	_, err = svc.UpdateMaterial(context.Background(), created)

	var violation *validation.Violation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, validation.KindDateOrderViolation, violation.Kind)
}

func TestCreateMaterial_UnknownMediaRejected(t *testing.T) {
	svc, store := materialFixture(models.StatusOpen)

	_, err := svc.CreateMaterial(context.Background(), &models.Material{
		Name:   "Variables",
		Text:   "About variables",
		Status: models.StatusOpen,
	}, []int64{42})

	assert.ErrorIs(t, err, apperrors.ErrMediaNotFound)
	assert.Empty(t, store.materials)
}

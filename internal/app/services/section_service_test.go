package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/app/repositories"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/validation"
)

type mockSectionStore struct {
	sections map[int64]*models.Section
	statuses map[int64][]repositories.MaterialStatus
	nextID   int64
}

func newMockSectionStore() *mockSectionStore {
	return &mockSectionStore{
		sections: map[int64]*models.Section{},
		statuses: map[int64][]repositories.MaterialStatus{},
		nextID:   1,
	}
}

func (m *mockSectionStore) Create(_ context.Context, section *models.Section) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *section
	stored.ID = id
	m.sections[id] = &stored
	return id, nil
}

func (m *mockSectionStore) GetByID(_ context.Context, id int64) (*models.Section, error) {
	section, ok := m.sections[id]
	if !ok {
		return nil, apperrors.ErrSectionNotFound
	}
	copied := *section
	return &copied, nil
}

func (m *mockSectionStore) GetAll(_ context.Context, _ uint64, _ int) ([]*models.Section, error) {
	out := []*models.Section{}
	for _, section := range m.sections {
		out = append(out, section)
	}
	return out, nil
}

func (m *mockSectionStore) Count(_ context.Context) (int64, error) {
	return int64(len(m.sections)), nil
}

func (m *mockSectionStore) Update(_ context.Context, section *models.Section) error {
	if _, ok := m.sections[section.ID]; !ok {
		return apperrors.ErrSectionNotFound
	}
	stored := *section
	m.sections[section.ID] = &stored
	return nil
}

func (m *mockSectionStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.sections[id]; !ok {
		return apperrors.ErrSectionNotFound
	}
	delete(m.sections, id)
	return nil
}

func (m *mockSectionStore) AttachMedia(_ context.Context, _, _ int64) error { return nil }
func (m *mockSectionStore) DetachMedia(_ context.Context, _, _ int64) error { return nil }

func (m *mockSectionStore) GetMaterialStatuses(_ context.Context, sectionID int64) ([]repositories.MaterialStatus, error) {
	return m.statuses[sectionID], nil
}

func sectionFixture() (SectionService, *mockSectionStore) {
	store := newMockSectionStore()
	media := &mockMediaLoader{media: map[int64]*models.Media{}}
	materials := newMockMaterialStore()
	return NewSectionService(store, media, materials), store
}

func validSection() *models.Section {
	return &models.Section{
		Name:          "Go Basics",
		Description:   "Introductory section",
		Status:        models.StatusOpen,
		BasePrice:     decimal.RequireFromString("1500.00"),
		PriceCurrency: "RUB",
	}
}

func TestCreateSection_Valid(t *testing.T) {
	svc, _ := sectionFixture()

	section, err := svc.CreateSection(context.Background(), validSection(), nil)

	require.NoError(t, err)
	assert.Equal(t, "Go Basics", section.Name)
	assert.Equal(t, models.StatusOpen, section.Status)
}

func TestCreateSection_UnsupportedCurrency(t *testing.T) {
	svc, store := sectionFixture()

	section := validSection()
	section.PriceCurrency = "GBP"

	_, err := svc.CreateSection(context.Background(), section, nil)

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, store.sections)
}

func TestCreateSection_NegativePrice(t *testing.T) {
	svc, _ := sectionFixture()

	section := validSection()
	section.BasePrice = decimal.RequireFromString("-1.00")

	_, err := svc.CreateSection(context.Background(), section, nil)

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateSection_ArchiveReportsOutOfSyncMaterials(t *testing.T) {
	svc, store := sectionFixture()

	created, err := svc.CreateSection(context.Background(), validSection(), nil)
	require.NoError(t, err)

	store.statuses[created.ID] = []repositories.MaterialStatus{
		{ID: 100, Status: models.StatusOpen},
		{ID: 101, Status: models.StatusArchived},
		{ID: 102, Status: models.StatusClosed},
	}

	created.Status = models.StatusArchived
	updated, outOfSync, err := svc.UpdateSection(context.Background(), created)

	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, updated.Status)
	// The update itself succeeds; materials that no longer agree are
	// reported, not modified.
	assert.Equal(t, []int64{100, 102}, outOfSync)
}

func TestUpdateSection_ReopeningReportsNothing(t *testing.T) {
	svc, store := sectionFixture()

	created, err := svc.CreateSection(context.Background(), validSection(), nil)
	require.NoError(t, err)

	store.statuses[created.ID] = []repositories.MaterialStatus{
		{ID: 100, Status: models.StatusClosed},
	}

	created.Status = models.StatusOpen
	_, outOfSync, err := svc.UpdateSection(context.Background(), created)

	require.NoError(t, err)
	// An open parent places no constraint on its children.
	assert.Empty(t, outOfSync)
}

func TestUpdateSection_DateOrderRejected(t *testing.T) {
	svc, store := sectionFixture()

	created, err := svc.CreateSection(context.Background(), validSection(), nil)
	require.NoError(t, err)

	created.CreationDate = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	created.LastUpdate = created.CreationDate.Add(-time.Hour)
	_, _, err = svc.UpdateSection(context.Background(), created)

	require.Error(t, err)
	var violation *validation.Violation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, validation.KindDateOrderViolation, violation.Kind)
	// The write never reached storage.
	assert.True(t, store.sections[created.ID].LastUpdate.IsZero())
}

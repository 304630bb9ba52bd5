package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/auth"
)

type mockUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: map[int64]*models.User{}, nextID: 1}
}

func (m *mockUserStore) Create(_ context.Context, user *models.User) (int64, error) {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	id := m.nextID
	m.nextID++
	stored := *user
	stored.ID = id
	m.users[id] = &stored
	return id, nil
}

func (m *mockUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserStore) Update(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type mockTokenIssuer struct {
	issueErr error
}

func (m *mockTokenIssuer) GenerateToken(userID int64, email string) (string, int64, error) {
	if m.issueErr != nil {
		return "", 0, m.issueErr
	}
	return "token-for-" + email, 3600, nil
}

func TestRegister_HashesPasswordAndDefaultsGender(t *testing.T) {
	store := newMockUserStore()
	svc := NewUserService(store, &mockTokenIssuer{})

	created, err := svc.Register(context.Background(), &models.User{
		Email:     "anna@example.com",
		FirstName: "Anna",
		LastName:  "Smirnova",
	}, "correct horse battery")

	require.NoError(t, err)
	assert.Equal(t, models.GenderOther, created.Gender)
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)
	assert.True(t, auth.CheckPassword(created.PasswordHash, "correct horse battery"))
}

func TestRegister_ShortPasswordRejected(t *testing.T) {
	svc := NewUserService(newMockUserStore(), &mockTokenIssuer{})

	_, err := svc.Register(context.Background(), &models.User{Email: "anna@example.com"}, "short")

	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newMockUserStore()
	svc := NewUserService(store, &mockTokenIssuer{})

	_, err := svc.Register(context.Background(), &models.User{Email: "anna@example.com"}, "long enough password")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &models.User{Email: "anna@example.com"}, "long enough password")
	assert.True(t, errors.Is(err, apperrors.ErrEmailAlreadyExists))
}

func TestLogin_Succeeds(t *testing.T) {
	store := newMockUserStore()
	svc := NewUserService(store, &mockTokenIssuer{})

	_, err := svc.Register(context.Background(), &models.User{Email: "anna@example.com"}, "long enough password")
	require.NoError(t, err)

	user, token, expiresIn, err := svc.Login(context.Background(), "anna@example.com", "long enough password")

	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", user.Email)
	assert.Equal(t, "token-for-anna@example.com", token)
	assert.Equal(t, int64(3600), expiresIn)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newMockUserStore()
	svc := NewUserService(store, &mockTokenIssuer{})

	_, err := svc.Register(context.Background(), &models.User{Email: "anna@example.com"}, "long enough password")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "anna@example.com", "not the password")

	assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestLogin_UnknownEmailGetsSameError(t *testing.T) {
	svc := NewUserService(newMockUserStore(), &mockTokenIssuer{})

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever password")

	assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestUpdateUser_InvalidGenderRejected(t *testing.T) {
	store := newMockUserStore()
	svc := NewUserService(store, &mockTokenIssuer{})

	created, err := svc.Register(context.Background(), &models.User{Email: "anna@example.com"}, "long enough password")
	require.NoError(t, err)

	created.Gender = "UNKNOWN"
	_, err = svc.UpdateUser(context.Background(), created)

	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

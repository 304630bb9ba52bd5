package repositories

import (
	"github.com/avolkov/lms-backend/internal/db"
)

// Repositories holds all the repository instances.
type Repositories struct {
	UserRepository     *UserRepository
	MediaRepository    *MediaRepository
	SectionRepository  *SectionRepository
	MaterialRepository *MaterialRepository
	TestRepository     *TestRepository
	PaymentRepository  *PaymentRepository
}

// NewRepositories initializes all repositories.
func NewRepositories(database *db.PostgresDB) *Repositories {
	pool := database.Pool
	return &Repositories{
		UserRepository:     NewUserRepository(pool),
		MediaRepository:    NewMediaRepository(pool),
		SectionRepository:  NewSectionRepository(pool),
		MaterialRepository: NewMaterialRepository(pool),
		TestRepository:     NewTestRepository(database),
		PaymentRepository:  NewPaymentRepository(database),
	}
}

// Package seed creates a small demo catalog on first startup so a fresh
// install has something to browse.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/avolkov/lms-backend/internal/app/models"
	appRepos "github.com/avolkov/lms-backend/internal/app/repositories"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/auth"
)

// CreateDefaultData seeds a demo user and a starter catalog. It is a no-op
// when sections already exist.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	sectionRepo := appRepos.NewSectionRepository(dbPool)
	materialRepo := appRepos.NewMaterialRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")

	count, err := sectionRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count sections: %w", err)
	}
	if count > 0 {
		lgr.Debug().Int64("sections", count).Msg("Catalog already populated, skipping seed")
		return nil
	}

	var finalErr error

	if err := seedDemoUser(ctx, userRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	sections := []struct {
		section   *models.Section
		materials []*models.Material
	}{
		{
			section: &models.Section{
				Name:          "Go Basics",
				Description:   "Syntax, types and tooling for newcomers",
				Status:        models.StatusOpen,
				BasePrice:     decimal.NewFromInt(1500),
				PriceCurrency: "RUB",
			},
			materials: []*models.Material{
				{Name: "Hello, Go", Text: "Installing the toolchain and writing the first program", Status: models.StatusOpen},
				{Name: "Types and Structs", Text: "Value semantics, methods and embedding", Status: models.StatusOpen},
			},
		},
		{
			section: &models.Section{
				Name:          "Concurrency Patterns",
				Description:   "Goroutines, channels and the patterns built on them",
				Status:        models.StatusOpen,
				BasePrice:     decimal.NewFromInt(2400),
				PriceCurrency: "RUB",
			},
			materials: []*models.Material{
				{Name: "Goroutines and Channels", Text: "The building blocks", Status: models.StatusOpen},
			},
		},
	}

	for _, entry := range sections {
		sectionID, err := sectionRepo.Create(ctx, entry.section)
		if err != nil {
			lgr.Error().Err(err).Str("section", entry.section.Name).Msg("Failed to seed section")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Int64("sectionId", sectionID).Str("name", entry.section.Name).Msg("Seeded section")

		for _, material := range entry.materials {
			material.SectionID = &sectionID
			if _, err := materialRepo.Create(ctx, material); err != nil {
				lgr.Error().Err(err).Str("material", material.Name).Msg("Failed to seed material")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	return finalErr
}

func seedDemoUser(ctx context.Context, userRepo *appRepos.UserRepository, lgr zerolog.Logger) error {
	const demoEmail = "demo@lms.app"

	if _, err := userRepo.GetByEmail(ctx, demoEmail); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("failed to look up demo user: %w", err)
	}

	hash, err := auth.HashPassword("demo-password")
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	user := &models.User{
		Email:        demoEmail,
		PasswordHash: hash,
		FirstName:    "Demo",
		LastName:     "User",
		Gender:       models.GenderOther,
	}
	if _, err := userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	lgr.Info().Str("email", demoEmail).Msg("Seeded demo user")
	return nil
}

package auth

import (
	"context"
	"fmt"

	"github.com/foundlyhq/foundly-backend/internal/users"
	"github.com/foundlyhq/foundly-backend/pkg/config"
	"github.com/foundlyhq/foundly-backend/pkg/db"
	"github.com/foundlyhq/foundly-backend/pkg/enums"
	"github.com/foundlyhq/foundly-backend/pkg/logger"
	"github.com/foundlyhq/foundly-backend/pkg/security"
	"gorm.io/gorm"
)

type sampleUser struct {
	Name     string
	Email    string
	CampusID string
	Role     enums.UserRole
	Password string
}

var sampleUsers = []sampleUser{
	{Name: "Admin", Email: "admin@campus.edu", CampusID: "A001", Role: enums.UserRoleAdmin, Password: "admin123"},
	{Name: "John Doe", Email: "john.doe@campus.edu", CampusID: "S001", Role: enums.UserRoleStudent, Password: "student123"},
	{Name: "Jane Smith", Email: "jane.smith@campus.edu", CampusID: "T001", Role: enums.UserRoleStaff, Password: "staff123"},
}

// MaybeSeedSampleUsers creates the demo accounts when the feature flag is on,
// the app runs in dev mode, and no users exist yet.
func MaybeSeedSampleUsers(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.SeedSampleUsers {
		return nil
	}

	return client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := users.NewRepository(tx)

		count, err := repo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, sample := range sampleUsers {
			hash, err := security.HashPassword(sample.Password, cfg.Password)
			if err != nil {
				return fmt.Errorf("hash sample password: %w", err)
			}
			if _, err := repo.Create(ctx, users.CreateUserDTO{
				Name:         sample.Name,
				Email:        sample.Email,
				CampusID:     sample.CampusID,
				Role:         sample.Role,
				PasswordHash: hash,
			}); err != nil {
				return fmt.Errorf("seed user %s: %w", sample.CampusID, err)
			}
			logg.Info(logg.WithField(ctx, "campus_id", sample.CampusID), "seeded sample user")
		}
		return nil
	})
}

package users

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/foundlyhq/foundly-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  campus_id TEXT NOT NULL,
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (LOWER(email));`).Error)
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS users_campus_id_key ON users (LOWER(campus_id));`).Error)
	return db
}

func uniqueSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	suffix := uniqueSuffix()
	created, err := repo.Create(ctx, CreateUserDTO{
		Name:         "John Doe",
		Email:        fmt.Sprintf("john+%s@campus.edu", suffix),
		CampusID:     "S-" + suffix,
		Role:         enums.UserRoleStudent,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, byID.Email)

	// Lookups are case-insensitive.
	byEmail, err := repo.FindByEmail(ctx, strings.ToUpper(created.Email))
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byCampus, err := repo.FindByCampusID(ctx, strings.ToLower(created.CampusID))
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCampus.ID)
}

func TestRepositoryFindMissing(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "nobody@campus.edu")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByCampusID(ctx, "Z999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDuplicateEmailRejected(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	suffix := uniqueSuffix()
	dto := CreateUserDTO{
		Name:         "Jane Smith",
		Email:        fmt.Sprintf("jane+%s@campus.edu", suffix),
		CampusID:     "T-" + suffix,
		Role:         enums.UserRoleStaff,
		PasswordHash: "hash",
	}
	_, err := repo.Create(ctx, dto)
	require.NoError(t, err)

	// Same email with different casing still violates the unique index.
	dto.Email = strings.ToUpper(dto.Email)
	dto.CampusID = "T2-" + suffix
	_, err = repo.Create(ctx, dto)
	require.Error(t, err)
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	suffix := uniqueSuffix()
	created, err := repo.Create(ctx, CreateUserDTO{
		Name:         "Admin",
		Email:        fmt.Sprintf("admin+%s@campus.edu", suffix),
		CampusID:     "A-" + suffix,
		Role:         enums.UserRoleAdmin,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.Nil(t, created.LastLoginAt)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(ctx, created.ID, at))

	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.WithinDuration(t, at, *reloaded.LastLoginAt, time.Second)
}

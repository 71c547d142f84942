package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/localnerve/covematch/internal/database"
	"github.com/localnerve/covematch/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB creates a migrated in-memory SQLite database for testing. A single
// connection keeps every query on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CreateUser inserts a user row and returns its id
func CreateUser(t *testing.T, db *gorm.DB) string {
	t.Helper()

	user := models.User{ID: uuid.New().String()}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user.ID
}

// Users inserts n users and returns their ids
func Users(t *testing.T, db *gorm.DB, n int) []string {
	t.Helper()

	ids := make([]string, n)
	for i := range ids {
		ids[i] = CreateUser(t, db)
	}
	return ids
}

package services

import (
	"context"

	"github.com/localnerve/covematch/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserDirectory answers whether a user id is known
type UserDirectory interface {
	Exists(tx *gorm.DB, userID string) (bool, error)
}

// GormUserDirectory reads the users table
type GormUserDirectory struct{}

func (GormUserDirectory) Exists(tx *gorm.DB, userID string) (bool, error) {
	var count int64
	if err := quiet(tx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SyncUser records an authenticated caller in the users table, so matches
// can be formed against them.
func (l *Lifecycle) SyncUser(ctx context.Context, caller Caller, email string) error {
	user := models.User{ID: caller.ID, IsAdmin: caller.IsAdmin}
	if email != "" {
		user.Email = &email
	}

	err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "is_admin", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return l.fail("user.sync", err)
	}
	return nil
}

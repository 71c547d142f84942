package services

import (
	"github.com/google/uuid"
	"github.com/localnerve/covematch/internal/models"
	"gorm.io/gorm"
)

// ThreadDirectory finds or opens the messaging thread for an accepted pair.
// Implementations run inside the caller's transaction.
type ThreadDirectory interface {
	FindOrCreatePairThread(tx *gorm.DB, userA, userB string) (string, error)
}

// GormThreadDirectory keeps threads in the threads and thread_participants tables
type GormThreadDirectory struct{}

// FindOrCreatePairThread reuses the oldest thread whose only participants are
// userA and userB, or creates one.
func (GormThreadDirectory) FindOrCreatePairThread(tx *gorm.DB, userA, userB string) (string, error) {
	pairOnly := quiet(tx).Model(&models.ThreadParticipant{}).
		Select("thread_id").
		Group("thread_id").
		Having("COUNT(*) = 2")

	var threadIDs []string
	if err := quiet(tx).Model(&models.Thread{}).
		Where("id IN (?)", pairOnly).
		Where("id IN (?)", quiet(tx).Model(&models.ThreadParticipant{}).Select("thread_id").Where("user_id = ?", userA)).
		Where("id IN (?)", quiet(tx).Model(&models.ThreadParticipant{}).Select("thread_id").Where("user_id = ?", userB)).
		Order("created_at ASC").
		Limit(1).
		Pluck("id", &threadIDs).Error; err != nil {
		return "", err
	}
	if len(threadIDs) > 0 {
		return threadIDs[0], nil
	}

	thread := models.Thread{
		ID: uuid.New().String(),
		Participants: []models.ThreadParticipant{
			{UserID: userA},
			{UserID: userB},
		},
	}
	if err := tx.Create(&thread).Error; err != nil {
		return "", err
	}
	return thread.ID, nil
}

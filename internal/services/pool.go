package services

import (
	"github.com/localnerve/covematch/internal/metrics"
	"github.com/localnerve/covematch/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// consume removes the pool entry for intentionID. Missing entries are a no-op.
func (l *Lifecycle) consume(tx *gorm.DB, intentionID string) error {
	result := tx.Where("intention_id = ?", intentionID).Delete(&models.PoolEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		metrics.PoolConsumed()
		l.log.WithField("intention_id", intentionID).Debug("Pool entry consumed")
	}
	return nil
}

// release puts intentionID back in the pool at tier 0, but only while the
// intention is active and no match outside exclude still holds it as a
// member. An existing entry is reset. Returns nil, nil when nothing was
// released.
func (l *Lifecycle) release(tx *gorm.DB, intentionID string, exclude ...string) (*models.PoolEntry, error) {
	var intention models.Intention
	err := quiet(tx).Select("id", "status").Where("id = ?", intentionID).First(&intention).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	if intention.Status != models.IntentionActive {
		return nil, nil
	}

	// a declined match keeps its member rows, and they pin the intention
	bound := quiet(tx).Model(&models.MatchMember{}).Where("intention_id = ?", intentionID)
	if len(exclude) > 0 {
		bound = bound.Where("match_id NOT IN ?", exclude)
	}
	var memberships int64
	if err := bound.Count(&memberships).Error; err != nil {
		return nil, err
	}
	if memberships > 0 {
		l.log.WithField("intention_id", intentionID).Debug("Pool release skipped, intention still a match member")
		return nil, nil
	}

	entry := &models.PoolEntry{
		IntentionID: intentionID,
		Tier:        0,
		JoinedAt:    l.clock(),
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "intention_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tier", "joined_at"}),
	}).Create(entry).Error; err != nil {
		return nil, err
	}

	metrics.PoolReleased()
	l.log.WithField("intention_id", intentionID).Debug("Pool entry released")
	return entry, nil
}

// releaseAll releases the intention of every member of the match being
// dissolved, skipping those no longer active or held by another match.
func (l *Lifecycle) releaseAll(tx *gorm.DB, members []models.MatchMember) error {
	for _, member := range members {
		if _, err := l.release(tx, member.IntentionID, member.MatchID); err != nil {
			return err
		}
	}
	return nil
}

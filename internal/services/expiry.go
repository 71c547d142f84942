package services

import (
	"context"

	"github.com/localnerve/covematch/internal/metrics"
	"github.com/localnerve/covematch/internal/models"
	"gorm.io/gorm"
)

// ExpireIntentions moves every active intention past its validUntil to
// expired and takes it out of the pool. Returns how many expired.
func (l *Lifecycle) ExpireIntentions(ctx context.Context) (int64, error) {
	const op = "intention.expire"
	now := l.clock()

	var expired int64
	err := l.transaction(ctx, op, func(tx *gorm.DB) error {
		var ids []string
		if err := quiet(tx).Model(&models.Intention{}).
			Where("status = ? AND valid_until <= ?", models.IntentionActive, now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		for _, id := range ids {
			if err := l.consume(tx, id); err != nil {
				return err
			}
		}

		result := tx.Model(&models.Intention{}).
			Where("id IN ? AND status = ?", ids, models.IntentionActive).
			Update("status", models.IntentionExpired)
		if result.Error != nil {
			return result.Error
		}
		expired = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		metrics.IntentionsExpired(expired)
		l.log.WithField("count", expired).Info("Expired intentions")
	}
	return expired, nil
}

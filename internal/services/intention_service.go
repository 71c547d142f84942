package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/localnerve/covematch/internal/metrics"
	"github.com/localnerve/covematch/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Chips are the structured preferences a user submits with an intention.
// They are stored opaquely as the intention's parsed JSON.
type Chips struct {
	IntentionText string   `json:"intentionText" validate:"required,max=500"`
	Activities    []string `json:"activities" validate:"required,min=1,max=20,dive,required,max=100"`
	Availability  []string `json:"availability,omitempty" validate:"max=20,dive,required,max=100"`
	Location      string   `json:"location,omitempty" validate:"max=200"`
}

// IntentionResult is returned by CreateIntention
type IntentionResult struct {
	Intention    models.Intention `json:"intention"`
	PoolEntry    models.PoolEntry `json:"poolEntry"`
	NextBatchETA time.Time        `json:"nextBatchEta"`
}

// StatusResult is the caller's current standing
type StatusResult struct {
	HasIntention  bool              `json:"hasIntention"`
	Intention     *models.Intention `json:"intention,omitempty"`
	PoolEntry     *models.PoolEntry `json:"poolEntry,omitempty"`
	HasMatch      bool              `json:"hasMatch"`
	ActiveMatchID *string           `json:"activeMatchId,omitempty"`
}

func normalizeChips(chips Chips) Chips {
	chips.IntentionText = strings.TrimSpace(chips.IntentionText)
	chips.Location = strings.TrimSpace(chips.Location)
	for i := range chips.Activities {
		chips.Activities[i] = strings.TrimSpace(chips.Activities[i])
	}
	for i := range chips.Availability {
		chips.Availability[i] = strings.TrimSpace(chips.Availability[i])
	}
	return chips
}

// CreateIntention opens the user's single active intention and enters it in
// the pool at tier 0.
func (l *Lifecycle) CreateIntention(ctx context.Context, userID string, chips Chips) (*IntentionResult, error) {
	const op = "intention.create"

	chips = normalizeChips(chips)
	if err := validate.Struct(chips); err != nil {
		return nil, l.fail(op, &Error{Kind: KindBadRequest, Code: "intention.invalidChips", Message: "invalid intention chips", Err: err})
	}
	parsed, err := models.NewJSON(chips)
	if err != nil {
		return nil, l.fail(op, err)
	}

	now := l.clock()
	result := &IntentionResult{NextBatchETA: l.NextBatchETA(now)}

	err = l.transaction(ctx, op, func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.Intention{}).
			Where("user_id = ? AND status = ?", userID, models.IntentionActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return conflict("intention.conflict", "user already has an active intention")
		}

		result.Intention = models.Intention{
			ID:         uuid.New().String(),
			UserID:     userID,
			ParsedJSON: parsed,
			Status:     models.IntentionActive,
			CreatedAt:  now,
			ValidUntil: now.Add(l.intentionTTL),
		}
		if err := tx.Omit("PoolEntry").Create(&result.Intention).Error; err != nil {
			return err
		}

		entry, err := l.release(tx, result.Intention.ID)
		if err != nil {
			return err
		}
		result.PoolEntry = *entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Transition("intention", "created")
	l.log.WithField("user_id", userID).
		WithField("intention_id", result.Intention.ID).
		Info("Intention created")

	return result, nil
}

// GetStatus reports the user's active intention, its pool entry and whether
// the user sits in an active match. It never mutates.
func (l *Lifecycle) GetStatus(ctx context.Context, userID string) (*StatusResult, error) {
	const op = "intention.status"
	db := quiet(l.db.WithContext(ctx))
	status := &StatusResult{}

	var intentions []models.Intention
	if err := db.Clauses(hints.Comment("select", "intention_status")).
		Where("user_id = ? AND status = ?", userID, models.IntentionActive).
		Order("created_at DESC").
		Limit(1).
		Find(&intentions).Error; err != nil {
		return nil, l.fail(op, err)
	}

	if len(intentions) > 0 {
		status.HasIntention = true
		status.Intention = &intentions[0]

		var entries []models.PoolEntry
		if err := db.Where("intention_id = ?", intentions[0].ID).Limit(1).Find(&entries).Error; err != nil {
			return nil, l.fail(op, err)
		}
		if len(entries) > 0 {
			status.PoolEntry = &entries[0]
		}
	}

	var matchIDs []string
	if err := db.Clauses(hints.Comment("select", "intention_status")).
		Model(&models.MatchMember{}).
		Joins("JOIN matches ON matches.id = match_members.match_id").
		Where("match_members.user_id = ? AND matches.status = ?", userID, models.MatchActive).
		Order("matches.created_at DESC").
		Limit(1).
		Pluck("match_members.match_id", &matchIDs).Error; err != nil {
		return nil, l.fail(op, err)
	}
	if len(matchIDs) > 0 {
		status.HasMatch = true
		status.ActiveMatchID = &matchIDs[0]
	}

	return status, nil
}

// DeleteIntention removes the caller's intention and its pool entry. Any
// match the intention belongs to is left for administrators to clean up.
func (l *Lifecycle) DeleteIntention(ctx context.Context, userID, intentionID string) error {
	const op = "intention.delete"

	err := l.transaction(ctx, op, func(tx *gorm.DB) error {
		var intention models.Intention
		if err := quiet(tx).Where("id = ?", intentionID).First(&intention).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound("intention.notFound", "intention %s not found", intentionID)
			}
			return err
		}
		if intention.UserID != userID {
			return forbidden("intention.forbidden", "intention belongs to another user")
		}

		if err := l.consume(tx, intention.ID); err != nil {
			return err
		}
		return tx.Delete(&intention).Error
	})
	if err != nil {
		return err
	}

	metrics.Transition("intention", "deleted")
	l.log.WithField("user_id", userID).
		WithField("intention_id", intentionID).
		Info("Intention deleted")
	return nil
}

// NextBatchETA is the next scheduled batch run strictly after now. Advisory only.
func (l *Lifecycle) NextBatchETA(now time.Time) time.Time {
	return l.batch.Next(now.UTC()).UTC()
}

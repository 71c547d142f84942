// match_service.go
//
// Intention, pool and match lifecycle service for the coves social app
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of covematch.
// covematch is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// covematch is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with covematch.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/covematch/internal/metrics"
	"github.com/localnerve/covematch/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

const (
	maxMatchedOn       = 20
	maxMatchedOnLength = 100
)

// CreateMatchInput is the request to form a match, from an administrator or
// the batch matcher.
type CreateMatchInput struct {
	UserIDs  []string
	TierUsed *int
	Score    *float64
}

// activeIntentionFor returns the user's active intention or a BadRequest.
// The row stays locked so concurrent binders of the same intention queue.
func activeIntentionFor(tx *gorm.DB, userID string) (*models.Intention, error) {
	var intentions []models.Intention
	if err := quiet(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ?", userID, models.IntentionActive).
		Order("created_at DESC").
		Limit(1).
		Find(&intentions).Error; err != nil {
		return nil, err
	}
	if len(intentions) == 0 {
		return nil, badRequest("intention.missingActive", "user %s has no active intention", userID)
	}
	return &intentions[0], nil
}

// ensureUnbound rejects an intention already pinned to an active match other
// than the excluded ones.
func ensureUnbound(tx *gorm.DB, intentionID string, exclude ...string) error {
	query := quiet(tx).Model(&models.MatchMember{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Joins("JOIN matches ON matches.id = match_members.match_id").
		Where("match_members.intention_id = ? AND matches.status = ?", intentionID, models.MatchActive)
	if len(exclude) > 0 {
		query = query.Where("match_members.match_id NOT IN ?", exclude)
	}

	// a locking read sees bindings committed after this transaction began
	var bound []string
	if err := query.Pluck("match_members.match_id", &bound).Error; err != nil {
		return err
	}
	if len(bound) > 0 {
		return conflict("intention.alreadyMatched", "intention %s is already in an active match", intentionID)
	}
	return nil
}

func (l *Lifecycle) requireUser(tx *gorm.DB, userID string) error {
	exists, err := l.users.Exists(tx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return notFound("user.notFound", "user %s not found", userID)
	}
	return nil
}

func validateCreateMatch(input CreateMatchInput) error {
	if len(input.UserIDs) < 2 {
		return badRequest("match.tooFewMembers", "a match needs at least 2 users")
	}
	seen := make(map[string]bool, len(input.UserIDs))
	for _, id := range input.UserIDs {
		if strings.TrimSpace(id) == "" {
			return badRequest("match.invalidUser", "user ids must not be empty")
		}
		if seen[id] {
			return badRequest("match.duplicateUser", "user %s listed more than once", id)
		}
		seen[id] = true
	}
	if input.TierUsed != nil && *input.TierUsed < 0 {
		return badRequest("match.invalidTier", "tierUsed must not be negative")
	}
	return nil
}

// CreateMatch binds each user's active intention to a new active match and
// consumes their pool entries.
func (l *Lifecycle) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	const op = "match.create"

	if err := validateCreateMatch(input); err != nil {
		return nil, l.fail(op, err)
	}

	now := l.clock()
	match := &models.Match{
		ID:        uuid.New().String(),
		GroupSize: len(input.UserIDs),
		Score:     input.Score,
		TierUsed:  input.TierUsed,
		Status:    models.MatchActive,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(l.matchTTL),
	}

	err := l.transaction(ctx, op, func(tx *gorm.DB) error {
		for _, userID := range input.UserIDs {
			if err := l.requireUser(tx, userID); err != nil {
				return err
			}
		}

		members := make([]models.MatchMember, 0, len(input.UserIDs))
		for _, userID := range input.UserIDs {
			intention, err := activeIntentionFor(tx, userID)
			if err != nil {
				return err
			}
			if err := ensureUnbound(tx, intention.ID); err != nil {
				return err
			}
			members = append(members, models.MatchMember{
				MatchID:     match.ID,
				UserID:      userID,
				IntentionID: intention.ID,
				CreatedAt:   now,
			})
		}

		if err := tx.Omit("Members", "Feedback").Create(match).Error; err != nil {
			return err
		}
		if err := tx.Create(&members).Error; err != nil {
			return err
		}
		for _, member := range members {
			if err := l.consume(tx, member.IntentionID); err != nil {
				return err
			}
		}
		match.Members = members
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Transition("match", "created")
	l.log.WithFields(logrus.Fields{
		"match_id":   match.ID,
		"group_size": match.GroupSize,
	}).Info("Match created")

	return match, nil
}

// memberMatch locks matchID and checks the user belongs to it.
func memberMatch(tx *gorm.DB, userID, matchID string) (*models.Match, error) {
	match, err := lockMatch(tx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasMember(userID) {
		return nil, forbidden("match.forbidden", "not a member of match %s", matchID)
	}
	if match.Status != models.MatchActive {
		return nil, conflict("match.alreadyHandled", "match %s is already %s", matchID, match.Status)
	}
	return match, nil
}

// AcceptMatch accepts a pair match: it links a thread between the two
// members and marks both intentions matched. Returns the thread id.
func (l *Lifecycle) AcceptMatch(ctx context.Context, userID, matchID string) (string, error) {
	const op = "match.accept"
	var threadID string

	err := l.transaction(ctx, op, func(tx *gorm.DB) error {
		match, err := memberMatch(tx, userID, matchID)
		if err != nil {
			return err
		}
		if match.GroupSize != 2 || len(match.Members) != 2 {
			return badRequest("match.groupAccept", "only pair matches can be accepted")
		}

		threadID, err = l.threads.FindOrCreatePairThread(tx, match.Members[0].UserID, match.Members[1].UserID)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Match{}).Where("id = ?", match.ID).Updates(map[string]interface{}{
			"status":     models.MatchAccepted,
			"thread_id":  threadID,
			"updated_at": l.clock(),
		}).Error; err != nil {
			return err
		}

		intentionIDs := []string{match.Members[0].IntentionID, match.Members[1].IntentionID}
		return tx.Model(&models.Intention{}).
			Where("id IN ?", intentionIDs).
			Update("status", models.IntentionMatched).Error
	})
	if err != nil {
		return "", err
	}

	metrics.Transition("match", "accepted")
	l.log.WithFields(logrus.Fields{
		"match_id":  matchID,
		"user_id":   userID,
		"thread_id": threadID,
	}).Info("Match accepted")

	return threadID, nil
}

// DeclineMatch declines an active match. Member intentions stay active and
// are not returned to the pool.
func (l *Lifecycle) DeclineMatch(ctx context.Context, userID, matchID string) error {
	const op = "match.decline"

	err := l.transaction(ctx, op, func(tx *gorm.DB) error {
		match, err := memberMatch(tx, userID, matchID)
		if err != nil {
			return err
		}
		return tx.Model(&models.Match{}).Where("id = ?", match.ID).Updates(map[string]interface{}{
			"status":     models.MatchDeclined,
			"updated_at": l.clock(),
		}).Error
	})
	if err != nil {
		return err
	}

	metrics.Transition("match", "declined")
	l.log.WithFields(logrus.Fields{
		"match_id": matchID,
		"user_id":  userID,
	}).Info("Match declined")
	return nil
}

func normalizeMatchedOn(matchedOn []string) ([]string, error) {
	if len(matchedOn) == 0 || len(matchedOn) > maxMatchedOn {
		return nil, badRequest("feedback.invalid", "matchedOn needs between 1 and %d entries", maxMatchedOn)
	}
	out := make([]string, 0, len(matchedOn))
	for _, reason := range matchedOn {
		reason = strings.TrimSpace(reason)
		if reason == "" || len(reason) > maxMatchedOnLength {
			return nil, badRequest("feedback.invalid", "matchedOn entries must be 1 to %d characters", maxMatchedOnLength)
		}
		out = append(out, reason)
	}
	return out, nil
}

// SubmitFeedback appends a member's feedback on a match. Repeat submissions
// are kept.
func (l *Lifecycle) SubmitFeedback(ctx context.Context, userID, matchID string, matchedOn []string, wasAccurate *bool) (*models.MatchFeedback, error) {
	const op = "match.feedback"

	reasons, err := normalizeMatchedOn(matchedOn)
	if err != nil {
		return nil, l.fail(op, err)
	}

	feedback := &models.MatchFeedback{
		ID:          uuid.New().String(),
		MatchID:     matchID,
		UserID:      userID,
		MatchedOn:   datatypes.JSONSlice[string](reasons),
		WasAccurate: wasAccurate,
		CreatedAt:   l.clock(),
	}

	err = l.transaction(ctx, op, func(tx *gorm.DB) error {
		var match models.Match
		if err := quiet(tx).Preload("Members").Where("id = ?", matchID).First(&match).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound("match.notFound", "match %s not found", matchID)
			}
			return err
		}
		if !match.HasMember(userID) {
			return forbidden("match.forbidden", "not a member of match %s", matchID)
		}
		return tx.Create(feedback).Error
	})
	if err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"match_id": matchID,
		"user_id":  userID,
	}).Info("Match feedback recorded")
	return feedback, nil
}

// GetMatch returns a match with its members, to members and administrators.
func (l *Lifecycle) GetMatch(ctx context.Context, caller Caller, matchID string) (*models.Match, error) {
	const op = "match.get"

	var match models.Match
	if err := quiet(l.db.WithContext(ctx)).
		Clauses(hints.Comment("select", "match_get")).
		Preload("Members").
		Where("id = ?", matchID).
		First(&match).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, l.fail(op, notFound("match.notFound", "match %s not found", matchID))
		}
		return nil, l.fail(op, err)
	}
	if !caller.IsAdmin && !match.HasMember(caller.ID) {
		return nil, l.fail(op, forbidden("match.forbidden", "not a member of match %s", matchID))
	}
	return &match, nil
}

// ListMatches returns every match the user belongs to, newest first.
func (l *Lifecycle) ListMatches(ctx context.Context, userID string) ([]models.Match, error) {
	const op = "match.list"
	db := quiet(l.db.WithContext(ctx))

	memberOf := db.Model(&models.MatchMember{}).Select("match_id").Where("user_id = ?", userID)

	matches := []models.Match{}
	if err := db.Clauses(hints.Comment("select", "match_list")).
		Preload("Members").
		Where("id IN (?)", memberOf).
		Order("created_at DESC").
		Find(&matches).Error; err != nil {
		return nil, l.fail(op, err)
	}
	return matches, nil
}

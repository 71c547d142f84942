// match_editor.go
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

	"github.com/localnerve/covematch/internal/metrics"
	"github.com/localnerve/covematch/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Administrative match corrections. Every operation requires an admin caller
// and runs in a single transaction holding row locks on the matches it edits.

func adjustGroupSize(tx *gorm.DB, matchID string, delta int) error {
	return tx.Model(&models.Match{}).
		Where("id = ?", matchID).
		UpdateColumn("group_size", gorm.Expr("group_size + ?", delta)).Error
}

func deleteMatchRows(tx *gorm.DB, matchID string) error {
	if err := tx.Where("match_id = ?", matchID).Delete(&models.MatchFeedback{}).Error; err != nil {
		return err
	}
	if err := tx.Where("match_id = ?", matchID).Delete(&models.MatchMember{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", matchID).Delete(&models.Match{}).Error
}

func othersThan(members []models.MatchMember, userID string) []models.MatchMember {
	others := make([]models.MatchMember, 0, len(members))
	for _, member := range members {
		if member.UserID != userID {
			others = append(others, member)
		}
	}
	return others
}

// detach takes userID out of match. A pair match cannot survive losing a
// member, so it is deleted and the remaining member goes back to the pool.
// Reports whether the match was deleted.
func (l *Lifecycle) detach(tx *gorm.DB, match *models.Match, userID string) (bool, error) {
	if match.GroupSize <= 2 {
		if err := deleteMatchRows(tx, match.ID); err != nil {
			return false, err
		}
		return true, l.releaseAll(tx, othersThan(match.Members, userID))
	}

	if err := tx.Where("match_id = ? AND user_id = ?", match.ID, userID).
		Delete(&models.MatchMember{}).Error; err != nil {
		return false, err
	}
	return false, adjustGroupSize(tx, match.ID, -1)
}

// attach binds intentionID to match for userID and takes it out of the pool.
func (l *Lifecycle) attach(tx *gorm.DB, match *models.Match, userID, intentionID string) error {
	member := models.MatchMember{
		MatchID:     match.ID,
		UserID:      userID,
		IntentionID: intentionID,
		CreatedAt:   l.clock(),
	}
	if err := tx.Create(&member).Error; err != nil {
		return err
	}
	if err := adjustGroupSize(tx, match.ID, 1); err != nil {
		return err
	}
	return l.consume(tx, intentionID)
}

// AddMember adds userID, bound to their active intention, to an existing match.
func (l *Lifecycle) AddMember(ctx context.Context, caller Caller, matchID, userID string) error {
	const op = "match.addMember"
	if err := requireAdmin(caller); err != nil {
		return l.fail(op, err)
	}

	err := l.transaction(ctx, op, func(tx *gorm.DB) error {
		match, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		if err := l.requireUser(tx, userID); err != nil {
			return err
		}
		if match.HasMember(userID) {
			return badRequest("match.alreadyMember", "user %s is already in match %s", userID, matchID)
		}
		intention, err := activeIntentionFor(tx, userID)
		if err != nil {
			return err
		}
		if err := ensureUnbound(tx, intention.ID); err != nil {
			return err
		}
		return l.attach(tx, match, userID, intention.ID)
	})
	if err != nil {
		return err
	}

	metrics.Transition("member", "added")
	l.log.WithFields(logrus.Fields{
		"match_id": matchID,
		"user_id":  userID,
		"admin_id": caller.ID,
	}).Info("Match member added")
	return nil
}

// RemoveMember takes userID out of a match. Removing from a pair deletes the
// match and releases only the remaining member; otherwise the removed member
// is released when returnToPool is set.
func (l *Lifecycle) RemoveMember(ctx context.Context, caller Caller, matchID, userID string, returnToPool bool) error {
	const op = "match.removeMember"
	if err := requireAdmin(caller); err != nil {
		return l.fail(op, err)
	}

	var deleted bool
	err := l.transaction(ctx, op, func(tx *gorm.DB) error {
		match, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		member, ok := match.Member(userID)
		if !ok {
			return notFound("match.memberNotFound", "user %s is not in match %s", userID, matchID)
		}

		deleted, err = l.detach(tx, match, userID)
		if err != nil {
			return err
		}
		if !deleted && returnToPool {
			_, err = l.release(tx, member.IntentionID, matchID)
		}
		return err
	})
	if err != nil {
		return err
	}

	metrics.Transition("member", "removed")
	if deleted {
		metrics.Transition("match", "dissolved")
	}
	l.log.WithFields(logrus.Fields{
		"match_id":      matchID,
		"user_id":       userID,
		"admin_id":      caller.ID,
		"match_deleted": deleted,
	}).Info("Match member removed")
	return nil
}

// MoveMember moves userID, with the intention bound in the source match, from
// one match to another.
func (l *Lifecycle) MoveMember(ctx context.Context, caller Caller, userID, fromMatchID, toMatchID string) error {
	const op = "match.moveMember"
	if err := requireAdmin(caller); err != nil {
		return l.fail(op, err)
	}
	if fromMatchID == toMatchID {
		return l.fail(op, badRequest("match.sameMatch", "source and target match are the same"))
	}

	var deleted bool
	err := l.transaction(ctx, op, func(tx *gorm.DB) error {
		// lock in id order so two opposite moves cannot deadlock
		first, second := fromMatchID, toMatchID
		if second < first {
			first, second = second, first
		}
		locked := make(map[string]*models.Match, 2)
		for _, id := range []string{first, second} {
			match, err := lockMatch(tx, id)
			if err != nil {
				return err
			}
			locked[id] = match
		}
		from, to := locked[fromMatchID], locked[toMatchID]

		member, ok := from.Member(userID)
		if !ok {
			return notFound("match.memberNotFound", "user %s is not in match %s", userID, fromMatchID)
		}
		if to.HasMember(userID) {
			return badRequest("match.alreadyMember", "user %s is already in match %s", userID, toMatchID)
		}
		if err := ensureUnbound(tx, member.IntentionID, fromMatchID, toMatchID); err != nil {
			return err
		}

		var err error
		if deleted, err = l.detach(tx, from, userID); err != nil {
			return err
		}
		return l.attach(tx, to, userID, member.IntentionID)
	})
	if err != nil {
		return err
	}

	metrics.Transition("member", "moved")
	if deleted {
		metrics.Transition("match", "dissolved")
	}
	l.log.WithFields(logrus.Fields{
		"from_match_id": fromMatchID,
		"to_match_id":   toMatchID,
		"user_id":       userID,
		"admin_id":      caller.ID,
		"match_deleted": deleted,
	}).Info("Match member moved")
	return nil
}

// DeleteMatch deletes a match with its members and feedback, first returning
// every still active member to the pool when returnToPool is set.
func (l *Lifecycle) DeleteMatch(ctx context.Context, caller Caller, matchID string, returnToPool bool) error {
	const op = "match.delete"
	if err := requireAdmin(caller); err != nil {
		return l.fail(op, err)
	}

	err := l.transaction(ctx, op, func(tx *gorm.DB) error {
		match, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		if returnToPool {
			if err := l.releaseAll(tx, match.Members); err != nil {
				return err
			}
		}
		return deleteMatchRows(tx, match.ID)
	})
	if err != nil {
		return err
	}

	metrics.Transition("match", "deleted")
	l.log.WithFields(logrus.Fields{
		"match_id":       matchID,
		"admin_id":       caller.ID,
		"return_to_pool": returnToPool,
	}).Info("Match deleted")
	return nil
}

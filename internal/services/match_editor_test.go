package services_test

import (
	"testing"

	"github.com/localnerve/covematch/internal/models"
	"github.com/localnerve/covematch/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	users, _ := f.pooledUsers(t, 3)
	match := f.match(t, users[0], users[1])
	member := services.Caller{ID: users[0]}

	requireKind(t, f.lifecycle.AddMember(ctx, member, match.ID, users[2]), services.KindForbidden, "admin.forbidden")
	requireKind(t, f.lifecycle.RemoveMember(ctx, member, match.ID, users[1], true), services.KindForbidden, "admin.forbidden")
	requireKind(t, f.lifecycle.MoveMember(ctx, member, users[1], match.ID, "other"), services.KindForbidden, "admin.forbidden")
	requireKind(t, f.lifecycle.DeleteMatch(ctx, member, match.ID, true), services.KindForbidden, "admin.forbidden")

	stored, ok := f.loadMatch(t, match.ID)
	require.True(t, ok)
	assert.Len(t, stored.Members, 2)
}

func TestRemoveMemberFromPairDeletesMatch(t *testing.T) {
	f := newFixture(t)
	users, intentions := f.pooledUsers(t, 2)
	match := f.match(t, users...)

	require.NoError(t, f.lifecycle.RemoveMember(ctx, admin, match.ID, users[0], true))

	_, ok := f.loadMatch(t, match.ID)
	assert.False(t, ok)

	// only the remaining member is released
	assert.False(t, f.inPool(t, intentions[0]))
	assert.True(t, f.inPool(t, intentions[1]))

	report, err := f.lifecycle.Audit(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{intentions[0]}, report.MissingPool)
	assert.Empty(t, report.PoolOnBound)
	assert.Empty(t, report.GroupSizeMismatch)
}

func TestRemoveMemberFromGroup(t *testing.T) {
	f := newFixture(t)
	users, intentions := f.pooledUsers(t, 4)

	kept := f.match(t, users[0], users[1], users[2])
	require.NoError(t, f.lifecycle.RemoveMember(ctx, admin, kept.ID, users[0], false))

	stored, ok := f.loadMatch(t, kept.ID)
	require.True(t, ok)
	assert.Equal(t, 2, stored.GroupSize)
	assert.False(t, stored.HasMember(users[0]))
	assert.False(t, f.inPool(t, intentions[0]))

	// the removed member is released only when asked
	require.NoError(t, f.lifecycle.AddMember(ctx, admin, kept.ID, users[3]))
	require.NoError(t, f.lifecycle.RemoveMember(ctx, admin, kept.ID, users[3], true))
	assert.True(t, f.inPool(t, intentions[3]))

	err := f.lifecycle.RemoveMember(ctx, admin, kept.ID, users[0], true)
	requireKind(t, err, services.KindNotFound, "match.memberNotFound")

	err = f.lifecycle.RemoveMember(ctx, admin, "missing", users[0], true)
	requireKind(t, err, services.KindNotFound, "match.notFound")

	report, err := f.lifecycle.Audit(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{intentions[0]}, report.MissingPool)
	assert.Empty(t, report.GroupSizeMismatch)
	assert.Empty(t, report.Undersized)
}

func TestRemoveMemberReturnToPoolSkipsInactive(t *testing.T) {
	f := newFixture(t)
	users, intentions := f.pooledUsers(t, 3)
	match := f.match(t, users...)

	require.NoError(t, f.db.Model(&models.Intention{}).
		Where("id = ?", intentions[0]).Update("status", models.IntentionExpired).Error)

	require.NoError(t, f.lifecycle.RemoveMember(ctx, admin, match.ID, users[0], true))
	assert.False(t, f.inPool(t, intentions[0]))
}

func TestAddMember(t *testing.T) {
	f := newFixture(t)
	users, intentions := f.pooledUsers(t, 5)
	match := f.match(t, users[0], users[1])
	other := f.match(t, users[3], users[4])

	require.NoError(t, f.lifecycle.AddMember(ctx, admin, match.ID, users[2]))

	stored, _ := f.loadMatch(t, match.ID)
	assert.Equal(t, 3, stored.GroupSize)
	member, ok := stored.Member(users[2])
	require.True(t, ok)
	assert.Equal(t, intentions[2], member.IntentionID)
	assert.False(t, f.inPool(t, intentions[2]))

	err := f.lifecycle.AddMember(ctx, admin, match.ID, users[2])
	requireKind(t, err, services.KindBadRequest, "match.alreadyMember")

	err = f.lifecycle.AddMember(ctx, admin, match.ID, users[3])
	requireKind(t, err, services.KindConflict, "intention.alreadyMatched")

	err = f.lifecycle.AddMember(ctx, admin, match.ID, "ghost")
	requireKind(t, err, services.KindNotFound, "user.notFound")

	err = f.lifecycle.AddMember(ctx, admin, "missing", users[2])
	requireKind(t, err, services.KindNotFound, "match.notFound")

	stored, _ = f.loadMatch(t, other.ID)
	assert.Equal(t, 2, stored.GroupSize)
	f.requireAuditOK(t)
}

func TestMoveMemberOutOfPair(t *testing.T) {
	f := newFixture(t)
	users, intentions := f.pooledUsers(t, 4)
	from := f.match(t, users[0], users[1])
	to := f.match(t, users[2], users[3])

	require.NoError(t, f.lifecycle.MoveMember(ctx, admin, users[0], from.ID, to.ID))

	_, ok := f.loadMatch(t, from.ID)
	assert.False(t, ok)
	assert.True(t, f.inPool(t, intentions[1]))

	stored, _ := f.loadMatch(t, to.ID)
	assert.Equal(t, 3, stored.GroupSize)
	member, ok := stored.Member(users[0])
	require.True(t, ok)
	assert.Equal(t, intentions[0], member.IntentionID)
	assert.False(t, f.inPool(t, intentions[0]))

	f.requireAuditOK(t)
}

func TestMoveMemberBetweenGroups(t *testing.T) {
	f := newFixture(t)
	users, _ := f.pooledUsers(t, 5)
	from := f.match(t, users[0], users[1], users[2])
	to := f.match(t, users[3], users[4])

	require.NoError(t, f.lifecycle.MoveMember(ctx, admin, users[2], from.ID, to.ID))

	stored, _ := f.loadMatch(t, from.ID)
	assert.Equal(t, 2, stored.GroupSize)
	assert.False(t, stored.HasMember(users[2]))

	stored, _ = f.loadMatch(t, to.ID)
	assert.Equal(t, 3, stored.GroupSize)
	assert.True(t, stored.HasMember(users[2]))

	f.requireAuditOK(t)
}

func TestMoveMemberErrors(t *testing.T) {
	f := newFixture(t)
	users, _ := f.pooledUsers(t, 4)
	from := f.match(t, users[0], users[1])
	to := f.match(t, users[2], users[3])

	tests := []struct {
		name     string
		userID   string
		from, to string
		kind     services.Kind
		code     string
	}{
		{"same match", users[0], from.ID, from.ID, services.KindBadRequest, "match.sameMatch"},
		{"missing source", users[0], "missing", to.ID, services.KindNotFound, "match.notFound"},
		{"missing target", users[0], from.ID, "missing", services.KindNotFound, "match.notFound"},
		{"not in source", users[2], from.ID, to.ID, services.KindNotFound, "match.memberNotFound"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.lifecycle.MoveMember(ctx, admin, tt.userID, tt.from, tt.to)
			requireKind(t, err, tt.kind, tt.code)
		})
	}

	// a member of both matches cannot be moved into the second
	require.NoError(t, f.db.Create(&models.MatchMember{
		MatchID:     to.ID,
		UserID:      users[0],
		IntentionID: "manual",
	}).Error)
	err := f.lifecycle.MoveMember(ctx, admin, users[0], from.ID, to.ID)
	requireKind(t, err, services.KindBadRequest, "match.alreadyMember")
}

func TestDeleteMatch(t *testing.T) {
	f := newFixture(t)
	users, intentions := f.pooledUsers(t, 4)
	released := f.match(t, users[0], users[1])
	dropped := f.match(t, users[2], users[3])
	_, err := f.lifecycle.SubmitFeedback(ctx, users[0], released.ID, []string{"climbing"}, nil)
	require.NoError(t, err)

	require.NoError(t, f.lifecycle.DeleteMatch(ctx, admin, released.ID, true))
	require.NoError(t, f.lifecycle.DeleteMatch(ctx, admin, dropped.ID, false))

	_, ok := f.loadMatch(t, released.ID)
	assert.False(t, ok)
	_, ok = f.loadMatch(t, dropped.ID)
	assert.False(t, ok)

	assert.True(t, f.inPool(t, intentions[0]))
	assert.True(t, f.inPool(t, intentions[1]))
	assert.False(t, f.inPool(t, intentions[2]))
	assert.False(t, f.inPool(t, intentions[3]))

	report, err := f.lifecycle.Audit(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, intentions[2:], report.MissingPool)

	err = f.lifecycle.DeleteMatch(ctx, admin, released.ID, true)
	requireKind(t, err, services.KindNotFound, "match.notFound")
}

// dissolvers break up pair, leaving users[1] as the displaced member.
// users[2] and users[3] are free for a move target.
var dissolvers = []struct {
	name     string
	dissolve func(t *testing.T, f *fixture, users []string, pair *models.Match) error
}{
	{"remove", func(t *testing.T, f *fixture, users []string, pair *models.Match) error {
		return f.lifecycle.RemoveMember(ctx, admin, pair.ID, users[0], true)
	}},
	{"move", func(t *testing.T, f *fixture, users []string, pair *models.Match) error {
		target := f.match(t, users[2], users[3])
		return f.lifecycle.MoveMember(ctx, admin, users[0], pair.ID, target.ID)
	}},
	{"delete", func(t *testing.T, f *fixture, users []string, pair *models.Match) error {
		return f.lifecycle.DeleteMatch(ctx, admin, pair.ID, true)
	}},
}

func TestDissolvedPairSkipsInactiveMember(t *testing.T) {
	for _, status := range []models.IntentionStatus{models.IntentionMatched, models.IntentionExpired} {
		for _, d := range dissolvers {
			t.Run(string(status)+"/"+d.name, func(t *testing.T) {
				f := newFixture(t)
				users, intentions := f.pooledUsers(t, 4)
				pair := f.match(t, users[0], users[1])
				require.NoError(t, f.db.Model(&models.Intention{}).
					Where("id = ?", intentions[1]).Update("status", status).Error)

				require.NoError(t, d.dissolve(t, f, users, pair))

				_, ok := f.loadMatch(t, pair.ID)
				assert.False(t, ok)
				assert.False(t, f.inPool(t, intentions[1]))
				assert.Equal(t, status, f.intentionStatus(t, intentions[1]))

				report, err := f.lifecycle.Audit(ctx)
				require.NoError(t, err)
				assert.Empty(t, report.PoolOnInactive)
				assert.Empty(t, report.PoolOnBound)
			})
		}
	}
}

func TestDissolvedPairKeepsDeclinedMemberOutOfPool(t *testing.T) {
	for _, d := range dissolvers {
		t.Run(d.name, func(t *testing.T) {
			f := newFixture(t)
			users, intentions := f.pooledUsers(t, 5)

			// users[4] and users[1] decline, then users[1] is matched again
			declined := f.match(t, users[4], users[1])
			require.NoError(t, f.lifecycle.DeclineMatch(ctx, users[4], declined.ID))
			pair := f.match(t, users[0], users[1])

			require.NoError(t, d.dissolve(t, f, users, pair))

			assert.Equal(t, models.IntentionActive, f.intentionStatus(t, intentions[1]))
			assert.False(t, f.inPool(t, intentions[1]))

			report, err := f.lifecycle.Audit(ctx)
			require.NoError(t, err)
			assert.Empty(t, report.PoolOnBound)
			assert.ElementsMatch(t, []string{intentions[1], intentions[4]}, report.AwaitingRepool)
			assert.NotContains(t, report.MissingPool, intentions[1])
		})
	}
}

package services_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/localnerve/covematch/internal/models"
	"github.com/localnerve/covematch/internal/services"
	"github.com/localnerve/covematch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFindOrCreatePairThread(t *testing.T) {
	db := testutil.NewDB(t)
	users := testutil.Users(t, db, 3)
	threads := services.GormThreadDirectory{}

	// a group thread with both users is not a pair thread
	group := models.Thread{
		ID: uuid.New().String(),
		Participants: []models.ThreadParticipant{
			{UserID: users[0]}, {UserID: users[1]}, {UserID: users[2]},
		},
	}
	require.NoError(t, db.Create(&group).Error)

	first, err := threads.FindOrCreatePairThread(db, users[0], users[1])
	require.NoError(t, err)
	assert.NotEqual(t, group.ID, first)

	again, err := threads.FindOrCreatePairThread(db, users[1], users[0])
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other, err := threads.FindOrCreatePairThread(db, users[0], users[2])
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	var count int64
	require.NoError(t, db.Model(&models.Thread{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

type stubThreads struct {
	id  string
	err error
}

func (s stubThreads) FindOrCreatePairThread(tx *gorm.DB, userA, userB string) (string, error) {
	return s.id, s.err
}

func TestAcceptMatchUsesThreadDirectory(t *testing.T) {
	f := newFixture(t, services.WithThreads(stubThreads{id: "11111111-2222-3333-4444-555555555555"}))
	users, _ := f.pooledUsers(t, 2)
	match := f.match(t, users...)

	threadID, err := f.lifecycle.AcceptMatch(ctx, users[0], match.ID)
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", threadID)
}

func TestAcceptMatchRollsBackOnThreadFailure(t *testing.T) {
	f := newFixture(t, services.WithThreads(stubThreads{err: errors.New("thread store down")}))
	users, intentions := f.pooledUsers(t, 2)
	match := f.match(t, users...)

	_, err := f.lifecycle.AcceptMatch(ctx, users[0], match.ID)
	requireKind(t, err, services.KindInternal, "match.accept.internal")

	stored, _ := f.loadMatch(t, match.ID)
	assert.Equal(t, models.MatchActive, stored.Status)
	for _, id := range intentions {
		assert.Equal(t, models.IntentionActive, f.intentionStatus(t, id))
	}

	entry := f.logs.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Lifecycle operation failed", entry.Message)
	assert.Equal(t, "match.accept", entry.Data["operation"])
}

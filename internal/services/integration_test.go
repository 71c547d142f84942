package services_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/localnerve/covematch/internal/database"
	"github.com/localnerve/covematch/internal/models"
	"github.com/localnerve/covematch/internal/services"
	"github.com/localnerve/covematch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestWithMariaDB runs the lifecycle against a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	runDialect(t, "mariadb", "DB_IMAGE")
}

// TestWithPostgreSQL runs the lifecycle against a real PostgreSQL container
func TestWithPostgreSQL(t *testing.T) {
	runDialect(t, "postgres", "POSTGRES_IMAGE")
}

func runDialect(t *testing.T, dbType, imageEnv string) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	image := os.Getenv(imageEnv)
	if image == "" {
		t.Skipf("%s not set", imageEnv)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	tc, err := testutil.StartDatabase(startCtx, t, dbType, image)
	require.NoError(t, err)
	defer tc.Terminate(t)

	db, err := tc.Connect(t)
	require.NoError(t, err)
	defer database.Close(db)

	// migrating an existing schema must not trip over the index
	require.NoError(t, database.AutoMigrate(db))

	t.Run("OneActiveIndex", func(t *testing.T) {
		testOneActiveIndex(t, db)
	})
	t.Run("PairLifecycle", func(t *testing.T) {
		testPairLifecycle(t, db)
	})
}

func testOneActiveIndex(t *testing.T, db *gorm.DB) {
	lifecycle := services.NewLifecycle(db)
	userID := testutil.CreateUser(t, db)

	_, err := lifecycle.CreateIntention(ctx, userID, sampleChips())
	require.NoError(t, err)

	duplicate := models.Intention{
		ID:         "00000000-0000-0000-0000-0000000000ff",
		UserID:     userID,
		Status:     models.IntentionActive,
		ValidUntil: time.Now().Add(time.Hour),
	}
	assert.ErrorIs(t, db.Omit("PoolEntry").Create(&duplicate).Error, gorm.ErrDuplicatedKey)

	_, err = lifecycle.CreateIntention(ctx, userID, sampleChips())
	requireKind(t, err, services.KindConflict, "intention.conflict")
}

func testPairLifecycle(t *testing.T, db *gorm.DB) {
	lifecycle := services.NewLifecycle(db)
	users := testutil.Users(t, db, 3)
	for _, userID := range users {
		_, err := lifecycle.CreateIntention(ctx, userID, sampleChips())
		require.NoError(t, err)
	}

	match, err := lifecycle.CreateMatch(ctx, services.CreateMatchInput{UserIDs: users[:2]})
	require.NoError(t, err)

	_, err = lifecycle.CreateMatch(ctx, services.CreateMatchInput{UserIDs: users[1:]})
	requireKind(t, err, services.KindConflict, "intention.alreadyMatched")

	threadID, err := lifecycle.AcceptMatch(ctx, users[0], match.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, threadID)

	require.NoError(t, lifecycle.AddMember(ctx, admin, match.ID, users[2]))
	require.NoError(t, lifecycle.RemoveMember(ctx, admin, match.ID, users[2], true))

	report, err := lifecycle.Audit(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK(), "unexpected audit findings: %+v", report)
}

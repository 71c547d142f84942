package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/localnerve/covematch/internal/models"
	"github.com/localnerve/covematch/internal/services"
	"github.com/localnerve/covematch/internal/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	ctx   = context.Background()
	admin = services.Caller{ID: "admin-1", IsAdmin: true}
	epoch = time.Date(2026, time.March, 2, 10, 15, 0, 0, time.UTC)
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	lifecycle *services.Lifecycle
	db        *gorm.DB
	clock     *fakeClock
	logs      *test.Hook
}

func newFixture(t *testing.T, opts ...services.Option) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	clock := &fakeClock{now: epoch}
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	all := append([]services.Option{
		services.WithClock(clock.Now),
		services.WithLogger(log),
	}, opts...)

	return &fixture{
		lifecycle: services.NewLifecycle(db, all...),
		db:        db,
		clock:     clock,
		logs:      hook,
	}
}

func sampleChips() services.Chips {
	return services.Chips{
		IntentionText: "  Looking for a climbing partner  ",
		Activities:    []string{"climbing", " coffee "},
		Availability:  []string{"weekends"},
		Location:      "Oakland",
	}
}

// intend gives every user an active pooled intention and returns their ids
// in the same order
func (f *fixture) intend(t *testing.T, userIDs ...string) []string {
	t.Helper()

	ids := make([]string, len(userIDs))
	for i, userID := range userIDs {
		result, err := f.lifecycle.CreateIntention(ctx, userID, sampleChips())
		require.NoError(t, err)
		ids[i] = result.Intention.ID
	}
	return ids
}

// pooledUsers creates n users with active pooled intentions
func (f *fixture) pooledUsers(t *testing.T, n int) ([]string, []string) {
	t.Helper()
	users := testutil.Users(t, f.db, n)
	return users, f.intend(t, users...)
}

func (f *fixture) match(t *testing.T, userIDs ...string) *models.Match {
	t.Helper()
	match, err := f.lifecycle.CreateMatch(ctx, services.CreateMatchInput{UserIDs: userIDs})
	require.NoError(t, err)
	return match
}

func (f *fixture) inPool(t *testing.T, intentionID string) bool {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.PoolEntry{}).Where("intention_id = ?", intentionID).Count(&count).Error)
	return count > 0
}

func (f *fixture) loadMatch(t *testing.T, matchID string) (*models.Match, bool) {
	t.Helper()
	var matches []models.Match
	require.NoError(t, f.db.Preload("Members").Where("id = ?", matchID).Find(&matches).Error)
	if len(matches) == 0 {
		return nil, false
	}
	return &matches[0], true
}

func (f *fixture) intentionStatus(t *testing.T, intentionID string) models.IntentionStatus {
	t.Helper()
	var intention models.Intention
	require.NoError(t, f.db.Where("id = ?", intentionID).First(&intention).Error)
	return intention.Status
}

func (f *fixture) requireAuditOK(t *testing.T) *services.AuditReport {
	t.Helper()
	report, err := f.lifecycle.Audit(ctx)
	require.NoError(t, err)
	require.Truef(t, report.OK(), "audit found violations: %+v", report)
	return report
}

func requireKind(t *testing.T, err error, kind services.Kind, code string) {
	t.Helper()
	require.Error(t, err)

	serviceErr, ok := err.(*services.Error)
	require.Truef(t, ok, "expected *services.Error, got %T: %v", err, err)
	require.Equal(t, kind, serviceErr.Kind, serviceErr.Error())
	if code != "" {
		require.Equal(t, code, serviceErr.Code)
	}
}

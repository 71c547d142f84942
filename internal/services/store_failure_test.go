package services_test

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/localnerve/covematch/internal/services"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errStore = errors.New("server has gone away")

// newMockLifecycle backs a Lifecycle with sqlmock through the mysql dialector
func newMockLifecycle(t *testing.T) (*services.Lifecycle, sqlmock.Sqlmock, *test.Hook) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	log, hook := test.NewNullLogger()
	return services.NewLifecycle(db, services.WithLogger(log)), mock, hook
}

func TestStoreFailureInTransactionIsInternal(t *testing.T) {
	lifecycle, mock, hook := newMockLifecycle(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `intentions`").WillReturnError(errStore)
	mock.ExpectRollback()

	_, err := lifecycle.CreateIntention(ctx, "user-1", sampleChips())
	requireKind(t, err, services.KindInternal, "intention.create.internal")
	assert.ErrorIs(t, err, errStore)
	assert.NoError(t, mock.ExpectationsWereMet())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "intention.create", entry.Data["operation"])
}

func TestStoreFailureOnReadIsInternal(t *testing.T) {
	lifecycle, mock, _ := newMockLifecycle(t)

	mock.ExpectQuery("FROM `intentions`").WillReturnError(errStore)

	_, err := lifecycle.GetStatus(ctx, "user-1")
	requireKind(t, err, services.KindInternal, "intention.status.internal")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreFailureDuringAuditIsInternal(t *testing.T) {
	lifecycle, mock, _ := newMockLifecycle(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM intentions").WillReturnError(errStore)
	mock.ExpectRollback()

	_, err := lifecycle.Audit(ctx)
	requireKind(t, err, services.KindInternal, "audit.internal")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidationFailsBeforeTouchingStore(t *testing.T) {
	lifecycle, mock, _ := newMockLifecycle(t)

	_, err := lifecycle.CreateMatch(ctx, services.CreateMatchInput{UserIDs: []string{"only-one"}})
	requireKind(t, err, services.KindBadRequest, "match.tooFewMembers")

	err = lifecycle.DeleteMatch(ctx, services.Caller{ID: "user-1"}, "m1", true)
	requireKind(t, err, services.KindForbidden, "admin.forbidden")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMatchLocksIntentionAndBindings(t *testing.T) {
	lifecycle, mock, _ := newMockLifecycle(t)

	mock.ExpectBegin()
	for range 2 {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	}
	mock.ExpectQuery("FROM `intentions` WHERE .* FOR UPDATE$").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}).AddRow("i-1", "user-1", "active"))
	mock.ExpectQuery("SELECT .*match_id.* FROM `match_members` JOIN matches .* FOR UPDATE$").
		WillReturnError(errStore)
	mock.ExpectRollback()

	_, err := lifecycle.CreateMatch(ctx, services.CreateMatchInput{UserIDs: []string{"user-1", "user-2"}})
	requireKind(t, err, services.KindInternal, "match.create.internal")
	assert.NoError(t, mock.ExpectationsWereMet())
}

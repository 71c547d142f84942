// lifecycle.go
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
	"time"

	"github.com/localnerve/covematch/internal/metrics"
	"github.com/localnerve/covematch/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	DefaultIntentionTTL  = 72 * time.Hour
	DefaultMatchTTL      = 7 * 24 * time.Hour
	DefaultBatchSchedule = "0 */3 * * *"
)

// Caller is an already resolved request identity.
type Caller struct {
	ID      string
	IsAdmin bool
}

// Lifecycle owns every Intention, PoolEntry and Match mutation.
// All state lives in the database; a Lifecycle is safe for concurrent use.
type Lifecycle struct {
	db           *gorm.DB
	threads      ThreadDirectory
	users        UserDirectory
	log          logrus.FieldLogger
	now          func() time.Time
	intentionTTL time.Duration
	matchTTL     time.Duration
	batch        cron.Schedule
}

// Option configures a Lifecycle
type Option func(*Lifecycle)

func WithThreads(threads ThreadDirectory) Option {
	return func(l *Lifecycle) { l.threads = threads }
}

func WithUsers(users UserDirectory) Option {
	return func(l *Lifecycle) { l.users = users }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Lifecycle) { l.log = log }
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) { l.now = now }
}

func WithIntentionTTL(ttl time.Duration) Option {
	return func(l *Lifecycle) {
		if ttl > 0 {
			l.intentionTTL = ttl
		}
	}
}

func WithMatchTTL(ttl time.Duration) Option {
	return func(l *Lifecycle) {
		if ttl > 0 {
			l.matchTTL = ttl
		}
	}
}

// WithBatchSchedule sets the advisory batch schedule used for ETAs
func WithBatchSchedule(schedule cron.Schedule) Option {
	return func(l *Lifecycle) {
		if schedule != nil {
			l.batch = schedule
		}
	}
}

// NewLifecycle creates a Lifecycle over db
func NewLifecycle(db *gorm.DB, opts ...Option) *Lifecycle {
	batch, _ := ParseBatchSchedule(DefaultBatchSchedule)

	l := &Lifecycle{
		db:           db,
		threads:      GormThreadDirectory{},
		users:        GormUserDirectory{},
		log:          logrus.StandardLogger(),
		now:          time.Now,
		intentionTTL: DefaultIntentionTTL,
		matchTTL:     DefaultMatchTTL,
		batch:        batch,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParseBatchSchedule parses a standard five field cron spec, evaluated in UTC
// unless the spec names its own zone.
func ParseBatchSchedule(spec string) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	if !strings.HasPrefix(spec, "TZ=") && !strings.HasPrefix(spec, "CRON_TZ=") {
		spec = "CRON_TZ=UTC " + spec
	}
	return cron.ParseStandard(spec)
}

// DB returns the underlying connection
func (l *Lifecycle) DB() *gorm.DB {
	return l.db
}

func (l *Lifecycle) clock() time.Time {
	return l.now().UTC()
}

// transaction runs fn in one database transaction and classifies the result.
func (l *Lifecycle) transaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := l.db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	return l.fail(op, err)
}

func (l *Lifecycle) fail(op string, err error) *Error {
	serviceErr := classify(op, err)
	if serviceErr.Kind == KindInternal {
		l.log.WithError(err).WithField("operation", op).Error("Lifecycle operation failed")
	}
	metrics.OperationFailed(op, string(serviceErr.Kind))
	return serviceErr
}

// quiet silences the SQL logger for reads whose misses are expected
func quiet(tx *gorm.DB) *gorm.DB {
	return tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)})
}

// lockMatch loads a match with its members, holding a row lock on the match.
func lockMatch(tx *gorm.DB, matchID string) (*models.Match, error) {
	var match models.Match
	err := quiet(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Members").
		Where("id = ?", matchID).
		First(&match).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFound("match.notFound", "match %s not found", matchID)
		}
		return nil, err
	}
	return &match, nil
}

func requireAdmin(caller Caller) error {
	if !caller.IsAdmin {
		return forbidden("admin.forbidden", "administrative rights required")
	}
	return nil
}

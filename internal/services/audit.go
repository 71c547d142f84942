package services

import (
	"context"

	"github.com/localnerve/covematch/internal/models"
	"gorm.io/gorm"
)

// AuditReport lists ids that break a lifecycle invariant. AwaitingRepool is
// informational: active intentions whose only matches were declined.
type AuditReport struct {
	DuplicateActive   []string `json:"duplicateActive"`   // user ids
	PoolOnInactive    []string `json:"poolOnInactive"`    // intention ids
	PoolOnBound       []string `json:"poolOnBound"`       // intention ids
	MissingPool       []string `json:"missingPool"`       // intention ids
	AwaitingRepool    []string `json:"awaitingRepool"`    // intention ids
	GroupSizeMismatch []string `json:"groupSizeMismatch"` // match ids
	Undersized        []string `json:"undersized"`        // match ids
}

// OK reports whether no invariant is violated
func (r *AuditReport) OK() bool {
	return len(r.DuplicateActive) == 0 &&
		len(r.PoolOnInactive) == 0 &&
		len(r.PoolOnBound) == 0 &&
		len(r.MissingPool) == 0 &&
		len(r.GroupSizeMismatch) == 0 &&
		len(r.Undersized) == 0
}

const (
	auditDuplicateActive = `SELECT user_id FROM intentions
WHERE status = ? GROUP BY user_id HAVING COUNT(*) > 1`

	auditPoolOnInactive = `SELECT p.intention_id FROM pool_entries p
LEFT JOIN intentions i ON i.id = p.intention_id
WHERE i.id IS NULL OR i.status <> ?`

	auditPoolOnBound = `SELECT DISTINCT p.intention_id FROM pool_entries p
JOIN match_members mm ON mm.intention_id = p.intention_id`

	auditMissingPool = `SELECT i.id FROM intentions i
WHERE i.status = ?
AND NOT EXISTS (SELECT 1 FROM pool_entries p WHERE p.intention_id = i.id)
AND NOT EXISTS (SELECT 1 FROM match_members mm WHERE mm.intention_id = i.id)`

	auditAwaitingRepool = `SELECT i.id FROM intentions i
WHERE i.status = ?
AND NOT EXISTS (SELECT 1 FROM pool_entries p WHERE p.intention_id = i.id)
AND EXISTS (SELECT 1 FROM match_members mm JOIN matches m ON m.id = mm.match_id
  WHERE mm.intention_id = i.id AND m.status = ?)
AND NOT EXISTS (SELECT 1 FROM match_members mm JOIN matches m ON m.id = mm.match_id
  WHERE mm.intention_id = i.id AND m.status <> ?)`

	auditGroupSizeMismatch = `SELECT m.id FROM matches m
LEFT JOIN match_members mm ON mm.match_id = m.id
GROUP BY m.id, m.group_size HAVING COUNT(mm.user_id) <> m.group_size`

	auditUndersized = `SELECT m.id FROM matches m
LEFT JOIN match_members mm ON mm.match_id = m.id
GROUP BY m.id HAVING COUNT(mm.user_id) < 2`
)

// Audit checks the stored state against the lifecycle invariants. Read only.
func (l *Lifecycle) Audit(ctx context.Context) (*AuditReport, error) {
	report := &AuditReport{}
	active, declined := models.IntentionActive, models.MatchDeclined

	checks := []struct {
		query  string
		args   []interface{}
		target *[]string
	}{
		{auditDuplicateActive, []interface{}{active}, &report.DuplicateActive},
		{auditPoolOnInactive, []interface{}{active}, &report.PoolOnInactive},
		{auditPoolOnBound, nil, &report.PoolOnBound},
		{auditMissingPool, []interface{}{active}, &report.MissingPool},
		{auditAwaitingRepool, []interface{}{active, declined, declined}, &report.AwaitingRepool},
		{auditGroupSizeMismatch, nil, &report.GroupSizeMismatch},
		{auditUndersized, nil, &report.Undersized},
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, check := range checks {
			rows := []string{}
			if err := quiet(tx).Raw(check.query, check.args...).Scan(&rows).Error; err != nil {
				return err
			}
			*check.target = rows
		}
		return nil
	})
	if err != nil {
		return nil, l.fail("audit", err)
	}

	if !report.OK() {
		l.log.WithField("report", report).Warn("Lifecycle audit found violations")
	}
	return report, nil
}

// internal/notify/ledger/ledger.go
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Nasrulloh23256/NesabaLearn/internal/common/logger"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/rule"

	"github.com/lib/pq"
)

// ErrDuplicate signals that the (user, kind, subject) tuple already has a
// ledger row. Callers treat it as "someone already sent it", not a failure.
var ErrDuplicate = errors.New("DUPLICATE_NOTIFICATION")

const uniqueViolation = "23505"

// Ledger is the persisted at-most-once record of sent notifications. The
// unique index on (user_id, type, subject_type, subject_id) is the single
// concurrency-control point: a second insert of the same tuple fails with
// ErrDuplicate instead of producing a second send.
type Ledger struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Ledger {
	return &Ledger{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "ledger"}),
	}
}

// Exists reports whether a notification was already sent for the tuple.
func (l *Ledger) Exists(ctx context.Context, userID int64, kind rule.Kind, subjectKind rule.SubjectKind, subjectID int64) (bool, error) {
	var exists bool
	err := l.db.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM notification_logs
			WHERE user_id = $1 AND type = $2 AND subject_type = $3 AND subject_id = $4
		)`,
		userID, string(kind), string(subjectKind), subjectID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ledger exists check: %w", err)
	}
	return exists, nil
}

// Record inserts the tuple's ledger row. Returns ErrDuplicate when the row
// already exists; the insert is never retried or compensated.
func (l *Ledger) Record(ctx context.Context, userID int64, kind rule.Kind, subjectKind rule.SubjectKind, subjectID int64, sentAt time.Time) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO notification_logs (user_id, type, subject_type, subject_id, sent_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5, $5)`,
		userID, string(kind), string(subjectKind), subjectID, sentAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			l.logger.Debug("duplicate ledger insert", map[string]interface{}{
				"userId":      userID,
				"kind":        kind,
				"subjectKind": subjectKind,
				"subjectId":   subjectID,
			})
			return ErrDuplicate
		}
		return fmt.Errorf("ledger record: %w", err)
	}
	return nil
}

// internal/notify/suppression/oracle.go
package suppression

import (
	"context"
	"database/sql"
	"fmt"
)

// Oracle answers "has this user already acted on this subject?". A positive
// answer cancels an otherwise-due deadline reminder for that user without
// writing a ledger row, so the reminder stays eligible while the window is
// open.
type Oracle struct {
	db *sql.DB
}

func New(db *sql.DB) *Oracle {
	return &Oracle{db: db}
}

// HasSubmittedAssignment reports whether the user has a submitted assignment
// for the task's meeting.
func (o *Oracle) HasSubmittedAssignment(ctx context.Context, meetingID, userID int64) (bool, error) {
	var exists bool
	err := o.db.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM meeting_assignments WHERE meeting_id = $1 AND user_id = $2
		)`,
		meetingID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("assignment check: %w", err)
	}
	return exists, nil
}

// HasAttemptedQuiz reports whether the user has any attempt recorded for the
// quiz.
func (o *Oracle) HasAttemptedQuiz(ctx context.Context, quizID, userID int64) (bool, error) {
	var exists bool
	err := o.db.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM quiz_attempts WHERE quiz_id = $1 AND user_id = $2
		)`,
		quizID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("attempt check: %w", err)
	}
	return exists, nil
}

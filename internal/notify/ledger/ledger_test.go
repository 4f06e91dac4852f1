// internal/notify/ledger/ledger_test.go
package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nasrulloh23256/NesabaLearn/internal/common/logger"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/rule"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestLedger_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(7), "task_deadline_day", "meeting_task", int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	l := New(db, logger.NewNoOpLogger())

	exists, err := l.Exists(context.Background(), 7, rule.KindTaskDeadlineDay, rule.SubjectTask, 42)
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_Exists_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(7), "meeting_created", "meeting", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	l := New(db, logger.NewNoOpLogger())

	exists, err := l.Exists(context.Background(), 7, rule.KindMeetingCreated, rule.SubjectMeeting, 1)
	assert.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	sentAt := time.Date(2025, 1, 9, 9, 5, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO notification_logs`).
		WithArgs(int64(7), "meeting_reminder_day", "meeting", int64(3), sentAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	l := New(db, logger.NewNoOpLogger())

	err = l.Record(context.Background(), 7, rule.KindMeetingReminderDay, rule.SubjectMeeting, 3, sentAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_Record_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO notification_logs`).
		WillReturnError(&pq.Error{Code: "23505"})

	l := New(db, logger.NewNoOpLogger())

	err = l.Record(context.Background(), 7, rule.KindQuizResult, rule.SubjectQuizAttempt, 9, time.Now())
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_Record_OtherError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO notification_logs`).
		WillReturnError(errors.New("connection reset"))

	l := New(db, logger.NewNoOpLogger())

	err = l.Record(context.Background(), 7, rule.KindQuizCreated, rule.SubjectQuiz, 9, time.Now())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrDuplicate))
}

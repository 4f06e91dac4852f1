// internal/notify/subject/store.go
package subject

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Nasrulloh23256/NesabaLearn/internal/models"
)

// Task and Quiz subjects carry their meeting's title for notification text.
// Subjects of cancelled meetings are filtered out at the query level.
type TaskSubject struct {
	models.Task
	MeetingTitle string
}

type QuizSubject struct {
	models.Quiz
	MeetingTitle string
}

// Store enumerates live notifiable subjects. Deleted subjects simply stop
// appearing; the scheduler never sees them again.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListMeetings returns non-cancelled meetings that carry a date.
func (s *Store) ListMeetings(ctx context.Context) ([]models.Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, type, COALESCE(description, ''), meeting_date,
		        COALESCE(start_time, ''), COALESCE(end_time, ''), COALESCE(meeting_url, '')
		 FROM meetings
		 WHERE is_cancelled = false AND meeting_date IS NOT NULL`,
	)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []models.Meeting
	for rows.Next() {
		var m models.Meeting
		if err := rows.Scan(&m.ID, &m.Title, &m.Type, &m.Description, &m.MeetingDate,
			&m.StartTime, &m.EndTime, &m.MeetingURL); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// ListTasks returns tasks with a deadline whose meeting is not cancelled.
func (s *Store) ListTasks(ctx context.Context) ([]TaskSubject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.meeting_id, t.title, t.type, t.start_time, t.end_time, m.title
		 FROM meeting_tasks t
		 JOIN meetings m ON m.id = t.meeting_id
		 WHERE t.end_time IS NOT NULL AND m.is_cancelled = false`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskSubject
	for rows.Next() {
		var t TaskSubject
		if err := rows.Scan(&t.ID, &t.MeetingID, &t.Title, &t.Type, &t.StartTime, &t.EndTime, &t.MeetingTitle); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ListQuizzes returns quizzes with a deadline whose meeting is not cancelled.
func (s *Store) ListQuizzes(ctx context.Context) ([]QuizSubject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT q.id, q.meeting_id, q.title, q.start_time, q.end_time, q.time_limit, q.minimum_score, m.title
		 FROM quizzes q
		 JOIN meetings m ON m.id = q.meeting_id
		 WHERE q.end_time IS NOT NULL AND m.is_cancelled = false`,
	)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []QuizSubject
	for rows.Next() {
		var q QuizSubject
		if err := rows.Scan(&q.ID, &q.MeetingID, &q.Title, &q.StartTime, &q.EndTime, &q.TimeLimit, &q.MinimumScore, &q.MeetingTitle); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// GetMeeting looks up one meeting. Returns (nil, nil) when it was deleted.
func (s *Store) GetMeeting(ctx context.Context, id int64) (*models.Meeting, error) {
	var m models.Meeting
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, type, COALESCE(description, ''), meeting_date,
		        COALESCE(start_time, ''), COALESCE(end_time, ''), COALESCE(meeting_url, ''), is_cancelled
		 FROM meetings WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Title, &m.Type, &m.Description, &m.MeetingDate,
		&m.StartTime, &m.EndTime, &m.MeetingURL, &m.IsCancelled)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meeting %d: %w", id, err)
	}
	return &m, nil
}

// GetQuiz looks up one quiz with its meeting title. Returns (nil, nil) when
// the quiz or its meeting was deleted.
func (s *Store) GetQuiz(ctx context.Context, id int64) (*QuizSubject, error) {
	var q QuizSubject
	err := s.db.QueryRowContext(ctx,
		`SELECT q.id, q.meeting_id, q.title, q.start_time, q.end_time, q.time_limit, q.minimum_score, m.title
		 FROM quizzes q
		 JOIN meetings m ON m.id = q.meeting_id
		 WHERE q.id = $1`,
		id,
	).Scan(&q.ID, &q.MeetingID, &q.Title, &q.StartTime, &q.EndTime, &q.TimeLimit, &q.MinimumScore, &q.MeetingTitle)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz %d: %w", id, err)
	}
	return &q, nil
}

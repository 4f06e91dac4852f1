// internal/models/quiz.go
package models

import "time"

type Quiz struct {
	ID           int64      `json:"id"`
	MeetingID    int64      `json:"meetingId"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	TimeLimit    *int       `json:"timeLimit,omitempty"` // minutes
	MinimumScore *float64   `json:"minimumScore,omitempty"`
}

// Deadline is the quiz close instant. Nil when the quiz has no end time.
func (q *Quiz) Deadline() *time.Time {
	return q.EndTime
}

type QuizAttempt struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	QuizID      int64      `json:"quizId"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	TotalScore  *float64   `json:"totalScore,omitempty"`
}

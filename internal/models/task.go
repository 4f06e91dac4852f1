// internal/models/task.go
package models

import "time"

type Task struct {
	ID        int64      `json:"id"`
	MeetingID int64      `json:"meetingId"`
	Title     string     `json:"title"`
	Type      string     `json:"type"` // "file" or "content"
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// Deadline is the submission cutoff. Nil when the task has no end time.
func (t *Task) Deadline() *time.Time {
	return t.EndTime
}

// internal/models/meeting.go
package models

import "time"

type Meeting struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Type        string     `json:"type"` // "online" or "offline"
	Description string     `json:"description,omitempty"`
	MeetingDate *time.Time `json:"meetingDate,omitempty"`
	StartTime   string     `json:"startTime,omitempty"` // "15:04", empty when unset
	EndTime     string     `json:"endTime,omitempty"`
	MeetingURL  string     `json:"meetingUrl,omitempty"`
	IsCancelled bool       `json:"isCancelled"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

// ParseClock parses a stored clock-of-day value, with or without seconds.
func ParseClock(s string) (time.Time, error) {
	clock, err := time.Parse("15:04", s)
	if err != nil {
		clock, err = time.Parse("15:04:05", s)
	}
	return clock, err
}

// StartAt combines the meeting date with the start-of-day clock time.
// Returns nil when either part is missing, meaning the meeting carries no
// usable schedule instant.
func (m *Meeting) StartAt() *time.Time {
	if m.MeetingDate == nil || m.StartTime == "" {
		return nil
	}
	clock, err := ParseClock(m.StartTime)
	if err != nil {
		return nil
	}
	d := *m.MeetingDate
	at := time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, d.Location())
	return &at
}

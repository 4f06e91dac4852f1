// internal/notify/scheduler/messages.go
package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nasrulloh23256/NesabaLearn/internal/models"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/delivery"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/subject"
)

const timeLayout = "02 Jan 2006, 15:04"
const dateLayout = "02 Jan 2006"

func (s *Service) meetingLink(m *models.Meeting) string {
	if m.MeetingURL != "" {
		return m.MeetingURL
	}
	return fmt.Sprintf("%s/user/meetings/%d", s.baseURL, m.ID)
}

func (s *Service) meetingPageLink(meetingID int64) string {
	return fmt.Sprintf("%s/user/meetings/%d", s.baseURL, meetingID)
}

func (s *Service) meetingCreatedPayload(m *models.Meeting) delivery.Payload {
	lines := []string{
		"A new meeting has been scheduled.",
		"Title: " + m.Title,
		"Type: " + m.Type,
	}
	if m.MeetingDate != nil {
		lines = append(lines, "Date: "+m.MeetingDate.Format(dateLayout))
	}
	if start := m.StartAt(); start != nil {
		label := start.Format("15:04")
		if m.EndTime != "" {
			// The DB may store seconds; render both ends as HH:MM.
			if end, err := models.ParseClock(m.EndTime); err == nil {
				label += " - " + end.Format("15:04")
			}
		}
		lines = append(lines, "Time: "+label)
	}
	if m.MeetingURL != "" {
		lines = append(lines, "Link: "+m.MeetingURL)
	}
	if m.Description != "" {
		lines = append(lines, "Description: "+m.Description)
	}

	return delivery.Payload{
		Headline:    "New Meeting Scheduled",
		Body:        strings.Join(lines, "\n"),
		ActionLabel: "View Meeting",
		ActionURL:   s.meetingLink(m),
	}
}

func (s *Service) meetingReminderDayPayload(m *models.Meeting, startAt time.Time) delivery.Payload {
	return delivery.Payload{
		Headline:    "Meeting Reminder: Tomorrow",
		Body:        fmt.Sprintf("Tomorrow's meeting: %s.\nTime: %s.", m.Title, startAt.Format(timeLayout)),
		ActionLabel: "View Meeting",
		ActionURL:   s.meetingPageLink(m.ID),
	}
}

func (s *Service) meetingReminderHourPayload(m *models.Meeting, startAt time.Time) delivery.Payload {
	return delivery.Payload{
		Headline:    "Meeting Reminder: 1 Hour Left",
		Body:        fmt.Sprintf("Meeting: %s.\nTime: %s.\nPlease join on time.", m.Title, startAt.Format(timeLayout)),
		ActionLabel: "Join Meeting",
		ActionURL:   s.meetingLink(m),
	}
}

func (s *Service) taskCreatedPayload(t *models.Task, meetingTitle string, meetingID int64) delivery.Payload {
	typeLabel := "Content"
	if t.Type == "file" {
		typeLabel = "File"
	}
	lines := []string{
		"A new task has been added.",
		"Meeting: " + meetingTitle,
		"Task: " + t.Title,
		"Type: " + typeLabel,
	}
	if t.EndTime != nil {
		lines = append(lines, "Deadline: "+t.EndTime.Format(timeLayout))
	}

	return delivery.Payload{
		Headline:    "New Meeting Task",
		Body:        strings.Join(lines, "\n"),
		ActionLabel: "View Task",
		ActionURL:   s.meetingPageLink(meetingID),
	}
}

func (s *Service) taskDeadlinePayload(t *subject.TaskSubject, deadline time.Time, lastCall bool) delivery.Payload {
	headline := "Task Deadline: Tomorrow"
	closing := "Please submit your work soon."
	if lastCall {
		headline = "Task Deadline: 1 Hour Left"
		closing = "Please submit your work before it is too late."
	}
	return delivery.Payload{
		Headline:    headline,
		Body:        fmt.Sprintf("Task: %s\nDeadline: %s.\n%s", t.Title, deadline.Format(timeLayout), closing),
		ActionLabel: "Submit Task",
		ActionURL:   s.meetingPageLink(t.MeetingID),
	}
}

func (s *Service) quizCreatedPayload(q *models.Quiz, meetingTitle string) delivery.Payload {
	lines := []string{
		"A new quiz is available.",
		"Meeting: " + meetingTitle,
		"Quiz: " + q.Title,
	}
	if q.StartTime != nil {
		lines = append(lines, "Opens: "+q.StartTime.Format(timeLayout))
	}
	if q.EndTime != nil {
		lines = append(lines, "Deadline: "+q.EndTime.Format(timeLayout))
	}
	if q.TimeLimit != nil {
		lines = append(lines, fmt.Sprintf("Duration: %d minutes", *q.TimeLimit))
	}
	if q.MinimumScore != nil {
		lines = append(lines, fmt.Sprintf("Minimum Score: %g", *q.MinimumScore))
	}

	return delivery.Payload{
		Headline:    "New Quiz Open",
		Body:        strings.Join(lines, "\n"),
		ActionLabel: "View Quiz",
		ActionURL:   s.meetingPageLink(q.MeetingID),
	}
}

func (s *Service) quizDeadlinePayload(q *subject.QuizSubject, deadline time.Time, lastCall bool) delivery.Payload {
	headline := "Quiz Deadline: Tomorrow"
	closing := "Please take the quiz soon."
	if lastCall {
		headline = "Quiz Deadline: 1 Hour Left"
		closing = "Please take the quiz before it is too late."
	}
	return delivery.Payload{
		Headline:    headline,
		Body:        fmt.Sprintf("Quiz: %s\nDeadline: %s.\n%s", q.Title, deadline.Format(timeLayout), closing),
		ActionLabel: "Take Quiz",
		ActionURL:   s.meetingPageLink(q.MeetingID),
	}
}

func (s *Service) quizResultPayload(q *subject.QuizSubject, attempt *models.QuizAttempt) delivery.Payload {
	scoreLine := "Your score is being processed."
	if attempt.TotalScore != nil {
		scoreLine = fmt.Sprintf("Your score: %g", *attempt.TotalScore)
	}
	return delivery.Payload{
		Headline:    "Quiz Result: " + q.Title,
		Body:        fmt.Sprintf("Your quiz has been submitted.\n%s\nThank you for completing this quiz.", scoreLine),
		ActionLabel: "View Quiz Details",
		ActionURL:   s.meetingPageLink(q.MeetingID),
	}
}

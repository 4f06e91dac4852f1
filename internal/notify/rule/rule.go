// internal/notify/rule/rule.go
package rule

import "time"

// Kind is a notification rule kind. The string values double as the `type`
// column of the dedup ledger, so they must stay stable.
type Kind string

const (
	KindMeetingCreated     Kind = "meeting_created"
	KindMeetingReminderDay Kind = "meeting_reminder_day"
	KindMeetingReminderHr  Kind = "meeting_reminder_hour"
	KindTaskCreated        Kind = "meeting_task_created"
	KindTaskDeadlineDay    Kind = "task_deadline_day"
	KindTaskDeadlineHr     Kind = "task_deadline_hour"
	KindQuizCreated        Kind = "quiz_created"
	KindQuizDeadlineDay    Kind = "quiz_deadline_day"
	KindQuizDeadlineHr     Kind = "quiz_deadline_hour"
	KindQuizResult         Kind = "quiz_result"
)

// SubjectKind tags the domain entity a notification concerns. These values
// are the ledger's `subject_type` column.
type SubjectKind string

const (
	SubjectMeeting     SubjectKind = "meeting"
	SubjectTask        SubjectKind = "meeting_task"
	SubjectQuiz        SubjectKind = "quiz"
	SubjectQuizAttempt SubjectKind = "quiz_attempt"
)

// Window is the tolerance around a rule's target instant within which the
// rule counts as due. It matches the sweep cadence so every due rule is seen
// by at least one sweep.
const Window = 10 * time.Minute

// Rule pairs a kind with its subject type and the offset applied to the
// subject's base instant. Created and result kinds carry a zero offset and
// are fired by event triggers, not the periodic sweep.
type Rule struct {
	Kind    Kind
	Subject SubjectKind
	Offset  time.Duration
}

var (
	MeetingReminderDay = Rule{KindMeetingReminderDay, SubjectMeeting, -24 * time.Hour}
	MeetingReminderHr  = Rule{KindMeetingReminderHr, SubjectMeeting, -time.Hour}
	TaskDeadlineDay    = Rule{KindTaskDeadlineDay, SubjectTask, -24 * time.Hour}
	TaskDeadlineHr     = Rule{KindTaskDeadlineHr, SubjectTask, -time.Hour}
	QuizDeadlineDay    = Rule{KindQuizDeadlineDay, SubjectQuiz, -24 * time.Hour}
	QuizDeadlineHr     = Rule{KindQuizDeadlineHr, SubjectQuiz, -time.Hour}

	MeetingCreated = Rule{KindMeetingCreated, SubjectMeeting, 0}
	TaskCreated    = Rule{KindTaskCreated, SubjectTask, 0}
	QuizCreated    = Rule{KindQuizCreated, SubjectQuiz, 0}
	QuizResult     = Rule{KindQuizResult, SubjectQuizAttempt, 0}
)

// Target computes the instant the rule fires around.
func (r Rule) Target(base time.Time) time.Time {
	return base.Add(r.Offset)
}

// Due reports whether the rule's target for base falls within ±Window of now.
// A nil base instant is never due.
func (r Rule) Due(base *time.Time, now time.Time) bool {
	if base == nil {
		return false
	}
	target := r.Target(*base)
	return !now.Before(target.Add(-Window)) && !now.After(target.Add(Window))
}

// Suppressible reports whether the per-recipient suppression check applies.
// Only deadline reminders can be cancelled by the recipient having already
// acted; created and result kinds, and meeting reminders, always go out.
func (r Rule) Suppressible() bool {
	switch r.Kind {
	case KindTaskDeadlineDay, KindTaskDeadlineHr, KindQuizDeadlineDay, KindQuizDeadlineHr:
		return true
	}
	return false
}

// internal/notify/scheduler/scheduler.go
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	errs "github.com/Nasrulloh23256/NesabaLearn/internal/common/errors"
	"github.com/Nasrulloh23256/NesabaLearn/internal/common/logger"
	"github.com/Nasrulloh23256/NesabaLearn/internal/common/metrics"
	"github.com/Nasrulloh23256/NesabaLearn/internal/models"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/delivery"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/ledger"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/rule"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/subject"
)

// eventTimeout bounds the detached work an event trigger dispatches.
const eventTimeout = 30 * time.Second

// Ledger is the dedup ledger contract (see notify/ledger).
type Ledger interface {
	Exists(ctx context.Context, userID int64, kind rule.Kind, subjectKind rule.SubjectKind, subjectID int64) (bool, error)
	Record(ctx context.Context, userID int64, kind rule.Kind, subjectKind rule.SubjectKind, subjectID int64, sentAt time.Time) error
}

// Subjects enumerates live notifiable subjects (see notify/subject).
type Subjects interface {
	ListMeetings(ctx context.Context) ([]models.Meeting, error)
	ListTasks(ctx context.Context) ([]subject.TaskSubject, error)
	ListQuizzes(ctx context.Context) ([]subject.QuizSubject, error)
	GetMeeting(ctx context.Context, id int64) (*models.Meeting, error)
	GetQuiz(ctx context.Context, id int64) (*subject.QuizSubject, error)
}

// Recipients resolves notification audiences (see notify/recipient).
type Recipients interface {
	Broadcast(ctx context.Context) ([]models.User, error)
	ByID(ctx context.Context, userID int64) (*models.User, error)
}

// Oracle answers whether a recipient already acted on a subject (see
// notify/suppression).
type Oracle interface {
	HasSubmittedAssignment(ctx context.Context, meetingID, userID int64) (bool, error)
	HasAttemptedQuiz(ctx context.Context, quizID, userID int64) (bool, error)
}

// Guard is the sweep non-overlap lease.
type Guard interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context)
}

// event is one queued trigger awaiting the dispatcher worker.
type event struct {
	name string
	fn   func(context.Context) error
}

// Service drives notification scheduling: the periodic due sweep plus the
// event triggers fired by the CRUD layer. All idempotence comes from the
// ledger's unique constraint; the guard only bounds resource usage.
type Service struct {
	ledger     Ledger
	subjects   Subjects
	recipients Recipients
	oracle     Oracle
	deliverer  delivery.Deliverer
	guard      Guard
	baseURL    string
	logger     logger.Logger

	events chan event
	wg     sync.WaitGroup
}

func New(l Ledger, subs Subjects, rec Recipients, o Oracle, d delivery.Deliverer, g Guard, baseURL string, queueSize int, log logger.Logger) *Service {
	if queueSize <= 0 {
		queueSize = 1
	}
	s := &Service{
		ledger:     l,
		subjects:   subs,
		recipients: rec,
		oracle:     o,
		deliverer:  d,
		guard:      g,
		baseURL:    baseURL,
		logger:     log.WithFields(map[string]interface{}{"component": "scheduler"}),
		events:     make(chan event, queueSize),
	}
	go s.runEvents()
	return s
}

// RunDueSweep evaluates every reminder rule against every live subject at
// the supplied instant. Safe to invoke repeatedly: the ledger makes each
// (recipient, kind, subject) tuple fire at most once, and the guard skips a
// sweep while a previous one still holds the lease. The bool reports whether
// the sweep actually ran; a lease-denied skip returns (false, nil).
func (s *Service) RunDueSweep(ctx context.Context, now time.Time) (bool, error) {
	ok, err := s.guard.Acquire(ctx)
	if err != nil {
		// Guard state unknown: skip and let the next tick retry.
		return false, errs.NewSweepLockUncertainError(err)
	}
	if !ok {
		metrics.SweepsSkipped.Inc()
		s.logger.Info("sweep skipped, previous sweep still holds the lease", nil)
		return false, nil
	}
	defer s.guard.Release(ctx)

	start := time.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	// Each rule kind's pass fails independently of the others.
	var failures []error
	if err := s.sweepMeetings(ctx, now); err != nil {
		s.logger.Error("meeting reminder pass failed", map[string]interface{}{"error": err})
		failures = append(failures, err)
	}
	if err := s.sweepTasks(ctx, now); err != nil {
		s.logger.Error("task deadline pass failed", map[string]interface{}{"error": err})
		failures = append(failures, err)
	}
	if err := s.sweepQuizzes(ctx, now); err != nil {
		s.logger.Error("quiz deadline pass failed", map[string]interface{}{"error": err})
		failures = append(failures, err)
	}
	return true, errors.Join(failures...)
}

func (s *Service) sweepMeetings(ctx context.Context, now time.Time) error {
	meetings, err := s.subjects.ListMeetings(ctx)
	if err != nil {
		return errs.NewEnumerationFailedError(string(rule.SubjectMeeting), err)
	}

	for i := range meetings {
		m := &meetings[i]
		startAt := m.StartAt()
		if startAt == nil {
			continue
		}
		if rule.MeetingReminderDay.Due(startAt, now) {
			if err := s.fanOut(ctx, rule.MeetingReminderDay, m.ID, now, s.meetingReminderDayPayload(m, *startAt), nil); err != nil {
				return err
			}
		}
		if rule.MeetingReminderHr.Due(startAt, now) {
			if err := s.fanOut(ctx, rule.MeetingReminderHr, m.ID, now, s.meetingReminderHourPayload(m, *startAt), nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) sweepTasks(ctx context.Context, now time.Time) error {
	tasks, err := s.subjects.ListTasks(ctx)
	if err != nil {
		return errs.NewEnumerationFailedError(string(rule.SubjectTask), err)
	}

	for i := range tasks {
		t := &tasks[i]
		deadline := t.Deadline()
		suppress := func(ctx context.Context, userID int64) (bool, error) {
			return s.oracle.HasSubmittedAssignment(ctx, t.MeetingID, userID)
		}
		if rule.TaskDeadlineDay.Due(deadline, now) {
			if err := s.fanOut(ctx, rule.TaskDeadlineDay, t.ID, now, s.taskDeadlinePayload(t, *deadline, false), suppress); err != nil {
				return err
			}
		}
		if rule.TaskDeadlineHr.Due(deadline, now) {
			if err := s.fanOut(ctx, rule.TaskDeadlineHr, t.ID, now, s.taskDeadlinePayload(t, *deadline, true), suppress); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) sweepQuizzes(ctx context.Context, now time.Time) error {
	quizzes, err := s.subjects.ListQuizzes(ctx)
	if err != nil {
		return errs.NewEnumerationFailedError(string(rule.SubjectQuiz), err)
	}

	for i := range quizzes {
		q := &quizzes[i]
		deadline := q.Deadline()
		suppress := func(ctx context.Context, userID int64) (bool, error) {
			return s.oracle.HasAttemptedQuiz(ctx, q.ID, userID)
		}
		if rule.QuizDeadlineDay.Due(deadline, now) {
			if err := s.fanOut(ctx, rule.QuizDeadlineDay, q.ID, now, s.quizDeadlinePayload(q, *deadline, false), suppress); err != nil {
				return err
			}
		}
		if rule.QuizDeadlineHr.Due(deadline, now) {
			if err := s.fanOut(ctx, rule.QuizDeadlineHr, q.ID, now, s.quizDeadlinePayload(q, *deadline, true), suppress); err != nil {
				return err
			}
		}
	}
	return nil
}

// fanOut runs the per-recipient loop: ledger lookup, suppression check,
// delivery, ledger insert. Per-recipient failures are logged and skipped so
// one bad address never blocks the rest of the audience.
func (s *Service) fanOut(ctx context.Context, r rule.Rule, subjectID int64, now time.Time, p delivery.Payload, suppressed func(context.Context, int64) (bool, error)) error {
	users, err := s.recipients.Broadcast(ctx)
	if err != nil {
		return errs.NewRecipientLookupError(err)
	}

	for _, u := range users {
		if err := s.notifyOne(ctx, r, subjectID, now, u, p, suppressed); err != nil {
			s.logger.Warn("recipient skipped", map[string]interface{}{
				"userId":    u.ID,
				"kind":      r.Kind,
				"subjectId": subjectID,
				"error":     err,
			})
		}
	}
	return nil
}

// notifyOne performs the check-then-act sequence for one tuple. The sequence
// is not atomic; the ledger's unique constraint catches the race and turns
// the second insert into a no-op skip.
func (s *Service) notifyOne(ctx context.Context, r rule.Rule, subjectID int64, now time.Time, u models.User, p delivery.Payload, suppressed func(context.Context, int64) (bool, error)) error {
	sent, err := s.ledger.Exists(ctx, u.ID, r.Kind, r.Subject, subjectID)
	if err != nil {
		return errs.NewLedgerReadFailedError(err)
	}
	if sent {
		return nil
	}

	if suppressed != nil && r.Suppressible() {
		skip, err := suppressed(ctx, u.ID)
		if err != nil {
			return errs.NewSuppressionCheckError(err)
		}
		if skip {
			// No ledger row: the reminder stays eligible while its window
			// is open, in case suppression state is ever rolled back.
			metrics.NotificationsSuppressed.WithLabelValues(string(r.Kind)).Inc()
			return nil
		}
	}

	p.RecipientAddress = u.Email
	if err := s.deliverer.Send(ctx, p); err != nil {
		// No ledger row either: the next sweep retries within the window.
		metrics.DeliveryFailures.WithLabelValues(string(r.Kind)).Inc()
		return errs.NewDeliveryFailedError(string(r.Kind), err)
	}

	if err := s.ledger.Record(ctx, u.ID, r.Kind, r.Subject, subjectID, now); err != nil {
		if errors.Is(err, ledger.ErrDuplicate) {
			metrics.NotificationsDuplicate.WithLabelValues(string(r.Kind)).Inc()
			return nil
		}
		// Delivered but not recorded: the next sweep may send again.
		// Duplicate notification is the accepted failure mode here.
		s.logger.Error("ledger write failed after successful delivery", map[string]interface{}{
			"userId":    u.ID,
			"kind":      r.Kind,
			"subjectId": subjectID,
			"error":     err,
		})
		return nil
	}

	metrics.NotificationsSent.WithLabelValues(string(r.Kind)).Inc()
	return nil
}

// --- Event triggers (synchronous cores) ---

// MeetingCreated broadcasts the new-meeting notification. A cancelled
// meeting produces nothing.
func (s *Service) MeetingCreated(ctx context.Context, m models.Meeting) error {
	if m.IsCancelled {
		return nil
	}
	return s.fanOut(ctx, rule.MeetingCreated, m.ID, time.Now().UTC(), s.meetingCreatedPayload(&m), nil)
}

// TaskCreated broadcasts the new-task notification. A vanished or cancelled
// parent meeting produces nothing.
func (s *Service) TaskCreated(ctx context.Context, t models.Task) error {
	m, err := s.subjects.GetMeeting(ctx, t.MeetingID)
	if err != nil {
		return errs.NewEnumerationFailedError(string(rule.SubjectMeeting), err)
	}
	if m == nil || m.IsCancelled {
		return nil
	}
	return s.fanOut(ctx, rule.TaskCreated, t.ID, time.Now().UTC(), s.taskCreatedPayload(&t, m.Title, m.ID), nil)
}

// QuizCreated broadcasts the new-quiz notification. A vanished or cancelled
// parent meeting produces nothing.
func (s *Service) QuizCreated(ctx context.Context, q models.Quiz) error {
	m, err := s.subjects.GetMeeting(ctx, q.MeetingID)
	if err != nil {
		return errs.NewEnumerationFailedError(string(rule.SubjectMeeting), err)
	}
	if m == nil || m.IsCancelled {
		return nil
	}
	return s.fanOut(ctx, rule.QuizCreated, q.ID, time.Now().UTC(), s.quizCreatedPayload(&q, m.Title), nil)
}

// QuizSubmitted notifies the single quiz taker of their result.
func (s *Service) QuizSubmitted(ctx context.Context, attempt models.QuizAttempt) error {
	user, err := s.recipients.ByID(ctx, attempt.UserID)
	if err != nil {
		return errs.NewRecipientLookupError(err)
	}
	if user == nil || user.Email == "" {
		return nil
	}
	q, err := s.subjects.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return errs.NewEnumerationFailedError(string(rule.SubjectQuiz), err)
	}
	if q == nil {
		return nil
	}
	return s.notifyOne(ctx, rule.QuizResult, attempt.ID, time.Now().UTC(), *user, s.quizResultPayload(q, &attempt), nil)
}

// --- Event triggers (fire-and-continue) ---
//
// The On* variants return immediately; the work runs detached with its own
// timeout so the creating request never waits on delivery latency.

func (s *Service) OnMeetingCreated(m models.Meeting) {
	s.dispatch("meeting created", func(ctx context.Context) error {
		return s.MeetingCreated(ctx, m)
	})
}

func (s *Service) OnTaskCreated(t models.Task) {
	s.dispatch("task created", func(ctx context.Context) error {
		return s.TaskCreated(ctx, t)
	})
}

func (s *Service) OnQuizCreated(q models.Quiz) {
	s.dispatch("quiz created", func(ctx context.Context) error {
		return s.QuizCreated(ctx, q)
	})
}

func (s *Service) OnQuizSubmitted(attempt models.QuizAttempt) {
	s.dispatch("quiz submitted", func(ctx context.Context) error {
		return s.QuizSubmitted(ctx, attempt)
	})
}

// dispatch queues the trigger for the worker. The buffered channel bounds
// outstanding triggers; a full queue applies backpressure to the caller
// instead of fanning out into unbounded goroutines.
func (s *Service) dispatch(name string, fn func(context.Context) error) {
	s.wg.Add(1)
	s.events <- event{name: name, fn: fn}
}

// runEvents drains the trigger queue one event at a time, each with its own
// timeout.
func (s *Service) runEvents() {
	for ev := range s.events {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		if err := ev.fn(ctx); err != nil {
			s.logger.Error("event trigger failed", map[string]interface{}{
				"event": ev.name,
				"error": err,
			})
		}
		cancel()
		s.wg.Done()
	}
}

// Wait blocks until every dispatched event trigger has been processed. Used
// at shutdown.
func (s *Service) Wait() {
	s.wg.Wait()
}

package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/config"
	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

// dueCounter is the slice of the item store the scheduler needs.
type dueCounter interface {
	DueCountsByLearner(ctx context.Context, now time.Time) ([]domain.LearnerDueCount, error)
}

// Notifier delivers a due-items reminder to a learner.
type Notifier interface {
	Notify(ctx context.Context, learnerID uuid.UUID, dueCount int) error
}

// Scheduler periodically checks for learners with due items and sends
// them reminders through the configured Notifier. Checks outside the
// configured notification hours are skipped.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     dueCounter
	notifier  Notifier
	log       *slog.Logger
	cfg       config.ReminderConfig
	now       func() time.Time
}

// New creates a reminder scheduler. It does not start any jobs until
// Start is called.
func New(log *slog.Logger, store dueCounter, notifier Notifier, cfg config.ReminderConfig) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		notifier:  notifier,
		log:       log.With("service", "reminder"),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Start schedules the periodic check and runs it asynchronously.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.cfg.Interval).Do(s.runCheck); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates the scheduled job.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.CheckAndNotify(ctx); err != nil {
		s.log.ErrorContext(ctx, "reminder check failed", slog.String("error", err.Error()))
	}
}

// CheckAndNotify sends a reminder to every learner with at least one due
// item, unless the current hour is outside the notification window.
// Delivery failures are logged per learner and do not stop the sweep.
func (s *Scheduler) CheckAndNotify(ctx context.Context) error {
	now := s.now().UTC()

	if hour := now.Hour(); hour < s.cfg.StartHour || hour > s.cfg.EndHour {
		s.log.DebugContext(ctx, "outside notification hours, skipping",
			slog.Int("hour", hour),
			slog.Int("start_hour", s.cfg.StartHour),
			slog.Int("end_hour", s.cfg.EndHour),
		)
		return nil
	}

	counts, err := s.store.DueCountsByLearner(ctx, now)
	if err != nil {
		return err
	}

	for _, c := range counts {
		if c.DueCount == 0 {
			continue
		}
		if err := s.notifier.Notify(ctx, c.LearnerID, c.DueCount); err != nil {
			s.log.ErrorContext(ctx, "failed to notify learner",
				slog.String("learner_id", c.LearnerID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	s.log.InfoContext(ctx, "reminder sweep done", slog.Int("learners", len(counts)))
	return nil
}

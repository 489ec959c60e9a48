package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/config"
	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

type dueCounterStub struct {
	counts []domain.LearnerDueCount
	err    error
}

func (s *dueCounterStub) DueCountsByLearner(context.Context, time.Time) ([]domain.LearnerDueCount, error) {
	return s.counts, s.err
}

type notifierRecorder struct {
	mu    sync.Mutex
	calls []domain.LearnerDueCount
	err   error
}

func (n *notifierRecorder) Notify(_ context.Context, learnerID uuid.UUID, dueCount int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, domain.LearnerDueCount{LearnerID: learnerID, DueCount: dueCount})
	return n.err
}

func testScheduler(store dueCounter, notifier Notifier, hour int) *Scheduler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(log, store, notifier, config.ReminderConfig{
		Enabled:   true,
		Interval:  time.Hour,
		StartHour: 8,
		EndHour:   22,
	})
	s.now = func() time.Time {
		return time.Date(2026, 3, 1, hour, 30, 0, 0, time.UTC)
	}
	return s
}

func TestCheckAndNotify_NotifiesEachLearner(t *testing.T) {
	t.Parallel()

	learnerA := uuid.New()
	learnerB := uuid.New()
	store := &dueCounterStub{counts: []domain.LearnerDueCount{
		{LearnerID: learnerA, DueCount: 3},
		{LearnerID: learnerB, DueCount: 1},
	}}
	rec := &notifierRecorder{}

	s := testScheduler(store, rec, 12)

	if err := s.CheckAndNotify(context.Background()); err != nil {
		t.Fatalf("CheckAndNotify() error = %v", err)
	}

	if len(rec.calls) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(rec.calls))
	}
	if rec.calls[0].LearnerID != learnerA || rec.calls[0].DueCount != 3 {
		t.Errorf("unexpected first notification: %+v", rec.calls[0])
	}
	if rec.calls[1].LearnerID != learnerB || rec.calls[1].DueCount != 1 {
		t.Errorf("unexpected second notification: %+v", rec.calls[1])
	}
}

func TestCheckAndNotify_SkipsOutsideHours(t *testing.T) {
	t.Parallel()

	store := &dueCounterStub{counts: []domain.LearnerDueCount{
		{LearnerID: uuid.New(), DueCount: 5},
	}}
	rec := &notifierRecorder{}

	for _, hour := range []int{3, 23} {
		s := testScheduler(store, rec, hour)
		if err := s.CheckAndNotify(context.Background()); err != nil {
			t.Fatalf("CheckAndNotify() at hour %d error = %v", hour, err)
		}
	}

	if len(rec.calls) != 0 {
		t.Errorf("expected no notifications outside hours, got %d", len(rec.calls))
	}
}

func TestCheckAndNotify_StoreError(t *testing.T) {
	t.Parallel()

	store := &dueCounterStub{err: errors.New("connection refused")}
	s := testScheduler(store, &notifierRecorder{}, 12)

	if err := s.CheckAndNotify(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestCheckAndNotify_NotifierErrorDoesNotStopSweep(t *testing.T) {
	t.Parallel()

	store := &dueCounterStub{counts: []domain.LearnerDueCount{
		{LearnerID: uuid.New(), DueCount: 2},
		{LearnerID: uuid.New(), DueCount: 4},
	}}
	rec := &notifierRecorder{err: errors.New("delivery failed")}

	s := testScheduler(store, rec, 12)

	if err := s.CheckAndNotify(context.Background()); err != nil {
		t.Fatalf("CheckAndNotify() error = %v", err)
	}
	if len(rec.calls) != 2 {
		t.Errorf("expected both learners attempted, got %d", len(rec.calls))
	}
}

package study

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/cache"
	"github.com/lexloop/vocabtutor-backend/internal/domain"
	"github.com/lexloop/vocabtutor-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// In-memory fakes
// ---------------------------------------------------------------------------

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*domain.Item)}
}

func cloneItem(item *domain.Item) *domain.Item {
	cp := *item
	if item.LastReviewedAt != nil {
		t := *item.LastReviewedAt
		cp.LastReviewedAt = &t
	}
	if item.SuspendedFrom != nil {
		s := *item.SuspendedFrom
		cp.SuspendedFrom = &s
	}
	return &cp
}

func (r *fakeItemRepo) GetByID(_ context.Context, learnerID, itemID uuid.UUID) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.LearnerID != learnerID {
		return nil, domain.ErrNotFound
	}
	return cloneItem(item), nil
}

func (r *fakeItemRepo) GetByIDForUpdate(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.Item, error) {
	return r.GetByID(ctx, learnerID, itemID)
}

func (r *fakeItemRepo) GetByKey(_ context.Context, key domain.ItemKey) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.LearnerID == key.LearnerID && item.Language == key.Language && item.Lemma == key.Lemma {
			return cloneItem(item), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeItemRepo) Create(_ context.Context, item *domain.Item) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.LearnerID == item.LearnerID && existing.Language == item.Language && existing.Lemma == item.Lemma {
			return nil, domain.ErrAlreadyExists
		}
	}
	r.items[item.ID] = cloneItem(item)
	return cloneItem(item), nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *domain.Item) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.items[item.ID] = cloneItem(item)
	return cloneItem(item), nil
}

func (r *fakeItemRepo) ListDue(_ context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*domain.Item
	for _, item := range r.items {
		if item.LearnerID == learnerID && item.IsDue(now) {
			due = append(due, cloneItem(item))
		}
	}
	return OrderDue(due, now, limit), nil
}

func (r *fakeItemRepo) CountByStatus(_ context.Context, learnerID uuid.UUID) (domain.ItemStatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c domain.ItemStatusCounts
	for _, item := range r.items {
		if item.LearnerID != learnerID {
			continue
		}
		switch item.Status {
		case domain.ItemStatusNew:
			c.New++
		case domain.ItemStatusLearning:
			c.Learning++
		case domain.ItemStatusLearned:
			c.Learned++
		case domain.ItemStatusLapsed:
			c.Lapsed++
		case domain.ItemStatusSuspended:
			c.Suspended++
		}
	}
	return c, nil
}

func (r *fakeItemRepo) CountDue(_ context.Context, learnerID uuid.UUID, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, item := range r.items {
		if item.LearnerID == learnerID && item.IsDue(now) {
			n++
		}
	}
	return n, nil
}

type fakeReviewLogRepo struct {
	mu   sync.Mutex
	logs []*domain.ReviewLog
}

func (r *fakeReviewLogRepo) Create(_ context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return log, nil
}

func (r *fakeReviewLogRepo) ListByItemID(_ context.Context, itemID uuid.UUID, limit, offset int) ([]*domain.ReviewLog, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.ReviewLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].ItemID == itemID {
			matched = append(matched, r.logs[i])
		}
	}
	total := len(matched)
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeItemRepo, *fakeReviewLogRepo) {
	t.Helper()

	tracked, err := cache.New[string, uuid.UUID](128, 10*time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	items := newFakeItemRepo()
	reviews := &fakeReviewLogRepo{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewService(log, items, reviews, fakeTxManager{}, tracked, Config{})
	svc.now = func() time.Time { return fixedNow }

	return svc, items, reviews
}

func learnerCtx(t *testing.T) (context.Context, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	return ctxutil.WithLearnerID(context.Background(), id), id
}

func mustTrack(t *testing.T, svc *Service, ctx context.Context, lemma string) *domain.Item {
	t.Helper()
	item, err := svc.TrackWord(ctx, TrackWordInput{Lemma: lemma, Language: "en"})
	if err != nil {
		t.Fatalf("TrackWord(%q): %v", lemma, err)
	}
	return item
}

func qualityPtr(q domain.Quality) *domain.Quality { return &q }

func intPtr(n int) *int { return &n }

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "vocab.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testItem(learnerID uuid.UUID, mutators ...func(*domain.Item)) *domain.Item {
	now := time.Now().UTC().Truncate(time.Microsecond)
	item := &domain.Item{
		ID:           uuid.New(),
		LearnerID:    learnerID,
		Lemma:        "ephemeral",
		Language:     "en",
		Status:       domain.ItemStatusNew,
		IntervalDays: 1,
		EaseFactor:   domain.DefaultEaseFactor,
		NextReviewAt: now.Add(24 * time.Hour),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, m := range mutators {
		m(item)
	}
	return item
}

func TestItemRepo_CreateAndGet(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewItemRepo(db)
	ctx := context.Background()

	learnerID := uuid.New()
	seed := testItem(learnerID, func(i *domain.Item) { i.Lemma = "serendipity" })

	created, err := repo.Create(ctx, seed)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Lemma != "serendipity" || created.Status != domain.ItemStatusNew {
		t.Errorf("Create = %+v, want lemma=serendipity status=NEW", created)
	}
	if !created.NextReviewAt.Equal(seed.NextReviewAt) {
		t.Errorf("NextReviewAt = %v, want %v", created.NextReviewAt, seed.NextReviewAt)
	}

	got, err := repo.GetByKey(ctx, domain.ItemKey{LearnerID: learnerID, Language: "en", Lemma: "serendipity"})
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if got.ID != seed.ID {
		t.Errorf("GetByKey ID = %s, want %s", got.ID, seed.ID)
	}

	_, err = repo.GetByID(ctx, uuid.New(), seed.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID wrong learner = %v, want ErrNotFound", err)
	}
}

func TestItemRepo_DuplicateKey(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewItemRepo(db)
	ctx := context.Background()

	learnerID := uuid.New()
	if _, err := repo.Create(ctx, testItem(learnerID)); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	_, err := repo.Create(ctx, testItem(learnerID))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Create duplicate = %v, want ErrAlreadyExists", err)
	}
}

func TestItemRepo_Update(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewItemRepo(db)
	ctx := context.Background()

	learnerID := uuid.New()
	seed := testItem(learnerID)
	if _, err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("Create: %v", err)
	}

	reviewedAt := time.Now().UTC().Truncate(time.Microsecond)
	seed.Status = domain.ItemStatusLearning
	seed.IntervalDays = 6
	seed.Repetitions = 2
	seed.LastReviewedAt = &reviewedAt
	seed.NextReviewAt = reviewedAt.Add(6 * 24 * time.Hour)

	updated, err := repo.Update(ctx, seed)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != domain.ItemStatusLearning || updated.IntervalDays != 6 {
		t.Errorf("Update = %+v, want status=LEARNING interval=6", updated)
	}
	if updated.LastReviewedAt == nil || !updated.LastReviewedAt.Equal(reviewedAt) {
		t.Errorf("LastReviewedAt = %v, want %v", updated.LastReviewedAt, reviewedAt)
	}

	_, err = repo.Update(ctx, testItem(learnerID))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update missing = %v, want ErrNotFound", err)
	}
}

func TestItemRepo_SuspendedRoundTrip(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewItemRepo(db)
	ctx := context.Background()

	learnerID := uuid.New()
	from := domain.ItemStatusLearned
	seed := testItem(learnerID, func(i *domain.Item) {
		i.Status = domain.ItemStatusSuspended
		i.SuspendedFrom = &from
	})
	if _, err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, learnerID, seed.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.SuspendedFrom == nil || *got.SuspendedFrom != domain.ItemStatusLearned {
		t.Errorf("SuspendedFrom = %v, want LEARNED", got.SuspendedFrom)
	}
}

func TestItemRepo_ListDueAndCounts(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewItemRepo(db)
	ctx := context.Background()

	learnerID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)
	from := domain.ItemStatusLearning

	seeds := []*domain.Item{
		testItem(learnerID, func(i *domain.Item) {
			i.Lemma = "learning"
			i.Status = domain.ItemStatusLearning
			i.NextReviewAt = now.Add(-24 * time.Hour)
		}),
		testItem(learnerID, func(i *domain.Item) {
			i.Lemma = "lapsed"
			i.Status = domain.ItemStatusLapsed
			i.NextReviewAt = now.Add(-time.Hour)
		}),
		testItem(learnerID, func(i *domain.Item) {
			i.Lemma = "fresh"
			i.NextReviewAt = now.Add(-48 * time.Hour)
		}),
		testItem(learnerID, func(i *domain.Item) {
			i.Lemma = "future"
			i.NextReviewAt = now.Add(time.Hour)
		}),
		testItem(learnerID, func(i *domain.Item) {
			i.Lemma = "suspended"
			i.Status = domain.ItemStatusSuspended
			i.SuspendedFrom = &from
			i.NextReviewAt = now.Add(-time.Hour)
		}),
	}
	for _, s := range seeds {
		if _, err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create %s: %v", s.Lemma, err)
		}
	}

	due, err := repo.ListDue(ctx, learnerID, now, 10)
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}
	var lemmas []string
	for _, it := range due {
		lemmas = append(lemmas, it.Lemma)
	}
	want := []string{"lapsed", "fresh", "learning"}
	if len(lemmas) != len(want) {
		t.Fatalf("ListDue = %v, want %v", lemmas, want)
	}
	for i := range want {
		if lemmas[i] != want[i] {
			t.Errorf("ListDue[%d] = %q, want %q", i, lemmas[i], want[i])
		}
	}

	counts, err := repo.CountByStatus(ctx, learnerID)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts.New != 2 || counts.Learning != 1 || counts.Lapsed != 1 || counts.Suspended != 1 {
		t.Errorf("CountByStatus = %+v, want new=2 learning=1 lapsed=1 suspended=1", counts)
	}
	if counts.Total() != 5 {
		t.Errorf("Total = %d, want 5", counts.Total())
	}

	dueCount, err := repo.CountDue(ctx, learnerID, now)
	if err != nil {
		t.Fatalf("CountDue: %v", err)
	}
	if dueCount != 3 {
		t.Errorf("CountDue = %d, want 3", dueCount)
	}
}

func TestTxManager_Rollback(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewItemRepo(db)
	tm := NewTxManager(db)
	ctx := context.Background()

	learnerID := uuid.New()
	seed := testItem(learnerID)
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, seed); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("RunInTx = %v, want sentinel", err)
	}

	_, err = repo.GetByID(ctx, learnerID, seed.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("item visible after rollback: %v", err)
	}
}

func TestTxManager_Commit(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewItemRepo(db)
	tm := NewTxManager(db)
	ctx := context.Background()

	learnerID := uuid.New()
	seed := testItem(learnerID)

	err := tm.RunInTx(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, seed)
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}

	if _, err := repo.GetByID(ctx, learnerID, seed.ID); err != nil {
		t.Errorf("item missing after commit: %v", err)
	}
}

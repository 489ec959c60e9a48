package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

func TestReviewLogRepo_CreateAndList(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	items := NewItemRepo(db)
	logs := NewReviewLogRepo(db)
	ctx := context.Background()

	learnerID := uuid.New()
	item := testItem(learnerID)
	if _, err := items.Create(ctx, item); err != nil {
		t.Fatalf("Create item: %v", err)
	}

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i, q := range []domain.Quality{domain.QualityCorrectDifficult, domain.QualityCorrectHesitant, domain.QualityPerfect} {
		_, err := logs.Create(ctx, &domain.ReviewLog{
			ID:         uuid.New(),
			ItemID:     item.ID,
			LearnerID:  learnerID,
			Quality:    q,
			PrevState:  domain.SnapshotOf(item),
			ReviewedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create log %d: %v", i, err)
		}
	}

	page, total, err := logs.ListByItemID(ctx, item.ID, 2, 0)
	if err != nil {
		t.Fatalf("ListByItemID: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(page) != 2 {
		t.Fatalf("len(page) = %d, want 2", len(page))
	}
	if page[0].Quality != domain.QualityPerfect || page[1].Quality != domain.QualityCorrectHesitant {
		t.Errorf("order = [%d %d], want [5 4]", page[0].Quality, page[1].Quality)
	}
	if page[0].PrevState == nil || page[0].PrevState.Status != domain.ItemStatusNew {
		t.Errorf("PrevState = %+v, want NEW snapshot", page[0].PrevState)
	}
}

func TestReviewLogRepo_MissingItem(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	logs := NewReviewLogRepo(db)
	ctx := context.Background()

	_, err := logs.Create(ctx, &domain.ReviewLog{
		ID:         uuid.New(),
		ItemID:     uuid.New(),
		LearnerID:  uuid.New(),
		Quality:    domain.QualityPerfect,
		ReviewedAt: time.Now().UTC(),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Create with missing item = %v, want ErrNotFound", err)
	}
}

func TestReviewLogRepo_ListEmpty(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	logs := NewReviewLogRepo(db)
	ctx := context.Background()

	page, total, err := logs.ListByItemID(ctx, uuid.New(), 10, 0)
	if err != nil {
		t.Fatalf("ListByItemID: %v", err)
	}
	if total != 0 || len(page) != 0 {
		t.Errorf("ListByItemID empty = (%d, total %d), want (0, 0)", len(page), total)
	}
}

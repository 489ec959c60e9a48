package study

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

func TestGetReviewQueue_OrdersByPriority(t *testing.T) {
	t.Parallel()

	svc, items, _ := newTestService(t)
	ctx, _ := learnerCtx(t)

	learning := mustTrack(t, svc, ctx, "alpha")
	lapsed := mustTrack(t, svc, ctx, "beta")
	fresh := mustTrack(t, svc, ctx, "gamma")

	items.mu.Lock()
	items.items[learning.ID].Status = domain.ItemStatusLearning
	items.items[learning.ID].NextReviewAt = fixedNow.AddDate(0, 0, -1)
	items.items[lapsed.ID].Status = domain.ItemStatusLapsed
	items.items[lapsed.ID].NextReviewAt = fixedNow.AddDate(0, 0, -2)
	items.items[fresh.ID].NextReviewAt = fixedNow // NEW, due right now
	items.mu.Unlock()

	queue, err := svc.GetReviewQueue(ctx, GetQueueInput{Limit: 3})
	require.NoError(t, err)

	require.Len(t, queue, 3)
	require.Equal(t, lapsed.ID, queue[0].ID)
	require.Equal(t, fresh.ID, queue[1].ID)
	require.Equal(t, learning.ID, queue[2].ID)
}

func TestGetReviewQueue_DefaultLimit(t *testing.T) {
	t.Parallel()

	svc, items, _ := newTestService(t)
	ctx, _ := learnerCtx(t)

	for _, lemma := range []string{"one", "two", "three"} {
		mustTrack(t, svc, ctx, lemma)
	}
	items.mu.Lock()
	for _, it := range items.items {
		it.NextReviewAt = fixedNow.Add(-time.Minute)
	}
	items.mu.Unlock()

	queue, err := svc.GetReviewQueue(ctx, GetQueueInput{})
	require.NoError(t, err)
	require.Len(t, queue, 3)
}

func TestGetReviewQueue_NothingDue(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx, _ := learnerCtx(t)

	mustTrack(t, svc, ctx, "future") // due in 24h, not now

	queue, err := svc.GetReviewQueue(ctx, GetQueueInput{Limit: 10})
	require.NoError(t, err)
	require.Empty(t, queue)
}

func TestGetReviewQueue_LimitValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx, _ := learnerCtx(t)

	_, err := svc.GetReviewQueue(ctx, GetQueueInput{Limit: -1})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.GetReviewQueue(ctx, GetQueueInput{Limit: 1000})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetStats(t *testing.T) {
	t.Parallel()

	svc, items, _ := newTestService(t)
	ctx, _ := learnerCtx(t)

	a := mustTrack(t, svc, ctx, "apple")
	mustTrack(t, svc, ctx, "pear")

	items.mu.Lock()
	items.items[a.ID].NextReviewAt = fixedNow.Add(-time.Hour)
	items.mu.Unlock()

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Counts.New)
	require.Equal(t, 2, stats.Counts.Total())
	require.Equal(t, 1, stats.DueCount)
}

func TestRecordUsage(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx, _ := learnerCtx(t)

	item := mustTrack(t, svc, ctx, "usage")

	updated, err := svc.RecordUsage(ctx, RecordUsageInput{
		ItemID: item.ID,
		Updates: []domain.UsageUpdate{
			domain.IncrementCorrect{},
			domain.IncrementTotal{},
			domain.IncrementCorrect{},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, updated.CorrectUses)
	require.Equal(t, 3, updated.TotalUses)

	// Scheduling state untouched.
	require.Equal(t, domain.ItemStatusNew, updated.Status)
	require.Zero(t, updated.Repetitions)
}

func TestRecordUsage_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx, _ := learnerCtx(t)
	item := mustTrack(t, svc, ctx, "empty")

	_, err := svc.RecordUsage(ctx, RecordUsageInput{ItemID: item.ID})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestListReviews(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx, _ := learnerCtx(t)

	item := mustTrack(t, svc, ctx, "history")
	for _, q := range []domain.Quality{5, 2, 4} {
		_, err := svc.ReviewItem(ctx, ReviewItemInput{ItemID: item.ID, Quality: qualityPtr(q)})
		require.NoError(t, err)
	}

	logs, total, err := svc.ListReviews(ctx, ListReviewsInput{ItemID: item.ID, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, logs, 2)
	require.Equal(t, domain.QualityCorrectHesitant, logs[0].Quality, "newest first")
}

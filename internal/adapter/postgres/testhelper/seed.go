package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

// NewItem builds an item with sensible defaults for tests.
// Apply mutators to override fields.
func NewItem(learnerID uuid.UUID, mutators ...func(*domain.Item)) *domain.Item {
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

// InsertItem writes an item row directly, bypassing the repository.
func InsertItem(t *testing.T, pool *pgxpool.Pool, item *domain.Item) {
	t.Helper()

	var suspendedFrom *string
	if item.SuspendedFrom != nil {
		v := item.SuspendedFrom.String()
		suspendedFrom = &v
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO items (
			id, learner_id, lemma, language,
			status, interval_days, ease_factor, repetitions, lapses,
			correct_uses, total_uses,
			last_reviewed_at, next_review_at, suspended_from,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		item.ID, item.LearnerID, item.Lemma, item.Language,
		item.Status.String(), item.IntervalDays, item.EaseFactor, item.Repetitions, item.Lapses,
		item.CorrectUses, item.TotalUses,
		item.LastReviewedAt, item.NextReviewAt, suspendedFrom,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: insert item: %v", err)
	}
}

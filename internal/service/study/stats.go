package study

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
	"github.com/lexloop/vocabtutor-backend/pkg/ctxutil"
)

// Stats summarizes a learner's vocabulary progress.
type Stats struct {
	Counts   domain.ItemStatusCounts
	DueCount int
}

// GetItem returns a single tracked item by ID.
func (s *Service) GetItem(ctx context.Context, itemID uuid.UUID) (*domain.Item, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if itemID == uuid.Nil {
		return nil, domain.NewValidationError("item_id", "required")
	}
	return s.items.GetByID(ctx, learnerID, itemID)
}

// GetItemByKey returns a tracked item by its (language, lemma) key.
func (s *Service) GetItemByKey(ctx context.Context, language, lemma string) (*domain.Item, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	key := domain.ItemKey{
		LearnerID: learnerID,
		Language:  domain.NormalizeLanguage(language),
		Lemma:     domain.NormalizeLemma(lemma),
	}
	if key.Lemma == "" || key.Language == "" {
		return nil, domain.NewValidationError("lemma", "lemma and language required")
	}

	return s.items.GetByKey(ctx, key)
}

// ListReviews returns an item's review history, newest first, with the
// total count for pagination.
func (s *Service) ListReviews(ctx context.Context, input ListReviewsInput) ([]*domain.ReviewLog, int, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, 0, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	// Ownership check before touching the log table.
	if _, err := s.items.GetByID(ctx, learnerID, input.ItemID); err != nil {
		return nil, 0, fmt.Errorf("get item: %w", err)
	}

	limit := input.Limit
	if limit == 0 {
		limit = 50
	}

	return s.reviews.ListByItemID(ctx, input.ItemID, limit, input.Offset)
}

// GetStats returns per-status counts and the current due count.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	counts, err := s.items.CountByStatus(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	due, err := s.items.CountDue(ctx, learnerID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("count due: %w", err)
	}

	return &Stats{Counts: counts, DueCount: due}, nil
}

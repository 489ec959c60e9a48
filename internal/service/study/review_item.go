package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
	"github.com/lexloop/vocabtutor-backend/internal/service/study/sm2"
	"github.com/lexloop/vocabtutor-backend/pkg/ctxutil"
)

// ReviewItem records a recall judgment and advances the item's SM-2 state.
// The item update and the review log are written in one transaction with the
// item row locked for update, so two racing reviews of the same item
// serialize instead of losing one of the updates.
func (s *Service) ReviewItem(ctx context.Context, input ReviewItemInput) (*domain.Item, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	quality := resolveQuality(input)
	now := s.now().UTC().Truncate(time.Microsecond)

	var updated *domain.Item

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.items.GetByIDForUpdate(txCtx, learnerID, input.ItemID)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}

		if item.Status == domain.ItemStatusSuspended {
			return domain.NewValidationError("item_id", "item is suspended; unsuspend before reviewing")
		}

		snapshot := domain.SnapshotOf(item)

		state := sm2.State{
			Status:         item.Status,
			IntervalDays:   item.IntervalDays,
			EaseFactor:     item.EaseFactor,
			Repetitions:    item.Repetitions,
			Lapses:         item.Lapses,
			LastReviewedAt: item.LastReviewedAt,
			NextReviewAt:   item.NextReviewAt,
		}

		next, err := sm2.Apply(state, quality, now)
		if err != nil {
			return err
		}

		item.Status = next.Status
		item.IntervalDays = next.IntervalDays
		item.EaseFactor = next.EaseFactor
		item.Repetitions = next.Repetitions
		item.Lapses = next.Lapses
		item.LastReviewedAt = next.LastReviewedAt
		item.NextReviewAt = next.NextReviewAt
		item.TotalUses++
		if quality.IsSuccess() {
			item.CorrectUses++
		}
		item.UpdatedAt = now

		updated, err = s.items.Update(txCtx, item)
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}

		if _, err := s.reviews.Create(txCtx, &domain.ReviewLog{
			ID:         uuid.New(),
			ItemID:     item.ID,
			LearnerID:  learnerID,
			Quality:    quality,
			PrevState:  snapshot,
			ReviewedAt: now,
		}); err != nil {
			return fmt.Errorf("create review log: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item reviewed",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", updated.ID.String()),
		slog.Int("quality", int(quality)),
		slog.String("status", string(updated.Status)),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Float64("ease_factor", updated.EaseFactor),
	)

	return updated, nil
}

// resolveQuality picks the explicit quality or derives one from usage
// counts. Validate has already guaranteed exactly one form is present.
func resolveQuality(input ReviewItemInput) domain.Quality {
	if input.Quality != nil {
		return *input.Quality
	}
	return sm2.QualityFromUsage(*input.CorrectUses, *input.TotalUses)
}

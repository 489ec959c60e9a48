package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
	"github.com/lexloop/vocabtutor-backend/pkg/ctxutil"
)

// RecordUsage applies usage-counter updates to an item without touching its
// scheduling state. Conversation analysis reports these as words are used;
// the counters later feed usage-derived review quality.
func (s *Service) RecordUsage(ctx context.Context, input RecordUsageInput) (*domain.Item, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Microsecond)

	var updated *domain.Item

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.items.GetByIDForUpdate(txCtx, learnerID, input.ItemID)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}

		if err := domain.ApplyUsage(item, input.Updates); err != nil {
			return err
		}
		item.UpdatedAt = now

		updated, err = s.items.Update(txCtx, item)
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "usage recorded",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", input.ItemID.String()),
		slog.Int("updates", len(input.Updates)),
	)

	return updated, nil
}

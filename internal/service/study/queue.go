package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
	"github.com/lexloop/vocabtutor-backend/pkg/ctxutil"
)

// GetReviewQueue returns the learner's due items in review-priority order:
// lapsed first, then new, then everything else, most overdue first within
// each tier.
func (s *Service) GetReviewQueue(ctx context.Context, input GetQueueInput) ([]*domain.Item, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.cfg.DefaultQueueLimit
	}
	if limit > s.cfg.MaxQueueLimit {
		limit = s.cfg.MaxQueueLimit
	}

	now := s.now().UTC()

	items, err := s.items.ListDue(ctx, learnerID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due items: %w", err)
	}

	// The store already filters and orders; re-applying the policy on the
	// snapshot keeps the ordering authoritative in one place.
	queue := OrderDue(items, now, limit)

	s.log.InfoContext(ctx, "review queue built",
		slog.String("learner_id", learnerID.String()),
		slog.Int("count", len(queue)),
		slog.Int("limit", limit),
	)

	return queue, nil
}

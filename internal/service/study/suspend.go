package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
	"github.com/lexloop/vocabtutor-backend/pkg/ctxutil"
)

// Suspend excludes an item from due-set selection without touching its
// scheduling fields. Suspending an already-suspended item is a conflict,
// not a no-op.
func (s *Service) Suspend(ctx context.Context, itemID uuid.UUID) (*domain.Item, error) {
	return s.toggleSuspend(ctx, itemID, true)
}

// Unsuspend returns a suspended item to the status it had when suspended.
// Unsuspending an item that is not suspended is a conflict.
func (s *Service) Unsuspend(ctx context.Context, itemID uuid.UUID) (*domain.Item, error) {
	return s.toggleSuspend(ctx, itemID, false)
}

func (s *Service) toggleSuspend(ctx context.Context, itemID uuid.UUID, suspend bool) (*domain.Item, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if itemID == uuid.Nil {
		return nil, domain.NewValidationError("item_id", "required")
	}

	now := s.now().UTC().Truncate(time.Microsecond)

	var updated *domain.Item

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.items.GetByIDForUpdate(txCtx, learnerID, itemID)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}

		if suspend {
			if item.Status == domain.ItemStatusSuspended {
				return fmt.Errorf("item already suspended: %w", domain.ErrConflict)
			}
			from := item.Status
			item.SuspendedFrom = &from
			item.Status = domain.ItemStatusSuspended
		} else {
			if item.Status != domain.ItemStatusSuspended {
				return fmt.Errorf("item is not suspended: %w", domain.ErrConflict)
			}
			if item.SuspendedFrom == nil {
				return fmt.Errorf("suspended item has no resume status: %w", domain.ErrConflict)
			}
			item.Status = *item.SuspendedFrom
			item.SuspendedFrom = nil
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

	s.log.InfoContext(ctx, "item suspend toggled",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", itemID.String()),
		slog.Bool("suspended", suspend),
	)

	return updated, nil
}

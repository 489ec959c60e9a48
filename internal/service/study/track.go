package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
	"github.com/lexloop/vocabtutor-backend/internal/service/study/sm2"
	"github.com/lexloop/vocabtutor-backend/pkg/ctxutil"
)

// TrackWord starts tracking a vocabulary item for the learner. Tracking an
// already-tracked word is idempotent and returns the existing item.
//
// Free-text analysis tends to report the same word many times in a row, so
// confirmed keys are kept in a bounded TTL cache and repeat calls are
// answered from it without touching the store.
func (s *Service) TrackWord(ctx context.Context, input TrackWordInput) (*domain.Item, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	key := domain.ItemKey{
		LearnerID: learnerID,
		Language:  domain.NormalizeLanguage(input.Language),
		Lemma:     domain.NormalizeLemma(input.Lemma),
	}

	if id, ok := s.tracked.Get(trackCacheKey(key)); ok {
		item, err := s.items.GetByID(ctx, learnerID, id)
		if err == nil {
			return item, nil
		}
		// Stale cache entry; fall through to the store.
		s.tracked.Evict(trackCacheKey(key))
	}

	if item, err := s.items.GetByKey(ctx, key); err == nil {
		s.tracked.Set(trackCacheKey(key), item.ID)
		return item, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get item by key: %w", err)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	state := sm2.NewState(now)

	item := &domain.Item{
		ID:           uuid.New(),
		LearnerID:    learnerID,
		Lemma:        key.Lemma,
		Language:     key.Language,
		Status:       state.Status,
		IntervalDays: state.IntervalDays,
		EaseFactor:   state.EaseFactor,
		Repetitions:  state.Repetitions,
		Lapses:       state.Lapses,
		NextReviewAt: state.NextReviewAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.items.Create(ctx, item)
	if err != nil {
		// Lost a race with a concurrent TrackWord for the same key.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.items.GetByKey(ctx, key)
		}
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.tracked.Set(trackCacheKey(key), created.ID)

	s.log.InfoContext(ctx, "word tracked",
		slog.String("learner_id", learnerID.String()),
		slog.String("lemma", created.Lemma),
		slog.String("language", created.Language),
	)

	return created, nil
}

func trackCacheKey(key domain.ItemKey) string {
	return key.LearnerID.String() + "|" + key.Language + "|" + key.Lemma
}

package study

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/cache"
	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type itemRepo interface {
	GetByID(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.Item, error)
	GetByIDForUpdate(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.Item, error)
	GetByKey(ctx context.Context, key domain.ItemKey) (*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) (*domain.Item, error)
	ListDue(ctx context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.Item, error)
	CountByStatus(ctx context.Context, learnerID uuid.UUID) (domain.ItemStatusCounts, error)
	CountDue(ctx context.Context, learnerID uuid.UUID, now time.Time) (int, error)
}

type reviewLogRepo interface {
	Create(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error)
	ListByItemID(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*domain.ReviewLog, int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config holds study service limits.
type Config struct {
	DefaultQueueLimit int
	MaxQueueLimit     int
}

// Service implements the vocabulary study business logic: tracking words,
// applying SM-2 review transitions, building the due queue, and the
// administrative suspend/unsuspend toggle.
type Service struct {
	items   itemRepo
	reviews reviewLogRepo
	tx      txManager
	tracked *cache.TTL[string, uuid.UUID]
	log     *slog.Logger
	cfg     Config
	now     func() time.Time
}

// NewService creates a new study service. tracked is a bounded TTL cache of
// recently confirmed item keys used to short-circuit duplicate TrackWord
// calls; it may not be nil.
func NewService(
	log *slog.Logger,
	items itemRepo,
	reviews reviewLogRepo,
	tx txManager,
	tracked *cache.TTL[string, uuid.UUID],
	cfg Config,
) *Service {
	if cfg.DefaultQueueLimit <= 0 {
		cfg.DefaultQueueLimit = 20
	}
	if cfg.MaxQueueLimit <= 0 {
		cfg.MaxQueueLimit = 200
	}
	return &Service{
		items:   items,
		reviews: reviews,
		tx:      tx,
		tracked: tracked,
		log:     log.With("service", "study"),
		cfg:     cfg,
		now:     time.Now,
	}
}

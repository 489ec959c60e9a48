package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexloop/vocabtutor-backend/internal/adapter/postgres"
	pgitem "github.com/lexloop/vocabtutor-backend/internal/adapter/postgres/item"
	pgreviewlog "github.com/lexloop/vocabtutor-backend/internal/adapter/postgres/reviewlog"
	"github.com/lexloop/vocabtutor-backend/internal/adapter/sqlite"
	"github.com/lexloop/vocabtutor-backend/internal/auth"
	"github.com/lexloop/vocabtutor-backend/internal/cache"
	"github.com/lexloop/vocabtutor-backend/internal/config"
	"github.com/lexloop/vocabtutor-backend/internal/domain"
	"github.com/lexloop/vocabtutor-backend/internal/service/reminder"
	"github.com/lexloop/vocabtutor-backend/internal/service/study"
	"github.com/lexloop/vocabtutor-backend/internal/transport/middleware"
	"github.com/lexloop/vocabtutor-backend/internal/transport/rest"
)

// itemStore is the union of item operations the service layer and the
// reminder scheduler need. Both database adapters satisfy it.
type ItemStore interface {
	GetByID(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.Item, error)
	GetByIDForUpdate(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.Item, error)
	GetByKey(ctx context.Context, key domain.ItemKey) (*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) (*domain.Item, error)
	ListDue(ctx context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.Item, error)
	CountByStatus(ctx context.Context, learnerID uuid.UUID) (domain.ItemStatusCounts, error)
	CountDue(ctx context.Context, learnerID uuid.UUID, now time.Time) (int, error)
	DueCountsByLearner(ctx context.Context, now time.Time) ([]domain.LearnerDueCount, error)
}

type ReviewLogStore interface {
	Create(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error)
	ListByItemID(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*domain.ReviewLog, int, error)
}

type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Storage bundles one database adapter's components behind the
// driver-independent interfaces.
type Storage struct {
	Items   ItemStore
	Reviews ReviewLogStore
	Tx      TxManager
	Pinger  Pinger
	Close   func()
}

// Run is the application entry point. It loads configuration, wires the
// storage adapter, services, and HTTP transport, and serves until the
// context is canceled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("driver", cfg.Database.Driver),
		slog.String("log_level", cfg.Log.Level),
	)

	store, err := OpenStorage(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	tracked, err := cache.New[string, uuid.UUID](cfg.Study.TrackCacheSize, cfg.Study.TrackCacheTTL)
	if err != nil {
		return fmt.Errorf("create track cache: %w", err)
	}

	studySvc := study.NewService(logger, store.Items, store.Reviews, store.Tx, tracked, study.Config{
		DefaultQueueLimit: cfg.Study.DefaultQueueLimit,
		MaxQueueLimit:     cfg.Study.MaxQueueLimit,
	})

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	mux := rest.NewRouter(
		rest.NewHealthHandler(store.Pinger, BuildVersion()),
		rest.NewStudyHandler(studySvc, logger),
	)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(cfg.Server.RateLimitPerMinute),
		middleware.Auth(jwtManager),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if cfg.Reminder.Enabled {
		sched := reminder.New(logger, store.Items, reminder.NewLogNotifier(logger), cfg.Reminder)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("start reminder scheduler: %w", err)
		}
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

// OpenStorage connects the configured database driver and returns its
// repositories. The caller owns Close.
func OpenStorage(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if err := postgres.Migrate(ctx, cfg.DSN); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return &Storage{
			Items:   pgitem.New(pool),
			Reviews: pgreviewlog.New(pool),
			Tx:      postgres.NewTxManager(pool),
			Pinger:  pool,
			Close:   pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &Storage{
			Items:   sqlite.NewItemRepo(db),
			Reviews: sqlite.NewReviewLogRepo(db),
			Tx:      sqlite.NewTxManager(db),
			Pinger:  sqlDBPinger{db},
			Close:   func() { db.Close() }, //nolint:errcheck
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// sqlDBPinger adapts *sql.DB to the context-first Ping the health
// handler expects.
type sqlDBPinger struct {
	db *sql.DB
}

func (p sqlDBPinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

var _ Pinger = (*pgxpool.Pool)(nil)

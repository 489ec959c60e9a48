// Package reviewlog implements the review history repository using PostgreSQL.
// The pre-review snapshot travels as a JSONB column; the domain type carries
// no json tags, so serialization lives here.
package reviewlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexloop/vocabtutor-backend/internal/adapter/postgres"
	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

const table = "review_logs"

var columns = []string{"id", "item_id", "learner_id", "quality", "prev_state", "reviewed_at"}

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides review log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new review log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new review log and returns the persisted row.
func (r *Repo) Create(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error) {
	prevState, err := marshalPrevState(log.PrevState)
	if err != nil {
		return nil, fmt.Errorf("review_log marshal prev_state: %w", err)
	}

	q := builder.Insert(table).
		Columns(columns...).
		Values(log.ID, log.ItemID, log.LearnerID, int(log.Quality), prevState, log.ReviewedAt).
		Suffix("RETURNING id, item_id, learner_id, quality, prev_state, reviewed_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create review_log query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		created   domain.ReviewLog
		quality   int
		prevBytes []byte
	)
	err = querier.QueryRow(ctx, sql, args...).Scan(
		&created.ID, &created.ItemID, &created.LearnerID, &quality, &prevBytes, &created.ReviewedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "review_log", log.ID)
	}

	created.Quality = domain.Quality(quality)
	ps, err := unmarshalPrevState(prevBytes)
	if err != nil {
		return nil, fmt.Errorf("review_log %s: %w", created.ID, err)
	}
	created.PrevState = ps

	return &created, nil
}

// ListByItemID returns review logs for an item, newest first, with
// limit/offset pagination. Returns logs, total count, and error.
func (r *Repo) ListByItemID(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*domain.ReviewLog, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := builder.Select("count(*)").From(table).
		Where(squirrel.Eq{"item_id": itemID}).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count review_logs query: %w", err)
	}

	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count review_logs by item_id: %w", err)
	}

	// limit=0 means "no limit"; use a large value for SQL LIMIT
	effectiveLimit := limit
	if effectiveLimit <= 0 {
		effectiveLimit = 2147483647
	}

	listSQL, listArgs, err := builder.Select(columns...).From(table).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("reviewed_at DESC", "id DESC").
		Limit(uint64(effectiveLimit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list review_logs query: %w", err)
	}

	rows, err := querier.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list review_logs by item_id: %w", err)
	}
	defer rows.Close()

	logs := []*domain.ReviewLog{}
	for rows.Next() {
		var (
			rl        domain.ReviewLog
			quality   int
			prevBytes []byte
		)
		if err := rows.Scan(&rl.ID, &rl.ItemID, &rl.LearnerID, &quality, &prevBytes, &rl.ReviewedAt); err != nil {
			return nil, 0, fmt.Errorf("scan review_log: %w", err)
		}

		rl.Quality = domain.Quality(quality)
		ps, err := unmarshalPrevState(prevBytes)
		if err != nil {
			return nil, 0, fmt.Errorf("review_log %s: %w", rl.ID, err)
		}
		rl.PrevState = ps

		logs = append(logs, &rl)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review_logs: %w", err)
	}

	return logs, total, nil
}

// ---------------------------------------------------------------------------
// JSONB serialization for ItemSnapshot (prev_state)
// ---------------------------------------------------------------------------

type itemSnapshotJSON struct {
	Status         string  `json:"status"`
	IntervalDays   int     `json:"interval_days"`
	EaseFactor     float64 `json:"ease_factor"`
	Repetitions    int     `json:"repetitions"`
	Lapses         int     `json:"lapses"`
	LastReviewedAt *string `json:"last_reviewed_at,omitempty"`
	NextReviewAt   string  `json:"next_review_at"`
}

// marshalPrevState converts a *domain.ItemSnapshot to JSON bytes for JSONB
// storage. Returns nil for nil input (stored as NULL in DB).
func marshalPrevState(s *domain.ItemSnapshot) ([]byte, error) {
	if s == nil {
		return nil, nil
	}

	j := itemSnapshotJSON{
		Status:       s.Status.String(),
		IntervalDays: s.IntervalDays,
		EaseFactor:   s.EaseFactor,
		Repetitions:  s.Repetitions,
		Lapses:       s.Lapses,
		NextReviewAt: s.NextReviewAt.UTC().Format(time.RFC3339Nano),
	}

	if s.LastReviewedAt != nil {
		v := s.LastReviewedAt.UTC().Format(time.RFC3339Nano)
		j.LastReviewedAt = &v
	}

	return json.Marshal(j)
}

// unmarshalPrevState converts JSON bytes from JSONB storage to a
// *domain.ItemSnapshot. Returns nil for nil/empty input (NULL in DB).
func unmarshalPrevState(data []byte) (*domain.ItemSnapshot, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var j itemSnapshotJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("unmarshal prev_state: %w", err)
	}

	next, err := time.Parse(time.RFC3339Nano, j.NextReviewAt)
	if err != nil {
		return nil, fmt.Errorf("parse next_review_at: %w", err)
	}

	s := &domain.ItemSnapshot{
		Status:       domain.ItemStatus(j.Status),
		IntervalDays: j.IntervalDays,
		EaseFactor:   j.EaseFactor,
		Repetitions:  j.Repetitions,
		Lapses:       j.Lapses,
		NextReviewAt: next,
	}

	if j.LastReviewedAt != nil {
		t, err := time.Parse(time.RFC3339Nano, *j.LastReviewedAt)
		if err != nil {
			return nil, fmt.Errorf("parse last_reviewed_at: %w", err)
		}
		s.LastReviewedAt = &t
	}

	return s, nil
}

// Package item implements the vocabulary item repository using PostgreSQL.
// Queries are built with squirrel; all reads and writes go through
// postgres.QuerierFromCtx so they join an ambient transaction when present.
package item

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexloop/vocabtutor-backend/internal/adapter/postgres"
	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

const table = "items"

// dueOrder ranks lapsed items first, then new, then everything else.
// Within a rank, the most overdue item comes first.
const dueOrder = `CASE WHEN status = 'LAPSED' THEN 0 WHEN status = 'NEW' THEN 1 ELSE 2 END, next_review_at ASC, id ASC`

var columns = []string{
	"id", "learner_id", "lemma", "language",
	"status", "interval_days", "ease_factor", "repetitions", "lapses",
	"correct_uses", "total_uses",
	"last_reviewed_at", "next_review_at", "suspended_from",
	"created_at", "updated_at",
}

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides item persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new item repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns the learner's item by ID.
// Returns domain.ErrNotFound if the item does not exist or belongs to
// another learner.
func (r *Repo) GetByID(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.Item, error) {
	return r.getOne(ctx, itemID, r.selectByID(learnerID, itemID))
}

// GetByIDForUpdate is GetByID with a row lock (SELECT ... FOR UPDATE).
// Call it only inside RunInTx; outside a transaction the lock is released
// as soon as the statement completes.
func (r *Repo) GetByIDForUpdate(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.Item, error) {
	return r.getOne(ctx, itemID, r.selectByID(learnerID, itemID).Suffix("FOR UPDATE"))
}

// GetByKey returns the item identified by (learner, language, lemma).
// The key is expected to be already normalized by the caller.
func (r *Repo) GetByKey(ctx context.Context, key domain.ItemKey) (*domain.Item, error) {
	q := builder.Select(columns...).From(table).Where(squirrel.Eq{
		"learner_id": key.LearnerID,
		"language":   key.Language,
		"lemma":      key.Lemma,
	})
	return r.getOne(ctx, key.LearnerID, q)
}

// Create inserts a new item and returns the persisted row.
// A duplicate (learner_id, language, lemma) maps to domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	q := builder.Insert(table).
		Columns(columns...).
		Values(
			item.ID, item.LearnerID, item.Lemma, item.Language,
			item.Status.String(), item.IntervalDays, item.EaseFactor, item.Repetitions, item.Lapses,
			item.CorrectUses, item.TotalUses,
			item.LastReviewedAt, item.NextReviewAt, suspendedFromColumn(item.SuspendedFrom),
			item.CreatedAt, item.UpdatedAt,
		).
		Suffix("RETURNING " + columnList())

	return r.getOne(ctx, item.ID, q)
}

// Update persists the mutable scheduling and usage fields of an item.
// Returns domain.ErrNotFound if the row no longer exists.
func (r *Repo) Update(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	q := builder.Update(table).
		Set("status", item.Status.String()).
		Set("interval_days", item.IntervalDays).
		Set("ease_factor", item.EaseFactor).
		Set("repetitions", item.Repetitions).
		Set("lapses", item.Lapses).
		Set("correct_uses", item.CorrectUses).
		Set("total_uses", item.TotalUses).
		Set("last_reviewed_at", item.LastReviewedAt).
		Set("next_review_at", item.NextReviewAt).
		Set("suspended_from", suspendedFromColumn(item.SuspendedFrom)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": item.ID, "learner_id": item.LearnerID}).
		Suffix("RETURNING " + columnList())

	return r.getOne(ctx, item.ID, q)
}

// ListDue returns up to limit due items for the learner, lapsed first,
// then new, then the rest, most overdue first within each group.
func (r *Repo) ListDue(ctx context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.Item, error) {
	if limit <= 0 {
		return []*domain.Item{}, nil
	}

	q := builder.Select(columns...).From(table).
		Where(squirrel.Eq{"learner_id": learnerID}).
		Where(squirrel.NotEq{"status": domain.ItemStatusSuspended.String()}).
		Where(squirrel.LtOrEq{"next_review_at": now}).
		OrderBy(dueOrder).
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list due query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list due items: %w", err)
	}
	defer rows.Close()

	items := []*domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due items: %w", err)
	}

	return items, nil
}

// CountByStatus returns per-status item counts for the learner.
func (r *Repo) CountByStatus(ctx context.Context, learnerID uuid.UUID) (domain.ItemStatusCounts, error) {
	q := builder.Select("status", "count(*)").From(table).
		Where(squirrel.Eq{"learner_id": learnerID}).
		GroupBy("status")

	sql, args, err := q.ToSql()
	if err != nil {
		return domain.ItemStatusCounts{}, fmt.Errorf("build count by status query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return domain.ItemStatusCounts{}, fmt.Errorf("count items by status: %w", err)
	}
	defer rows.Close()

	var counts domain.ItemStatusCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return domain.ItemStatusCounts{}, fmt.Errorf("scan status count: %w", err)
		}
		switch domain.ItemStatus(status) {
		case domain.ItemStatusNew:
			counts.New = n
		case domain.ItemStatusLearning:
			counts.Learning = n
		case domain.ItemStatusLearned:
			counts.Learned = n
		case domain.ItemStatusLapsed:
			counts.Lapsed = n
		case domain.ItemStatusSuspended:
			counts.Suspended = n
		}
	}
	if err := rows.Err(); err != nil {
		return domain.ItemStatusCounts{}, fmt.Errorf("iterate status counts: %w", err)
	}

	return counts, nil
}

// CountDue returns the number of due items for the learner.
func (r *Repo) CountDue(ctx context.Context, learnerID uuid.UUID, now time.Time) (int, error) {
	q := builder.Select("count(*)").From(table).
		Where(squirrel.Eq{"learner_id": learnerID}).
		Where(squirrel.NotEq{"status": domain.ItemStatusSuspended.String()}).
		Where(squirrel.LtOrEq{"next_review_at": now})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count due query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	var count int
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count due items: %w", err)
	}

	return count, nil
}

// DueCountsByLearner returns, for every learner with at least one due
// item, how many items await review. Feeds the reminder scheduler.
func (r *Repo) DueCountsByLearner(ctx context.Context, now time.Time) ([]domain.LearnerDueCount, error) {
	q := builder.Select("learner_id", "count(*)").From(table).
		Where(squirrel.NotEq{"status": domain.ItemStatusSuspended.String()}).
		Where(squirrel.LtOrEq{"next_review_at": now}).
		GroupBy("learner_id").
		OrderBy("learner_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due counts query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query due counts: %w", err)
	}
	defer rows.Close()

	var counts []domain.LearnerDueCount
	for rows.Next() {
		var c domain.LearnerDueCount
		if err := rows.Scan(&c.LearnerID, &c.DueCount); err != nil {
			return nil, fmt.Errorf("scan due count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due counts: %w", err)
	}

	return counts, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) selectByID(learnerID, itemID uuid.UUID) squirrel.SelectBuilder {
	return builder.Select(columns...).From(table).
		Where(squirrel.Eq{"id": itemID, "learner_id": learnerID})
}

type sqlizer interface {
	ToSql() (string, []any, error)
}

func (r *Repo) getOne(ctx context.Context, id uuid.UUID, q sqlizer) (*domain.Item, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	item, err := scanItem(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "item", id)
	}

	return item, nil
}

// scanItem reads one item row in the column order of `columns`.
func scanItem(row pgx.Row) (*domain.Item, error) {
	var (
		item          domain.Item
		status        string
		suspendedFrom *string
	)

	err := row.Scan(
		&item.ID, &item.LearnerID, &item.Lemma, &item.Language,
		&status, &item.IntervalDays, &item.EaseFactor, &item.Repetitions, &item.Lapses,
		&item.CorrectUses, &item.TotalUses,
		&item.LastReviewedAt, &item.NextReviewAt, &suspendedFrom,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Status = domain.ItemStatus(status)
	if suspendedFrom != nil {
		s := domain.ItemStatus(*suspendedFrom)
		item.SuspendedFrom = &s
	}

	return &item, nil
}

// suspendedFromColumn maps the nullable status pointer to its column value.
func suspendedFromColumn(s *domain.ItemStatus) *string {
	if s == nil {
		return nil
	}
	v := s.String()
	return &v
}

func columnList() string {
	list := columns[0]
	for _, c := range columns[1:] {
		list += ", " + c
	}
	return list
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

const itemColumns = `id, learner_id, lemma, language,
	status, interval_days, ease_factor, repetitions, lapses,
	correct_uses, total_uses,
	last_reviewed_at, next_review_at, suspended_from,
	created_at, updated_at`

// dueOrder ranks lapsed items first, then new, then everything else.
const dueOrder = `CASE WHEN status = 'LAPSED' THEN 0 WHEN status = 'NEW' THEN 1 ELSE 2 END, next_review_at ASC, id ASC`

// ItemRepo provides item persistence backed by SQLite.
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo creates a new item repository.
func NewItemRepo(db *sql.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// GetByID returns the learner's item by ID.
func (r *ItemRepo) GetByID(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.Item, error) {
	q := querierFromCtx(ctx, r.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND learner_id = ?`,
		itemID.String(), learnerID.String(),
	)
	item, err := scanItem(row)
	if err != nil {
		return nil, mapError(err, "item", itemID)
	}
	return item, nil
}

// GetByIDForUpdate is GetByID. SQLite has no row-level locks; a write
// transaction holds the database lock for its whole duration, which gives
// the same read-modify-write safety the postgres adapter gets from
// SELECT ... FOR UPDATE.
func (r *ItemRepo) GetByIDForUpdate(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.Item, error) {
	return r.GetByID(ctx, learnerID, itemID)
}

// GetByKey returns the item identified by (learner, language, lemma).
func (r *ItemRepo) GetByKey(ctx context.Context, key domain.ItemKey) (*domain.Item, error) {
	q := querierFromCtx(ctx, r.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE learner_id = ? AND language = ? AND lemma = ?`,
		key.LearnerID.String(), key.Language, key.Lemma,
	)
	item, err := scanItem(row)
	if err != nil {
		return nil, mapError(err, "item", key.LearnerID)
	}
	return item, nil
}

// Create inserts a new item and returns it.
func (r *ItemRepo) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	q := querierFromCtx(ctx, r.db)
	_, err := q.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID.String(), item.LearnerID.String(), item.Lemma, item.Language,
		item.Status.String(), item.IntervalDays, item.EaseFactor, item.Repetitions, item.Lapses,
		item.CorrectUses, item.TotalUses,
		nullMicro(item.LastReviewedAt), toMicro(item.NextReviewAt), nullStatus(item.SuspendedFrom),
		toMicro(item.CreatedAt), toMicro(item.UpdatedAt),
	)
	if err != nil {
		return nil, mapError(err, "item", item.ID)
	}
	return r.GetByID(ctx, item.LearnerID, item.ID)
}

// Update persists the mutable fields of an item.
func (r *ItemRepo) Update(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	q := querierFromCtx(ctx, r.db)
	res, err := q.ExecContext(ctx,
		`UPDATE items SET
			status = ?, interval_days = ?, ease_factor = ?, repetitions = ?, lapses = ?,
			correct_uses = ?, total_uses = ?,
			last_reviewed_at = ?, next_review_at = ?, suspended_from = ?,
			updated_at = ?
		 WHERE id = ? AND learner_id = ?`,
		item.Status.String(), item.IntervalDays, item.EaseFactor, item.Repetitions, item.Lapses,
		item.CorrectUses, item.TotalUses,
		nullMicro(item.LastReviewedAt), toMicro(item.NextReviewAt), nullStatus(item.SuspendedFrom),
		time.Now().UTC().UnixMicro(),
		item.ID.String(), item.LearnerID.String(),
	)
	if err != nil {
		return nil, mapError(err, "item", item.ID)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("item %s: rows affected: %w", item.ID, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("item %s: %w", item.ID, domain.ErrNotFound)
	}

	return r.GetByID(ctx, item.LearnerID, item.ID)
}

// ListDue returns up to limit due items for the learner, lapsed first,
// then new, then the rest, most overdue first within each group.
func (r *ItemRepo) ListDue(ctx context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.Item, error) {
	if limit <= 0 {
		return []*domain.Item{}, nil
	}

	q := querierFromCtx(ctx, r.db)
	rows, err := q.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE learner_id = ? AND status <> 'SUSPENDED' AND next_review_at <= ?
		 ORDER BY `+dueOrder+`
		 LIMIT ?`,
		learnerID.String(), toMicro(now), limit,
	)
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
func (r *ItemRepo) CountByStatus(ctx context.Context, learnerID uuid.UUID) (domain.ItemStatusCounts, error) {
	q := querierFromCtx(ctx, r.db)
	rows, err := q.QueryContext(ctx,
		`SELECT status, count(*) FROM items WHERE learner_id = ? GROUP BY status`,
		learnerID.String(),
	)
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
func (r *ItemRepo) CountDue(ctx context.Context, learnerID uuid.UUID, now time.Time) (int, error) {
	q := querierFromCtx(ctx, r.db)
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT count(*) FROM items
		 WHERE learner_id = ? AND status <> 'SUSPENDED' AND next_review_at <= ?`,
		learnerID.String(), toMicro(now),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count due items: %w", err)
	}
	return count, nil
}

// DueCountsByLearner returns due-item counts grouped by learner for the
// reminder scheduler.
func (r *ItemRepo) DueCountsByLearner(ctx context.Context, now time.Time) ([]domain.LearnerDueCount, error) {
	q := querierFromCtx(ctx, r.db)
	rows, err := q.QueryContext(ctx,
		`SELECT learner_id, count(*) FROM items
		 WHERE status <> 'SUSPENDED' AND next_review_at <= ?
		 GROUP BY learner_id ORDER BY learner_id`,
		toMicro(now),
	)
	if err != nil {
		return nil, fmt.Errorf("query due counts: %w", err)
	}
	defer rows.Close()

	var counts []domain.LearnerDueCount
	for rows.Next() {
		var (
			rawID string
			c     domain.LearnerDueCount
		)
		if err := rows.Scan(&rawID, &c.DueCount); err != nil {
			return nil, fmt.Errorf("scan due count: %w", err)
		}
		if c.LearnerID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("parse learner id: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due counts: %w", err)
	}
	return counts, nil
}

// ---------------------------------------------------------------------------
// Scanning and column helpers
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		item           domain.Item
		id, learnerID  string
		status         string
		lastReviewedAt sql.NullInt64
		nextReviewAt   int64
		suspendedFrom  sql.NullString
		createdAt      int64
		updatedAt      int64
	)

	err := row.Scan(
		&id, &learnerID, &item.Lemma, &item.Language,
		&status, &item.IntervalDays, &item.EaseFactor, &item.Repetitions, &item.Lapses,
		&item.CorrectUses, &item.TotalUses,
		&lastReviewedAt, &nextReviewAt, &suspendedFrom,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if item.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse item id: %w", err)
	}
	if item.LearnerID, err = uuid.Parse(learnerID); err != nil {
		return nil, fmt.Errorf("parse learner id: %w", err)
	}

	item.Status = domain.ItemStatus(status)
	if lastReviewedAt.Valid {
		t := fromMicro(lastReviewedAt.Int64)
		item.LastReviewedAt = &t
	}
	item.NextReviewAt = fromMicro(nextReviewAt)
	if suspendedFrom.Valid {
		s := domain.ItemStatus(suspendedFrom.String)
		item.SuspendedFrom = &s
	}
	item.CreatedAt = fromMicro(createdAt)
	item.UpdatedAt = fromMicro(updatedAt)

	return &item, nil
}

// Timestamps are stored as integer Unix microseconds.

func toMicro(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func fromMicro(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}

func nullMicro(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMicro(*t), Valid: true}
}

func nullStatus(s *domain.ItemStatus) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: s.String(), Valid: true}
}

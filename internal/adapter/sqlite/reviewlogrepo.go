package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

// ReviewLogRepo provides review log persistence backed by SQLite.
// The pre-review snapshot is stored as a JSON text column.
type ReviewLogRepo struct {
	db *sql.DB
}

// NewReviewLogRepo creates a new review log repository.
func NewReviewLogRepo(db *sql.DB) *ReviewLogRepo {
	return &ReviewLogRepo{db: db}
}

// Create inserts a new review log and returns it.
func (r *ReviewLogRepo) Create(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error) {
	prevState, err := marshalPrevState(log.PrevState)
	if err != nil {
		return nil, fmt.Errorf("review_log marshal prev_state: %w", err)
	}

	q := querierFromCtx(ctx, r.db)
	_, err = q.ExecContext(ctx,
		`INSERT INTO review_logs (id, item_id, learner_id, quality, prev_state, reviewed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		log.ID.String(), log.ItemID.String(), log.LearnerID.String(),
		int(log.Quality), prevState, toMicro(log.ReviewedAt),
	)
	if err != nil {
		return nil, mapError(err, "review_log", log.ID)
	}

	created := *log
	return &created, nil
}

// ListByItemID returns review logs for an item, newest first, with
// limit/offset pagination. Returns logs, total count, and error.
func (r *ReviewLogRepo) ListByItemID(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*domain.ReviewLog, int, error) {
	q := querierFromCtx(ctx, r.db)

	var total int
	err := q.QueryRowContext(ctx,
		`SELECT count(*) FROM review_logs WHERE item_id = ?`, itemID.String(),
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count review_logs by item_id: %w", err)
	}

	effectiveLimit := limit
	if effectiveLimit <= 0 {
		effectiveLimit = 2147483647
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, item_id, learner_id, quality, prev_state, reviewed_at
		 FROM review_logs
		 WHERE item_id = ?
		 ORDER BY reviewed_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		itemID.String(), effectiveLimit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list review_logs by item_id: %w", err)
	}
	defer rows.Close()

	logs := []*domain.ReviewLog{}
	for rows.Next() {
		var (
			rl                      domain.ReviewLog
			id, itemIDs, learnerIDs string
			quality                 int
			prevState               sql.NullString
			reviewedAt              int64
		)
		if err := rows.Scan(&id, &itemIDs, &learnerIDs, &quality, &prevState, &reviewedAt); err != nil {
			return nil, 0, fmt.Errorf("scan review_log: %w", err)
		}

		if rl.ID, err = uuid.Parse(id); err != nil {
			return nil, 0, fmt.Errorf("parse review_log id: %w", err)
		}
		if rl.ItemID, err = uuid.Parse(itemIDs); err != nil {
			return nil, 0, fmt.Errorf("parse item id: %w", err)
		}
		if rl.LearnerID, err = uuid.Parse(learnerIDs); err != nil {
			return nil, 0, fmt.Errorf("parse learner id: %w", err)
		}

		rl.Quality = domain.Quality(quality)
		rl.ReviewedAt = fromMicro(reviewedAt)

		if prevState.Valid {
			ps, err := unmarshalPrevState([]byte(prevState.String))
			if err != nil {
				return nil, 0, fmt.Errorf("review_log %s: %w", rl.ID, err)
			}
			rl.PrevState = ps
		}

		logs = append(logs, &rl)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review_logs: %w", err)
	}

	return logs, total, nil
}

// ---------------------------------------------------------------------------
// JSON serialization for ItemSnapshot (prev_state)
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

func marshalPrevState(s *domain.ItemSnapshot) (sql.NullString, error) {
	if s == nil {
		return sql.NullString{}, nil
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

	data, err := json.Marshal(j)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

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

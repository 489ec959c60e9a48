package rest

import (
	"time"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
	"github.com/lexloop/vocabtutor-backend/internal/service/study"
)

type itemResponse struct {
	ID             string     `json:"id"`
	Lemma          string     `json:"lemma"`
	Language       string     `json:"language"`
	Status         string     `json:"status"`
	IntervalDays   int        `json:"interval_days"`
	EaseFactor     float64    `json:"ease_factor"`
	Repetitions    int        `json:"repetitions"`
	Lapses         int        `json:"lapses"`
	CorrectUses    int        `json:"correct_uses"`
	TotalUses      int        `json:"total_uses"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	SuspendedFrom  *string    `json:"suspended_from,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toItemResponse(item *domain.Item) itemResponse {
	resp := itemResponse{
		ID:             item.ID.String(),
		Lemma:          item.Lemma,
		Language:       item.Language,
		Status:         string(item.Status),
		IntervalDays:   item.IntervalDays,
		EaseFactor:     item.EaseFactor,
		Repetitions:    item.Repetitions,
		Lapses:         item.Lapses,
		CorrectUses:    item.CorrectUses,
		TotalUses:      item.TotalUses,
		LastReviewedAt: item.LastReviewedAt,
		NextReviewAt:   item.NextReviewAt,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
	if item.SuspendedFrom != nil {
		s := string(*item.SuspendedFrom)
		resp.SuspendedFrom = &s
	}
	return resp
}

func toItemResponses(items []*domain.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

type snapshotResponse struct {
	Status         string     `json:"status"`
	IntervalDays   int        `json:"interval_days"`
	EaseFactor     float64    `json:"ease_factor"`
	Repetitions    int        `json:"repetitions"`
	Lapses         int        `json:"lapses"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   time.Time  `json:"next_review_at"`
}

type reviewLogResponse struct {
	ID         string            `json:"id"`
	ItemID     string            `json:"item_id"`
	Quality    int               `json:"quality"`
	PrevState  *snapshotResponse `json:"prev_state,omitempty"`
	ReviewedAt time.Time         `json:"reviewed_at"`
}

func toReviewLogResponse(log *domain.ReviewLog) reviewLogResponse {
	resp := reviewLogResponse{
		ID:         log.ID.String(),
		ItemID:     log.ItemID.String(),
		Quality:    int(log.Quality),
		ReviewedAt: log.ReviewedAt,
	}
	if log.PrevState != nil {
		resp.PrevState = &snapshotResponse{
			Status:         string(log.PrevState.Status),
			IntervalDays:   log.PrevState.IntervalDays,
			EaseFactor:     log.PrevState.EaseFactor,
			Repetitions:    log.PrevState.Repetitions,
			Lapses:         log.PrevState.Lapses,
			LastReviewedAt: log.PrevState.LastReviewedAt,
			NextReviewAt:   log.PrevState.NextReviewAt,
		}
	}
	return resp
}

type statsResponse struct {
	New       int `json:"new"`
	Learning  int `json:"learning"`
	Learned   int `json:"learned"`
	Lapsed    int `json:"lapsed"`
	Suspended int `json:"suspended"`
	Total     int `json:"total"`
	DueCount  int `json:"due_count"`
}

func toStatsResponse(stats *study.Stats) statsResponse {
	return statsResponse{
		New:       stats.Counts.New,
		Learning:  stats.Counts.Learning,
		Learned:   stats.Counts.Learned,
		Lapsed:    stats.Counts.Lapsed,
		Suspended: stats.Counts.Suspended,
		Total:     stats.Counts.Total(),
		DueCount:  stats.DueCount,
	}
}

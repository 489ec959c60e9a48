package study

import (
	"sort"
	"time"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

// dueTier returns the priority tier of a due item: forgotten items surface
// before anything else, never-reviewed items before established ones.
func dueTier(status domain.ItemStatus) int {
	switch status {
	case domain.ItemStatusLapsed:
		return 0
	case domain.ItemStatusNew:
		return 1
	default:
		return 2
	}
}

// OrderDue filters items down to those due at now (suspended excluded),
// orders them by review priority, and truncates to limit.
//
// Priority: LAPSED first, then NEW, then everything else; within a tier
// ascending by NextReviewAt (most overdue first). The sort is stable so the
// same inputs always produce the same order; review sessions must be
// reproducible. A limit <= 0 returns an empty slice, never "unlimited".
func OrderDue(items []*domain.Item, now time.Time, limit int) []*domain.Item {
	if limit <= 0 {
		return []*domain.Item{}
	}

	due := make([]*domain.Item, 0, len(items))
	for _, it := range items {
		if it.IsDue(now) {
			due = append(due, it)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		ti, tj := dueTier(due[i].Status), dueTier(due[j].Status)
		if ti != tj {
			return ti < tj
		}
		return due[i].NextReviewAt.Before(due[j].NextReviewAt)
	})

	if len(due) > limit {
		due = due[:limit]
	}
	return due
}

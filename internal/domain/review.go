package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewLog records a single review event for an item.
type ReviewLog struct {
	ID         uuid.UUID
	ItemID     uuid.UUID
	LearnerID  uuid.UUID
	Quality    Quality
	PrevState  *ItemSnapshot
	ReviewedAt time.Time
}

// ItemSnapshot captures the scheduling state of an item before a review.
type ItemSnapshot struct {
	Status         ItemStatus
	IntervalDays   int
	EaseFactor     float64
	Repetitions    int
	Lapses         int
	LastReviewedAt *time.Time
	NextReviewAt   time.Time
}

// SnapshotOf copies the scheduling fields of an item.
func SnapshotOf(item *Item) *ItemSnapshot {
	return &ItemSnapshot{
		Status:         item.Status,
		IntervalDays:   item.IntervalDays,
		EaseFactor:     item.EaseFactor,
		Repetitions:    item.Repetitions,
		Lapses:         item.Lapses,
		LastReviewedAt: item.LastReviewedAt,
		NextReviewAt:   item.NextReviewAt,
	}
}

// UsageUpdate is a closed set of usage-counter operations. The sealed
// marker method keeps the set exhaustive: a new variant that is not
// handled everywhere fails at the match site instead of being silently
// ignored.
type UsageUpdate interface {
	usageUpdate()
}

// IncrementTotal bumps the total-uses counter by one.
type IncrementTotal struct{}

func (IncrementTotal) usageUpdate() {}

// IncrementCorrect bumps both the correct-uses and total-uses counters.
type IncrementCorrect struct{}

func (IncrementCorrect) usageUpdate() {}

// ApplyUsage applies a sequence of usage updates to the item's counters.
// An unrecognized variant is a validation error, never a no-op.
func ApplyUsage(item *Item, updates []UsageUpdate) error {
	for _, u := range updates {
		switch u.(type) {
		case IncrementTotal:
			item.TotalUses++
		case IncrementCorrect:
			item.CorrectUses++
			item.TotalUses++
		default:
			return NewValidationError("updates", "unknown usage update")
		}
	}
	return nil
}

// LearnerDueCount pairs a learner with the number of items currently
// awaiting review.
type LearnerDueCount struct {
	LearnerID uuid.UUID
	DueCount  int
}

// ItemStatusCounts holds per-status item counts for a learner.
type ItemStatusCounts struct {
	New       int
	Learning  int
	Learned   int
	Lapsed    int
	Suspended int
}

// Total returns the number of tracked items across all statuses.
func (c ItemStatusCounts) Total() int {
	return c.New + c.Learning + c.Learned + c.Lapsed + c.Suspended
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultEaseFactor is the SM-2 starting ease for a freshly tracked item.
const DefaultEaseFactor = 2.5

// MinEaseFactor is the SM-2 ease floor. The transition never lets ease
// drop below it.
const MinEaseFactor = 1.3

// Item is the scheduling state of one vocabulary item for one learner.
// Identity is (learner_id, language, lemma); two learners or two target
// languages never share state for the "same" word.
type Item struct {
	ID        uuid.UUID
	LearnerID uuid.UUID
	Lemma     string
	Language  string

	Status       ItemStatus
	IntervalDays int
	EaseFactor   float64
	Repetitions  int
	Lapses       int

	// Usage counters from conversation analysis. They feed quality
	// derivation but are not part of the SM-2 transition itself.
	CorrectUses int
	TotalUses   int

	LastReviewedAt *time.Time
	NextReviewAt   time.Time

	// SuspendedFrom holds the status the item resumes to on unsuspend.
	// Set only while Status == SUSPENDED.
	SuspendedFrom *ItemStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDue reports whether the item needs review at the given time.
// Suspended items are never due.
func (i *Item) IsDue(now time.Time) bool {
	if i.Status == ItemStatusSuspended {
		return false
	}
	return !i.NextReviewAt.After(now)
}

// ItemKey identifies an item within a learner's vocabulary.
type ItemKey struct {
	LearnerID uuid.UUID
	Language  string
	Lemma     string
}

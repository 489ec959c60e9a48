// Package sm2 implements the SuperMemo-2 review transition used to
// schedule vocabulary reviews. The functions are pure: no I/O, no clock;
// callers pass "now" explicitly.
package sm2

import (
	"fmt"
	"math"
	"time"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

// State holds the scheduling state of one vocabulary item.
type State struct {
	Status         domain.ItemStatus
	IntervalDays   int
	EaseFactor     float64
	Repetitions    int
	Lapses         int
	LastReviewedAt *time.Time
	NextReviewAt   time.Time
}

// NewState returns the state of a freshly tracked item: one-day interval,
// default ease, due in 24 hours.
func NewState(now time.Time) State {
	return State{
		Status:       domain.ItemStatusNew,
		IntervalDays: 1,
		EaseFactor:   domain.DefaultEaseFactor,
		Repetitions:  0,
		Lapses:       0,
		NextReviewAt: now.Add(24 * time.Hour),
	}
}

// Apply is the SM-2 review transition: given the current state and a recall
// quality, it returns the next state. The input is never mutated.
//
// Failure (quality < 3) resets repetitions and the interval, counts a lapse,
// and leaves the ease factor untouched. Ease is only adjusted on successful
// recall; the original system diverged from textbook SM-2 here, and that
// behavior is kept on purpose.
//
// Success grows the interval 1, 6, then round(interval * ease), with the ease
// update applied first: ease += 0.1 − (5−q)(0.08 + (5−q)·0.02), floored at
// 1.3. There is no ceiling on either interval or ease.
func Apply(s State, quality domain.Quality, now time.Time) (State, error) {
	if !quality.IsValid() {
		return State{}, fmt.Errorf("quality %d out of range [0,5]: %w", quality, domain.ErrValidation)
	}

	next := s

	if quality.IsSuccess() {
		ease := s.EaseFactor + easeDelta(quality)
		if ease < domain.MinEaseFactor {
			ease = domain.MinEaseFactor
		}
		next.EaseFactor = ease

		switch s.Repetitions {
		case 0:
			next.IntervalDays = 1
		case 1:
			next.IntervalDays = 6
		default:
			next.IntervalDays = int(math.Round(float64(s.IntervalDays) * ease))
		}
		if next.IntervalDays < 1 {
			next.IntervalDays = 1
		}

		next.Repetitions = s.Repetitions + 1

		if next.Repetitions >= 3 && quality >= domain.QualityCorrectHesitant {
			next.Status = domain.ItemStatusLearned
		} else {
			next.Status = domain.ItemStatusLearning
		}
	} else {
		next.Repetitions = 0
		next.IntervalDays = 1
		next.Lapses = s.Lapses + 1

		// A failure only counts as a lapse once the item had been
		// established; during initial acquisition it stays LEARNING.
		if s.Repetitions > 0 {
			next.Status = domain.ItemStatusLapsed
		} else {
			next.Status = domain.ItemStatusLearning
		}
	}

	reviewedAt := now
	next.LastReviewedAt = &reviewedAt
	next.NextReviewAt = now.Add(time.Duration(next.IntervalDays) * 24 * time.Hour)

	return next, nil
}

// easeDelta is the SM-2 ease adjustment for a successful recall:
// 0.1 − (5−q)(0.08 + (5−q)·0.02). Strictly increasing in quality over
// {3,4,5}: −0.14, 0, +0.1.
func easeDelta(quality domain.Quality) float64 {
	miss := float64(5 - quality)
	return 0.1 - miss*(0.08+miss*0.02)
}

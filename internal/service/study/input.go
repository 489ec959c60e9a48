package study

import (
	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

// TrackWordInput holds the parameters for tracking a vocabulary item.
type TrackWordInput struct {
	Lemma    string
	Language string
}

// Validate checks all fields and collects all errors.
func (i *TrackWordInput) Validate() error {
	var errs []domain.FieldError

	if domain.NormalizeLemma(i.Lemma) == "" {
		errs = append(errs, domain.FieldError{Field: "lemma", Message: "required"})
	}
	if len(i.Lemma) > 100 {
		errs = append(errs, domain.FieldError{Field: "lemma", Message: "max 100 characters"})
	}
	if domain.NormalizeLanguage(i.Language) == "" {
		errs = append(errs, domain.FieldError{Field: "language", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ReviewItemInput holds the parameters for reviewing an item. Quality is
// given either directly or derived from usage counts, never both.
type ReviewItemInput struct {
	ItemID uuid.UUID

	Quality *domain.Quality

	// Usage-derived grading: quality computed from how often the word was
	// used correctly in conversation since the last review.
	CorrectUses *int
	TotalUses   *int
}

// Validate checks all fields and collects all errors.
func (i *ReviewItemInput) Validate() error {
	var errs []domain.FieldError

	if i.ItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}

	hasQuality := i.Quality != nil
	hasUsage := i.CorrectUses != nil || i.TotalUses != nil

	switch {
	case hasQuality && hasUsage:
		errs = append(errs, domain.FieldError{Field: "quality", Message: "give either quality or usage counts, not both"})
	case !hasQuality && !hasUsage:
		errs = append(errs, domain.FieldError{Field: "quality", Message: "required"})
	case hasQuality:
		if !i.Quality.IsValid() {
			errs = append(errs, domain.FieldError{Field: "quality", Message: "must be an integer between 0 and 5"})
		}
	default:
		if i.CorrectUses == nil || i.TotalUses == nil {
			errs = append(errs, domain.FieldError{Field: "total_uses", Message: "correct_uses and total_uses required together"})
		} else {
			if *i.TotalUses < 0 || *i.CorrectUses < 0 {
				errs = append(errs, domain.FieldError{Field: "total_uses", Message: "must be non-negative"})
			}
			if *i.CorrectUses > *i.TotalUses {
				errs = append(errs, domain.FieldError{Field: "correct_uses", Message: "cannot exceed total_uses"})
			}
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GetQueueInput holds the parameters for fetching the review queue.
type GetQueueInput struct {
	Limit int
}

// Validate checks all fields and collects all errors.
func (i *GetQueueInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RecordUsageInput holds the parameters for recording word usage events.
type RecordUsageInput struct {
	ItemID  uuid.UUID
	Updates []domain.UsageUpdate
}

// Validate checks all fields and collects all errors.
func (i *RecordUsageInput) Validate() error {
	var errs []domain.FieldError

	if i.ItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}
	if len(i.Updates) == 0 {
		errs = append(errs, domain.FieldError{Field: "updates", Message: "at least one update required"})
	}
	if len(i.Updates) > 100 {
		errs = append(errs, domain.FieldError{Field: "updates", Message: "max 100 updates per request"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListReviewsInput holds the parameters for listing an item's review history.
type ListReviewsInput struct {
	ItemID uuid.UUID
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i *ListReviewsInput) Validate() error {
	var errs []domain.FieldError

	if i.ItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}
	if i.Limit < 0 || i.Limit > 500 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 500"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

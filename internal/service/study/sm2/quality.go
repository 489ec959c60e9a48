package sm2

import "github.com/lexloop/vocabtutor-backend/internal/domain"

// QualityFromUsage derives a 0–5 recall quality from conversational usage
// counters. Used when the caller reports how a word was used in free
// conversation rather than grading a flashcard directly.
func QualityFromUsage(correctUses, totalUses int) domain.Quality {
	if totalUses <= 0 {
		return domain.QualityBlackout
	}

	ratio := float64(correctUses) / float64(totalUses)
	switch {
	case ratio >= 1.0:
		return domain.QualityPerfect
	case ratio >= 0.9:
		return domain.QualityCorrectHesitant
	case ratio >= 0.7:
		return domain.QualityCorrectDifficult
	case ratio >= 0.5:
		return domain.QualityIncorrectFamiliar
	case ratio >= 0.3:
		return domain.QualityIncorrect
	default:
		return domain.QualityBlackout
	}
}

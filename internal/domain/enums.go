package domain

// ItemStatus is the lifecycle classification of a vocabulary item.
// Apart from SUSPENDED it is derived by the review transition, never set
// directly from outside.
type ItemStatus string

const (
	ItemStatusNew       ItemStatus = "NEW"
	ItemStatusLearning  ItemStatus = "LEARNING"
	ItemStatusLearned   ItemStatus = "LEARNED"
	ItemStatusLapsed    ItemStatus = "LAPSED"
	ItemStatusSuspended ItemStatus = "SUSPENDED"
)

func (s ItemStatus) String() string { return string(s) }

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusNew, ItemStatusLearning, ItemStatusLearned, ItemStatusLapsed, ItemStatusSuspended:
		return true
	}
	return false
}

// Quality is the learner's recall quality on the SM-2 0–5 scale.
type Quality int

const (
	// QualityBlackout: complete blackout, no recall at all.
	QualityBlackout Quality = 0
	// QualityIncorrect: wrong, but the answer was recognized once shown.
	QualityIncorrect Quality = 1
	// QualityIncorrectFamiliar: wrong, but the answer felt easy to remember.
	QualityIncorrectFamiliar Quality = 2
	// QualityCorrectDifficult: correct with significant effort.
	QualityCorrectDifficult Quality = 3
	// QualityCorrectHesitant: correct after some hesitation.
	QualityCorrectHesitant Quality = 4
	// QualityPerfect: correct with perfect recall.
	QualityPerfect Quality = 5
)

// PassThreshold is the lowest quality counted as a successful recall.
const PassThreshold = QualityCorrectDifficult

func (q Quality) IsValid() bool { return q >= QualityBlackout && q <= QualityPerfect }

// IsSuccess reports whether the quality counts as a successful recall.
func (q Quality) IsSuccess() bool { return q >= PassThreshold }

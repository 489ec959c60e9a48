package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
	"github.com/lexloop/vocabtutor-backend/internal/service/study"
)

// studyService defines the minimal interface needed by StudyHandler.
type studyService interface {
	TrackWord(ctx context.Context, input study.TrackWordInput) (*domain.Item, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*domain.Item, error)
	GetItemByKey(ctx context.Context, language, lemma string) (*domain.Item, error)
	ReviewItem(ctx context.Context, input study.ReviewItemInput) (*domain.Item, error)
	GetReviewQueue(ctx context.Context, input study.GetQueueInput) ([]*domain.Item, error)
	Suspend(ctx context.Context, itemID uuid.UUID) (*domain.Item, error)
	Unsuspend(ctx context.Context, itemID uuid.UUID) (*domain.Item, error)
	RecordUsage(ctx context.Context, input study.RecordUsageInput) (*domain.Item, error)
	ListReviews(ctx context.Context, input study.ListReviewsInput) ([]*domain.ReviewLog, int, error)
	GetStats(ctx context.Context) (*study.Stats, error)
}

// StudyHandler serves the vocabulary study REST endpoints.
type StudyHandler struct {
	svc studyService
	log *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(svc studyService, logger *slog.Logger) *StudyHandler {
	return &StudyHandler{svc: svc, log: logger.With("handler", "study")}
}

func (h *StudyHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if writeDomainError(w, err) {
		return
	}
	h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// itemIDFromPath parses the {id} path segment. A malformed UUID is
// reported as 400 without reaching the service.
func itemIDFromPath(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

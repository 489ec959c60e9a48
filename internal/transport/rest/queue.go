package rest

import (
	"net/http"

	"github.com/lexloop/vocabtutor-backend/internal/service/study"
)

type queueResponse struct {
	Items []itemResponse `json:"items"`
}

// Queue handles GET /api/v1/queue?limit=. Items come back in review
// order: lapsed first, then new, then everything else by due time.
func (h *StudyHandler) Queue(w http.ResponseWriter, r *http.Request) {
	limit, ok := intQueryParam(r, "limit")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	items, err := h.svc.GetReviewQueue(r.Context(), study.GetQueueInput{Limit: limit})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, queueResponse{Items: toItemResponses(items)})
}

// Stats handles GET /api/v1/stats.
func (h *StudyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetStats(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatsResponse(stats))
}

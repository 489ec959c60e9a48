package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
	"github.com/lexloop/vocabtutor-backend/internal/service/study"
)

type reviewRequest struct {
	Quality     *int `json:"quality"`
	CorrectUses *int `json:"correct_uses"`
	TotalUses   *int `json:"total_uses"`
}

// Review handles POST /api/v1/items/{id}/review. The caller supplies
// either an explicit quality grade or usage counts to derive one from.
func (h *StudyHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := study.ReviewItemInput{
		ItemID:      id,
		CorrectUses: req.CorrectUses,
		TotalUses:   req.TotalUses,
	}
	if req.Quality != nil {
		q := domain.Quality(*req.Quality)
		input.Quality = &q
	}

	item, err := h.svc.ReviewItem(r.Context(), input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

type usageRequest struct {
	Updates []string `json:"updates"`
}

// Usage handles POST /api/v1/items/{id}/usage. Updates are applied in
// order; "correct" bumps both counters, "total" only the total.
func (h *StudyHandler) Usage(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req usageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updates := make([]domain.UsageUpdate, 0, len(req.Updates))
	for _, u := range req.Updates {
		switch u {
		case "total":
			updates = append(updates, domain.IncrementTotal{})
		case "correct":
			updates = append(updates, domain.IncrementCorrect{})
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown usage update %q", u))
			return
		}
	}

	item, err := h.svc.RecordUsage(r.Context(), study.RecordUsageInput{
		ItemID:  id,
		Updates: updates,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

type reviewListResponse struct {
	Reviews []reviewLogResponse `json:"reviews"`
	Total   int                 `json:"total"`
}

// ListReviews handles GET /api/v1/items/{id}/reviews?limit=&offset=.
// History is returned newest first.
func (h *StudyHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	limit, ok := intQueryParam(r, "limit")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, ok := intQueryParam(r, "offset")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	logs, total, err := h.svc.ListReviews(r.Context(), study.ListReviewsInput{
		ItemID: id,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := reviewListResponse{
		Reviews: make([]reviewLogResponse, 0, len(logs)),
		Total:   total,
	}
	for _, log := range logs {
		resp.Reviews = append(resp.Reviews, toReviewLogResponse(log))
	}

	writeJSON(w, http.StatusOK, resp)
}

// intQueryParam parses an optional integer query parameter. A missing
// parameter is zero; range checks belong to the service inputs.
func intQueryParam(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

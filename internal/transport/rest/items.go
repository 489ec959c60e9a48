package rest

import (
	"encoding/json"
	"net/http"

	"github.com/lexloop/vocabtutor-backend/internal/service/study"
)

type trackWordRequest struct {
	Lemma    string `json:"lemma"`
	Language string `json:"language"`
}

// Track handles POST /api/v1/items. Tracking an already-tracked word
// returns the existing item, so the endpoint is safe to retry.
func (h *StudyHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req trackWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.svc.TrackWord(r.Context(), study.TrackWordInput{
		Lemma:    req.Lemma,
		Language: req.Language,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// Get handles GET /api/v1/items/{id}.
func (h *StudyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// Lookup handles GET /api/v1/items/lookup?language=...&lemma=...
func (h *StudyHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	item, err := h.svc.GetItemByKey(r.Context(), q.Get("language"), q.Get("lemma"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// Suspend handles POST /api/v1/items/{id}/suspend.
func (h *StudyHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.svc.Suspend(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// Unsuspend handles POST /api/v1/items/{id}/unsuspend.
func (h *StudyHandler) Unsuspend(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.svc.Unsuspend(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

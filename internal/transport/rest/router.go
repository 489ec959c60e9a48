package rest

import "net/http"

// NewRouter registers all REST routes on a fresh mux. Cross-cutting
// middleware (request ID, auth, logging) is applied by the caller
// around the returned mux.
func NewRouter(health *HealthHandler, study *StudyHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("POST /api/v1/items", study.Track)
	mux.HandleFunc("GET /api/v1/items/lookup", study.Lookup)
	mux.HandleFunc("GET /api/v1/items/{id}", study.Get)
	mux.HandleFunc("POST /api/v1/items/{id}/review", study.Review)
	mux.HandleFunc("POST /api/v1/items/{id}/usage", study.Usage)
	mux.HandleFunc("POST /api/v1/items/{id}/suspend", study.Suspend)
	mux.HandleFunc("POST /api/v1/items/{id}/unsuspend", study.Unsuspend)
	mux.HandleFunc("GET /api/v1/items/{id}/reviews", study.ListReviews)
	mux.HandleFunc("GET /api/v1/queue", study.Queue)
	mux.HandleFunc("GET /api/v1/stats", study.Stats)

	return mux
}

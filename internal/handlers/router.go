package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"podcast-repurposer/internal/middleware"
)

// Router wires every route. authMW guards everything except the health
// check, the public feed and newsletter signup; limiter applies to /process only.
func (h *Handlers) Router(authMW mux.MiddlewareFunc, limiter *middleware.RateLimiterMiddleware) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/rss/{uuid}", h.GetRSSFeed).Methods(http.MethodGet)
	r.HandleFunc("/newsletter", h.Subscribe).Methods(http.MethodPost)

	api := r.NewRoute().Subrouter()
	api.Use(authMW)

	api.Handle("/process", limiter.Middleware(http.HandlerFunc(h.Process))).Methods(http.MethodPost)
	api.HandleFunc("/podcasts", h.CreatePodcast).Methods(http.MethodPost)
	api.HandleFunc("/podcasts/{id}", h.GetPodcast).Methods(http.MethodGet)
	api.HandleFunc("/content-outputs", h.UpdateContentOutput).Methods(http.MethodPatch)
	api.HandleFunc("/me", h.GetMe).Methods(http.MethodGet)
	api.HandleFunc("/profile", h.UpdateProfile).Methods(http.MethodPatch)
	api.HandleFunc("/notifications", h.ListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications", h.UpdateNotifications).Methods(http.MethodPatch)

	return r
}

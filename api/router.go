package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/notifyd/pkg/requestid"
)

// Router assembles the service routes with request-ID propagation and panic
// recovery. The health handler is injected so the binary can wire readiness
// checks against its real dependencies.
func Router(h *Handler, health http.HandlerFunc) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Post("/create", h.Create)
	r.Post("/read", h.Read)
	r.Get("/list", h.List)
	if health != nil {
		r.Get("/health", health)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}

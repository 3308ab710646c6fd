package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires all routes. The metrics handler is passed in so the
// server owns the Prometheus registry.
func NewRouter(h *Handler, metrics http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics)

	r.Route("/app", func(r chi.Router) {
		r.Post("/conversation/new", h.NewConversation)
		r.Post("/conversation/{conversationID}/add", h.AddTurn)

		r.Route("/api", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Get("/users", h.ListUsers)
			r.Get("/users/{userID}", h.GetUser)
			r.Put("/users/{userID}", h.UpdateUser)
			r.Delete("/users/{userID}", h.DeleteUser)
			r.Post("/create_conversation/{userID}", h.CreateConversation)
			r.Get("/conversations/{conversationID}", h.GetConversation)
			r.Get("/conversation_ids/{userID}", h.GetConversationIDs)
			r.Get("/conversation_name/{userID}", h.GetConversationNames)
		})
	})
	return r
}

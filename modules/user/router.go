package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handle returns the account routes, ready to be mounted:
//
//	r := chi.NewRouter()
//	r.Mount("/user", handler.Handle())
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Get("/all", h.listAll)
	r.Put("/update", h.update)

	return r
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kurtniemi/kurtclone/internal/handler/webhook"
)

// NewRouter wires HTTP routes to the webhook event router.
func NewRouter(webhookHandler *webhook.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	webhookHandler.RegisterRoutes(r)

	return r
}

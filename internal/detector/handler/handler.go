// Package handler exposes the detector's polling entry point over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Poller enters the Polling phase for the session in ctx.
type Poller interface {
	StartPolling(ctx context.Context)
	Polling() bool
}

// Handler handles document polling endpoints.
type Handler struct {
	logger *slog.Logger
	poller Poller
}

// New creates a detector Handler.
func New(poller Poller, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, poller: poller}
}

// Register registers the polling route with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/documents/poll", h.handleStartPolling)
}

// handleStartPolling is invoked by calling services after a document mutation.
// Starting while already polling is a no-op, so the endpoint is idempotent.
func (h *Handler) handleStartPolling(w http.ResponseWriter, r *http.Request) {
	h.poller.StartPolling(r.Context())
	w.WriteHeader(http.StatusAccepted)
}

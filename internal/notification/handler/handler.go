// Package handler exposes the notification feed over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"complimart/internal/notification"
	"complimart/internal/notification/dispatcher"
	"complimart/internal/transport/http/shared"
	id "complimart/pkg/domain"
	derrors "complimart/pkg/domain-errors"
	"complimart/pkg/platform/middleware/request"
)

// FeedService defines the feed operations the handler delegates to.
type FeedService interface {
	ComputeFeed(ctx context.Context) ([]notification.Notification, error)
	Acknowledge(ctx context.Context, notificationID string) error
	AcknowledgeAll(ctx context.Context) error
	ResetIdentity(ctx context.Context) error
	RequestManualRefresh(ctx context.Context) error
}

// Dispatcher accepts domain action triggers from calling services.
type Dispatcher interface {
	Dispatch(ctx context.Context, trig dispatcher.Trigger) (*notification.Notification, error)
}

// Handler handles notification endpoints.
type Handler struct {
	logger     *slog.Logger
	feed       FeedService
	dispatcher Dispatcher
}

// New creates a notification Handler.
func New(feed FeedService, disp Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		logger:     logger,
		feed:       feed,
		dispatcher: disp,
	}
}

// Register registers the notification routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.handleFeed)
	r.Post("/notifications/{id}/ack", h.handleAcknowledge)
	r.Post("/notifications/ack-all", h.handleAcknowledgeAll)
	r.Post("/notifications/refresh", h.handleRefresh)
	r.Post("/notifications/reset", h.handleReset)
	r.Post("/notifications/trigger", h.handleTrigger)
}

type feedResponse struct {
	Notifications []notification.Notification `json:"notifications"`
	Count         int                         `json:"count"`
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	feed, err := h.feed.ComputeFeed(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "feed computation failed",
			"request_id", request.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, derrors.New(derrors.CodeInternal, "failed to compute feed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, feedResponse{
		Notifications: feed,
		Count:         len(feed),
	})
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.feed.Acknowledge(ctx, chi.URLParam(r, "id")); err != nil {
		h.logger.WarnContext(ctx, "acknowledge failed",
			"request_id", request.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAcknowledgeAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.feed.AcknowledgeAll(ctx); err != nil {
		h.logger.ErrorContext(ctx, "acknowledge-all failed",
			"request_id", request.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.feed.RequestManualRefresh(ctx); err != nil {
		h.logger.ErrorContext(ctx, "manual refresh failed",
			"request_id", request.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.feed.ResetIdentity(ctx); err != nil {
		h.logger.ErrorContext(ctx, "identity reset failed",
			"request_id", request.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type triggerRequest struct {
	Action     string             `json:"action"`
	TargetRole string             `json:"targetRole,omitempty"`
	Payload    dispatcher.Payload `json:"payload"`
}

type triggerResponse struct {
	Notification *notification.Notification `json:"notification"`
}

// handleTrigger accepts a domain action from calling services. Unknown action
// kinds and cross-role triggers are accepted but produce nothing, mirroring
// the dispatcher's silent no-op contract.
func (h *Handler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid trigger request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, derrors.New(derrors.CodeInvalidInput, "invalid request body"))
		return
	}

	var targetRole id.Role
	if req.TargetRole != "" {
		role, err := id.ParseRole(req.TargetRole)
		if err != nil {
			shared.WriteError(w, derrors.New(derrors.CodeInvalidInput, "invalid target role"))
			return
		}
		targetRole = role
	}

	n, err := h.dispatcher.Dispatch(ctx, dispatcher.Trigger{
		Action:     notification.ActionKind(req.Action),
		TargetRole: targetRole,
		Payload:    req.Payload,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "trigger dispatch failed",
			"request_id", requestID,
			"action", req.Action,
			"error", err.Error(),
		)
		shared.WriteError(w, derrors.New(derrors.CodeInternal, "failed to dispatch trigger"))
		return
	}
	if n == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, triggerResponse{Notification: n})
}

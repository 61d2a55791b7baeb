// Package dispatcher converts domain actions into persisted notifications.
// The mapping from action kind to priority, rendering kind, and message text
// is a static table; everything else the dispatcher does is guard work:
// cross-role isolation, identity stamping, and the store write.
package dispatcher

import (
	"context"
	"log/slog"
	"sync"

	"complimart/internal/identity"
	"complimart/internal/notification"
	"complimart/internal/notification/metrics"
	"complimart/internal/notification/signal"
	id "complimart/pkg/domain"
	derrors "complimart/pkg/domain-errors"
	"complimart/pkg/requestcontext"
)

// Store is the slice of the notification store the dispatcher needs.
type Store interface {
	Load(ctx context.Context, identity string) (notification.StoreState, error)
	Save(ctx context.Context, identity string, state notification.StoreState) error
}

// Payload carries the triggering domain object's details. Fields are optional;
// each action kind reads the ones it renders.
type Payload struct {
	DocumentID      string  `json:"documentId,omitempty"`
	DocumentName    string  `json:"documentName,omitempty"`
	EngagementID    string  `json:"engagementId,omitempty"`
	EngagementTitle string  `json:"engagementTitle,omitempty"`
	Status          string  `json:"status,omitempty"`
	OldScore        float64 `json:"oldScore,omitempty"`
	NewScore        float64 `json:"newScore,omitempty"`
	DaysUntilExpiry int     `json:"daysUntilExpiry,omitempty"`
}

// Trigger is one domain action offered to the engine. TargetRole scopes the
// resulting notification; the zero role targets whatever role is active.
type Trigger struct {
	Action     notification.ActionKind
	TargetRole id.Role
	Payload    Payload
}

// Dispatcher owns the trigger-to-notification mapping and the store write.
// Mutations for the process are serialized by its mutex; the load-mutate-save
// cycle is not otherwise atomic.
type Dispatcher struct {
	store   Store
	refresh *signal.Refresh
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu sync.Mutex
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets a logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New creates a Dispatcher writing through store and signaling refresh after
// each successful write.
func New(store Store, refresh *signal.Refresh, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:   store,
		refresh: refresh,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Dispatch translates one trigger into a stored notification for the active
// identity. It returns (nil, nil) without writing when the trigger's target
// role does not match the session or the action kind is invalid: both are
// silent no-ops, not errors. On a write the refresh signal fires exactly once.
func (d *Dispatcher) Dispatch(ctx context.Context, trig Trigger) (*notification.Notification, error) {
	if !trig.Action.IsValid() {
		return nil, nil
	}

	active := identity.Resolve(ctx)
	if trig.TargetRole != "" && trig.TargetRole != active.Role {
		d.metrics.IncrementSuppressed()
		return nil, nil
	}

	targetRole := trig.TargetRole
	if targetRole == "" {
		targetRole = active.Role
	}

	n := build(trig, targetRole, active.Key, requestcontext.Now(ctx))

	d.mu.Lock()
	defer d.mu.Unlock()

	state, err := d.store.Load(ctx, active.Key)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "load notification state")
	}
	state.Notifications = append([]notification.Notification{n}, state.Notifications...)
	if err := d.store.Save(ctx, active.Key, state); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "persist notification")
	}

	d.refresh.Notify()
	d.metrics.IncrementDispatched(string(trig.Action), string(targetRole))
	d.logger.DebugContext(ctx, "notification dispatched",
		"action", trig.Action,
		"notification_id", n.ID,
		"target_role", targetRole,
	)
	return &n, nil
}

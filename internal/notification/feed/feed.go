// Package feed computes the externally visible notification list and owns the
// acknowledgement lifecycle. Reading is side-effect free except for the
// one-time bootstrap: the first feed computation for a document-owning
// identity synthesizes notifications from current compliance state, exactly
// once per identity until the next reset.
package feed

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"complimart/internal/identity"
	"complimart/internal/notification"
	"complimart/internal/notification/dispatcher"
	"complimart/internal/notification/metrics"
	"complimart/internal/notification/signal"
	"complimart/internal/vendorapi"
	id "complimart/pkg/domain"
	derrors "complimart/pkg/domain-errors"
	"complimart/pkg/requestcontext"
)

// Thresholds for the bootstrap's score-derived notifications.
const (
	lowScoreThreshold  = 50
	highScoreThreshold = 85
)

// Store is the slice of the notification store the feed needs.
type Store interface {
	Load(ctx context.Context, identity string) (notification.StoreState, error)
	Save(ctx context.Context, identity string, state notification.StoreState) error
	Reset(ctx context.Context, identity string) error
}

// Dispatcher routes bootstrap-synthesized triggers through the same path as
// live domain actions.
type Dispatcher interface {
	Dispatch(ctx context.Context, trig dispatcher.Trigger) (*notification.Notification, error)
}

// Service reads and mutates the active identity's feed.
type Service struct {
	store      Store
	dispatcher Dispatcher
	profiles   vendorapi.ProfileClient
	documents  vendorapi.DocumentsClient
	refresh    *signal.Refresh
	logger     *slog.Logger
	metrics    *metrics.Metrics

	// Serializes this process's load-mutate-save cycles. Writes from other
	// processes against the same backend are last-writer-wins.
	mu sync.Mutex
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates the feed service.
func New(
	store Store,
	disp Dispatcher,
	profiles vendorapi.ProfileClient,
	documents vendorapi.DocumentsClient,
	refresh *signal.Refresh,
	opts ...Option,
) *Service {
	s := &Service{
		store:      store,
		dispatcher: disp,
		profiles:   profiles,
		documents:  documents,
		refresh:    refresh,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ComputeFeed returns the active identity's ordered, undismissed
// notifications. Load failures degrade to an empty feed: the worst observable
// symptom of any internal failure is a missing notification, never an error
// surfaced to the reader.
func (s *Service) ComputeFeed(ctx context.Context) ([]notification.Notification, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveFeedLatency(time.Since(start)) }()

	active := identity.Resolve(ctx)

	s.mu.Lock()
	state, err := s.store.Load(ctx, active.Key)
	if err != nil {
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "feed load failed, serving empty feed", "error", err)
		return []notification.Notification{}, nil
	}

	if !state.Generated && active.Role.OwnsDocuments() && len(state.Notifications) == 0 {
		if s.bootstrap(ctx, active) {
			state, err = s.store.Load(ctx, active.Key)
			if err != nil {
				s.mu.Unlock()
				s.logger.WarnContext(ctx, "feed reload after bootstrap failed", "error", err)
				return []notification.Notification{}, nil
			}
		}
	}
	s.mu.Unlock()

	dismissed := state.DismissedSet()
	visible := make([]notification.Notification, 0, len(state.Notifications))
	for _, n := range state.Notifications {
		if dismissed[n.ID] {
			continue
		}
		if !n.VisibleTo(active.Key, active.Role) {
			continue
		}
		visible = append(visible, n)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Priority.Rank() != visible[j].Priority.Rank() {
			return visible[i].Priority.Rank() > visible[j].Priority.Rank()
		}
		return visible[i].Timestamp.After(visible[j].Timestamp)
	})
	return visible, nil
}

// bootstrap synthesizes the one-time compliance-derived batch and marks the
// identity generated. Collaborator failure skips the batch silently and
// leaves the flag unset so a later read retries. Reports whether state
// changed. Caller holds s.mu.
func (s *Service) bootstrap(ctx context.Context, active identity.Identity) bool {
	var (
		profile vendorapi.VendorProfile
		docs    []vendorapi.VendorDocument
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.profiles.FetchProfile(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		docs, err = s.documents.FetchDocuments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "bootstrap fetch failed, deferring", "error", err)
		return false
	}

	for _, trig := range bootstrapTriggers(profile, docs) {
		if _, err := s.dispatcher.Dispatch(ctx, trig); err != nil {
			s.logger.WarnContext(ctx, "bootstrap dispatch failed", "action", trig.Action, "error", err)
		}
	}

	state, err := s.store.Load(ctx, active.Key)
	if err != nil {
		s.logger.WarnContext(ctx, "bootstrap flag load failed", "error", err)
		return true
	}
	state.Generated = true
	if err := s.store.Save(ctx, active.Key, state); err != nil {
		s.logger.WarnContext(ctx, "bootstrap flag save failed", "error", err)
	}
	s.metrics.IncrementBootstrapRuns()
	return true
}

// bootstrapTriggers derives up to four static notifications from current
// compliance state.
func bootstrapTriggers(profile vendorapi.VendorProfile, docs []vendorapi.VendorDocument) []dispatcher.Trigger {
	var trigs []dispatcher.Trigger

	if profile.OverallComplianceScore < lowScoreThreshold {
		trigs = append(trigs, dispatcher.Trigger{
			Action:     notification.ActionComplianceScoreChanged,
			TargetRole: id.RoleVendor,
			Payload: dispatcher.Payload{
				OldScore: lowScoreThreshold,
				NewScore: profile.OverallComplianceScore,
			},
		})
	}

	var rejected, pending *vendorapi.DocumentStatus
	snapshot := vendorapi.Snapshot(docs)
	for i := range snapshot {
		switch snapshot[i].Status {
		case vendorapi.StatusRejected:
			if rejected == nil {
				rejected = &snapshot[i]
			}
		case vendorapi.StatusPending, vendorapi.StatusPendingManualReview:
			if pending == nil {
				pending = &snapshot[i]
			}
		}
	}
	if rejected != nil {
		trigs = append(trigs, dispatcher.Trigger{
			Action:     notification.ActionDocumentRejected,
			TargetRole: id.RoleVendor,
			Payload: dispatcher.Payload{
				DocumentID:   rejected.DocumentID,
				DocumentName: rejected.Name,
				Status:       string(rejected.Status),
			},
		})
	}
	if pending != nil {
		trigs = append(trigs, dispatcher.Trigger{
			Action:     notification.ActionDocumentRequired,
			TargetRole: id.RoleVendor,
			Payload: dispatcher.Payload{
				DocumentID:   pending.DocumentID,
				DocumentName: pending.Name,
				Status:       string(pending.Status),
			},
		})
	}

	if profile.OverallComplianceScore >= highScoreThreshold {
		trigs = append(trigs, dispatcher.Trigger{
			Action:     notification.ActionComplianceScoreChanged,
			TargetRole: id.RoleVendor,
			Payload: dispatcher.Payload{
				OldScore: highScoreThreshold,
				NewScore: profile.OverallComplianceScore,
			},
		})
	}
	return trigs
}

// Acknowledge tombstones one notification; the save physically removes it.
// Acknowledging an unknown or already-acknowledged ID is idempotent.
func (s *Service) Acknowledge(ctx context.Context, notificationID string) error {
	if notificationID == "" {
		return derrors.New(derrors.CodeInvalidInput, "notification id cannot be empty")
	}
	active := identity.Resolve(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx, active.Key)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "load notification state")
	}
	if !slices.Contains(state.DismissedIDs, notificationID) {
		state.DismissedIDs = append(state.DismissedIDs, notificationID)
	}
	if err := s.store.Save(ctx, active.Key, state); err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "persist acknowledgement")
	}

	s.refresh.Notify()
	s.metrics.IncrementAcknowledged()
	s.logger.DebugContext(ctx, "notification acknowledged",
		"notification_id", notificationID,
		"device", requestcontext.DeviceName(ctx),
	)
	return nil
}

// AcknowledgeAll empties the feed while keeping the bootstrap flag set, so a
// cleared feed does not immediately regenerate the one-time batch.
func (s *Service) AcknowledgeAll(ctx context.Context) error {
	active := identity.Resolve(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, active.Key, notification.StoreState{Generated: true}); err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "persist cleared state")
	}

	s.refresh.Notify()
	s.logger.DebugContext(ctx, "all notifications acknowledged",
		"identity", active.Key,
		"device", requestcontext.DeviceName(ctx),
	)
	return nil
}

// ResetIdentity clears all three partitions on logout. The bootstrap flag
// drops with them, so the next login regenerates the one-time batch.
func (s *Service) ResetIdentity(ctx context.Context) error {
	active := identity.Resolve(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(ctx, active.Key); err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "reset notification state")
	}
	s.logger.InfoContext(ctx, "notification state reset",
		"identity", active.Key,
		"device", requestcontext.DeviceName(ctx),
	)
	return nil
}

// RequestManualRefresh keeps current notifications but clears the bootstrap
// flag so the next feed computation re-runs the bootstrap step.
func (s *Service) RequestManualRefresh(ctx context.Context) error {
	active := identity.Resolve(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx, active.Key)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "load notification state")
	}
	state.Generated = false
	if err := s.store.Save(ctx, active.Key, state); err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "persist refresh request")
	}

	s.refresh.Notify()
	return nil
}

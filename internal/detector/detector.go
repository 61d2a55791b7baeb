// Package detector watches the vendor's document collection for verification
// outcomes. It is a two-state machine, Idle and Polling: a document mutation
// moves it into Polling, where it re-fetches the collection on a fixed tick
// and diffs consecutive snapshots by document identity. Transitions into a
// terminal status become notifications; the phase ends on its own once no
// document is awaiting verification.
package detector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"complimart/internal/identity"
	"complimart/internal/notification"
	"complimart/internal/notification/dispatcher"
	"complimart/internal/notification/metrics"
	"complimart/internal/vendorapi"
	id "complimart/pkg/domain"
)

const (
	defaultInterval    = 5 * time.Second
	defaultTickTimeout = 10 * time.Second
)

// Dispatcher receives the transitions the detector finds.
type Dispatcher interface {
	Dispatch(ctx context.Context, trig dispatcher.Trigger) (*notification.Notification, error)
}

type phase int

const (
	phaseIdle phase = iota
	phasePolling
)

// Detector owns a single cancellable polling loop. Entering Polling while a
// loop is already running is a no-op, so there is never more than one timer
// comparing snapshots.
type Detector struct {
	documents   vendorapi.DocumentsClient
	dispatcher  Dispatcher
	interval    time.Duration
	tickTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics

	mu     sync.Mutex
	phase  phase
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures the Detector.
type Option func(*Detector)

// WithInterval overrides the tick interval.
func WithInterval(d time.Duration) Option {
	return func(det *Detector) {
		if d > 0 {
			det.interval = d
		}
	}
}

// WithTickTimeout bounds one snapshot fetch.
func WithTickTimeout(d time.Duration) Option {
	return func(det *Detector) {
		if d > 0 {
			det.tickTimeout = d
		}
	}
}

// WithLogger sets a logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(det *Detector) {
		det.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(det *Detector) {
		det.metrics = m
	}
}

// New creates an idle Detector.
func New(documents vendorapi.DocumentsClient, disp Dispatcher, opts ...Option) *Detector {
	det := &Detector{
		documents:   documents,
		dispatcher:  disp,
		interval:    defaultInterval,
		tickTimeout: defaultTickTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(det)
		}
	}
	return det
}

// StartPolling moves the detector into the Polling phase for the session in
// ctx. The loop runs on its own context carrying the session's identity, so
// it outlives the request that started it. Calling StartPolling while already
// Polling is a no-op.
func (d *Detector) StartPolling(ctx context.Context) {
	active := identity.Resolve(ctx)

	d.mu.Lock()
	if d.phase == phasePolling {
		d.mu.Unlock()
		d.logger.DebugContext(ctx, "polling already active", "identity", active.Key)
		return
	}

	pollCtx := identity.Attach(context.Background(), active)
	pollCtx, cancel := context.WithCancel(pollCtx)
	done := make(chan struct{})
	d.phase = phasePolling
	d.cancel = cancel
	d.done = done
	d.mu.Unlock()

	d.logger.InfoContext(ctx, "document polling started",
		"identity", active.Key,
		"interval", d.interval,
	)
	go d.run(pollCtx, done)
}

// Stop cancels an active polling loop and waits for it to exit. Safe to call
// while Idle.
func (d *Detector) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	done := d.done
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Polling reports whether a polling loop is active.
func (d *Detector) Polling() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase == phasePolling
}

func (d *Detector) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer d.toIdle()

	held, err := d.snapshot(ctx)
	if err != nil {
		d.logger.WarnContext(ctx, "baseline snapshot fetch failed, stopping polling", "error", err)
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.metrics.IncrementPollTicks()

			current, err := d.snapshot(ctx)
			if err != nil {
				// Fail closed: the next document mutation re-enters Polling.
				d.logger.WarnContext(ctx, "snapshot fetch failed, stopping polling", "error", err)
				return
			}

			d.compare(ctx, held, current)

			if !anyAwaitingVerification(current) {
				d.logger.InfoContext(ctx, "no documents awaiting verification, polling complete")
				return
			}
			held = current
		}
	}
}

func (d *Detector) toIdle() {
	d.mu.Lock()
	d.phase = phaseIdle
	d.cancel = nil
	d.done = nil
	d.mu.Unlock()
}

// snapshot fetches the current collection keyed by document ID.
func (d *Detector) snapshot(ctx context.Context) (map[string]vendorapi.DocumentStatus, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, d.tickTimeout)
	defer cancel()

	docs, err := d.documents.FetchDocuments(fetchCtx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]vendorapi.DocumentStatus, len(docs))
	for _, st := range vendorapi.Snapshot(docs) {
		byID[st.DocumentID] = st
	}
	return byID, nil
}

// compare dispatches one event per document present in both snapshots whose
// status changed to a terminal value. Newly created and removed documents
// produce nothing.
func (d *Detector) compare(ctx context.Context, old, current map[string]vendorapi.DocumentStatus) {
	for docID, cur := range current {
		prev, ok := old[docID]
		if !ok || prev.Status == cur.Status {
			continue
		}

		var action notification.ActionKind
		switch cur.Status {
		case vendorapi.StatusVerified:
			action = notification.ActionDocumentVerified
		case vendorapi.StatusRejected:
			action = notification.ActionDocumentRejected
		default:
			continue
		}

		if _, err := d.dispatcher.Dispatch(ctx, dispatcher.Trigger{
			Action:     action,
			TargetRole: id.RoleVendor,
			Payload: dispatcher.Payload{
				DocumentID:   cur.DocumentID,
				DocumentName: cur.Name,
				Status:       string(cur.Status),
			},
		}); err != nil {
			d.logger.WarnContext(ctx, "transition dispatch failed",
				"document_id", cur.DocumentID,
				"action", action,
				"error", err,
			)
			continue
		}
		d.metrics.IncrementStatusTransitions(string(cur.Status))
	}
}

func anyAwaitingVerification(snap map[string]vendorapi.DocumentStatus) bool {
	for _, st := range snap {
		if !st.Status.Terminal() {
			return true
		}
	}
	return false
}

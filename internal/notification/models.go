// Package notification defines the records the engine creates and persists:
// the immutable Notification, the closed set of action kinds that can produce
// one, and the per-identity store state holding the three partitions.
package notification

import (
	"strconv"
	"time"

	id "complimart/pkg/domain"
)

// Priority orders notifications in the feed.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank maps priorities to sortable weights; unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Kind describes rendering intent; presentation itself is out of scope.
type Kind string

const (
	KindInfo       Kind = "info"
	KindSuccess    Kind = "success"
	KindWarning    Kind = "warning"
	KindAlert      Kind = "alert"
	KindSuggestion Kind = "suggestion"
)

// ActionKind names a domain event the dispatcher can translate into a
// Notification. The set is closed: values not constructed here never pass
// IsValid, so an unrecognized kind arriving at a trust boundary is a parse
// failure, not a silent runtime branch.
type ActionKind string

const (
	ActionDocumentUploaded        ActionKind = "DOCUMENT_UPLOADED"
	ActionDocumentVerified        ActionKind = "DOCUMENT_VERIFIED"
	ActionDocumentRejected        ActionKind = "DOCUMENT_REJECTED"
	ActionComplianceScoreChanged  ActionKind = "COMPLIANCE_SCORE_CHANGED"
	ActionDocumentExpiring        ActionKind = "DOCUMENT_EXPIRING"
	ActionDocumentRequired        ActionKind = "DOCUMENT_REQUIRED"
	ActionEngagementCreated       ActionKind = "ENGAGEMENT_CREATED"
	ActionEngagementStatusChanged ActionKind = "ENGAGEMENT_STATUS_CHANGED"
	ActionEngagementResponded     ActionKind = "ENGAGEMENT_RESPONDED"
	ActionEngagementCompleted     ActionKind = "ENGAGEMENT_COMPLETED"
	ActionEngagementOnHold        ActionKind = "ENGAGEMENT_ON_HOLD"
)

// validActionKinds is the single source of truth for valid action kinds.
var validActionKinds = map[ActionKind]bool{
	ActionDocumentUploaded:        true,
	ActionDocumentVerified:        true,
	ActionDocumentRejected:        true,
	ActionComplianceScoreChanged:  true,
	ActionDocumentExpiring:        true,
	ActionDocumentRequired:        true,
	ActionEngagementCreated:       true,
	ActionEngagementStatusChanged: true,
	ActionEngagementResponded:     true,
	ActionEngagementCompleted:     true,
	ActionEngagementOnHold:        true,
}

// ParseActionKind constructs an ActionKind from external input. The zero
// value is returned for unsupported strings so callers can treat unknown
// kinds as a no-op at the boundary.
func ParseActionKind(s string) (ActionKind, bool) {
	k := ActionKind(s)
	return k, k.IsValid()
}

// IsValid checks if the action kind is one of the supported enum values.
func (k ActionKind) IsValid() bool {
	return validActionKinds[k]
}

// Notification is immutable once created: the dispatcher constructs it, the
// feed reads it, and acknowledgement physically removes it.
type Notification struct {
	ID            string         `json:"id"`
	Timestamp     time.Time      `json:"timestamp"`
	Priority      Priority       `json:"priority"`
	Kind          Kind           `json:"kind"`
	TargetRole    id.Role        `json:"targetRole"`
	OwnerIdentity string         `json:"ownerIdentity"`
	Message       string         `json:"message"`
	Action        string         `json:"action,omitempty"`
	ContextData   map[string]any `json:"contextData,omitempty"`
}

// VisibleTo reports whether a reader with the given identity and role may see
// this notification. Both owner and role must match; the owner check is
// defense in depth on top of key namespacing.
func (n Notification) VisibleTo(ownerKey string, role id.Role) bool {
	return n.OwnerIdentity == ownerKey && n.TargetRole == role
}

// NewID derives the deterministic notification ID. Two dispatches of the same
// kind within the same millisecond collide; collisions are allowed and
// deliberately not deduplicated (rapid-fire repeats of one event are real).
func NewID(action ActionKind, at time.Time) string {
	return string(action) + "_" + strconv.FormatInt(at.UnixMilli(), 10)
}

// MaxStored caps the notifications partition; the oldest entries drop on
// overflow.
const MaxStored = 50

// StoreState is one identity's three persisted partitions.
type StoreState struct {
	// Notifications is newest-first and capped at MaxStored.
	Notifications []Notification
	// DismissedIDs is the tombstone set: acknowledged IDs whose records are
	// physically removed on the next save. Not an archive.
	DismissedIDs []string
	// Generated is true once the one-time bootstrap batch has run for this
	// identity since the last reset.
	Generated bool
}

// DismissedSet returns the tombstones as a set for filtering.
func (s StoreState) DismissedSet() map[string]bool {
	set := make(map[string]bool, len(s.DismissedIDs))
	for _, dismissedID := range s.DismissedIDs {
		set[dismissedID] = true
	}
	return set
}

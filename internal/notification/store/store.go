// Package store persists per-identity notification state. Each identity owns
// three independent partitions, written as small JSON documents under keys
// namespaced by the identity:
//
//	notifications_<identity>                   {"notifications": [...]}
//	dismissed_notifications_<identity>         {"dismissedIds": [...]}
//	initial_notifications_generated_<identity> {"generated": bool}
//
// Durability is best effort: malformed payloads deserialize to empty
// partitions rather than erroring, because the remote services stay the
// source of truth for document status. Implementations never touch the
// refresh signal; callers fire it after a successful mutation.
package store

import (
	"context"
	"encoding/json"

	"complimart/internal/notification"
)

// Store is the per-identity persistence contract shared by the memory, Redis,
// and Postgres backends.
type Store interface {
	// Load reads the three partitions for the identity; absent or corrupt
	// partitions come back empty.
	Load(ctx context.Context, identity string) (notification.StoreState, error)
	// Save normalizes the state (tombstoned entries removed, newest 50 kept)
	// and writes all three partitions.
	Save(ctx context.Context, identity string, state notification.StoreState) error
	// Reset deletes all three partitions, returning the identity to the
	// never-bootstrapped default.
	Reset(ctx context.Context, identity string) error
}

func notificationsKey(identity string) string {
	return "notifications_" + identity
}

func dismissedKey(identity string) string {
	return "dismissed_notifications_" + identity
}

func generatedKey(identity string) string {
	return "initial_notifications_generated_" + identity
}

// Wire documents, one per partition.
type notificationsDoc struct {
	Notifications []notification.Notification `json:"notifications"`
}

type dismissedDoc struct {
	DismissedIDs []string `json:"dismissedIds"`
}

type generatedDoc struct {
	Generated bool `json:"generated"`
}

// normalize enforces the persisted-state invariants before any write: entries
// whose ID is tombstoned are physically removed, then the list is truncated
// to the MaxStored most recent (the list is newest-first).
func normalize(state notification.StoreState) notification.StoreState {
	dismissed := state.DismissedSet()
	kept := make([]notification.Notification, 0, len(state.Notifications))
	for _, n := range state.Notifications {
		if !dismissed[n.ID] {
			kept = append(kept, n)
		}
	}
	if len(kept) > notification.MaxStored {
		kept = kept[:notification.MaxStored]
	}
	state.Notifications = kept
	return state
}

// encodeState serializes the three partitions. Marshal failures are
// impossible for these shapes, but the error is propagated for completeness.
func encodeState(state notification.StoreState) (notifications, dismissed, generated []byte, err error) {
	if notifications, err = json.Marshal(notificationsDoc{Notifications: state.Notifications}); err != nil {
		return nil, nil, nil, err
	}
	if dismissed, err = json.Marshal(dismissedDoc{DismissedIDs: state.DismissedIDs}); err != nil {
		return nil, nil, nil, err
	}
	if generated, err = json.Marshal(generatedDoc{Generated: state.Generated}); err != nil {
		return nil, nil, nil, err
	}
	return notifications, dismissed, generated, nil
}

// decodeState deserializes the three partitions independently. A missing or
// malformed partition yields its empty value; the engine self-heals on the
// next save.
func decodeState(notifications, dismissed, generated []byte) notification.StoreState {
	var state notification.StoreState

	var nd notificationsDoc
	if len(notifications) > 0 && json.Unmarshal(notifications, &nd) == nil {
		state.Notifications = nd.Notifications
	}

	var dd dismissedDoc
	if len(dismissed) > 0 && json.Unmarshal(dismissed, &dd) == nil {
		state.DismissedIDs = dd.DismissedIDs
	}

	var gd generatedDoc
	if len(generated) > 0 && json.Unmarshal(generated, &gd) == nil {
		state.Generated = gd.Generated
	}

	return state
}

// Package identity resolves the active identity for notification state
// partitioning. All persisted keys are namespaced by the resolved key, which
// is the engine's core leakage-prevention invariant: no two identities may
// ever read or write each other's partition.
//
// Resolution reads only from request context populated by the session
// middleware; there is no ambient session singleton to consult.
package identity

import (
	"context"

	id "complimart/pkg/domain"
	"complimart/pkg/requestcontext"
)

// AnonymousKey namespaces state written before a session exists. Anonymous
// partitions never qualify for bootstrap and hold no role.
const AnonymousKey = "anonymous"

// Identity is the resolved session identity at one call site.
type Identity struct {
	Key  string
	Role id.Role
}

// Resolve derives the active identity from the context. An absent user ID
// falls back to AnonymousKey so storage keys are always well-formed.
func Resolve(ctx context.Context) Identity {
	key := requestcontext.UserID(ctx)
	if key == "" {
		key = AnonymousKey
	}
	return Identity{Key: key, Role: requestcontext.Role(ctx)}
}

// Attach carries a resolved identity on a fresh context, for background work
// that must outlive the request it was started from.
func Attach(ctx context.Context, active Identity) context.Context {
	ctx = requestcontext.WithUserID(ctx, active.Key)
	return requestcontext.WithRole(ctx, active.Role)
}

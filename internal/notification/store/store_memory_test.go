package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"complimart/internal/notification"
	id "complimart/pkg/domain"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) newNotification(nID string, at time.Time) notification.Notification {
	return notification.Notification{
		ID:            nID,
		Timestamp:     at,
		Priority:      notification.PriorityLow,
		Kind:          notification.KindInfo,
		TargetRole:    id.RoleVendor,
		OwnerIdentity: "vendor@x",
		Message:       "message for " + nID,
	}
}

// TestRoundTrip verifies the three partitions persist and reload together.
func (s *MemoryStoreSuite) TestRoundTrip() {
	now := time.Now().Truncate(time.Millisecond)
	state := notification.StoreState{
		Notifications: []notification.Notification{s.newNotification("n1", now)},
		DismissedIDs:  []string{"gone"},
		Generated:     true,
	}
	s.Require().NoError(s.store.Save(s.ctx, "vendor@x", state))

	loaded, err := s.store.Load(s.ctx, "vendor@x")
	s.Require().NoError(err)
	s.Require().Len(loaded.Notifications, 1)
	s.Equal("n1", loaded.Notifications[0].ID)
	s.Equal([]string{"gone"}, loaded.DismissedIDs)
	s.True(loaded.Generated)
}

// TestTombstoneInvariant verifies save physically removes acknowledged entries.
func (s *MemoryStoreSuite) TestTombstoneInvariant() {
	now := time.Now()
	state := notification.StoreState{
		Notifications: []notification.Notification{
			s.newNotification("keep", now),
			s.newNotification("drop", now),
		},
		DismissedIDs: []string{"drop"},
	}
	s.Require().NoError(s.store.Save(s.ctx, "vendor@x", state))

	loaded, err := s.store.Load(s.ctx, "vendor@x")
	s.Require().NoError(err)
	s.Require().Len(loaded.Notifications, 1)
	s.Equal("keep", loaded.Notifications[0].ID)
	// Tombstone set survives so late duplicate writes stay suppressed.
	s.Equal([]string{"drop"}, loaded.DismissedIDs)
}

// TestCapEnforcement verifies the newest 50 entries survive an overflowing save.
func (s *MemoryStoreSuite) TestCapEnforcement() {
	now := time.Now()
	var state notification.StoreState
	// Newest-first list, one past the cap.
	for i := 0; i <= notification.MaxStored; i++ {
		state.Notifications = append(state.Notifications,
			s.newNotification(fmt.Sprintf("n%d", i), now.Add(-time.Duration(i)*time.Second)))
	}
	s.Require().NoError(s.store.Save(s.ctx, "vendor@x", state))

	loaded, err := s.store.Load(s.ctx, "vendor@x")
	s.Require().NoError(err)
	s.Require().Len(loaded.Notifications, notification.MaxStored)
	s.Equal("n0", loaded.Notifications[0].ID)
	s.Equal(fmt.Sprintf("n%d", notification.MaxStored-1),
		loaded.Notifications[notification.MaxStored-1].ID)
}

// TestIdentityNamespacing verifies partitions never bleed across identities.
func (s *MemoryStoreSuite) TestIdentityNamespacing() {
	now := time.Now()
	s.Require().NoError(s.store.Save(s.ctx, "vendor@x", notification.StoreState{
		Notifications: []notification.Notification{s.newNotification("vendor-only", now)},
	}))

	other, err := s.store.Load(s.ctx, "buyer@y")
	s.Require().NoError(err)
	s.Empty(other.Notifications)
	s.False(other.Generated)
}

// TestMalformedPartitionsHealToEmpty verifies corrupted serialization reads as
// empty state instead of erroring.
func (s *MemoryStoreSuite) TestMalformedPartitionsHealToEmpty() {
	s.store.mu.Lock()
	s.store.entries[notificationsKey("vendor@x")] = []byte("{not json")
	s.store.entries[dismissedKey("vendor@x")] = []byte(`{"dismissedIds": 42}`)
	s.store.entries[generatedKey("vendor@x")] = []byte(`"yes"`)
	s.store.mu.Unlock()

	loaded, err := s.store.Load(s.ctx, "vendor@x")
	s.Require().NoError(err)
	s.Empty(loaded.Notifications)
	s.Empty(loaded.DismissedIDs)
	s.False(loaded.Generated)
}

// TestReset verifies reset drops all three partitions including the bootstrap flag.
func (s *MemoryStoreSuite) TestReset() {
	s.Require().NoError(s.store.Save(s.ctx, "vendor@x", notification.StoreState{
		Notifications: []notification.Notification{s.newNotification("n1", time.Now())},
		Generated:     true,
	}))

	s.Require().NoError(s.store.Reset(s.ctx, "vendor@x"))

	loaded, err := s.store.Load(s.ctx, "vendor@x")
	s.Require().NoError(err)
	s.Empty(loaded.Notifications)
	s.False(loaded.Generated)
}

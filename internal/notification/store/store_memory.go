package store

import (
	"context"
	"sync"

	"complimart/internal/notification"
)

// InMemory keeps partitions as raw serialized documents, mirroring the
// durable backends byte for byte so the corruption-healing path is exercised
// identically. Suitable for tests and single-instance development.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[string][]byte)}
}

func (s *InMemory) Load(_ context.Context, identity string) (notification.StoreState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decodeState(
		s.entries[notificationsKey(identity)],
		s.entries[dismissedKey(identity)],
		s.entries[generatedKey(identity)],
	), nil
}

func (s *InMemory) Save(_ context.Context, identity string, state notification.StoreState) error {
	notifications, dismissed, generated, err := encodeState(normalize(state))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[notificationsKey(identity)] = notifications
	s.entries[dismissedKey(identity)] = dismissed
	s.entries[generatedKey(identity)] = generated
	return nil
}

func (s *InMemory) Reset(_ context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, notificationsKey(identity))
	delete(s.entries, dismissedKey(identity))
	delete(s.entries, generatedKey(identity))
	return nil
}

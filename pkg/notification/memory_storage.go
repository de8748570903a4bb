package notification

import (
	"context"
	"errors"
	"sync"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing. Logs are kept sorted and capped at
// all times, so reads never need to re-derive the invariant.
type MemoryStorage struct {
	capacity int
	mu       sync.RWMutex
	logs     map[string][]Notification // userID -> retained log, newest first
}

// NewMemoryStorage creates an in-memory notification store with the given
// retention cap. A capacity <= 0 falls back to DefaultRetentionCap.
func NewMemoryStorage(capacity int) *MemoryStorage {
	if capacity <= 0 {
		capacity = DefaultRetentionCap
	}
	return &MemoryStorage{
		capacity: capacity,
		logs:     make(map[string][]Notification),
	}
}

func (s *MemoryStorage) Get(ctx context.Context, userID, notificationID string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, exists := s.logs[userID]
	if !exists {
		return nil, ErrUserNotFound
	}
	for _, n := range log {
		if n.ID == notificationID {
			// Return a copy to prevent external mutation of stored data.
			notif := n
			return &notif, nil
		}
	}
	return nil, ErrNotificationNotFound
}

func (s *MemoryStorage) List(ctx context.Context, userID string, skip, limit int) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, exists := s.logs[userID]
	if !exists || skip >= len(log) {
		return []Notification{}, nil
	}

	end := skip + limit
	if end > len(log) {
		end = len(log)
	}

	out := make([]Notification, end-skip)
	copy(out, log[skip:end])
	return out, nil
}

func (s *MemoryStorage) Upsert(ctx context.Context, n Notification) error {
	if n.ID == "" {
		return errors.New("notification ID is required")
	}
	if n.UserID == "" {
		return errors.New("user ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs[n.UserID] = MergeAndCap(s.logs[n.UserID], n, s.capacity)
	return nil
}

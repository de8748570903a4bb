package notification

import "context"

// Storage is the per-user notification log contract. Every operation is
// scoped to a single user.
type Storage interface {
	// Get returns the retained notification with the given ID.
	// It returns ErrUserNotFound when the user has no log and
	// ErrNotificationNotFound when the ID is absent from the retained set.
	Get(ctx context.Context, userID, notificationID string) (*Notification, error)

	// List returns the slice [skip, skip+limit) of the user's log, which is
	// already ordered by timestamp descending. It returns an empty slice,
	// not an error, when skip is past the end or the user has no log.
	// Negative skip and non-positive limit are caller contract violations
	// and must be rejected before reaching the store.
	List(ctx context.Context, userID string, skip, limit int) ([]Notification, error)

	// Upsert is the single mutation primitive: insert-or-replace-by-ID
	// followed by re-sort descending and truncation to the retention cap.
	// Both creation and the read-state flip are expressed through it, which
	// is what guarantees no caller can violate the cap invariant.
	Upsert(ctx context.Context, n Notification) error
}

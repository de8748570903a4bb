package notification

import "fmt"

// Kind is the closed set of event kinds the service routes on.
type Kind string

const (
	KindRegistration Kind = "registration"
	KindNewMessage   Kind = "new_message"
	KindNewPost      Kind = "new_post"
	KindNewLogin     Kind = "new_login"
)

// ParseKind validates a raw kind tag against the closed enumeration.
// Unknown kinds are rejected here, at decode time, so dispatch itself
// stays total over the enumeration.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(raw); k {
	case KindRegistration, KindNewMessage, KindNewPost, KindNewLogin:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
}

// Notification is the core domain model. Identity (ID) is immutable and
// assigned at creation; IsNew is the only field that mutates afterwards.
type Notification struct {
	ID        string         `json:"id" bson:"id"`
	Timestamp int64          `json:"timestamp" bson:"timestamp"`
	IsNew     bool           `json:"is_new" bson:"is_new"`
	UserID    string         `json:"user_id" bson:"user_id"`
	Kind      Kind           `json:"kind" bson:"kind"`
	TargetID  string         `json:"target_id,omitempty" bson:"target_id,omitempty"`
	Data      map[string]any `json:"data,omitempty" bson:"data,omitempty"`
}

// MarkRead flips the unread flag. The transition happens at most once;
// marking an already-read notification is a no-op.
func (n *Notification) MarkRead() {
	n.IsNew = false
}

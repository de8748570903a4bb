package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/notifyd/pkg/email"
	"github.com/dmitrymomot/notifyd/pkg/logger"
)

// Event is an inbound notification event before routing. The kind decides
// which sinks fire; the remaining fields are copied into the derived
// notification or email as needed.
type Event struct {
	UserID      string
	Kind        Kind
	TargetID    string
	TargetEmail string
	Data        map[string]any
}

// route describes the side effects one kind triggers.
type route struct {
	store bool
	email bool
}

// routes is the entire dispatch policy. It is exhaustive over the closed
// kind enumeration; ParseKind rejects anything outside it at decode time.
var routes = map[Kind]route{
	KindRegistration: {store: false, email: true},
	KindNewMessage:   {store: true, email: false},
	KindNewPost:      {store: true, email: false},
	KindNewLogin:     {store: true, email: true},
}

// RoutesToEmail reports whether the given kind triggers the email sink, so
// callers can demand a target address before dispatching.
func RoutesToEmail(kind Kind) bool {
	return routes[kind].email
}

// Dispatcher routes inbound events to the notification store and the email
// sink according to the kind routing table, and exposes the read/list
// operations over the persisted log.
type Dispatcher struct {
	storage Storage
	sender  email.EmailSender
	logger  *slog.Logger
	now     func() int64
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger for the Dispatcher.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock overrides the timestamp source. Intended for tests that need
// deterministic ordering.
func WithClock(now func() int64) DispatcherOption {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDispatcher creates a dispatcher over the given storage and email sink.
func NewDispatcher(storage Storage, sender email.EmailSender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		storage: storage,
		sender:  sender,
		logger:  slog.Default(),
		now:     func() int64 { return time.Now().Unix() },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch routes one event. When the route stores, a fresh notification is
// materialized (new ObjectID, current time, unread) and upserted. When the
// route emails, a subject and body are derived from the kind and sent to the
// event's target address. For kinds that do both, the store write happens
// first; a failed email does not roll it back.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	r, ok := routes[event.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, event.Kind)
	}

	if r.store {
		n := d.materialize(event)
		if err := d.storage.Upsert(ctx, n); err != nil {
			return fmt.Errorf("store notification: %w", err)
		}
		d.logger.LogAttrs(ctx, slog.LevelInfo, "notification stored",
			logger.NotificationID(n.ID),
			logger.UserID(n.UserID),
			logger.Kind(string(n.Kind)),
		)
	}

	if r.email {
		if event.TargetEmail == "" {
			return fmt.Errorf("%w: kind %q routes to the email sink", ErrMissingTargetEmail, event.Kind)
		}
		subject, body := composeEmail(event.Kind)
		params := email.SendEmailParams{
			SendTo:   event.TargetEmail,
			Subject:  subject,
			BodyHTML: body,
			Tag:      string(event.Kind),
		}
		if err := d.sender.SendEmail(ctx, params); err != nil {
			return fmt.Errorf("send %s email: %w", event.Kind, err)
		}
		d.logger.LogAttrs(ctx, slog.LevelInfo, "notification email sent",
			logger.UserID(event.UserID),
			logger.Kind(string(event.Kind)),
		)
	}

	return nil
}

// MarkRead fetches a notification and flips its unread flag the first time
// it is read. The flip is expressed as an upsert so the cap and ordering
// invariants hold; re-reading an already-read notification is a no-op.
func (d *Dispatcher) MarkRead(ctx context.Context, userID, notificationID string) error {
	n, err := d.storage.Get(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !n.IsNew {
		return nil
	}
	n.MarkRead()
	return d.storage.Upsert(ctx, *n)
}

// List returns a page of the user's retained log, most recent first.
func (d *Dispatcher) List(ctx context.Context, userID string, skip, limit int) ([]Notification, error) {
	return d.storage.List(ctx, userID, skip, limit)
}

// materialize derives a stored notification from an event: fresh unique ID,
// current clock, unread.
func (d *Dispatcher) materialize(event Event) Notification {
	return Notification{
		ID:        bson.NewObjectID().Hex(),
		Timestamp: d.now(),
		IsNew:     true,
		UserID:    event.UserID,
		Kind:      event.Kind,
		TargetID:  event.TargetID,
		Data:      event.Data,
	}
}

// composeEmail derives the outbound subject and HTML body for a kind.
// Content is a presentation concern; routing never depends on it.
func composeEmail(kind Kind) (subject, body string) {
	switch kind {
	case KindRegistration:
		return "Welcome aboard", "<p>Your account has been registered successfully.</p>"
	case KindNewLogin:
		return "New login to your account", "<p>We noticed a new login to your account. If this wasn't you, please secure your account.</p>"
	default:
		return "You have a new notification", fmt.Sprintf("<p>You have a new %s notification.</p>", kind)
	}
}

package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyd/pkg/email"
	"github.com/dmitrymomot/notifyd/pkg/notification"
)

// fakeSender records every send; optionally fails.
type fakeSender struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
	err  error
}

func (f *fakeSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, params)
	return nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// incrementingClock returns a strictly increasing timestamp source so that
// ordering assertions do not depend on wall-clock resolution.
func incrementingClock() func() int64 {
	var ts int64
	return func() int64 {
		ts++
		return ts
	}
}

func newTestDispatcher(t *testing.T) (*notification.Dispatcher, *notification.MemoryStorage, *fakeSender) {
	t.Helper()
	storage := notification.NewMemoryStorage(3)
	sender := &fakeSender{}
	d := notification.NewDispatcher(storage, sender, notification.WithClock(incrementingClock()))
	return d, storage, sender
}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name       string
		kind       notification.Kind
		wantStored int
		wantEmails int
	}{
		{name: "registration emails only", kind: notification.KindRegistration, wantStored: 0, wantEmails: 1},
		{name: "new_message stores only", kind: notification.KindNewMessage, wantStored: 1, wantEmails: 0},
		{name: "new_post stores only", kind: notification.KindNewPost, wantStored: 1, wantEmails: 0},
		{name: "new_login stores and emails", kind: notification.KindNewLogin, wantStored: 1, wantEmails: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, storage, sender := newTestDispatcher(t)
			err := d.Dispatch(ctx, notification.Event{
				UserID:      testUserID,
				Kind:        tt.kind,
				TargetEmail: "user@example.com",
			})
			require.NoError(t, err)

			stored, err := storage.List(ctx, testUserID, 0, 10)
			require.NoError(t, err)
			assert.Len(t, stored, tt.wantStored)
			assert.Equal(t, tt.wantEmails, sender.sentCount())

			if tt.wantStored > 0 {
				assert.True(t, stored[0].IsNew)
				assert.Equal(t, tt.kind, stored[0].Kind)
				assert.Len(t, stored[0].ID, 24)
			}
			if tt.wantEmails > 0 {
				assert.Equal(t, "user@example.com", sender.sent[0].SendTo)
				assert.Equal(t, string(tt.kind), sender.sent[0].Tag)
				assert.NotEmpty(t, sender.sent[0].Subject)
				assert.NotEmpty(t, sender.sent[0].BodyHTML)
			}
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()

		d, _, _ := newTestDispatcher(t)
		err := d.Dispatch(ctx, notification.Event{UserID: testUserID, Kind: notification.Kind("password_reset")})
		assert.ErrorIs(t, err, notification.ErrUnknownKind)
	})

	t.Run("missing target email", func(t *testing.T) {
		t.Parallel()

		d, _, sender := newTestDispatcher(t)
		err := d.Dispatch(ctx, notification.Event{UserID: testUserID, Kind: notification.KindRegistration})
		assert.ErrorIs(t, err, notification.ErrMissingTargetEmail)
		assert.Zero(t, sender.sentCount())
	})

	t.Run("new_login store survives email failure", func(t *testing.T) {
		t.Parallel()

		storage := notification.NewMemoryStorage(3)
		sender := &fakeSender{err: errors.New("provider down")}
		d := notification.NewDispatcher(storage, sender, notification.WithClock(incrementingClock()))

		err := d.Dispatch(ctx, notification.Event{
			UserID:      testUserID,
			Kind:        notification.KindNewLogin,
			TargetEmail: "user@example.com",
		})
		require.Error(t, err)

		stored, lerr := storage.List(ctx, testUserID, 0, 10)
		require.NoError(t, lerr)
		assert.Len(t, stored, 1)
	})

	t.Run("each stored notification gets a unique id", func(t *testing.T) {
		t.Parallel()

		d, storage, _ := newTestDispatcher(t)
		for range 3 {
			require.NoError(t, d.Dispatch(ctx, notification.Event{UserID: testUserID, Kind: notification.KindNewPost}))
		}

		stored, err := storage.List(ctx, testUserID, 0, 10)
		require.NoError(t, err)
		require.Len(t, stored, 3)

		seen := map[string]bool{}
		for _, n := range stored {
			assert.False(t, seen[n.ID])
			seen[n.ID] = true
		}
	})

	t.Run("cap evicts the oldest", func(t *testing.T) {
		t.Parallel()

		d, storage, _ := newTestDispatcher(t)
		for range 5 {
			require.NoError(t, d.Dispatch(ctx, notification.Event{UserID: testUserID, Kind: notification.KindNewMessage}))
		}

		stored, err := storage.List(ctx, testUserID, 0, 10)
		require.NoError(t, err)
		require.Len(t, stored, 3)
		assert.Greater(t, stored[0].Timestamp, stored[1].Timestamp)
		assert.Greater(t, stored[1].Timestamp, stored[2].Timestamp)
	})
}

func TestDispatcher_MarkRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("flips unread once", func(t *testing.T) {
		t.Parallel()

		d, storage, _ := newTestDispatcher(t)
		require.NoError(t, d.Dispatch(ctx, notification.Event{UserID: testUserID, Kind: notification.KindNewMessage}))

		stored, err := storage.List(ctx, testUserID, 0, 1)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		id := stored[0].ID

		require.NoError(t, d.MarkRead(ctx, testUserID, id))

		got, err := storage.Get(ctx, testUserID, id)
		require.NoError(t, err)
		assert.False(t, got.IsNew)

		// Repeat read is a no-op.
		require.NoError(t, d.MarkRead(ctx, testUserID, id))
		got, err = storage.Get(ctx, testUserID, id)
		require.NoError(t, err)
		assert.False(t, got.IsNew)
	})

	t.Run("mark read keeps position and cap", func(t *testing.T) {
		t.Parallel()

		d, storage, _ := newTestDispatcher(t)
		for range 3 {
			require.NoError(t, d.Dispatch(ctx, notification.Event{UserID: testUserID, Kind: notification.KindNewMessage}))
		}

		stored, err := storage.List(ctx, testUserID, 0, 10)
		require.NoError(t, err)
		middle := stored[1].ID

		require.NoError(t, d.MarkRead(ctx, testUserID, middle))

		after, err := storage.List(ctx, testUserID, 0, 10)
		require.NoError(t, err)
		require.Len(t, after, 3)
		assert.Equal(t, ids(stored), ids(after))
		assert.False(t, after[1].IsNew)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		d, _, _ := newTestDispatcher(t)
		err := d.MarkRead(ctx, testUserID, "aaaaaaaaaaaaaaaaaaaaaaaa")
		assert.ErrorIs(t, err, notification.ErrUserNotFound)
	})

	t.Run("unknown notification", func(t *testing.T) {
		t.Parallel()

		d, _, _ := newTestDispatcher(t)
		require.NoError(t, d.Dispatch(ctx, notification.Event{UserID: testUserID, Kind: notification.KindNewMessage}))

		err := d.MarkRead(ctx, testUserID, "aaaaaaaaaaaaaaaaaaaaaaaa")
		assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
	})
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyd/api"
	"github.com/dmitrymomot/notifyd/pkg/email"
	"github.com/dmitrymomot/notifyd/pkg/notification"
)

const (
	testUserID   = "507f1f77bcf86cd799439011"
	testTargetID = "507f1f77bcf86cd799439022"
)

type fakeSender struct {
	sent []email.SendEmailParams
}

func (f *fakeSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	f.sent = append(f.sent, params)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testService struct {
	srv    *httptest.Server
	sender *fakeSender
}

func newTestService(t *testing.T) *testService {
	t.Helper()

	var ts int64
	sender := &fakeSender{}
	storage := notification.NewMemoryStorage(3)
	dispatcher := notification.NewDispatcher(storage, sender,
		notification.WithClock(func() int64 { ts++; return ts }))

	handler := api.NewHandler(dispatcher, nil)
	srv := httptest.NewServer(api.Router(handler, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return &testService{srv: srv, sender: sender}
}

func (s *testService) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (s *testService) create(t *testing.T, body map[string]any) (int, envelope) {
	t.Helper()
	return s.do(t, http.MethodPost, "/create", body)
}

func (s *testService) list(t *testing.T, query string) (int, []notification.Notification, envelope) {
	t.Helper()
	status, env := s.do(t, http.MethodGet, "/list?"+query, nil)
	var items []notification.Notification
	if env.Success {
		require.NoError(t, json.Unmarshal(env.Data, &items))
	}
	return status, items, env
}

func TestCreate(t *testing.T) {
	t.Parallel()

	t.Run("stored kinds respond 201", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		for _, kind := range []string{"new_message", "new_post"} {
			status, env := svc.create(t, map[string]any{"user_id": testUserID, "kind": kind})
			assert.Equal(t, http.StatusCreated, status)
			assert.True(t, env.Success)
		}

		_, items, _ := svc.list(t, "user_id="+testUserID)
		assert.Len(t, items, 2)
		assert.Empty(t, svc.sender.sent)
	})

	t.Run("registration emails without storing", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		status, env := svc.create(t, map[string]any{
			"user_id":      testUserID,
			"kind":         "registration",
			"target_email": "user@example.com",
		})
		assert.Equal(t, http.StatusCreated, status)
		assert.True(t, env.Success)

		_, items, _ := svc.list(t, "user_id="+testUserID)
		assert.Empty(t, items)
		require.Len(t, svc.sender.sent, 1)
		assert.Equal(t, "user@example.com", svc.sender.sent[0].SendTo)
	})

	t.Run("new_login stores and emails", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		status, _ := svc.create(t, map[string]any{
			"user_id":      testUserID,
			"kind":         "new_login",
			"target_email": "user@example.com",
		})
		assert.Equal(t, http.StatusCreated, status)

		_, items, _ := svc.list(t, "user_id="+testUserID)
		assert.Len(t, items, 1)
		assert.Len(t, svc.sender.sent, 1)
	})

	t.Run("extra json fields are tolerated", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		status, _ := svc.create(t, map[string]any{
			"user_id":  testUserID,
			"kind":     "new_post",
			"whatever": "ignored",
		})
		assert.Equal(t, http.StatusCreated, status)
	})

	t.Run("target id and data round-trip", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		status, _ := svc.create(t, map[string]any{
			"user_id":   testUserID,
			"kind":      "new_message",
			"target_id": testTargetID,
			"data":      map[string]any{"preview": "hi"},
		})
		require.Equal(t, http.StatusCreated, status)

		_, items, _ := svc.list(t, "user_id="+testUserID)
		require.Len(t, items, 1)
		assert.Equal(t, testTargetID, items[0].TargetID)
		assert.Equal(t, "hi", items[0].Data["preview"])
	})

	t.Run("validation failures respond 400", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		tests := []struct {
			name string
			body map[string]any
		}{
			{name: "short user id", body: map[string]any{"user_id": "abc", "kind": "new_post"}},
			{name: "missing user id", body: map[string]any{"kind": "new_post"}},
			{name: "unknown kind", body: map[string]any{"user_id": testUserID, "kind": "password_reset"}},
			{name: "bad target id", body: map[string]any{"user_id": testUserID, "kind": "new_post", "target_id": "xyz"}},
			{name: "email kind without address", body: map[string]any{"user_id": testUserID, "kind": "registration"}},
			{name: "email kind with bad address", body: map[string]any{"user_id": testUserID, "kind": "new_login", "target_email": "not-an-email"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				status, env := svc.create(t, tt.body)
				assert.Equal(t, http.StatusBadRequest, status)
				assert.False(t, env.Success)
				assert.NotEmpty(t, env.Error)
			})
		}
	})

	t.Run("malformed body responds 400", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		req, err := http.NewRequest(http.MethodPost, svc.srv.URL+"/create", strings.NewReader("{not json"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := svc.srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRead(t *testing.T) {
	t.Parallel()

	createOne := func(t *testing.T, svc *testService) string {
		t.Helper()
		status, _ := svc.create(t, map[string]any{"user_id": testUserID, "kind": "new_message"})
		require.Equal(t, http.StatusCreated, status)

		_, items, _ := svc.list(t, "user_id="+testUserID)
		require.NotEmpty(t, items)
		return items[0].ID
	}

	t.Run("flips is_new exactly once", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		id := createOne(t, svc)

		_, items, _ := svc.list(t, "user_id="+testUserID)
		require.True(t, items[0].IsNew)

		status, env := svc.do(t, http.MethodPost, "/read?user_id="+testUserID+"&notification_id="+id, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, env.Success)

		_, items, _ = svc.list(t, "user_id="+testUserID)
		assert.False(t, items[0].IsNew)

		// Second read succeeds and changes nothing.
		status, _ = svc.do(t, http.MethodPost, "/read?user_id="+testUserID+"&notification_id="+id, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("unknown user responds 404", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		status, env := svc.do(t, http.MethodPost, "/read?user_id="+testUserID+"&notification_id=aaaaaaaaaaaaaaaaaaaaaaaa", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "User not found", env.Error)
	})

	t.Run("unknown notification responds 404", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		createOne(t, svc)

		status, env := svc.do(t, http.MethodPost, "/read?user_id="+testUserID+"&notification_id=aaaaaaaaaaaaaaaaaaaaaaaa", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Notification not found", env.Error)
	})

	t.Run("invalid ids respond 400", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		status, _ := svc.do(t, http.MethodPost, "/read?user_id=abc&notification_id=xyz", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestList(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, svc *testService, n int) {
		t.Helper()
		for range n {
			status, _ := svc.create(t, map[string]any{"user_id": testUserID, "kind": "new_message"})
			require.Equal(t, http.StatusCreated, status)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		seed(t, svc, 3)

		status, items, _ := svc.list(t, "user_id="+testUserID)
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, items, 3)
		assert.Greater(t, items[0].Timestamp, items[1].Timestamp)
		assert.Greater(t, items[1].Timestamp, items[2].Timestamp)
	})

	t.Run("pagination", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		seed(t, svc, 3)

		status, items, _ := svc.list(t, "user_id="+testUserID+"&skip=1&limit=1")
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, items, 1)
	})

	t.Run("out of range page is an empty array", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		seed(t, svc, 2)

		status, items, env := svc.list(t, "user_id="+testUserID+"&skip=10&limit=5")
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, env.Success)
		assert.Empty(t, items)
		assert.Equal(t, "[]", strings.TrimSpace(string(env.Data)))
	})

	t.Run("unknown user is an empty array", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		status, items, _ := svc.list(t, "user_id="+testUserID)
		assert.Equal(t, http.StatusOK, status)
		assert.Empty(t, items)
	})

	t.Run("invalid parameters respond 400", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		tests := []string{
			"user_id=abc",
			"user_id=" + testUserID + "&skip=-1",
			"user_id=" + testUserID + "&limit=0",
			"user_id=" + testUserID + "&limit=-5",
			"user_id=" + testUserID + "&skip=abc",
			"user_id=" + testUserID + "&limit=abc",
		}
		for _, q := range tests {
			status, _, env := svc.list(t, q)
			assert.Equal(t, http.StatusBadRequest, status, q)
			assert.False(t, env.Success, q)
		}
	})

	t.Run("retention cap end to end", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		seed(t, svc, 2)

		_, before, _ := svc.list(t, "user_id="+testUserID)
		require.Len(t, before, 2)
		oldest := before[1].ID

		seed(t, svc, 2) // pushes total writes past the cap of 3

		status, after, _ := svc.list(t, "user_id="+testUserID+"&limit=10")
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, after, 3)

		// The evicted notification is gone.
		readStatus, env := svc.do(t, http.MethodPost, "/read?user_id="+testUserID+"&notification_id="+oldest, nil)
		assert.Equal(t, http.StatusNotFound, readStatus)
		assert.Equal(t, "Notification not found", env.Error)
	})
}

func TestRouterMisc(t *testing.T) {
	t.Parallel()

	t.Run("health endpoint", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		resp, err := svc.srv.Client().Get(svc.srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown route responds with envelope", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		status, env := svc.do(t, http.MethodGet, "/nope", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.False(t, env.Success)
	})

	t.Run("wrong method responds 405", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		status, _ := svc.do(t, http.MethodGet, "/create", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, status)
	})

	t.Run("request id is echoed", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		req, err := http.NewRequest(http.MethodGet, svc.srv.URL+"/list?user_id="+testUserID, nil)
		require.NoError(t, err)
		req.Header.Set("X-Request-ID", "test-request-42")

		resp, err := svc.srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "test-request-42", resp.Header.Get("X-Request-ID"))
	})
}

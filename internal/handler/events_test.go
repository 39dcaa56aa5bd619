package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath/mentor-server-go/internal/middleware"
	"github.com/careerpath/mentor-server-go/internal/sse"
)

type fakeSubscriber struct {
	mu           sync.Mutex
	client       *sse.Client
	unsubscribed bool
}

func (f *fakeSubscriber) Subscribe(ownerID string) *sse.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.client = &sse.Client{OwnerID: ownerID, Events: make(chan sse.Event, 1), Done: make(chan struct{})}
	return f.client
}

func (f *fakeSubscriber) Unsubscribe(*sse.Client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = true
}

func TestEventsHandler_ServeHTTP(t *testing.T) {
	t.Run("returns 401 without an owner", func(t *testing.T) {
		handler := NewEventsHandler(&fakeSubscriber{})

		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("streams connected and session events until the client leaves", func(t *testing.T) {
		sub := &fakeSubscriber{}
		handler := NewEventsHandler(sub)

		ctx, cancel := context.WithCancel(middleware.WithOwnerID(context.Background(), "user-1"))
		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			handler.ServeHTTP(rec, req)
			close(done)
		}()

		require.Eventually(t, func() bool {
			sub.mu.Lock()
			defer sub.mu.Unlock()
			return sub.client != nil
		}, time.Second, 5*time.Millisecond)

		sub.mu.Lock()
		client := sub.client
		sub.mu.Unlock()
		client.Events <- sse.Event{Type: sse.EventSessionUpdated, Data: json.RawMessage(`{"sessionId":"s-1"}`)}

		time.Sleep(20 * time.Millisecond)
		cancel()
		<-done

		body := rec.Body.String()
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Contains(t, body, "event: connected\n")
		assert.Contains(t, body, "event: session_updated\n")
		assert.Contains(t, body, `data: {"sessionId":"s-1"}`)
		assert.True(t, sub.unsubscribed)
	})
}

func TestEventsHandler_sendRawEvent(t *testing.T) {
	handler := &EventsHandler{}
	rec := httptest.NewRecorder()

	err := handler.sendRawEvent(rec, rec, sse.Event{
		Type: sse.EventSessionDeleted,
		Data: json.RawMessage(`{"sessionId":"s-1"}`),
	})

	assert.NoError(t, err)
	assert.Equal(t, "event: session_deleted\ndata: {\"sessionId\":\"s-1\"}\n\n", rec.Body.String())
}

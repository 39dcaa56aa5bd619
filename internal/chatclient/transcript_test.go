package chatclient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath/mentor-server-go/internal/model"
)

type fakeAPI struct {
	mu        sync.Mutex
	answer    string
	adviceErr error
	deleteErr error
	requests  []model.AdviceRequest
	deleted   []string
	sessions  []model.SessionSummary
	stored    map[string]*model.Session

	// gates[n], when set, holds the n-th Advice call open until closed.
	gates   []chan struct{}
	started chan int
	echo    bool
}

func (f *fakeAPI) Advice(_ context.Context, req model.AdviceRequest) (*model.AdviceResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	n := len(f.requests) - 1
	var gate chan struct{}
	if n < len(f.gates) {
		gate = f.gates[n]
	}
	f.mu.Unlock()

	if f.started != nil {
		f.started <- n
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.adviceErr != nil {
		return nil, f.adviceErr
	}
	id := req.SessionID
	if id == "" {
		id = "s-new"
	}
	answer := f.answer
	if f.echo {
		answer = "re: " + req.Message
	}
	return &model.AdviceResponse{Message: answer, SessionID: id}, nil
}

func (f *fakeAPI) ListSessions(context.Context, ListOptions) (*SessionPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &SessionPage{Sessions: append([]model.SessionSummary(nil), f.sessions...)}, nil
}

func (f *fakeAPI) GetSession(_ context.Context, id string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stored[id]
	if !ok {
		return nil, &APIError{Status: 404, Code: "NOT_FOUND", Message: "Career mentor session not found"}
	}
	return s, nil
}

func (f *fakeAPI) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestTranscript(api MentorAPI) *Transcript {
	tr := NewTranscript(api, model.SessionTypeGeneral)
	tr.interval = time.Millisecond
	tr.chunk = func() int { return 2 }
	return tr
}

func TestTranscript_StartsWithGreeting(t *testing.T) {
	tr := newTestTranscript(&fakeAPI{})

	entries := tr.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, model.RoleAssistant, entries[0].Role)
	assert.Equal(t, Greeting, entries[0].Content)
	assert.Empty(t, tr.SessionID())
}

func TestTranscript_Submit(t *testing.T) {
	t.Run("reveals the answer incrementally", func(t *testing.T) {
		api := &fakeAPI{answer: "Learn Go", sessions: []model.SessionSummary{{ID: "s-new"}}}
		tr := newTestTranscript(api)

		var mu sync.Mutex
		var partials []string
		tr.OnChange(func(entries []Entry) {
			last := entries[len(entries)-1]
			if last.Role == model.RoleAssistant {
				mu.Lock()
				partials = append(partials, last.Content)
				mu.Unlock()
			}
		})

		require.NoError(t, tr.Submit(context.Background(), "What should I learn?"))

		entries := tr.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "What should I learn?", entries[1].Content)
		assert.Equal(t, "Learn Go", entries[2].Content)
		assert.False(t, entries[2].Streaming)
		assert.Equal(t, "s-new", tr.SessionID())
		assert.Len(t, tr.Sessions(), 1)

		mu.Lock()
		defer mu.Unlock()
		assert.Contains(t, partials, "Le")
		assert.Contains(t, partials, "Lear")
	})

	t.Run("reuses the session id on the next turn", func(t *testing.T) {
		api := &fakeAPI{answer: "ok"}
		tr := newTestTranscript(api)

		require.NoError(t, tr.Submit(context.Background(), "one"))
		require.NoError(t, tr.Submit(context.Background(), "two"))

		require.Len(t, api.requests, 2)
		assert.Empty(t, api.requests[0].SessionID)
		assert.Equal(t, "s-new", api.requests[1].SessionID)
		assert.Equal(t, model.SessionTypeGeneral, api.requests[1].SessionType)
	})

	t.Run("failure replaces the placeholder with a fixed message", func(t *testing.T) {
		api := &fakeAPI{adviceErr: errors.New("boom")}
		tr := newTestTranscript(api)

		err := tr.Submit(context.Background(), "hello")

		require.Error(t, err)
		entries := tr.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "hello", entries[1].Content)
		assert.Equal(t, ErrorMessage, entries[2].Content)
		assert.False(t, entries[2].Streaming)
		assert.Empty(t, tr.SessionID())
	})

	t.Run("cancelled reveal shows the full answer", func(t *testing.T) {
		api := &fakeAPI{answer: "a long answer that would take a while"}
		tr := newTestTranscript(api)
		tr.interval = time.Hour

		ctx, cancel := context.WithCancel(context.Background())
		tr.OnChange(func(entries []Entry) {
			if entries[len(entries)-1].Streaming {
				cancel()
			}
		})

		require.NoError(t, tr.Submit(ctx, "hi"))

		entries := tr.Entries()
		assert.Equal(t, "a long answer that would take a while", entries[len(entries)-1].Content)
		assert.False(t, entries[len(entries)-1].Streaming)
	})
}

func TestTranscript_SelectSessionAndReset(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	api := &fakeAPI{stored: map[string]*model.Session{
		"s-1": {ID: "s-1", Messages: []model.Message{
			{Role: model.RoleUser, Content: "q", Timestamp: ts},
			{Role: model.RoleAssistant, Content: "a", Timestamp: ts},
		}},
	}}
	tr := newTestTranscript(api)

	require.NoError(t, tr.SelectSession(context.Background(), "s-1"))
	entries := tr.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "q", entries[0].Content)
	assert.Equal(t, ts, entries[1].Timestamp)
	assert.Equal(t, "s-1", tr.SessionID())

	assert.Error(t, tr.SelectSession(context.Background(), "missing"))
	assert.Equal(t, "s-1", tr.SessionID())

	tr.Reset()
	assert.Empty(t, tr.SessionID())
	require.Len(t, tr.Entries(), 1)
	assert.Equal(t, Greeting, tr.Entries()[0].Content)
}

func TestTranscript_DisableReveal(t *testing.T) {
	tr := newTestTranscript(&fakeAPI{answer: "all at once"})
	tr.DisableReveal()

	var streamingUpdates int
	tr.OnChange(func(entries []Entry) {
		last := entries[len(entries)-1]
		if last.Streaming && last.Content != "" {
			streamingUpdates++
		}
	})

	require.NoError(t, tr.Submit(context.Background(), "hi"))

	assert.Zero(t, streamingUpdates)
	assert.Equal(t, "all at once", tr.Entries()[2].Content)
}

func submitAsync(tr *Transcript, text string) <-chan error {
	done := make(chan error, 1)
	go func() { done <- tr.Submit(context.Background(), text) }()
	return done
}

func TestTranscript_ViewChangeDuringRequest(t *testing.T) {
	t.Run("reset keeps the fresh conversation unbound", func(t *testing.T) {
		api := &fakeAPI{answer: "late", gates: []chan struct{}{make(chan struct{})}, started: make(chan int, 1)}
		tr := newTestTranscript(api)

		done := submitAsync(tr, "first")
		<-api.started
		tr.Reset()
		close(api.gates[0])
		require.NoError(t, <-done)

		assert.Empty(t, tr.SessionID())
		entries := tr.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, Greeting, entries[0].Content)
	})

	t.Run("selected session keeps its id", func(t *testing.T) {
		api := &fakeAPI{
			answer:  "late",
			gates:   []chan struct{}{make(chan struct{})},
			started: make(chan int, 1),
			stored: map[string]*model.Session{
				"s-1": {ID: "s-1", Messages: []model.Message{{Role: model.RoleUser, Content: "q"}}},
			},
		}
		tr := newTestTranscript(api)

		done := submitAsync(tr, "first")
		<-api.started
		require.NoError(t, tr.SelectSession(context.Background(), "s-1"))
		close(api.gates[0])
		require.NoError(t, <-done)

		assert.Equal(t, "s-1", tr.SessionID())
		entries := tr.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "q", entries[0].Content)
	})

	t.Run("stale answer does not fill the new placeholder", func(t *testing.T) {
		api := &fakeAPI{
			echo:    true,
			gates:   []chan struct{}{make(chan struct{}), make(chan struct{})},
			started: make(chan int, 2),
		}
		tr := newTestTranscript(api)

		first := submitAsync(tr, "one")
		<-api.started
		tr.Reset()
		second := submitAsync(tr, "two")
		<-api.started

		close(api.gates[0])
		require.NoError(t, <-first)

		entries := tr.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "two", entries[1].Content)
		assert.True(t, entries[2].Streaming)
		assert.Empty(t, entries[2].Content)

		close(api.gates[1])
		require.NoError(t, <-second)

		entries = tr.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "re: two", entries[2].Content)
		assert.False(t, entries[2].Streaming)
		assert.Equal(t, "s-new", tr.SessionID())
	})

	t.Run("failure after reset leaves the new view alone", func(t *testing.T) {
		api := &fakeAPI{adviceErr: errors.New("boom"), gates: []chan struct{}{make(chan struct{})}, started: make(chan int, 1)}
		tr := newTestTranscript(api)

		done := submitAsync(tr, "first")
		<-api.started
		tr.Reset()
		close(api.gates[0])
		require.Error(t, <-done)

		entries := tr.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, Greeting, entries[0].Content)
	})
}

package chatclient

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/careerpath/mentor-server-go/internal/model"
)

const (
	Greeting     = "Hello! I'm your AI Career Mentor. Tell me where you are in your career and where you'd like to go, and we'll plan the next steps together."
	ErrorMessage = "Sorry, I encountered an error. Please try again."

	RevealInterval = 30 * time.Millisecond
	maxRevealChunk = 3
)

// MentorAPI is the part of Client the transcript needs.
type MentorAPI interface {
	Advice(ctx context.Context, req model.AdviceRequest) (*model.AdviceResponse, error)
	ListSessions(ctx context.Context, opts ListOptions) (*SessionPage, error)
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type Entry struct {
	Role      model.MessageRole
	Content   string
	Streaming bool
	Timestamp time.Time
}

// Transcript is the locally displayed conversation. It is safe for
// concurrent use; OnChange is called with a snapshot after every change.
type Transcript struct {
	api         MentorAPI
	sessionType model.SessionType
	interval    time.Duration
	chunk       func() int

	mu        sync.Mutex
	entries   []Entry
	sessionID string
	sessions  []model.SessionSummary
	onChange  func([]Entry)

	// view is bumped whenever entries stop belonging to the conversation an
	// in-flight Submit started in.
	view uint64
}

func NewTranscript(api MentorAPI, sessionType model.SessionType) *Transcript {
	t := &Transcript{
		api:         api,
		sessionType: sessionType,
		interval:    RevealInterval,
		chunk:       func() int { return rand.Intn(maxRevealChunk) + 1 },
	}
	t.entries = greeting()
	return t
}

func greeting() []Entry {
	return []Entry{{Role: model.RoleAssistant, Content: Greeting, Timestamp: time.Now()}}
}

// OnChange registers fn as the render hook.
func (t *Transcript) OnChange(fn func([]Entry)) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

func (t *Transcript) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}

func (t *Transcript) Sessions() []model.SessionSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]model.SessionSummary(nil), t.sessions...)
}

// Submit sends text to the mentor and reveals the answer a few characters at
// a time. If ctx is cancelled mid-reveal the full answer is shown at once.
func (t *Transcript) Submit(ctx context.Context, text string) error {
	var (
		placeholder int
		view        uint64
		sessionID   string
	)
	t.update(func() {
		now := time.Now()
		t.entries = append(t.entries,
			Entry{Role: model.RoleUser, Content: text, Timestamp: now},
			Entry{Role: model.RoleAssistant, Streaming: true, Timestamp: now},
		)
		placeholder = len(t.entries) - 1
		view = t.view
		sessionID = t.sessionID
	})

	resp, err := t.api.Advice(ctx, model.AdviceRequest{
		SessionID:   sessionID,
		Message:     text,
		SessionType: t.sessionType,
	})
	if err != nil {
		log.Debug().Err(err).Msg("advice request failed")
		t.update(func() {
			if t.isPlaceholder(view, placeholder) {
				t.entries = t.entries[:placeholder]
				t.entries = append(t.entries, Entry{Role: model.RoleAssistant, Content: ErrorMessage, Timestamp: time.Now()})
			}
		})
		return err
	}

	current := true
	t.update(func() {
		current = t.view == view
		if current {
			t.sessionID = resp.SessionID
		}
	})
	if !current {
		log.Debug().Str("sessionId", resp.SessionID).Msg("conversation changed during request; answer not shown")
	} else {
		t.reveal(ctx, view, placeholder, []rune(resp.Message))
	}

	if ctx.Err() == nil {
		if err := t.RefreshSessions(ctx); err != nil {
			log.Debug().Err(err).Msg("failed to refresh sessions")
		}
	}
	return nil
}

// DisableReveal makes Submit show answers in one step, for output that is not
// a terminal.
func (t *Transcript) DisableReveal() {
	t.mu.Lock()
	t.interval = 0
	t.mu.Unlock()
}

func (t *Transcript) reveal(ctx context.Context, view uint64, placeholder int, text []rune) {
	t.mu.Lock()
	interval := t.interval
	t.mu.Unlock()

	shown := 0
	if interval <= 0 {
		shown = len(text)
	}

	ticker := time.NewTicker(max(interval, time.Millisecond))
	defer ticker.Stop()

	for shown < len(text) {
		select {
		case <-ctx.Done():
			shown = len(text)
		case <-ticker.C:
			shown = min(shown+t.chunk(), len(text))
		}
		partial := string(text[:shown])
		t.update(func() {
			if t.isPlaceholder(view, placeholder) {
				t.entries[placeholder].Content = partial
			}
		})
	}

	t.update(func() {
		if t.isPlaceholder(view, placeholder) {
			t.entries[placeholder].Content = string(text)
			t.entries[placeholder].Streaming = false
		}
	})
}

// isPlaceholder reports whether entries[i] is still the streaming entry of
// view. Callers must hold the lock.
func (t *Transcript) isPlaceholder(view uint64, i int) bool {
	return t.view == view && i < len(t.entries) && t.entries[i].Streaming
}

func (t *Transcript) RefreshSessions(ctx context.Context) error {
	page, err := t.api.ListSessions(ctx, ListOptions{})
	if err != nil {
		return err
	}
	t.update(func() { t.sessions = page.Sessions })
	return nil
}

// SelectSession replaces the transcript with the stored messages of id.
func (t *Transcript) SelectSession(ctx context.Context, id string) error {
	session, err := t.api.GetSession(ctx, id)
	if err != nil {
		return err
	}

	entries := make([]Entry, 0, len(session.Messages))
	for _, msg := range session.Messages {
		entries = append(entries, Entry{Role: msg.Role, Content: msg.Content, Timestamp: msg.Timestamp})
	}

	t.update(func() {
		t.entries = entries
		t.sessionID = session.ID
		t.view++
	})
	return nil
}

// Reset starts a new conversation.
func (t *Transcript) Reset() {
	t.update(func() {
		t.entries = greeting()
		t.sessionID = ""
		t.view++
	})
}

// forget drops a deleted session from the cached list and resets the view
// when it was the open one.
func (t *Transcript) forget(id string) {
	t.update(func() {
		kept := t.sessions[:0]
		for _, s := range t.sessions {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		t.sessions = kept

		if t.sessionID == id {
			t.entries = greeting()
			t.sessionID = ""
			t.view++
		}
	})
}

func (t *Transcript) update(fn func()) {
	t.mu.Lock()
	fn()
	snapshot := append([]Entry(nil), t.entries...)
	onChange := t.onChange
	t.mu.Unlock()

	if onChange != nil {
		onChange(snapshot)
	}
}

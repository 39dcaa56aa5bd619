package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath/mentor-server-go/internal/model"
	"github.com/careerpath/mentor-server-go/internal/repository"
	"github.com/careerpath/mentor-server-go/internal/service"
)

type recordingDeactivator struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (r *recordingDeactivator) DeactivateIdle(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cutoffs = append(r.cutoffs, before)
	return 3, r.err
}

func (r *recordingDeactivator) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cutoffs)
}

func TestIdleSessionJob_Sweep(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("uses now minus idle window as cutoff", func(t *testing.T) {
		store := &recordingDeactivator{}
		job := NewIdleSessionJob(store, 30*24*time.Hour, time.Hour)
		job.now = func() time.Time { return now }

		job.sweep()

		require.Len(t, store.cutoffs, 1)
		assert.Equal(t, now.Add(-30*24*time.Hour), store.cutoffs[0])
	})

	t.Run("errors do not panic", func(t *testing.T) {
		store := &recordingDeactivator{err: errors.New("db down")}
		job := NewIdleSessionJob(store, time.Hour, time.Hour)

		assert.NotPanics(t, job.sweep)
	})

	t.Run("deactivates stale sessions in the store", func(t *testing.T) {
		store := service.NewSessionStore(repository.NewMemorySessionRepository())
		ctx := context.Background()

		draft, err := store.ResolveOrCreate(ctx, "user-1", "", model.SessionTypeGeneral, nil, "hello")
		require.NoError(t, err)
		require.NoError(t, store.Append(ctx, draft,
			model.Message{Role: model.RoleUser, Content: "hello"},
			model.Message{Role: model.RoleAssistant, Content: "hi"},
		))

		job := NewIdleSessionJob(store, time.Hour, time.Hour)
		job.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		job.sweep()

		session, err := store.GetByID(ctx, "user-1", draft.ID)
		require.NoError(t, err)
		assert.False(t, session.IsActive)
	})
}

func TestIdleSessionJob_StartStop(t *testing.T) {
	store := &recordingDeactivator{}
	job := NewIdleSessionJob(store, time.Hour, 10*time.Millisecond)

	job.Start()
	require.Eventually(t, func() bool { return store.calls() >= 2 }, time.Second, 5*time.Millisecond)
	job.Stop()
}

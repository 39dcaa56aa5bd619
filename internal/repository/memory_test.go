package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath/mentor-server-go/internal/model"
	"github.com/careerpath/mentor-server-go/internal/util"
)

func newTestMemoryRepo(t *testing.T) (*memorySessionRepo, *time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := NewMemorySessionRepository().(*memorySessionRepo)
	repo.now = func() time.Time { return now }
	return repo, &now
}

func userMsg(content string) model.Message {
	return model.Message{Role: model.RoleUser, Content: content, Timestamp: time.Now()}
}

func assistantMsg(content string) model.Message {
	return model.Message{Role: model.RoleAssistant, Content: content, Timestamp: time.Now()}
}

func TestMemorySessionRepository_Create(t *testing.T) {
	repo, _ := newTestMemoryRepo(t)
	ctx := context.Background()

	session, err := repo.Create(ctx, model.CreateSessionParams{
		OwnerID:     "user-1",
		Title:       "How do I move into data science?",
		SessionType: model.SessionTypeGeneral,
		Messages:    []model.Message{userMsg("hi"), assistantMsg("hello")},
	})

	require.NoError(t, err)
	assert.True(t, util.IsValidUUID(session.ID))
	assert.Equal(t, "user-1", session.OwnerID)
	assert.True(t, session.IsActive)
	assert.Equal(t, 0, session.Version)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, "hi", session.Messages[0].Content)
	assert.Equal(t, "hello", session.Messages[1].Content)
}

func TestMemorySessionRepository_FindByID(t *testing.T) {
	repo, _ := newTestMemoryRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreateSessionParams{OwnerID: "user-1", Title: "t", SessionType: model.SessionTypeGeneral})
	require.NoError(t, err)

	t.Run("finds own session", func(t *testing.T) {
		found, err := repo.FindByID(ctx, "user-1", created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("hides other owners' sessions", func(t *testing.T) {
		found, err := repo.FindByID(ctx, "user-2", created.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("returns nil for unknown id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, "user-1", "6f1c2a4e-3b5d-4e7f-8a9b-0c1d2e3f4a5b")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("returned copy does not alias stored messages", func(t *testing.T) {
		found, err := repo.FindByID(ctx, "user-1", created.ID)
		require.NoError(t, err)
		found.Messages = append(found.Messages, userMsg("sneaky"))

		again, err := repo.FindByID(ctx, "user-1", created.ID)
		require.NoError(t, err)
		assert.Empty(t, again.Messages)
	})
}

func TestMemorySessionRepository_AppendMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("appends in order and bumps version", func(t *testing.T) {
		repo, now := newTestMemoryRepo(t)
		created, err := repo.Create(ctx, model.CreateSessionParams{OwnerID: "user-1", Title: "t", SessionType: model.SessionTypeGeneral})
		require.NoError(t, err)

		*now = now.Add(time.Minute)
		result, err := repo.AppendMessages(ctx, created.ID, 0, []model.Message{userMsg("q"), assistantMsg("a")})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Version)
		assert.Equal(t, *now, result.UpdatedAt)

		found, _ := repo.FindByID(ctx, "user-1", created.ID)
		require.Len(t, found.Messages, 2)
		assert.Equal(t, model.RoleUser, found.Messages[0].Role)
		assert.Equal(t, model.RoleAssistant, found.Messages[1].Role)
		assert.True(t, found.UpdatedAt.After(found.CreatedAt))
	})

	t.Run("stale version is rejected without changes", func(t *testing.T) {
		repo, _ := newTestMemoryRepo(t)
		created, err := repo.Create(ctx, model.CreateSessionParams{OwnerID: "user-1", Title: "t", SessionType: model.SessionTypeGeneral})
		require.NoError(t, err)

		_, err = repo.AppendMessages(ctx, created.ID, 0, []model.Message{userMsg("first"), assistantMsg("a1")})
		require.NoError(t, err)

		_, err = repo.AppendMessages(ctx, created.ID, 0, []model.Message{userMsg("second"), assistantMsg("a2")})
		assert.ErrorIs(t, err, ErrVersionConflict)

		found, _ := repo.FindByID(ctx, "user-1", created.ID)
		assert.Len(t, found.Messages, 2)
		assert.Equal(t, 1, found.Version)
	})

	t.Run("missing session", func(t *testing.T) {
		repo, _ := newTestMemoryRepo(t)
		_, err := repo.AppendMessages(ctx, "6f1c2a4e-3b5d-4e7f-8a9b-0c1d2e3f4a5b", 0, []model.Message{userMsg("q")})
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestMemorySessionRepository_List(t *testing.T) {
	repo, now := newTestMemoryRepo(t)
	ctx := context.Background()

	var ids []string
	for i, st := range []model.SessionType{model.SessionTypeGeneral, model.SessionTypeInterviewPrep, model.SessionTypeGeneral} {
		*now = now.Add(time.Duration(i+1) * time.Minute)
		s, err := repo.Create(ctx, model.CreateSessionParams{
			OwnerID:     "user-1",
			Title:       "session",
			SessionType: st,
			Messages:    []model.Message{userMsg(strings.Repeat("x", 150))},
		})
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}
	_, err := repo.Create(ctx, model.CreateSessionParams{OwnerID: "user-2", Title: "other", SessionType: model.SessionTypeGeneral})
	require.NoError(t, err)

	t.Run("most recently updated first", func(t *testing.T) {
		list, err := repo.List(ctx, model.SessionFilter{OwnerID: "user-1"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{list[0].ID, list[1].ID, list[2].ID})
	})

	t.Run("last message preview is truncated", func(t *testing.T) {
		list, err := repo.List(ctx, model.SessionFilter{OwnerID: "user-1"}, 1, 0)
		require.NoError(t, err)
		require.NotNil(t, list[0].LastMessage)
		assert.Len(t, *list[0].LastMessage, LastMessagePreviewLen)
		assert.Equal(t, 1, list[0].MessageCount)
	})

	t.Run("filters by session type", func(t *testing.T) {
		st := model.SessionTypeInterviewPrep
		filter := model.SessionFilter{OwnerID: "user-1", SessionType: &st}
		list, err := repo.List(ctx, filter, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, ids[1], list[0].ID)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("offset past end yields empty page", func(t *testing.T) {
		list, err := repo.List(ctx, model.SessionFilter{OwnerID: "user-1"}, 10, 20)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("count is per owner", func(t *testing.T) {
		count, err := repo.Count(ctx, model.SessionFilter{OwnerID: "user-1"})
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}

func TestMemorySessionRepository_Delete(t *testing.T) {
	repo, _ := newTestMemoryRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreateSessionParams{OwnerID: "user-1", Title: "t", SessionType: model.SessionTypeGeneral})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, "user-2", created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete(ctx, "user-1", created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	found, err := repo.FindByID(ctx, "user-1", created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestMemorySessionRepository_DeactivateIdle(t *testing.T) {
	repo, now := newTestMemoryRepo(t)
	ctx := context.Background()

	old, err := repo.Create(ctx, model.CreateSessionParams{OwnerID: "user-1", Title: "old", SessionType: model.SessionTypeGeneral})
	require.NoError(t, err)

	*now = now.Add(48 * time.Hour)
	fresh, err := repo.Create(ctx, model.CreateSessionParams{OwnerID: "user-1", Title: "fresh", SessionType: model.SessionTypeGeneral})
	require.NoError(t, err)

	n, err := repo.DeactivateIdle(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	found, _ := repo.FindByID(ctx, "user-1", old.ID)
	assert.False(t, found.IsActive)
	found, _ = repo.FindByID(ctx, "user-1", fresh.ID)
	assert.True(t, found.IsActive)
}

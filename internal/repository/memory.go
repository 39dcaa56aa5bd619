package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/careerpath/mentor-server-go/internal/model"
	"github.com/careerpath/mentor-server-go/internal/util"
)

// memorySessionRepo keeps sessions in process memory. It is used for local
// development and tests; nothing survives a restart.
type memorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	now      func() time.Time
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepo{
		sessions: make(map[string]*model.Session),
		now:      time.Now,
	}
}

func (r *memorySessionRepo) FindByID(_ context.Context, ownerID, id string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok || s.OwnerID != ownerID {
		return nil, nil
	}
	return cloneSession(s), nil
}

func (r *memorySessionRepo) FindAllByOwner(_ context.Context, ownerID string) ([]model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := r.owned(model.SessionFilter{OwnerID: ownerID})
	sessions := make([]model.Session, 0, len(owned))
	for _, s := range owned {
		sessions = append(sessions, *cloneSession(s))
	}
	return sessions, nil
}

func (r *memorySessionRepo) Create(_ context.Context, params model.CreateSessionParams) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	s := &model.Session{
		ID:          uuid.NewString(),
		OwnerID:     params.OwnerID,
		Title:       params.Title,
		SessionType: params.SessionType,
		Messages:    cloneMessages(params.Messages),
		Profile:     params.Profile,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.sessions[s.ID] = s
	return cloneSession(s), nil
}

func (r *memorySessionRepo) AppendMessages(_ context.Context, id string, expectedVersion int, msgs []model.Message) (*AppendResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Version != expectedVersion {
		return nil, ErrVersionConflict
	}

	s.Messages = append(s.Messages, cloneMessages(msgs)...)
	s.Version++
	s.UpdatedAt = r.now()
	return &AppendResult{Version: s.Version, UpdatedAt: s.UpdatedAt}, nil
}

func (r *memorySessionRepo) List(_ context.Context, filter model.SessionFilter, limit, offset int) ([]model.SessionSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := r.owned(filter)
	if offset >= len(owned) {
		return []model.SessionSummary{}, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}

	summaries := make([]model.SessionSummary, 0, end-offset)
	for _, s := range owned[offset:end] {
		summary := model.SessionSummary{
			ID:           s.ID,
			Title:        s.Title,
			SessionType:  s.SessionType,
			MessageCount: len(s.Messages),
			IsActive:     s.IsActive,
			Profile:      s.Profile,
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
		}
		if n := len(s.Messages); n > 0 {
			preview, _ := util.Truncate(s.Messages[n-1].Content, LastMessagePreviewLen)
			summary.LastMessage = &preview
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (r *memorySessionRepo) Count(_ context.Context, filter model.SessionFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.owned(filter)), nil
}

func (r *memorySessionRepo) Delete(_ context.Context, ownerID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || s.OwnerID != ownerID {
		return false, nil
	}
	delete(r.sessions, id)
	return true, nil
}

func (r *memorySessionRepo) DeactivateIdle(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, s := range r.sessions {
		if s.IsActive && s.UpdatedAt.Before(before) {
			s.IsActive = false
			n++
		}
	}
	return n, nil
}

// owned returns the sessions matching filter, most recently updated first.
// Callers must hold the lock.
func (r *memorySessionRepo) owned(filter model.SessionFilter) []*model.Session {
	var out []*model.Session
	for _, s := range r.sessions {
		if s.OwnerID != filter.OwnerID {
			continue
		}
		if filter.SessionType != nil && s.SessionType != *filter.SessionType {
			continue
		}
		if filter.IsActive != nil && s.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func cloneSession(s *model.Session) *model.Session {
	c := *s
	c.Messages = cloneMessages(s.Messages)
	return &c
}

func cloneMessages(msgs []model.Message) []model.Message {
	out := make([]model.Message, len(msgs))
	for i, m := range msgs {
		out[i] = m
		if m.ActionItems != nil {
			out[i].ActionItems = append([]model.ActionItem(nil), m.ActionItems...)
		}
	}
	return out
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/careerpath/mentor-server-go/internal/errors"
	"github.com/careerpath/mentor-server-go/internal/model"
	"github.com/careerpath/mentor-server-go/internal/repository"
	"github.com/careerpath/mentor-server-go/internal/util"
)

const (
	sessionResource = "Career mentor session"
	titleMaxChars   = 60

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListQuery selects one page of an owner's sessions. Zero values fall back
// to page 1 and DefaultPageSize.
type ListQuery struct {
	Page        int
	Limit       int
	SessionType *model.SessionType
	IsActive    *bool
}

type ListResult struct {
	Sessions   []model.SessionSummary `json:"sessions"`
	Pagination model.Pagination       `json:"pagination"`
}

// SessionStore owns session persistence rules: ownership, append-only
// messages and optimistic versioning.
type SessionStore struct {
	repo repository.SessionRepository
	now  func() time.Time
}

func NewSessionStore(repo repository.SessionRepository) *SessionStore {
	return &SessionStore{repo: repo, now: time.Now}
}

// DeriveTitle is the first 60 characters of message, with "..." appended
// when anything was cut.
func DeriveTitle(message string) string {
	title, cut := util.Truncate(message, titleMaxChars)
	if cut {
		return title + "..."
	}
	return title
}

// ResolveOrCreate loads the owner's session when sessionID is set. Otherwise
// it returns an unsaved draft that the first Append persists.
func (s *SessionStore) ResolveOrCreate(
	ctx context.Context,
	ownerID string,
	sessionID string,
	kind model.SessionType,
	profile *model.CareerProfile,
	firstMessage string,
) (*model.Session, error) {
	if sessionID != "" {
		return s.GetByID(ctx, ownerID, sessionID)
	}

	if kind == "" {
		kind = model.SessionTypeGeneral
	}
	now := s.now()
	return &model.Session{
		OwnerID:     ownerID,
		Title:       DeriveTitle(firstMessage),
		SessionType: kind,
		Messages:    []model.Message{},
		Profile:     profile,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Append adds msgs to session in order. A draft session is created together
// with its messages; an existing one is only updated when its stored version
// still matches session.Version. On success session reflects the new state.
func (s *SessionStore) Append(ctx context.Context, session *model.Session, msgs ...model.Message) error {
	for i := range msgs {
		if !msgs[i].Role.Valid() {
			return apperrors.ValidationError(fmt.Sprintf("invalid message role %q", msgs[i].Role))
		}
		if strings.TrimSpace(msgs[i].Content) == "" {
			return apperrors.ValidationError("message content must not be empty")
		}
		if msgs[i].Timestamp.IsZero() {
			msgs[i].Timestamp = s.now()
		}
	}

	if session.IsNew() {
		created, err := s.repo.Create(ctx, model.CreateSessionParams{
			OwnerID:     session.OwnerID,
			Title:       session.Title,
			SessionType: session.SessionType,
			Profile:     session.Profile,
			Messages:    msgs,
		})
		if err != nil {
			return apperrors.Database(fmt.Errorf("create session: %w", err))
		}
		*session = *created

		log.Info().
			Str("sessionId", session.ID).
			Str("ownerId", session.OwnerID).
			Str("sessionType", string(session.SessionType)).
			Msg("mentor session created")
		return nil
	}

	result, err := s.repo.AppendMessages(ctx, session.ID, session.Version, msgs)
	switch {
	case errors.Is(err, repository.ErrVersionConflict):
		log.Warn().
			Str("sessionId", session.ID).
			Int("expectedVersion", session.Version).
			Msg("session append rejected: version conflict")
		return apperrors.Conflict("Session was modified by another request; please retry")
	case errors.Is(err, repository.ErrSessionNotFound):
		return apperrors.NotFound(sessionResource)
	case err != nil:
		return apperrors.Database(fmt.Errorf("append messages: %w", err))
	}

	session.Messages = append(session.Messages, msgs...)
	session.Version = result.Version
	session.UpdatedAt = result.UpdatedAt
	return nil
}

func (s *SessionStore) List(ctx context.Context, ownerID string, q ListQuery) (*ListResult, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	filter := model.SessionFilter{
		OwnerID:     ownerID,
		SessionType: q.SessionType,
		IsActive:    q.IsActive,
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, apperrors.Database(fmt.Errorf("count sessions: %w", err))
	}

	sessions, err := s.repo.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, apperrors.Database(fmt.Errorf("list sessions: %w", err))
	}
	if sessions == nil {
		sessions = []model.SessionSummary{}
	}

	return &ListResult{
		Sessions: sessions,
		Pagination: model.Pagination{
			CurrentPage:  page,
			TotalPages:   (total + limit - 1) / limit,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}

func (s *SessionStore) GetByID(ctx context.Context, ownerID, sessionID string) (*model.Session, error) {
	session, err := s.repo.FindByID(ctx, ownerID, sessionID)
	if err != nil {
		return nil, apperrors.Database(fmt.Errorf("find session: %w", err))
	}
	if session == nil {
		return nil, apperrors.NotFound(sessionResource)
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, ownerID, sessionID string) error {
	deleted, err := s.repo.Delete(ctx, ownerID, sessionID)
	if err != nil {
		return apperrors.Database(fmt.Errorf("delete session: %w", err))
	}
	if !deleted {
		return apperrors.NotFound(sessionResource)
	}

	log.Info().
		Str("sessionId", sessionID).
		Str("ownerId", ownerID).
		Msg("mentor session deleted")
	return nil
}

func (s *SessionStore) AggregateStats(ctx context.Context, ownerID string) (*model.Stats, error) {
	sessions, err := s.repo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Database(fmt.Errorf("load sessions: %w", err))
	}
	stats := ComputeStats(sessions)
	return &stats, nil
}

// DeactivateIdle flags sessions not updated since before as inactive.
func (s *SessionStore) DeactivateIdle(ctx context.Context, before time.Time) (int64, error) {
	return s.repo.DeactivateIdle(ctx, before)
}

// ComputeStats aggregates usage over sessions. Every session kind is present
// in BySessionType.
func ComputeStats(sessions []model.Session) model.Stats {
	stats := model.Stats{
		BySessionType: make(map[model.SessionType]int, len(model.SessionTypes)),
	}
	for _, kind := range model.SessionTypes {
		stats.BySessionType[kind] = 0
	}

	for _, session := range sessions {
		stats.TotalSessions++
		stats.BySessionType[session.SessionType]++
		stats.TotalMessages += len(session.Messages)
		if session.IsActive {
			stats.ActiveSessions++
		}
		for _, msg := range session.Messages {
			stats.TotalActionItems += len(msg.ActionItems)
			for _, item := range msg.ActionItems {
				if item.Completed {
					stats.CompletedActionItems++
				}
			}
		}
	}

	if stats.TotalSessions > 0 {
		stats.AverageMessagesPerSession = float64(stats.TotalMessages) / float64(stats.TotalSessions)
	}
	return stats
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

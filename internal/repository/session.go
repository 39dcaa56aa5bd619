package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/careerpath/mentor-server-go/internal/database"
	"github.com/careerpath/mentor-server-go/internal/model"
	"github.com/careerpath/mentor-server-go/internal/util"
)

// LastMessagePreviewLen is the number of characters of the last message
// included in a session summary.
const LastMessagePreviewLen = 100

var (
	// ErrVersionConflict is returned by AppendMessages when the session was
	// modified after the caller read it.
	ErrVersionConflict = errors.New("session version conflict")
	// ErrSessionNotFound is returned by AppendMessages when the session no
	// longer exists.
	ErrSessionNotFound = errors.New("session not found")
)

type AppendResult struct {
	Version   int       `db:"version"`
	UpdatedAt time.Time `db:"updated_at"`
}

type SessionRepository interface {
	// FindByID returns nil without error when the session is missing or
	// belongs to another owner.
	FindByID(ctx context.Context, ownerID, id string) (*model.Session, error)
	FindAllByOwner(ctx context.Context, ownerID string) ([]model.Session, error)
	// Create stores the session and its initial messages atomically.
	Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error)
	// AppendMessages appends msgs in order if the stored version still
	// equals expectedVersion, all or nothing.
	AppendMessages(ctx context.Context, id string, expectedVersion int, msgs []model.Message) (*AppendResult, error)
	List(ctx context.Context, filter model.SessionFilter, limit, offset int) ([]model.SessionSummary, error)
	Count(ctx context.Context, filter model.SessionFilter) (int, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
	DeactivateIdle(ctx context.Context, before time.Time) (int64, error)
}

type sessionRow struct {
	ID          string           `db:"id"`
	OwnerID     string           `db:"owner_id"`
	Title       string           `db:"title"`
	SessionType string           `db:"session_type"`
	Profile     *json.RawMessage `db:"profile"`
	IsActive    bool             `db:"is_active"`
	Summary     *string          `db:"summary"`
	Version     int              `db:"version"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"`
}

type messageRow struct {
	SessionID   string           `db:"session_id"`
	Seq         int              `db:"seq"`
	Role        string           `db:"role"`
	Content     string           `db:"content"`
	ActionItems *json.RawMessage `db:"action_items"`
	CreatedAt   time.Time        `db:"created_at"`
}

type summaryRow struct {
	ID           string           `db:"id"`
	Title        string           `db:"title"`
	SessionType  string           `db:"session_type"`
	IsActive     bool             `db:"is_active"`
	Profile      *json.RawMessage `db:"profile"`
	CreatedAt    time.Time        `db:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at"`
	MessageCount int              `db:"message_count"`
	LastMessage  *string          `db:"last_message"`
}

type sessionRepo struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) FindByID(ctx context.Context, ownerID, id string) (*model.Session, error) {
	if !util.IsValidUUID(id) {
		return nil, nil
	}

	var row sessionRow
	err := r.db.GetContext(ctx, &row, `
		SELECT * FROM mentor_sessions WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	found, err := HandleNotFound(&row, err)
	if err != nil || found == nil {
		return nil, err
	}

	var msgs []messageRow
	if err := r.db.SelectContext(ctx, &msgs, `
		SELECT * FROM mentor_messages WHERE session_id = $1 ORDER BY seq ASC
	`, id); err != nil {
		return nil, err
	}

	return toSession(*found, msgs)
}

func (r *sessionRepo) FindAllByOwner(ctx context.Context, ownerID string) ([]model.Session, error) {
	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM mentor_sessions WHERE owner_id = $1 ORDER BY updated_at DESC, id DESC
	`, ownerID); err != nil {
		return nil, err
	}

	var msgs []messageRow
	if err := r.db.SelectContext(ctx, &msgs, `
		SELECT m.* FROM mentor_messages m
		JOIN mentor_sessions s ON s.id = m.session_id
		WHERE s.owner_id = $1
		ORDER BY m.session_id, m.seq ASC
	`, ownerID); err != nil {
		return nil, err
	}

	bySession := make(map[string][]messageRow, len(rows))
	for _, m := range msgs {
		bySession[m.SessionID] = append(bySession[m.SessionID], m)
	}

	sessions := make([]model.Session, 0, len(rows))
	for _, row := range rows {
		s, err := toSession(row, bySession[row.ID])
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, nil
}

func (r *sessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	profile, err := marshalNullable(params.Profile)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}

	var row sessionRow
	var inserted []messageRow
	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &row, `
			INSERT INTO mentor_sessions (owner_id, title, session_type, profile)
			VALUES ($1, $2, $3, $4)
			RETURNING *
		`, params.OwnerID, params.Title, params.SessionType, profile); err != nil {
			return err
		}

		inserted, err = insertMessages(ctx, tx, row.ID, 0, params.Messages)
		return err
	})
	if err != nil {
		return nil, err
	}

	return toSession(row, inserted)
}

func (r *sessionRepo) AppendMessages(ctx context.Context, id string, expectedVersion int, msgs []model.Message) (*AppendResult, error) {
	var result AppendResult
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &result, `
			UPDATE mentor_sessions SET
				version = version + 1,
				updated_at = NOW()
			WHERE id = $1 AND version = $2
			RETURNING version, updated_at
		`, id, expectedVersion)
		found, err := HandleNotFound(&result, err)
		if err != nil {
			return err
		}
		if found == nil {
			var exists bool
			if err := tx.GetContext(ctx, &exists, `
				SELECT EXISTS(SELECT 1 FROM mentor_sessions WHERE id = $1)
			`, id); err != nil {
				return err
			}
			if !exists {
				return ErrSessionNotFound
			}
			return ErrVersionConflict
		}

		var next int
		if err := tx.GetContext(ctx, &next, `
			SELECT COALESCE(MAX(seq) + 1, 0) FROM mentor_messages WHERE session_id = $1
		`, id); err != nil {
			return err
		}

		_, err = insertMessages(ctx, tx, id, next, msgs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *sessionRepo) List(ctx context.Context, filter model.SessionFilter, limit, offset int) ([]model.SessionSummary, error) {
	var rows []summaryRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			s.id, s.title, s.session_type, s.is_active, s.profile, s.created_at, s.updated_at,
			(SELECT COUNT(*) FROM mentor_messages m WHERE m.session_id = s.id) AS message_count,
			(SELECT LEFT(m.content, $6) FROM mentor_messages m
				WHERE m.session_id = s.id ORDER BY m.seq DESC LIMIT 1) AS last_message
		FROM mentor_sessions s
		WHERE s.owner_id = $1
			AND ($2::text IS NULL OR s.session_type = $2)
			AND ($3::boolean IS NULL OR s.is_active = $3)
		ORDER BY s.updated_at DESC, s.id DESC
		LIMIT $4 OFFSET $5
	`, filter.OwnerID, filter.SessionType, filter.IsActive, limit, offset, LastMessagePreviewLen)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.SessionSummary, 0, len(rows))
	for _, row := range rows {
		profile, err := unmarshalProfile(row.Profile)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, model.SessionSummary{
			ID:           row.ID,
			Title:        row.Title,
			SessionType:  model.SessionType(row.SessionType),
			MessageCount: row.MessageCount,
			LastMessage:  row.LastMessage,
			IsActive:     row.IsActive,
			Profile:      profile,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	return summaries, nil
}

func (r *sessionRepo) Count(ctx context.Context, filter model.SessionFilter) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM mentor_sessions
		WHERE owner_id = $1
			AND ($2::text IS NULL OR session_type = $2)
			AND ($3::boolean IS NULL OR is_active = $3)
	`, filter.OwnerID, filter.SessionType, filter.IsActive)
	return count, err
}

func (r *sessionRepo) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	if !util.IsValidUUID(id) {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx, `
		DELETE FROM mentor_sessions WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (r *sessionRepo) DeactivateIdle(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE mentor_sessions SET is_active = FALSE
		WHERE is_active AND updated_at < $1
	`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func insertMessages(ctx context.Context, tx *sqlx.Tx, sessionID string, firstSeq int, msgs []model.Message) ([]messageRow, error) {
	rows := make([]messageRow, 0, len(msgs))
	for i, msg := range msgs {
		items, err := marshalNullable(msg.ActionItems)
		if err != nil {
			return nil, fmt.Errorf("marshal action items: %w", err)
		}

		var row messageRow
		if err := tx.GetContext(ctx, &row, `
			INSERT INTO mentor_messages (session_id, seq, role, content, action_items, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		`, sessionID, firstSeq+i, msg.Role, msg.Content, items, msg.Timestamp); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toSession(row sessionRow, msgs []messageRow) (*model.Session, error) {
	profile, err := unmarshalProfile(row.Profile)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Title:       row.Title,
		SessionType: model.SessionType(row.SessionType),
		Messages:    make([]model.Message, 0, len(msgs)),
		Profile:     profile,
		IsActive:    row.IsActive,
		Summary:     row.Summary,
		Version:     row.Version,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}

	for _, m := range msgs {
		msg := model.Message{
			Role:      model.MessageRole(m.Role),
			Content:   m.Content,
			Timestamp: m.CreatedAt,
		}
		if m.ActionItems != nil {
			if err := json.Unmarshal(*m.ActionItems, &msg.ActionItems); err != nil {
				return nil, fmt.Errorf("unmarshal action items: %w", err)
			}
		}
		session.Messages = append(session.Messages, msg)
	}
	return session, nil
}

func unmarshalProfile(raw *json.RawMessage) (*model.CareerProfile, error) {
	if raw == nil {
		return nil, nil
	}
	var profile model.CareerProfile
	if err := json.Unmarshal(*raw, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &profile, nil
}

// marshalNullable encodes v as JSON, mapping nil pointers and empty slices to SQL NULL.
func marshalNullable[T any](v T) (*json.RawMessage, error) {
	switch x := any(v).(type) {
	case *model.CareerProfile:
		if x == nil {
			return nil, nil
		}
	case []model.ActionItem:
		if len(x) == 0 {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	raw := json.RawMessage(data)
	return &raw, nil
}

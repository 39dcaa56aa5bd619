package model

import "time"

type AdviceContext struct {
	Profile       *CareerProfile `json:"profile,omitempty"`
	SpecificTopic *string        `json:"specificTopic,omitempty"`
}

// AdviceRequest continues the session named by SessionID, or starts a new one
// when it is empty.
type AdviceRequest struct {
	SessionID   string         `json:"sessionId,omitempty"`
	Message     string         `json:"message"`
	SessionType SessionType    `json:"sessionType,omitempty"`
	Context     *AdviceContext `json:"context,omitempty"`
}

type AdviceResponse struct {
	Message     string           `json:"message"`
	SessionID   string           `json:"sessionId"`
	Suggestions []string         `json:"suggestions"`
	ActionItems []ActionItem     `json:"actionItems"`
	Resources   []CareerResource `json:"resources"`
	Metadata    AdviceMetadata   `json:"metadata"`
}

type AdviceMetadata struct {
	Tokens      int         `json:"tokens"`
	Provider    string      `json:"provider"`
	SessionType SessionType `json:"sessionType"`
}

// SessionEvent is the payload of session_* events streamed to the owner.
type SessionEvent struct {
	SessionID    string      `json:"sessionId"`
	Title        string      `json:"title,omitempty"`
	SessionType  SessionType `json:"sessionType,omitempty"`
	MessageCount int         `json:"messageCount"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// ToEventData returns the event payload describing s.
func (s *Session) ToEventData() SessionEvent {
	return SessionEvent{
		SessionID:    s.ID,
		Title:        s.Title,
		SessionType:  s.SessionType,
		MessageCount: len(s.Messages),
		UpdatedAt:    s.UpdatedAt,
	}
}

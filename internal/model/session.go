package model

import (
	"time"
)

// Session is an owned mentor conversation. Messages are append-only.
type Session struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"ownerId"`
	Title       string         `json:"title"`
	SessionType SessionType    `json:"sessionType"`
	Messages    []Message      `json:"messages"`
	Profile     *CareerProfile `json:"profile,omitempty"`
	IsActive    bool           `json:"isActive"`
	Summary     *string        `json:"summary,omitempty"`
	Version     int            `json:"version"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// IsNew reports whether the session has not been persisted yet.
func (s *Session) IsNew() bool {
	return s.ID == ""
}

type Message struct {
	Role        MessageRole  `json:"role"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	ActionItems []ActionItem `json:"actionItems,omitempty"`
}

type ActionItem struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Timeframe   *string  `json:"timeframe,omitempty"`
	Completed   bool     `json:"completed"`
}

type CareerProfile struct {
	CurrentRole         *string           `json:"currentRole,omitempty"`
	YearsOfExperience   *float64          `json:"yearsOfExperience,omitempty"`
	ExperienceLevel     *ExperienceLevel  `json:"experienceLevel,omitempty"`
	Skills              []string          `json:"skills"`
	Interests           []string          `json:"interests"`
	Education           []string          `json:"education,omitempty"`
	Certifications      []string          `json:"certifications,omitempty"`
	CareerGoals         []CareerGoal      `json:"careerGoals,omitempty"`
	TargetRoles         []string          `json:"targetRoles,omitempty"`
	PreferredIndustries []string          `json:"preferredIndustries,omitempty"`
	Location            *string           `json:"location,omitempty"`
	RemotePreference    *RemotePreference `json:"remotePreference,omitempty"`
}

type CreateSessionParams struct {
	OwnerID     string
	Title       string
	SessionType SessionType
	Profile     *CareerProfile
	Messages    []Message
}

// SessionFilter narrows a listing to one owner and optional kind/activity.
type SessionFilter struct {
	OwnerID     string
	SessionType *SessionType
	IsActive    *bool
}

type SessionSummary struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	SessionType  SessionType    `json:"sessionType"`
	MessageCount int            `json:"messageCount"`
	LastMessage  *string        `json:"lastMessage,omitempty"`
	IsActive     bool           `json:"isActive"`
	Profile      *CareerProfile `json:"profile,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type Stats struct {
	TotalSessions             int                 `json:"totalSessions"`
	ActiveSessions            int                 `json:"activeSessions"`
	TotalMessages             int                 `json:"totalMessages"`
	BySessionType             map[SessionType]int `json:"bySessionType"`
	TotalActionItems          int                 `json:"totalActionItems"`
	CompletedActionItems      int                 `json:"completedActionItems"`
	AverageMessagesPerSession float64             `json:"averageMessagesPerSession"`
}

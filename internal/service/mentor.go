package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/careerpath/mentor-server-go/internal/completion"
	"github.com/careerpath/mentor-server-go/internal/config"
	apperrors "github.com/careerpath/mentor-server-go/internal/errors"
	"github.com/careerpath/mentor-server-go/internal/model"
	"github.com/careerpath/mentor-server-go/internal/prompt"
	"github.com/careerpath/mentor-server-go/internal/sse"
)

const publishTimeout = 5 * time.Second

type EventPublisher interface {
	Publish(ctx context.Context, ownerID string, event sse.Event) error
}

// MentorService runs mentor round-trips: resolve the session, build the
// prompt, call the model, and persist only once the model has answered.
type MentorService struct {
	store     *SessionStore
	gateway   completion.Gateway
	publisher EventPublisher
	now       func() time.Time
}

// NewMentorService wires the orchestrator. publisher may be nil.
func NewMentorService(store *SessionStore, gateway completion.Gateway, publisher EventPublisher) *MentorService {
	return &MentorService{
		store:     store,
		gateway:   gateway,
		publisher: publisher,
		now:       time.Now,
	}
}

func (m *MentorService) Advise(ctx context.Context, ownerID string, req model.AdviceRequest) (*model.AdviceResponse, error) {
	kind := req.SessionType
	if kind == "" {
		kind = model.SessionTypeGeneral
	}

	var profile *model.CareerProfile
	var topic *string
	if req.Context != nil {
		profile = req.Context.Profile
		topic = req.Context.SpecificTopic
	}

	session, err := m.store.ResolveOrCreate(ctx, ownerID, req.SessionID, kind, profile, req.Message)
	if err != nil {
		return nil, err
	}

	msgs := prompt.BuildAdvicePrompt(session, req.Message, topic)

	result, err := m.gateway.Complete(ctx, msgs, completion.AdviceSettings)
	if err != nil {
		log.Warn().
			Err(err).
			Str("ownerId", ownerID).
			Str("sessionId", session.ID).
			Msg("advice completion failed")
		return nil, err
	}
	if strings.TrimSpace(result.Text) == "" {
		return nil, apperrors.MalformedResponse("Completion provider returned an empty answer", nil)
	}

	created := session.IsNew()
	userAt := m.now()
	err = m.store.Append(ctx, session,
		model.Message{Role: model.RoleUser, Content: req.Message, Timestamp: userAt},
		model.Message{Role: model.RoleAssistant, Content: result.Text, Timestamp: m.now()},
	)
	if err != nil {
		return nil, err
	}

	eventType := sse.EventSessionUpdated
	if created {
		eventType = sse.EventSessionCreated
	}
	m.publish(ctx, ownerID, eventType, session.ToEventData())

	log.Info().
		Str("ownerId", ownerID).
		Str("sessionId", session.ID).
		Int("totalTokens", result.Usage.TotalTokens).
		Int("messageCount", len(session.Messages)).
		Msg("advice round-trip completed")

	return &model.AdviceResponse{
		Message:     result.Text,
		SessionID:   session.ID,
		Suggestions: []string{},
		ActionItems: []model.ActionItem{},
		Resources:   []model.CareerResource{},
		Metadata: model.AdviceMetadata{
			Tokens:      result.Usage.TotalTokens,
			Provider:    config.CompletionProvider,
			SessionType: kind,
		},
	}, nil
}

func (m *MentorService) AssessSkills(ctx context.Context, req model.SkillAssessmentRequest) (*model.SkillAssessment, error) {
	out, err := completion.CompleteJSON[model.SkillAssessment](ctx, m.gateway, prompt.SkillAssessmentPrompt(req), completion.SkillAssessmentSettings)
	if err != nil {
		return nil, err
	}
	if !req.IncludeGapAnalysis {
		out.GapAnalysis = nil
	}
	return out, nil
}

func (m *MentorService) PrepareInterview(ctx context.Context, req model.InterviewPrepRequest) (*model.InterviewPrep, error) {
	return completion.CompleteJSON[model.InterviewPrep](ctx, m.gateway, prompt.InterviewPrepPrompt(req), completion.InterviewPrepSettings)
}

func (m *MentorService) ReviewResume(ctx context.Context, req model.ResumeReviewRequest) (*model.ResumeReview, error) {
	return completion.CompleteJSON[model.ResumeReview](ctx, m.gateway, prompt.ResumeReviewPrompt(req), completion.ResumeReviewSettings)
}

func (m *MentorService) NegotiateSalary(ctx context.Context, req model.SalaryNegotiationRequest) (*model.SalaryNegotiation, error) {
	return completion.CompleteJSON[model.SalaryNegotiation](ctx, m.gateway, prompt.SalaryNegotiationPrompt(req), completion.SalaryNegotiationSettings)
}

// DeleteSession removes the owner's session and notifies their other clients.
func (m *MentorService) DeleteSession(ctx context.Context, ownerID, sessionID string) error {
	if err := m.store.Delete(ctx, ownerID, sessionID); err != nil {
		return err
	}
	m.publish(ctx, ownerID, sse.EventSessionDeleted, model.SessionEvent{
		SessionID: sessionID,
		UpdatedAt: m.now(),
	})
	return nil
}

// publish is best effort: the request already succeeded.
func (m *MentorService) publish(ctx context.Context, ownerID, eventType string, data model.SessionEvent) {
	if m.publisher == nil {
		return
	}

	event, err := sse.NewEvent(eventType, data)
	if err != nil {
		log.Error().Err(err).Str("eventType", eventType).Msg("failed to build session event")
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := m.publisher.Publish(pubCtx, ownerID, event); err != nil {
		log.Warn().
			Err(err).
			Str("ownerId", ownerID).
			Str("sessionId", data.SessionID).
			Str("eventType", eventType).
			Msg("failed to publish session event")
	}
}

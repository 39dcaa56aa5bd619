package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careerpath/mentor-server-go/internal/audit"
	"github.com/careerpath/mentor-server-go/internal/middleware"
	"github.com/careerpath/mentor-server-go/internal/model"
	"github.com/careerpath/mentor-server-go/internal/service"
)

type MentorHandler struct {
	mentor *service.MentorService
	store  *service.SessionStore
}

func NewMentorHandler(mentor *service.MentorService, store *service.SessionStore) *MentorHandler {
	return &MentorHandler{
		mentor: mentor,
		store:  store,
	}
}

// Routes mounts the mentor API. rateLimit wraps the endpoints that call the
// completion provider; pass nil to leave them unlimited.
func (h *MentorHandler) Routes(rateLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if rateLimit != nil {
			r.Use(rateLimit)
		}
		r.Post("/advice", h.Advice)
		r.Post("/assess-skills", h.AssessSkills)
		r.Post("/interview-prep", h.InterviewPrep)
		r.Post("/resume-review", h.ResumeReview)
		r.Post("/salary-negotiation", h.SalaryNegotiation)
	})

	r.Get("/sessions", h.ListSessions)
	r.Get("/sessions/{sessionId}", h.GetSession)
	r.Delete("/sessions/{sessionId}", h.DeleteSession)
	r.Get("/stats", h.Stats)

	return r
}

// POST /v1/career-mentor/advice
func (h *MentorHandler) Advice(w http.ResponseWriter, r *http.Request) {
	var req model.AdviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateAdviceRequest(&req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.mentor.Advise(r.Context(), middleware.GetOwnerID(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// POST /v1/career-mentor/assess-skills
func (h *MentorHandler) AssessSkills(w http.ResponseWriter, r *http.Request) {
	var req model.SkillAssessmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateSkillAssessmentRequest(&req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.mentor.AssessSkills(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// POST /v1/career-mentor/interview-prep
func (h *MentorHandler) InterviewPrep(w http.ResponseWriter, r *http.Request) {
	var req model.InterviewPrepRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateInterviewPrepRequest(&req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.mentor.PrepareInterview(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// POST /v1/career-mentor/resume-review
func (h *MentorHandler) ResumeReview(w http.ResponseWriter, r *http.Request) {
	var req model.ResumeReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateResumeReviewRequest(&req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.mentor.ReviewResume(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// POST /v1/career-mentor/salary-negotiation
func (h *MentorHandler) SalaryNegotiation(w http.ResponseWriter, r *http.Request) {
	var req model.SalaryNegotiationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateSalaryNegotiationRequest(&req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.mentor.NegotiateSalary(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GET /v1/career-mentor/sessions
func (h *MentorHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	query, err := ParseListQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.store.List(r.Context(), middleware.GetOwnerID(r.Context()), query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /v1/career-mentor/sessions/{sessionId}
func (h *MentorHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.GetByID(r.Context(), middleware.GetOwnerID(r.Context()), chi.URLParam(r, "sessionId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// DELETE /v1/career-mentor/sessions/{sessionId}
func (h *MentorHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())
	sessionID := chi.URLParam(r, "sessionId")

	if err := h.mentor.DeleteSession(r.Context(), ownerID, sessionID); err != nil {
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventSessionDelete,
		OwnerID:   ownerID,
		SessionID: sessionID,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "Career mentor session deleted successfully"})
}

// GET /v1/career-mentor/stats
func (h *MentorHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.AggregateStats(r.Context(), middleware.GetOwnerID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

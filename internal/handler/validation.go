package handler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/careerpath/mentor-server-go/internal/errors"
	"github.com/careerpath/mentor-server-go/internal/model"
	"github.com/careerpath/mentor-server-go/internal/util"
)

const (
	MaxAdviceMessageChars = 2000
	MinResumeChars        = 100
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validator struct {
	errs []FieldError
}

func (v *validator) add(field, format string, args ...any) {
	v.errs = append(v.errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) enum(field, value string, allowed []string) {
	if !util.IsValidEnum(value, allowed) {
		v.add(field, "must be one of %s", strings.Join(allowed, ", "))
	}
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperrors.ValidationError("Validation failed").WithDetails(v.errs)
}

func sessionTypeNames() []string {
	names := make([]string, len(model.SessionTypes))
	for i, t := range model.SessionTypes {
		names[i] = string(t)
	}
	return names
}

func validateAdviceRequest(req *model.AdviceRequest) error {
	var v validator

	n := utf8.RuneCountInString(req.Message)
	if n < 1 || n > MaxAdviceMessageChars {
		v.add("message", "must be between 1 and %d characters", MaxAdviceMessageChars)
	}
	if req.SessionType != "" {
		v.enum("sessionType", string(req.SessionType), sessionTypeNames())
	}
	if req.Context != nil && req.Context.Profile != nil {
		validateProfile(&v, "context.profile", req.Context.Profile)
	}

	return v.err()
}

func validateProfile(v *validator, prefix string, p *model.CareerProfile) {
	if p.Skills == nil {
		v.add(prefix+".skills", "is required")
	}
	if p.Interests == nil {
		v.add(prefix+".interests", "is required")
	}
	if p.ExperienceLevel != nil {
		v.enum(prefix+".experienceLevel", string(*p.ExperienceLevel), model.ExperienceLevels)
	}
	for i, goal := range p.CareerGoals {
		v.enum(fmt.Sprintf("%s.careerGoals[%d]", prefix, i), string(goal), model.CareerGoals)
	}
	if p.RemotePreference != nil {
		v.enum(prefix+".remotePreference", string(*p.RemotePreference), model.RemotePreferences)
	}
}

func validateSkillAssessmentRequest(req *model.SkillAssessmentRequest) error {
	var v validator
	if len(req.Skills) == 0 {
		v.add("skills", "must contain at least one skill")
	}
	return v.err()
}

func validateInterviewPrepRequest(req *model.InterviewPrepRequest) error {
	var v validator
	v.required("targetRole", req.TargetRole)
	if req.InterviewType != nil {
		v.enum("interviewType", string(*req.InterviewType), model.InterviewTypes)
	}
	return v.err()
}

func validateResumeReviewRequest(req *model.ResumeReviewRequest) error {
	var v validator
	if utf8.RuneCountInString(req.ResumeText) < MinResumeChars {
		v.add("resumeText", "must be at least %d characters", MinResumeChars)
	}
	return v.err()
}

func validateSalaryNegotiationRequest(req *model.SalaryNegotiationRequest) error {
	var v validator
	v.required("role", req.Role)
	return v.err()
}

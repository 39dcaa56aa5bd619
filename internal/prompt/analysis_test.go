package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath/mentor-server-go/internal/model"
)

func TestSkillAssessmentPrompt(t *testing.T) {
	t.Run("without gap analysis", func(t *testing.T) {
		msgs := SkillAssessmentPrompt(model.SkillAssessmentRequest{Skills: []string{"Go", "Kubernetes"}})

		require.Len(t, msgs, 2)
		assert.Equal(t, model.RoleSystem, msgs[0].Role)
		assert.Contains(t, msgs[1].Content, "Skills: Go, Kubernetes")
		assert.NotContains(t, msgs[1].Content, "gapAnalysis")
		assert.NotContains(t, msgs[1].Content, "Target Role:")
	})

	t.Run("with gap analysis and target role", func(t *testing.T) {
		msgs := SkillAssessmentPrompt(model.SkillAssessmentRequest{
			Skills:             []string{"Go"},
			TargetRole:         strPtr("Staff Engineer"),
			IncludeGapAnalysis: true,
		})

		assert.Contains(t, msgs[1].Content, "Target Role: Staff Engineer")
		assert.Contains(t, msgs[1].Content, `"gapAnalysis"`)
		assert.Contains(t, msgs[1].Content, "Include gap analysis for target role")
	})
}

func TestInterviewPrepPrompt(t *testing.T) {
	t.Run("defaults interview type to general", func(t *testing.T) {
		msgs := InterviewPrepPrompt(model.InterviewPrepRequest{TargetRole: "Backend Engineer"})

		assert.Contains(t, msgs[1].Content, "Role: Backend Engineer")
		assert.Contains(t, msgs[1].Content, "Interview Type: general")
		assert.NotContains(t, msgs[1].Content, "Company:")
	})

	t.Run("includes optional fields", func(t *testing.T) {
		it := model.InterviewSystemDesign
		msgs := InterviewPrepPrompt(model.InterviewPrepRequest{
			TargetRole:    "SRE",
			Company:       strPtr("Acme"),
			InterviewType: &it,
			FocusAreas:    []string{"scaling", "oncall"},
		})

		assert.Contains(t, msgs[1].Content, "Company: Acme")
		assert.Contains(t, msgs[1].Content, "Interview Type: system_design")
		assert.Contains(t, msgs[1].Content, "Focus Areas: scaling, oncall")
	})
}

func TestResumeReviewPrompt(t *testing.T) {
	resume := strings.Repeat("a", MaxResumeChars) + strings.Repeat("Z", 500)

	msgs := ResumeReviewPrompt(model.ResumeReviewRequest{ResumeText: resume, TargetIndustry: strPtr("fintech")})

	assert.Contains(t, msgs[1].Content, strings.Repeat("a", MaxResumeChars))
	assert.NotContains(t, msgs[1].Content, "aZ")
	assert.Contains(t, msgs[1].Content, "Target Industry: fintech")
}

func TestSalaryNegotiationPrompt(t *testing.T) {
	offered := 125000.0
	years := 6.0

	msgs := SalaryNegotiationPrompt(model.SalaryNegotiationRequest{
		Role:              "Data Engineer",
		OfferedSalary:     &offered,
		YearsOfExperience: &years,
	})

	assert.Contains(t, msgs[1].Content, "Role: Data Engineer")
	assert.Contains(t, msgs[1].Content, "Offered Salary: $125000")
	assert.Contains(t, msgs[1].Content, "Experience: 6 years")
	assert.NotContains(t, msgs[1].Content, "Current Salary")
}

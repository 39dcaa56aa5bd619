package prompt

import (
	"strings"

	"github.com/careerpath/mentor-server-go/internal/completion"
	"github.com/careerpath/mentor-server-go/internal/model"
	"github.com/careerpath/mentor-server-go/internal/util"
)

// MaxResumeChars bounds the resume text forwarded to the model.
const MaxResumeChars = 3000

const (
	skillAssessorPersona = `You are an expert career counselor and technical skills assessor.
Provide detailed, realistic assessments of skills including market demand and development recommendations.`

	interviewCoachPersona = `You are an expert interview coach with experience across technical and non-technical roles.
Provide realistic interview questions, effective answer strategies, and practical preparation guidance.`

	resumeReviewerPersona = `You are an expert resume reviewer and career coach.
Provide detailed, actionable feedback on resumes including content, structure, and keyword optimization.`

	salaryCoachPersona = `You are an expert salary negotiation coach and compensation analyst.
Provide realistic market data and practical negotiation strategies.`
)

const gapAnalysisShape = `  "gapAnalysis": [
    {
      "skill": "Required skill",
      "requiredLevel": "advanced",
      "currentLevel": "intermediate",
      "priority": "high",
      "estimatedTimeToLearn": "3-6 months"
    }
  ],
`

const interviewPrepShape = `{
  "questions": [
    {
      "question": "Question text",
      "type": "technical",
      "difficulty": "medium",
      "sampleAnswer": "Sample answer",
      "keyPoints": ["Point 1", "Point 2"]
    }
  ],
  "tips": ["Tip 1", "Tip 2"],
  "commonPitfalls": ["Pitfall 1", "Pitfall 2"],
  "preparationPlan": ["Step 1", "Step 2"],
  "resources": [
    {
      "type": "article",
      "title": "Resource title",
      "description": "Brief description",
      "url": "https://example.com",
      "relevance": "Why this is relevant"
    }
  ]
}`

const resumeReviewShape = `{
  "overallScore": 75,
  "strengths": ["Strength 1", "Strength 2"],
  "weaknesses": ["Weakness 1", "Weakness 2"],
  "suggestions": [
    {
      "section": "experience",
      "issue": "Issue description",
      "suggestion": "Specific suggestion",
      "priority": "high"
    }
  ],
  "keywords": {
    "missing": ["Keyword 1", "Keyword 2"],
    "present": ["Keyword 1", "Keyword 2"],
    "recommended": ["Keyword 1", "Keyword 2"]
  },
  "formatting": {
    "score": 80,
    "issues": ["Issue 1", "Issue 2"],
    "recommendations": ["Recommendation 1", "Recommendation 2"]
  }
}`

const salaryNegotiationShape = `{
  "marketRange": {
    "min": 80000,
    "max": 120000,
    "median": 95000,
    "percentile75": 105000
  },
  "negotiationStrategy": ["Strategy 1", "Strategy 2"],
  "scriptSuggestions": ["Script 1", "Script 2"],
  "considerations": ["Consider 1", "Consider 2"],
  "redFlags": ["Red flag 1", "Red flag 2"]
}`

func SkillAssessmentPrompt(req model.SkillAssessmentRequest) []completion.Message {
	var b strings.Builder
	b.WriteString("Assess the following skills:\n\n")
	b.WriteString("Skills: " + strings.Join(req.Skills, ", ") + "\n")
	if req.TargetRole != nil && *req.TargetRole != "" {
		b.WriteString("Target Role: " + *req.TargetRole + "\n")
	}
	if req.IncludeGapAnalysis {
		b.WriteString("Include gap analysis for target role\n")
	}

	b.WriteString(`
Provide a comprehensive assessment as JSON:
{
  "assessedSkills": [
    {
      "skill": "Skill name",
      "currentLevel": "intermediate",
      "marketDemand": "high",
      "importance": 8,
      "recommendedActions": ["Action 1", "Action 2"]
    }
  ],
  "overallScore": 75,
  "strengths": ["Strength 1", "Strength 2"],
  "weaknesses": ["Weakness 1", "Weakness 2"],
`)
	if req.IncludeGapAnalysis {
		b.WriteString(gapAnalysisShape)
	}
	b.WriteString(`  "recommendations": ["Recommendation 1", "Recommendation 2"],
  "learningPath": ["Step 1", "Step 2", "Step 3"]
}`)

	return pair(skillAssessorPersona, b.String())
}

func InterviewPrepPrompt(req model.InterviewPrepRequest) []completion.Message {
	interviewType := model.InterviewGeneral
	if req.InterviewType != nil && *req.InterviewType != "" {
		interviewType = *req.InterviewType
	}

	var b strings.Builder
	b.WriteString("Prepare interview materials for:\n\n")
	b.WriteString("Role: " + req.TargetRole + "\n")
	if req.Company != nil && *req.Company != "" {
		b.WriteString("Company: " + *req.Company + "\n")
	}
	b.WriteString("Interview Type: " + string(interviewType) + "\n")
	if len(req.FocusAreas) > 0 {
		b.WriteString("Focus Areas: " + strings.Join(req.FocusAreas, ", ") + "\n")
	}
	b.WriteString("\nProvide comprehensive interview preparation as JSON:\n")
	b.WriteString(interviewPrepShape)
	b.WriteString("\n\nInclude 10-15 questions covering different aspects.")

	return pair(interviewCoachPersona, b.String())
}

func ResumeReviewPrompt(req model.ResumeReviewRequest) []completion.Message {
	resume, _ := util.Truncate(req.ResumeText, MaxResumeChars)

	var b strings.Builder
	b.WriteString("Review this resume:\n\n")
	b.WriteString(resume + "\n\n")
	if req.TargetRole != nil && *req.TargetRole != "" {
		b.WriteString("Target Role: " + *req.TargetRole + "\n")
	}
	if req.TargetIndustry != nil && *req.TargetIndustry != "" {
		b.WriteString("Target Industry: " + *req.TargetIndustry + "\n")
	}
	b.WriteString("\nProvide comprehensive review as JSON:\n")
	b.WriteString(resumeReviewShape)

	return pair(resumeReviewerPersona, b.String())
}

func SalaryNegotiationPrompt(req model.SalaryNegotiationRequest) []completion.Message {
	var b strings.Builder
	b.WriteString("Provide salary negotiation guidance:\n\n")
	b.WriteString("Role: " + req.Role + "\n")
	if req.CurrentSalary != nil && *req.CurrentSalary > 0 {
		b.WriteString("Current Salary: $" + formatNumber(*req.CurrentSalary) + "\n")
	}
	if req.OfferedSalary != nil && *req.OfferedSalary > 0 {
		b.WriteString("Offered Salary: $" + formatNumber(*req.OfferedSalary) + "\n")
	}
	if req.Location != nil && *req.Location != "" {
		b.WriteString("Location: " + *req.Location + "\n")
	}
	if req.YearsOfExperience != nil && *req.YearsOfExperience > 0 {
		b.WriteString("Experience: " + formatNumber(*req.YearsOfExperience) + " years\n")
	}
	if len(req.Skills) > 0 {
		b.WriteString("Skills: " + strings.Join(req.Skills, ", ") + "\n")
	}
	b.WriteString("\nProvide negotiation guidance as JSON:\n")
	b.WriteString(salaryNegotiationShape)

	return pair(salaryCoachPersona, b.String())
}

func pair(system, user string) []completion.Message {
	return []completion.Message{
		{Role: model.RoleSystem, Content: system},
		{Role: model.RoleUser, Content: user},
	}
}

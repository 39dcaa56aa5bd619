package model

import (
	"errors"
	"fmt"
)

// Structured analysis payloads returned by the completion provider. Each
// Validate checks the fields callers rely on; it does not repair anything.

type SkillAssessmentRequest struct {
	Skills             []string `json:"skills"`
	TargetRole         *string  `json:"targetRole,omitempty"`
	IncludeGapAnalysis bool     `json:"includeGapAnalysis,omitempty"`
}

type SkillAssessment struct {
	AssessedSkills  []AssessedSkill `json:"assessedSkills"`
	OverallScore    float64         `json:"overallScore"`
	Strengths       []string        `json:"strengths"`
	Weaknesses      []string        `json:"weaknesses"`
	GapAnalysis     []SkillGap      `json:"gapAnalysis,omitempty"`
	Recommendations []string        `json:"recommendations"`
	LearningPath    []string        `json:"learningPath"`
}

type AssessedSkill struct {
	Skill              string   `json:"skill"`
	CurrentLevel       string   `json:"currentLevel"`
	MarketDemand       string   `json:"marketDemand"`
	Importance         float64  `json:"importance"`
	RecommendedActions []string `json:"recommendedActions"`
}

type SkillGap struct {
	Skill                string `json:"skill"`
	RequiredLevel        string `json:"requiredLevel"`
	CurrentLevel         string `json:"currentLevel"`
	Priority             string `json:"priority"`
	EstimatedTimeToLearn string `json:"estimatedTimeToLearn"`
}

func (a *SkillAssessment) Validate() error {
	if len(a.AssessedSkills) == 0 {
		return errors.New("assessedSkills is empty")
	}
	for i, s := range a.AssessedSkills {
		if s.Skill == "" {
			return fmt.Errorf("assessedSkills[%d].skill is empty", i)
		}
	}
	if a.Strengths == nil || a.Weaknesses == nil || a.Recommendations == nil || a.LearningPath == nil {
		return errors.New("strengths, weaknesses, recommendations and learningPath are required")
	}
	return nil
}

type InterviewPrepRequest struct {
	TargetRole    string         `json:"targetRole"`
	Company       *string        `json:"company,omitempty"`
	InterviewType *InterviewType `json:"interviewType,omitempty"`
	FocusAreas    []string       `json:"focusAreas,omitempty"`
}

type InterviewPrep struct {
	Questions       []InterviewQuestion `json:"questions"`
	Tips            []string            `json:"tips"`
	CommonPitfalls  []string            `json:"commonPitfalls"`
	PreparationPlan []string            `json:"preparationPlan"`
	Resources       []CareerResource    `json:"resources"`
}

type InterviewQuestion struct {
	Question     string   `json:"question"`
	Type         string   `json:"type"`
	Difficulty   string   `json:"difficulty"`
	SampleAnswer *string  `json:"sampleAnswer,omitempty"`
	KeyPoints    []string `json:"keyPoints"`
}

type CareerResource struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         *string `json:"url,omitempty"`
	Relevance   string  `json:"relevance"`
}

func (p *InterviewPrep) Validate() error {
	if len(p.Questions) == 0 {
		return errors.New("questions is empty")
	}
	for i, q := range p.Questions {
		if q.Question == "" {
			return fmt.Errorf("questions[%d].question is empty", i)
		}
	}
	return nil
}

type ResumeReviewRequest struct {
	ResumeText     string  `json:"resumeText"`
	TargetRole     *string `json:"targetRole,omitempty"`
	TargetIndustry *string `json:"targetIndustry,omitempty"`
}

type ResumeReview struct {
	OverallScore float64            `json:"overallScore"`
	Strengths    []string           `json:"strengths"`
	Weaknesses   []string           `json:"weaknesses"`
	Suggestions  []ResumeSuggestion `json:"suggestions"`
	Keywords     struct {
		Missing     []string `json:"missing"`
		Present     []string `json:"present"`
		Recommended []string `json:"recommended"`
	} `json:"keywords"`
	Formatting struct {
		Score           float64  `json:"score"`
		Issues          []string `json:"issues"`
		Recommendations []string `json:"recommendations"`
	} `json:"formatting"`
}

type ResumeSuggestion struct {
	Section    string `json:"section"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
	Priority   string `json:"priority"`
}

func (r *ResumeReview) Validate() error {
	if r.OverallScore < 0 || r.OverallScore > 100 {
		return fmt.Errorf("overallScore %v out of range", r.OverallScore)
	}
	if r.Strengths == nil || r.Weaknesses == nil || r.Suggestions == nil {
		return errors.New("strengths, weaknesses and suggestions are required")
	}
	return nil
}

type SalaryNegotiationRequest struct {
	CurrentSalary     *float64 `json:"currentSalary,omitempty"`
	OfferedSalary     *float64 `json:"offeredSalary,omitempty"`
	Role              string   `json:"role"`
	Location          *string  `json:"location,omitempty"`
	YearsOfExperience *float64 `json:"yearsOfExperience,omitempty"`
	Skills            []string `json:"skills,omitempty"`
}

type SalaryNegotiation struct {
	MarketRange struct {
		Min          float64 `json:"min"`
		Max          float64 `json:"max"`
		Median       float64 `json:"median"`
		Percentile75 float64 `json:"percentile75"`
	} `json:"marketRange"`
	NegotiationStrategy []string `json:"negotiationStrategy"`
	ScriptSuggestions   []string `json:"scriptSuggestions"`
	Considerations      []string `json:"considerations"`
	RedFlags            []string `json:"redFlags"`
}

func (s *SalaryNegotiation) Validate() error {
	r := s.MarketRange
	if r.Min > r.Max {
		return fmt.Errorf("marketRange min %v exceeds max %v", r.Min, r.Max)
	}
	if s.NegotiationStrategy == nil {
		return errors.New("negotiationStrategy is required")
	}
	return nil
}

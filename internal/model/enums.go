package model

type SessionType string

const (
	SessionTypeCareerAdvice      SessionType = "career_advice"
	SessionTypeSkillAssessment   SessionType = "skill_assessment"
	SessionTypeInterviewPrep     SessionType = "interview_prep"
	SessionTypeResumeReview      SessionType = "resume_review"
	SessionTypeSalaryNegotiation SessionType = "salary_negotiation"
	SessionTypeGeneral           SessionType = "general"
)

// SessionTypes lists every session kind in display order.
var SessionTypes = []SessionType{
	SessionTypeCareerAdvice,
	SessionTypeSkillAssessment,
	SessionTypeInterviewPrep,
	SessionTypeResumeReview,
	SessionTypeSalaryNegotiation,
	SessionTypeGeneral,
}

func (t SessionType) Valid() bool {
	for _, v := range SessionTypes {
		if t == v {
			return true
		}
	}
	return false
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type ExperienceLevel string

const (
	ExperienceStudent   ExperienceLevel = "student"
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceLead      ExperienceLevel = "lead"
	ExperienceExecutive ExperienceLevel = "executive"
)

var ExperienceLevels = []string{
	string(ExperienceStudent), string(ExperienceEntry), string(ExperienceMid),
	string(ExperienceSenior), string(ExperienceLead), string(ExperienceExecutive),
}

type CareerGoal string

const (
	GoalCareerChange CareerGoal = "career_change"
	GoalSkillUpgrade CareerGoal = "skill_upgrade"
	GoalPromotion    CareerGoal = "promotion"
	GoalFreelance    CareerGoal = "freelance"
	GoalStartup      CareerGoal = "startup"
	GoalExploring    CareerGoal = "exploring"
)

var CareerGoals = []string{
	string(GoalCareerChange), string(GoalSkillUpgrade), string(GoalPromotion),
	string(GoalFreelance), string(GoalStartup), string(GoalExploring),
}

type RemotePreference string

const (
	RemoteOnsite   RemotePreference = "onsite"
	RemoteRemote   RemotePreference = "remote"
	RemoteHybrid   RemotePreference = "hybrid"
	RemoteFlexible RemotePreference = "flexible"
)

var RemotePreferences = []string{
	string(RemoteOnsite), string(RemoteRemote), string(RemoteHybrid), string(RemoteFlexible),
}

type InterviewType string

const (
	InterviewTechnical    InterviewType = "technical"
	InterviewBehavioral   InterviewType = "behavioral"
	InterviewSystemDesign InterviewType = "system_design"
	InterviewCaseStudy    InterviewType = "case_study"
	InterviewGeneral      InterviewType = "general"
)

var InterviewTypes = []string{
	string(InterviewTechnical), string(InterviewBehavioral), string(InterviewSystemDesign),
	string(InterviewCaseStudy), string(InterviewGeneral),
}

// Package prompt assembles the message lists sent to the completion provider.
package prompt

import (
	"strconv"
	"strings"

	"github.com/careerpath/mentor-server-go/internal/completion"
	"github.com/careerpath/mentor-server-go/internal/model"
)

// ContextWindow is the number of most recent session messages replayed to
// the model on every advice turn.
const ContextWindow = 10

const notSpecified = "Not specified"

const mentorPersona = `You are an expert AI Career Mentor and advisor with deep knowledge of:
- Career development and progression strategies
- Job market trends and industry insights
- Skill development and learning paths
- Interview preparation and techniques
- Resume optimization
- Salary negotiation strategies
- Work-life balance and professional growth

Your role is to provide personalized, actionable career advice that helps professionals:
- Make informed career decisions
- Develop in-demand skills
- Navigate career transitions
- Achieve their professional goals
- Negotiate better compensation
- Prepare for interviews effectively

Be empathetic, encouraging, and practical. Provide specific, actionable advice with clear next steps.`

// BuildAdvicePrompt returns the system instruction, the last ContextWindow
// messages of session in order, and newMessage as the final user turn.
func BuildAdvicePrompt(session *model.Session, newMessage string, focusTopic *string) []completion.Message {
	history := session.Messages
	if len(history) > ContextWindow {
		history = history[len(history)-ContextWindow:]
	}

	msgs := make([]completion.Message, 0, len(history)+2)
	msgs = append(msgs, completion.Message{
		Role:    model.RoleSystem,
		Content: adviceSystemPrompt(session.Profile, focusTopic, session.SessionType),
	})
	for _, m := range history {
		msgs = append(msgs, completion.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, completion.Message{Role: model.RoleUser, Content: newMessage})
	return msgs
}

func adviceSystemPrompt(profile *model.CareerProfile, focusTopic *string, sessionType model.SessionType) string {
	var b strings.Builder
	b.WriteString(mentorPersona)
	b.WriteString("\n")

	if profile != nil {
		b.WriteString("\nUser Profile:\n")
		b.WriteString("- Current Role: " + valueOr(profile.CurrentRole) + "\n")
		if profile.YearsOfExperience != nil && *profile.YearsOfExperience > 0 {
			b.WriteString("- Experience: " + formatNumber(*profile.YearsOfExperience) + " years\n")
		} else {
			b.WriteString("- Experience: " + notSpecified + "\n")
		}
		level := notSpecified
		if profile.ExperienceLevel != nil && *profile.ExperienceLevel != "" {
			level = string(*profile.ExperienceLevel)
		}
		b.WriteString("- Experience Level: " + level + "\n")
		b.WriteString("- Skills: " + joinOr(profile.Skills) + "\n")
		b.WriteString("- Career Goals: " + joinOr(goalsToStrings(profile.CareerGoals)) + "\n")
		b.WriteString("- Target Roles: " + joinOr(profile.TargetRoles) + "\n")
	}

	if focusTopic != nil && *focusTopic != "" {
		b.WriteString("\nFocus Topic: " + *focusTopic + "\n")
	}

	b.WriteString("\nSession Type: " + string(sessionType))
	return b.String()
}

func valueOr(s *string) string {
	if s == nil || *s == "" {
		return notSpecified
	}
	return *s
}

func joinOr(items []string) string {
	if len(items) == 0 {
		return notSpecified
	}
	return strings.Join(items, ", ")
}

func goalsToStrings(goals []model.CareerGoal) []string {
	out := make([]string, len(goals))
	for i, g := range goals {
		out[i] = string(g)
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

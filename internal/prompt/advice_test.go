package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath/mentor-server-go/internal/model"
)

func strPtr(s string) *string { return &s }

func sessionWithMessages(n int) *model.Session {
	s := &model.Session{SessionType: model.SessionTypeGeneral}
	for i := 0; i < n; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		s.Messages = append(s.Messages, model.Message{Role: role, Content: fmt.Sprintf("m%d", i)})
	}
	return s
}

func TestBuildAdvicePrompt(t *testing.T) {
	t.Run("empty session", func(t *testing.T) {
		msgs := BuildAdvicePrompt(sessionWithMessages(0), "How do I start?", nil)

		require.Len(t, msgs, 2)
		assert.Equal(t, model.RoleSystem, msgs[0].Role)
		assert.Equal(t, model.RoleUser, msgs[1].Role)
		assert.Equal(t, "How do I start?", msgs[1].Content)
	})

	t.Run("keeps only the last ten messages in order", func(t *testing.T) {
		msgs := BuildAdvicePrompt(sessionWithMessages(14), "next", nil)

		require.Len(t, msgs, 12)
		for i := 0; i < ContextWindow; i++ {
			assert.Equal(t, fmt.Sprintf("m%d", i+4), msgs[i+1].Content)
		}
		assert.Equal(t, "next", msgs[11].Content)
	})

	t.Run("exactly one system entry", func(t *testing.T) {
		msgs := BuildAdvicePrompt(sessionWithMessages(6), "next", strPtr("negotiation"))
		systems := 0
		for _, m := range msgs {
			if m.Role == model.RoleSystem {
				systems++
			}
		}
		assert.Equal(t, 1, systems)
	})

	t.Run("no profile block without profile", func(t *testing.T) {
		msgs := BuildAdvicePrompt(sessionWithMessages(0), "hi", nil)

		assert.NotContains(t, msgs[0].Content, "User Profile:")
		assert.NotContains(t, msgs[0].Content, "Focus Topic:")
		assert.True(t, strings.HasSuffix(msgs[0].Content, "Session Type: general"))
	})

	t.Run("profile block renders missing values", func(t *testing.T) {
		years := 4.5
		level := model.ExperienceMid
		s := sessionWithMessages(0)
		s.SessionType = model.SessionTypeCareerAdvice
		s.Profile = &model.CareerProfile{
			YearsOfExperience: &years,
			ExperienceLevel:   &level,
			Skills:            []string{"Go", "SQL"},
		}

		content := BuildAdvicePrompt(s, "hi", strPtr("Leadership"))[0].Content

		assert.Contains(t, content, "User Profile:")
		assert.Contains(t, content, "- Current Role: Not specified")
		assert.Contains(t, content, "- Experience: 4.5 years")
		assert.Contains(t, content, "- Experience Level: mid")
		assert.Contains(t, content, "- Skills: Go, SQL")
		assert.Contains(t, content, "- Career Goals: Not specified")
		assert.Contains(t, content, "- Target Roles: Not specified")
		assert.Contains(t, content, "Focus Topic: Leadership")
		assert.Contains(t, content, "Session Type: career_advice")
	})
}

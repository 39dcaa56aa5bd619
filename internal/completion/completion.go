// Package completion talks to an OpenAI-compatible chat completions
// endpoint. One request per call, no retries.
package completion

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "github.com/careerpath/mentor-server-go/internal/errors"
	"github.com/careerpath/mentor-server-go/internal/model"
)

type Message struct {
	Role    model.MessageRole `json:"role"`
	Content string            `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Result struct {
	Text  string
	Usage Usage
}

// Settings are the sampling parameters sent with a request.
type Settings struct {
	Temperature float64
	MaxTokens   int
}

var (
	AdviceSettings            = Settings{Temperature: 0.8, MaxTokens: 1500}
	SkillAssessmentSettings   = Settings{Temperature: 0.6, MaxTokens: 2000}
	InterviewPrepSettings     = Settings{Temperature: 0.7, MaxTokens: 3000}
	ResumeReviewSettings      = Settings{Temperature: 0.6, MaxTokens: 2500}
	SalaryNegotiationSettings = Settings{Temperature: 0.7, MaxTokens: 2000}
)

type Gateway interface {
	Complete(ctx context.Context, messages []Message, settings Settings) (*Result, error)
}

// Validatable is implemented by structured analysis payloads.
type Validatable[T any] interface {
	*T
	Validate() error
}

// CompleteJSON runs a completion and decodes its text as a T. The text must be
// bare JSON; anything that fails to decode or validate is reported as a
// malformed response.
func CompleteJSON[T any, PT Validatable[T]](ctx context.Context, gw Gateway, messages []Message, settings Settings) (PT, error) {
	result, err := gw.Complete(ctx, messages, settings)
	if err != nil {
		return nil, err
	}

	out := PT(new(T))
	if err := json.Unmarshal([]byte(result.Text), out); err != nil {
		return nil, apperrors.MalformedResponse("Completion did not return valid JSON", err)
	}
	if err := out.Validate(); err != nil {
		return nil, apperrors.MalformedResponse(fmt.Sprintf("Completion JSON has an unexpected shape: %v", err), err)
	}
	return out, nil
}

package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/careerpath/mentor-server-go/internal/errors"
)

const maxResponseBytes = 4 << 20

type OpenAIConfig struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

type OpenAIGateway struct {
	cfg    OpenAIConfig
	client *http.Client
}

func NewOpenAIGateway(cfg OpenAIConfig) *OpenAIGateway {
	return &OpenAIGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

type errorResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *OpenAIGateway) Complete(ctx context.Context, messages []Message, settings Settings) (*Result, error) {
	if g.cfg.APIKey == "" {
		return nil, apperrors.Configuration("OpenAI API key not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model:       g.cfg.Model,
		Messages:    messages,
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("completion request failed")
		return nil, apperrors.Upstream(0, "Failed to get AI response: request did not complete", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.Upstream(0, "Failed to get AI response: could not read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "Unknown error"
		var errResp errorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		log.Warn().
			Int("status", resp.StatusCode).
			Str("providerMessage", msg).
			Msg("completion provider returned an error")
		return nil, apperrors.Upstream(resp.StatusCode, "OpenAI Error: "+msg, nil)
	}

	var chat chatResponse
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, apperrors.MalformedResponse("Completion provider returned invalid JSON", err)
	}
	if len(chat.Choices) == 0 {
		return nil, apperrors.MalformedResponse("Completion provider returned no choices", nil)
	}

	log.Debug().
		Int("totalTokens", chat.Usage.TotalTokens).
		Dur("elapsed", time.Since(start)).
		Msg("completion received")

	return &Result{
		Text:  chat.Choices[0].Message.Content,
		Usage: chat.Usage,
	}, nil
}

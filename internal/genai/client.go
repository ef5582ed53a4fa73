package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/markusj17/Dynamic-Curriculum-AI/internal/config"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
)

// maxUpstreamCalls bounds the continuation loop: one initial request
// plus at most two "continue the JSON array" re-prompts.
const maxUpstreamCalls = 3

const (
	finishStop          = "stop"
	finishLength        = "length"
	finishContentFilter = "content_filter"
)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Client talks to an OpenAI-compatible chat-completions endpoint and
// turns free-form model output into a validated step list.
type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiURL:     cfg.AIAPIURL,
		apiKey:     cfg.AIAPIKey,
		model:      cfg.AIModel,
		httpClient: &http.Client{Timeout: cfg.AITimeout},
	}
}

// GenerateLearningPath produces 3-7 normalized steps for the given
// skills gap. Post-processing is deterministic for a fixed upstream
// response; the upstream itself is not, and callers must not assume
// the same inputs yield the same path twice.
func (c *Client) GenerateLearningPath(ctx context.Context, currentSkills, desiredGoal string) ([]models.PathStep, error) {
	base := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt(currentSkills, desiredGoal)},
	}
	messages := base

	var combined strings.Builder
	truncated := false

	for attempt := 1; attempt <= maxUpstreamCalls; attempt++ {
		content, finishReason, err := c.complete(ctx, messages)
		if err != nil {
			return nil, err
		}
		if finishReason == finishContentFilter {
			return nil, ErrGenerationBlocked
		}

		combined.WriteString(content)
		truncated = finishReason == finishLength
		if !truncated {
			break
		}

		slog.Warn("generation output truncated, requesting continuation",
			"attempt", attempt, "partial_len", combined.Len())
		messages = append(append([]chatMessage{}, base...),
			chatMessage{Role: "assistant", Content: combined.String()},
			chatMessage{Role: "user", Content: continuePrompt},
		)
	}

	if truncated {
		return nil, ErrGenerationTruncated
	}

	jsonText, err := ExtractJSONArray(combined.String())
	if err != nil {
		return nil, err
	}
	steps, err := ParseSteps(jsonText)
	if err != nil {
		return nil, err
	}

	// Never trust upstream completion state on a fresh path.
	for i := range steps {
		steps[i].Completed = false
	}
	return NormalizeSteps(steps), nil
}

func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.6,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%v: %w", err, ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("upstream returned status %d: %w", resp.StatusCode, ErrUpstream)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", "", fmt.Errorf("failed to decode upstream response: %w", ErrUpstream)
	}
	if len(chatResp.Choices) == 0 {
		// Empty choice lists are how some providers surface a hard
		// safety block.
		return "", "", ErrGenerationBlocked
	}

	choice := chatResp.Choices[0]
	return choice.Message.Content, choice.FinishReason, nil
}

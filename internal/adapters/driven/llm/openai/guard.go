package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driven"
)

// Ensure TopicGuard implements the interface.
var _ driven.TopicClassifier = (*TopicGuard)(nil)

// DefaultGuardModel is the classification model. Classification is a small
// structured task, so a fast, cheap model is used.
const DefaultGuardModel = "gpt-4o-mini"

const guardInstructions = `You are a topic classifier for a Physical AI and Humanoid Robotics textbook chatbot.

Your job is to determine if a user's question is related to the textbook content.

ON-TOPIC questions are about:
- Physical AI concepts, principles, and applications
- Humanoid robot design, control, and engineering
- Embodied intelligence and robotics
- Sensors, actuators, and robot hardware
- Motion planning and control systems
- Machine learning for robotics
- Topics explicitly covered in a Physical AI/Robotics textbook

OFF-TOPIC questions include:
- General knowledge questions unrelated to robotics
- Current events, weather, entertainment
- Personal advice or opinions
- Coding help unrelated to robotics
- Math/science topics not directly related to Physical AI

If the question is borderline, be generous and mark it as on-topic if it could
reasonably relate to Physical AI or robotics education.

If off-topic, suggest 2-3 related topics from the textbook the user might want
to ask about instead.

Respond with a JSON object: {"is_on_topic": bool, "reason": string, "suggested_topics": [string]}`

// TopicGuard classifies queries with a JSON-mode chat completion.
type TopicGuard struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// GuardConfig holds configuration for the topic guard.
type GuardConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the classification model (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// NewTopicGuard creates a new topic guard.
func NewTopicGuard(cfg GuardConfig) (*TopicGuard, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGuardModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &TopicGuard{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Classify decides whether a query is within the textbook's scope.
func (g *TopicGuard) Classify(ctx context.Context, query string) (driven.TopicCheck, error) {
	reqBody := map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": guardInstructions},
			{"role": "user", "content": query},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return driven.TopicCheck{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return driven.TopicCheck{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return driven.TopicCheck{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return driven.TopicCheck{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return driven.TopicCheck{}, fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &completion); err != nil {
		return driven.TopicCheck{}, fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return driven.TopicCheck{}, fmt.Errorf("openai: empty completion")
	}

	var out struct {
		IsOnTopic       bool     `json:"is_on_topic"`
		Reason          string   `json:"reason"`
		SuggestedTopics []string `json:"suggested_topics"`
	}
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &out); err != nil {
		return driven.TopicCheck{}, fmt.Errorf("decode classification: %w", err)
	}
	return driven.TopicCheck{
		OnTopic:         out.IsOnTopic,
		Reason:          out.Reason,
		SuggestedTopics: out.SuggestedTopics,
	}, nil
}

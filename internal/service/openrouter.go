package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/Nithin1682/voice-assistant/internal/config"
	"github.com/Nithin1682/voice-assistant/internal/domain"
)

type OpenRouterService struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	usage      *UsageTracker
}

func NewOpenRouterService(apiKey, model string) *OpenRouterService {
	return &OpenRouterService{
		apiKey:     apiKey,
		baseURL:    "https://openrouter.ai/api/v1",
		model:      model,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		usage:      NewUsageTracker(),
	}
}

// ChatMessage is the wire form of a message. Content is a string for plain
// text, or a slice of content parts for multimodal requests (vision).
type ChatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int     `json:"prompt_tokens"`
		CompletionTokens int     `json:"completion_tokens"`
		TotalCost        float64 `json:"total_cost"`
	} `json:"usage"`
}

// GenerateParams bounds a single completion request.
type GenerateParams struct {
	Temperature float64
	MaxTokens   int
}

// Generate runs a completion over domain messages and returns the assistant
// reply. This is the interface the orchestrator and router consume.
func (s *OpenRouterService) Generate(ctx context.Context, messages []domain.Message, params GenerateParams) (domain.Message, error) {
	wire := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := s.Chat(ctx, wire, s.model, params)
	if err != nil {
		return domain.Message{}, err
	}
	if len(resp.Choices) == 0 {
		return domain.Message{}, domain.ErrEmptyCompletion
	}
	return domain.AssistantMessage(strings.TrimSpace(resp.Choices[0].Message.Content)), nil
}

// Complete runs a completion with explicit wire messages and model. Used by
// the vision extraction path, which needs multi-part content and a
// vision-capable model.
func (s *OpenRouterService) Complete(ctx context.Context, messages []ChatMessage, model string, params GenerateParams) (string, error) {
	resp, err := s.Chat(ctx, messages, model, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", domain.ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Chat posts a chat completion request, retrying transient upstream errors
// (429/503) with exponential backoff bounded by the request context.
func (s *OpenRouterService) Chat(ctx context.Context, messages []ChatMessage, model string, params GenerateParams) (*ChatResponse, error) {
	temperature := params.Temperature
	chatReq := ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: &temperature,
		MaxTokens:   params.MaxTokens,
	}

	// Gemini rejects explicit temperature on some routes.
	if strings.Contains(strings.ToLower(model), "gemini") {
		chatReq.Temperature = nil
	}

	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var chatResp *ChatResponse
	operation := func() error {
		resp, err := s.post(ctx, payload)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("rate limited by OpenRouter (429)")
		case http.StatusServiceUnavailable:
			return fmt.Errorf("OpenRouter service unavailable (503)")
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read response: %w", err))
		}

		parsed := &ChatResponse{}
		if err := json.Unmarshal(body, parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("parse response: %w", err))
		}
		chatResp = parsed
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}

	s.usage.Record(chatResp.Usage.PromptTokens, chatResp.Usage.CompletionTokens, chatResp.Usage.TotalCost)
	return chatResp, nil
}

func (s *OpenRouterService) post(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	return s.httpClient.Do(req)
}

// Usage returns a snapshot of accumulated token and cost totals.
func (s *OpenRouterService) Usage() Usage {
	return s.usage.Snapshot()
}

// ImagePart builds a data-URL image content part for vision requests.
func ImagePart(mime string, b64 string) map[string]interface{} {
	return map[string]interface{}{
		"type": "image_url",
		"image_url": map[string]string{
			"url": fmt.Sprintf("data:%s;base64,%s", mime, b64),
		},
	}
}

// TextPart builds a text content part for multimodal requests.
func TextPart(text string) map[string]interface{} {
	return map[string]interface{}{"type": "text", "text": text}
}

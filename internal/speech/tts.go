// Package speech provides the speech-to-text and text-to-speech
// transducers the voice front-end plugs into. Both are thin HTTP clients
// against OpenAI-compatible audio endpoints; the conversation core never
// sees audio.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"
)

// Synthesizer converts text to audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// OpenAISynthesizer implements TTS via the /audio/speech endpoint.
type OpenAISynthesizer struct {
	apiKey  string
	baseURL string
	model   string
	voice   string
	client  *http.Client
}

func NewOpenAISynthesizer(apiKey, baseURL, model, voice string) *OpenAISynthesizer {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "tts-1"
	}
	if voice == "" {
		voice = "nova"
	}
	return &OpenAISynthesizer{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		voice:   voice,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	// The speech endpoint caps input at 4096 characters. Truncate on a
	// rune boundary so multibyte text is never cut mid-character.
	if utf8.RuneCountInString(text) > 4096 {
		runes := []rune(text)
		text = string(runes[:4093]) + "..."
	}

	payload, err := json.Marshal(map[string]any{
		"model":           s.model,
		"input":           text,
		"voice":           s.voice,
		"response_format": "wav",
	})
	if err != nil {
		return nil, fmt.Errorf("tts: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("tts: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tts: API returned %d: %s", resp.StatusCode, string(errBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read audio: %w", err)
	}
	return audio, nil
}

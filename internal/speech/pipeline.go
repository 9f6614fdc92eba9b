package speech

import (
	"context"
	"strings"
	"time"
)

// MicPipeline chains a Recorder and a Transcriber into the single
// listen-and-transcribe step the voice listener consumes.
type MicPipeline struct {
	Recorder    Recorder
	Transcriber Transcriber
}

func (m MicPipeline) Listen(ctx context.Context, window time.Duration) (string, error) {
	audio, err := m.Recorder.Record(ctx, window)
	if err != nil {
		return "", err
	}
	text, err := m.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// VoicePipeline chains a Synthesizer and a Player into the single speak
// step the voice listener consumes.
type VoicePipeline struct {
	Synthesizer Synthesizer
	Player      Player
}

func (v VoicePipeline) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	audio, err := v.Synthesizer.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return v.Player.Play(ctx, audio)
}

package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Recorder captures microphone audio for a bounded window.
type Recorder interface {
	Record(ctx context.Context, window time.Duration) ([]byte, error)
}

// Player plays synthesized audio back to the user.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// ALSARecorder records WAV audio by shelling out to arecord.
type ALSARecorder struct{}

func (ALSARecorder) Record(ctx context.Context, window time.Duration) ([]byte, error) {
	tmp, err := os.CreateTemp("", "capture-*.wav")
	if err != nil {
		return nil, fmt.Errorf("record: create temp file: %w", err)
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	seconds := int(window.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	cmd := exec.CommandContext(ctx, "arecord",
		"-q", "-f", "cd", "-d", fmt.Sprintf("%d", seconds), tmp.Name())
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("record: arecord: %w", err)
	}

	audio, err := os.ReadFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("record: read capture: %w", err)
	}
	return audio, nil
}

// ALSAPlayer plays WAV audio by shelling out to aplay.
type ALSAPlayer struct{}

func (ALSAPlayer) Play(ctx context.Context, audio []byte) error {
	tmp, err := os.CreateTemp("", "speech-*.wav")
	if err != nil {
		return fmt.Errorf("play: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return fmt.Errorf("play: write audio: %w", err)
	}
	tmp.Close()

	if err := exec.CommandContext(ctx, "aplay", "-q", tmp.Name()).Run(); err != nil {
		return fmt.Errorf("play: aplay: %w", err)
	}
	return nil
}

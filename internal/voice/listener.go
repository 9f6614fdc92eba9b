// Package voice is the wake-word front-end: an explicit two-state
// listener (Idle, Awake) that forwards transcribed turns to the same
// orchestrator API the text front-ends use.
package voice

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Nithin1682/voice-assistant/internal/config"
)

// State is the listener's finite state.
type State int

const (
	StateIdle State = iota
	StateAwake
)

// Mic captures one listening window and returns its transcript. An empty
// transcript means nothing intelligible was heard.
type Mic interface {
	Listen(ctx context.Context, window time.Duration) (string, error)
}

// Speaker voices a reply to the user.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Turns is the conversation core as seen from a front-end.
type Turns interface {
	Bootstrap(threadID string)
	HandleTurn(ctx context.Context, threadID, text string) (string, error)
}

// Listener drives the wake/sleep loop. Wake word detection moves it to
// Awake; silence past the timeout puts it back to sleep; "exit" stops it.
type Listener struct {
	mic      Mic
	speaker  Speaker
	turns    Turns
	wakeWord string
	timeout  time.Duration
	now      func() time.Time
	logger   *slog.Logger

	state State
}

type Options struct {
	WakeWord string
	Timeout  time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

func NewListener(mic Mic, speaker Speaker, turns Turns, opts Options) *Listener {
	wake := opts.WakeWord
	if wake == "" {
		wake = "hey google"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = config.SilenceTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		mic:      mic,
		speaker:  speaker,
		turns:    turns,
		wakeWord: strings.ToLower(wake),
		timeout:  timeout,
		now:      now,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns the listener's current state.
func (l *Listener) State() State {
	return l.state
}

// Run loops until the user says "exit" or the context is cancelled.
func (l *Listener) Run(ctx context.Context, threadID string) error {
	l.turns.Bootstrap(threadID)
	l.logger.Info("voice listener started", "wake_word", l.wakeWord, "thread_id", threadID)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch l.state {
		case StateIdle:
			if err := l.idleStep(ctx); err != nil {
				return err
			}
		case StateAwake:
			done, err := l.awakeLoop(ctx, threadID)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func (l *Listener) idleStep(ctx context.Context) error {
	transcript, err := l.mic.Listen(ctx, config.ListenWindow)
	if err != nil {
		l.logger.Debug("listen failed while idle", "error", err)
		return nil
	}
	if strings.Contains(strings.ToLower(transcript), l.wakeWord) {
		l.state = StateAwake
		return l.speaker.Speak(ctx, "Yes, how can I help?")
	}
	return nil
}

// awakeLoop handles turns until the silence timeout expires or the user
// says "exit". Returns true when the whole session should end.
func (l *Listener) awakeLoop(ctx context.Context, threadID string) (bool, error) {
	lastHeard := l.now()

	for l.state == StateAwake {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		transcript, err := l.mic.Listen(ctx, config.PhraseTimeLimit)
		if err != nil {
			l.logger.Debug("listen failed while awake", "error", err)
			transcript = ""
		}
		transcript = strings.TrimSpace(transcript)

		if transcript == "" {
			if l.now().Sub(lastHeard) > l.timeout {
				l.state = StateIdle
				if err := l.speaker.Speak(ctx, "Going back to sleep."); err != nil {
					return false, err
				}
			}
			continue
		}

		if strings.EqualFold(transcript, "exit") {
			l.state = StateIdle
			return true, l.speaker.Speak(ctx, "Goodbye!")
		}

		lastHeard = l.now()
		reply, err := l.turns.HandleTurn(ctx, threadID, transcript)
		if err != nil {
			l.logger.Error("turn failed", "error", err)
			if err := l.speaker.Speak(ctx, "Sorry, something went wrong with that request."); err != nil {
				return false, err
			}
			continue
		}

		if err := l.speaker.Speak(ctx, StripEmojis(reply)); err != nil {
			return false, err
		}
	}
	return false, nil
}

var emojiPattern = regexp.MustCompile(`[\x{1F600}-\x{1F64F}` +
	`\x{1F300}-\x{1F5FF}` +
	`\x{1F680}-\x{1F6FF}` +
	`\x{1F1E0}-\x{1F1FF}` +
	`\x{2700}-\x{27BF}` +
	`\x{24C2}-\x{1F251}]+`)

// StripEmojis removes emoji glyphs so they are not read out loud.
func StripEmojis(text string) string {
	return emojiPattern.ReplaceAllString(text, "")
}

package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedMic replays transcripts in order. An exhausted script cancels
// the context so a buggy loop cannot spin forever.
type scriptedMic struct {
	transcripts []string
	cancel      context.CancelFunc
}

func (m *scriptedMic) Listen(context.Context, time.Duration) (string, error) {
	if len(m.transcripts) == 0 {
		if m.cancel != nil {
			m.cancel()
		}
		return "", errors.New("mic script exhausted")
	}
	next := m.transcripts[0]
	m.transcripts = m.transcripts[1:]
	return next, nil
}

type recordingSpeaker struct {
	spoken []string
}

func (s *recordingSpeaker) Speak(_ context.Context, text string) error {
	s.spoken = append(s.spoken, text)
	return nil
}

type stubTurns struct {
	reply string
	err   error
	heard []string
}

func (t *stubTurns) Bootstrap(string) {}

func (t *stubTurns) HandleTurn(_ context.Context, _ string, text string) (string, error) {
	t.heard = append(t.heard, text)
	if t.err != nil {
		return "", t.err
	}
	return t.reply, nil
}

// fakeClock advances by a fixed step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	t := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestListener_IdleIgnoresOtherSpeech(t *testing.T) {
	speaker := &recordingSpeaker{}
	l := NewListener(&scriptedMic{transcripts: []string{"just talking to myself"}}, speaker, &stubTurns{}, Options{})

	require.NoError(t, l.idleStep(context.Background()))
	assert.Equal(t, StateIdle, l.State())
	assert.Empty(t, speaker.spoken)
}

func TestListener_WakeWordWakes(t *testing.T) {
	speaker := &recordingSpeaker{}
	l := NewListener(&scriptedMic{transcripts: []string{"ok HEY GOOGLE are you there"}}, speaker, &stubTurns{}, Options{})

	require.NoError(t, l.idleStep(context.Background()))
	assert.Equal(t, StateAwake, l.State())
	require.Len(t, speaker.spoken, 1)
	assert.Equal(t, "Yes, how can I help?", speaker.spoken[0])
}

func TestListener_CustomWakeWord(t *testing.T) {
	speaker := &recordingSpeaker{}
	l := NewListener(&scriptedMic{transcripts: []string{"hey google"}}, speaker, &stubTurns{}, Options{WakeWord: "computer"})

	require.NoError(t, l.idleStep(context.Background()))
	assert.Equal(t, StateIdle, l.State())
}

func TestListener_AwakeTurnAndExit(t *testing.T) {
	speaker := &recordingSpeaker{}
	turns := &stubTurns{reply: "It is 9 o'clock 🕘"}
	l := NewListener(&scriptedMic{transcripts: []string{"what time is it", "exit"}}, speaker, turns, Options{})
	l.state = StateAwake

	done, err := l.awakeLoop(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, StateIdle, l.State())

	assert.Equal(t, []string{"what time is it"}, turns.heard)
	require.Len(t, speaker.spoken, 2)
	// Emojis are stripped before speaking.
	assert.Equal(t, "It is 9 o'clock ", speaker.spoken[0])
	assert.Equal(t, "Goodbye!", speaker.spoken[1])
}

func TestListener_SilenceTimeoutSleeps(t *testing.T) {
	speaker := &recordingSpeaker{}
	l := NewListener(&scriptedMic{transcripts: []string{"", ""}}, speaker, &stubTurns{}, Options{
		Timeout: 10 * time.Second,
		Now:     fakeClock(6 * time.Second),
	})
	l.state = StateAwake

	done, err := l.awakeLoop(context.Background(), "t1")
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, StateIdle, l.State())
	require.Len(t, speaker.spoken, 1)
	assert.Equal(t, "Going back to sleep.", speaker.spoken[0])
}

func TestListener_TurnErrorIsSpoken(t *testing.T) {
	speaker := &recordingSpeaker{}
	turns := &stubTurns{err: errors.New("gateway down")}
	l := NewListener(&scriptedMic{transcripts: []string{"hello", "exit"}}, speaker, turns, Options{})
	l.state = StateAwake

	done, err := l.awakeLoop(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, done)

	require.Len(t, speaker.spoken, 2)
	assert.Equal(t, "Sorry, something went wrong with that request.", speaker.spoken[0])
	assert.Equal(t, "Goodbye!", speaker.spoken[1])
}

func TestListener_RunFullSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mic := &scriptedMic{
		transcripts: []string{
			"background chatter",
			"hey google",
			"what's my schedule",
			"exit",
		},
		cancel: cancel,
	}
	speaker := &recordingSpeaker{}
	turns := &stubTurns{reply: "You have math at nine."}
	l := NewListener(mic, speaker, turns, Options{})

	require.NoError(t, l.Run(ctx, "t1"))

	assert.Equal(t, []string{"what's my schedule"}, turns.heard)
	assert.Equal(t, []string{
		"Yes, how can I help?",
		"You have math at nine.",
		"Goodbye!",
	}, speaker.spoken)
}

func TestStripEmojis(t *testing.T) {
	assert.Equal(t, "Hello ", StripEmojis("Hello 👋"))
	assert.Equal(t, "no emojis here", StripEmojis("no emojis here"))
	assert.Equal(t, "done  and ", StripEmojis("done ✅ and 🎉"))
}

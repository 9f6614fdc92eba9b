package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nithin1682/voice-assistant/internal/domain"
	"github.com/Nithin1682/voice-assistant/internal/schedule"
	"github.com/Nithin1682/voice-assistant/internal/service"
	"github.com/Nithin1682/voice-assistant/internal/session"
)

// scriptedGateway replies from a queue, one entry per Generate call. The
// first call of a turn is always the classifier.
type scriptedGateway struct {
	script []scriptStep
	calls  [][]domain.Message
}

type scriptStep struct {
	reply string
	err   error
}

func (g *scriptedGateway) Generate(_ context.Context, messages []domain.Message, _ service.GenerateParams) (domain.Message, error) {
	g.calls = append(g.calls, messages)
	if len(g.script) == 0 {
		return domain.Message{}, errors.New("scripted gateway exhausted")
	}
	step := g.script[0]
	g.script = g.script[1:]
	if step.err != nil {
		return domain.Message{}, step.err
	}
	return domain.AssistantMessage(step.reply), nil
}

type fakeSchedule struct {
	rendered  string
	renderErr error
	saveRes   schedule.Result
	deleteRes schedule.Result
	deletes   int
}

func (f *fakeSchedule) Render(context.Context, schedule.Format) (string, error) {
	return f.rendered, f.renderErr
}

func (f *fakeSchedule) Save(context.Context) (schedule.Result, error) {
	return f.saveRes, nil
}

func (f *fakeSchedule) Delete(context.Context) (schedule.Result, error) {
	f.deletes++
	return f.deleteRes, nil
}

type fakeClipboard struct {
	content string
	written []string
}

func (f *fakeClipboard) Read() string { return f.content }

func (f *fakeClipboard) Write(text string) { f.written = append(f.written, text) }

func newTestOrchestrator(gw Gateway, sched schedule.Service, clip *fakeClipboard) (*Orchestrator, *session.Store) {
	store := session.NewStore("", nil)
	o := New(Deps{
		Store:     store,
		Gateway:   gw,
		Schedule:  sched,
		Clipboard: clip,
		Now:       func() time.Time { return time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC) },
	})
	return o, store
}

func TestOrchestrator_GeneralTurn(t *testing.T) {
	gw := &scriptedGateway{script: []scriptStep{
		{reply: "none"},
		{reply: "I'm doing well, thanks!"},
	}}
	o, store := newTestOrchestrator(gw, &fakeSchedule{}, &fakeClipboard{})

	reply, err := o.HandleTurn(context.Background(), "t1", "how are you?")
	require.NoError(t, err)
	assert.Equal(t, "I'm doing well, thanks!", reply)

	// Bootstrap system message, the user turn, and exactly one assistant
	// message.
	hist := store.History("t1")
	require.Len(t, hist, 3)
	assert.Equal(t, domain.RoleSystem, hist[0].Role)
	assert.Contains(t, hist[0].Content, "2025-03-03 09:00:00")
	assert.Equal(t, domain.RoleUser, hist[1].Role)
	assert.Equal(t, "how are you?", hist[1].Content)
	assert.Equal(t, domain.RoleAssistant, hist[2].Role)
}

func TestOrchestrator_BootstrapOnlyOnce(t *testing.T) {
	gw := &scriptedGateway{script: []scriptStep{
		{reply: "none"}, {reply: "one"},
		{reply: "none"}, {reply: "two"},
	}}
	o, store := newTestOrchestrator(gw, &fakeSchedule{}, &fakeClipboard{})

	o.Bootstrap("t1")
	_, err := o.HandleTurn(context.Background(), "t1", "first")
	require.NoError(t, err)
	_, err = o.HandleTurn(context.Background(), "t1", "second")
	require.NoError(t, err)

	systems := 0
	for _, m := range store.History("t1") {
		if m.Role == domain.RoleSystem {
			systems++
		}
	}
	assert.Equal(t, 1, systems)
}

func TestOrchestrator_ScheduleSnapshotReachesPrompt(t *testing.T) {
	gw := &scriptedGateway{script: []scriptStep{
		{reply: "none"},
		{reply: "you have math first"},
	}}
	sched := &fakeSchedule{rendered: "| Monday | 1 | Math |"}
	o, _ := newTestOrchestrator(gw, sched, &fakeClipboard{})

	_, err := o.HandleTurn(context.Background(), "t1", "what's my first class?")
	require.NoError(t, err)

	require.Len(t, gw.calls, 2)
	prompt := gw.calls[1]
	require.GreaterOrEqual(t, len(prompt), 3)
	assert.Contains(t, prompt[1].Content, "| Monday | 1 | Math |")
}

func TestOrchestrator_BrokenScheduleDegradesToSentinel(t *testing.T) {
	gw := &scriptedGateway{script: []scriptStep{
		{reply: "none"},
		{reply: "ok"},
	}}
	sched := &fakeSchedule{renderErr: errors.New("disk on fire")}
	o, _ := newTestOrchestrator(gw, sched, &fakeClipboard{})

	_, err := o.HandleTurn(context.Background(), "t1", "hello")
	require.NoError(t, err)

	prompt := gw.calls[1]
	assert.Contains(t, prompt[1].Content, "The timetable is currently empty.")
}

func TestOrchestrator_SaveScheduleReturnsDetail(t *testing.T) {
	gw := &scriptedGateway{script: []scriptStep{{reply: "save_schedule"}}}
	sched := &fakeSchedule{saveRes: schedule.Result{Status: schedule.StatusSaved, Detail: "✅ Timetable extracted and saved."}}
	o, store := newTestOrchestrator(gw, sched, &fakeClipboard{})

	reply, err := o.HandleTurn(context.Background(), "t1", "save my timetable")
	require.NoError(t, err)
	assert.Equal(t, "✅ Timetable extracted and saved.", reply)
	assert.Len(t, store.History("t1"), 3)
}

func TestOrchestrator_DeleteSchedulePurgesSession(t *testing.T) {
	gw := &scriptedGateway{script: []scriptStep{
		{reply: "delete_schedule"},
		{reply: "none"}, {reply: "hello again"},
	}}
	sched := &fakeSchedule{deleteRes: schedule.Result{Status: schedule.StatusDeleted, Detail: "Your timetable has been deleted."}}
	o, store := newTestOrchestrator(gw, sched, &fakeClipboard{})

	reply, err := o.HandleTurn(context.Background(), "t1", "delete my timetable")
	require.NoError(t, err)
	assert.Equal(t, "Your timetable has been deleted.", reply)
	assert.Equal(t, 1, sched.deletes)

	// Conversation memory is gone with the schedule; the reply is not
	// retained either.
	assert.False(t, store.Exists("t1"))

	// The next turn starts a fresh session.
	_, err = o.HandleTurn(context.Background(), "t1", "hi")
	require.NoError(t, err)
	hist := store.History("t1")
	require.Len(t, hist, 3)
	assert.Equal(t, domain.RoleSystem, hist[0].Role)
	assert.Equal(t, "hi", hist[1].Content)
}

func TestOrchestrator_CheckGrammarCorrectsClipboard(t *testing.T) {
	gw := &scriptedGateway{script: []scriptStep{
		{reply: "check_grammar"},
		{reply: "He went to school yesterday."},
	}}
	clip := &fakeClipboard{content: "He go to school yesterday."}
	o, _ := newTestOrchestrator(gw, &fakeSchedule{}, clip)

	reply, err := o.HandleTurn(context.Background(), "t1", "fix my grammar")
	require.NoError(t, err)
	assert.Equal(t, "He went to school yesterday.", reply)
	require.Len(t, clip.written, 1)
	assert.Equal(t, "He went to school yesterday.", clip.written[0])
}

func TestOrchestrator_CheckGrammarNoWriteWhenAlreadyCorrect(t *testing.T) {
	gw := &scriptedGateway{script: []scriptStep{
		{reply: "check_grammar"},
		{reply: "This sentence is fine."},
	}}
	clip := &fakeClipboard{content: "This sentence is fine."}
	o, _ := newTestOrchestrator(gw, &fakeSchedule{}, clip)

	reply, err := o.HandleTurn(context.Background(), "t1", "fix my grammar")
	require.NoError(t, err)
	assert.Equal(t, "This sentence is fine.", reply)
	assert.Empty(t, clip.written)
}

func TestOrchestrator_CheckGrammarEmptyClipboard(t *testing.T) {
	gw := &scriptedGateway{script: []scriptStep{{reply: "check_grammar"}}}
	clip := &fakeClipboard{}
	o, _ := newTestOrchestrator(gw, &fakeSchedule{}, clip)

	reply, err := o.HandleTurn(context.Background(), "t1", "fix my grammar")
	require.NoError(t, err)
	assert.Equal(t, "Clipboard is empty. Copy some text first.", reply)
	// Only the classifier ran.
	assert.Len(t, gw.calls, 1)
}

func TestOrchestrator_SuggestEmojiAlwaysWrites(t *testing.T) {
	gw := &scriptedGateway{script: []scriptStep{
		{reply: "suggest_emoji"},
		{reply: "🎉"},
	}}
	clip := &fakeClipboard{content: "we shipped it!"}
	o, _ := newTestOrchestrator(gw, &fakeSchedule{}, clip)

	reply, err := o.HandleTurn(context.Background(), "t1", "give me an emoji")
	require.NoError(t, err)
	assert.Equal(t, "🎉", reply)
	require.Len(t, clip.written, 1)
	assert.Equal(t, "🎉", clip.written[0])
}

func TestOrchestrator_GatewayFailureKeepsUserMessage(t *testing.T) {
	gw := &scriptedGateway{script: []scriptStep{
		{reply: "none"},
		{err: errors.New("gateway down")},
	}}
	o, store := newTestOrchestrator(gw, &fakeSchedule{}, &fakeClipboard{})

	reply, err := o.HandleTurn(context.Background(), "t1", "hello")
	require.Error(t, err)
	assert.Empty(t, reply)

	// The failed turn stays visible: user message appended, no assistant
	// message.
	hist := store.History("t1")
	require.Len(t, hist, 2)
	assert.Equal(t, domain.RoleUser, hist[1].Role)
	assert.Equal(t, "hello", hist[1].Content)
}

func TestOrchestrator_ResetThread(t *testing.T) {
	gw := &scriptedGateway{script: []scriptStep{
		{reply: "none"}, {reply: "hi"},
	}}
	o, store := newTestOrchestrator(gw, &fakeSchedule{}, &fakeClipboard{})

	_, err := o.HandleTurn(context.Background(), "t1", "hello")
	require.NoError(t, err)
	require.True(t, store.Exists("t1"))

	o.ResetThread("t1")
	assert.False(t, store.Exists("t1"))

	// Resetting an unknown thread succeeds silently.
	o.ResetThread("never-existed")
}

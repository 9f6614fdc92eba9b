package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Nithin1682/voice-assistant/internal/clipboard"
	"github.com/Nithin1682/voice-assistant/internal/config"
	"github.com/Nithin1682/voice-assistant/internal/domain"
	"github.com/Nithin1682/voice-assistant/internal/schedule"
	"github.com/Nithin1682/voice-assistant/internal/service"
	"github.com/Nithin1682/voice-assistant/internal/session"
)

// Orchestrator drives one conversation turn end to end: classify the
// user's text, run a specialized intent handler, or compose a grounded
// prompt and complete it. All front-ends (Telegram, console, voice) sit
// on top of this type.
type Orchestrator struct {
	store     *session.Store
	gateway   Gateway
	router    *Router
	schedule  schedule.Service
	clipboard clipboard.Clipboard
	budget    int
	now       func() time.Time
	logger    *slog.Logger
}

// Deps contains everything an Orchestrator needs. Budget and Now are
// optional; they default to the configured trim budget and wall clock.
type Deps struct {
	Store     *session.Store
	Gateway   Gateway
	Schedule  schedule.Service
	Clipboard clipboard.Clipboard
	Budget    int
	Now       func() time.Time
	Logger    *slog.Logger
}

func New(deps Deps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	budget := deps.Budget
	if budget <= 0 {
		budget = config.TrimBudget
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		store:     deps.Store,
		gateway:   deps.Gateway,
		router:    NewRouter(deps.Gateway, logger),
		schedule:  deps.Schedule,
		clipboard: deps.Clipboard,
		budget:    budget,
		now:       now,
		logger:    logger,
	}
}

// Bootstrap opens a thread by injecting a system message carrying the
// creation timestamp, before any real turn is processed. Safe to call on
// an existing thread; it only acts once.
func (o *Orchestrator) Bootstrap(threadID string) {
	unlock := o.store.Lock(threadID)
	defer unlock()
	o.bootstrapLocked(threadID)
}

func (o *Orchestrator) bootstrapLocked(threadID string) {
	if o.store.Exists(threadID) {
		return
	}
	o.store.GetOrCreate(threadID)
	stamp := o.now().Format("2006-01-02 15:04:05")
	o.store.Append(threadID, domain.SystemMessage(fmt.Sprintf(bootstrapInstruction, stamp)))
}

// ResetThread discards the thread's session state. Idempotent; resetting
// an unknown thread succeeds silently.
func (o *Orchestrator) ResetThread(threadID string) {
	unlock := o.store.Lock(threadID)
	defer unlock()
	o.store.Delete(threadID)
}

// HandleTurn processes one user turn and returns the assistant reply.
// Turns on the same thread are strictly serialized; turns on different
// threads run independently. On error the user message stays in history
// and no assistant message is appended, so the failed turn is visible but
// the session is never left half-updated.
func (o *Orchestrator) HandleTurn(ctx context.Context, threadID, text string) (string, error) {
	unlock := o.store.Lock(threadID)
	defer unlock()

	o.bootstrapLocked(threadID)
	o.store.Append(threadID, domain.UserMessage(text))

	intent := o.router.Classify(ctx, text)

	var reply string
	var err error
	switch intent {
	case domain.IntentSaveSchedule:
		reply, err = o.saveSchedule(ctx)
	case domain.IntentDeleteSchedule:
		// Schedule and conversation memory are deleted together; the
		// session is purged, so the reply is not retained in history.
		reply, err = o.deleteSchedule(ctx, threadID)
		return reply, err
	case domain.IntentCheckGrammar:
		reply, err = o.checkGrammar(ctx)
	case domain.IntentSuggestEmoji:
		reply, err = o.suggestEmoji(ctx)
	default:
		reply, err = o.complete(ctx, threadID)
	}
	if err != nil {
		return "", err
	}

	o.store.Append(threadID, domain.AssistantMessage(reply))
	return reply, nil
}

func (o *Orchestrator) saveSchedule(ctx context.Context) (string, error) {
	res, err := o.schedule.Save(ctx)
	if err != nil {
		return "", fmt.Errorf("save schedule: %w", err)
	}
	return res.Detail, nil
}

func (o *Orchestrator) deleteSchedule(ctx context.Context, threadID string) (string, error) {
	res, err := o.schedule.Delete(ctx)
	if err != nil {
		return "", fmt.Errorf("delete schedule: %w", err)
	}
	o.store.Delete(threadID)
	o.logger.Info("thread purged with schedule", "thread_id", threadID)
	return res.Detail, nil
}

func (o *Orchestrator) checkGrammar(ctx context.Context) (string, error) {
	text := o.clipboard.Read()
	if text == "" {
		return "Clipboard is empty. Copy some text first.", nil
	}

	reply, err := o.gateway.Generate(ctx, []domain.Message{
		domain.SystemMessage(grammarInstruction),
		domain.UserMessage(text),
	}, service.GenerateParams{
		Temperature: config.UtilityTemperature,
		MaxTokens:   config.UtilityMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("check grammar: %w", err)
	}

	corrected := reply.Content
	if corrected != text {
		o.clipboard.Write(corrected)
	}
	return corrected, nil
}

func (o *Orchestrator) suggestEmoji(ctx context.Context) (string, error) {
	text := o.clipboard.Read()
	if text == "" {
		return "Clipboard is empty. Copy some text first.", nil
	}

	reply, err := o.gateway.Generate(ctx, []domain.Message{
		domain.SystemMessage(emojiInstruction),
		domain.UserMessage(text),
	}, service.GenerateParams{
		Temperature: config.UtilityTemperature,
		MaxTokens:   config.UtilityMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("suggest emoji: %w", err)
	}

	o.clipboard.Write(reply.Content)
	return reply.Content, nil
}

// complete is the general path: trim history, snapshot the schedule,
// compose the grounded prompt, and run the completion.
func (o *Orchestrator) complete(ctx context.Context, threadID string) (string, error) {
	trimmed, err := Trim(o.store.History(threadID), o.budget)
	if err != nil {
		return "", err
	}

	snapshot, err := o.schedule.Render(ctx, schedule.FormatMarkdown)
	if err != nil {
		// A broken schedule store degrades to the empty-schedule sentinel
		// rather than failing the whole turn.
		o.logger.Warn("schedule snapshot failed", "error", err)
		snapshot = ""
	}

	prompt := Compose(o.store.Language(threadID), snapshot, o.now(), trimmed)
	reply, err := o.gateway.Generate(ctx, prompt, service.GenerateParams{
		Temperature: config.ChatTemperature,
		MaxTokens:   config.ChatMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return reply.Content, nil
}

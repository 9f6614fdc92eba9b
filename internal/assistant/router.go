package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Nithin1682/voice-assistant/internal/config"
	"github.com/Nithin1682/voice-assistant/internal/domain"
	"github.com/Nithin1682/voice-assistant/internal/service"
)

// Gateway is the completion service the core consumes. The classifier
// reuses the same gateway with a different system instruction.
type Gateway interface {
	Generate(ctx context.Context, messages []domain.Message, params service.GenerateParams) (domain.Message, error)
}

// Router classifies a user turn into the closed intent set.
type Router struct {
	gateway Gateway
	logger  *slog.Logger
}

func NewRouter(gateway Gateway, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{gateway: gateway, logger: logger}
}

// Classify asks the gateway for the intent of a single user turn. The raw
// output is validated against the closed enumeration; any mismatch, empty
// result, or gateway failure degrades to IntentNone so classification
// errors never surface to the user.
func (r *Router) Classify(ctx context.Context, userText string) domain.Intent {
	messages := []domain.Message{
		domain.SystemMessage(classifierInstruction),
		domain.UserMessage(fmt.Sprintf("Input: %s\nIntent:", userText)),
	}

	reply, err := r.gateway.Generate(ctx, messages, service.GenerateParams{
		Temperature: config.ClassifyTemperature,
		MaxTokens:   config.ClassifyMaxTokens,
	})
	if err != nil {
		r.logger.Warn("intent classification failed, falling back to none", "error", err)
		return domain.IntentNone
	}

	intent := domain.ParseIntent(reply.Content)
	r.logger.Debug("turn classified", "intent", intent)
	return intent
}

package assistant

import (
	"fmt"

	"github.com/Nithin1682/voice-assistant/internal/domain"
)

// EstimateTokens approximates the model-countable size of a message.
// Four bytes per token is the usual rule of thumb for English text; every
// message costs at least one token.
func EstimateTokens(m domain.Message) int {
	n := (len(m.Content) + 3) / 4
	if n < 1 {
		n = 1
	}
	return n
}

// Trim reduces history to fit budget. System messages are always retained
// and charged against the budget first; the remaining budget is filled
// with the most recent turns, walking backward. The retained window is
// then snapped forward so it never opens on an assistant message, and no
// message is ever split. The input is not mutated; the result is a
// transient view for one composition.
//
// Trim fails only when the system messages alone exceed the budget, since
// no valid window can be produced without dropping one of them.
func Trim(history []domain.Message, budget int) ([]domain.Message, error) {
	var systems []domain.Message
	var turns []domain.Message
	used := 0

	for _, m := range history {
		if m.Role == domain.RoleSystem {
			systems = append(systems, m)
			used += EstimateTokens(m)
		} else {
			turns = append(turns, m)
		}
	}

	if used > budget {
		return nil, fmt.Errorf("%w: %d tokens of system messages, budget %d", domain.ErrBudgetExceeded, used, budget)
	}

	start := len(turns)
	for i := len(turns) - 1; i >= 0; i-- {
		cost := EstimateTokens(turns[i])
		if used+cost > budget {
			break
		}
		used += cost
		start = i
	}

	window := turns[start:]
	for len(window) > 0 && window[0].Role != domain.RoleUser {
		window = window[1:]
	}

	out := make([]domain.Message, 0, len(systems)+len(window))
	out = append(out, systems...)
	out = append(out, window...)
	return out, nil
}

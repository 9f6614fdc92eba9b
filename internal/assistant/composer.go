package assistant

import (
	"fmt"
	"time"

	"github.com/Nithin1682/voice-assistant/internal/domain"
)

// Compose builds the final prompt for the general completion path:
// persona instruction, schedule context, date/time, then the trimmed
// history. Pure given its inputs; when scheduleMD is empty the explicit
// empty-schedule sentinel is interpolated, never a silent blank.
func Compose(language, scheduleMD string, now time.Time, trimmed []domain.Message) []domain.Message {
	if scheduleMD == "" {
		scheduleMD = scheduleEmptySentinel
	}

	prompt := make([]domain.Message, 0, len(trimmed)+3)
	prompt = append(prompt,
		domain.Message{
			Role:      domain.RoleSystem,
			Content:   fmt.Sprintf(personaInstruction, language),
			CreatedAt: now,
		},
		domain.Message{
			Role:      domain.RoleSystem,
			Content:   fmt.Sprintf(scheduleInstruction, scheduleMD),
			CreatedAt: now,
		},
		domain.Message{
			Role:      domain.RoleSystem,
			Content:   fmt.Sprintf(datetimeInstruction, now.Format("Monday"), now.Format("2006-01-02 15:04:05")),
			CreatedAt: now,
		},
	)
	return append(prompt, trimmed...)
}

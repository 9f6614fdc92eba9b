// Package clipboard wraps system clipboard access for the grammar and
// emoji intents. Failures are deliberately soft: a clipboard that cannot
// be read is treated as empty, and writes are best-effort.
package clipboard

import (
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard is the collaborator contract the orchestrator consumes.
type Clipboard interface {
	Read() string
	Write(text string)
}

// System is the real clipboard backed by github.com/atotto/clipboard.
type System struct {
	logger *slog.Logger
}

func NewSystem(logger *slog.Logger) *System {
	if logger == nil {
		logger = slog.Default()
	}
	return &System{logger: logger}
}

func (s *System) Read() string {
	text, err := clipboard.ReadAll()
	if err != nil {
		s.logger.Debug("clipboard read failed, treating as empty", "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

func (s *System) Write(text string) {
	if err := clipboard.WriteAll(text); err != nil {
		s.logger.Warn("clipboard write failed", "error", err)
	}
}

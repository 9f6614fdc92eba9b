package schedule

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Nithin1682/voice-assistant/internal/domain"
)

// RenderMarkdown renders timetable entries as a markdown table. Returns
// an empty string for an empty schedule; the caller decides how absence
// is presented.
func RenderMarkdown(entries []domain.ScheduleEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("| Day     | Period | Start  | End    | Subject            |\n")
	sb.WriteString("|---------|--------|--------|--------|--------------------|\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("| %-7s | %-6d | %-6s | %-6s | %-18s |\n",
			e.Day, e.Period, e.Start, e.End, e.Subject))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderRaw renders entries as indented JSON. An empty schedule renders
// as the empty array, not an error.
func RenderRaw(entries []domain.ScheduleEntry) (string, error) {
	if len(entries) == 0 {
		return "[]", nil
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal schedule: %w", err)
	}
	return string(data), nil
}

func render(entries []domain.ScheduleEntry, format Format) (string, error) {
	switch format {
	case FormatRaw:
		return RenderRaw(entries)
	default:
		return RenderMarkdown(entries), nil
	}
}

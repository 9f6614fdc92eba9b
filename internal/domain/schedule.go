package domain

import "strings"

// Day is a weekday name as it appears in the stored timetable.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Days lists the weekdays in timetable order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDay normalizes a day name ("monday", "MONDAY") to its canonical
// capitalized form. Returns false for anything that is not a weekday.
func ParseDay(raw string) (Day, bool) {
	candidate := strings.ToLower(strings.TrimSpace(raw))
	for _, d := range Days {
		if candidate == strings.ToLower(string(d)) {
			return d, true
		}
	}
	return "", false
}

// ScheduleEntry is one timetable slot. The core consumes these read-only;
// only the schedule service mutates the underlying store.
type ScheduleEntry struct {
	Day     Day    `json:"day"`
	Period  int    `json:"period"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Subject string `json:"subject"`
}

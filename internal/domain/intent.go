package domain

import "strings"

// Intent is the closed set of specialized actions the router recognizes.
// Intents are computed per turn and never persisted.
type Intent string

const (
	IntentSaveSchedule   Intent = "save_schedule"
	IntentDeleteSchedule Intent = "delete_schedule"
	IntentCheckGrammar   Intent = "check_grammar"
	IntentSuggestEmoji   Intent = "suggest_emoji"
	IntentNone           Intent = "none"
)

// Intents lists every routable intent, in the order the classifier
// instruction enumerates them.
var Intents = []Intent{
	IntentSaveSchedule,
	IntentDeleteSchedule,
	IntentCheckGrammar,
	IntentSuggestEmoji,
	IntentNone,
}

// ParseIntent maps raw classifier output onto the closed enumeration.
// Matching is case-insensitive; whitespace is trimmed. Anything that is
// not an exact member of the set, including the empty string, degrades
// to IntentNone so a garbled model reply can never leak through.
func ParseIntent(raw string) Intent {
	candidate := Intent(strings.ToLower(strings.TrimSpace(raw)))
	for _, it := range Intents {
		if candidate == it {
			return it
		}
	}
	return IntentNone
}

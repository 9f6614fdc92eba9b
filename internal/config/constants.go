package config

import "time"

const (
	// Trim budget for the composed prompt, in approximate tokens.
	TrimBudget = 1024

	// AI request timeout
	RequestTimeout = 90 * time.Second

	// Completion parameters for the general chat path
	ChatTemperature = 0.7
	ChatMaxTokens   = 1024

	// Classification is forced deterministic and single-token-style.
	ClassifyTemperature = 0.0
	ClassifyMaxTokens   = 16

	// Utility modes (grammar correction, emoji suggestion)
	UtilityTemperature = 0.2
	UtilityMaxTokens   = 512

	// Vision extraction of a timetable image
	ExtractTemperature = 0.0
	ExtractMaxTokens   = 1024

	// Voice loop
	SilenceTimeout  = 10 * time.Second
	ListenWindow    = 5 * time.Second
	PhraseTimeLimit = 10 * time.Second
)

package domain

import "errors"

var (
	ErrBudgetExceeded    = errors.New("system messages exceed trim budget")
	ErrEmptyCompletion   = errors.New("gateway returned no completion")
	ErrMalformedSchedule = errors.New("extracted schedule is not valid JSON")
)

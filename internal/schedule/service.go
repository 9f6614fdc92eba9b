// Package schedule stores and renders the user's weekly timetable. Two
// interchangeable backends exist: a JSON file fed by vision extraction of
// an uploaded image, and a Postgres table fed by an interactive entry
// form. The conversation core consumes either through Service.
package schedule

import "context"

// Format selects the rendering of the stored timetable.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatRaw      Format = "raw"
)

// Status describes the outcome of a save or delete.
type Status string

const (
	StatusSaved   Status = "saved"
	StatusSkipped Status = "skipped" // save refused or aborted, nothing written
	StatusFailed  Status = "failed"  // bad payload, nothing written
	StatusDeleted Status = "deleted"
	StatusNoop    Status = "noop" // delete of an already-empty schedule
)

// Result is the user-facing outcome of a schedule operation. Detail is
// always suitable to show verbatim as the assistant's reply.
type Result struct {
	Status Status
	Detail string
}

// Service is the schedule store contract the orchestrator dispatches to.
// Save must refuse to overwrite an existing schedule, Delete must be
// idempotent, and Render of an absent schedule yields an empty string for
// markdown (the composer supplies the sentinel) and "[]" for raw.
type Service interface {
	Render(ctx context.Context, format Format) (string, error)
	Save(ctx context.Context) (Result, error)
	Delete(ctx context.Context) (Result, error)
}

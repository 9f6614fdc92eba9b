package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nithin1682/voice-assistant/internal/domain"
)

// EntryForm collects timetable entries interactively. Returning an empty
// slice with a nil error means the user entered nothing.
type EntryForm interface {
	Collect(ctx context.Context) ([]domain.ScheduleEntry, error)
}

// PostgresStore is the relational schedule backend: one row per timetable
// slot, populated through an interactive entry form.
type PostgresStore struct {
	db     *pgxpool.Pool
	form   EntryForm
	logger *slog.Logger
}

func NewPostgresStore(db *pgxpool.Pool, form EntryForm, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, form: form, logger: logger}
}

func (p *PostgresStore) Render(ctx context.Context, format Format) (string, error) {
	rows, err := p.db.Query(ctx, `
		SELECT day, period, start_time, end_time, subject
		FROM schedule_entries
		ORDER BY array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], day), period`)
	if err != nil {
		return "", fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var entries []domain.ScheduleEntry
	for rows.Next() {
		var e domain.ScheduleEntry
		if err := rows.Scan(&e.Day, &e.Period, &e.Start, &e.End, &e.Subject); err != nil {
			return "", fmt.Errorf("scan schedule row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("read schedule rows: %w", err)
	}

	return render(entries, format)
}

// Save collects entries through the form and inserts them in one
// transaction. The overwrite check runs inside the same transaction, so a
// concurrent save cannot produce a half-written schedule.
func (p *PostgresStore) Save(ctx context.Context) (Result, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Result{}, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM schedule_entries`).Scan(&count); err != nil {
		return Result{}, fmt.Errorf("count schedule entries: %w", err)
	}
	if count > 0 {
		return Result{Status: StatusSkipped, Detail: "There is a timetable already saved."}, nil
	}

	entries, err := p.form.Collect(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("collect entries: %w", err)
	}
	if len(entries) == 0 {
		return Result{Status: StatusSkipped, Detail: "No entries provided. Timetable not saved."}, nil
	}

	for _, e := range entries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO schedule_entries (day, period, start_time, end_time, subject)
			VALUES ($1, $2, $3, $4, $5)`,
			e.Day, e.Period, e.Start, e.End, e.Subject); err != nil {
			return Result{}, fmt.Errorf("insert schedule entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("commit save: %w", err)
	}

	p.logger.Info("timetable saved", "entries", len(entries))
	return Result{Status: StatusSaved, Detail: "✅ Timetable saved."}, nil
}

// Delete clears the schedule table. Always an idempotent success.
func (p *PostgresStore) Delete(ctx context.Context) (Result, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM schedule_entries`)
	if err != nil {
		return Result{}, fmt.Errorf("delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Result{Status: StatusNoop, Detail: "No timetable was saved."}, nil
	}
	p.logger.Info("timetable deleted", "rows", tag.RowsAffected())
	return Result{Status: StatusDeleted, Detail: "Your timetable has been deleted."}, nil
}

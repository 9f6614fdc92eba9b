package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/Nithin1682/voice-assistant/internal/domain"
)

// HuhEntryForm collects timetable entries through a terminal form, one
// slot at a time, until the user declines to add more.
type HuhEntryForm struct{}

func NewHuhEntryForm() *HuhEntryForm {
	return &HuhEntryForm{}
}

func (f *HuhEntryForm) Collect(ctx context.Context) ([]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry

	for {
		var (
			day     string
			period  string
			start   string
			end     string
			subject string
			more    bool
		)

		dayOptions := make([]huh.Option[string], 0, len(domain.Days))
		for _, d := range domain.Days {
			dayOptions = append(dayOptions, huh.NewOption(string(d), string(d)))
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Day").
					Options(dayOptions...).
					Value(&day),
				huh.NewInput().
					Title("Period").
					Validate(validatePeriod).
					Value(&period),
				huh.NewInput().
					Title("Start (HH:MM)").
					Value(&start),
				huh.NewInput().
					Title("End (HH:MM)").
					Value(&end),
				huh.NewInput().
					Title("Subject").
					Validate(requireText).
					Value(&subject),
				huh.NewConfirm().
					Title("Add another entry?").
					Value(&more),
			),
		)

		if err := form.RunWithContext(ctx); err != nil {
			if err == huh.ErrUserAborted {
				return entries, nil
			}
			return nil, fmt.Errorf("run entry form: %w", err)
		}

		p, _ := strconv.Atoi(strings.TrimSpace(period))
		d, _ := domain.ParseDay(day)
		entries = append(entries, domain.ScheduleEntry{
			Day:     d,
			Period:  p,
			Start:   strings.TrimSpace(start),
			End:     strings.TrimSpace(end),
			Subject: strings.TrimSpace(subject),
		})

		if !more {
			return entries, nil
		}
	}
}

func validatePeriod(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("period must be a positive number")
	}
	return nil
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// HuhImagePicker selects the timetable image through a terminal file
// picker. Aborting the picker selects nothing rather than failing.
type HuhImagePicker struct{}

func NewHuhImagePicker() *HuhImagePicker {
	return &HuhImagePicker{}
}

func (p *HuhImagePicker) Pick(ctx context.Context) (string, error) {
	var path string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewFilePicker().
				Title("Upload timetable image").
				AllowedTypes([]string{".png", ".jpg", ".jpeg", ".bmp"}).
				Value(&path),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		if err == huh.ErrUserAborted {
			return "", nil
		}
		return "", fmt.Errorf("run file picker: %w", err)
	}
	return path, nil
}

package schedule

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Nithin1682/voice-assistant/internal/config"
	"github.com/Nithin1682/voice-assistant/internal/domain"
	"github.com/Nithin1682/voice-assistant/internal/service"
)

const extractionPrompt = "Extract the timetable from this image in structured JSON format. " +
	"Return ONLY the JSON array. Each element has the fields day, period, start, end, subject."

// ImagePicker supplies the timetable image to extract. An empty path with
// a nil error means the user selected nothing.
type ImagePicker interface {
	Pick(ctx context.Context) (string, error)
}

// Extractor is the vision-capable completion service used to turn an
// image into structured timetable data.
type Extractor interface {
	Complete(ctx context.Context, messages []service.ChatMessage, model string, params service.GenerateParams) (string, error)
}

// FileStore is the file-backed schedule service: a JSON document on disk,
// populated by vision extraction of an uploaded image. Absence of the
// document means "empty schedule", not an error.
type FileStore struct {
	path        string
	picker      ImagePicker
	extractor   Extractor
	visionModel string
	logger      *slog.Logger
}

func NewFileStore(path string, picker ImagePicker, extractor Extractor, visionModel string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		path:        path,
		picker:      picker,
		extractor:   extractor,
		visionModel: visionModel,
		logger:      logger,
	}
}

func (f *FileStore) exists() bool {
	info, err := os.Stat(f.path)
	return err == nil && !info.IsDir()
}

func (f *FileStore) load() ([]domain.ScheduleEntry, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read timetable: %w", err)
	}
	var entries []domain.ScheduleEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse timetable: %w", err)
	}
	return entries, nil
}

func (f *FileStore) Render(ctx context.Context, format Format) (string, error) {
	entries, err := f.load()
	if err != nil {
		return "", err
	}
	return render(entries, format)
}

// Save extracts a timetable from a user-picked image and persists it.
// Refuses to overwrite an existing schedule. A malformed extraction is
// reported verbatim in the result and nothing is written.
func (f *FileStore) Save(ctx context.Context) (Result, error) {
	if f.exists() {
		return Result{Status: StatusSkipped, Detail: "There is a timetable already saved."}, nil
	}
	if f.picker == nil {
		// No interactive picker on this front-end; the image has to
		// arrive some other way (e.g. a Telegram photo message).
		return Result{Status: StatusSkipped, Detail: "Send me a photo of your timetable and I'll save it."}, nil
	}

	path, err := f.picker.Pick(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("pick image: %w", err)
	}
	if path == "" {
		return Result{Status: StatusSkipped, Detail: "No image selected. Timetable not saved."}, nil
	}

	img, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read image: %w", err)
	}

	messages := []service.ChatMessage{{
		Role: "user",
		Content: []interface{}{
			service.TextPart(extractionPrompt),
			service.ImagePart(mimeForPath(path), base64.StdEncoding.EncodeToString(img)),
		},
	}}

	raw, err := f.extractor.Complete(ctx, messages, f.visionModel, service.GenerateParams{
		Temperature: config.ExtractTemperature,
		MaxTokens:   config.ExtractMaxTokens,
	})
	if err != nil {
		return Result{}, fmt.Errorf("extract timetable: %w", err)
	}

	return f.saveExtracted(stripFences(raw))
}

// SaveFromImage runs the extraction flow for image bytes already in hand,
// bypassing the picker. Used by the Telegram front-end, where the picture
// arrives as a photo message.
func (f *FileStore) SaveFromImage(ctx context.Context, img []byte, mime string) (Result, error) {
	if f.exists() {
		return Result{Status: StatusSkipped, Detail: "There is a timetable already saved."}, nil
	}

	messages := []service.ChatMessage{{
		Role: "user",
		Content: []interface{}{
			service.TextPart(extractionPrompt),
			service.ImagePart(mime, base64.StdEncoding.EncodeToString(img)),
		},
	}}

	raw, err := f.extractor.Complete(ctx, messages, f.visionModel, service.GenerateParams{
		Temperature: config.ExtractTemperature,
		MaxTokens:   config.ExtractMaxTokens,
	})
	if err != nil {
		return Result{}, fmt.Errorf("extract timetable: %w", err)
	}

	return f.saveExtracted(stripFences(raw))
}

func (f *FileStore) saveExtracted(cleaned string) (Result, error) {
	entries, err := parseExtracted(cleaned)
	if err != nil {
		// Malformed extraction output goes back to the user verbatim for
		// diagnosis; the schedule stays unsaved.
		return Result{
			Status: StatusFailed,
			Detail: fmt.Sprintf("❌ Failed to parse the extracted timetable. Content was:\n\n%s", cleaned),
		}, nil
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("marshal timetable: %w", err)
	}
	if err := writeAtomic(f.path, data); err != nil {
		return Result{}, err
	}

	f.logger.Info("timetable saved", "path", f.path, "entries", len(entries))
	return Result{Status: StatusSaved, Detail: "✅ Timetable extracted and saved."}, nil
}

// Delete removes the stored timetable. Always an idempotent success.
func (f *FileStore) Delete(ctx context.Context) (Result, error) {
	if !f.exists() {
		return Result{Status: StatusNoop, Detail: "No timetable was saved."}, nil
	}
	if err := os.Remove(f.path); err != nil {
		return Result{}, fmt.Errorf("delete timetable: %w", err)
	}
	f.logger.Info("timetable deleted", "path", f.path)
	return Result{Status: StatusDeleted, Detail: "Your timetable has been deleted."}, nil
}

// parseExtracted accepts either the canonical entry list or the
// row-oriented table shape some vision models emit (one object per table
// row with a "time" column and one key per weekday).
func parseExtracted(cleaned string) ([]domain.ScheduleEntry, error) {
	var rows []map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedSchedule, err)
	}

	if len(rows) > 0 {
		if _, ok := rows[0]["time"]; ok {
			return transformRowSchema(rows), nil
		}
	}

	var entries []domain.ScheduleEntry
	if err := json.Unmarshal([]byte(cleaned), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedSchedule, err)
	}
	return entries, nil
}

// transformRowSchema flattens row-oriented table output into per-day
// entries. Row index becomes the period; the "time" column is split into
// start and end.
func transformRowSchema(rows []map[string]interface{}) []domain.ScheduleEntry {
	var entries []domain.ScheduleEntry
	for idx, row := range rows {
		start, end := splitTimeRange(stringField(row, "time"))
		for _, day := range domain.Days {
			subject := strings.TrimSpace(stringField(row, strings.ToLower(string(day))))
			if subject == "" {
				continue
			}
			entries = append(entries, domain.ScheduleEntry{
				Day:     day,
				Period:  idx + 1,
				Start:   start,
				End:     end,
				Subject: subject,
			})
		}
	}
	return entries
}

func splitTimeRange(s string) (string, string) {
	parts := strings.SplitN(s, "-", 2)
	start := strings.TrimSpace(parts[0])
	end := ""
	if len(parts) > 1 {
		end = strings.TrimSpace(parts[1])
	}
	return start, end
}

func stringField(row map[string]interface{}, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// stripFences removes a surrounding markdown code fence from model
// output, if present.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	lines := strings.Split(raw, "\n")
	if len(lines) > 1 && strings.HasPrefix(lines[len(lines)-1], "```") {
		lines = lines[1 : len(lines)-1]
	} else {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".bmp":
		return "image/bmp"
	default:
		return "image/png"
	}
}

// writeAtomic writes data via a temp file and rename so a failed save
// never leaves a partial document behind.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".timetable-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write timetable: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace timetable: %w", err)
	}
	return nil
}

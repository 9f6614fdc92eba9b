package schedule

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nithin1682/voice-assistant/internal/domain"
	"github.com/Nithin1682/voice-assistant/internal/service"
)

type stubPicker struct {
	path string
	err  error
}

func (s stubPicker) Pick(context.Context) (string, error) { return s.path, s.err }

type stubExtractor struct {
	output string
	err    error
	calls  int
}

func (s *stubExtractor) Complete(_ context.Context, _ []service.ChatMessage, _ string, _ service.GenerateParams) (string, error) {
	s.calls++
	return s.output, s.err
}

func writeImage(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "timetable.png")
	require.NoError(t, os.WriteFile(path, []byte("not really a png"), 0o644))
	return path
}

const canonicalExtraction = `[
  {"day": "Monday", "period": 1, "start": "08:00", "end": "08:45", "subject": "Math"},
  {"day": "Monday", "period": 2, "start": "08:50", "end": "09:35", "subject": "Physics"}
]`

func TestFileStore_SaveAndRender(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir)
	extractor := &stubExtractor{output: canonicalExtraction}
	store := NewFileStore(filepath.Join(dir, "timetable.json"), stubPicker{path: img}, extractor, "vision-model", nil)

	res, err := store.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, res.Status)
	assert.Equal(t, 1, extractor.calls)

	md, err := store.Render(context.Background(), FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, md, "| Day")
	assert.Contains(t, md, "Math")
	assert.Contains(t, md, "Physics")
}

func TestFileStore_SaveStripsCodeFences(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir)
	extractor := &stubExtractor{output: "```json\n" + canonicalExtraction + "\n```"}
	store := NewFileStore(filepath.Join(dir, "timetable.json"), stubPicker{path: img}, extractor, "vision-model", nil)

	res, err := store.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, res.Status)
}

func TestFileStore_SaveNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timetable.json")
	original := []byte(`[{"day":"Friday","period":1,"start":"08:00","end":"08:45","subject":"Art"}]`)
	require.NoError(t, os.WriteFile(path, original, 0o644))

	extractor := &stubExtractor{output: canonicalExtraction}
	store := NewFileStore(path, stubPicker{path: writeImage(t, dir)}, extractor, "vision-model", nil)

	res, err := store.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Equal(t, "There is a timetable already saved.", res.Detail)
	assert.Equal(t, 0, extractor.calls)

	// The stored document is byte for byte untouched.
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestFileStore_SaveWithoutPicker(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "timetable.json"), nil, &stubExtractor{}, "vision-model", nil)

	res, err := store.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Contains(t, res.Detail, "photo")
}

func TestFileStore_SaveNothingPicked(t *testing.T) {
	extractor := &stubExtractor{output: canonicalExtraction}
	store := NewFileStore(filepath.Join(t.TempDir(), "timetable.json"), stubPicker{path: ""}, extractor, "vision-model", nil)

	res, err := store.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Equal(t, 0, extractor.calls)
}

func TestFileStore_MalformedExtractionReportedVerbatim(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timetable.json")
	extractor := &stubExtractor{output: "Sorry, I could not find a timetable in this image."}
	store := NewFileStore(path, stubPicker{path: writeImage(t, dir)}, extractor, "vision-model", nil)

	res, err := store.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Detail, "Sorry, I could not find a timetable in this image.")

	// Nothing was written.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileStore_SaveFromImage(t *testing.T) {
	dir := t.TempDir()
	extractor := &stubExtractor{output: canonicalExtraction}
	store := NewFileStore(filepath.Join(dir, "timetable.json"), nil, extractor, "vision-model", nil)

	res, err := store.SaveFromImage(context.Background(), []byte("photo bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, res.Status)
	assert.Equal(t, 1, extractor.calls)
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timetable.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
	store := NewFileStore(path, nil, &stubExtractor{}, "vision-model", nil)

	res, err := store.Delete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, res.Status)

	res, err = store.Delete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusNoop, res.Status)
	assert.Equal(t, "No timetable was saved.", res.Detail)
}

func TestFileStore_RenderMissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "timetable.json"), nil, &stubExtractor{}, "vision-model", nil)

	md, err := store.Render(context.Background(), FormatMarkdown)
	require.NoError(t, err)
	assert.Empty(t, md)

	raw, err := store.Render(context.Background(), FormatRaw)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestParseExtracted_RowSchema(t *testing.T) {
	rowJSON := `[
  {"time": "08:00 - 08:45", "monday": "Math", "tuesday": "", "wednesday": "History"},
  {"time": "08:50 - 09:35", "monday": "Physics"}
]`
	entries, err := parseExtracted(rowJSON)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, domain.Monday, entries[0].Day)
	assert.Equal(t, 1, entries[0].Period)
	assert.Equal(t, "08:00", entries[0].Start)
	assert.Equal(t, "08:45", entries[0].End)
	assert.Equal(t, "Math", entries[0].Subject)

	assert.Equal(t, domain.Wednesday, entries[1].Day)
	assert.Equal(t, 1, entries[1].Period)
	assert.Equal(t, "History", entries[1].Subject)

	assert.Equal(t, domain.Monday, entries[2].Day)
	assert.Equal(t, 2, entries[2].Period)
	assert.Equal(t, "Physics", entries[2].Subject)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "[]", stripFences("[]"))
	assert.Equal(t, "[]", stripFences("```json\n[]\n```"))
	assert.Equal(t, "[]", stripFences("```\n[]\n```"))
	assert.Equal(t, "[]", stripFences("  ```json\n[]\n```  "))
	assert.Equal(t, "no fences here", stripFences("no fences here"))
}

func TestRenderMarkdown(t *testing.T) {
	entries := []domain.ScheduleEntry{
		{Day: domain.Monday, Period: 1, Start: "08:00", End: "08:45", Subject: "Math"},
	}
	md := RenderMarkdown(entries)
	assert.Contains(t, md, "| Day")
	assert.Contains(t, md, "| Monday")
	assert.Contains(t, md, "Math")

	assert.Empty(t, RenderMarkdown(nil))
}

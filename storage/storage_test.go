package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cursor-stats/models"
	"cursor-stats/utils"
)

func sampleExport(t *testing.T) models.ExportFile {
	t.Helper()
	schema := models.NewSchema([]string{"User ID", "Email", "Edit Requests", "Most Used Model"})
	rows := []*models.Row{
		models.NewRow(schema, []string{"u1", "a@gotinder.com", "5", "gpt-4.1"}),
		models.NewRow(schema, []string{"u2", "b@hinge.co", "9", "o3"}),
	}
	return models.ExportFile{
		Variant: models.DefaultVariants[0],
		Domain:  models.All,
		Rows:    rows,
		Columns: schema.Headers(),
		Records: [][]string{
			{"u1", "a@gotinder.com", "5", "gpt-4.1"},
			{"u2", "b@hinge.co", "9", "o3"},
		},
		Text: "User ID,Email,Edit Requests,Most Used Model\nu1,a@gotinder.com,5,gpt-4.1\nu2,b@hinge.co,9,o3\n",
		Companies: []models.CompanyStat{
			{Company: "Tinder", Employees: 1, Requests: 5},
			{Company: "Hinge", Employees: 1, Requests: 9},
		},
	}
}

func TestFileSaverSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.csv")
	saver := NewFileSaver(utils.NewNopLogger())

	require.NoError(t, saver.Save(path, []byte("first\n")))
	require.NoError(t, saver.Save(path, []byte("second\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "out.csv", entries[0].Name())
}

func TestSaveExportsSkipsEmpty(t *testing.T) {
	dir := t.TempDir()
	saver := NewFileSaver(utils.NewNopLogger())

	ios := sampleExport(t)
	android := models.ExportFile{Variant: models.DefaultVariants[1]}

	written, err := saver.SaveExports(dir, []models.ExportFile{ios, android})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "iOS_cursor_stats.csv")}, written)

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	assert.Equal(t, ios.Text, string(data))

	_, err = os.Stat(filepath.Join(dir, "android_cursor_stats.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveExportsContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	saver := NewFileSaver(utils.NewNopLogger())

	// A directory squatting on the iOS file name makes the rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "iOS_cursor_stats.csv"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "iOS_cursor_stats.csv", "keep"), nil, 0644))

	ios := sampleExport(t)
	android := sampleExport(t)
	android.Variant = models.DefaultVariants[1]

	written, err := saver.SaveExports(dir, []models.ExportFile{ios, android})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iOS_cursor_stats.csv")
	assert.Equal(t, []string{filepath.Join(dir, "android_cursor_stats.csv")}, written)
}

func TestXLSXWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.xlsx")
	w := NewXLSXWriter(path)

	require.NoError(t, w.WriteExport(sampleExport(t)))
	require.NoError(t, w.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"iOS", "iOS Companies"}, f.GetSheetList())

	rows, err := f.GetRows("iOS")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"User ID", "Email", "Edit Requests", "Most Used Model"}, rows[0])
	assert.Equal(t, []string{"u2", "b@hinge.co", "9", "o3"}, rows[2])

	companies, err := f.GetRows("iOS Companies")
	require.NoError(t, err)
	require.Len(t, companies, 3)
	assert.Equal(t, []string{"Hinge", "1", "9"}, companies[1], "companies are ranked by requests")
}

func TestXLSXWriterNothingWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.xlsx")
	require.NoError(t, NewXLSXWriter(path).Close())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "an empty workbook should not be saved")
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "($1,$2,$3)", placeholders(0, 3))
	assert.Equal(t, "($10,$11)", placeholders(9, 2))
}

// TestPostgresWriterRoundTrip needs a reachable database, e.g.
// CURSOR_STATS_PG_DSN="host=localhost user=postgres password=postgres dbname=postgres sslmode=disable".
func TestPostgresWriterRoundTrip(t *testing.T) {
	dsn := os.Getenv("CURSOR_STATS_PG_DSN")
	if dsn == "" {
		t.Skip("CURSOR_STATS_PG_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	retry := &utils.RetryConfig{MaxAttempts: 2, BaseDelay: 100 * time.Millisecond}
	runID := uuid.New()
	pw, err := NewPostgresWriter(ctx, dsn, runID, retry)
	require.NoError(t, err)
	defer pw.Close()
	assert.Equal(t, runID, pw.RunID())
	defer func() { assert.NoError(t, pw.DeleteRun()) }()

	export := sampleExport(t)
	require.NoError(t, pw.WriteExport(export))

	rows, err := pw.FetchRun(export.Extension)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a@gotinder.com", rows[0].Email())
	assert.Equal(t, 9, rows[1].Int("Edit Requests"))
	assert.Same(t, rows[0].Schema, rows[1].Schema)
	assert.True(t, strings.HasSuffix(rows[1].Email(), "@hinge.co"))
}

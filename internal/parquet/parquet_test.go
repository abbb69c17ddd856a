package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/scanreport/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Run))
	for _, colName := range []string{
		"run_id", "archive_path", "archive_digest", "start_time", "end_time",
		"run_duration_ms", "total_units", "decode_errors", "config_params",
	} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestUnitSummaryStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(UnitSummary))
	for _, colName := range []string{
		"run_id", "unit_key", "ref", "path", "is_test", "issues", "has_coverage",
		"executable_lines", "covered_lines", "conditions", "covered_conditions",
		"duplicated_blocks", "duplicate_places",
	} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteRunsParquet(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	duration := int32(1500)
	params := `{"max_entry_bytes":67108864}`
	data := []Run{
		{RunID: 1, ArchivePath: "/tmp/a.zip", ArchiveDigest: "abc", StartTime: start, EndTime: &end, RunDurationMs: &duration, TotalUnits: 3, ConfigParams: &params},
		{RunID: 2, ArchivePath: "/tmp/b.zip", StartTime: start, DecodeErrors: 1},
	}
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	require.NoError(t, WriteRunsParquet(data, outputPath))

	rows := readAll[Run](t, outputPath)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].RunID)
	assert.Equal(t, "abc", rows[0].ArchiveDigest)
	require.NotNil(t, rows[0].EndTime)
	assert.WithinDuration(t, end, *rows[0].EndTime, time.Nanosecond)
	require.NotNil(t, rows[0].ConfigParams)
	assert.Equal(t, params, *rows[0].ConfigParams)
	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].RunDurationMs)
	assert.Nil(t, rows[1].ConfigParams)
	assert.Equal(t, int32(1), rows[1].DecodeErrors)
}

func TestWriteUnitSummaries(t *testing.T) {
	rows := ConvertUnitSummaries([]schema.UnitSummary{
		{Key: "1", Ref: 1, IsRoot: true},
		{Key: "2", Ref: 2, Path: "src/main.go", Issues: 2, HasCoverage: true, ExecutableLines: 4, CoveredLines: 3, DuplicatedBlocks: 1, DuplicatePlaces: 2},
	})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))
	assert.Positive(t, buf.Len())

	outputPath := filepath.Join(t.TempDir(), "units.parquet")
	require.NoError(t, WriteUnitSummariesParquet(rows, outputPath))
	back := readAll[UnitSummary](t, outputPath)
	require.Len(t, back, 2)
	assert.Equal(t, rows, back)
}

func TestWriteEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteRunsParquet([]Run{}, outputPath))
	assert.Empty(t, readAll[Run](t, outputPath))
}

func TestWriteInvalidPath(t *testing.T) {
	err := WriteUnitSummariesParquet(nil, filepath.Join(t.TempDir(), "missing", "units.parquet"))
	assert.Error(t, err)
}

func TestConvertRecords(t *testing.T) {
	start := time.Now()
	runs := ConvertRunRecords([]schema.RunRecord{{RunID: 7, ArchivePath: "a.zip", StartTime: start, TotalUnits: 5}})
	require.Len(t, runs, 1)
	assert.Equal(t, int64(7), runs[0].RunID)
	assert.Equal(t, int32(5), runs[0].TotalUnits)

	units := ConvertUnitSummaryRecords([]schema.UnitSummaryRecord{{RunID: 7, UnitKey: "2", Path: "a.go", Issues: 3}})
	require.Len(t, units, 1)
	assert.Equal(t, "a.go", units[0].Path)
	assert.Equal(t, int32(3), units[0].Issues)
}

package iocache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/scanreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTime() time.Time {
	return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
}

func TestExportHistory(t *testing.T) {
	store := newSQLiteHistoryStore(t)
	runID, err := store.BeginRun(testTime(), "/a.zip", "d", map[string]any{"k": "v"})
	require.NoError(t, err)
	require.NoError(t, store.RecordUnit(runID, sampleSummary("2")))
	require.NoError(t, store.EndRun(runID, testTime().Add(time.Second), 1, schema.ScanStats{}))

	prefix := filepath.Join(t.TempDir(), "history")
	var out bytes.Buffer
	require.NoError(t, ExportHistory(store, prefix, &out))

	runsFile, unitsFile := ExportPaths(prefix)
	for _, f := range []string{runsFile, unitsFile} {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.Contains(t, out.String(), "Exported 1 runs to: "+runsFile)
	assert.Contains(t, out.String(), "Exported 1 unit records to: "+unitsFile)
}

func TestExportHistoryErrors(t *testing.T) {
	var out bytes.Buffer

	assert.ErrorContains(t, ExportHistory(&MockHistoryStore{}, "", &out), "--output-file")
	assert.Error(t, ExportHistory(nil, "x", &out))

	empty := &MockHistoryStore{}
	empty.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite", Connected: true}, nil)
	assert.ErrorContains(t, ExportHistory(empty, "x", &out), "no history data")
	empty.AssertExpectations(t)

	failing := &MockHistoryStore{}
	failing.On("GetStatus").Return(schema.HistoryStatus{TotalRuns: 1}, nil)
	failing.On("GetAllRuns").Return(nil, errors.New("boom"))
	assert.ErrorContains(t, ExportHistory(failing, "x", &out), "boom")
	failing.AssertExpectations(t)
}

func TestPrintStatus(t *testing.T) {
	var out bytes.Buffer
	PrintCacheStatus(&out, schema.CacheStatus{Backend: "none"})
	assert.Contains(t, out.String(), "Cache Backend: none")
	assert.NotContains(t, out.String(), "Total Entries")

	out.Reset()
	PrintCacheStatus(&out, schema.CacheStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalEntries:    2,
		LastEntryTime:   testTime(),
		OldestEntryTime: testTime(),
		TableSizeBytes:  2048,
	})
	assert.Contains(t, out.String(), "Total Entries: 2")
	assert.Contains(t, out.String(), "Table Size: 2.0 KiB")

	out.Reset()
	PrintHistoryStatus(&out, schema.HistoryStatus{
		Backend:    "sqlite",
		Connected:  true,
		TotalRuns:  1,
		LastRunID:  7,
		TotalUnits: 1234,
		TableSizes: map[string]int64{unitSummariesTable: 1234, runsTable: 1},
	})
	s := out.String()
	assert.Contains(t, s, "Last Run ID: 7")
	assert.Contains(t, s, "Total Units Recorded: 1,234")
	assert.Less(t, bytes.Index(out.Bytes(), []byte(runsTable)), bytes.Index(out.Bytes(), []byte(unitSummariesTable)))
}

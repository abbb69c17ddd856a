package core

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/scanreport/internal/archive"
	"github.com/huangsam/scanreport/internal/reportpb"
	"github.com/huangsam/scanreport/schema"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReaderSample(t *testing.T) {
	report, stats, err := ParseReader(context.Background(), sampleReader(t), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, schema.ScanStats{Entries: 10, Decoded: 9, Unrecognized: 1, Orphans: 1}, stats)
	assert.Equal(t, map[string]int{"go": 2, "common-go": 1}, report.Rules)

	require.Len(t, report.Units, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{report.Units[0].Key, report.Units[1].Key, report.Units[2].Key})

	root := report.Units[0]
	assert.Equal(t, []int32{2, 3}, root.Component.ChildRefs)
	assert.Nil(t, root.Issues)
	assert.Nil(t, root.Coverages)
	assert.Nil(t, root.Duplications)

	source := report.Units[1]
	assert.Equal(t, "src/main.go", source.Component.ProjectRelativePath)
	require.Len(t, source.Issues, 2)
	assert.Equal(t, "S1186", source.Issues[0].RuleKey)
	require.Len(t, source.Issues[1].Flows, 1)
	assert.Len(t, source.Coverages, 4)
	require.Len(t, source.Duplications, 1)
	assert.Len(t, source.Duplications[0].Duplicates, 2)

	test := report.Units[2]
	assert.True(t, test.Component.IsTest)
	assert.NotNil(t, test.Coverages)
	assert.Empty(t, test.Coverages)
	assert.Nil(t, test.Issues)
}

func buildArchive(t *testing.T, entries map[string][]byte) *archive.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	r, err := archive.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return r
}

func TestParseReaderSkipsBadEntries(t *testing.T) {
	r := buildArchive(t, map[string][]byte{
		"component-1.pb": reportpb.MarshalComponent(schema.Component{Ref: 1, Key: "p"}),
		"component-2.pb": {0x1a, 0x05, 'a'}, // truncated string
		"issues-1.pb":    {0x05},            // length prefix past the end
		"readme.txt":     []byte("hello"),
	})

	report, stats, err := ParseReader(context.Background(), r, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Entries)
	assert.Equal(t, 1, stats.Decoded)
	assert.Equal(t, 2, stats.DecodeErrors)
	assert.Equal(t, 1, stats.Unrecognized)
	require.Len(t, report.Units, 1)
	assert.Nil(t, report.Units[0].Issues, "a malformed entry leaves no partial data")
}

func TestParseReaderEntryTooLarge(t *testing.T) {
	r := buildArchive(t, map[string][]byte{
		"component-1.pb": reportpb.MarshalComponent(schema.Component{Ref: 1, Key: "p", Name: "a long enough name"}),
	})
	opts := DefaultOptions()
	opts.MaxEntryBytes = 4

	report, stats, err := ParseReader(context.Background(), r, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ReadErrors)
	assert.Empty(t, report.Units)
}

func TestParseReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := ParseReader(ctx, sampleReader(t), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseReaderLogs(t *testing.T) {
	var logs bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, _, err := ParseReader(context.Background(), sampleReader(t), opts)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "skipping unrecognized entry")
	assert.Contains(t, logs.String(), "name=metadata.pb")
	assert.Contains(t, logs.String(), "archive decoded")
}

func TestParseArchive(t *testing.T) {
	report, stats, err := ParseArchive(context.Background(), writeSample(t), DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, report.Units, 3)
	assert.Equal(t, 1, stats.Orphans)
}

func TestParseArchiveOpenError(t *testing.T) {
	dir := t.TempDir()

	_, _, err := ParseArchive(context.Background(), filepath.Join(dir, "missing.zip"), DefaultOptions())
	require.Error(t, err)
	assert.True(t, IsOpenError(err))

	notZip := filepath.Join(dir, "not.zip")
	require.NoError(t, os.WriteFile(notZip, []byte("plain text"), 0o644))
	_, _, err = ParseArchive(context.Background(), notZip, DefaultOptions())
	require.Error(t, err)
	assert.True(t, IsOpenError(err))
}

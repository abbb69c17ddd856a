package core

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/huangsam/scanreport/internal/archive"
	"github.com/stretchr/testify/require"
)

// writeSample writes the demo archive into a temp dir and returns its path.
func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.zip")
	require.NoError(t, ExecuteSample(path))
	return path
}

// sampleReader opens the demo archive from memory.
func sampleReader(t *testing.T) *archive.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteSampleArchive(&buf))
	r, err := archive.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return r
}

package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type file struct {
	name string
	data string
}

func buildZip(t *testing.T, files ...file) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		fw, err := w.Create(f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newReader(t *testing.T, raw []byte) *Reader {
	t.Helper()
	r, err := NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	return r
}

func TestEntriesInOrder(t *testing.T) {
	raw := buildZip(t,
		file{"component-1.pb", "a"},
		file{"dir/", ""},
		file{"issues-1.pb", "bb"},
		file{"../evil.pb", "x"},
		file{"coverages-1.pb", ""},
	)
	r := newReader(t, raw)
	assert.Equal(t, 5, r.Len())

	var names []string
	var indexes []int
	for e := range r.Entries() {
		require.NoError(t, e.Err)
		names = append(names, e.Name)
		indexes = append(indexes, e.Index)
	}
	assert.Equal(t, []string{"component-1.pb", "issues-1.pb", "coverages-1.pb"}, names)
	assert.Equal(t, []int{0, 2, 4}, indexes)
}

func TestEntryData(t *testing.T) {
	r := newReader(t, buildZip(t, file{"issues-3.pb", "payload"}, file{"empty.pb", ""}))
	entries := slices.Collect(r.Entries())
	require.Len(t, entries, 2)
	assert.Equal(t, []byte("payload"), entries[0].Data)
	assert.Empty(t, entries[1].Data)
	assert.NoError(t, entries[1].Err)
}

func TestEntryTooLarge(t *testing.T) {
	r := newReader(t, buildZip(t, file{"big.pb", "0123456789"}, file{"small.pb", "01"}))
	r.MaxEntryBytes = 4
	entries := slices.Collect(r.Entries())
	require.Len(t, entries, 2)
	assert.ErrorIs(t, entries[0].Err, ErrEntryTooLarge)
	assert.Nil(t, entries[0].Data)
	assert.NoError(t, entries[1].Err)
}

func TestEntryLimitClamped(t *testing.T) {
	r := newReader(t, buildZip(t, file{"component-1.pb", "ab"}))
	r.MaxEntryBytes = 1 << 63
	entries := slices.Collect(r.Entries())
	require.Len(t, entries, 1)
	require.NoError(t, entries[0].Err)
	assert.Equal(t, []byte("ab"), entries[0].Data)
}

func TestEntriesEarlyStop(t *testing.T) {
	r := newReader(t, buildZip(t, file{"a.pb", "1"}, file{"b.pb", "2"}, file{"c.pb", "3"}))
	count := 0
	for range r.Entries() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestOpenFailure(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.zip"))
	assert.ErrorIs(t, err, ErrOpenArchive)

	_, err = NewReader(bytes.NewReader([]byte("not a zip")), 9)
	assert.ErrorIs(t, err, ErrOpenArchive)
}

func TestOpenFromDisk(t *testing.T) {
	p := filepath.Join(t.TempDir(), "report.zip")
	require.NoError(t, os.WriteFile(p, buildZip(t, file{"component-1.pb", "x"}), 0o600))
	r, err := Open(p)
	require.NoError(t, err)
	defer func() { require.NoError(t, r.Close()) }()
	entries := slices.Collect(r.Entries())
	require.Len(t, entries, 1)
	assert.Equal(t, "component-1.pb", entries[0].Name)
}

func TestSafeName(t *testing.T) {
	safe := []string{"component-1.pb", "a/b/c.pb", "a..b.pb", "x/..y"}
	unsafe := []string{"", "/etc/passwd", `\windows`, "C:evil", "a/../../b", "..", "a\x00b", `a\..\b`}
	for _, name := range safe {
		assert.True(t, SafeName(name), name)
	}
	for _, name := range unsafe {
		assert.False(t, SafeName(name), name)
	}
}

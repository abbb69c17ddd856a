package core

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/scanreport/internal/archive"
	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/internal/iocache"
	"github.com/huangsam/scanreport/schema"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleScan() *cachedScan {
	return &cachedScan{
		Report: schema.Report{
			Rules: map[string]int{"go": 2},
			Units: []schema.UnitReport{
				{Key: "1", Component: schema.Component{Ref: 1, Key: "p"}},
				{Key: "2", Component: schema.Component{Ref: 2}, Coverages: []schema.LineCoverage{}},
			},
		},
		Stats: schema.ScanStats{Entries: 3, Decoded: 3},
	}
}

func TestCachedScanRoundTrip(t *testing.T) {
	data, err := encodeCachedScan(sampleScan())
	require.NoError(t, err)

	got, err := decodeCachedScan(data)
	require.NoError(t, err)
	assert.Equal(t, sampleScan().Report.Rules, got.Report.Rules)
	assert.Equal(t, sampleScan().Stats, got.Stats)
	require.Len(t, got.Report.Units, 2)
	assert.Nil(t, got.Report.Units[0].Coverages)
	assert.NotNil(t, got.Report.Units[1].Coverages, "empty and absent lists stay distinct")

	_, err = decodeCachedScan([]byte("not zstd"))
	assert.Error(t, err)
}

func TestCheckCacheHit(t *testing.T) {
	data, err := encodeCachedScan(sampleScan())
	require.NoError(t, err)

	t.Run("hit", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "k").Return(data, currentCacheVersion, time.Now().Unix(), nil)
		got := checkCacheHit(store, "k")
		require.NotNil(t, got)
		assert.Equal(t, 2, got.Report.Rules["go"])
		store.AssertExpectations(t)
	})

	t.Run("version mismatch", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "k").Return(data, currentCacheVersion+1, time.Now().Unix(), nil)
		assert.Nil(t, checkCacheHit(store, "k"))
	})

	t.Run("stale", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "k").Return(data, currentCacheVersion, time.Now().Add(-8*24*time.Hour).Unix(), nil)
		assert.Nil(t, checkCacheHit(store, "k"))
	})

	t.Run("store error", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "k").Return(nil, 0, int64(0), errors.New("no rows"))
		assert.Nil(t, checkCacheHit(store, "k"))
	})

	t.Run("corrupt value", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "k").Return([]byte{0x00}, currentCacheVersion, time.Now().Unix(), nil)
		assert.Nil(t, checkCacheHit(store, "k"))
	})
}

func TestGenerateCacheKey(t *testing.T) {
	cfg := &contract.Config{MaxEntryBytes: 100, MaxFrameBytes: 10}
	assert.Equal(t, "abc:entry=100:frame=10", generateCacheKey("abc", cfg))

	other := &contract.Config{MaxEntryBytes: 100, MaxFrameBytes: 20}
	assert.NotEqual(t, generateCacheKey("abc", cfg), generateCacheKey("abc", other))
}

func TestDigestFile(t *testing.T) {
	path := writeSample(t)
	d1, err := DigestFile(path)
	require.NoError(t, err)
	assert.Len(t, d1, 64)

	d2, err := DigestFile(path)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	_, err = DigestFile(path + ".missing")
	assert.ErrorIs(t, err, archive.ErrOpenArchive)
}

func TestLoadReportWithoutStore(t *testing.T) {
	cfg := &contract.Config{ArchivePath: writeSample(t)}

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetReportStore").Return(nil)

	result, err := LoadReport(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.False(t, result.CacheHit)
	assert.Len(t, result.Report.Units, 3)
	assert.Equal(t, cfg.ArchivePath, result.Archive)
	assert.NotEmpty(t, result.Digest)
	mgr.AssertExpectations(t)

	// A nil manager behaves the same
	result, err = LoadReport(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, result.Report.Units, 3)
}

func TestLoadReportMissThenStore(t *testing.T) {
	cfg := &contract.Config{ArchivePath: writeSample(t)}
	digest, err := DigestFile(cfg.ArchivePath)
	require.NoError(t, err)
	key := generateCacheKey(digest, cfg)

	store := &iocache.MockCacheStore{}
	store.On("Get", key).Return(nil, 0, int64(0), errors.New("no rows"))
	store.On("Set", key, mock.AnythingOfType("[]uint8"), currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetReportStore").Return(store)

	result, err := LoadReport(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.False(t, result.CacheHit)
	assert.Len(t, result.Report.Units, 3)
	store.AssertExpectations(t)
}

func TestLoadReportHit(t *testing.T) {
	cfg := &contract.Config{ArchivePath: writeSample(t)}
	digest, err := DigestFile(cfg.ArchivePath)
	require.NoError(t, err)
	data, err := encodeCachedScan(sampleScan())
	require.NoError(t, err)

	store := &iocache.MockCacheStore{}
	store.On("Get", generateCacheKey(digest, cfg)).Return(data, currentCacheVersion, time.Now().Unix(), nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetReportStore").Return(store)

	result, err := LoadReport(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.True(t, result.CacheHit)
	assert.Len(t, result.Report.Units, 2, "served from the cached value")
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadReportSQLiteStore(t *testing.T) {
	cfg := &contract.Config{ArchivePath: writeSample(t)}
	store, err := iocache.NewCacheStore("scanreport_cache", schema.SQLiteBackend, t.TempDir()+"/cache.db")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetReportStore").Return(store)

	first, err := LoadReport(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := LoadReport(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Report, second.Report)
	assert.Equal(t, first.Stats, second.Stats)
}

func TestLoadReportMissingArchive(t *testing.T) {
	cfg := &contract.Config{ArchivePath: t.TempDir() + "/missing.zip"}
	_, err := LoadReport(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, archive.ErrOpenArchive)
	assert.True(t, IsOpenError(err))
	assert.NotContains(t, err.Error(), "digest")
}

func TestLoadReportNotZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.zip")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))
	_, err := LoadReport(context.Background(), &contract.Config{ArchivePath: path}, nil)
	assert.True(t, IsOpenError(err))
}

func TestSourceDecodesDigestedBytes(t *testing.T) {
	path := writeSample(t)
	src, err := openSource(path)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	// Swap an empty archive in under the same name after digesting.
	var buf bytes.Buffer
	require.NoError(t, zip.NewWriter(&buf).Close())
	replacement := filepath.Join(filepath.Dir(path), "replacement.zip")
	require.NoError(t, os.WriteFile(replacement, buf.Bytes(), 0o644))
	require.NoError(t, os.Rename(replacement, path))

	report, _, err := src.parse(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, report.Units, 3, "decodes the bytes that were digested")

	current, err := DigestFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, src.digest, current)
}

package core

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/huangsam/scanreport/internal/archive"
	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/schema"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheMaxAge bounds how long a cached report stays valid.
const cacheMaxAge = 7 * 24 * time.Hour

// cachedScan is the value stored per archive digest.
type cachedScan struct {
	Report schema.Report    `cbor:"1,keyasint"`
	Stats  schema.ScanStats `cbor:"2,keyasint"`
}

// LoadReport decodes the configured archive, using the report cache when
// the manager has one. The archive is opened once, so the digest always
// names the bytes that were decoded.
func LoadReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ScanResult, error) {
	result := schema.ScanResult{Archive: cfg.ArchivePath}

	src, err := openSource(cfg.ArchivePath)
	if err != nil {
		return result, err
	}
	defer func() { _ = src.Close() }()
	result.Digest = src.digest

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetReportStore()
	}
	if store == nil {
		// Fallback to direct computation
		result.Report, result.Stats, err = src.parse(ctx, optionsFromContext(ctx, cfg))
		return result, err
	}

	key := generateCacheKey(src.digest, cfg)
	if hit := checkCacheHit(store, key); hit != nil {
		loggerFromContext(ctx).Debug("report cache hit", "archive", cfg.ArchivePath, "digest", src.digest)
		result.Report, result.Stats, result.CacheHit = hit.Report, hit.Stats, true
		return result, nil
	}

	result.Report, result.Stats, err = computeAndStore(ctx, cfg, src, store, key)
	return result, err
}

// source is an archive file held open between digesting and decoding.
type source struct {
	f      *os.File
	size   int64
	digest string
}

// openSource opens path and digests its bytes. Failures wrap
// archive.ErrOpenArchive.
func openSource(path string) (*source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", archive.ErrOpenArchive, path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w %s: %w", archive.ErrOpenArchive, path, err)
	}
	digest, err := digestReaderAt(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w %s: %w", archive.ErrOpenArchive, path, err)
	}
	return &source{f: f, size: info.Size(), digest: digest}, nil
}

// parse decodes the first size bytes of the open file, the same bytes
// that were digested.
func (s *source) parse(ctx context.Context, opts Options) (schema.Report, schema.ScanStats, error) {
	r, err := archive.NewReader(s.f, s.size)
	if err != nil {
		return schema.Report{}, schema.ScanStats{}, err
	}
	return ParseReader(ctx, r, opts)
}

func (s *source) Close() error {
	return s.f.Close()
}

// DigestFile returns the BLAKE3 hex digest of a file's bytes.
func DigestFile(path string) (string, error) {
	src, err := openSource(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()
	return src.digest, nil
}

func digestReaderAt(r io.ReaderAt, size int64) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, io.NewSectionReader(r, 0, size)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string) *cachedScan {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheMaxAge {
		return nil // Cache miss (stale or version mismatch)
	}
	scan, err := decodeCachedScan(data)
	if err != nil {
		return nil
	}
	return scan
}

// computeAndStore decodes the archive and stores the result in cache
func computeAndStore(ctx context.Context, cfg *contract.Config, src *source, store contract.CacheStore, key string) (schema.Report, schema.ScanStats, error) {
	report, stats, err := src.parse(ctx, optionsFromContext(ctx, cfg))
	if err != nil {
		return report, stats, err
	}
	if data, err := encodeCachedScan(&cachedScan{Report: report, Stats: stats}); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Cannot store report in cache", err)
		}
	}
	return report, stats, nil
}

// generateCacheKey combines the archive digest with the decoding limits.
func generateCacheKey(digest string, cfg *contract.Config) string {
	return fmt.Sprintf("%s:%s", digest, cfg.CacheKeyParams())
}

func encodeCachedScan(scan *cachedScan) ([]byte, error) {
	raw, err := cbor.Marshal(scan)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll(raw, nil), nil
}

func decodeCachedScan(data []byte) (*cachedScan, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}
	var scan cachedScan
	if err := cbor.Unmarshal(raw, &scan); err != nil {
		return nil, err
	}
	return &scan, nil
}

package core

import (
	"context"
	"errors"
	"log/slog"

	"github.com/huangsam/scanreport/internal/aggregate"
	"github.com/huangsam/scanreport/internal/archive"
	"github.com/huangsam/scanreport/internal/classify"
	"github.com/huangsam/scanreport/internal/wire"
	"github.com/huangsam/scanreport/schema"
)

// Options controls how an archive is decoded.
type Options struct {
	Limits        wire.Limits
	MaxEntryBytes uint64
	Logger        *slog.Logger
}

// DefaultOptions returns the limits used when nothing is configured.
func DefaultOptions() Options {
	return Options{Limits: wire.DefaultLimits(), MaxEntryBytes: archive.DefaultMaxEntryBytes}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// ParseArchive opens the archive at path and decodes it into a report.
// Only a container that cannot be opened is an error; bad entries are
// skipped and counted in the returned stats.
func ParseArchive(ctx context.Context, path string, opts Options) (schema.Report, schema.ScanStats, error) {
	r, err := archive.Open(path)
	if err != nil {
		return schema.Report{}, schema.ScanStats{}, err
	}
	defer func() { _ = r.Close() }()
	return ParseReader(ctx, r, opts)
}

// ParseReader decodes every entry of an opened archive.
func ParseReader(ctx context.Context, r *archive.Reader, opts Options) (schema.Report, schema.ScanStats, error) {
	log := opts.logger()
	if opts.MaxEntryBytes > 0 {
		r.MaxEntryBytes = opts.MaxEntryBytes
	}

	var stats schema.ScanStats
	agg := aggregate.New(opts.Limits)
	for entry := range r.Entries() {
		if err := ctx.Err(); err != nil {
			return schema.Report{}, stats, err
		}
		stats.Entries++
		if entry.Err != nil {
			stats.ReadErrors++
			log.Debug("skipping unreadable entry", "name", entry.Name, "index", entry.Index, "error", entry.Err)
			continue
		}
		m, ok := classify.Classify(entry.Name)
		if !ok {
			stats.Unrecognized++
			log.Debug("skipping unrecognized entry", "name", entry.Name)
			continue
		}
		if err := agg.Apply(m, entry.Data); err != nil {
			stats.DecodeErrors++
			log.Debug("dropping malformed entry", "name", entry.Name, "kind", m.Kind.String(), "key", m.Key, "error", err)
			continue
		}
		stats.Decoded++
	}

	stats.Orphans = agg.Orphans()
	if stats.Orphans > 0 {
		log.Debug("dropping orphan entries", "count", stats.Orphans)
	}
	report := agg.Assemble()
	log.Info("archive decoded",
		"units", len(report.Units),
		"entries", stats.Entries,
		"decode_errors", stats.DecodeErrors,
		"read_errors", stats.ReadErrors)
	return report, stats, nil
}

// IsOpenError reports whether err came from opening the container.
func IsOpenError(err error) bool {
	return errors.Is(err, archive.ErrOpenArchive)
}

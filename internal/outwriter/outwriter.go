// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints one row per unit using the configured output format.
func (ow *OutWriter) WriteReport(result schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	return WriteReportResults(result, cfg, duration)
}

// WriteRules prints the active rule histogram using the configured output format.
func (ow *OutWriter) WriteRules(result schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	return WriteRuleResults(result, cfg, duration)
}

// LogReportHeader prints the archive being read and the decoding limits.
func LogReportHeader(cfg *contract.Config) {
	name := filepath.Base(cfg.ArchivePath)
	_, _ = fmt.Fprintf(os.Stderr, "🔎 Archive: %s (max entry %s, max frame %s)\n",
		name, humanize.IBytes(cfg.ArchiveLimit()), humanize.IBytes(cfg.Limits().MaxFrameBytes))
}

// FilterSummaries applies the output-only filters: tests, path prefix and limit.
// The assembled report itself is never filtered.
func FilterSummaries(summaries []schema.UnitSummary, cfg *contract.Config) []schema.UnitSummary {
	out := make([]schema.UnitSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.IsTest && !cfg.IncludeTests {
			continue
		}
		if !contract.MatchesFilter(s.Path, cfg.PathFilter) {
			continue
		}
		out = append(out, s)
		if cfg.ResultLimit > 0 && len(out) == cfg.ResultLimit {
			break
		}
	}
	return out
}

// BuildReportView computes the filtered, enriched view shared by JSON output and MCP tools.
func BuildReportView(result schema.ScanResult, cfg *contract.Config) schema.ReportView {
	summaries := FilterSummaries(schema.SummarizeUnits(result.Report.Units), cfg)
	stats := result.Stats
	return schema.ReportView{
		Archive: result.Archive,
		Rules:   result.Report.Rules,
		Units:   schema.EnrichUnits(summaries),
		Stats:   &stats,
	}
}

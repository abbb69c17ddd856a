// Package core has core logic for decoding, caching and recording scanner reports.
package core

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/internal/outwriter"
	"github.com/huangsam/scanreport/schema"
)

// ExecutorFunc defines the function signature for executing different report views.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteReport decodes the archive and prints one row per unit.
// It serves as the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		outwriter.LogReportHeader(cfg)
	}
	result, err := LoadReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	summaries := schema.SummarizeUnits(result.Report.Units)
	recordRun(cfg, mgr, result, summaries, start)
	return outwriter.NewOutWriter().WriteReport(result, cfg, time.Since(start))
}

// ExecuteRules decodes the archive and prints the active rule histogram.
// It serves as the main entry point for the 'rules' command.
func ExecuteRules(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		outwriter.LogReportHeader(cfg)
	}
	result, err := LoadReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRules(result, cfg, time.Since(start))
}

// FindUnit returns the unit with the given join key.
func FindUnit(report schema.Report, key string) (schema.UnitReport, bool) {
	i, found := slices.BinarySearchFunc(report.Units, key, func(u schema.UnitReport, k string) int {
		return strings.Compare(u.Key, k)
	})
	if !found {
		return schema.UnitReport{}, false
	}
	return report.Units[i], true
}

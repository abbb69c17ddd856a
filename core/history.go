package core

import (
	"fmt"
	"time"

	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/schema"
)

// recordRun stores one run and its unit summaries in the history store.
// Tracking failures are logged and never fail the command.
func recordRun(cfg *contract.Config, mgr contract.CacheManager, result schema.ScanResult, summaries []schema.UnitSummary, start time.Time) {
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}

	configParams := map[string]any{
		"max_entry_bytes": cfg.MaxEntryBytes,
		"max_frame_bytes": cfg.MaxFrameBytes,
		"cache_hit":       result.CacheHit,
		"stats":           result.Stats,
	}
	runID, err := store.BeginRun(start, result.Archive, result.Digest, configParams)
	if err != nil {
		contract.LogWarn("History tracking initialization failed", err)
		return
	}
	for _, s := range summaries {
		if err := store.RecordUnit(runID, s); err != nil {
			logTrackingError("RecordUnit", s.Key, err)
		}
	}
	if err := store.EndRun(runID, time.Now(), len(summaries), result.Stats); err != nil {
		contract.LogWarn("Failed to finalize history tracking", err)
	}
}

// logTrackingError logs database tracking errors to stderr without disrupting the run.
func logTrackingError(operation, key string, err error) {
	contract.LogWarn(fmt.Sprintf("History tracking failed for %s on unit %s", operation, key), err)
}

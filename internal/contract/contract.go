// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/scanreport/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetReportStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking report runs and their unit summaries.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, archivePath, archiveDigest string, configParams map[string]any) (int64, error)

	// RecordUnit stores the summary of one unit for a run
	RecordUnit(runID int64, summary schema.UnitSummary) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalUnits int, stats schema.ScanStats) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllUnitSummaries returns every recorded unit summary
	GetAllUnitSummaries() ([]schema.UnitSummaryRecord, error)

	// Close closes the underlying connection
	Close() error
}

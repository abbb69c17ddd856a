// Package parquet provides data structures and functions for exporting scanreport
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/scanreport/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single report run with metadata.
// This struct maps to the scanreport_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// ArchivePath is the absolute path of the decoded archive
	ArchivePath string `parquet:"archive_path,snappy"`

	// ArchiveDigest is the BLAKE3 hex digest of the archive bytes
	ArchiveDigest string `parquet:"archive_digest,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalUnits is the number of units in the assembled report
	TotalUnits int32 `parquet:"total_units,snappy"`

	// DecodeErrors is the number of entries dropped as malformed
	DecodeErrors int32 `parquet:"decode_errors,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// UnitSummary represents the counters of one unit.
// This struct maps to the scanreport_unit_summaries database table; RunID is
// zero when rows come straight from a report rather than from history.
type UnitSummary struct {
	RunID             int64  `parquet:"run_id,snappy"`
	UnitKey           string `parquet:"unit_key,snappy"`
	Ref               int32  `parquet:"ref,snappy"`
	Path              string `parquet:"path,snappy"`
	IsTest            bool   `parquet:"is_test"`
	Issues            int32  `parquet:"issues,snappy"`
	HasCoverage       bool   `parquet:"has_coverage"`
	ExecutableLines   int32  `parquet:"executable_lines,snappy"`
	CoveredLines      int32  `parquet:"covered_lines,snappy"`
	Conditions        int32  `parquet:"conditions,snappy"`
	CoveredConditions int32  `parquet:"covered_conditions,snappy"`
	DuplicatedBlocks  int32  `parquet:"duplicated_blocks,snappy"`
	DuplicatePlaces   int32  `parquet:"duplicate_places,snappy"`
}

// Write writes rows to w using struct schema inference.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return writer.Close()
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteUnitSummariesParquet writes a slice of UnitSummary structs to a Parquet file.
func WriteUnitSummariesParquet(data []UnitSummary, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			ArchivePath:   record.ArchivePath,
			ArchiveDigest: record.ArchiveDigest,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalUnits:    record.TotalUnits,
			DecodeErrors:  record.DecodeErrors,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertUnitSummaryRecords converts schema.UnitSummaryRecord to UnitSummary for Parquet export.
func ConvertUnitSummaryRecords(records []schema.UnitSummaryRecord) []UnitSummary {
	result := make([]UnitSummary, len(records))
	for i, r := range records {
		result[i] = UnitSummary{
			RunID:             r.RunID,
			UnitKey:           r.UnitKey,
			Ref:               r.Ref,
			Path:              r.Path,
			IsTest:            r.IsTest,
			Issues:            r.Issues,
			HasCoverage:       r.HasCoverage,
			ExecutableLines:   r.ExecutableLines,
			CoveredLines:      r.CoveredLines,
			Conditions:        r.Conditions,
			CoveredConditions: r.CoveredConditions,
			DuplicatedBlocks:  r.DuplicatedBlocks,
			DuplicatePlaces:   r.DuplicatePlaces,
		}
	}
	return result
}

// ConvertUnitSummaries converts report summaries into rows without a run.
func ConvertUnitSummaries(summaries []schema.UnitSummary) []UnitSummary {
	result := make([]UnitSummary, len(summaries))
	for i, s := range summaries {
		result[i] = UnitSummary{
			UnitKey:           s.Key,
			Ref:               s.Ref,
			Path:              s.Path,
			IsTest:            s.IsTest,
			Issues:            int32(s.Issues),
			HasCoverage:       s.HasCoverage,
			ExecutableLines:   int32(s.ExecutableLines),
			CoveredLines:      int32(s.CoveredLines),
			Conditions:        int32(s.Conditions),
			CoveredConditions: int32(s.CoveredConditions),
			DuplicatedBlocks:  int32(s.DuplicatedBlocks),
			DuplicatePlaces:   int32(s.DuplicatePlaces),
		}
	}
	return result
}

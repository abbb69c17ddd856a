package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/internal/parquet"
)

// ExportPaths returns the Parquet files written for an export prefix.
func ExportPaths(outputFile string) (runsFile, unitsFile string) {
	return outputFile + ".runs.parquet", outputFile + ".units.parquet"
}

// ExportHistory writes every recorded run and unit summary to Parquet files
// derived from outputFile. Progress is reported on w.
func ExportHistory(store contract.HistoryStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total unit records: %d\n", status.TableSizes[unitSummariesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	units, err := store.GetAllUnitSummaries()
	if err != nil {
		return fmt.Errorf("failed to retrieve unit summaries: %w", err)
	}

	runsFile, unitsFile := ExportPaths(outputFile)

	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	parquetUnits := parquet.ConvertUnitSummaryRecords(units)
	if err := parquet.WriteUnitSummariesParquet(parquetUnits, unitsFile); err != nil {
		return fmt.Errorf("failed to write unit summaries: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d unit records to: %s\n", len(parquetUnits), unitsFile)

	return nil
}

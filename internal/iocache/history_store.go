package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/schema"
)

// Table names for history tracking.
const (
	runsTable          = "scanreport_runs"
	unitSummariesTable = "scanreport_unit_summaries"
)

// unitSummaryColumns lists the unit summary columns in insert/select order.
var unitSummaryColumns = []string{
	"run_id", "unit_key", "ref", "path", "is_test", "issues", "has_coverage",
	"executable_lines", "covered_lines", "conditions", "covered_conditions",
	"duplicated_blocks", "duplicate_places",
}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history store: %w", err)
	}

	if err := ensureHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// placeholders returns n comma-separated bind parameters.
func (hs *HistoryStoreImpl) placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = placeholder(hs.backend, i+1)
	}
	return strings.Join(ps, ", ")
}

// BeginRun creates a new run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, archivePath, archiveDigest string, configParams map[string]any) (int64, error) {
	if hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (archive_path, archive_digest, start_time, config_params) VALUES (%s)`,
		quoteTableName(runsTable, hs.backend), hs.placeholders(4))
	args := []any{archivePath, archiveDigest, formatTime(startTime, hs.backend), string(configJSON)}

	var runID int64
	if hs.backend == schema.PostgreSQLBackend {
		err = hs.db.QueryRow(query+" RETURNING run_id", args...).Scan(&runID)
	} else {
		var res sql.Result
		res, err = hs.db.Exec(query, args...)
		if err == nil {
			runID, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// RecordUnit stores the summary of one unit for a run.
func (hs *HistoryStoreImpl) RecordUnit(runID int64, s schema.UnitSummary) error {
	if hs.db == nil {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteTableName(unitSummariesTable, hs.backend),
		strings.Join(unitSummaryColumns, ", "),
		hs.placeholders(len(unitSummaryColumns)))
	_, err := hs.db.Exec(query,
		runID, s.Key, s.Ref, s.Path, s.IsTest, s.Issues, s.HasCoverage,
		s.ExecutableLines, s.CoveredLines, s.Conditions, s.CoveredConditions,
		s.DuplicatedBlocks, s.DuplicatePlaces,
	)
	if err != nil {
		return fmt.Errorf("failed to insert unit summary: %w", err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalUnits int, stats schema.ScanStats) error {
	if hs.db == nil {
		return nil
	}

	quoted := quoteTableName(runsTable, hs.backend)
	row := hs.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quoted, placeholder(hs.backend, 1)), runID)
	startTime, err := hs.scanTime(row)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_units = %s, decode_errors = %s WHERE run_id = %s`,
		quoted,
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3),
		placeholder(hs.backend, 4), placeholder(hs.backend, 5))
	if _, err := hs.db.Exec(query, formatTime(endTime, hs.backend), durationMs, totalUnits, stats.DecodeErrors, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.db == nil {
		return status, nil
	}

	quoted := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastID int64
		var lastStart any
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoted))
		if err := row.Scan(&lastID, &lastStart); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastTime, err := hs.parseTime(lastStart)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunID = lastID
		status.LastRunTime = lastTime

		row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quoted))
		oldest, err := hs.scanTime(row)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest

		row = hs.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_units), 0) FROM %s", quoted))
		if err := row.Scan(&status.TotalUnits); err != nil {
			return status, fmt.Errorf("failed to get total units: %w", err)
		}
	}

	for _, table := range []string{runsTable, unitSummariesTable} {
		var count int64
		row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs from the store, oldest first.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, archive_path, archive_digest, start_time, end_time, run_duration_ms,
		total_units, decode_errors, config_params FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var start, end any
		if err := rows.Scan(&record.RunID, &record.ArchivePath, &record.ArchiveDigest, &start, &end,
			&record.RunDurationMs, &record.TotalUnits, &record.DecodeErrors, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if record.StartTime, err = hs.parseTime(start); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if end != nil {
			endTime, err := hs.parseTime(end)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllUnitSummaries retrieves all unit summaries from the store.
func (hs *HistoryStoreImpl) GetAllUnitSummaries() ([]schema.UnitSummaryRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY run_id, unit_key`,
		strings.Join(unitSummaryColumns, ", "), quoteTableName(unitSummariesTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.UnitSummaryRecord
	for rows.Next() {
		var r schema.UnitSummaryRecord
		if err := rows.Scan(&r.RunID, &r.UnitKey, &r.Ref, &r.Path, &r.IsTest, &r.Issues, &r.HasCoverage,
			&r.ExecutableLines, &r.CoveredLines, &r.Conditions, &r.CoveredConditions,
			&r.DuplicatedBlocks, &r.DuplicatePlaces); err != nil {
			return nil, fmt.Errorf("failed to scan unit summary: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit summaries: %w", err)
	}
	return results, nil
}

// scanTime reads a single time column from a row.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	var v any
	if err := row.Scan(&v); err != nil {
		return time.Time{}, err
	}
	return hs.parseTime(v)
}

// parseTime normalizes the backend's time representation. SQLite keeps
// RFC 3339 text while MySQL and PostgreSQL return native datetimes.
func (hs *HistoryStoreImpl) parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		if hs.backend == schema.MySQLBackend {
			return time.Parse("2006-01-02 15:04:05.999999", string(t))
		}
		return time.Parse(time.RFC3339Nano, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", v)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.Format(time.RFC3339Nano)
	}
	return t
}

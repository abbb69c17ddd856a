package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/internal/parquet"
	"github.com/huangsam/scanreport/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteReportResults outputs the unit summaries, dispatching based on the output format configured.
func WriteReportResults(result schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	all := schema.SummarizeUnits(result.Report.Units)
	summaries := FilterSummaries(all, cfg)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, BuildReportView(result, cfg))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, summaries)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertUnitSummaries(summaries))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(result, summaries, len(all), cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeReportTable generates and writes the human-readable report.
func writeReportTable(result schema.ScanResult, summaries []schema.UnitSummary, totalUnits int, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "--- Report: %s ---\n", result.Archive); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Units: %d\n", totalUnits); err != nil {
		return err
	}
	if len(result.Report.Rules) > 0 {
		if _, err := fmt.Fprintln(writer, "Active rules:"); err != nil {
			return err
		}
		for _, repo := range sortedRepositories(result.Report.Rules) {
			if _, err := fmt.Fprintf(writer, "  %s: %d\n", repo, result.Report.Rules[repo]); err != nil {
				return err
			}
		}
	}

	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Ref", "Path", "Issues", "Lines", "Label", "Duplications"}
	if cfg.Detail {
		headers = append(headers, "Conditions", "Test", "Key")
	}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	pathWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for i, s := range summaries {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(int(s.Ref)),
			contract.TruncatePath(formatPath(s), pathWidth),
			strconv.Itoa(s.Issues),
			formatLines(s),
			formatLabel(s, cfg.UseColors),
			formatDuplications(s),
		}
		if cfg.Detail {
			row = append(row, formatConditions(s), yesNo(s.IsTest), s.ComponentKey)
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalIssues := 0
	for _, s := range summaries {
		totalIssues += s.Issues
	}
	if _, err := fmt.Fprintf(writer, "Showing %d of %d units (issues: %d)\n", len(summaries), totalUnits, totalIssues); err != nil {
		return err
	}
	st := result.Stats
	if _, err := fmt.Fprintf(writer, "Entries: %d decoded, %d unrecognized, %d unreadable, %d malformed, %d orphaned\n",
		st.Decoded, st.Unrecognized, st.ReadErrors, st.DecodeErrors, st.Orphans); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Report read in %v. Cache backend: %s (hit: %t)\n", duration, cfg.CacheBackend, result.CacheHit); err != nil {
		return err
	}
	return nil
}

// writeReportCSV writes one row per unit summary.
func writeReportCSV(w io.Writer, summaries []schema.UnitSummary) error {
	header := []string{
		"rank",
		"key",
		"ref",
		"path",
		"component_key",
		"is_root",
		"is_test",
		"issues",
		"has_coverage",
		"executable_lines",
		"covered_lines",
		"conditions",
		"covered_conditions",
		"coverage_label",
		"has_duplications",
		"duplicated_blocks",
		"duplicate_places",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, s := range summaries {
			rec := []string{
				strconv.Itoa(i + 1),
				s.Key,
				strconv.Itoa(int(s.Ref)),
				s.Path,
				s.ComponentKey,
				strconv.FormatBool(s.IsRoot),
				strconv.FormatBool(s.IsTest),
				strconv.Itoa(s.Issues),
				strconv.FormatBool(s.HasCoverage),
				strconv.Itoa(s.ExecutableLines),
				strconv.Itoa(s.CoveredLines),
				strconv.Itoa(s.Conditions),
				strconv.Itoa(s.CoveredConditions),
				schema.GetCoverageLabel(s),
				strconv.FormatBool(s.HasDuplications),
				strconv.Itoa(s.DuplicatedBlocks),
				strconv.Itoa(s.DuplicatePlaces),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

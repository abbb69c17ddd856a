package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// RuleCount is one row of the rule histogram.
type RuleCount struct {
	Repository string `json:"repository"`
	Count      int    `json:"count"`
}

// RuleCounts returns the histogram in repository order.
func RuleCounts(rules map[string]int) []RuleCount {
	out := make([]RuleCount, 0, len(rules))
	for _, repo := range sortedRepositories(rules) {
		out = append(out, RuleCount{Repository: repo, Count: rules[repo]})
	}
	return out
}

// WriteRuleResults outputs the rule histogram, dispatching based on the output format configured.
func WriteRuleResults(result schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	counts := RuleCounts(result.Report.Rules)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, counts)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"repository", "count"}, func(cw *csv.Writer) error {
				for _, c := range counts {
					if err := cw.Write([]string{c.Repository, strconv.Itoa(c.Count)}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not available for rules")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRulesTable(counts, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeRulesTable writes the histogram as a table with a total row.
func writeRulesTable(counts []RuleCount, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Repository", "Active Rules"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	total := 0
	var data [][]string
	for _, c := range counts {
		total += c.Count
		data = append(data, []string{c.Repository, strconv.Itoa(c.Count)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "%d active rules in %d repositories (read in %v)\n", total, len(counts), duration)
	return err
}

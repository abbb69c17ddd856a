package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	return writeRows(csvWriter)
}

// sortedRepositories returns the rule repositories in name order.
func sortedRepositories(rules map[string]int) []string {
	return slices.Sorted(maps.Keys(rules))
}

// formatLines shows covered/executable lines, or "-" when no coverage entry exists.
func formatLines(s schema.UnitSummary) string {
	if !s.HasCoverage {
		return "-"
	}
	return fmt.Sprintf("%d/%d", s.CoveredLines, s.ExecutableLines)
}

// formatConditions shows covered/total conditions, or "-" when no coverage entry exists.
func formatConditions(s schema.UnitSummary) string {
	if !s.HasCoverage {
		return "-"
	}
	return fmt.Sprintf("%d/%d", s.CoveredConditions, s.Conditions)
}

// formatDuplications shows "N in M places", or "-" when there is nothing duplicated.
func formatDuplications(s schema.UnitSummary) string {
	if s.DuplicatedBlocks == 0 {
		return "-"
	}
	return fmt.Sprintf("%d in %d places", s.DuplicatedBlocks, s.DuplicatePlaces)
}

// formatPath returns the unit path, or the component key for the project root.
func formatPath(s schema.UnitSummary) string {
	if s.Path == "" {
		return "<root> " + s.ComponentKey
	}
	return s.Path
}

// formatLabel colors the coverage label when colors are enabled.
func formatLabel(s schema.UnitSummary, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(s)
	}
	return schema.GetCoverageLabel(s)
}

// yesNo renders a boolean as a short word.
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package cmd

import (
	"github.com/huangsam/scanreport/core"
	"github.com/huangsam/scanreport/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd prints one row per unit of a report archive.
var reportCmd = &cobra.Command{
	Use:   "report <archive>",
	Short: "Show every unit of a report archive with its issues, coverage and duplications.",
	Long: `Decode a scanner report archive and print one row per unit.

Each unit joins a component with the issues, line coverage and duplications
written under the same key. The summary helps you:
- See which files carry the most issues
- Spot files without any coverage data
- Find duplicated blocks and how many places they repeat in

Malformed or unreadable entries are skipped and counted in the footer.

Examples:
  # Read a report archive
  scanreport report scanner-report.zip

  # Only files below src/, including tests, with extra columns
  scanreport report scanner-report.zip --filter src/ --tests --detail

  # Export to JSON or Parquet
  scanreport report scanner-report.zip --output json --output-file report.json
  scanreport report scanner-report.zip --output parquet --output-file units.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal(failureSubject("report", err), err)
		}
	},
}

// rulesCmd prints the active rule histogram.
var rulesCmd = &cobra.Command{
	Use:   "rules <archive>",
	Short: "Count active rules per rule repository.",
	Long: `Decode a scanner report archive and count the active rules of each rule repository.

Examples:
  scanreport rules scanner-report.zip
  scanreport rules scanner-report.zip --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRules(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal(failureSubject("rules", err), err)
		}
	},
}

// failureSubject names what failed: the archive itself or its decoded content.
func failureSubject(what string, err error) string {
	if core.IsOpenError(err) {
		return "Cannot open archive"
	}
	return "Cannot read " + what
}

package cmd

import (
	"fmt"

	"github.com/huangsam/scanreport/core"
	"github.com/huangsam/scanreport/internal/contract"
	"github.com/spf13/cobra"
)

// defaultSamplePath is where the sample command writes when no path is given.
const defaultSamplePath = "sample-report.zip"

// sampleCmd writes a small demo archive.
var sampleCmd = &cobra.Command{
	Use:   "sample [path]",
	Short: "Write a small demo report archive.",
	Long: `Write a demo archive with a project root, a source file, a test file and
an active rule list. Useful for trying the other commands.

Examples:
  scanreport sample
  scanreport report sample-report.zip --tests`,
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		path := defaultSamplePath
		if len(args) == 1 {
			path = args[0]
		}
		if err := core.ExecuteSample(path); err != nil {
			contract.LogFatal("Cannot write sample archive", err)
		}
		fmt.Printf("Sample archive written to %s\n", path)
	},
}

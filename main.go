// main is the entry point for the scanreport CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/scanreport/cmd"
	"github.com/huangsam/scanreport/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Failed to stop profiling:", stopErr)
	}
	iocache.CloseStores()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

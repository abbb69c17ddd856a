package outwriter

import (
	"os"

	"github.com/huangsam/scanreport/internal/contract"
	"golang.org/x/term"
)

// GetMaxTablePathWidth calculates the maximum width for unit paths in table output
// based on terminal width and table configuration.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 50 // Rank + Ref + Issues + Lines + Label + Duplications with borders/padding

	// Add detail columns with formatting
	if cfg.Detail {
		baseWidth += 30 // Conditions + Test + Component key
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 10

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}

package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/scanreport/schema"
)

// Color variables for console output.
var (
	GoodColor = color.New(color.FgGreen, color.Bold) // GoodColor represents well covered code.
	FairColor = color.New(color.FgYellow)            // FairColor represents partial coverage, not bold.
	LowColor  = color.New(color.FgRed, color.Bold)   // LowColor represents standard danger.
	NoneColor = color.New(color.FgCyan)              // NoneColor represents informational / no data.
)

// GetColorLabel returns a colored coverage label for console output (table).
// It uses schema.GetCoverageLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(s schema.UnitSummary) string {
	text := schema.GetCoverageLabel(s)

	switch text {
	case schema.GoodCoverageLabel:
		return GoodColor.Sprint(text)
	case schema.FairCoverageLabel:
		return FairColor.Sprint(text)
	case schema.LowCoverageLabel:
		return LowColor.Sprint(text)
	default:
		return NoneColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// MatchesFilter reports whether a unit path starts with the filter prefix.
// An empty filter matches everything; the root unit only matches an empty filter.
func MatchesFilter(path, filter string) bool {
	if filter == "" {
		return true
	}
	filter = strings.TrimPrefix(strings.ReplaceAll(filter, "\\", "/"), "./")
	return path != "" && strings.HasPrefix(path, filter)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scanreport_cache.db"
	}
	return filepath.Join(homeDir, ".scanreport_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scanreport_history.db"
	}
	return filepath.Join(homeDir, ".scanreport_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so the "..." prefix leaves room for at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	HeaderColor  = color.New(color.FgCyan, color.Bold) // HeaderColor marks report titles.
	CountColor   = color.New(color.FgGreen)            // CountColor highlights positive totals.
	DeletedColor = color.New(color.FgRed)              // DeletedColor highlights removed lines.
	MutedColor   = color.New(color.FgHiBlack)          // MutedColor renders secondary text.
)

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for commit stats storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitasana_stats.db"
	}
	return filepath.Join(homeDir, ".gitasana_stats.db")
}

// GetBoltFilePath returns the path to the bbolt file for commit stats storage.
func GetBoltFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitasana_stats.bolt"
	}
	return filepath.Join(homeDir, ".gitasana_stats.bolt")
}

// TruncateText shortens s to maxWidth runes, ending with an ellipsis.
// Requires maxWidth > 3 so there is room for the ellipsis and content.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
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

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

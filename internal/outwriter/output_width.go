package outwriter

import (
	"os"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"golang.org/x/term"
)

// GetMaxTextWidth calculates the maximum width for the free-text column of a
// table (commit messages, task names) based on terminal width. reserved is the
// space taken by the other columns including borders and padding.
func GetMaxTextWidth(cfg *contract.Config, reserved int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	available := termWidth - reserved
	if available < 20 {
		return 20
	}
	if available > 80 {
		return 80
	}
	return available
}

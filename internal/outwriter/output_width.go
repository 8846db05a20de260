package outwriter

import (
	"os"

	"github.com/huangsam/gitpet/internal/contract"
	"golang.org/x/term"
)

// Bounds for wrapped pet messages.
const (
	defaultTermWidth = 80
	minTextWidth     = 30
	maxTextWidth     = 100
	textIndent       = 4
)

// GetMaxTextWidth calculates how wide pet messages may be in text output
// based on terminal width or the configured override.
func GetMaxTextWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detected, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detected <= 0 {
			termWidth = defaultTermWidth // CI and pipes
		} else {
			termWidth = detected
		}
	}
	return min(max(termWidth-textIndent, minTextWidth), maxTextWidth)
}

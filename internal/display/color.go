package display

import (
	"fmt"
	"unicode/utf8"
)

// ANSI color codes for terminal output.
// Using raw ANSI to avoid pulling lipgloss into every CLI command.
const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	dim     = "\033[2m"
	red     = "\033[31m"
	green   = "\033[32m"
	yellow  = "\033[33m"
	blue    = "\033[34m"
	magenta = "\033[35m"
	cyan    = "\033[36m"
)

// Exported constants for use in help templates.
const (
	CReset   = reset
	CBold    = bold
	CDim     = dim
	CRed     = red
	CGreen   = green
	CYellow  = yellow
	CBlue    = blue
	CMagenta = magenta
	CCyan    = cyan
)

func Bold(s string) string    { return bold + s + reset }
func Dim(s string) string     { return dim + s + reset }
func Red(s string) string     { return red + s + reset }
func Green(s string) string   { return green + s + reset }
func Yellow(s string) string  { return yellow + s + reset }
func Blue(s string) string    { return blue + s + reset }
func Magenta(s string) string { return magenta + s + reset }
func Cyan(s string) string    { return cyan + s + reset }

// CPUColor colors a formatted CPU figure by load: red from 80%, yellow from
// 30%, dim when idle.
func CPUColor(pct float64, text string) string {
	switch {
	case pct >= 80:
		return red + text + reset
	case pct >= 30:
		return yellow + text + reset
	case pct == 0:
		return dim + text + reset
	default:
		return text
	}
}

// visibleLen returns the number of non-ANSI visible runes.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\033' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}

// padRight pads a string to width based on visible length (ignoring ANSI codes).
func padRight(s string, width int) string {
	vis := visibleLen(s)
	if vis >= width {
		return s
	}
	return s + fmt.Sprintf("%*s", width-vis, "")
}

// padLeft right-aligns s within width.
func padLeft(s string, width int) string {
	vis := visibleLen(s)
	if vis >= width {
		return s
	}
	return fmt.Sprintf("%*s", width-vis, "") + s
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

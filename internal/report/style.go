package report

import (
	"github.com/fatih/color"

	"github.com/kilianp07/resplan/core/baseline"
	"github.com/kilianp07/resplan/core/conflict"
)

// Sprint color functions for building styled strings.
var (
	Bold       = color.New(color.Bold).SprintFunc()
	Dim        = color.New(color.Faint).SprintFunc()
	Cyan       = color.New(color.FgCyan).SprintFunc()
	Green      = color.New(color.FgGreen).SprintFunc()
	Red        = color.New(color.FgRed).SprintFunc()
	Yellow     = color.New(color.FgYellow).SprintFunc()
	BoldCyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldRed    = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
)

// Severity colors a conflict severity.
func Severity(s conflict.Severity) string {
	switch s {
	case conflict.SeverityMinor:
		return Yellow(string(s))
	case conflict.SeverityMajor:
		return BoldYellow(string(s))
	case conflict.SeverityCritical:
		return BoldRed(string(s))
	}
	return string(s)
}

// Status colors a baseline comparison status.
func Status(s baseline.Status) string {
	switch s {
	case baseline.StatusOnTrack:
		return Green(string(s))
	case baseline.StatusAhead:
		return Cyan(string(s))
	case baseline.StatusBehind:
		return Red(string(s))
	case baseline.StatusScopeChanged:
		return Yellow(string(s))
	}
	return string(s)
}

// SetColor forces colored output on or off. By default color is enabled
// only when stdout is a terminal.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

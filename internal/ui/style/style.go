// Package style holds the colours and icons shared by depot's terminal output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/depot/internal/core/domain"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Blue   = lipgloss.Color("#3B82F6")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
	Arrow   = "→"
)

// ActionColor returns the colour used for packages marked with a.
func ActionColor(a domain.Action) lipgloss.Color {
	switch a {
	case domain.ActionInstall:
		return Green
	case domain.ActionUpgrade:
		return Blue
	case domain.ActionReinstall, domain.ActionFix:
		return Yellow
	case domain.ActionRemove:
		return Red
	default:
		return Slate
	}
}

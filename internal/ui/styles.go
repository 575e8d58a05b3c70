// Package ui renders styled status lines for the command line. All helpers
// are pure string functions; lipgloss degrades to plain text when stdout is
// not a terminal, so persisted artifacts stay ANSI-free.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status glyphs convey meaning without relying on color alone.
const (
	GlyphSuccess = "✓"
	GlyphFailure = "✗"
	GlyphWarning = "⚠"
	GlyphInfo    = "→"
	GlyphSkipped = "⏭"
)

// Palette adapts to terminal capabilities via lipgloss.
var (
	colorGreen   = lipgloss.Color("42")
	colorRed     = lipgloss.Color("196")
	colorYellow  = lipgloss.Color("214")
	colorCyan    = lipgloss.Color("51")
	colorMagenta = lipgloss.Color("201")
)

var (
	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	failureStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	infoStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	headerStyle  = lipgloss.NewStyle().Foreground(colorMagenta).Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// Success renders a green check line.
func Success(text string) string {
	return successStyle.Render(GlyphSuccess + " " + text)
}

// Failure renders a red cross line.
func Failure(text string) string {
	return failureStyle.Render(GlyphFailure + " " + text)
}

// Warn renders a yellow warning line.
func Warn(text string) string {
	return warnStyle.Render(GlyphWarning + " " + text)
}

// Info renders a cyan progress line.
func Info(text string) string {
	return infoStyle.Render(GlyphInfo + " " + text)
}

// Dim renders de-emphasized text.
func Dim(text string) string {
	return dimStyle.Render(text)
}

// Header renders text between 60-column rules, the pipeline's section banner.
func Header(text string) string {
	rule := strings.Repeat("=", 60)
	return headerStyle.Render(rule + "\n" + text + "\n" + rule)
}

// Banner renders the startup banner shown before a pipeline run.
func Banner(project string) string {
	var b strings.Builder
	b.WriteString(Header(strings.ToUpper(project) + " - BUILD & FIX"))
	b.WriteString("\nThis tool will:\n")
	b.WriteString("  1. Install backend and frontend dependencies\n")
	b.WriteString("  2. Fix the TypeScript configuration\n")
	b.WriteString("  3. Build the frontend application\n")
	b.WriteString("  4. Report any remaining issues")
	return b.String()
}

// StatusLine renders one stage outcome for the run summary.
func StatusLine(name string, passed, skipped bool) string {
	switch {
	case skipped:
		return dimStyle.Render(GlyphSkipped + " " + name + " (skipped)")
	case passed:
		return Success(name)
	default:
		return Failure(name)
	}
}

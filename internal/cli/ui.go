package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phallocators/allocviz/pkg/pipeline"
)

// stdout receives every status line; tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders section headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight renders values that deserve attention.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFresh       = lipgloss.NewStyle().Foreground(colorGray)
	separator        = StyleDim.Render(" · ")
)

// status line prefixes
var (
	iconSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	iconError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	iconWarning = lipgloss.NewStyle().Foreground(colorYellow).Render("!")
	iconInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	iconArrow   = StyleDim.Render("→")
)

// =============================================================================
// Status Lines
// =============================================================================

func printLine(parts ...string) {
	fmt.Fprintln(stdout, strings.Join(parts, " "))
}

func printSuccess(format string, args ...any) {
	printLine(iconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printLine(iconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	printLine(" ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written artifact.
func printFile(path string) {
	printLine(" ", iconArrow, StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	printLine(styleKey.Render(key), StyleValue.Render(value))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Run Summary
// =============================================================================

// printStats prints the size of the diagram followed by the cache marker.
func printStats(stats pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d units", stats.MemSize),
		fmt.Sprintf("%d primitives", stats.Primitives),
	}
	if stats.GraphNodes > 0 {
		parts = append(parts, fmt.Sprintf("%d blocks", stats.GraphNodes))
	}
	if stats.GraphEdges > 0 {
		parts = append(parts, fmt.Sprintf("%d links", stats.GraphEdges))
	}
	printParts(parts, cached)
}

func printCacheStatus(cached bool) {
	printParts(nil, cached)
}

// printParts joins parts with a dot separator and ends with "cached" or
// "fresh".
func printParts(parts []string, cached bool) {
	marker := styleFresh.Render("fresh")
	if cached {
		marker = styleCached.Render("cached")
	}
	var b strings.Builder
	b.WriteString("  ")
	for _, part := range parts {
		b.WriteString(StyleDim.Render(part))
		b.WriteString(separator)
	}
	b.WriteString(marker)
	fmt.Fprintln(stdout, b.String())
}

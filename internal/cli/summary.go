package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/thirteenf/internal/pipeline"
)

// RenderSummary formats the outcome of a conversion run.
func RenderSummary(result *pipeline.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  • Run: %s\n", SubtleStyle.Render(result.RunID))
	fmt.Fprintf(&b, "  • Pages: %d\n", result.Pages)
	fmt.Fprintf(&b, "  • Lines: %d\n", result.Lines)
	fmt.Fprintf(&b, "  • Records: %s\n", SuccessStyle.Render(fmt.Sprint(len(result.Records))))

	rejects := fmt.Sprint(result.Rejects)
	if result.Rejects > 0 {
		rejects = WarningStyle.Render(rejects)
	}
	fmt.Fprintf(&b, "  • Rejected lines: %s\n", rejects)

	if result.DryRun {
		b.WriteString("\n" + FormatInfo("Dry run: no files were written"))
	} else {
		b.WriteString("\n" + BoldStyle.Render(FolderIcon+" Outputs") + "\n")
		for _, path := range result.Paths.All() {
			fmt.Fprintf(&b, "  %s\n", path)
		}
	}

	return RenderBox("Conversion Complete", strings.TrimRight(b.String(), "\n"))
}

// RenderTable lays out rows under a header with padded columns.
func RenderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderRow(header, TableHeaderStyle))
	for _, row := range rows {
		lines = append(lines, renderRow(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

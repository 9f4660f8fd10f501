package batch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coolbeans/examocr/pkg/output"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// FormatReport formats a Report for terminal output.
func FormatReport(report *Report) string {
	var builder strings.Builder

	title := "Batch Report"
	if report.Mode == ModeReparse {
		title = "Reparse Report"
	}
	builder.WriteString("\n" + title + "\n")
	builder.WriteString(strings.Repeat("═", 60) + "\n")
	builder.WriteString(fmt.Sprintf("Run: %s\n", report.RunID))
	builder.WriteString(fmt.Sprintf("Attempted: %d | Succeeded: %d | Failed: %d\n",
		report.TotalAttempted, report.Succeeded, report.Failed))
	builder.WriteString(fmt.Sprintf("Questions: %d direct | %d parsed\n",
		report.TotalDirect, report.TotalParsed))
	builder.WriteString(strings.Repeat("─", 60) + "\n")

	for _, entry := range report.Entries {
		var status string
		switch entry.Status {
		case output.StatusReady:
			status = okStyle.Render("[OK]  ")
		case output.StatusFailed:
			status = failStyle.Render("[FAIL]")
		default:
			status = entry.Status
		}

		line := fmt.Sprintf("  %s %-30s", status, entry.Document)
		if entry.Status == output.StatusReady {
			line += fmt.Sprintf(" direct=%d parsed=%d (%s)", entry.DirectQuestions, entry.ParsedQuestions, entry.Strategy)
		}
		if entry.Warnings > 0 {
			line += " " + warnStyle.Render(fmt.Sprintf("%d warning(s)", entry.Warnings))
		}
		if entry.Error != "" {
			line += fmt.Sprintf(" error: %s", entry.Error)
		}
		builder.WriteString(line + "\n")
	}

	return builder.String()
}

// FormatReportJSON formats a Report as JSON.
func FormatReportJSON(report *Report) string {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}

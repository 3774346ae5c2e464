package tui

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/imgbatch/internal/pipeline"
)

type SummaryRow struct {
	Label string
	Value string
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		lines = append(lines, fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value)))
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// RenderFailures lists up to limit failures, noting how many were left out.
func RenderFailures(failures []pipeline.FailureRecord, limit int) string {
	if len(failures) == 0 {
		return ""
	}
	shown := failures
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	lines := []string{warnStyle.Render(fmt.Sprintf("Failures (%d):", len(failures)))}
	for _, f := range shown {
		lines = append(lines, "  "+failureStyle.Render(f.RelPath)+dimStyle.Render(": "+f.Detail))
	}
	if rest := len(failures) - len(shown); rest > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("  ... and %d more", rest)))
	}
	return strings.Join(lines, "\n")
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

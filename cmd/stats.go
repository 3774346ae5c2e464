package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/AnyUserName/imgbatch/internal/manifest"
	"github.com/AnyUserName/imgbatch/internal/tui"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <output_folder_or_manifest>",
	Short: "Display statistics recorded in a run manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	m, path, err := manifest.ReadJSON(args[0])
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), m, path)
	return nil
}

func printStats(out io.Writer, m *manifest.Manifest, path string) {
	s := m.Stats
	rows := []tui.SummaryRow{
		{Label: "Manifest", Value: path},
		{Label: "Manifest version", Value: fmt.Sprintf("%d", m.Version)},
		{Label: "Generated", Value: m.GeneratedAt},
		{Label: "Input folder", Value: m.InputDir},
	}
	if m.Preset != "" {
		rows = append(rows, tui.SummaryRow{Label: "Preset", Value: m.Preset})
	}
	if b := m.BuildInfo; b != nil {
		settings := fmt.Sprintf("%s q%d", b.Format, b.Quality)
		if b.Resize {
			settings += fmt.Sprintf(" max %dpx", b.MaxWidth)
		}
		if b.Collapse {
			settings += " collapsed"
		}
		rows = append(rows,
			tui.SummaryRow{Label: "Settings", Value: settings},
			tui.SummaryRow{Label: "Workers", Value: fmt.Sprintf("%d", b.Workers)},
			tui.SummaryRow{Label: "Run time", Value: fmt.Sprintf("%d ms", b.ElapsedMS)},
		)
	}
	rows = append(rows,
		tui.SummaryRow{Label: "Files", Value: fmt.Sprintf("%d", s.TotalFiles)},
		tui.SummaryRow{Label: "Failed", Value: fmt.Sprintf("%d", s.Failed)},
		tui.SummaryRow{Label: "Input size", Value: tui.FormatBytes(s.TotalInputBytes)},
		tui.SummaryRow{Label: "Output size", Value: tui.FormatBytes(s.TotalOutputBytes)},
	)
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		rows = append(rows, tui.SummaryRow{Label: "Compression", Value: fmt.Sprintf("%.1f%% of original", ratio)})
	}
	fmt.Fprintln(out, tui.RenderSummary(rows))

	// Largest files, original → output.
	type fileSize struct {
		path   string
		input  int64
		output int64
	}
	var items []fileSize
	for p, e := range m.Files {
		items = append(items, fileSize{p, e.SourceSize, e.Size})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].input != items[j].input {
			return items[i].input > items[j].input
		}
		return items[i].path < items[j].path
	})
	n := len(items)
	if n > 10 {
		n = 10
	}
	if n > 0 {
		fmt.Fprintf(out, "\n  Top %d largest (original → output):\n", n)
		for _, it := range items[:n] {
			saved := float64(0)
			if it.input > 0 {
				saved = (1 - float64(it.output)/float64(it.input)) * 100
			}
			fmt.Fprintf(out, "    %-40s %8s → %8s  (%+.0f%%)\n",
				truncPath(it.path, 40),
				tui.FormatBytes(it.input),
				tui.FormatBytes(it.output),
				-saved,
			)
		}
	}

	// Warnings.
	var warnings []string
	for p, e := range m.Files {
		if e.SourceSize > 0 && e.Size > e.SourceSize {
			warnings = append(warnings, fmt.Sprintf("%s grew from %s to %s",
				p, tui.FormatBytes(e.SourceSize), tui.FormatBytes(e.Size)))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Fprintf(out, "\n  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Fprintf(out, "    ⚠ %s\n", w)
		}
	}

	if len(m.Failures) > 0 {
		var lines []string
		for _, f := range m.Failures {
			lines = append(lines, fmt.Sprintf("    • %s: %s", f.Source, f.Detail))
		}
		fmt.Fprintf(out, "\n  Failures (%d):\n%s\n", len(m.Failures), strings.Join(lines, "\n"))
	}
}

func truncPath(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}

package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/AnyUserName/imgbatch/internal/pipeline"
	tea "github.com/charmbracelet/bubbletea"
)

type update struct {
	name   string
	failed bool
}

type doneMsg struct{}

type updateMsg update

type model struct {
	updates   <-chan update
	started   time.Time
	width     int
	total     int
	processed int
	failed    int
	last      string
	quitting  bool
}

func newModel(total int, updates <-chan update) model {
	return model{updates: updates, total: total, started: time.Now()}
}

func (m model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.processed++
		if msg.failed {
			m.failed++
		}
		m.last = msg.name
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.processed) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}

	counts := labelStyle.Render(fmt.Sprintf("Images: %d/%d", m.processed, m.total))
	if m.failed > 0 {
		counts += failureStyle.Render(fmt.Sprintf("  failed:%d", m.failed))
	}
	lines := []string{
		titleStyle.Render("imgbatch"),
		counts,
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", time.Since(m.started).Round(time.Millisecond))),
		barStyle.Render(renderBar(barWidth, ratio)),
	}
	if m.last != "" {
		lines = append(lines, dimStyle.Render(truncate(m.last, barWidth+2)))
	}
	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(u)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}

// Bar is an interactive progress bar driven by a bubbletea program.
type Bar struct {
	out     io.Writer
	updates chan update
	done    chan struct{}
}

// NewBar returns a Bar rendering to out, normally a terminal.
func NewBar(out io.Writer) *Bar {
	return &Bar{out: out}
}

func (b *Bar) Start(total int) {
	b.updates = make(chan update, 64)
	b.done = make(chan struct{})
	program := tea.NewProgram(newModel(total, b.updates),
		tea.WithOutput(b.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	go func() {
		_, _ = program.Run()
		close(b.done)
	}()
}

func (b *Bar) Advance(o pipeline.Outcome) {
	u := update{name: o.Source.RelPath, failed: o.Status == pipeline.Failure}
	select {
	case b.updates <- u:
	case <-b.done:
	}
}

func (b *Bar) Finish(pipeline.RunSummary) {
	close(b.updates)
	<-b.done
}

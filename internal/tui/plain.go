package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/AnyUserName/imgbatch/internal/pipeline"
	"golang.org/x/term"
)

// Plain prints one line per finished image. Used when output is not a
// terminal.
type Plain struct {
	out   io.Writer
	total int
	n     int
}

func NewPlain(out io.Writer) *Plain {
	return &Plain{out: out}
}

func (p *Plain) Start(total int) {
	p.total = total
	p.n = 0
}

func (p *Plain) Advance(o pipeline.Outcome) {
	p.n++
	status := "ok"
	if o.Status == pipeline.Failure {
		status = "FAILED"
	}
	fmt.Fprintf(p.out, "[%d/%d] %-6s %s\n", p.n, p.total, status, o.Source.RelPath)
}

func (p *Plain) Finish(pipeline.RunSummary) {}

// NewProgress picks the bubbletea bar when f is a terminal and plain lines
// otherwise.
func NewProgress(f *os.File) pipeline.Progress {
	if term.IsTerminal(int(f.Fd())) {
		return NewBar(f)
	}
	return NewPlain(f)
}

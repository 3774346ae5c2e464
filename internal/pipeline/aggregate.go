package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Progress receives one call per finished item.
type Progress interface {
	Start(total int)
	Advance(o Outcome)
	Finish(s RunSummary)
}

type noProgress struct{}

func (noProgress) Start(int)         {}
func (noProgress) Advance(Outcome)   {}
func (noProgress) Finish(RunSummary) {}

// Aggregator is the single consumer of a run's outcomes. It owns the
// counters and the failure log.
type Aggregator struct {
	total    int
	logPath  string
	progress Progress
	out      io.Writer
	log      *slog.Logger

	outputs []Outcome
}

// NewAggregator returns an Aggregator expecting total outcomes. Failures are
// written to logPath, the final count to out. progress may be nil.
func NewAggregator(total int, logPath string, progress Progress, out io.Writer, log *slog.Logger) *Aggregator {
	if progress == nil {
		progress = noProgress{}
	}
	if out == nil {
		out = io.Discard
	}
	return &Aggregator{
		total:    total,
		logPath:  logPath,
		progress: progress,
		out:      out,
		log:      log,
	}
}

// Consume drains outcomes until the channel is closed. The failure log is
// truncated first, so it only ever describes the current run. An error is
// returned if the log cannot be written; the channel is drained anyway.
func (a *Aggregator) Consume(outcomes <-chan Outcome) (RunSummary, error) {
	s := RunSummary{Total: a.total}

	var w *bufio.Writer
	f, logErr := os.Create(a.logPath)
	if logErr != nil {
		logErr = fmt.Errorf("create failure log: %w", logErr)
	} else {
		w = bufio.NewWriter(f)
	}

	a.progress.Start(a.total)
	for o := range outcomes {
		switch o.Status {
		case Success:
			s.Succeeded++
			a.outputs = append(a.outputs, o)
		default:
			s.Failed++
			detail := oneLine(o.Err)
			if detail == "" {
				detail = "unknown error"
			}
			s.Failures = append(s.Failures, FailureRecord{RelPath: o.Source.RelPath, Detail: detail})
			a.log.Warn("failed", "file", o.Source.RelPath, "error", detail)
			if w != nil && logErr == nil {
				if _, err := fmt.Fprintf(w, "%s: %s\n", o.Source.RelPath, detail); err != nil {
					logErr = fmt.Errorf("write failure log: %w", err)
				}
			}
		}
		a.progress.Advance(o)
	}
	a.progress.Finish(s)

	if f != nil {
		if err := w.Flush(); err != nil && logErr == nil {
			logErr = fmt.Errorf("flush failure log: %w", err)
		}
		if err := f.Close(); err != nil && logErr == nil {
			logErr = fmt.Errorf("close failure log: %w", err)
		}
	}

	fmt.Fprintf(a.out, "Processed %d/%d images successfully.\n", s.Succeeded, s.Total)
	return s, logErr
}

// Outputs returns the successful outcomes in arrival order.
func (a *Aggregator) Outputs() []Outcome {
	return a.outputs
}

func oneLine(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

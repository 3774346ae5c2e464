package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/imgbatch/internal/logging"
)

type recordingProgress struct {
	total    int
	advanced int
	finished bool
	summary  RunSummary
}

func (p *recordingProgress) Start(total int) { p.total = total }
func (p *recordingProgress) Advance(Outcome) { p.advanced++ }

func (p *recordingProgress) Finish(s RunSummary) {
	p.finished = true
	p.summary = s
}

func feed(outcomes ...Outcome) <-chan Outcome {
	ch := make(chan Outcome, len(outcomes))
	for _, o := range outcomes {
		ch <- o
	}
	close(ch)
	return ch
}

func TestAggregator_CountsAndLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "error_log.txt")
	var out bytes.Buffer
	prog := &recordingProgress{}

	agg := NewAggregator(4, logPath, prog, &out, logging.Discard())
	s, err := agg.Consume(feed(
		Outcome{Source: Source{RelPath: "ok1.jpg"}, Status: Success},
		Outcome{Source: Source{RelPath: "sub/bad.png"}, Status: Failure, Err: "decode: unexpected EOF"},
		Outcome{Source: Source{RelPath: "ok2.jpg"}, Status: Success},
		Outcome{Source: Source{RelPath: "multi.gif"}, Status: Failure, Err: "line one\nline two"},
	))
	if err != nil {
		t.Fatal(err)
	}

	if s.Total != 4 || s.Succeeded != 2 || s.Failed != 2 {
		t.Errorf("summary: %+v", s)
	}
	if len(s.Failures) != 2 || s.Failures[0].RelPath != "sub/bad.png" || s.Failures[1].RelPath != "multi.gif" {
		t.Errorf("failures out of order: %+v", s.Failures)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "sub/bad.png: decode: unexpected EOF\nmulti.gif: line one line two\n"
	if string(data) != want {
		t.Errorf("log:\n%q\nwant:\n%q", data, want)
	}

	if got := out.String(); got != "Processed 2/4 images successfully.\n" {
		t.Errorf("stdout: %q", got)
	}
	if prog.total != 4 || prog.advanced != 4 || !prog.finished || prog.summary.Failed != 2 {
		t.Errorf("progress: %+v", prog)
	}
	if outs := agg.Outputs(); len(outs) != 2 || outs[1].Source.RelPath != "ok2.jpg" {
		t.Errorf("outputs: %+v", outs)
	}
}

func TestAggregator_TruncatesLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "error_log.txt")
	writeFile(t, logPath, []byte("stale.jpg: from a previous run\n"))

	s, err := NewAggregator(0, logPath, nil, nil, logging.Discard()).Consume(feed())
	if err != nil {
		t.Fatal(err)
	}
	if s.Total != 0 || s.Succeeded != 0 || s.Failed != 0 {
		t.Errorf("summary: %+v", s)
	}
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("log should be empty, has %d bytes", info.Size())
	}
}

func TestAggregator_EmptyDetail(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "log.txt")
	s, err := NewAggregator(1, logPath, nil, nil, logging.Discard()).Consume(feed(
		Outcome{Source: Source{RelPath: "x.jpg"}, Status: Failure},
	))
	if err != nil {
		t.Fatal(err)
	}
	if s.Failures[0].Detail == "" {
		t.Error("failure detail should never be empty")
	}
}

func TestAggregator_UnwritableLogStillDrains(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "missing", "dir", "log.txt")
	ch := make(chan Outcome)
	go func() {
		for i := 0; i < 3; i++ {
			ch <- Outcome{Source: Source{RelPath: "f.jpg"}, Status: Failure, Err: "x"}
		}
		close(ch)
	}()

	s, err := NewAggregator(3, logPath, nil, nil, logging.Discard()).Consume(ch)
	if err == nil {
		t.Error("expected log error")
	}
	if s.Failed != 3 {
		t.Errorf("failed: got %d, want 3", s.Failed)
	}
}

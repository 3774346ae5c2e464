package pipeline

import "github.com/AnyUserName/imgbatch/internal/encoder"

// Source is one discovered input image.
type Source struct {
	// RelPath is the path relative to the input root.
	RelPath string
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// Size is the file size in bytes at collection time.
	Size int64
	// Index is the position in collection order.
	Index int
}

// TransformOptions is built once per run and shared read-only by workers.
type TransformOptions struct {
	Quality  int
	Resize   bool
	MaxWidth int
	Format   encoder.Format
	Collapse bool
}

// Status reports whether a source was converted.
type Status int

const (
	Success Status = iota
	Failure
)

func (s Status) String() string {
	if s == Success {
		return "success"
	}
	return "failure"
}

// Outcome is the result of processing exactly one Source.
type Outcome struct {
	Source      Source
	OutputPath  string
	Status      Status
	Err         string
	Width       int
	Height      int
	OutputBytes int64
	Hash        string // xxhash64 of the written bytes, hex
}

// FailureRecord is one entry of the failure log.
type FailureRecord struct {
	RelPath string
	Detail  string
}

// RunSummary holds the counters of a finished run. Failures keep arrival
// order.
type RunSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Failures  []FailureRecord
}

func failed(src Source, detail string) Outcome {
	return Outcome{Source: src, Status: Failure, Err: detail}
}

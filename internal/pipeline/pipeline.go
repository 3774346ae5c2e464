package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/imgbatch/internal/encoder"
	"github.com/AnyUserName/imgbatch/internal/hasher"
	"github.com/AnyUserName/imgbatch/internal/logging"
	"github.com/AnyUserName/imgbatch/internal/manifest"
)

// Config holds all parameters for one batch run.
type Config struct {
	InputDir    string
	OutputDir   string
	Recursive   bool
	Transform   TransformOptions
	Workers     int
	ItemTimeout time.Duration
	ErrorLog    string
	Preset      string

	Progress Progress
	Out      io.Writer // receives the final count line
	Logger   *slog.Logger
}

// Report is what a finished run produced.
type Report struct {
	Summary  RunSummary
	Outputs  []Outcome
	Manifest *manifest.Manifest
	Elapsed  time.Duration
}

// Pipeline orchestrates collection, dispatch and aggregation.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
	base     *slog.Logger
	log      *slog.Logger
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
		base:     log,
		log:      logging.Component(log, "pipeline"),
	}
}

// Run processes every image under the input folder. The returned error is
// non-nil only for fatal problems: an unusable input folder, an output
// folder that cannot be created, or a failure log that cannot be written.
// Per-file failures are reported in the summary.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	p.log.Debug("encoders", "registry", p.registry.String())

	sources, err := Collect(p.cfg.InputDir, p.cfg.Recursive)
	if err != nil {
		return nil, err
	}

	absOut, err := filepath.Abs(p.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output folder: %w", err)
	}
	if err := os.MkdirAll(absOut, 0o755); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(absOut); err == nil {
		absOut = resolved
	}
	sources = excludeOutputs(sources, absOut)

	if len(sources) == 0 {
		p.log.Info("No images found", "input", p.cfg.InputDir)
	} else {
		p.log.Info("collected images", "count", len(sources), "workers", p.cfg.Workers)
	}

	tr, err := NewTransformer(p.cfg.Transform, p.registry, logging.Component(p.base, "transform"))
	if err != nil {
		return nil, err
	}
	res := NewResolver(absOut, p.registry.Extension(p.cfg.Transform.Format), p.cfg.Transform.Collapse)

	fn := func(ctx context.Context, src Source) Outcome {
		outPath := res.Resolve(src.RelPath)
		if err := res.Prepare(outPath); err != nil {
			return failed(src, fmt.Sprintf("create output directory: %v", err))
		}
		return tr.Process(ctx, src, outPath)
	}

	outcomes := Dispatch(ctx, sources, p.cfg.Workers, fn, WithItemTimeout(p.cfg.ItemTimeout))
	agg := NewAggregator(len(sources), p.cfg.ErrorLog, p.cfg.Progress, p.cfg.Out,
		logging.Component(p.base, "aggregate"))
	summary, err := agg.Consume(outcomes)

	report := &Report{
		Summary: summary,
		Outputs: agg.Outputs(),
		Elapsed: time.Since(start),
	}
	report.Manifest = p.buildManifest(absOut, report)
	return report, err
}

// buildManifest records the files left on disk. Size and hash are read back
// from disk. When several outcomes wrote the same collapsed path, the entry
// describes the one whose bytes survived.
func (p *Pipeline) buildManifest(outDir string, r *Report) *manifest.Manifest {
	m := manifest.New(p.cfg.Preset, p.cfg.InputDir)
	t := p.cfg.Transform
	m.BuildInfo = &manifest.BuildInfo{
		Format:    string(t.Format),
		Quality:   t.Quality,
		Resize:    t.Resize,
		MaxWidth:  t.MaxWidth,
		Collapse:  t.Collapse,
		Workers:   p.cfg.Workers,
		ElapsedMS: r.Elapsed.Milliseconds(),
	}

	for _, o := range survivors(r.Outputs) {
		rel, err := filepath.Rel(outDir, o.OutputPath)
		if err != nil {
			continue
		}
		m.Files[filepath.ToSlash(rel)] = manifest.Entry{
			Source:     filepath.ToSlash(o.Source.RelPath),
			Format:     string(t.Format),
			Width:      o.Width,
			Height:     o.Height,
			Size:       o.OutputBytes,
			SourceSize: o.Source.Size,
			Hash:       o.Hash,
		}
	}
	for _, f := range r.Summary.Failures {
		m.Failures = append(m.Failures, manifest.FailureEntry{
			Source: filepath.ToSlash(f.RelPath),
			Detail: f.Detail,
		})
	}
	m.ComputeStats()
	return m
}

// survivors returns one outcome per output path, refreshed from disk. Among
// outcomes sharing a path the one whose hash matches the file wins; if none
// does, the last to arrive is kept.
func survivors(outputs []Outcome) []Outcome {
	byPath := make(map[string][]Outcome)
	var order []string
	for _, o := range outputs {
		if _, seen := byPath[o.OutputPath]; !seen {
			order = append(order, o.OutputPath)
		}
		byPath[o.OutputPath] = append(byPath[o.OutputPath], o)
	}

	kept := make([]Outcome, 0, len(order))
	for _, path := range order {
		group := byPath[path]
		winner := group[len(group)-1]
		diskHash, err := hasher.FileHash(path, 16)
		if err == nil {
			for _, o := range group {
				if o.Hash == diskHash {
					winner = o
					break
				}
			}
			winner.Hash = diskHash
		}
		if info, err := os.Stat(path); err == nil {
			winner.OutputBytes = info.Size()
		}
		kept = append(kept, winner)
	}
	return kept
}

// excludeOutputs drops sources inside outDir, which happens when the output
// folder is nested in a recursively scanned input folder.
func excludeOutputs(sources []Source, outDir string) []Source {
	kept := sources[:0]
	for _, s := range sources {
		if isWithin(s.AbsPath, outDir) {
			continue
		}
		s.Index = len(kept)
		kept = append(kept, s)
	}
	return kept
}

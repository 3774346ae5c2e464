package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/AnyUserName/imgbatch/internal/config"
	"github.com/AnyUserName/imgbatch/internal/logging"
	"github.com/AnyUserName/imgbatch/internal/manifest"
	"github.com/AnyUserName/imgbatch/internal/pipeline"
	"github.com/AnyUserName/imgbatch/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	compressConfigFile string
	compressQuality    int
	compressResize     bool
	compressMaxWidth   int
	compressFormat     string
	compressRecursive  bool
	compressCollapse   bool
	compressParallel   bool
	compressWorkers    int
	compressErrorLog   string
	compressTimeout    time.Duration
	compressPreset     string
	compressManifest   bool
	compressLogLevel   string
)

func init() {
	d := config.DefaultConfig()
	f := rootCmd.Flags()
	f.StringVar(&compressConfigFile, "config", "", "YAML config file (default ./imgbatch.yaml or ~/.config/imgbatch/imgbatch.yaml)")
	f.IntVar(&compressQuality, "quality", d.Quality, "encoding quality 0-100 (ignored for png)")
	f.BoolVar(&compressResize, "resize", d.Resize, "downscale images wider than --max_width")
	f.IntVar(&compressMaxWidth, "max_width", d.MaxWidth, "target width when resizing")
	f.StringVar(&compressFormat, "output_format", d.OutputFormat, "output format: jpeg, jpg, png or webp")
	f.BoolVar(&compressRecursive, "recursive", false, "descend into subfolders")
	f.BoolVar(&compressCollapse, "collapse", false, "write every output directly into the output folder")
	f.BoolVar(&compressParallel, "parallel", false, "process images on all cores")
	f.IntVar(&compressWorkers, "workers", 0, "worker count with --parallel (0 = NumCPU)")
	f.StringVar(&compressErrorLog, "error_log", d.ErrorLog, "failure log, overwritten every run")
	f.DurationVar(&compressTimeout, "timeout", 0, "per-image time limit (0 = none)")
	f.StringVar(&compressPreset, "preset", "", "named defaults: default, web, thumbnail or archive")
	f.BoolVar(&compressManifest, "manifest", false, "write "+manifest.FileName+" into the output folder")
	f.StringVar(&compressLogLevel, "log_level", d.LogLevel, "log level: debug, info, warn or error")
}

func runCompress(cmd *cobra.Command, args []string) error {
	start := time.Now()

	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	cfg, err := config.Load(v, compressConfigFile)
	if err != nil {
		return err
	}
	cfg.InputDir, cfg.OutputDir = args[0], args[1]
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(os.Stderr, cfg.LogLevel, cfg.Verbose)
	workers := cfg.WorkerCount(runtime.NumCPU())
	logConfig(log, cfg, workers)

	p := pipeline.New(pipeline.Config{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Recursive: cfg.Recursive,
		Transform: pipeline.TransformOptions{
			Quality:  cfg.Quality,
			Resize:   cfg.Resize,
			MaxWidth: cfg.MaxWidth,
			Format:   cfg.Format,
			Collapse: cfg.Collapse,
		},
		Workers:     workers,
		ItemTimeout: cfg.Timeout,
		ErrorLog:    cfg.ErrorLog,
		Preset:      cfg.Preset,
		Progress:    tui.NewProgress(os.Stderr),
		Out:         cmd.OutOrStdout(),
		Logger:      log,
	})

	report, err := p.Run(cmd.Context())
	if err != nil {
		if errors.Is(err, pipeline.ErrInputDir) {
			return err
		}
		return fmt.Errorf("pipeline: %w", err)
	}
	if ctxErr := cmd.Context().Err(); ctxErr != nil {
		log.Warn("interrupted, remaining images were skipped", "reason", ctxErr)
	}

	if cfg.Manifest {
		path := filepath.Join(cfg.OutputDir, manifest.FileName)
		if err := manifest.WriteJSON(report.Manifest, path); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		log.Info("wrote manifest", "path", path, "files", len(report.Manifest.Files))
	}

	printReport(cmd, cfg, report, workers, time.Since(start))
	return nil
}

func logConfig(log *slog.Logger, cfg *config.Config, workers int) {
	log.Info("configuration",
		"input", cfg.InputDir,
		"output", cfg.OutputDir,
		"format", cfg.Format,
		"quality", cfg.Quality,
		"resize", cfg.Resize,
		"max_width", cfg.MaxWidth,
		"recursive", cfg.Recursive,
		"collapse", cfg.Collapse,
		"workers", workers,
		"timeout", cfg.Timeout,
		"preset", cfg.Preset,
		"error_log", cfg.ErrorLog,
	)
}

func printReport(cmd *cobra.Command, cfg *config.Config, r *pipeline.Report, workers int, elapsed time.Duration) {
	out := cmd.OutOrStdout()
	s := r.Summary

	var inBytes, outBytes int64
	for _, o := range r.Outputs {
		inBytes += o.Source.Size
		outBytes += o.OutputBytes
	}

	rows := []tui.SummaryRow{
		{Label: "Images converted", Value: fmt.Sprintf("%d/%d", s.Succeeded, s.Total)},
		{Label: "Failed", Value: fmt.Sprintf("%d", s.Failed)},
		{Label: "Format", Value: string(cfg.Format)},
		{Label: "Workers", Value: fmt.Sprintf("%d", workers)},
		{Label: "Input size", Value: tui.FormatBytes(inBytes)},
		{Label: "Output size", Value: tui.FormatBytes(outBytes)},
	}
	if inBytes > 0 {
		ratio := float64(outBytes) / float64(inBytes) * 100
		rows = append(rows, tui.SummaryRow{Label: "Ratio", Value: fmt.Sprintf("%.1f%% of original", ratio)})
	}
	rows = append(rows, tui.SummaryRow{Label: "Time", Value: elapsed.Round(time.Millisecond).String()})
	if s.Failed > 0 {
		rows = append(rows, tui.SummaryRow{Label: "Failure log", Value: cfg.ErrorLog})
	}

	fmt.Fprintln(out, tui.RenderSummary(rows))
	if f := tui.RenderFailures(s.Failures, 10); f != "" {
		fmt.Fprintln(out, f)
	}
}

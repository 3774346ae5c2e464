package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "imgbatch <input_folder> <output_folder>",
	Short: "Batch recompress a folder of images",
	Long: `imgbatch walks a folder of images and re-encodes each one as JPEG, PNG
or WebP at the chosen quality, optionally downscaling wide images.

EXIF orientation is carried over to JPEG outputs. Files that cannot be
converted are listed in the failure log; the rest of the batch continues.

Settings come from flags, IMGBATCH_* environment variables, an optional
imgbatch.yaml and a named preset, in that order of precedence.`,
	Args:          cobra.ExactArgs(2),
	RunE:          runCompress,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with ctx, which is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgbatch %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

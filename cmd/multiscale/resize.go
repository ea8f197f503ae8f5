package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/phambaophuc/multiscale/internal/services/processor"
	"github.com/phambaophuc/multiscale/internal/services/telemetry"
	"github.com/phambaophuc/multiscale/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const maxDownloadSize = 20 << 20

type resizeOptions struct {
	device      string
	width       string
	height      string
	scale       int
	duplicates  string
	output      string
	workers     int
	timeout     time.Duration
	compression string
}

func newResizeCmd(root *rootOptions) *cobra.Command {
	opts := &resizeOptions{}

	cmd := &cobra.Command{
		Use:   "resize [flags] IMAGE...",
		Short: "Resize images and write them into a zip archive",
		Long: `Resize every IMAGE (a local path or an http(s) URL) to the selected
device profile or custom size, then write all results into one zip archive.
Images that cannot be decoded are reported and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResize(cmd, root.logger(), opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.device, "device", "d", models.CustomDevice, "device profile, or \"custom\"")
	f.StringVar(&opts.width, "width", "375", "custom width in logical pixels")
	f.StringVar(&opts.height, "height", "812", "custom height in logical pixels")
	f.IntVarP(&opts.scale, "scale", "s", 1, "density multiplier (1, 2 or 3)")
	f.StringVar(&opts.duplicates, "duplicates", string(processor.DuplicateSuffix), "name collision policy: suffix or overwrite")
	f.StringVarP(&opts.output, "output", "o", "", "archive path (default MultiScale-<millis>.zip)")
	f.IntVar(&opts.workers, "workers", processor.DefaultWorkers, "images processed in parallel")
	f.DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-image timeout")
	f.StringVar(&opts.compression, "compression", "default", "PNG compression: none, fast, default or best")

	return cmd
}

func runResize(cmd *cobra.Command, logger *zap.Logger, opts *resizeOptions, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	policy, err := processor.ParseDuplicatePolicy(opts.duplicates)
	if err != nil {
		return err
	}

	images, err := loadSources(ctx, args)
	if err != nil {
		return err
	}

	profile := models.NamedProfile(opts.device)
	if opts.device == models.CustomDevice {
		profile = models.CustomProfile(opts.width, opts.height)
	}

	packager := processor.NewPackager(
		processor.NewRasterizer(processor.RasterizerOptions{
			Timeout:     opts.timeout,
			Compression: opts.compression,
		}),
		processor.Options{
			Workers:    opts.workers,
			Duplicates: policy,
			Sink:       telemetry.NewLogSink(logger),
			Logger:     logger,
		},
	)

	result, err := packager.Process(ctx, models.BatchJob{
		Images:  images,
		Profile: profile,
		Density: models.Density(opts.scale),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, w := range result.Warnings {
		fmt.Fprintln(out, "warning:", w)
	}
	for _, f := range result.Failures {
		fmt.Fprintf(out, "failed: %s: %s\n", f.Filename, f.Error)
	}
	if result.Status == models.StatusFailed {
		return fmt.Errorf("no image could be processed")
	}

	path := opts.output
	if path == "" {
		path = utils.GenerateArchiveFilename(time.Now())
	}
	if err := os.WriteFile(path, result.Archive, 0644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	fmt.Fprintf(out, "wrote %s: %d images at %dx%d (%s)\n",
		path, len(result.Entries), result.Size.Width, result.Size.Height, result.Status)
	return nil
}

func loadSources(ctx context.Context, args []string) ([]models.SourceImage, error) {
	images := make([]models.SourceImage, 0, len(args))

	for _, arg := range args {
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			data, _, err := utils.DownloadImage(ctx, arg, maxDownloadSize)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", arg, err)
			}
			images = append(images, models.SourceImage{Filename: utils.SourceNameFromURL(arg), Data: data})
			continue
		}

		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, err
		}
		images = append(images, models.SourceImage{Filename: filepath.Base(arg), Data: data})
	}

	return images, nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/codercms/vidthumb"
	"github.com/schollz/progressbar/v3"
)

const (
	exitOK = iota
	exitExtractionFailed
	exitOutputExists
	exitInvalidConfig
	exitFailure
)

type options struct {
	output           string
	width            int
	columns          int
	rows             int
	aspect           string
	force            bool
	debug            bool
	offset           int
	processes        int
	backend          string
	extractorPath    string
	ffprobePath      string
	quality          int
	tempDir          string
	noProgress       bool
	skipVersionCheck bool

	inputs []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()

	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	defaults, err := vidthumb.LoadEnvDefaults()
	if err != nil {
		fmt.Fprintf(stderr, "invalid environment: %v\n", err)
		return exitInvalidConfig
	}

	opts, err := parseArgs(args, defaults, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInvalidConfig
	}

	grid := vidthumb.GridConfig{
		Width:       opts.width,
		Columns:     opts.columns,
		Rows:        opts.rows,
		Offset:      opts.offset,
		Force:       opts.force,
		JPEGQuality: opts.quality,
	}

	if len(opts.aspect) > 0 {
		aspect, err := vidthumb.ParseAspectRatio(opts.aspect)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitInvalidConfig
		}

		grid.Aspect = aspect
	}

	if err := vidthumb.CheckOutput(opts.output, opts.force); err != nil {
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}

	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	gen, err := vidthumb.NewGenerator(&vidthumb.Config{
		Backend:          vidthumb.Backend(opts.backend),
		ExtractorPath:    opts.extractorPath,
		FfprobePath:      opts.ffprobePath,
		Concurrency:      opts.processes,
		TempDir:          opts.tempDir,
		Debug:            opts.debug,
		DebugOutput:      stderr,
		SkipVersionCheck: opts.skipVersionCheck,
		Logger:           logger,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}

	req := &vidthumb.GenerateRequest{
		Inputs: opts.inputs,
		Output: opts.output,
		Grid:   grid,
	}

	var bar *progressbar.ProgressBar

	if !opts.debug && !opts.noProgress {
		bar = progressbar.NewOptions(grid.Cells(),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("extracting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		req.OnFrame = func(vidthumb.ExtractedFrame) {
			_ = bar.Add(1)
		}
	}

	res, err := gen.Generate(ctx, req)

	if bar != nil {
		_ = bar.Clear()
	}

	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}

	fmt.Fprintf(stderr, "Written %s (%dx%d)\n", res.Output, res.Geometry.Width, res.Geometry.Height)

	return exitOK
}

// exitCode maps an error to a distinct status per failure class
func exitCode(err error) int {
	var extractionErr *vidthumb.ExtractionError
	var validationErr *vidthumb.ValidationError

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, vidthumb.ErrOutputExists):
		return exitOutputExists
	case errors.As(err, &extractionErr):
		return exitExtractionFailed
	case errors.As(err, &validationErr):
		return exitInvalidConfig
	default:
		return exitFailure
	}
}

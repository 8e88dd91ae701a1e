package vidthumb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

type (
	Generator struct {
		extractor Extractor

		cfg *Config

		logger *slog.Logger
	}

	GenerateRequest struct {
		// Inputs are paths to video files, their order defines which cells each one fills
		Inputs []string

		// Output is a contact sheet path, its extension selects the image format
		Output string

		// Grid configures the contact sheet layout
		Grid GridConfig

		// OnFrame is called after each extracted thumbnail, e.g. to report progress
		OnFrame func(frame ExtractedFrame)

		// LogArgs is an additional log args that will be appended to logs
		LogArgs []slog.Attr
	}

	GenerateResult struct {
		// Output is a written contact sheet path
		Output string
		// Geometry is a resolved cell and canvas size
		Geometry Geometry
		// Frames is a number of extracted thumbnails
		Frames int
		// Duration measures how much time was spent
		Duration time.Duration
	}
)

// NewGenerator constructs new Generator based on provided config
func NewGenerator(cfg *Config) (*Generator, error) {
	if cfg == nil {
		return nil, errors.New("nil cfg passed")
	}

	if len(cfg.Backend) == 0 {
		cfg.Backend = BackendThumbnailer
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	debugOut := cfg.DebugOutput
	if cfg.Debug && debugOut == nil {
		debugOut = os.Stderr
	}
	if !cfg.Debug {
		debugOut = nil
	}

	extractor := cfg.Extractor
	if extractor == nil {
		extractorPath, err := getVerifiedExtractorPath(cfg.Backend, cfg.ExtractorPath, cfg.SkipVersionCheck)
		if err != nil {
			return nil, err
		}

		switch cfg.Backend {
		case BackendFfmpeg:
			ffprobePath, err := getFfprobePath(cfg.FfprobePath)
			if err != nil {
				return nil, err
			}

			extractor = NewFfmpegExtractor(extractorPath, ffprobePath, cfg.Headers, debugOut, logger)
		default:
			extractor = NewThumbnailer(extractorPath, debugOut, logger)
		}
	}

	return &Generator{
		extractor: extractor,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// GetConcurrency returns current concurrency setting
func (g *Generator) GetConcurrency() int {
	return g.cfg.Concurrency
}

// Generate extracts thumbnails from req.Inputs and writes them as one grid image to req.Output.
// Nothing is written to req.Output unless every step succeeds.
func (g *Generator) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	if err := validateInputs(req.Inputs); err != nil {
		return nil, err
	}

	if err := validateOutput(req.Output); err != nil {
		return nil, err
	}

	if err := validateGrid(&req.Grid); err != nil {
		return nil, err
	}

	if err := CheckOutput(req.Output, req.Grid.Force); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	slogArgs := withAttrs(req.LogArgs, slog.String("run", runID))

	workDir, err := os.MkdirTemp(g.cfg.TempDir, "vidthumb-"+runID[:8]+"-")
	if err != nil {
		return nil, fmt.Errorf("cannot create work directory: %w", err)
	}

	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			g.logger.LogAttrs(logCtx, slog.LevelWarn, "Cannot remove work directory",
				withAttrs(slogArgs, slog.String("dir", workDir), slog.String("err", err.Error()))...)
		}
	}()

	// inputs may have changed since the previous run
	if cache, ok := g.extractor.(durationCache); ok {
		cache.ResetDurations()
	}

	jobs, err := Schedule(&req.Grid, req.Inputs, workDir)
	if err != nil {
		return nil, err
	}

	g.logger.LogAttrs(logCtx, slog.LevelInfo, "Extracting thumbnails",
		withAttrs(slogArgs,
			slog.Int("count", len(jobs)),
			slog.Int("inputs", len(req.Inputs)),
			slog.Int("concurrency", g.cfg.Concurrency),
			slog.String("workdir", workDir),
		)...)

	dispatcher := NewDispatcher(g.extractor, g.cfg.Concurrency, g.logger)
	dispatcher.OnFrame = req.OnFrame
	dispatcher.LogArgs = slogArgs

	frames, err := dispatcher.Dispatch(ctx, jobs)
	if err != nil {
		return nil, err
	}

	canvas, geom, err := Compose(frames, &req.Grid)
	if err != nil {
		return nil, fmt.Errorf("cannot compose contact sheet: %w", err)
	}

	// the run may have been interrupted while composing
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := SaveImage(canvas, req.Output, req.Grid.JPEGQuality, req.Grid.Force); err != nil {
		return nil, err
	}

	res := &GenerateResult{
		Output:   req.Output,
		Geometry: geom,
		Frames:   len(frames),
		Duration: time.Since(start),
	}

	g.logger.LogAttrs(logCtx, slog.LevelInfo, "Contact sheet written",
		withAttrs(slogArgs,
			slog.String("dst", res.Output),
			slog.Int("width", geom.Width),
			slog.Int("height", geom.Height),
			slog.Duration("duration", res.Duration),
		)...)

	return res, nil
}

// CheckOutput refuses to touch an existing output unless force is set
func CheckOutput(output string, force bool) error {
	info, err := os.Stat(output)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("cannot check output %s: %w", output, err)
	}

	if info.IsDir() {
		return &ValidationError{
			Type: ValidationErrTypeNoOutput,
			Msg:  fmt.Sprintf("output %s is a directory", output),
		}
	}

	if !force {
		return fmt.Errorf("%w: %s", ErrOutputExists, output)
	}

	return nil
}

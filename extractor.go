package vidthumb

import (
	"context"
	"io"
	"log/slog"
)

// Extractor writes a single still image for a job into job.OutputPath.
// A non-nil error fails the whole run.
type Extractor interface {
	Extract(ctx context.Context, job *SampleJob) error
}

// durationCache is implemented by extractors that remember per-input state between jobs
type durationCache interface {
	ResetDurations()
}

// Thumbnailer extracts frames with ffmpegthumbnailer
type Thumbnailer struct {
	path string

	// passthrough receives extractor output in debug mode
	passthrough io.Writer

	logger *slog.Logger
}

// NewThumbnailer constructs an extractor around ffmpegthumbnailer binary at path,
// debugOut may be nil to discard the tool output
func NewThumbnailer(path string, debugOut io.Writer, logger *slog.Logger) *Thumbnailer {
	return &Thumbnailer{
		path:        path,
		passthrough: debugOut,
		logger:      logger,
	}
}

func (t *Thumbnailer) Extract(ctx context.Context, job *SampleJob) error {
	_, err := launchCommand(launchParams{
		ctx:         ctx,
		path:        t.path,
		args:        BuildThumbnailerArgs(job),
		passthrough: t.passthrough,
		logger:      t.logger,
		LogArgs:     jobAttrs(job),
	})

	return err
}

func jobAttrs(job *SampleJob) []slog.Attr {
	return []slog.Attr{
		slog.Int("idx", job.Index),
		slog.String("input", job.Video),
		slog.Int("percent", job.Percent),
	}
}

package vidthumb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// FfmpegExtractor extracts frames with ffmpeg.
// Media durations are probed with ffprobe once per input and cached
// until ResetDurations, Generator resets them at the start of every run.
type FfmpegExtractor struct {
	ffmpegPath  string
	ffprobePath string
	headersStr  string

	passthrough io.Writer

	logger *slog.Logger

	mu        sync.Mutex
	durations map[string]*durationProbe
}

type durationProbe struct {
	once      sync.Once
	duration  float64
	err       error
	cancelled bool
}

// NewFfmpegExtractor constructs an ffmpeg based extractor,
// headers are passed to both tools when an input is a network url
func NewFfmpegExtractor(ffmpegPath, ffprobePath string, headers map[string]string, debugOut io.Writer, logger *slog.Logger) *FfmpegExtractor {
	return &FfmpegExtractor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		headersStr:  BuildHeadersStr(headers),
		passthrough: debugOut,
		logger:      logger,
		durations:   map[string]*durationProbe{},
	}
}

func (e *FfmpegExtractor) Extract(ctx context.Context, job *SampleJob) error {
	duration, err := e.getDuration(ctx, job.Video)
	if err != nil {
		return err
	}

	timePoint := (duration / 100) * float64(job.Percent)

	_, err = launchCommand(launchParams{
		ctx:         ctx,
		path:        e.ffmpegPath,
		args:        BuildFfmpegArgs(job, timePoint, e.headersStr),
		passthrough: e.passthrough,
		logger:      e.logger,
		LogArgs:     withAttrs(jobAttrs(job), slog.Float64("time", timePoint)),
	})

	return err
}

func (e *FfmpegExtractor) getDuration(ctx context.Context, mediaURL string) (float64, error) {
	e.mu.Lock()
	probe, ok := e.durations[mediaURL]
	if !ok {
		probe = &durationProbe{}
		e.durations[mediaURL] = probe
	}
	e.mu.Unlock()

	probe.once.Do(func() {
		probe.duration, probe.err = e.probeDuration(ctx, mediaURL)
		probe.cancelled = probe.err != nil && ctx.Err() != nil
	})

	if probe.cancelled {
		// a probe killed by its run's context says nothing about the input
		e.mu.Lock()
		if e.durations[mediaURL] == probe {
			delete(e.durations, mediaURL)
		}
		e.mu.Unlock()

		if ctx.Err() == nil {
			return e.getDuration(ctx, mediaURL)
		}
	}

	return probe.duration, probe.err
}

// ResetDurations forgets every cached duration, inputs are probed again on next use
func (e *FfmpegExtractor) ResetDurations() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.durations = map[string]*durationProbe{}
}

func (e *FfmpegExtractor) probeDuration(ctx context.Context, mediaURL string) (float64, error) {
	stdout, err := launchCommand(launchParams{
		ctx:        ctx,
		path:       e.ffprobePath,
		args:       BuildFfprobeDurationArgs(mediaURL, e.headersStr),
		needStdout: true,
		logger:     e.logger,
		LogArgs:    []slog.Attr{slog.String("input", mediaURL)},
	})
	if err != nil {
		return 0, err
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse duration of %s: %w", mediaURL, err)
	}

	if duration <= 0 {
		return 0, fmt.Errorf("media %s reports non-positive duration %g", mediaURL, duration)
	}

	return duration, nil
}

package vidthumb

import (
	"io"
	"log/slog"
)

// Backend selects which external tool extracts single frames
type Backend string

const (
	// BackendThumbnailer extracts frames with ffmpegthumbnailer
	BackendThumbnailer Backend = "ffmpegthumbnailer"
	// BackendFfmpeg extracts frames with ffmpeg, probing durations with ffprobe
	BackendFfmpeg Backend = "ffmpeg"
)

const (
	// DefaultWidth is a default total contact sheet width in pixels
	DefaultWidth = 1024
	// DefaultColumns is a default number of thumbnails horizontally
	DefaultColumns = 3
	// DefaultRows is a default number of thumbnails vertically
	DefaultRows = 8
	// DefaultJPEGQuality is used when the output is a jpeg and no quality was set
	DefaultJPEGQuality = 90

	// Border is a gutter width around every cell
	Border = 1

	frameFilename = "%03d.png"
)

type (
	// Config configures a Generator, i.e. how frames are extracted
	Config struct {
		// Backend selects the frame extraction tool, default: BackendThumbnailer
		Backend Backend
		// ExtractorPath path to the extractor binary, default: search binary in OS $PATH variable
		ExtractorPath string
		// FfprobePath path to ffprobe binary, used by BackendFfmpeg only
		FfprobePath string
		// Concurrency limits amount of concurrently running extractions,
		// 0 means extractions run one after another
		Concurrency int
		// TempDir is a parent directory of the per-run work directory, default: os.TempDir()
		TempDir string
		// Debug passes extractor stdout and stderr through to DebugOutput
		Debug bool
		// DebugOutput receives extractor output when Debug is set, default: os.Stderr
		DebugOutput io.Writer
		// SkipVersionCheck disables extractor version verification
		SkipVersionCheck bool
		// Headers configures which headers ffmpeg should pass if an input is a network url
		Headers map[string]string
		// Extractor overrides the external tool, Backend and ExtractorPath are ignored when set
		Extractor Extractor
		// Logger set pre-configured logger if you have one, default: json logger to stdout with debug log level
		Logger *slog.Logger
	}

	// GridConfig describes the contact sheet layout
	GridConfig struct {
		// Width is a requested total width in pixels, each cell gets Width / Columns
		Width int
		// Columns is a number of thumbnails horizontally
		Columns int
		// Rows is a number of thumbnails vertically
		Rows int
		// Aspect is an aspect ratio of one cell, nil means it is taken from the first frame
		Aspect *AspectRatio
		// Offset shifts every sample position by this amount of percent
		Offset int
		// Force allows overwriting an existing output
		Force bool
		// JPEGQuality is used when the output is a jpeg (1-100)
		JPEGQuality int
	}
)

// DefaultGridConfig returns the layout used when nothing is configured
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Width:       DefaultWidth,
		Columns:     DefaultColumns,
		Rows:        DefaultRows,
		JPEGQuality: DefaultJPEGQuality,
	}
}

// Cells returns total count of thumbnails in the grid
func (c *GridConfig) Cells() int {
	return c.Columns * c.Rows
}

// CellWidth returns a width of one cell, the total width is truncated to a multiple of Columns
func (c *GridConfig) CellWidth() int {
	if c.Columns <= 0 {
		return 0
	}

	return c.Width / c.Columns
}

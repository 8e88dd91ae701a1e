package vidthumb

import (
	"fmt"
	"path/filepath"
	"strings"
)

type ValidationErrType int

const (
	ValidationErrTypeNoInputs ValidationErrType = iota
	ValidationErrTypeNoOutput
	ValidationErrTypeOutputFormat
	ValidationErrTypeWidth
	ValidationErrTypeGridDims
	ValidationErrTypeAspect
	ValidationErrTypeOffset
	ValidationErrTypeQuality
	ValidationErrTypeConcurrency
	ValidationErrTypeBackend
	ValidationErrTypeCellSize
)

type ValidationError struct {
	Type ValidationErrType
	Msg  string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validateGrid(grid *GridConfig) error {
	if grid.Columns < 1 {
		return &ValidationError{
			Type: ValidationErrTypeGridDims,
			Msg:  fmt.Sprintf("number of thumbnails horizontally should be at least 1, got %d", grid.Columns),
		}
	}

	if grid.Rows < 1 {
		return &ValidationError{
			Type: ValidationErrTypeGridDims,
			Msg:  fmt.Sprintf("number of thumbnails vertically should be at least 1, got %d", grid.Rows),
		}
	}

	if grid.Width < 1 {
		return &ValidationError{
			Type: ValidationErrTypeWidth,
			Msg:  fmt.Sprintf("width should be positive, got %d", grid.Width),
		}
	}

	if grid.CellWidth() <= 2*Border {
		return &ValidationError{
			Type: ValidationErrTypeCellSize,
			Msg: fmt.Sprintf("width %d is too small for %d columns, each cell needs more than %d pixels",
				grid.Width, grid.Columns, 2*Border),
		}
	}

	if grid.Aspect != nil {
		if grid.Aspect.Width <= 0 || grid.Aspect.Height <= 0 {
			return &ValidationError{
				Type: ValidationErrTypeAspect,
				Msg:  fmt.Sprintf("aspect ratio %s must be positive", grid.Aspect),
			}
		}

		if h := grid.Aspect.HeightFor(grid.CellWidth()); h <= 2*Border {
			return &ValidationError{
				Type: ValidationErrTypeCellSize,
				Msg:  fmt.Sprintf("aspect ratio %s gives cell height %d, which leaves no room inside the border", grid.Aspect, h),
			}
		}
	}

	if grid.Offset < 0 || grid.Offset >= 100 {
		return &ValidationError{
			Type: ValidationErrTypeOffset,
			Msg:  fmt.Sprintf("offset should be in range 0-99, got %d", grid.Offset),
		}
	}

	if grid.JPEGQuality != 0 && (grid.JPEGQuality < 1 || grid.JPEGQuality > 100) {
		return &ValidationError{
			Type: ValidationErrTypeQuality,
			Msg:  fmt.Sprintf("jpeg quality should be in range 1-100, got %d", grid.JPEGQuality),
		}
	}

	return nil
}

func validateInputs(videos []string) error {
	if len(videos) == 0 {
		return &ValidationError{
			Type: ValidationErrTypeNoInputs,
			Msg:  "at least one input video should be provided",
		}
	}

	for idx, video := range videos {
		if len(strings.TrimSpace(video)) == 0 {
			return &ValidationError{
				Type: ValidationErrTypeNoInputs,
				Msg:  fmt.Sprintf("input %d has an empty path", idx),
			}
		}
	}

	return nil
}

func validateOutput(output string) error {
	if len(output) == 0 {
		return &ValidationError{
			Type: ValidationErrTypeNoOutput,
			Msg:  "output image path should be provided",
		}
	}

	if _, ok := encoderFor(output); !ok {
		return &ValidationError{
			Type: ValidationErrTypeOutputFormat,
			Msg:  fmt.Sprintf("unsupported output format %q, use one of: %s", filepath.Ext(output), strings.Join(supportedOutputExts(), ", ")),
		}
	}

	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Concurrency < 0 {
		return &ValidationError{
			Type: ValidationErrTypeConcurrency,
			Msg:  fmt.Sprintf("concurrency cannot be negative, got %d", cfg.Concurrency),
		}
	}

	if cfg.Extractor != nil {
		return nil
	}

	switch cfg.Backend {
	case BackendThumbnailer, BackendFfmpeg:
	default:
		return &ValidationError{
			Type: ValidationErrTypeBackend,
			Msg:  fmt.Sprintf("unknown extractor backend: %q", cfg.Backend),
		}
	}

	return nil
}

package vidthumb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGrid(t *testing.T) {
	wide := &AspectRatio{Width: 200, Height: 1}

	tests := []struct {
		name    string
		modify  func(g *GridConfig)
		wantErr bool
		errType ValidationErrType
	}{
		{"defaults are valid", func(g *GridConfig) {}, false, 0},
		{"zero columns", func(g *GridConfig) { g.Columns = 0 }, true, ValidationErrTypeGridDims},
		{"zero rows", func(g *GridConfig) { g.Rows = 0 }, true, ValidationErrTypeGridDims},
		{"zero width", func(g *GridConfig) { g.Width = 0 }, true, ValidationErrTypeWidth},
		{"cells too narrow", func(g *GridConfig) { g.Width = 6; g.Columns = 3 }, true, ValidationErrTypeCellSize},
		{"aspect too wide", func(g *GridConfig) { g.Aspect = wide }, true, ValidationErrTypeCellSize},
		{"negative offset", func(g *GridConfig) { g.Offset = -1 }, true, ValidationErrTypeOffset},
		{"offset 100", func(g *GridConfig) { g.Offset = 100 }, true, ValidationErrTypeOffset},
		{"offset 99", func(g *GridConfig) { g.Offset = 99 }, false, 0},
		{"quality too high", func(g *GridConfig) { g.JPEGQuality = 101 }, true, ValidationErrTypeQuality},
		{"unset quality", func(g *GridConfig) { g.JPEGQuality = 0 }, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := DefaultGridConfig()
			tt.modify(&grid)

			err := validateGrid(&grid)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.errType, validationErr.Type)
		})
	}
}

func TestValidateOutput(t *testing.T) {
	tests := []struct {
		output  string
		wantErr bool
	}{
		{"sheet.png", false},
		{"sheet.JPG", false},
		{"dir/sheet.jpeg", false},
		{"sheet.bmp", false},
		{"sheet.tiff", false},
		{"sheet.gif", false},
		{"sheet.webp", true},
		{"sheet", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			err := validateOutput(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, validateConfig(&Config{Backend: BackendThumbnailer}))
	assert.NoError(t, validateConfig(&Config{Backend: BackendFfmpeg, Concurrency: 4}))
	assert.NoError(t, validateConfig(&Config{Backend: "whatever", Extractor: newFakeExtractor()}))

	var validationErr *ValidationError

	require.ErrorAs(t, validateConfig(&Config{Backend: "mplayer"}), &validationErr)
	assert.Equal(t, ValidationErrTypeBackend, validationErr.Type)

	require.ErrorAs(t, validateConfig(&Config{Backend: BackendFfmpeg, Concurrency: -1}), &validationErr)
	assert.Equal(t, ValidationErrTypeConcurrency, validationErr.Type)
}

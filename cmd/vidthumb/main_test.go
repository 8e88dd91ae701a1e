package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codercms/vidthumb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefaults(t *testing.T) *vidthumb.EnvDefaults {
	t.Helper()

	defaults, err := vidthumb.LoadEnvDefaults()
	require.NoError(t, err)

	return defaults
}

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{"-o", "sheet.png", "-x", "4", "a.mp4", "-p", "2", "b.mp4", "--aspect", "16/9", "-f"}, testDefaults(t), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.mp4", "b.mp4"}, opts.inputs)
	assert.Equal(t, "sheet.png", opts.output)
	assert.Equal(t, 4, opts.columns)
	assert.Equal(t, vidthumb.DefaultRows, opts.rows)
	assert.Equal(t, vidthumb.DefaultWidth, opts.width)
	assert.Equal(t, 2, opts.processes)
	assert.Equal(t, "16/9", opts.aspect)
	assert.True(t, opts.force)
	assert.False(t, opts.debug)
}

func TestParseArgs_LongNames(t *testing.T) {
	opts, err := parseArgs([]string{"--output=sheet.jpg", "--width", "800", "--processes=3", "--debug", "--force", "a.mp4"}, testDefaults(t), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "sheet.jpg", opts.output)
	assert.Equal(t, 800, opts.width)
	assert.Equal(t, 3, opts.processes)
	assert.True(t, opts.debug)
	assert.True(t, opts.force)
}

func TestParseArgs_Terminator(t *testing.T) {
	opts, err := parseArgs([]string{"-o", "sheet.png", "first.mp4", "--", "-a.mp4", "-b.mp4"}, testDefaults(t), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, []string{"first.mp4", "-a.mp4", "-b.mp4"}, opts.inputs)
	assert.Equal(t, "sheet.png", opts.output)

	opts, err = parseArgs([]string{"-o", "sheet.png", "--", "--", "-x"}, testDefaults(t), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, []string{"--", "-x"}, opts.inputs)
}

func TestParseArgs_EnvDefaults(t *testing.T) {
	t.Setenv("VIDTHUMB_PROCESSES", "6")
	t.Setenv("VIDTHUMB_WIDTH", "640")

	opts, err := parseArgs([]string{"-o", "sheet.png", "a.mp4"}, testDefaults(t), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 6, opts.processes)
	assert.Equal(t, 640, opts.width)
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no inputs", []string{"-o", "sheet.png"}},
		{"no output", []string{"a.mp4"}},
		{"bad number", []string{"-o", "sheet.png", "-x", "three", "a.mp4"}},
		{"unknown flag", []string{"-o", "sheet.png", "--colour", "a.mp4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.args, testDefaults(t), io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"output exists", fmt.Errorf("%w: sheet.png", vidthumb.ErrOutputExists), exitOutputExists},
		{"extraction failed", &vidthumb.ExtractionError{Index: 1, Video: "a.mp4", Percent: 33, Err: errors.New("exit status 1")}, exitExtractionFailed},
		{"invalid config", &vidthumb.ValidationError{Type: vidthumb.ValidationErrTypeAspect, Msg: "bad"}, exitInvalidConfig},
		{"wrapped invalid config", fmt.Errorf("cannot compose: %w", &vidthumb.ValidationError{Msg: "small"}), exitInvalidConfig},
		{"incomplete frames", vidthumb.ErrIncompleteFrames, exitFailure},
		{"cancelled", context.Canceled, exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}

	assert.NotEqual(t, exitOutputExists, exitExtractionFailed)
	assert.NotEqual(t, exitOutputExists, exitFailure)
	assert.NotEqual(t, exitExtractionFailed, exitFailure)
}

func TestRun_OutputExists(t *testing.T) {
	output := filepath.Join(t.TempDir(), "sheet.png")
	require.NoError(t, os.WriteFile(output, []byte("previous"), 0o644))

	// the extractor path does not exist, the run must stop before looking at it
	var stderr strings.Builder
	code := run(context.Background(), []string{"-o", output, "--extractor", filepath.Join(t.TempDir(), "missing"), "a.mp4"}, &stderr)

	assert.Equal(t, exitOutputExists, code)
	assert.Contains(t, stderr.String(), "already exists")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestRun_InvalidAspect(t *testing.T) {
	var stderr strings.Builder
	code := run(context.Background(), []string{"-o", filepath.Join(t.TempDir(), "sheet.png"), "--aspect", "wide", "a.mp4"}, &stderr)

	assert.Equal(t, exitInvalidConfig, code)
	assert.Contains(t, stderr.String(), "invalid aspect ratio")
}

func TestRun_Usage(t *testing.T) {
	var stderr strings.Builder

	assert.Equal(t, exitInvalidConfig, run(context.Background(), nil, &stderr))
	assert.Contains(t, stderr.String(), "USAGE")

	assert.Equal(t, exitOK, run(context.Background(), []string{"-h"}, io.Discard))
}

func TestRun_MissingExtractor(t *testing.T) {
	var stderr strings.Builder
	code := run(context.Background(), []string{
		"-o", filepath.Join(t.TempDir(), "sheet.png"),
		"--extractor", filepath.Join(t.TempDir(), "missing"),
		"a.mp4",
	}, &stderr)

	assert.Equal(t, exitFailure, code)
}

package vidthumb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path"
	"strings"
	"time"
)

type launchParams struct {
	ctx context.Context

	path string
	args []string

	needStdout bool

	// passthrough receives a copy of stdout and stderr, nil discards them
	passthrough io.Writer

	logger *slog.Logger

	// LogArgs is an additional log launchParams that will be appended to logs
	LogArgs []slog.Attr
}

var logCtx = context.Background()

const killWaitDelay = time.Second

// launchCommand runs a command to completion and returns its stdout when requested
func launchCommand(params launchParams) (string, error) {
	var cmd *exec.Cmd

	if params.ctx != nil {
		cmd = exec.CommandContext(params.ctx, params.path, params.args...)
		// children of a killed process may hold the output pipes open
		cmd.WaitDelay = killWaitDelay
	} else {
		cmd = exec.Command(params.path, params.args...)
	}

	var stdout, stderr strings.Builder

	cmdName := path.Base(params.path)

	switch {
	case params.needStdout && params.passthrough != nil:
		cmd.Stdout = io.MultiWriter(&stdout, params.passthrough)
	case params.needStdout:
		cmd.Stdout = &stdout
	case params.passthrough != nil:
		cmd.Stdout = params.passthrough
	}

	if params.passthrough != nil {
		cmd.Stderr = io.MultiWriter(&stderr, params.passthrough)
	} else {
		cmd.Stderr = &stderr
	}

	if params.logger != nil {
		args := params.LogArgs
		args = append(args,
			slog.String("cmd", cmd.String()),
		)

		params.logger.LogAttrs(logCtx, slog.LevelDebug, "Launching "+cmdName, args...)
	}

	start := time.Now()

	if err := cmd.Start(); err != nil {
		if params.logger != nil {
			args := params.LogArgs
			args = append(args,
				slog.String("err", err.Error()),
			)

			params.logger.LogAttrs(logCtx, slog.LevelError, cmdName+" start failed", args...)
		}

		return "", fmt.Errorf("cannot start %s: %w", cmdName, err)
	}

	if err := cmd.Wait(); err != nil {
		if params.logger != nil {
			args := params.LogArgs
			args = append(args,
				slog.String("stderr", stderr.String()),
				slog.String("err", err.Error()),
			)

			params.logger.LogAttrs(logCtx, slog.LevelError, cmdName+" run failed", args...)
		}

		if msg := lastLine(stderr.String()); len(msg) > 0 {
			return "", fmt.Errorf("%s failed: %w: %s", cmdName, err, msg)
		}

		return "", fmt.Errorf("%s failed: %w", cmdName, err)
	}

	if params.logger != nil {
		args := params.LogArgs
		args = append(args, slog.Duration("duration", time.Since(start)))
		params.logger.LogAttrs(logCtx, slog.LevelDebug, cmdName+" command finished", args...)
	}

	return stdout.String(), nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}

	return s
}

// withAttrs copies attrs so that appends of concurrent callers never share a backing array
func withAttrs(base []slog.Attr, attrs ...slog.Attr) []slog.Attr {
	res := make([]slog.Attr, 0, len(base)+len(attrs))
	res = append(res, base...)

	return append(res, attrs...)
}

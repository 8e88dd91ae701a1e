package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/codercms/vidthumb"
)

func newFlagSet(opts *options, defaults *vidthumb.EnvDefaults, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("vidthumb", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.output, "o", "", "the output image (required)")
	fs.StringVar(&opts.output, "output", "", "the output image (required)")
	fs.IntVar(&opts.width, "w", defaults.Width, "total width of the output image")
	fs.IntVar(&opts.width, "width", defaults.Width, "total width of the output image")
	fs.IntVar(&opts.columns, "x", defaults.Columns, "number of thumbnails horizontally")
	fs.IntVar(&opts.rows, "y", defaults.Rows, "number of thumbnails vertically")
	fs.StringVar(&opts.aspect, "aspect", defaults.Aspect, "aspect ratio of thumbnails (i.e. 16/9 or 1.5)")
	fs.BoolVar(&opts.force, "f", false, "overwrite the destination file")
	fs.BoolVar(&opts.force, "force", false, "overwrite the destination file")
	fs.BoolVar(&opts.debug, "d", false, "print extractor output (use when the extractor fails)")
	fs.BoolVar(&opts.debug, "debug", false, "print extractor output (use when the extractor fails)")
	fs.IntVar(&opts.offset, "offset", 0, "shift the thumbnails positions by this amount of %")
	fs.IntVar(&opts.processes, "p", defaults.Processes, "the number of extractor processes to run simultaneously")
	fs.IntVar(&opts.processes, "processes", defaults.Processes, "the number of extractor processes to run simultaneously")
	fs.StringVar(&opts.backend, "backend", defaults.Backend, "frame extractor: ffmpegthumbnailer or ffmpeg")
	fs.StringVar(&opts.extractorPath, "extractor", defaults.ExtractorPath, "path to the extractor binary, default: search in $PATH")
	fs.StringVar(&opts.ffprobePath, "ffprobe", defaults.FfprobePath, "path to ffprobe, used by the ffmpeg backend")
	fs.IntVar(&opts.quality, "quality", defaults.JPEGQuality, "jpeg output quality (1-100)")
	fs.StringVar(&opts.tempDir, "tmpdir", defaults.TempDir, "parent directory of the temporary work directory")
	fs.BoolVar(&opts.noProgress, "no-progress", false, "do not show a progress bar")
	fs.BoolVar(&opts.skipVersionCheck, "skip-version-check", defaults.SkipVersionCheck, "do not verify the extractor version")

	fs.Usage = func() {
		fmt.Fprintf(output, "USAGE\n  vidthumb [flags] video_file [video_file...]\n\nFLAGS\n")
		w := tabwriter.NewWriter(output, 0, 2, 2, ' ', 0)
		fs.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(w, "\t-%s %s\t%s\n", f.Name, f.DefValue, f.Usage)
		})
		w.Flush()
	}

	return fs
}

// parseArgs accepts flags before, between and after input paths
func parseArgs(args []string, defaults *vidthumb.EnvDefaults, output io.Writer) (*options, error) {
	opts := &options{}
	fs := newFlagSet(opts, defaults, output)

	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}

		rest := fs.Args()
		if len(rest) == 0 {
			break
		}

		// everything after "--" is an input, even when it looks like a flag
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			opts.inputs = append(opts.inputs, rest...)
			break
		}

		opts.inputs = append(opts.inputs, rest[0])
		args = rest[1:]
	}

	if len(opts.inputs) == 0 {
		fs.Usage()
		return nil, errors.New("at least one video file should be provided")
	}

	if len(opts.output) == 0 {
		return nil, errors.New("the output image should be provided (-o)")
	}

	return opts, nil
}

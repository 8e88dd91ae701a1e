package vidthumb

import (
	"fmt"
	"strconv"
	"strings"
)

func BuildHeadersStr(headers map[string]string) string {
	var builder strings.Builder

	for key, val := range headers {
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(val)
		builder.WriteString("\r\n")
	}

	return builder.String()
}

// BuildThumbnailerArgs builds ffmpegthumbnailer arguments for a job,
// -s0 keeps the frame at its native size
func BuildThumbnailerArgs(job *SampleJob) []string {
	var percent strings.Builder

	percent.WriteString("-t")
	percent.WriteString(strconv.Itoa(job.Percent))
	percent.WriteString("%")

	return []string{
		"-i" + job.Video,
		percent.String(),
		"-o" + job.OutputPath,
		"-s0",
	}
}

// BuildFfmpegArgs builds ffmpeg arguments grabbing one frame at timePoint seconds
func BuildFfmpegArgs(job *SampleJob, timePoint float64, headersStr string) []string {
	args := []string{"-loglevel", "error"}

	if len(headersStr) > 0 {
		args = append(args, "-headers", headersStr)
	}

	return append(args,
		"-ss", fmt.Sprintf("%f", timePoint),
		"-i", job.Video,
		"-frames:v", "1",
		"-y",
		job.OutputPath,
	)
}

// BuildFfprobeDurationArgs builds ffprobe arguments printing a bare media duration in seconds
func BuildFfprobeDurationArgs(mediaURL string, headersStr string) []string {
	args := []string{"-v", "error"}

	if len(headersStr) > 0 {
		args = append(args, "-headers", headersStr)
	}

	return append(args,
		"-show_entries",
		"format=duration",
		"-of",
		"default=noprint_wrappers=1:nokey=1",
		mediaURL,
	)
}

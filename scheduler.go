package vidthumb

import (
	"fmt"
	"path/filepath"
)

// MaxPercent is the latest sample position, the very end of a file often yields no frame
const MaxPercent = 99

// SampleJob is a single frame extraction
type SampleJob struct {
	// Index is a grid cell index, row-major
	Index int
	// Video is a path to the source video
	Video string
	// VideoIndex is an index of Video in the input list
	VideoIndex int
	// Percent is a sample position within Video (0-99)
	Percent int
	// OutputPath is where the extractor must write the still image
	OutputPath string
}

// Schedule maps every grid cell to a video and a position within it.
//
// Cells are spread uniformly over a timeline made of all videos, one unit per video.
// Positions are 1-based and the timeline is split into n+1 parts, so neither the first
// nor the last sample lands exactly on a file boundary.
func Schedule(grid *GridConfig, videos []string, workDir string) ([]SampleJob, error) {
	if err := validateInputs(videos); err != nil {
		return nil, err
	}

	if grid.Columns < 1 || grid.Rows < 1 {
		return nil, &ValidationError{
			Type: ValidationErrTypeGridDims,
			Msg:  fmt.Sprintf("grid %dx%d has no cells", grid.Columns, grid.Rows),
		}
	}

	n := grid.Cells()
	m := len(videos)
	den := n + 1

	jobs := make([]SampleJob, n)

	for i := 0; i < n; i++ {
		num := (i + 1) * m

		videoIdx := num / den
		rem := num % den

		if videoIdx > m-1 {
			videoIdx = m - 1
			rem = den
		}

		percent := 100*rem/den + grid.Offset
		percent = max(0, min(MaxPercent, percent))

		jobs[i] = SampleJob{
			Index:      i,
			Video:      videos[videoIdx],
			VideoIndex: videoIdx,
			Percent:    percent,
			OutputPath: filepath.Join(workDir, fmt.Sprintf(frameFilename, i)),
		}
	}

	return jobs, nil
}

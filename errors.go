package vidthumb

import (
	"errors"
	"fmt"
)

var (
	// ErrOutputExists is returned when the output image exists and GridConfig.Force is not set
	ErrOutputExists = errors.New("output file already exists")
	// ErrIncompleteFrames is returned when composition receives fewer frames than grid cells
	ErrIncompleteFrames = errors.New("incomplete set of extracted frames")
)

// ExtractionError reports which job made the extractor fail
type ExtractionError struct {
	Index   int
	Video   string
	Percent int
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("cannot extract thumbnail %d from %s at %d%%: %v", e.Index, e.Video, e.Percent, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

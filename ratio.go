package vidthumb

import (
	"fmt"
	"regexp"
	"strconv"
)

var ratioPattern = regexp.MustCompile(`^(\d*\.?\d+)(/(\d*\.?\d+))?$`)

// AspectRatio is a width/height ratio of one cell, e.g. 16/9
type AspectRatio struct {
	Width  float64
	Height float64
}

// ParseAspectRatio parses either "W/H" or a single decimal like "1.5"
func ParseAspectRatio(expr string) (*AspectRatio, error) {
	match := ratioPattern.FindStringSubmatch(expr)
	if match == nil {
		return nil, &ValidationError{
			Type: ValidationErrTypeAspect,
			Msg:  fmt.Sprintf("invalid aspect ratio %q, expected W/H or a decimal number", expr),
		}
	}

	w, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil, &ValidationError{
			Type: ValidationErrTypeAspect,
			Msg:  fmt.Sprintf("invalid aspect ratio width %q: %v", match[1], err),
		}
	}

	h := 1.0
	if len(match[3]) > 0 {
		h, err = strconv.ParseFloat(match[3], 64)
		if err != nil {
			return nil, &ValidationError{
				Type: ValidationErrTypeAspect,
				Msg:  fmt.Sprintf("invalid aspect ratio height %q: %v", match[3], err),
			}
		}
	}

	if w <= 0 || h <= 0 {
		return nil, &ValidationError{
			Type: ValidationErrTypeAspect,
			Msg:  fmt.Sprintf("aspect ratio %q must be positive", expr),
		}
	}

	return &AspectRatio{Width: w, Height: h}, nil
}

// Value returns the ratio as width divided by height
func (r *AspectRatio) Value() float64 {
	return r.Width / r.Height
}

// HeightFor returns a cell height matching the ratio for the given cell width
func (r *AspectRatio) HeightFor(width int) int {
	return int(float64(width) * r.Height / r.Width)
}

func (r *AspectRatio) String() string {
	if r.Height == 1 {
		return strconv.FormatFloat(r.Width, 'g', -1, 64)
	}

	return strconv.FormatFloat(r.Width, 'g', -1, 64) + "/" + strconv.FormatFloat(r.Height, 'g', -1, 64)
}

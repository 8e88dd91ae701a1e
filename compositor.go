package vidthumb

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Background fills the canvas, it is visible as a gutter between cells
var Background = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}

// Geometry is a resolved size of the contact sheet
type Geometry struct {
	CellWidth  int
	CellHeight int
	Width      int
	Height     int
}

// CellOrigin returns the top-left pixel of cell idx, cells are filled row by row
func (g *Geometry) CellOrigin(idx, columns int) image.Point {
	return image.Pt((idx%columns)*g.CellWidth, (idx/columns)*g.CellHeight)
}

// ResolveGeometry computes cell and canvas size. Without an explicit aspect ratio
// the cell height follows the native ratio of the first frame (w0 x h0).
func ResolveGeometry(grid *GridConfig, first image.Config) (Geometry, error) {
	cellWidth := grid.CellWidth()

	var cellHeight int
	if grid.Aspect != nil {
		cellHeight = grid.Aspect.HeightFor(cellWidth)
	} else {
		if first.Width <= 0 || first.Height <= 0 {
			return Geometry{}, fmt.Errorf("first frame has invalid size %dx%d", first.Width, first.Height)
		}

		cellHeight = cellWidth * first.Height / first.Width
	}

	if cellWidth <= 2*Border || cellHeight <= 2*Border {
		return Geometry{}, &ValidationError{
			Type: ValidationErrTypeCellSize,
			Msg:  fmt.Sprintf("cell %dx%d leaves no room inside the border", cellWidth, cellHeight),
		}
	}

	return Geometry{
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
		Width:      grid.Width,
		Height:     cellHeight * grid.Rows,
	}, nil
}

// Compose pastes every frame into its cell. Frames must be ordered by index
// and cover every cell of the grid.
func Compose(frames []ExtractedFrame, grid *GridConfig) (*image.RGBA, Geometry, error) {
	n := grid.Cells()
	if n == 0 || len(frames) != n {
		return nil, Geometry{}, fmt.Errorf("%w: got %d of %d", ErrIncompleteFrames, len(frames), n)
	}

	for i, frame := range frames {
		if frame.Index != i || frame.Err != nil || len(frame.ImagePath) == 0 {
			return nil, Geometry{}, fmt.Errorf("%w: frame %d is missing", ErrIncompleteFrames, i)
		}
	}

	first, err := DecodeConfig(frames[0].ImagePath)
	if err != nil {
		return nil, Geometry{}, err
	}

	geom, err := ResolveGeometry(grid, first)
	if err != nil {
		return nil, Geometry{}, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, geom.Width, geom.Height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)

	maxW := geom.CellWidth - 2*Border
	maxH := geom.CellHeight - 2*Border

	for i, frame := range frames {
		img, err := LoadImage(frame.ImagePath)
		if err != nil {
			return nil, Geometry{}, err
		}

		origin := geom.CellOrigin(i, grid.Columns).Add(image.Pt(Border, Border))
		pasteFit(canvas, origin, img, maxW, maxH)
	}

	return canvas, geom, nil
}

// FitSize returns the largest size keeping the w:h ratio that fits into maxW x maxH, never upscaling
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}

	// compare w/h against maxW/maxH without floating point
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}

	return max(1, w*maxH/h), maxH
}

func pasteFit(canvas *image.RGBA, origin image.Point, img image.Image, maxW, maxH int) {
	src := img.Bounds()
	w, h := FitSize(src.Dx(), src.Dy(), maxW, maxH)
	dst := image.Rect(0, 0, w, h).Add(origin)

	if w == src.Dx() && h == src.Dy() {
		draw.Draw(canvas, dst, img, src.Min, draw.Over)

		return
	}

	draw.CatmullRom.Scale(canvas, dst, img, src, draw.Over, nil)
}

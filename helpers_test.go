package vidthumb

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errFakeExtractor = errors.New("exit status 1")

// fakeExtractor writes a solid PNG for each job instead of running a tool
type fakeExtractor struct {
	// sizes per video index, default 160x90
	sizes map[int]image.Point
	// failAt makes the job with this index fail, -1 disables
	failAt int
	delay  time.Duration

	mu    sync.Mutex
	calls []SampleJob

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{failAt: -1}
}

func (f *fakeExtractor) Extract(ctx context.Context, job *SampleJob) error {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	for {
		prev := f.maxInFlight.Load()
		if cur <= prev || f.maxInFlight.CompareAndSwap(prev, cur) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, *job)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if job.Index == f.failAt {
		return errFakeExtractor
	}

	size := image.Pt(160, 90)
	if s, ok := f.sizes[job.VideoIndex]; ok {
		size = s
	}

	return writeSolidPNG(job.OutputPath, size.X, size.Y, cellColor(job.Index))
}

func (f *fakeExtractor) Calls() []SampleJob {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]SampleJob(nil), f.calls...)
}

func cellColor(idx int) color.RGBA {
	return color.RGBA{R: uint8(10 + idx*7), G: uint8(200 - idx*5), B: uint8(idx * 3), A: 0xff}
}

func writeSolidPNG(path string, w, h int, c color.RGBA) error {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

// framesFor writes solid frames of the given sizes and returns them ordered by index
func framesFor(t *testing.T, sizes ...image.Point) []ExtractedFrame {
	t.Helper()

	dir := t.TempDir()
	frames := make([]ExtractedFrame, len(sizes))

	for i, size := range sizes {
		path := filepath.Join(dir, fmt.Sprintf(frameFilename, i))
		require.NoError(t, writeSolidPNG(path, size.X, size.Y, cellColor(i)))

		frames[i] = ExtractedFrame{Index: i, ImagePath: path}
	}

	return frames
}

func repeatSize(size image.Point, n int) []image.Point {
	res := make([]image.Point, n)
	for i := range res {
		res[i] = size
	}

	return res
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)

	return img
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

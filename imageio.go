package vidthumb

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// extractors may be configured to write webp stills
	_ "golang.org/x/image/webp"
)

type encodeFunc func(w io.Writer, img image.Image, quality int) error

var encoders = map[string]encodeFunc{
	".png": func(w io.Writer, img image.Image, _ int) error {
		return png.Encode(w, img)
	},
	".jpg":  encodeJPEG,
	".jpeg": encodeJPEG,
	".bmp": func(w io.Writer, img image.Image, _ int) error {
		return bmp.Encode(w, img)
	},
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
	".gif": func(w io.Writer, img image.Image, _ int) error {
		return gif.Encode(w, img, nil)
	},
}

func encodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality == 0 {
		quality = DefaultJPEGQuality
	}

	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

func encodeTIFF(w io.Writer, img image.Image, _ int) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

func encoderFor(path string) (encodeFunc, bool) {
	enc, ok := encoders[strings.ToLower(filepath.Ext(path))]

	return enc, ok
}

func supportedOutputExts() []string {
	exts := make([]string, 0, len(encoders))
	for ext := range encoders {
		exts = append(exts, ext)
	}

	sort.Strings(exts)

	return exts
}

// LoadImage decodes a still image written by an extractor
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode frame %s: %w", path, err)
	}

	return img, nil
}

// DecodeConfig reads image dimensions without decoding pixels
func DecodeConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("cannot open frame: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, fmt.Errorf("cannot decode frame %s: %w", path, err)
	}

	return cfg, nil
}

// SaveImage encodes img by the extension of path.
// The image is written to a temporary file next to path and moved into place,
// so path never holds a partially written image.
// Without overwrite an existing path is left alone and ErrOutputExists is returned.
func SaveImage(img image.Image, path string, quality int, overwrite bool) (err error) {
	enc, ok := encoderFor(path)
	if !ok {
		return validateOutput(path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = enc(tmp, img, quality); err != nil {
		return fmt.Errorf("cannot encode output image: %w", err)
	}

	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("cannot set output file mode: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("cannot write output file: %w", err)
	}

	if !overwrite {
		return linkOutput(tmp.Name(), path)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cannot move output file into place: %w", err)
	}

	return nil
}

// linkOutput publishes tmp at path only if nothing is there yet
func linkOutput(tmp, path string) error {
	err := os.Link(tmp, path)
	if err == nil {
		os.Remove(tmp)

		return nil
	}

	if errors.Is(err, fs.ErrExist) {
		os.Remove(tmp)

		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	}

	// no hard links on this filesystem
	if _, statErr := os.Lstat(path); statErr == nil {
		os.Remove(tmp)

		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)

		return fmt.Errorf("cannot move output file into place: %w", err)
	}

	return nil
}

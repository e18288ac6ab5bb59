package export

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
)

// WriteModel encodes parts in model format f.
func WriteModel(w io.Writer, parts []Part, f Format) error {
	switch f {
	case FormatGLB:
		return WriteGLTF(w, parts, true)
	case FormatGLTF:
		return WriteGLTF(w, parts, false)
	case FormatSTL:
		return WriteSTL(w, parts)
	}
	return fmt.Errorf("%w: %s is not a model format", ErrUnsupportedFormat, f)
}

// SaveModel writes parts to path, choosing the encoding from its extension.
func SaveModel(path string, parts []Part) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	if !f.IsModel() {
		return fmt.Errorf("%w: %s is not a model format", ErrUnsupportedFormat, f)
	}
	return writeFile(path, func(w io.Writer) error { return WriteModel(w, parts, f) })
}

// SaveImage writes img to path as PNG or WebP depending on its extension.
func SaveImage(path string, img image.Image) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	if f.IsModel() {
		return fmt.Errorf("%w: %s is not an image format", ErrUnsupportedFormat, f)
	}
	return writeFile(path, func(w io.Writer) error { return EncodeImage(w, img, f) })
}

func writeFile(path string, encode func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return encode(out)
}

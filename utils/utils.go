package utils

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultExt is appended to output names that carry no extension.
const DefaultExt = ".jpg"

var (
	ErrNotFound = errors.New("image not found")
	ErrDecode   = errors.New("cannot decode image")
	ErrEncode   = errors.New("cannot encode image")
	ErrWrite    = errors.New("cannot write image")
)

// ReadImage opens and decodes the image at path. Errors wrap ErrNotFound or
// ErrDecode.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		// Unreadable paths are reported the same way as missing ones.
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return img, nil
}

// OutputPath returns name with DefaultExt appended when it has no extension.
func OutputPath(name string) string {
	if filepath.Ext(name) == "" {
		return name + DefaultExt
	}
	return name
}

// SaveImage encodes img into filename, choosing the format from the
// extension. Errors wrap ErrEncode or ErrWrite.
func SaveImage(img image.Image, filename string) error {
	encode, err := encoderFor(filename)
	if err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := encode(f, img); err != nil {
		f.Close()
		os.Remove(filename)
		return fmt.Errorf("%w: %s: %v", ErrEncode, filename, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

type encodeFunc func(f *os.File, img image.Image) error

func encoderFor(filename string) (encodeFunc, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return func(f *os.File, img image.Image) error { return png.Encode(f, img) }, nil
	case ".jpg", ".jpeg":
		return func(f *os.File, img image.Image) error {
			return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
		}, nil
	case ".gif":
		return func(f *os.File, img image.Image) error { return gif.Encode(f, img, nil) }, nil
	case ".bmp":
		return func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }, nil
	case ".tif", ".tiff":
		return func(f *os.File, img image.Image) error { return tiff.Encode(f, img, nil) }, nil
	default:
		return nil, fmt.Errorf("%w: unsupported extension %q", ErrEncode, filepath.Ext(filename))
	}
}

// ImageSink writes finished images to disk.
type ImageSink struct{}

func (ImageSink) Save(path string, img image.Image) error {
	return SaveImage(img, path)
}

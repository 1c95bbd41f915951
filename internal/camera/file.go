package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"

	_ "golang.org/x/image/bmp"
)

// FileDevice serves frames from an image file on disk. The file is read again
// for every frame, so an external process can keep replacing it (a webcam
// snapshot daemon, or a fixture in tests).
type FileDevice struct {
	Path string
}

func (d *FileDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, classifyFileError(d.Path, err)
	}
	_ = f.Close()
	return &fileStream{path: d.Path}, nil
}

func classifyFileError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrDeviceUnavailable, path, err)
	}
}

type fileStream struct {
	path string
}

func (s *fileStream) ReadFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, classifyFileError(s.path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return img, nil
}

func (s *fileStream) Close() error { return nil }

package source

import (
	"context"
	"image"
	"os"
)

// FileSource reads frames from the local filesystem.
type FileSource struct {
	template Template
}

func NewFileSource(t Template) *FileSource {
	return &FileSource{template: t}
}

func (s *FileSource) FrameCount() int {
	return 0
}

func (s *FileSource) Locate(index int) string {
	return s.template(index)
}

func (s *FileSource) Fetch(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.template(index))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decode(f)
}

func (s *FileSource) Close() error {
	return nil
}

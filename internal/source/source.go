package source

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	_ "golang.org/x/image/webp"
)

// Source resolves frame indexes (1-based) to decoded images.
type Source interface {
	// FrameCount reports how many frames the source knows about, or 0 when the
	// count is only known to the caller (URL and path templates).
	FrameCount() int
	Fetch(ctx context.Context, index int) (image.Image, error)
	// Locate returns the address of a frame, as used by element-swap hosts.
	Locate(index int) string
	Close() error
}

// Open picks a source implementation from the shape of the template.
func Open(template string) (Source, error) {
	lower := strings.ToLower(template)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return NewHTTPSource(ParseTemplate(template), nil), nil
	case strings.HasSuffix(lower, ".pdf"):
		return NewPDFSource(template, DefaultPDFDPI)
	case template == "":
		return nil, fmt.Errorf("empty frame template")
	default:
		return NewFileSource(ParseTemplate(strings.TrimPrefix(template, "file://"))), nil
	}
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}

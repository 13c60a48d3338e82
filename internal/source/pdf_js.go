package source

import (
	"context"
	"errors"
	"image"
)

const DefaultPDFDPI = 150

var errNoPDF = errors.New("pdf frames are not supported in the browser")

type PDFSource struct{}

func NewPDFSource(path string, dpi int) (*PDFSource, error) {
	return nil, errNoPDF
}

func (f *PDFSource) FrameCount() int { return 0 }

func (f *PDFSource) Locate(index int) string { return "" }

func (f *PDFSource) Fetch(ctx context.Context, index int) (image.Image, error) {
	return nil, errNoPDF
}

func (f *PDFSource) Close() error { return nil }

//go:build !js

package source

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

const DefaultPDFDPI = 150

// PDFSource exposes the pages of a document as frames: page i is frame i.
type PDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewPDFSource(path string, dpi int) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = DefaultPDFDPI
	}
	return &PDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *PDFSource) FrameCount() int {
	return f.doc.NumPage()
}

func (f *PDFSource) Locate(index int) string {
	return fmt.Sprintf("%s#page=%d", f.path, index)
}

// Fetch opens its own document handle: fitz documents are not safe for
// concurrent rendering.
func (f *PDFSource) Fetch(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 1 || index > f.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range [1,%d]", index, f.doc.NumPage())
	}

	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()

	img, err := workerDoc.ImageDPI(index-1, float64(f.dpi))
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (f *PDFSource) Close() error {
	return f.doc.Close()
}

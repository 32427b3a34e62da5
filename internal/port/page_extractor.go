package port

import (
	"context"
	"io"
)

// Word is a positioned word on a page. X0 is the left edge and Top the
// distance from the top of the page, both in PDF points.
type Word struct {
	Text string
	X0   float64
	Top  float64
}

// Page carries everything the extraction strategies need from one PDF page:
// detected table cell grids, positioned words and plain text. Number is
// 1-based.
type Page struct {
	Number int
	Width  float64
	Grids  [][][]string
	Words  []Word
	Text   string
}

// Document is the page-level view of a PDF, fully buffered so strategies can
// revisit pages multiple times.
type Document struct {
	Pages []Page
}

// PageExtractor abstracts the PDF text/table extraction primitive. The
// extraction core never touches the PDF library directly.
type PageExtractor interface {
	Extract(ctx context.Context, r io.ReaderAt, size int64) (*Document, error)
}

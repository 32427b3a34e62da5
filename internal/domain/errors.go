package domain

import "errors"

var (
	// ErrUnsupportedFileType indicates the uploaded file is not a PDF.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrFileTooLarge indicates the uploaded file exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnreadableDocument indicates the PDF could not be opened or decoded.
	// This is the only fatal extraction failure: no partial result is
	// meaningful without being able to read the source.
	ErrUnreadableDocument = errors.New("unreadable document")
)

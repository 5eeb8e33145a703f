package service

import (
	"errors"
	"fmt"
)

var (
	ErrNoFiles         = errors.New("no files uploaded")
	ErrUnsupportedFile = errors.New("only pdf files are supported")
	ErrFileTooLarge    = errors.New("file size exceeds maximum limit")
	ErrNoDocuments     = errors.New("no documents found for this chat session")
)

// PDFError reports a file that could not be turned into text. Error()
// is safe to show to clients.
type PDFError struct {
	Filename string
	Err      error
}

func (e *PDFError) Error() string {
	return fmt.Sprintf("Failed to process PDF: %v", e.Err)
}

func (e *PDFError) Unwrap() error { return e.Err }

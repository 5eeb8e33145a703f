package controller

import (
	"errors"
	"net/http"

	"docchat-be/internal/pkg/serverutils"
	"docchat-be/internal/service"
	"docchat-be/pkg/rag/turn"
)

// toHTTPError maps service errors onto client facing AppErrors. Anything
// unknown passes through and becomes a 500 in the error middleware.
func toHTTPError(err error) error {
	var pdfErr *service.PDFError
	switch {
	case errors.Is(err, service.ErrNoFiles):
		return serverutils.NewAppError(http.StatusBadRequest, "No files uploaded")
	case errors.Is(err, service.ErrUnsupportedFile):
		return serverutils.NewAppError(http.StatusBadRequest, "Only PDF files are supported")
	case errors.Is(err, service.ErrFileTooLarge):
		return serverutils.NewAppError(http.StatusRequestEntityTooLarge, "File size exceeds maximum limit")
	case errors.As(err, &pdfErr):
		return &serverutils.AppError{Code: http.StatusBadRequest, Message: pdfErr.Error(), Err: err}
	case errors.Is(err, service.ErrNoDocuments):
		return serverutils.NewAppError(http.StatusNotFound, "No documents found for this chat session")
	case errors.Is(err, turn.ErrQueryFailed):
		return &serverutils.AppError{
			Code:    http.StatusInternalServerError,
			Message: "An error occurred while processing your query. Please try again later.",
			Err:     err,
		}
	}
	return err
}

package controller

import (
	"fmt"
	"io"
	"mime/multipart"

	"docchat-be/internal/pkg/serverutils"
	"docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
	session serverutils.SessionCookie
	maxSize int64
}

func NewDocumentController(service service.IDocumentService, session serverutils.SessionCookie, maxSize int64) IDocumentController {
	return &documentController{service: service, session: session, maxSize: maxSize}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Post("/upload", c.Upload)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	sessionID := c.session.GetOrCreate(ctx)

	form, err := ctx.MultipartForm()
	if err != nil {
		return toHTTPError(service.ErrNoFiles)
	}

	headers := form.File["files"]
	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f := service.UploadFile{Filename: fh.Filename, Size: fh.Size}
		// Oversized files are rejected by the service on Size alone.
		if c.maxSize <= 0 || fh.Size <= c.maxSize {
			if f.Data, err = readFile(fh); err != nil {
				return err
			}
		}
		files = append(files, f)
	}

	res, err := c.service.Upload(ctx.UserContext(), sessionID, files)
	if err != nil {
		return toHTTPError(err)
	}

	return serverutils.SuccessResponse(ctx, fiber.StatusCreated, res)
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

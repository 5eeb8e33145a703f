package controller

import (
	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/serverutils"
	"docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
}

type queryController struct {
	service service.IQueryService
	session serverutils.SessionCookie
}

func NewQueryController(service service.IQueryService, session serverutils.SessionCookie) IQueryController {
	return &queryController{service: service, session: session}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/queries")
	h.Post("/ask", c.Ask)
}

func (c *queryController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID := c.session.GetOrCreate(ctx)
	res, err := c.service.Ask(ctx.UserContext(), sessionID, req.Question)
	if err != nil {
		return toHTTPError(err)
	}

	return serverutils.SuccessResponse(ctx, fiber.StatusOK, res)
}

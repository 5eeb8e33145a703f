package controller

import (
	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Check(ctx *fiber.Ctx) error
}

type healthController struct {
	project string
}

func NewHealthController(project string) IHealthController {
	return &healthController{project: project}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Check)
}

func (c *healthController) Check(ctx *fiber.Ctx) error {
	return serverutils.SuccessResponse(ctx, fiber.StatusOK, dto.HealthResponse{
		Status:  "healthy",
		Version: "v1",
		Project: c.project,
	})
}

package controller

import (
	"venture-ai-be/internal/dto"
	"venture-ai-be/internal/pkg/serverutils"
	"venture-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IJobController interface {
	RegisterRoutes(r fiber.Router, auth ...fiber.Handler)
	Submit(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type jobController struct {
	service service.IJobService
}

func NewJobController(service service.IJobService) IJobController {
	return &jobController{service: service}
}

func (c *jobController) RegisterRoutes(r fiber.Router, auth ...fiber.Handler) {
	h := r.Group("/jobs", auth...)
	h.Post("", c.Submit)
	h.Get(":id", c.Show)
}

func (c *jobController) Submit(ctx *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.UserId = serverutils.UserID(ctx, req.UserId)

	res, err := c.service.Submit(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Analysis job queued", res))
}

func (c *jobController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx, ctx.Query("user_id"))
	res, err := c.service.Get(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get job", res))
}

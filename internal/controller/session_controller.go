package controller

import (
	"venture-ai-be/internal/dto"
	"venture-ai-be/internal/pkg/serverutils"
	"venture-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router, auth ...fiber.Handler)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router, auth ...fiber.Handler) {
	h := r.Group("/sessions", auth...)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.UserId = serverutils.UserID(ctx, req.UserId)

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if res.Created {
		status = fiber.StatusCreated
	}
	return ctx.Status(status).JSON(serverutils.SuccessResponse("Session ready", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx, ctx.Query("user_id"))
	res, err := c.service.Get(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

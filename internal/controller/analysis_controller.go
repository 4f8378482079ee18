package controller

import (
	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/dto"
	"venture-ai-be/internal/pkg/serverutils"
	"venture-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAnalysisController interface {
	RegisterRoutes(r fiber.Router, auth ...fiber.Handler)
	Analyze(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	Followup(ctx *fiber.Ctx) error
	Query(ctx *fiber.Ctx) error
}

type analysisController struct {
	service service.IAnalysisService
}

func NewAnalysisController(service service.IAnalysisService) IAnalysisController {
	return &analysisController{service: service}
}

func (c *analysisController) RegisterRoutes(r fiber.Router, auth ...fiber.Handler) {
	h := r.Group("/analyses", auth...)
	h.Post("", c.Analyze)
	h.Get("", c.List)
	h.Get(":id", c.Show)

	r.Post("/ask", append(auth, c.Ask)...)
	r.Post("/followup", append(auth, c.Followup)...)
	r.Post("/query", append(auth, c.Query)...)
}

// parseBody decodes and validates a JSON body.
func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return serverutils.ValidateRequest(req)
}

func (c *analysisController) Analyze(ctx *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.UserId = serverutils.UserID(ctx, req.UserId)

	res, err := c.service.Analyze(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Analysis complete", res))
}

func (c *analysisController) List(ctx *fiber.Ctx) error {
	var req dto.ListAnalysesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.UserId = serverutils.UserID(ctx, req.UserId)

	res, err := c.service.List(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list analyses", res))
}

func (c *analysisController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Wrap(apperror.KindAnalysisNotFound, nil, "analysis %q not found", ctx.Params("id"))
	}
	res, err := c.service.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get analysis", res))
}

func (c *analysisController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.UserId = serverutils.UserID(ctx, req.UserId)

	res, err := c.service.Ask(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Question answered", res))
}

func (c *analysisController) Followup(ctx *fiber.Ctx) error {
	var req dto.FollowupRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.UserId = serverutils.UserID(ctx, req.UserId)

	res, err := c.service.Followup(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Follow-up questions generated", res))
}

func (c *analysisController) Query(ctx *fiber.Ctx) error {
	var req dto.RoutedQueryRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.UserId = serverutils.UserID(ctx, req.UserId)

	res, err := c.service.Query(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Request handled", res))
}

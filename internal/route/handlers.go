package route

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateDraftInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		draft, err := svc.CreateDraft(c.Context(), currentUserID(c), req)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(draft)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		drafts, err := svc.ListDrafts(c.Context(), currentUserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(drafts)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		draft, err := svc.GetDraft(c.Context(), currentUserID(c), c.Params("id"))
		if err != nil {
			if errors.Is(err, ErrDraftNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "route not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(draft)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteDraft(c.Context(), currentUserID(c), c.Params("id")); err != nil {
			if errors.Is(err, ErrDraftNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "route not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/generate", authMiddleware, func(c *fiber.Ctx) error {
		var req GenerateInput
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		draft, err := svc.GenerateRoute(c.Context(), currentUserID(c), c.Params("id"), req)
		if err != nil {
			var violation *ConstraintViolation
			switch {
			case errors.Is(err, ErrDraftNotFound):
				return fiber.NewError(fiber.StatusNotFound, "route not found")
			case errors.Is(err, ErrGenerationInProgress):
				return fiber.NewError(fiber.StatusConflict, err.Error())
			case errors.As(err, &violation):
				return fiber.NewError(fiber.StatusUnprocessableEntity, violation.Reason)
			default:
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		return c.JSON(draft)
	})
}

func currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

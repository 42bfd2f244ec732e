package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/officevault/backend/internal/dto"
)

type UserHandler struct {
	auth AuthService
}

func NewUserHandler(auth AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// List returns the approved roster. The password field never
// serializes (json:"-" on the model).
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.auth.ListApproved()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list users",
		})
	}
	return c.JSON(users)
}

package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	summary, err := s.userService.GetPublicProfile(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}

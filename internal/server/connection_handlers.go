package server

import (
	"linknet/internal/models"

	"github.com/gofiber/fiber/v2"
)

type createConnectionRequest struct {
	ReceiverID uint `json:"receiver_id"`
}

type updateConnectionRequest struct {
	Status models.ConnectionStatus `json:"status"`
}

// CreateConnection handles POST /connections
func (s *Server) CreateConnection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req createConnectionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ReceiverID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("receiver_id is required"))
	}

	view, err := s.connectionService.RequestConnection(c.Context(), userID, req.ReceiverID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Connection request sent",
		"data":    view,
	})
}

// GetConnections handles GET /connections
func (s *Server) GetConnections(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 50)

	status := models.ConnectionStatus(c.Query("status", string(models.ConnectionStatusAccepted)))

	views, err := s.connectionService.ListConnections(c.Context(), userID, status, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(views)
}

// GetConnectionRequests handles GET /connections/requests
func (s *Server) GetConnectionRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	views, err := s.connectionService.ListIncomingRequests(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(views)
}

// GetSentRequests handles GET /connections/sent
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	views, err := s.connectionService.ListSentRequests(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(views)
}

// UpdateConnection handles PUT /connections/:id
func (s *Server) UpdateConnection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	connID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateConnectionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	view, svcErr := s.connectionService.UpdateStatus(c.Context(), userID, connID, req.Status)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"message": "Connection " + string(req.Status),
		"data":    view,
	})
}

// DeleteConnection handles DELETE /connections/:id
func (s *Server) DeleteConnection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	connID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.connectionService.RemoveConnection(c.Context(), userID, connID); svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{"message": "Connection removed"})
}

// CheckConnectionStatus handles GET /connections/check/:username
func (s *Server) CheckConnectionStatus(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	check, err := s.connectionService.CheckStatus(c.Context(), userID, username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(check)
}

// GetMutualConnections handles GET /connections/mutual/:username
func (s *Server) GetMutualConnections(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	result, err := s.connectionService.MutualConnections(c.Context(), userID, username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetConnectionSuggestions handles GET /connections/suggestions
func (s *Server) GetConnectionSuggestions(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	limit := c.QueryInt("limit", 10)

	suggestions, err := s.connectionService.SuggestConnections(c.Context(), userID, limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}

package server

import (
	"linknet/internal/models"

	"github.com/gofiber/fiber/v2"
)

type sendMessageToPeerRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
}

type sendMessageRequest struct {
	ConversationID uint   `json:"conversation_id"`
	Content        string `json:"content"`
}

// SendMessageToPeer handles POST /messages/ and creates the conversation when
// none exists yet.
func (s *Server) SendMessageToPeer(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req sendMessageToPeerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ReceiverID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("receiver_id is required"))
	}

	view, err := s.messageService.SendMessageToPeer(c.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Message sent",
		"data":    view,
	})
}

// SendMessage handles POST /messages/send for an existing conversation.
func (s *Server) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ConversationID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("conversation_id is required"))
	}

	view, err := s.messageService.SendMessage(c.Context(), userID, req.ConversationID, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Message sent",
		"data":    view,
	})
}

// GetConversations handles GET /messages/conversations
func (s *Server) GetConversations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	views, err := s.messageService.ListConversations(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(views)
}

// GetConversationMessages handles GET /messages/conversations/:id/messages
func (s *Server) GetConversationMessages(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	convID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	views, svcErr := s.messageService.ListMessages(c.Context(), userID, convID, p.Limit, p.Offset)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(views)
}

// MarkConversationRead handles PUT /messages/conversations/:id/read
func (s *Server) MarkConversationRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	convID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.messageService.MarkConversationRead(c.Context(), userID, convID); svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"message": "Messages marked as read"})
}

// MarkMessageRead handles PUT /messages/messages/:id/read
func (s *Server) MarkMessageRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	msgID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.messageService.MarkMessageRead(c.Context(), userID, msgID); svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"message": "Message marked as read"})
}

// GetUnreadCount handles GET /messages/unread-count
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	count, err := s.messageService.UnreadCount(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// DeleteConversation handles DELETE /messages/conversations/:id
func (s *Server) DeleteConversation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	convID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.messageService.LeaveConversation(c.Context(), userID, convID); svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"message": "Conversation deleted"})
}

package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Subscribe handles POST /api/subscribe
// @Summary Subscribe to the newsletter
// @Tags engagement
// @Accept json
// @Produce json
// @Param request body object{email=string} true "Subscriber"
// @Success 201 {object} object{message=string}
// @Failure 409 {object} models.ErrorResponse
// @Router /subscribe [post]
func (s *Server) Subscribe(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	sub, err := s.engagementService.Subscribe(c.UserContext(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Subscribed successfully",
		"subscriber": sub,
	})
}

func (s *Server) ApplyAsContributor(c *fiber.Ctx) error {
	var req struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Reason string `json:"reason"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	contributor, err := s.engagementService.Apply(c.UserContext(), service.ContributorInput{
		Name:   req.Name,
		Email:  req.Email,
		Reason: req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Application received",
		"contributor": contributor,
	})
}

// SendNotification handles POST /api/notifications/send (admin only).
// @Summary Broadcast a notification
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,message=string} true "Notification"
// @Success 201 {object} object{message=string,notification=models.Notification}
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications/send [post]
func (s *Server) SendNotification(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	n, err := s.notificationService.Send(c.UserContext(), service.SendNotificationInput{
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Notification sent",
		"notification": n,
	})
}

func (s *Server) ListNotifications(c *fiber.Ctx) error {
	list, err := s.notificationService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (s *Server) MarkNotificationViewed(c *fiber.Ctx) error {
	var req struct {
		NotificationID flexID `json:"notificationId"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.notificationService.MarkViewed(c.UserContext(), req.NotificationID.value(), principal(c).ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as viewed"})
}

package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/signup
// @Summary Register a new user
// @Description Create a user account and return a session token
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{name=string,username=string,email=string,password=string} true "Signup data"
// @Success 201 {object} object{message=string,token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	session, err := s.userService.Signup(c.UserContext(), service.SignupInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "User registered successfully",
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.User,
	})
}

// Login handles POST /api/login
// @Summary User login
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Credentials"
// @Success 200 {object} object{message=string,token=string,expiresAt=string,user=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	session, err := s.userService.Login(c.UserContext(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "Login successful",
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.User,
	})
}

// Logout handles POST /api/logout
// @Summary Revoke the current token
// @Tags users
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.userService.Logout(c.UserContext(), principal(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (s *Server) UpdateInterests(c *fiber.Ctx) error {
	var req struct {
		InterestedDomains []string `json:"interestedDomains"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateInterests(c.UserContext(), principal(c).ID, req.InterestedDomains)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Interests updated",
		"user":    user,
	})
}

// GetMe handles GET /api/users/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.userService.Me(c.UserContext(), principal(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

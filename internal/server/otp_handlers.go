package server

import (
	"github.com/gofiber/fiber/v2"
)

type otpEmailRequest struct {
	Email string `json:"email"`
}

// SendOTP handles POST /api/otp/send
// @Summary Email a verification code
// @Tags otp
// @Accept json
// @Produce json
// @Param request body object{email=string} true "Registered email"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /otp/send [post]
func (s *Server) SendOTP(c *fiber.Ctx) error {
	var req otpEmailRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.otpService.Send(c.UserContext(), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "OTP sent"})
}

// VerifyOTP handles POST /api/otp/verify
// @Summary Verify an email address
// @Tags otp
// @Accept json
// @Produce json
// @Param request body object{email=string,otp=string} true "Code"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /otp/verify [post]
func (s *Server) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.otpService.Verify(c.UserContext(), req.Email, req.OTP); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Email verified"})
}

func (s *Server) CheckOTPStatus(c *fiber.Ctx) error {
	var req otpEmailRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	verified, err := s.otpService.CheckStatus(c.UserContext(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"isVerified": verified})
}

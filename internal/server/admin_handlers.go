package server

import (
	"github.com/gofiber/fiber/v2"
)

// AuthenticateAdmin handles POST /api/admin/authenticate
// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Admin credentials"
// @Success 200 {object} object{message=string,token=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/authenticate [post]
func (s *Server) AuthenticateAdmin(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	token, err := s.adminService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Admin authenticated",
		"token":   token,
	})
}

// GetAllData handles GET /api/admin/all-data
// @Summary Dump every collection
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DataSnapshot
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/all-data [get]
func (s *Server) GetAllData(c *fiber.Ctx) error {
	snapshot, err := s.adminService.AllData(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snapshot)
}

// GetFeatureFlags returns the evaluated global flag state.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"flags": s.featureFlags.Snapshot(0)})
}

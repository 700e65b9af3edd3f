package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateProposal handles POST /api/proposals/create
// @Summary Post a collaboration proposal
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{description=string,details=string,deadline=string,teamMembersRequired=int,isPaid=bool,email=string} true "Proposal"
// @Success 201 {object} object{message=string,proposal=models.Proposal}
// @Failure 400 {object} models.ErrorResponse
// @Router /proposals/create [post]
func (s *Server) CreateProposal(c *fiber.Ctx) error {
	var req struct {
		Description         string `json:"description"`
		Details             string `json:"details"`
		Deadline            string `json:"deadline"`
		TeamMembersRequired int    `json:"teamMembersRequired"`
		IsPaid              bool   `json:"isPaid"`
		Email               string `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	p, err := s.proposalService.Create(c.UserContext(), service.CreateProposalInput{
		UserID:              principal(c).ID,
		Description:         req.Description,
		Details:             req.Details,
		Deadline:            req.Deadline,
		TeamMembersRequired: req.TeamMembersRequired,
		IsPaid:              req.IsPaid,
		Email:               req.Email,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Proposal created",
		"proposal": p,
	})
}

func (s *Server) ListMyProposals(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	proposals, err := s.proposalService.ListMine(c.UserContext(), principal(c).ID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(proposals)
}

func (s *Server) ExploreProposals(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)
	proposals, err := s.proposalService.Explore(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(proposals)
}

// RespondToProposal handles POST /api/proposals/respond. Signed-in callers
// are recorded as the responder; anonymous responses are accepted.
// @Summary Respond to a proposal
// @Tags proposals
// @Accept json
// @Produce json
// @Param request body object{proposalId=int,phone=string,message=string} true "Response"
// @Success 201 {object} object{message=string,response=models.ProposalResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /proposals/respond [post]
func (s *Server) RespondToProposal(c *fiber.Ctx) error {
	var req struct {
		ProposalID flexID `json:"proposalId"`
		Phone      string `json:"phone"`
		Message    string `json:"message"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	in := service.RespondInput{
		ProposalID: req.ProposalID.value(),
		Phone:      req.Phone,
		Message:    req.Message,
	}
	if p := principal(c); p != nil {
		id := p.ID
		in.UserID = &id
	}

	resp, err := s.proposalService.Respond(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Response sent",
		"response": resp,
	})
}

func (s *Server) UpdateProposal(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Description         *string `json:"description"`
		Details             *string `json:"details"`
		Deadline            *string `json:"deadline"`
		TeamMembersRequired *int    `json:"teamMembersRequired"`
		IsPaid              *bool   `json:"isPaid"`
		Email               *string `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	p, err := s.proposalService.Update(c.UserContext(), service.UpdateProposalInput{
		ProposalID:          id,
		UserID:              principal(c).ID,
		Description:         req.Description,
		Details:             req.Details,
		Deadline:            req.Deadline,
		TeamMembersRequired: req.TeamMembersRequired,
		IsPaid:              req.IsPaid,
		Email:               req.Email,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Proposal updated",
		"proposal": p,
	})
}

func (s *Server) DeleteProposal(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.proposalService.Delete(c.UserContext(), id, principal(c).ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Proposal deleted"})
}

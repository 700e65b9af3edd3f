package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultThreadPageSize = 20

// CreateDiscussion handles POST /api/community/create
// @Summary Start a discussion
// @Tags community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,body=string} true "Discussion"
// @Success 201 {object} object{message=string,discussion=models.Discussion}
// @Router /community/create [post]
func (s *Server) CreateDiscussion(c *fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	d, err := s.discussionService.Create(c.UserContext(), service.CreateDiscussionInput{
		AuthorID: principal(c).ID,
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Discussion created",
		"discussion": d,
	})
}

// ListDiscussions handles GET /api/community. Comment bodies are omitted;
// each entry carries its comment count.
func (s *Server) ListDiscussions(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)
	discussions, err := s.discussionService.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(discussions)
}

// GetDiscussion handles GET /api/community/:id
// @Summary Discussion with a page of comments
// @Tags community
// @Produce json
// @Param id path int true "Discussion ID"
// @Param limit query int false "Comments per page (default 20, max 100)"
// @Param offset query int false "Comment offset"
// @Success 200 {object} models.Discussion
// @Failure 404 {object} models.ErrorResponse
// @Router /community/{id} [get]
func (s *Server) GetDiscussion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultThreadPageSize)
	d, err := s.discussionService.Get(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(d)
}

func (s *Server) CommentOnDiscussion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.discussionService.Comment(c.UserContext(), service.CreateDiscussionCommentInput{
		AuthorID:     principal(c).ID,
		DiscussionID: id,
		Body:         req.Body,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

func (s *Server) ReplyToComment(c *fiber.Ctx) error {
	discussionID, err := parseID(c, "discussionId")
	if err != nil {
		return nil
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	reply, err := s.discussionService.Reply(c.UserContext(), service.CreateReplyInput{
		AuthorID:     principal(c).ID,
		DiscussionID: discussionID,
		CommentID:    commentID,
		Body:         req.Body,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Reply added",
		"reply":   reply,
	})
}

package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type bookmarkRequest struct {
	UserID    *flexID `json:"userId"`
	ArticleID flexID  `json:"articleId"`
}

func (s *Server) bookmarkInput(c *fiber.Ctx) (service.BookmarkInput, error) {
	var req bookmarkRequest
	if err := parseBody(c, &req); err != nil {
		return service.BookmarkInput{}, err
	}
	return service.BookmarkInput{
		UserID:       principal(c).ID,
		TargetUserID: req.UserID.value(),
		ArticleID:    req.ArticleID.value(),
	}, nil
}

// AddBookmark handles POST /api/bookmarks/add
// @Summary Bookmark an article
// @Tags bookmarks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{userId=string,articleId=string} true "Bookmark"
// @Success 200 {object} object{message=string,bookmarks=[]models.Article}
// @Failure 409 {object} models.ErrorResponse
// @Router /bookmarks/add [post]
func (s *Server) AddBookmark(c *fiber.Ctx) error {
	in, err := s.bookmarkInput(c)
	if err != nil {
		return nil
	}
	articles, err := s.bookmarkService.Add(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":   "Article bookmarked",
		"bookmarks": articles,
	})
}

// RemoveBookmark handles POST /api/bookmarks/remove
func (s *Server) RemoveBookmark(c *fiber.Ctx) error {
	in, err := s.bookmarkInput(c)
	if err != nil {
		return nil
	}
	articles, err := s.bookmarkService.Remove(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":   "Bookmark removed",
		"bookmarks": articles,
	})
}

func (s *Server) ListBookmarks(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	articles, err := s.bookmarkService.List(c.UserContext(), principal(c).ID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(articles)
}

package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListArticles handles GET /api/articles/all
// @Summary List articles
// @Description Newest first, paginated
// @Tags articles
// @Produce json
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Article
// @Router /articles/all [get]
func (s *Server) ListArticles(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)
	articles, err := s.articleService.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(articles)
}

// TrendingArticles handles GET /api/articles/trending
// @Summary Most viewed articles
// @Tags articles
// @Produce json
// @Success 200 {array} models.TrendingArticle
// @Router /articles/trending [get]
func (s *Server) TrendingArticles(c *fiber.Ctx) error {
	articles, err := s.articleService.Trending(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(articles)
}

func (s *Server) ListArticlesByAuthor(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)
	articles, err := s.articleService.ListByAuthor(c.UserContext(), c.Params("username"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(articles)
}

// GetArticle handles GET /api/articles/:id. Every call counts one view.
// @Summary Read an article
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} models.Article
// @Failure 404 {object} models.ErrorResponse
// @Router /articles/{id} [get]
func (s *Server) GetArticle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	article, err := s.articleService.View(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(article)
}

// CreateArticle handles POST /api/articles. The author is always the caller.
// @Summary Publish an article
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,content=string,thumbnail=string} true "Article"
// @Success 201 {object} object{message=string,article=models.Article}
// @Failure 400 {object} models.ErrorResponse
// @Router /articles [post]
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		Thumbnail string `json:"thumbnail"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	article, err := s.articleService.Create(c.UserContext(), service.CreateArticleInput{
		Author:    principal(c).Username,
		Title:     req.Title,
		Content:   req.Content,
		Thumbnail: req.Thumbnail,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Article created",
		"article": article,
	})
}

func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Title     *string `json:"title"`
		Content   *string `json:"content"`
		Thumbnail *string `json:"thumbnail"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	article, err := s.articleService.Update(c.UserContext(), service.UpdateArticleInput{
		ArticleID: id,
		Username:  principal(c).Username,
		Title:     req.Title,
		Content:   req.Content,
		Thumbnail: req.Thumbnail,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Article updated",
		"article": article,
	})
}

func (s *Server) ReportArticle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.articleService.Report(c.UserContext(), id, req.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Article reported"})
}

// RequestArticleDeletion handles POST /api/articles/:id/deletion-request.
// The admin is emailed before the response is sent.
func (s *Server) RequestArticleDeletion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	err = s.articleService.RequestDeletion(c.UserContext(), service.DeletionRequestInput{
		ArticleID: id,
		Username:  principal(c).Username,
		Reason:    req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Deletion request sent"})
}

func (s *Server) ListComments(c *fiber.Ctx) error {
	articleID, err := parseID(c, "articleId")
	if err != nil {
		return nil
	}
	comments, err := s.commentService.ListComments(c.UserContext(), articleID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

func (s *Server) CreateComment(c *fiber.Ctx) error {
	articleID, err := parseID(c, "articleId")
	if err != nil {
		return nil
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		ArticleID: articleID,
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

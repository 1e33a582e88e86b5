package server

import (
	"noticeboard/internal/models"
	"noticeboard/internal/query"
	"noticeboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postQueryOptions whitelists the sortable post columns.
var postQueryOptions = query.Options{
	DefaultLimit: 10,
	SortFields: map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"title":     "title",
		"viewCount": "view_count",
	},
	DefaultSort: "created_at",
}

// ListPosts handles GET /api/posts. Anonymous callers only see published
// public posts; members additionally see community posts and their own.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	params, err := query.Parse(c, postQueryOptions)
	if err != nil {
		return respondError(c, err)
	}

	posts, pagination, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Params:   params,
		Category: c.Query("category"),
		Viewer:   currentUser(c),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":      posts,
		"pagination": pagination,
	})
}

// ListAllPosts handles GET /api/posts/all — the admin listing without the
// visibility gate, including drafts.
func (s *Server) ListAllPosts(c *fiber.Ctx) error {
	params, err := query.Parse(c, postQueryOptions)
	if err != nil {
		return respondError(c, err)
	}

	posts, pagination, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Params:       params,
		Category:     c.Query("category"),
		Viewer:       currentUser(c),
		Unrestricted: true,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":      posts,
		"pagination": pagination,
	})
}

// ListUserPosts handles GET /api/posts/user/:userId
func (s *Server) ListUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	params, err := query.Parse(c, postQueryOptions)
	if err != nil {
		return respondError(c, err)
	}

	posts, pagination, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Params:   params,
		AuthorID: userID,
		Viewer:   currentUser(c),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":      posts,
		"pagination": pagination,
	})
}

// ListPostCategories handles GET /api/posts/categories/list
func (s *Server) ListPostCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": models.PostCategories})
}

// GetPostStats handles GET /api/posts/stats
func (s *Server) GetPostStats(c *fiber.Ctx) error {
	stats, err := s.postService.Stats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

type postPayload struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	Visibility  string   `json:"visibility"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"isPublished"`
}

// CreatePost handles POST /api/posts. Author identity comes from the
// token; author fields in the payload are ignored.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), currentUser(c), service.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		Visibility:  req.Visibility,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created",
		"post":    post,
	})
}

// UpdatePost handles PUT /api/posts/:id with partial semantics: only
// fields present in the payload are overwritten.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string   `json:"title"`
		Content     *string   `json:"content"`
		Category    *string   `json:"category"`
		Visibility  *string   `json:"visibility"`
		Tags        *[]string `json:"tags"`
		IsPublished *bool     `json:"isPublished"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), currentUser(c), id, service.UpdatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		Visibility:  req.Visibility,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post updated",
		"post":    post,
	})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), currentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// ToggleLike handles PUT /api/posts/:id/like. A first call likes the
// post, a second call removes the like.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleLike(c.Context(), currentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}

	message := "Post unliked"
	if post.Liked {
		message = "Post liked"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"post":    post,
	})
}

// AddComment handles POST /api/posts/:id/comment
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.postService.AddComment(c.Context(), currentUser(c), id, req.Content)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

// DeleteComment handles DELETE /api/posts/:id/comment/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.postService.DeleteComment(c.Context(), currentUser(c), postID, commentID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

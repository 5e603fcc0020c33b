package server

import (
	"mosaic/internal/middleware"
	"mosaic/internal/models"
	"mosaic/internal/service"
	"mosaic/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// PostDetail renders a post with its comments, likers and an empty comment
// form.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postID")
	if err != nil {
		return s.renderNotFound(c)
	}
	return s.renderPostDetail(c, postID, service.CreateCommentInput{}, validation.FieldErrors{})
}

// CreateComment appends a comment to the post and returns to the main page.
// Validation failures re-render the detail page with the form intact.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postID")
	if err != nil {
		return s.renderNotFound(c)
	}
	userID, _ := middleware.RequestPrincipal(c)

	in := service.CreateCommentInput{
		AuthorID: userID,
		PostID:   postID,
		Body:     c.FormValue("body"),
	}

	_, fields, err := s.commentService.CreateComment(c.UserContext(), in)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return s.renderNotFound(c)
		}
		return err
	}
	if fields.HasErrors() {
		return s.renderPostDetail(c, postID, in, fields)
	}

	AddFlash(c, FlashSuccess, "Comment added.")
	return c.Redirect("/", fiber.StatusFound)
}

func (s *Server) renderPostDetail(c *fiber.Ctx, postID uint, form service.CreateCommentInput, fields validation.FieldErrors) error {
	ctx := c.UserContext()

	post, err := s.postService.GetPost(ctx, postID)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return s.renderNotFound(c)
		}
		return err
	}

	comments, err := s.commentService.ListComments(ctx, postID)
	if err != nil {
		return err
	}

	likers, err := s.postService.Likers(ctx, postID)
	if err != nil {
		return err
	}

	return c.Render("post_detail", s.viewData(c, fiber.Map{
		"Title":    post.Name,
		"Post":     post,
		"Comments": comments,
		"Likers":   likers,
		"Form":     form,
		"Errors":   fields,
	}))
}

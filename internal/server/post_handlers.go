package server

import (
	"fmt"

	"mosaic/internal/middleware"
	"mosaic/internal/models"
	"mosaic/internal/service"
	"mosaic/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Index lists every post, optionally filtered by a substring search on post
// name and description.
func (s *Server) Index(c *fiber.Ctx) error {
	number, err := pageNumber(c)
	if err != nil {
		return err
	}
	in := service.ListInput{Page: number, Search: c.Query("search")}

	page, err := s.postService.IndexPosts(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.Render("index", s.viewData(c, fiber.Map{
		"Title":    "All posts",
		"Page":     page,
		"Search":   in.Search,
		"BasePath": "/main/",
	}))
}

// Main shows the requester's own posts, or a searched user's posts. Signed
// out visitors get the public index instead.
func (s *Server) Main(c *fiber.Ctx) error {
	userID, ok := middleware.RequestPrincipal(c)
	if !ok {
		return s.Index(c)
	}

	number, err := pageNumber(c)
	if err != nil {
		return err
	}
	in := service.ListInput{Page: number, Search: c.Query("search")}

	page, matched, err := s.postService.MainPosts(c.UserContext(), userID, in)
	if err != nil {
		return err
	}

	return c.Render("main", s.viewData(c, fiber.Map{
		"Title":       "Your posts",
		"Page":        page,
		"Search":      in.Search,
		"BasePath":    "/",
		"MatchedUser": matched,
	}))
}

// AddPostForm renders an empty post form.
func (s *Server) AddPostForm(c *fiber.Ctx) error {
	return c.Render("post_add", s.viewData(c, fiber.Map{
		"Title":  "Add post",
		"Form":   service.CreatePostInput{},
		"Errors": validation.FieldErrors{},
	}))
}

// AddPost stores a new post authored by the requester.
func (s *Server) AddPost(c *fiber.Ctx) error {
	userID, _ := middleware.RequestPrincipal(c)

	in := service.CreatePostInput{
		AuthorID:    userID,
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}

	post, fields, err := s.postService.CreatePost(c.UserContext(), in)
	if err != nil {
		return err
	}
	if fields.HasErrors() {
		return c.Render("post_add", s.viewData(c, fiber.Map{
			"Title":  "Add post",
			"Form":   in,
			"Errors": fields,
		}))
	}

	AddFlash(c, FlashSuccess, fmt.Sprintf("Post %q published.", post.Name))
	return c.Redirect("/", fiber.StatusFound)
}

// LikePost records a like and bounces back to the main page with a notice.
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postID")
	if err != nil {
		return s.renderNotFound(c)
	}
	userID, _ := middleware.RequestPrincipal(c)

	if err := s.postService.Like(c.UserContext(), userID, postID); err != nil {
		switch models.ErrorCode(err) {
		case models.CodeAlreadyLiked:
			AddFlash(c, FlashError, "You have already liked this post.")
			return c.Redirect("/", fiber.StatusFound)
		case models.CodeNotFound:
			return s.renderNotFound(c)
		}
		return err
	}

	AddFlash(c, FlashSuccess, "Post liked.")
	return c.Redirect("/", fiber.StatusFound)
}

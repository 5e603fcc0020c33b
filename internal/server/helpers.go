package server

import (
	"errors"
	"strconv"
	"strings"

	"mosaic/internal/middleware"
	"mosaic/internal/models"
	"mosaic/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

var errBadID = errors.New("invalid id parameter")

func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errBadID
	}
	return uint(id), nil
}

// pageNumber reads the ?page= query. Anything non-numeric is treated like an
// out-of-range page.
func pageNumber(c *fiber.Ctx) (int, error) {
	raw := c.Query("page", "1")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, pagination.ErrPageOutOfRange
	}
	return n, nil
}

// safeNext accepts only site-local redirect targets; anything else falls back
// to the root so the login flow cannot be used as an open redirect.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func (s *Server) renderNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("404", s.viewData(c, fiber.Map{
		"Title": "Not found",
	}))
}

// viewData merges handler data with the ambient page context: the signed-in
// user for the navigation bar and any pending flash notices.
func (s *Server) viewData(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Flashes"]; !ok {
		data["Flashes"] = TakeFlashes(c)
	}
	if userID, ok := middleware.RequestPrincipal(c); ok {
		if user, err := s.userService.GetUserByID(c.UserContext(), userID); err == nil {
			data["Principal"] = user
		}
	}
	return data
}

// errorHandler is the fiber fallback for errors that escape the handlers.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusNotFound {
			return s.renderNotFound(c)
		}
		return c.Status(fiberErr.Code).SendString(fiberErr.Message)
	}

	switch models.ErrorCode(err) {
	case models.CodeNotFound:
		return s.renderNotFound(c)
	case models.CodeUnauthorized:
		return c.Status(fiber.StatusForbidden).SendString("Forbidden")
	}

	if errors.Is(err, pagination.ErrPageOutOfRange) {
		return s.renderNotFound(c)
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled request error", "error", err)
	return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
}

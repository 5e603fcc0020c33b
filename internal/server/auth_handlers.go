package server

import (
	"fmt"

	"mosaic/internal/middleware"
	"mosaic/internal/models"
	"mosaic/internal/service"
	"mosaic/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// LoginForm renders the credential form.
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return c.Render("login", s.viewData(c, fiber.Map{
		"Title": "Log in",
		"Next":  c.Query("next"),
	}))
}

// Login checks the submitted credentials and establishes the session.
// Input and credential failures both land back on the public index with a
// notice rather than an error page.
func (s *Server) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	if password == "" || validation.ValidateEmail(email) != nil {
		AddFlash(c, FlashError, "Invalid login data.")
		return c.Redirect("/main/", fiber.StatusFound)
	}

	user, err := s.authService.Authenticate(c.UserContext(), email, password)
	if err != nil {
		if models.ErrorCode(err) == models.CodeUnauthorized {
			AddFlash(c, FlashWarning, "User not found.")
			return c.Redirect("/main/", fiber.StatusFound)
		}
		return err
	}

	token, err := middleware.IssueToken(s.config, user.ID, user.Username)
	if err != nil {
		return models.NewInternalError(err)
	}
	c.Cookie(middleware.SessionCookieValue(token))

	AddFlash(c, FlashSuccess, fmt.Sprintf("Welcome back, %s!", user.Username))
	return c.Redirect(safeNext(c.Query("next")), fiber.StatusFound)
}

// Logout clears the session cookie unconditionally.
func (s *Server) Logout(c *fiber.Ctx) error {
	c.Cookie(middleware.ClearSessionCookie())
	return c.Redirect("/main/", fiber.StatusFound)
}

// RegisterForm renders an empty signup form.
func (s *Server) RegisterForm(c *fiber.Ctx) error {
	return c.Render("register", s.viewData(c, fiber.Map{
		"Title":  "Register",
		"Form":   service.RegisterInput{},
		"Errors": validation.FieldErrors{},
	}))
}

// Register creates the account and signs the new user in.
func (s *Server) Register(c *fiber.Ctx) error {
	in := service.RegisterInput{
		Username:        c.FormValue("username"),
		Email:           c.FormValue("email"),
		FirstName:       c.FormValue("first_name"),
		LastName:        c.FormValue("last_name"),
		Password:        c.FormValue("password"),
		PasswordConfirm: c.FormValue("password_confirm"),
	}

	user, fields, err := s.authService.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	if fields.HasErrors() {
		return c.Render("register", s.viewData(c, fiber.Map{
			"Title":  "Register",
			"Form":   in,
			"Errors": fields,
		}))
	}

	token, err := middleware.IssueToken(s.config, user.ID, user.Username)
	if err != nil {
		return models.NewInternalError(err)
	}
	c.Cookie(middleware.SessionCookieValue(token))

	AddFlash(c, FlashSuccess, fmt.Sprintf("Welcome, %s!", user.Username))
	return c.Redirect("/", fiber.StatusFound)
}

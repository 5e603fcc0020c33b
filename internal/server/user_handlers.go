package server

import (
	"fmt"

	"mosaic/internal/middleware"
	"mosaic/internal/models"
	"mosaic/internal/service"
	"mosaic/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Account shows a user's account page by primary key.
func (s *Server) Account(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return s.renderNotFound(c)
	}
	return s.renderUserDetail(c, func() (*models.User, error) {
		return s.userService.GetProfile(c.UserContext(), id)
	})
}

// UserDetail shows a user's public profile and their posts.
func (s *Server) UserDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return s.renderNotFound(c)
	}
	return s.renderUserDetail(c, func() (*models.User, error) {
		return s.userService.GetProfile(c.UserContext(), id)
	})
}

// UserDetailByUsername is the vanity-URL variant of UserDetail.
func (s *Server) UserDetailByUsername(c *fiber.Ctx) error {
	username := c.Params("username")
	return s.renderUserDetail(c, func() (*models.User, error) {
		return s.userService.GetProfileByUsername(c.UserContext(), username)
	})
}

func (s *Server) renderUserDetail(c *fiber.Ctx, load func() (*models.User, error)) error {
	user, err := load()
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return s.renderNotFound(c)
		}
		return err
	}

	principalID, _ := middleware.RequestPrincipal(c)

	return c.Render("user_detail", s.viewData(c, fiber.Map{
		"Title":  user.Username,
		"User":   user,
		"Posts":  user.Posts,
		"IsSelf": principalID == user.ID,
	}))
}

// AccountChangeForm renders the profile edit form, prefilled with the
// current values. Only the account owner may open it.
func (s *Server) AccountChangeForm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return s.renderNotFound(c)
	}
	principalID, _ := middleware.RequestPrincipal(c)
	if principalID != id {
		return fiber.NewError(fiber.StatusForbidden, "You can only edit your own profile")
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.Render("user_change", s.viewData(c, fiber.Map{
		"Title": "Edit profile",
		"User":  user,
		"Form": service.UpdateProfileInput{
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
		"Errors": validation.FieldErrors{},
	}))
}

// AccountChange applies the submitted profile edits.
func (s *Server) AccountChange(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return s.renderNotFound(c)
	}
	principalID, _ := middleware.RequestPrincipal(c)

	in := service.UpdateProfileInput{
		RequesterID: principalID,
		UserID:      id,
		Username:    c.FormValue("username"),
		Email:       c.FormValue("email"),
		FirstName:   c.FormValue("first_name"),
		LastName:    c.FormValue("last_name"),
	}

	user, fields, err := s.userService.UpdateProfile(c.UserContext(), in)
	if err != nil {
		return err
	}
	if fields.HasErrors() {
		return c.Render("user_change", s.viewData(c, fiber.Map{
			"Title":  "Edit profile",
			"User":   &models.User{ID: id},
			"Form":   in,
			"Errors": fields,
		}))
	}

	AddFlash(c, FlashSuccess, "Profile updated.")
	return c.Redirect(fmt.Sprintf("/accounts/%d/", user.ID), fiber.StatusFound)
}

package service

import (
	"context"

	"mosaic/internal/models"
	"mosaic/internal/repository"
	"mosaic/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	// RequesterID is the authenticated user making the request; it must
	// match UserID for the update to proceed.
	RequesterID uint
	UserID      uint
	Username    string
	Email       string
	FirstName   string
	LastName    string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile loads a user together with their posts, newest first.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByIDWithPosts(ctx, id)
}

func (s *UserService) GetProfileByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.userRepo.GetByIDWithPosts(ctx, user.ID)
}

// UpdateProfile edits a user's own identity fields. Anyone else gets an
// authorization error regardless of whether the target exists.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, validation.FieldErrors, error) {
	if in.RequesterID != in.UserID {
		return nil, nil, models.NewUnauthorizedError("You can only edit your own profile")
	}

	// Load fresh from the store: the cached copy carries no password hash,
	// and the save below writes every column.
	user, err := s.userRepo.GetByIDForUpdate(ctx, in.UserID)
	if err != nil {
		return nil, nil, err
	}

	fields := validation.FieldErrors{}
	if err := validation.ValidateUsername(in.Username); err != nil {
		fields["username"] = err.Error()
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		fields["email"] = err.Error()
	}
	if in.FirstName != "" {
		if err := validation.ValidateName(in.FirstName); err != nil {
			fields["first_name"] = err.Error()
		}
	}
	if in.LastName != "" {
		if err := validation.ValidateName(in.LastName); err != nil {
			fields["last_name"] = err.Error()
		}
	}

	if in.Email != user.Email {
		existing, err := s.userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil && existing.ID != user.ID {
			fields["email"] = "An account with this email already exists"
		}
	}
	if in.Username != user.Username {
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil && existing.ID != user.ID {
			fields["username"] = "This username is taken"
		}
	}

	if fields.HasErrors() {
		return nil, fields, nil
	}

	user.Username = in.Username
	user.Email = in.Email
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, nil, err
	}
	return user, nil, nil
}

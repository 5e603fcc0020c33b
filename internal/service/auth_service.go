// Package service contains the business logic for the application.
package service

import (
	"context"

	"mosaic/internal/models"
	"mosaic/internal/observability"
	"mosaic/internal/repository"
	"mosaic/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo repository.UserRepository
}

type RegisterInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Authenticate checks an email/password pair. Unknown accounts and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.LoginAttempts.WithLabelValues("unknown_user").Inc()
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		observability.LoginAttempts.WithLabelValues("bad_password").Inc()
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}

	observability.LoginAttempts.WithLabelValues("success").Inc()
	return user, nil
}

// Register validates and creates a new account. Validation failures come back
// as per-field messages so the form can be re-rendered; no record is written
// when any field fails.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, validation.FieldErrors, error) {
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
	if err := validation.ValidatePassword(in.Password); err != nil {
		fields["password"] = err.Error()
	}
	if in.Password != in.PasswordConfirm {
		fields["password_confirm"] = "Passwords do not match"
	}

	// Uniqueness belongs to validation: surface the conflict on the field
	// rather than failing the insert later.
	if _, ok := fields["email"]; !ok {
		existing, err := s.userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil {
			fields["email"] = "An account with this email already exists"
		}
	}
	if _, ok := fields["username"]; !ok {
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil {
			fields["username"] = "This username is taken"
		}
	}

	if fields.HasErrors() {
		return nil, fields, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent signup can still win the unique index race.
		if models.ErrorCode(err) == models.CodeValidation {
			return nil, validation.FieldErrors{"email": "An account with this email or username already exists"}, nil
		}
		return nil, nil, err
	}
	return user, nil, nil
}

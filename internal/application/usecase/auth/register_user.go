// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
	domainerror "github.com/quickmate/backend/internal/domain/error"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterUserInput represents the input for user registration.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role // Optional, defaults to Customer
}

// RegisterUserOutput represents the output of user registration.
type RegisterUserOutput struct {
	User *entity.User
}

// RegisterUserUseCase handles user registration logic.
type RegisterUserUseCase struct {
	userRepo         adapter.UserRepository
	passwordService  adapter.PasswordService
	allowAdminSignup bool
}

// NewRegisterUserUseCase creates a new RegisterUserUseCase instance.
// allowAdminSignup controls whether callers may register themselves as Admin.
func NewRegisterUserUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	allowAdminSignup bool,
) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo:         userRepo,
		passwordService:  passwordService,
		allowAdminSignup: allowAdminSignup,
	}
}

// Execute performs the user registration.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterUserInput) (*RegisterUserOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeMissingFields,
			"name is required",
			nil,
		)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailRegex.MatchString(email) {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidEmail,
			"invalid email format",
			domainerror.ErrInvalidEmail,
		)
	}

	role := input.Role
	if role == "" {
		role = entity.RoleCustomer
	}
	if !role.IsValid() {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidRole,
			"role must be Customer, ServiceProvider or Admin",
			domainerror.ErrInvalidRole,
		)
	}
	if role == entity.RoleAdmin && !uc.allowAdminSignup {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeRoleNotAllowed,
			"admin accounts cannot be self-registered",
			domainerror.ErrRoleNotAllowed,
		)
	}

	if err := uc.passwordService.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeWeakPassword,
			"password does not meet minimum requirements",
			domainerror.ErrWeakPassword,
		)
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, emailExistsError()
	}

	passwordHash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser(input.Name, email, passwordHash, role)
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, adapter.ErrDuplicateKey) {
			return nil, emailExistsError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &RegisterUserOutput{User: user}, nil
}

func emailExistsError() *domainerror.AuthError {
	return domainerror.NewAuthError(
		domainerror.ErrCodeEmailExists,
		"email already exists",
		domainerror.ErrEmailAlreadyExists,
	)
}

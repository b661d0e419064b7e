package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/domain/entity"
)

// SeedAdminInput holds the bootstrap admin credentials.
type SeedAdminInput struct {
	Name     string
	Email    string
	Password string
}

// SeedAdminUseCase creates the bootstrap admin account when it does not exist yet.
type SeedAdminUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
}

// NewSeedAdminUseCase creates a new SeedAdminUseCase instance.
func NewSeedAdminUseCase(userRepo adapter.UserRepository, passwordService adapter.PasswordService) *SeedAdminUseCase {
	return &SeedAdminUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
	}
}

// Execute creates the admin. It returns false when an account with the email already exists.
func (uc *SeedAdminUseCase) Execute(ctx context.Context, input SeedAdminInput) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to check admin existence: %w", err)
	}
	if exists {
		return false, nil
	}

	if err := uc.passwordService.ValidatePasswordStrength(input.Password); err != nil {
		return false, fmt.Errorf("admin password: %w", err)
	}
	hash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := input.Name
	if name == "" {
		name = "Administrator"
	}
	if err := uc.userRepo.Create(ctx, entity.NewUser(name, email, hash, entity.RoleAdmin)); err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("Admin account seeded", "email", email)
	return true, nil
}

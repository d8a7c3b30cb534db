package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edustack/admin-api/models"
	"github.com/edustack/admin-api/repositories"
)

// TokenIssuer produces a signed identity token for a user
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// AccountService orchestrates admin bootstrap, login, and sub-admin
// lifecycle operations
type AccountService struct {
	users  repositories.UserRepository
	issuer TokenIssuer
	logger *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(users repositories.UserRepository, issuer TokenIssuer, logger *zap.Logger) *AccountService {
	return &AccountService{
		users:  users,
		issuer: issuer,
		logger: logger,
	}
}

// UpdateSubAdminInput carries the optional fields of an update request.
// Nil fields are left untouched.
type UpdateSubAdminInput struct {
	Name        *string
	Email       *string
	Permissions *models.Permissions
}

// normalizeEmail fixes the email case policy: emails are stored and
// compared in lower case.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BootstrapAdmin creates the one and only admin account and issues its
// first token. The store's guarded insert makes concurrent bootstrap
// attempts resolve to a single admin.
func (s *AccountService) BootstrapAdmin(ctx context.Context, name, email, password string) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", WrapInternal("failed to hash password", err)
	}

	admin := models.NewAdmin(name, normalizeEmail(email), string(hash))

	if err := s.users.CreateAdmin(ctx, admin); err != nil {
		switch {
		case errors.Is(err, repositories.ErrAdminExists):
			return nil, "", ErrAdminExists
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, "", ErrEmailInUse
		}
		return nil, "", WrapInternal("failed to create admin", err)
	}

	tokenString, err := s.issuer.Issue(admin)
	if err != nil {
		return nil, "", WrapInternal("failed to issue token", err)
	}

	s.logger.Info("admin account bootstrapped", zap.String("id", admin.ID.String()))
	return admin, tokenString, nil
}

// Login verifies credentials and issues a token. An unknown email and a
// wrong password produce the identical ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", WrapInternal("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	tokenString, err := s.issuer.Issue(user)
	if err != nil {
		return nil, "", WrapInternal("failed to issue token", err)
	}

	s.logger.Debug("user logged in", zap.String("id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, tokenString, nil
}

// CreateSubAdmin creates a sub-admin account. Permission flags come
// verbatim from the input; role is always sub-admin.
func (s *AccountService) CreateSubAdmin(ctx context.Context, name, email, password string, perms models.Permissions) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, WrapInternal("failed to hash password", err)
	}

	sub := models.NewSubAdmin(name, normalizeEmail(email), string(hash), perms)

	if err := s.users.Create(ctx, sub); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, WrapInternal("failed to create sub-admin", err)
	}

	s.logger.Info("sub-admin created",
		zap.String("id", sub.ID.String()),
		zap.String("email", sub.Email))
	return sub, nil
}

// ListSubAdmins returns all sub-admin accounts, newest first
func (s *AccountService) ListSubAdmins(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.ListSubAdmins(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list sub-admins", err)
	}
	return users, nil
}

// GetSubAdmin returns the sub-admin with the given id
func (s *AccountService) GetSubAdmin(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetSubAdminByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSubAdminNotFound
		}
		return nil, WrapInternal("failed to get sub-admin", err)
	}
	return user, nil
}

// UpdateSubAdmin applies the supplied fields to a sub-admin account.
// Role is never touched by this path.
func (s *AccountService) UpdateSubAdmin(ctx context.Context, id uuid.UUID, input UpdateSubAdminInput) (*models.User, error) {
	user, err := s.GetSubAdmin(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}
	if input.Permissions != nil {
		user.Permissions = *input.Permissions
	}
	user.UpdatedAt = time.Now()

	if err := s.users.UpdateSubAdmin(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrSubAdminNotFound
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, ErrEmailInUse
		}
		return nil, WrapInternal("failed to update sub-admin", err)
	}

	s.logger.Info("sub-admin updated", zap.String("id", user.ID.String()))
	return user, nil
}

// DeleteSubAdmin removes a sub-admin account. The admin account is not
// reachable through this operation.
func (s *AccountService) DeleteSubAdmin(ctx context.Context, id uuid.UUID) error {
	if err := s.users.DeleteSubAdmin(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSubAdminNotFound
		}
		return WrapInternal("failed to delete sub-admin", err)
	}

	s.logger.Info("sub-admin deleted", zap.String("id", id.String()))
	return nil
}

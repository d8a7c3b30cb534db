package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/edustack/admin-api/models"
	"github.com/edustack/admin-api/repositories"
)

const uniqueViolation = "23505"

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, name, email, password_hash, role,
	perm_dashboard, perm_college_management, perm_content_editing, perm_view_data,
	created_at, updated_at`

// CreateAdmin inserts the admin record only when no admin row exists yet.
// The guarded insert and the partial unique index on role make concurrent
// bootstrap attempts resolve to exactly one admin.
func (r *UserRepository) CreateAdmin(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		WHERE NOT EXISTS (SELECT 1 FROM users WHERE role = $5)
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Permissions.Dashboard,
		user.Permissions.CollegeManagement,
		user.Permissions.ContentEditing,
		user.Permissions.ViewData,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return mapConstraintError(err, "failed to create admin")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrAdminExists
	}

	r.logger.Debug("admin created", zap.String("id", user.ID.String()), zap.String("email", user.Email))
	return nil
}

// Create inserts a sub-admin record
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Permissions.Dashboard,
		user.Permissions.CollegeManagement,
		user.Permissions.ContentEditing,
		user.Permissions.ViewData,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return mapConstraintError(err, "failed to create user")
	}

	r.logger.Debug("user created", zap.String("id", user.ID.String()), zap.String("email", user.Email))
	return nil
}

// GetByEmail retrieves a user of any role by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	executor := GetExecutor(ctx, r.db)
	return scanUser(executor.QueryRowContext(ctx, query, email))
}

// GetSubAdminByID retrieves a sub-admin record by id
func (r *UserRepository) GetSubAdminByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND role = $2`

	executor := GetExecutor(ctx, r.db)
	return scanUser(executor.QueryRowContext(ctx, query, id, models.RoleSubAdmin))
}

// ListSubAdmins retrieves all sub-admin records, newest first
func (r *UserRepository) ListSubAdmins(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at DESC`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, models.RoleSubAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := scanUserRow(rows.Scan, user); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// UpdateSubAdmin persists name, email, and permission changes for a
// sub-admin record. Role is deliberately absent from the SET clause.
func (r *UserRepository) UpdateSubAdmin(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $2,
		    email = $3,
		    perm_dashboard = $4,
		    perm_college_management = $5,
		    perm_content_editing = $6,
		    perm_view_data = $7,
		    updated_at = $8
		WHERE id = $1 AND role = $9
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Permissions.Dashboard,
		user.Permissions.CollegeManagement,
		user.Permissions.ContentEditing,
		user.Permissions.ViewData,
		user.UpdatedAt,
		models.RoleSubAdmin,
	)
	if err != nil {
		return mapConstraintError(err, "failed to update user")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("user updated", zap.String("id", user.ID.String()))
	return nil
}

// DeleteSubAdmin removes a sub-admin record. The role predicate keeps the
// admin record out of reach of this operation.
func (r *UserRepository) DeleteSubAdmin(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1 AND role = $2`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, models.RoleSubAdmin)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("user deleted", zap.String("id", id.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *UserRepository) WithTx(tx repositories.Transaction) repositories.UserRepository {
	return &UserRepository{
		db:     r.db,
		logger: r.logger,
	}
}

// scanUser scans a single user row, mapping sql.ErrNoRows to ErrNotFound
func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	if err := scanUserRow(row.Scan, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func scanUserRow(scan func(dest ...interface{}) error, user *models.User) error {
	return scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Permissions.Dashboard,
		&user.Permissions.CollegeManagement,
		&user.Permissions.ContentEditing,
		&user.Permissions.ViewData,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

// mapConstraintError translates unique-constraint violations into the
// repository sentinel errors callers branch on
func mapConstraintError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		switch pqErr.Constraint {
		case "users_email_key":
			return repositories.ErrDuplicateEmail
		case "users_single_admin_key":
			return repositories.ErrAdminExists
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/edustack/admin-api/models"
)

var (
	// ErrNotFound is returned when no matching user record exists
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when a create or update would reuse an
	// email already held by another record
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrAdminExists is returned when an admin record already exists and a
	// second one is being created
	ErrAdminExists = errors.New("admin account already exists")
)

// UserRepository handles user record persistence
type UserRepository interface {
	// CreateAdmin inserts the admin record atomically: the insert succeeds
	// only if no admin record exists, so concurrent bootstrap attempts
	// cannot produce two admins. Returns ErrAdminExists otherwise.
	CreateAdmin(ctx context.Context, user *models.User) error

	// Create inserts a sub-admin record. Returns ErrDuplicateEmail when the
	// email is already taken.
	Create(ctx context.Context, user *models.User) error

	// GetByEmail retrieves a user of any role by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetSubAdminByID retrieves a user by id, restricted to the sub-admin
	// role. Returns ErrNotFound when no such record exists or the record is
	// the admin.
	GetSubAdminByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// ListSubAdmins retrieves all sub-admin records, newest first
	ListSubAdmins(ctx context.Context) ([]*models.User, error)

	// UpdateSubAdmin persists name, email, and permission changes for a
	// sub-admin record. The role column is never written. Returns
	// ErrNotFound under the same conditions as GetSubAdminByID and
	// ErrDuplicateEmail on an email collision.
	UpdateSubAdmin(ctx context.Context, user *models.User) error

	// DeleteSubAdmin removes a sub-admin record. Returns ErrNotFound when
	// the id does not belong to a sub-admin; the admin record is not
	// deletable through this method.
	DeleteSubAdmin(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) UserRepository
}

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Automatically commits if function succeeds, rolls back on error.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// Repositories bundles all repository instances
type Repositories struct {
	Users UserRepository
}

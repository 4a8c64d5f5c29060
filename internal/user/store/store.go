package store

import (
	"context"
	"errors"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Repositories hang off it as methods so a transaction-scoped
// Store can hand out the same repositories bound to the transaction.
type Store interface {
	Users() Users
	Roles() Roles
	VerificationTokens() VerificationTokens
	Settings() Settings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns an active user with roles and privileges loaded.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used by password login and OAuth2 reconciliation.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CreateUser inserts the user and links it to u.Roles (by role id).
	// A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile overwrites fullname, avatar and last visit (OAuth2 refresh).
	UpdateProfile(ctx context.Context, userID, fullname, avatar string, lastVisit time.Time) error

	UpdateLastVisit(ctx context.Context, userID string, lastVisit time.Time) error

	MarkEmailVerified(ctx context.Context, userID string) error

	// Count returns the number of accounts, soft deleted ones included.
	Count(ctx context.Context) (int64, error)
}

type Roles interface {
	// GetRoleByName fetches a role with its privileges.
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// ListRolesForUser returns the user's roles with their privileges.
	ListRolesForUser(ctx context.Context, userID string) ([]domain.Role, error)

	// ListAll returns every role with its privileges, ordered by name.
	ListAll(ctx context.Context) ([]domain.Role, error)
}

type VerificationTokens interface {
	// CreateVerificationToken stores a token. A second token for the same
	// user, or a reused value, yields ErrAlreadyExists.
	CreateVerificationToken(ctx context.Context, t domain.VerificationToken) error

	GetVerificationTokenByValue(ctx context.Context, value string) (domain.VerificationToken, error)

	GetVerificationTokenByUserID(ctx context.Context, userID string) (domain.VerificationToken, error)

	// UpdateVerificationToken overwrites value and expiry of token id.
	UpdateVerificationToken(ctx context.Context, id, value string, expiry time.Time) error
}

type Settings interface {
	// ListSettingsByUser returns the user's settings oldest first.
	ListSettingsByUser(ctx context.Context, userID string) ([]domain.UserSetting, error)

	GetSettingByID(ctx context.Context, id string) (domain.UserSetting, error)

	CreateSetting(ctx context.Context, s domain.UserSetting) error

	UpdateSettingValue(ctx context.Context, id, value string) error
}

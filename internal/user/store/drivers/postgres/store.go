package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/store"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNestedTx is returned when a transaction is started from a Tx-scoped store.
var ErrNestedTx = errors.New("postgres: nested transactions are not supported")

type Store struct {
	db *gorm.DB
}

// NewStore connects to the database at dsn (a postgres:// URL or key=value DSN).
func NewStore(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &txStore{db: tx}, nil
}

// WithTx runs fn inside a gorm transaction. A returned error rolls back.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txStore{db: tx, managed: true})
	})
}

func (s *Store) Users() store.Users { return &usersRepo{db: s.db} }
func (s *Store) Roles() store.Roles { return &rolesRepo{db: s.db} }
func (s *Store) VerificationTokens() store.VerificationTokens {
	return &verificationTokensRepo{db: s.db}
}
func (s *Store) Settings() store.Settings { return &settingsRepo{db: s.db} }

type txStore struct {
	db *gorm.DB
	// managed transactions are committed by gorm's Transaction helper
	managed bool
}

func (t *txStore) Commit() error {
	if t.managed {
		return nil
	}
	return t.db.Commit().Error
}

func (t *txStore) Rollback() error {
	if t.managed {
		return nil
	}
	return t.db.Rollback().Error
}

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, ErrNestedTx }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return ErrNestedTx
}

func (t *txStore) Users() store.Users { return &usersRepo{db: t.db} }
func (t *txStore) Roles() store.Roles { return &rolesRepo{db: t.db} }
func (t *txStore) VerificationTokens() store.VerificationTokens {
	return &verificationTokensRepo{db: t.db}
}
func (t *txStore) Settings() store.Settings { return &settingsRepo{db: t.db} }

// mapErr translates gorm errors into store sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(store.ErrAlreadyExists, err)
	default:
		return err
	}
}

// mapUpdate reports ErrNotFound for an update that touched no row.
func mapUpdate(res *gorm.DB) error {
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

func statusOrActive(s domain.Status) string {
	if s == "" {
		return string(domain.StatusActive)
	}
	return string(s)
}

var active = string(domain.StatusActive)

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/store"
	"github.com/hogwartsschoolofmagic/user/internal/user/store/drivers/sqlite/gen"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	// Write timestamps in the sqlite datetime layout so they sort as text.
	if !strings.Contains(dsn, "_time_format=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_time_format=sqlite"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// One connection: ":memory:" databases are per connection and sqlite
	// serialises writers anyway.
	db.SetMaxOpenConns(1)

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
// fn must only use tx: the pool has a single connection.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users { return &usersRepo{q: s.q} }
func (s *Store) Roles() store.Roles { return &rolesRepo{q: s.q} }
func (s *Store) VerificationTokens() store.VerificationTokens {
	return &verificationTokensRepo{q: s.q}
}
func (s *Store) Settings() store.Settings { return &settingsRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapWriteErr turns unique and primary key violations into ErrAlreadyExists.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return errors.Join(store.ErrAlreadyExists, err)
	case sqlite3.SQLITE_CONSTRAINT:
		if strings.Contains(se.Error(), "UNIQUE") {
			return errors.Join(store.ErrAlreadyExists, err)
		}
	}
	return err
}

// mapAffected reports ErrNotFound for an update that touched no row.
func mapAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
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

func mapUser(row gen.User) domain.User {
	return domain.User{
		BaseEntity: domain.BaseEntity{
			ID:      row.ID,
			Created: row.Created,
			Updated: row.Updated,
			Status:  domain.Status(row.Status),
		},
		Fullname:      row.Fullname,
		Avatar:        row.Avatar,
		Username:      row.Username,
		Email:         row.Email,
		EmailVerified: row.EmailVerified,
		Provider:      domain.Provider(row.Provider),
		ProviderID:    row.ProviderID,
		LastVisit:     mapNullTimePtr(row.LastVisit),
		PasswordHash:  row.PasswordHash,
	}
}

func mapRole(row gen.Role, privileges []gen.Privilege) domain.Role {
	r := domain.Role{
		BaseEntity: domain.BaseEntity{
			ID:      row.ID,
			Created: row.Created,
			Updated: row.Updated,
			Status:  domain.Status(row.Status),
		},
		Name: row.Name,
	}
	for _, p := range privileges {
		r.Privileges = append(r.Privileges, domain.Privilege{
			BaseEntity: domain.BaseEntity{
				ID:      p.ID,
				Created: p.Created,
				Updated: p.Updated,
				Status:  domain.Status(p.Status),
			},
			Name: p.Name,
		})
	}
	return r
}

func mapVerificationToken(row gen.VerificationToken) domain.VerificationToken {
	return domain.VerificationToken{
		BaseEntity: domain.BaseEntity{
			ID:      row.ID,
			Created: row.Created,
			Updated: row.Updated,
			Status:  domain.Status(row.Status),
		},
		Value:      row.Value,
		ExpiryDate: row.ExpiryDate,
		UserID:     row.UserID,
	}
}

func mapSetting(row gen.UserSetting) domain.UserSetting {
	return domain.UserSetting{
		BaseEntity: domain.BaseEntity{
			ID:      row.ID,
			Created: row.Created,
			Updated: row.Updated,
			Status:  domain.Status(row.Status),
		},
		Name:   row.Name,
		Value:  row.Value,
		UserID: row.UserID,
	}
}

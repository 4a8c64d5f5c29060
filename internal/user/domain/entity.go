package domain

import "time"

// Status marks soft deleted rows.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusDeleted Status = "DELETED"
)

// BaseEntity holds the columns every table shares.
type BaseEntity struct {
	ID      string // ULID
	Created time.Time
	Updated time.Time
	Status  Status
}

// Active reports whether the row is not soft deleted.
func (e BaseEntity) Active() bool { return e.Status != StatusDeleted }

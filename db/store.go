package db

import (
	"context"
	"errors"
	"time"

	"github.com/banachtech/optionmc/convergence"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// APIKey is a registered client key. Only the bcrypt hash of the key is stored.
type APIKey struct {
	Prefix    string    `json:"prefix"`
	Label     string    `json:"label"`
	Hash      []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReportInfo lists a stored convergence report without its records.
type ReportInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Store provides all functions to persist API keys and convergence reports.
type Store interface {
	CreateKey(ctx context.Context, key APIKey) error
	GetKey(ctx context.Context, prefix string) (APIKey, error)
	SaveReport(ctx context.Context, rep *convergence.Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*convergence.Report, error)
	ListReports(ctx context.Context) ([]ReportInfo, error)
}

// Open returns the store for driver "memory" or "postgres".
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemStore(), nil
	case "postgres":
		return OpenSQLStore(ctx, dsn)
	}
	return nil, errors.New("unknown store driver " + driver)
}

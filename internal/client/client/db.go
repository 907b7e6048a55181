package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pedro664/PLANTA-sub001/internal/client/migrations"
	"github.com/pedro664/PLANTA-sub001/internal/client/repositories/metadata"
	"github.com/pedro664/PLANTA-sub001/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Repositories bundles the local stores opened by InitDatabase.
type Repositories struct {
	Metadata metadata.Repository

	close func() error
}

func (r *Repositories) Close() error {
	if r == nil || r.close == nil {
		return nil
	}
	return r.close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// InitDatabase opens the configured KV backend. For sqlite dsn is a file path
// (or ":memory:"); for badger it is a directory ("" means in-memory).
func InitDatabase(ctx context.Context, backend, dsn string) (*Repositories, error) {
	switch backend {
	case "", BackendSQLite:
		return initSQLite(ctx, dsn)
	case BackendBadger:
		return initBadger(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func initSQLite(ctx context.Context, dsn string) (*Repositories, error) {
	if dsn != ":memory:" {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		close:    db.Close,
	}, nil
}

func initBadger(dir string) (*Repositories, error) {
	if dir != "" {
		if err := filex.EnsureDir(dir); err != nil {
			return nil, err
		}
	}

	db, err := metadata.OpenBadger(dir)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Metadata: metadata.NewBadgerRepository(db),
		close:    db.Close,
	}, nil
}

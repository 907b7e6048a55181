package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pedro664/PLANTA-sub001/internal/dbx"
	"github.com/pedro664/PLANTA-sub001/internal/server/models"
	"github.com/pedro664/PLANTA-sub001/internal/server/migrations"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
	// txs is nil for a repository already bound to a transaction.
	txs dbx.TxStarter
}

// NewPostgresRepository binds a repository to an open pool.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, txs: db}
}

// OpenPostgres opens dsn with the pgx stdlib driver and applies migrations.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (r *PostgresRepository) WithinTx(ctx context.Context, fn func(r Repository) error) error {
	if r.txs == nil {
		return fn(r)
	}
	return dbx.WithTx(ctx, r.txs, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// exactlyOne checks an exec result, mapping zero rows to none.
func exactlyOne(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return none
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) CreatePlant(ctx context.Context, p *models.Plant) error {
	query := `
		INSERT INTO plants (id, name, species, location, notes, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Species, p.Location, p.Notes, p.ImageURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert plant: %w", err)
	}
	return exactlyOne(res, ErrAlreadyExists)
}

func (r *PostgresRepository) GetPlant(ctx context.Context, id string) (*models.Plant, error) {
	query := `SELECT id, name, species, location, notes, image_url, created_at, updated_at
		FROM plants WHERE id = $1`
	var p models.Plant
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Species, &p.Location, &p.Notes, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select plant: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) UpdatePlant(ctx context.Context, p *models.Plant) error {
	query := `
		UPDATE plants
		SET name = $2, species = $3, location = $4, notes = $5, image_url = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Species, p.Location, p.Notes, p.ImageURL, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update plant: %w", err)
	}
	return exactlyOne(res, ErrNotFound)
}

// DeletePlant removes the plant; care logs go with it via ON DELETE CASCADE.
func (r *PostgresRepository) DeletePlant(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plant: %w", err)
	}
	return exactlyOne(res, ErrNotFound)
}

func (r *PostgresRepository) AddCareLog(ctx context.Context, l *models.CareLog) error {
	query := `
		INSERT INTO care_logs (id, plant_id, type, note, image_url, performed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, l.ID, l.PlantID, l.Type, l.Note, l.ImageURL, l.PerformedAt)
	switch pgCode(err) {
	case "":
	case pgForeignKeyViolation:
		return ErrPrecondition
	case pgUniqueViolation:
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert care log: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreatePost(ctx context.Context, p *models.Post) error {
	query := `
		INSERT INTO posts (id, author_id, body, plant_id, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.AuthorID, p.Body, p.PlantID, p.ImageURL, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return exactlyOne(res, ErrAlreadyExists)
}

func (r *PostgresRepository) PostExists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check post: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) UpsertUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, display_name, bio, avatar_url, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			display_name = EXCLUDED.display_name,
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.DisplayName, u.Bio, u.AvatarURL, u.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, display_name, bio, avatar_url, updated_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.DisplayName, &u.Bio, &u.AvatarURL, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
	if pgCode(err) == pgForeignKeyViolation {
		return false, ErrPrecondition
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	return true, nil
}

func (r *PostgresRepository) LoadMemo(ctx context.Context, key string) (*models.Memo, error) {
	m := models.Memo{Key: key}
	err := r.db.QueryRowContext(ctx,
		`SELECT method, response, created_at FROM idempotency_keys WHERE key = $1`, key).
		Scan(&m.Method, &m.Body, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select idempotency key: %w", err)
	}
	return &m, nil
}

func (r *PostgresRepository) SaveMemo(ctx context.Context, m *models.Memo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO idempotency_keys (key, method, response, created_at) VALUES ($1, $2, $3, $4)`,
		m.Key, m.Method, m.Body, m.CreatedAt)
	if pgCode(err) == pgUniqueViolation {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert idempotency key: %w", err)
	}
	return nil
}
